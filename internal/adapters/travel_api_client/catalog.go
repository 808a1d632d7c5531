package travel_api_client

import (
	"context"
	"net/url"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

var (
	_ port.TourCatalogPort   = (*Client)(nil)
	_ port.CarCatalogPort    = (*Client)(nil)
	_ port.ReviewCatalogPort = (*Client)(nil)
)

// FindTours - GET /tours. Пустые params означают весь каталог.
func (c *Client) FindTours(ctx context.Context, params url.Values) ([]domain.Tour, error) {
	clientLogger := c.logger(ctx, "FindTours")

	path := "/tours"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	items, err := getList[tourResponse](ctx, c, path, schemaTours, clientLogger)
	if err != nil {
		return nil, err
	}

	clientLogger.Info("Successfully received tours", port.Fields{"tours_count": len(items)})
	return mapSlice(items, tourResponse.toDomain), nil
}

// ListCars - GET /cars. Фильтры проката travel API не поддерживает.
func (c *Client) ListCars(ctx context.Context) ([]domain.Car, error) {
	clientLogger := c.logger(ctx, "ListCars")

	items, err := getList[carResponse](ctx, c, "/cars", schemaCars, clientLogger)
	if err != nil {
		return nil, err
	}

	clientLogger.Info("Successfully received cars", port.Fields{"cars_count": len(items)})
	return mapSlice(items, carResponse.toDomain), nil
}

func (c *Client) ListReviews(ctx context.Context) ([]domain.Review, error) {
	clientLogger := c.logger(ctx, "ListReviews")

	items, err := getList[reviewResponse](ctx, c, "/reviews", schemaReviews, clientLogger)
	if err != nil {
		return nil, err
	}

	clientLogger.Info("Successfully received reviews", port.Fields{"reviews_count": len(items)})
	return mapSlice(items, reviewResponse.toDomain), nil
}
