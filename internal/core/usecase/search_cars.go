package usecase

import (
	"context"
	"errors"
	"net/url"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/listing"
	"travel-web/internal/core/port"
)

type SearchCarsUseCase struct {
	catalog   port.CarCatalogPort
	publisher port.SearchEventPublisherPort
}

func NewSearchCarsUseCase(catalog port.CarCatalogPort, publisher port.SearchEventPublisherPort) *SearchCarsUseCase {
	return &SearchCarsUseCase{catalog: catalog, publisher: publisher}
}

// Execute загружает весь каталог и применяет локальные фильтры из query.
// Адрес страницы проката всегда пустой.
func (uc *SearchCarsUseCase) Execute(ctx context.Context, query url.Values) (*domain.CarListing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SearchCars",
	})
	ucLogger.Info("Use case started", nil)

	notes := &listing.NotificationLog{}
	page := listing.NewCarPage(uc.catalog, notes)

	if err := page.Mount(ctx, query); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !errors.Is(err, domain.ErrFetchFailed) {
			ucLogger.Error("Unexpected listing error", err, nil)
			return nil, err
		}
		ucLogger.Warn("Cars fetch failed, returning empty listing", port.Fields{"error": err.Error()})
	}

	filter := listing.ParseCarFilter(query)
	page.SetFilter(filter)

	publishSearchSubmitted(ctx, uc.publisher, ucLogger, domain.ListingCars, domain.SearchTriggerLoad, carFilterParams(filter))

	result := carListingFromView(page.View(), notes.Drain())
	ucLogger.Info("Use case finished successfully", port.Fields{"items": len(result.Items)})
	return result, nil
}

func carListingFromView(v listing.CarView, notes []domain.Notification) *domain.CarListing {
	return &domain.CarListing{
		Criteria:      v.Criteria,
		Filter:        v.Filter,
		Address:       v.Address,
		Items:         v.Items,
		Loading:       v.Loading,
		Generation:    v.Generation,
		Notifications: notes,
	}
}
