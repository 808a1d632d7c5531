package port

import (
	"context"
	"net/url"
	"travel-web/internal/core/domain"
)

// TourCatalogPort - чтение туров из travel API.
type TourCatalogPort interface {
	// FindTours передает params в query string как есть.
	FindTours(ctx context.Context, params url.Values) ([]domain.Tour, error)
}

// CarCatalogPort - чтение автомобилей. Серверной фильтрации у travel API нет.
type CarCatalogPort interface {
	ListCars(ctx context.Context) ([]domain.Car, error)
}

type ReviewCatalogPort interface {
	ListReviews(ctx context.Context) ([]domain.Review, error)
}
