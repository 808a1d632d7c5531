package usecases_port

import (
	"context"
	"net/url"
	"travel-web/internal/core/domain"
)

type SearchCarsUseCasePort interface {
	Execute(ctx context.Context, query url.Values) (*domain.CarListing, error)
}
