package usecases_port

import (
	"context"
	"net/url"
	"travel-web/internal/core/domain"
)

type SearchToursUseCasePort interface {
	// query - входящий адрес страницы: критерии поиска и локальные фильтры
	Execute(ctx context.Context, query url.Values) (*domain.TourListing, error)
}
