package usecases_port

import (
	"context"
	"net/url"
	"travel-web/internal/core/domain"

	"github.com/google/uuid"
)

// LiveListingUseCasePort управляет страницами, которые живут на сервере между запросами.
// Изменения состояния доставляются подписчикам сессии через SSE.
type LiveListingUseCasePort interface {
	// Open создает сессию и выполняет первую загрузку. Уведомления первой загрузки
	// возвращаются в ответе, все последующие только через подписку.
	Open(ctx context.Context, kind domain.ListingKind, query url.Values) (*domain.LiveListing, error)
	View(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error)
	// Resync ставит текущее состояние в очередь подписчиков после всех уже разосланных.
	Resync(ctx context.Context, id uuid.UUID) error
	// UpdateCriteria принимает JSON формы поиска соответствующего типа страницы.
	UpdateCriteria(ctx context.Context, id uuid.UUID, raw []byte) (*domain.LiveListing, error)
	UpdateFilter(ctx context.Context, id uuid.UUID, raw []byte) (*domain.LiveListing, error)
	Submit(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error)
	Clear(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error)
	Close(ctx context.Context, id uuid.UUID) error
}
