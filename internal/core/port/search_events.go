package port

import (
	"context"
	"travel-web/internal/core/domain"
)

// SearchEventPublisherPort - отправка событий о поисках во внешнюю шину.
type SearchEventPublisherPort interface {
	PublishSearchSubmitted(ctx context.Context, event domain.SearchSubmitted) error
}
