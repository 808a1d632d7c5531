package port

import (
	"context"
	"travel-web/internal/core/domain"

	"github.com/google/uuid"
)

// NotifierPort - показать пользователю всплывающее сообщение.
type NotifierPort interface {
	Notify(ctx context.Context, n domain.Notification)
}

// Типы событий живой сессии.
const (
	ListingEventView         = "listing"
	ListingEventNotification = "notification"
	ListingEventClosed       = "closed"
)

// ListingEvent - событие для подписчиков живой сессии.
type ListingEvent struct {
	SessionID uuid.UUID
	Type      string
	Data      interface{}
}

// ListingNotifierPort - доставка событий живой сессии в браузер (SSE).
type ListingNotifierPort interface {
	Publish(ctx context.Context, event ListingEvent)
}
