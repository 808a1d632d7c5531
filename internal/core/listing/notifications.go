package listing

import (
	"context"
	"sync"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

// NotificationLog копит уведомления одного запроса, чтобы вернуть их вместе с ответом.
type NotificationLog struct {
	mu    sync.Mutex
	items []domain.Notification
}

var _ port.NotifierPort = (*NotificationLog)(nil)

func (l *NotificationLog) Notify(_ context.Context, n domain.Notification) {
	l.mu.Lock()
	l.items = append(l.items, n)
	l.mu.Unlock()
}

// Drain возвращает накопленные уведомления (никогда nil) и очищает журнал.
func (l *NotificationLog) Drain() []domain.Notification {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := l.items
	l.items = nil
	if out == nil {
		out = []domain.Notification{}
	}
	return out
}

// NotifierFunc - адаптер обычной функции к port.NotifierPort.
type NotifierFunc func(ctx context.Context, n domain.Notification)

func (f NotifierFunc) Notify(ctx context.Context, n domain.Notification) { f(ctx, n) }
