package listing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

// ErrSuperseded - ответ пришел для запроса, после которого уже был начат более новый.
// Такой ответ не применяется.
var ErrSuperseded = errors.New("listing request superseded by a newer one")

// FetchFailedMessage - единый текст уведомления для всех причин сбоя загрузки.
const FetchFailedMessage = "Could not load offers. Please try again."

// FetchFunc выполняет запрос к travel API с серверной частью фильтров.
type FetchFunc[T any] func(ctx context.Context, params QueryParams) ([]T, error)

// Snapshot - согласованное состояние контроллера на момент вызова.
type Snapshot[T any] struct {
	Items      []T // только для чтения
	Loading    bool
	Generation uint64 // растет при каждой успешной замене коллекции
}

// Controller владеет загруженной коллекцией и состоянием загрузки.
// Коллекция заменяется целиком; из нескольких одновременных запросов применяется
// только последний начатый, независимо от порядка прихода ответов.
type Controller[T any] struct {
	fetch    FetchFunc[T]
	notifier port.NotifierPort

	mu         sync.Mutex
	seq        uint64 // номер последнего начатого запроса
	loading    bool
	items      []T
	generation uint64
}

func NewController[T any](fetch FetchFunc[T], notifier port.NotifierPort) *Controller[T] {
	return &Controller[T]{
		fetch:    fetch,
		notifier: notifier,
		items:    []T{},
	}
}

// Search запрашивает коллекцию с параметрами params.
// При ошибке коллекция остается прежней, пользователю уходит одно уведомление,
// а возвращаемая ошибка оборачивает domain.ErrFetchFailed.
func (c *Controller[T]) Search(ctx context.Context, params QueryParams) error {
	c.mu.Lock()
	c.seq++
	requestSeq := c.seq
	c.loading = true
	c.mu.Unlock()

	items, err := c.fetch(ctx, params)

	c.mu.Lock()
	if requestSeq != c.seq {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.loading = false
	if err != nil {
		c.mu.Unlock()
		if c.notifier != nil {
			c.notifier.Notify(ctx, domain.Notification{Level: domain.NotificationError, Message: FetchFailedMessage})
		}
		return fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.generation++
	c.mu.Unlock()
	return nil
}

// FetchAll - поиск без критериев (первая загрузка и сброс фильтров).
func (c *Controller[T]) FetchAll(ctx context.Context) error {
	return c.Search(ctx, nil)
}

func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{Items: c.items, Loading: c.loading, Generation: c.generation}
}
