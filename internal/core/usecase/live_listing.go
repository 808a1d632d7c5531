package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/listing"
	"travel-web/internal/core/port"

	"github.com/google/uuid"
)

// liveSession - одна открытая страница. Заполнено ровно одно из tours/cars.
type liveSession struct {
	id    uuid.UUID
	kind  domain.ListingKind
	tours *listing.TourPage
	cars  *listing.CarPage

	// pubMu держится от снимка до постановки в очередь: подписчик получает
	// виды в том порядке, в котором они снимались
	pubMu sync.Mutex

	mu       sync.Mutex
	lastSeen time.Time
	// mountNotes копит уведомления первой загрузки: подписчиков у сессии еще нет
	mountNotes *listing.NotificationLog
}

func (s *liveSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *liveSession) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *liveSession) recordMountNote(ctx context.Context, n domain.Notification) {
	s.mu.Lock()
	notes := s.mountNotes
	s.mu.Unlock()
	if notes != nil {
		notes.Notify(ctx, n)
	}
}

func (s *liveSession) takeMountNotes() []domain.Notification {
	s.mu.Lock()
	notes := s.mountNotes
	s.mountNotes = nil
	s.mu.Unlock()
	if notes == nil {
		return []domain.Notification{}
	}
	return notes.Drain()
}

// LiveListingUseCase держит страницы списков между запросами.
// Каждая примененная загрузка и каждое уведомление уходят подписчикам сессии.
type LiveListingUseCase struct {
	tours     port.TourCatalogPort
	cars      port.CarCatalogPort
	notifier  port.ListingNotifierPort
	publisher port.SearchEventPublisherPort
	ttl       time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*liveSession
}

func NewLiveListingUseCase(
	tours port.TourCatalogPort,
	cars port.CarCatalogPort,
	notifier port.ListingNotifierPort,
	publisher port.SearchEventPublisherPort,
	ttl time.Duration,
) *LiveListingUseCase {
	return &LiveListingUseCase{
		tours:     tours,
		cars:      cars,
		notifier:  notifier,
		publisher: publisher,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[uuid.UUID]*liveSession),
	}
}

func (uc *LiveListingUseCase) Open(ctx context.Context, kind domain.ListingKind, query url.Values) (*domain.LiveListing, error) {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "LiveListingOpen",
		"kind":     kind,
	})

	s := &liveSession{
		id:         uuid.New(),
		kind:       kind,
		lastSeen:   uc.now(),
		mountNotes: &listing.NotificationLog{},
	}
	sessionNotifier := listing.NotifierFunc(func(ctx context.Context, n domain.Notification) {
		s.recordMountNote(ctx, n)
		uc.push(ctx, s.id, port.ListingEventNotification, n)
	})

	switch kind {
	case domain.ListingTours:
		s.tours = listing.NewTourPage(uc.tours, sessionNotifier)
	case domain.ListingCars:
		s.cars = listing.NewCarPage(uc.cars, sessionNotifier)
	default:
		return nil, domain.ErrUnknownListingKind
	}

	uc.mu.Lock()
	uc.sessions[s.id] = s
	uc.mu.Unlock()

	ucLogger.Info("Live session opened", port.Fields{"session_id": s.id})

	_, err := uc.apply(ctx, s, func(ctx context.Context) error {
		// Mount сбрасывает фильтры, поэтому фильтры из ссылки ставятся после него
		if s.tours != nil {
			err := s.tours.Mount(ctx, query)
			s.tours.SetFilter(listing.ParseTourFilter(query))
			return err
		}
		err := s.cars.Mount(ctx, query)
		s.cars.SetFilter(listing.ParseCarFilter(query))
		return err
	})
	if err != nil {
		uc.mu.Lock()
		delete(uc.sessions, s.id)
		uc.mu.Unlock()
		return nil, err
	}

	view := uc.snapshot(s)
	notes := s.takeMountNotes()
	if view.Tours != nil {
		view.Tours.Notifications = notes
	} else {
		view.Cars.Notifications = notes
	}
	return view, nil
}

func (uc *LiveListingUseCase) View(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	return uc.snapshot(s), nil
}

// Resync заново рассылает текущее состояние подписчикам сессии.
func (uc *LiveListingUseCase) Resync(ctx context.Context, id uuid.UUID) error {
	s, err := uc.session(id)
	if err != nil {
		return err
	}
	uc.publishView(ctx, s)
	return nil
}

// UpdateCriteria накладывает JSON поверх текущей формы поиска. Запроса к travel API нет.
func (uc *LiveListingUseCase) UpdateCriteria(ctx context.Context, id uuid.UUID, raw []byte) (*domain.LiveListing, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	if s.tours != nil {
		criteria := s.tours.Criteria()
		if err := json.Unmarshal(raw, &criteria); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		s.tours.SetCriteria(criteria)
	} else {
		criteria := s.cars.Criteria()
		if err := json.Unmarshal(raw, &criteria); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		s.cars.SetCriteria(criteria)
	}

	return uc.snapshot(s), nil
}

// UpdateFilter меняет локальные фильтры и рассылает пересчитанный список.
func (uc *LiveListingUseCase) UpdateFilter(ctx context.Context, id uuid.UUID, raw []byte) (*domain.LiveListing, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	if s.tours != nil {
		filter := s.tours.Filter()
		if err := json.Unmarshal(raw, &filter); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		filter.Sort = domain.ParseSortOrder(string(filter.Sort))
		s.tours.SetFilter(filter)
	} else {
		filter := s.cars.Filter()
		if err := json.Unmarshal(raw, &filter); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		filter.Sort = domain.ParseSortOrder(string(filter.Sort))
		s.cars.SetFilter(filter)
	}

	return uc.publishView(ctx, s), nil
}

// Submit - явный поиск. Если пока шел запрос был начат более новый, ответ не применяется
// и возвращается текущее состояние.
func (uc *LiveListingUseCase) Submit(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}
	logger := contextkeys.LoggerFromContext(ctx)

	var submitted map[string]string
	superseded, err := uc.apply(ctx, s, func(ctx context.Context) error {
		if s.tours != nil {
			params, err := s.tours.SubmitParams(ctx)
			submitted = params.Map()
			return err
		}
		submitted = carFilterParams(s.cars.Filter())
		return s.cars.Submit(ctx)
	})
	if err != nil {
		return nil, err
	}

	// о вытесненном поиске не сообщаем: его ответ не был показан
	if !superseded {
		publishSearchSubmitted(ctx, uc.publisher, logger, s.kind, domain.SearchTriggerSubmit, submitted)
	}
	return uc.snapshot(s), nil
}

func (uc *LiveListingUseCase) Clear(ctx context.Context, id uuid.UUID) (*domain.LiveListing, error) {
	s, err := uc.session(id)
	if err != nil {
		return nil, err
	}

	_, err = uc.apply(ctx, s, func(ctx context.Context) error {
		if s.tours != nil {
			return s.tours.Clear(ctx)
		}
		return s.cars.Clear(ctx)
	})
	if err != nil {
		return nil, err
	}
	return uc.snapshot(s), nil
}

func (uc *LiveListingUseCase) Close(ctx context.Context, id uuid.UUID) error {
	uc.mu.Lock()
	_, ok := uc.sessions[id]
	delete(uc.sessions, id)
	uc.mu.Unlock()

	if !ok {
		return domain.ErrSessionNotFound
	}
	uc.push(ctx, id, port.ListingEventClosed, nil)
	contextkeys.LoggerFromContext(ctx).Info("Live session closed", port.Fields{"session_id": id})
	return nil
}

// RunReaper закрывает сессии без активности дольше ttl. Работает до отмены ctx.
func (uc *LiveListingUseCase) RunReaper(ctx context.Context) {
	interval := uc.ttl / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			uc.reapIdle(ctx)
		}
	}
}

func (uc *LiveListingUseCase) reapIdle(ctx context.Context) int {
	deadline := uc.now().Add(-uc.ttl)

	uc.mu.Lock()
	var expired []uuid.UUID
	for id, s := range uc.sessions {
		if s.idleSince().Before(deadline) {
			expired = append(expired, id)
			delete(uc.sessions, id)
		}
	}
	uc.mu.Unlock()

	for _, id := range expired {
		uc.push(ctx, id, port.ListingEventClosed, nil)
	}
	if len(expired) > 0 {
		contextkeys.LoggerFromContext(ctx).Info("Idle live sessions reaped", port.Fields{"count": len(expired)})
	}
	return len(expired)
}

func (uc *LiveListingUseCase) session(id uuid.UUID) (*liveSession, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[id]
	uc.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	s.touch(uc.now())
	return s, nil
}

// apply выполняет загрузку и рассылает результат. superseded означает, что пока шел
// запрос, был начат более новый: ответ не применен и ничего не разослано.
// Загрузка не отменяется, если клиент оборвал HTTP-запрос: ответ все равно придет через SSE.
func (uc *LiveListingUseCase) apply(ctx context.Context, s *liveSession, run func(ctx context.Context) error) (superseded bool, err error) {
	err = run(context.WithoutCancel(ctx))
	switch {
	case err == nil, errors.Is(err, domain.ErrFetchFailed):
		uc.publishView(ctx, s)
		return false, nil
	case errors.Is(err, listing.ErrSuperseded):
		// новый запрос сам разошлет свое состояние
		return true, nil
	default:
		return false, err
	}
}

func (uc *LiveListingUseCase) publishView(ctx context.Context, s *liveSession) *domain.LiveListing {
	s.pubMu.Lock()
	defer s.pubMu.Unlock()

	view := uc.snapshot(s)
	uc.push(ctx, s.id, port.ListingEventView, view)
	return view
}

func (uc *LiveListingUseCase) snapshot(s *liveSession) *domain.LiveListing {
	out := &domain.LiveListing{SessionID: s.id, Kind: s.kind}
	if s.tours != nil {
		out.Tours = tourListingFromView(s.tours.View(), []domain.Notification{})
	} else {
		out.Cars = carListingFromView(s.cars.View(), []domain.Notification{})
	}
	return out
}

func (uc *LiveListingUseCase) push(ctx context.Context, id uuid.UUID, eventType string, data interface{}) {
	if uc.notifier == nil {
		return
	}
	// событие не теряется, если клиент уже оборвал HTTP-запрос
	uc.notifier.Publish(context.WithoutCancel(ctx), port.ListingEvent{SessionID: id, Type: eventType, Data: data})
}
