package usecase

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/port"
)

var errUpstream = errors.New("upstream returned status 503")

type fakeTours struct {
	mu    sync.Mutex
	tours []domain.Tour
	err   error
	calls []url.Values
}

func (f *fakeTours) FindTours(_ context.Context, params url.Values) ([]domain.Tour, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	return f.tours, nil
}

func (f *fakeTours) setErr(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

type fakeCars struct {
	cars []domain.Car
	err  error
}

func (f *fakeCars) ListCars(context.Context) ([]domain.Car, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.cars, nil
}

type fakeReviews struct {
	reviews []domain.Review
	err     error
}

func (f *fakeReviews) ListReviews(context.Context) ([]domain.Review, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.reviews, nil
}

type fakeContact struct {
	subs      []domain.NewsletterSubscription
	inquiries []domain.Inquiry
	err       error
}

func (f *fakeContact) SubscribeNewsletter(_ context.Context, sub domain.NewsletterSubscription) error {
	f.subs = append(f.subs, sub)
	return f.err
}

func (f *fakeContact) SubmitInquiry(_ context.Context, inquiry domain.Inquiry) error {
	f.inquiries = append(f.inquiries, inquiry)
	return f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []domain.SearchSubmitted
	err    error
}

func (f *fakePublisher) PublishSearchSubmitted(_ context.Context, event domain.SearchSubmitted) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []port.ListingEvent
}

func (r *recordingNotifier) Publish(_ context.Context, event port.ListingEvent) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *recordingNotifier) ofType(eventType string) []port.ListingEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []port.ListingEvent
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func testTours() []domain.Tour {
	return []domain.Tour{
		{ID: 1, Title: "Alps", Region: "europe", Price: 300, Featured: true},
		{ID: 2, Title: "Bali", Region: "asia", Price: 150},
		{ID: 3, Title: "Rome", Region: "europe", Price: 200},
	}
}

func testCars() []domain.Car {
	return []domain.Car{
		{ID: 1, Name: "VW Golf", Category: "economy", Transmission: "manual", Seats: 5, Price: 40},
		{ID: 2, Name: "BMW X5", Category: "suv", Transmission: "automatic", Seats: 5, Price: 90},
	}
}

// gatedTours отвечает на запрос с q из gates только после записи в канал;
// остальные запросы сразу получают initial.
type gatedTours struct {
	initial []domain.Tour
	started chan string
	gates   map[string]chan []domain.Tour
}

func newGatedTours(initial []domain.Tour, queries ...string) *gatedTours {
	g := &gatedTours{
		initial: initial,
		started: make(chan string, len(queries)),
		gates:   make(map[string]chan []domain.Tour, len(queries)),
	}
	for _, q := range queries {
		g.gates[q] = make(chan []domain.Tour)
	}
	return g
}

func (g *gatedTours) FindTours(ctx context.Context, params url.Values) ([]domain.Tour, error) {
	q := params.Get("q")
	gate, ok := g.gates[q]
	if !ok {
		return g.initial, nil
	}
	g.started <- q
	select {
	case tours := <-gate:
		return tours, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedTours) waitStarted(t *testing.T, q string) {
	t.Helper()
	select {
	case got := <-g.started:
		if got != q {
			t.Fatalf("\nwanted:\nrequest %s started\ngot:\n%s", q, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("\nwanted:\nrequest %s started\ngot:\ntimeout", q)
	}
}

// holdingNotifier задерживает следующее событие listing, пока тест его не отпустит.
type holdingNotifier struct {
	recordingNotifier

	holdMu  sync.Mutex
	armed   bool
	held    chan struct{}
	release chan struct{}
}

func newHoldingNotifier() *holdingNotifier {
	return &holdingNotifier{held: make(chan struct{}), release: make(chan struct{})}
}

func (h *holdingNotifier) holdNextView() {
	h.holdMu.Lock()
	h.armed = true
	h.holdMu.Unlock()
}

func (h *holdingNotifier) Publish(ctx context.Context, event port.ListingEvent) {
	h.holdMu.Lock()
	hold := h.armed && event.Type == port.ListingEventView
	if hold {
		h.armed = false
	}
	h.holdMu.Unlock()

	if hold {
		h.held <- struct{}{}
		<-h.release
	}
	h.recordingNotifier.Publish(ctx, event)
}

func pushedTourIDs(event port.ListingEvent) ([]int, uint64) {
	view, ok := event.Data.(*domain.LiveListing)
	if !ok || view.Tours == nil {
		return nil, 0
	}
	ids := make([]int, 0, len(view.Tours.Items))
	for _, tour := range view.Tours.Items {
		ids = append(ids, tour.ID)
	}
	return ids, view.Tours.Generation
}
