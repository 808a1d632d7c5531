package listing

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"
	"travel-web/internal/core/domain"
)

type fetchResult struct {
	items []domain.Tour
	err   error
}

// gatedFetch отдает ответы только по команде теста; ключ - значение параметра q.
type gatedFetch struct {
	mu      sync.Mutex
	gates   map[string]chan fetchResult
	started chan string
}

func newGatedFetch(keys ...string) *gatedFetch {
	g := &gatedFetch{gates: map[string]chan fetchResult{}, started: make(chan string, len(keys))}
	for _, k := range keys {
		g.gates[k] = make(chan fetchResult, 1)
	}
	return g
}

func (g *gatedFetch) fetch(ctx context.Context, params QueryParams) ([]domain.Tour, error) {
	key := params.Map()[ParamQuery]
	g.mu.Lock()
	gate := g.gates[key]
	g.mu.Unlock()
	g.started <- key
	select {
	case r := <-gate:
		return r.items, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func waitStarted(t *testing.T, g *gatedFetch, want string) {
	t.Helper()
	select {
	case got := <-g.started:
		if got != want {
			t.Fatalf("\nwanted:\nrequest %q started\ngot:\n%q", want, got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("request %q never started", want)
	}
}

func TestControllerSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces collection on success", func(t *testing.T) {
		fetch := func(context.Context, QueryParams) ([]domain.Tour, error) {
			return []domain.Tour{{ID: 7}, {ID: 8}}, nil
		}
		c := NewController(fetch, nil)

		if err := c.Search(ctx, BuildTourQuery(domain.TourSearchCriteria{Location: "Paris"})); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		snap := c.Snapshot()
		if !reflect.DeepEqual(tourIDs(snap.Items), []int{7, 8}) || snap.Loading || snap.Generation != 1 {
			t.Fatalf("\nwanted:\n[7 8] loading=false generation=1\ngot:\n%v loading=%v generation=%d",
				tourIDs(snap.Items), snap.Loading, snap.Generation)
		}
	})

	t.Run("failure keeps previous items and notifies once", func(t *testing.T) {
		fail := false
		fetch := func(context.Context, QueryParams) ([]domain.Tour, error) {
			if fail {
				return nil, errors.New("connection refused")
			}
			return []domain.Tour{{ID: 1}, {ID: 2}, {ID: 3}, {ID: 4}, {ID: 5}}, nil
		}
		log := &NotificationLog{}
		c := NewController(fetch, log)

		if err := c.FetchAll(ctx); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		fail = true
		err := c.Search(ctx, BuildTourQuery(domain.TourSearchCriteria{Location: "Oslo"}))
		if !errors.Is(err, domain.ErrFetchFailed) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrFetchFailed, err)
		}

		snap := c.Snapshot()
		if len(snap.Items) != 5 || snap.Loading {
			t.Fatalf("\nwanted:\n5 items, loading=false\ngot:\n%d items, loading=%v", len(snap.Items), snap.Loading)
		}

		notes := log.Drain()
		if len(notes) != 1 {
			t.Fatalf("\nwanted:\n1 notification\ngot:\n%d", len(notes))
		}
		if notes[0].Level != domain.NotificationError || notes[0].Message != FetchFailedMessage {
			t.Fatalf("\nwanted:\nerror %q\ngot:\n%+v", FetchFailedMessage, notes[0])
		}
	})

	t.Run("nil result becomes empty collection", func(t *testing.T) {
		c := NewController(func(context.Context, QueryParams) ([]domain.Tour, error) { return nil, nil }, nil)
		if err := c.FetchAll(ctx); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if items := c.Snapshot().Items; items == nil {
			t.Fatal("\nwanted:\nnon-nil empty slice\ngot:\nnil")
		}
	})
}

func TestControllerLastInitiatedWins(t *testing.T) {
	ctx := context.Background()

	t.Run("older response arriving last is discarded", func(t *testing.T) {
		g := newGatedFetch("A", "B")
		c := NewController(g.fetch, nil)

		errA := make(chan error, 1)
		go func() { errA <- c.Search(ctx, QueryParams{{Key: ParamQuery, Value: "A"}}) }()
		waitStarted(t, g, "A")

		errB := make(chan error, 1)
		go func() { errB <- c.Search(ctx, QueryParams{{Key: ParamQuery, Value: "B"}}) }()
		waitStarted(t, g, "B")

		if !c.Snapshot().Loading {
			t.Fatal("\nwanted:\nloading=true while requests are in flight\ngot:\nfalse")
		}

		g.gates["B"] <- fetchResult{items: []domain.Tour{{ID: 2}}}
		if err := <-errB; err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		g.gates["A"] <- fetchResult{items: []domain.Tour{{ID: 1}}}
		if err := <-errA; !errors.Is(err, ErrSuperseded) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrSuperseded, err)
		}

		snap := c.Snapshot()
		if !reflect.DeepEqual(tourIDs(snap.Items), []int{2}) || snap.Loading {
			t.Fatalf("\nwanted:\n[2] loading=false\ngot:\n%v loading=%v", tourIDs(snap.Items), snap.Loading)
		}
	})

	t.Run("older response arriving first does not clear loading", func(t *testing.T) {
		g := newGatedFetch("A", "B")
		c := NewController(g.fetch, nil)

		errA := make(chan error, 1)
		go func() { errA <- c.Search(ctx, QueryParams{{Key: ParamQuery, Value: "A"}}) }()
		waitStarted(t, g, "A")

		errB := make(chan error, 1)
		go func() { errB <- c.Search(ctx, QueryParams{{Key: ParamQuery, Value: "B"}}) }()
		waitStarted(t, g, "B")

		g.gates["A"] <- fetchResult{items: []domain.Tour{{ID: 1}}}
		if err := <-errA; !errors.Is(err, ErrSuperseded) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrSuperseded, err)
		}
		if snap := c.Snapshot(); !snap.Loading || len(snap.Items) != 0 {
			t.Fatalf("\nwanted:\nloading=true, no items\ngot:\nloading=%v items=%v", snap.Loading, tourIDs(snap.Items))
		}

		g.gates["B"] <- fetchResult{items: []domain.Tour{{ID: 2}, {ID: 3}}}
		if err := <-errB; err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got := tourIDs(c.Snapshot().Items); !reflect.DeepEqual(got, []int{2, 3}) {
			t.Fatalf("\nwanted:\n[2 3]\ngot:\n%v", got)
		}
	})

	t.Run("superseded failure is silent", func(t *testing.T) {
		g := newGatedFetch("A", "B")
		log := &NotificationLog{}
		c := NewController(g.fetch, log)

		errA := make(chan error, 1)
		go func() { errA <- c.Search(ctx, QueryParams{{Key: ParamQuery, Value: "A"}}) }()
		waitStarted(t, g, "A")

		errB := make(chan error, 1)
		go func() { errB <- c.Search(ctx, QueryParams{{Key: ParamQuery, Value: "B"}}) }()
		waitStarted(t, g, "B")

		g.gates["B"] <- fetchResult{items: []domain.Tour{{ID: 2}}}
		<-errB
		g.gates["A"] <- fetchResult{err: errors.New("timeout")}
		if err := <-errA; !errors.Is(err, ErrSuperseded) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", ErrSuperseded, err)
		}
		if notes := log.Drain(); len(notes) != 0 {
			t.Fatalf("\nwanted:\nno notifications\ngot:\n%+v", notes)
		}
	})
}
