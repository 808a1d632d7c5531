package rest

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"
	"travel-web/internal/adapters/notifier"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
	"travel-web/internal/core/usecase"
)

type fakeToursUC struct {
	mu     sync.Mutex
	result *domain.TourListing
	err    error
	query  url.Values
}

func (f *fakeToursUC) Execute(_ context.Context, query url.Values) (*domain.TourListing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.query = query
	return f.result, f.err
}

type fakeCarsUC struct {
	result *domain.CarListing
	err    error
}

func (f *fakeCarsUC) Execute(context.Context, url.Values) (*domain.CarListing, error) {
	return f.result, f.err
}

type fakeHomeUC struct {
	page *domain.HomePage
	err  error
}

func (f *fakeHomeUC) Execute(context.Context) (*domain.HomePage, error) {
	return f.page, f.err
}

type fakeNewsletterUC struct {
	got []domain.NewsletterSubscription
	err error
}

func (f *fakeNewsletterUC) Execute(_ context.Context, sub domain.NewsletterSubscription) error {
	f.got = append(f.got, sub)
	return f.err
}

type fakeInquiryUC struct {
	got []domain.Inquiry
	err error
}

func (f *fakeInquiryUC) Execute(_ context.Context, inquiry domain.Inquiry) error {
	f.got = append(f.got, inquiry)
	return f.err
}

// fakeAuth принимает пароль "secret" и cookie session=valid.
type fakeAuth struct {
	checkErr error
}

func (f *fakeAuth) Login(_ context.Context, creds domain.Credentials) ([]*http.Cookie, error) {
	if creds.Password != "secret" {
		return nil, domain.ErrInvalidCredentials
	}
	return []*http.Cookie{{Name: "session", Value: "valid", Path: "/", HttpOnly: true}}, nil
}

func (f *fakeAuth) Logout(context.Context, []*http.Cookie) ([]*http.Cookie, error) {
	return []*http.Cookie{{Name: "session", Value: "", Path: "/", MaxAge: -1}}, nil
}

func (f *fakeAuth) Check(_ context.Context, cookies []*http.Cookie) error {
	if f.checkErr != nil {
		return f.checkErr
	}
	for _, c := range cookies {
		if c.Name == "session" && c.Value == "valid" {
			return nil
		}
	}
	return domain.ErrUnauthorized
}

type fakeTourCatalog struct {
	tours []domain.Tour
}

func (f *fakeTourCatalog) FindTours(context.Context, url.Values) ([]domain.Tour, error) {
	return f.tours, nil
}

type fakeCarCatalog struct{}

func (fakeCarCatalog) ListCars(context.Context) ([]domain.Car, error) {
	return []domain.Car{{ID: 1, Name: "VW Golf", Category: "economy", Price: 40}}, nil
}

type testEnv struct {
	tours      *fakeToursUC
	newsletter *fakeNewsletterUC
	inquiry    *fakeInquiryUC
	auth       *fakeAuth
	router     http.Handler
}

// newTestEnv собирает роутер с фейковыми use case. Живые сессии настоящие, поверх фейкового каталога.
func newTestEnv(t *testing.T, adminTarget string) *testEnv {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := contextkeys.LoggerFromContext(ctx)
	sse := notifier.NewSSENotifier(ctx, logger)
	live := usecase.NewLiveListingUseCase(
		&fakeTourCatalog{tours: []domain.Tour{
			{ID: 1, Title: "Bali", Region: "asia", Price: 150},
			{ID: 2, Title: "Alps", Region: "europe", Price: 300},
		}},
		fakeCarCatalog{}, sse, nil, time.Minute,
	)

	env := &testEnv{
		tours: &fakeToursUC{result: &domain.TourListing{
			Items:         []domain.Tour{{ID: 7, Title: "Paris weekend", Price: 500}},
			Notifications: []domain.Notification{},
		}},
		newsletter: &fakeNewsletterUC{},
		inquiry:    &fakeInquiryUC{},
		auth:       &fakeAuth{},
	}

	handlers := Handlers{
		Listing: NewListingHandler(
			&fakeHomeUC{page: &domain.HomePage{FeaturedTours: []domain.Tour{}, Reviews: []domain.Review{}, Notifications: []domain.Notification{}}},
			env.tours,
			&fakeCarsUC{result: &domain.CarListing{Items: []domain.Car{}}},
			"/travels",
		),
		Contact:        NewContactHandler(env.newsletter, env.inquiry),
		Auth:           NewAuthHandler(env.auth),
		Live:           NewLiveListingHandler(live, sse),
		AuthMiddleware: NewAuthMiddleware(env.auth),
	}
	if adminTarget != "" {
		proxy, err := NewAdminProxy(adminTarget)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		handlers.AdminProxy = proxy
	}

	env.router = NewRouter(ServerConfig{AllowedOrigins: []string{"http://localhost:5173"}}, handlers, logger)
	return env
}
