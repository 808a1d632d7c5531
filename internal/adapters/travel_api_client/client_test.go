package travel_api_client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	return client
}

func TestFindTours(t *testing.T) {
	t.Run("sends query and trace id, maps nulls", func(t *testing.T) {
		var gotPath, gotQuery, gotTrace string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			gotTrace = r.Header.Get("X-Trace-ID")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[
				{"id":1,"title":"Paris weekend","location":"Paris","price":500,"region":"europe","startDate":null,"isActive":true,"featured":false},
				{"id":2,"title":"Bali","price":300.5,"description":null,"rating":4.5,"reviews":12}
			]`))
		})

		ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-123")
		tours, err := client.FindTours(ctx, url.Values{"q": {"Paris"}, "guests": {"2"}})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if gotPath != "/api/tours" {
			t.Fatalf("\nwanted:\n/api/tours\ngot:\n%s", gotPath)
		}
		parsed, _ := url.ParseQuery(gotQuery)
		if parsed.Get("q") != "Paris" || parsed.Get("guests") != "2" || len(parsed) != 2 {
			t.Fatalf("\nwanted:\nq=Paris guests=2\ngot:\n%s", gotQuery)
		}
		if gotTrace != "trace-123" {
			t.Fatalf("\nwanted:\ntrace-123\ngot:\n%s", gotTrace)
		}

		if len(tours) != 2 {
			t.Fatalf("\nwanted:\n2 tours\ngot:\n%d", len(tours))
		}
		if tours[0].Location != "Paris" || tours[0].StartDate != "" || tours[0].Region != "europe" {
			t.Fatalf("\nwanted:\nmapped tour\ngot:\n%+v", tours[0])
		}
		if !tours[1].IsActive || tours[1].Rating != 4.5 || tours[1].Reviews != 12 || tours[1].Price != 300.5 {
			t.Fatalf("\nwanted:\ndefaults applied\ngot:\n%+v", tours[1])
		}
	})

	t.Run("no parameters means no query string", func(t *testing.T) {
		var rawQuery = "unset"
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			rawQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`[]`))
		})

		tours, err := client.FindTours(context.Background(), nil)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if rawQuery != "" || tours == nil || len(tours) != 0 {
			t.Fatalf("\nwanted:\nempty query and empty slice\ngot:\n%q %#v", rawQuery, tours)
		}
	})

	t.Run("non-2xx is a status error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"db down"}`, http.StatusInternalServerError)
		})

		_, err := client.FindTours(context.Background(), nil)
		var statusErr *StatusError
		if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusInternalServerError {
			t.Fatalf("\nwanted:\nStatusError 500\ngot:\n%v", err)
		}
	})

	t.Run("unexpected shape is malformed", func(t *testing.T) {
		cases := []string{
			`{"tours":[]}`,
			`[{"id":"one","title":"x","price":1}]`,
			`[{"id":1,"price":1}]`,
			`not json`,
		}
		for _, body := range cases {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			if _, err := client.FindTours(context.Background(), nil); !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("\nwanted:\n%v for %s\ngot:\n%v", ErrMalformedResponse, body, err)
			}
		}
	})
}

func TestListCarsAndReviews(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/cars":
			_, _ = w.Write([]byte(`[{"id":1,"name":"VW Golf","category":"economy","price":40,"seats":5,"transmission":"manual","features":["AC"," ",""],"isReserved":false}]`))
		case "/api/reviews":
			_, _ = w.Write([]byte(`[{"id":9,"nickname":"Sarah","location":null,"rating":5,"text":"Great","date":"2025-01-01T10:00:00","tourId":null}]`))
		default:
			http.NotFound(w, r)
		}
	})

	cars, err := client.ListCars(context.Background())
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if len(cars) != 1 || cars[0].Seats != 5 || len(cars[0].Features) != 1 || !cars[0].IsActive {
		t.Fatalf("\nwanted:\nmapped car\ngot:\n%+v", cars)
	}

	reviews, err := client.ListReviews(context.Background())
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	if len(reviews) != 1 || reviews[0].Nickname != "Sarah" || reviews[0].TourID != nil {
		t.Fatalf("\nwanted:\nmapped review\ngot:\n%+v", reviews)
	}
}

func TestSubmitInquiry(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/inquiries" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	err := client.SubmitInquiry(context.Background(), domain.Inquiry{
		Email: "a@b.c", ItemType: "tour", ItemID: "7", ItemTitle: "Alps",
	})
	if err != nil {
		t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
	}
	want := map[string]string{"email": "a@b.c", "type": "tour", "id": "7", "itemTitle": "Alps"}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("\nwanted:\n%s=%s\ngot:\n%v", k, v, got)
		}
	}
}

func TestAuth(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body loginRequest
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
				return
			}
			http.SetCookie(w, &http.Cookie{Name: "access_token_cookie", Value: "jwt", Path: "/", HttpOnly: true})
			_, _ = w.Write([]byte(`{"message":"Login successful"}`))
		case "/api/auth/check":
			if c, err := r.Cookie("access_token_cookie"); err != nil || c.Value != "jwt" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"status":"authenticated"}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	t.Run("wrong password", func(t *testing.T) {
		if _, err := client.Login(ctx, domain.Credentials{Username: "admin", Password: "nope"}); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrInvalidCredentials, err)
		}
	})

	t.Run("login relays cookie that passes check", func(t *testing.T) {
		cookies, err := client.Login(ctx, domain.Credentials{Username: "admin", Password: "secret"})
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if len(cookies) != 1 || cookies[0].Name != "access_token_cookie" {
			t.Fatalf("\nwanted:\naccess_token_cookie\ngot:\n%v", cookies)
		}
		if err := client.Check(ctx, cookies); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
	})

	t.Run("check without valid cookie", func(t *testing.T) {
		if err := client.Check(ctx, nil); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrUnauthorized, err)
		}
		stale := []*http.Cookie{{Name: "access_token_cookie", Value: "expired"}}
		if err := client.Check(ctx, stale); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("\nwanted:\n%v\ngot:\n%v", domain.ErrUnauthorized, err)
		}
	})
}
