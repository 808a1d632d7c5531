package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"travel-web/internal/contextkeys"
)

func TestLoggerMiddlewareTraceID(t *testing.T) {
	var seen string
	handler := LoggerMiddleware(contextkeys.LoggerFromContext(context.Background()))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = contextkeys.TraceIDFromContext(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		keep   bool
	}{
		{name: "valid uuid is kept", header: "0b8f7a52-3c1e-4e5a-9d62-5f0c2d7e8a11", keep: true},
		{name: "garbage is replaced", header: "not-a-trace"},
		{name: "missing header is generated"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
			if tc.header != "" {
				req.Header.Set(traceHeader, tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(traceHeader)
			if got == "" || got != seen {
				t.Fatalf("\nwanted:\nsame trace id in header and context\ngot:\n%q and %q", got, seen)
			}
			if tc.keep != (got == tc.header) {
				t.Fatalf("\nwanted:\nkeep=%v for %q\ngot:\n%q", tc.keep, tc.header, got)
			}
		})
	}
}

func TestIsEventStream(t *testing.T) {
	cases := map[string]bool{
		"/api/v1/live/0b8f7a52-3c1e-4e5a-9d62-5f0c2d7e8a11/events": true,
		"/api/v1/live/0b8f7a52-3c1e-4e5a-9d62-5f0c2d7e8a11":        false,
		"/api/v1/tours": false,
	}
	for path, want := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if got := isEventStream(req); got != want {
			t.Fatalf("\nwanted:\n%v for %s\ngot:\n%v", want, path, got)
		}
	}
}
