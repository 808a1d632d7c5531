package rest

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"travel-web/internal/contextkeys"
)

// CreateProxy создает обратный прокси к travel API.
// У пути входящего запроса отрезается stripPrefix и добавляется pathPrefix:
// /api/v1/admin/tours/3 -> /api/tours/3. Cookie и query string уходят как есть.
func CreateProxy(targetURL, stripPrefix, pathPrefix string) (http.Handler, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid proxy target url: %q", targetURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)

	proxy.Director = func(req *http.Request) {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.Host = target.Host

		// req.URL.Path не содержит query-параметров, они в req.URL.RawQuery
		trimmed := strings.TrimPrefix(req.URL.Path, stripPrefix)
		req.URL.Path = strings.TrimRight(target.Path, "/") + pathPrefix + trimmed
		req.URL.RawPath = ""

		if traceID := contextkeys.TraceIDFromContext(req.Context()); traceID != "" {
			req.Header.Set("X-Trace-ID", traceID)
		}
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		contextkeys.LoggerFromContext(r.Context()).Error("Proxy request failed", err, nil)
		WriteJSONError(w, http.StatusBadGateway, "Travel API unavailable")
	}

	return proxy, nil
}
