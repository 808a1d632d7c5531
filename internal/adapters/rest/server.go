package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"
	"travel-web/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const (
	apiPrefix       = "/api/v1"
	adminPrefix     = apiPrefix + "/admin"
	upstreamPrefix  = "/api"
	readHeaderLimit = 10 * time.Second
)

// Handlers собирает все обработчики, которые нужны роутеру.
type Handlers struct {
	Listing *ListingHandler
	Contact *ContactHandler
	Auth    *AuthHandler
	Live    *LiveListingHandler
	// AdminProxy - прокси к travel API для админки, может быть nil
	AdminProxy     http.Handler
	AuthMiddleware *AuthMiddleware
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// Server - наш REST API сервер.
type Server struct {
	httpServer *http.Server
	logger     port.LoggerPort
}

// NewRouter настраивает middleware и маршруты. Отдельно от NewServer, чтобы тестировать через httptest.
func NewRouter(cfg ServerConfig, h Handlers, baseLogger port.LoggerPort) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token", "X-Trace-ID"},
		ExposedHeaders:   []string{"X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", Healthz)
	r.Get("/search", h.Listing.HeroSearch)

	r.Route(apiPrefix, func(r chi.Router) {
		r.Get("/home", h.Listing.GetHome)
		r.Get("/tours", h.Listing.SearchTours)
		r.Get("/cars", h.Listing.SearchCars)

		r.Post("/newsletter/subscribe", h.Contact.SubscribeNewsletter)
		r.Post("/inquiries", h.Contact.SubmitInquiry)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/check", h.Auth.Check)
		})

		// POST /live/{tours|cars} открывает сессию, остальные маршруты адресуют сессию по id
		r.Route("/live/{"+liveParam+"}", func(r chi.Router) {
			r.Post("/", h.Live.Open)
			r.Get("/", h.Live.Get)
			r.Delete("/", h.Live.Close)
			r.Get("/events", h.Live.Subscribe)
			r.Put("/criteria", h.Live.UpdateCriteria)
			r.Put("/filter", h.Live.UpdateFilter)
			r.Post("/submit", h.Live.Submit)
			r.Post("/clear", h.Live.Clear)
		})

		if h.AdminProxy != nil && h.AuthMiddleware != nil {
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware.Authenticate)
				r.Mount("/admin", h.AdminProxy)
			})
		}
	})

	return r
}

// NewServer создает новый экземпляр сервера.
func NewServer(cfg ServerConfig, h Handlers, baseLogger port.LoggerPort) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, h, baseLogger),
		ReadHeaderTimeout: readHeaderLimit,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
	}
}

// NewAdminProxy - прокси /api/v1/admin/* -> <travel API>/api/*
func NewAdminProxy(travelAPIURL string) (http.Handler, error) {
	return CreateProxy(travelAPIURL, adminPrefix, upstreamPrefix)
}

// Start запускает HTTP-сервер и блокируется до его остановки.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
