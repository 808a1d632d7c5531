package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	logger_adapter "travel-web/internal/adapters/logger"
	"travel-web/internal/adapters/notifier"
	rabbitmq_adapter "travel-web/internal/adapters/rabbitmq"
	"travel-web/internal/adapters/rest"
	"travel-web/internal/adapters/travel_api_client"
	"travel-web/internal/configs"
	"travel-web/internal/contextkeys"
	"travel-web/internal/core/port"
	"travel-web/internal/core/usecase"
	fluentlogger "travel-web/pkg/fluent_logger"
	"travel-web/pkg/rabbitmq/rabbitmq_common"
	"travel-web/pkg/rabbitmq/rabbitmq_producer"

	"github.com/fluent/fluent-logger-golang/fluent"
)

const (
	shutdownTimeout        = 10 * time.Second
	rabbitReconnectTimeout = 5 * time.Second
)

// App - основная структура приложения
type App struct {
	config       *configs.AppConfig
	logger       port.LoggerPort
	fluentClient *fluent.Fluent

	appCtx    context.Context
	cancelApp context.CancelFunc

	apiServer   *rest.Server
	liveUC      *usecase.LiveListingUseCase
	sseNotifier *notifier.SSENotifier

	rabbitConn    *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
}

// NewApp создает и настраивает все компоненты приложения
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// инициализация логеров
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: true,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
			Async:     true,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit adapter", err, nil)
			fluentClient.Close()
			return nil, err
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiLoggerAdapter(activeLoggers...)
	if err != nil {
		return nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Debug("Logger system initialized", port.Fields{
		"active_loggers": len(activeLoggers), "fluent_enabled": appConfig.FluentBit.Enabled,
	})

	app := &App{
		config:       appConfig,
		logger:       appLogger,
		fluentClient: fluentClient,
	}
	app.appCtx, app.cancelApp = context.WithCancel(context.Background())

	// исходящие адаптеры
	travelClient, err := travel_api_client.NewClient(appConfig.TravelAPI.URL, appConfig.TravelAPI.Timeout)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create travel api client: %w", err)
	}
	appLogger.Debug("Travel API client initialized", port.Fields{"target_url": appConfig.TravelAPI.URL})

	// события поиска в RabbitMQ необязательны: без них сайт работает так же
	var searchPublisher port.SearchEventPublisherPort
	if appConfig.RabbitMQ.Enabled {
		searchPublisher, err = app.initSearchPublisher(baseLogger)
		if err != nil {
			app.cleanup()
			return nil, err
		}
	}

	app.sseNotifier = notifier.NewSSENotifier(app.appCtx, baseLogger)

	// use cases
	homeUC := usecase.NewGetHomeUseCase(travelClient, travelClient)
	toursUC := usecase.NewSearchToursUseCase(travelClient, searchPublisher)
	carsUC := usecase.NewSearchCarsUseCase(travelClient, searchPublisher)
	newsletterUC := usecase.NewSubscribeNewsletterUseCase(travelClient)
	inquiryUC := usecase.NewSubmitInquiryUseCase(travelClient)
	app.liveUC = usecase.NewLiveListingUseCase(travelClient, travelClient, app.sseNotifier, searchPublisher, appConfig.LiveSession.TTL)

	adminProxy, err := rest.NewAdminProxy(appConfig.TravelAPI.URL)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	handlers := rest.Handlers{
		Listing:        rest.NewListingHandler(homeUC, toursUC, carsUC, appConfig.Rest.ToursPagePath),
		Contact:        rest.NewContactHandler(newsletterUC, inquiryUC),
		Auth:           rest.NewAuthHandler(travelClient),
		Live:           rest.NewLiveListingHandler(app.liveUC, app.sseNotifier),
		AdminProxy:     adminProxy,
		AuthMiddleware: rest.NewAuthMiddleware(travelClient),
	}
	app.apiServer = rest.NewServer(rest.ServerConfig{
		Port:           appConfig.Rest.PORT,
		AllowedOrigins: appConfig.Rest.CorsAllowedOrigins,
	}, handlers, baseLogger)

	appLogger.Info("Application initialized", nil)
	return app, nil
}

func (a *App) initSearchPublisher(baseLogger port.LoggerPort) (port.SearchEventPublisherPort, error) {
	rabbitLogger := rabbitmq_adapter.NewPkgLoggerBridge(baseLogger.WithFields(port.Fields{"component": "rabbitmq"}))

	connManager, err := rabbitmq_common.NewConnectionManager(a.config.RabbitMQ.URL, rabbitReconnectTimeout, rabbitLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	a.rabbitConn = connManager

	producer, err := rabbitmq_producer.NewPublisher(a.appCtx, rabbitmq_producer.PublisherConfig{
		ExchangeName:             a.config.RabbitMQ.ExchangeName,
		ExchangeType:             "topic",
		DurableExchange:          true,
		DeclareExchangeIfMissing: true,
		Logger:                   rabbitLogger,
	}, connManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create search events producer: %w", err)
	}
	a.eventProducer = producer

	publisher, err := rabbitmq_adapter.NewSearchEventPublisher(producer)
	if err != nil {
		return nil, err
	}
	a.logger.Info("Search events publisher initialized", port.Fields{"exchange": a.config.RabbitMQ.ExchangeName})
	return publisher, nil
}

// Run запускает приложение и управляет его жизненным циклом
func (a *App) Run() error {
	defer a.cleanup()

	a.logger.Info("Application is starting...", nil)

	go a.liveUC.RunReaper(contextkeys.ContextWithLogger(a.appCtx, a.logger))

	serverErrors := make(chan error, 1)
	go func() {
		if err := a.apiServer.Start(); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received OS signal, shutting down...", port.Fields{"signal": receivedSignal.String()})
	case err := <-serverErrors:
		a.logger.Error("HTTP server failed, shutting down", err, nil)
		runErr = err
	}

	// сначала закрываем SSE-потоки, иначе Shutdown будет ждать их до таймаута
	a.cancelApp()
	<-a.sseNotifier.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.apiServer.Stop(ctx); err != nil {
		a.logger.Error("Error during API server shutdown", err, nil)
	}

	return runErr
}

// cleanup освобождает внешние ресурсы. Вызывается и при неудачной инициализации.
func (a *App) cleanup() {
	if a.cancelApp != nil {
		a.cancelApp()
	}

	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.rabbitConn != nil {
		if err := a.rabbitConn.Close(); err != nil {
			a.logger.Error("Error closing rabbitmq connection", err, nil)
		}
	}

	a.logger.Info("Application shut down gracefully.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			// fluent может быть уже недоступен, пишем в stdout
			fmt.Printf("ERROR: Error closing fluent client: %v\n", err)
		}
	}
}
