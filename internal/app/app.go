package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.uber.org/zap"

	"github.com/Nazarious-ucu/weather-details/internal/config"
	handlers "github.com/Nazarious-ucu/weather-details/internal/handlers/http"
	"github.com/Nazarious-ucu/weather-details/internal/models"
	redisRepo "github.com/Nazarious-ucu/weather-details/internal/repository/redis"
	sqliteRepo "github.com/Nazarious-ucu/weather-details/internal/repository/sqlite"
	"github.com/Nazarious-ucu/weather-details/internal/services/cache"
	"github.com/Nazarious-ucu/weather-details/internal/services/fetcher"
	"github.com/Nazarious-ucu/weather-details/internal/services/lastcity"
	"github.com/Nazarious-ucu/weather-details/internal/services/location"
	httpLogger "github.com/Nazarious-ucu/weather-details/internal/services/logger"
	metricsSvc "github.com/Nazarious-ucu/weather-details/internal/services/metrics"
	"github.com/Nazarious-ucu/weather-details/internal/services/weather"
	fLogger "github.com/Nazarious-ucu/weather-details/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type secretStore interface {
	Save(ctx context.Context, service, account, value string) error
	Fetch(ctx context.Context, service, account string) (string, error)
	Update(ctx context.Context, service, account, value string) error
}

type locator interface {
	Locate(ctx context.Context) <-chan models.Location
}

// ServiceContainer holds initialized dependencies for the HTTP shell.
type ServiceContainer struct {
	WeatherService *weather.Service
	Router         *gin.Engine
	Srv            *http.Server

	store      io.Closer
	fileLogger *zap.Logger
}

// App ties together config, logger, and metrics for startup/shutdown.
type App struct {
	cfg config.Config
	l   zerolog.Logger
	m   *metricsSvc.Metrics
}

func New(cfg config.Config, logger zerolog.Logger, met *metricsSvc.Metrics) *App {
	return &App{
		cfg: cfg,
		l:   logger,
		m:   met,
	}
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	container, err := a.Init(ctx)
	if err != nil {
		return err
	}

	go func() {
		a.l.Info().Str("address", container.Srv.Addr).Msg("weather details server running")
		if serveErr := container.Srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.l.Error().Err(serveErr).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	a.l.Info().Msg("shutdown signal received, stopping weather details service")

	if err := a.Shutdown(container); err != nil {
		a.l.Error().Err(err).Msg("failed to shutdown application")
		return err
	}
	a.l.Info().Msg("application shutdown successfully")
	return nil
}

// Shutdown stops the server, waits for icon downloads and releases the store.
func (a *App) Shutdown(container ServiceContainer) error {
	defer func(logger *zap.Logger) {
		if err := logger.Sync(); err != nil {
			a.l.Warn().Err(err).Msg("failed to sync http file logger")
		}
	}(container.fileLogger)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := container.Srv.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}

	container.WeatherService.Wait()

	if container.store != nil {
		if err := container.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("secret store close: %w", err))
		}
	}

	a.l.Info().Msg("shutdown complete")
	return errors.Join(errs...)
}

// Init builds every dependency and the router without starting the server.
func (a *App) Init(ctx context.Context) (ServiceContainer, error) {
	a.l.Info().
		Str("store", a.cfg.SecretStoreDriver).
		Str("weather_url", a.cfg.OpenWeatherMapURL).
		Msg("initializing weather details service")

	fileLogger, err := fLogger.NewFileLogger(a.cfg.HTTPLogsPath)
	if err != nil {
		a.l.Error().Err(err).Msg("failed to create http file logger, request log disabled")
		fileLogger = zap.NewNop()
	}

	httpClient := &http.Client{
		Transport: httpLogger.NewRoundTripper(fileLogger),
		Timeout:   a.cfg.HTTPClientTimeout,
	}

	breakerCfg := fetcher.BreakerConfig{
		TimeInterval: time.Duration(a.cfg.Breaker.TimeInterval) * time.Second,
		TimeTimeOut:  time.Duration(a.cfg.Breaker.TimeTimeOut) * time.Second,
		RepeatNumber: a.cfg.Breaker.RepeatNumber,
	}
	weatherFetcher := fetcher.NewMetricsDecorator(
		fetcher.NewBreakerFetcher("OpenWeatherMap", breakerCfg, fetcher.NewClient(httpClient, a.l)),
		metricsSvc.NewPromCollector(a.m.Registerer(), a.m.Namespace(), "fetcher"),
		"fetch",
	)

	icons := cache.NewMetricsDecorator(
		cache.NewIconCache(a.cfg.IconCacheMaxBytes),
		metricsSvc.NewPromCollector(a.m.Registerer(), a.m.Namespace(), "icon_cache"),
	)

	store, closer, err := a.newSecretStore(ctx)
	if err != nil {
		return ServiceContainer{}, err
	}
	cities := lastcity.NewService(store, a.cfg.Keychain.Service, a.cfg.Keychain.LastCityKey, a.l)

	loc, err := a.newLocator()
	if err != nil {
		_ = closer.Close()
		return ServiceContainer{}, err
	}

	weatherService := weather.NewService(
		weather.Endpoints{
			WeatherURL: a.cfg.OpenWeatherMapURL,
			IconURL:    a.cfg.OpenWeatherIconURL,
			APIKey:     a.cfg.OpenWeatherMapAPIKey,
		},
		weatherFetcher,
		icons,
		loc,
		cities,
		a.l,
		newEventLogger(a.l),
	)

	router := gin.New()
	router.Use(gin.Recovery(), a.m.HTTPMiddleware())
	router.GET("/metrics", gin.WrapH(a.m.Handler()))
	handlers.NewHandler(weatherService, icons, a.m, a.l).Register(router)

	return ServiceContainer{
		WeatherService: weatherService,
		Router:         router,
		Srv: &http.Server{
			Addr:        a.cfg.Server.Address(),
			Handler:     router,
			ReadTimeout: time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		},
		store:      closer,
		fileLogger: fileLogger,
	}, nil
}

func (a *App) newSecretStore(ctx context.Context) (secretStore, io.Closer, error) {
	switch a.cfg.SecretStoreDriver {
	case "redis":
		client := redisRepo.NewConnection(a.cfg.Redis.Address(), a.cfg.Redis.DbType)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		s := redisRepo.NewSecretStore(client, a.l)
		return s, s, nil
	default:
		db, err := sqliteRepo.Open(ctx, a.cfg.DBName)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := sqliteRepo.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return sqliteRepo.NewSecretStore(db, a.l), db, nil
	}
}

func (a *App) newLocator() (locator, error) {
	lat, lon, ok, err := a.cfg.Location.Coordinates()
	if err != nil {
		return nil, err
	}
	if ok {
		return location.NewStaticProvider(&models.Coordinates{Latitude: lat, Longitude: lon}), nil
	}

	addr := location.Address{
		Street:  a.cfg.Location.Street,
		Number:  a.cfg.Location.Number,
		City:    a.cfg.Location.City,
		State:   a.cfg.Location.State,
		Country: a.cfg.Location.Country,
	}
	if !addr.Empty() && a.cfg.Location.GeocoderAPIKey != "" {
		return location.NewGeocodedProvider(a.cfg.Location.GeocoderAPIKey, addr, a.l), nil
	}

	a.l.Warn().Msg("no location configured, current location will be unavailable")
	return location.NewStaticProvider(nil), nil
}
