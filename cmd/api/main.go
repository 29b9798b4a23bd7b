// @title          Places API
// @version        1.0
// @description    Share places with geocoded addresses and photos.
// @BasePath       /
//
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
// @description                Type "Bearer" followed by a space and the identity token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/sharedplaces/places-api/internal/api"
	"github.com/sharedplaces/places-api/internal/api/handler"
	"github.com/sharedplaces/places-api/internal/core/ports"
	"github.com/sharedplaces/places-api/internal/core/service"
	mongodb "github.com/sharedplaces/places-api/internal/infrastructure/db/mongo"
	redisdb "github.com/sharedplaces/places-api/internal/infrastructure/db/redis"
	"github.com/sharedplaces/places-api/internal/infrastructure/db/sqlstore"
	"github.com/sharedplaces/places-api/internal/infrastructure/geocode"
	"github.com/sharedplaces/places-api/internal/infrastructure/messaging"
	"github.com/sharedplaces/places-api/internal/infrastructure/queue"
	"github.com/sharedplaces/places-api/internal/infrastructure/storage"
	"github.com/sharedplaces/places-api/internal/pkg/config"
	"github.com/sharedplaces/places-api/internal/pkg/validate"
	"github.com/sharedplaces/places-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		l := logger.Get()
		l.Error().Err(err).Msg("places-api stopped")
		os.Exit(1)
	}
}

// store bundles the repositories of the selected backend.
type store struct {
	users  ports.UserRepository
	places ports.PlaceRepository
	tx     ports.Transactor
	check  handler.CheckFunc
	name   string
	close  func(ctx context.Context) error
}

func run(ctx context.Context) error {
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "places-api",
	})

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Str("store", st.name).Msg("close store")
		}
	}()

	health := map[string]handler.CheckFunc{st.name: st.check}

	geocoder, closeCache, err := buildGeocoder(ctx, cfg, health)
	if err != nil {
		return err
	}
	defer closeCache()

	files, err := storage.NewLocalStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}

	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	cleaner := queue.NewDispatcher(cfg.Uploads.CleanupWorkers, files, logger.Component("cleanup"))
	cleaner.Start(workerCtx)
	defer func() {
		stopWorkers()
		cleaner.Wait()
	}()

	var publisher ports.EventPublisher = messaging.Noop{}
	if cfg.NATS.URL != "" {
		nc, err := messaging.Connect(cfg.NATS.URL, logger.Component("nats"))
		if err != nil {
			return err
		}
		defer func() { _ = nc.Drain() }()
		publisher = messaging.NewPublisher(nc)
		health["nats"] = natsCheck(nc)
	}

	v := validate.New()
	credentials := service.NewCredentialService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	places := service.NewPlaceService(service.PlaceServiceDeps{
		Places:    st.places,
		Users:     st.users,
		Tx:        st.tx,
		Geocoder:  geocoder,
		Files:     files,
		Cleaner:   cleaner,
		Publisher: publisher,
		Validator: v,
	}, logger.Component("places"))
	auth := service.NewAuthService(st.users, files, credentials, v, cfg.Auth.BcryptCost, logger.Component("auth"))
	users := service.NewUserService(st.users)

	e := api.NewRouter(api.RouterDeps{
		Places:         places,
		Auth:           auth,
		Users:          users,
		Verifier:       credentials,
		Health:         health,
		UploadDir:      files.Dir(),
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		LoginRateLimit: cfg.Auth.LoginRateLimit,
		Log:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", st.name).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*store, error) {
	switch cfg.Store.Driver {
	case config.StoreMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Store.MongoURI, Database: cfg.Store.MongoDB})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			users:  mongodb.NewUserRepository(db),
			places: mongodb.NewPlaceRepository(db),
			tx:     mongodb.NewTransactor(client, logger.Component("mongo")),
			check:  func(ctx context.Context) error { return client.Ping(ctx, nil) },
			name:   "mongodb",
			close:  client.Disconnect,
		}, nil

	case config.StorePostgres, config.StoreSQLite:
		sqlCfg := sqlstore.Config{Driver: sqlstore.DriverPostgres, DSN: cfg.Store.PostgresDSN, Debug: cfg.Development()}
		if cfg.Store.Driver == config.StoreSQLite {
			sqlCfg.Driver, sqlCfg.DSN = sqlstore.DriverSQLite, filepath.Clean(cfg.Store.SQLitePath)
		}
		db, err := sqlstore.Open(ctx, sqlCfg)
		if err != nil {
			return nil, err
		}
		return &store{
			users:  sqlstore.NewUserRepository(db),
			places: sqlstore.NewPlaceRepository(db),
			tx:     sqlstore.NewTransactor(db),
			check:  sqlstore.Ping(db),
			name:   cfg.Store.Driver,
			close:  func(context.Context) error { return sqlstore.Close(db) },
		}, nil
	}
	log.Error().Str("driver", cfg.Store.Driver).Msg("unknown store driver")
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// buildGeocoder picks the backend and wraps it in the Redis cache when one is
// configured. The returned func closes the cache client.
func buildGeocoder(ctx context.Context, cfg *config.Config, health map[string]handler.CheckFunc) (ports.Geocoder, func(), error) {
	var (
		geocoder ports.Geocoder
		err      error
	)
	switch cfg.Geocoder.Backend {
	case config.GeocoderStatic:
		geocoder = geocode.NewStatic(nil)
	default:
		geocoder, err = geocode.NewGoogle(geocode.GoogleConfig{APIKey: cfg.Geocoder.APIKey}, logger.Component("geocode"))
		if err != nil {
			return nil, nil, err
		}
	}

	if cfg.Redis.Addr == "" {
		return geocoder, func() {}, nil
	}
	client, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}
	health["redis"] = redisdb.Ping(client)
	cached := geocode.NewCached(geocoder, client, cfg.Geocoder.CacheTTL, logger.Component("geocode-cache"))
	return cached, func() { _ = client.Close() }, nil
}

func natsCheck(nc *nats.Conn) handler.CheckFunc {
	return func(context.Context) error {
		if !nc.IsConnected() {
			return fmt.Errorf("nats %s", nc.Status())
		}
		return nil
	}
}
