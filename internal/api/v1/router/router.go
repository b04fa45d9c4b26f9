package router

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"

	_ "boardinghouse/docs"
	"boardinghouse/internal/api/v1/handler"
	"boardinghouse/internal/config"
	"boardinghouse/internal/middleware"
	"boardinghouse/internal/pubsub"
	"boardinghouse/internal/repository"
	"boardinghouse/internal/service"
	"boardinghouse/internal/storage"
)

// Services is everything the HTTP layer calls into.
type Services struct {
	Auth     service.AuthService
	Users    service.UserService
	Rooms    service.RoomService
	Meter    service.MeterService
	Billings service.BillingService
	Payments service.PaymentService
	Uploads  service.UploadService

	// Clock decides "today" for due-date status. Nil means time.Now.
	Clock service.Clock
}

// New connects the backing services and returns the HTTP handler along
// with a function releasing the connections it opened.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	// 1. Database pool
	pool, err := repository.NewPool(ctx, databaseURL(cfg), cfg.DBMaxConns, func(pc *pgxpool.Config) {
		pc.MaxConnIdleTime = cfg.DBMaxConnIdleTime
		// Transaction poolers like pgbouncer cannot hold server-side
		// prepared statements.
		if !cfg.IsDevelopment() {
			pc.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
		}
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// 2. Object storage
	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	images := storage.NewImageStore(s3Client, cfg, logger)

	// 3. Billing events
	var publisher pubsub.Publisher = pubsub.NoopPublisher{}
	closePublisher := func() {}
	if cfg.EventsEnabled() {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		publisher = p
		closePublisher = func() {
			if err := p.Close(); err != nil {
				logger.Warn().Err(err).Msg("Closing Pub/Sub client")
			}
		}
	} else {
		logger.Info().Msg("Billing events disabled")
	}
	events := pubsub.NewBillingEvents(publisher, cfg.PubSubBillingTopic, logger)

	// 4. Services
	store := repository.NewStore(pool)
	clock := service.ClockIn(cfg.Location())
	svcs := Services{
		Clock: clock,
		Auth: service.NewAuthService(store.Repos().Users, service.GoogleTokenValidator(), service.AuthConfig{
			GoogleClientID: cfg.GoogleClientID,
			JWTSecret:      cfg.JWTSecret,
			SessionTTL:     cfg.SessionTTL,
		}, clock, logger),
		Users:    service.NewUserService(store, logger),
		Rooms:    service.NewRoomService(store, logger),
		Meter:    service.NewMeterService(store, images, events, clock, logger),
		Billings: service.NewBillingService(store, events, clock, logger),
		Payments: service.NewPaymentService(store, images, events, clock, logger),
		Uploads:  service.NewUploadService(images),
	}

	cleanup := func() {
		closePublisher()
		pool.Close()
	}
	return Handler(cfg, svcs, logger), cleanup, nil
}

// Handler builds the routing tree over already constructed services.
func Handler(cfg *config.Config, svcs Services, logger zerolog.Logger) http.Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)

	apiV1Mux := http.NewServeMux()
	handler.NewAuthHandler(svcs.Auth, svcs.Users, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewRoomHandler(svcs.Rooms, svcs.Meter, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewMeterHandler(svcs.Meter, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewBillingHandler(svcs.Billings, validate, svcs.Clock, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewPaymentHandler(svcs.Payments, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewUserHandler(svcs.Users, validate, logger).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewUploadHandler(svcs.Uploads, cfg.MaxUploadBytes, logger).RegisterRoutes(apiV1Mux, authMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, "swagger spec unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: !allowsAnyOrigin(cfg.AllowedOrigins),
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}

// databaseURL disables SSL for local development databases unless the
// connection string says otherwise.
func databaseURL(cfg *config.Config) string {
	dsn := cfg.DBConnectionString
	if !cfg.IsDevelopment() || strings.Contains(dsn, "sslmode") {
		return dsn
	}
	separator := " "
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		separator = "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
	}
	return dsn + separator + "sslmode=disable"
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
