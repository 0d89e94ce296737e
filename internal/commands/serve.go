package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "osintranet/docs"
	"osintranet/internal/accounting"
	"osintranet/internal/archive"
	"osintranet/internal/bus"
	"osintranet/internal/cache"
	"osintranet/internal/config"
	"osintranet/internal/events"
	"osintranet/internal/handler"
	"osintranet/internal/metrics"
	"osintranet/internal/middleware"
	"osintranet/internal/parser"
	"osintranet/internal/repository"
	"osintranet/internal/web"
	"osintranet/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the accounting web application",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}
			logger.Init(cfg.App.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")

	return cmd
}

// app holds everything serve opens so it can be closed in one place.
type app struct {
	store     repository.Store
	cache     cache.Store
	publisher events.Publisher
	archive   archive.Archive
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func openApp(ctx context.Context, cfg *config.Config, migrate bool) (*app, error) {
	log := logger.GetLogger()
	a := &app{
		cache:     cache.NewMemoryStore(),
		publisher: events.Noop{},
		archive:   archive.Noop{},
	}

	switch cfg.App.Storage {
	case "memory":
		a.store = repository.NewMemoryStore()
		log.Warn("Using in-memory storage, data is lost on restart")
	default:
		db, err := connectDB(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}
		a.closers = append(a.closers, func() { db.Close() })
		if migrate {
			applied, err := repository.Migrate(ctx, db)
			if err != nil {
				a.close()
				return nil, err
			}
			log.WithField("applied", applied).Info("Migrations applied")
		}
		a.store = repository.NewPostgresStore(db)
		log.Info("Database connection established")
	}

	if cfg.Redis.Addr != "" {
		rs, err := cache.NewRedisStore(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			a.close()
			return nil, err
		}
		a.cache = rs
		a.closers = append(a.closers, func() { rs.Close() })
		log.WithField("addr", cfg.Redis.Addr).Info("Query cache uses Redis")
	}

	if cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(events.NATSConfig{
			URL:            cfg.NATS.URL,
			Name:           "osintranet",
			ReconnectWait:  2 * time.Second,
			MaxReconnects:  60,
			ConnectTimeout: 5 * time.Second,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.publisher = pub
		a.closers = append(a.closers, pub.Close)
		log.WithField("url", cfg.NATS.URL).Info("Publishing events to NATS")
	}

	if cfg.Minio.Endpoint != "" {
		arch, err := archive.NewMinioArchive(ctx, archive.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			UseSSL:    cfg.Minio.UseSSL,
		})
		if err != nil {
			a.close()
			return nil, err
		}
		a.archive = arch
		log.WithField("bucket", cfg.Minio.Bucket).Info("Archiving exports to object storage")
	}

	return a, nil
}

func runServe(ctx context.Context, cfg *config.Config, migrate bool) error {
	log := logger.GetLogger()
	log.Info("Starting OS Intranet accounting service")

	a, err := openApp(ctx, cfg, migrate)
	if err != nil {
		return err
	}
	defer a.close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("registering metrics: %w", err)
	}

	commands, queries := newBuses(cfg, a, m)
	handlers := handler.NewHandlers(commands, queries, parser.NewCSVPostingJournalParser(), nil)

	router, err := setupRouter(cfg, reg, m, handlers)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("address", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newBuses builds the command and query buses with their middleware and
// registers the accounting handlers.
func newBuses(cfg *config.Config, a *app, m *metrics.Metrics) (*bus.Commands, *bus.Queries) {
	log := logger.GetLogger()
	validate := validator.New()

	commands := bus.NewCommands(
		bus.Logging(log),
		m.Bus("command"),
		bus.Validation(validate),
		events.Middleware(a.publisher, cfg.NATS.SubjectPrefix),
		cache.Invalidate(a.cache),
	)
	queries := bus.NewQueries(
		bus.Logging(log),
		m.Bus("query"),
		bus.Validation(validate),
	)

	svc := accounting.NewService(a.store, accounting.Options{
		Archive:                     a.archive,
		DefaultNumberOfPostingLines: cfg.App.DefaultNumberOfPostingLines,
	})
	accounting.Register(commands, queries, svc, a.cache, cfg.App.CacheTTL)
	return commands, queries
}

func setupRouter(cfg *config.Config, reg *prometheus.Registry, m *metrics.Metrics, handlers *handler.Handlers) (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics(m))
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	secured := router.Group("", middleware.Auth(cfg.Auth.JWTSecret), middleware.RequireRole(cfg.Auth.Role))
	handler.Routes(secured, handlers)

	return router, nil
}
