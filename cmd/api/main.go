package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/bryanwahyu/journal-guard/internal/application"
	appanalysis "github.com/bryanwahyu/journal-guard/internal/application/analysis"
	appcrisis "github.com/bryanwahyu/journal-guard/internal/application/crisis"
	apptrend "github.com/bryanwahyu/journal-guard/internal/application/trend"
	"github.com/bryanwahyu/journal-guard/internal/config"
	"github.com/bryanwahyu/journal-guard/internal/domain/ai"
	"github.com/bryanwahyu/journal-guard/internal/domain/analysis"
	"github.com/bryanwahyu/journal-guard/internal/domain/crisis"
	"github.com/bryanwahyu/journal-guard/internal/domain/trend"
	"github.com/bryanwahyu/journal-guard/internal/infra/ai/gemini"
	"github.com/bryanwahyu/journal-guard/internal/infra/ai/heuristic"
	openaiclient "github.com/bryanwahyu/journal-guard/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/journal-guard/internal/infra/db/mysql"
	"github.com/bryanwahyu/journal-guard/internal/infra/db/postgres"
	"github.com/bryanwahyu/journal-guard/internal/infra/httpserver"
	"github.com/bryanwahyu/journal-guard/internal/infra/notify"
	minioStore "github.com/bryanwahyu/journal-guard/internal/infra/storage"
	"github.com/bryanwahyu/journal-guard/internal/middleware"
	"github.com/bryanwahyu/journal-guard/internal/scheduler"
)

type remoteClassifier interface {
	ai.Classifier
	ai.Prober
}

type repositories struct {
	records       analysis.Repository
	alerts        crisis.AlertRepository
	notifications crisis.NotificationRepository
}

func main() {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found")
	}

	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("config load error: %v", err)
	}
	setupLogging(cfg)

	ctx := context.Background()

	db, repos, err := openDatabase(ctx, cfg)
	if err != nil {
		logrus.Fatalf("%s connect error: %v", cfg.Database.Driver, err)
	}
	defer db.Close()

	var archive trend.Archive
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logrus.Fatalf("minio init error: %v", err)
		}
		archive = store
	} else {
		logrus.Warn("MinIO not configured, report export disabled")
	}

	metrics := middleware.NewMetrics()
	clock := application.SystemClock{}

	crisisSvc := &appcrisis.Service{
		Config: appcrisis.Config{
			SuicideRiskThreshold: cfg.Threshold(),
			Hotline:              cfg.Crisis.Hotline,
		},
		Alerts:        repos.alerts,
		Notifications: repos.notifications,
		Dispatcher:    buildDispatcher(cfg),
		Clock:         clock,
		Metrics:       metrics,
		Log:           logrus.WithField("component", "crisis"),
	}

	analysisSvc := &appanalysis.Service{
		Fallback: heuristic.Scorer{Options: heuristic.Options{MaskRiskPhrases: cfg.AI.MaskRiskPhrases}},
		Records:  repos.records,
		Policy:   crisisSvc,
		Clock:    clock,
		Metrics:  metrics,
		Log:      logrus.WithField("component", "analysis"),
	}

	optional := map[string]middleware.HealthChecker{}
	if remote := buildClassifier(cfg); remote != nil {
		analysisSvc.Classifier = remote
		probe := scheduler.NewService(remote, cfg.Probe.Schedule, cfg.AITimeout(), logrus.WithField("component", "probe"))
		if err := probe.Start(); err != nil {
			logrus.Fatalf("probe scheduler error: %v", err)
		}
		defer probe.Stop()
		optional["classifier"] = probe
	} else {
		logrus.Warn("No AI API key configured, using heuristic analysis only")
	}

	trendSvc := &apptrend.Service{
		Hotline: cfg.Crisis.Hotline,
		Records: repos.records,
		Alerts:  repos.alerts,
		Archive: archive,
		Clock:   clock,
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.RefillRate)
	limiterCtx, stopLimiter := context.WithCancel(ctx)
	defer stopLimiter()
	go limiter.Run(limiterCtx, 5*time.Minute, 10*time.Minute)

	mws := []func(http.Handler) http.Handler{
		middleware.Logging(logrus.WithField("component", "http")),
		metrics.Middleware,
	}
	if len(cfg.Auth.APIKeys) > 0 {
		mws = append(mws, middleware.APIKeyAuth(cfg.Auth.APIKeys))
	} else {
		logrus.Warn("No client API keys configured, authentication disabled")
	}
	mws = append(mws, middleware.RateLimit(limiter))

	handler := httpserver.NewRouter(analysisSvc, trendSvc, crisisSvc, httpserver.Options{
		Middlewares: mws,
		Health: middleware.HealthHandler(
			map[string]middleware.HealthChecker{"database": &middleware.DatabaseHealthChecker{DB: db}},
			optional,
		),
		Metrics: metrics.Handler,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AITimeout() + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logrus.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logrus.Errorf("shutdown error: %v", err)
	}
	if err := crisisSvc.Wait(ctx2); err != nil {
		logrus.Warnf("crisis notifications still in flight: %v", err)
	}
}

func setupLogging(cfg *config.Config) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Log.Debug {
		level = logrus.DebugLevel
	}
	logrus.SetLevel(level)
}

func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, repositories, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, repositories{}, err
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, repositories{}, err
		}
		return db, repositories{
			records:       postgres.NewRecordRepository(db),
			alerts:        postgres.NewAlertRepository(db),
			notifications: postgres.NewNotificationRepository(db),
		}, nil
	default:
		db, err := mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, repositories{}, err
		}
		if err := mysqlp.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, repositories{}, err
		}
		return db, repositories{
			records:       mysqlp.NewRecordRepository(db),
			alerts:        mysqlp.NewAlertRepository(db),
			notifications: mysqlp.NewNotificationRepository(db),
		}, nil
	}
}

// buildClassifier returns nil when no usable key is configured.
func buildClassifier(cfg *config.Config) remoteClassifier {
	key := cfg.AIKey()
	if key == "" {
		return nil
	}
	switch cfg.AI.Provider {
	case "gemini":
		return gemini.NewClient(key, cfg.AI.Endpoint, cfg.AITimeout())
	default:
		return openaiclient.NewClient(key, cfg.AI.Endpoint, cfg.AI.Model, cfg.AITimeout())
	}
}

func buildDispatcher(cfg *config.Config) crisis.Dispatcher {
	var out notify.Multi
	if cfg.Crisis.CareTeamEmail != "" && cfg.SMTP.Host != "" {
		out = append(out, notify.NewEmail(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From, cfg.Crisis.CareTeamEmail))
	}
	if cfg.Crisis.WebhookURL != "" {
		out = append(out, notify.NewWebhook(cfg.Crisis.WebhookURL))
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
