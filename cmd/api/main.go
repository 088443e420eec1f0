package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/wellness-helpdesk-bot/internal/acknowledgment"
	httptransport "github.com/spec-kit/wellness-helpdesk-bot/internal/api/http"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/api/http/handlers"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/auth"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/config"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/conversation"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/events"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/messaging"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/observability"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/persistence"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/questionnaire"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/repository"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/service"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/session"
	"github.com/spec-kit/wellness-helpdesk-bot/internal/worker"
)

type store struct {
	submissions repository.SubmissionRepository
	departments repository.DepartmentRepository
	pinger      handlers.Pinger
	close       func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.Error(err))
	}
	defer st.close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var dedup repository.InboundDedup
	if redis != nil {
		dedup = repository.NewRedisDedup(redis.Client, cfg.Redis.DedupTTL)
	} else {
		dedup = repository.NewMemoryDedup(cfg.Redis.DedupTTL)
	}

	dispatcher := events.NewInMemoryDispatcher()

	var sms messaging.SMSSender
	if cfg.Twilio.Enabled() {
		twilioSMS, err := messaging.NewTwilioSMS(cfg.Twilio)
		if err != nil {
			logger.Fatal("failed to init twilio", zap.Error(err))
		}
		sms = twilioSMS
	}
	notificationService := service.NewNotificationService(dispatcher, logger, sms, cfg.Twilio.AlertTo)
	worker.StartNotificationWorker(notificationService, logger)

	submissionService := service.NewSubmissionService(service.SubmissionDependencies{
		SubmissionRepo:  st.submissions,
		DepartmentRepo:  st.departments,
		Dispatcher:      dispatcher,
		Hasher:          service.NewPhoneHasher(cfg.Helpdesk.PhoneHashKey),
		FallbackContact: cfg.Helpdesk.FallbackContact,
		Logger:          logger,
	})

	var sender messaging.Sender
	if cfg.WhatsApp.Enabled() {
		sender = messaging.NewCloudClient(cfg.WhatsApp, &http.Client{Timeout: 10 * time.Second}, logger)
	} else {
		logger.Warn("WhatsApp credentials not provided; outbound messages are only recorded in memory")
		sender = messaging.NewRecorder()
	}

	sessions := session.NewMemoryStore()
	coordinator := acknowledgment.NewCoordinator(submissionService, sender, logger, cfg.Helpdesk.DashboardURL)
	conversations := conversation.NewDispatcher(conversation.Dependencies{
		Sessions:    sessions,
		Questions:   questionnaire.Counseling(),
		Sender:      sender,
		Submitter:   submissionService,
		Departments: submissionService,
		Actions:     coordinator,
		Logger:      logger,
		Config: conversation.Config{
			HelpdeskName:     cfg.Helpdesk.Name,
			CounselorContact: cfg.Helpdesk.CounselorContact,
			FallbackContact:  cfg.Helpdesk.FallbackContact,
			CommunityURL:     cfg.Helpdesk.CommunityURL,
		},
	})
	sweeperDone := worker.StartSessionSweeper(ctx, sessions, cfg.Session.SweepInterval, cfg.Session.MaxAge, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	deps := map[string]handlers.Pinger{"store": st.pinger}
	if redis != nil {
		deps["redis"] = redis
	}
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Webhook:   handlers.NewWebhookHandler(cfg.WhatsApp.VerifyToken, conversations, dedup, logger, metrics),
		Signature: auth.NewSignatureMiddleware(cfg.WhatsApp.AppSecret),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
	cancel()
	<-sweeperDone
}

// openStore picks Postgres when a postgres DSN is set, then SQLite when a
// path is set, and falls back to process memory.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*store, error) {
	if cfg.Postgres.DSN != "" {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &store{
			submissions: repository.NewSubmissionRepository(pool),
			departments: repository.NewDepartmentRepository(pool),
			pinger:      pg,
			close:       pg.Close,
		}, nil
	}

	if cfg.SQLite.Path != "" {
		lite, err := persistence.NewSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			submissions: repository.NewSQLiteSubmissionRepository(lite.Handle()),
			departments: repository.NewSQLiteDepartmentRepository(lite.Handle()),
			pinger:      lite,
			close:       lite.Close,
		}, nil
	}

	logger.Warn("no database configured; submissions are kept in memory and lost on restart")
	return &store{
		submissions: repository.NewMemorySubmissionRepository(),
		departments: repository.NewMemoryDepartmentRepository(conversation.FallbackDepartments(cfg.Helpdesk.FallbackContact)...),
		close:       func() {},
	}, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
