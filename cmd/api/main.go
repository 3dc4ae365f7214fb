package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/roster-service/internal/api/http"
	"github.com/spec-kit/roster-service/internal/api/http/handlers"
	"github.com/spec-kit/roster-service/internal/auth"
	"github.com/spec-kit/roster-service/internal/config"
	"github.com/spec-kit/roster-service/internal/events"
	"github.com/spec-kit/roster-service/internal/observability"
	"github.com/spec-kit/roster-service/internal/persistence"
	"github.com/spec-kit/roster-service/internal/repository"
	"github.com/spec-kit/roster-service/internal/service"
	"github.com/spec-kit/roster-service/internal/worker"
)

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

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	txRunner := persistence.NewTxRunner(pool)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	staffRepo := repository.NewStaffRepository(pool)
	formationRepo := repository.NewFormationRepository(pool)
	officeRepo := repository.NewOfficeRepository(pool)
	editRequestRepo := repository.NewEditRequestRepository(pool)
	notificationRepo := repository.NewNotificationRepository(pool)
	adminRepo := repository.NewAdminAccountRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	stateRepo := repository.NewStateRepository(pool)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	auditService := service.NewAuditService(auditRepo)
	auditService.Register(dispatcher)

	staffService := service.NewStaffService(service.StaffDependencies{
		StaffRepo:     staffRepo,
		FormationRepo: formationRepo,
		Dispatcher:    dispatcher,
		BcryptCost:    cfg.Auth.BcryptCost,
	})
	formationService := service.NewFormationService(service.FormationDependencies{
		FormationRepo: formationRepo,
		Dispatcher:    dispatcher,
	})
	officeService := service.NewOfficeService(service.OfficeDependencies{
		OfficeRepo:    officeRepo,
		FormationRepo: formationRepo,
		Dispatcher:    dispatcher,
	})
	editRequestService := service.NewEditRequestService(service.EditRequestDependencies{
		RequestRepo: editRequestRepo,
		StaffRepo:   staffRepo,
		UnitOfWork:  txRunner,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		NotificationRepo: notificationRepo,
		AdminRepo:        adminRepo,
		StaffRepo:        staffRepo,
		UnitOfWork:       txRunner,
	})
	retirementService := service.NewRetirementService(service.RetirementDependencies{
		StaffRepo:  staffRepo,
		Notifier:   notificationService,
		UnitOfWork: txRunner,
		Dispatcher: dispatcher,
	})
	dashboardService := service.NewDashboardService(service.DashboardDependencies{
		StaffRepo:        staffRepo,
		FormationService: formationService,
		Cache:            redis.Client,
		CacheTTL:         cfg.Dashboard.CacheTTL(),
	})
	authService := service.NewAuthService(service.AuthDependencies{
		AdminRepo:        adminRepo,
		StaffRepo:        staffRepo,
		Tokens:           tokens,
		BcryptCost:       cfg.Auth.BcryptCost,
		MaxLoginAttempts: cfg.Auth.MaxLoginAttempts,
	})
	directoryService := service.NewDirectoryService(stateRepo)

	authMiddleware := auth.NewAuthMiddleware(tokens, adminRepo, staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Staff:          handlers.NewStaffHandler(staffService),
		EditRequests:   handlers.NewEditRequestsHandler(editRequestService),
		Formations:     handlers.NewFormationsHandler(formationService),
		Offices:        handlers.NewOfficesHandler(officeService),
		Notifications:  handlers.NewNotificationsHandler(notificationService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService, retirementService, auditService),
		Directory:      handlers.NewDirectoryHandler(directoryService),
		AuthMiddleware: authMiddleware,
	})

	var scanWorker *worker.RetirementWorker
	if cfg.Scanner.Enabled {
		scanWorker = worker.NewRetirementWorker(retirementService, cfg.Scanner.ScanInterval(), logger)
		scanWorker.Start(ctx)
	}

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if scanWorker != nil {
		scanWorker.Stop()
	}
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
