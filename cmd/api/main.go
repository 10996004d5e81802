package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/opsdesk/helpdesk-service/internal/api/http"
	"github.com/opsdesk/helpdesk-service/internal/api/http/handlers"
	"github.com/opsdesk/helpdesk-service/internal/auth"
	"github.com/opsdesk/helpdesk-service/internal/config"
	"github.com/opsdesk/helpdesk-service/internal/events"
	"github.com/opsdesk/helpdesk-service/internal/observability"
	"github.com/opsdesk/helpdesk-service/internal/persistence"
	"github.com/opsdesk/helpdesk-service/internal/presence"
	"github.com/opsdesk/helpdesk-service/internal/repository"
	"github.com/opsdesk/helpdesk-service/internal/service"
	"github.com/opsdesk/helpdesk-service/internal/ticketnumber"
	"github.com/opsdesk/helpdesk-service/internal/worker"
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
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewTicketCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	statusRepo := repository.NewStatusRepository(pool)
	priorityRepo := repository.NewPriorityRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	companyRepo := repository.NewCompanyRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	linkRepo := repository.NewTicketLinkRepository(pool)
	historyRepo := repository.NewTicketHistoryRepository(pool)
	slaRuleRepo := repository.NewSLARuleRepository(pool)
	escalationRuleRepo := repository.NewEscalationRuleRepository(pool)
	escalationRecordRepo := repository.NewEscalationRecordRepository(pool)
	businessHoursRepo := repository.NewBusinessHoursRepository(pool)
	holidayRepo := repository.NewHolidayRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	var counterStore ticketnumber.CounterStore
	if redis.Ping(ctx) == nil {
		counterStore = ticketnumber.NewRedisCounterStore(redis.Client)
	} else {
		logger.Warn("redis unavailable, ticket numbers fall back to in-process counters")
		counterStore = ticketnumber.NewMemoryCounterStore()
	}
	numbers := ticketnumber.NewDateGenerator(cfg.Ticketing.NumberPrefix, counterStore)

	tracker := presence.NewTracker(redis.Client, time.Duration(cfg.Presence.TTLSeconds)*time.Second)

	slaService := service.NewSLAService(service.SLADependencies{
		SLARuleRepo:       slaRuleRepo,
		PriorityRepo:      priorityRepo,
		BusinessHoursRepo: businessHoursRepo,
		HolidayRepo:       holidayRepo,
		Logger:            logger,
	})

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:     ticketRepo,
		CommentRepo:    commentRepo,
		AttachmentRepo: attachmentRepo,
		StatusRepo:     statusRepo,
		PriorityRepo:   priorityRepo,
		CategoryRepo:   categoryRepo,
		DepartmentRepo: departmentRepo,
		TeamRepo:       teamRepo,
		StaffRepo:      staffRepo,
		LinkRepo:       linkRepo,
		HistoryRepo:    historyRepo,
		SLAService:     slaService,
		Numbers:        numbers,
		Dispatcher:     dispatcher,
	})

	escalationService := service.NewEscalationService(service.EscalationDependencies{
		TicketRepo:   ticketRepo,
		RuleRepo:     escalationRuleRepo,
		RecordRepo:   escalationRecordRepo,
		PriorityRepo: priorityRepo,
		StaffRepo:    staffRepo,
		HistoryRepo:  historyRepo,
		SLAService:   slaService,
		Dispatcher:   dispatcher,
		Logger:       logger,
		ScanLimit:    cfg.Ticketing.EscalationScanLimit,
	})

	adminService := service.NewAdminService(service.AdminDependencies{
		StatusRepo:         statusRepo,
		PriorityRepo:       priorityRepo,
		CategoryRepo:       categoryRepo,
		CompanyRepo:        companyRepo,
		DepartmentRepo:     departmentRepo,
		TeamRepo:           teamRepo,
		SLARuleRepo:        slaRuleRepo,
		EscalationRuleRepo: escalationRuleRepo,
		BusinessHoursRepo:  businessHoursRepo,
		HolidayRepo:        holidayRepo,
	})

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo:          userRepo,
		StaffRepo:         staffRepo,
		CompanyRepo:       companyRepo,
		PasswordResetRepo: resetRepo,
	})

	staffService := service.NewStaffService(service.StaffServiceDependencies{
		StaffRepo:      staffRepo,
		DepartmentRepo: departmentRepo,
		TeamRepo:       teamRepo,
		UserRepo:       userRepo,
		BcryptCost:     cfg.Auth.BcryptCost,
	})

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo, staffRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Users:          handlers.NewUsersHandler(authService),
		Staff:          handlers.NewStaffHandler(authService, staffService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		StaffTickets:   handlers.NewStaffTicketsHandler(ticketService, escalationService),
		Admin:          handlers.NewAdminHandler(adminService, tracker),
		AuthMiddleware: authMiddleware,
		Presence:       tracker,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
