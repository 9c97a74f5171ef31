package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminhandler "github.com/retailhub/backoffice/internal/admin/handler"
	adminrepo "github.com/retailhub/backoffice/internal/admin/repository"
	authhandler "github.com/retailhub/backoffice/internal/auth/handler"
	"github.com/retailhub/backoffice/internal/auth/jwt"
	authmw "github.com/retailhub/backoffice/internal/auth/middleware"
	authrepo "github.com/retailhub/backoffice/internal/auth/repository"
	authservice "github.com/retailhub/backoffice/internal/auth/service"
	billingevents "github.com/retailhub/backoffice/internal/billing/events"
	billinghandler "github.com/retailhub/backoffice/internal/billing/handler"
	billingrepo "github.com/retailhub/backoffice/internal/billing/repository"
	billingservice "github.com/retailhub/backoffice/internal/billing/service"
	hrevents "github.com/retailhub/backoffice/internal/hr/events"
	hrhandler "github.com/retailhub/backoffice/internal/hr/handler"
	hrrepo "github.com/retailhub/backoffice/internal/hr/repository"
	hrservice "github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/internal/inventory/consumers"
	invevents "github.com/retailhub/backoffice/internal/inventory/events"
	invhandler "github.com/retailhub/backoffice/internal/inventory/handler"
	invrepo "github.com/retailhub/backoffice/internal/inventory/repository"
	invservice "github.com/retailhub/backoffice/internal/inventory/service"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/mailer"
	"github.com/retailhub/backoffice/pkg/messaging"
	"github.com/retailhub/backoffice/pkg/metrics"
	"github.com/retailhub/backoffice/pkg/scheduler"
)

const serviceName = "backoffice-service"

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(serviceName, cfg.Server.Environment)
	log.Info().Msg("starting back-office service")

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// RabbitMQ is optional; without it events are dropped and no consumer runs
	var rmq *messaging.RabbitMQ
	if cfg.RabbitMQ.Enabled() {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()
	} else {
		log.Warn().Msg("RabbitMQ not configured, domain events are disabled")
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics.Prefix)
	}

	mail := mailer.New(cfg.Mail, log)
	exchange := cfg.RabbitMQ.Exchange
	if exchange == "" {
		exchange = messaging.DefaultExchange
	}

	// Event publishers
	hrPublisher, err := hrevents.NewHREventPublisher(rmq, exchange, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create hr event publisher")
	}
	invPublisher, err := invevents.NewInventoryEventPublisher(rmq, exchange, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create inventory event publisher")
	}
	billingPublisher, err := billingevents.NewBillingEventPublisher(rmq, exchange, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create billing event publisher")
	}

	// Auth
	jwtManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(
		authrepo.NewCredentialRepository(db),
		authrepo.NewRevocationRepository(db),
		jwtManager,
		log,
	)

	// HR
	employeeRepo := hrrepo.NewEmployeeRepository(db)
	departmentRepo := hrrepo.NewDepartmentRepository(db)
	shiftRepo := hrrepo.NewShiftRepository(db)
	attendanceRepo := hrrepo.NewAttendanceRepository(db)
	leaveRepo := hrrepo.NewLeaveRepository(db)
	payrollRepo := hrrepo.NewPayrollRepository(db)

	employeeService := hrservice.NewEmployeeService(employeeRepo, departmentRepo, hrPublisher, log)
	shiftService := hrservice.NewShiftService(shiftRepo, employeeRepo, log)
	leaveService := hrservice.NewLeaveService(db, leaveRepo, attendanceRepo, hrPublisher, m, log)
	payrollService := hrservice.NewPayrollService(payrollRepo, employeeRepo, attendanceRepo, mail, hrPublisher, m, cfg.Payroll, log)
	attendanceService := hrservice.NewAttendanceService(attendanceRepo, employeeRepo, log)
	dashboardService := hrservice.NewDashboardService(hrrepo.NewDashboardRepository(db), payrollRepo)

	// Inventory
	productRepo := invrepo.NewProductRepository(db)
	supplierRepo := invrepo.NewSupplierRepository(db)
	orderRepo := invrepo.NewOrderRepository(db)
	batchRepo := invrepo.NewBatchRepository(db)

	orderService := invservice.NewOrderService(db, orderRepo, batchRepo, invPublisher, m, log)
	alertScanner := invservice.NewAlertScanner(productRepo, orderRepo, batchRepo, orderService, m, log)
	inventoryService := invservice.NewInventoryService(productRepo, supplierRepo, invrepo.NewCatalogRepository(db), log)

	// Billing
	billingService := billingservice.NewBillingService(
		db,
		billingrepo.NewCustomerRepository(db),
		billingrepo.NewSaleRepository(db),
		mail,
		billingPublisher,
		m,
		log,
	)

	h := &handlers{
		auth:       authhandler.NewAuthHandler(authService, cfg.JWT, log),
		admin:      adminhandler.NewAdminHandler(adminrepo.NewOverviewRepository(db), db, rmq, log),
		adminStaff: hrhandler.NewEmployeeHandler(employeeService, false, log),
		hrStaff:    hrhandler.NewEmployeeHandler(employeeService, true, log),
		shifts:     hrhandler.NewShiftHandler(shiftService, log),
		leave:      hrhandler.NewLeaveHandler(leaveService, log),
		payroll:    hrhandler.NewPayrollHandler(payrollService, log),
		attendance: hrhandler.NewAttendanceHandler(attendanceService, log),
		hrBoard:    hrhandler.NewDashboardHandler(dashboardService),
		orders:     invhandler.NewOrderHandler(orderService, alertScanner, log),
		catalog:    invhandler.NewCatalogHandler(inventoryService, log),
		billing:    billinghandler.NewBillingHandler(billingService, log),
	}

	authenticator := authmw.NewAuthenticator(authService, cfg.JWT.CookieName, log)
	router := newRouter(cfg, log, m, authenticator, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Supplier notifications
	if rmq != nil {
		notifier := consumers.NewSupplierNotifier(db, orderRepo, supplierRepo, mail, log)
		orderConsumer, err := consumers.NewOrderEventConsumer(rmq, exchange, notifier, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create order event consumer")
		}
		if err := orderConsumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start order event consumer")
		}
	}

	// Background sweeps
	var sweeps, maintenance *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sweeps = scheduler.New(cfg.Scheduler.StockAlertInterval, log.WithComponent("stock-alerts"),
			scheduler.Job{Name: "process_stock_alerts", Run: alertScanner.Sweep},
		)
		sweeps.Start(ctx)

		maintenance = scheduler.New(cfg.Scheduler.MaintenanceInterval, log.WithComponent("maintenance"),
			scheduler.Job{Name: "generate_monthly_shifts", Run: func(ctx context.Context) error {
				_, err := shiftService.GenerateMonthlyShifts(ctx)
				return err
			}},
			scheduler.Job{Name: "purge_inactive_employees", Run: func(ctx context.Context) error {
				_, err := employeeService.PurgeInactiveEmployees(ctx)
				return err
			}},
			scheduler.Job{Name: "purge_expired_revocations", Run: authService.PurgeExpiredRevocations},
		)
		maintenance.Start(ctx)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Stop consumers and sweeps before draining requests
	cancel()
	sweeps.Stop()
	maintenance.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
