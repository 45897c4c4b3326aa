package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "microlend/internal/adapter/http"
	mw "microlend/internal/adapter/middleware"
	"microlend/internal/adapter/repository/mysql"
	"microlend/internal/config"
	"microlend/internal/domain/customer"
	"microlend/internal/domain/loan"
	"microlend/internal/domain/transaction"
	"microlend/internal/emitter"
	"microlend/internal/infrastructure/cache"
	"microlend/internal/infrastructure/db"
	"microlend/internal/observability"
	appUC "microlend/internal/usecase/application"
	approvalUC "microlend/internal/usecase/approval"
	repaymentUC "microlend/internal/usecase/repayment"
	savingsUC "microlend/internal/usecase/savings"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.AppEnv)

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gdb.AutoMigrate(
		&loan.Application{},
		&loan.ScheduleEntry{},
		&transaction.Transaction{},
		&customer.Customer{},
		&emitter.Notification{},
		&emitter.AuditRecord{},
	); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	uow := mysql.NewGormUoW(gdb)
	emit := emitter.NewService(
		mysql.NewNotificationRepository(gdb),
		mysql.NewAuditRepository(gdb),
		logger,
	)

	applications := appUC.NewUsecase(loanRepo)
	decisions := approvalUC.NewUsecase(uow, emit)
	repayments := repaymentUC.NewUsecase(uow, emit)
	savings := savingsUC.NewUsecase(uow, emit)

	h := httpadp.NewHandler()
	appHandler := httpadp.NewApplicationHandler(applications)
	decisionHandler := httpadp.NewDecisionHandler(decisions)
	repaymentHandler := httpadp.NewRepaymentHandler(repayments)
	savingsHandler := httpadp.NewSavingsHandler(savings)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	e.GET("/health", h.Health)

	e.POST("/applications", appHandler.Submit)
	e.GET("/applications", appHandler.List)
	e.GET("/applications/:application_id", appHandler.Get)
	e.GET("/borrowers/:borrower_id/applications", appHandler.ListByBorrower)

	// mutations on committed financial state go through the idempotency layer
	idem := mw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, logger)
	e.POST("/applications/:application_id/decision", decisionHandler.Decide, idem)
	e.POST("/loans/:loan_id/repayments", repaymentHandler.Apply, idem)
	e.POST("/customers/:customer_id/savings", savingsHandler.Apply, idem)

	e.GET("/loans/:loan_id/transactions", repaymentHandler.Transactions)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
