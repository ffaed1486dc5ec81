package handler

import (
	"payments-worker/internal/adapter/http/middleware"
	"payments-worker/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	DepositSvc     ports.DepositService
	WithdrawalSvc  ports.WithdrawalService
	AdminSvc       ports.AdminService
	HealthCheckers []ports.HealthChecker
	AdminToken     string // empty disables /api/v1
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1", middleware.AdminAuth(deps.AdminToken))

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	depositHandler := NewDepositHandler(deps.DepositSvc)
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)
	adminHandler := NewAdminHandler(deps.AdminSvc)

	users := v1.Group("/users/:id")
	{
		users.GET("/balance", ledgerHandler.GetBalance)
		users.GET("/ledger", ledgerHandler.ListEntries)
		users.POST("/ledger", ledgerHandler.AddEntry)
		users.POST("/deposits", depositHandler.Create)
		users.POST("/deposits/:deposit_id/source", depositHandler.SubmitSource)
		users.POST("/withdrawals", withdrawalHandler.Create)
	}

	v1.GET("/deposits/:id", depositHandler.Get)
	v1.GET("/withdrawals/:id", withdrawalHandler.Get)

	admin := v1.Group("/admin")
	{
		admin.POST("/deposits/:id/confirm", adminHandler.ConfirmDeposit)
		admin.POST("/withdrawals/:id/pay", adminHandler.PayWithdrawal)
		admin.POST("/withdrawals/:id/fail", adminHandler.FailWithdrawal)
	}

	return r
}
