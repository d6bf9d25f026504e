package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pkondray/bankledger/internal/core/services"
	"github.com/pkondray/bankledger/internal/middleware"
	"github.com/pkondray/bankledger/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(r *gin.Engine, cfg *config.Config, svc *services.Container) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, cfg, svc)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, svc *services.Container) {
	// Owner identity comes from the bearer token for the whole v1 group.
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerAccountRoutes(v1, svc.Account)
	registerTransactionRoutes(v1, svc.Transaction)
	registerLedgerRoutes(v1, svc.Ledger)
}
