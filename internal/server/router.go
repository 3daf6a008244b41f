package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/gymbridge-backend/internal/handlers"
)

type RouterConfig struct {
	ClientHandler      *handlers.ClientHandler
	PlanHandler        *handlers.PlanHandler
	AssociationHandler *handlers.AssociationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Clients
		api.POST("/clients", cfg.ClientHandler.CreateClient)
		api.GET("/clients", cfg.ClientHandler.ListClients)
		api.GET("/clients/:id", cfg.ClientHandler.GetClient)
		api.DELETE("/clients/:id", cfg.ClientHandler.DeleteClient)
		api.GET("/clients/:id/plans", cfg.ClientHandler.GetClientPlans)
		api.GET("/clients/:id/available-plans", cfg.ClientHandler.GetAvailablePlans)
		api.GET("/clients/:id/tracking", cfg.ClientHandler.ListTrackingRecords)
		api.POST("/clients/:id/tracking", cfg.ClientHandler.CreateTrackingRecord)

		// Plans
		api.POST("/plans", cfg.PlanHandler.CreatePlan)
		api.GET("/plans", cfg.PlanHandler.ListPlans)
		api.GET("/plans/:id", cfg.PlanHandler.GetPlan)

		// Associations
		api.POST("/associations", cfg.AssociationHandler.Associate)
		api.DELETE("/associations", cfg.AssociationHandler.Disassociate)
		api.POST("/contracts/:id/renew", cfg.AssociationHandler.RenewContract)
		api.POST("/maintenance/expire-contracts", cfg.AssociationHandler.ExpireDueContracts)
		api.GET("/associations/drift", cfg.AssociationHandler.CheckReferences)
	}

	return router
}
