package main

import (
	"fmt"
	"os"

	"github.com/yungbote/gymbridge-backend/internal/db"
	"github.com/yungbote/gymbridge-backend/internal/handlers"
	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/repos"
	"github.com/yungbote/gymbridge-backend/internal/server"
	"github.com/yungbote/gymbridge-backend/internal/services"
	"github.com/yungbote/gymbridge-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	clientRepo := repos.NewClientRepo(thePG, log)
	planRepo := repos.NewPlanRepo(thePG, log)
	contractRepo := repos.NewContractRepo(thePG, log)
	trackingRepo := repos.NewTrackingRecordRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	membershipEvents, err := services.NewMembershipEvents(log)
	if err != nil {
		log.Warn("Could not init membership events, continuing without", "error", err)
		membershipEvents = services.NopMembershipEvents{}
	}
	defer membershipEvents.Close()

	compensationRunner := services.NewCompensationRunner(log, trackingRepo)
	associationService := services.NewAssociationService(thePG, log, clientRepo, planRepo, contractRepo, compensationRunner, membershipEvents)
	queryService := services.NewMembershipQueryService(log, clientRepo, planRepo, contractRepo)

	// Handlers
	log.Info("Setting up Handlers from main...")
	clientHandler := handlers.NewClientHandler(log, clientRepo, trackingRepo, queryService, associationService)
	planHandler := handlers.NewPlanHandler(log, planRepo)
	associationHandler := handlers.NewAssociationHandler(log, associationService, queryService)

	// Router
	router := server.NewRouter(server.RouterConfig{
		ClientHandler:      clientHandler,
		PlanHandler:        planHandler,
		AssociationHandler: associationHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
