package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"ledger-service/internal/config"
	"ledger-service/internal/database"
	"ledger-service/internal/handlers"
	"ledger-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}

	cfg := config.Load()

	// Initialize Database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	// Init Services
	timezoneService := services.NewGoogleTimezoneService(cfg.TimezoneAPIURL, cfg.TimezoneAPIKey)
	transactionService := services.NewTransactionService(db, timezoneService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)

	// Initialize Gin
	r := gin.Default()

	// Ping endpoint
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome To Transaction Ledger service",
		})
	})

	r.POST("/transactions/import", transactionHandler.Import)
	r.GET("/transactions", transactionHandler.GetTransactions)
	r.GET("/transactions/client", transactionHandler.GetClientTransactions)
	r.GET("/transactions/january2024", transactionHandler.GetJanuary2024Transactions)
	r.GET("/transactions/export", transactionHandler.Export)

	log.Printf("HTTP Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
