package main

import (
	"log"

	"photo-converter/internal/config"
	"photo-converter/internal/handlers"
	"photo-converter/internal/logger"
	"photo-converter/internal/services"
	"photo-converter/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	store, err := storage.NewDiskStore(cfg.Upload.Dir)
	if err != nil {
		log.Fatal("Failed to initialize upload storage:", err)
	}
	selector := services.NewSelector(store, cfg.Processing.Concurrency)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.MaxMultipartMemory = cfg.Upload.MaxFileSizeMB * 1024 * 1024

	router.GET("/health", handlers.Health)

	api := router.Group("/api")
	{
		convertHandler := handlers.NewConvertHandler(selector, store, cfg)
		api.POST("/convert", convertHandler.Convert)
	}

	logger.Info("🚀 Service listening on port " + cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
