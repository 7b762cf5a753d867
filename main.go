package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	api "dietlog-backend/cmd/api"
	authUsecase "dietlog-backend/internal/auth/usecase"
	catalogUsecase "dietlog-backend/internal/catalog/usecase"
	foodlogRepo "dietlog-backend/internal/foodlog/repository"
	foodlogUsecase "dietlog-backend/internal/foodlog/usecase"
	predictionUsecase "dietlog-backend/internal/prediction/usecase"
	"dietlog-backend/pkg/config"
	"dietlog-backend/pkg/database"
	"dietlog-backend/pkg/estimator"
	"dietlog-backend/pkg/events"
	"dietlog-backend/pkg/fooddata"
	"dietlog-backend/pkg/rekognition"
	"dietlog-backend/pkg/storage"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg := config.Load()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	// Initialize database
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("[WARN] Failed to close database: %v", err)
		}
	}()

	if err := foodlogRepo.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Repositories and use cases (dependency injection)
	foodLogRepository := foodlogRepo.NewFoodLogRepository(db)
	foodLogUc := foodlogUsecase.NewFoodLogUsecase(foodLogRepository, loc)
	authUc := authUsecase.NewAuthUsecase(cfg.JWTSecret)
	catalogUc := catalogUsecase.NewCatalogUsecase(fooddata.NewClient(cfg.FDCBaseURL, cfg.FDCAPIKey))
	predictionUc := predictionUsecase.NewPredictionUsecase(estimator.NewClient(cfg.EstimatorURL, cfg.EstimatorTimeout), foodLogUc)

	// Intake events (Pub/Sub), optional
	if cfg.GoogleProjectID != "" {
		publisher, err := events.NewPublisher(ctx, cfg.GoogleProjectID, cfg.IntakeTopic, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize intake publisher (events disabled): %v", err)
		} else {
			log.Printf("[DEBUG] Publishing intake events to topic %s", cfg.IntakeTopic)
			foodLogUc.SetEventPublisher(publisher)
			defer func() {
				if err := publisher.Close(); err != nil {
					log.Printf("[WARN] Failed to close intake publisher: %v", err)
				}
			}()
		}
	} else {
		log.Printf("[WARN] GOOGLE_PROJECT_ID not configured, intake events disabled")
	}

	// AWS collaborators, optional
	if cfg.PhotoBucket != "" || cfg.RekognitionEnabled {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Printf("[WARN] Unable to load AWS config (photo archive and labels disabled): %v", err)
		} else {
			if cfg.PhotoBucket != "" {
				predictionUc.SetPhotoStore(storage.NewPhotoStore(awsCfg, cfg.PhotoBucket))
				log.Printf("[DEBUG] Archiving meal photos to s3://%s", cfg.PhotoBucket)
			}
			if cfg.RekognitionEnabled {
				predictionUc.SetLabeler(rekognition.NewLabeler(awsCfg))
				log.Printf("[DEBUG] Rekognition ingredient labels enabled")
			}
		}
	}

	handler := api.NewHandler(authUc, foodLogUc, catalogUc, predictionUc, cfg)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s (day timezone %s)", cfg.Port, loc)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		log.Printf("[ERROR] Server failed: %v", err)
		return
	case <-ctx.Done():
		log.Println("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] Graceful shutdown failed: %v", err)
	}
	log.Println("Server stopped")
}
