package api

import (
	"net/http"

	"dietlog-backend/internal/auth/delivery"
	authUsecase "dietlog-backend/internal/auth/usecase"
	catalogDelivery "dietlog-backend/internal/catalog/delivery"
	catalogUsecase "dietlog-backend/internal/catalog/usecase"
	foodlogDelivery "dietlog-backend/internal/foodlog/delivery"
	foodlogUsecase "dietlog-backend/internal/foodlog/usecase"
	predictionDelivery "dietlog-backend/internal/prediction/delivery"
	predictionUsecase "dietlog-backend/internal/prediction/usecase"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, foodLogUc foodlogUsecase.FoodLogUsecase, catalogUc catalogUsecase.CatalogUsecase, predictionUc predictionUsecase.PredictionUsecase) {
	catalogHandler := catalogDelivery.NewCatalogHandler(catalogUc)
	foodLogHandler := foodlogDelivery.NewFoodLogHandler(foodLogUc)
	predictionHandler := predictionDelivery.NewPredictionHandler(predictionUc)

	// Health check (no auth required)
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Food catalog (public)
	r.GET("/search", catalogHandler.Search)
	r.GET("/product/:code", catalogHandler.GetProduct)

	// Food log (protected)
	authed := r.Group("")
	authed.Use(delivery.AuthMiddleware(authUc))
	{
		authed.POST("/save", delivery.Authed(foodLogHandler.SaveIntake))
		authed.GET("/user-calories", delivery.Authed(foodLogHandler.GetTodayCalories))
		authed.GET("/total-breakfast-calories", delivery.Authed(foodLogHandler.GetMealTypeTotals))
		authed.GET("/data", delivery.Authed(foodLogHandler.GetTodayMacros))
		authed.GET("/total-macros", delivery.Authed(foodLogHandler.GetTotalMacros))
		authed.GET("/daily-totals", delivery.Authed(foodLogHandler.GetDailyTotals))
		authed.POST("/predict", delivery.Authed(predictionHandler.Predict))
	}
}
