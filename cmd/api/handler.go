package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "dietlog-backend/internal/auth/usecase"
	catalogUsecase "dietlog-backend/internal/catalog/usecase"
	foodlogUsecase "dietlog-backend/internal/foodlog/usecase"
	predictionUsecase "dietlog-backend/internal/prediction/usecase"
	"dietlog-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase       authUsecase.AuthUsecase
	foodLogUsecase    foodlogUsecase.FoodLogUsecase
	catalogUsecase    catalogUsecase.CatalogUsecase
	predictionUsecase predictionUsecase.PredictionUsecase
	config            *config.Config
}

func NewHandler(authUc authUsecase.AuthUsecase, foodLogUc foodlogUsecase.FoodLogUsecase, catalogUc catalogUsecase.CatalogUsecase, predictionUc predictionUsecase.PredictionUsecase, cfg *config.Config) *Handler {
	return &Handler{
		authUsecase:       authUc,
		foodLogUsecase:    foodLogUc,
		catalogUsecase:    catalogUc,
		predictionUsecase: predictionUc,
		config:            cfg,
	}
}

// Router builds the gin engine with middleware and routes
func (h *Handler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	r.Use(TimeoutMiddleware(h.config.RequestTimeout))

	SetupRoutes(r, h.authUsecase, h.foodLogUsecase, h.catalogUsecase, h.predictionUsecase)
	return r
}

// TimeoutMiddleware gives every request a deadline. A handler that lets the
// deadline pass without answering gets a 500.
func TimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "request timed out"})
		}
	}
}
