package delivery

import (
	"errors"
	"io"
	"net/http"

	authdomain "dietlog-backend/internal/auth/domain"
	"dietlog-backend/internal/prediction/dto"
	"dietlog-backend/internal/prediction/usecase"
	"dietlog-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// PredictionHandler serves photo based meal logging
type PredictionHandler struct {
	predictionUsecase usecase.PredictionUsecase
}

func NewPredictionHandler(predictionUsecase usecase.PredictionUsecase) *PredictionHandler {
	return &PredictionHandler{predictionUsecase: predictionUsecase}
}

// Predict estimates nutrition for a meal photo and logs it
// POST /predict
func (h *PredictionHandler) Predict(c *gin.Context, id authdomain.Identity) {
	var req dto.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image data provided"})
		return
	}

	resp, err := h.predictionUsecase.Predict(c.Request.Context(), id.UserID, req)
	if err != nil {
		response.ErrorWithMessage(c, "Predict", err, "Failed to process image.")
		return
	}
	c.JSON(http.StatusOK, resp)
}
