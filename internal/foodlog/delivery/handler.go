package delivery

import (
	"errors"
	"io"
	"net/http"

	authdomain "dietlog-backend/internal/auth/domain"
	"dietlog-backend/internal/foodlog/dto"
	"dietlog-backend/internal/foodlog/usecase"
	"dietlog-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

const logTag = "FoodLog"

// FoodLogHandler handles food logging and aggregation requests
type FoodLogHandler struct {
	foodLogUsecase usecase.FoodLogUsecase
}

// NewFoodLogHandler creates a new FoodLogHandler
func NewFoodLogHandler(foodLogUsecase usecase.FoodLogUsecase) *FoodLogHandler {
	return &FoodLogHandler{foodLogUsecase: foodLogUsecase}
}

// SaveIntake logs one manually entered food item
// POST /save
func (h *FoodLogHandler) SaveIntake(c *gin.Context, id authdomain.Identity) {
	var req dto.SaveIntakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := req.ToInput()
	if in.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	if _, err := h.foodLogUsecase.RecordIntake(c.Request.Context(), id.UserID, in); err != nil {
		response.Error(c, logTag, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SaveIntakeResponse{Message: "Saved successfully", ClearInput: true})
}

// GetTodayCalories returns today's calorie total
// GET /user-calories
func (h *FoodLogHandler) GetTodayCalories(c *gin.Context, id authdomain.Identity) {
	total, err := h.foodLogUsecase.GetTodayTotal(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, logTag, err)
		return
	}
	c.JSON(http.StatusOK, dto.TodayCaloriesResponse{TotalCalories: total})
}

// GetMealTypeTotals sums one meal type from a start day onwards
// GET /total-breakfast-calories?mealType=lunch&since=2024-03-01
func (h *FoodLogHandler) GetMealTypeTotals(c *gin.Context, id authdomain.Identity) {
	mealType := c.DefaultQuery("mealType", "breakfast")
	since := c.Query("since")

	totals, err := h.foodLogUsecase.GetTotalsByMealType(c.Request.Context(), id.UserID, mealType, since)
	if err != nil {
		response.ErrorWithMessage(c, logTag, err, "Could not retrieve breakfast data.")
		return
	}

	c.JSON(http.StatusOK, dto.MealTypeTotalsResponse{
		TotalBreakfastCalories: totals.Calories,
		TotalCarbs:             totals.Carbs,
		TotalProteins:          totals.Proteins,
		TotalFats:              totals.Fats,
	})
}

// GetTodayMacros returns today's totals across all meals
// GET /data
func (h *FoodLogHandler) GetTodayMacros(c *gin.Context, id authdomain.Identity) {
	totals, err := h.foodLogUsecase.GetTodayMacros(c.Request.Context(), id.UserID)
	if err != nil {
		response.Error(c, logTag, err)
		return
	}

	c.JSON(http.StatusOK, dto.MacroTotalsResponse{
		TotalCalories: totals.Calories,
		TotalCarbs:    totals.Carbs,
		TotalProteins: totals.Proteins,
		TotalFats:     totals.Fats,
	})
}

// GetTotalMacros lists logged foods grouped by day and meal type
// GET /total-macros?startDate=2024-03-01&endDate=2024-03-07
func (h *FoodLogHandler) GetTotalMacros(c *gin.Context, id authdomain.Identity) {
	groups, err := h.foodLogUsecase.GetTotalsForDateRange(c.Request.Context(), id.UserID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, logTag, err)
		return
	}

	if len(groups) == 0 {
		c.JSON(http.StatusOK, dto.NoDataResponse{
			Message: "No data found for the given date range",
			Data:    []interface{}{},
		})
		return
	}

	c.JSON(http.StatusOK, dto.ToMealGroupResponses(groups))
}

// GetDailyTotals returns the cached calorie total of each logged day in range
// GET /daily-totals?startDate=2024-03-01&endDate=2024-03-31
func (h *FoodLogHandler) GetDailyTotals(c *gin.Context, id authdomain.Identity) {
	totals, err := h.foodLogUsecase.GetDailyHistory(c.Request.Context(), id.UserID, c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		response.Error(c, logTag, err)
		return
	}

	out := make([]dto.DailyTotalResponse, 0, len(totals))
	for _, t := range totals {
		out = append(out, dto.DailyTotalResponse{Date: t.Date, TotalCalories: t.TotalCalories})
	}
	c.JSON(http.StatusOK, out)
}
