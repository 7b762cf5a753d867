package dto

import (
	"time"

	"dietlog-backend/internal/foodlog/domain"
)

// SaveIntakeRequest is the body of POST /save. Every field is optional;
// a body with none of them set is rejected.
type SaveIntakeRequest struct {
	Name     *string  `json:"name"`
	Calories *float64 `json:"calories"`
	Carbs    *float64 `json:"carbs"`
	Proteins *float64 `json:"proteins"`
	Fats     *float64 `json:"fats"`
	MealType *string  `json:"mealType"`
}

// IntakeInput is what the usecase needs to record one entry.
type IntakeInput struct {
	FoodName *string
	Calories *float64
	Carbs    *float64
	Proteins *float64
	Fats     *float64
	MealType *string
	Source   domain.Source
	Mass     float64
	ImageKey string
}

func (r SaveIntakeRequest) ToInput() IntakeInput {
	return IntakeInput{
		FoodName: r.Name,
		Calories: r.Calories,
		Carbs:    r.Carbs,
		Proteins: r.Proteins,
		Fats:     r.Fats,
		MealType: r.MealType,
		Source:   domain.SourceManual,
	}
}

// IsEmpty reports whether no entry field was supplied.
func (in IntakeInput) IsEmpty() bool {
	return in.FoodName == nil && in.Calories == nil && in.Carbs == nil &&
		in.Proteins == nil && in.Fats == nil && in.MealType == nil
}

type SaveIntakeResponse struct {
	Message    string `json:"message"`
	ClearInput bool   `json:"clear_input"`
}

type TodayCaloriesResponse struct {
	TotalCalories float64 `json:"totalCalories"`
}

type MealTypeTotalsResponse struct {
	TotalBreakfastCalories float64 `json:"totalBreakfastCalories"`
	TotalCarbs             float64 `json:"totalCarbs"`
	TotalProteins          float64 `json:"totalProteins"`
	TotalFats              float64 `json:"totalFats"`
}

type MacroTotalsResponse struct {
	TotalCalories float64 `json:"totalCalories"`
	TotalCarbs    float64 `json:"totalCarbs"`
	TotalProteins float64 `json:"totalProteins"`
	TotalFats     float64 `json:"totalFats"`
}

type FoodItem struct {
	Name      string  `json:"name"`
	Calories  float64 `json:"calories"`
	Carbs     float64 `json:"carbs"`
	Proteins  float64 `json:"proteins"`
	Fats      float64 `json:"fats"`
	Timestamp string  `json:"timestamp"`
}

type MealGroupResponse struct {
	Date     string     `json:"date"`
	MealType string     `json:"meal_type"`
	Foods    []FoodItem `json:"foods"`
}

type NoDataResponse struct {
	Message string        `json:"message"`
	Data    []interface{} `json:"data"`
}

type DailyTotalResponse struct {
	Date          string  `json:"date"`
	TotalCalories float64 `json:"totalCalories"`
}

func ToMealGroupResponses(groups []domain.MealGroup) []MealGroupResponse {
	out := make([]MealGroupResponse, 0, len(groups))
	for _, g := range groups {
		foods := make([]FoodItem, 0, len(g.Foods))
		for _, e := range g.Foods {
			foods = append(foods, FoodItem{
				Name:      e.FoodName,
				Calories:  e.Calories,
				Carbs:     e.Carbs,
				Proteins:  e.Proteins,
				Fats:      e.Fats,
				Timestamp: e.Timestamp.UTC().Format(time.RFC3339),
			})
		}
		out = append(out, MealGroupResponse{Date: g.Date, MealType: g.MealType, Foods: foods})
	}
	return out
}
