package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// PredictRequest is the body of POST /predict
type PredictRequest struct {
	Image    string `json:"image"`
	MealType string `json:"meal_type"`
	Mass     *Grams `json:"mass"`
}

// Grams accepts a JSON number or a numeric string
type Grams float64

func (g *Grams) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*g = Grams(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("mass must be a number")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fmt.Errorf("mass must be a number")
	}
	*g = Grams(n)
	return nil
}

type Nutrition struct {
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
	Carbs    float64 `json:"carbs"`
	Calories float64 `json:"calories"`
	Mass     float64 `json:"mass"`
}

type PredictResponse struct {
	Ingredients   []string  `json:"ingredients,omitempty"`
	Probabilities []float64 `json:"probabilities,omitempty"`
	Nutrition     Nutrition `json:"nutrition"`
}
