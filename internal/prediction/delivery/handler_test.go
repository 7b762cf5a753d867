package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	authdelivery "dietlog-backend/internal/auth/delivery"
	authusecase "dietlog-backend/internal/auth/usecase"
	"dietlog-backend/internal/prediction/dto"
	"dietlog-backend/internal/prediction/usecase"
	"dietlog-backend/pkg/apperr"

	"github.com/gin-gonic/gin"
)

type fakePrediction struct {
	usecase.PredictionUsecase
	req dto.PredictRequest
	err error
}

func (f *fakePrediction) Predict(_ context.Context, userID string, req dto.PredictRequest) (*dto.PredictResponse, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.PredictResponse{
		Ingredients:   []string{"Pizza"},
		Probabilities: []float64{0.9},
		Nutrition:     dto.Nutrition{Protein: 15, Fat: 7.5, Carbs: 30, Calories: 247.5, Mass: 150},
	}, nil
}

func serve(t *testing.T, uc usecase.PredictionUsecase, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := authusecase.NewAuthUsecase("secret")
	token, _ := auth.IssueToken("u1", time.Hour)

	r := gin.New()
	r.POST("/predict", authdelivery.AuthMiddleware(auth), authdelivery.Authed(NewPredictionHandler(uc).Predict))

	req := httptest.NewRequest(http.MethodPost, "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPredictHandler(t *testing.T) {
	fake := &fakePrediction{}
	w := serve(t, fake, `{"image":"data:image/png;base64,AAAA","meal_type":"dinner","mass":"150"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if fake.req.Mass == nil || *fake.req.Mass != 150 || fake.req.MealType != "dinner" {
		t.Fatalf("request = %+v", fake.req)
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	nutrition, ok := resp["nutrition"].(map[string]interface{})
	if !ok || nutrition["calories"] != 247.5 || nutrition["mass"] != 150.0 {
		t.Fatalf("resp = %v", resp)
	}
	if _, ok := resp["ingredients"]; !ok {
		t.Fatalf("ingredients missing: %v", resp)
	}
}

func TestPredictHandlerErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
		msg    string
	}{
		{"empty body", ``, nil, http.StatusBadRequest, "No image data provided"},
		{"no image", `{"mass":100}`, nil, http.StatusBadRequest, "No image data provided"},
		{"bad mass", `{"image":"AAAA","mass":"lots"}`, nil, http.StatusBadRequest, ""},
		{"upstream", `{"image":"AAAA"}`, fmt.Errorf("%w: model offline", apperr.ErrUpstream), http.StatusInternalServerError, "Failed to process image."},
		{"bad image", `{"image":"AAAA"}`, fmt.Errorf("%w: invalid image data", apperr.ErrValidation), http.StatusBadRequest, "validation error: invalid image data"},
		{"persistence", `{"image":"AAAA"}`, fmt.Errorf("%w: %w", apperr.ErrPersistence, errors.New("db down")), http.StatusInternalServerError, "Failed to process image."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, &fakePrediction{err: tt.err}, tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
			if tt.msg == "" {
				return
			}
			var resp map[string]string
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp["error"] != tt.msg {
				t.Fatalf("error = %q, want %q", resp["error"], tt.msg)
			}
		})
	}
}
