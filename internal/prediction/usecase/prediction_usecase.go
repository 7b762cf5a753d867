package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"dietlog-backend/internal/foodlog/domain"
	foodlogdto "dietlog-backend/internal/foodlog/dto"
	"dietlog-backend/internal/prediction/dto"
	"dietlog-backend/pkg/apperr"
	"dietlog-backend/pkg/estimator"
	"dietlog-backend/pkg/imaging"
	"dietlog-backend/pkg/rekognition"

	"golang.org/x/sync/errgroup"
)

const (
	defaultMass     = 100
	defaultFoodName = "photo meal"
)

// Estimator predicts per-gram macros from an image tensor
type Estimator interface {
	Estimate(ctx context.Context, t imaging.Tensor) (estimator.PerGram, error)
}

// Labeler names the ingredients on a photo
type Labeler interface {
	Labels(ctx context.Context, image []byte) ([]rekognition.Label, error)
}

// PhotoStore archives the uploaded photo and returns its key
type PhotoStore interface {
	Put(ctx context.Context, userID string, data []byte) (string, error)
}

// IntakeRecorder persists the estimated meal
type IntakeRecorder interface {
	RecordIntake(ctx context.Context, userID string, in foodlogdto.IntakeInput) (*domain.FoodIntakeEntry, error)
}

// PredictionUsecase estimates nutrition from a meal photo and logs it
type PredictionUsecase interface {
	Predict(ctx context.Context, userID string, req dto.PredictRequest) (*dto.PredictResponse, error)

	// SetLabeler enables ingredient labels in the response
	SetLabeler(labeler Labeler)

	// SetPhotoStore enables archiving of uploaded photos
	SetPhotoStore(store PhotoStore)
}

type predictionUsecase struct {
	estimator Estimator
	recorder  IntakeRecorder
	labeler   Labeler
	store     PhotoStore
}

func NewPredictionUsecase(est Estimator, recorder IntakeRecorder) PredictionUsecase {
	return &predictionUsecase{estimator: est, recorder: recorder}
}

func (u *predictionUsecase) SetLabeler(labeler Labeler) {
	u.labeler = labeler
}

func (u *predictionUsecase) SetPhotoStore(store PhotoStore) {
	u.store = store
}

// CaloriesFromMacros applies 4 kcal/g for protein and carbs and 9 kcal/g for fat
func CaloriesFromMacros(protein, carbs, fat float64) float64 {
	return protein*4 + carbs*4 + fat*9
}

func (u *predictionUsecase) Predict(ctx context.Context, userID string, req dto.PredictRequest) (*dto.PredictResponse, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, fmt.Errorf("%w: No image data provided", apperr.ErrValidation)
	}

	mass := float64(defaultMass)
	if req.Mass != nil {
		mass = float64(*req.Mass)
	}
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass must be greater than zero", apperr.ErrValidation)
	}

	raw, err := imaging.DecodeBase64(req.Image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	tensor, err := imaging.Preprocess(raw, imaging.InputSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}

	var (
		perGram estimator.PerGram
		labels  []rekognition.Label
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		perGram, err = u.estimator.Estimate(gctx, tensor)
		return err
	})
	if u.labeler != nil {
		g.Go(func() error {
			l, err := u.labeler.Labels(gctx, raw)
			if err != nil {
				// labels are optional
				log.Printf("[Predict] Ingredient labels unavailable: %v", err)
				return nil
			}
			labels = l
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", apperr.ErrUpstream, err)
	}

	// regression outputs can dip slightly below zero
	protein := math.Max(perGram.Protein, 0) * mass
	fat := math.Max(perGram.Fat, 0) * mass
	carbs := math.Max(perGram.Carbs, 0) * mass
	nutrition := dto.Nutrition{
		Protein:  protein,
		Fat:      fat,
		Carbs:    carbs,
		Calories: CaloriesFromMacros(protein, carbs, fat),
		Mass:     mass,
	}

	var imageKey string
	if u.store != nil {
		if imageKey, err = u.store.Put(ctx, userID, raw); err != nil {
			log.Printf("[Predict] Failed to archive photo for user %s: %v", userID, err)
			imageKey = ""
		}
	}

	foodName := defaultFoodName
	if len(labels) > 0 {
		foodName = labels[0].Name
	}
	mealType := req.MealType

	_, err = u.recorder.RecordIntake(ctx, userID, foodlogdto.IntakeInput{
		FoodName: &foodName,
		Calories: &nutrition.Calories,
		Carbs:    &nutrition.Carbs,
		Proteins: &nutrition.Protein,
		Fats:     &nutrition.Fat,
		MealType: &mealType,
		Source:   domain.SourcePhoto,
		Mass:     mass,
		ImageKey: imageKey,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.PredictResponse{Nutrition: nutrition}
	for _, l := range labels {
		resp.Ingredients = append(resp.Ingredients, l.Name)
		resp.Probabilities = append(resp.Probabilities, l.Probability)
	}
	return resp, nil
}
