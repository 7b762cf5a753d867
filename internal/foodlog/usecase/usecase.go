package usecase

import (
	"context"

	"dietlog-backend/internal/foodlog/domain"
	"dietlog-backend/internal/foodlog/dto"
	"dietlog-backend/pkg/events"
)

// FoodLogUsecase defines the food logging and aggregation operations
type FoodLogUsecase interface {
	// RecordIntake stamps and persists one entry and updates the user's daily total
	RecordIntake(ctx context.Context, userID string, in dto.IntakeInput) (*domain.FoodIntakeEntry, error)

	// GetTodayTotal returns today's cached calorie total, 0 when nothing was logged
	GetTodayTotal(ctx context.Context, userID string) (float64, error)

	// GetTotalsByMealType sums one meal type from sinceDate onwards.
	// Empty mealType means breakfast, empty sinceDate means today.
	GetTotalsByMealType(ctx context.Context, userID, mealType, sinceDate string) (domain.MacroTotals, error)

	// GetTodayMacros sums every meal logged today
	GetTodayMacros(ctx context.Context, userID string) (domain.MacroTotals, error)

	// GetTotalsForDateRange groups entries in [startDate, endDate] by day and meal type
	GetTotalsForDateRange(ctx context.Context, userID, startDate, endDate string) ([]domain.MealGroup, error)

	// GetDailyHistory returns the cached daily totals in [startDate, endDate]
	GetDailyHistory(ctx context.Context, userID, startDate, endDate string) ([]domain.DailyCalorieTotal, error)

	// SetEventPublisher sets where intake events are sent after a successful write
	SetEventPublisher(publisher EventPublisher)
}

// EventPublisher receives an event for every recorded intake
type EventPublisher interface {
	PublishIntake(ctx context.Context, event events.IntakeRecorded) error
}
