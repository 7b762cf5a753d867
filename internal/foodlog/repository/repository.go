package repository

import (
	"context"

	"dietlog-backend/internal/foodlog/domain"
)

// FoodLogRepository defines data access for intake entries and daily totals
type FoodLogRepository interface {
	// RecordIntake inserts the entry and adds its calories to the daily total
	// for (entry.UserID, entry.Date) in one transaction.
	RecordIntake(ctx context.Context, entry *domain.FoodIntakeEntry) error

	// FindDailyTotal returns nil when the user has no row for date
	FindDailyTotal(ctx context.Context, userID, date string) (*domain.DailyCalorieTotal, error)

	// ListDailyTotals returns the cached totals in [startDate, endDate], ordered by date
	ListDailyTotals(ctx context.Context, userID, startDate, endDate string) ([]domain.DailyCalorieTotal, error)

	// SumMacros sums entries on or after sinceDate. An empty mealType matches all meals.
	// untilDate, when non-empty, is an inclusive upper bound.
	SumMacros(ctx context.Context, userID, mealType, sinceDate, untilDate string) (domain.MacroTotals, error)

	// ListEntries returns entries in [startDate, endDate] ordered by date then timestamp
	ListEntries(ctx context.Context, userID, startDate, endDate string) ([]domain.FoodIntakeEntry, error)
}
