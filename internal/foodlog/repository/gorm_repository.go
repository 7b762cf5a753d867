package repository

import (
	"context"
	"errors"

	"dietlog-backend/internal/foodlog/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormFoodLogRepository implements FoodLogRepository using GORM
type gormFoodLogRepository struct {
	db *gorm.DB
}

// NewFoodLogRepository creates a new GORM-based FoodLogRepository
func NewFoodLogRepository(db *gorm.DB) FoodLogRepository {
	return &gormFoodLogRepository{db: db}
}

// Migrate creates or updates the food log tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.FoodIntakeEntry{}, &domain.DailyCalorieTotal{})
}

func (r *gormFoodLogRepository) RecordIntake(ctx context.Context, entry *domain.FoodIntakeEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return incrementDailyTotal(tx, entry.UserID, entry.Date, entry.Calories)
	})
}

// incrementDailyTotal creates the (user, day) row or adds calories to it in a
// single statement, so concurrent writers never lose an increment.
func incrementDailyTotal(tx *gorm.DB, userID, date string, calories float64) error {
	row := domain.DailyCalorieTotal{
		UserID:        userID,
		Date:          date,
		TotalCalories: calories,
	}
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "log_date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_calories": gorm.Expr("daily_calorie_totals.total_calories + ?", calories),
			"updated_at":     gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&row).Error
}

func (r *gormFoodLogRepository) FindDailyTotal(ctx context.Context, userID, date string) (*domain.DailyCalorieTotal, error) {
	var total domain.DailyCalorieTotal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND log_date = ?", userID, date).
		First(&total).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &total, nil
}

func (r *gormFoodLogRepository) ListDailyTotals(ctx context.Context, userID, startDate, endDate string) ([]domain.DailyCalorieTotal, error) {
	var totals []domain.DailyCalorieTotal
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND log_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("log_date ASC").
		Find(&totals).Error
	return totals, err
}

func (r *gormFoodLogRepository) SumMacros(ctx context.Context, userID, mealType, sinceDate, untilDate string) (domain.MacroTotals, error) {
	var totals domain.MacroTotals

	query := r.db.WithContext(ctx).Model(&domain.FoodIntakeEntry{}).
		Select("COALESCE(SUM(calories), 0) AS calories, COALESCE(SUM(carbs), 0) AS carbs, " +
			"COALESCE(SUM(proteins), 0) AS proteins, COALESCE(SUM(fats), 0) AS fats").
		Where("user_id = ? AND log_date >= ?", userID, sinceDate)

	if mealType != "" {
		query = query.Where("meal_type = ?", mealType)
	}
	if untilDate != "" {
		query = query.Where("log_date <= ?", untilDate)
	}

	err := query.Scan(&totals).Error
	return totals, err
}

func (r *gormFoodLogRepository) ListEntries(ctx context.Context, userID, startDate, endDate string) ([]domain.FoodIntakeEntry, error) {
	var entries []domain.FoodIntakeEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND log_date BETWEEN ? AND ?", userID, startDate, endDate).
		Order("log_date ASC, logged_at ASC").
		Find(&entries).Error
	return entries, err
}
