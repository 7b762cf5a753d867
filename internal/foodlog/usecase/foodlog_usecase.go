package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"strings"
	"time"

	"dietlog-backend/internal/foodlog/domain"
	"dietlog-backend/internal/foodlog/dto"
	"dietlog-backend/internal/foodlog/repository"
	"dietlog-backend/pkg/apperr"
	"dietlog-backend/pkg/events"
)

const maxMealTypeLength = 32

// mealOrder ranks the common meal types; anything else sorts after them by name.
var mealOrder = map[string]int{
	"breakfast": 0,
	"lunch":     1,
	"dinner":    2,
	"snack":     3,
}

type foodLogUsecase struct {
	repo      repository.FoodLogRepository
	location  *time.Location
	now       func() time.Time
	publisher EventPublisher
}

// NewFoodLogUsecase creates a usecase whose calendar days are computed in loc
func NewFoodLogUsecase(repo repository.FoodLogRepository, loc *time.Location) FoodLogUsecase {
	if loc == nil {
		loc = time.UTC
	}
	return &foodLogUsecase{
		repo:      repo,
		location:  loc,
		now:       time.Now,
		publisher: events.NopPublisher{},
	}
}

func (u *foodLogUsecase) SetEventPublisher(publisher EventPublisher) {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	u.publisher = publisher
}

func (u *foodLogUsecase) today() string {
	return u.now().In(u.location).Format(domain.DateLayout)
}

func (u *foodLogUsecase) RecordIntake(ctx context.Context, userID string, in dto.IntakeInput) (*domain.FoodIntakeEntry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: no data provided", apperr.ErrValidation)
	}

	calories, err := macro("calories", in.Calories)
	if err != nil {
		return nil, err
	}
	carbs, err := macro("carbs", in.Carbs)
	if err != nil {
		return nil, err
	}
	proteins, err := macro("proteins", in.Proteins)
	if err != nil {
		return nil, err
	}
	fats, err := macro("fats", in.Fats)
	if err != nil {
		return nil, err
	}

	mealType := ""
	if in.MealType != nil {
		mealType = *in.MealType
	}
	mealType, err = normalizeMealType(mealType)
	if err != nil {
		return nil, err
	}

	foodName := ""
	if in.FoodName != nil {
		foodName = strings.TrimSpace(*in.FoodName)
	}

	source := in.Source
	if source == "" {
		source = domain.SourceManual
	}

	now := u.now()
	entry := &domain.FoodIntakeEntry{
		UserID:    userID,
		FoodName:  foodName,
		Calories:  calories,
		Carbs:     carbs,
		Proteins:  proteins,
		Fats:      fats,
		MealType:  mealType,
		Source:    source,
		Mass:      in.Mass,
		ImageKey:  in.ImageKey,
		Timestamp: now.UTC(),
		Date:      now.In(u.location).Format(domain.DateLayout),
	}

	if err := u.repo.RecordIntake(ctx, entry); err != nil {
		log.Printf("[FoodLog] Failed to record intake for user %s: %v", userID, err)
		return nil, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}

	if err := u.publisher.PublishIntake(ctx, toEvent(entry)); err != nil {
		log.Printf("[FoodLog] Failed to publish intake %s: %v", entry.ID, err)
	}

	return entry, nil
}

func (u *foodLogUsecase) GetTodayTotal(ctx context.Context, userID string) (float64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	total, err := u.repo.FindDailyTotal(ctx, userID, u.today())
	if err != nil {
		return 0, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	if total == nil {
		return 0, nil
	}
	return total.TotalCalories, nil
}

func (u *foodLogUsecase) GetTotalsByMealType(ctx context.Context, userID, mealType, sinceDate string) (domain.MacroTotals, error) {
	if userID == "" {
		return domain.MacroTotals{}, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	mealType, err := normalizeMealType(mealType)
	if err != nil {
		return domain.MacroTotals{}, err
	}

	if sinceDate == "" {
		sinceDate = u.today()
	} else if _, err := parseDate("since", sinceDate); err != nil {
		return domain.MacroTotals{}, err
	}

	totals, err := u.repo.SumMacros(ctx, userID, mealType, sinceDate, "")
	if err != nil {
		return domain.MacroTotals{}, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	return totals, nil
}

func (u *foodLogUsecase) GetTodayMacros(ctx context.Context, userID string) (domain.MacroTotals, error) {
	if userID == "" {
		return domain.MacroTotals{}, fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}

	today := u.today()
	totals, err := u.repo.SumMacros(ctx, userID, "", today, today)
	if err != nil {
		return domain.MacroTotals{}, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	return totals, nil
}

func (u *foodLogUsecase) GetTotalsForDateRange(ctx context.Context, userID, startDate, endDate string) ([]domain.MealGroup, error) {
	if err := validateRange(userID, startDate, endDate); err != nil {
		return nil, err
	}

	entries, err := u.repo.ListEntries(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	return groupByDayAndMeal(entries), nil
}

func (u *foodLogUsecase) GetDailyHistory(ctx context.Context, userID, startDate, endDate string) ([]domain.DailyCalorieTotal, error) {
	if err := validateRange(userID, startDate, endDate); err != nil {
		return nil, err
	}

	totals, err := u.repo.ListDailyTotals(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperr.ErrPersistence, err)
	}
	return totals, nil
}

// groupByDayAndMeal keeps the per-item order of entries, which arrive sorted by
// day and then timestamp.
func groupByDayAndMeal(entries []domain.FoodIntakeEntry) []domain.MealGroup {
	index := make(map[string]int)
	var groups []domain.MealGroup

	for _, e := range entries {
		key := e.Date + "|" + e.MealType
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.MealGroup{Date: e.Date, MealType: e.MealType})
		}
		groups[i].Foods = append(groups[i].Foods, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Date != groups[j].Date {
			return groups[i].Date < groups[j].Date
		}
		return mealLess(groups[i].MealType, groups[j].MealType)
	})
	return groups
}

func mealLess(a, b string) bool {
	ra, okA := mealOrder[a]
	rb, okB := mealOrder[b]
	switch {
	case okA && okB:
		return ra < rb
	case okA:
		return true
	case okB:
		return false
	default:
		return a < b
	}
}

func validateRange(userID, startDate, endDate string) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", apperr.ErrValidation)
	}
	start, err := parseDate("startDate", startDate)
	if err != nil {
		return err
	}
	end, err := parseDate("endDate", endDate)
	if err != nil {
		return err
	}
	if start.After(end) {
		return fmt.Errorf("%w: startDate must not be after endDate", apperr.ErrValidation)
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", apperr.ErrValidation, field)
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", apperr.ErrValidation, field)
	}
	return t, nil
}

func macro(field string, v *float64) (float64, error) {
	if v == nil {
		return 0, nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative number", apperr.ErrValidation, field)
	}
	return *v, nil
}

func normalizeMealType(mealType string) (string, error) {
	mealType = strings.ToLower(strings.TrimSpace(mealType))
	if mealType == "" {
		return domain.DefaultMealType, nil
	}
	if len(mealType) > maxMealTypeLength {
		return "", fmt.Errorf("%w: mealType is too long", apperr.ErrValidation)
	}
	return mealType, nil
}

func toEvent(e *domain.FoodIntakeEntry) events.IntakeRecorded {
	return events.IntakeRecorded{
		EntryID:   e.ID,
		UserID:    e.UserID,
		FoodName:  e.FoodName,
		MealType:  e.MealType,
		Source:    string(e.Source),
		Calories:  e.Calories,
		Carbs:     e.Carbs,
		Proteins:  e.Proteins,
		Fats:      e.Fats,
		Date:      e.Date,
		Timestamp: e.Timestamp,
	}
}
