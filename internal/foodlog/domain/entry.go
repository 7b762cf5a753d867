package domain

import "time"

const DateLayout = "2006-01-02"

const DefaultMealType = "breakfast"

// Source records how an entry was logged
type Source string

const (
	SourceManual Source = "manual"
	SourcePhoto  Source = "photo"
)

// FoodIntakeEntry is one logged food item. Rows are written once and never changed.
type FoodIntakeEntry struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;index:idx_entry_user_date,priority:1"`
	FoodName  string    `json:"food_name"`
	Calories  float64   `json:"calories" gorm:"not null;default:0"`
	Carbs     float64   `json:"carbs" gorm:"not null;default:0"`
	Proteins  float64   `json:"proteins" gorm:"not null;default:0"`
	Fats      float64   `json:"fats" gorm:"not null;default:0"`
	MealType  string    `json:"meal_type" gorm:"not null;default:breakfast"`
	Source    Source    `json:"source" gorm:"not null;default:manual"`
	Mass      float64   `json:"mass,omitempty"`
	ImageKey  string    `json:"image_key,omitempty"`
	Timestamp time.Time `json:"timestamp" gorm:"column:logged_at;not null"`
	// Date is Timestamp's calendar day in the configured day timezone.
	Date string `json:"date" gorm:"column:log_date;type:varchar(10);not null;index:idx_entry_user_date,priority:2"`
}

// DailyCalorieTotal caches the calorie sum of a user's entries for one day.
type DailyCalorieTotal struct {
	ID            uint      `json:"-" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"not null;uniqueIndex:idx_daily_user_date,priority:1"`
	Date          string    `json:"date" gorm:"column:log_date;type:varchar(10);not null;uniqueIndex:idx_daily_user_date,priority:2"`
	TotalCalories float64   `json:"totalCalories" gorm:"not null;default:0"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}

// MacroTotals is a sum over a set of entries.
type MacroTotals struct {
	Calories float64
	Carbs    float64
	Proteins float64
	Fats     float64
}

// MealGroup is every entry a user logged for one meal type on one day.
type MealGroup struct {
	Date     string
	MealType string
	Foods    []FoodIntakeEntry
}
