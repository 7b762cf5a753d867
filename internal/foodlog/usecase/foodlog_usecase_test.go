package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dietlog-backend/internal/foodlog/domain"
	"dietlog-backend/internal/foodlog/dto"
	"dietlog-backend/internal/foodlog/repository"
	"dietlog-backend/pkg/apperr"
	"dietlog-backend/pkg/database"
	"dietlog-backend/pkg/events"

	"gorm.io/gorm"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.IntakeRecorded
	err    error
}

func (p *recordingPublisher) PublishIntake(_ context.Context, ev events.IntakeRecorded) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func setup(t *testing.T) (*foodLogUsecase, *gorm.DB, *clock) {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:", false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	c := &clock{t: time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC)}
	uc := NewFoodLogUsecase(repository.NewFoodLogRepository(db), loc).(*foodLogUsecase)
	uc.now = c.Now
	return uc, db, c
}

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestRecordIntakeScenario(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.RecordIntake(ctx, "u1", dto.IntakeInput{
		Calories: f(200), Carbs: f(20), Proteins: f(5), Fats: f(2), MealType: s("breakfast"),
	})
	if err != nil {
		t.Fatalf("RecordIntake: %v", err)
	}
	_, err = uc.RecordIntake(ctx, "u1", dto.IntakeInput{
		Calories: f(300), Carbs: f(10), Proteins: f(30), Fats: f(8), MealType: s("lunch"),
	})
	if err != nil {
		t.Fatalf("RecordIntake: %v", err)
	}

	total, err := uc.GetTodayTotal(ctx, "u1")
	if err != nil {
		t.Fatalf("GetTodayTotal: %v", err)
	}
	if total != 500 {
		t.Fatalf("today total = %v, want 500", total)
	}

	breakfast, err := uc.GetTotalsByMealType(ctx, "u1", "breakfast", "")
	if err != nil {
		t.Fatalf("GetTotalsByMealType: %v", err)
	}
	want := domain.MacroTotals{Calories: 200, Carbs: 20, Proteins: 5, Fats: 2}
	if breakfast != want {
		t.Fatalf("breakfast = %+v, want %+v", breakfast, want)
	}

	all, err := uc.GetTodayMacros(ctx, "u1")
	if err != nil {
		t.Fatalf("GetTodayMacros: %v", err)
	}
	if all.Calories != 500 || all.Proteins != 35 {
		t.Fatalf("today macros = %+v", all)
	}
}

func TestRecordIntakeDefaultsAndStamping(t *testing.T) {
	uc, _, c := setup(t)

	// 20:00 UTC is already the next day in Asia/Kolkata
	c.t = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

	entry, err := uc.RecordIntake(context.Background(), "u1", dto.IntakeInput{FoodName: s("  tea ")})
	if err != nil {
		t.Fatalf("RecordIntake: %v", err)
	}
	if entry.MealType != "breakfast" {
		t.Errorf("MealType = %q, want breakfast", entry.MealType)
	}
	if entry.Calories != 0 || entry.Fats != 0 {
		t.Errorf("missing macros should default to 0, got %+v", entry)
	}
	if entry.FoodName != "tea" {
		t.Errorf("FoodName = %q", entry.FoodName)
	}
	if entry.Date != "2024-03-02" {
		t.Errorf("Date = %s, want 2024-03-02", entry.Date)
	}
	if !entry.Timestamp.Equal(c.t) || entry.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v", entry.Timestamp)
	}
	if entry.Source != domain.SourceManual {
		t.Errorf("Source = %q", entry.Source)
	}
	if entry.ID == "" {
		t.Error("ID should be assigned")
	}
}

func TestRecordIntakeValidation(t *testing.T) {
	uc, db, _ := setup(t)

	tests := []struct {
		name   string
		userID string
		in     dto.IntakeInput
	}{
		{"empty body", "u1", dto.IntakeInput{}},
		{"missing user", "", dto.IntakeInput{Calories: f(10)}},
		{"negative calories", "u1", dto.IntakeInput{Calories: f(-1)}},
		{"negative fats", "u1", dto.IntakeInput{Fats: f(-0.5)}},
		{"meal type too long", "u1", dto.IntakeInput{MealType: s("a-very-long-meal-type-name-that-goes-on")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.RecordIntake(context.Background(), tt.userID, tt.in)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("err = %v, want ErrValidation", err)
			}
		})
	}

	var entries, totals int64
	db.Model(&domain.FoodIntakeEntry{}).Count(&entries)
	db.Model(&domain.DailyCalorieTotal{}).Count(&totals)
	if entries != 0 || totals != 0 {
		t.Fatalf("rejected input wrote rows: entries=%d totals=%d", entries, totals)
	}
}

func TestGetTodayTotalWithoutEntries(t *testing.T) {
	uc, _, _ := setup(t)

	total, err := uc.GetTodayTotal(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 {
		t.Fatalf("total = %v, want 0", total)
	}
}

func TestDailyTotalMatchesEntrySum(t *testing.T) {
	uc, db, _ := setup(t)
	ctx := context.Background()

	cals := []float64{120.5, 80, 0, 310.25, 45}
	var sum float64
	for _, c := range cals {
		sum += c
		if _, err := uc.RecordIntake(ctx, "u1", dto.IntakeInput{Calories: f(c), MealType: s("snack")}); err != nil {
			t.Fatalf("RecordIntake: %v", err)
		}
	}

	total, _ := uc.GetTodayTotal(ctx, "u1")

	var entrySum float64
	db.Model(&domain.FoodIntakeEntry{}).Where("user_id = ?", "u1").Select("SUM(calories)").Scan(&entrySum)

	if total != sum || total != entrySum {
		t.Fatalf("total = %v, sum = %v, entries = %v", total, sum, entrySum)
	}
}

func TestConcurrentRecordIntake(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := uc.RecordIntake(ctx, "u1", dto.IntakeInput{Calories: f(50)}); err != nil {
				t.Errorf("RecordIntake: %v", err)
			}
		}()
	}
	wg.Wait()

	total, err := uc.GetTodayTotal(ctx, "u1")
	if err != nil {
		t.Fatalf("GetTodayTotal: %v", err)
	}
	if total != n*50 {
		t.Fatalf("total = %v, want %v", total, n*50)
	}
}

func TestGetTotalsByMealTypeNoMatch(t *testing.T) {
	uc, _, _ := setup(t)

	got, err := uc.GetTotalsByMealType(context.Background(), "u1", "dinner", "2024-01-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != (domain.MacroTotals{}) {
		t.Fatalf("got %+v, want zeros", got)
	}

	if _, err := uc.GetTotalsByMealType(context.Background(), "u1", "dinner", "01/01/2024"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestGetTotalsForDateRange(t *testing.T) {
	uc, _, c := setup(t)
	ctx := context.Background()

	logAt := func(ts time.Time, name, meal string, cal float64) {
		t.Helper()
		c.t = ts
		if _, err := uc.RecordIntake(ctx, "u1", dto.IntakeInput{FoodName: s(name), MealType: s(meal), Calories: f(cal)}); err != nil {
			t.Fatalf("RecordIntake: %v", err)
		}
	}

	// times are UTC; Asia/Kolkata is UTC+5:30
	logAt(time.Date(2024, 2, 29, 3, 0, 0, 0, time.UTC), "before", "breakfast", 1)
	logAt(time.Date(2024, 3, 1, 3, 0, 0, 0, time.UTC), "oats", "breakfast", 150)
	logAt(time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC), "soup", "dinner", 250)
	logAt(time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), "rice", "lunch", 400)
	logAt(time.Date(2024, 3, 1, 7, 30, 0, 0, time.UTC), "dal", "lunch", 180)
	logAt(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), "cake", "brunch", 300)
	logAt(time.Date(2024, 3, 3, 18, 0, 0, 0, time.UTC), "nuts", "snack", 90) // 23:30 local
	logAt(time.Date(2024, 3, 3, 19, 0, 0, 0, time.UTC), "after", "snack", 1) // 00:30 local on the 4th

	groups, err := uc.GetTotalsForDateRange(ctx, "u1", "2024-03-01", "2024-03-03")
	if err != nil {
		t.Fatalf("GetTotalsForDateRange: %v", err)
	}

	type key struct{ date, meal string }
	var got []key
	for _, g := range groups {
		got = append(got, key{g.Date, g.MealType})
	}
	want := []key{
		{"2024-03-01", "breakfast"},
		{"2024-03-01", "lunch"},
		{"2024-03-01", "dinner"},
		{"2024-03-01", "brunch"},
		{"2024-03-03", "snack"},
	}
	if len(got) != len(want) {
		t.Fatalf("groups = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("group %d = %v, want %v", i, got[i], want[i])
		}
	}

	lunch := groups[1].Foods
	if len(lunch) != 2 || lunch[0].FoodName != "rice" || lunch[1].FoodName != "dal" {
		t.Fatalf("lunch foods = %+v", lunch)
	}
}

func TestGetTotalsForDateRangeEmptyAndInvalid(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	groups, err := uc.GetTotalsForDateRange(ctx, "u1", "2024-03-01", "2024-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("groups = %v, want none", groups)
	}

	bad := [][2]string{
		{"", "2024-03-01"},
		{"2024-03-01", ""},
		{"2024-13-01", "2024-03-01"},
		{"March 1", "2024-03-01"},
		{"2024-03-05", "2024-03-01"},
	}
	for _, b := range bad {
		if _, err := uc.GetTotalsForDateRange(ctx, "u1", b[0], b[1]); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("range %v: err = %v, want ErrValidation", b, err)
		}
	}
}

func TestGetDailyHistory(t *testing.T) {
	uc, _, c := setup(t)
	ctx := context.Background()

	for day := 1; day <= 3; day++ {
		c.t = time.Date(2024, 3, day, 6, 0, 0, 0, time.UTC)
		for i := 0; i < day; i++ {
			if _, err := uc.RecordIntake(ctx, "u1", dto.IntakeInput{Calories: f(100)}); err != nil {
				t.Fatalf("RecordIntake: %v", err)
			}
		}
	}

	history, err := uc.GetDailyHistory(ctx, "u1", "2024-03-02", "2024-03-10")
	if err != nil {
		t.Fatalf("GetDailyHistory: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("len = %d, want 2", len(history))
	}
	if history[0].Date != "2024-03-02" || history[0].TotalCalories != 200 {
		t.Errorf("first = %+v", history[0])
	}
	if history[1].Date != "2024-03-03" || history[1].TotalCalories != 300 {
		t.Errorf("second = %+v", history[1])
	}
}

func TestRecordIntakePublishesEvent(t *testing.T) {
	uc, _, _ := setup(t)
	pub := &recordingPublisher{err: errors.New("broker down")}
	uc.SetEventPublisher(pub)

	entry, err := uc.RecordIntake(context.Background(), "u1", dto.IntakeInput{
		FoodName: s("apple"), Calories: f(52), Source: domain.SourcePhoto, Mass: 100,
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the write: %v", err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("events = %d, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.EntryID != entry.ID || ev.Source != "photo" || ev.Calories != 52 || ev.Date != "2024-03-01" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestMealLess(t *testing.T) {
	order := []string{"breakfast", "lunch", "dinner", "snack", "brunch", "supper"}
	for i := 0; i < len(order)-1; i++ {
		if !mealLess(order[i], order[i+1]) {
			t.Errorf("%s should sort before %s", order[i], order[i+1])
		}
		if mealLess(order[i+1], order[i]) {
			t.Errorf("%s should not sort before %s", order[i+1], order[i])
		}
	}
}
