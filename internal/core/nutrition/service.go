package nutrition

import (
	"context"
	"math"
	"time"

	"meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/store"
)

// 食譜沒填人份時的估算基準
const defaultServings = 3

// Store 營養摘要需要的外部資料庫操作
type Store interface {
	MealPlanRange(ctx context.Context, from, to string) ([]store.MealPlanEntry, error)
	RecipesByIDs(ctx context.Context, ids []string) ([]store.Recipe, error)
	RecipeIngredients(ctx context.Context, recipeIDs []string) ([]store.RecipeIngredient, error)
}

// Service 營養摘要服務
type Service struct {
	store Store
}

// NewService 創建新的營養摘要服務
func NewService(s Store) *Service {
	return &Service{store: s}
}

// Totals 一份餐（或一段期間加總）的五項營養素
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// DaySummary 一天的晚餐營養；沒排餐時 RecipeName 為空、數值全 0
type DaySummary struct {
	Date       string  `json:"date"`
	DayOfWeek  string  `json:"day_of_week"`
	RecipeID   *string `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	HasMeal    bool    `json:"has_meal"`
	Totals
}

// WeekSummary 一週（週日起算）的逐日營養與總計
type WeekSummary struct {
	WeekStart     string       `json:"week_start"`
	Days          []DaySummary `json:"days"`
	Total         Totals       `json:"total"`
	Average       Totals       `json:"average"`
	DaysWithMeals int          `json:"days_with_meals"`
}

// WeeklySummary 算出含指定日期那一週的逐日營養摘要
// 每日數值 = 食譜整鍋營養 ÷ 人份；平均只分攤在有排餐的天數上
func (s *Service) WeeklySummary(ctx context.Context, day time.Time) (*WeekSummary, error) {
	weekStart := shopping.WeekStart(day)
	from := weekStart.Format("2006-01-02")
	to := weekStart.AddDate(0, 0, 6).Format("2006-01-02")

	entries, err := s.store.MealPlanRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	entryByDate := make(map[string]store.MealPlanEntry, len(entries))
	var recipeIDs []string
	seen := make(map[string]struct{})
	for _, entry := range entries {
		entryByDate[entry.Date] = entry
		if entry.RecipeID == nil || *entry.RecipeID == "" {
			continue
		}
		if _, ok := seen[*entry.RecipeID]; !ok {
			seen[*entry.RecipeID] = struct{}{}
			recipeIDs = append(recipeIDs, *entry.RecipeID)
		}
	}

	perServing, nameByID, err := s.perServingTotals(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}

	summary := &WeekSummary{WeekStart: from, Days: make([]DaySummary, 0, 7)}
	for i := 0; i < 7; i++ {
		date := weekStart.AddDate(0, 0, i)
		dateKey := date.Format("2006-01-02")
		daySummary := DaySummary{
			Date:      dateKey,
			DayOfWeek: date.Weekday().String(),
		}
		if entry, ok := entryByDate[dateKey]; ok && entry.RecipeID != nil && *entry.RecipeID != "" {
			daySummary.RecipeID = entry.RecipeID
			daySummary.RecipeName = nameByID[*entry.RecipeID]
			daySummary.HasMeal = true
			daySummary.Totals = perServing[*entry.RecipeID]
			summary.Total = addTotals(summary.Total, daySummary.Totals)
			summary.DaysWithMeals++
		}
		summary.Days = append(summary.Days, daySummary)
	}

	if summary.DaysWithMeals > 0 {
		n := float64(summary.DaysWithMeals)
		summary.Average = Totals{
			Calories: math.Round(summary.Total.Calories / n),
			Protein:  math.Round(summary.Total.Protein / n),
			Carbs:    math.Round(summary.Total.Carbs / n),
			Fat:      math.Round(summary.Total.Fat / n),
			Fiber:    math.Round(summary.Total.Fiber / n),
		}
	}
	return summary, nil
}

// perServingTotals 算每個食譜的單人份營養
// 整鍋 = Σ(每 100g 營養 × 數量 / 100)；缺營養資料的食材跳過
func (s *Service) perServingTotals(ctx context.Context, recipeIDs []string) (map[string]Totals, map[string]string, error) {
	perServing := make(map[string]Totals)
	nameByID := make(map[string]string)
	if len(recipeIDs) == 0 {
		return perServing, nameByID, nil
	}

	recipes, err := s.store.RecipesByIDs(ctx, recipeIDs)
	if err != nil {
		return nil, nil, err
	}
	links, err := s.store.RecipeIngredients(ctx, recipeIDs)
	if err != nil {
		return nil, nil, err
	}

	potTotals := make(map[string]Totals)
	for _, link := range links {
		if link.Ingredient == nil {
			continue
		}
		factor := link.Quantity / 100
		t := potTotals[link.RecipeID]
		t.Calories += scaled(link.Ingredient.CaloriesPer100g, factor)
		t.Protein += scaled(link.Ingredient.ProteinPer100g, factor)
		t.Carbs += scaled(link.Ingredient.CarbsPer100g, factor)
		t.Fat += scaled(link.Ingredient.FatPer100g, factor)
		t.Fiber += scaled(link.Ingredient.FiberPer100g, factor)
		potTotals[link.RecipeID] = t
	}

	for _, recipe := range recipes {
		nameByID[recipe.ID] = recipe.Name
		servings := defaultServings
		if recipe.Servings != nil && *recipe.Servings > 0 {
			servings = *recipe.Servings
		}
		pot := potTotals[recipe.ID]
		n := float64(servings)
		perServing[recipe.ID] = Totals{
			Calories: math.Round(pot.Calories / n),
			Protein:  math.Round(pot.Protein / n),
			Carbs:    math.Round(pot.Carbs / n),
			Fat:      math.Round(pot.Fat / n),
			Fiber:    math.Round(pot.Fiber / n),
		}
	}
	return perServing, nameByID, nil
}

func addTotals(a, b Totals) Totals {
	return Totals{
		Calories: a.Calories + b.Calories,
		Protein:  a.Protein + b.Protein,
		Carbs:    a.Carbs + b.Carbs,
		Fat:      a.Fat + b.Fat,
		Fiber:    a.Fiber + b.Fiber,
	}
}

func scaled(per100g *float64, factor float64) float64 {
	if per100g == nil {
		return 0
	}
	return *per100g * factor
}
