package shopping

import (
	"context"
	"testing"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	common.Logger = zap.NewNop()
}

type fakeStore struct {
	recipes []store.Recipe
	links   []store.RecipeIngredient
}

func (f *fakeStore) RecipesByIDs(ctx context.Context, ids []string) ([]store.Recipe, error) {
	return f.recipes, nil
}

func (f *fakeStore) RecipeIngredients(ctx context.Context, recipeIDs []string) ([]store.RecipeIngredient, error) {
	var out []store.RecipeIngredient
	for _, link := range f.links {
		for _, id := range recipeIDs {
			if link.RecipeID == id {
				out = append(out, link)
			}
		}
	}
	return out, nil
}

func aggConfig(sum bool) *config.Config {
	return &config.Config{
		Shopping: config.ShoppingConfig{SumQuantities: sum, Parallelism: 2},
	}
}

func ingredient(name, section, frequency string) *store.Ingredient {
	return &store.Ingredient{
		Name:              name,
		StoreSection:      section,
		PurchaseFrequency: frequency,
	}
}

func entry(date, recipeID string) store.MealPlanEntry {
	id := recipeID
	return store.MealPlanEntry{Date: date, RecipeID: &id}
}

func TestAggregateDedupCaseInsensitive(t *testing.T) {
	fake := &fakeStore{
		recipes: []store.Recipe{
			{ID: "r1", Name: "Chili"},
			{ID: "r2", Name: "Stir Fry"},
		},
		links: []store.RecipeIngredient{
			{RecipeID: "r1", Quantity: 1, Unit: "piece", Ingredient: ingredient("Onion", "produce", "weekly")},
			{RecipeID: "r2", Quantity: 2, Unit: "piece", Ingredient: ingredient("onion", "produce", "weekly")},
		},
	}
	agg := NewAggregator(fake, aggConfig(false))

	list, err := agg.Aggregate(context.Background(), []store.MealPlanEntry{
		entry("2026-08-23", "r1"),
		entry("2026-08-24", "r2"),
	}, WeeklyFrequencies)
	require.NoError(t, err)

	require.Len(t, list.Sections, 1)
	require.Len(t, list.Sections[0].Items, 1)

	item := list.Sections[0].Items[0]
	// 第一次出現決定顯示名稱與數量；兩道菜都要列進歸屬
	assert.Equal(t, "Onion", item.Name)
	assert.Equal(t, 1.0, item.Quantity)
	assert.Equal(t, []string{"Chili", "Stir Fry"}, item.Recipes)
	assert.Equal(t, []string{"Chili", "Stir Fry"}, list.Recipes)
}

func TestAggregateSumQuantitiesOnlyMatchingUnits(t *testing.T) {
	fake := &fakeStore{
		recipes: []store.Recipe{{ID: "r1", Name: "A"}, {ID: "r2", Name: "B"}, {ID: "r3", Name: "C"}},
		links: []store.RecipeIngredient{
			{RecipeID: "r1", Quantity: 200, Unit: "g", Ingredient: ingredient("rice", "grains", "weekly")},
			{RecipeID: "r2", Quantity: 100, Unit: "G", Ingredient: ingredient("rice", "grains", "weekly")},
			{RecipeID: "r3", Quantity: 1, Unit: "cup", Ingredient: ingredient("rice", "grains", "weekly")},
		},
	}
	agg := NewAggregator(fake, aggConfig(true))

	list, err := agg.Aggregate(context.Background(), []store.MealPlanEntry{
		entry("2026-08-23", "r1"),
		entry("2026-08-24", "r2"),
		entry("2026-08-25", "r3"),
	}, nil)
	require.NoError(t, err)

	require.Len(t, list.Sections, 1)
	item := list.Sections[0].Items[0]
	// 單位相同（不分大小寫）才累加；cup 那筆不進數量
	assert.Equal(t, 300.0, item.Quantity)
	assert.Equal(t, "g", item.Unit)
}

func TestAggregateFrequencyFilter(t *testing.T) {
	fake := &fakeStore{
		recipes: []store.Recipe{{ID: "r1", Name: "Chili"}},
		links: []store.RecipeIngredient{
			{RecipeID: "r1", Quantity: 1, Unit: "pound", Ingredient: ingredient("ground beef", "meat", "weekly")},
			{RecipeID: "r1", Quantity: 2, Unit: "cans", Ingredient: ingredient("kidney beans", "canned", "monthly")},
			{RecipeID: "r1", Quantity: 1, Unit: "bag", Ingredient: ingredient("frozen corn", "frozen", "freezer_months")},
		},
	}
	agg := NewAggregator(fake, aggConfig(false))
	plan := []store.MealPlanEntry{entry("2026-08-23", "r1")}

	weekly, err := agg.Aggregate(context.Background(), plan, WeeklyFrequencies)
	require.NoError(t, err)
	require.Len(t, weekly.Sections, 1)
	assert.Equal(t, "meat", weekly.Sections[0].Section)
	assert.Equal(t, "ground beef", weekly.Sections[0].Items[0].Name)

	monthly, err := agg.Aggregate(context.Background(), plan, MonthlyFrequencies)
	require.NoError(t, err)
	require.Len(t, monthly.Sections, 2)
	assert.Equal(t, "frozen", monthly.Sections[0].Section)
	assert.Equal(t, "canned", monthly.Sections[1].Section)
}

func TestAggregateSectionOrderAndAlphabetical(t *testing.T) {
	fake := &fakeStore{
		recipes: []store.Recipe{{ID: "r1", Name: "Dinner"}},
		links: []store.RecipeIngredient{
			{RecipeID: "r1", Quantity: 1, Unit: "", Ingredient: ingredient("mystery sauce", "", "weekly")},
			{RecipeID: "r1", Quantity: 1, Unit: "", Ingredient: ingredient("zucchini", "produce", "weekly")},
			{RecipeID: "r1", Quantity: 1, Unit: "", Ingredient: ingredient("Apple", "produce", "weekly")},
			{RecipeID: "r1", Quantity: 1, Unit: "pound", Ingredient: ingredient("chicken", "meat", "weekly")},
			{RecipeID: "r1", Quantity: 1, Unit: "", Ingredient: ingredient("gadget", "hardware", "weekly")},
		},
	}
	agg := NewAggregator(fake, aggConfig(false))

	list, err := agg.Aggregate(context.Background(), []store.MealPlanEntry{entry("2026-08-23", "r1")}, nil)
	require.NoError(t, err)

	// meat 在 produce 前；空分區與不認得的分區都收進 other
	require.Len(t, list.Sections, 3)
	assert.Equal(t, "meat", list.Sections[0].Section)
	assert.Equal(t, "produce", list.Sections[1].Section)
	assert.Equal(t, "other", list.Sections[2].Section)

	produce := list.Sections[1].Items
	require.Len(t, produce, 2)
	assert.Equal(t, "Apple", produce[0].Name)
	assert.Equal(t, "zucchini", produce[1].Name)

	other := list.Sections[2].Items
	require.Len(t, other, 2)
	assert.Equal(t, "gadget", other[0].Name)
	assert.Equal(t, "mystery sauce", other[1].Name)
}

func TestAggregateEmptyPlan(t *testing.T) {
	agg := NewAggregator(&fakeStore{}, aggConfig(false))

	list, err := agg.Aggregate(context.Background(), nil, WeeklyFrequencies)
	require.NoError(t, err)
	assert.Empty(t, list.Recipes)
	assert.Empty(t, list.Sections)

	// 有排日子但沒掛食譜也一樣是空清單
	noRecipe := []store.MealPlanEntry{{Date: "2026-08-23"}}
	list, err = agg.Aggregate(context.Background(), noRecipe, WeeklyFrequencies)
	require.NoError(t, err)
	assert.Empty(t, list.Sections)
}
