package recipe

import (
	"context"
	"fmt"
	"testing"

	"meal-planner/internal/core/importer"
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
	recipes        map[string]store.Recipe
	ingredients    map[string]store.Ingredient
	links          []store.NewRecipeIngredient
	nextID         int
	failIngredient string // 這個名稱的食材 upsert 直接失敗
	deleted        []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		recipes:     make(map[string]store.Recipe),
		ingredients: make(map[string]store.Ingredient),
	}
}

func (f *fakeStore) ListRecipes(ctx context.Context) ([]store.Recipe, error) {
	var out []store.Recipe
	for _, r := range f.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeStore) RecipeByID(ctx context.Context, id string) (*store.Recipe, error) {
	r, ok := f.recipes[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &r, nil
}

func (f *fakeStore) InsertRecipe(ctx context.Context, recipe store.NewRecipe) (*store.Recipe, error) {
	f.nextID++
	saved := store.Recipe{
		ID:         fmt.Sprintf("recipe-%d", f.nextID),
		Name:       recipe.Name,
		Difficulty: recipe.Difficulty,
	}
	f.recipes[saved.ID] = saved
	return &saved, nil
}

func (f *fakeStore) DeleteRecipe(ctx context.Context, id string) error {
	delete(f.recipes, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) RecipeIngredients(ctx context.Context, recipeIDs []string) ([]store.RecipeIngredient, error) {
	return nil, nil
}

func (f *fakeStore) UpsertIngredient(ctx context.Context, ingredient store.NewIngredient) error {
	if ingredient.Name == f.failIngredient {
		return common.NewStoreError(fmt.Errorf("duplicate key"))
	}
	if _, exists := f.ingredients[ingredient.Name]; exists {
		// 同名食材不覆蓋
		return nil
	}
	f.nextID++
	f.ingredients[ingredient.Name] = store.Ingredient{
		ID:                fmt.Sprintf("ing-%d", f.nextID),
		Name:              ingredient.Name,
		Category:          ingredient.Category,
		StoreSection:      ingredient.StoreSection,
		PurchaseFrequency: ingredient.PurchaseFrequency,
	}
	return nil
}

func (f *fakeStore) IngredientByName(ctx context.Context, name string) (*store.Ingredient, error) {
	ing, ok := f.ingredients[name]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &ing, nil
}

func (f *fakeStore) UpdateIngredientNutrition(ctx context.Context, id string, macros store.Macros) error {
	return nil
}

func (f *fakeStore) UpsertRecipeIngredient(ctx context.Context, link store.NewRecipeIngredient) error {
	f.links = append(f.links, link)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{Shopping: config.ShoppingConfig{Parallelism: 2}}
}

func parsedRecipe() *importer.ParsedRecipe {
	return &importer.ParsedRecipe{
		Name:       "Weeknight Chili",
		Difficulty: importer.DifficultyEasy,
		Ingredients: []importer.IngredientLine{
			{Quantity: "1", Unit: "pound", Name: "ground beef"},
			{Quantity: "1 1/2", Unit: "cups", Name: "kidney beans", Notes: "drained"},
		},
	}
}

func TestSave(t *testing.T) {
	fake := newFakeStore()
	svc := NewService(fake, nil, testConfig())

	saved, err := svc.Save(context.Background(), parsedRecipe())
	require.NoError(t, err)
	assert.Equal(t, "Weeknight Chili", saved.Name)

	// 食材建檔帶預設欄位
	beef, err := fake.IngredientByName(context.Background(), "ground beef")
	require.NoError(t, err)
	assert.Equal(t, "pantry", beef.Category)
	assert.Equal(t, "weekly", beef.PurchaseFrequency)
	assert.Equal(t, "other", beef.StoreSection)

	// 關聯的數量轉成數值
	require.Len(t, fake.links, 2)
	assert.Equal(t, 1.0, fake.links[0].Quantity)
	assert.Equal(t, 1.5, fake.links[1].Quantity)
	assert.Equal(t, "drained", fake.links[1].Notes)
}

func TestSaveRollbackOnIngredientFailure(t *testing.T) {
	fake := newFakeStore()
	fake.failIngredient = "kidney beans"
	svc := NewService(fake, nil, testConfig())

	_, err := svc.Save(context.Background(), parsedRecipe())
	require.Error(t, err)

	// 剛建的食譜要被刪掉，不留半套資料
	require.Len(t, fake.deleted, 1)
	assert.Empty(t, fake.recipes)

	ce, ok := common.AsCustomError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrCodeStoreError, ce.Code)
}

func TestSaveReusesExistingIngredient(t *testing.T) {
	fake := newFakeStore()
	fake.ingredients["ground beef"] = store.Ingredient{
		ID:                "ing-existing",
		Name:              "ground beef",
		Category:          "meat",
		StoreSection:      "meat",
		PurchaseFrequency: "weekly",
	}
	svc := NewService(fake, nil, testConfig())

	_, err := svc.Save(context.Background(), parsedRecipe())
	require.NoError(t, err)

	// 既有食材不被預設值蓋掉，關聯指向原本的資料列
	beef := fake.ingredients["ground beef"]
	assert.Equal(t, "meat", beef.Category)
	assert.Equal(t, "ing-existing", fake.links[0].IngredientID)
}
