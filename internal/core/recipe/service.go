package recipe

import (
	"context"
	"time"

	"meal-planner/internal/core/importer"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// 新食材建檔時的預設欄位；之後由使用者在庫存頁修正
const (
	defaultCategory          = "pantry"
	defaultStorageLocation   = "pantry"
	defaultShelfLifeType     = "pantry_months"
	defaultShelfLifeValue    = 12
	defaultPurchaseFrequency = "weekly"
	defaultStoreSection      = "other"
)

// Store 食譜服務需要的外部資料庫操作
type Store interface {
	ListRecipes(ctx context.Context) ([]store.Recipe, error)
	RecipeByID(ctx context.Context, id string) (*store.Recipe, error)
	InsertRecipe(ctx context.Context, recipe store.NewRecipe) (*store.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	RecipeIngredients(ctx context.Context, recipeIDs []string) ([]store.RecipeIngredient, error)
	UpsertIngredient(ctx context.Context, ingredient store.NewIngredient) error
	IngredientByName(ctx context.Context, name string) (*store.Ingredient, error)
	UpdateIngredientNutrition(ctx context.Context, id string, macros store.Macros) error
	UpsertRecipeIngredient(ctx context.Context, link store.NewRecipeIngredient) error
}

// NutritionLookup 依食材名稱查每 100g 營養素；查不到回 nil
type NutritionLookup interface {
	Lookup(ctx context.Context, name string) (*store.Macros, error)
}

// Service 食譜服務
type Service struct {
	store     Store
	nutrition NutritionLookup // 可為 nil（未設定外部營養來源）
	config    *config.Config
}

// NewService 創建新的食譜服務
func NewService(s Store, nutrition NutritionLookup, cfg *config.Config) *Service {
	return &Service{
		store:     s,
		nutrition: nutrition,
		config:    cfg,
	}
}

// List 取全部食譜
func (s *Service) List(ctx context.Context) ([]store.Recipe, error) {
	return s.store.ListRecipes(ctx)
}

// Get 取單筆食譜與其食材關聯
func (s *Service) Get(ctx context.Context, id string) (*store.Recipe, []store.RecipeIngredient, error) {
	recipe, err := s.store.RecipeByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	links, err := s.store.RecipeIngredients(ctx, []string{id})
	if err != nil {
		return nil, nil, err
	}
	return recipe, links, nil
}

// Delete 刪除食譜
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteRecipe(ctx, id)
}

// Save 把解析結果落地：食譜 → 食材建檔（同名不覆蓋）→ 關聯
// 任何一筆食材失敗就把剛建的食譜刪掉，避免留下半套資料
func (s *Service) Save(ctx context.Context, parsed *importer.ParsedRecipe) (*store.Recipe, error) {
	saved, err := s.store.InsertRecipe(ctx, store.NewRecipe{
		Name:            parsed.Name,
		Description:     optionalString(parsed.Description),
		CuisineType:     optionalString(parsed.CuisineType),
		Difficulty:      parsed.Difficulty,
		PrepTimeMinutes: parsed.PrepTimeMinutes,
		CookTimeMinutes: parsed.CookTimeMinutes,
		Servings:        parsed.Servings,
		Instructions:    optionalString(parsed.Instructions),
	})
	if err != nil {
		return nil, err
	}

	var ingredients []store.Ingredient
	for _, line := range parsed.Ingredients {
		ingredient, err := s.saveIngredientLine(ctx, saved.ID, line)
		if err != nil {
			common.LogError("食材落地失敗，回滾整筆食譜",
				zap.String("recipe_id", saved.ID),
				zap.String("ingredient", line.Name),
				zap.Error(err),
			)
			if rollbackErr := s.store.DeleteRecipe(ctx, saved.ID); rollbackErr != nil {
				common.LogError("回滾食譜失敗",
					zap.String("recipe_id", saved.ID),
					zap.Error(rollbackErr),
				)
			}
			return nil, err
		}
		ingredients = append(ingredients, *ingredient)
	}

	common.LogInfo("食譜儲存完成",
		zap.String("recipe_id", saved.ID),
		zap.String("name", saved.Name),
		zap.Int("ingredients", len(ingredients)),
	)

	// 營養素回填是補強，不影響儲存結果
	s.backfillNutrition(ctx, ingredients)

	return saved, nil
}

// saveIngredientLine 建檔（或沿用）食材並掛上關聯，回傳食材資料列
func (s *Service) saveIngredientLine(ctx context.Context, recipeID string, line importer.IngredientLine) (*store.Ingredient, error) {
	if err := s.store.UpsertIngredient(ctx, store.NewIngredient{
		Name:              line.Name,
		Category:          defaultCategory,
		StorageLocation:   defaultStorageLocation,
		ShelfLifeType:     defaultShelfLifeType,
		ShelfLifeValue:    defaultShelfLifeValue,
		PurchaseFrequency: defaultPurchaseFrequency,
		StoreSection:      defaultStoreSection,
	}); err != nil {
		return nil, err
	}

	ingredient, err := s.store.IngredientByName(ctx, line.Name)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertRecipeIngredient(ctx, store.NewRecipeIngredient{
		RecipeID:     recipeID,
		IngredientID: ingredient.ID,
		Quantity:     ParseQuantity(line.Quantity),
		Unit:         line.Unit,
		Notes:        line.Notes,
	}); err != nil {
		return nil, err
	}
	return ingredient, nil
}

// backfillNutrition 併發查尚無熱量資料的食材並回填
// 外部來源限流嚴格，失敗只記 log
func (s *Service) backfillNutrition(ctx context.Context, ingredients []store.Ingredient) {
	if s.nutrition == nil || len(ingredients) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Shopping.Parallelism)
	for _, ingredient := range ingredients {
		if ingredient.CaloriesPer100g != nil {
			continue
		}
		ingredient := ingredient
		g.Go(func() error {
			s.backfillOne(gctx, ingredient)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Service) backfillOne(ctx context.Context, ingredient store.Ingredient) {
	start := time.Now()
	macros, err := s.nutrition.Lookup(ctx, ingredient.Name)
	if err != nil {
		common.LogWarn("營養素查詢失敗",
			zap.String("ingredient", ingredient.Name),
			zap.Error(err),
		)
		return
	}
	if macros == nil {
		common.LogDebug("外部來源查無此食材",
			zap.String("ingredient", ingredient.Name),
		)
		return
	}

	if err := s.store.UpdateIngredientNutrition(ctx, ingredient.ID, *macros); err != nil {
		common.LogWarn("營養素回填失敗",
			zap.String("ingredient", ingredient.Name),
			zap.Error(err),
		)
		return
	}
	common.LogDebug("營養素回填完成",
		zap.String("ingredient", ingredient.Name),
		zap.Duration("耗時", time.Since(start)),
	)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
