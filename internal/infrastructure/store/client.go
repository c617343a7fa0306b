package store

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
)

// 被 join 進 recipe_ingredients 的食材欄位
const ingredientJoinColumns = "id,name,store_section,purchase_frequency,calories_per_100g,protein_per_100g,carbs_per_100g,fat_per_100g,fiber_per_100g"

// Client 外部資料庫客戶端（PostgREST 風格 REST 介面）
type Client struct {
	client *resty.Client
}

// NewClient 創建新的資料庫客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Store.URL, "/")+"/rest/v1").
		SetTimeout(cfg.Store.Timeout).
		SetHeader("apikey", cfg.Store.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Store.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "return=representation")

	return &Client{client: client}
}

// do 執行請求並解碼回應；非 2xx 一律包成 STORE_ERROR
func (c *Client) do(req *resty.Request, method, path string, out interface{}) error {
	start := time.Now()
	resp, err := req.Execute(method, path)
	table := strings.TrimPrefix(path, "/")
	common.LogStoreCall(table, method, time.Since(start), err)
	if err != nil {
		return common.NewStoreError(err)
	}
	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return common.NewStoreError(fmt.Errorf("%s %s: HTTP %d: %s", method, path, resp.StatusCode(), resp.String()))
	}
	if out == nil {
		return nil
	}
	if err := common.ParseJSONBytes(resp.Body(), out); err != nil {
		return common.NewStoreError(fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}

// inList PostgREST 的 in.(...) 過濾值
func inList(ids []string) string {
	return fmt.Sprintf("in.(%s)", strings.Join(ids, ","))
}

// MealPlanRange 取一段日期區間內的餐點計畫
func (c *Client) MealPlanRange(ctx context.Context, from, to string) ([]MealPlanEntry, error) {
	var entries []MealPlanEntry
	req := c.client.R().
		SetContext(ctx).
		SetQueryParamsFromValues(url.Values{
			"date":   []string{"gte." + from, "lte." + to},
			"order":  []string{"date.asc"},
			"select": []string{"*"},
		})
	if err := c.do(req, resty.MethodGet, "/meal_plan", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// UpsertMealPlanEntry 寫入（或覆蓋）某一天的計畫
func (c *Client) UpsertMealPlanEntry(ctx context.Context, date string, recipeID, notes *string) (*MealPlanEntry, error) {
	var entries []MealPlanEntry
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "date").
		SetHeader("Prefer", "resolution=merge-duplicates,return=representation").
		SetBody(map[string]interface{}{
			"date":      date,
			"recipe_id": recipeID,
			"notes":     notes,
		})
	if err := c.do(req, resty.MethodPost, "/meal_plan", &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, common.NewStoreError(fmt.Errorf("upsert meal_plan returned no rows"))
	}
	return &entries[0], nil
}

// ClearMealPlanEntry 清掉某一天的計畫
func (c *Client) ClearMealPlanEntry(ctx context.Context, date string) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("date", "eq."+date)
	return c.do(req, resty.MethodDelete, "/meal_plan", nil)
}

// ListRecipes 取全部食譜
func (c *Client) ListRecipes(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("order", "created_at.desc").
		SetQueryParam("select", "*")
	if err := c.do(req, resty.MethodGet, "/recipes", &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecipesByIDs 批次取食譜
func (c *Client) RecipesByIDs(ctx context.Context, ids []string) ([]Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recipes []Recipe
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("id", inList(ids)).
		SetQueryParam("select", "*")
	if err := c.do(req, resty.MethodGet, "/recipes", &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// RecipeByID 取單筆食譜
func (c *Client) RecipeByID(ctx context.Context, id string) (*Recipe, error) {
	recipes, err := c.RecipesByIDs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, common.ErrNotFound
	}
	return &recipes[0], nil
}

// InsertRecipe 新增食譜
func (c *Client) InsertRecipe(ctx context.Context, recipe NewRecipe) (*Recipe, error) {
	var recipes []Recipe
	req := c.client.R().
		SetContext(ctx).
		SetBody(recipe)
	if err := c.do(req, resty.MethodPost, "/recipes", &recipes); err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, common.NewStoreError(fmt.Errorf("insert recipes returned no rows"))
	}
	return &recipes[0], nil
}

// DeleteRecipe 刪除食譜（關聯列由資料庫端 cascade）
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id)
	return c.do(req, resty.MethodDelete, "/recipes", nil)
}

// RecipeIngredients 批次取食譜食材關聯，帶出 join 的食材中繼資料
func (c *Client) RecipeIngredients(ctx context.Context, recipeIDs []string) ([]RecipeIngredient, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	var links []RecipeIngredient
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("recipe_id", inList(recipeIDs)).
		SetQueryParam("select", fmt.Sprintf("*,ingredient:ingredients(%s)", ingredientJoinColumns))
	if err := c.do(req, resty.MethodGet, "/recipe_ingredients", &links); err != nil {
		return nil, err
	}
	return links, nil
}

// UpsertIngredient 新增食材；撞到同名食材時保留既有資料
func (c *Client) UpsertIngredient(ctx context.Context, ingredient NewIngredient) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "name").
		SetHeader("Prefer", "resolution=ignore-duplicates").
		SetBody(ingredient)
	return c.do(req, resty.MethodPost, "/ingredients", nil)
}

// IngredientByName 依名稱取食材
func (c *Client) IngredientByName(ctx context.Context, name string) (*Ingredient, error) {
	var ingredients []Ingredient
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("name", "eq."+name).
		SetQueryParam("select", "*")
	if err := c.do(req, resty.MethodGet, "/ingredients", &ingredients); err != nil {
		return nil, err
	}
	if len(ingredients) == 0 {
		return nil, common.ErrNotFound
	}
	return &ingredients[0], nil
}

// UpdateIngredientNutrition 回填 USDA 查到的每 100g 營養素
func (c *Client) UpdateIngredientNutrition(ctx context.Context, id string, macros Macros) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetBody(macros)
	return c.do(req, resty.MethodPatch, "/ingredients", nil)
}

// UpsertRecipeIngredient 建立關聯；同一組 (recipe, ingredient) 已存在就略過
// 匯入來源偶爾會有重複食材行，這裡直接吃掉
func (c *Client) UpsertRecipeIngredient(ctx context.Context, link NewRecipeIngredient) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("on_conflict", "recipe_id,ingredient_id").
		SetHeader("Prefer", "resolution=ignore-duplicates").
		SetBody(link)
	return c.do(req, resty.MethodPost, "/recipe_ingredients", nil)
}

// ActiveShoppingList 取使用中的清單，沒有就建一張
func (c *Client) ActiveShoppingList(ctx context.Context, listType string) (*ShoppingList, error) {
	var lists []ShoppingList
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("list_type", "eq."+listType).
		SetQueryParam("status", "eq.active").
		SetQueryParam("select", "*")
	if err := c.do(req, resty.MethodGet, "/shopping_lists", &lists); err != nil {
		return nil, err
	}
	if len(lists) > 0 {
		return &lists[0], nil
	}

	req = c.client.R().
		SetContext(ctx).
		SetBody(map[string]string{"list_type": listType, "status": "active"})
	if err := c.do(req, resty.MethodPost, "/shopping_lists", &lists); err != nil {
		return nil, err
	}
	if len(lists) == 0 {
		return nil, common.NewStoreError(fmt.Errorf("insert shopping_lists returned no rows"))
	}
	return &lists[0], nil
}

// ShoppingListItems 取一張清單的全部項目
func (c *Client) ShoppingListItems(ctx context.Context, listID string) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("shopping_list_id", "eq."+listID).
		SetQueryParam("order", "created_at.asc").
		SetQueryParam("select", "*")
	if err := c.do(req, resty.MethodGet, "/shopping_list_items", &items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddShoppingListItem 加一筆雜項
func (c *Client) AddShoppingListItem(ctx context.Context, listID, name string) (*ShoppingListItem, error) {
	var items []ShoppingListItem
	req := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"shopping_list_id": listID,
			"item_name":        name,
			"checked":          false,
		})
	if err := c.do(req, resty.MethodPost, "/shopping_list_items", &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, common.NewStoreError(fmt.Errorf("insert shopping_list_items returned no rows"))
	}
	return &items[0], nil
}

// SetShoppingListItemChecked 勾選／取消勾選
func (c *Client) SetShoppingListItemChecked(ctx context.Context, id string, checked bool) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id).
		SetBody(map[string]bool{"checked": checked})
	return c.do(req, resty.MethodPatch, "/shopping_list_items", nil)
}

// DeleteShoppingListItem 刪除一筆雜項
func (c *Client) DeleteShoppingListItem(ctx context.Context, id string) error {
	req := c.client.R().
		SetContext(ctx).
		SetQueryParam("id", "eq."+id)
	return c.do(req, resty.MethodDelete, "/shopping_list_items", nil)
}
