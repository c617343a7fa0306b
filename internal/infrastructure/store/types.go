package store

// 這裡的結構對應外部資料庫的資料列；資料庫本身是外部協作者，
// 透過 PostgREST 風格的 REST 介面存取，本服務不管 schema 遷移

// Recipe 食譜資料列
type Recipe struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	CuisineType     *string `json:"cuisine_type"`
	Difficulty      string  `json:"difficulty"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	CookTimeMinutes int     `json:"cook_time_minutes"`
	Servings        *int    `json:"servings"`
	Instructions    *string `json:"instructions"`
	CreatedAt       *string `json:"created_at,omitempty"`
}

// NewRecipe 新增食譜用的欄位集合
type NewRecipe struct {
	Name            string  `json:"name"`
	Description     *string `json:"description"`
	CuisineType     *string `json:"cuisine_type"`
	Difficulty      string  `json:"difficulty"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	CookTimeMinutes int     `json:"cook_time_minutes"`
	Servings        *int    `json:"servings"`
	Instructions    *string `json:"instructions"`
}

// Macros 每 100g 的營養素；外部查不到就是 null
type Macros struct {
	CaloriesPer100g *float64 `json:"calories_per_100g"`
	ProteinPer100g  *float64 `json:"protein_per_100g"`
	CarbsPer100g    *float64 `json:"carbs_per_100g"`
	FatPer100g      *float64 `json:"fat_per_100g"`
	FiberPer100g    *float64 `json:"fiber_per_100g"`
}

// Ingredient 食材資料列；name 是去重用的唯一鍵
type Ingredient struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Category          string `json:"category"`
	StorageLocation   string `json:"storage_location,omitempty"`
	StoreSection      string `json:"store_section"`
	PurchaseFrequency string `json:"purchase_frequency"`
	Macros
}

// NewIngredient 新增食材時帶的預設欄位
type NewIngredient struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	StorageLocation   string `json:"storage_location"`
	ShelfLifeType     string `json:"shelf_life_type"`
	ShelfLifeValue    int    `json:"shelf_life_value"`
	PurchaseFrequency string `json:"purchase_frequency"`
	StoreSection      string `json:"store_section"`
}

// RecipeIngredient 食譜與食材的關聯；(recipe_id, ingredient_id) 唯一
type RecipeIngredient struct {
	RecipeID     string      `json:"recipe_id"`
	IngredientID string      `json:"ingredient_id"`
	Quantity     float64     `json:"quantity"`
	Unit         string      `json:"unit"`
	Notes        string      `json:"notes"`
	Ingredient   *Ingredient `json:"ingredient,omitempty"` // join 出來的食材中繼資料
}

// NewRecipeIngredient 新增關聯用的欄位集合
type NewRecipeIngredient struct {
	RecipeID     string  `json:"recipe_id"`
	IngredientID string  `json:"ingredient_id"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	Notes        string  `json:"notes"`
}

// MealPlanEntry 一天的晚餐計畫；recipe_id 可為空（例如外食日）
type MealPlanEntry struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	RecipeID  *string `json:"recipe_id"`
	DayOfWeek *string `json:"day_of_week,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// ShoppingList 購物清單（雜項手動清單用）
type ShoppingList struct {
	ID       string `json:"id"`
	ListType string `json:"list_type"`
	Status   string `json:"status"`
}

// ShoppingListItem 雜項清單的一筆項目
type ShoppingListItem struct {
	ID             string `json:"id"`
	ShoppingListID string `json:"shopping_list_id"`
	ItemName       string `json:"item_name"`
	Checked        bool   `json:"checked"`
	CreatedAt      string `json:"created_at,omitempty"`
}
