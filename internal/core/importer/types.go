package importer

// ParsedRecipe 從第三方頁面擷取出的食譜；尚未入庫，由儲存流程消化後即丟棄
type ParsedRecipe struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	CuisineType     string           `json:"cuisine_type"`
	Difficulty      string           `json:"difficulty"`
	PrepTimeMinutes int              `json:"prep_time_minutes"`
	CookTimeMinutes int              `json:"cook_time_minutes"`
	Servings        *int             `json:"servings"`
	Instructions    string           `json:"instructions"`
	Ingredients     []IngredientLine `json:"ingredients"`
}

// IngredientLine 一行食材原文斷詞後的結果
// quantity 保留原文字串（可能含 unicode 分數、範圍），這個階段不轉成數字
type IngredientLine struct {
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
	Name     string `json:"name"`
	Notes    string `json:"notes"`
}

// 難度固定枚舉；匯入一律給 Easy，由使用者在存檔前自行調整
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)
