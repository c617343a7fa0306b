package importer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
)

// findRecipeBlock 依文件順序掃描所有 <script type="application/ld+json"> 區塊，
// 回傳第一個合格的 Recipe 物件。個別區塊的 JSON 壞掉只跳過、不中斷掃描。
func findRecipeBlock(html string) (gjson.Result, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return gjson.Result{}, false
	}

	var found gjson.Result
	ok := false
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		raw := sel.Text()
		if !gjson.Valid(raw) {
			// 壞掉的區塊跳過，繼續掃
			return true
		}
		if block, hit := qualifyBlock(gjson.Parse(raw)); hit {
			found = block
			ok = true
			return false
		}
		return true
	})
	return found, ok
}

// qualifyBlock 判斷一個 JSON-LD 區塊是否帶有 Recipe：
// 物件本身、頂層陣列的元素、或 @graph 陣列的元素
func qualifyBlock(v gjson.Result) (gjson.Result, bool) {
	if v.IsObject() {
		if isRecipeType(v.Get("@type")) {
			return v, true
		}
		if graph := v.Get("@graph"); graph.IsArray() {
			for _, node := range graph.Array() {
				if node.IsObject() && isRecipeType(node.Get("@type")) {
					return node, true
				}
			}
		}
		return gjson.Result{}, false
	}
	if v.IsArray() {
		for _, node := range v.Array() {
			if node.IsObject() && isRecipeType(node.Get("@type")) {
				return node, true
			}
		}
	}
	return gjson.Result{}, false
}

// isRecipeType @type 可能是字串或字串陣列
func isRecipeType(t gjson.Result) bool {
	if t.Type == gjson.String {
		return t.Str == "Recipe"
	}
	if t.IsArray() {
		for _, elem := range t.Array() {
			if elem.Type == gjson.String && elem.Str == "Recipe" {
				return true
			}
		}
	}
	return false
}

// mapRecipe schema.org Recipe → ParsedRecipe
func mapRecipe(block gjson.Result) *ParsedRecipe {
	recipe := &ParsedRecipe{
		Name:        block.Get("name").String(),
		Description: stripTags(block.Get("description").String()),
		CuisineType: parseCuisine(block.Get("recipeCuisine")),
		// 難度不讀來源，一律 Easy
		Difficulty:      DifficultyEasy,
		PrepTimeMinutes: parseDuration(block.Get("prepTime")),
		CookTimeMinutes: parseDuration(block.Get("cookTime")),
		Servings:        parseServings(block.Get("recipeYield")),
		Instructions:    parseInstructions(block.Get("recipeInstructions")),
		Ingredients:     []IngredientLine{},
	}

	if lines := block.Get("recipeIngredient"); lines.IsArray() {
		for _, line := range lines.Array() {
			recipe.Ingredients = append(recipe.Ingredients, ParseIngredient(line.String()))
		}
	}

	return recipe
}
