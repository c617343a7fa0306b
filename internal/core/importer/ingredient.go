package importer

import (
	"regexp"
	"strings"
)

// unitVocabulary 食材單位詞彙表（單複數與縮寫）
var unitVocabulary = map[string]struct{}{
	"cup": {}, "cups": {}, "tablespoon": {}, "tablespoons": {}, "tbsp": {}, "tbs": {},
	"teaspoon": {}, "teaspoons": {}, "tsp": {}, "pound": {}, "pounds": {}, "lb": {}, "lbs": {},
	"ounce": {}, "ounces": {}, "oz": {}, "gram": {}, "grams": {}, "g": {}, "kilogram": {}, "kilograms": {}, "kg": {},
	"ml": {}, "milliliter": {}, "milliliters": {}, "liter": {}, "liters": {}, "l": {},
	"clove": {}, "cloves": {}, "can": {}, "cans": {}, "package": {}, "packages": {}, "pkg": {},
	"slice": {}, "slices": {}, "piece": {}, "pieces": {}, "bunch": {}, "bunches": {},
	"stalk": {}, "stalks": {}, "head": {}, "heads": {}, "pinch": {}, "dash": {}, "handful": {},
}

// quantityPattern 行首的數量片段：數字、空白、unicode 分數、斜線、連字號、小數點
var quantityPattern = regexp.MustCompile(`^[\d\s⅛¼⅓⅜½⅝⅔¾⅞/.\-]+`)

// ParseIngredient 把 "2 cups flour, sifted" 這類原文斷成 quantity/unit/name/notes
// 原文的閱讀順序不變；除了標籤與分隔符號本身，不丟掉任何資訊
func ParseIngredient(line string) IngredientLine {
	str := stripTags(line)

	span := quantityPattern.FindString(str)
	if span == "" {
		return IngredientLine{Name: str}
	}

	quantity := strings.TrimSpace(span)
	remaining := strings.TrimSpace(str[len(span):])

	// 數量後面的第一個詞若在單位詞彙表裡就當成單位，否則留在名稱裡
	unit := ""
	words := strings.Fields(remaining)
	if len(words) > 0 {
		candidate := strings.ToLower(trimUnitPunct(words[0]))
		if _, ok := unitVocabulary[candidate]; ok {
			unit = trimUnitPunct(words[0])
			remaining = strings.TrimSpace(strings.Join(words[1:], " "))
		}
	}

	// 第一個逗號或左括號之後是備註；括號字元本身去掉
	name := remaining
	notes := ""
	if idx := strings.IndexAny(remaining, ",("); idx > 0 {
		name = strings.TrimSpace(remaining[:idx])
		notes = strings.TrimSpace(parenPattern.ReplaceAllString(remaining[idx+1:], ""))
	}

	// 名稱被拆空時退回整行原文
	if name == "" {
		name = str
	}

	return IngredientLine{
		Quantity: quantity,
		Unit:     unit,
		Name:     name,
		Notes:    notes,
	}
}

var parenPattern = regexp.MustCompile(`[()]`)

// trimUnitPunct 去掉單位詞尾端的一個句點或逗號（如 "tbsp.")
func trimUnitPunct(w string) string {
	if strings.HasSuffix(w, ".") || strings.HasSuffix(w, ",") {
		return w[:len(w)-1]
	}
	return w
}
