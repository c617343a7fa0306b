package importer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	htmlTagPattern  = regexp.MustCompile(`<[^>]+>`)
	hoursPattern    = regexp.MustCompile(`(\d+)H`)
	minutesPattern  = regexp.MustCompile(`(\d+)M`)
	firstIntPattern = regexp.MustCompile(`\d+`)
)

// stripTags 移除簡單的行內 HTML 標籤並修剪空白
// 只用在結構化資料裡的文字欄位，不是通用的 HTML sanitizer
func stripTags(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// parseDuration 解析 ISO-8601 時長（例如 "PT15M"、"PT1H30M"），回傳總分鐘數
// 缺少的時或分視為 0；非字串或缺欄位回傳 0
func parseDuration(v gjson.Result) int {
	if v.Type != gjson.String {
		return 0
	}
	hours := 0
	if m := hoursPattern.FindStringSubmatch(v.Str); m != nil {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes := 0
	if m := minutesPattern.FindStringSubmatch(v.Str); m != nil {
		minutes, _ = strconv.Atoi(m[1])
	}
	return hours*60 + minutes
}

// parseServings 從 recipeYield 取第一串數字，例如 "4 servings"、"Makes 4"、["Serves 6-8"]
// 找不到數字回傳 nil
func parseServings(v gjson.Result) *int {
	if !v.Exists() || v.Type == gjson.Null {
		return nil
	}
	str := v.String()
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return nil
		}
		str = arr[0].String()
	}
	m := firstIntPattern.FindString(str)
	if m == "" {
		return nil
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return nil
	}
	return &n
}

// parseInstructions 處理 recipeInstructions 的三種形狀：
// 純字串、字串陣列、HowToStep 物件陣列（優先 text，退回 name）
// 其他形狀一律回傳空字串
func parseInstructions(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return stripTags(v.Str)
	case v.IsArray():
		var steps []string
		for _, step := range v.Array() {
			var text string
			switch {
			case step.Type == gjson.String:
				text = stripTags(step.Str)
			case step.IsObject():
				text = step.Get("text").String()
				if text == "" {
					text = step.Get("name").String()
				}
				text = stripTags(text)
			default:
				text = step.String()
			}
			if text != "" {
				steps = append(steps, text)
			}
		}
		return strings.Join(steps, "\n\n")
	default:
		return ""
	}
}

// parseCuisine 取 recipeCuisine 的第一個值；缺欄位回傳空字串
func parseCuisine(v gjson.Result) string {
	if v.IsArray() {
		arr := v.Array()
		if len(arr) == 0 {
			return ""
		}
		return arr[0].String()
	}
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}
