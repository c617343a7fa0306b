package shopping

// 賣場分區，依實際走逛動線排序；彙總輸出照這個順序分組
var sectionOrder = []string{
	"meat", "seafood", "produce", "dairy", "frozen",
	"grains", "pasta", "canned", "condiments", "oils",
	"asian", "mexican", "bakery", "spices", "other",
}

// SectionOther 缺分區或分區不認得時的去處
const SectionOther = "other"

// 購買頻率分類
const (
	FrequencyWeekly       = "weekly"
	FrequencyMonthly      = "monthly"
	FrequencyFreezerMonth = "freezer_months"
)

// 週清單只看每週採買的生鮮；月清單看囤貨類
var (
	WeeklyFrequencies  = []string{FrequencyWeekly}
	MonthlyFrequencies = []string{FrequencyMonthly, FrequencyFreezerMonth}
)

// Item 彙總後的一筆購買項目
// Quantity/Unit/Notes 取第一次出現的關聯；後續同名食材只擴充 Recipes 歸屬
type Item struct {
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Section  string   `json:"section"`
	Notes    string   `json:"notes"`
	Recipes  []string `json:"recipes"`
}

// SectionGroup 一個分區底下按名稱排序的項目
type SectionGroup struct {
	Section string `json:"section"`
	Items   []Item `json:"items"`
}

// List 彙總結果；不落地，每次都從當前餐點計畫重算
type List struct {
	Recipes  []string       `json:"recipes"`
	Sections []SectionGroup `json:"sections"`
}

// sectionRank 分區在固定優先序裡的位置；不認得的分區歸到 other
func sectionRank(section string) int {
	for i, s := range sectionOrder {
		if s == section {
			return i
		}
	}
	return len(sectionOrder) - 1
}

// normalizeSection 缺分區或不在固定清單裡 → other
func normalizeSection(section string) string {
	if section == "" {
		return SectionOther
	}
	for _, s := range sectionOrder {
		if s == section {
			return section
		}
	}
	return SectionOther
}
