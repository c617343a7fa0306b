package shopping

import (
	"context"
	"sort"
	"strings"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"

	"golang.org/x/sync/errgroup"
)

// 單次批次查詢帶的食譜數上限，避免 in.(...) 過長
const lookupChunkSize = 25

// Store 彙總器需要的外部資料庫操作
type Store interface {
	RecipesByIDs(ctx context.Context, ids []string) ([]store.Recipe, error)
	RecipeIngredients(ctx context.Context, recipeIDs []string) ([]store.RecipeIngredient, error)
}

// Aggregator 購物清單彙總器；無狀態，純讀取
type Aggregator struct {
	store  Store
	config *config.Config
}

// NewAggregator 創建新的彙總器
func NewAggregator(s Store, cfg *config.Config) *Aggregator {
	return &Aggregator{
		store:  s,
		config: cfg,
	}
}

// Aggregate 把一段餐點計畫彙總成按分區分組的購物清單
// frequencyFilter 非空時只留購買頻率在集合內的食材；nil 代表不過濾
func (a *Aggregator) Aggregate(ctx context.Context, entries []store.MealPlanEntry, frequencyFilter []string) (*List, error) {
	recipeIDs := distinctRecipeIDs(entries)
	if len(recipeIDs) == 0 {
		// 沒排餐不是錯誤，就是一張空清單
		return &List{Recipes: []string{}, Sections: []SectionGroup{}}, nil
	}

	recipes, links, err := a.fetch(ctx, recipeIDs)
	if err != nil {
		return nil, err
	}

	nameByID := make(map[string]string, len(recipes))
	for _, r := range recipes {
		nameByID[r.ID] = r.Name
	}

	// 依名稱（不分大小寫）去重；第一次出現的關聯決定數量、單位、備註與分區
	itemByKey := make(map[string]*Item)
	var keyOrder []string
	for _, link := range links {
		if link.Ingredient == nil {
			continue
		}
		if len(frequencyFilter) > 0 && !containsString(frequencyFilter, link.Ingredient.PurchaseFrequency) {
			continue
		}

		recipeName := nameByID[link.RecipeID]
		key := strings.ToLower(link.Ingredient.Name)

		if item, exists := itemByKey[key]; exists {
			if recipeName != "" && !containsString(item.Recipes, recipeName) {
				item.Recipes = append(item.Recipes, recipeName)
			}
			// 預設沿用第一筆的數量；開了 sum_quantities 且單位相同才累加
			if a.config.Shopping.SumQuantities && strings.EqualFold(item.Unit, link.Unit) {
				item.Quantity += link.Quantity
			}
			continue
		}

		item := &Item{
			Name:     link.Ingredient.Name,
			Quantity: link.Quantity,
			Unit:     link.Unit,
			Section:  normalizeSection(link.Ingredient.StoreSection),
			Notes:    link.Notes,
		}
		if recipeName != "" {
			item.Recipes = append(item.Recipes, recipeName)
		}
		itemByKey[key] = item
		keyOrder = append(keyOrder, key)
	}

	return buildList(itemByKey, keyOrder), nil
}

// fetch 併發抓食譜名稱與食材關聯；關聯查詢分塊，結果照塊序拼回來
// 讓「第一次出現」的判定不受併發排程影響
func (a *Aggregator) fetch(ctx context.Context, recipeIDs []string) ([]store.Recipe, []store.RecipeIngredient, error) {
	chunks := chunkIDs(recipeIDs, lookupChunkSize)
	linkChunks := make([][]store.RecipeIngredient, len(chunks))
	var recipes []store.Recipe

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Shopping.Parallelism)

	g.Go(func() error {
		result, err := a.store.RecipesByIDs(gctx, recipeIDs)
		if err != nil {
			return err
		}
		recipes = result
		return nil
	})

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			result, err := a.store.RecipeIngredients(gctx, chunk)
			if err != nil {
				return err
			}
			linkChunks[i] = result
			return nil
		})
	}

	// 分組需要完整的候選集合，必須等全部查完
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var links []store.RecipeIngredient
	for _, chunk := range linkChunks {
		links = append(links, chunk...)
	}
	return recipes, links, nil
}

// buildList 分區分組 + 固定分區順序 + 區內按名稱排序
func buildList(itemByKey map[string]*Item, keyOrder []string) *List {
	bySection := make(map[string][]Item)
	var recipeNames []string
	for _, key := range keyOrder {
		item := itemByKey[key]
		if item.Recipes == nil {
			item.Recipes = []string{}
		}
		bySection[item.Section] = append(bySection[item.Section], *item)
		for _, name := range item.Recipes {
			if !containsString(recipeNames, name) {
				recipeNames = append(recipeNames, name)
			}
		}
	}

	list := &List{Recipes: recipeNames, Sections: []SectionGroup{}}
	if list.Recipes == nil {
		list.Recipes = []string{}
	}
	for _, section := range sectionOrder {
		items, exists := bySection[section]
		if !exists {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		})
		list.Sections = append(list.Sections, SectionGroup{Section: section, Items: items})
	}
	return list
}

// distinctRecipeIDs 取計畫裡引用到的食譜 ID，保序去重；沒排餐的日子跳過
func distinctRecipeIDs(entries []store.MealPlanEntry) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.RecipeID == nil || *entry.RecipeID == "" {
			continue
		}
		if _, ok := seen[*entry.RecipeID]; ok {
			continue
		}
		seen[*entry.RecipeID] = struct{}{}
		ids = append(ids, *entry.RecipeID)
	}
	return ids
}

func chunkIDs(ids []string, size int) [][]string {
	var chunks [][]string
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
