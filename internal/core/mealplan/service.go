package mealplan

import (
	"context"

	"meal-planner/internal/infrastructure/store"
)

// Store 餐點計畫需要的外部資料庫操作
type Store interface {
	MealPlanRange(ctx context.Context, from, to string) ([]store.MealPlanEntry, error)
	UpsertMealPlanEntry(ctx context.Context, date string, recipeID, notes *string) (*store.MealPlanEntry, error)
	ClearMealPlanEntry(ctx context.Context, date string) error
}

// Service 餐點計畫服務；一天一格，重排就覆蓋
type Service struct {
	store Store
}

// NewService 創建新的餐點計畫服務
func NewService(s Store) *Service {
	return &Service{store: s}
}

// Range 取日期區間內的計畫
func (s *Service) Range(ctx context.Context, from, to string) ([]store.MealPlanEntry, error) {
	return s.store.MealPlanRange(ctx, from, to)
}

// Set 排（或改排）某一天的晚餐
func (s *Service) Set(ctx context.Context, date string, recipeID, notes *string) (*store.MealPlanEntry, error) {
	return s.store.UpsertMealPlanEntry(ctx, date, recipeID, notes)
}

// Clear 清掉某一天的排程
func (s *Service) Clear(ctx context.Context, date string) error {
	return s.store.ClearMealPlanEntry(ctx, date)
}
