package shopping

import (
	"context"
	"fmt"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// 勾選狀態最長保留 60 天；時間窗過了之後狀態就沒意義了
const checkTTL = 60 * 24 * time.Hour

// Checklist 購物清單的勾選狀態；以 Redis hash 存放
// 每個（清單種類, 時間窗）一個 hash，欄位是小寫品項名稱
type Checklist struct {
	client *redis.Client
}

// NewChecklist 創建勾選狀態存取器；連不上 Redis 時回傳錯誤
// 呼叫端可以選擇降級運行（清單照出，勾選功能停用）
func NewChecklist(cfg *config.Config) (*Checklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	common.LogInfo("勾選狀態存取器已連線",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("db", cfg.Redis.DB),
	)
	return &Checklist{client: client}, nil
}

func checkKey(listType, period string) string {
	return fmt.Sprintf("shopping:checks:%s:%s", listType, period)
}

// Checks 取某清單在某時間窗的全部勾選狀態
func (c *Checklist) Checks(ctx context.Context, listType, period string) (map[string]bool, error) {
	checks := make(map[string]bool)
	if c == nil {
		return checks, nil
	}

	fields, err := c.client.HGetAll(ctx, checkKey(listType, period)).Result()
	if err != nil {
		return nil, fmt.Errorf("read checks: %w", err)
	}
	for name, value := range fields {
		checks[name] = value == "1"
	}
	return checks, nil
}

// SetCheck 寫入單一品項的勾選狀態；key 綁時間窗，換週／換月自動歸零
func (c *Checklist) SetCheck(ctx context.Context, listType, period, itemName string, checked bool) error {
	if c == nil {
		return common.ErrChecklistUnavailable
	}

	value := "0"
	if checked {
		value = "1"
	}
	key := checkKey(listType, period)
	if err := c.client.HSet(ctx, key, itemName, value).Err(); err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	// 過期的時間窗讓 Redis 自己收
	if err := c.client.Expire(ctx, key, checkTTL).Err(); err != nil {
		common.LogWarn("設定勾選狀態過期時間失敗",
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return nil
}

// Close 關閉 Redis 連線
func (c *Checklist) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
