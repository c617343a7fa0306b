package nutrition

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const usdaBaseURL = "https://api.nal.usda.gov/fdc/v1"

// FoodData Central 的營養素編號
const (
	nutrientCalories = 1008
	nutrientProtein  = 1003
	nutrientCarbs    = 1005
	nutrientFat      = 1004
	nutrientFiber    = 1079
)

// USDAClient 查 USDA FoodData Central 的每 100g 營養素
type USDAClient struct {
	client *resty.Client
	config *config.Config
}

// NewUSDAClient 創建新的 USDA 客戶端；未啟用時回 nil，呼叫端以 nil 判斷降級
func NewUSDAClient(cfg *config.Config) *USDAClient {
	if !cfg.USDA.Enabled || cfg.USDA.APIKey == "" {
		common.LogInfo("未設定外部營養來源，略過營養素回填")
		return nil
	}

	client := resty.New().
		SetBaseURL(usdaBaseURL).
		SetTimeout(cfg.USDA.Timeout).
		SetQueryParam("api_key", cfg.USDA.APIKey)

	return &USDAClient{client: client, config: cfg}
}

type foodNutrient struct {
	NutrientID int     `json:"nutrientId"`
	Value      float64 `json:"value"`
}

type searchFood struct {
	Description   string         `json:"description"`
	FoodNutrients []foodNutrient `json:"foodNutrients"`
}

type searchResponse struct {
	Foods []searchFood `json:"foods"`
}

// Lookup 依食材名稱查每 100g 營養素；查無結果回 (nil, nil)
func (u *USDAClient) Lookup(ctx context.Context, name string) (*store.Macros, error) {
	if u == nil {
		return nil, nil
	}

	var result searchResponse
	start := time.Now()
	err := retry.Do(
		func() error {
			resp, err := u.client.R().
				SetContext(ctx).
				SetBody(map[string]interface{}{
					"query":    name,
					"dataType": []string{"Foundation", "SR Legacy", "Survey (FNDDS)"},
					"pageSize": 1,
				}).
				SetResult(&result).
				Post("/foods/search")
			if err != nil {
				return err
			}
			if resp.StatusCode() == http.StatusOK {
				return nil
			}
			// 授權問題重試也不會好
			if resp.StatusCode() == http.StatusForbidden || resp.StatusCode() == http.StatusUnauthorized {
				return retry.Unrecoverable(fmt.Errorf("usda search: HTTP %d", resp.StatusCode()))
			}
			return fmt.Errorf("usda search: HTTP %d", resp.StatusCode())
		},
		retry.Context(ctx),
		retry.Attempts(u.config.USDA.RetryAttempts),
		retry.Delay(500*time.Millisecond),
	)
	if err != nil {
		return nil, err
	}

	common.LogDebug("外部營養查詢完成",
		zap.String("query", name),
		zap.Int("hits", len(result.Foods)),
		zap.Duration("耗時", time.Since(start)),
	)

	if len(result.Foods) == 0 {
		return nil, nil
	}
	return macrosFromNutrients(result.Foods[0].FoodNutrients), nil
}

// macrosFromNutrients 撈出五項追蹤的營養素；缺的欄位維持 null
func macrosFromNutrients(nutrients []foodNutrient) *store.Macros {
	macros := &store.Macros{}
	for _, n := range nutrients {
		value := n.Value
		switch n.NutrientID {
		case nutrientCalories:
			macros.CaloriesPer100g = &value
		case nutrientProtein:
			macros.ProteinPer100g = &value
		case nutrientCarbs:
			macros.CarbsPer100g = &value
		case nutrientFat:
			macros.FatPer100g = &value
		case nutrientFiber:
			macros.FiberPer100g = &value
		}
	}
	return macros
}
