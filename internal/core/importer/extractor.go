package importer

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"meal-planner/internal/core/importer/cache"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Service 食譜匯入服務
// 無狀態、冪等：同一份 HTML 擷取出的結果 byte 層級一致
type Service struct {
	config       *config.Config
	client       *resty.Client
	cacheManager *cache.Manager
}

// NewService 創建新的食譜匯入服務
func NewService(cfg *config.Config, cacheManager *cache.Manager) *Service {
	client := resty.New().
		SetTimeout(cfg.Importer.FetchTimeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(cfg.Importer.MaxRedirects)).
		SetHeader("User-Agent", cfg.Importer.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	return &Service{
		config:       cfg,
		client:       client,
		cacheManager: cacheManager,
	}
}

// Extract 抓取頁面並擷取結構化食譜
// 失敗分類：INVALID_URL / FETCH_FAILED / UPSTREAM_REJECTED / NO_STRUCTURED_DATA
// 全部都是終態，不自動重試，由使用者決定要不要再按一次
func (s *Service) Extract(ctx context.Context, rawURL string) (*ParsedRecipe, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	// 快取命中就不用再打對方網站
	if cached, err := s.cacheManager.Get(ctx, target); err == nil {
		var recipe ParsedRecipe
		if err := common.ParseJSON(cached, &recipe); err == nil {
			return &recipe, nil
		}
	}

	start := time.Now()
	resp, err := s.client.R().
		SetContext(ctx).
		Get(target)
	if err != nil {
		common.LogFetch(target, 0, time.Since(start), err)
		return nil, common.NewFetchFailedError(err)
	}
	common.LogFetch(target, resp.StatusCode(), time.Since(start), nil)

	if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, common.NewUpstreamRejectedError(resp.StatusCode())
	}

	recipe, err := ExtractFromHTML(resp.String())
	if err != nil {
		return nil, err
	}

	// 寫入快取；失敗只記錄，不影響結果
	if encoded, err := common.ToJSON(recipe); err == nil {
		if err := s.cacheManager.Set(ctx, target, encoded); err != nil {
			common.LogWarn("匯入結果寫入快取失敗", zap.Error(err))
		}
	}

	common.LogInfo("食譜擷取成功",
		zap.String("url", target),
		zap.String("name", recipe.Name),
		zap.Int("ingredients", len(recipe.Ingredients)),
	)

	return recipe, nil
}

// ExtractFromHTML 對一份已抓回的 HTML 做結構化擷取
func ExtractFromHTML(html string) (*ParsedRecipe, error) {
	block, ok := findRecipeBlock(html)
	if !ok {
		return nil, common.ErrNoStructuredData
	}
	return mapRecipe(block), nil
}

// validateURL 必須是絕對網址且 scheme 為 http/https
func validateURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", common.ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", common.ErrInvalidURL
	}
	return u.String(), nil
}
