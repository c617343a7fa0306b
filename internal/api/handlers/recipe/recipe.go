package recipe

import (
	"net/http"

	"meal-planner/internal/api/handlers"
	"meal-planner/internal/core/importer"
	recipeService "meal-planner/internal/core/recipe"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImportRequest 匯入食譜請求
type ImportRequest struct {
	URL string `json:"url" binding:"required"` // 食譜頁面網址
}

// ImportResponse 匯入結果
type ImportResponse struct {
	Recipe *importer.ParsedRecipe `json:"recipe"`
}

// Handler 食譜處理程序
type Handler struct {
	importService *importer.Service
	recipeService *recipeService.Service
}

// NewHandler 創建新的食譜處理程序
func NewHandler(importService *importer.Service, recipeSvc *recipeService.Service) *Handler {
	return &Handler{
		importService: importService,
		recipeService: recipeSvc,
	}
}

// HandleImport 從網址匯入食譜：抓頁面、擷取結構化資料、正規化
// 只解析不落地，解析結果給使用者確認或編輯後再存
func (h *Handler) HandleImport(c *gin.Context) {
	requestID := handlers.RequestID(c)

	common.LogInfo("開始處理食譜匯入請求",
		zap.String("request_id", requestID),
		zap.String("client_ip", c.ClientIP()),
	)

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		handlers.WriteError(c, common.ErrInvalidURL)
		return
	}

	recipe, err := h.importService.Extract(c.Request.Context(), req.URL)
	if err != nil {
		common.LogError("食譜匯入失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("url", req.URL),
		)
		handlers.WriteError(c, err)
		return
	}

	common.LogInfo("食譜匯入成功",
		zap.String("request_id", requestID),
		zap.String("name", recipe.Name),
		zap.Int("ingredients", len(recipe.Ingredients)),
	)

	c.JSON(http.StatusOK, ImportResponse{Recipe: recipe})
}

// HandleSave 儲存（匯入後可能被編輯過的）食譜
func (h *Handler) HandleSave(c *gin.Context) {
	requestID := handlers.RequestID(c)

	var req importer.ParsedRecipe
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		common.LogError("食譜儲存請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "Invalid request format",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	saved, err := h.recipeService.Save(c.Request.Context(), &req)
	if err != nil {
		common.LogError("食譜儲存失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("name", req.Name),
		)
		handlers.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, saved)
}

// HandleList 列出全部食譜
func (h *Handler) HandleList(c *gin.Context) {
	recipes, err := h.recipeService.List(c.Request.Context())
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// HandleGet 取單筆食譜與其食材
func (h *Handler) HandleGet(c *gin.Context) {
	recipe, links, err := h.recipeService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recipe":      recipe,
		"ingredients": links,
	})
}

// HandleDelete 刪除食譜
func (h *Handler) HandleDelete(c *gin.Context) {
	if err := h.recipeService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
