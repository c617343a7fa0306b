package mealplan

import (
	"net/http"
	"time"

	"meal-planner/internal/api/handlers"
	mealplanService "meal-planner/internal/core/mealplan"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// SetRequest 排某一天晚餐的請求
type SetRequest struct {
	RecipeID *string `json:"recipe_id"`
	Notes    *string `json:"notes"`
}

// Handler 餐點計畫處理程序
type Handler struct {
	service *mealplanService.Service
}

// NewHandler 創建新的餐點計畫處理程序
func NewHandler(service *mealplanService.Service) *Handler {
	return &Handler{service: service}
}

// HandleRange 取日期區間內的計畫
func (h *Handler) HandleRange(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if !validDate(from) || !validDate(to) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "from and to must be YYYY-MM-DD dates",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	entries, err := h.service.Range(c.Request.Context(), from, to)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// HandleSet 排（或改排）某一天的晚餐；同一天重排就覆蓋
func (h *Handler) HandleSet(c *gin.Context) {
	requestID := handlers.RequestID(c)
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "date must be YYYY-MM-DD",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	var req SetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.LogError("餐點計畫請求格式無效",
			zap.Error(err),
			zap.String("request_id", requestID),
		)
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "Invalid request format",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	entry, err := h.service.Set(c.Request.Context(), date, req.RecipeID, req.Notes)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// HandleClear 清掉某一天的排程
func (h *Handler) HandleClear(c *gin.Context) {
	date := c.Param("date")
	if !validDate(date) {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "date must be YYYY-MM-DD",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	if err := h.service.Clear(c.Request.Context(), date); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

func validDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
