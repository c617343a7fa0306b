package nutrition

import (
	"net/http"
	"time"

	"meal-planner/internal/api/handlers"
	nutritionService "meal-planner/internal/core/nutrition"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// Handler 營養摘要處理程序
type Handler struct {
	service *nutritionService.Service
}

// NewHandler 創建新的營養摘要處理程序
func NewHandler(service *nutritionService.Service) *Handler {
	return &Handler{service: service}
}

// HandleWeekly 取一週逐日營養摘要；week_start 缺省用今天所在的那一週
func (h *Handler) HandleWeekly(c *gin.Context) {
	day := time.Now()
	if value := c.Query("week_start"); value != "" {
		parsed, err := time.Parse("2006-01-02", value)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Error: "week_start must be YYYY-MM-DD",
				Code:  common.ErrCodeInvalidRequest,
			})
			return
		}
		day = parsed
	}

	summary, err := h.service.WeeklySummary(c.Request.Context(), day)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
