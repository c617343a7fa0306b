package shopping

import (
	"net/http"
	"time"

	"meal-planner/internal/api/handlers"
	shoppingService "meal-planner/internal/core/shopping"
	"meal-planner/internal/infrastructure/store"
	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CheckRequest 勾選狀態更新請求
type CheckRequest struct {
	ItemName string `json:"item_name" binding:"required"` // 品項名稱（清單上的顯示名稱）
	Checked  bool   `json:"checked"`
	Period   string `json:"period"` // 選填；空值用當前時間窗
}

// MiscItemRequest 雜項清單新增請求
type MiscItemRequest struct {
	Name string `json:"name" binding:"required"`
}

// MiscCheckRequest 雜項清單勾選請求
type MiscCheckRequest struct {
	Checked bool `json:"checked"`
}

// Handler 購物清單處理程序
type Handler struct {
	store      *store.Client
	aggregator *shoppingService.Aggregator
	checklist  *shoppingService.Checklist // 可為 nil（Redis 不可用時降級）
}

// NewHandler 創建新的購物清單處理程序
func NewHandler(storeClient *store.Client, aggregator *shoppingService.Aggregator, checklist *shoppingService.Checklist) *Handler {
	return &Handler{
		store:      storeClient,
		aggregator: aggregator,
		checklist:  checklist,
	}
}

// HandleWeekly 本週生鮮採買清單：彙總當週餐點計畫裡每週採買的食材
func (h *Handler) HandleWeekly(c *gin.Context) {
	day, ok := queryDate(c, "week_start")
	if !ok {
		return
	}

	weekStart := shoppingService.WeekStart(day)
	from := weekStart.Format(dateLayout)
	to := weekStart.AddDate(0, 0, 6).Format(dateLayout)

	h.respondList(c, shoppingService.ListTypeWeekly, shoppingService.WeekKey(day),
		from, to, shoppingService.WeeklyFrequencies)
}

// HandleMonthly 本月囤貨清單：彙總當月餐點計畫裡囤貨類的食材
func (h *Handler) HandleMonthly(c *gin.Context) {
	monthStr := c.Query("month")
	month := time.Now()
	if monthStr != "" {
		parsed, err := time.Parse("2006-01", monthStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Error: "month must be YYYY-MM",
				Code:  common.ErrCodeInvalidRequest,
			})
			return
		}
		month = parsed
	}

	firstDay := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	from := firstDay.Format(dateLayout)
	to := firstDay.AddDate(0, 1, -1).Format(dateLayout)

	h.respondList(c, shoppingService.ListTypeMonthly, shoppingService.MonthKey(month),
		from, to, shoppingService.MonthlyFrequencies)
}

// respondList 彙總一段計畫並掛上該時間窗的勾選狀態
func (h *Handler) respondList(c *gin.Context, listType, period, from, to string, frequencies []string) {
	requestID := handlers.RequestID(c)

	entries, err := h.store.MealPlanRange(c.Request.Context(), from, to)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}

	list, err := h.aggregator.Aggregate(c.Request.Context(), entries, frequencies)
	if err != nil {
		common.LogError("購物清單彙總失敗",
			zap.Error(err),
			zap.String("request_id", requestID),
			zap.String("list_type", listType),
		)
		handlers.WriteError(c, err)
		return
	}

	checks, err := h.checklist.Checks(c.Request.Context(), listType, period)
	if err != nil {
		// 勾選狀態拿不到就給空集合，清單本體照出
		common.LogWarn("勾選狀態讀取失敗",
			zap.Error(err),
			zap.String("list_type", listType),
			zap.String("period", period),
		)
		checks = map[string]bool{}
	}

	c.JSON(http.StatusOK, gin.H{
		"list_type": listType,
		"period":    period,
		"recipes":   list.Recipes,
		"sections":  list.Sections,
		"checks":    checks,
	})
}

// HandleSetCheck 勾選／取消勾選彙總清單上的品項
// 清單種類在路由註冊時綁定（weekly / monthly 各一條路由）
func (h *Handler) HandleSetCheck(listType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, common.ErrorResponse{
				Error: "Invalid request format",
				Code:  common.ErrCodeInvalidRequest,
			})
			return
		}

		period := req.Period
		if period == "" {
			period = defaultPeriod(listType)
		}

		if err := h.checklist.SetCheck(c.Request.Context(), listType, period, req.ItemName, req.Checked); err != nil {
			handlers.WriteError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"item_name": req.ItemName,
			"checked":   req.Checked,
			"period":    period,
		})
	}
}

// HandleMiscItems 列出雜項清單（跟菜單無關的手動採買項目）
func (h *Handler) HandleMiscItems(c *gin.Context) {
	list, err := h.store.ActiveShoppingList(c.Request.Context(), shoppingService.ListTypeMisc)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	items, err := h.store.ShoppingListItems(c.Request.Context(), list.ID)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list_id": list.ID, "items": items})
}

// HandleAddMiscItem 加一筆雜項
func (h *Handler) HandleAddMiscItem(c *gin.Context) {
	var req MiscItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "Invalid request format",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	list, err := h.store.ActiveShoppingList(c.Request.Context(), shoppingService.ListTypeMisc)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	item, err := h.store.AddShoppingListItem(c.Request.Context(), list.ID, req.Name)
	if err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// HandleCheckMiscItem 勾選／取消勾選雜項
func (h *Handler) HandleCheckMiscItem(c *gin.Context) {
	var req MiscCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: "Invalid request format",
			Code:  common.ErrCodeInvalidRequest,
		})
		return
	}

	if err := h.store.SetShoppingListItemChecked(c.Request.Context(), c.Param("id"), req.Checked); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"checked": req.Checked})
}

// HandleDeleteMiscItem 刪除雜項
func (h *Handler) HandleDeleteMiscItem(c *gin.Context) {
	if err := h.store.DeleteShoppingListItem(c.Request.Context(), c.Param("id")); err != nil {
		handlers.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// queryDate 讀取 YYYY-MM-DD 查詢參數；缺省用今天
func queryDate(c *gin.Context, name string) (time.Time, bool) {
	value := c.Query(name)
	if value == "" {
		return time.Now(), true
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		c.JSON(http.StatusBadRequest, common.ErrorResponse{
			Error: name + " must be YYYY-MM-DD",
			Code:  common.ErrCodeInvalidRequest,
		})
		return time.Time{}, false
	}
	return parsed, true
}

// defaultPeriod 依清單種類算當前時間窗
func defaultPeriod(listType string) string {
	now := time.Now()
	if listType == shoppingService.ListTypeWeekly {
		return shoppingService.WeekKey(now)
	}
	return shoppingService.MonthKey(now)
}
