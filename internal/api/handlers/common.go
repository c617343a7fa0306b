package handlers

import (
	"net/http"

	"meal-planner/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID 取出請求 ID，沒有就補一個
func RequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
		c.Header("X-Request-ID", requestID)
	}
	return requestID
}

// WriteError 依錯誤分類回應對應的狀態碼與 JSON
// 不是 CustomError 的一律視為 500，避免內部錯誤細節外洩
func WriteError(c *gin.Context, err error) {
	if ce, ok := common.AsCustomError(err); ok {
		c.JSON(ce.Status, common.ErrorResponse{
			Error: ce.Message,
			Code:  ce.Code,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, common.ErrorResponse{
		Error: "Internal server error",
		Code:  common.ErrCodeInternalError,
	})
}
