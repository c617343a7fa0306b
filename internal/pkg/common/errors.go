package common

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error string `json:"error"`          // 錯誤信息
	Code  string `json:"code,omitempty"` // 錯誤代碼
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap 返回原始錯誤
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// AsCustomError 嘗試取出自定義錯誤
func AsCustomError(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest   = "INVALID_REQUEST"    // 400
	ErrCodeNotFound         = "NOT_FOUND"          // 404
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED" // 405
	ErrCodeRequestTimeout   = "REQUEST_TIMEOUT"    // 408
	ErrCodeTooManyRequests  = "TOO_MANY_REQUESTS"  // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504

	// 食譜匯入錯誤
	ErrCodeInvalidURL       = "INVALID_URL"        // 400 網址格式不對
	ErrCodeUpstreamRejected = "UPSTREAM_REJECTED"  // 422 來源網站拒絕
	ErrCodeNoStructuredData = "NO_STRUCTURED_DATA" // 422 頁面沒有結構化食譜
	ErrCodeFetchFailed      = "FETCH_FAILED"       // 502 網路層失敗

	// 外部儲存錯誤
	ErrCodeStoreError = "STORE_ERROR" // 502
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest   = NewError(ErrCodeInvalidRequest, "無效的請求", http.StatusBadRequest, nil)
	ErrNotFound         = NewError(ErrCodeNotFound, "資源不存在", http.StatusNotFound, nil)
	ErrMethodNotAllowed = NewError(ErrCodeMethodNotAllowed, "Method not allowed", http.StatusMethodNotAllowed, nil)
	ErrRequestTimeout   = NewError(ErrCodeRequestTimeout, "請求超時", http.StatusRequestTimeout, nil)
	ErrTooManyRequests  = NewError(ErrCodeTooManyRequests, "請求過於頻繁", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "服務器內部錯誤", http.StatusInternalServerError, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "服務暫時不可用", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "網關超時", http.StatusGatewayTimeout, nil)

	// 匯入錯誤（訊息沿用匯入器對外的英文文案）
	ErrInvalidURL = NewError(ErrCodeInvalidURL, "Invalid URL", http.StatusBadRequest, nil)
	ErrNoStructuredData = NewError(ErrCodeNoStructuredData,
		"No structured recipe data found on this page. Try AllRecipes, Food Network, Serious Eats, or BBC Good Food.",
		http.StatusUnprocessableEntity, nil)

	// 快取錯誤
	ErrCacheFull     = NewError("CACHE_FULL", "緩存已滿", http.StatusServiceUnavailable, nil)
	ErrCacheDisabled = NewError("CACHE_DISABLED", "緩存已禁用", http.StatusServiceUnavailable, nil)

	// 勾選狀態儲存不可用（Redis 斷線時服務降級運行）
	ErrChecklistUnavailable = NewError("CHECKS_UNAVAILABLE", "Checklist storage unavailable", http.StatusServiceUnavailable, nil)
)

// NewUpstreamRejectedError 來源網站回應非 2xx；狀態碼帶在訊息裡供使用者排查
func NewUpstreamRejectedError(status int) *CustomError {
	return NewError(ErrCodeUpstreamRejected,
		fmt.Sprintf("Could not fetch page (HTTP %d). The site may block automated access.", status),
		http.StatusUnprocessableEntity, nil)
}

// NewFetchFailedError 網路或傳輸層失敗（含超時）
func NewFetchFailedError(err error) *CustomError {
	return NewError(ErrCodeFetchFailed, "Failed to fetch recipe page", http.StatusBadGateway, err)
}

// NewStoreError 外部資料庫呼叫失敗
func NewStoreError(err error) *CustomError {
	return NewError(ErrCodeStoreError, "Datastore request failed", http.StatusBadGateway, err)
}
