package api

import (
	"errors"
	"net/http"
	"teanote/internal/entity"

	"github.com/gin-gonic/gin"
)

// 错误码定义
const (
	// 通用错误码 (1xxx)
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// 认证错误码 (2xxx)
	ErrCodeSessionExpired = "ERR_SESSION_EXPIRED"

	// 资源错误码 (3xxx)
	ErrCodeTeaNotFound    = "ERR_TEA_NOT_FOUND"
	ErrCodeSchemaNotFound = "ERR_SCHEMA_NOT_FOUND"
	ErrCodeNoteNotFound   = "ERR_NOTE_NOT_FOUND"

	// 业务逻辑错误码 (4xxx)
	ErrCodeMissingField        = "ERR_MISSING_FIELD"
	ErrCodeInvalidAxisIDs      = "ERR_INVALID_AXIS_IDS"
	ErrCodeAxisSchemaMismatch  = "ERR_AXIS_SCHEMA_MISMATCH"
	ErrCodeAxisValueOutOfRange = "ERR_AXIS_VALUE_OUT_OF_RANGE"
)

// APIError 统一的 API 错误响应结构
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse 返回统一格式的错误响应
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails 返回带详情的错误响应
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// 常用错误响应快捷函数

// BadRequest 400 错误请求
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401 未授权
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403 禁止访问
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404 资源不存在
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500 服务器内部错误
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503 服务不可用
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// MissingField 缺少必填字段
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 无效的请求体
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}

// ServiceError 把服务层的领域错误映射为对应的 HTTP 响应。
// 未识别的错误按内部错误处理，调用方负责记日志。
func ServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrTeaNotFound):
		NotFound(c, ErrCodeTeaNotFound, "茶品不存在")
	case errors.Is(err, entity.ErrSchemaNotFound):
		NotFound(c, ErrCodeSchemaNotFound, "评分模板不存在")
	case errors.Is(err, entity.ErrNoteNotFound):
		NotFound(c, ErrCodeNoteNotFound, "笔记不存在")
	case errors.Is(err, entity.ErrForbidden):
		Forbidden(c, "无权操作该笔记")
	case errors.Is(err, entity.ErrInvalidAxisIDs):
		BadRequest(c, ErrCodeInvalidAxisIDs, "存在无效的评分维度")
	case errors.Is(err, entity.ErrAxisSchemaMismatch):
		BadRequest(c, ErrCodeAxisSchemaMismatch, "评分维度不属于目标模板")
	case errors.Is(err, entity.ErrAxisValueOutOfRange):
		BadRequest(c, ErrCodeAxisValueOutOfRange, "维度评分超出允许范围")
	default:
		InternalError(c, "服务器内部错误")
	}
}
