package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vsm-server/internal/apperr"
)

// ErrorBody 错误响应统一形态 {"message": "..."}
type ErrorBody struct {
	Message string `json:"message"`
}

// Page 列表响应统一形态
type Page[T any] struct {
	Total int64 `json:"total"`
	Items []T   `json:"items"`
}

func NewPage[T any](total int64, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Total: total, Items: items}
}

func OK(c *gin.Context, data any)      { c.JSON(http.StatusOK, data) }
func Created(c *gin.Context, data any) { c.JSON(http.StatusCreated, data) }

// Err 业务错误 → HTTP 状态 + {message}
func Err(c *gin.Context, err error) {
	ae := apperr.From(err)
	if ae.Err != nil {
		_ = c.Error(ae.Err) // 交给 access log
	}
	c.JSON(ae.Status, ErrorBody{Message: ae.Error()})
}

// AbortErr 给中间件用：写响应并短路后续 handler
func AbortErr(c *gin.Context, err error) {
	ae := apperr.From(err)
	c.AbortWithStatusJSON(ae.Status, ErrorBody{Message: ae.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorBody{Message: msg})
}
