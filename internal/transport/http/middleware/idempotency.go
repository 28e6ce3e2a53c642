package middleware

import (
	"bytes"
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"vsm-server/internal/core/cache"
	resp "vsm-server/internal/transport/http/response"
)

const KeyIdempotency = "Idempotency-Key"

// IdempotencyStore 幂等键的抢占/落盘/释放，*cache.Cache 即实现
type IdempotencyStore interface {
	ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, *cache.StoredResponse, error)
	StoreIdempotentResponse(ctx context.Context, key string, ttl time.Duration, status int, body []byte)
	DropIdempotencyKey(ctx context.Context, key string)
}

type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency 报名提交防重：带 Idempotency-Key 的请求在窗口内重复提交时
// 原样重放首次响应，不再走 handler。挂在 AuthJWT 之后，键按用户隔离。
func Idempotency(store IdempotencyStore, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(KeyIdempotency)
		if key == "" || store == nil {
			c.Next()
			return
		}
		key = c.GetString(KeyUserID) + ":" + c.Request.Method + ":" + c.FullPath() + ":" + key

		first, replay, err := store.ClaimIdempotencyKey(c.Request.Context(), key, ttl)
		if err != nil {
			// Redis 不可用时放行，宁可重复也不拒绝
			c.Next()
			return
		}
		if !first {
			if replay != nil {
				c.Data(replay.Status, "application/json", replay.Body)
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(409, resp.ErrorBody{Message: "request is already being processed"})
			return
		}

		w := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = w

		// defer 收尾：handler panic 也要释放键，否则同键重试会被 409
		// 挡满整个 TTL 窗口
		defer func() {
			if rec := recover(); rec != nil {
				store.DropIdempotencyKey(c.Request.Context(), key)
				panic(rec)
			}
			status := c.Writer.Status()
			if status < 500 {
				store.StoreIdempotentResponse(c.Request.Context(), key, ttl, status, w.buf.Bytes())
			} else {
				// 服务端失败不占键，允许客户端重试
				store.DropIdempotencyKey(c.Request.Context(), key)
			}
		}()
		c.Next()
	}
}
