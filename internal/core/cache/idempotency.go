package cache

import (
	"context"
	"encoding/json"
	"time"
)

// StoredResponse 幂等键命中时重放的首次响应
type StoredResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

const idemPrefix = "idem:"

// ClaimIdempotencyKey 抢占幂等键。返回 true 表示首次提交，可以继续执行；
// false 表示键已存在，replay 里是之前记录的响应（可能尚未写入，此时为 nil）。
func (c *Cache) ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, *StoredResponse, error) {
	ok, err := c.RDB.SetNX(ctx, idemPrefix+key, "pending", ttl).Result()
	if err != nil {
		return false, nil, err
	}
	if ok {
		return true, nil, nil
	}
	b, err := c.RDB.Get(ctx, idemPrefix+key).Bytes()
	if err != nil {
		return false, nil, nil
	}
	var sr StoredResponse
	if json.Unmarshal(b, &sr) != nil || sr.Status == 0 {
		// 首次请求还在处理中
		return false, nil, nil
	}
	return false, &sr, nil
}

// DropIdempotencyKey 处理失败时释放键，客户端可以立刻重试
func (c *Cache) DropIdempotencyKey(ctx context.Context, key string) {
	_ = c.RDB.Del(ctx, idemPrefix+key).Err()
}

// StoreIdempotentResponse 首次请求完成后记录响应，窗口内重复提交原样重放
func (c *Cache) StoreIdempotentResponse(ctx context.Context, key string, ttl time.Duration, status int, body []byte) {
	b, err := json.Marshal(StoredResponse{Status: status, Body: body})
	if err != nil {
		return
	}
	_ = c.RDB.Set(ctx, idemPrefix+key, b, ttl).Err()
}
