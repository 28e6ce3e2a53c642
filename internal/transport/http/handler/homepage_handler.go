package handler

import (
	"context"
	"time"

	"vsm-server/internal/core/cache"
	"vsm-server/internal/domain"
	"vsm-server/internal/service"
	resp "vsm-server/internal/transport/http/response"
	"vsm-server/internal/transport/http/router"

	"github.com/gin-gonic/gin"
)

const homepageCacheKey = "homepage:v1"

// CacheInvalidator 后台写操作后踢掉聚合缓存，*cache.Cache 即实现
type CacheInvalidator interface {
	Invalidate(ctx context.Context, keys ...string)
}

// HomepageHandler 首页聚合：精选赛事 + 精选资讯，Redis 缓存 + singleflight 回源
type HomepageHandler struct {
	events *service.EventService
	posts  *service.PostService
	cache  *cache.Cache
	ttl    time.Duration
}

func NewHomepageHandler(events *service.EventService, posts *service.PostService, c *cache.Cache, ttl time.Duration) *HomepageHandler {
	return &HomepageHandler{events: events, posts: posts, cache: c, ttl: ttl}
}

func (h *HomepageHandler) Priority() int { return 60 }

func (h *HomepageHandler) MountAPI(m *router.APIMux) {
	m.Public.GET("/homepage", h.get)
}

type homepageOut struct {
	FeaturedEvents []domain.Event `json:"featuredEvents"`
	FeaturedPosts  []domain.Post  `json:"featuredPosts"`
}

func (h *HomepageHandler) get(c *gin.Context) {
	ctx := c.Request.Context()
	load := func(ctx context.Context) (*homepageOut, error) { return h.load(ctx) }

	var out *homepageOut
	var err error
	if h.cache != nil {
		out, err = cache.GetOrLoadJSON(h.cache, ctx, homepageCacheKey, h.ttl, load)
	} else {
		out, err = h.load(ctx)
	}
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

func (h *HomepageHandler) load(ctx context.Context) (*homepageOut, error) {
	events, _, err := h.events.List(ctx, domain.EventListFilter{
		PublishedOnly: true,
		FeaturedOnly:  true,
		Limit:         6,
	})
	if err != nil {
		return nil, err
	}
	posts, _, err := h.posts.List(ctx, domain.PostListFilter{
		Status:       domain.PostPublished,
		FeaturedOnly: true,
		Limit:        6,
	})
	if err != nil {
		return nil, err
	}
	return &homepageOut{FeaturedEvents: events, FeaturedPosts: posts}, nil
}
