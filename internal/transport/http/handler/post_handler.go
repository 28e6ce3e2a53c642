package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"vsm-server/internal/domain"
	"vsm-server/internal/service"
	mdw "vsm-server/internal/transport/http/middleware"
	resp "vsm-server/internal/transport/http/response"
	"vsm-server/internal/transport/http/router"
	"vsm-server/pkg/utils"
)

type PostHandler struct {
	posts     *service.PostService
	uploadDir string
	cache     CacheInvalidator
}

func NewPostHandler(posts *service.PostService, uploadDir string, cache CacheInvalidator) *PostHandler {
	return &PostHandler{posts: posts, uploadDir: uploadDir, cache: cache}
}

func (h *PostHandler) Priority() int { return 40 }

func (h *PostHandler) MountAPI(m *router.APIMux) {
	m.Public.GET("/posts", h.listPublic)
	m.Public.GET("/posts/:id", h.getPublic)
}

func (h *PostHandler) MountAdmin(g *gin.RouterGroup) {
	pg := g.Group("/posts", mdw.RequirePerm(domain.PermManagePosts))
	pg.GET("", h.listAdmin)
	pg.GET("/:id", h.getAdmin)
	pg.POST("", h.create)
	pg.PUT("/:id", h.update)
	pg.DELETE("/:id", h.delete)
}

type postListQ struct {
	Offset   int    `form:"offset,default=0"`
	Limit    int    `form:"limit,default=20"`
	Category string `form:"category"`
	Featured bool   `form:"featured"`
	Status   string `form:"status" binding:"omitempty,oneof=published draft"`
}

func (h *PostHandler) listPublic(c *gin.Context) {
	var q postListQ
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	posts, total, err := h.posts.List(c.Request.Context(), domain.PostListFilter{
		Status:       domain.PostPublished, // 公开列表只给已发布
		Category:     q.Category,
		FeaturedOnly: q.Featured,
		Offset:       q.Offset,
		Limit:        q.Limit,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, resp.NewPage(total, posts))
}

func (h *PostHandler) listAdmin(c *gin.Context) {
	var q postListQ
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	posts, total, err := h.posts.List(c.Request.Context(), domain.PostListFilter{
		Status:       domain.PostStatus(q.Status),
		Category:     q.Category,
		FeaturedOnly: q.Featured,
		Offset:       q.Offset,
		Limit:        q.Limit,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, resp.NewPage(total, posts))
}

func (h *PostHandler) getPublic(c *gin.Context) {
	p, err := h.posts.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, p)
}

func (h *PostHandler) getAdmin(c *gin.Context) {
	p, err := h.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, p)
}

type postIn struct {
	Title    string `json:"title" form:"title" binding:"required,max=255"`
	Excerpt  string `json:"excerpt" form:"excerpt" binding:"omitempty,max=500"`
	Content  string `json:"content" form:"content" binding:"required"`
	Category string `json:"category" form:"category" binding:"omitempty,max=64"`
	Featured *bool  `json:"featured" form:"featured"`
	Status   string `json:"status" form:"status" binding:"omitempty,oneof=published draft"`
	Tags     string `json:"tags" form:"tags" binding:"omitempty,max=255"`

	Cover *multipart.FileHeader `json:"-" form:"cover"`
}

type postUpdateIn struct {
	Title    string `json:"title" form:"title" binding:"omitempty,max=255"`
	Excerpt  string `json:"excerpt" form:"excerpt" binding:"omitempty,max=500"`
	Content  string `json:"content" form:"content"`
	Category string `json:"category" form:"category" binding:"omitempty,max=64"`
	Featured *bool  `json:"featured" form:"featured"`
	Status   string `json:"status" form:"status" binding:"omitempty,oneof=published draft"`
	Tags     string `json:"tags" form:"tags" binding:"omitempty,max=255"`

	Cover *multipart.FileHeader `json:"-" form:"cover"`
}

func (h *PostHandler) create(c *gin.Context) {
	var in postIn
	if err := bindJSONOrForm(c, &in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cover, err := h.saveCover(c, in.Cover)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := h.posts.Create(c.Request.Context(), service.PostInput{
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Cover:    cover,
		Category: in.Category,
		Featured: in.Featured,
		Status:   domain.PostStatus(in.Status),
		Tags:     in.Tags,
	}, mdw.ActorID(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.dropHomepage(c)
	resp.Created(c, p)
}

func (h *PostHandler) update(c *gin.Context) {
	var in postUpdateIn
	if err := bindJSONOrForm(c, &in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	cover, err := h.saveCover(c, in.Cover)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	p, err := h.posts.Update(c.Request.Context(), c.Param("id"), service.PostInput{
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Cover:    cover,
		Category: in.Category,
		Featured: in.Featured,
		Status:   domain.PostStatus(in.Status),
		Tags:     in.Tags,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.dropHomepage(c)
	resp.OK(c, p)
}

func (h *PostHandler) delete(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	h.dropHomepage(c)
	resp.OK(c, gin.H{"id": c.Param("id")})
}

func (h *PostHandler) dropHomepage(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), homepageCacheKey)
	}
}

func (h *PostHandler) saveCover(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	return utils.SaveImage(c, fh, h.uploadDir, "posts")
}
