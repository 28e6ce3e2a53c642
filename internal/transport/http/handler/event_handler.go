package handler

import (
	"mime/multipart"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"vsm-server/internal/domain"
	"vsm-server/internal/service"
	mdw "vsm-server/internal/transport/http/middleware"
	resp "vsm-server/internal/transport/http/response"
	"vsm-server/internal/transport/http/router"
	"vsm-server/pkg/utils"
)

type EventHandler struct {
	events    *service.EventService
	uploadDir string
	cache     CacheInvalidator
}

func NewEventHandler(events *service.EventService, uploadDir string, cache CacheInvalidator) *EventHandler {
	return &EventHandler{events: events, uploadDir: uploadDir, cache: cache}
}

func (h *EventHandler) Priority() int { return 20 }

func (h *EventHandler) MountAPI(m *router.APIMux) {
	m.Public.GET("/events", h.listPublic)
	m.Public.GET("/events/:id", h.getPublic)
}

func (h *EventHandler) MountAdmin(g *gin.RouterGroup) {
	ev := g.Group("/events", mdw.RequirePerm(domain.PermManageEvents))
	ev.GET("", h.listAdmin)
	ev.GET("/:id", h.getAdmin)
	ev.POST("", h.create)
	ev.PUT("/:id", h.update)
	ev.DELETE("/:id", h.delete)
}

type eventListQ struct {
	Offset   int    `form:"offset,default=0"`
	Limit    int    `form:"limit,default=20"`
	Category string `form:"category" binding:"omitempty,oneof=MARATHON HALF_MARATHON FIVE_K TEN_K FUN_RUN TRAIL_RUN NIGHT_RUN"`
	Status   string `form:"status" binding:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
	Featured bool   `form:"featured"`
}

func (h *EventHandler) listPublic(c *gin.Context) {
	h.list(c, true)
}

func (h *EventHandler) listAdmin(c *gin.Context) {
	h.list(c, false)
}

func (h *EventHandler) list(c *gin.Context, publishedOnly bool) {
	var q eventListQ
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	events, total, err := h.events.List(c.Request.Context(), domain.EventListFilter{
		Category:      domain.EventCategory(q.Category),
		Status:        domain.EventStatus(q.Status),
		PublishedOnly: publishedOnly,
		FeaturedOnly:  q.Featured,
		Offset:        q.Offset,
		Limit:         q.Limit,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, resp.NewPage(total, events))
}

func (h *EventHandler) getPublic(c *gin.Context) {
	e, err := h.events.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, e)
}

func (h *EventHandler) getAdmin(c *gin.Context) {
	e, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, e)
}

// eventIn JSON 与 multipart 共用；带文件时走 form 绑定
type eventIn struct {
	Name                 string     `json:"name" form:"name" binding:"required,max=191"`
	Description          string     `json:"description" form:"description" binding:"omitempty,max=500"`
	Content              string     `json:"content" form:"content"`
	Date                 time.Time  `json:"date" form:"date" time_format:"2006-01-02T15:04:05Z07:00" binding:"required"`
	Location             string     `json:"location" form:"location" binding:"required,max=255"`
	MaxParticipants      int        `json:"maxParticipants" form:"maxParticipants" binding:"required,gt=0"`
	Category             string     `json:"category" form:"category" binding:"required,oneof=MARATHON HALF_MARATHON FIVE_K TEN_K FUN_RUN TRAIL_RUN NIGHT_RUN"`
	Status               string     `json:"status" form:"status" binding:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
	Distance             string     `json:"distance" form:"distance" binding:"omitempty,max=32"`
	RegistrationFee      int64      `json:"registrationFee" form:"registrationFee" binding:"omitempty,gte=0"`
	Requirements         string     `json:"requirements" form:"requirements" binding:"omitempty,max=500"`
	Published            *bool      `json:"published" form:"published"`
	Featured             *bool      `json:"featured" form:"featured"`
	RegistrationDeadline *time.Time `json:"registrationDeadline" form:"registrationDeadline" time_format:"2006-01-02T15:04:05Z07:00"`
	Organizer            string     `json:"organizer" form:"organizer" binding:"omitempty,max=191"`

	Image *multipart.FileHeader `json:"-" form:"image"`
}

// eventUpdateIn 更新时所有字段可缺省
type eventUpdateIn struct {
	Name                 string     `json:"name" form:"name" binding:"omitempty,max=191"`
	Description          string     `json:"description" form:"description" binding:"omitempty,max=500"`
	Content              string     `json:"content" form:"content"`
	Date                 time.Time  `json:"date" form:"date" time_format:"2006-01-02T15:04:05Z07:00"`
	Location             string     `json:"location" form:"location" binding:"omitempty,max=255"`
	MaxParticipants      int        `json:"maxParticipants" form:"maxParticipants" binding:"omitempty,gt=0"`
	Category             string     `json:"category" form:"category" binding:"omitempty,oneof=MARATHON HALF_MARATHON FIVE_K TEN_K FUN_RUN TRAIL_RUN NIGHT_RUN"`
	Status               string     `json:"status" form:"status" binding:"omitempty,oneof=UPCOMING ONGOING COMPLETED CANCELLED"`
	Distance             string     `json:"distance" form:"distance" binding:"omitempty,max=32"`
	RegistrationFee      int64      `json:"registrationFee" form:"registrationFee" binding:"omitempty,gte=0"`
	Requirements         string     `json:"requirements" form:"requirements" binding:"omitempty,max=500"`
	Published            *bool      `json:"published" form:"published"`
	Featured             *bool      `json:"featured" form:"featured"`
	RegistrationDeadline *time.Time `json:"registrationDeadline" form:"registrationDeadline" time_format:"2006-01-02T15:04:05Z07:00"`
	Organizer            string     `json:"organizer" form:"organizer" binding:"omitempty,max=191"`

	Image *multipart.FileHeader `json:"-" form:"image"`
}

func bindJSONOrForm(c *gin.Context, in any) error {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return c.ShouldBind(in)
	}
	return c.ShouldBindJSON(in)
}

func (h *EventHandler) create(c *gin.Context) {
	var in eventIn
	if err := bindJSONOrForm(c, &in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	image, err := h.saveImage(c, in.Image)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	e, err := h.events.Create(c.Request.Context(), service.EventInput{
		Name:                 in.Name,
		Description:          in.Description,
		Content:              in.Content,
		Date:                 in.Date,
		Location:             in.Location,
		Image:                image,
		MaxParticipants:      in.MaxParticipants,
		Category:             domain.EventCategory(in.Category),
		Status:               domain.EventStatus(in.Status),
		Distance:             in.Distance,
		RegistrationFee:      in.RegistrationFee,
		Requirements:         in.Requirements,
		Published:            in.Published,
		Featured:             in.Featured,
		RegistrationDeadline: in.RegistrationDeadline,
		Organizer:            in.Organizer,
	}, mdw.ActorID(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.dropHomepage(c)
	resp.Created(c, e)
}

func (h *EventHandler) update(c *gin.Context) {
	var in eventUpdateIn
	if err := bindJSONOrForm(c, &in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	image, err := h.saveImage(c, in.Image)
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	e, err := h.events.Update(c.Request.Context(), c.Param("id"), service.EventInput{
		Name:                 in.Name,
		Description:          in.Description,
		Content:              in.Content,
		Date:                 in.Date,
		Location:             in.Location,
		Image:                image,
		MaxParticipants:      in.MaxParticipants,
		Category:             domain.EventCategory(in.Category),
		Status:               domain.EventStatus(in.Status),
		Distance:             in.Distance,
		RegistrationFee:      in.RegistrationFee,
		Requirements:         in.Requirements,
		Published:            in.Published,
		Featured:             in.Featured,
		RegistrationDeadline: in.RegistrationDeadline,
		Organizer:            in.Organizer,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	h.dropHomepage(c)
	resp.OK(c, e)
}

func (h *EventHandler) delete(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	h.dropHomepage(c)
	resp.OK(c, gin.H{"id": c.Param("id")})
}

func (h *EventHandler) dropHomepage(c *gin.Context) {
	if h.cache != nil {
		h.cache.Invalidate(c.Request.Context(), homepageCacheKey)
	}
}

func (h *EventHandler) saveImage(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", nil
	}
	return utils.SaveImage(c, fh, h.uploadDir, "events")
}
