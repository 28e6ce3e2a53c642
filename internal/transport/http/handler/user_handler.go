package handler

import (
	"github.com/gin-gonic/gin"

	"vsm-server/internal/domain"
	"vsm-server/internal/service"
	mdw "vsm-server/internal/transport/http/middleware"
	resp "vsm-server/internal/transport/http/response"
)

// UserHandler 后台用户管理。建号/删号是 ADMIN 专属，其余 EDITOR 也可见列表。
type UserHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewUserHandler(auth *service.AuthService, users *service.UserService) *UserHandler {
	return &UserHandler{auth: auth, users: users}
}

func (h *UserHandler) Priority() int { return 50 }

func (h *UserHandler) MountAdmin(g *gin.RouterGroup) {
	ug := g.Group("/users")
	ug.GET("", h.list)
	ug.GET("/:id", h.get)

	priv := ug.Group("", mdw.RequirePerm(domain.PermManageUsers))
	priv.POST("", h.create)
	priv.PUT("/:id", h.update)
	priv.POST("/:id/deactivate", h.deactivate)
	priv.DELETE("/:id", h.delete)
}

type userListQ struct {
	Offset      int    `form:"offset,default=0"`
	Limit       int    `form:"limit,default=20"`
	Q           string `form:"q"` // email/name 模糊搜
	WithDeleted bool   `form:"with_deleted"`
}

func (h *UserHandler) list(c *gin.Context) {
	var q userListQ
	if err := c.ShouldBindQuery(&q); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	users, total, err := h.users.List(domain.UserListFilter{
		Query:       q.Q,
		WithDeleted: q.WithDeleted,
		Offset:      q.Offset,
		Limit:       q.Limit,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, resp.NewPage(total, users))
}

func (h *UserHandler) get(c *gin.Context) {
	u, err := h.users.Get(c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

// create 管理员代建账号：走与自助注册同一套策略，acting 从上下文取
func (h *UserHandler) create(c *gin.Context) {
	var in registerIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.auth.Register(service.RegisterInput{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		Role:     in.Role,
	}, actor(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, out)
}

type adminUserIn struct {
	Name     string `json:"name" binding:"omitempty,max=64"`
	Role     string `json:"role" binding:"omitempty,oneof=USER EDITOR ADMIN"`
	IsActive *bool  `json:"isActive"`
}

func (h *UserHandler) update(c *gin.Context) {
	var in adminUserIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.AdminUpdate(c.Param("id"), service.AdminUserUpdate{
		Name:     in.Name,
		Role:     in.Role,
		IsActive: in.IsActive,
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

func (h *UserHandler) deactivate(c *gin.Context) {
	if err := h.users.Deactivate(c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id"), "isActive": false})
}

func (h *UserHandler) delete(c *gin.Context) {
	if err := h.users.HardDelete(c.Param("id")); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id")})
}
