package handler

import (
	"github.com/gin-gonic/gin"

	"vsm-server/internal/domain"
	"vsm-server/internal/service"
	mdw "vsm-server/internal/transport/http/middleware"
	resp "vsm-server/internal/transport/http/response"
	"vsm-server/internal/transport/http/router"
)

type AuthHandler struct {
	auth  *service.AuthService
	users *service.UserService
}

func NewAuthHandler(auth *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

func (h *AuthHandler) Priority() int { return 10 }

func (h *AuthHandler) MountAPI(m *router.APIMux) {
	m.Public.POST("/auth/login", h.login)
	m.Public.POST("/auth/register", h.register)
	m.Authed.GET("/auth/me", h.me)
	m.Authed.PUT("/me", h.updateProfile)
	m.Authed.PUT("/me/password", h.changePassword)
}

type loginIn struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) login(c *gin.Context) {
	var in loginIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := h.auth.Login(in.Email, in.Password)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, out)
}

type registerIn struct {
	Name     string `json:"name" binding:"omitempty,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty"`
}

// register 自助注册：acting 恒为 nil，角色策略在 service 里收口
func (h *AuthHandler) register(c *gin.Context) {
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
	}, nil)
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.Created(c, out)
}

func (h *AuthHandler) me(c *gin.Context) {
	u, err := h.users.Get(mdw.ActorID(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

type profileIn struct {
	Name   string `json:"name" binding:"omitempty,max=64"`
	Avatar string `json:"avatar" binding:"omitempty,max=255"`
}

func (h *AuthHandler) updateProfile(c *gin.Context) {
	var in profileIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	u, err := h.users.UpdateProfile(mdw.ActorID(c), service.ProfileUpdate{Name: in.Name, Avatar: in.Avatar})
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, u)
}

type passwordIn struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

func (h *AuthHandler) changePassword(c *gin.Context) {
	var in passwordIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := h.users.ChangePassword(mdw.ActorID(c), in.OldPassword, in.NewPassword); err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, gin.H{"updated": true})
}

// actor 从上下文取当前调用者，给 admin 侧建号用
func actor(c *gin.Context) *service.Actor {
	id := mdw.ActorID(c)
	if id == "" {
		return nil
	}
	role, _ := domain.ParseRole(c.GetString(mdw.KeyRole))
	return &service.Actor{ID: id, Role: role}
}
