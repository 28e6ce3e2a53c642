package handler

import (
	"github.com/gin-gonic/gin"

	"vsm-server/internal/domain"
	"vsm-server/internal/service"
	mdw "vsm-server/internal/transport/http/middleware"
	resp "vsm-server/internal/transport/http/response"
	"vsm-server/internal/transport/http/router"
)

type RegistrationHandler struct {
	regs *service.RegistrationService
}

func NewRegistrationHandler(regs *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regs: regs}
}

func (h *RegistrationHandler) Priority() int { return 30 }

func (h *RegistrationHandler) MountAPI(m *router.APIMux) {
	m.Authed.POST("/events/:id/registrations", h.register)
	m.Authed.GET("/me/registrations", h.myRegistrations)
}

func (h *RegistrationHandler) MountAdmin(g *gin.RouterGroup) {
	rg := g.Group("", mdw.RequirePerm(domain.PermManageRegistrations))
	rg.GET("/events/:id/registrations", h.listByEvent)
	rg.GET("/registrations/:id", h.get)
	rg.PUT("/registrations/:id/status", h.updateStatus)
}

type registrationIn struct {
	FullName          string `json:"fullName" binding:"required,max=191"`
	Email             string `json:"email" binding:"required,email"`
	Phone             string `json:"phone" binding:"required,max=32"`
	EmergencyContact  string `json:"emergencyContact" binding:"required,max=191"`
	EmergencyPhone    string `json:"emergencyPhone" binding:"required,max=32"`
	MedicalConditions string `json:"medicalConditions" binding:"omitempty,max=500"`
	Experience        string `json:"experience" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED"`
}

func (h *RegistrationHandler) register(c *gin.Context) {
	var in registrationIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	reg, err := h.regs.Register(c.Request.Context(), c.Param("id"), mdw.ActorID(c), service.RegistrationInput{
		FullName:          in.FullName,
		Email:             in.Email,
		Phone:             in.Phone,
		EmergencyContact:  in.EmergencyContact,
		EmergencyPhone:    in.EmergencyPhone,
		MedicalConditions: in.MedicalConditions,
		Experience:        domain.Experience(in.Experience),
	})
	if err != nil {
		resp.Err(c, err)
		return
	}
	mdw.CountRegistrationOutcome(string(reg.Status))
	resp.Created(c, reg)
}

func (h *RegistrationHandler) myRegistrations(c *gin.Context) {
	regs, err := h.regs.ListByUser(c.Request.Context(), mdw.ActorID(c))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, resp.NewPage(int64(len(regs)), regs))
}

func (h *RegistrationHandler) listByEvent(c *gin.Context) {
	regs, err := h.regs.ListByEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, resp.NewPage(int64(len(regs)), regs))
}

func (h *RegistrationHandler) get(c *gin.Context) {
	reg, err := h.regs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, reg)
}

type statusIn struct {
	Status string `json:"status" binding:"required,oneof=PENDING CONFIRMED WAITLIST CANCELLED"`
}

func (h *RegistrationHandler) updateStatus(c *gin.Context) {
	var in statusIn
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	reg, err := h.regs.UpdateStatus(c.Request.Context(), c.Param("id"), domain.RegistrationStatus(in.Status))
	if err != nil {
		resp.Err(c, err)
		return
	}
	resp.OK(c, reg)
}
