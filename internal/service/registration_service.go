package service

import (
	"context"

	"vsm-server/internal/apperr"
	"vsm-server/internal/domain"
	"vsm-server/pkg/utils"
)

type RegistrationService struct {
	regs   domain.RegistrationRepository
	events domain.EventRepository
}

func NewRegistrationService(regs domain.RegistrationRepository, events domain.EventRepository) *RegistrationService {
	return &RegistrationService{regs: regs, events: events}
}

type RegistrationInput struct {
	FullName          string
	Email             string
	Phone             string
	EmergencyContact  string
	EmergencyPhone    string
	MedicalConditions string
	Experience        domain.Experience
}

// Register 容量判定在仓储事务里完成；返回的 Status 告诉调用方进了名单还是候补
func (s *RegistrationService) Register(ctx context.Context, eventID, userID string, in RegistrationInput) (*domain.EventRegistration, error) {
	reg := &domain.EventRegistration{
		ID:                utils.NewID(),
		FullName:          in.FullName,
		Email:             in.Email,
		Phone:             in.Phone,
		EmergencyContact:  in.EmergencyContact,
		EmergencyPhone:    in.EmergencyPhone,
		MedicalConditions: in.MedicalConditions,
		Experience:        in.Experience,
		EventID:           eventID,
		UserID:            userID,
	}
	if err := s.regs.Register(ctx, reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func (s *RegistrationService) Get(ctx context.Context, id string) (*domain.EventRegistration, error) {
	reg, err := s.regs.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup registration failed", err)
	}
	if reg == nil {
		return nil, apperr.NotFound("registration not found")
	}
	return reg, nil
}

func (s *RegistrationService) UpdateStatus(ctx context.Context, id string, next domain.RegistrationStatus) (*domain.EventRegistration, error) {
	if !next.Valid() {
		return nil, apperr.BadRequest("unknown registration status " + string(next))
	}
	return s.regs.UpdateStatus(ctx, id, next)
}

func (s *RegistrationService) ListByEvent(ctx context.Context, eventID string) ([]domain.EventRegistration, error) {
	ev, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, apperr.Internal("lookup event failed", err)
	}
	if ev == nil {
		return nil, apperr.NotFound("event not found")
	}
	return s.regs.ListByEvent(ctx, eventID)
}

func (s *RegistrationService) ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error) {
	return s.regs.ListByUser(ctx, userID)
}
