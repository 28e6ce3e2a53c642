package service

import (
	"context"
	"time"

	"vsm-server/internal/apperr"
	"vsm-server/internal/domain"
	"vsm-server/pkg/utils"
)

type EventService struct {
	events domain.EventRepository
}

func NewEventService(events domain.EventRepository) *EventService {
	return &EventService{events: events}
}

type EventInput struct {
	Name                 string
	Description          string
	Content              string
	Date                 time.Time
	Location             string
	Image                string
	MaxParticipants      int
	Category             domain.EventCategory
	Status               domain.EventStatus
	Distance             string
	RegistrationFee      int64
	Requirements         string
	Published            *bool
	Featured             *bool
	RegistrationDeadline *time.Time
	Organizer            string
}

func (s *EventService) Create(ctx context.Context, in EventInput, authorID string) (*domain.Event, error) {
	e := &domain.Event{
		ID:                   utils.NewID(),
		Name:                 in.Name,
		Description:          in.Description,
		Content:              in.Content,
		Date:                 in.Date,
		Location:             in.Location,
		Image:                in.Image,
		MaxParticipants:      in.MaxParticipants,
		Category:             in.Category,
		Status:               in.Status,
		Distance:             in.Distance,
		RegistrationFee:      in.RegistrationFee,
		Requirements:         in.Requirements,
		RegistrationDeadline: in.RegistrationDeadline,
		Organizer:            in.Organizer,
		AuthorID:             authorID,
	}
	if e.Status == "" {
		e.Status = domain.EventUpcoming
	}
	if in.Published != nil {
		e.Published = *in.Published
	}
	if in.Featured != nil {
		e.Featured = *in.Featured
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, apperr.Internal("create event failed", err)
	}
	return e, nil
}

func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.events.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup event failed", err)
	}
	if e == nil {
		return nil, apperr.NotFound("event not found")
	}
	return e, nil
}

// GetPublic 公开详情：未发布视为不存在
func (s *EventService) GetPublic(ctx context.Context, id string) (*domain.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.Published {
		return nil, apperr.NotFound("event not found")
	}
	return e, nil
}

func (s *EventService) List(ctx context.Context, f domain.EventListFilter) ([]domain.Event, int64, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	return s.events.List(ctx, f)
}

func (s *EventService) Update(ctx context.Context, id string, in EventInput) (*domain.Event, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		e.Name = in.Name
	}
	if in.Description != "" {
		e.Description = in.Description
	}
	if in.Content != "" {
		e.Content = in.Content
	}
	if !in.Date.IsZero() {
		e.Date = in.Date
	}
	if in.Location != "" {
		e.Location = in.Location
	}
	if in.Image != "" {
		e.Image = in.Image
	}
	if in.MaxParticipants > 0 {
		e.MaxParticipants = in.MaxParticipants
	}
	if in.Category != "" {
		e.Category = in.Category
	}
	if in.Status != "" {
		e.Status = in.Status
	}
	if in.Distance != "" {
		e.Distance = in.Distance
	}
	if in.RegistrationFee > 0 {
		e.RegistrationFee = in.RegistrationFee
	}
	if in.Requirements != "" {
		e.Requirements = in.Requirements
	}
	if in.Published != nil {
		e.Published = *in.Published
	}
	if in.Featured != nil {
		e.Featured = *in.Featured
	}
	if in.RegistrationDeadline != nil {
		e.RegistrationDeadline = in.RegistrationDeadline
	}
	if in.Organizer != "" {
		e.Organizer = in.Organizer
	}
	if err := s.events.Update(ctx, e); err != nil {
		return nil, apperr.Internal("update event failed", err)
	}
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.events.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return apperr.NotFound("event not found")
		}
		return apperr.Internal("delete event failed", err)
	}
	return nil
}
