package domain

import (
	"context"
	"time"
)

type EventCategory string

const (
	CategoryMarathon     EventCategory = "MARATHON"
	CategoryHalfMarathon EventCategory = "HALF_MARATHON"
	CategoryFiveK        EventCategory = "FIVE_K"
	CategoryTenK         EventCategory = "TEN_K"
	CategoryFunRun       EventCategory = "FUN_RUN"
	CategoryTrailRun     EventCategory = "TRAIL_RUN"
	CategoryNightRun     EventCategory = "NIGHT_RUN"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

type Event struct {
	ID                   string        `gorm:"primaryKey;size:36" json:"id"`
	Name                 string        `gorm:"size:191;not null" json:"name"`
	Description          string        `gorm:"size:500" json:"description"`
	Content              string        `gorm:"type:text" json:"content"`
	Date                 time.Time     `gorm:"not null;index" json:"date"`
	Location             string        `gorm:"size:255;not null" json:"location"`
	Image                string        `gorm:"size:255" json:"imageEvent"`
	MaxParticipants      int           `gorm:"not null" json:"maxParticipants"`
	CurrentParticipants  int           `gorm:"not null;default:0" json:"currentParticipants"`
	Category             EventCategory `gorm:"size:32;not null;index" json:"category"`
	Status               EventStatus   `gorm:"size:16;not null;default:UPCOMING;index" json:"status"`
	Distance             string        `gorm:"size:32" json:"distance"`
	RegistrationFee      int64         `gorm:"not null;default:0" json:"registrationFee"`
	Requirements         string        `gorm:"size:500" json:"requirements"`
	Published            bool          `gorm:"not null;default:false;index" json:"published"`
	Featured             bool          `gorm:"not null;default:false" json:"featured"`
	RegistrationDeadline *time.Time    `json:"registrationDeadline,omitempty"`
	Organizer            string        `gorm:"size:191" json:"organizer"`
	AuthorID             string        `gorm:"size:36;index" json:"authorId"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Event) TableName() string { return "events" }

// OpenForRegistration 报名入口条件：已发布、未取消/未结束、未过截止
func (e *Event) OpenForRegistration(now time.Time) bool {
	if !e.Published {
		return false
	}
	if e.Status == EventCancelled || e.Status == EventCompleted {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return false
	}
	return true
}

type EventListFilter struct {
	Category      EventCategory
	Status        EventStatus
	PublishedOnly bool
	FeaturedOnly  bool
	Offset        int
	Limit         int
}

type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	FindByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, f EventListFilter) ([]Event, int64, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id string) error
}
