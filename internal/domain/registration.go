package domain

import (
	"context"
	"time"
)

type RegistrationStatus string

const (
	RegPending   RegistrationStatus = "PENDING"
	RegConfirmed RegistrationStatus = "CONFIRMED"
	RegWaitlist  RegistrationStatus = "WAITLIST"
	RegCancelled RegistrationStatus = "CANCELLED"
)

// regTransitions 合法状态迁移；CANCELLED 是终态
var regTransitions = map[RegistrationStatus][]RegistrationStatus{
	RegPending:   {RegConfirmed, RegWaitlist, RegCancelled},
	RegConfirmed: {RegCancelled},
	RegWaitlist:  {RegConfirmed, RegCancelled},
	RegCancelled: {},
}

func (s RegistrationStatus) Valid() bool {
	_, ok := regTransitions[s]
	return ok
}

func (s RegistrationStatus) CanTransitionTo(next RegistrationStatus) bool {
	for _, t := range regTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Active 占名额的状态（计入 current_participants）
func (s RegistrationStatus) Active() bool {
	return s == RegPending || s == RegConfirmed
}

type Experience string

const (
	ExpBeginner     Experience = "BEGINNER"
	ExpIntermediate Experience = "INTERMEDIATE"
	ExpAdvanced     Experience = "ADVANCED"
)

type EventRegistration struct {
	ID                string             `gorm:"primaryKey;size:36" json:"id"`
	FullName          string             `gorm:"size:191;not null" json:"fullName"`
	Email             string             `gorm:"size:191;not null" json:"email"`
	Phone             string             `gorm:"size:32;not null" json:"phone"`
	EmergencyContact  string             `gorm:"size:191;not null" json:"emergencyContact"`
	EmergencyPhone    string             `gorm:"size:32;not null" json:"emergencyPhone"`
	MedicalConditions string             `gorm:"size:500" json:"medicalConditions,omitempty"`
	Experience        Experience         `gorm:"size:16;not null" json:"experience"`
	Status            RegistrationStatus `gorm:"size:16;not null;index" json:"status"`

	EventID string `gorm:"size:36;not null;index:idx_reg_event_user" json:"eventId"`
	UserID  string `gorm:"size:36;not null;index:idx_reg_event_user" json:"userId"`

	RegisteredAt time.Time `gorm:"autoCreateTime" json:"registeredAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (EventRegistration) TableName() string { return "event_registrations" }

type RegistrationRepository interface {
	// Register 事务内锁定赛事行做容量判定：满员给 WAITLIST，否则 PENDING 并加计数
	Register(ctx context.Context, reg *EventRegistration) error
	FindByID(ctx context.Context, id string) (*EventRegistration, error)
	ListByEvent(ctx context.Context, eventID string) ([]EventRegistration, error)
	ListByUser(ctx context.Context, userID string) ([]EventRegistration, error)
	// UpdateStatus 事务内校验迁移合法性并同步 current_participants
	UpdateStatus(ctx context.Context, id string, next RegistrationStatus) (*EventRegistration, error)
}
