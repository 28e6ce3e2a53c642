package domain

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey;size:36" json:"id"`
	Name         string `gorm:"size:64;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string `gorm:"size:100;not null" json:"-"`
	Avatar       string `gorm:"size:255" json:"avatar,omitempty"`
	Role         Role   `gorm:"size:16;not null;default:USER" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"isActive"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }

type UserListFilter struct {
	Query       string // email/name 模糊搜
	WithDeleted bool
	Offset      int
	Limit       int
}

type UserRepository interface {
	Create(u *User) error
	FindByID(id string) (*User, error)
	FindByEmail(email string) (*User, error)
	List(f UserListFilter) ([]User, int64, error)
	Count() (int64, error)
	Update(u *User) error
	Deactivate(id string) error
	HardDelete(id string) error
}
