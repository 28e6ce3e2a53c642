package domain

import (
	"context"
	"time"
)

type PostStatus string

const (
	PostPublished PostStatus = "published"
	PostDraft     PostStatus = "draft"
)

type Post struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Title         string     `gorm:"size:255;not null" json:"title"`
	Excerpt       string     `gorm:"size:500" json:"excerpt"`
	Content       string     `gorm:"type:text" json:"content"`
	Cover         string     `gorm:"size:255" json:"cover"`
	AuthorID      string     `gorm:"size:36;index" json:"authorId"`
	Category      string     `gorm:"size:64;index" json:"category"`
	Views         int64      `gorm:"not null;default:0" json:"views"`
	Featured      bool       `gorm:"not null;default:false" json:"featured"`
	Status        PostStatus `gorm:"size:16;not null;default:draft;index" json:"status"`
	Likes         int64      `gorm:"not null;default:0" json:"likes"`
	CommentsCount int64      `gorm:"not null;default:0" json:"commentsCount"`
	Tags          string     `gorm:"size:255" json:"tags"` // 逗号分隔

	CreatedAt time.Time `gorm:"autoCreateTime" json:"date"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

type PostListFilter struct {
	Status       PostStatus
	Category     string
	FeaturedOnly bool
	Offset       int
	Limit        int
}

type PostRepository interface {
	Create(ctx context.Context, p *Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, f PostListFilter) ([]Post, int64, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}
