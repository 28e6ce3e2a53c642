package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vsm-server/internal/domain"
)

type PostRepo struct{ db *gorm.DB }

func NewPostRepo(db *gorm.DB) *PostRepo { return &PostRepo{db: db} }

func (r *PostRepo) Create(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	var p domain.Post
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *PostRepo) List(ctx context.Context, f domain.PostListFilter) ([]domain.Post, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Post{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var posts []domain.Post
	if err := q.Order("created_at DESC").Offset(f.Offset).Limit(f.Limit).Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update views 由 IncrementViews 原子维护，写回时跳过
func (r *PostRepo) Update(ctx context.Context, p *domain.Post) error {
	return r.db.WithContext(ctx).Omit("views").Save(p).Error
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostRepo) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}
