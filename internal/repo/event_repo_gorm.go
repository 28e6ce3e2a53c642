package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"vsm-server/internal/domain"
)

type EventRepo struct{ db *gorm.DB }

func NewEventRepo(db *gorm.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepo) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &e, err
}

func (r *EventRepo) List(ctx context.Context, f domain.EventListFilter) ([]domain.Event, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Event{})
	if f.PublishedOnly {
		q = q.Where("published = ?", true)
	}
	if f.FeaturedOnly {
		q = q.Where("featured = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var events []domain.Event
	if err := q.Order("date ASC").Offset(f.Offset).Limit(f.Limit).Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// Update 整行写回，但 current_participants 归报名事务管，这里必须跳过，
// 否则会用读快照覆盖并发报名刚加上去的计数
func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	return r.db.WithContext(ctx).Omit("current_participants").Save(e).Error
}

func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
