package repo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vsm-server/internal/apperr"
	"vsm-server/internal/domain"
)

type RegistrationRepo struct{ db *gorm.DB }

func NewRegistrationRepo(db *gorm.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

var activeStatuses = []domain.RegistrationStatus{domain.RegPending, domain.RegConfirmed}

// Register 单事务容量判定：锁赛事行 → 查重 → 数活跃名额 → 满员 WAITLIST / 否则 PENDING+计数。
// current_participants 只在这里和 UpdateStatus 里变动，作为唯一事实来源。
func (r *RegistrationRepo) Register(ctx context.Context, reg *domain.EventRegistration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev domain.Event
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ev, "id = ?", reg.EventID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("event not found")
		}
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		if !ev.OpenForRegistration(tx.NowFunc()) {
			return apperr.Conflict("event is not open for registration")
		}

		var dup int64
		if err := tx.Model(&domain.EventRegistration{}).
			Where("event_id = ? AND user_id = ? AND status <> ?", reg.EventID, reg.UserID, domain.RegCancelled).
			Count(&dup).Error; err != nil {
			return fmt.Errorf("check duplicate: %w", err)
		}
		if dup > 0 {
			return apperr.Conflict("already registered for this event")
		}

		var active int64
		if err := tx.Model(&domain.EventRegistration{}).
			Where("event_id = ? AND status IN ?", reg.EventID, activeStatuses).
			Count(&active).Error; err != nil {
			return fmt.Errorf("count active registrations: %w", err)
		}

		if active >= int64(ev.MaxParticipants) {
			reg.Status = domain.RegWaitlist
		} else {
			reg.Status = domain.RegPending
			if err := tx.Model(&domain.Event{}).Where("id = ?", ev.ID).
				Update("current_participants", gorm.Expr("current_participants + 1")).Error; err != nil {
				return fmt.Errorf("bump participants: %w", err)
			}
		}
		return tx.Create(reg).Error
	})
}

func (r *RegistrationRepo) FindByID(ctx context.Context, id string) (*domain.EventRegistration, error) {
	var reg domain.EventRegistration
	err := r.db.WithContext(ctx).First(&reg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &reg, err
}

func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID string) ([]domain.EventRegistration, error) {
	var regs []domain.EventRegistration
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("registered_at ASC").
		Find(&regs).Error
	return regs, err
}

func (r *RegistrationRepo) ListByUser(ctx context.Context, userID string) ([]domain.EventRegistration, error) {
	var regs []domain.EventRegistration
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&regs).Error
	return regs, err
}

// UpdateStatus 锁报名行与赛事行，按迁移表校验后落库并同步计数。
// 离开活跃状态释放名额；WAITLIST→CONFIRMED 要重新过容量检查。
func (r *RegistrationRepo) UpdateStatus(ctx context.Context, id string, next domain.RegistrationStatus) (*domain.EventRegistration, error) {
	var reg domain.EventRegistration
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reg, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("registration not found")
		}
		if err != nil {
			return fmt.Errorf("lock registration: %w", err)
		}

		if reg.Status == next {
			return nil // 幂等：重复设置同一状态不报错
		}
		if !reg.Status.CanTransitionTo(next) {
			return apperr.Conflict(fmt.Sprintf("illegal status transition %s -> %s", reg.Status, next))
		}

		var ev domain.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ev, "id = ?", reg.EventID).Error; err != nil {
			return fmt.Errorf("lock event: %w", err)
		}

		wasActive, willBeActive := reg.Status.Active(), next.Active()
		switch {
		case !wasActive && willBeActive:
			var active int64
			if err := tx.Model(&domain.EventRegistration{}).
				Where("event_id = ? AND status IN ?", ev.ID, activeStatuses).
				Count(&active).Error; err != nil {
				return fmt.Errorf("count active registrations: %w", err)
			}
			if active >= int64(ev.MaxParticipants) {
				return apperr.Conflict("event is full")
			}
			if err := tx.Model(&domain.Event{}).Where("id = ?", ev.ID).
				Update("current_participants", gorm.Expr("current_participants + 1")).Error; err != nil {
				return fmt.Errorf("bump participants: %w", err)
			}
		case wasActive && !willBeActive:
			if err := tx.Model(&domain.Event{}).
				Where("id = ? AND current_participants > 0", ev.ID).
				Update("current_participants", gorm.Expr("current_participants - 1")).Error; err != nil {
				return fmt.Errorf("release participant slot: %w", err)
			}
		}

		reg.Status = next
		return tx.Model(&domain.EventRegistration{}).Where("id = ?", id).
			Update("status", next).Error
	})
	if err != nil {
		return nil, err
	}
	return &reg, nil
}
