package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"vsm-server/internal/apperr"
	"vsm-server/internal/domain"
)

// fakeEventRepo 只存内存 map，事务语义由仓储层测试覆盖
type fakeEventRepo struct {
	events map[string]*domain.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: map[string]*domain.Event{}}
}

func (f *fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	if e, ok := f.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEventRepo) List(_ context.Context, _ domain.EventListFilter) ([]domain.Event, int64, error) {
	out := make([]domain.Event, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, int64(len(out)), nil
}

func (f *fakeEventRepo) Update(_ context.Context, e *domain.Event) error {
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id string) error {
	delete(f.events, id)
	return nil
}

// fakeRegRepo 模拟仓储契约：满员进 WAITLIST，否则 PENDING 并加计数
type fakeRegRepo struct {
	events *fakeEventRepo
	regs   map[string]*domain.EventRegistration
}

func newFakeRegRepo(events *fakeEventRepo) *fakeRegRepo {
	return &fakeRegRepo{events: events, regs: map[string]*domain.EventRegistration{}}
}

func (f *fakeRegRepo) Register(_ context.Context, reg *domain.EventRegistration) error {
	ev, ok := f.events.events[reg.EventID]
	if !ok {
		return apperr.NotFound("event not found")
	}
	if !ev.OpenForRegistration(time.Now()) {
		return apperr.Conflict("event is not open for registration")
	}
	for _, r := range f.regs {
		if r.EventID == reg.EventID && r.UserID == reg.UserID && r.Status != domain.RegCancelled {
			return apperr.Conflict("already registered for this event")
		}
	}
	if ev.CurrentParticipants >= ev.MaxParticipants {
		reg.Status = domain.RegWaitlist
	} else {
		reg.Status = domain.RegPending
		ev.CurrentParticipants++
	}
	cp := *reg
	f.regs[reg.ID] = &cp
	return nil
}

func (f *fakeRegRepo) FindByID(_ context.Context, id string) (*domain.EventRegistration, error) {
	if r, ok := f.regs[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRegRepo) ListByEvent(_ context.Context, eventID string) ([]domain.EventRegistration, error) {
	var out []domain.EventRegistration
	for _, r := range f.regs {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegRepo) ListByUser(_ context.Context, userID string) ([]domain.EventRegistration, error) {
	var out []domain.EventRegistration
	for _, r := range f.regs {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRegRepo) UpdateStatus(_ context.Context, id string, next domain.RegistrationStatus) (*domain.EventRegistration, error) {
	r, ok := f.regs[id]
	if !ok {
		return nil, apperr.NotFound("registration not found")
	}
	if r.Status == next {
		cp := *r
		return &cp, nil
	}
	if !r.Status.CanTransitionTo(next) {
		return nil, apperr.Conflict("cannot move " + string(r.Status) + " to " + string(next))
	}
	ev := f.events.events[r.EventID]
	if !r.Status.Active() && next.Active() {
		if ev.CurrentParticipants >= ev.MaxParticipants {
			return nil, apperr.Conflict("event is full")
		}
		ev.CurrentParticipants++
	}
	if r.Status.Active() && !next.Active() {
		ev.CurrentParticipants--
	}
	r.Status = next
	cp := *r
	return &cp, nil
}

func seedEvent(events *fakeEventRepo, id string, max, current int) *domain.Event {
	ev := &domain.Event{
		ID:                  id,
		Name:                "Hanoi Night Run",
		Date:                time.Now().Add(30 * 24 * time.Hour),
		MaxParticipants:     max,
		CurrentParticipants: current,
		Category:            domain.CategoryNightRun,
		Status:              domain.EventUpcoming,
		Published:           true,
	}
	events.events[id] = ev
	return ev
}

func TestRegistrationRegister(t *testing.T) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	svc := NewRegistrationService(regs, events)
	seedEvent(events, "ev-1", 100, 0)

	reg, err := svc.Register(context.Background(), "ev-1", "u-1", RegistrationInput{
		FullName:   "Nguyen Van A",
		Email:      "a@vsm.org.vn",
		Phone:      "0901234567",
		Experience: domain.ExpBeginner,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.ID == "" {
		t.Error("expected an assigned id")
	}
	if reg.Status != domain.RegPending {
		t.Errorf("Status: got %s, want PENDING", reg.Status)
	}
	if got := events.events["ev-1"].CurrentParticipants; got != 1 {
		t.Errorf("CurrentParticipants: got %d, want 1", got)
	}
}

func TestRegistrationRegisterFullEventWaitlists(t *testing.T) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	svc := NewRegistrationService(regs, events)
	seedEvent(events, "ev-1", 2, 2)

	reg, err := svc.Register(context.Background(), "ev-1", "u-9", RegistrationInput{FullName: "Late Runner"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.Status != domain.RegWaitlist {
		t.Errorf("Status: got %s, want WAITLIST", reg.Status)
	}
	if got := events.events["ev-1"].CurrentParticipants; got != 2 {
		t.Errorf("waitlisted entry must not raise the count, got %d", got)
	}
}

func TestRegistrationRegisterDuplicateConflicts(t *testing.T) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	svc := NewRegistrationService(regs, events)
	seedEvent(events, "ev-1", 100, 0)

	ctx := context.Background()
	if _, err := svc.Register(ctx, "ev-1", "u-1", RegistrationInput{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, "ev-1", "u-1", RegistrationInput{})
	wantStatus(t, err, http.StatusConflict)
}

func TestRegistrationUpdateStatusRejectsUnknownStatus(t *testing.T) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	svc := NewRegistrationService(regs, events)

	_, err := svc.UpdateStatus(context.Background(), "r-1", "APPROVED")
	wantStatus(t, err, http.StatusBadRequest)
}

func TestRegistrationUpdateStatusLifecycle(t *testing.T) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	svc := NewRegistrationService(regs, events)
	seedEvent(events, "ev-1", 100, 0)

	ctx := context.Background()
	reg, err := svc.Register(ctx, "ev-1", "u-1", RegistrationInput{})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, reg.ID, domain.RegConfirmed)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got.Status != domain.RegConfirmed {
		t.Errorf("Status: got %s, want CONFIRMED", got.Status)
	}

	if _, err := svc.UpdateStatus(ctx, reg.ID, domain.RegCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got := events.events["ev-1"].CurrentParticipants; got != 0 {
		t.Errorf("cancel must release the slot, got %d", got)
	}

	// 终态不可复活
	_, err = svc.UpdateStatus(ctx, reg.ID, domain.RegConfirmed)
	wantStatus(t, err, http.StatusConflict)
}

func TestRegistrationListByEventUnknownEvent(t *testing.T) {
	events := newFakeEventRepo()
	regs := newFakeRegRepo(events)
	svc := NewRegistrationService(regs, events)

	_, err := svc.ListByEvent(context.Background(), "nope")
	wantStatus(t, err, http.StatusNotFound)
}
