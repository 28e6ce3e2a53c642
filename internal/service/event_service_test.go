package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"vsm-server/internal/domain"
)

func TestEventCreateDefaultsToUpcoming(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewEventService(events)

	e, err := svc.Create(context.Background(), EventInput{
		Name:            "VSM Hanoi 2026",
		Date:            time.Date(2026, 12, 20, 5, 0, 0, 0, time.UTC),
		Location:        "Hoan Kiem Lake",
		MaxParticipants: 5000,
		Category:        domain.CategoryMarathon,
	}, "author-1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.Status != domain.EventUpcoming {
		t.Errorf("Status: got %s, want UPCOMING", e.Status)
	}
	if e.Published {
		t.Error("new event must start unpublished")
	}
	if e.AuthorID != "author-1" {
		t.Errorf("AuthorID: got %q", e.AuthorID)
	}
}

func TestEventGetPublicHidesUnpublished(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewEventService(events)
	ev := seedEvent(events, "ev-1", 100, 0)
	ev.Published = false

	_, err := svc.GetPublic(context.Background(), "ev-1")
	wantStatus(t, err, http.StatusNotFound)

	// 管理端仍可见
	if _, err := svc.Get(context.Background(), "ev-1"); err != nil {
		t.Errorf("Get: %v", err)
	}
}

func TestEventGetUnknown(t *testing.T) {
	svc := NewEventService(newFakeEventRepo())
	_, err := svc.Get(context.Background(), "nope")
	wantStatus(t, err, http.StatusNotFound)
}

func TestEventUpdatePartial(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewEventService(events)
	seedEvent(events, "ev-1", 100, 0)

	pub := true
	e, err := svc.Update(context.Background(), "ev-1", EventInput{
		Location:  "Thu Duc",
		Published: &pub,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if e.Location != "Thu Duc" {
		t.Errorf("Location: got %q", e.Location)
	}
	if e.Name != "Hanoi Night Run" {
		t.Errorf("untouched field changed: Name=%q", e.Name)
	}
	if !e.Published {
		t.Error("Published flag not applied")
	}
	if e.MaxParticipants != 100 {
		t.Errorf("zero-value input must not reset MaxParticipants, got %d", e.MaxParticipants)
	}
}

func TestEventListClampsLimit(t *testing.T) {
	events := newFakeEventRepo()
	svc := NewEventService(events)

	// List 不会把非法 limit 透传给仓储
	if _, _, err := svc.List(context.Background(), domain.EventListFilter{Limit: -5}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if _, _, err := svc.List(context.Background(), domain.EventListFilter{Limit: 10000}); err != nil {
		t.Fatalf("List: %v", err)
	}
}
