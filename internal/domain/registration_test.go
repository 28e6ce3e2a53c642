package domain

import "testing"

func TestRegistrationStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from RegistrationStatus
		to   RegistrationStatus
		want bool
	}{
		{"pending to confirmed", RegPending, RegConfirmed, true},
		{"pending to waitlist", RegPending, RegWaitlist, true},
		{"pending to cancelled", RegPending, RegCancelled, true},
		{"confirmed to cancelled", RegConfirmed, RegCancelled, true},
		{"waitlist to confirmed", RegWaitlist, RegConfirmed, true},
		{"waitlist to cancelled", RegWaitlist, RegCancelled, true},
		{"confirmed to pending", RegConfirmed, RegPending, false},
		{"confirmed to waitlist", RegConfirmed, RegWaitlist, false},
		{"waitlist to pending", RegWaitlist, RegPending, false},
		{"cancelled to pending", RegCancelled, RegPending, false},
		{"cancelled to confirmed", RegCancelled, RegConfirmed, false},
		{"cancelled to waitlist", RegCancelled, RegWaitlist, false},
		{"pending to pending", RegPending, RegPending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRegistrationStatusValid(t *testing.T) {
	for _, s := range []RegistrationStatus{RegPending, RegConfirmed, RegWaitlist, RegCancelled} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if RegistrationStatus("EXPIRED").Valid() {
		t.Error("expected EXPIRED to be invalid")
	}
	if RegistrationStatus("").Valid() {
		t.Error("expected empty status to be invalid")
	}
}

func TestRegistrationStatusActive(t *testing.T) {
	tests := []struct {
		status RegistrationStatus
		want   bool
	}{
		{RegPending, true},
		{RegConfirmed, true},
		{RegWaitlist, false},
		{RegCancelled, false},
	}
	for _, tt := range tests {
		if got := tt.status.Active(); got != tt.want {
			t.Errorf("%s.Active() = %v, want %v", tt.status, got, tt.want)
		}
	}
}
