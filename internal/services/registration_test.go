package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusevents/internal/domain"
)

func newTestRegistrationService(fx *fixture, pub domain.NotificationPublisher) *registrationService {
	s := NewRegistrationService(fx.registrations, fx.students, fx.events, pub, discardLogger()).(*registrationService)
	s.now = fixedClock
	return s
}

func TestRegistrationService_Create(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(fx *fixture)
		studentID  string
		eventID    string
		status     domain.RegistrationStatus
		wantErr    error
		wantStatus domain.RegistrationStatus
	}{
		{
			name:       "defaults to confirmed",
			studentID:  "stu-a",
			eventID:    "ev-a",
			wantStatus: domain.RegistrationConfirmed,
		},
		{
			name:       "explicit pending",
			studentID:  "stu-a",
			eventID:    "ev-a",
			status:     domain.RegistrationPending,
			wantStatus: domain.RegistrationPending,
		},
		{
			name:       "full event waitlists",
			setup:      func(fx *fixture) { fx.addRegistrations("ev-a", 2, domain.RegistrationConfirmed) },
			studentID:  "stu-a",
			eventID:    "ev-a",
			wantStatus: domain.RegistrationWaitlisted,
		},
		{
			name:       "waitlisted entries do not hold seats",
			setup:      func(fx *fixture) { fx.addRegistrations("ev-a", 5, domain.RegistrationWaitlisted) },
			studentID:  "stu-a",
			eventID:    "ev-a",
			wantStatus: domain.RegistrationConfirmed,
		},
		{
			name: "duplicate active registration",
			setup: func(fx *fixture) {
				fx.registrations.seed(&domain.Registration{ID: "r1", StudentID: "stu-a", EventID: "ev-a", Status: domain.RegistrationPending})
			},
			studentID: "stu-a",
			eventID:   "ev-a",
			wantErr:   domain.ErrDuplicateRegistration,
		},
		{
			name: "cancelled registration frees the pair",
			setup: func(fx *fixture) {
				fx.registrations.seed(&domain.Registration{ID: "r1", StudentID: "stu-a", EventID: "ev-a", Status: domain.RegistrationCancelled})
			},
			studentID:  "stu-a",
			eventID:    "ev-a",
			wantStatus: domain.RegistrationConfirmed,
		},
		{
			name: "completed event is closed",
			setup: func(fx *fixture) {
				ev, _ := fx.events.GetByID(context.Background(), "ev-a")
				ev.Status = domain.EventCompleted
				_ = fx.events.Update(context.Background(), ev)
			},
			studentID: "stu-a",
			eventID:   "ev-a",
			wantErr:   domain.ErrEventClosed,
		},
		{name: "unknown student", studentID: "stu-x", eventID: "ev-a", wantErr: domain.ErrStudentNotFound},
		{name: "unknown event", studentID: "stu-a", eventID: "ev-x", wantErr: domain.ErrEventNotFound},
		{name: "invalid status", studentID: "stu-a", eventID: "ev-a", status: "maybe", wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			if tt.setup != nil {
				tt.setup(fx)
			}
			pub := &fakePublisher{}
			got, err := newTestRegistrationService(fx, pub).Create(context.Background(), tt.studentID, tt.eventID, tt.status)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, pub.published, "no notification for rejected registrations")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, testNow, got.RegistrationDate)
			require.Len(t, pub.published, 1)
			assert.Equal(t, got.ID, pub.published[0].RegistrationID)
			assert.Equal(t, string(tt.wantStatus), pub.published[0].Status)
		})
	}
}

func TestRegistrationService_PublishFailureDoesNotFailCreate(t *testing.T) {
	fx := newFixture()
	pub := &fakePublisher{err: errors.New("broker unavailable")}
	got, err := newTestRegistrationService(fx, pub).Create(context.Background(), "stu-a", "ev-a", "")
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)

	_, err = newTestRegistrationService(fx, nil).Create(context.Background(), "stu-b", "ev-a", "")
	require.NoError(t, err, "a nil publisher skips notification")
}

func TestRegistrationService_UpdateStatus(t *testing.T) {
	fx := newFixture()
	fx.registrations.seed(&domain.Registration{ID: "r-old", StudentID: "stu-a", EventID: "ev-a", Status: domain.RegistrationCancelled})
	fx.registrations.seed(&domain.Registration{ID: "r-new", StudentID: "stu-a", EventID: "ev-a", Status: domain.RegistrationConfirmed})
	svc := newTestRegistrationService(fx, nil)
	ctx := context.Background()

	_, err := svc.UpdateStatus(ctx, "r-old", "unknown")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.UpdateStatus(ctx, "r-old", domain.RegistrationConfirmed)
	assert.ErrorIs(t, err, domain.ErrDuplicateRegistration, "reactivation would create a second active pair")

	got, err := svc.UpdateStatus(ctx, "r-new", domain.RegistrationCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationCancelled, got.Status)
	assert.Equal(t, testNow, got.UpdatedAt)

	got, err = svc.UpdateStatus(ctx, "r-old", domain.RegistrationConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationConfirmed, got.Status)

	_, err = svc.UpdateStatus(ctx, "r-missing", domain.RegistrationConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationService_UpdateStatusAdmission(t *testing.T) {
	tests := []struct {
		name    string
		seed    func(fx *fixture)
		from    domain.RegistrationStatus
		to      domain.RegistrationStatus
		wantErr error
	}{
		{
			name:    "waitlisted to confirmed on full event",
			seed:    func(fx *fixture) { fx.addRegistrations("ev-a", 2, domain.RegistrationConfirmed) },
			from:    domain.RegistrationWaitlisted,
			to:      domain.RegistrationConfirmed,
			wantErr: domain.ErrEventFull,
		},
		{
			name:    "cancelled to pending on full event",
			seed: func(fx *fixture) {
				fx.addRegistrations("ev-a", 1, domain.RegistrationPending)
				fx.addRegistrations("ev-a", 1, domain.RegistrationConfirmed)
			},
			from:    domain.RegistrationCancelled,
			to:      domain.RegistrationPending,
			wantErr: domain.ErrEventFull,
		},
		{
			name: "waitlisted to confirmed with a free seat",
			seed: func(fx *fixture) { fx.addRegistrations("ev-a", 1, domain.RegistrationConfirmed) },
			from: domain.RegistrationWaitlisted,
			to:   domain.RegistrationConfirmed,
		},
		{
			name: "confirmed to pending keeps its seat",
			seed: func(fx *fixture) { fx.addRegistrations("ev-a", 1, domain.RegistrationConfirmed) },
			from: domain.RegistrationConfirmed,
			to:   domain.RegistrationPending,
		},
		{
			name: "confirmed to waitlisted on full event",
			seed: func(fx *fixture) { fx.addRegistrations("ev-a", 1, domain.RegistrationConfirmed) },
			from: domain.RegistrationConfirmed,
			to:   domain.RegistrationWaitlisted,
		},
		{
			name:    "cancelled to waitlisted on closed event",
			seed:    func(fx *fixture) { fx.events.rows[0].Status = domain.EventCompleted },
			from:    domain.RegistrationCancelled,
			to:      domain.RegistrationWaitlisted,
			wantErr: domain.ErrEventClosed,
		},
		{
			name:    "waitlisted to confirmed on cancelled event",
			seed:    func(fx *fixture) { fx.events.rows[0].Status = domain.EventCancelled },
			from:    domain.RegistrationWaitlisted,
			to:      domain.RegistrationConfirmed,
			wantErr: domain.ErrEventClosed,
		},
		{
			name: "cancelling on closed event is allowed",
			seed: func(fx *fixture) { fx.events.rows[0].Status = domain.EventCompleted },
			from: domain.RegistrationConfirmed,
			to:   domain.RegistrationCancelled,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture()
			tt.seed(fx)
			fx.registrations.seed(&domain.Registration{ID: "r-target", StudentID: "stu-b", EventID: "ev-a", Status: tt.from})
			svc := newTestRegistrationService(fx, nil)

			got, err := svc.UpdateStatus(context.Background(), "r-target", tt.to)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				stored, err := fx.registrations.GetByID(context.Background(), "r-target")
				require.NoError(t, err)
				assert.Equal(t, tt.from, stored.Status, "rejected update must not be stored")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.Status)
		})
	}
}

func TestRegistrationService_ListAndDelete(t *testing.T) {
	fx := newFixture()
	fx.addRegistrations("ev-a", 3, domain.RegistrationConfirmed)
	fx.addRegistrations("ev-a", 1, domain.RegistrationCancelled)
	svc := newTestRegistrationService(fx, nil)
	ctx := context.Background()

	items, total, err := svc.List(ctx, domain.RegistrationFilter{EventID: "ev-a", ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 3, total)

	require.NoError(t, svc.Delete(ctx, items[0].ID))
	assert.ErrorIs(t, svc.Delete(ctx, items[0].ID), domain.ErrNotFound)
}
