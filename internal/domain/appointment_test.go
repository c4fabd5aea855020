package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

func TestAppointmentStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to AppointmentStatus
		allowed  bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusReprogrammed, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusReprogrammed, true},
		{StatusConfirmed, StatusRejected, false},
		{StatusConfirmed, StatusPending, false},
		{StatusReprogrammed, StatusConfirmed, true},
		{StatusReprogrammed, StatusReprogrammed, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestAppointment_Predicates(t *testing.T) {
	a := &Appointment{Status: StatusPending}
	assert.True(t, a.IsActive())
	assert.True(t, a.CanBeCancelled())
	assert.True(t, a.CanBeRescheduled())

	a.Status = StatusCancelled
	assert.False(t, a.IsActive())
	assert.False(t, a.CanBeCancelled())
	assert.False(t, a.CanBeRescheduled())
}

func TestNewAppointmentDraft_DerivesCalendarFields(t *testing.T) {
	date := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC) // воскресенье
	draft := NewAppointmentDraft(uuid.New(), uuid.New(), 4, date, types.MustTimeString("09:00"))

	assert.Equal(t, 7, draft.WeekdayCode)
	assert.Equal(t, 11, draft.Month)
	assert.Equal(t, 2026, draft.Year)
	assert.Equal(t, types.TimeString("09:00"), draft.Time)
}

func TestAppointmentsTab_Statuses(t *testing.T) {
	statuses, ok := TabRejected.Statuses()
	assert.True(t, ok)
	assert.ElementsMatch(t, []AppointmentStatus{StatusRejected, StatusCancelled}, statuses)

	statuses, ok = TabAll.Statuses()
	assert.True(t, ok)
	assert.Nil(t, statuses)

	_, ok = AppointmentsTab("archivados").Statuses()
	assert.False(t, ok)
}

func TestStatusLogSort_IsValid(t *testing.T) {
	assert.True(t, SortByChangedAt.IsValid())
	assert.False(t, StatusLogSort("id; DROP TABLE persona").IsValid())
}
