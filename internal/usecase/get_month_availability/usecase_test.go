package get_month_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	specialistRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/specialist"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	items  []*domain.Appointment
	filter domain.AppointmentsFilter
	err    error
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	return f.items, f.err
}

type fakeSchedules struct {
	entries []domain.WeeklyScheduleEntry
}

func (f *fakeSchedules) GetBySpecialist(context.Context, uuid.UUID) ([]domain.WeeklyScheduleEntry, error) {
	return f.entries, nil
}

type fakeSpecialists struct{ specialist *domain.Specialist }

func (f *fakeSpecialists) GetByID(_ context.Context, id uuid.UUID) (*domain.Specialist, error) {
	if f.specialist == nil || f.specialist.ID != id {
		return nil, specialistRepo.ErrSpecialistNotFound
	}
	return f.specialist, nil
}

func newUseCase(t *testing.T, appointments *fakeAppointments, entries []domain.WeeklyScheduleEntry) (*UseCase, uuid.UUID) {
	t.Helper()
	id := uuid.New()
	uc := NewUseCase(appointments, &fakeSchedules{entries: entries},
		&fakeSpecialists{specialist: &domain.Specialist{ID: id, FirstName: "Ana", LastName: "Gómez"}},
		time.UTC, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	return uc, id
}

func mondayMornings() []domain.WeeklyScheduleEntry {
	return []domain.WeeklyScheduleEntry{{
		Weekday:   1,
		StartTime: types.MustTimeString("08:00"),
		EndTime:   types.MustTimeString("12:00"),
		Capacity:  3,
	}}
}

func TestExecute_OnlyMondaysAvailable(t *testing.T) {
	appointments := &fakeAppointments{items: []*domain.Appointment{
		{ID: 1, Date: time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC), Status: domain.StatusPending},
		{ID: 2, Date: time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC), Status: domain.StatusConfirmed},
		{ID: 3, Date: time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC), Status: domain.StatusCancelled},
	}}
	uc, id := newUseCase(t, appointments, mondayMornings())

	resp, err := uc.Execute(context.Background(), &Request{SpecialistID: id, Year: 2026, Month: time.December})

	require.NoError(t, err)
	assert.Equal(t, "Diciembre 2026", resp.Title)
	assert.Equal(t, 2, resp.FirstWeekdayIndex)
	require.Len(t, resp.Days, 31)

	var available []int
	for _, d := range resp.Days {
		if d.Available {
			available = append(available, d.Date.Day())
			assert.Equal(t, domain.Lunes, d.Weekday)
			assert.Equal(t, "08:00 - 12:00", d.Entry.TimeRange())
		}
	}
	assert.Equal(t, []int{7, 14, 21, 28}, available)

	assert.Equal(t, 2, resp.Days[6].Booked)
	assert.Equal(t, 1, resp.Days[6].RemainingSpots())
	assert.Equal(t, 3, resp.Days[13].RemainingSpots())

	assert.Equal(t, domain.ActiveStatuses, appointments.filter.Statuses)
	assert.Equal(t, 1, appointments.filter.StartDate.Day())
	assert.Equal(t, 31, appointments.filter.EndDate.Day())
}

func TestExecute_PastDaysDisabled(t *testing.T) {
	uc, id := newUseCase(t, &fakeAppointments{}, mondayMornings())

	resp, err := uc.Execute(context.Background(), &Request{SpecialistID: id, Year: 2026, Month: time.October})

	require.NoError(t, err)
	var available []int
	for _, d := range resp.Days {
		if d.Available {
			available = append(available, d.Date.Day())
		}
	}
	// 5 и 12 октября уже прошли
	assert.Equal(t, []int{19, 26}, available)
}

func TestExecute_NoScheduleMeansNothingAvailable(t *testing.T) {
	uc, id := newUseCase(t, &fakeAppointments{}, nil)

	resp, err := uc.Execute(context.Background(), &Request{SpecialistID: id, Year: 2026, Month: time.November})

	require.NoError(t, err)
	for _, d := range resp.Days {
		assert.False(t, d.Available, d.Date.Format(domain.DateFormat))
	}
}

func TestExecute_Errors(t *testing.T) {
	uc, id := newUseCase(t, &fakeAppointments{err: errors.New("boom")}, mondayMornings())

	_, err := uc.Execute(context.Background(), &Request{SpecialistID: uuid.Nil, Year: 2026, Month: time.December})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{SpecialistID: id, Year: 2026, Month: 13})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{SpecialistID: uuid.New(), Year: 2026, Month: time.December})
	assert.ErrorIs(t, err, ErrSpecialistNotFound)

	_, err = uc.Execute(context.Background(), &Request{SpecialistID: id, Year: 2026, Month: time.December})
	assert.ErrorIs(t, err, ErrInternal)
}
