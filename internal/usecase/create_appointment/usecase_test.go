package create_appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/events"
	patientRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/patient"
	scheduleRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/schedule"
	specialistRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/specialist"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeTx struct{ calls int }

func (f *fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeAppointments struct {
	active    []*domain.Appointment
	created   []domain.AppointmentDraft
	lastQuery domain.AppointmentsFilter
	createErr error
}

func (f *fakeAppointments) Create(_ context.Context, draft domain.AppointmentDraft) (*domain.Appointment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, draft)
	return &domain.Appointment{
		ID:           int64(len(f.created)),
		PatientID:    draft.PatientID,
		SpecialistID: draft.SpecialistID,
		SpecialtyID:  draft.SpecialtyID,
		Date:         draft.Date,
		Time:         draft.Time,
		WeekdayCode:  draft.WeekdayCode,
		Month:        draft.Month,
		Year:         draft.Year,
		Status:       domain.StatusPending,
	}, nil
}

func (f *fakeAppointments) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.lastQuery = filter
	return f.active, nil
}

type fakeSchedules struct {
	entries []domain.WeeklyScheduleEntry
}

func (f *fakeSchedules) GetForWeekday(_ context.Context, _ uuid.UUID, weekday int) (*domain.WeeklyScheduleEntry, error) {
	entry, ok := domain.FindEntryForWeekday(f.entries, weekday)
	if !ok {
		return nil, scheduleRepo.ErrScheduleEntryNotFound
	}
	return &entry, nil
}

type fakeSpecialists struct {
	specialist  *domain.Specialist
	specialties []domain.Specialty
}

func (f *fakeSpecialists) GetByID(_ context.Context, id uuid.UUID) (*domain.Specialist, error) {
	if f.specialist == nil || f.specialist.ID != id {
		return nil, specialistRepo.ErrSpecialistNotFound
	}
	return f.specialist, nil
}

func (f *fakeSpecialists) ListSpecialtiesBySpecialist(context.Context, uuid.UUID) ([]domain.Specialty, error) {
	return f.specialties, nil
}

type fakePatients struct {
	patients map[uuid.UUID]domain.Patient
	err      error
}

func (f *fakePatients) GetByID(_ context.Context, id uuid.UUID) (*domain.Patient, error) {
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.patients[id]
	if !ok {
		return nil, patientRepo.ErrPatientNotFound
	}
	return &p, nil
}

type fakePublisher struct {
	published []events.AppointmentEvent
	err       error
}

func (f *fakePublisher) Publish(_ context.Context, event events.AppointmentEvent) error {
	f.published = append(f.published, event)
	return f.err
}

type fakeMetrics struct {
	created  int
	failures []string
}

func (f *fakeMetrics) AppointmentCreated()         { f.created++ }
func (f *fakeMetrics) BookingFailed(reason string) { f.failures = append(f.failures, reason) }

type fixture struct {
	uc           *UseCase
	appointments *fakeAppointments
	patients     *fakePatients
	specialists  *fakeSpecialists
	publisher    *fakePublisher
	metrics      *fakeMetrics
	tx           *fakeTx
	patientID    uuid.UUID
	specialistID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	patientID := uuid.New()
	specialistID := uuid.New()

	f := &fixture{
		appointments: &fakeAppointments{},
		patients: &fakePatients{patients: map[uuid.UUID]domain.Patient{
			patientID: {ID: patientID, FirstName: "Marta", LastName: "Ruiz", DNI: "30111222"},
		}},
		specialists: &fakeSpecialists{
			specialist:  &domain.Specialist{ID: specialistID, FirstName: "Ana", LastName: "Gómez"},
			specialties: []domain.Specialty{{ID: 3, Name: "Cardiología"}},
		},
		publisher:    &fakePublisher{},
		metrics:      &fakeMetrics{},
		tx:           &fakeTx{},
		patientID:    patientID,
		specialistID: specialistID,
	}
	schedules := &fakeSchedules{entries: []domain.WeeklyScheduleEntry{{
		ID:           1,
		SpecialistID: specialistID,
		Weekday:      1,
		StartTime:    types.MustTimeString("08:00"),
		EndTime:      types.MustTimeString("12:00"),
		Capacity:     2,
	}}}

	f.uc = NewUseCase(f.appointments, schedules, f.specialists, f.patients, f.publisher, f.metrics, f.tx, time.UTC, nopLogger{})
	f.uc.timeProvider = fixedTime{now: time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC)}
	return f
}

// 2026-12-07 понедельник
func monday() time.Time { return time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC) }

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), &Request{
		IdentityID:   f.patientID,
		SpecialistID: f.specialistID,
		Date:         monday(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, resp.Status)
	assert.Equal(t, types.TimeString("08:00"), resp.Time)
	assert.Equal(t, int64(3), resp.SpecialtyID)
	assert.Equal(t, 1, resp.WeekdayCode)
	assert.Equal(t, 12, resp.Month)
	assert.Equal(t, 2026, resp.Year)
	assert.Equal(t, "08:00 - 12:00", resp.TimeRange)
	assert.Equal(t, "Marta Ruiz", resp.PatientName)
	assert.Equal(t, "Ana Gómez", resp.SpecialistName)

	assert.Equal(t, 1, f.tx.calls)
	assert.True(t, f.appointments.lastQuery.ForUpdate)
	assert.Equal(t, domain.ActiveStatuses, f.appointments.lastQuery.Statuses)

	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeAppointmentCreated, f.publisher.published[0].Type)
	assert.Equal(t, "2026-12-07", f.publisher.published[0].Date)
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_PatientNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{
		IdentityID:   uuid.New(),
		SpecialistID: f.specialistID,
		Date:         monday(),
	})

	assert.ErrorIs(t, err, ErrPatientNotFound)
	assert.Empty(t, f.appointments.created)
	assert.Zero(t, f.tx.calls)
	assert.Equal(t, []string{"patient_not_found"}, f.metrics.failures)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture, req *Request)
		wantErr error
	}{
		{
			name:    "not authenticated",
			mutate:  func(_ *fixture, req *Request) { req.IdentityID = uuid.Nil },
			wantErr: ErrNotAuthenticated,
		},
		{
			name:    "missing specialist",
			mutate:  func(_ *fixture, req *Request) { req.SpecialistID = uuid.Nil },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad time",
			mutate:  func(_ *fixture, req *Request) { req.Time = "25:99" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "date in the past",
			mutate:  func(_ *fixture, req *Request) { req.Date = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC) },
			wantErr: ErrInvalidDate,
		},
		{
			name:    "unknown specialist",
			mutate:  func(_ *fixture, req *Request) { req.SpecialistID = uuid.New() },
			wantErr: ErrSpecialistNotFound,
		},
		{
			name: "specialty not practiced",
			mutate: func(_ *fixture, req *Request) {
				other := int64(9)
				req.SpecialtyID = &other
			},
			wantErr: ErrSpecialtyMismatch,
		},
		{
			name: "ambiguous specialty",
			mutate: func(f *fixture, _ *Request) {
				f.specialists.specialties = append(f.specialists.specialties, domain.Specialty{ID: 4, Name: "Clínica"})
			},
			wantErr: ErrSpecialtyRequired,
		},
		{
			name:    "no schedule on weekday",
			mutate:  func(_ *fixture, req *Request) { req.Date = monday().AddDate(0, 0, 1) },
			wantErr: ErrNoScheduleForWeekday,
		},
		{
			name:    "time differs from schedule",
			mutate:  func(_ *fixture, req *Request) { req.Time = "09:00" },
			wantErr: ErrTimeMismatch,
		},
		{
			name: "day full",
			mutate: func(f *fixture, _ *Request) {
				f.appointments.active = []*domain.Appointment{{ID: 1}, {ID: 2}}
			},
			wantErr: ErrSlotFull,
		},
		{
			name:    "patient lookup failure",
			mutate:  func(f *fixture, _ *Request) { f.patients.err = errors.New("timeout") },
			wantErr: ErrInternal,
		},
		{
			name:    "insert failure",
			mutate:  func(f *fixture, _ *Request) { f.appointments.createErr = errors.New("deadlock") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := &Request{IdentityID: f.patientID, SpecialistID: f.specialistID, Date: monday()}
			tt.mutate(f, req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.appointments.created)
			assert.Empty(t, f.publisher.published)
			assert.Len(t, f.metrics.failures, 1)
		})
	}
}

func TestExecute_ExplicitSpecialtyAmongSeveral(t *testing.T) {
	f := newFixture(t)
	f.specialists.specialties = append(f.specialists.specialties, domain.Specialty{ID: 4, Name: "Clínica"})
	clinic := int64(4)

	resp, err := f.uc.Execute(context.Background(), &Request{
		IdentityID:   f.patientID,
		SpecialistID: f.specialistID,
		SpecialtyID:  &clinic,
		Date:         monday(),
		Time:         "08:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "Clínica", resp.SpecialtyName)
}

func TestExecute_UnlimitedCapacity(t *testing.T) {
	f := newFixture(t)
	schedules := &fakeSchedules{entries: []domain.WeeklyScheduleEntry{{Weekday: 1, StartTime: "08:00", EndTime: "12:00"}}}
	f.uc.scheduleRepo = schedules
	f.appointments.active = make([]*domain.Appointment, 50)

	_, err := f.uc.Execute(context.Background(), &Request{IdentityID: f.patientID, SpecialistID: f.specialistID, Date: monday()})

	require.NoError(t, err)
}

func TestExecute_TodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	// 2026-10-19 понедельник; часы now смещаем на этот день
	f.uc.timeProvider = fixedTime{now: time.Date(2026, 10, 19, 23, 0, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), &Request{
		IdentityID:   f.patientID,
		SpecialistID: f.specialistID,
		Date:         time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
}

func TestExecute_PublishFailureDoesNotFail(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("channel closed")

	_, err := f.uc.Execute(context.Background(), &Request{IdentityID: f.patientID, SpecialistID: f.specialistID, Date: monday()})

	require.NoError(t, err)
	assert.Len(t, f.appointments.created, 1)
}
