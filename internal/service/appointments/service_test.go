package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/internal/infra/events"
	appointmentRepo "github.com/m04kA/SMC-ClinicBookingService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-ClinicBookingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (fakeTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memRepo struct {
	items   map[int64]*domain.Appointment
	log     []domain.StatusChange
	filters []domain.AppointmentsFilter
	sort    domain.StatusLogSort
	desc    bool
}

func (m *memRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memRepo) List(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	m.filters = append(m.filters, filter)
	result := make([]*domain.Appointment, 0)
	for _, a := range m.items {
		if filter.PatientID != nil && a.PatientID != *filter.PatientID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (m *memRepo) UpdateStatus(_ context.Context, id int64, status domain.AppointmentStatus) error {
	a, ok := m.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.Status = status
	return nil
}

func (m *memRepo) Reschedule(_ context.Context, id int64, draft domain.AppointmentDraft) error {
	a, ok := m.items[id]
	if !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	a.SpecialistID = draft.SpecialistID
	a.SpecialtyID = draft.SpecialtyID
	a.Date = draft.Date
	a.Time = draft.Time
	a.WeekdayCode = draft.WeekdayCode
	a.Month = draft.Month
	a.Year = draft.Year
	a.Status = domain.StatusReprogrammed
	return nil
}

func (m *memRepo) InsertStatusChange(_ context.Context, change domain.StatusChange) (*domain.StatusChange, error) {
	change.ID = int64(len(m.log) + 1)
	m.log = append(m.log, change)
	return &change, nil
}

func (m *memRepo) ListStatusChanges(_ context.Context, sort domain.StatusLogSort, descending bool) ([]*domain.StatusChange, error) {
	m.sort, m.desc = sort, descending
	result := make([]*domain.StatusChange, 0, len(m.log))
	for i := range m.log {
		result = append(result, &m.log[i])
	}
	return result, nil
}

type fakeRoles struct{ admins map[uuid.UUID]bool }

func (f fakeRoles) HasRole(_ context.Context, id uuid.UUID, role string) (bool, error) {
	return role == domain.RoleAdministration && f.admins[id], nil
}

type fakeSpecialists struct{ specialties map[uuid.UUID][]domain.Specialty }

func (f fakeSpecialists) ListSpecialtiesBySpecialist(_ context.Context, id uuid.UUID) ([]domain.Specialty, error) {
	return f.specialties[id], nil
}

type fakePublisher struct{ published []events.AppointmentEvent }

func (f *fakePublisher) Publish(_ context.Context, e events.AppointmentEvent) error {
	f.published = append(f.published, e)
	return nil
}

type fakeMetrics struct{ statuses []string }

func (f *fakeMetrics) StatusChanged(status string) { f.statuses = append(f.statuses, status) }

type fixture struct {
	svc        *Service
	repo       *memRepo
	publisher  *fakePublisher
	metrics    *fakeMetrics
	patient    uuid.UUID
	admin      uuid.UUID
	specialist uuid.UUID
	other      uuid.UUID
}

func newFixture(t *testing.T, status domain.AppointmentStatus) *fixture {
	t.Helper()
	f := &fixture{
		patient:    uuid.New(),
		admin:      uuid.New(),
		specialist: uuid.New(),
		other:      uuid.New(),
		publisher:  &fakePublisher{},
		metrics:    &fakeMetrics{},
	}
	f.repo = &memRepo{items: map[int64]*domain.Appointment{
		1: {
			ID:           1,
			PatientID:    f.patient,
			SpecialistID: f.specialist,
			SpecialtyID:  3,
			Date:         time.Date(2026, 12, 7, 0, 0, 0, 0, time.UTC),
			Time:         types.MustTimeString("08:00"),
			WeekdayCode:  1,
			Month:        12,
			Year:         2026,
			Status:       status,
		},
	}}
	specialists := fakeSpecialists{specialties: map[uuid.UUID][]domain.Specialty{
		f.specialist: {{ID: 3, Name: "Cardiología"}},
		f.other:      {{ID: 5, Name: "Dermatología"}},
	}}
	f.svc = NewService(f.repo, fakeRoles{admins: map[uuid.UUID]bool{f.admin: true}}, specialists,
		f.publisher, f.metrics, fakeTx{}, time.UTC, nopLogger{})
	f.svc.timeProvider = fixedTime{now: time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)}
	return f
}

func TestGetByID_Access(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	resp, err := f.svc.GetByID(context.Background(), 1, f.patient)
	require.NoError(t, err)
	assert.Equal(t, "2026-12-07", resp.Date)
	assert.Equal(t, "Lunes", resp.Weekday)
	assert.True(t, resp.CanBeCancelled)

	_, err = f.svc.GetByID(context.Background(), 1, f.admin)
	require.NoError(t, err)

	_, err = f.svc.GetByID(context.Background(), 1, uuid.New())
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 42, f.patient)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestListForPatient(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	resp, err := f.svc.ListForPatient(context.Background(), f.patient, ptr.Ptr("PENDIENTE"))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusPending}, f.repo.filters[0].Statuses)

	_, err = f.svc.ListForPatient(context.Background(), f.patient, ptr.Ptr("lost"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_AdminTabs(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.svc.List(context.Background(), f.patient, &models.ListRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.List(context.Background(), f.admin, &models.ListRequest{Tab: "rechazados"})
	require.NoError(t, err)
	assert.Equal(t, []domain.AppointmentStatus{domain.StatusRejected, domain.StatusCancelled}, f.repo.filters[0].Statuses)

	_, err = f.svc.List(context.Background(), f.admin, &models.ListRequest{Tab: "archivados"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	err := f.svc.Cancel(context.Background(), 1, f.admin, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)

	err = f.svc.Cancel(context.Background(), 1, f.patient, &models.CancelRequest{Reason: "viaje"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, f.repo.items[1].Status)
	require.Len(t, f.repo.log, 1)
	assert.Equal(t, f.patient, f.repo.log[0].ChangedBy)
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, events.TypeAppointmentStatusChanged, f.publisher.published[0].Type)
	assert.Equal(t, "viaje", f.publisher.published[0].Reason)
	assert.Equal(t, []string{"cancelado"}, f.metrics.statuses)

	err = f.svc.Cancel(context.Background(), 1, f.patient, &models.CancelRequest{})
	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestUpdateStatus_Lifecycle(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.AppointmentStatus
		to      string
		wantErr error
	}{
		{name: "pending to confirmed", from: domain.StatusPending, to: "confirmado"},
		{name: "pending to rejected", from: domain.StatusPending, to: "rechazado"},
		{name: "reprogrammed to confirmed", from: domain.StatusReprogrammed, to: "confirmado"},
		{name: "confirmed to pending", from: domain.StatusConfirmed, to: "pendiente", wantErr: ErrInvalidTransition},
		{name: "rejected is terminal", from: domain.StatusRejected, to: "confirmado", wantErr: ErrInvalidTransition},
		{name: "reprogram needs reschedule", from: domain.StatusPending, to: "reprogramado", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "perdido", wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.from)

			err := f.svc.UpdateStatus(context.Background(), 1, f.admin, &models.UpdateStatusRequest{Status: tt.to})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, f.repo.items[1].Status)
				assert.Empty(t, f.repo.log)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.AppointmentStatus(tt.to), f.repo.items[1].Status)
			require.Len(t, f.repo.log, 1)
			assert.Equal(t, f.admin, f.repo.log[0].ChangedBy)
		})
	}
}

func TestUpdateStatus_RequiresAdmin(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	err := f.svc.UpdateStatus(context.Background(), 1, f.patient, &models.UpdateStatusRequest{Status: "confirmado"})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	resp, err := f.svc.Reschedule(context.Background(), 1, f.admin, &models.RescheduleRequest{
		Date:         time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC),
		Time:         "10:30:00",
		SpecialistID: &f.other,
		SpecialtyID:  ptr.Ptr(int64(5)),
	})

	require.NoError(t, err)
	assert.Equal(t, "reprogramado", resp.Status)
	assert.Equal(t, "2026-12-10", resp.Date)
	assert.Equal(t, "10:30", resp.Time)
	assert.Equal(t, "Jueves", resp.Weekday)
	assert.Equal(t, f.other, resp.SpecialistID)
	require.Len(t, f.repo.log, 1)
	assert.Equal(t, domain.StatusReprogrammed, f.repo.log[0].NewStatus)
}

func TestReschedule_Errors(t *testing.T) {
	future := time.Date(2026, 12, 10, 0, 0, 0, 0, time.UTC)

	t.Run("past date", func(t *testing.T) {
		f := newFixture(t, domain.StatusPending)
		_, err := f.svc.Reschedule(context.Background(), 1, f.admin, &models.RescheduleRequest{
			Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), Time: "08:00",
		})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("bad time", func(t *testing.T) {
		f := newFixture(t, domain.StatusPending)
		_, err := f.svc.Reschedule(context.Background(), 1, f.admin, &models.RescheduleRequest{Date: future, Time: "ocho"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("terminal status", func(t *testing.T) {
		f := newFixture(t, domain.StatusCancelled)
		_, err := f.svc.Reschedule(context.Background(), 1, f.admin, &models.RescheduleRequest{Date: future, Time: "08:00"})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("specialty of another specialist", func(t *testing.T) {
		f := newFixture(t, domain.StatusPending)
		_, err := f.svc.Reschedule(context.Background(), 1, f.admin, &models.RescheduleRequest{
			Date: future, Time: "08:00", SpecialistID: &f.other,
		})
		assert.ErrorIs(t, err, ErrSpecialtyMismatch)
		assert.Equal(t, domain.StatusPending, f.repo.items[1].Status)
	})
}

func TestStatusLog(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	require.NoError(t, f.svc.UpdateStatus(context.Background(), 1, f.admin, &models.UpdateStatusRequest{Status: "confirmado"}))

	resp, err := f.svc.StatusLog(context.Background(), f.admin, &models.StatusLogRequest{})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, domain.SortByChangedAt, f.repo.sort)
	assert.True(t, f.repo.desc)

	_, err = f.svc.StatusLog(context.Background(), f.admin, &models.StatusLogRequest{Sort: "id_turno", Order: "asc"})
	require.NoError(t, err)
	assert.Equal(t, domain.SortByAppointment, f.repo.sort)
	assert.False(t, f.repo.desc)

	_, err = f.svc.StatusLog(context.Background(), f.admin, &models.StatusLogRequest{Sort: "nombre"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.StatusLog(context.Background(), f.patient, &models.StatusLogRequest{})
	assert.ErrorIs(t, err, ErrAccessDenied)
}
