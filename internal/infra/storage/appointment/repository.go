package appointment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
)

const table = "solicitudes_turno"

// Колонки турна с именами пациента, специалиста и специальности.
// Таблица turnos идет под алиасом t, чтобы FOR UPDATE OF t не задевал внешние соединения.
var selectColumns = []string{
	"t.id",
	"t.id_paciente",
	"t.id_especialista",
	"t.id_especialidad",
	"t.fecha_turno",
	"t.hora_turno",
	"t.id_dia",
	"t.estado",
	"t.mes_turno",
	`t."año_turno"`,
	"COALESCE(p.nombre || ' ' || p.apellido, '')",
	"COALESCE(e.nombre || ' ' || e.apellido, '')",
	"COALESCE(s.especialidad, '')",
	"t.created_at",
	"t.updated_at",
}

// Repository репозиторий турнов (solicitudes_turno) и журнала их статусов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория турнов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func baseSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select(selectColumns...).
		From(table + " t").
		LeftJoin("persona p ON p.id = t.id_paciente").
		LeftJoin("persona e ON e.id = t.id_especialista").
		LeftJoin("especialidades s ON s.id = t.id_especialidad")
}

// Create сохраняет черновик как новый турн в статусе pendiente.
// Использует транзакцию из контекста, если она есть.
func (r *Repository) Create(ctx context.Context, draft domain.AppointmentDraft) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns(
			"id_paciente",
			"id_especialista",
			"id_especialidad",
			"fecha_turno",
			"hora_turno",
			"id_dia",
			"estado",
			"mes_turno",
			`"año_turno"`,
		).
		Values(
			draft.PatientID,
			draft.SpecialistID,
			draft.SpecialtyID,
			draft.Date,
			draft.Time,
			draft.WeekdayCode,
			domain.StatusPending,
			draft.Month,
			draft.Year,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	appointment := &domain.Appointment{
		PatientID:    draft.PatientID,
		SpecialistID: draft.SpecialistID,
		SpecialtyID:  draft.SpecialtyID,
		Date:         draft.Date,
		Time:         draft.Time,
		WeekdayCode:  draft.WeekdayCode,
		Month:        draft.Month,
		Year:         draft.Year,
		Status:       domain.StatusPending,
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appointment.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	return appointment, nil
}

// GetByID получает турн по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := baseSelect().Where(squirrel.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	return appointment, nil
}

// List получает турны по фильтру.
// С filter.ForUpdate строки турнов блокируются до конца транзакции (FOR UPDATE OF t),
// это используется при проверке вместимости дня перед созданием турна.
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := baseSelect().OrderBy("t.fecha_turno DESC", "t.hora_turno DESC", "t.id DESC")

	if len(filter.Statuses) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"t.estado": statusesToStrings(filter.Statuses)})
	}
	if filter.PatientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"t.id_paciente": *filter.PatientID})
	}
	if filter.SpecialistID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"t.id_especialista": *filter.SpecialistID})
	}
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"t.fecha_turno": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"t.fecha_turno": *filter.EndDate})
	}
	if filter.ForUpdate && dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF t")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrExecQuery, err)
	}

	return appointments, nil
}

// UpdateStatus меняет статус турна
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("estado", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Reschedule переносит турн на новую дату, время и специалиста со статусом reprogramado
func (r *Repository) Reschedule(ctx context.Context, id int64, draft domain.AppointmentDraft) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("id_especialista", draft.SpecialistID).
		Set("id_especialidad", draft.SpecialtyID).
		Set("fecha_turno", draft.Date).
		Set("hora_turno", draft.Time).
		Set("id_dia", draft.WeekdayCode).
		Set("mes_turno", draft.Month).
		Set(`"año_turno"`, draft.Year).
		Set("estado", domain.StatusReprogrammed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Reschedule - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Reschedule", query, args)
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - rows affected: %v", ErrExecQuery, op, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// InsertStatusChange записывает изменение статуса в журнал
func (r *Repository) InsertStatusChange(ctx context.Context, change domain.StatusChange) (*domain.StatusChange, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("estado_solicitudes_turno").
		Columns("id_turno", "estado_nuevo", "cambiado_por").
		Values(change.AppointmentID, change.NewStatus, change.ChangedBy).
		Suffix("RETURNING id, cambiado_en").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: InsertStatusChange - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&change.ID, &change.ChangedAt); err != nil {
		return nil, fmt.Errorf("%w: InsertStatusChange - execute insert: %v", ErrExecQuery, err)
	}

	return &change, nil
}

// ListStatusChanges журнал изменений статусов с именем сотрудника
func (r *Repository) ListStatusChanges(ctx context.Context, sort domain.StatusLogSort, descending bool) ([]*domain.StatusChange, error) {
	if !sort.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSort, sort)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	direction := "ASC"
	if descending {
		direction = "DESC"
	}

	query, args, err := psqlbuilder.Select(
		"l.id",
		"l.id_turno",
		"l.estado_nuevo",
		"l.cambiado_por",
		"l.cambiado_en",
		"COALESCE(p.nombre || ' ' || p.apellido, '')",
	).
		From("estado_solicitudes_turno l").
		LeftJoin("persona p ON p.id = l.cambiado_por").
		OrderBy(fmt.Sprintf("l.%s %s", sort, direction), "l.id "+direction).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListStatusChanges - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStatusChanges - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	changes := make([]*domain.StatusChange, 0)
	for rows.Next() {
		var c domain.StatusChange
		if err := rows.Scan(&c.ID, &c.AppointmentID, &c.NewStatus, &c.ChangedBy, &c.ChangedAt, &c.ChangedByName); err != nil {
			return nil, fmt.Errorf("%w: ListStatusChanges - scan: %v", ErrScanRow, err)
		}
		changes = append(changes, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStatusChanges - rows iteration: %v", ErrExecQuery, err)
	}

	return changes, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.SpecialistID,
		&a.SpecialtyID,
		&a.Date,
		&a.Time,
		&a.WeekdayCode,
		&a.Status,
		&a.Month,
		&a.Year,
		&a.PatientName,
		&a.SpecialistName,
		&a.SpecialtyName,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time
	return &a, nil
}

func statusesToStrings(statuses []domain.AppointmentStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
