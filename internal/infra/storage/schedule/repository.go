package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicBookingService/pkg/psqlbuilder"
)

var columns = []string{
	"id_horario",
	"id_especialista",
	"dia_semana",
	"hora_inicio",
	"hora_fin",
	"cupos",
}

// Repository репозиторий недельного расписания специалистов (horarios_especialistas)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetBySpecialist возвращает недельное расписание специалиста, упорядоченное по дню и времени.
// Пустой результат не является ошибкой: специалист может не иметь приемных дней.
func (r *Repository) GetBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("horarios_especialistas").
		Where(squirrel.Eq{"id_especialista": specialistID}).
		OrderBy("dia_semana", "hora_inicio").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySpecialist - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySpecialist - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]domain.WeeklyScheduleEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetBySpecialist - scan entry: %v", ErrScanRow, err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetBySpecialist - rows iteration: %v", ErrExecQuery, err)
	}

	return entries, nil
}

// GetForWeekday возвращает первую (по времени начала) запись расписания на день недели 1..7
func (r *Repository) GetForWeekday(ctx context.Context, specialistID uuid.UUID, weekday int) (*domain.WeeklyScheduleEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("horarios_especialistas").
		Where(squirrel.Eq{"id_especialista": specialistID, "dia_semana": weekday}).
		OrderBy("hora_inicio").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetForWeekday - build select query: %v", ErrBuildQuery, err)
	}

	entry, err := scanEntry(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetForWeekday - scan entry: %v", ErrScanRow, err)
	}

	return entry, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEntry(row rowScanner) (*domain.WeeklyScheduleEntry, error) {
	var e domain.WeeklyScheduleEntry
	if err := row.Scan(&e.ID, &e.SpecialistID, &e.Weekday, &e.StartTime, &e.EndTime, &e.Capacity); err != nil {
		return nil, err
	}
	return &e, nil
}
