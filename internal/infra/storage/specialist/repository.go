package specialist

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

// Repository справочник специалистов и специальностей
// (especialistas, persona, especialidades, espe_espe)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория специалистов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

func specialistsSelect() squirrel.SelectBuilder {
	return psqlbuilder.Select("e.id", "p.nombre", "p.apellido").
		From("especialistas e").
		Join("persona p ON p.id = e.id")
}

// List возвращает специалистов; если specialtyID задан, только с этой специальностью.
// Для специальности без специалистов результат пустой.
func (r *Repository) List(ctx context.Context, specialtyID *int64) ([]domain.Specialist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := specialistsSelect().OrderBy("p.apellido", "p.nombre")
	if specialtyID != nil {
		selectBuilder = selectBuilder.Where(
			"e.id IN (SELECT id_persona FROM espe_espe WHERE id_especialidad = ?)", *specialtyID)
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

	specialists := make([]domain.Specialist, 0)
	for rows.Next() {
		var s domain.Specialist
		if err := rows.Scan(&s.ID, &s.FirstName, &s.LastName); err != nil {
			return nil, fmt.Errorf("%w: List - scan specialist: %v", ErrScanRow, err)
		}
		specialists = append(specialists, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows iteration: %v", ErrExecQuery, err)
	}

	return specialists, nil
}

// GetByID получает специалиста по ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Specialist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := specialistsSelect().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Specialist
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.FirstName, &s.LastName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSpecialistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan specialist: %v", ErrScanRow, err)
	}

	return &s, nil
}

// ListSpecialties возвращает все специальности
func (r *Repository) ListSpecialties(ctx context.Context) ([]domain.Specialty, error) {
	query, args, err := psqlbuilder.Select("id", "especialidad").
		From("especialidades").
		OrderBy("especialidad").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialties - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySpecialties(ctx, "ListSpecialties", query, args)
}

// ListSpecialtiesBySpecialist возвращает специальности специалиста
func (r *Repository) ListSpecialtiesBySpecialist(ctx context.Context, specialistID uuid.UUID) ([]domain.Specialty, error) {
	query, args, err := psqlbuilder.Select("s.id", "s.especialidad").
		From("espe_espe ee").
		Join("especialidades s ON s.id = ee.id_especialidad").
		Where(squirrel.Eq{"ee.id_persona": specialistID}).
		OrderBy("s.especialidad").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListSpecialtiesBySpecialist - build select query: %v", ErrBuildQuery, err)
	}

	return r.querySpecialties(ctx, "ListSpecialtiesBySpecialist", query, args)
}

func (r *Repository) querySpecialties(ctx context.Context, op, query string, args []interface{}) ([]domain.Specialty, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	specialties := make([]domain.Specialty, 0)
	for rows.Next() {
		var s domain.Specialty
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("%w: %s - scan specialty: %v", ErrScanRow, op, err)
		}
		specialties = append(specialties, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows iteration: %v", ErrExecQuery, op, err)
	}

	return specialties, nil
}
