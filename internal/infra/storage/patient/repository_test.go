package patient

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClinicBookingService/internal/domain"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT id, nombre, apellido, COALESCE\\(dni, ''\\) FROM persona WHERE id = \\$1").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "apellido", "dni"}).
			AddRow(id.String(), "Ana", "Pérez", "30111222"))

	got, err := repo.GetByID(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Ana Pérez", got.FullName())
	assert.Equal(t, "30111222", got.DNI)
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM persona").WillReturnRows(sqlmock.NewRows([]string{"id", "nombre", "apellido", "dni"}))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestRepository_GetByID_DBError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery("FROM persona").WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrScanRow)
}

func TestRepository_HasRole(t *testing.T) {
	repo, mock := newRepo(t)
	id := uuid.New()

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM rol_persona WHERE id = \$1 AND rol = \$2\)`).
		WithArgs(id, domain.RoleAdministration).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.HasRole(context.Background(), id, domain.RoleAdministration)

	require.NoError(t, err)
	assert.True(t, ok)
}
