package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/signup-sheets-api/pkg/database"
	"github.com/noah-isme/signup-sheets-api/pkg/storage"
)

func newSnapshotRepoMock(t *testing.T) (*SnapshotRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	repo := NewSnapshotRepository(sqlx.NewDb(db, "postgres"), DialectPostgres)
	return repo, mock, func() { db.Close() }
}

func TestSnapshotRepositoryMigratePostgres(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS snapshots")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryReadMissing(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM snapshots WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"document"}))

	_, err := repo.Read(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotExist)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryReadPostgres(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT document FROM snapshots WHERE id = $1")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"document"}).AddRow([]byte(`{"courses":[]}`)))

	data, err := repo.Read(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"courses":[]}`, string(data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositoryWritePostgres(t *testing.T) {
	repo, mock, cleanup := newSnapshotRepoMock(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO snapshots (id, document, revision, updated_at)")).
		WithArgs(1, `{"grades":[]}`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Write(context.Background(), []byte(`{"grades":[]}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRepositorySQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLite(":memory:")
	require.NoError(t, err)
	repo := NewSnapshotRepository(db, DialectSQLite)
	defer repo.Close() //nolint:errcheck

	require.NoError(t, repo.Migrate(ctx))

	_, err = repo.Read(ctx)
	assert.ErrorIs(t, err, storage.ErrNotExist)

	require.NoError(t, repo.Write(ctx, []byte(`{"v":1}`)))
	require.NoError(t, repo.Write(ctx, []byte(`{"v":2}`)))

	data, err := repo.Read(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(data))

	revision, err := repo.Revision(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), revision)
}

func TestSnapshotRepositoryUnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSnapshotRepository(sqlx.NewDb(db, "sqlmock"), Dialect("oracle"))
	assert.Error(t, repo.Migrate(context.Background()))
}
