package sqlstore

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
)

func setupMockStore(t *testing.T) (sqlmock.Sqlmock, *Store) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)

	return mock, New(gdb, zap.NewNop())
}

func TestStore_DriverErrorIsStorageFailure(t *testing.T) {
	mock, s := setupMockStore(t)
	cause := errors.New("connection reset by peer")

	mock.ExpectQuery(`SELECT`).WillReturnError(cause)

	_, err := s.ListOpenBuilds(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, entities.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_EmptyResultIsNotFound(t *testing.T) {
	mock, s := setupMockStore(t)

	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows([]string{"id", "pn"}))

	_, err := s.GetPart(context.Background(), 9)
	assert.ErrorIs(t, err, entities.ErrNotFound)
	assert.NotErrorIs(t, err, entities.ErrStorage)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FailedWriteRollsBackTransaction(t *testing.T) {
	mock, s := setupMockStore(t)
	cause := errors.New("disk full")

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "builds"`).WillReturnError(cause)
	mock.ExpectRollback()

	err := s.WithinTx(context.Background(), func(tx repositories.Store) error {
		return tx.CreateBuild(context.Background(), &entities.Build{PartID: 1, PartVersion: 1, Quantity: 2})
	})
	assert.ErrorIs(t, err, entities.ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.NoError(t, mock.ExpectationsWereMet())
}
