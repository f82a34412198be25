package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vsinha/partsmrp/pkg/domain/entities"
	"github.com/vsinha/partsmrp/pkg/domain/repositories"
	"github.com/vsinha/partsmrp/pkg/infrastructure/logger"
)

// Store implements repositories.Store on top of gorm
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// Verify interface compliance
var _ repositories.Store = (*Store)(nil)

// Dialect returns the gorm dialector for a database type
func Dialect(dbType, pathOrDSN string) (gorm.Dialector, error) {
	switch dbType {
	case "", "sqlite":
		return sqlite.Open(pathOrDSN), nil
	case "postgres":
		return postgres.Open(pathOrDSN), nil
	default:
		return nil, fmt.Errorf("%w: unsupported database type %q", entities.ErrInvalidInput, dbType)
	}
}

// Open connects through dialector and migrates the schema
func Open(ctx context.Context, dialector gorm.Dialector, log *zap.Logger) (*Store, error) {
	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.NewGormLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %w", entities.ErrStorage, err)
	}
	s := New(db, log)
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing gorm handle
func New(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log.Named("sqlstore")}
}

// Migrate creates or updates the schema
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
		return fmt.Errorf("%w: migrate schema: %w", entities.ErrStorage, err)
	}
	return nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrStorage, err)
	}
	return sqlDB.Close()
}

// WithinTx runs fn inside a database transaction
func (s *Store) WithinTx(ctx context.Context, fn func(tx repositories.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// wrap maps driver errors onto the domain error kinds, keeping the cause
func wrap(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, entities.ErrNotFound)
	case isDuplicateKeyErr(err):
		return fmt.Errorf("%s: %w: %w", op, entities.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, entities.ErrStorage, err)
	}
}

func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func checkAffected(op string, res *gorm.DB) error {
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, entities.ErrNotFound)
	}
	return nil
}
