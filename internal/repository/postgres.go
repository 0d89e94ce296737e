package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"osintranet/internal/domain"
	"osintranet/pkg/logger"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresStore persists the accounting data in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// mapError translates constraint violations into domain errors. onForeignKey
// is ErrInUse for deletes and ErrNotFound for inserts and updates.
func mapError(err error, subject string, onForeignKey error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return domain.Existsf("%s", subject)
		case pqForeignKeyViolation:
			return fmt.Errorf("%s: %w", subject, onForeignKey)
		}
	}
	logger.GetLogger().WithError(err).WithField("subject", subject).Error("Database operation failed")
	return err
}

// requireAffected turns zero affected rows into ErrNotFound.
func requireAffected(res sql.Result, subject string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("%s", subject)
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
