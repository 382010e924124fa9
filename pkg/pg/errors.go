package pg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmptyConnectionString = errors.New("empty postgres connection string, set DATABASE_URL")
	ErrFailedToParseConfig   = errors.New("failed to parse postgres config")
	ErrConnectionFailed      = errors.New("failed to connect to postgres")
	ErrHealthcheckFailed     = errors.New("postgres healthcheck failed")
	ErrMigrationFailed       = errors.New("failed to apply migrations")
)

// IsNotFoundError detects pgx.ErrNoRows for consistent not-found handling.
func IsNotFoundError(err error) bool {
	return err != nil && errors.Is(err, pgx.ErrNoRows)
}

// IsDuplicateKeyError detects unique constraint violations (SQLSTATE 23505).
func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func sprintf(format string, v ...any) string {
	return strings.TrimRight(fmt.Sprintf(format, v...), "\n")
}
