package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes translated into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// translate maps driver errors onto apperr sentinels so services never see
// gorm or pgx types.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return apperr.ErrConflict
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperr.ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			// a reservation appeared between the in-use check and the delete
			return fmt.Errorf("%w: %s", apperr.ErrInUse, pgErr.ConstraintName)
		}
		return err
	}

	// sqlite, used by the test suite, has no typed error we can match on.
	if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", apperr.ErrDuplicate, err)
	}
	if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
		return fmt.Errorf("%w: %v", apperr.ErrInUse, err)
	}
	return err
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}
