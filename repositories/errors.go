package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"band-backend/apperrors"
)

const mysqlDuplicateEntry = 1062

// IsDuplicateKey detects a unique-index violation.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == mysqlDuplicateEntry
	}
	return false
}

// translate converts gorm lookups that found nothing into apperrors.ErrNotFound
// and everything else into a dependency failure.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what + " not found")
	}
	return apperrors.Dependency("Database error", err)
}
