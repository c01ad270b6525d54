package repo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type GormRepo struct {
	DB *gorm.DB
}

var ErrDuplicate = errors.New("duplicate")

// StockError carries the offending sweet and what was actually available, so
// the API can tell the caller exactly which line failed.
type StockError struct {
	SweetName string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s. Available: %d", e.SweetName, e.Available)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	// sqlite test driver reports constraint violations by message only
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
