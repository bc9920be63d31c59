// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finance-tracker/ledger/internal/application/adapter"
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// withState restricts a query to the requested record states.
func withState(state adapter.StateFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch state {
		case adapter.OnlyActive:
			return db.Where("state = ?", entity.RecordStateActive)
		case adapter.OnlyDeleted:
			return db.Where("state = ?", entity.RecordStateDeleted)
		default:
			return db
		}
	}
}

// forUpdate takes a row lock where the database supports it. SQLite
// serializes writers itself.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// forUpdateSkipLocked is forUpdate for queue consumers.
func forUpdateSkipLocked(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	return db
}

// isDuplicateKey reports whether err is a unique constraint violation.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
