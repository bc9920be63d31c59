// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// StateFilter selects records by lifecycle state. Every read names one
// explicitly; there is no implicit scope.
type StateFilter int

const (
	OnlyActive StateFilter = iota
	OnlyDeleted
	AnyState
)

// Matches reports whether a record in the given state passes the filter.
func (f StateFilter) Matches(state entity.RecordState) bool {
	switch f {
	case OnlyActive:
		return state != entity.RecordStateDeleted
	case OnlyDeleted:
		return state == entity.RecordStateDeleted
	default:
		return true
	}
}
