// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"
)

// RecordState is the lifecycle state of every persisted entity.
// Deleted records stay in storage and are excluded from aggregates.
type RecordState string

const (
	RecordStateActive  RecordState = "active"
	RecordStateDeleted RecordState = "deleted"
)

// Record carries the lifecycle state shared by all ledger entities.
type Record struct {
	State     RecordState
	DeletedAt *time.Time
}

// ActiveRecord returns a Record in the active state.
func ActiveRecord() Record {
	return Record{State: RecordStateActive}
}

// IsActive reports whether the record has not been deleted.
func (r Record) IsActive() bool {
	return r.State != RecordStateDeleted
}

// MarkDeleted moves the record into the deleted state.
func (r *Record) MarkDeleted(at time.Time) {
	at = at.UTC()
	r.State = RecordStateDeleted
	r.DeletedAt = &at
}
