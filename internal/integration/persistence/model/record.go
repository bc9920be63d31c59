// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// RecordColumns maps the lifecycle state shared by every ledger table.
// Deleted rows are kept; queries filter on state explicitly.
type RecordColumns struct {
	State     string     `gorm:"type:varchar(10);not null;default:'active';index"`
	DeletedAt *time.Time `gorm:"type:timestamp"`
}

func (r RecordColumns) toEntity() entity.Record {
	state := entity.RecordState(r.State)
	if state == "" {
		state = entity.RecordStateActive
	}
	return entity.Record{State: state, DeletedAt: r.DeletedAt}
}

func recordFromEntity(r entity.Record) RecordColumns {
	state := string(r.State)
	if state == "" {
		state = string(entity.RecordStateActive)
	}
	return RecordColumns{State: state, DeletedAt: r.DeletedAt}
}
