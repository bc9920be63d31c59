package model

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// TaskModel represents the task_queue table in the database.
type TaskModel struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey"`
	Name           string       `gorm:"type:varchar(100);not null"`
	Payload        string       `gorm:"type:text;not null"`
	Status         string       `gorm:"type:varchar(20);not null;index:idx_task_ready,priority:1"`
	Attempts       int          `gorm:"not null"`
	MaxAttempts    int          `gorm:"not null"`
	RetryBackoffMs int64        `gorm:"not null"`
	LastError      string       `gorm:"type:text"`
	CreatedAt      time.Time    `gorm:"not null"`
	ScheduledAt    time.Time    `gorm:"not null;index:idx_task_ready,priority:2"`
	ProcessedAt    sql.NullTime `gorm:"type:timestamp"`
	ClaimedAt      sql.NullTime `gorm:"type:timestamp"`
}

// TableName returns the table name for the TaskModel.
func (TaskModel) TableName() string {
	return "task_queue"
}

// ToEntity converts a TaskModel to a domain Task entity.
func (m *TaskModel) ToEntity() *entity.Task {
	var payload map[string]interface{}
	if m.Payload != "" {
		if err := json.Unmarshal([]byte(m.Payload), &payload); err != nil {
			slog.Warn("Failed to unmarshal task payload", "error", err, "task_id", m.ID)
		}
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	var processedAt *time.Time
	if m.ProcessedAt.Valid {
		t := m.ProcessedAt.Time.UTC()
		processedAt = &t
	}

	return &entity.Task{
		ID:           m.ID,
		Name:         m.Name,
		Payload:      payload,
		Status:       entity.TaskStatus(m.Status),
		Attempts:     m.Attempts,
		MaxAttempts:  m.MaxAttempts,
		RetryBackoff: time.Duration(m.RetryBackoffMs) * time.Millisecond,
		LastError:    m.LastError,
		CreatedAt:    m.CreatedAt.UTC(),
		ScheduledAt:  m.ScheduledAt.UTC(),
		ProcessedAt:  processedAt,
	}
}

// TaskFromEntity creates a TaskModel from a domain Task entity.
func TaskFromEntity(task *entity.Task) (*TaskModel, error) {
	payload, err := json.Marshal(task.Payload)
	if err != nil {
		return nil, err
	}

	var processedAt sql.NullTime
	if task.ProcessedAt != nil {
		processedAt = sql.NullTime{Time: *task.ProcessedAt, Valid: true}
	}

	return &TaskModel{
		ID:             task.ID,
		Name:           task.Name,
		Payload:        string(payload),
		Status:         string(task.Status),
		Attempts:       task.Attempts,
		MaxAttempts:    task.MaxAttempts,
		RetryBackoffMs: task.RetryBackoff.Milliseconds(),
		LastError:      task.LastError,
		CreatedAt:      task.CreatedAt,
		ScheduledAt:    task.ScheduledAt,
		ProcessedAt:    processedAt,
	}, nil
}
