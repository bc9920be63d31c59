package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/ledger/internal/domain/entity"
)

// UserModel represents the users table in the database. Only the columns
// this service reads are mapped.
type UserModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email              string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Name               string    `gorm:"type:varchar(100);not null"`
	EmailNotifications bool      `gorm:"not null"`
	GoalAlerts         bool      `gorm:"not null"`
	RecurringReminders bool      `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`

	RecordColumns `gorm:"embedded"`
}

// TableName returns the table name for the UserModel.
func (UserModel) TableName() string {
	return "users"
}

// ToEntity converts a UserModel to a domain User entity.
func (m *UserModel) ToEntity() *entity.User {
	return &entity.User{
		ID:                 m.ID,
		Email:              m.Email,
		Name:               m.Name,
		EmailNotifications: m.EmailNotifications,
		GoalAlerts:         m.GoalAlerts,
		RecurringReminders: m.RecurringReminders,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
		Record:             m.RecordColumns.toEntity(),
	}
}

// UserFromEntity creates a UserModel from a domain User entity.
func UserFromEntity(u *entity.User) *UserModel {
	return &UserModel{
		ID:                 u.ID,
		Email:              u.Email,
		Name:               u.Name,
		EmailNotifications: u.EmailNotifications,
		GoalAlerts:         u.GoalAlerts,
		RecurringReminders: u.RecurringReminders,
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
		RecordColumns:      recordFromEntity(u.Record),
	}
}
