// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holder. Users are provisioned by the identity service
// and are only read by this module.
type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	EmailNotifications bool
	GoalAlerts         bool
	RecurringReminders bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Record
}

// NewUser creates a User with all notification preferences enabled.
func NewUser(email, name string) *User {
	now := time.Now().UTC()
	return &User{
		ID:                 uuid.New(),
		Email:              email,
		Name:               name,
		EmailNotifications: true,
		GoalAlerts:         true,
		RecurringReminders: true,
		CreatedAt:          now,
		UpdatedAt:          now,
		Record:             ActiveRecord(),
	}
}

// WantsNotification reports whether the user's preferences allow the template.
func (u *User) WantsNotification(template NotificationTemplate) bool {
	if !u.IsActive() || !u.EmailNotifications {
		return false
	}
	switch template.Preference() {
	case PreferenceGoalAlerts:
		return u.GoalAlerts
	case PreferenceRecurringReminders:
		return u.RecurringReminders
	}
	return true
}
