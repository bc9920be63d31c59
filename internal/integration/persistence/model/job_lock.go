package model

import "time"

// JobLockModel represents the job_locks table. A row is a held lock until
// ExpiresAt.
type JobLockModel struct {
	Name      string    `gorm:"type:varchar(191);primaryKey"`
	Token     string    `gorm:"type:varchar(36);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for the JobLockModel.
func (JobLockModel) TableName() string {
	return "job_locks"
}
