// Package dto defines data transfer objects for API requests and responses.
package dto

import "github.com/google/uuid"

// DateLayout is the calendar date format used by the API.
const DateLayout = "2006-01-02"

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse represents a generic success message.
type SuccessResponse struct {
	Message string `json:"message"`
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}
