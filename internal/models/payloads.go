package models

import "time"

// These structs define the JSON payloads exchanged with the web client.

// CreateApplicationRequest is the body of POST /api/applications.
type CreateApplicationRequest struct {
	Company         string `json:"company"`
	Position        string `json:"position"`
	ApplicationDate Date   `json:"applicationDate"`
	Status          Status `json:"status"`
	Notes           string `json:"notes"`
}

// UpdateApplicationRequest is the body of PATCH /api/applications/{id}.
// Nil fields are left untouched.
type UpdateApplicationRequest struct {
	Company         *string `json:"company,omitempty"`
	Position        *string `json:"position,omitempty"`
	ApplicationDate *Date   `json:"applicationDate,omitempty"`
	Status          *Status `json:"status,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// SuccessResponse acknowledges a mutation that returns no record.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse carries the generic failure indicator.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SyncResponse is the output of a Gmail sync pass. Partial failures are not
// distinguished from full success.
type SyncResponse struct {
	Success         bool `json:"success"`
	NewApplications int  `json:"newApplications"`
	TotalMessages   int  `json:"totalMessages"`
}

// SyncReport is the archived record of one sync pass.
type SyncReport struct {
	SyncID          string    `json:"syncId"`
	StartedAt       time.Time `json:"startedAt"`
	FinishedAt      time.Time `json:"finishedAt"`
	TotalMessages   int       `json:"totalMessages"`
	NewApplications int       `json:"newApplications"`
	FailedMessages  int       `json:"failedMessages"`
	CreatedIDs      []string  `json:"createdIds,omitempty"`
}

// ConnectResponse carries the Google consent URL.
type ConnectResponse struct {
	AuthURL string `json:"authUrl"`
}

// StatusResponse reports whether Gmail tokens are present.
type StatusResponse struct {
	Connected bool `json:"connected"`
}

// StatsResponse summarises the record set. ResponseRate is the rounded
// percentage of records that are not ghosted.
type StatsResponse struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	Offers       int            `json:"offers"`
	Rejections   int            `json:"rejections"`
	ResponseRate int            `json:"responseRate"`
	ByStatus     map[Status]int `json:"byStatus"`
}
