package models

import "time"

// Status is the lifecycle state of a tracked application.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusWaiting   Status = "waiting"
	StatusInterview Status = "interview"
	StatusOffer     Status = "offer"
	StatusRejected  Status = "rejected"
	StatusGhosted   Status = "ghosted"
)

// Statuses lists every known status in display order.
var Statuses = []Status{
	StatusApplied,
	StatusWaiting,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusGhosted,
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application represents one tracked job application in Firestore.
// ID is the document ID and is never written as a field.
type Application struct {
	ID              string     `firestore:"-" json:"id"`
	Company         string     `firestore:"company" json:"company"`
	Position        string     `firestore:"position" json:"position"`
	ApplicationDate time.Time  `firestore:"applicationDate" json:"applicationDate"`
	Status          Status     `firestore:"status" json:"status"`
	LastUpdate      time.Time  `firestore:"lastUpdate" json:"lastUpdate"`
	Notes           string     `firestore:"notes,omitempty" json:"notes,omitempty"`
	EmailID         string     `firestore:"emailId,omitempty" json:"emailId,omitempty"`
	FollowUpDate    *time.Time `firestore:"followUpDate,omitempty" json:"followUpDate,omitempty"`
	CreatedAt       time.Time  `firestore:"createdAt,omitempty" json:"createdAt,omitempty"`
}
