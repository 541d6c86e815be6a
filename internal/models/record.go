package models

import (
	"time"

	"github.com/google/uuid"
)

// Severity of the offense attached to a record.
type Severity string

const (
	SeverityLow    Severity = "Low"
	SeverityMedium Severity = "Medium"
	SeverityHigh   Severity = "High"
)

// Status of a person of interest.
type Status string

const (
	StatusWanted    Status = "Wanted"
	StatusSuspected Status = "Suspected"
	StatusMonitor   Status = "Monitor"
	StatusArrested  Status = "Arrested"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

func (s Status) Valid() bool {
	switch s {
	case StatusWanted, StatusSuspected, StatusMonitor, StatusArrested:
		return true
	}
	return false
}

// PersonRecord is one person-of-interest entry in the record store.
// The ID is assigned at creation and never changes.
type PersonRecord struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Offense     string    `json:"crime"`
	Severity    Severity  `json:"severity"`
	Status      Status    `json:"status"`
	PortraitURL string    `json:"image"`
	LastSeen    string    `json:"lastSeen,omitempty"`
	Age         string    `json:"age,omitempty"`
	Height      string    `json:"height,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
