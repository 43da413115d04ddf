package model

import "time"

// Reservation status values.  The status column is a closed
// enumeration; only PENDING and CONFIRMED reservations count toward
// the no-overlap invariant on a facility.  CANCELLED, COMPLETED and
// NO_SHOW are terminal states and never transition away.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
	StatusCompleted = "COMPLETED"
	StatusNoShow    = "NO_SHOW"
)

// ValidStatus reports whether s is a member of the status enumeration.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// TerminalStatus reports whether s is a terminal state.  No transition
// leaves a terminal state.
func TerminalStatus(s string) bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// ConflictParticipating reports whether a reservation in status s
// blocks other reservations on the same facility.
func ConflictParticipating(s string) bool {
	return s == StatusPending || s == StatusConfirmed
}

// Reservation records a user's booking of a facility for a half-open
// time interval [StartTime, EndTime).  The total price is computed
// once at write time from the facility's hourly rate; later rate
// changes never alter a stored price.
//
// Fields:
//  ID              – primary key identifier.
//  Reference       – opaque public booking reference (UUID).
//  FacilityID      – facility being booked.
//  UserID          – user who made the reservation.
//  StartTime       – inclusive start of the booked interval (UTC).
//  EndTime         – exclusive end of the booked interval (UTC).
//  Notes           – optional free text supplied by the booker.
//  TotalPriceCents – computed total price in cents.
//  Status          – state of the reservation (see constants above).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID              uint64    `json:"id"`                // reservations.id
	Reference       string    `json:"reference"`         // reservations.reference
	FacilityID      uint64    `json:"facility_id"`       // reservations.facility_id
	UserID          uint64    `json:"user_id"`           // reservations.user_id
	StartTime       time.Time `json:"start_time"`        // reservations.start_time
	EndTime         time.Time `json:"end_time"`          // reservations.end_time
	Notes           *string   `json:"notes,omitempty"`   // reservations.notes (nullable)
	TotalPriceCents int64     `json:"total_price_cents"` // reservations.total_price_cents
	Status          string    `json:"status"`            // reservations.status
	CreatedAt       time.Time `json:"created_at"`        // reservations.created_at
	UpdatedAt       time.Time `json:"updated_at"`        // reservations.updated_at

	// FacilityName is filled by list queries that join facilities.
	FacilityName string `json:"facility_name,omitempty"`
}
