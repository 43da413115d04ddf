package model

import "time"

// Facility represents a bookable sports facility such as a court,
// pool or hall.  Facilities carry the hourly rate used to price
// reservations and an active flag used for soft deletion: an
// inactive facility is never returned to booking callers but its
// historical reservations remain untouched.
//
// Fields:
//  ID             – primary key identifier.
//  TypeID         – reference to the facility type.
//  Name           – human readable facility name.
//  Description    – optional description.
//  Address        – street address of the facility.
//  PhoneNumber    – optional contact phone.
//  Email          – optional contact email.
//  Capacity       – maximum number of simultaneous users.
//  HourlyRateCents – booking price per hour, in cents.
//  IsActive       – soft delete flag; inactive facilities are not bookable.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Facility struct {
	ID              uint64     `json:"id"`                    // facilities.id
	TypeID          uint64     `json:"type_id"`               // facilities.type_id
	Name            string     `json:"name"`                  // facilities.name
	Description     *string    `json:"description,omitempty"` // facilities.description (nullable)
	Address         string     `json:"address"`               // facilities.address
	PhoneNumber     *string    `json:"phone_number,omitempty"` // facilities.phone_number (nullable)
	Email           *string    `json:"email,omitempty"`       // facilities.email (nullable)
	Capacity        uint32     `json:"capacity"`              // facilities.capacity
	HourlyRateCents int64      `json:"hourly_rate_cents"`     // facilities.hourly_rate_cents
	IsActive        bool       `json:"is_active"`             // facilities.is_active
	CreatedAt       time.Time  `json:"created_at"`            // facilities.created_at
	UpdatedAt       time.Time  `json:"updated_at"`            // facilities.updated_at

	// TypeName is populated by list/detail queries that join the
	// facility_types table.  It is not a column of facilities.
	TypeName string `json:"type_name,omitempty"`

	// Schedules holds the weekly opening hours when loaded by a
	// detail query.  Empty for list queries.
	Schedules []FacilitySchedule `json:"schedules,omitempty"`
}

// FacilityType classifies facilities (football pitch, tennis court,
// swimming pool and so on).
type FacilityType struct {
	ID          uint64  `json:"id"`                    // facility_types.id
	Name        string  `json:"name"`                  // facility_types.name
	Description *string `json:"description,omitempty"` // facility_types.description (nullable)
}
