// Package service implements the booking rules on top of the
// repository layer: availability checking, pricing and the reservation
// state machine.  Business rule violations are reported as the
// sentinel errors below so that handlers can translate them into HTTP
// status codes with errors.Is instead of matching on message text.
package service

import "errors"

var (
	// ErrInvalidInterval is returned when a requested interval has
	// start >= end or a missing timestamp.
	ErrInvalidInterval = errors.New("invalid interval: start must be before end")

	// ErrFacilityNotFound is returned when the referenced facility
	// does not exist or has been deactivated.
	ErrFacilityNotFound = errors.New("facility not found")

	// ErrReservationNotFound is returned when the referenced
	// reservation id does not exist.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrSlotUnavailable is returned when the requested interval
	// overlaps an existing PENDING or CONFIRMED reservation on the
	// same facility.
	ErrSlotUnavailable = errors.New("time slot is not available")

	// ErrAlreadyCancelled is returned when an update targets a
	// reservation that is already in the terminal CANCELLED state.
	ErrAlreadyCancelled = errors.New("reservation is already cancelled")

	// ErrTerminalStatus is returned when a state transition is
	// requested out of a terminal status (CANCELLED, COMPLETED or
	// NO_SHOW).
	ErrTerminalStatus = errors.New("reservation is in a terminal status")

	// ErrInvalidStatus is returned when a status value outside the
	// enumeration is submitted.
	ErrInvalidStatus = errors.New("invalid reservation status")

	// ErrInvalidInput is returned for malformed facility payloads
	// (empty name, non-positive capacity, negative rate).
	ErrInvalidInput = errors.New("invalid input")

	// ErrStore wraps persistence failures.  The operation was not
	// applied; callers may retry it, which re-runs the availability
	// check from scratch.
	ErrStore = errors.New("persistence store error")
)
