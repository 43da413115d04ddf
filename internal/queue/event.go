// Package queue carries reservation lifecycle events over RabbitMQ.
// A single durable queue feeds downstream consumers (notification,
// audit log) without touching the primary database.
package queue

import (
	"time"

	"github.com/iliyamo/facility-reservation/internal/model"
)

// QueueName is the durable queue all reservation events flow through.
const QueueName = "reservation.events"

// Event kinds.
const (
	KindConfirmed = "confirmed"
	KindCancelled = "cancelled"
)

// Event is the wire payload for a reservation state change.  It is
// self-contained so consumers never need a database connection.
type Event struct {
	Kind            string `json:"kind"`
	Reference       string `json:"reference"`
	ReservationID   uint64 `json:"reservation_id"`
	FacilityID      uint64 `json:"facility_id"`
	FacilityName    string `json:"facility_name"`
	UserID          uint64 `json:"user_id"`
	StartsAt        string `json:"starts_at"`
	EndsAt          string `json:"ends_at"`
	TotalPriceCents int64  `json:"total_price_cents"`
	OccurredAt      string `json:"occurred_at"`
}

// ReservationEventFrom flattens a reservation into an Event of the
// given kind.  Timestamps are RFC3339 in UTC.
func ReservationEventFrom(kind string, r *model.Reservation) Event {
	return Event{
		Kind:            kind,
		Reference:       r.Reference,
		ReservationID:   r.ID,
		FacilityID:      r.FacilityID,
		FacilityName:    r.FacilityName,
		UserID:          r.UserID,
		StartsAt:        r.StartTime.UTC().Format(time.RFC3339),
		EndsAt:          r.EndTime.UTC().Format(time.RFC3339),
		TotalPriceCents: r.TotalPriceCents,
		OccurredAt:      time.Now().UTC().Format(time.RFC3339),
	}
}
