package model

// FacilitySchedule describes the opening hours of a facility on a
// single weekday.  Open and close times are stored as "HH:MM"
// strings in the facility's reference timezone.  Schedules are
// informational; the booking core does not reject reservations
// outside opening hours.
type FacilitySchedule struct {
	ID         uint64 `json:"id"`          // facility_schedules.id
	FacilityID uint64 `json:"facility_id"` // facility_schedules.facility_id
	DayOfWeek  uint8  `json:"day_of_week"` // facility_schedules.day_of_week (0=Sunday .. 6=Saturday)
	OpenTime   string `json:"open_time"`   // facility_schedules.open_time
	CloseTime  string `json:"close_time"`  // facility_schedules.close_time
	IsClosed   bool   `json:"is_closed"`   // facility_schedules.is_closed
}
