package aeroapi

import "time"

// Flight is one instance of a flight number as reported by the authoritative
// status source. Timestamps are UTC and nil until the source knows them.
type Flight struct {
	Ident        string     `json:"ident"`
	FaFlightId   string     `json:"fa_flight_id"`
	Status       string     `json:"status"`
	Origin       Airport    `json:"origin"`
	Destination  Airport    `json:"destination"`
	AircraftType string     `json:"aircraft_type"`
	ScheduledOff *time.Time `json:"scheduled_off"`
	EstimatedOff *time.Time `json:"estimated_off"`
	ActualOff    *time.Time `json:"actual_off"`
	ScheduledOn  *time.Time `json:"scheduled_on"`
	EstimatedOn  *time.Time `json:"estimated_on"`
	ActualOn     *time.Time `json:"actual_on"`
}

type Airport struct {
	Code     string `json:"code"`
	CodeIata string `json:"code_iata"`
}

// DepartureTime is the best known departure instant: the schedule when
// present, otherwise the estimate.
func (f Flight) DepartureTime() *time.Time {
	if f.ScheduledOff != nil {
		return f.ScheduledOff
	}
	return f.EstimatedOff
}

type flightsResponse struct {
	Flights []Flight `json:"flights"`
}
