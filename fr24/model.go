package fr24

// Leg is one scheduled flight occurrence extracted from the public schedule
// page. All fields are raw page text; Date is YYYY-MM-DD in the operator's
// home timezone and the times are local wall-clock strings.
type Leg struct {
	Date         string
	Flight       string
	Origin       string
	Dest         string
	SchedDep     string
	SchedArr     string
	Airline      string
	Aircraft     string
	Seat         string
	Registration string
	Distance     string
}
