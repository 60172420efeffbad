package db

// ChatBinding ties a chat to its auto-import destination and to the single
// live-updated status message. Either half may be unset until the matching
// command binds it.
type ChatBinding struct {
	ChatId          int64 `bun:",pk"`
	ImportChatId    *int64
	StatusChatId    *int64
	StatusMessageId *int
}

// TrackedFlight is one flight under milestone tracking, unique per
// (chat, flight number, flight date). The leg fields are a snapshot of the
// schedule row at creation time; manually tracked flights leave them empty.
type TrackedFlight struct {
	Id                int64 `bun:",pk,autoincrement"`
	ChatId            int64
	FlightNumber      string
	FlightDate        string
	Origin            string
	Dest              string
	SchedDep          string
	SchedArr          string
	Airline           string
	Aircraft          string
	Seat              string
	DepartureNotified bool
}
