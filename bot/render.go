package bot

import (
	"flight-status-bot/aeroapi"
	"flight-status-bot/fr24"
	"flight-status-bot/templates"
	"fmt"
	"strings"
	"time"
)

const liveMapURLFormat = "https://flightaware.com/live/flight/id/%v"

// renderStatus builds the full text of the live status message. With no
// upcoming leg it degrades to a placeholder; with no resolved instance the
// enrichment block degrades to a pending note.
func (s *Service) renderStatus(next *fr24.Leg, instance *aeroapi.Flight, after *fr24.Leg) string {
	var b strings.Builder
	b.WriteString(templates.StatusTitle)
	if next == nil {
		b.WriteString(templates.NoUpcoming)
		return b.String()
	}
	fmt.Fprintf(&b, "%v — %v → %v\n",
		next.Flight,
		s.lookups.Airports.Format(next.Origin),
		s.lookups.Airports.Format(next.Dest),
	)
	fmt.Fprintf(&b, "Scheduled: %v · %v → %v\n", next.Date, next.SchedDep, next.SchedArr)
	fmt.Fprintf(&b, "Airline: %v\n", s.lookups.Airlines.Format(next.Airline))
	fmt.Fprintf(&b, "Aircraft: %v\n", s.lookups.Aircraft.Format(next.Aircraft))
	if next.Seat != "" {
		fmt.Fprintf(&b, "Seat: %v\n", next.Seat)
	}
	if instance != nil {
		fmt.Fprintf(&b, "Departs in: %v\n", s.countdown(instance.DepartureTime()))
		status := instance.Status
		if status == "" {
			status = "Scheduled"
		}
		fmt.Fprintf(&b, "Status: %v\n", status)
		if instance.FaFlightId != "" {
			fmt.Fprintf(&b, "Live map: "+liveMapURLFormat+"\n", instance.FaFlightId)
		}
	} else {
		b.WriteString(templates.PendingStatus)
	}
	if after != nil {
		fmt.Fprintf(&b, "\n🗓 After that: %v — %v → %v\n%v · %v → %v\n",
			after.Flight,
			s.lookups.Airports.Format(after.Origin),
			s.lookups.Airports.Format(after.Dest),
			after.Date,
			after.SchedDep,
			after.SchedArr,
		)
	}
	b.WriteString(templates.StatusFooter)
	return b.String()
}

// countdown formats the time left until dep as "2h 5m", clamped at zero once
// departure has passed.
func (s *Service) countdown(dep *time.Time) string {
	if dep == nil {
		return "—"
	}
	minutes := int(dep.Sub(s.now()).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	h, m := minutes/60, minutes%60
	if h > 0 {
		return fmt.Sprintf("%vh %vm", h, m)
	}
	return fmt.Sprintf("%vm", m)
}
