package bot

import (
	"context"
	"flight-status-bot/aeroapi"
	"flight-status-bot/db"
	"flight-status-bot/fr24"
	"flight-status-bot/templates"
	"fmt"
	"log"
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// TickSummary reports what one background tick did, so failure handling
// stays assertable without a live timer. Failures are contained per item;
// a tick never aborts early.
type TickSummary struct {
	Notified int
	Updated  int
	Skipped  int
	Failed   int
}

// StartLoops launches the three independent periodic loops: schedule
// import, milestone polling and status refresh. Each runs until ctx ends.
func (s *Service) StartLoops(ctx context.Context) {
	go s.runLoop(ctx, s.importInterval, s.importTick)
	go s.runLoop(ctx, s.milestoneInterval, s.milestoneTick)
	go s.runLoop(ctx, s.statusInterval, s.statusTick)
}

func (s *Service) runLoop(ctx context.Context, interval time.Duration, tick func(context.Context) TickSummary) {
	tick(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// importTick pulls the schedule once and puts every future-dated leg under
// tracking for each chat that bound an import destination. Re-importing the
// same schedule is a no-op.
func (s *Service) importTick(ctx context.Context) TickSummary {
	var summary TickSummary
	legs, err := s.schedule.FetchLegs(ctx)
	if err != nil {
		log.Printf("unable to fetch schedule: %v", err.Error())
		summary.Failed++
		return summary
	}
	bindings, err := s.db.ListBindings()
	if err != nil {
		log.Printf("unable to list bindings: %v", err.Error())
		summary.Failed++
		return summary
	}
	today := s.now().In(s.loc).Format(dateLayout)
	for _, binding := range bindings {
		if binding.ImportChatId == nil {
			summary.Skipped++
			continue
		}
		for _, leg := range legs {
			if leg.Date < today {
				continue
			}
			inserted, err := s.db.AddTrackedFlight(newTrackedFlight(binding.ChatId, leg))
			if err != nil {
				log.Printf("unable to track %v on %v: %v", leg.Flight, leg.Date, err.Error())
				summary.Failed++
				continue
			}
			if !inserted {
				continue
			}
			summary.Notified++
			message := fmt.Sprintf(
				templates.NowTracking,
				leg.Flight,
				leg.Date,
				s.lookups.Airports.Format(leg.Origin),
				s.lookups.Airports.Format(leg.Dest),
			)
			if _, err := s.sink.Post(*binding.ImportChatId, message); err != nil {
				log.Printf("unable to announce tracked flight: %v", err.Error())
			}
		}
	}
	return summary
}

func newTrackedFlight(chatId int64, leg fr24.Leg) db.TrackedFlight {
	return db.TrackedFlight{
		ChatId:       chatId,
		FlightNumber: leg.Flight,
		FlightDate:   leg.Date,
		Origin:       leg.Origin,
		Dest:         leg.Dest,
		SchedDep:     leg.SchedDep,
		SchedArr:     leg.SchedArr,
		Airline:      leg.Airline,
		Aircraft:     leg.Aircraft,
		Seat:         leg.Seat,
	}
}

// milestoneTick walks every tracked flight and announces takeoff once and
// landing once. Flights the source cannot resolve yet are left for the next
// tick.
func (s *Service) milestoneTick(ctx context.Context) TickSummary {
	var summary TickSummary
	flights, err := s.db.ListTrackedFlights()
	if err != nil {
		log.Printf("unable to list tracked flights: %v", err.Error())
		summary.Failed++
		return summary
	}
	for _, flight := range flights {
		switch s.processMilestones(ctx, flight) {
		case milestoneNotified:
			summary.Notified++
		case milestoneSkipped:
			summary.Skipped++
		case milestoneFailed:
			summary.Failed++
		}
	}
	return summary
}

type milestoneOutcome int

const (
	milestoneSkipped milestoneOutcome = iota
	milestoneNotified
	milestoneFailed
)

func (s *Service) processMilestones(ctx context.Context, flight db.TrackedFlight) milestoneOutcome {
	lock := s.locks.Flight(flight.Id)
	if err := lock.Lock(); err != nil {
		log.Printf("unable to lock flight %v: %v", flight.Id, err.Error())
		return milestoneSkipped
	}
	defer func() {
		_, err := lock.Unlock()
		if err != nil {
			log.Println(err.Error())
		}
	}()

	// ResolveAny, not Resolve: once the flight lands, the instance carries
	// actual_on and the landed filter would hide it from us forever.
	instance, err := s.fa.ResolveAny(ctx, flight.FlightNumber, flight.FlightDate)
	if err != nil {
		if !errors.Is(err, aeroapi.ErrNotFound) {
			log.Printf("unable to resolve %v on %v: %v", flight.FlightNumber, flight.FlightDate, err.Error())
		}
		return milestoneSkipped
	}

	outcome := milestoneSkipped
	if instance.ActualOff != nil && !flight.DepartureNotified {
		origin := flight.Origin
		if origin == "" {
			origin = instance.Origin.CodeIata
		}
		s.announce(flight.ChatId, fmt.Sprintf(templates.Takeoff, flight.FlightNumber, s.lookups.Airports.Format(origin)))
		if err := s.db.MarkDepartureNotified(flight.Id); err != nil {
			log.Printf("unable to mark departure for flight %v: %v", flight.Id, err.Error())
			return milestoneFailed
		}
		outcome = milestoneNotified
	}
	if instance.ActualOn != nil {
		dest := flight.Dest
		if dest == "" {
			dest = instance.Destination.CodeIata
		}
		s.announce(flight.ChatId, fmt.Sprintf(templates.Landing, flight.FlightNumber, s.lookups.Airports.Format(dest)))
		if err := s.db.RemoveTrackedFlight(flight.Id); err != nil {
			log.Printf("unable to retire flight %v: %v", flight.Id, err.Error())
			return milestoneFailed
		}
		outcome = milestoneNotified
	}
	return outcome
}

// announce posts a milestone message and schedules its best-effort removal.
func (s *Service) announce(chatId int64, message string) {
	ref, err := s.sink.Post(chatId, message)
	if err != nil {
		log.Printf("unable to post milestone message: %v", err.Error())
		return
	}
	time.AfterFunc(s.milestoneTTL, func() {
		if err := s.sink.Delete(ref); err != nil {
			log.Printf("unable to delete milestone message: %v", err.Error())
		}
	})
}

// statusTick re-renders every bound status message from scratch. A failed
// binding never stops the rest.
func (s *Service) statusTick(ctx context.Context) TickSummary {
	var summary TickSummary
	bindings, err := s.db.ListBindings()
	if err != nil {
		log.Printf("unable to list bindings: %v", err.Error())
		summary.Failed++
		return summary
	}
	for _, binding := range bindings {
		if binding.StatusChatId == nil || binding.StatusMessageId == nil {
			summary.Skipped++
			continue
		}
		if err := s.refreshBinding(ctx, binding); err != nil {
			log.Printf("status refresh failed for chat %v: %v", binding.ChatId, err.Error())
			summary.Failed++
			continue
		}
		summary.Updated++
	}
	return summary
}

func (s *Service) refreshBinding(ctx context.Context, binding db.ChatBinding) error {
	lock := s.locks.StatusChat(binding.ChatId)
	if err := lock.Lock(); err != nil {
		return errors.Wrap(err, "unable to lock status refresh")
	}
	defer func() {
		_, err := lock.Unlock()
		if err != nil {
			log.Println(err.Error())
		}
	}()

	legs, err := s.schedule.FetchLegs(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to fetch schedule")
	}
	next, after := fr24.NextTwo(legs, s.now(), s.loc)

	var instance *aeroapi.Flight
	if next != nil {
		resolved, err := s.fa.Resolve(ctx, next.Flight, next.Date)
		if err == nil {
			instance = &resolved
		} else if !errors.Is(err, aeroapi.ErrNotFound) {
			log.Printf("unable to resolve %v on %v: %v", next.Flight, next.Date, err.Error())
		}
	}

	ref := MessageRef{ChatId: *binding.StatusChatId, MessageId: *binding.StatusMessageId}
	if err := s.sink.Edit(ref, s.renderStatus(next, instance, after)); err != nil {
		return errors.Wrap(err, "unable to edit status message")
	}
	return nil
}
