package bot

import (
	ctx "context"
	"flight-status-bot/aeroapi"
	"flight-status-bot/db"
	"flight-status-bot/fr24"
	"flight-status-bot/lookup"
	"flight-status-bot/templates"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pkg/errors"
	tele "gopkg.in/telebot.v3"
)

// MessageRef locates a message the bot has posted.
type MessageRef struct {
	ChatId    int64
	MessageId int
}

// Sink is the notification surface: post, edit and delete messages plus a
// best-effort pin.
type Sink interface {
	Post(chatId int64, content string) (MessageRef, error)
	Edit(ref MessageRef, content string) error
	Delete(ref MessageRef) error
	Pin(ref MessageRef) error
}

// Resolver finds the single authoritative instance of a flight on a date.
// Resolve drops instances that already landed; ResolveAny keeps them, so
// milestone tracking can observe a flight's arrival.
type Resolver interface {
	Resolve(ctx ctx.Context, flightNumber, localDate string) (aeroapi.Flight, error)
	ResolveAny(ctx ctx.Context, flightNumber, localDate string) (aeroapi.Flight, error)
}

// ScheduleSource supplies the current scraped itinerary.
type ScheduleSource interface {
	FetchLegs(ctx ctx.Context) ([]fr24.Leg, error)
}

// Store is the durable state behind the loops and commands. Every method is
// an atomic operation keyed by natural identity.
type Store interface {
	GetBinding(chatId int64) (db.ChatBinding, error)
	ListBindings() ([]db.ChatBinding, error)
	SetImportChat(chatId, importChatId int64) error
	SetStatusMessage(chatId, statusChatId int64, statusMessageId int) error
	AddTrackedFlight(flight db.TrackedFlight) (bool, error)
	ListTrackedFlights() ([]db.TrackedFlight, error)
	MarkDepartureNotified(id int64) error
	RemoveTrackedFlight(id int64) error
	RemoveChatFlights(chatId int64) (int64, error)
}

// Lock is the slice of redsync.Mutex the ticks need.
type Lock interface {
	Lock() error
	Unlock() (bool, error)
}

// Locker hands out the distributed locks guarding ticks.
type Locker interface {
	Flight(id int64) Lock
	StatusChat(chatId int64) Lock
}

type Service struct {
	schedule ScheduleSource
	fa       Resolver
	db       Store
	locks    Locker
	lookups  *lookup.Set
	sink     Sink
	loc      *time.Location

	importInterval    time.Duration
	milestoneInterval time.Duration
	statusInterval    time.Duration
	milestoneTTL      time.Duration

	now func() time.Time
}

func NewService(
	schedule ScheduleSource,
	fa Resolver,
	store Store,
	locks Locker,
	lookups *lookup.Set,
	sink Sink,
	loc *time.Location,
	config Config,
) *Service {
	return &Service{
		schedule:          schedule,
		fa:                fa,
		db:                store,
		locks:             locks,
		lookups:           lookups,
		sink:              sink,
		loc:               loc,
		importInterval:    time.Duration(config.ImportInterval),
		milestoneInterval: time.Duration(config.MilestoneInterval),
		statusInterval:    time.Duration(config.StatusInterval),
		milestoneTTL:      time.Duration(config.MilestoneTTL),
		now:               time.Now,
	}
}

func (s *Service) Start(context tele.Context) error {
	return context.Send(templates.Hello)
}

// BindImport makes the current chat the destination for "now tracking"
// announcements and milestone posts.
func (s *Service) BindImport(context tele.Context) error {
	chatId := context.Chat().ID
	err := s.db.SetImportChat(chatId, chatId)
	if err != nil {
		return errors.Wrap(err, "cannot bind import chat")
	}
	return context.Send(templates.ImportBound)
}

// SetStatusMessage posts the placeholder that becomes the live status
// message, pins it and refreshes it once right away.
func (s *Service) SetStatusMessage(context tele.Context) error {
	chatId := context.Chat().ID
	ref, err := s.sink.Post(chatId, templates.Updating)
	if err != nil {
		return errors.Wrap(err, "cannot create status message")
	}
	if err := s.db.SetStatusMessage(chatId, ref.ChatId, ref.MessageId); err != nil {
		return errors.Wrap(err, "cannot save status binding")
	}
	if err := s.sink.Pin(ref); err != nil {
		log.Printf("unable to pin status message: %v", err.Error())
	}
	if err := s.refreshChat(ctx.Background(), chatId); err != nil {
		log.Printf("initial status refresh failed for chat %v: %v", chatId, err.Error())
	}
	return context.Send(templates.StatusCreated)
}

func (s *Service) RefreshStatus(context tele.Context) error {
	chatId := context.Chat().ID
	err := s.refreshChat(ctx.Background(), chatId)
	if err != nil && errors.Is(err, db.ErrNotFound) {
		return context.Send(templates.StatusMissing)
	}
	if err != nil {
		log.Printf("manual status refresh failed for chat %v: %v", chatId, err.Error())
		return context.Send(templates.RefreshFailed)
	}
	return context.Send(templates.RefreshDone)
}

// TrackFlight puts an arbitrary flight under milestone tracking:
// /track DL882 2025-03-10
func (s *Service) TrackFlight(context tele.Context) error {
	args := context.Args()
	if len(args) != 2 {
		return context.Send(templates.TrackUsage)
	}
	flightNumber := strings.ToUpper(args[0])
	flightDate := args[1]
	if !fr24.DatePattern.MatchString(flightDate) {
		return context.Send(templates.TrackUsage)
	}
	inserted, err := s.db.AddTrackedFlight(db.TrackedFlight{
		ChatId:       context.Chat().ID,
		FlightNumber: flightNumber,
		FlightDate:   flightDate,
	})
	if err != nil {
		return errors.Wrap(err, "cannot track flight")
	}
	if !inserted {
		return context.Send(fmt.Sprintf(templates.TrackExists, flightNumber, flightDate))
	}
	return context.Send(fmt.Sprintf(templates.TrackSuccess, flightNumber, flightDate))
}

func (s *Service) UntrackAll(context tele.Context) error {
	removed, err := s.db.RemoveChatFlights(context.Chat().ID)
	if err != nil {
		return errors.Wrap(err, "cannot cancel tracking")
	}
	return context.Send(fmt.Sprintf(templates.UntrackDone, removed))
}

func (s *Service) refreshChat(c ctx.Context, chatId int64) error {
	binding, err := s.db.GetBinding(chatId)
	if err != nil {
		return err
	}
	if binding.StatusChatId == nil || binding.StatusMessageId == nil {
		return db.ErrNotFound
	}
	return s.refreshBinding(c, binding)
}
