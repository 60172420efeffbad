package bot

import (
	"context"
	"flight-status-bot/aeroapi"
	"flight-status-bot/db"
	"flight-status-bot/fr24"
	"flight-status-bot/lookup"
	"flight-status-bot/mutex"
	"flight-status-bot/templates"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	tele "gopkg.in/telebot.v3"
	"log"
	"net/http"
	"time"
)

const (
	DB            = "bot"
	DBAddress     = ":5432"
	DBUser        = "bot"
	DBPassword    = "makelovenotwar"
	RedisAddress  = ":6379"
	HealthAddress = ":8080"

	defaultAeroAPIBaseURL = "https://aeroapi.flightaware.com/aeroapi"
	defaultTimezone       = "America/Los_Angeles"
)

func Start(ctx context.Context, config Config, confirm chan<- struct{}) error {
	config.applyDefaults()
	if err := config.validate(); err != nil {
		return err
	}
	location, err := time.LoadLocation(config.Timezone)
	if err != nil {
		return errors.Wrapf(err, "unknown timezone %v", config.Timezone)
	}

	dbService := db.New(DBAddress, DBUser, DBPassword, DB)
	if config.Debug {
		dbService.EnableDebug()
	}
	if err := dbService.Init(ctx); err != nil {
		return err
	}

	lookups := lookup.LoadSet(config.LookupDir)
	faService := aeroapi.NewService(config.AeroAPIBaseURL, config.AeroAPIKey, location)
	schedule := fr24.NewService(config.ScheduleURL)
	mutexBuilder := mutex.NewBuilder(RedisAddress)

	s := tele.Settings{
		Token: config.TelegramBotToken,
		Poller: &tele.LongPoller{
			Timeout: time.Second * 10,
		},
	}
	bot, err := tele.NewBot(s)
	if err != nil {
		return errors.Wrap(err, "error during creation of a new bot")
	}

	botService := NewService(
		schedule,
		faService,
		dbService,
		locker{mb: mutexBuilder},
		lookups,
		&telegramSink{bot: bot},
		location,
		config,
	)

	bot.Handle("/start", botService.Start)
	bot.Handle("/help", func(context tele.Context) error {
		return context.Send(templates.Hello)
	})
	bot.Handle("/bindimport", botService.BindImport)
	bot.Handle("/setstatus", botService.SetStatusMessage)
	bot.Handle("/refresh", botService.RefreshStatus)
	bot.Handle("/track", botService.TrackFlight)
	bot.Handle("/untrack", botService.UntrackAll)

	bot.OnError = func(err error, context tele.Context) {
		log.Print(err.Error())
		err = context.Send(templates.UnexpectedError)
		if err != nil {
			log.Print(err)
		}
	}

	go func() {
		<-ctx.Done()
		bot.Stop()
		confirm <- struct{}{}
	}()

	router := mux.NewRouter()
	router.Methods(http.MethodGet).Path("/healthz").HandlerFunc(handleHealth)
	go func() {
		log.Fatal(http.ListenAndServe(HealthAddress, router))
	}()

	botService.StartLoops(ctx)
	log.Println("Started flight tracking loops")

	// Blocks until stop
	bot.Start()
	return nil
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, err := w.Write([]byte(`{"status":"ok"}`))
	if err != nil {
		log.Printf("error during writing health response: %v", err.Error())
	}
}
