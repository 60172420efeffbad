package bot

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Duration accepts "2m"/"90s"-style strings in config.json.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(text)
	if err != nil {
		return errors.Wrapf(err, "invalid duration %v", text)
	}
	*d = Duration(parsed)
	return nil
}

type Config struct {
	TelegramBotToken  string
	AeroAPIKey        string
	AeroAPIBaseURL    string
	ScheduleURL       string
	Timezone          string
	LookupDir         string
	ImportInterval    Duration
	MilestoneInterval Duration
	StatusInterval    Duration
	MilestoneTTL      Duration
	Debug             bool
}

func (c *Config) applyDefaults() {
	if c.AeroAPIBaseURL == "" {
		c.AeroAPIBaseURL = defaultAeroAPIBaseURL
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.LookupDir == "" {
		c.LookupDir = "."
	}
	if c.ImportInterval == 0 {
		c.ImportInterval = Duration(time.Hour)
	}
	if c.MilestoneInterval == 0 {
		c.MilestoneInterval = Duration(time.Minute * 3)
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = Duration(time.Minute * 2)
	}
	if c.MilestoneTTL == 0 {
		c.MilestoneTTL = Duration(time.Minute * 30)
	}
}

// validate covers the only fatal startup condition: a missing credential or
// source location.
func (c *Config) validate() error {
	if c.TelegramBotToken == "" {
		return errors.New("telegram bot token is missing")
	}
	if c.AeroAPIKey == "" {
		return errors.New("aeroapi key is missing")
	}
	if c.ScheduleURL == "" {
		return errors.New("schedule url is missing")
	}
	return nil
}
