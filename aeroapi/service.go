package aeroapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/pkg/errors"
)

const (
	requestTimeout = time.Second * 20
	userAgent      = "Mozilla/5.0"
	dateLayout     = "2006-01-02"
	// The query window is generous enough to cover date-line crossings and
	// long-haul red-eyes relative to the operator's home timezone.
	windowBefore = time.Hour * 12
	windowAfter  = time.Hour * 36
)

// ErrNotFound means the source has no matching instance yet. Callers treat
// it as data-not-yet-available, not as a terminal failure.
var ErrNotFound = errors.New("no matching flight instance")

type Service struct {
	baseURL string
	apiKey  string
	loc     *time.Location
	client  *http.Client
}

func NewService(baseURL, apiKey string, loc *time.Location) *Service {
	return &Service{
		baseURL: baseURL,
		apiKey:  apiKey,
		loc:     loc,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

// Resolve disambiguates the single upcoming instance of flightNumber that
// departs on localDate. Instances that already landed are historical repeats
// of the same number and are dropped; among the rest only those whose
// scheduled-or-estimated departure falls on localDate in the operator's
// timezone survive, earliest first.
func (s *Service) Resolve(ctx context.Context, flightNumber, localDate string) (Flight, error) {
	return s.resolve(ctx, flightNumber, localDate, false)
}

// ResolveAny is Resolve without the landed-instance filter, for callers that
// follow a flight through to its arrival. The strict same-day match still
// applies, so a repeat of the number on an adjacent date is never returned.
func (s *Service) ResolveAny(ctx context.Context, flightNumber, localDate string) (Flight, error) {
	return s.resolve(ctx, flightNumber, localDate, true)
}

func (s *Service) resolve(ctx context.Context, flightNumber, localDate string, includeLanded bool) (Flight, error) {
	day, err := time.ParseInLocation(dateLayout, localDate, s.loc)
	if err != nil {
		return Flight{}, errors.Wrapf(err, "invalid flight date %v", localDate)
	}
	values := url.Values{}
	values.Set("start", day.Add(-windowBefore).UTC().Format(time.RFC3339))
	values.Set("end", day.Add(windowAfter).UTC().Format(time.RFC3339))
	values.Set("max_pages", "1")
	endpoint := fmt.Sprintf("%v/flights/%v?%v", s.baseURL, url.PathEscape(flightNumber), values.Encode())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Flight{}, errors.Wrap(err, "unable to build flights request")
	}
	request.Header.Set("x-apikey", s.apiKey)
	request.Header.Set("User-Agent", userAgent)

	response, err := s.client.Do(request)
	if err != nil {
		return Flight{}, errors.Wrap(err, "unable to query flights")
	}
	defer func() {
		err := response.Body.Close()
		if err != nil {
			log.Printf("error when closing the flights body: %v", err.Error())
		}
	}()
	if response.StatusCode != http.StatusOK {
		// Auth and rate-limit responses land here too; from the caller's
		// point of view the data is simply not available yet.
		return Flight{}, ErrNotFound
	}
	var payload flightsResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return Flight{}, errors.Wrap(err, "unable to decode flights response")
	}

	var candidates []Flight
	for _, flight := range payload.Flights {
		if !includeLanded && flight.ActualOn != nil {
			continue
		}
		off := flight.DepartureTime()
		if off == nil {
			continue
		}
		if off.In(s.loc).Format(dateLayout) != localDate {
			continue
		}
		candidates = append(candidates, flight)
	}
	if len(candidates) == 0 {
		return Flight{}, ErrNotFound
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DepartureTime().Before(*candidates[j].DepartureTime())
	})
	return candidates[0], nil
}
