package fr24

import (
	"context"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

const (
	fetchTimeout = time.Second * 20
	userAgent    = "Mozilla/5.0"
	// Rows with fewer cells are headers, ads or otherwise malformed.
	minColumns = 10
)

// DatePattern matches the strict YYYY-MM-DD dates the schedule page uses.
var DatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type Service struct {
	url    string
	client *http.Client
}

func NewService(url string) *Service {
	return &Service{
		url:    url,
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// FetchLegs downloads the public schedule page and extracts its flight rows.
// Row ordering follows the page; callers sort as needed.
func (s *Service) FetchLegs(ctx context.Context) ([]Leg, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "unable to build schedule request")
	}
	request.Header.Set("User-Agent", userAgent)
	response, err := s.client.Do(request)
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch schedule page")
	}
	defer func() {
		err := response.Body.Close()
		if err != nil {
			log.Printf("error when closing the schedule body: %v", err.Error())
		}
	}()
	if response.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %v from schedule page", response.StatusCode)
	}
	return Parse(response.Body)
}

// Parse extracts legs from tabular markup. A row is accepted only when it
// carries at least minColumns cells and its first cell is a strict
// YYYY-MM-DD date; everything else is skipped silently.
func Parse(r io.Reader) ([]Leg, error) {
	document, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse schedule page")
	}
	var legs []Leg
	document.Find("tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) < minColumns {
			return
		}
		if !DatePattern.MatchString(cells[0]) {
			return
		}
		leg := Leg{
			Date:     cells[0],
			Flight:   cells[1],
			Origin:   cells[3],
			Dest:     cells[4],
			SchedDep: cells[6],
			SchedArr: cells[7],
			Airline:  cells[8],
			Aircraft: cells[9],
		}
		if len(cells) > 10 {
			leg.Seat = cells[10]
		}
		if len(cells) > 11 {
			leg.Registration = cells[11]
		}
		if len(cells) > 12 {
			leg.Distance = cells[12]
		}
		legs = append(legs, leg)
	})
	return legs, nil
}
