package fr24

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePage = `
<html><body><table>
<tr><th>Date</th><th>Flight</th><th>Callsign</th><th>From</th><th>To</th><th>Block</th><th>STD</th><th>STA</th><th>Airline</th><th>Aircraft</th><th>Seat</th></tr>
<tr><td>2025-03-10</td><td>DL882</td><td>DAL882</td><td>LAX</td><td>JFK</td><td>5:12</td><td>08:00</td><td>16:30</td><td>DL</td><td>B739</td><td>12A</td><td>N801DZ</td><td>2475</td></tr>
<tr><td>2025-03-14</td><td>DL1401</td><td>DAL1401</td><td>JFK</td><td>SEA</td><td>6:02</td><td>18:45</td><td>22:10</td><td>DL</td><td>A339</td></tr>
<tr><td>Book now!</td><td>great</td><td>deals</td><td>on</td><td>flights</td><td>today</td><td>a</td><td>b</td><td>c</td><td>d</td></tr>
<tr><td>2025-03-15</td><td>short</td><td>row</td></tr>
</table></body></html>`

func TestParse(t *testing.T) {
	legs, err := Parse(strings.NewReader(samplePage))
	require.NoError(t, err)
	require.Len(t, legs, 2)

	require.Equal(t, Leg{
		Date:         "2025-03-10",
		Flight:       "DL882",
		Origin:       "LAX",
		Dest:         "JFK",
		SchedDep:     "08:00",
		SchedArr:     "16:30",
		Airline:      "DL",
		Aircraft:     "B739",
		Seat:         "12A",
		Registration: "N801DZ",
		Distance:     "2475",
	}, legs[0])

	// Optional trailing columns default to empty instead of failing the row.
	require.Equal(t, "DL1401", legs[1].Flight)
	require.Empty(t, legs[1].Seat)
	require.Empty(t, legs[1].Registration)
}

func TestParseEveryDateIsStrict(t *testing.T) {
	legs, err := Parse(strings.NewReader(samplePage))
	require.NoError(t, err)
	for _, leg := range legs {
		require.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, leg.Date)
	}
}

func TestParseEmptyPage(t *testing.T) {
	legs, err := Parse(strings.NewReader("<html><body>maintenance</body></html>"))
	require.NoError(t, err)
	require.Empty(t, legs)
}
