package lookup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleAirports = `507,"London Heathrow Airport","London","United Kingdom","LHR","EGLL",51.4706,-0.461941
3484,"Los Angeles International Airport","Los Angeles","United States","LAX","KLAX",33.94250107,-118.4079971
26,"Kugaaruk Airport","Pelly Bay","Canada","YBB","CYBB",68.534401,-89.808098
9999,"Fantasy Field","Nowhere","Atlantis","\N","XXXX",0,0
short,row
`

func TestParseSkipsMalformedRows(t *testing.T) {
	table := parse(strings.NewReader(sampleAirports), 4, 1)
	require.Len(t, table, 3)
	require.Equal(t, "Los Angeles International Airport", table["LAX"])
	_, hasMissing := table["\\N"]
	require.False(t, hasMissing)
}

func TestFormat(t *testing.T) {
	table := parse(strings.NewReader(sampleAirports), 4, 1)
	require.Equal(t, "London Heathrow Airport (LHR)", table.Format("lhr"))
	require.Equal(t, "JFK", table.Format("JFK"))
	require.Equal(t, "—", table.Format(""))
}
