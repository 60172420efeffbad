package fr24

import (
	"fmt"
	"sort"
	"time"
)

const (
	dateLayout    = "2006-01-02"
	legTimeLayout = "2006-01-02 15:04"
)

// Unparseable rows sort after every real departure instead of breaking the
// selection.
var legTimeMax = time.Date(9999, time.December, 31, 23, 59, 0, 0, time.UTC)

// NextTwo picks the earliest upcoming leg relative to now and the one
// immediately after it. Legs dated before today (in loc) are ignored. The
// sort is stable, so equal departure times keep their page order.
func NextTwo(legs []Leg, now time.Time, loc *time.Location) (*Leg, *Leg) {
	today := now.In(loc).Format(dateLayout)
	var future []Leg
	for _, leg := range legs {
		if leg.Date >= today {
			future = append(future, leg)
		}
	}
	if len(future) == 0 {
		return nil, nil
	}
	sort.SliceStable(future, func(i, j int) bool {
		return legTime(future[i]).Before(legTime(future[j]))
	})
	next := future[0]
	if len(future) == 1 {
		return &next, nil
	}
	after := future[1]
	return &next, &after
}

func legTime(leg Leg) time.Time {
	t, err := time.Parse(legTimeLayout, fmt.Sprintf("%v %v", leg.Date, leg.SchedDep))
	if err != nil {
		return legTimeMax
	}
	return t
}
