package service

import (
	"strconv"
	"time"

	"github.com/leaguehub/scheduler/internal/models"
)

// isoWeek returns the "YYYY-Www" ISO week bucket a gameDate falls in,
// used as the key for gamesPerIsoWeek counters (spec §4.F).
func isoWeek(gameDate string) string {
	t, err := time.Parse(dateLayout, gameDate)
	if err != nil {
		return gameDate
	}
	year, week := t.ISOWeek()
	return strconv.Itoa(year) + "-W" + pad2(week)
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

func weekdayOf(gameDate string) models.Weekday {
	t, err := time.Parse(dateLayout, gameDate)
	if err != nil {
		return models.Sunday
	}
	return models.Weekday(int(t.Weekday()))
}
