package service

import (
	"sort"
	"strconv"
	"time"

	"github.com/leaguehub/scheduler/internal/models"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

const dateLayout = "2006-01-02"

// Window is the [From, To] date range expansion runs over (both
// inclusive, YYYY-MM-DD).
type Window struct {
	From string
	To   string
}

// interval is a half-open [Start, End) range in minutes-from-midnight.
type interval struct {
	Start int
	End   int
}

// AvailabilityService expands recurring AvailabilityRules, minus
// AvailabilityExceptions and League blackout windows, into concrete open
// Slots (spec §4.C). Grounded on the teacher's schedule_generator_service
// iteration-over-dates shape, and on the interval-subtraction approach
// used by the availability calculator in the retrieved meet-when
// scheduling service.
type AvailabilityService struct{}

func NewAvailabilityService() *AvailabilityService {
	return &AvailabilityService{}
}

// Expand implements the §4.C contract: Expand(rules, exceptions,
// blackouts, window, gameLengthMinutes) -> []Slot.
func (s *AvailabilityService) Expand(
	rules []models.AvailabilityRule,
	exceptions []models.AvailabilityException,
	blackouts []models.BlackoutWindow,
	window Window,
	gameLengthMinutes int,
) ([]models.Slot, error) {
	if gameLengthMinutes <= 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfig, "gameLengthMinutes must be positive")
	}

	exceptionsByRule := make(map[string][]models.AvailabilityException)
	for _, ex := range exceptions {
		exceptionsByRule[ex.RuleID] = append(exceptionsByRule[ex.RuleID], ex)
	}

	var out []models.Slot
	for _, rule := range rules {
		slots, err := s.expandRule(rule, exceptionsByRule[rule.RuleID], blackouts, window, gameLengthMinutes)
		if err != nil {
			return nil, err
		}
		out = append(out, slots...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].GameDate != out[j].GameDate {
			return out[i].GameDate < out[j].GameDate
		}
		if out[i].FieldKey != out[j].FieldKey {
			return out[i].FieldKey < out[j].FieldKey
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (s *AvailabilityService) expandRule(
	rule models.AvailabilityRule,
	exceptions []models.AvailabilityException,
	blackouts []models.BlackoutWindow,
	window Window,
	gameLengthMinutes int,
) ([]models.Slot, error) {
	from := maxDate(rule.StartsOn, window.From)
	to := minDate(rule.EndsOn, window.To)

	fromT, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfig, "invalid window/rule start date")
	}
	toT, err := time.Parse(dateLayout, to)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidConfig, "invalid window/rule end date")
	}

	var out []models.Slot
	for d := fromT; !d.After(toT); d = d.AddDate(0, 0, 1) {
		weekday := models.Weekday(int(d.Weekday()))
		if !rule.HasWeekday(weekday) {
			continue
		}
		dateStr := d.Format(dateLayout)
		if inBlackout(dateStr, blackouts) {
			continue
		}

		residual := []interval{{Start: rule.StartMin, End: rule.EndMin}}
		for _, ex := range exceptions {
			if !ex.AppliesTo(dateStr) {
				continue
			}
			residual = subtractAll(residual, interval{Start: ex.StartMin, End: ex.EndMin})
		}

		for _, iv := range residual {
			out = append(out, packSlots(rule, dateStr, iv, gameLengthMinutes)...)
		}
	}
	return out, nil
}

// subtractAll removes cut from every interval in ivs, producing 0, 1, or
// 2 residual intervals per input (spec §4.C step 3).
func subtractAll(ivs []interval, cut interval) []interval {
	var out []interval
	for _, iv := range ivs {
		out = append(out, subtract(iv, cut)...)
	}
	return out
}

func subtract(iv, cut interval) []interval {
	if cut.End <= iv.Start || cut.Start >= iv.End {
		return []interval{iv}
	}
	var out []interval
	if cut.Start > iv.Start {
		out = append(out, interval{Start: iv.Start, End: cut.Start})
	}
	if cut.End < iv.End {
		out = append(out, interval{Start: cut.End, End: iv.End})
	}
	return out
}

func packSlots(rule models.AvailabilityRule, dateStr string, iv interval, gameLengthMinutes int) []models.Slot {
	var out []models.Slot
	for start := iv.Start; start+gameLengthMinutes <= iv.End; start += gameLengthMinutes {
		out = append(out, models.Slot{
			// Derived, not random: Expand must be idempotent (spec §8:
			// identical inputs yield byte-identical output). The real
			// slotId is assigned by SlotRepository.Create at persistence
			// time; this one is a stable placeholder keyed off the rule,
			// date, and start minute that produced the slot.
			SlotID:    rule.RuleID + "|" + dateStr + "|" + strconv.Itoa(start),
			LeagueID:  rule.LeagueID,
			Division:  rule.Division,
			FieldKey:  rule.FieldKey,
			GameDate:  dateStr,
			StartTime: start,
			EndTime:   start + gameLengthMinutes,
			GameType:  models.GameTypeGame,
			Status:    models.SlotStatusOpen,
		})
	}
	return out
}

func inBlackout(date string, blackouts []models.BlackoutWindow) bool {
	for _, b := range blackouts {
		if date >= b.StartDate && date <= b.EndDate {
			return true
		}
	}
	return false
}

func maxDate(a, b string) string {
	if a > b {
		return a
	}
	return b
}

func minDate(a, b string) string {
	if a < b {
		return a
	}
	return b
}
