package service

import (
	"sort"

	"github.com/leaguehub/scheduler/internal/models"
)

// GeneratorInput is the §4.F contract's (division, teams, openSlots,
// constraints, preferredDays?) input.
type GeneratorInput struct {
	Division       string
	Teams          []string
	OpenSlots      []models.Slot
	Constraints    models.GeneratorConstraints
	PreferredDays  []models.Weekday
}

// matchup is an unordered team pair, (A, B) with A < B lexicographically.
type matchup struct {
	A string
	B string
}

type teamCounters struct {
	games       int
	gamesByWeek map[string]int
	homeCount   int
	awayCount   int
	playedWith  map[string]bool
	lastDate    string
	gameDates   map[string]bool
}

func newTeamCounters() *teamCounters {
	return &teamCounters{
		gamesByWeek: make(map[string]int),
		playedWith:  make(map[string]bool),
		gameDates:   make(map[string]bool),
	}
}

// ScheduleGeneratorService builds the round-robin matchup set and runs the
// deterministic greedy slot-assignment pass described in spec §4.F.
// Grounded on the teacher's schedulerState/teacherAvailability greedy
// placement loop in schedule_generator_service.go, generalized from a
// timetable-period grid to an open-slot list and from a single
// subject-load cost to the lexicographic cost tuple spec §4.F names.
type ScheduleGeneratorService struct {
	validator *ScheduleValidatorService
}

func NewScheduleGeneratorService(validator *ScheduleValidatorService) *ScheduleGeneratorService {
	return &ScheduleGeneratorService{validator: validator}
}

// BuildMatchups produces the C(n,2) unordered pairs in lexicographic
// order by teamId (spec §4.F "Matchup construction").
func BuildMatchups(teams []string) []matchup {
	sorted := make([]string, len(teams))
	copy(sorted, teams)
	sort.Strings(sorted)

	var out []matchup
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			out = append(out, matchup{A: sorted[i], B: sorted[j]})
		}
	}
	return out
}

// Generate runs the deterministic greedy assignment pass.
func (s *ScheduleGeneratorService) Generate(in GeneratorInput) models.GeneratorResult {
	matchups := BuildMatchups(in.Teams)
	unassignedMatchupSet := make(map[matchup]bool, len(matchups))
	for _, m := range matchups {
		unassignedMatchupSet[m] = true
	}

	counters := make(map[string]*teamCounters)
	for _, t := range in.Teams {
		counters[t] = newTeamCounters()
	}

	preferred := make(map[models.Weekday]bool)
	for _, d := range in.PreferredDays {
		preferred[d] = true
	}

	slots := make([]models.Slot, len(in.OpenSlots))
	copy(slots, in.OpenSlots)
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].GameDate != slots[j].GameDate {
			return slots[i].GameDate < slots[j].GameDate
		}
		if slots[i].StartTime != slots[j].StartTime {
			return slots[i].StartTime < slots[j].StartTime
		}
		return slots[i].FieldKey < slots[j].FieldKey
	})

	externalPerWeek := make(map[string]int)
	var assignments []models.Assignment
	var unassignedSlots []string

	for _, slot := range slots {
		week := isoWeek(slot.GameDate)

		remaining := remainingMatchups(unassignedMatchupSet)
		if len(remaining) == 0 {
			if in.Constraints.ExternalOfferPerWeek > 0 && externalPerWeek[week] < in.Constraints.ExternalOfferPerWeek {
				externalPerWeek[week]++
				assignments = append(assignments, models.Assignment{
					SlotID:          slot.SlotID,
					GameDate:        slot.GameDate,
					StartTime:       slot.StartTime,
					EndTime:         slot.EndTime,
					FieldKey:        slot.FieldKey,
					IsExternalOffer: true,
				})
				continue
			}
			unassignedSlots = append(unassignedSlots, slot.SlotID)
			continue
		}

		best, ok := s.selectMatchup(remaining, counters, slot, week, in.Constraints, preferred)
		if !ok {
			if in.Constraints.ExternalOfferPerWeek > 0 && externalPerWeek[week] < in.Constraints.ExternalOfferPerWeek {
				externalPerWeek[week]++
				assignments = append(assignments, models.Assignment{
					SlotID:          slot.SlotID,
					GameDate:        slot.GameDate,
					StartTime:       slot.StartTime,
					EndTime:         slot.EndTime,
					FieldKey:        slot.FieldKey,
					IsExternalOffer: true,
				})
				continue
			}
			unassignedSlots = append(unassignedSlots, slot.SlotID)
			continue
		}

		delete(unassignedMatchupSet, best)
		home, away := s.assignHomeAway(best, counters, in.Constraints.BalanceHomeAway)
		counters[best.A].games++
		counters[best.B].games++
		counters[best.A].gamesByWeek[week]++
		counters[best.B].gamesByWeek[week]++
		counters[best.A].gameDates[slot.GameDate] = true
		counters[best.B].gameDates[slot.GameDate] = true
		counters[best.A].playedWith[best.B] = true
		counters[best.B].playedWith[best.A] = true
		if home == best.A {
			counters[best.A].homeCount++
			counters[best.B].awayCount++
		} else {
			counters[best.B].homeCount++
			counters[best.A].awayCount++
		}

		assignments = append(assignments, models.Assignment{
			SlotID:     slot.SlotID,
			GameDate:   slot.GameDate,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
			FieldKey:   slot.FieldKey,
			HomeTeamID: strPtr(home),
			AwayTeamID: strPtr(away),
		})
	}

	var unassignedMatchups [][2]string
	for m := range unassignedMatchupSet {
		unassignedMatchups = append(unassignedMatchups, [2]string{m.A, m.B})
	}
	sort.Slice(unassignedMatchups, func(i, j int) bool {
		if unassignedMatchups[i][0] != unassignedMatchups[j][0] {
			return unassignedMatchups[i][0] < unassignedMatchups[j][0]
		}
		return unassignedMatchups[i][1] < unassignedMatchups[j][1]
	})
	sort.Strings(unassignedSlots)

	externalCount := 0
	for _, a := range assignments {
		if a.IsExternalOffer {
			externalCount++
		}
	}

	result := models.GeneratorResult{
		Summary: models.GeneratorSummary{
			TotalTeams:         len(in.Teams),
			TotalMatchups:      len(matchups),
			TotalSlots:         len(in.OpenSlots),
			AssignedCount:      len(assignments) - externalCount,
			ExternalOfferCount: externalCount,
			UnassignedMatchups: len(unassignedMatchups),
			UnassignedSlots:    len(unassignedSlots),
		},
		Assignments:        assignments,
		UnassignedSlots:    unassignedSlots,
		UnassignedMatchups: unassignedMatchups,
	}

	if s.validator != nil {
		result.Failures = s.validator.Validate(result, in.Constraints)
	}
	return result
}

func remainingMatchups(set map[matchup]bool) []matchup {
	out := make([]matchup, 0, len(set))
	for m, present := range set {
		if present {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// selectMatchup picks the unassigned matchup minimizing the lexicographic
// cost tuple from spec §4.F step 3.b.
func (s *ScheduleGeneratorService) selectMatchup(
	candidates []matchup,
	counters map[string]*teamCounters,
	slot models.Slot,
	week string,
	constraints models.GeneratorConstraints,
	preferred map[models.Weekday]bool,
) (matchup, bool) {
	type scored struct {
		m    matchup
		cost [5]int
	}
	var best *scored

	slotWeekday := weekdayOf(slot.GameDate)
	preferOK := 0
	if len(preferred) > 0 && !preferred[slotWeekday] {
		preferOK = 1
	}

	for _, m := range candidates {
		ca, cb := counters[m.A], counters[m.B]

		if constraints.MaxGamesPerWeek != nil {
			if ca.gamesByWeek[week] >= *constraints.MaxGamesPerWeek || cb.gamesByWeek[week] >= *constraints.MaxGamesPerWeek {
				continue
			}
		}

		doubleHeader := 0
		if constraints.NoDoubleHeaders && (ca.gameDates[slot.GameDate] || cb.gameDates[slot.GameDate]) {
			doubleHeader = 1
		}
		if constraints.NoDoubleHeaders && doubleHeader == 1 && hasAlternative(candidates, m, counters, slot, week, constraints) {
			continue
		}

		maxGames := ca.games
		if cb.games > maxGames {
			maxGames = cb.games
		}
		sumGames := ca.games + cb.games

		cost := [5]int{maxGames, sumGames, doubleHeader, preferOK, 0}
		candidate := scored{m: m, cost: cost}
		if best == nil || lessCost(candidate.cost, best.cost) {
			c := candidate
			best = &c
		}
	}

	if best == nil {
		return matchup{}, false
	}
	return best.m, true
}

// hasAlternative reports whether some OTHER candidate would not itself
// trigger a double-header and is still viable under maxGamesPerWeek; a
// candidate excluded by maxGamesPerWeek isn't a real alternative, so
// ignoring it here would wrongly force the only viable (double-header)
// matchup to be skipped in favor of unassigning the slot.
func hasAlternative(candidates []matchup, current matchup, counters map[string]*teamCounters, slot models.Slot, week string, constraints models.GeneratorConstraints) bool {
	for _, m := range candidates {
		if m == current {
			continue
		}
		ca, cb := counters[m.A], counters[m.B]
		if constraints.MaxGamesPerWeek != nil {
			if ca.gamesByWeek[week] >= *constraints.MaxGamesPerWeek || cb.gamesByWeek[week] >= *constraints.MaxGamesPerWeek {
				continue
			}
		}
		if !ca.gameDates[slot.GameDate] && !cb.gameDates[slot.GameDate] {
			return true
		}
	}
	return false
}

func lessCost(a, b [5]int) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func (s *ScheduleGeneratorService) assignHomeAway(m matchup, counters map[string]*teamCounters, balance bool) (home, away string) {
	if !balance {
		return m.A, m.B
	}
	ca, cb := counters[m.A], counters[m.B]
	if ca.homeCount < cb.homeCount {
		return m.A, m.B
	}
	if cb.homeCount < ca.homeCount {
		return m.B, m.A
	}
	return m.A, m.B
}

func strPtr(s string) *string { return &s }
