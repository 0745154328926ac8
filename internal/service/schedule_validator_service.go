package service

import (
	"fmt"
	"sort"

	"github.com/leaguehub/scheduler/internal/models"
)

// ScheduleValidatorService is the pure re-check pass described in spec
// §4.G: it never mutates its input and is idempotent.
type ScheduleValidatorService struct{}

func NewScheduleValidatorService() *ScheduleValidatorService {
	return &ScheduleValidatorService{}
}

// Validate enumerates every rule violation in result against constraints.
func (v *ScheduleValidatorService) Validate(result models.GeneratorResult, constraints models.GeneratorConstraints) []models.ValidationIssue {
	var issues []models.ValidationIssue

	issues = append(issues, checkDoubleHeaders(result.Assignments)...)
	if constraints.MaxGamesPerWeek != nil {
		issues = append(issues, checkMaxGamesPerWeek(result.Assignments, *constraints.MaxGamesPerWeek)...)
	}
	if constraints.BalanceHomeAway {
		issues = append(issues, checkHomeAwayImbalance(result.Assignments)...)
	}
	issues = append(issues, checkMissingTeams(result.Assignments)...)
	issues = append(issues, checkOverlaps(result.Assignments)...)

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].RuleID != issues[j].RuleID {
			return issues[i].RuleID < issues[j].RuleID
		}
		return issues[i].Message < issues[j].Message
	})
	return issues
}

func checkDoubleHeaders(assignments []models.Assignment) []models.ValidationIssue {
	seen := make(map[string]map[string]bool)
	var issues []models.ValidationIssue
	for _, a := range assignments {
		for _, team := range []*string{a.HomeTeamID, a.AwayTeamID} {
			if team == nil {
				continue
			}
			if seen[*team] == nil {
				seen[*team] = make(map[string]bool)
			}
			if seen[*team][a.GameDate] {
				issues = append(issues, models.ValidationIssue{
					RuleID:     "double-header",
					Severity:   models.SeverityError,
					Message:    fmt.Sprintf("team %s is scheduled twice on %s", *team, a.GameDate),
					SubjectIDs: []string{*team},
				})
				continue
			}
			seen[*team][a.GameDate] = true
		}
	}
	return issues
}

func checkMaxGamesPerWeek(assignments []models.Assignment, max int) []models.ValidationIssue {
	counts := make(map[string]map[string]int)
	for _, a := range assignments {
		week := isoWeek(a.GameDate)
		for _, team := range []*string{a.HomeTeamID, a.AwayTeamID} {
			if team == nil {
				continue
			}
			if counts[*team] == nil {
				counts[*team] = make(map[string]int)
			}
			counts[*team][week]++
		}
	}
	var issues []models.ValidationIssue
	for team, weeks := range counts {
		for week, count := range weeks {
			if count > max {
				issues = append(issues, models.ValidationIssue{
					RuleID:     "max-games-per-week",
					Severity:   models.SeverityError,
					Message:    fmt.Sprintf("team %s has %d games in week %s, exceeding %d", team, count, week, max),
					SubjectIDs: []string{team},
				})
			}
		}
	}
	return issues
}

func checkHomeAwayImbalance(assignments []models.Assignment) []models.ValidationIssue {
	home := make(map[string]int)
	away := make(map[string]int)
	for _, a := range assignments {
		if a.HomeTeamID != nil {
			home[*a.HomeTeamID]++
		}
		if a.AwayTeamID != nil {
			away[*a.AwayTeamID]++
		}
	}
	teams := make(map[string]bool)
	for t := range home {
		teams[t] = true
	}
	for t := range away {
		teams[t] = true
	}
	var issues []models.ValidationIssue
	for team := range teams {
		diff := home[team] - away[team]
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			issues = append(issues, models.ValidationIssue{
				RuleID:     "home-away-imbalance",
				Severity:   models.SeverityWarn,
				Message:    fmt.Sprintf("team %s has a home/away imbalance of %d", team, diff),
				SubjectIDs: []string{team},
			})
		}
	}
	return issues
}

func checkMissingTeams(assignments []models.Assignment) []models.ValidationIssue {
	var issues []models.ValidationIssue
	for _, a := range assignments {
		if a.IsExternalOffer {
			continue
		}
		if a.HomeTeamID == nil || a.AwayTeamID == nil {
			issues = append(issues, models.ValidationIssue{
				RuleID:     "missing-teams",
				Severity:   models.SeverityError,
				Message:    fmt.Sprintf("assignment for slot %s is missing a home or away team", a.SlotID),
				SubjectIDs: []string{a.SlotID},
			})
		}
	}
	return issues
}

func checkOverlaps(assignments []models.Assignment) []models.ValidationIssue {
	type key struct {
		field string
		date  string
	}
	byKey := make(map[key][]models.Assignment)
	for _, a := range assignments {
		k := key{field: a.FieldKey, date: a.GameDate}
		byKey[k] = append(byKey[k], a)
	}
	var issues []models.ValidationIssue
	for _, group := range byKey {
		sort.Slice(group, func(i, j int) bool { return group[i].StartTime < group[j].StartTime })
		for i := 0; i < len(group); i++ {
			for j := i + 1; j < len(group); j++ {
				if models.Overlaps(group[i].StartTime, group[i].EndTime, group[j].StartTime, group[j].EndTime) {
					issues = append(issues, models.ValidationIssue{
						RuleID:     "overlap",
						Severity:   models.SeverityError,
						Message:    fmt.Sprintf("slots %s and %s overlap on %s/%s", group[i].SlotID, group[j].SlotID, group[i].FieldKey, group[i].GameDate),
						SubjectIDs: []string{group[i].SlotID, group[j].SlotID},
					})
				}
			}
		}
	}
	return issues
}
