package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehub/scheduler/internal/models"
)

func assignment(slotID, date string, start, end int, home, away *string) models.Assignment {
	return models.Assignment{SlotID: slotID, GameDate: date, StartTime: start, EndTime: end, FieldKey: "park/1", HomeTeamID: home, AwayTeamID: away}
}

func TestScheduleValidatorFlagsDoubleHeader(t *testing.T) {
	v := NewScheduleValidatorService()
	a, b := strPtr("team-a"), strPtr("team-b")
	c := strPtr("team-c")
	result := models.GeneratorResult{Assignments: []models.Assignment{
		assignment("s1", "2026-04-01", 600, 660, a, b),
		assignment("s2", "2026-04-01", 700, 760, a, c),
	}}

	issues := v.Validate(result, models.GeneratorConstraints{})
	require.NotEmpty(t, issues)
	assert.Equal(t, "double-header", issues[0].RuleID)
}

func TestScheduleValidatorFlagsMaxGamesPerWeek(t *testing.T) {
	v := NewScheduleValidatorService()
	a, b := strPtr("team-a"), strPtr("team-b")
	result := models.GeneratorResult{Assignments: []models.Assignment{
		assignment("s1", "2026-04-01", 600, 660, a, b),
		assignment("s2", "2026-04-03", 600, 660, a, b),
	}}
	max := 1

	issues := v.Validate(result, models.GeneratorConstraints{MaxGamesPerWeek: &max})
	found := false
	for _, i := range issues {
		if i.RuleID == "max-games-per-week" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScheduleValidatorFlagsHomeAwayImbalanceOnlyWhenEnabled(t *testing.T) {
	v := NewScheduleValidatorService()
	a, b := strPtr("team-a"), strPtr("team-b")
	result := models.GeneratorResult{Assignments: []models.Assignment{
		assignment("s1", "2026-04-01", 600, 660, a, b),
		assignment("s2", "2026-04-02", 600, 660, a, b),
		assignment("s3", "2026-04-03", 600, 660, a, b),
	}}

	issues := v.Validate(result, models.GeneratorConstraints{})
	for _, i := range issues {
		assert.NotEqual(t, "home-away-imbalance", i.RuleID)
	}

	issues = v.Validate(result, models.GeneratorConstraints{BalanceHomeAway: true})
	found := false
	for _, i := range issues {
		if i.RuleID == "home-away-imbalance" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScheduleValidatorFlagsMissingTeamsUnlessExternalOffer(t *testing.T) {
	v := NewScheduleValidatorService()
	result := models.GeneratorResult{Assignments: []models.Assignment{
		{SlotID: "s1", GameDate: "2026-04-01", FieldKey: "park/1"},
		{SlotID: "s2", GameDate: "2026-04-01", FieldKey: "park/1", IsExternalOffer: true},
	}}

	issues := v.Validate(result, models.GeneratorConstraints{})
	require.Len(t, issues, 1)
	assert.Equal(t, "missing-teams", issues[0].RuleID)
	assert.Equal(t, []string{"s1"}, issues[0].SubjectIDs)
}

func TestScheduleValidatorFlagsOverlappingAssignmentsOnSameFieldAndDate(t *testing.T) {
	v := NewScheduleValidatorService()
	a, b, c, d := strPtr("team-a"), strPtr("team-b"), strPtr("team-c"), strPtr("team-d")
	result := models.GeneratorResult{Assignments: []models.Assignment{
		assignment("s1", "2026-04-01", 600, 660, a, b),
		assignment("s2", "2026-04-01", 630, 690, c, d),
	}}

	issues := v.Validate(result, models.GeneratorConstraints{})
	found := false
	for _, i := range issues {
		if i.RuleID == "overlap" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestScheduleValidatorIsIdempotentAndDoesNotMutateInput(t *testing.T) {
	v := NewScheduleValidatorService()
	a, b := strPtr("team-a"), strPtr("team-b")
	result := models.GeneratorResult{Assignments: []models.Assignment{
		assignment("s1", "2026-04-01", 600, 660, a, b),
	}}

	first := v.Validate(result, models.GeneratorConstraints{})
	second := v.Validate(result, models.GeneratorConstraints{})
	assert.Equal(t, first, second)
}
