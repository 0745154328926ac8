package models

// Assignment is the generator's output row: a slot paired with a matchup
// (or marked as an external offer). It is written back as Slot state by
// the apply path (spec §3/§4.F).
type Assignment struct {
	SlotID          string  `json:"slotId"`
	GameDate        string  `json:"gameDate"`
	StartTime       int     `json:"startTime"`
	EndTime         int     `json:"endTime"`
	FieldKey        string  `json:"fieldKey"`
	HomeTeamID      *string `json:"homeTeamId,omitempty"`
	AwayTeamID      *string `json:"awayTeamId,omitempty"`
	IsExternalOffer bool    `json:"isExternalOffer"`
}

// ValidationSeverity tags a validator issue as blocking or advisory.
type ValidationSeverity string

const (
	SeverityError ValidationSeverity = "error"
	SeverityWarn  ValidationSeverity = "warn"
)

// ValidationIssue is one re-check violation produced by the validator
// (spec §4.G). The validator never mutates and is idempotent.
type ValidationIssue struct {
	RuleID     string              `json:"ruleId"`
	Severity   ValidationSeverity  `json:"severity"`
	Message    string              `json:"message"`
	SubjectIDs []string            `json:"subjectIds"`
}

// GeneratorConstraints configures the schedule generator and validator.
type GeneratorConstraints struct {
	MaxGamesPerWeek      *int `json:"maxGamesPerWeek,omitempty"`
	NoDoubleHeaders      bool `json:"noDoubleHeaders"`
	BalanceHomeAway      bool `json:"balanceHomeAway"`
	ExternalOfferPerWeek int  `json:"externalOfferPerWeek"`
}

// GeneratorFailure records a matchup or slot the generator could not place.
type GeneratorFailure struct {
	Type    string `json:"type"` // "unassigned_matchup" | "unassigned_slot"
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

// GeneratorSummary reports aggregate counters for a generator run.
type GeneratorSummary struct {
	TotalTeams          int `json:"totalTeams"`
	TotalMatchups       int `json:"totalMatchups"`
	TotalSlots          int `json:"totalSlots"`
	AssignedCount       int `json:"assignedCount"`
	ExternalOfferCount  int `json:"externalOfferCount"`
	UnassignedMatchups  int `json:"unassignedMatchups"`
	UnassignedSlots     int `json:"unassignedSlots"`
}

// GeneratorResult is the output of one Generate call (spec §4.F).
type GeneratorResult struct {
	Summary            GeneratorSummary   `json:"summary"`
	Assignments        []Assignment       `json:"assignments"`
	UnassignedSlots    []string           `json:"unassignedSlots"`
	UnassignedMatchups [][2]string        `json:"unassignedMatchups"`
	Failures           []ValidationIssue  `json:"failures"`
}
