// Package identity models the caller's resolved role as an explicit value
// bag threaded through handler -> service calls as a plain argument,
// rather than retrieved ambiently from context deep inside a call chain
// (spec §9 Design Notes). The HTTP boundary (internal/middleware) is the
// only place that reads it off the request/gin context; everything below
// that boundary receives it as a parameter.
package identity

import "github.com/leaguehub/scheduler/internal/models"

// Identity is the resolved caller for one request.
type Identity struct {
	LeagueID    string
	UserID      string
	Email       string
	GlobalAdmin bool
	Role        models.Role
	Division    *string
	TeamID      *string
}

// IsAdmin reports whether the caller may act as a league administrator:
// GlobalAdmin is honored across all leagues (spec §4.B).
func (i Identity) IsAdmin() bool {
	return i.GlobalAdmin || i.Role == models.RoleLeagueAdmin
}

// IsCoachFor reports whether the caller is a Coach membership matching
// exactly the given (division, teamId) (spec §4.B RequireCoachFor).
func (i Identity) IsCoachFor(division, teamID string) bool {
	if i.Role != models.RoleCoach {
		return false
	}
	return i.Division != nil && i.TeamID != nil && *i.Division == division && *i.TeamID == teamID
}
