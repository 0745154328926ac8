package models

// Membership binds a user to a role within a league. Coaches MUST carry
// (Division, TeamID) to act on slots for their team (spec §3).
type Membership struct {
	UserID   string  `json:"userId" db:"user_id"`
	LeagueID string  `json:"leagueId" db:"league_id"`
	Role     Role    `json:"role" db:"role"`
	Email    string  `json:"email" db:"email"`
	Division *string `json:"division,omitempty" db:"division"`
	TeamID   *string `json:"teamId,omitempty" db:"team_id"`
	Version  int     `json:"version" db:"version"`
}

// ForTeam reports whether this membership is a coach of the given team.
func (m *Membership) ForTeam(division, teamID string) bool {
	if m == nil || m.Role != RoleCoach {
		return false
	}
	return m.Division != nil && m.TeamID != nil && *m.Division == division && *m.TeamID == teamID
}
