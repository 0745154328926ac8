package models

import "time"

// Request is a team's bid to claim a Slot (spec §3/§4.E). Requests are
// immutable once terminal (Approved, Rejected, Withdrawn, Superseded).
type Request struct {
	RequestID        string        `json:"requestId" db:"request_id"`
	LeagueID         string        `json:"leagueId" db:"league_id"`
	SlotID           string        `json:"slotId" db:"slot_id"`
	RequestingTeamID string        `json:"requestingTeamId" db:"requesting_team_id"`
	RequestedBy      string        `json:"requestedBy" db:"requested_by"`
	Reason           *string       `json:"reason,omitempty" db:"reason"`
	Status           RequestStatus `json:"status" db:"status"`
	CreatedUTC       time.Time     `json:"createdUtc" db:"created_utc"`
	ReviewedBy       *string       `json:"reviewedBy,omitempty" db:"reviewed_by"`
	ReviewedUTC      *time.Time    `json:"reviewedUtc,omitempty" db:"reviewed_utc"`
	Version          int           `json:"version" db:"version"`
}

// Terminal reports whether the request can no longer transition.
func (r *Request) Terminal() bool {
	switch r.Status {
	case RequestStatusApproved, RequestStatusRejected, RequestStatusWithdrawn, RequestStatusSuperseded:
		return true
	default:
		return false
	}
}
