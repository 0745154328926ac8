package models

// User is the process-wide identity row the GlobalAdmin flag lives on
// (spec §4.B: "GlobalAdmin is a process-wide flag on the user row and is
// honored across all leagues"). It carries no per-league state — that
// lives on Membership.
type User struct {
	UserID      string `json:"userId" db:"user_id"`
	Email       string `json:"email" db:"email"`
	GlobalAdmin bool   `json:"globalAdmin" db:"global_admin"`
	Version     int    `json:"version" db:"version"`
}
