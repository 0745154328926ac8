package models

// Field is a schedulable location. FieldKey is an opaque "park/field"
// string used as the partition key for overlap checks (spec §4.D).
type Field struct {
	LeagueID    string `json:"leagueId" db:"league_id"`
	FieldKey    string `json:"fieldKey" db:"field_key"`
	Location    string `json:"location" db:"location"`
	FieldName   string `json:"fieldName" db:"field_name"`
	DisplayName string `json:"displayName" db:"display_name"`
	Version     int    `json:"version" db:"version"`
}
