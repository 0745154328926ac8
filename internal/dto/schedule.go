package dto

import "github.com/leaguehub/scheduler/internal/models"

// GenerateScheduleRequest is the POST /schedule/preview and
// POST /schedule/apply payload (spec §4.F).
type GenerateScheduleRequest struct {
	Division      string                     `json:"division" binding:"required"`
	Teams         []string                   `json:"teams" binding:"required"`
	Constraints   models.GeneratorConstraints `json:"constraints"`
	PreferredDays []models.Weekday           `json:"preferredDays,omitempty"`
}
