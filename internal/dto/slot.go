package dto

import "github.com/leaguehub/scheduler/internal/models"

// CreateSlotRequest is the POST /slots payload.
type CreateSlotRequest struct {
	Division       string          `json:"division" binding:"required"`
	FieldKey       string          `json:"fieldKey" binding:"required"`
	GameDate       string          `json:"gameDate" binding:"required"`
	StartTime      int             `json:"startTime"`
	EndTime        int             `json:"endTime"`
	GameType       models.GameType `json:"gameType" binding:"required"`
	OfferingTeamID *string         `json:"offeringTeamId,omitempty"`
}

// UpdateSlotRequest is the PATCH /slots/{slotId} payload.
type UpdateSlotRequest struct {
	FieldKey  string `json:"fieldKey" binding:"required"`
	GameDate  string `json:"gameDate" binding:"required"`
	StartTime int    `json:"startTime"`
	EndTime   int    `json:"endTime"`
}
