package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leaguehub/scheduler/internal/dto"
	"github.com/leaguehub/scheduler/internal/service"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
	"github.com/leaguehub/scheduler/pkg/response"
)

// SlotHandler handles the /slots endpoints (spec §6).
type SlotHandler struct {
	slots    *service.SlotService
	requests *service.RequestService
}

func NewSlotHandler(slots *service.SlotService, requests *service.RequestService) *SlotHandler {
	return &SlotHandler{slots: slots, requests: requests}
}

// List handles GET /slots?division=&status=.
func (h *SlotHandler) List(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	division := c.Query("division")
	if division == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "division query parameter is required"))
		return
	}
	slots, err := h.slots.List(c.Request.Context(), id.LeagueID, division, slotStatusQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Create handles POST /slots.
func (h *SlotHandler) Create(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.slots.Create(c.Request.Context(), id, service.CreateSlotInput{
		LeagueID:       id.LeagueID,
		Division:       req.Division,
		FieldKey:       req.FieldKey,
		GameDate:       req.GameDate,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		GameType:       req.GameType,
		OfferingTeamID: req.OfferingTeamID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// Update handles PATCH /slots/{slotId}.
func (h *SlotHandler) Update(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	slot, err := h.slots.UpdateFieldTime(c.Request.Context(), id, id.LeagueID, c.Param("slotId"), req.FieldKey, req.GameDate, req.StartTime, req.EndTime)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// Cancel handles DELETE /slots/{slotId}.
func (h *SlotHandler) Cancel(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	slot, err := h.requests.CancelSlot(c.Request.Context(), id, id.LeagueID, c.Param("slotId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}
