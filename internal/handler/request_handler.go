package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leaguehub/scheduler/internal/dto"
	"github.com/leaguehub/scheduler/internal/service"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
	"github.com/leaguehub/scheduler/pkg/response"
)

// RequestHandler handles both /requests and /practice-requests with the
// same methods; the route does not change behavior. The practice-specific
// approval restriction is decided in RequestService.Approve from the
// slot's GameType.
type RequestHandler struct {
	requests *service.RequestService
}

func NewRequestHandler(requests *service.RequestService) *RequestHandler {
	return &RequestHandler{requests: requests}
}

// Create handles POST /requests and POST /practice-requests.
func (h *RequestHandler) Create(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	created, err := h.requests.Create(c.Request.Context(), id, req.Division, service.CreateRequestInput{
		LeagueID:         id.LeagueID,
		SlotID:           req.SlotID,
		RequestingTeamID: req.RequestingTeamID,
		Reason:           req.Reason,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Approve handles PATCH /requests/{id}/approve and
// PATCH /practice-requests/{id}/approve.
func (h *RequestHandler) Approve(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.requests.Approve(c.Request.Context(), id, id.LeagueID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}

// Reject handles PATCH /requests/{id}/reject and
// PATCH /practice-requests/{id}/reject.
func (h *RequestHandler) Reject(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.requests.Reject(c.Request.Context(), id, id.LeagueID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}

// Withdraw handles PATCH /requests/{id}/withdraw (coach-initiated; not a
// core §6 route but a natural counterpart the state machine already
// supports).
func (h *RequestHandler) Withdraw(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	req, err := h.requests.Withdraw(c.Request.Context(), id, id.LeagueID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, req, nil)
}
