package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leaguehub/scheduler/internal/identity"
	"github.com/leaguehub/scheduler/internal/middleware"
	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// RequestService implements the Request/Slot state machine (spec §4.E):
// create/approve/reject/cancel, with the at-most-one-Approved-per-slot
// guarantee enforced by a CAS sequence on the slot row, not a
// request-level lock.
type RequestService struct {
	slots       *repository.SlotRepository
	requests    *repository.RequestRepository
	casAttempts int
}

func NewRequestService(slots *repository.SlotRepository, requests *repository.RequestRepository, casAttempts int) *RequestService {
	if casAttempts <= 0 {
		casAttempts = 5
	}
	return &RequestService{slots: slots, requests: requests, casAttempts: casAttempts}
}

// CreateRequestInput is the input to Create.
type CreateRequestInput struct {
	LeagueID         string
	SlotID           string
	RequestingTeamID string
	Reason           *string
}

// Create files a new request. The caller must be a Coach whose
// membership matches (division, teamId) of the requesting team; the
// target slot must be Open or Pending.
func (s *RequestService) Create(ctx context.Context, id *identity.Identity, division string, in CreateRequestInput) (*models.Request, error) {
	if err := middleware.RequireCoachFor(id, division, in.RequestingTeamID); err != nil {
		return nil, err
	}

	slot, err := s.slots.Get(ctx, in.LeagueID, in.SlotID)
	if err != nil {
		return nil, err
	}
	if slot.Status != models.SlotStatusOpen && slot.Status != models.SlotStatusPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slot is not open for requests")
	}

	existing, err := s.requests.ListBySlot(ctx, in.LeagueID, in.SlotID)
	if err != nil {
		return nil, err
	}
	for _, req := range existing {
		if req.Status == models.RequestStatusPending && req.RequestingTeamID == in.RequestingTeamID {
			return nil, appErrors.Clone(appErrors.ErrBadRequest, "team already has a pending request for this slot")
		}
	}

	req := &models.Request{
		RequestID:        uuid.NewString(),
		LeagueID:         in.LeagueID,
		SlotID:           in.SlotID,
		RequestingTeamID: in.RequestingTeamID,
		RequestedBy:      id.UserID,
		Reason:           in.Reason,
		Status:           models.RequestStatusPending,
		CreatedUTC:       time.Now().UTC(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	if slot.Status == models.SlotStatusOpen {
		if _, err := s.slots.CAS(ctx, in.LeagueID, in.SlotID, s.casAttempts, func(current *models.Slot) (*models.Slot, error) {
			if current.Status == models.SlotStatusOpen {
				current.Status = models.SlotStatusPending
			}
			return current, nil
		}); err != nil {
			return nil, err
		}
	}

	return req, nil
}

// Approve implements the §4.E Approve transition. When the slot's
// GameType is Practice, a caller whose role in this league is Coach is
// forbidden even if GlobalAdmin is set; otherwise the caller must be an
// admin.
func (s *RequestService) Approve(ctx context.Context, id *identity.Identity, leagueID, requestID string) (*models.Request, error) {
	req, err := s.requests.Get(ctx, leagueID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request is already in a terminal state")
	}

	slot, err := s.slots.Get(ctx, leagueID, req.SlotID)
	if err != nil {
		return nil, err
	}

	if slot.GameType == models.GameTypePractice && id.Role == models.RoleCoach {
		return nil, appErrors.ErrForbidden
	}
	if !id.IsAdmin() {
		return nil, appErrors.ErrForbidden
	}

	if slot.Status == models.SlotStatusConfirmed {
		if slot.ConfirmedTeamID == nil || *slot.ConfirmedTeamID != req.RequestingTeamID {
			return nil, appErrors.ErrSlotAlreadyConfirmed
		}
	}

	teamID := req.RequestingTeamID
	if _, err := s.slots.CAS(ctx, leagueID, req.SlotID, s.casAttempts, func(current *models.Slot) (*models.Slot, error) {
		if current.Status != models.SlotStatusOpen && current.Status != models.SlotStatusPending {
			if current.Status == models.SlotStatusConfirmed && current.ConfirmedTeamID != nil && *current.ConfirmedTeamID == teamID {
				return current, nil
			}
			return nil, appErrors.ErrSlotAlreadyConfirmed
		}
		current.Status = models.SlotStatusConfirmed
		current.ConfirmedTeamID = &teamID
		return current, nil
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reviewer := id.UserID
	approved, err := s.requests.CAS(ctx, leagueID, requestID, s.casAttempts, func(current *models.Request) (*models.Request, error) {
		current.Status = models.RequestStatusApproved
		current.ReviewedBy = &reviewer
		current.ReviewedUTC = &now
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	siblings, err := s.requests.ListBySlot(ctx, leagueID, req.SlotID)
	if err != nil {
		return approved, nil
	}
	for _, sibling := range siblings {
		if sibling.RequestID == requestID || sibling.Status != models.RequestStatusPending {
			continue
		}
		_, _ = s.requests.CAS(ctx, leagueID, sibling.RequestID, s.casAttempts, func(current *models.Request) (*models.Request, error) {
			current.Status = models.RequestStatusSuperseded
			current.ReviewedBy = &reviewer
			current.ReviewedUTC = &now
			return current, nil
		})
	}

	return approved, nil
}

// Reject implements the §4.E Reject transition: marks the request
// Rejected and, if no other Pending request remains for the slot,
// returns the slot to Open.
func (s *RequestService) Reject(ctx context.Context, id *identity.Identity, leagueID, requestID string) (*models.Request, error) {
	if !id.IsAdmin() {
		return nil, appErrors.ErrForbidden
	}
	req, err := s.requests.Get(ctx, leagueID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request is already in a terminal state")
	}

	now := time.Now().UTC()
	reviewer := id.UserID
	rejected, err := s.requests.CAS(ctx, leagueID, requestID, s.casAttempts, func(current *models.Request) (*models.Request, error) {
		current.Status = models.RequestStatusRejected
		current.ReviewedBy = &reviewer
		current.ReviewedUTC = &now
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	siblings, err := s.requests.ListBySlot(ctx, leagueID, req.SlotID)
	if err != nil {
		return rejected, nil
	}
	hasPending := false
	for _, sibling := range siblings {
		if sibling.Status == models.RequestStatusPending {
			hasPending = true
			break
		}
	}
	if !hasPending {
		_, _ = s.slots.CAS(ctx, leagueID, req.SlotID, s.casAttempts, func(current *models.Slot) (*models.Slot, error) {
			if current.Status == models.SlotStatusPending {
				current.Status = models.SlotStatusOpen
			}
			return current, nil
		})
	}

	return rejected, nil
}

// Withdraw lets the requesting coach withdraw their own Pending request.
func (s *RequestService) Withdraw(ctx context.Context, id *identity.Identity, leagueID, requestID string) (*models.Request, error) {
	req, err := s.requests.Get(ctx, leagueID, requestID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() && id.TeamID == nil {
		return nil, appErrors.ErrForbidden
	}
	if !id.IsAdmin() && (*id.TeamID != req.RequestingTeamID) {
		return nil, appErrors.ErrForbidden
	}
	if req.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrConflict, "request is already in a terminal state")
	}

	withdrawn, err := s.requests.CAS(ctx, leagueID, requestID, s.casAttempts, func(current *models.Request) (*models.Request, error) {
		current.Status = models.RequestStatusWithdrawn
		return current, nil
	})
	if err != nil {
		return nil, err
	}

	siblings, err := s.requests.ListBySlot(ctx, leagueID, req.SlotID)
	if err != nil {
		return withdrawn, nil
	}
	hasPending := false
	for _, sibling := range siblings {
		if sibling.Status == models.RequestStatusPending {
			hasPending = true
			break
		}
	}
	if !hasPending {
		_, _ = s.slots.CAS(ctx, leagueID, req.SlotID, s.casAttempts, func(current *models.Slot) (*models.Slot, error) {
			if current.Status == models.SlotStatusPending {
				current.Status = models.SlotStatusOpen
			}
			return current, nil
		})
	}

	return withdrawn, nil
}

// CancelSlot implements the §4.E cancel transition: permitted for admins
// always, and for the offering coach only before Confirmed. Terminal.
func (s *RequestService) CancelSlot(ctx context.Context, id *identity.Identity, leagueID, slotID string) (*models.Slot, error) {
	slot, err := s.slots.Get(ctx, leagueID, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status == models.SlotStatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slot is already cancelled")
	}

	isOfferingCoach := slot.OfferingTeamID != nil && id.IsCoachFor(slot.Division, *slot.OfferingTeamID)
	if !id.IsAdmin() {
		if !isOfferingCoach {
			return nil, appErrors.ErrForbidden
		}
		if slot.Status == models.SlotStatusConfirmed {
			return nil, appErrors.ErrForbidden
		}
	}

	return s.slots.CAS(ctx, leagueID, slotID, s.casAttempts, func(current *models.Slot) (*models.Slot, error) {
		current.Status = models.SlotStatusCancelled
		return current, nil
	})
}
