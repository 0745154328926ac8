package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/leaguehub/scheduler/internal/identity"
	"github.com/leaguehub/scheduler/internal/middleware"
	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// SlotService is the handler-facing entry point for slot CRUD (create,
// list, update, cancel), wrapping SlotRepository with the RBAC checks
// spec §4.B/§4.D name and feeding the metrics counters SPEC_FULL.md adds.
type SlotService struct {
	slots       *repository.SlotRepository
	metrics     *MetricsService
	casAttempts int
}

func NewSlotService(slots *repository.SlotRepository, metrics *MetricsService, casAttempts int) *SlotService {
	if casAttempts <= 0 {
		casAttempts = 5
	}
	return &SlotService{slots: slots, metrics: metrics, casAttempts: casAttempts}
}

// CreateSlotInput is the input to Create.
type CreateSlotInput struct {
	LeagueID       string
	Division       string
	FieldKey       string
	GameDate       string
	StartTime      int
	EndTime        int
	GameType       models.GameType
	OfferingTeamID *string
}

// Create validates the caller (admin, or the offering coach for their own
// team), then persists the slot through the overlap guard.
func (s *SlotService) Create(ctx context.Context, id *identity.Identity, in CreateSlotInput) (*models.Slot, error) {
	if !id.IsAdmin() {
		if in.OfferingTeamID == nil {
			return nil, appErrors.ErrForbidden
		}
		if err := middleware.RequireCoachFor(id, in.Division, *in.OfferingTeamID); err != nil {
			return nil, err
		}
	}

	slot := &models.Slot{
		SlotID:         uuid.NewString(),
		LeagueID:       in.LeagueID,
		Division:       in.Division,
		FieldKey:       in.FieldKey,
		GameDate:       in.GameDate,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		GameType:       in.GameType,
		OfferingTeamID: in.OfferingTeamID,
		Status:         models.SlotStatusOpen,
	}

	if err := s.slots.Create(ctx, slot, s.casAttempts); err != nil {
		if appErrors.Is(err, appErrors.ErrSlotConflict) {
			s.metrics.IncSlotConflict()
		}
		if appErrors.Is(err, appErrors.ErrConflictRetryExhausted) {
			s.metrics.IncCASRetryExhausted("slot.create")
		}
		return nil, err
	}
	return slot, nil
}

// List returns slots for a division, optionally filtered by status.
func (s *SlotService) List(ctx context.Context, leagueID, division string, status *models.SlotStatus) ([]models.Slot, error) {
	return s.slots.ListByDivision(ctx, leagueID, division, status)
}

// Get returns a single slot.
func (s *SlotService) Get(ctx context.Context, leagueID, slotID string) (*models.Slot, error) {
	return s.slots.Get(ctx, leagueID, slotID)
}

// UpdateFieldTime lets an admin, or the offering coach before Confirmed,
// move a slot to a new (fieldKey, gameDate, startTime, endTime). The move
// re-runs the same overlap guard Create enforces against the destination
// (fieldKey, gameDate) summary row before releasing the slot's old
// reservation and committing the new time/field; callers needing to
// preserve status transitions should use the request state machine
// instead.
func (s *SlotService) UpdateFieldTime(ctx context.Context, id *identity.Identity, leagueID, slotID string, fieldKey, gameDate string, startTime, endTime int) (*models.Slot, error) {
	slot, err := s.slots.Get(ctx, leagueID, slotID)
	if err != nil {
		return nil, err
	}
	if !id.IsAdmin() {
		if slot.OfferingTeamID == nil || !id.IsCoachFor(slot.Division, *slot.OfferingTeamID) {
			return nil, appErrors.ErrForbidden
		}
		if slot.Status == models.SlotStatusConfirmed {
			return nil, appErrors.ErrForbidden
		}
	}
	if err := repository.TryParseMinutesRange(startTime, endTime); err != nil {
		return nil, err
	}
	return s.slots.Move(ctx, leagueID, slotID, fieldKey, gameDate, startTime, endTime, s.casAttempts)
}
