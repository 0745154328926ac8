package repository

import (
	"context"
	"sort"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// RequestRepository persists Request rows partitioned by leagueId.
type RequestRepository struct {
	store store.Store
}

func NewRequestRepository(s store.Store) *RequestRepository {
	return &RequestRepository{store: s}
}

func (r *RequestRepository) Get(ctx context.Context, leagueID, requestID string) (*models.Request, error) {
	row, err := r.store.Get(ctx, leagueID, requestID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load request")
	}
	var req models.Request
	if err := decode(row.Data, &req); err != nil {
		return nil, err
	}
	req.Version = row.Version
	return &req, nil
}

// ListBySlot returns every request ever filed against a slot, in
// deterministic createdUtc order (ties broken by requestId). Used by the
// Approve transition to supersede every other pending request on the
// same slot (spec §4.E).
func (r *RequestRepository) ListBySlot(ctx context.Context, leagueID, slotID string) ([]models.Request, error) {
	rows, err := r.store.QueryByPartition(ctx, leagueID, func(row store.Row) bool {
		var req models.Request
		if err := decode(row.Data, &req); err != nil {
			return false
		}
		return req.SlotID == slotID
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list requests for slot")
	}
	out := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		var req models.Request
		if err := decode(row.Data, &req); err != nil {
			return nil, err
		}
		req.Version = row.Version
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedUTC.Equal(out[j].CreatedUTC) {
			return out[i].CreatedUTC.Before(out[j].CreatedUTC)
		}
		return out[i].RequestID < out[j].RequestID
	})
	return out, nil
}

// ListByTeam returns a requesting team's own requests across the league.
func (r *RequestRepository) ListByTeam(ctx context.Context, leagueID, teamID string) ([]models.Request, error) {
	rows, err := r.store.QueryByPartition(ctx, leagueID, func(row store.Row) bool {
		var req models.Request
		if err := decode(row.Data, &req); err != nil {
			return false
		}
		return req.RequestingTeamID == teamID
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list requests for team")
	}
	out := make([]models.Request, 0, len(rows))
	for _, row := range rows {
		var req models.Request
		if err := decode(row.Data, &req); err != nil {
			return nil, err
		}
		req.Version = row.Version
		out = append(out, req)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedUTC.Equal(out[j].CreatedUTC) {
			return out[i].CreatedUTC.Before(out[j].CreatedUTC)
		}
		return out[i].RequestID < out[j].RequestID
	})
	return out, nil
}

// Create inserts a brand new request (version 0; requests are never
// re-created once their id is assigned).
func (r *RequestRepository) Create(ctx context.Context, req *models.Request) error {
	data, err := encode(req)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: req.LeagueID, RowKey: req.RequestID, Version: 0, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist request")
	}
	return nil
}

// MutateRequest is the CAS transform used by Approve/Reject/Withdraw.
type MutateRequest func(current *models.Request) (*models.Request, error)

// CAS performs the bounded read-mutate-write loop for a single request's
// status transition, delegating to the shared store.Retry primitive.
func (r *RequestRepository) CAS(ctx context.Context, leagueID, requestID string, maxAttempts int, mutate MutateRequest) (*models.Request, error) {
	result, err := store.Retry(ctx, r.store, leagueID, requestID, maxAttempts, func(current store.Row) (store.Row, error) {
		var req models.Request
		if err := decode(current.Data, &req); err != nil {
			return store.Row{}, err
		}
		req.Version = current.Version
		next, err := mutate(&req)
		if err != nil {
			return store.Row{}, err
		}
		data, err := encode(next)
		if err != nil {
			return store.Row{}, err
		}
		return store.Row{Data: data}, nil
	})
	if err != nil {
		if err == store.ErrRetryExhausted {
			return nil, appErrors.ErrConflictRetryExhausted
		}
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		}
		return nil, err
	}
	var req models.Request
	if err := decode(result.Data, &req); err != nil {
		return nil, err
	}
	req.Version = result.Version
	return &req, nil
}
