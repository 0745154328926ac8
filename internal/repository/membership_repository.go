package repository

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// MembershipRepository persists Membership rows partitioned by userId and
// row-keyed by leagueId, exactly as spec §6 names it ("userId for
// Memberships").
type MembershipRepository struct {
	store store.Store
}

func NewMembershipRepository(s store.Store) *MembershipRepository {
	return &MembershipRepository{store: s}
}

// Get returns the caller's membership for a given league, or ErrNotFound
// (wrapped) if the user has no membership there.
func (r *MembershipRepository) Get(ctx context.Context, userID, leagueID string) (*models.Membership, error) {
	row, err := r.store.Get(ctx, userID, leagueID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "membership not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load membership")
	}
	var m models.Membership
	if err := decode(row.Data, &m); err != nil {
		return nil, err
	}
	m.Version = row.Version
	return &m, nil
}

func (r *MembershipRepository) Upsert(ctx context.Context, m *models.Membership) error {
	data, err := encode(m)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: m.UserID, RowKey: m.LeagueID, Version: m.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist membership")
	}
	return nil
}
