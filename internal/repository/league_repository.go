package repository

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

const leaguePartition = "LEAGUE"

// LeagueRepository persists League rows keyed by leagueId in a single
// global partition, matching spec §6's persisted-layout note that every
// entity kind is one partitioned table.
type LeagueRepository struct {
	store store.Store
}

func NewLeagueRepository(s store.Store) *LeagueRepository {
	return &LeagueRepository{store: s}
}

func (r *LeagueRepository) Get(ctx context.Context, leagueID string) (*models.League, error) {
	row, err := r.store.Get(ctx, leaguePartition, leagueID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "league not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load league")
	}
	var league models.League
	if err := decode(row.Data, &league); err != nil {
		return nil, err
	}
	league.Version = row.Version
	return &league, nil
}

func (r *LeagueRepository) Upsert(ctx context.Context, league *models.League) error {
	data, err := encode(league)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: leaguePartition, RowKey: league.LeagueID, Version: league.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist league")
	}
	return nil
}
