package repository

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// DivisionRepository persists Division rows partitioned by leagueId.
type DivisionRepository struct {
	store store.Store
}

func NewDivisionRepository(s store.Store) *DivisionRepository {
	return &DivisionRepository{store: s}
}

func (r *DivisionRepository) Get(ctx context.Context, leagueID, code string) (*models.Division, error) {
	row, err := r.store.Get(ctx, leagueID, code)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "division not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load division")
	}
	var division models.Division
	if err := decode(row.Data, &division); err != nil {
		return nil, err
	}
	division.Version = row.Version
	return &division, nil
}

func (r *DivisionRepository) ListByLeague(ctx context.Context, leagueID string) ([]models.Division, error) {
	rows, err := r.store.QueryByPartition(ctx, leagueID, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list divisions")
	}
	out := make([]models.Division, 0, len(rows))
	for _, row := range rows {
		var d models.Division
		if err := decode(row.Data, &d); err != nil {
			return nil, err
		}
		d.Version = row.Version
		out = append(out, d)
	}
	return out, nil
}

func (r *DivisionRepository) Upsert(ctx context.Context, division *models.Division) error {
	data, err := encode(division)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: division.LeagueID, RowKey: division.Code, Version: division.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist division")
	}
	return nil
}
