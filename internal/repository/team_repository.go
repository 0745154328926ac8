package repository

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// TeamRepository persists Team rows partitioned by leagueId.
type TeamRepository struct {
	store store.Store
}

func NewTeamRepository(s store.Store) *TeamRepository {
	return &TeamRepository{store: s}
}

func (r *TeamRepository) Get(ctx context.Context, leagueID, teamID string) (*models.Team, error) {
	row, err := r.store.Get(ctx, leagueID, teamID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load team")
	}
	var team models.Team
	if err := decode(row.Data, &team); err != nil {
		return nil, err
	}
	team.Version = row.Version
	return &team, nil
}

func (r *TeamRepository) ListByDivision(ctx context.Context, leagueID, division string) ([]models.Team, error) {
	rows, err := r.store.QueryByPartition(ctx, leagueID, func(row store.Row) bool {
		var t models.Team
		if err := decode(row.Data, &t); err != nil {
			return false
		}
		return t.Division == division
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list teams")
	}
	out := make([]models.Team, 0, len(rows))
	for _, row := range rows {
		var t models.Team
		if err := decode(row.Data, &t); err != nil {
			return nil, err
		}
		t.Version = row.Version
		out = append(out, t)
	}
	return out, nil
}

func (r *TeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	data, err := encode(team)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: team.LeagueID, RowKey: team.TeamID, Version: team.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist team")
	}
	return nil
}
