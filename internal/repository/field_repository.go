package repository

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// FieldRepository persists Field rows partitioned by leagueId.
type FieldRepository struct {
	store store.Store
}

func NewFieldRepository(s store.Store) *FieldRepository {
	return &FieldRepository{store: s}
}

func (r *FieldRepository) Get(ctx context.Context, leagueID, fieldKey string) (*models.Field, error) {
	row, err := r.store.Get(ctx, leagueID, fieldKey)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "field not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load field")
	}
	var field models.Field
	if err := decode(row.Data, &field); err != nil {
		return nil, err
	}
	field.Version = row.Version
	return &field, nil
}

func (r *FieldRepository) ListByLeague(ctx context.Context, leagueID string) ([]models.Field, error) {
	rows, err := r.store.QueryByPartition(ctx, leagueID, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to list fields")
	}
	out := make([]models.Field, 0, len(rows))
	for _, row := range rows {
		var f models.Field
		if err := decode(row.Data, &f); err != nil {
			return nil, err
		}
		f.Version = row.Version
		out = append(out, f)
	}
	return out, nil
}

func (r *FieldRepository) Upsert(ctx context.Context, field *models.Field) error {
	data, err := encode(field)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: field.LeagueID, RowKey: field.FieldKey, Version: field.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist field")
	}
	return nil
}
