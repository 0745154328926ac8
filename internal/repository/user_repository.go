package repository

import (
	"context"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

const userPartition = "USER"

// UserRepository persists User rows in a single fixed partition, keyed by
// userId. There are few enough process-wide users that a single
// partition's ordering cost is a non-issue (see spec §9 on sorted
// iteration determinism).
type UserRepository struct {
	store store.Store
}

func NewUserRepository(s store.Store) *UserRepository {
	return &UserRepository{store: s}
}

// Get returns the user row, or a zero-value (non-admin) User if none
// exists yet: an unregistered caller is simply not a GlobalAdmin.
func (r *UserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	row, err := r.store.Get(ctx, userPartition, userID)
	if err == store.ErrNotFound {
		return &models.User{UserID: userID}, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to load user")
	}
	var u models.User
	if err := decode(row.Data, &u); err != nil {
		return nil, err
	}
	u.Version = row.Version
	return &u, nil
}

func (r *UserRepository) Upsert(ctx context.Context, u *models.User) error {
	data, err := encode(u)
	if err != nil {
		return err
	}
	if err := r.store.Upsert(ctx, store.Row{Partition: userPartition, RowKey: u.UserID, Version: u.Version, Data: data}); err != nil {
		return appErrors.Wrap(err, appErrors.ErrStorageError.Code, appErrors.ErrStorageError.Status, "failed to persist user")
	}
	return nil
}
