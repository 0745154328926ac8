package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
)

func TestRequestRepositoryCreateAndGet(t *testing.T) {
	repo := NewRequestRepository(store.NewMemoryStore())
	req := &models.Request{RequestID: "r1", LeagueID: "l1", SlotID: "s1", RequestingTeamID: "t1", Status: models.RequestStatusPending, CreatedUTC: time.Now().UTC()}
	require.NoError(t, repo.Create(context.Background(), req))

	got, err := repo.Get(context.Background(), "l1", "r1")
	require.NoError(t, err)
	assert.Equal(t, "t1", got.RequestingTeamID)
}

func TestRequestRepositoryListBySlotSortsByCreatedUTC(t *testing.T) {
	repo := NewRequestRepository(store.NewMemoryStore())
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(context.Background(), &models.Request{RequestID: "r2", LeagueID: "l1", SlotID: "s1", CreatedUTC: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(context.Background(), &models.Request{RequestID: "r1", LeagueID: "l1", SlotID: "s1", CreatedUTC: base}))
	require.NoError(t, repo.Create(context.Background(), &models.Request{RequestID: "r3", LeagueID: "l1", SlotID: "s2", CreatedUTC: base}))

	reqs, err := repo.ListBySlot(context.Background(), "l1", "s1")
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "r1", reqs[0].RequestID)
	assert.Equal(t, "r2", reqs[1].RequestID)
}

func TestRequestRepositoryCASBumpsVersion(t *testing.T) {
	repo := NewRequestRepository(store.NewMemoryStore())
	require.NoError(t, repo.Create(context.Background(), &models.Request{RequestID: "r1", LeagueID: "l1", SlotID: "s1", Status: models.RequestStatusPending, CreatedUTC: time.Now().UTC()}))

	updated, err := repo.CAS(context.Background(), "l1", "r1", 5, func(current *models.Request) (*models.Request, error) {
		current.Status = models.RequestStatusApproved
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, updated.Status)
	assert.Equal(t, 1, updated.Version)
}
