package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

func newSlotRepo() *SlotRepository {
	return NewSlotRepository(store.NewMemoryStore(), store.NewMemoryStore())
}

func TestTryParseMinutesRangeRejectsInverted(t *testing.T) {
	assert.Error(t, TryParseMinutesRange(600, 600))
	assert.Error(t, TryParseMinutesRange(700, 600))
	assert.NoError(t, TryParseMinutesRange(600, 660))
}

func TestSlotRepositoryCreateAndGet(t *testing.T) {
	repo := newSlotRepo()
	slot := &models.Slot{SlotID: "slot-1", LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01", StartTime: 600, EndTime: 660, GameType: models.GameTypeGame, Status: models.SlotStatusOpen}

	require.NoError(t, repo.Create(context.Background(), slot, 5))

	got, err := repo.Get(context.Background(), "league-1", "slot-1")
	require.NoError(t, err)
	assert.Equal(t, "park/1", got.FieldKey)
	assert.Equal(t, 0, got.Version)
}

func TestSlotRepositoryCreateRejectsOverlap(t *testing.T) {
	repo := newSlotRepo()
	first := &models.Slot{SlotID: "slot-1", LeagueID: "league-1", FieldKey: "park/1", GameDate: "2026-04-01", StartTime: 600, EndTime: 660, Status: models.SlotStatusOpen}
	require.NoError(t, repo.Create(context.Background(), first, 5))

	second := &models.Slot{SlotID: "slot-2", LeagueID: "league-1", FieldKey: "park/1", GameDate: "2026-04-01", StartTime: 630, EndTime: 690, Status: models.SlotStatusOpen}
	err := repo.Create(context.Background(), second, 5)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSlotConflict))
}

func TestSlotRepositoryCreateAllowsTouchingRanges(t *testing.T) {
	repo := newSlotRepo()
	first := &models.Slot{SlotID: "slot-1", LeagueID: "league-1", FieldKey: "park/1", GameDate: "2026-04-01", StartTime: 600, EndTime: 660, Status: models.SlotStatusOpen}
	require.NoError(t, repo.Create(context.Background(), first, 5))

	second := &models.Slot{SlotID: "slot-2", LeagueID: "league-1", FieldKey: "park/1", GameDate: "2026-04-01", StartTime: 660, EndTime: 720, Status: models.SlotStatusOpen}
	assert.NoError(t, repo.Create(context.Background(), second, 5))
}

func TestSlotRepositoryCASTransitionsStatus(t *testing.T) {
	repo := newSlotRepo()
	slot := &models.Slot{SlotID: "slot-1", LeagueID: "league-1", FieldKey: "park/1", GameDate: "2026-04-01", StartTime: 600, EndTime: 660, Status: models.SlotStatusOpen}
	require.NoError(t, repo.Create(context.Background(), slot, 5))

	updated, err := repo.CAS(context.Background(), "league-1", "slot-1", 5, func(current *models.Slot) (*models.Slot, error) {
		current.Status = models.SlotStatusPending
		return current, nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusPending, updated.Status)
	assert.Equal(t, 1, updated.Version)
}

func TestSlotRepositoryListByDivisionFiltersAndSorts(t *testing.T) {
	repo := newSlotRepo()
	open := models.SlotStatusOpen
	require.NoError(t, repo.Create(context.Background(), &models.Slot{SlotID: "s1", LeagueID: "l1", Division: "U10", FieldKey: "b", GameDate: "2026-04-02", StartTime: 600, EndTime: 660, Status: models.SlotStatusOpen}, 5))
	require.NoError(t, repo.Create(context.Background(), &models.Slot{SlotID: "s2", LeagueID: "l1", Division: "U10", FieldKey: "a", GameDate: "2026-04-01", StartTime: 600, EndTime: 660, Status: models.SlotStatusOpen}, 5))
	require.NoError(t, repo.Create(context.Background(), &models.Slot{SlotID: "s3", LeagueID: "l1", Division: "U12", FieldKey: "a", GameDate: "2026-04-01", StartTime: 600, EndTime: 660, Status: models.SlotStatusOpen}, 5))

	slots, err := repo.ListByDivision(context.Background(), "l1", "U10", &open)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "s2", slots[0].SlotID)
	assert.Equal(t, "s1", slots[1].SlotID)
}
