package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehub/scheduler/internal/identity"
	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	"github.com/leaguehub/scheduler/internal/store"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

func newSlotServiceFixture() *SlotService {
	slots := repository.NewSlotRepository(store.NewMemoryStore(), store.NewMemoryStore())
	return NewSlotService(slots, NewMetricsService(), 5)
}


func TestSlotServiceCreateAsOfferingCoachSucceeds(t *testing.T) {
	svc := newSlotServiceFixture()
	id := &identity.Identity{LeagueID: "league-1", Role: models.RoleCoach, Division: strp("U10"), TeamID: strp("team-a")}

	slot, err := svc.Create(context.Background(), id, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame, OfferingTeamID: strp("team-a"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.SlotStatusOpen, slot.Status)
}

func TestSlotServiceCreateAsCoachWithoutOfferingTeamIsForbidden(t *testing.T) {
	svc := newSlotServiceFixture()
	id := &identity.Identity{LeagueID: "league-1", Role: models.RoleCoach, Division: strp("U10"), TeamID: strp("team-a")}

	_, err := svc.Create(context.Background(), id, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestSlotServiceCreateOverlapReturnsConflictAndIncrementsMetric(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	_, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 630, EndTime: 690, GameType: models.GameTypeGame,
	})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSlotConflict))
}

func TestSlotServiceUpdateFieldTimeByAdminSucceeds(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	slot, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateFieldTime(context.Background(), admin, "league-1", slot.SlotID, "park/2", "2026-04-02", 700, 760)
	require.NoError(t, err)
	assert.Equal(t, "park/2", updated.FieldKey)
	assert.Equal(t, "2026-04-02", updated.GameDate)
	assert.Equal(t, 700, updated.StartTime)
}

func TestSlotServiceUpdateFieldTimeByNonOfferingCoachIsForbidden(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	slot, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame, OfferingTeamID: strp("team-a"),
	})
	require.NoError(t, err)

	other := &identity.Identity{LeagueID: "league-1", Role: models.RoleCoach, Division: strp("U10"), TeamID: strp("team-b")}
	_, err = svc.UpdateFieldTime(context.Background(), other, "league-1", slot.SlotID, "park/2", "2026-04-02", 700, 760)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestSlotServiceUpdateFieldTimeOnConfirmedSlotByCoachIsForbidden(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	slot, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame, OfferingTeamID: strp("team-a"),
	})
	require.NoError(t, err)

	_, err = svc.slots.CAS(context.Background(), "league-1", slot.SlotID, 5, func(current *models.Slot) (*models.Slot, error) {
		current.Status = models.SlotStatusConfirmed
		return current, nil
	})
	require.NoError(t, err)

	coach := &identity.Identity{LeagueID: "league-1", Role: models.RoleCoach, Division: strp("U10"), TeamID: strp("team-a")}
	_, err = svc.UpdateFieldTime(context.Background(), coach, "league-1", slot.SlotID, "park/3", "2026-04-03", 600, 660)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))
}

func TestSlotServiceUpdateFieldTimeOntoOverlappingDestinationIsRejected(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	_, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/2", GameDate: "2026-04-02",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)

	movable, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)

	_, err = svc.UpdateFieldTime(context.Background(), admin, "league-1", movable.SlotID, "park/2", "2026-04-02", 630, 690)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrSlotConflict))

	unchanged, err := svc.Get(context.Background(), "league-1", movable.SlotID)
	require.NoError(t, err)
	assert.Equal(t, "park/1", unchanged.FieldKey)
	assert.Equal(t, "2026-04-01", unchanged.GameDate)
}

func TestSlotServiceUpdateFieldTimeWithinSameSlotTimeWindowSucceeds(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	slot, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)

	moved, err := svc.UpdateFieldTime(context.Background(), admin, "league-1", slot.SlotID, "park/1", "2026-04-01", 630, 690)
	require.NoError(t, err)
	assert.Equal(t, 630, moved.StartTime)

	other, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 630, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, other.SlotID)
}

func TestSlotServiceUpdateFieldTimeRejectsInvalidRange(t *testing.T) {
	svc := newSlotServiceFixture()
	admin := &identity.Identity{LeagueID: "league-1", Role: models.RoleLeagueAdmin}

	slot, err := svc.Create(context.Background(), admin, CreateSlotInput{
		LeagueID: "league-1", Division: "U10", FieldKey: "park/1", GameDate: "2026-04-01",
		StartTime: 600, EndTime: 660, GameType: models.GameTypeGame,
	})
	require.NoError(t, err)

	_, err = svc.UpdateFieldTime(context.Background(), admin, "league-1", slot.SlotID, "park/1", "2026-04-01", 700, 650)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}
