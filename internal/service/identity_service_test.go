package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	"github.com/leaguehub/scheduler/internal/store"
)

func newIdentityFixture(t *testing.T, withCache bool) (*IdentityService, *repository.UserRepository, *repository.MembershipRepository) {
	t.Helper()
	users := repository.NewUserRepository(store.NewMemoryStore())
	memberships := repository.NewMembershipRepository(store.NewMemoryStore())

	var cache *RoleCache
	if withCache {
		// a nil redis client makes the cache behave as permanently empty:
		// every Get is a miss and every Set is a no-op, which is enough to
		// exercise the cache-present-but-unreachable code path without a
		// real redis server.
		cache = NewRoleCache(nil, time.Minute)
	}
	return NewIdentityService(users, memberships, cache), users, memberships
}

func TestIdentityServiceResolvesViewerWithNoMembership(t *testing.T) {
	svc, users, _ := newIdentityFixture(t, false)
	require.NoError(t, users.Upsert(context.Background(), &models.User{UserID: "u1", Email: "u1@example.com"}))

	id, err := svc.Resolve(context.Background(), "u1", "u1@example.com", "league-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, id.Role)
	assert.False(t, id.GlobalAdmin)
}

func TestIdentityServiceResolvesMembershipRole(t *testing.T) {
	svc, users, memberships := newIdentityFixture(t, false)
	require.NoError(t, users.Upsert(context.Background(), &models.User{UserID: "u1", Email: "u1@example.com"}))
	division, teamID := "U10", "team-a"
	require.NoError(t, memberships.Upsert(context.Background(), &models.Membership{UserID: "u1", LeagueID: "league-1", Role: models.RoleCoach, Division: &division, TeamID: &teamID}))

	id, err := svc.Resolve(context.Background(), "u1", "u1@example.com", "league-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleCoach, id.Role)
	require.NotNil(t, id.Division)
	assert.Equal(t, "U10", *id.Division)
	assert.True(t, id.IsCoachFor("U10", "team-a"))
}

func TestIdentityServiceGlobalAdminOverridesEvenWithoutMembership(t *testing.T) {
	svc, users, _ := newIdentityFixture(t, false)
	require.NoError(t, users.Upsert(context.Background(), &models.User{UserID: "u1", Email: "u1@example.com", GlobalAdmin: true}))

	id, err := svc.Resolve(context.Background(), "u1", "u1@example.com", "league-1")
	require.NoError(t, err)
	assert.True(t, id.GlobalAdmin)
	assert.True(t, id.IsAdmin())
}

func TestIdentityServiceFallsThroughToLiveReadOnUnreachableCache(t *testing.T) {
	svc, users, memberships := newIdentityFixture(t, true)
	require.NoError(t, users.Upsert(context.Background(), &models.User{UserID: "u1", Email: "u1@example.com"}))
	require.NoError(t, memberships.Upsert(context.Background(), &models.Membership{UserID: "u1", LeagueID: "league-1", Role: models.RoleLeagueAdmin}))

	id, err := svc.Resolve(context.Background(), "u1", "u1@example.com", "league-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleLeagueAdmin, id.Role)

	// InvalidateCache on a nil client must not panic.
	svc.InvalidateCache(context.Background(), "u1", "league-1")
}

func TestIdentityServiceResolvesUnregisteredUserAsViewer(t *testing.T) {
	svc, _, _ := newIdentityFixture(t, false)
	id, err := svc.Resolve(context.Background(), "missing", "", "league-1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, id.Role)
	assert.False(t, id.GlobalAdmin)
}
