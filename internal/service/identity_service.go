package service

import (
	"context"

	"github.com/leaguehub/scheduler/internal/identity"
	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// IdentityService resolves the inbound identity headers into an
// identity.Identity, consulting the RoleCache before falling back to the
// User/Membership tables (spec §4.B, §5 shared-resource policy).
type IdentityService struct {
	users       *repository.UserRepository
	memberships *repository.MembershipRepository
	cache       *RoleCache
}

func NewIdentityService(users *repository.UserRepository, memberships *repository.MembershipRepository, cache *RoleCache) *IdentityService {
	return &IdentityService{users: users, memberships: memberships, cache: cache}
}

// Resolve returns the caller's Identity for a given league. A user with
// no Membership row in the league is a Viewer (lowest privilege), unless
// they carry the GlobalAdmin flag.
func (s *IdentityService) Resolve(ctx context.Context, userID, email, leagueID string) (*identity.Identity, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userID, leagueID); err == nil && cached != nil {
			return cached, nil
		}
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	id := &identity.Identity{
		LeagueID:    leagueID,
		UserID:      userID,
		Email:       email,
		GlobalAdmin: user.GlobalAdmin,
		Role:        models.RoleViewer,
	}

	membership, err := s.memberships.Get(ctx, userID, leagueID)
	if err != nil {
		if !appErrors.Is(err, appErrors.ErrNotFound) {
			return nil, err
		}
	} else {
		id.Role = membership.Role
		id.Division = membership.Division
		id.TeamID = membership.TeamID
		if id.Email == "" {
			id.Email = membership.Email
		}
	}

	if s.cache != nil {
		s.cache.Set(ctx, id)
	}
	return id, nil
}

// InvalidateCache evicts a cached identity so the next Resolve reads the
// live User and Membership rows instead of waiting out the cache TTL.
// It is not invoked automatically: MembershipRepository.Upsert leaves a
// cached entry in place until its TTL expires.
func (s *IdentityService) InvalidateCache(ctx context.Context, userID, leagueID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID, leagueID)
	}
}
