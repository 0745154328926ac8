package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguehub/scheduler/internal/identity"
	"github.com/leaguehub/scheduler/internal/service"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
	"github.com/leaguehub/scheduler/pkg/response"
)

// Identity headers (spec §6): "Missing user headers -> 401; missing
// league header on league-scoped routes -> 400 BAD_REQUEST."
const (
	HeaderLeagueID  = "x-league-id"
	HeaderUserID    = "x-user-id"
	HeaderUserEmail = "x-user-email"

	contextIdentityKey = "identity"
)

// ResolveIdentity extracts the identity headers, resolves them through
// identitySvc, and stores the result on the gin context. It requires
// x-user-id; it does NOT require x-league-id (some routes, like a future
// cross-league admin listing, may be league-agnostic) — use
// RequireLeagueID for routes that do.
func ResolveIdentity(identitySvc *service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		email := c.GetHeader(HeaderUserEmail)
		leagueID := c.GetHeader(HeaderLeagueID)

		id, err := identitySvc.Resolve(c.Request.Context(), userID, email, leagueID)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(contextIdentityKey, id)
		c.Next()
	}
}

// RequireLeagueID enforces the 400 BAD_REQUEST guard on league-scoped
// routes (spec §4.B RequireLeagueId).
func RequireLeagueID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(HeaderLeagueID) == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "x-league-id header is required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireLeagueAdmin enforces the 403 guard (spec §4.B RequireLeagueAdmin).
func RequireLeagueAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := Identity(c)
		if id == nil || !id.IsAdmin() {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireCoachFor enforces spec §4.B's RequireCoachFor(division, teamId)
// guard: "403 unless caller is admin or caller's Coach membership matches
// exactly." It is a plain function rather than gin middleware because
// division/teamId are usually only known after the request body is
// parsed.
func RequireCoachFor(id *identity.Identity, division, teamID string) error {
	if id == nil {
		return appErrors.ErrUnauthorized
	}
	if id.IsAdmin() || id.IsCoachFor(division, teamID) {
		return nil
	}
	return appErrors.ErrForbidden
}

// Identity returns the resolved Identity stored by ResolveIdentity, or
// nil if it was never set (e.g. the middleware was skipped in a test).
func Identity(c *gin.Context) *identity.Identity {
	v, exists := c.Get(contextIdentityKey)
	if !exists {
		return nil
	}
	id, ok := v.(*identity.Identity)
	if !ok {
		return nil
	}
	return id
}
