package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/leaguehub/scheduler/internal/identity"
	"github.com/leaguehub/scheduler/internal/middleware"
	"github.com/leaguehub/scheduler/internal/models"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
)

// callerIdentity fetches the resolved Identity set by
// middleware.ResolveIdentity, or returns ErrUnauthorized if it was never
// set (defensive: every route group mounts ResolveIdentity first).
func callerIdentity(c *gin.Context) (*identity.Identity, error) {
	id := middleware.Identity(c)
	if id == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return id, nil
}

// slotStatusQuery parses the optional ?status= filter into a
// *models.SlotStatus, or nil if absent.
func slotStatusQuery(c *gin.Context) *models.SlotStatus {
	raw := c.Query("status")
	if raw == "" {
		return nil
	}
	status := models.SlotStatus(raw)
	return &status
}
