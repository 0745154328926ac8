package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leaguehub/scheduler/internal/dto"
	"github.com/leaguehub/scheduler/internal/models"
	"github.com/leaguehub/scheduler/internal/repository"
	"github.com/leaguehub/scheduler/internal/service"
	appErrors "github.com/leaguehub/scheduler/pkg/errors"
	"github.com/leaguehub/scheduler/pkg/response"
)

// ScheduleHandler handles /schedule/preview, /schedule/apply, and
// /schedule/export (spec §6).
type ScheduleHandler struct {
	generator *service.ScheduleGeneratorService
	slots     *repository.SlotRepository
	export    *service.ExportService
	metrics   *service.MetricsService
}

func NewScheduleHandler(generator *service.ScheduleGeneratorService, slots *repository.SlotRepository, export *service.ExportService, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{generator: generator, slots: slots, export: export, metrics: metrics}
}

func (h *ScheduleHandler) runGenerate(c *gin.Context) (*dto.GenerateScheduleRequest, models.GeneratorResult, error) {
	id, err := callerIdentity(c)
	if err != nil {
		return nil, models.GeneratorResult{}, err
	}
	if !id.IsAdmin() {
		return nil, models.GeneratorResult{}, appErrors.ErrForbidden
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, models.GeneratorResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}

	openStatus := models.SlotStatusOpen
	openSlots, err := h.slots.ListByDivision(c.Request.Context(), id.LeagueID, req.Division, &openStatus)
	if err != nil {
		return nil, models.GeneratorResult{}, err
	}

	start := time.Now()
	result := h.generator.Generate(service.GeneratorInput{
		Division:      req.Division,
		Teams:         req.Teams,
		OpenSlots:     openSlots,
		Constraints:   req.Constraints,
		PreferredDays: req.PreferredDays,
	})
	h.metrics.ObserveGeneratorRun(time.Since(start))

	return &req, result, nil
}

// Preview handles POST /schedule/preview: generator + validator, no
// writes.
func (h *ScheduleHandler) Preview(c *gin.Context) {
	_, result, err := h.runGenerate(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Apply handles POST /schedule/apply: generator + persist assignments
// back to Slot state.
func (h *ScheduleHandler) Apply(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	_, result, err := h.runGenerate(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	for _, a := range result.Assignments {
		if a.IsExternalOffer {
			continue
		}
		if _, err := h.slots.CAS(c.Request.Context(), id.LeagueID, a.SlotID, 5, func(current *models.Slot) (*models.Slot, error) {
			current.Status = models.SlotStatusConfirmed
			current.ConfirmedTeamID = a.HomeTeamID
			current.AwayTeamID = a.AwayTeamID
			return current, nil
		}); err != nil {
			response.Error(c, err)
			return
		}
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// Export handles GET /schedule/export?dialect=internal|sportsengine|gamechanger.
func (h *ScheduleHandler) Export(c *gin.Context) {
	id, err := callerIdentity(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	division := c.Query("division")
	if division == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrBadRequest, "division query parameter is required"))
		return
	}
	dialect := service.ExportDialect(c.DefaultQuery("dialect", string(service.DialectInternal)))

	confirmed := models.SlotStatusConfirmed
	slots, err := h.slots.ListByDivision(c.Request.Context(), id.LeagueID, division, &confirmed)
	if err != nil {
		response.Error(c, err)
		return
	}
	assignments := make([]models.Assignment, 0, len(slots))
	for _, s := range slots {
		assignments = append(assignments, models.Assignment{
			SlotID:          s.SlotID,
			GameDate:        s.GameDate,
			StartTime:       s.StartTime,
			EndTime:         s.EndTime,
			FieldKey:        s.FieldKey,
			HomeTeamID:      s.ConfirmedTeamID,
			AwayTeamID:      s.AwayTeamID,
			IsExternalOffer: false,
		})
	}

	data, err := h.export.Render(c.Request.Context(), id.LeagueID, assignments, dialect)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/csv", data)
}
