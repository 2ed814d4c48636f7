package orchestrator

import (
	"errors"

	"commerce-sync/core/apperrors"
	"commerce-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultRunsLimit = 20

// Handler exposes the sync service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/status", h.HandleStatus)
	group.Post("/run", h.HandleRun)
	group.Get("/runs", h.HandleRuns)
	group.Get("/incomplete", h.HandleListIncomplete)
	group.Get("/incomplete/stats", h.HandleIncompleteStats)
	group.Delete("/incomplete/:id", h.HandleClearIncomplete)
}

// HandleStatus reports the service state.
// @Summary Sync Status
// @Description Returns whether a run is active, the last run summary and the size of each store.
// @Tags sync
// @Produce json
// @Success 200 {object} Status
// @Router /sync/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleRun triggers a sync run.
// @Summary Trigger Sync Run
// @Description Starts a sync run in the background. With wait=true the request blocks until the run finishes and returns its result.
// @Tags sync
// @Produce json
// @Param wait query boolean false "Wait for the run to finish"
// @Success 200 {object} SessionResult "Finished run"
// @Success 202 {object} map[string]string "Run started"
// @Failure 409 {object} map[string]string "A run is already in progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Sync run requested", zap.Bool("wait", c.QueryBool("wait")))

	if c.QueryBool("wait") {
		result, err := h.service.RunSyncOnce(c.UserContext())
		if err != nil {
			return h.runError(c, l, err)
		}
		return c.JSON(result)
	}

	if err := h.service.Start(); err != nil {
		return h.runError(c, l, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"status": "started"})
}

func (h *Handler) runError(c *fiber.Ctx, l *zap.Logger, err error) error {
	if errors.Is(err, apperrors.ErrSyncInProgress) || errors.Is(err, apperrors.ErrLockHeld) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Sync run failed to start", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// HandleRuns lists recent runs.
// @Summary Recent Runs
// @Description Lists recent sync runs, newest first.
// @Tags sync
// @Produce json
// @Param limit query int false "Maximum number of runs" default(20)
// @Success 200 {array} SessionResult
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRunsLimit)
	if limit <= 0 {
		limit = defaultRunsLimit
	}

	runs, err := h.service.Runs(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to read run log", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleListIncomplete lists quarantined records.
// @Summary List Incomplete Records
// @Description Lists every quarantined record grouped by entity class.
// @Tags sync
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /sync/incomplete [get]
func (h *Handler) HandleListIncomplete(c *fiber.Ctx) error {
	return c.JSON(h.service.ListIncomplete())
}

// HandleIncompleteStats returns quarantine statistics.
// @Summary Incomplete Statistics
// @Description Counts quarantined records by missing field group and by class.
// @Tags sync
// @Produce json
// @Success 200 {object} state.IncompleteStatistics
// @Router /sync/incomplete/stats [get]
func (h *Handler) HandleIncompleteStats(c *fiber.Ctx) error {
	return c.JSON(h.service.IncompleteStatistics())
}

// HandleClearIncomplete removes a quarantined record from every class.
// @Summary Clear Incomplete Record
// @Description Removes the record with the given source id from the quarantine.
// @Tags sync
// @Produce json
// @Param id path string true "Source id"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string "Record not found"
// @Router /sync/incomplete/{id} [delete]
func (h *Handler) HandleClearIncomplete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !h.service.ClearIncomplete(id) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "incomplete record not found", "id": id})
	}
	return c.JSON(fiber.Map{"status": "cleared", "id": id})
}
