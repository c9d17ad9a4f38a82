package handler

import (
	"net/http"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/middleware"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/labstack/echo/v4"
)

type AuditHandler struct {
	recorder audit.Recorder
}

func NewAuditHandler(recorder audit.Recorder) *AuditHandler {
	return &AuditHandler{recorder: recorder}
}

func (h *AuditHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/audit", h.ListEntries, middleware.RequirePermission(session.ModuleAudit))
}

// ListEntries accepts actor, entity, action and a from/to date range; to is
// inclusive of the whole day.
func (h *AuditHandler) ListEntries(c echo.Context) error {
	filter := repository.AuditFilter{
		Actor:  c.QueryParam("actor"),
		Entity: c.QueryParam("entity"),
		Action: models.AuditAction(c.QueryParam("action")),
	}

	from, err := queryDate(c, "from")
	if err != nil {
		return err
	}
	if from != nil {
		filter.From = *from
	}
	to, err := queryDate(c, "to")
	if err != nil {
		return err
	}
	if to != nil {
		filter.To = to.Add(24 * time.Hour)
	}

	entries, err := h.recorder.Query(c.Request().Context(), filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}
