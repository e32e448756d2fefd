package demo

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/frontdesk/frontdesk/internal/domain/queue"
)

// Handler exposes the demo lifecycle and status endpoints.
type Handler struct {
	svc      *Service
	reporter *queue.Reporter
}

// NewHandler creates the handler.
func NewHandler(svc *Service, reporter *queue.Reporter) *Handler {
	return &Handler{svc: svc, reporter: reporter}
}

// RegisterRoutes registers the demo routes on the given API group.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/demo")
	g.POST("/setup", h.Setup)
	g.DELETE("/clear", h.Clear)
	g.GET("/status", h.Status)
}

type setupResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	*SetupResult
}

type clearResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	*ClearResult
}

type statusResponse struct {
	OK bool `json:"ok"`
	*queue.Snapshot
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Setup seeds today's demo dataset. A clean run answers 200; a run where some
// resources failed answers 207 with the per-kind detail so the UI can show
// what went wrong.
func (h *Handler) Setup(c echo.Context) error {
	result, err := h.svc.Setup(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "busy", Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "setup_failed", Message: err.Error()})
	}

	if !result.Success {
		return c.JSON(http.StatusMultiStatus, setupResponse{
			Message:     fmt.Sprintf("demo setup completed with %d error(s)", result.ErrorCount()),
			SetupResult: result,
		})
	}
	return c.JSON(http.StatusOK, setupResponse{
		OK:          true,
		Message:     "demo data created",
		SetupResult: result,
	})
}

// Clear tears down the tracked demo resources. Clearing when nothing is
// tracked succeeds with zero attempts.
func (h *Handler) Clear(c echo.Context) error {
	result, err := h.svc.Clear(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return c.JSON(http.StatusConflict, errorResponse{Error: "busy", Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "clear_failed", Message: err.Error()})
	}

	if !result.Success {
		return c.JSON(http.StatusInternalServerError, clearResponse{
			Message:     fmt.Sprintf("demo clear completed with %d error(s)", len(result.Errors)),
			ClearResult: result,
		})
	}
	return c.JSON(http.StatusOK, clearResponse{
		OK:          true,
		Message:     fmt.Sprintf("removed %d demo resource(s)", result.Deleted),
		ClearResult: result,
	})
}

// Status returns today's queue and appointment statistics as one consistent
// snapshot. Any record-store read failure fails the whole request.
func (h *Handler) Status(c echo.Context) error {
	snap, err := h.reporter.Status(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "status_failed", Message: err.Error()})
	}
	return c.JSON(http.StatusOK, statusResponse{OK: true, Snapshot: snap})
}
