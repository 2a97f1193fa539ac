package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/validate"
	"github.com/caretrack/caretrack/pkg/pagination"
)

const defaultListLimit = 6

// Handler exposes the appointment HTTP surface.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.GET("/appointments", h.list)
	g.POST("/appointments", h.create)
	g.PUT("/appointments/:id", h.update)
	g.PATCH("/appointments/:id/status", h.updateStatus)
	g.DELETE("/appointments/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c, defaultListLimit)
	f := ListFilter{
		Status: c.QueryParam("status"),
		Search: c.QueryParam("search"),
	}

	items, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	created, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": created})
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	updated, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": updated})
}

func (h *Handler) updateStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	var in struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	updated, err := h.svc.UpdateStatus(c.Request().Context(), id, in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": updated})
}

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid appointment id"})
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Appointment deleted"})
}

// respondError maps service failures onto the wire error shapes. Unknown
// errors bubble to the global error handler.
func respondError(c echo.Context, err error) error {
	var verr *validate.Error
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":   "Validation Error",
			"details": verr.Issues,
		})
	}
	var nferr *db.NotFoundError
	if errors.As(err, &nferr) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": nferr.Error()})
	}
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Appointment not found"})
	}
	if errors.Is(err, ErrInvalidTransition) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return err
}
