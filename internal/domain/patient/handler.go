package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/internal/platform/db"
	"github.com/caretrack/caretrack/internal/platform/validate"
	"github.com/caretrack/caretrack/pkg/pagination"
)

const defaultListLimit = 5

// Handler exposes the patient HTTP surface.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.GET("/patients", h.list)
	g.GET("/patients/stats", h.stats)
	g.GET("/patients/:id/profile", h.profile)
	g.GET("/patients/:id/attachment", h.attachment)
	g.POST("/patients", h.create)
	g.POST("/patients/:id/notes", h.createNote)
	g.PUT("/patients/:id", h.update)
	g.DELETE("/patients/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c, defaultListLimit)
	f := ListFilter{Search: c.QueryParam("search")}

	items, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []*Patient{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": stats})
}

func (h *Handler) profile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid patient id"})
	}

	prof, err := h.svc.GetProfile(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": prof})
}

func (h *Handler) attachment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid patient id"})
	}

	url, err := h.svc.AttachmentURL(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
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

func (h *Handler) createNote(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid patient id"})
	}

	var in NoteInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	note, err := h.svc.CreateNote(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": note})
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid patient id"})
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

func (h *Handler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid patient id"})
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Patient deleted"})
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
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Patient not found"})
	}
	return err
}
