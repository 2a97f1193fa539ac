package cases

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

// Handler exposes the case HTTP surface.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.GET("/cases", h.list)
	g.GET("/cases/:id", h.get)
	g.GET("/cases/:id/attachment", h.attachment)
	g.POST("/cases", h.create)
	g.POST("/cases/:id/notes", h.createNote)
	g.PUT("/cases/:id", h.update)
	g.PATCH("/cases/:id/status", h.updateStatus)
	g.DELETE("/cases/:id", h.delete)
}

func (h *Handler) list(c echo.Context) error {
	p := pagination.FromContext(c, defaultListLimit)
	f := ListFilter{
		Status:    c.QueryParam("status"),
		AdmitType: c.QueryParam("admit_type"),
		PatientID: c.QueryParam("patient_id"),
		Search:    c.QueryParam("search"),
	}

	items, total, err := h.svc.List(c.Request().Context(), f, p.Limit, p.Offset())
	if err != nil {
		return respondError(c, err)
	}
	if items == nil {
		items = []*Case{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid case id"})
	}

	detail, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": detail})
}

func (h *Handler) attachment(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid case id"})
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
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid case id"})
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
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid case id"})
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
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid case id"})
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
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid case id"})
	}

	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Case deleted"})
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
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Case not found"})
	}
	if errors.Is(err, ErrInvalidTransition) {
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return err
}
