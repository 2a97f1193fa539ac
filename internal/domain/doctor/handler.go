package doctor

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/internal/platform/db"
)

// Handler exposes the doctor profile HTTP surface.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(g *echo.Group) {
	g.GET("/doctors/me", h.me)
	g.GET("/doctors/me/avatar", h.avatar)
	g.PUT("/doctors/me", h.save)
}

func (h *Handler) me(c echo.Context) error {
	p, err := h.svc.Me(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}

func (h *Handler) save(c echo.Context) error {
	var in UpsertInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	p, err := h.svc.Save(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"profile": p})
}

func (h *Handler) avatar(c echo.Context) error {
	url, err := h.svc.AvatarURL(c.Request().Context())
	if err != nil {
		var nferr *db.NotFoundError
		if errors.As(err, &nferr) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": nferr.Error()})
		}
		if errors.Is(err, db.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Profile not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}
