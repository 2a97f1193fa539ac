package doctor

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_Me_NullWhenUnset(t *testing.T) {
	svc, ctx, _ := newTestEnv()
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/doctors/me", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.me(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"profile":null`) {
		t.Errorf("expected null profile, got %s", rec.Body.String())
	}
}

func TestHandler_Save(t *testing.T) {
	svc, ctx, _ := newTestEnv()
	h := NewHandler(svc)
	e := echo.New()

	body := `{"display_name":"Dr. Chen","title":"Attending"}`
	req := httptest.NewRequest(http.MethodPut, "/api/doctors/me", strings.NewReader(body)).WithContext(ctx)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.save(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dr. Chen") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandler_Avatar_NotFound(t *testing.T) {
	svc, ctx, _ := newTestEnv()
	svc.Save(ctx, UpsertInput{DisplayName: "Dr. Chen"})
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/api/doctors/me/avatar", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.avatar(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
