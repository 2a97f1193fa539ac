package cases

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/caretrack/caretrack/internal/platform/auth"
)

func newHandlerEnv() (*Handler, *echo.Echo, *testEnv) {
	env := newTestEnv()
	return NewHandler(env.svc), echo.New(), env
}

func authedRequest(env *testEnv, method, target, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(auth.WithUserID(req.Context(), env.owner))
}

func TestHandler_List_OpenAlias(t *testing.T) {
	h, e, env := newHandlerEnv()
	env.seedCase(StatusActive)
	env.seedCase(StatusUpcoming)
	env.seedCase(StatusClosed)

	req := authedRequest(env, http.MethodGet, "/api/cases?status=Open", "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.list(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Pagination.Total != 2 {
		t.Errorf("Open should cover Active and Upcoming, got total %d", body.Pagination.Total)
	}
}

func TestHandler_UpdateStatus_Conflict(t *testing.T) {
	h, e, env := newHandlerEnv()
	cs := env.seedCase(StatusActive)

	req := authedRequest(env, http.MethodPatch, "/", `{"status":"Upcoming"}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(cs.ID.String())

	if err := h.updateStatus(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandler_Create_UnknownStatusRejected(t *testing.T) {
	h, e, env := newHandlerEnv()
	patientID := env.patients.add(env.owner)

	body := `{"patient_id":"` + patientID.String() + `","status":"Archived"}`
	req := authedRequest(env, http.MethodPost, "/api/cases", body)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "status") {
		t.Errorf("details should cite the status field: %s", rec.Body.String())
	}
}
