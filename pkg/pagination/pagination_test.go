package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string, defaultLimit int) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec), defaultLimit)
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "", 5)
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.Limit != 5 {
		t.Errorf("expected limit 5, got %d", p.Limit)
	}
}

func TestFromContext_Explicit(t *testing.T) {
	p := paramsFor(t, "page=3&limit=20", 5)
	if p.Page != 3 || p.Limit != 20 {
		t.Errorf("expected page=3 limit=20, got %+v", p)
	}
}

func TestFromContext_InvalidValues(t *testing.T) {
	p := paramsFor(t, "page=-1&limit=abc", 6)
	if p.Page != 1 {
		t.Errorf("negative page should fall back to 1, got %d", p.Page)
	}
	if p.Limit != 6 {
		t.Errorf("unparseable limit should fall back to default, got %d", p.Limit)
	}
}

func TestFromContext_LimitCapped(t *testing.T) {
	p := paramsFor(t, "limit=5000", 5)
	if p.Limit != MaxLimit {
		t.Errorf("expected limit capped at %d, got %d", MaxLimit, p.Limit)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 4, Limit: 6}
	if got := p.Offset(); got != 18 {
		t.Errorf("expected offset 18, got %d", got)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total, limit, want int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{11, 5, 3},
	}
	for _, tc := range cases {
		p := Params{Page: 1, Limit: tc.limit}
		if got := p.TotalPages(tc.total); got != tc.want {
			t.Errorf("TotalPages(%d) with limit %d = %d, want %d", tc.total, tc.limit, got, tc.want)
		}
	}
}

func TestNewResponse(t *testing.T) {
	p := Params{Page: 2, Limit: 5}
	resp := NewResponse([]string{"a", "b"}, 11, p)
	if resp.Pagination.Page != 2 || resp.Pagination.Limit != 5 {
		t.Errorf("unexpected meta: %+v", resp.Pagination)
	}
	if resp.Pagination.Total != 11 || resp.Pagination.TotalPages != 3 {
		t.Errorf("expected total=11 totalPages=3, got %+v", resp.Pagination)
	}
}
