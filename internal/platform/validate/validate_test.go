package validate

import (
	"errors"
	"testing"
)

func issuesOf(t *testing.T, err error) []Issue {
	t.Helper()
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	return verr.Issues
}

func TestCollector_Valid(t *testing.T) {
	var c Collector
	c.Required("name", "Jane")
	c.Enum("status", "Active", "Active", "Closed")
	c.Date("dob", "1990-04-01")
	c.Email("email", "jane@example.com")
	c.UUID("id", "a2f1f6b2-46c1-4f6a-9c1f-3d4c5e6f7a8b")
	if err := c.Err(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCollector_Required(t *testing.T) {
	var c Collector
	c.Required("first_name", "  ")
	issues := issuesOf(t, c.Err())
	if len(issues) != 1 || issues[0].Field != "first_name" {
		t.Errorf("unexpected issues: %+v", issues)
	}
}

func TestCollector_Enum(t *testing.T) {
	var c Collector
	c.Enum("status", "Archived", "Active", "Upcoming", "Closed")
	issues := issuesOf(t, c.Err())
	if len(issues) != 1 || issues[0].Field != "status" {
		t.Errorf("unexpected issues: %+v", issues)
	}
}

func TestCollector_EnumSkipsEmpty(t *testing.T) {
	var c Collector
	c.Enum("status", "", "Active", "Closed")
	if err := c.Err(); err != nil {
		t.Errorf("empty enum value should be skipped, got %v", err)
	}
}

func TestCollector_EnumRequired(t *testing.T) {
	var c Collector
	c.EnumRequired("gender", "", "Male", "Female", "Other", "Unknown")
	issues := issuesOf(t, c.Err())
	if len(issues) != 1 || issues[0].Field != "gender" {
		t.Errorf("unexpected issues: %+v", issues)
	}

	c = Collector{}
	c.EnumRequired("gender", "Female", "Male", "Female", "Other", "Unknown")
	if err := c.Err(); err != nil {
		t.Errorf("member value should pass, got %v", err)
	}
}

func TestCollector_Date(t *testing.T) {
	var c Collector
	c.Date("scheduled_at", "not-a-date")
	if c.Err() == nil {
		t.Error("expected error for invalid date")
	}
}

func TestCollector_DateLayouts(t *testing.T) {
	for _, v := range []string{
		"2024-06-01",
		"2024-06-01T10:30:00",
		"2024-06-01T10:30:00Z",
	} {
		var c Collector
		c.Date("at", v)
		if err := c.Err(); err != nil {
			t.Errorf("date %q should parse, got %v", v, err)
		}
	}
}

func TestCollector_EmailOptional(t *testing.T) {
	var c Collector
	c.Email("email", "")
	if err := c.Err(); err != nil {
		t.Errorf("empty email should be allowed, got %v", err)
	}

	c.Email("email", "nope")
	if c.Err() == nil {
		t.Error("expected error for malformed email")
	}
}

func TestCollector_CollectsAllIssues(t *testing.T) {
	var c Collector
	c.Required("first_name", "")
	c.Required("last_name", "")
	c.Date("dob", "yesterday")
	issues := issuesOf(t, c.Err())
	if len(issues) != 3 {
		t.Errorf("expected 3 issues, got %d: %+v", len(issues), issues)
	}
}

func TestParseDate_Invalid(t *testing.T) {
	if _, err := ParseDate("06/01/2024"); err == nil {
		t.Error("expected error for unsupported layout")
	}
}
