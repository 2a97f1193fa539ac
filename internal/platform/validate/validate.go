// Package validate collects field-level validation issues for inbound JSON
// payloads. Validators are pure: they inspect a value and record an issue,
// and the collected issues surface as a 400 response with a details array.
package validate

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Issue is a single field-level validation failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every issue found in one payload.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = fmt.Sprintf("%s: %s", is.Field, is.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Collector accumulates issues across a payload's fields.
type Collector struct {
	issues []Issue
}

// Add records an issue verbatim.
func (c *Collector) Add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// Required records an issue when value is empty.
func (c *Collector) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		c.Add(field, field+" is required")
	}
}

// Enum records an issue when a non-empty value is outside the allowed set.
func (c *Collector) Enum(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.Add(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
}

// EnumRequired records an issue when the value is empty or outside the
// allowed set. Partial updates use it for enum fields: a field present in
// the payload must carry a member, never an empty string.
func (c *Collector) EnumRequired(field, value string, allowed ...string) {
	if value == "" {
		c.Add(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
		return
	}
	c.Enum(field, value, allowed...)
}

// dateLayouts are the accepted inbound date/timestamp formats.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a date-like string in any accepted layout.
func ParseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format")
}

// Date records an issue when a non-empty value does not parse as a calendar
// date or timestamp.
func (c *Collector) Date(field, value string) {
	if value == "" {
		return
	}
	if _, err := ParseDate(value); err != nil {
		c.Add(field, "invalid date format")
	}
}

// Email records an issue when a non-empty value is not a valid address.
// Empty values are allowed: the field is optional.
func (c *Collector) Email(field, value string) {
	if value == "" {
		return
	}
	if _, err := mail.ParseAddress(value); err != nil {
		c.Add(field, "invalid email address")
	}
}

// UUID records an issue when a non-empty value is not a valid UUID.
func (c *Collector) UUID(field, value string) {
	if value == "" {
		return
	}
	if _, err := uuid.Parse(value); err != nil {
		c.Add(field, "invalid "+field)
	}
}

// Err returns the collected issues as an *Error, or nil when the payload is
// valid.
func (c *Collector) Err() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &Error{Issues: c.issues}
}
