// Package request parses path, query and body input shared by the handlers.
// Every failure is an apperror validation error naming the offending field.
package request

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finboard/internal/apperror"
)

// DecodeJSON reads the body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return apperror.Invalid("body", "%v", err)
	}

	return nil
}

func URLID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperror.Invalid("id", "must be a UUID")
	}

	return id, nil
}

// QueryID parses an optional uuid query parameter.
func QueryID(r *http.Request, name string) (*uuid.UUID, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return nil, nil
	}

	id, err := uuid.Parse(s)
	if err != nil {
		return nil, apperror.Invalid(name, "must be a UUID")
	}

	return &id, nil
}

// Date parses a calendar day (2006-01-02) as midnight in loc. Full RFC 3339
// timestamps are accepted and keep their calendar day as seen in loc.
func Date(field, s string, loc *time.Location) (time.Time, error) {
	if d, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return d, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, apperror.Invalid(field, "must be a date (YYYY-MM-DD)")
	}

	t = t.In(loc)

	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// OptionalDate is Date for fields that may be empty.
func OptionalDate(field string, s *string, loc *time.Location) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	d, err := Date(field, *s, loc)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// MonthYear reads ?month=&year=, defaulting each to now in loc.
func MonthYear(r *http.Request, loc *time.Location, now time.Time) (int, int, error) {
	now = now.In(loc)
	month, year := int(now.Month()), now.Year()

	q := r.URL.Query()

	if s := q.Get("month"); s != "" {
		m, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperror.Invalid("month", "must be a number")
		}

		month = m
	}

	if s := q.Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return 0, 0, apperror.Invalid("year", "must be a number")
		}

		year = y
	}

	return month, year, nil
}
