package calendar

import "errors"

var (
	// ErrInvalidDate is returned when a value does not represent a calendar date
	// in canonical YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange is returned when a span ends before it starts or has
	// a non-positive length.
	ErrInvalidRange = errors.New("invalid range")
)
