package way

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSuchPoint is returned when a slot does not address a point of
	// the draft, e.g. a middle-point index past the end of the list.
	ErrNoSuchPoint = errors.New("way: no such pickup point")

	// ErrUnknownOffice is returned when an office id is not present in
	// the office directory handed to the editor.
	ErrUnknownOffice = errors.New("way: office not in directory")

	// ErrOfficeInUse is returned when an office is already assigned to a
	// different point of the same way.
	ErrOfficeInUse = errors.New("way: office already used by another pickup point")

	// ErrIncompleteMiddle blocks adding a new middle point while an
	// existing one is missing its office, name or time offset.
	ErrIncompleteMiddle = errors.New("way: fill in all existing middle points before adding a new one")

	// ErrStartOffsetFixed is returned for attempts to change the start
	// point's time offset, which is always zero.
	ErrStartOffsetFixed = errors.New("way: start point time offset is fixed at 0")

	// ErrNegativeOffset is returned for time offsets below zero.
	ErrNegativeOffset = errors.New("way: time offset must be a non-negative integer")
)

// FieldError describes a single validation failure on a draft field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError aggregates every field error found by Validate so the
// operator sees all problems at once rather than one per submit.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Error()
	}
	return "way: invalid draft: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}
