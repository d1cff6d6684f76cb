// Package validation checks project payloads against the field rules and the
// title uniqueness constraint. Every function here is pure: the caller
// supplies the snapshot of live titles.
package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"devmasters/models"
)

const (
	TitleMinLength       = 3
	TitleMaxLength       = 100
	DescriptionMaxLength = 500
)

const (
	FieldID          = "id"
	FieldCreatedAt   = "data_criacao"
	FieldUpdatedAt   = "data_atualizacao"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldPriority    = "priority"
	FieldStatus      = "status"
)

// ReasonTitleTaken marks a uniqueness violation, which callers may report
// as a conflict rather than a malformed request.
const ReasonTitleTaken = "already in use"

const (
	ReasonNotString  = "must be a string"
	ReasonNotInteger = "must be an integer"
)

type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// OnlyConflicts reports whether every violation is a title uniqueness one.
func (e *ValidationError) OnlyConflicts() bool {
	for _, v := range e.Violations {
		if v.Reason != ReasonTitleTaken {
			return false
		}
	}
	return len(e.Violations) > 0
}

// TitleSnapshot is a point-in-time set of live titles. It may be stale by the
// time of the write; the store enforces uniqueness again atomically.
type TitleSnapshot map[string]struct{}

func NewTitleSnapshot(titles []string) TitleSnapshot {
	s := make(TitleSnapshot, len(titles))
	for _, t := range titles {
		s[t] = struct{}{}
	}
	return s
}

func (s TitleSnapshot) Contains(title string) bool {
	_, ok := s[title]
	return ok
}

type mode int

const (
	modeCreate mode = iota
	modeUpdate
)

// Create validates a full payload. Title, priority and status are mandatory.
func Create(in models.ProjectInput, titles TitleSnapshot) (models.ProjectChanges, error) {
	return check(in, titles, modeCreate, "")
}

// Update validates a partial payload against the record it will modify.
// The record's own title does not count as a duplicate.
func Update(in models.ProjectInput, titles TitleSnapshot, current models.Project) (models.ProjectChanges, error) {
	return check(in, titles, modeUpdate, current.Title)
}

func check(in models.ProjectInput, titles TitleSnapshot, m mode, ownTitle string) (models.ProjectChanges, error) {
	var (
		out  models.ProjectChanges
		errs []Violation
	)
	add := func(field, reason string) {
		errs = append(errs, Violation{Field: field, Reason: reason})
	}

	if in.ID.Set {
		add(FieldID, "is read-only")
	}
	if in.CreatedAt.Set {
		add(FieldCreatedAt, "is read-only")
	}
	if in.UpdatedAt.Set {
		add(FieldUpdatedAt, "is read-only")
	}

	switch {
	case in.Title.Present():
		t := in.Title.Value
		n := utf8.RuneCountInString(t)
		switch {
		case n < TitleMinLength || n > TitleMaxLength:
			add(FieldTitle, fmt.Sprintf("must be between %d and %d characters", TitleMinLength, TitleMaxLength))
		case titles.Contains(t) && !(m == modeUpdate && t == ownTitle):
			add(FieldTitle, ReasonTitleTaken)
		default:
			out.Title = &t
		}
	case in.Title.Invalid:
		add(FieldTitle, ReasonNotString)
	case in.Title.Null:
		add(FieldTitle, "must not be null")
	case m == modeCreate:
		add(FieldTitle, "is required")
	}

	switch {
	case in.Description.Present():
		d := in.Description.Value
		if utf8.RuneCountInString(d) > DescriptionMaxLength {
			add(FieldDescription, fmt.Sprintf("must be at most %d characters", DescriptionMaxLength))
		} else {
			out.Description = &d
		}
	case in.Description.Invalid:
		add(FieldDescription, ReasonNotString)
	case in.Description.Null && m == modeUpdate:
		out.ClearDescription = true
	}

	switch {
	case in.Priority.Present():
		p, err := models.ParsePriority(in.Priority.Value)
		if err != nil {
			add(FieldPriority, "must be one of 1, 2, 3")
		} else {
			out.Priority = &p
		}
	case in.Priority.Invalid:
		add(FieldPriority, ReasonNotInteger)
	case in.Priority.Null:
		add(FieldPriority, "must not be null")
	case m == modeCreate:
		add(FieldPriority, "is required")
	}

	switch {
	case in.Status.Present():
		s, err := models.ParseStatus(in.Status.Value)
		if err != nil {
			add(FieldStatus, "must be one of "+statusList())
		} else {
			out.Status = &s
		}
	case in.Status.Invalid:
		add(FieldStatus, ReasonNotString)
	case in.Status.Null:
		add(FieldStatus, "must not be null")
	case m == modeCreate:
		add(FieldStatus, "is required")
	}

	if len(errs) > 0 {
		return models.ProjectChanges{}, &ValidationError{Violations: errs}
	}
	return out, nil
}

func statusList() string {
	names := make([]string, len(models.Statuses))
	for i, s := range models.Statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}
