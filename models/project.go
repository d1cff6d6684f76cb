package models

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPlanned    Status = "Planejado"
	StatusInProgress Status = "Em Andamento"
	StatusDone       Status = "Concluído"
	StatusCancelled  Status = "Cancelado"
)

// Statuses lists every accepted status in display order.
var Statuses = []Status{StatusPlanned, StatusInProgress, StatusDone, StatusCancelled}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

type Priority int

const (
	PriorityOne Priority = iota + 1
	PriorityTwo
	PriorityThree
)

func ParsePriority(n int) (Priority, error) {
	p := Priority(n)
	if !p.Valid() {
		return 0, fmt.Errorf("invalid priority %d", n)
	}
	return p, nil
}

func (p Priority) Valid() bool {
	return p >= PriorityOne && p <= PriorityThree
}

type Project struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"uniqueIndex;not null;size:100" json:"title"`
	Description *string   `gorm:"size:500" json:"description"`
	Priority    Priority  `gorm:"not null;index" json:"priority"`
	Status      Status    `gorm:"not null;size:20;index" json:"status"`
	CreatedAt   time.Time `gorm:"column:data_criacao;not null" json:"data_criacao"`
	UpdatedAt   time.Time `gorm:"column:data_atualizacao;not null" json:"data_atualizacao"`
}

// ProjectChanges is a validated change set. Nil fields are left untouched,
// except Description where ClearDescription distinguishes "set to null".
type ProjectChanges struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Priority         *Priority
	Status           *Status
}

func (c ProjectChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && !c.ClearDescription && c.Priority == nil && c.Status == nil
}

// Apply writes the change set onto p. It never touches ID or CreatedAt.
func (c ProjectChanges) Apply(p *Project) {
	if c.Title != nil {
		p.Title = *c.Title
	}
	if c.ClearDescription {
		p.Description = nil
	}
	if c.Description != nil {
		d := *c.Description
		p.Description = &d
	}
	if c.Priority != nil {
		p.Priority = *c.Priority
	}
	if c.Status != nil {
		p.Status = *c.Status
	}
}

// Clone returns a deep copy so callers cannot alias stored descriptions.
func (p Project) Clone() Project {
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}
