// Package query implements filtering, ordering and pagination of the
// project collection.
package query

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"devmasters/models"
)

type OrderBy string

const (
	OrderByID        OrderBy = "id"
	OrderByTitle     OrderBy = "title"
	OrderByPriority  OrderBy = "priority"
	OrderByStatus    OrderBy = "status"
	OrderByCreatedAt OrderBy = "data_criacao"
)

// Column returns the storage column backing the order key.
func (o OrderBy) Column() string {
	return string(o)
}

func (o OrderBy) valid() bool {
	switch o {
	case OrderByID, OrderByTitle, OrderByPriority, OrderByStatus, OrderByCreatedAt:
		return true
	}
	return false
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func parseDirection(s string) (Direction, bool) {
	switch strings.ToLower(s) {
	case "asc", "ascending":
		return Asc, true
	case "desc", "descending":
		return Desc, true
	}
	return "", false
}

type Params struct {
	Status    *models.Status
	Priority  *models.Priority
	Search    string
	Skip      int
	Limit     int
	OrderBy   OrderBy
	Direction Direction
}

type Defaults struct {
	Limit    int
	MaxLimit int
}

var DefaultLimits = Defaults{Limit: 10, MaxLimit: 100}

// DefaultParams returns the parameters used when the request sets none.
func DefaultParams(d Defaults) Params {
	return Params{Limit: d.Limit, OrderBy: OrderByID, Direction: Asc}
}

type BadRequestError struct {
	Param  string
	Reason string
}

func (e *BadRequestError) Error() string {
	return fmt.Sprintf("invalid query parameter %s: %s", e.Param, e.Reason)
}

// ParseParams reads list parameters from a request query string.
func ParseParams(v url.Values, d Defaults) (Params, error) {
	p := DefaultParams(d)

	if s := v.Get("status"); s != "" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return Params{}, &BadRequestError{Param: "status", Reason: err.Error()}
		}
		p.Status = &st
	}

	if s := v.Get("priority"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Params{}, &BadRequestError{Param: "priority", Reason: "must be an integer"}
		}
		pr, err := models.ParsePriority(n)
		if err != nil {
			return Params{}, &BadRequestError{Param: "priority", Reason: err.Error()}
		}
		p.Priority = &pr
	}

	p.Search = strings.TrimSpace(v.Get("search"))

	if s := v.Get("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return Params{}, &BadRequestError{Param: "skip", Reason: "must be a non-negative integer"}
		}
		p.Skip = n
	}

	if s := v.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 || n > d.MaxLimit {
			return Params{}, &BadRequestError{Param: "limit", Reason: fmt.Sprintf("must be an integer between 0 and %d", d.MaxLimit)}
		}
		p.Limit = n
	}

	if s := v.Get("order_by"); s != "" {
		o := OrderBy(s)
		if !o.valid() {
			return Params{}, &BadRequestError{Param: "order_by", Reason: fmt.Sprintf("unknown field %q", s)}
		}
		p.OrderBy = o
	}

	if s := v.Get("order_direction"); s != "" {
		dir, ok := parseDirection(s)
		if !ok {
			return Params{}, &BadRequestError{Param: "order_direction", Reason: fmt.Sprintf("unknown direction %q", s)}
		}
		p.Direction = dir
	}

	return p, nil
}

type Result struct {
	Items []models.Project `json:"items"`
	Total int              `json:"total"`
	Skip  int              `json:"skip"`
	Limit int              `json:"limit"`
}

// Matches reports whether a project passes every filter in p.
func (p Params) Matches(pr models.Project) bool {
	if p.Status != nil && pr.Status != *p.Status {
		return false
	}
	if p.Priority != nil && pr.Priority != *p.Priority {
		return false
	}
	if p.Search != "" {
		needle := strings.ToLower(p.Search)
		inTitle := strings.Contains(strings.ToLower(pr.Title), needle)
		inDesc := pr.Description != nil && strings.Contains(strings.ToLower(*pr.Description), needle)
		if !inTitle && !inDesc {
			return false
		}
	}
	return true
}

// Apply filters, orders and paginates items. The input slice is not
// modified. Ties on the order key fall back to ascending id.
func Apply(items []models.Project, p Params) Result {
	filtered := make([]models.Project, 0, len(items))
	for _, it := range items {
		if p.Matches(it) {
			filtered = append(filtered, it)
		}
	}

	cmp := comparator(p.OrderBy)
	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		c := cmp(a, b)
		if p.Direction == Desc {
			c = -c
		}
		if c != 0 {
			return c < 0
		}
		return a.ID < b.ID
	})

	res := Result{Total: len(filtered), Skip: p.Skip, Limit: p.Limit, Items: []models.Project{}}
	if p.Skip >= len(filtered) || p.Limit <= 0 {
		return res
	}
	end := p.Skip + p.Limit
	if end > len(filtered) {
		end = len(filtered)
	}
	res.Items = filtered[p.Skip:end]
	return res
}

func comparator(o OrderBy) func(a, b models.Project) int {
	switch o {
	case OrderByTitle:
		return func(a, b models.Project) int { return strings.Compare(a.Title, b.Title) }
	case OrderByPriority:
		return func(a, b models.Project) int { return int(a.Priority) - int(b.Priority) }
	case OrderByStatus:
		return func(a, b models.Project) int { return strings.Compare(string(a.Status), string(b.Status)) }
	case OrderByCreatedAt:
		return func(a, b models.Project) int { return a.CreatedAt.Compare(b.CreatedAt) }
	default:
		return func(a, b models.Project) int {
			switch {
			case a.ID < b.ID:
				return -1
			case a.ID > b.ID:
				return 1
			}
			return 0
		}
	}
}
