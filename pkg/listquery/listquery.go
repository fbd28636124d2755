// Package listquery turns the recognised list-endpoint URL parameters into an
// immutable query description.
//
// Recognised parameters:
//
//	filter=<field>=<value>     exact-match equality ("true"/"false" → bool)
//	search=<text>              case-insensitive substring match
//	group=incomplete|complete|any   legacy alias for a completed-flag filter
//	sort=<field>=<asc|desc>    single-field sort, asc when direction omitted
//	page=<n>&limit=<n>         pagination, limit defaults to 20
//
// Parse never touches the store: repositories translate the resulting Query
// into driver filters and apply the clauses in a fixed order — filter →
// search → sort → count → clamp → skip/limit — so results are deterministic.
package listquery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// BadParamError reports a malformed list parameter. The central error mapper
// turns it into a field-level validation response.
type BadParamError struct {
	Param   string
	Message string
}

func (e *BadParamError) Error() string {
	return fmt.Sprintf("listquery: bad %s parameter: %s", e.Param, e.Message)
}

// DefaultLimit is the page size used when the caller does not pass limit.
const DefaultLimit = 20

// Filter is a single exact-match equality clause.
type Filter struct {
	Field string
	Value interface{}
}

// Sort is a single-field sort directive.
type Sort struct {
	Field string
	Desc  bool
}

// Query is the parsed, immutable list-query description.
type Query struct {
	Filters []Filter
	Search  string
	Sort    *Sort
	Page    int
	Limit   int
}

// Parse reads the recognised parameters out of vals. Unrecognised parameters
// are ignored. Malformed values are a caller error and come back as a
// validation-kind error, never a panic.
func Parse(vals url.Values) (Query, error) {
	q := Query{Page: 1, Limit: DefaultLimit}

	if raw := vals.Get("filter"); raw != "" {
		field, value, ok := strings.Cut(raw, "=")
		if !ok || field == "" {
			return Query{}, &BadParamError{Param: "filter", Message: "The filter parameter must look like field=value"}
		}
		q.Filters = append(q.Filters, Filter{Field: field, Value: coerce(value)})
	}

	if raw := vals.Get("group"); raw != "" {
		switch raw {
		case "incomplete":
			q.Filters = append(q.Filters, Filter{Field: "completed", Value: false})
		case "complete":
			q.Filters = append(q.Filters, Filter{Field: "completed", Value: true})
		case "any":
			// no-op
		default:
			return Query{}, &BadParamError{Param: "group", Message: "The group parameter must be incomplete, complete, or any"}
		}
	}

	q.Search = vals.Get("search")

	if raw := vals.Get("sort"); raw != "" {
		field, dir, hasDir := strings.Cut(raw, "=")
		if field == "" {
			return Query{}, &BadParamError{Param: "sort", Message: "The sort parameter must look like field=asc or field=desc"}
		}
		s := Sort{Field: field}
		if hasDir {
			switch dir {
			case "asc", "":
			case "desc":
				s.Desc = true
			default:
				return Query{}, &BadParamError{Param: "sort", Message: "The sort direction must be asc or desc"}
			}
		}
		q.Sort = &s
	}

	if raw := vals.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Query{}, &BadParamError{Param: "page", Message: "The page parameter must be an integer"}
		}
		q.Page = n
	}

	if raw := vals.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Query{}, &BadParamError{Param: "limit", Message: "The limit parameter must be a positive integer"}
		}
		q.Limit = n
	}

	return q, nil
}

// coerce maps the literal strings "true"/"false" to booleans so flag fields
// can be filtered without a type hint.
func coerce(value string) interface{} {
	switch value {
	case "true":
		return true
	case "false":
		return false
	}
	return value
}

// ─── Pagination ───────────────────────────────────────────────────────────────

// Pagination describes the effective page window after clamping.
type Pagination struct {
	Page     int   `json:"page"`
	Limit    int   `json:"limit"`
	Total    int64 `json:"totalItems"`
	MaxPages int   `json:"maxNumOfPages"`
}

// Paginate clamps page to [1, ceil(total/limit)] and returns the effective
// window. An empty result set still reports one (empty) page so the clamp
// bounds stay well-formed.
func Paginate(total int64, page, limit int) Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}

	maxPages := int((total + int64(limit) - 1) / int64(limit))
	if maxPages < 1 {
		maxPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > maxPages {
		page = maxPages
	}

	return Pagination{Page: page, Limit: limit, Total: total, MaxPages: maxPages}
}

// Skip returns the number of documents to skip for the clamped page.
func (p Pagination) Skip() int64 {
	return int64(p.Page-1) * int64(p.Limit)
}
