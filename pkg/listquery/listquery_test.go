package listquery_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/tempohq/tempo/pkg/listquery"
)

func parse(t *testing.T, raw string) listquery.Query {
	t.Helper()
	vals, err := url.ParseQuery(raw)
	if err != nil {
		t.Fatalf("bad test query %q: %v", raw, err)
	}
	q, err := listquery.Parse(vals)
	if err != nil {
		t.Fatalf("Parse(%q): %v", raw, err)
	}
	return q
}

func TestDefaults(t *testing.T) {
	q := parse(t, "")
	if q.Page != 1 || q.Limit != listquery.DefaultLimit {
		t.Errorf("defaults: got page=%d limit=%d", q.Page, q.Limit)
	}
	if len(q.Filters) != 0 || q.Search != "" || q.Sort != nil {
		t.Errorf("defaults should carry no clauses: %+v", q)
	}
}

func TestFilterEquality(t *testing.T) {
	q := parse(t, "filter=customer_type%3Dband")
	if len(q.Filters) != 1 {
		t.Fatalf("expected one filter, got %d", len(q.Filters))
	}
	if q.Filters[0].Field != "customer_type" || q.Filters[0].Value != "band" {
		t.Errorf("got %+v", q.Filters[0])
	}
}

func TestFilterBoolCoercion(t *testing.T) {
	q := parse(t, "filter=payed%3Dtrue")
	if q.Filters[0].Value != true {
		t.Errorf("expected bool true, got %T %v", q.Filters[0].Value, q.Filters[0].Value)
	}
	q = parse(t, "filter=payed%3Dfalse")
	if q.Filters[0].Value != false {
		t.Errorf("expected bool false, got %T %v", q.Filters[0].Value, q.Filters[0].Value)
	}
}

func TestGroupAlias(t *testing.T) {
	q := parse(t, "group=incomplete")
	if len(q.Filters) != 1 || q.Filters[0].Field != "completed" || q.Filters[0].Value != false {
		t.Errorf("group=incomplete should filter completed=false, got %+v", q.Filters)
	}

	q = parse(t, "group=complete")
	if q.Filters[0].Value != true {
		t.Errorf("group=complete should filter completed=true, got %+v", q.Filters)
	}

	q = parse(t, "group=any")
	if len(q.Filters) != 0 {
		t.Errorf("group=any should add no filter, got %+v", q.Filters)
	}
}

func TestSortDirections(t *testing.T) {
	q := parse(t, "sort=start_time%3Ddesc")
	if q.Sort == nil || q.Sort.Field != "start_time" || !q.Sort.Desc {
		t.Errorf("got %+v", q.Sort)
	}

	// Bare field name sorts ascending.
	q = parse(t, "sort=duration")
	if q.Sort == nil || q.Sort.Field != "duration" || q.Sort.Desc {
		t.Errorf("bare sort should be ascending, got %+v", q.Sort)
	}
}

func TestMalformedParams(t *testing.T) {
	cases := []struct {
		raw   string
		param string
	}{
		{"filter=nosign", "filter"},
		{"group=bogus", "group"},
		{"sort=%3Ddesc", "sort"},
		{"sort=start_time%3Dsideways", "sort"},
		{"page=abc", "page"},
		{"limit=0", "limit"},
		{"limit=-5", "limit"},
	}
	for _, tc := range cases {
		vals, _ := url.ParseQuery(tc.raw)
		_, err := listquery.Parse(vals)
		if err == nil {
			t.Errorf("Parse(%q): expected error", tc.raw)
			continue
		}
		var bad *listquery.BadParamError
		if !errors.As(err, &bad) {
			t.Errorf("Parse(%q): expected BadParamError, got %T", tc.raw, err)
			continue
		}
		if bad.Param != tc.param {
			t.Errorf("Parse(%q): expected param %q, got %q", tc.raw, tc.param, bad.Param)
		}
	}
}

func TestPaginateClamp(t *testing.T) {
	// 3 items at limit 1: page 2 is valid, maxNumOfPages is 3.
	p := listquery.Paginate(3, 2, 1)
	if p.Page != 2 || p.MaxPages != 3 || p.Total != 3 {
		t.Errorf("got %+v", p)
	}
	if p.Skip() != 1 {
		t.Errorf("expected skip 1, got %d", p.Skip())
	}

	// Overflowing page clamps down to the last page.
	p = listquery.Paginate(3, 99, 1)
	if p.Page != 3 {
		t.Errorf("expected clamp to page 3, got %d", p.Page)
	}

	// Underflowing page clamps up to 1.
	p = listquery.Paginate(3, -4, 1)
	if p.Page != 1 {
		t.Errorf("expected clamp to page 1, got %d", p.Page)
	}
}

func TestPaginateEmptySet(t *testing.T) {
	p := listquery.Paginate(0, 5, 20)
	if p.Page != 1 || p.MaxPages != 1 || p.Total != 0 {
		t.Errorf("empty set should report one empty page, got %+v", p)
	}
	if p.Skip() != 0 {
		t.Errorf("expected skip 0, got %d", p.Skip())
	}
}

func TestPaginatePartialLastPage(t *testing.T) {
	p := listquery.Paginate(21, 1, 20)
	if p.MaxPages != 2 {
		t.Errorf("21 items at limit 20 should span 2 pages, got %d", p.MaxPages)
	}
}
