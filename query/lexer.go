package query

import (
	"fmt"
	"strings"
)

// The conjunction tokens are literal, case-sensitive and space-bounded,
// so field and value text containing "and"/"or" as substrings is safe.
const (
	tokOr  = " or "
	tokAnd = " and "
)

// unparen trims whitespace, then any number of leading or trailing
// parenthesis characters. Parentheses are purely cosmetic grouping hints
// and are ignored even when unbalanced.
func unparen(s string) string {
	return strings.Trim(strings.TrimSpace(s), "()")
}

// splitGroups breaks a filter string into OR-groups of AND-ed raw
// constraint strings.
func splitGroups(s string) [][]string {
	var groups [][]string
	if strings.Contains(s, tokOr) {
		for _, g := range strings.Split(s, tokOr) {
			groups = append(groups, strings.Split(unparen(g), tokAnd))
		}
	} else {
		groups = append(groups, strings.Split(unparen(s), tokAnd))
	}
	return groups
}

// normalizeGroups turns any accepted input form into OR-groups of raw
// items. Items are kept untyped here; per-item validation happens during
// constraint parsing so that the error can reference the item. An empty
// input yields nil, meaning a match-everything query.
func normalizeGroups(qry interface{}) ([][]interface{}, error) {
	switch q := qry.(type) {
	case string:
		if q == "" {
			return nil, nil
		}
		var groups [][]interface{}
		for _, g := range splitGroups(q) {
			groups = append(groups, toItems(g))
		}
		return groups, nil
	case []string:
		if len(q) == 0 {
			return nil, nil
		}
		return [][]interface{}{toItems(q)}, nil
	case [][]string:
		if len(q) == 0 {
			return nil, nil
		}
		groups := make([][]interface{}, 0, len(q))
		for _, g := range q {
			groups = append(groups, toItems(g))
		}
		return groups, nil
	case []interface{}:
		if len(q) == 0 {
			return nil, nil
		}
		// a list whose first element is itself a list is a list of
		// AND-groups; otherwise the whole list is one AND-group
		switch q[0].(type) {
		case []interface{}, []string:
			groups := make([][]interface{}, 0, len(q))
			for _, g := range q {
				switch inner := g.(type) {
				case []interface{}:
					groups = append(groups, inner)
				case []string:
					groups = append(groups, toItems(inner))
				default:
					return nil, &BadExpression{
						Expr:    fmt.Sprint(g),
						Details: fmt.Sprintf("expected list, got %T", g),
					}
				}
			}
			return groups, nil
		default:
			return [][]interface{}{q}, nil
		}
	}
	return nil, &BadExpression{
		Expr:    fmt.Sprint(qry),
		Details: fmt.Sprintf("expected string or list, got %T", qry),
	}
}

func toItems(g []string) []interface{} {
	items := make([]interface{}, len(g))
	for i, s := range g {
		items[i] = s
	}
	return items
}
