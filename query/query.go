// Package query compiles a small human-writable filter-expression
// language into MongoDB query documents, so that
//
//	a > 3 and b = 'hello'
//
// becomes
//
//	{"a": {"$gt": 3}, "b": "hello"}
//
// Expressions are constraints of the form "field operator value", joined
// into groups with " and "; groups joined with " or " become branches of
// a $or. Operators the native query form cannot express (dynamic type
// checks, array-length inequalities, array length against another field)
// compile into a $where predicate instead.
package query

import "fmt"

// ToMongo transforms filter expression(s) into a MongoDB query document.
// The input is either a string in the expression grammar or a list form:
// a flat list is one AND-group, a list of lists is OR-ed AND-groups.
// Accepted list types are []string, [][]string and []interface{} (with
// nested []interface{} or []string groups).
//
// An empty string or empty list compiles to the empty document, which
// matches everything. Any expression that cannot be understood fails the
// whole call with a *BadExpression; there is no partial result.
//
// ToMongo performs the following steps:
// 1. Split the input into OR-groups of raw constraint strings
// 2. Parse and validate each constraint
// 3. Compile each constraint into a native or scripted clause
// 4. Assemble one document per group, then $or the groups together
func ToMongo(qry interface{}) (map[string]interface{}, error) {
	groups, err := normalizeGroups(qry)
	if err != nil {
		return nil, err
	}
	if groups == nil {
		return map[string]interface{}{}, nil
	}

	filters := make([]map[string]interface{}, 0, len(groups))
	for _, group := range groups {
		mq := &Query{}
		for _, item := range group {
			e, ok := item.(string)
			if !ok {
				return nil, &BadExpression{
					Expr:    fmt.Sprint(item),
					Details: fmt.Sprintf("expected string, got %T", item),
				}
			}
			e = unparen(e)
			c, err := ParseConstraint(e)
			if err != nil {
				return nil, err
			}
			cl, err := CompileClause(c, false)
			if err != nil {
				return nil, err
			}
			mq.AddClause(cl)
		}
		filters = append(filters, mq.ToDocument(false))
	}

	if len(filters) > 1 {
		branches := make([]interface{}, len(filters))
		for i, f := range filters {
			branches[i] = f
		}
		return map[string]interface{}{"$or": branches}, nil
	}
	return filters[0], nil
}
