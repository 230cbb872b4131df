package query

import "strings"

// Query accumulates the clauses of one AND-group and assembles them into
// a single query document.
type Query struct {
	main  []*Clause
	merge []*Clause
	where []*Clause
}

// AddClause files a compiled clause under its destination.
func (q *Query) AddClause(cl *Clause) {
	switch cl.Loc {
	case LocMain:
		q.main = append(q.main, cl)
	case LocMainMerge:
		q.merge = append(q.merge, cl)
	case LocWhere:
		q.where = append(q.where, cl)
	}
}

// Clauses returns the native-destination clauses.
func (q *Query) Clauses() []*Clause { return q.main }

// WhereClauses returns the scripted-destination clauses.
func (q *Query) WhereClauses() []*Clause { return q.where }

// ToDocument assembles the collected clauses. With disjunction set the
// clauses are OR-ed: the native fragments (and the scripted predicate,
// if any) become branches of a $or. Otherwise the native fragments merge
// key by key, a later clause overwriting an earlier one for the same
// field, and the scripted predicate attaches at the top level.
func (q *Query) ToDocument(disjunction bool) map[string]interface{} {
	doc := map[string]interface{}{}
	if len(q.main) > 0 {
		if disjunction {
			if len(q.main)+len(q.where) > 1 {
				branches := make([]interface{}, len(q.main))
				for i, cl := range q.main {
					branches[i] = cl.Doc
				}
				doc["$or"] = branches
			} else {
				// a disjunction of one thing is the thing itself
				for k, v := range q.main[0].Doc {
					doc[k] = v
				}
			}
		} else {
			for _, cl := range q.main {
				for k, v := range cl.Doc {
					doc[k] = v
				}
			}
		}
	}
	// merged clauses combine with whatever the field already has
	for _, cl := range q.merge {
		for field, frag := range cl.Doc {
			if cur, ok := doc[field].(map[string]interface{}); ok {
				if sub, ok := frag.(map[string]interface{}); ok {
					for k, v := range sub {
						cur[k] = v
					}
					continue
				}
			}
			doc[field] = frag
		}
	}
	if len(q.where) > 0 {
		sep := " && "
		if q.where[0].Reversed {
			sep = " || "
		}
		exprs := make([]string, len(q.where))
		for i, cl := range q.where {
			exprs[i] = cl.Where
		}
		where := strings.Join(exprs, sep)
		if disjunction {
			branches, _ := doc["$or"].([]interface{})
			doc["$or"] = append(branches, map[string]interface{}{"$where": where})
		} else {
			doc["$where"] = where
		}
	}
	return doc
}
