package query

import "fmt"

// ClauseLoc says where a compiled clause belongs in the assembled query.
type ClauseLoc int

const (
	// LocMain is the native filter document.
	LocMain ClauseLoc = iota
	// LocMainMerge is the native filter document, but merged per field
	// with whatever is already there. Implied-existence clauses use it.
	LocMainMerge
	// LocWhere is the scripted $where predicate.
	LocWhere
)

// Clause is one compiled constraint. Doc holds the native fragment for
// the main locations; Where holds the scripted predicate for LocWhere.
type Clause struct {
	Loc        ClauseLoc
	Reversed   bool
	Doc        map[string]interface{}
	Where      string
	Constraint Constraint
}

// CompileClause turns a constraint into a query clause. With reverse set
// the clause selects documents that do NOT satisfy the constraint.
func CompileClause(c Constraint, reverse bool) (*Clause, error) {
	return compileClause(c, reverse, false)
}

// compileExistenceClause compiles an implied-existence constraint, which
// is pinned to the main document and merged per field rather than OR-ed.
func compileExistenceClause(c Constraint, reverse bool) (*Clause, error) {
	return compileClause(c, reverse, true)
}

func compileClause(c Constraint, reverse, existsMain bool) (*Clause, error) {
	op := c.Op
	if reverse {
		var err error
		if op, err = op.Negate(); err != nil {
			return nil, badExpr(c.String(), err)
		}
	}
	cl := &Clause{Loc: LocMain, Reversed: reverse, Constraint: c}
	path := c.Field.FullName()

	switch {
	case op.IsExists():
		if existsMain {
			cl.Loc = LocMainMerge
		}
		if c.Value.Kind != ValueBool {
			return nil, badExpr(c.String(), fmt.Errorf("exists requires a boolean value, got %v", c.Value))
		}
		// the reversal applies to the boolean payload, not the operator
		v := c.Value.Bool
		if reverse {
			v = !v
		}
		cl.Doc = fragment(path, op.mongoOp(), v)

	case op.IsSizeVar():
		// comparing against another field's length only supports
		// equality, and must be scripted
		cl.Loc = LocWhere
		jsOp := "=="
		if reverse {
			jsOp = "!="
		}
		cl.Where = fmt.Sprintf("this.%s.length %s this.%v", path, jsOp, c.Value)

	case op.IsSizeEq() && !reverse:
		cl.Doc = fragment(path, op.mongoOp(), c.Value.Interface())

	case op.IsSize():
		// size inequalities, and reversed exact sizes, must be scripted
		if err := checkSizeBound(op, c.Value); err != nil {
			return nil, badExpr(c.String(), err)
		}
		cmp := op.sizeCmp()
		if reverse {
			cmp, _ = cmp.Negate()
		}
		cl.Loc = LocWhere
		cl.Where = fmt.Sprintf("this.%s.length %s %d", path, cmp.jsOp(), c.Value.Int)

	case op.IsType():
		cl.Loc = LocWhere
		typeOp := "=="
		if reverse {
			typeOp = "!="
		}
		cl.Where = fmt.Sprintf("typeof this.%s %s %q", path, typeOp, c.Value.Type.jsName())

	case op.IsRegex():
		cl.Doc = fragment(path, op.mongoOp(), c.Value.Regex.String())

	default:
		mop := op.mongoOp()
		switch {
		case mop == "":
			cl.Doc = map[string]interface{}{path: c.Value.Interface()}
		case c.Value.Kind == ValueBool:
			// {a: {$ne: bool}} simplifies to {a: !bool}; the reverse
			// flag is applied to the value here
			v := c.Value.Bool
			if reverse {
				v = !v
			}
			cl.Doc = map[string]interface{}{path: v}
		default:
			cl.Doc = fragment(path, mop, c.Value.Interface())
		}
	}
	return cl, nil
}

// checkSizeBound validates the bound of a scripted size comparison. The
// check looks at the sub-kind before any reversal: "x size< 0" is
// degenerate (always false) and rejected even when reversed.
func checkSizeBound(op Operator, v Value) error {
	if v.Kind != ValueInt {
		return fmt.Errorf("wrong type for size: %v", v)
	}
	if v.Int < 0 {
		return fmt.Errorf("negative value for size: %d", v.Int)
	}
	if op.IsSizeLt() && v.Int == 0 {
		return fmt.Errorf("value 0 is not allowed for size operator %q", op)
	}
	return nil
}

func fragment(path, mop string, value interface{}) map[string]interface{} {
	return map[string]interface{}{path: map[string]interface{}{mop: value}}
}
