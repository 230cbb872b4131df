package query

import (
	"fmt"
	"strings"
)

// ConstraintGroup collects the constraints that apply to a single field,
// so that nonsense combinations can be rejected before compiling. It is
// an opt-in validation layer: ToMongo does not run it, because doing so
// would change the compiled output of queries that are accepted today.
type ConstraintGroup struct {
	field       Field
	constraints []Constraint
	existence   []Constraint
	array       bool
	ranged      bool
}

// NewConstraintGroup creates an empty group for one field.
func NewConstraintGroup(field Field) *ConstraintGroup {
	return &ConstraintGroup{field: field}
}

// Add validates op/value against the constraints already present and
// appends the new constraint. Equality cannot be combined with anything
// else for the same field, and an explicit exists is redundant next to
// any other operator.
func (g *ConstraintGroup) Add(op Operator, value Value) error {
	if len(g.constraints) > 0 {
		if op.IsEquality() {
			return fmt.Errorf("field %s: equality operator cannot be combined with others: %s",
				g.field.Name(), g.describe())
		}
		if op.IsExists() {
			return fmt.Errorf("field %s: existence is implied by other operators", g.field.Name())
		}
	}
	c, err := NewConstraint(g.field, op, value)
	if err != nil {
		return err
	}
	g.constraints = append(g.constraints, c)
	if g.field.HasSubfield() {
		g.array = true
	}
	if op.IsInequality() {
		g.ranged = true
	}
	return nil
}

// Constraints returns the accepted constraints in insertion order.
func (g *ConstraintGroup) Constraints() []Constraint { return g.constraints }

// HasArray reports whether any constraint picks an array subfield.
func (g *ConstraintGroup) HasArray() bool { return g.array }

// Conflicts describes combinations that cannot be satisfied together,
// empty when there are none.
func (g *ConstraintGroup) Conflicts() []string {
	var conflicts []string
	if g.array && g.ranged {
		conflicts = append(conflicts, "cannot use range expressions on arrays")
	}
	return conflicts
}

// AddExistence records an implied-existence constraint for the field.
// The usual meaning of "x > 0" is "x is present and greater than zero",
// but without the extra clause the target store also matches documents
// where x is absent. A lone exists or equality constraint does not need
// it.
func (g *ConstraintGroup) AddExistence(rev bool) error {
	if len(g.constraints) == 1 &&
		(g.constraints[0].Op.IsExists() || g.constraints[0].Op.IsEquality()) {
		return nil
	}
	exists, err := ParseOperator("exists")
	if err != nil {
		return err
	}
	c, err := NewConstraint(g.field, exists, BoolValue(!rev))
	if err != nil {
		return err
	}
	g.existence = append(g.existence, c)
	return nil
}

// ExistenceConstraints returns the implied-existence constraints added
// so far.
func (g *ConstraintGroup) ExistenceConstraints() []Constraint { return g.existence }

// ExistenceClauses compiles the implied-existence constraints into
// clauses that merge into the main document per field.
func (g *ConstraintGroup) ExistenceClauses(rev bool) ([]*Clause, error) {
	clauses := make([]*Clause, 0, len(g.existence))
	for _, c := range g.existence {
		cl, err := compileExistenceClause(c, rev)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cl)
	}
	return clauses, nil
}

func (g *ConstraintGroup) describe() string {
	parts := make([]string, len(g.constraints))
	for i, c := range g.constraints {
		parts[i] = c.String()
	}
	return strings.Join(parts, ", ")
}
