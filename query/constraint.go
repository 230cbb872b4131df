package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Constraint binds a field, an operator and a value, after checking that
// the three make sense together.
type Constraint struct {
	Field Field
	Op    Operator
	Value Value
}

// NewConstraint validates an operator/value combination and returns the
// resulting constraint. For the "type" operator the value is coerced to a
// type tag; for "~" it is compiled as a regular expression.
func NewConstraint(field Field, op Operator, value Value) (Constraint, error) {
	switch {
	case op.IsInequality():
		if !value.IsNumeric() {
			return Constraint{}, fmt.Errorf("inequality with non-numeric value: %v", value)
		}
	case op.IsType():
		if value.Kind != ValueString {
			return Constraint{}, fmt.Errorf("value for type, %v, is not a type name", value)
		}
		name := strings.ToLower(value.Str)
		t, ok := typeNames[name]
		if !ok {
			return Constraint{}, fmt.Errorf("value for type, %s, not in (%s)", name, allTypeNames())
		}
		value = typeValue(t)
	case op.IsRegex():
		if value.IsNumeric() {
			return Constraint{}, fmt.Errorf("regular expression with numeric value: %v", value)
		}
		re, err := regexp.Compile(value.Str)
		if err != nil {
			return Constraint{}, fmt.Errorf("invalid regular expression %q: %v", value.Str, err)
		}
		value = regexValue(re)
	}
	return Constraint{Field: field, Op: op, Value: value}, nil
}

// Passes reports whether a live document value satisfies the constraint.
// The value should be nil when the field is absent from the document.
func (c Constraint) Passes(value interface{}) (bool, error) {
	return c.Op.Compare(value, c.Value)
}

func (c Constraint) String() string {
	return fmt.Sprintf("%s %s", c.Field.Name(), c.Op)
}

func allTypeNames() string {
	names := make([]string, 0, len(typeNames))
	for name := range typeNames {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
