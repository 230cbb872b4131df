package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// constraintRe tokenizes one raw constraint into field, operator and
// value. It is anchored at the start but not the end: trailing text
// after a well-formed constraint is ignored. The value alternatives are
// ordered: number, quoted string, boolean, then a bare identifier (a
// variable reference, only meaningful with the size$ operator).
var constraintRe = regexp.MustCompile(`^\s*` +
	`([a-zA-Z_.0-9]+(?:/[a-zA-Z_.0-9]+)?)\s*` + // field, optional subfield pick
	`(<=?|>=?|!?=|exists|~|type|size[><$]?)\s*` + // operator
	`(-?\d+(?:\.\d+)?` + // value: number
	`|'[^']+'` + //   single-quoted string
	`|"[^"]+"` + //   double-quoted string
	`|[Tt]rue|[Ff]alse` + //   boolean
	`|[a-zA-Z_][a-zA-Z_.0-9]*` + //   variable name
	`)\s*`)

// parseExpr splits a single raw constraint into its (field, operator,
// value) triple. The value is coerced by ordered attempts: integer, then
// float, then boolean (any case), then string, with surrounding quotes
// stripped when present.
func parseExpr(e string) (string, string, Value, error) {
	m := constraintRe.FindStringSubmatch(e)
	if m == nil {
		return "", "", Value{}, fmt.Errorf("error parsing expression %q", e)
	}
	return m[1], m[2], coerceValue(m[3]), nil
}

func coerceValue(raw string) Value {
	if n, err := strconv.Atoi(raw); err == nil {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return FloatValue(f)
	}
	switch strings.ToLower(raw) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if len(raw) >= 2 {
		if (raw[0] == '\'' && raw[len(raw)-1] == '\'') ||
			(raw[0] == '"' && raw[len(raw)-1] == '"') {
			return StringValue(raw[1 : len(raw)-1])
		}
	}
	return StringValue(raw)
}

// ParseConstraint parses and validates one raw constraint expression.
// Any failure is reported as a BadExpression referencing e.
func ParseConstraint(e string) (Constraint, error) {
	rawField, rawOp, value, err := parseExpr(e)
	if err != nil {
		return Constraint{}, badExpr(e, err)
	}
	field, err := ParseField(rawField)
	if err != nil {
		return Constraint{}, badExpr(e, err)
	}
	op, err := ParseOperator(rawOp)
	if err != nil {
		return Constraint{}, badExpr(e, err)
	}
	c, err := NewConstraint(field, op, value)
	if err != nil {
		return Constraint{}, badExpr(e, err)
	}
	return c, nil
}
