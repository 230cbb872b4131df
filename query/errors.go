package query

import "fmt"

// BadExpression is returned whenever an input filter expression cannot be
// understood. Expr holds the offending raw sub-expression and Details a
// human-readable explanation of what went wrong.
type BadExpression struct {
	Expr    string
	Details string
}

func (e *BadExpression) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("bad expression %q", e.Expr)
	}
	return fmt.Sprintf("bad expression %q: %s", e.Expr, e.Details)
}

// badExpr wraps an internal validation error into a BadExpression carrying
// the raw expression it came from.
func badExpr(expr string, err error) *BadExpression {
	if bad, ok := err.(*BadExpression); ok {
		if bad.Expr == "" {
			bad.Expr = expr
		}
		return bad
	}
	return &BadExpression{Expr: expr, Details: err.Error()}
}
