package query

import (
	"fmt"
	"strings"
)

// OpCode enumerates the closed set of constraint operators.
type OpCode int

const (
	OpEq OpCode = iota // =
	OpNe               // !=
	OpGt               // >
	OpGte              // >=
	OpLt               // <
	OpLte              // <=
	OpExists           // exists
	OpRegex            // ~
	OpType             // type
	OpSize             // size, size>, size<, size$
)

// SizeCode is the sub-kind carried by a size operator.
type SizeCode int

const (
	SizeNone SizeCode = iota
	SizeEq            // size
	SizeGt            // size>
	SizeLt            // size<
	SizeVar           // size$, compares against another field's length
)

// Operator is a validated constraint operator. The zero value is "=".
type Operator struct {
	code OpCode
	size SizeCode
}

var opTokens = map[string]Operator{
	"=":      {code: OpEq},
	"!=":     {code: OpNe},
	">":      {code: OpGt},
	">=":     {code: OpGte},
	"<":      {code: OpLt},
	"<=":     {code: OpLte},
	"exists": {code: OpExists},
	"~":      {code: OpRegex},
	"type":   {code: OpType},
	"size":   {code: OpSize, size: SizeEq},
	"size>":  {code: OpSize, size: SizeGt},
	"size<":  {code: OpSize, size: SizeLt},
	"size$":  {code: OpSize, size: SizeVar},
}

// ParseOperator validates a raw operator token against the closed grammar.
func ParseOperator(tok string) (Operator, error) {
	if op, ok := opTokens[tok]; ok {
		return op, nil
	}
	if strings.HasPrefix(tok, "size") {
		return Operator{}, fmt.Errorf("invalid \"size\" suffix %q", tok[len("size"):])
	}
	return Operator{}, fmt.Errorf("bad operation: %s", tok)
}

// Code returns the operator's kind.
func (o Operator) Code() OpCode { return o.code }

// SizeKind returns the size sub-kind, SizeNone for non-size operators.
func (o Operator) SizeKind() SizeCode { return o.size }

func (o Operator) IsEq() bool         { return o.code == OpEq }
func (o Operator) IsNeq() bool        { return o.code == OpNe }
func (o Operator) IsEquality() bool   { return o.code == OpEq || o.code == OpNe }
func (o Operator) IsInequality() bool {
	return o.code == OpGt || o.code == OpGte || o.code == OpLt || o.code == OpLte
}
func (o Operator) IsExists() bool  { return o.code == OpExists }
func (o Operator) IsRegex() bool   { return o.code == OpRegex }
func (o Operator) IsType() bool    { return o.code == OpType }
func (o Operator) IsSize() bool    { return o.code == OpSize }
func (o Operator) IsSizeEq() bool  { return o.code == OpSize && o.size == SizeEq }
func (o Operator) IsSizeGt() bool  { return o.code == OpSize && o.size == SizeGt }
func (o Operator) IsSizeLt() bool  { return o.code == OpSize && o.size == SizeLt }
func (o Operator) IsSizeVar() bool { return o.code == OpSize && o.size == SizeVar }

// String renders the operator back to its token form.
func (o Operator) String() string {
	switch o.code {
	case OpEq:
		return "="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpExists:
		return "exists"
	case OpRegex:
		return "~"
	case OpType:
		return "type"
	case OpSize:
		switch o.size {
		case SizeGt:
			return "size>"
		case SizeLt:
			return "size<"
		case SizeVar:
			return "size$"
		}
		return "size"
	}
	return "?"
}

// Negate returns the logical complement of the operator. exists, size and
// type negate to themselves; their reversal is expressed elsewhere, by
// flipping the value or the generated comparison. The regex operator has
// no complement and fails.
func (o Operator) Negate() (Operator, error) {
	switch o.code {
	case OpGt:
		return Operator{code: OpLte}, nil
	case OpGte:
		return Operator{code: OpLt}, nil
	case OpLt:
		return Operator{code: OpGte}, nil
	case OpLte:
		return Operator{code: OpGt}, nil
	case OpEq:
		return Operator{code: OpNe}, nil
	case OpNe:
		return Operator{code: OpEq}, nil
	case OpExists, OpType, OpSize:
		return o, nil
	case OpRegex:
		return Operator{}, &BadExpression{Expr: o.String(), Details: "cannot reverse operator '~'"}
	}
	return Operator{}, fmt.Errorf("bad operation: %s", o)
}

// mongoOp returns the native query tag for the operator. The "=" case has
// no tag: equality is expressed as a plain {field: value} pair.
func (o Operator) mongoOp() string {
	switch o.code {
	case OpEq:
		return ""
	case OpNe:
		return "$ne"
	case OpGt:
		return "$gt"
	case OpGte:
		return "$gte"
	case OpLt:
		return "$lt"
	case OpLte:
		return "$lte"
	case OpExists:
		return "$exists"
	case OpRegex:
		return "$regex"
	case OpType:
		return "$type"
	case OpSize:
		return "$size"
	}
	return ""
}

// jsOp renders an equality or inequality operator in the scripted
// ($where) dialect, where "=" becomes "==".
func (o Operator) jsOp() string {
	if o.code == OpEq {
		return "=="
	}
	return o.String()
}

// sizeCmp maps a size sub-kind onto the plain comparison operator used
// when the size check must be scripted. The variable sub-kind compares by
// equality.
func (o Operator) sizeCmp() Operator {
	switch o.size {
	case SizeGt:
		return Operator{code: OpGt}
	case SizeLt:
		return Operator{code: OpLt}
	}
	return Operator{code: OpEq}
}

// Compare evaluates "lhs <op> rhs" against a live document value. It is a
// pure, host-independent check used for self-testing constraints outside
// of any database; lhs is a decoded document value (nil meaning absent)
// and rhs the constraint's validated value.
func (o Operator) Compare(lhs interface{}, rhs Value) (bool, error) {
	switch {
	case o.IsEq():
		return lhs != nil && looseEqual(lhs, rhs), nil
	case o.IsNeq():
		return lhs != nil && !looseEqual(lhs, rhs), nil
	case o.IsExists():
		if rhs.Kind != ValueBool {
			return false, fmt.Errorf("exists comparison requires a boolean, got %v", rhs)
		}
		if rhs.Bool {
			return lhs != nil, nil
		}
		return lhs == nil, nil
	case o.IsSize():
		length, err := toInt64(lhs)
		if err != nil {
			return false, err
		}
		bound, ok := rhs.number()
		if !ok {
			return false, fmt.Errorf("size comparison requires a numeric bound, got %v", rhs)
		}
		switch o.size {
		case SizeGt:
			return float64(length) > bound, nil
		case SizeLt:
			return float64(length) < bound, nil
		default:
			return float64(length) == bound, nil
		}
	case o.IsInequality():
		l, err := toFloat64(lhs)
		if err != nil {
			return false, nil // non-numeric values never satisfy an inequality
		}
		r, ok := rhs.number()
		if !ok {
			return false, fmt.Errorf("inequality with non-numeric value: %v", rhs)
		}
		switch o.code {
		case OpGt:
			return l > r, nil
		case OpGte:
			return l >= r, nil
		case OpLt:
			return l < r, nil
		default:
			return l <= r, nil
		}
	case o.IsType():
		if rhs.Kind != ValueType {
			return false, fmt.Errorf("type comparison requires a type tag, got %v", rhs)
		}
		switch rhs.Type {
		case TypeNumber:
			_, err := toFloat64(lhs)
			return err == nil, nil
		case TypeString:
			_, ok := lhs.(string)
			return ok, nil
		case TypeBoolean:
			_, ok := lhs.(bool)
			return ok, nil
		}
		return false, nil
	case o.IsRegex():
		if rhs.Kind != ValueRegex {
			return false, fmt.Errorf("regex comparison requires a compiled pattern, got %v", rhs)
		}
		s, ok := lhs.(string)
		if !ok {
			return false, nil
		}
		// anchored at the start, like a prefix match
		loc := rhs.Regex.FindStringIndex(s)
		return loc != nil && loc[0] == 0, nil
	}
	return false, fmt.Errorf("bad operation: %s", o)
}

// looseEqual compares a document value with a constraint value, letting
// integers and floats compare equal across types.
func looseEqual(lhs interface{}, rhs Value) bool {
	if rhs.IsNumeric() {
		l, err := toFloat64(lhs)
		if err != nil {
			return false
		}
		r, _ := rhs.number()
		return l == r
	}
	switch rhs.Kind {
	case ValueBool:
		b, ok := lhs.(bool)
		return ok && b == rhs.Bool
	case ValueString:
		s, ok := lhs.(string)
		return ok && s == rhs.Str
	}
	return false
}

func toInt64(v interface{}) (int64, error) {
	switch i := v.(type) {
	case int:
		return int64(i), nil
	case int64:
		return i, nil
	case float64:
		return int64(i), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to int64", v)
	}
}

func toFloat64(v interface{}) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case float32:
		return float64(f), nil
	case int:
		return float64(f), nil
	case int64:
		return float64(f), nil
	case bool:
		return 0, fmt.Errorf("cannot convert bool to float64")
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
