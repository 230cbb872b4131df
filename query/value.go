package query

import (
	"fmt"
	"regexp"
)

// ValueKind enumerates the closed set of value types a constraint can
// carry. TypeTag and Regex values only appear after constraint
// validation coerces a string value for the "type" and "~" operators.
type ValueKind int

const (
	ValueInt ValueKind = iota
	ValueFloat
	ValueBool
	ValueString
	ValueType
	ValueRegex
)

// TypeTag names the dynamic type a "type" constraint checks for.
type TypeTag int

const (
	TypeNumber TypeTag = iota
	TypeString
	TypeBoolean
)

// typeNames maps the accepted type-name spellings to their tag.
var typeNames = map[string]TypeTag{
	"number":  TypeNumber,
	"int":     TypeNumber,
	"integer": TypeNumber,
	"float":   TypeNumber,
	"str":     TypeString,
	"string":  TypeString,
	"bool":    TypeBoolean,
	"boolean": TypeBoolean,
}

// jsName returns the name produced by the JavaScript typeof operator for
// values of this type.
func (t TypeTag) jsName() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	}
	return "undefined"
}

// Value is a tagged union over the types a constraint value can take.
// Exactly the field selected by Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Int   int
	Float float64
	Bool  bool
	Str   string
	Type  TypeTag
	Regex *regexp.Regexp
}

func IntValue(n int) Value        { return Value{Kind: ValueInt, Int: n} }
func FloatValue(f float64) Value  { return Value{Kind: ValueFloat, Float: f} }
func BoolValue(b bool) Value      { return Value{Kind: ValueBool, Bool: b} }
func StringValue(s string) Value  { return Value{Kind: ValueString, Str: s} }
func typeValue(t TypeTag) Value   { return Value{Kind: ValueType, Type: t} }
func regexValue(re *regexp.Regexp) Value {
	return Value{Kind: ValueRegex, Str: re.String(), Regex: re}
}

// IsNumeric reports whether the value is an integer or a float.
func (v Value) IsNumeric() bool {
	return v.Kind == ValueInt || v.Kind == ValueFloat
}

// Interface returns the native Go representation used when the value is
// embedded into a query document.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueBool:
		return v.Bool
	case ValueString:
		return v.Str
	case ValueType:
		return v.Type
	case ValueRegex:
		return v.Regex
	}
	return nil
}

func (v Value) String() string {
	switch v.Kind {
	case ValueType:
		return v.Type.jsName()
	case ValueRegex:
		return v.Str
	}
	return fmt.Sprintf("%v", v.Interface())
}

// number returns the value as a float64 for numeric comparisons.
func (v Value) number() (float64, bool) {
	switch v.Kind {
	case ValueInt:
		return float64(v.Int), true
	case ValueFloat:
		return v.Float, true
	}
	return 0, false
}
