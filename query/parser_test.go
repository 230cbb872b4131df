package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseExpr(t *testing.T) {
	tests := []struct {
		input string
		field string
		op    string
		value Value
	}{
		{"a > 3", "a", ">", IntValue(3)},
		{"a>3", "a", ">", IntValue(3)},
		{"  a  <=  3.14  ", "a", "<=", FloatValue(3.14)},
		{"temp != -7", "temp", "!=", IntValue(-7)},
		{"b = 'hello'", "b", "=", StringValue("hello")},
		{`b = "hello"`, "b", "=", StringValue("hello")},
		{"flag exists True", "flag", "exists", BoolValue(true)},
		{"flag exists FALSE", "flag", "exists", BoolValue(false)},
		{"name ~ 'foo.*'", "name", "~", StringValue("foo.*")},
		{"coco type int", "coco", "type", StringValue("int")},
		{"tags size 3", "tags", "size", IntValue(3)},
		{"tags size> 3", "tags", "size>", IntValue(3)},
		{"tags size< 3", "tags", "size<", IntValue(3)},
		{"tags size$ other", "tags", "size$", StringValue("other")},
		{"items/price > 10", "items/price", ">", IntValue(10)},
		{"b = hello", "b", "=", StringValue("hello")},
		// prefix match: trailing garbage after a valid constraint is ignored
		{"a < 2 garbage", "a", "<", IntValue(2)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			field, op, value, err := parseExpr(tt.input)
			if err != nil {
				t.Fatalf("parseExpr(%q) failed: %v", tt.input, err)
			}
			if field != tt.field {
				t.Errorf("field = %q, want %q", field, tt.field)
			}
			if op != tt.op {
				t.Errorf("op = %q, want %q", op, tt.op)
			}
			if diff := cmp.Diff(tt.value, value); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseExprBad(t *testing.T) {
	bad := []string{
		"a <>2",
		"!a",
		"and or and",
		",,,",
		"",
		"a >",
		"= 3",
		"a = ''",
	}
	for _, input := range bad {
		if _, _, _, err := parseExpr(input); err == nil {
			t.Errorf("parseExpr(%q) should have failed", input)
		}
	}
}

func TestCoerceValue(t *testing.T) {
	tests := []struct {
		raw      string
		expected Value
	}{
		{"3", IntValue(3)},
		{"-3", IntValue(-3)},
		{"3.14", FloatValue(3.14)},
		{"True", BoolValue(true)},
		{"false", BoolValue(false)},
		{"'hi'", StringValue("hi")},
		{`"hi"`, StringValue("hi")},
		{"bare", StringValue("bare")},
	}
	for _, tt := range tests {
		got := coerceValue(tt.raw)
		if got.Kind != tt.expected.Kind || got.String() != tt.expected.String() {
			t.Errorf("coerceValue(%q) = %v (kind %d), want %v (kind %d)",
				tt.raw, got, got.Kind, tt.expected, tt.expected.Kind)
		}
	}
}

func TestParseConstraintErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"grammar mismatch", "a <>2"},
		{"inequality with string", "a > 'hello'"},
		{"unknown type name", "a type blob"},
		{"regex with number", "a ~ 3"},
		{"invalid regex pattern", "a ~ '['"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConstraint(tt.input)
			if err == nil {
				t.Fatalf("ParseConstraint(%q) should have failed", tt.input)
			}
			bad, ok := err.(*BadExpression)
			if !ok {
				t.Fatalf("error is %T, want *BadExpression", err)
			}
			if bad.Expr != tt.input {
				t.Errorf("BadExpression.Expr = %q, want %q", bad.Expr, tt.input)
			}
		})
	}
}
