package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToMongo(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected map[string]interface{}
	}{
		{
			name:     "empty string matches everything",
			input:    "",
			expected: map[string]interface{}{},
		},
		{
			name:     "empty list matches everything",
			input:    []interface{}{},
			expected: map[string]interface{}{},
		},
		{
			name:  "single and group",
			input: "a > 3 and b = 'hello'",
			expected: map[string]interface{}{
				"a": map[string]interface{}{"$gt": 3},
				"b": "hello",
			},
		},
		{
			name:  "two or groups with parens",
			input: `(a > 3 and b = "hello") or (c > 1 and d = "goodbye")`,
			expected: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"a": map[string]interface{}{"$gt": 3}, "b": "hello"},
					map[string]interface{}{"c": map[string]interface{}{"$gt": 1}, "d": "goodbye"},
				},
			},
		},
		{
			name:  "same query without parens",
			input: `a > 3 and b = "hello" or c > 1 and d = "goodbye"`,
			expected: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"a": map[string]interface{}{"$gt": 3}, "b": "hello"},
					map[string]interface{}{"c": map[string]interface{}{"$gt": 1}, "d": "goodbye"},
				},
			},
		},
		{
			name:  "same query in list form",
			input: [][]string{{"a > 3", `b = "hello"`}, {"c > 1", `d = "goodbye"`}},
			expected: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{"a": map[string]interface{}{"$gt": 3}, "b": "hello"},
					map[string]interface{}{"c": map[string]interface{}{"$gt": 1}, "d": "goodbye"},
				},
			},
		},
		{
			name:  "scripted group becomes its own branch",
			input: "abba > 12 and beebs <= 3 or coco type int",
			expected: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{
						"abba":  map[string]interface{}{"$gt": 12},
						"beebs": map[string]interface{}{"$lte": 3},
					},
					map[string]interface{}{"$where": `typeof this.coco == "number"`},
				},
			},
		},
		{
			name:  "mixed native and scripted branches",
			input: `abba > 12 and beebs <= 3 or coco type int or abba = "foo" and beebs exists false`,
			expected: map[string]interface{}{
				"$or": []interface{}{
					map[string]interface{}{
						"abba":  map[string]interface{}{"$gt": 12},
						"beebs": map[string]interface{}{"$lte": 3},
					},
					map[string]interface{}{"$where": `typeof this.coco == "number"`},
					map[string]interface{}{
						"abba":  "foo",
						"beebs": map[string]interface{}{"$exists": false},
					},
				},
			},
		},
		{
			name:  "scripted and native in one group",
			input: "tags size> 2 and a = 1",
			expected: map[string]interface{}{
				"a":      1,
				"$where": "this.tags.length > 2",
			},
		},
		{
			name:  "subfield pick renders dotted",
			input: "items/price > 10",
			expected: map[string]interface{}{
				"items.price": map[string]interface{}{"$gt": 10},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToMongo(tt.input)
			if err != nil {
				t.Fatalf("ToMongo(%v) failed: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ToMongo(%v) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestToMongoGroupingIdempotence(t *testing.T) {
	want, err := ToMongo("a = 1")
	if err != nil {
		t.Fatalf("ToMongo failed: %v", err)
	}
	for _, input := range []interface{}{
		"(a = 1)",
		[]string{"a = 1"},
		[][]string{{"a = 1"}},
		[]interface{}{"a = 1"},
		[]interface{}{[]interface{}{"a = 1"}},
	} {
		got, err := ToMongo(input)
		if err != nil {
			t.Fatalf("ToMongo(%v) failed: %v", input, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ToMongo(%v) differs from ToMongo(\"a = 1\") (-want +got):\n%s", input, diff)
		}
	}
}

func TestToMongoNoTopLevelOrForSingleGroup(t *testing.T) {
	got, err := ToMongo("a = 1 and b = 2 and c type int")
	if err != nil {
		t.Fatalf("ToMongo failed: %v", err)
	}
	if _, ok := got["$or"]; ok {
		t.Errorf("single AND-group should not produce $or: %v", got)
	}
}

func TestToMongoBadExpressions(t *testing.T) {
	bad := []interface{}{
		"a <>2",
		"!a",
		"and or and",
		",,,",
		[]interface{}{map[string]interface{}{}},
		"a > 'text'",
		"x size< 0",
		"a type blob",
		"a ~ 3",
	}
	for _, input := range bad {
		if _, err := ToMongo(input); err == nil {
			t.Errorf("ToMongo(%v) should have failed", input)
		}
	}
}

func TestToMongoErrorReferencesExpression(t *testing.T) {
	_, err := ToMongo("a <>2")
	if err == nil {
		t.Fatal("ToMongo should have failed")
	}
	bad, ok := err.(*BadExpression)
	if !ok {
		t.Fatalf("error is %T, want *BadExpression", err)
	}
	if bad.Expr != "a <>2" {
		t.Errorf("BadExpression.Expr = %q, want %q", bad.Expr, "a <>2")
	}
}

func TestToMongoSizeBoundaries(t *testing.T) {
	got, err := ToMongo("x size 0")
	if err != nil {
		t.Fatalf("ToMongo(\"x size 0\") failed: %v", err)
	}
	expected := map[string]interface{}{"x": map[string]interface{}{"$size": 0}}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := ToMongo("x size< 0"); err == nil {
		t.Error("ToMongo(\"x size< 0\") should have failed")
	}
}

func TestToMongoValueCoercion(t *testing.T) {
	got, err := ToMongo("a = 3 and b = 3.14 and c = True and d = false")
	if err != nil {
		t.Fatalf("ToMongo failed: %v", err)
	}
	expected := map[string]interface{}{
		"a": 3,
		"b": 3.14,
		"c": true,
		"d": false,
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReversalComplementarity(t *testing.T) {
	// compiling the negated operator forward equals compiling the
	// original in reverse, for every negatable operator
	pairs := []struct {
		expr, negated string
	}{
		{"a > 3", "a <= 3"},
		{"a >= 3", "a < 3"},
		{"a < 3", "a >= 3"},
		{"a <= 3", "a > 3"},
		{"a = 3", "a != 3"},
		{"a != 3", "a = 3"},
	}
	for _, tt := range pairs {
		fwd, err := CompileClause(mustConstraint(t, tt.negated), false)
		if err != nil {
			t.Fatalf("CompileClause(%q) failed: %v", tt.negated, err)
		}
		rev, err := CompileClause(mustConstraint(t, tt.expr), true)
		if err != nil {
			t.Fatalf("CompileClause(%q, reverse) failed: %v", tt.expr, err)
		}
		if diff := cmp.Diff(fwd.Doc, rev.Doc); diff != "" {
			t.Errorf("reverse(%q) != forward(%q) (-want +got):\n%s", tt.expr, tt.negated, diff)
		}
	}
}

func BenchmarkToMongo(b *testing.B) {
	expr := `a >= 12 and bee size 10 and cee exists true and eff ~ "^foo|bar.*"`
	group := make([]string, 25)
	for i := range group {
		group[i] = expr
	}
	groups := make([][]string, 100)
	for i := range groups {
		groups[i] = group
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ToMongo(groups); err != nil {
			b.Fatal(err)
		}
	}
}
