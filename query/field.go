package query

import (
	"fmt"
	"strings"
)

// PickSep is the embedded syntax for picking a subfield of an array field,
// as in "items/price". It is rendered with dotted-path notation in the
// generated query.
const PickSep = "/"

// Field identifies a location in a document. It is either a plain name or
// a name plus one subfield picked with PickSep.
type Field struct {
	name string
	sub  string
}

// ParseField builds a Field from its textual form. The name must be
// non-empty and contain at most one pick separator.
func ParseField(name string) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("empty field name")
	}
	parts := strings.Split(name, PickSep)
	switch len(parts) {
	case 1:
		return Field{name: parts[0]}, nil
	case 2:
		if parts[0] == "" || parts[1] == "" {
			return Field{}, fmt.Errorf("malformed subfield pick in %q", name)
		}
		return Field{name: parts[0], sub: parts[1]}, nil
	default:
		return Field{}, fmt.Errorf("more than one %q in field %q", PickSep, name)
	}
}

// Name returns the base field name, without any picked subfield.
func (f Field) Name() string { return f.name }

// SubName returns the picked subfield name, or "" if there is none.
func (f Field) SubName() string { return f.sub }

// HasSubfield reports whether a subfield was picked.
func (f Field) HasSubfield() bool { return f.sub != "" }

// FullName renders the field as a dotted path, the form used as a key in
// generated queries.
func (f Field) FullName() string {
	if f.sub == "" {
		return f.name
	}
	return f.name + "." + f.sub
}

func (f Field) String() string { return f.FullName() }
