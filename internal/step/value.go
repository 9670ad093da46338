package step

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the attribute value variants found in an exchange
// file: unset, quoted text, numeric literal, entity reference, or a
// parenthesised list of further values.
type Kind uint8

const (
	NullValue Kind = iota
	TextValue
	NumberValue
	RefValue
	ListValue
)

func (k Kind) String() string {
	switch k {
	case NullValue:
		return "null"
	case TextValue:
		return "text"
	case NumberValue:
		return "number"
	case RefValue:
		return "ref"
	case ListValue:
		return "list"
	default:
		return "unknown"
	}
}

// Value is one attribute of an entity statement. Exactly one of the
// payload fields is meaningful, selected by Kind. Enumeration keywords
// (`.ELEMENT.`) and typed measures (`IFCLENGTHMEASURE(300.)`) are kept
// as raw Text; callers that care unwrap them.
type Value struct {
	Kind Kind
	Text string
	Num  float64
	Ref  int64
	List []Value
}

func Null() Value               { return Value{Kind: NullValue} }
func Text(s string) Value       { return Value{Kind: TextValue, Text: s} }
func Number(f float64) Value    { return Value{Kind: NumberValue, Num: f} }
func Ref(id int64) Value        { return Value{Kind: RefValue, Ref: id} }
func List(items ...Value) Value { return Value{Kind: ListValue, List: items} }

func (v Value) IsNull() bool { return v.Kind == NullValue }

func (v Value) String() string {
	switch v.Kind {
	case NullValue:
		return "$"
	case TextValue:
		return "'" + strings.ReplaceAll(v.Text, "'", "''") + "'"
	case NumberValue:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case RefValue:
		return fmt.Sprintf("#%d", v.Ref)
	case ListValue:
		parts := make([]string, len(v.List))
		for i, item := range v.List {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, ",") + ")"
	default:
		return "?"
	}
}

// Equal reports deep structural equality of two value trees.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case TextValue:
		return v.Text == other.Text
	case NumberValue:
		return v.Num == other.Num
	case RefValue:
		return v.Ref == other.Ref
	case ListValue:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
