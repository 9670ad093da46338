package step

// Entity is one parsed `#id = TYPE(attributes);` statement. Entities are
// immutable once the store is built.
type Entity struct {
	ID    int64
	Type  string
	Attrs []Value
}

// Attr returns the attribute at index i, or a Null value when the index
// is out of range.
func (e *Entity) Attr(i int) Value {
	if e == nil || i < 0 || i >= len(e.Attrs) {
		return Null()
	}
	return e.Attrs[i]
}

// guidLength is the fixed width of the compressed identifier string that
// rooted entities carry as their first attribute.
const guidLength = 22

// GUID returns the stable identifier of a rooted entity: a text first
// attribute of the conventional compressed-identifier width.
func (e *Entity) GUID() (string, bool) {
	v := e.Attr(0)
	if v.Kind != TextValue || len(v.Text) != guidLength {
		return "", false
	}
	return v.Text, true
}
