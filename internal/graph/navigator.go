// Package graph provides read-only query primitives over a parsed
// entity table. The exchange format encodes every relationship as a
// separate relation entity referencing both sides, with no back-pointer
// on the object; any "what type / level / material" question is
// therefore an inverse search, answered here through the store's
// back-reference index.
package graph

import (
	"regexp"
	"strconv"
	"strings"

	"framecast/internal/step"
)

// Text returns the text attribute at index i. Missing index, null, or a
// different kind report false rather than failing.
func Text(e *step.Entity, i int) (string, bool) {
	v := e.Attr(i)
	if v.Kind != step.TextValue {
		return "", false
	}
	return v.Text, true
}

// typedMeasureRe matches a wrapped typed measure such as
// IFCLENGTHMEASURE(300.) that the parser keeps as raw text.
var typedMeasureRe = regexp.MustCompile(`^[A-Z0-9_]+\(\s*(-?[0-9.Ee+-]+)\s*\)$`)

// Number returns the numeric attribute at index i, unwrapping a typed
// measure kept as text.
func Number(e *step.Entity, i int) (float64, bool) {
	return NumberOf(e.Attr(i))
}

// NumberOf extracts a number from a bare value, accepting either a
// numeric kind or a typed-measure text wrapper.
func NumberOf(v step.Value) (float64, bool) {
	switch v.Kind {
	case step.NumberValue:
		return v.Num, true
	case step.TextValue:
		if m := typedMeasureRe.FindStringSubmatch(v.Text); m != nil {
			if n, err := strconv.ParseFloat(m[1], 64); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// Enum returns the enumeration keyword at index i with its dot fencing
// stripped: `.STRIP_FOOTING.` becomes STRIP_FOOTING.
func Enum(e *step.Entity, i int) (string, bool) {
	v := e.Attr(i)
	if v.Kind != step.TextValue {
		return "", false
	}
	t := strings.TrimSpace(v.Text)
	if len(t) < 2 || !strings.HasPrefix(t, ".") || !strings.HasSuffix(t, ".") {
		return "", false
	}
	return t[1 : len(t)-1], true
}

// Ref resolves the single reference attribute at index i, or nil.
func Ref(st *step.Store, e *step.Entity, i int) *step.Entity {
	v := e.Attr(i)
	if v.Kind != step.RefValue {
		return nil
	}
	return st.Get(v.Ref)
}

// RefList resolves the reference-list attribute at index i. A missing or
// mismatched attribute yields an empty slice, never a fault; non-ref
// items inside the list are skipped.
func RefList(st *step.Store, e *step.Entity, i int) []*step.Entity {
	v := e.Attr(i)
	if v.Kind != step.ListValue {
		return nil
	}
	var out []*step.Entity
	for _, item := range v.List {
		if item.Kind != step.RefValue {
			continue
		}
		if target := st.Get(item.Ref); target != nil {
			out = append(out, target)
		}
	}
	return out
}

// Numbers returns the numeric items of the list attribute at index i.
func Numbers(e *step.Entity, i int) []float64 {
	v := e.Attr(i)
	if v.Kind != step.ListValue {
		return nil
	}
	out := make([]float64, 0, len(v.List))
	for _, item := range v.List {
		if n, ok := NumberOf(item); ok {
			out = append(out, n)
		}
	}
	return out
}

// Inverse returns every entity of relationType whose reference-list
// attribute at relatedIndex contains e.id. Candidates come from the
// back-reference index, so only entities already known to reference e
// are examined.
func Inverse(st *step.Store, e *step.Entity, relationType string, relatedIndex int) []*step.Entity {
	var out []*step.Entity
	for _, candidate := range st.Referencing(e.ID) {
		if candidate.Type != relationType {
			continue
		}
		if containsRef(candidate.Attr(relatedIndex), e.ID) {
			out = append(out, candidate)
		}
	}
	return out
}

func containsRef(v step.Value, id int64) bool {
	if v.Kind != step.ListValue {
		return false
	}
	for _, item := range v.List {
		if item.Kind == step.RefValue && item.Ref == id {
			return true
		}
	}
	return false
}
