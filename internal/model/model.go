package model

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies a structural element variant.
type Kind string

const (
	Beam    Kind = "beam"
	Column  Kind = "column"
	Slab    Kind = "slab"
	Footing Kind = "footing"
)

// Kinds lists every element kind in pipeline batch order.
func Kinds() []Kind {
	return []Kind{Beam, Column, Slab, Footing}
}

// ShapeKind is the cross-section family of a profile.
type ShapeKind string

const (
	Rectangular ShapeKind = "rectangular"
	IShape      ShapeKind = "i"
	TShape      ShapeKind = "t"
	LShape      ShapeKind = "l"
	Circular    ShapeKind = "circular"
	Custom      ShapeKind = "custom"
)

// FootingKind classifies a footing by its predefined-type keyword.
type FootingKind string

const (
	Isolated FootingKind = "isolated"
	Strip    FootingKind = "strip"
	Mat      FootingKind = "mat"
)

// Point is a position in millimetres.
type Point struct {
	X float64
	Y float64
	Z float64
}

// Profile is the cross-sectional shape and dimension set of an element.
// All dimensions are millimetres.
type Profile struct {
	Shape     ShapeKind
	Width     float64
	Height    float64
	Thickness float64
	Diameter  float64
}

// Dims returns the profile dimensions that matter for the given shape,
// in a stable order, for cache keys and synthesized type names.
func (p Profile) Dims() []float64 {
	switch p.Shape {
	case Circular:
		return []float64{p.Diameter}
	default:
		return []float64{p.Width, p.Height}
	}
}

// Level is a building storey referenced by elements.
type Level struct {
	Name        string
	ElevationMM float64
}

// Element is one reconstructed structural element. Built once per parse
// and never mutated after assembly.
type Element struct {
	GlobalID    string
	Kind        Kind
	Name        string
	Description string
	TypeName    string
	Material    string
	Level       Level
	Placement   Point
	Rotation    float64
	Profile     Profile

	// Column span. TopLevel equals Level.Name when the source carried
	// no explicit top level; the offsets are millimetres.
	TopLevel   string
	BaseOffset float64
	TopOffset  float64

	// Slab geometry.
	Boundary  []Point
	Thickness float64

	// Footing classification.
	FootingKind FootingKind

	// Length of the beam axis, when derivable.
	LengthMM float64
}

// SourceClass is the exchange-format keyword the element came from.
func (e *Element) SourceClass() string {
	switch e.Kind {
	case Beam:
		return "IFCBEAM"
	case Column:
		return "IFCCOLUMN"
	case Slab:
		return "IFCSLAB"
	case Footing:
		return "IFCFOOTING"
	default:
		return strings.ToUpper(string(e.Kind))
	}
}

// Model is the assembled output of one parse: the accepted elements plus
// the distinct levels and materials they reference.
type Model struct {
	Elements          []Element
	RequiredLevels    []Level
	RequiredMaterials []string
}

// OfKind returns the elements of one kind in assembly order.
func (m *Model) OfKind(kind Kind) []Element {
	var out []Element
	for _, e := range m.Elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// DeriveRequirements recomputes the level and material sets from the
// current elements. Ordering is stable for a fixed element sequence;
// downstream creation is idempotent so order carries no meaning.
func (m *Model) DeriveRequirements() {
	levels := make(map[string]Level)
	materials := make(map[string]struct{})
	for _, e := range m.Elements {
		if e.Level.Name != "" {
			key := fmt.Sprintf("%s|%.1f", e.Level.Name, e.Level.ElevationMM)
			levels[key] = e.Level
		}
		if e.Material != "" {
			materials[e.Material] = struct{}{}
		}
	}

	m.RequiredLevels = m.RequiredLevels[:0]
	for _, level := range levels {
		m.RequiredLevels = append(m.RequiredLevels, level)
	}
	sort.Slice(m.RequiredLevels, func(i, j int) bool {
		if m.RequiredLevels[i].ElevationMM != m.RequiredLevels[j].ElevationMM {
			return m.RequiredLevels[i].ElevationMM < m.RequiredLevels[j].ElevationMM
		}
		return m.RequiredLevels[i].Name < m.RequiredLevels[j].Name
	})

	m.RequiredMaterials = m.RequiredMaterials[:0]
	for name := range materials {
		m.RequiredMaterials = append(m.RequiredMaterials, name)
	}
	sort.Strings(m.RequiredMaterials)
}
