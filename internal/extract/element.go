package extract

import (
	"framecast/internal/graph"
	"framecast/internal/model"
	"framecast/internal/step"
)

func (x *extractor) beam(e *step.Entity) (model.Element, error) {
	element, err := x.base(e, model.Beam)
	if err != nil {
		return model.Element{}, err
	}

	props := x.properties(e)
	element.Profile = x.profileFor(model.Beam, props)
	if length, ok := propNumber(props, "Length", "Span"); ok {
		element.LengthMM = length
	} else if depth, ok := x.extrusionDepth(e); ok {
		element.LengthMM = depth
	}
	return element, nil
}

func (x *extractor) column(e *step.Entity) (model.Element, error) {
	element, err := x.base(e, model.Column)
	if err != nil {
		return model.Element{}, err
	}

	props := x.properties(e)
	element.Profile = x.profileFor(model.Column, props)

	// Base level is the containment level. Top data comes from the
	// type's property set when present.
	element.BaseOffset, _ = propNumber(props, "BaseOffset")
	if top, ok := propText(props, "TopLevel"); ok {
		element.TopLevel = top
		element.TopOffset, _ = propNumber(props, "TopOffset")
		return element, nil
	}

	// No explicit top level: the column spans from its base level to
	// itself, offset by its declared height. A weak substitute for a
	// real story-to-story span; disabled via configuration.
	element.TopLevel = element.Level.Name
	if x.def.ColumnTopFromHeight {
		if h, ok := propNumber(props, "Height", "h"); ok {
			element.TopOffset = h
		} else if depth, ok := x.extrusionDepth(e); ok {
			element.TopOffset = depth
		}
	}
	return element, nil
}

func (x *extractor) slab(e *step.Entity) (model.Element, error) {
	element, err := x.base(e, model.Slab)
	if err != nil {
		return model.Element{}, err
	}

	props := x.properties(e)
	if t, ok := propNumber(props, "Thickness"); ok {
		element.Thickness = t
	} else if depth, ok := x.extrusionDepth(e); ok {
		element.Thickness = depth
	} else {
		element.Thickness = x.def.SlabThicknessMM
	}
	element.Profile = model.Profile{Shape: model.Custom, Thickness: element.Thickness}

	element.Boundary = x.boundary(e)
	if len(element.Boundary) < 3 {
		// Never omit a slab: synthesize a square boundary at the origin.
		element.Boundary = squareBoundary(x.def.SlabBoundaryMM)
	}
	return element, nil
}

func (x *extractor) footing(e *step.Entity) (model.Element, error) {
	element, err := x.base(e, model.Footing)
	if err != nil {
		return model.Element{}, err
	}

	props := x.properties(e)
	element.Profile = x.profileFor(model.Footing, props)
	element.FootingKind = footingKind(e)
	return element, nil
}

// Footing predefined-type keyword sits after the tag attribute.
const attrFootingPredefined = 8

func footingKind(e *step.Entity) model.FootingKind {
	keyword, ok := graph.Enum(e, attrFootingPredefined)
	if !ok {
		return model.Isolated
	}
	switch keyword {
	case "STRIP_FOOTING", "FOOTING_BEAM":
		return model.Strip
	case "RAFT", "MAT":
		return model.Mat
	default:
		return model.Isolated
	}
}

func squareBoundary(side float64) []model.Point {
	return []model.Point{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side, Y: side},
		{X: 0, Y: side},
	}
}
