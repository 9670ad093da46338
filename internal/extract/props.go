package extract

import (
	"strings"

	"framecast/internal/graph"
	"framecast/internal/model"
	"framecast/internal/step"
)

// typeOf follows the defines-by-type inverse relation from an element
// occurrence to its type entity.
func (x *extractor) typeOf(e *step.Entity) *step.Entity {
	for _, rel := range graph.Inverse(x.st, e, kwRelDefinesByType, attrRelated) {
		if t := graph.Ref(x.st, rel, attrRelating); t != nil {
			return t
		}
	}
	return nil
}

// properties gathers the named key/value pairs visible from an element:
// the property sets attached to its type through defines-by-properties
// first, then any sets attached to the occurrence itself. Earlier sets
// win on duplicate keys.
func (x *extractor) properties(e *step.Entity) map[string]step.Value {
	props := make(map[string]step.Value)

	collect := func(owner *step.Entity) {
		if owner == nil {
			return
		}
		for _, rel := range graph.Inverse(x.st, owner, kwRelDefinesByProps, attrRelated) {
			x.readPropertySet(graph.Ref(x.st, rel, attrRelating), props)
		}
	}

	typeEntity := x.typeOf(e)
	collect(typeEntity)
	if typeEntity != nil {
		// Type entities may also list their property sets directly.
		for _, set := range graph.RefList(x.st, typeEntity, 5) {
			x.readPropertySet(set, props)
		}
	}
	collect(e)
	return props
}

func (x *extractor) readPropertySet(set *step.Entity, out map[string]step.Value) {
	if set == nil || set.Type != kwPropertySet {
		return
	}
	for _, prop := range graph.RefList(x.st, set, attrRelated) {
		if prop.Type != kwPropertySingle {
			continue
		}
		name, ok := graph.Text(prop, 0)
		if !ok {
			continue
		}
		key := strings.ToLower(name)
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = prop.Attr(2)
	}
}

// propNumber looks a numeric property up under any of the given names,
// unwrapping typed measures.
func propNumber(props map[string]step.Value, names ...string) (float64, bool) {
	for _, name := range names {
		v, ok := props[strings.ToLower(name)]
		if !ok {
			continue
		}
		if n, ok := graph.NumberOf(v); ok {
			return n, true
		}
	}
	return 0, false
}

func propText(props map[string]step.Value, names ...string) (string, bool) {
	for _, name := range names {
		v, ok := props[strings.ToLower(name)]
		if ok && v.Kind == step.TextValue && strings.TrimSpace(v.Text) != "" {
			return v.Text, true
		}
	}
	return "", false
}

// profileFor builds the cross-section profile of a beam or column from
// its properties, applying the configured defaults for anything the
// source omits.
func (x *extractor) profileFor(kind model.Kind, props map[string]step.Value) model.Profile {
	profile := model.Profile{Shape: shapeOf(props)}

	switch profile.Shape {
	case model.Circular:
		if d, ok := propNumber(props, "Diameter", "D"); ok {
			profile.Diameter = d
		} else if kind == model.Column {
			profile.Diameter = x.def.ColumnWidthMM
		} else {
			profile.Diameter = x.def.BeamWidthMM
		}
		return profile
	}

	if w, ok := propNumber(props, "Width", "b"); ok {
		profile.Width = w
	} else if kind == model.Column {
		profile.Width = x.def.ColumnWidthMM
	} else {
		profile.Width = x.def.BeamWidthMM
	}

	if h, ok := propNumber(props, "Height", "h", "Depth", "d"); ok {
		profile.Height = h
	} else if kind == model.Column {
		profile.Height = x.def.ColumnDepthMM
	} else {
		profile.Height = x.def.BeamHeightMM
	}

	return profile
}

func shapeOf(props map[string]step.Value) model.ShapeKind {
	shape, ok := propText(props, "Shape", "ProfileShape", "SectionShape")
	if !ok {
		return model.Rectangular
	}
	switch strings.ToLower(strings.TrimSpace(shape)) {
	case "rectangular", "rectangle", "rect":
		return model.Rectangular
	case "i", "i-shape", "ishape", "wide flange":
		return model.IShape
	case "t", "t-shape", "tshape":
		return model.TShape
	case "l", "l-shape", "lshape", "angle":
		return model.LShape
	case "circular", "circle", "round":
		return model.Circular
	default:
		return model.Custom
	}
}
