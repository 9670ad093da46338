package extract

import (
	"framecast/internal/graph"
	"framecast/internal/model"
	"framecast/internal/step"
)

// Shape-representation walk: product shape -> representations list ->
// items -> extruded solid -> closed profile -> polyline -> points.
const (
	kwProductShape   = "IFCPRODUCTDEFINITIONSHAPE"
	kwShapeRep       = "IFCSHAPEREPRESENTATION"
	kwExtrudedSolid  = "IFCEXTRUDEDAREASOLID"
	kwClosedProfile  = "IFCARBITRARYCLOSEDPROFILEDEF"
	kwPolyline       = "IFCPOLYLINE"
	kwCartesianPoint = "IFCCARTESIANPOINT"
)

// boundary reads the closed polygon of the element's solid
// representation, if one exists. A trailing point equal to the first is
// dropped; callers treat fewer than three points as absent geometry.
func (x *extractor) boundary(e *step.Entity) []model.Point {
	solid := x.firstSolid(e)
	if solid == nil {
		return nil
	}

	// IFCEXTRUDEDAREASOLID: (SweptArea, Position, ExtrudedDirection, Depth)
	profile := graph.Ref(x.st, solid, 0)
	if profile == nil || profile.Type != kwClosedProfile {
		return nil
	}

	// IFCARBITRARYCLOSEDPROFILEDEF: (ProfileType, ProfileName, OuterCurve)
	curve := graph.Ref(x.st, profile, 2)
	if curve == nil || curve.Type != kwPolyline {
		return nil
	}

	var points []model.Point
	for _, pt := range graph.RefList(x.st, curve, 0) {
		if pt.Type != kwCartesianPoint {
			continue
		}
		coords := graph.Numbers(pt, 0)
		if len(coords) < 2 {
			continue
		}
		point := model.Point{X: coords[0], Y: coords[1]}
		if len(coords) > 2 {
			point.Z = coords[2]
		}
		points = append(points, point)
	}

	if len(points) > 1 && points[0] == points[len(points)-1] {
		points = points[:len(points)-1]
	}
	return points
}

// extrusionDepth returns the depth of the element's extruded solid, the
// geometric stand-in for a missing length, height, or thickness property.
func (x *extractor) extrusionDepth(e *step.Entity) (float64, bool) {
	solid := x.firstSolid(e)
	if solid == nil {
		return 0, false
	}
	return graph.Number(solid, 3)
}

func (x *extractor) firstSolid(e *step.Entity) *step.Entity {
	shape := graph.Ref(x.st, e, attrShape)
	if shape == nil || shape.Type != kwProductShape {
		return nil
	}
	// IFCPRODUCTDEFINITIONSHAPE: (Name, Description, Representations)
	for _, rep := range graph.RefList(x.st, shape, 2) {
		if rep.Type != kwShapeRep {
			continue
		}
		// IFCSHAPEREPRESENTATION: (Context, Identifier, Type, Items)
		for _, item := range graph.RefList(x.st, rep, 3) {
			if item.Type == kwExtrudedSolid {
				return item
			}
		}
	}
	return nil
}
