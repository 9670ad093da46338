package extract

import (
	"fmt"
	"math"

	"framecast/internal/graph"
	"framecast/internal/model"
	"framecast/internal/step"
)

// placement walks local placement -> relative axis placement -> location
// point and returns the insertion point in millimetres plus the in-plane
// rotation derived from the placement's reference direction.
func (x *extractor) placement(e *step.Entity) (model.Point, float64, error) {
	local := graph.Ref(x.st, e, attrPlacement)
	if local == nil {
		return model.Point{}, 0, fmt.Errorf("no object placement")
	}

	// IFCLOCALPLACEMENT: (PlacementRelTo, RelativePlacement)
	axis := graph.Ref(x.st, local, 1)
	if axis == nil {
		return model.Point{}, 0, fmt.Errorf("placement #%d has no relative placement", local.ID)
	}

	// IFCAXIS2PLACEMENT3D: (Location, Axis, RefDirection)
	location := graph.Ref(x.st, axis, 0)
	if location == nil {
		return model.Point{}, 0, fmt.Errorf("axis placement #%d has no location", axis.ID)
	}

	coords := graph.Numbers(location, 0)
	if len(coords) < 2 {
		return model.Point{}, 0, fmt.Errorf("location point #%d has %d coordinates", location.ID, len(coords))
	}
	point := model.Point{X: coords[0], Y: coords[1]}
	if len(coords) > 2 {
		point.Z = coords[2]
	}

	return point, rotationOf(x.st, axis), nil
}

// rotationOf reads the optional reference direction of an axis placement
// and converts its direction ratios to an angle in radians. No direction
// means no rotation.
func rotationOf(st *step.Store, axis *step.Entity) float64 {
	direction := graph.Ref(st, axis, 2)
	if direction == nil {
		return 0
	}
	ratios := graph.Numbers(direction, 0)
	if len(ratios) < 2 {
		return 0
	}
	if ratios[0] == 0 && ratios[1] == 0 {
		return 0
	}
	return math.Atan2(ratios[1], ratios[0])
}
