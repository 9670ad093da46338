package extract

import (
	"framecast/internal/graph"
	"framecast/internal/model"
	"framecast/internal/step"
)

// Storey attribute positions: the elevation sits late in the attribute
// list, after the long name and composition type.
const (
	attrStoreyName      = 2
	attrStoreyElevation = 9
)

// level follows the contained-in-spatial-structure inverse relation to
// the containing storey. An uncontained element keeps a zero Level; the
// level is optional per element.
func (x *extractor) level(e *step.Entity) model.Level {
	for _, rel := range graph.Inverse(x.st, e, kwRelContainedSpatial, attrRelated) {
		storey := graph.Ref(x.st, rel, attrRelating)
		if storey == nil || storey.Type != kwBuildingStorey {
			continue
		}
		var level model.Level
		level.Name, _ = graph.Text(storey, attrStoreyName)
		level.ElevationMM, _ = graph.Number(storey, attrStoreyElevation)
		if level.Name != "" {
			return level
		}
	}
	return model.Level{}
}
