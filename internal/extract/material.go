package extract

import (
	"framecast/internal/graph"
	"framecast/internal/step"
)

// material resolves the element's material name through the
// associates-material inverse relation. A direct material record yields
// its name; a layered usage descends to the first layer's material. An
// unresolvable material takes the configured default so nothing
// downstream ever sees an empty name.
func (x *extractor) material(e *step.Entity) string {
	if name, ok := x.materialName(e); ok {
		return name
	}
	// The association may sit on the type rather than the occurrence.
	if t := x.typeOf(e); t != nil {
		if name, ok := x.materialName(t); ok {
			return name
		}
	}
	return x.def.Material
}

func (x *extractor) materialName(e *step.Entity) (string, bool) {
	for _, rel := range graph.Inverse(x.st, e, kwRelAssociatesMat, attrRelated) {
		target := graph.Ref(x.st, rel, attrRelating)
		if target == nil {
			continue
		}
		if name, ok := x.resolveMaterialTarget(target); ok {
			return name, true
		}
	}
	return "", false
}

func (x *extractor) resolveMaterialTarget(target *step.Entity) (string, bool) {
	switch target.Type {
	case kwMaterial:
		return graph.Text(target, 0)
	case kwMaterialUsage:
		// (ForLayerSet, LayerSetDirection, ...)
		return x.firstLayerMaterial(graph.Ref(x.st, target, 0))
	case kwMaterialLayerSet:
		return x.firstLayerMaterial(target)
	default:
		return "", false
	}
}

func (x *extractor) firstLayerMaterial(layerSet *step.Entity) (string, bool) {
	if layerSet == nil || layerSet.Type != kwMaterialLayerSet {
		return "", false
	}
	for _, layer := range graph.RefList(x.st, layerSet, 0) {
		if layer.Type != kwMaterialLayer {
			continue
		}
		if mat := graph.Ref(x.st, layer, 0); mat != nil && mat.Type == kwMaterial {
			return graph.Text(mat, 0)
		}
	}
	return "", false
}
