// Package extract reconstructs typed structural elements from a parsed
// entity table. Extraction is pure: every routine reads the store and
// nothing else, and a failure in one element never aborts the rest of
// the file.
package extract

import (
	"fmt"

	"framecast/internal/config"
	"framecast/internal/graph"
	"framecast/internal/model"
	"framecast/internal/step"
)

// Relation and object keywords of the exchange format.
const (
	kwBeam    = "IFCBEAM"
	kwColumn  = "IFCCOLUMN"
	kwSlab    = "IFCSLAB"
	kwFooting = "IFCFOOTING"

	kwRelDefinesByType    = "IFCRELDEFINESBYTYPE"
	kwRelDefinesByProps   = "IFCRELDEFINESBYPROPERTIES"
	kwRelAssociatesMat    = "IFCRELASSOCIATESMATERIAL"
	kwRelContainedSpatial = "IFCRELCONTAINEDINSPATIALSTRUCTURE"

	kwPropertySet      = "IFCPROPERTYSET"
	kwPropertySingle   = "IFCPROPERTYSINGLEVALUE"
	kwBuildingStorey   = "IFCBUILDINGSTOREY"
	kwMaterial         = "IFCMATERIAL"
	kwMaterialUsage    = "IFCMATERIALLAYERSETUSAGE"
	kwMaterialLayerSet = "IFCMATERIALLAYERSET"
	kwMaterialLayer    = "IFCMATERIALLAYER"
)

// Attribute positions shared by the rooted building elements.
const (
	attrGUID        = 0
	attrName        = 2
	attrDescription = 3
	attrPlacement   = 5
	attrShape       = 6
)

// Relation attribute positions: related objects list, then relating target.
const (
	attrRelated  = 4
	attrRelating = 5
)

type extractor struct {
	st  *step.Store
	def config.Defaults
}

// Result is the outcome of assembling one entity table.
type Result struct {
	Model  *model.Model
	Errors []error
}

// Assemble runs every element extractor over the store, recovering from
// per-element failures, and derives the level and material sets the
// accepted elements require.
func Assemble(st *step.Store, def config.Defaults) *Result {
	x := &extractor{st: st, def: def}
	result := &Result{Model: &model.Model{}}

	run := func(keyword string, kind model.Kind, fn func(*step.Entity) (model.Element, error)) {
		for _, e := range st.OfType(keyword) {
			element, err := fn(e)
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("%s #%d: %w", kind, e.ID, err))
				continue
			}
			result.Model.Elements = append(result.Model.Elements, element)
		}
	}

	run(kwBeam, model.Beam, x.beam)
	run(kwColumn, model.Column, x.column)
	run(kwSlab, model.Slab, x.slab)
	run(kwFooting, model.Footing, x.footing)

	result.Model.DeriveRequirements()
	return result
}

// base extracts the fields common to every element kind. A missing
// identifier is the one unrecoverable condition; everything else has a
// substitute.
func (x *extractor) base(e *step.Entity, kind model.Kind) (model.Element, error) {
	guid, ok := e.GUID()
	if !ok {
		return model.Element{}, fmt.Errorf("missing global identifier")
	}

	placement, rotation, err := x.placement(e)
	if err != nil {
		return model.Element{}, err
	}

	element := model.Element{
		GlobalID:  guid,
		Kind:      kind,
		Placement: placement,
		Rotation:  rotation,
		Level:     x.level(e),
		Material:  x.material(e),
	}
	element.Name, _ = graph.Text(e, attrName)
	element.Description, _ = graph.Text(e, attrDescription)

	if typeEntity := x.typeOf(e); typeEntity != nil {
		element.TypeName, _ = graph.Text(typeEntity, attrName)
	}
	return element, nil
}
