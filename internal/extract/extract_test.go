package extract

import (
	"fmt"
	"strings"
	"testing"

	"framecast/internal/config"
	"framecast/internal/model"
	"framecast/internal/step"
)

func guid(n int) string {
	return fmt.Sprintf("%022d", n)
}

func parseFixture(t *testing.T, lines ...string) *step.Store {
	t.Helper()
	st, err := step.Parse(strings.NewReader(strings.Join(lines, "\n") + "\n"))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	return st
}

// placementLines emits a local placement rooted at (1000, 2000, 0) with
// a reference direction pointing along +Y.
func placementLines() []string {
	return []string{
		"#90=IFCCARTESIANPOINT((1000.,2000.,0.));",
		"#91=IFCDIRECTION((0.,1.));",
		"#92=IFCAXIS2PLACEMENT3D(#90,$,#91);",
		"#93=IFCLOCALPLACEMENT($,#92);",
	}
}

func storeyLines(elementID int) []string {
	return []string{
		fmt.Sprintf("#80=IFCBUILDINGSTOREY('%s',$,'Terreo',$,$,$,$,'Terreo',.ELEMENT.,3000.);", guid(80)),
		fmt.Sprintf("#81=IFCRELCONTAINEDINSPATIALSTRUCTURE('%s',$,$,$,(#%d),#80);", guid(81), elementID),
	}
}

func assembleOne(t *testing.T, lines ...string) model.Element {
	t.Helper()
	result := Assemble(parseFixture(t, lines...), config.Default().Defaults)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected extraction errors: %v", result.Errors)
	}
	if len(result.Model.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(result.Model.Elements))
	}
	return result.Model.Elements[0]
}

func TestBeamExtraction(t *testing.T) {
	lines := []string{
		fmt.Sprintf("#1=IFCBEAM('%s',$,'V1','Viga de borda',$,#93,$,$);", guid(1)),
		fmt.Sprintf("#10=IFCBEAMTYPE('%s',$,'Viga 25x60',$,$,(#20),$,$,$,$);", guid(10)),
		fmt.Sprintf("#11=IFCRELDEFINESBYTYPE('%s',$,$,$,(#1),#10);", guid(11)),
		fmt.Sprintf("#20=IFCPROPERTYSET('%s',$,'Dimensoes',$,(#21,#22,#23));", guid(20)),
		"#21=IFCPROPERTYSINGLEVALUE('Width',$,IFCLENGTHMEASURE(250.),$);",
		"#22=IFCPROPERTYSINGLEVALUE('Height',$,IFCLENGTHMEASURE(600.),$);",
		"#23=IFCPROPERTYSINGLEVALUE('Length',$,IFCLENGTHMEASURE(4500.),$);",
		"#30=IFCMATERIAL('Concreto C30');",
		fmt.Sprintf("#31=IFCRELASSOCIATESMATERIAL('%s',$,$,$,(#1),#30);", guid(31)),
	}
	lines = append(lines, placementLines()...)
	lines = append(lines, storeyLines(1)...)

	e := assembleOne(t, lines...)

	if e.Kind != model.Beam || e.Name != "V1" || e.Description != "Viga de borda" {
		t.Fatalf("unexpected identity: %+v", e)
	}
	if e.GlobalID != guid(1) {
		t.Fatalf("unexpected guid %q", e.GlobalID)
	}
	if e.TypeName != "Viga 25x60" {
		t.Fatalf("unexpected type name %q", e.TypeName)
	}
	if e.Profile.Width != 250 || e.Profile.Height != 600 {
		t.Fatalf("unexpected profile %+v", e.Profile)
	}
	if e.LengthMM != 4500 {
		t.Fatalf("unexpected length %v", e.LengthMM)
	}
	if e.Material != "Concreto C30" {
		t.Fatalf("unexpected material %q", e.Material)
	}
	if e.Level.Name != "Terreo" || e.Level.ElevationMM != 3000 {
		t.Fatalf("unexpected level %+v", e.Level)
	}
	if e.Placement.X != 1000 || e.Placement.Y != 2000 {
		t.Fatalf("unexpected placement %+v", e.Placement)
	}
	if e.Rotation == 0 {
		t.Fatal("expected a non-zero rotation from the reference direction")
	}
}

func TestBeamDefaults(t *testing.T) {
	lines := append([]string{
		fmt.Sprintf("#1=IFCBEAM('%s',$,'V2',$,$,#93,$,$);", guid(1)),
	}, placementLines()...)

	e := assembleOne(t, lines...)

	def := config.Default().Defaults
	if e.Profile.Width != def.BeamWidthMM || e.Profile.Height != def.BeamHeightMM {
		t.Fatalf("expected default profile %vx%v, got %+v", def.BeamWidthMM, def.BeamHeightMM, e.Profile)
	}
	if e.Material != def.Material {
		t.Fatalf("expected default material %q, got %q", def.Material, e.Material)
	}
	if e.Level.Name != "" {
		t.Fatalf("expected empty level, got %+v", e.Level)
	}
}

func TestColumnTopFromHeight(t *testing.T) {
	base := func() []string {
		lines := []string{
			fmt.Sprintf("#1=IFCCOLUMN('%s',$,'P1',$,$,#93,$,$);", guid(1)),
			fmt.Sprintf("#10=IFCCOLUMNTYPE('%s',$,'Pilar 40x40',$,$,(#20),$,$,$,$);", guid(10)),
			fmt.Sprintf("#11=IFCRELDEFINESBYTYPE('%s',$,$,$,(#1),#10);", guid(11)),
			fmt.Sprintf("#20=IFCPROPERTYSET('%s',$,'Dimensoes',$,(#21));", guid(20)),
			"#21=IFCPROPERTYSINGLEVALUE('Height',$,IFCLENGTHMEASURE(2800.),$);",
		}
		lines = append(lines, placementLines()...)
		return append(lines, storeyLines(1)...)
	}

	t.Run("enabled", func(t *testing.T) {
		e := assembleOne(t, base()...)
		if e.TopLevel != "Terreo" {
			t.Fatalf("expected top level to mirror base, got %q", e.TopLevel)
		}
		if e.TopOffset != 2800 {
			t.Fatalf("expected declared height as top offset, got %v", e.TopOffset)
		}
	})

	t.Run("disabled", func(t *testing.T) {
		def := config.Default().Defaults
		def.ColumnTopFromHeight = false
		result := Assemble(parseFixture(t, base()...), def)
		if len(result.Model.Elements) != 1 {
			t.Fatalf("expected 1 element, got %d", len(result.Model.Elements))
		}
		if got := result.Model.Elements[0].TopOffset; got != 0 {
			t.Fatalf("expected zero top offset, got %v", got)
		}
	})

	t.Run("explicit top level wins", func(t *testing.T) {
		lines := append(base(),
			fmt.Sprintf("#22=IFCPROPERTYSET('%s',$,'Niveis',$,(#23,#24));", guid(22)),
			"#23=IFCPROPERTYSINGLEVALUE('TopLevel',$,'Pavimento 1',$);",
			"#24=IFCPROPERTYSINGLEVALUE('TopOffset',$,IFCLENGTHMEASURE(-150.),$);",
			fmt.Sprintf("#25=IFCRELDEFINESBYPROPERTIES('%s',$,$,$,(#1),#22);", guid(25)),
		)
		e := assembleOne(t, lines...)
		if e.TopLevel != "Pavimento 1" || e.TopOffset != -150 {
			t.Fatalf("unexpected top data: level=%q offset=%v", e.TopLevel, e.TopOffset)
		}
	})
}

func TestSlabExtraction(t *testing.T) {
	geometry := []string{
		"#70=IFCPRODUCTDEFINITIONSHAPE($,$,(#71));",
		"#71=IFCSHAPEREPRESENTATION($,'Body','SweptSolid',(#72));",
		"#72=IFCEXTRUDEDAREASOLID(#73,$,$,180.);",
		"#73=IFCARBITRARYCLOSEDPROFILEDEF(.AREA.,$,#74);",
		"#74=IFCPOLYLINE((#75,#76,#77,#78,#75));",
		"#75=IFCCARTESIANPOINT((0.,0.));",
		"#76=IFCCARTESIANPOINT((6000.,0.));",
		"#77=IFCCARTESIANPOINT((6000.,4000.));",
		"#78=IFCCARTESIANPOINT((0.,4000.));",
	}

	t.Run("boundary and thickness from geometry", func(t *testing.T) {
		lines := append([]string{
			fmt.Sprintf("#1=IFCSLAB('%s',$,'L1',$,$,#93,#70,$);", guid(1)),
		}, geometry...)
		lines = append(lines, placementLines()...)

		e := assembleOne(t, lines...)
		if e.Thickness != 180 {
			t.Fatalf("expected thickness from extrusion depth, got %v", e.Thickness)
		}
		if len(e.Boundary) != 4 {
			t.Fatalf("expected closing point dropped, got %d points", len(e.Boundary))
		}
		if e.Boundary[2] != (model.Point{X: 6000, Y: 4000}) {
			t.Fatalf("unexpected boundary: %+v", e.Boundary)
		}
	})

	t.Run("missing geometry falls back to defaults", func(t *testing.T) {
		lines := append([]string{
			fmt.Sprintf("#1=IFCSLAB('%s',$,'L2',$,$,#93,$,$);", guid(1)),
		}, placementLines()...)

		e := assembleOne(t, lines...)
		def := config.Default().Defaults
		if e.Thickness != def.SlabThicknessMM {
			t.Fatalf("expected default thickness %v, got %v", def.SlabThicknessMM, e.Thickness)
		}
		if len(e.Boundary) != 4 {
			t.Fatalf("expected synthesized square boundary, got %+v", e.Boundary)
		}
		if e.Boundary[2] != (model.Point{X: def.SlabBoundaryMM, Y: def.SlabBoundaryMM}) {
			t.Fatalf("unexpected synthesized boundary: %+v", e.Boundary)
		}
	})
}

func TestFootingKind(t *testing.T) {
	cases := []struct {
		keyword string
		want    model.FootingKind
	}{
		{".PAD_FOOTING.", model.Isolated},
		{".STRIP_FOOTING.", model.Strip},
		{".FOOTING_BEAM.", model.Strip},
		{".MAT.", model.Mat},
		{".RAFT.", model.Mat},
		{"$", model.Isolated},
	}
	for _, tc := range cases {
		t.Run(tc.keyword, func(t *testing.T) {
			lines := append([]string{
				fmt.Sprintf("#1=IFCFOOTING('%s',$,'S1',$,$,#93,$,$,%s);", guid(1), tc.keyword),
			}, placementLines()...)
			e := assembleOne(t, lines...)
			if e.FootingKind != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, e.FootingKind)
			}
		})
	}
}

func TestMaterialLayers(t *testing.T) {
	lines := append([]string{
		fmt.Sprintf("#1=IFCSLAB('%s',$,'L1',$,$,#93,$,$);", guid(1)),
		"#40=IFCMATERIAL('Concreto C35');",
		"#41=IFCMATERIALLAYER(#40,200.,$);",
		"#42=IFCMATERIALLAYERSET((#41),'Laje macica');",
		"#43=IFCMATERIALLAYERSETUSAGE(#42,.AXIS3.,.NEGATIVE.,0.);",
		fmt.Sprintf("#44=IFCRELASSOCIATESMATERIAL('%s',$,$,$,(#1),#43);", guid(44)),
	}, placementLines()...)

	e := assembleOne(t, lines...)
	if e.Material != "Concreto C35" {
		t.Fatalf("expected layered material name, got %q", e.Material)
	}
}

func TestPerElementFailureIsolation(t *testing.T) {
	lines := append([]string{
		// First beam has no placement chain and must fail alone.
		fmt.Sprintf("#1=IFCBEAM('%s',$,'V1',$,$,$,$,$);", guid(1)),
		fmt.Sprintf("#2=IFCBEAM('%s',$,'V2',$,$,#93,$,$);", guid(2)),
	}, placementLines()...)

	result := Assemble(parseFixture(t, lines...), config.Default().Defaults)
	if len(result.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error(), "#1") {
		t.Fatalf("error should name the failing entity: %v", result.Errors[0])
	}
	if len(result.Model.Elements) != 1 || result.Model.Elements[0].Name != "V2" {
		t.Fatalf("expected the healthy beam to survive, got %+v", result.Model.Elements)
	}
}

func TestDeriveRequirements(t *testing.T) {
	lines := []string{
		fmt.Sprintf("#1=IFCBEAM('%s',$,'V1',$,$,#93,$,$);", guid(1)),
		fmt.Sprintf("#2=IFCBEAM('%s',$,'V2',$,$,#93,$,$);", guid(2)),
		"#30=IFCMATERIAL('Concreto C30');",
		fmt.Sprintf("#31=IFCRELASSOCIATESMATERIAL('%s',$,$,$,(#1),#30);", guid(31)),
	}
	lines = append(lines, placementLines()...)
	lines = append(lines, storeyLines(1)...)

	result := Assemble(parseFixture(t, lines...), config.Default().Defaults)
	m := result.Model

	if len(m.RequiredLevels) != 1 || m.RequiredLevels[0].Name != "Terreo" {
		t.Fatalf("expected one required level, got %+v", m.RequiredLevels)
	}
	def := config.Default().Defaults
	want := []string{def.Material, "Concreto C30"}
	if len(m.RequiredMaterials) != 2 || m.RequiredMaterials[0] != want[0] || m.RequiredMaterials[1] != want[1] {
		t.Fatalf("expected materials %v, got %v", want, m.RequiredMaterials)
	}
}
