package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framecast/internal/config"
	"framecast/internal/host"
	"framecast/internal/model"
)

func guid(n int) string {
	return fmt.Sprintf("%022d", n)
}

func writeExchange(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.ifc")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// columnFile builds an exchange file holding n columns on one storey,
// all sharing a placement chain.
func columnFile(n int) string {
	var b strings.Builder
	b.WriteString("ISO-10303-21;\nDATA;\n")
	b.WriteString("#90=IFCCARTESIANPOINT((0.,0.,0.));\n")
	b.WriteString("#91=IFCAXIS2PLACEMENT3D(#90,$,$);\n")
	b.WriteString("#92=IFCLOCALPLACEMENT($,#91);\n")
	fmt.Fprintf(&b, "#80=IFCBUILDINGSTOREY('%s',$,'Terreo',$,$,$,$,'Terreo',.ELEMENT.,0.);\n", guid(80))
	for i := 0; i < n; i++ {
		id := 100 + i*10
		fmt.Fprintf(&b, "#%d=IFCCOLUMN('%s',$,'P%d',$,$,#92,$,$);\n", id, guid(i+1), i+1)
		fmt.Fprintf(&b, "#%d=IFCRELCONTAINEDINSPATIALSTRUCTURE('%s',$,$,$,(#%d),#80);\n", id+1, guid(500+i), id)
	}
	b.WriteString("ENDSEC;\nEND-ISO-10303-21;\n")
	return b.String()
}

func slabFile() string {
	var b strings.Builder
	b.WriteString("#90=IFCCARTESIANPOINT((0.,0.,0.));\n")
	b.WriteString("#91=IFCAXIS2PLACEMENT3D(#90,$,$);\n")
	b.WriteString("#92=IFCLOCALPLACEMENT($,#91);\n")
	fmt.Fprintf(&b, "#100=IFCSLAB('%s',$,'L1',$,$,#92,$,$);\n", guid(1))
	return b.String()
}

func seededAdapter() *host.Memory {
	adapter := host.NewMemory()
	families := config.Default().Families
	adapter.AddType(model.Beam, families.BeamRectangular[0], "Viga base")
	adapter.AddType(model.Column, families.ColumnRectangular[0], "Pilar base")
	adapter.AddType(model.Slab, families.Slab[0], "Laje base")
	adapter.AddType(model.Footing, families.Footing[0], "Sapata base")
	return adapter
}

func TestRunCreatesColumns(t *testing.T) {
	path := writeExchange(t, columnFile(16))
	adapter := seededAdapter()

	summary, err := Run(context.Background(), config.Default(), adapter, nil, path)
	require.NoError(t, err)

	counts := summary.PerKind[model.Column]
	assert.Equal(t, 16, counts.Seen)
	assert.Equal(t, 16, counts.Created)
	assert.Equal(t, 0, counts.Updated)
	assert.Equal(t, 0, summary.OrphanCount)
	assert.Empty(t, summary.Diagnostics)
	assert.Len(t, adapter.Elements(), 16)

	for _, element := range adapter.Elements() {
		assert.True(t, element.Tagged)
		assert.False(t, element.Tag.IsOrphan)
		assert.Nil(t, element.Tag.Fallback)
		assert.Equal(t, "IFCCOLUMN", element.Tag.SourceClass)
	}
}

func TestRunFallbackDiagnostics(t *testing.T) {
	path := writeExchange(t, columnFile(16))

	// Only a generic type exists, so every column resolves through the
	// substitution path but is still created.
	adapter := host.NewMemory()
	adapter.AddType(model.Column, "Generic Model", "Modelo Generico")

	summary, err := Run(context.Background(), config.Default(), adapter, nil, path)
	require.NoError(t, err)

	counts := summary.PerKind[model.Column]
	assert.Equal(t, 16, counts.Created)
	assert.Len(t, adapter.Elements(), 16)

	fallbacks := 0
	for _, diag := range summary.Diagnostics {
		if strings.Contains(diag, "unavailable, used") {
			fallbacks++
		}
	}
	assert.Equal(t, 16, fallbacks)

	for _, element := range adapter.Elements() {
		require.NotNil(t, element.Tag.Fallback)
		assert.Equal(t, "Generic Model", element.Tag.Fallback.UsedLabel)
	}
}

func TestRunSlabWithoutGeometry(t *testing.T) {
	path := writeExchange(t, slabFile())
	adapter := seededAdapter()
	cfg := config.Default()

	summary, err := Run(context.Background(), cfg, adapter, nil, path)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.PerKind[model.Slab].Created)
	require.Len(t, adapter.Elements(), 1)
	for _, element := range adapter.Elements() {
		require.Len(t, element.Instance.Boundary, 4)
		side := cfg.Defaults.SlabBoundaryMM
		assert.Equal(t, model.Point{X: side, Y: side}, element.Instance.Boundary[2])
	}
}

func TestRunReimportIsIdempotent(t *testing.T) {
	path := writeExchange(t, columnFile(5))
	adapter := seededAdapter()
	cfg := config.Default()
	ctx := context.Background()

	first, err := Run(ctx, cfg, adapter, nil, path)
	require.NoError(t, err)
	require.Equal(t, 5, first.PerKind[model.Column].Created)

	second, err := Run(ctx, cfg, adapter, nil, path)
	require.NoError(t, err)

	counts := second.PerKind[model.Column]
	assert.Equal(t, 0, counts.Created)
	assert.Equal(t, 5, counts.Updated)
	assert.Equal(t, 0, second.OrphanCount)
	assert.Len(t, adapter.Elements(), 5)
}

func TestRunMarksOrphans(t *testing.T) {
	full := writeExchange(t, columnFile(3))
	reduced := writeExchange(t, columnFile(2))
	adapter := seededAdapter()
	cfg := config.Default()
	ctx := context.Background()

	_, err := Run(ctx, cfg, adapter, nil, full)
	require.NoError(t, err)

	second, err := Run(ctx, cfg, adapter, nil, reduced)
	require.NoError(t, err)
	assert.Equal(t, 1, second.OrphanCount)
	assert.Equal(t, 2, second.PerKind[model.Column].Updated)

	orphans := 0
	for _, element := range adapter.Elements() {
		if element.Tag.IsOrphan {
			orphans++
			assert.Equal(t, guid(3), element.Tag.GUID)
		}
	}
	assert.Equal(t, 1, orphans)

	// A third pass over the same reduced file must not re-report the
	// already-orphaned element.
	third, err := Run(ctx, cfg, adapter, nil, reduced)
	require.NoError(t, err)
	assert.Equal(t, 0, third.OrphanCount)
}

func TestRunInstantiationFailureDegrades(t *testing.T) {
	path := writeExchange(t, columnFile(2))
	adapter := seededAdapter()
	adapter.InstantiateErr = errors.New("document locked")

	summary, err := Run(context.Background(), config.Default(), adapter, nil, path)
	require.NoError(t, err)

	counts := summary.PerKind[model.Column]
	assert.Equal(t, 2, counts.Seen)
	assert.Equal(t, 0, counts.Created)
	assert.Len(t, summary.Diagnostics, 2)
	for _, diag := range summary.Diagnostics {
		assert.Contains(t, diag, "instantiation failed")
	}
}

func TestRunCancelledContext(t *testing.T) {
	path := writeExchange(t, columnFile(2))
	adapter := seededAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, config.Default(), adapter, nil, path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, summary)
	assert.Empty(t, adapter.Elements())
	require.NotEmpty(t, summary.Diagnostics)
	assert.Contains(t, summary.Diagnostics[0], "cancelled")
}

func TestRunMissingFile(t *testing.T) {
	_, err := Run(context.Background(), config.Default(), seededAdapter(), nil, filepath.Join(t.TempDir(), "missing.ifc"))
	require.Error(t, err)
}

func TestSummaryTotals(t *testing.T) {
	s := &Summary{PerKind: map[model.Kind]KindCounts{
		model.Beam:   {Seen: 3, Created: 2, Updated: 1},
		model.Column: {Seen: 2, Created: 1, Updated: 1},
	}}
	assert.Equal(t, 5, s.Total())
	assert.Equal(t, 3, s.CreatedTotal())
	assert.Equal(t, 2, s.UpdatedTotal())
}
