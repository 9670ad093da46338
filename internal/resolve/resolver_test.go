package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"framecast/internal/config"
	"framecast/internal/host"
	"framecast/internal/model"
)

func rectProfile(w, h float64) model.Profile {
	return model.Profile{Shape: model.Rectangular, Width: w, Height: h}
}

func TestResolvePreferredFamily(t *testing.T) {
	adapter := host.NewMemory()
	families := config.Default().Families
	adapter.AddType(model.Column, families.ColumnRectangular[0], "Pilar base")

	r := New(adapter, families, zap.NewNop())
	resolved, err := r.Resolve(context.Background(), model.Column, rectProfile(400, 400), "Concreto C25")
	require.NoError(t, err)

	assert.False(t, resolved.IsFallback)
	assert.Equal(t, "Pilar 400x400 Concreto C25", resolved.Name)
	assert.Equal(t, families.ColumnRectangular[0], resolved.IntendedLabel)
	assert.Equal(t, resolved.IntendedLabel, resolved.UsedLabel)
	// The seed plus one clone under the synthesized name.
	assert.Equal(t, 2, adapter.TypeCount())
}

func TestResolveFallbackToAnyOfKind(t *testing.T) {
	adapter := host.NewMemory()
	families := config.Default().Families
	adapter.AddType(model.Column, "Coluna Especial", "Pilar especial")

	r := New(adapter, families, zap.NewNop())
	resolved, err := r.Resolve(context.Background(), model.Column, rectProfile(300, 300), "Concreto C25")
	require.NoError(t, err)

	assert.True(t, resolved.IsFallback)
	assert.Equal(t, families.ColumnRectangular[0], resolved.IntendedLabel)
	assert.Equal(t, "Coluna Especial", resolved.UsedLabel)
	assert.Contains(t, resolved.Name, "[substituto de "+resolved.IntendedLabel+"]")
}

func TestResolveNoTypeOfKind(t *testing.T) {
	adapter := host.NewMemory()
	families := config.Default().Families
	// Beams exist but the request is for a footing.
	adapter.AddType(model.Beam, families.BeamRectangular[0], "Viga base")

	r := New(adapter, families, zap.NewNop())
	_, err := r.Resolve(context.Background(), model.Footing, rectProfile(800, 800), "Concreto C25")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoType))
}

func TestResolveCache(t *testing.T) {
	adapter := host.NewMemory()
	families := config.Default().Families
	adapter.AddType(model.Beam, families.BeamRectangular[0], "Viga base")

	r := New(adapter, families, zap.NewNop())
	ctx := context.Background()

	first, err := r.Resolve(ctx, model.Beam, rectProfile(300, 500), "Concreto C25")
	require.NoError(t, err)
	countAfterFirst := adapter.TypeCount()

	t.Run("identical request reuses the handle", func(t *testing.T) {
		second, err := r.Resolve(ctx, model.Beam, rectProfile(300, 500), "Concreto C25")
		require.NoError(t, err)
		assert.Equal(t, first.Handle, second.Handle)
		assert.Equal(t, countAfterFirst, adapter.TypeCount())
	})

	t.Run("sub-millimetre jitter hits the same key", func(t *testing.T) {
		second, err := r.Resolve(ctx, model.Beam, rectProfile(300.4, 499.6), "Concreto C25")
		require.NoError(t, err)
		assert.Equal(t, first.Handle, second.Handle)
		assert.Equal(t, countAfterFirst, adapter.TypeCount())
	})

	t.Run("different material is a different type", func(t *testing.T) {
		second, err := r.Resolve(ctx, model.Beam, rectProfile(300, 500), "Concreto C30")
		require.NoError(t, err)
		assert.NotEqual(t, first.Handle, second.Handle)
	})
}

func TestSynthesizeName(t *testing.T) {
	cases := []struct {
		name     string
		kind     model.Kind
		profile  model.Profile
		material string
		want     string
	}{
		{"rectangular beam", model.Beam, rectProfile(300, 500), "Concreto C25", "Viga 300x500 Concreto C25"},
		{"circular column", model.Column, model.Profile{Shape: model.Circular, Diameter: 400}, "Concreto C25", "Pilar D400 Concreto C25"},
		{"slab", model.Slab, model.Profile{Shape: model.Custom, Thickness: 150}, "Concreto C25", "Laje e150 Concreto C25"},
		{"footing", model.Footing, rectProfile(800, 800), "Concreto C30", "Sapata 800x800 Concreto C30"},
		{"rounded dimensions", model.Beam, rectProfile(299.7, 500.2), "Concreto C25", "Viga 300x500 Concreto C25"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SynthesizeName(tc.kind, tc.profile, tc.material))
		})
	}
}
