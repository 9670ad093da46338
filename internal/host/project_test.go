package host_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"framecast/internal/config"
	"framecast/internal/host"
	"framecast/internal/model"
	"framecast/internal/store"
	"framecast/internal/store/sqlite"
)

func projectAdapter(t *testing.T) *host.Project {
	t.Helper()
	ctx := context.Background()
	db, err := sqlite.New(ctx, filepath.Join(t.TempDir(), "project.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(context.Background()) })
	require.NoError(t, db.EnsureSchema(ctx))
	require.NoError(t, db.SeedTypes(ctx, store.DefaultSeeds(config.Default().Families)))
	return host.NewProject(db)
}

func TestProjectTypeResolutionSurface(t *testing.T) {
	p := projectAdapter(t)
	ctx := context.Background()
	families := config.Default().Families

	handle, family, ok, err := p.FindTypeByFamily(ctx, model.Beam, families.BeamRectangular)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, families.BeamRectangular[0], family)

	clone, err := p.CloneType(ctx, handle, "Viga 300x500 Concreto C25")
	require.NoError(t, err)
	assert.NotEqual(t, handle, clone)

	t.Run("clone is deduplicated by name", func(t *testing.T) {
		again, err := p.CloneType(ctx, handle, "Viga 300x500 Concreto C25")
		require.NoError(t, err)
		assert.Equal(t, clone, again)
	})

	t.Run("supported dimension is applied", func(t *testing.T) {
		ok, err := p.SetTypeDimension(ctx, clone, "width", 300)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("unsupported dimension reports false", func(t *testing.T) {
		ok, err := p.SetTypeDimension(ctx, clone, "web_fillet", 12)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestProjectElementsPersistAcrossRuns(t *testing.T) {
	p := projectAdapter(t)
	ctx := context.Background()

	level, err := p.CreateOrGetLevel(ctx, "Terreo", 0)
	require.NoError(t, err)
	_, err = p.CreateOrGetMaterial(ctx, "Concreto C25")
	require.NoError(t, err)

	typeHandle, _, ok, err := p.FindTypeByFamily(ctx, model.Column, nil)
	require.NoError(t, err)
	require.True(t, ok)

	inst := host.Instance{Placement: model.Point{X: 1000, Y: 2000}, Level: level}
	element, err := p.Instantiate(ctx, model.Column, typeHandle, inst)
	require.NoError(t, err)

	tag := host.Tag{
		GUID:        "3234567890123456789012",
		SourceClass: "IFCCOLUMN",
		TypeName:    "Pilar 400x400 Concreto C25",
		Material:    "Concreto C25",
		Timestamp:   time.Now().UTC().Truncate(time.Second),
		Fallback:    &host.FallbackInfo{IntendedLabel: "Pilar Retangular", UsedLabel: "Generic Model"},
	}
	require.NoError(t, p.TagElement(ctx, element, tag))

	tags, err := p.ExistingTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 1)

	got := tags[tag.GUID]
	assert.Equal(t, element, got.Element)
	assert.Equal(t, tag.SourceClass, got.Tag.SourceClass)
	require.NotNil(t, got.Tag.Fallback)
	assert.Equal(t, "Pilar Retangular", got.Tag.Fallback.IntendedLabel)
	assert.Equal(t, "Generic Model", got.Tag.Fallback.UsedLabel)

	t.Run("update keeps the tag", func(t *testing.T) {
		moved := inst
		moved.Placement.X = 500
		require.NoError(t, p.UpdateElement(ctx, element, typeHandle, moved))

		tags, err := p.ExistingTags(ctx)
		require.NoError(t, err)
		assert.Len(t, tags, 1)
	})
}
