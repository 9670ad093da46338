package host

import (
	"context"
	"fmt"

	"framecast/internal/model"
	"framecast/internal/store"
)

var _ Adapter = (*Project)(nil)

// Project adapts the pipeline onto a persistent project store, so a
// later run against the same database sees the elements and tags the
// previous run created.
type Project struct {
	db store.Store
}

func NewProject(db store.Store) *Project {
	return &Project{db: db}
}

func (p *Project) CreateOrGetLevel(ctx context.Context, name string, elevationMM float64) (LevelHandle, error) {
	id, err := p.db.UpsertLevel(ctx, name, elevationMM)
	return LevelHandle(id), err
}

func (p *Project) CreateOrGetMaterial(ctx context.Context, name string) (MaterialHandle, error) {
	id, err := p.db.UpsertMaterial(ctx, name)
	return MaterialHandle(id), err
}

func (p *Project) FindTypeByFamily(ctx context.Context, kind model.Kind, candidates []string) (TypeHandle, string, bool, error) {
	t, err := p.db.FindTypeByFamily(ctx, string(kind), candidates)
	if err != nil {
		return 0, "", false, err
	}
	if t == nil {
		return 0, "", false, nil
	}
	return TypeHandle(t.ID), t.Family, true, nil
}

func (p *Project) CloneType(ctx context.Context, source TypeHandle, newName string) (TypeHandle, error) {
	src, err := p.db.GetType(ctx, int64(source))
	if err != nil {
		return 0, err
	}
	if src == nil {
		return 0, fmt.Errorf("clone source type %d does not exist", source)
	}

	if existing, err := p.db.GetTypeByName(ctx, src.Kind, newName); err != nil {
		return 0, err
	} else if existing != nil {
		return TypeHandle(existing.ID), nil
	}

	dims := make(map[string]float64, len(src.Dimensions))
	for k, v := range src.Dimensions {
		dims[k] = v
	}
	id, err := p.db.InsertType(ctx, store.ElementTypeInput{
		Kind:       src.Kind,
		Family:     src.Family,
		Name:       newName,
		Dimensions: dims,
	})
	return TypeHandle(id), err
}

func (p *Project) SetTypeDimension(ctx context.Context, t TypeHandle, key string, valueMM float64) (bool, error) {
	normalized, ok := supportedDimension(key)
	if !ok {
		return false, nil
	}
	if err := p.db.SetTypeDimension(ctx, int64(t), normalized, valueMM); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Project) Instantiate(ctx context.Context, kind model.Kind, t TypeHandle, inst Instance) (ElementHandle, error) {
	id, err := p.db.InsertElement(ctx, elementInput(kind, t, inst))
	return ElementHandle(id), err
}

func (p *Project) UpdateElement(ctx context.Context, e ElementHandle, t TypeHandle, inst Instance) error {
	return p.db.UpdateElement(ctx, int64(e), elementInput("", t, inst))
}

func (p *Project) TagElement(ctx context.Context, e ElementHandle, tag Tag) error {
	stored := store.Tag{
		GUID:        tag.GUID,
		SourceClass: tag.SourceClass,
		TypeName:    tag.TypeName,
		Material:    tag.Material,
		Timestamp:   tag.Timestamp,
		IsOrphan:    tag.IsOrphan,
	}
	if tag.Fallback != nil {
		stored.FallbackIntended = tag.Fallback.IntendedLabel
		stored.FallbackUsed = tag.Fallback.UsedLabel
	}
	return p.db.TagElement(ctx, int64(e), stored)
}

func (p *Project) ExistingTags(ctx context.Context) (map[string]TaggedElement, error) {
	rows, err := p.db.ExistingTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]TaggedElement, len(rows))
	for _, row := range rows {
		tag := Tag{
			GUID:        row.Tag.GUID,
			SourceClass: row.Tag.SourceClass,
			TypeName:    row.Tag.TypeName,
			Material:    row.Tag.Material,
			Timestamp:   row.Tag.Timestamp,
			IsOrphan:    row.Tag.IsOrphan,
		}
		if row.Tag.FallbackIntended != "" || row.Tag.FallbackUsed != "" {
			tag.Fallback = &FallbackInfo{
				IntendedLabel: row.Tag.FallbackIntended,
				UsedLabel:     row.Tag.FallbackUsed,
			}
		}
		out[tag.GUID] = TaggedElement{Element: ElementHandle(row.ElementID), Tag: tag}
	}
	return out, nil
}

func elementInput(kind model.Kind, t TypeHandle, inst Instance) store.ElementInput {
	input := store.ElementInput{
		Kind:       string(kind),
		TypeID:     int64(t),
		LevelID:    int64(inst.Level),
		X:          inst.Placement.X,
		Y:          inst.Placement.Y,
		Z:          inst.Placement.Z,
		Rotation:   inst.Rotation,
		LengthMM:   inst.LengthMM,
		BaseOffset: inst.BaseOffset,
		TopOffset:  inst.TopOffset,
	}
	for _, pt := range inst.Boundary {
		input.Boundary = append(input.Boundary, store.Point{X: pt.X, Y: pt.Y, Z: pt.Z})
	}
	return input
}
