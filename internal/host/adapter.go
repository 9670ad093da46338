// Package host defines the contract the import pipeline requires from
// the hosting platform: level/material/type management, element
// instantiation, and tag metadata. Two implementations live here: a
// store-backed project adapter and an in-memory adapter for tests and
// dry runs.
package host

import (
	"context"
	"strings"
	"time"

	"framecast/internal/model"
)

type (
	LevelHandle    int64
	MaterialHandle int64
	TypeHandle     int64
	ElementHandle  int64
)

// FallbackInfo records a type substitution: the family the source
// intended and the family actually used.
type FallbackInfo struct {
	IntendedLabel string
	UsedLabel     string
}

// Tag is the traceable metadata attached to every created element. The
// guid is the sole key for incremental re-import.
type Tag struct {
	GUID        string
	SourceClass string
	TypeName    string
	Material    string
	Timestamp   time.Time
	IsOrphan    bool
	Fallback    *FallbackInfo
}

// TaggedElement pairs a previously created element with its tag.
type TaggedElement struct {
	Element ElementHandle
	Tag     Tag
}

// Instance carries everything placement-related an element needs at
// creation time.
type Instance struct {
	Placement  model.Point
	Rotation   float64
	Level      LevelHandle
	LengthMM   float64
	BaseOffset float64
	TopOffset  float64
	Boundary   []model.Point
}

// Adapter is the host-side surface of the pipeline. Creation calls are
// idempotent where named (levels, materials); type creation is
// serialized by the caller and must never be invoked concurrently.
type Adapter interface {
	CreateOrGetLevel(ctx context.Context, name string, elevationMM float64) (LevelHandle, error)
	CreateOrGetMaterial(ctx context.Context, name string) (MaterialHandle, error)

	// FindTypeByFamily returns a pre-existing type whose family matches
	// one of the candidates, in candidate order, together with the
	// family label found. A nil candidate list matches any type of the
	// kind. ok is false when nothing matches.
	FindTypeByFamily(ctx context.Context, kind model.Kind, candidates []string) (handle TypeHandle, family string, ok bool, err error)

	// CloneType duplicates a type under a new name, or returns the
	// existing type of that name from an earlier clone.
	CloneType(ctx context.Context, source TypeHandle, newName string) (TypeHandle, error)

	// SetTypeDimension sets one dimension parameter in millimetres. An
	// unsupported key reports false and is never an error.
	SetTypeDimension(ctx context.Context, t TypeHandle, key string, valueMM float64) (bool, error)

	Instantiate(ctx context.Context, kind model.Kind, t TypeHandle, inst Instance) (ElementHandle, error)
	UpdateElement(ctx context.Context, e ElementHandle, t TypeHandle, inst Instance) error
	TagElement(ctx context.Context, e ElementHandle, tag Tag) error

	// ExistingTags exposes every previously tagged element, keyed by
	// guid, so the pipeline can match-or-create-or-mark-orphan.
	ExistingTags(ctx context.Context) (map[string]TaggedElement, error)
}

// dimensionKeys are the parameter names the simulated platform accepts.
var dimensionKeys = map[string]struct{}{
	"width":     {},
	"height":    {},
	"depth":     {},
	"thickness": {},
	"diameter":  {},
}

func supportedDimension(key string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(key))
	_, ok := dimensionKeys[normalized]
	return normalized, ok
}
