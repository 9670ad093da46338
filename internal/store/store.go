// Package store persists the simulated host project: levels, materials,
// element types, instantiated elements with their tags, and run
// summaries. Two backends implement it, sqlite and postgres.
package store

import "context"

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// SeedTypes inserts a starter type catalog, skipping names that
	// already exist.
	SeedTypes(ctx context.Context, seeds []TypeSeed) error

	UpsertLevel(ctx context.Context, name string, elevationMM float64) (int64, error)
	UpsertMaterial(ctx context.Context, name string) (int64, error)

	// FindTypeByFamily returns the first type of the kind matching the
	// candidates, checked in candidate order; a nil candidate list
	// matches any type of the kind. Returns nil when nothing matches.
	FindTypeByFamily(ctx context.Context, kind string, candidates []string) (*ElementType, error)
	GetType(ctx context.Context, id int64) (*ElementType, error)
	GetTypeByName(ctx context.Context, kind, name string) (*ElementType, error)
	InsertType(ctx context.Context, input ElementTypeInput) (int64, error)
	SetTypeDimension(ctx context.Context, id int64, key string, valueMM float64) error

	InsertElement(ctx context.Context, input ElementInput) (int64, error)
	UpdateElement(ctx context.Context, id int64, input ElementInput) error
	TagElement(ctx context.Context, id int64, tag Tag) error
	ExistingTags(ctx context.Context) ([]TaggedElement, error)

	SaveRun(ctx context.Context, run RunRecord) error
	LastRun(ctx context.Context) (*RunRecord, error)

	ListElements(ctx context.Context, kind, level string) ([]ElementRow, error)
	ListLevels(ctx context.Context) ([]LevelRow, error)
}
