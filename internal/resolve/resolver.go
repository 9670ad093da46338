// Package resolve turns a desired (kind, profile, material) into an
// instantiable platform type, degrading through an ordered fallback
// chain and recording provenance for every substitution.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"framecast/internal/config"
	"framecast/internal/host"
	"framecast/internal/model"
)

// ErrNoType reports that the platform holds no instantiable type of the
// requested kind at all. This is the only path on which an element is
// not created.
var ErrNoType = errors.New("no instantiable type of the kind exists")

// Resolved is the outcome of one resolution. IsFallback and the two
// labels are the source of truth for substitution provenance; the
// marker embedded in the synthesized name is display only.
type Resolved struct {
	Handle        host.TypeHandle
	Name          string
	IsFallback    bool
	IntendedLabel string
	UsedLabel     string
}

type cacheKey struct {
	kind     model.Kind
	dims     string
	material string
}

// Resolver owns the per-run type cache. It is scoped to one pipeline
// run and must not be shared across concurrent callers: platform type
// creation is a single-writer operation.
type Resolver struct {
	adapter  host.Adapter
	families config.Families
	log      *zap.Logger
	cache    map[cacheKey]*Resolved
}

func New(adapter host.Adapter, families config.Families, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		adapter:  adapter,
		families: families,
		log:      log,
		cache:    make(map[cacheKey]*Resolved),
	}
}

// Resolve returns an instantiable type for the request. Resolving the
// same (kind, rounded dimensions, material) twice in one run returns the
// same handle; types are never duplicated.
func (r *Resolver) Resolve(ctx context.Context, kind model.Kind, profile model.Profile, material string) (*Resolved, error) {
	key := cacheKey{kind: kind, dims: dimKey(profile), material: material}
	if cached, ok := r.cache[key]; ok {
		return cached, nil
	}

	resolved, err := r.resolve(ctx, kind, profile, material)
	if err != nil {
		return nil, err
	}
	r.cache[key] = resolved
	return resolved, nil
}

func (r *Resolver) resolve(ctx context.Context, kind model.Kind, profile model.Profile, material string) (*Resolved, error) {
	intendedName := SynthesizeName(kind, profile, material)
	candidates := r.candidatesFor(kind, profile.Shape)
	intendedFamily := "generic"
	if len(candidates) > 0 {
		intendedFamily = candidates[0]
	}

	// Preferred family available: clone it under the synthesized name.
	if handle, family, ok, err := r.adapter.FindTypeByFamily(ctx, kind, candidates); err != nil {
		return nil, fmt.Errorf("searching families for %s: %w", kind, err)
	} else if ok {
		clone, err := r.cloneWithDimensions(ctx, handle, intendedName, profile)
		if err != nil {
			return nil, err
		}
		return &Resolved{
			Handle:        clone,
			Name:          intendedName,
			IntendedLabel: family,
			UsedLabel:     family,
		}, nil
	}

	// No matching family: any existing type of the kind will do, marked
	// as a substitution with both labels.
	if handle, family, ok, err := r.adapter.FindTypeByFamily(ctx, kind, nil); err != nil {
		return nil, fmt.Errorf("searching any type of %s: %w", kind, err)
	} else if ok {
		name := fmt.Sprintf("%s [substituto de %s]", intendedName, intendedFamily)
		clone, err := r.cloneWithDimensions(ctx, handle, name, profile)
		if err != nil {
			return nil, err
		}
		r.log.Warn("type fallback",
			zap.String("kind", string(kind)),
			zap.String("intended", intendedFamily),
			zap.String("used", family))
		return &Resolved{
			Handle:        clone,
			Name:          name,
			IsFallback:    true,
			IntendedLabel: intendedFamily,
			UsedLabel:     family,
		}, nil
	}

	// Nothing of the kind exists: last attempt against the generic
	// family list before giving up.
	if handle, family, ok, err := r.adapter.FindTypeByFamily(ctx, kind, r.families.Generic); err != nil {
		return nil, fmt.Errorf("searching generic families for %s: %w", kind, err)
	} else if ok {
		name := fmt.Sprintf("%s [substituto de %s]", intendedName, intendedFamily)
		clone, err := r.cloneWithDimensions(ctx, handle, name, profile)
		if err != nil {
			return nil, err
		}
		r.log.Warn("type fallback to generic family",
			zap.String("kind", string(kind)),
			zap.String("intended", intendedFamily),
			zap.String("used", family))
		return &Resolved{
			Handle:        clone,
			Name:          name,
			IsFallback:    true,
			IntendedLabel: intendedFamily,
			UsedLabel:     family,
		}, nil
	}

	return nil, fmt.Errorf("%s %q: %w", kind, intendedName, ErrNoType)
}

// cloneWithDimensions clones the source type and best-effort applies
// the profile dimensions. Unsupported parameters are skipped; a failing
// parameter write is logged, never fatal.
func (r *Resolver) cloneWithDimensions(ctx context.Context, source host.TypeHandle, name string, profile model.Profile) (host.TypeHandle, error) {
	clone, err := r.adapter.CloneType(ctx, source, name)
	if err != nil {
		return 0, fmt.Errorf("cloning type %q: %w", name, err)
	}

	for key, value := range dimensionParams(profile) {
		if value <= 0 {
			continue
		}
		if _, err := r.adapter.SetTypeDimension(ctx, clone, key, value); err != nil {
			r.log.Warn("setting type dimension",
				zap.String("type", name),
				zap.String("key", key),
				zap.Error(err))
		}
	}
	return clone, nil
}

func dimensionParams(profile model.Profile) map[string]float64 {
	if profile.Shape == model.Circular {
		return map[string]float64{"diameter": profile.Diameter}
	}
	return map[string]float64{
		"width":     profile.Width,
		"height":    profile.Height,
		"thickness": profile.Thickness,
	}
}

func (r *Resolver) candidatesFor(kind model.Kind, shape model.ShapeKind) []string {
	switch kind {
	case model.Beam:
		if shape == model.Circular {
			return r.families.BeamCircular
		}
		return r.families.BeamRectangular
	case model.Column:
		if shape == model.Circular {
			return r.families.ColumnCircular
		}
		return r.families.ColumnRectangular
	case model.Slab:
		return r.families.Slab
	case model.Footing:
		return r.families.Footing
	default:
		return nil
	}
}

// SynthesizeName builds the deterministic type name for a request, e.g.
// "Viga 300x500 Concreto C25".
func SynthesizeName(kind model.Kind, profile model.Profile, material string) string {
	prefix := map[model.Kind]string{
		model.Beam:    "Viga",
		model.Column:  "Pilar",
		model.Slab:    "Laje",
		model.Footing: "Sapata",
	}[kind]

	var dims string
	switch {
	case kind == model.Slab:
		dims = fmt.Sprintf("e%d", roundMM(profile.Thickness))
	case profile.Shape == model.Circular:
		dims = fmt.Sprintf("D%d", roundMM(profile.Diameter))
	default:
		dims = fmt.Sprintf("%dx%d", roundMM(profile.Width), roundMM(profile.Height))
	}

	return strings.TrimSpace(fmt.Sprintf("%s %s %s", prefix, dims, material))
}

func dimKey(profile model.Profile) string {
	dims := profile.Dims()
	parts := make([]string, 0, len(dims)+1)
	parts = append(parts, string(profile.Shape))
	for _, d := range dims {
		parts = append(parts, fmt.Sprintf("%d", roundMM(d)))
	}
	if profile.Thickness > 0 {
		parts = append(parts, fmt.Sprintf("t%d", roundMM(profile.Thickness)))
	}
	return strings.Join(parts, "|")
}

func roundMM(v float64) int {
	return int(math.Round(v))
}
