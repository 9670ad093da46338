// Package ingest runs the import pipeline: parse, extract, assemble,
// resolve types, and instantiate through the host adapter. Only a
// file-read failure aborts the run; every other condition degrades to a
// diagnostic and the run always yields a summary.
package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"framecast/internal/config"
	"framecast/internal/extract"
	"framecast/internal/host"
	"framecast/internal/model"
	"framecast/internal/resolve"
	"framecast/internal/step"
)

// Run imports one exchange file through the adapter. The pipeline is a
// single-threaded batch; cancellation is honoured between element-kind
// batches and already-created elements are not rolled back.
func Run(ctx context.Context, cfg *config.ProjectConfig, adapter host.Adapter, log *zap.Logger, path string) (*Summary, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	st, err := step.ParseFile(path)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		RunID:   uuid.NewString(),
		PerKind: make(map[model.Kind]KindCounts, len(model.Kinds())),
	}
	log.Info("parsed exchange file",
		zap.String("path", path),
		zap.Int("entities", st.Len()),
		zap.Int("dropped", st.Dropped()))
	if st.Dropped() > 0 {
		summary.diag(fmt.Sprintf("parser: %d malformed statements dropped", st.Dropped()))
	}

	result := extract.Assemble(st, cfg.Defaults)
	for _, extractErr := range result.Errors {
		summary.diag(fmt.Sprintf("extraction: %v", extractErr))
	}

	levels := prepare(ctx, adapter, result.Model, summary)

	existing, err := adapter.ExistingTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading existing tags: %w", err)
	}

	resolver := resolve.New(adapter, cfg.Families, log)
	seen := make(map[string]bool, len(result.Model.Elements))

	for _, kind := range model.Kinds() {
		if err := ctx.Err(); err != nil {
			summary.diag(fmt.Sprintf("import cancelled before %s batch", kind))
			summary.Elapsed = time.Since(start)
			return summary, err
		}

		counts := summary.PerKind[kind]
		for _, element := range result.Model.OfKind(kind) {
			counts.Seen++
			seen[element.GlobalID] = true
			importElement(ctx, adapter, resolver, levels, existing, element, summary, &counts)
		}
		summary.PerKind[kind] = counts
	}

	summary.OrphanCount = markOrphans(ctx, adapter, existing, seen, summary)

	summary.Elapsed = time.Since(start)
	log.Info("import finished",
		zap.String("run", summary.RunID),
		zap.Int("elements", summary.Total()),
		zap.Int("created", summary.CreatedTotal()),
		zap.Int("updated", summary.UpdatedTotal()),
		zap.Int("orphans", summary.OrphanCount),
		zap.Int("diagnostics", len(summary.Diagnostics)),
		zap.Duration("elapsed", summary.Elapsed))
	return summary, nil
}

// prepare creates the required levels and materials. Both adapter calls
// are idempotent and order-independent; a failing level degrades the
// elements on it rather than the run.
func prepare(ctx context.Context, adapter host.Adapter, m *model.Model, summary *Summary) map[string]host.LevelHandle {
	levels := make(map[string]host.LevelHandle, len(m.RequiredLevels))
	for _, level := range m.RequiredLevels {
		handle, err := adapter.CreateOrGetLevel(ctx, level.Name, level.ElevationMM)
		if err != nil {
			summary.diag(fmt.Sprintf("level %q: %v", level.Name, err))
			continue
		}
		levels[level.Name] = handle
	}
	for _, material := range m.RequiredMaterials {
		if _, err := adapter.CreateOrGetMaterial(ctx, material); err != nil {
			summary.diag(fmt.Sprintf("material %q: %v", material, err))
		}
	}
	return levels
}

func importElement(ctx context.Context, adapter host.Adapter, resolver *resolve.Resolver, levels map[string]host.LevelHandle, existing map[string]host.TaggedElement, element model.Element, summary *Summary, counts *KindCounts) {
	resolved, err := resolver.Resolve(ctx, element.Kind, element.Profile, element.Material)
	if err != nil {
		summary.diag(fmt.Sprintf("%s %s: %v", element.Kind, element.GlobalID, err))
		return
	}
	if resolved.IsFallback {
		summary.diag(fmt.Sprintf("%s %s: intended family %q unavailable, used %q",
			element.Kind, element.GlobalID, resolved.IntendedLabel, resolved.UsedLabel))
	}

	inst := host.Instance{
		Placement:  element.Placement,
		Rotation:   element.Rotation,
		Level:      levels[element.Level.Name],
		LengthMM:   element.LengthMM,
		BaseOffset: element.BaseOffset,
		TopOffset:  element.TopOffset,
		Boundary:   element.Boundary,
	}

	tag := host.Tag{
		GUID:        element.GlobalID,
		SourceClass: element.SourceClass(),
		TypeName:    resolved.Name,
		Material:    element.Material,
		Timestamp:   time.Now().UTC(),
	}
	if resolved.IsFallback {
		tag.Fallback = &host.FallbackInfo{
			IntendedLabel: resolved.IntendedLabel,
			UsedLabel:     resolved.UsedLabel,
		}
	}

	if prior, ok := existing[element.GlobalID]; ok {
		if err := adapter.UpdateElement(ctx, prior.Element, resolved.Handle, inst); err != nil {
			summary.diag(fmt.Sprintf("%s %s: update failed: %v", element.Kind, element.GlobalID, err))
			return
		}
		if err := adapter.TagElement(ctx, prior.Element, tag); err != nil {
			summary.diag(fmt.Sprintf("%s %s: tagging failed: %v", element.Kind, element.GlobalID, err))
			return
		}
		counts.Updated++
		return
	}

	handle, err := adapter.Instantiate(ctx, element.Kind, resolved.Handle, inst)
	if err != nil {
		summary.diag(fmt.Sprintf("%s %s: instantiation failed: %v", element.Kind, element.GlobalID, err))
		return
	}
	if err := adapter.TagElement(ctx, handle, tag); err != nil {
		summary.diag(fmt.Sprintf("%s %s: tagging failed: %v", element.Kind, element.GlobalID, err))
		return
	}
	counts.Created++
}

// markOrphans tags every previously imported element whose guid did not
// appear in this file. Iteration is sorted so diagnostics stay ordered.
func markOrphans(ctx context.Context, adapter host.Adapter, existing map[string]host.TaggedElement, seen map[string]bool, summary *Summary) int {
	guids := make([]string, 0, len(existing))
	for guid := range existing {
		guids = append(guids, guid)
	}
	sort.Strings(guids)

	orphans := 0
	for _, guid := range guids {
		prior := existing[guid]
		if seen[guid] || prior.Tag.IsOrphan {
			continue
		}
		tag := prior.Tag
		tag.IsOrphan = true
		tag.Timestamp = time.Now().UTC()
		if err := adapter.TagElement(ctx, prior.Element, tag); err != nil {
			summary.diag(fmt.Sprintf("orphan %s: tagging failed: %v", guid, err))
			continue
		}
		orphans++
		summary.diag(fmt.Sprintf("orphan: %s (%s) no longer present in source", guid, tag.SourceClass))
	}
	return orphans
}
