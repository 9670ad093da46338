package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"framecast/internal/store"
)

func (c *Client) InsertElement(ctx context.Context, input store.ElementInput) (int64, error) {
	boundary, err := json.Marshal(input.Boundary)
	if err != nil {
		return 0, fmt.Errorf("marshaling boundary: %w", err)
	}
	var id int64
	err = c.db.QueryRowContext(ctx, `
	INSERT INTO elements (guid, kind, type_id, level_id, x, y, z, rotation, length_mm, base_offset, top_offset, boundary)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`,
		input.GUID, input.Kind, nullableID(input.TypeID), nullableID(input.LevelID),
		input.X, input.Y, input.Z, input.Rotation,
		input.LengthMM, input.BaseOffset, input.TopOffset, string(boundary),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting element %q: %w", input.GUID, err)
	}
	return id, nil
}

func (c *Client) UpdateElement(ctx context.Context, id int64, input store.ElementInput) error {
	boundary, err := json.Marshal(input.Boundary)
	if err != nil {
		return fmt.Errorf("marshaling boundary: %w", err)
	}
	_, err = c.db.ExecContext(ctx, `
	UPDATE elements SET
		type_id = ?, level_id = ?,
		x = ?, y = ?, z = ?, rotation = ?,
		length_mm = ?, base_offset = ?, top_offset = ?, boundary = ?,
		updated_at = datetime('now')
	WHERE id = ?`,
		nullableID(input.TypeID), nullableID(input.LevelID),
		input.X, input.Y, input.Z, input.Rotation,
		input.LengthMM, input.BaseOffset, input.TopOffset, string(boundary), id)
	if err != nil {
		return fmt.Errorf("updating element %d: %w", id, err)
	}
	return nil
}

func (c *Client) TagElement(ctx context.Context, id int64, tag store.Tag) error {
	_, err := c.db.ExecContext(ctx, `
	UPDATE elements SET
		guid = ?, tagged = 1,
		tag_source_class = ?, tag_type_name = ?, tag_material = ?, tag_timestamp = ?,
		is_orphan = ?, fallback_intended = ?, fallback_used = ?,
		updated_at = datetime('now')
	WHERE id = ?`,
		tag.GUID, tag.SourceClass, tag.TypeName, tag.Material,
		tag.Timestamp.UTC().Format(time.RFC3339),
		boolToInt(tag.IsOrphan), tag.FallbackIntended, tag.FallbackUsed, id)
	if err != nil {
		return fmt.Errorf("tagging element %d: %w", id, err)
	}
	return nil
}

func (c *Client) ExistingTags(ctx context.Context) ([]store.TaggedElement, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT id, guid, tag_source_class, tag_type_name, tag_material, tag_timestamp, is_orphan, fallback_intended, fallback_used
	FROM elements WHERE tagged = 1 AND guid != ''
	ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading existing tags: %w", err)
	}
	defer rows.Close()

	var out []store.TaggedElement
	for rows.Next() {
		var item store.TaggedElement
		var orphan int
		var stamp string
		err := rows.Scan(&item.ElementID, &item.Tag.GUID,
			&item.Tag.SourceClass, &item.Tag.TypeName, &item.Tag.Material, &stamp,
			&orphan, &item.Tag.FallbackIntended, &item.Tag.FallbackUsed)
		if err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		item.Tag.IsOrphan = orphan != 0
		if stamp != "" {
			item.Tag.Timestamp, _ = time.Parse(time.RFC3339, stamp)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (c *Client) ListElements(ctx context.Context, kind, level string) ([]store.ElementRow, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT e.id, e.guid, e.kind,
	       COALESCE(t.name, ''), COALESCE(l.name, ''), e.tag_material,
	       e.x, e.y, e.z, e.is_orphan
	FROM elements e
	LEFT JOIN element_types t ON t.id = e.type_id
	LEFT JOIN levels l ON l.id = e.level_id
	WHERE (? = '' OR e.kind = ?)
	  AND (? = '' OR l.name = ?)
	ORDER BY e.id`, kind, kind, level, level)
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	defer rows.Close()

	var out []store.ElementRow
	for rows.Next() {
		var row store.ElementRow
		var orphan int
		err := rows.Scan(&row.ID, &row.GUID, &row.Kind,
			&row.TypeName, &row.LevelName, &row.Material,
			&row.X, &row.Y, &row.Z, &orphan)
		if err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		row.IsOrphan = orphan != 0
		out = append(out, row)
	}
	return out, rows.Err()
}

func (c *Client) SaveRun(ctx context.Context, run store.RunRecord) error {
	_, err := c.db.ExecContext(ctx, `
	INSERT INTO runs (id, started_at, elapsed_ms, summary) VALUES (?, ?, ?, ?)`,
		run.ID, run.StartedAt.UTC().Format(time.RFC3339), run.ElapsedMS, run.Summary)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

func (c *Client) LastRun(ctx context.Context) (*store.RunRecord, error) {
	row := c.db.QueryRowContext(ctx, `
	SELECT id, started_at, elapsed_ms, summary FROM runs ORDER BY started_at DESC LIMIT 1`)

	var run store.RunRecord
	var stamp string
	if err := row.Scan(&run.ID, &stamp, &run.ElapsedMS, &run.Summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading last run: %w", err)
	}
	run.StartedAt, _ = time.Parse(time.RFC3339, stamp)
	return &run, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
