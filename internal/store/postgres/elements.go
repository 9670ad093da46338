package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"framecast/internal/store"
)

func (c *Client) InsertElement(ctx context.Context, input store.ElementInput) (int64, error) {
	boundary, err := json.Marshal(input.Boundary)
	if err != nil {
		return 0, fmt.Errorf("marshaling boundary: %w", err)
	}
	var id int64
	err = c.pool.QueryRow(ctx, `
	INSERT INTO elements (guid, kind, type_id, level_id, x, y, z, rotation, length_mm, base_offset, top_offset, boundary)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	RETURNING id`,
		input.GUID, input.Kind, nullableID(input.TypeID), nullableID(input.LevelID),
		input.X, input.Y, input.Z, input.Rotation,
		input.LengthMM, input.BaseOffset, input.TopOffset, boundary,
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
	_, err = c.pool.Exec(ctx, `
	UPDATE elements SET
		type_id = $1, level_id = $2,
		x = $3, y = $4, z = $5, rotation = $6,
		length_mm = $7, base_offset = $8, top_offset = $9, boundary = $10,
		updated_at = now()
	WHERE id = $11`,
		nullableID(input.TypeID), nullableID(input.LevelID),
		input.X, input.Y, input.Z, input.Rotation,
		input.LengthMM, input.BaseOffset, input.TopOffset, boundary, id)
	if err != nil {
		return fmt.Errorf("updating element %d: %w", id, err)
	}
	return nil
}

func (c *Client) TagElement(ctx context.Context, id int64, tag store.Tag) error {
	_, err := c.pool.Exec(ctx, `
	UPDATE elements SET
		guid = $1, tagged = TRUE,
		tag_source_class = $2, tag_type_name = $3, tag_material = $4, tag_timestamp = $5,
		is_orphan = $6, fallback_intended = $7, fallback_used = $8,
		updated_at = now()
	WHERE id = $9`,
		tag.GUID, tag.SourceClass, tag.TypeName, tag.Material, tag.Timestamp,
		tag.IsOrphan, tag.FallbackIntended, tag.FallbackUsed, id)
	if err != nil {
		return fmt.Errorf("tagging element %d: %w", id, err)
	}
	return nil
}

func (c *Client) ExistingTags(ctx context.Context) ([]store.TaggedElement, error) {
	rows, err := c.pool.Query(ctx, `
	SELECT id, guid, tag_source_class, tag_type_name, tag_material, COALESCE(tag_timestamp, 'epoch'::timestamptz), is_orphan, fallback_intended, fallback_used
	FROM elements WHERE tagged AND guid <> ''
	ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("loading existing tags: %w", err)
	}
	defer rows.Close()

	var out []store.TaggedElement
	for rows.Next() {
		var item store.TaggedElement
		err := rows.Scan(&item.ElementID, &item.Tag.GUID,
			&item.Tag.SourceClass, &item.Tag.TypeName, &item.Tag.Material, &item.Tag.Timestamp,
			&item.Tag.IsOrphan, &item.Tag.FallbackIntended, &item.Tag.FallbackUsed)
		if err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (c *Client) ListElements(ctx context.Context, kind, level string) ([]store.ElementRow, error) {
	rows, err := c.pool.Query(ctx, `
	SELECT e.id, e.guid, e.kind,
	       COALESCE(t.name, ''), COALESCE(l.name, ''), e.tag_material,
	       e.x, e.y, e.z, e.is_orphan
	FROM elements e
	LEFT JOIN element_types t ON t.id = e.type_id
	LEFT JOIN levels l ON l.id = e.level_id
	WHERE ($1 = '' OR e.kind = $1)
	  AND ($2 = '' OR l.name = $2)
	ORDER BY e.id`, kind, level)
	if err != nil {
		return nil, fmt.Errorf("listing elements: %w", err)
	}
	defer rows.Close()

	var out []store.ElementRow
	for rows.Next() {
		var row store.ElementRow
		err := rows.Scan(&row.ID, &row.GUID, &row.Kind,
			&row.TypeName, &row.LevelName, &row.Material,
			&row.X, &row.Y, &row.Z, &row.IsOrphan)
		if err != nil {
			return nil, fmt.Errorf("scanning element: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (c *Client) SaveRun(ctx context.Context, run store.RunRecord) error {
	_, err := c.pool.Exec(ctx, `
	INSERT INTO runs (id, started_at, elapsed_ms, summary) VALUES ($1, $2, $3, $4)`,
		run.ID, run.StartedAt, run.ElapsedMS, run.Summary)
	if err != nil {
		return fmt.Errorf("saving run %s: %w", run.ID, err)
	}
	return nil
}

func (c *Client) LastRun(ctx context.Context) (*store.RunRecord, error) {
	row := c.pool.QueryRow(ctx, `
	SELECT id, started_at, elapsed_ms, summary::text FROM runs ORDER BY started_at DESC LIMIT 1`)

	var run store.RunRecord
	err := row.Scan(&run.ID, &run.StartedAt, &run.ElapsedMS, &run.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading last run: %w", err)
	}
	return &run, nil
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}
