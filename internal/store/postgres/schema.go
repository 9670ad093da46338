package postgres

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS levels (
		id           BIGSERIAL PRIMARY KEY,
		name         TEXT NOT NULL UNIQUE,
		elevation_mm DOUBLE PRECISION NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS materials (
		id   BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS element_types (
		id         BIGSERIAL PRIMARY KEY,
		kind       TEXT NOT NULL,
		family     TEXT NOT NULL,
		name       TEXT NOT NULL,
		dimensions JSONB NOT NULL DEFAULT '{}',
		CONSTRAINT uq_type_kind_name UNIQUE (kind, name)
	);

	CREATE TABLE IF NOT EXISTS elements (
		id                BIGSERIAL PRIMARY KEY,
		guid              TEXT DEFAULT '',
		kind              TEXT NOT NULL,
		type_id           BIGINT REFERENCES element_types(id),
		level_id          BIGINT REFERENCES levels(id),
		x                 DOUBLE PRECISION NOT NULL DEFAULT 0,
		y                 DOUBLE PRECISION NOT NULL DEFAULT 0,
		z                 DOUBLE PRECISION NOT NULL DEFAULT 0,
		rotation          DOUBLE PRECISION NOT NULL DEFAULT 0,
		length_mm         DOUBLE PRECISION NOT NULL DEFAULT 0,
		base_offset       DOUBLE PRECISION NOT NULL DEFAULT 0,
		top_offset        DOUBLE PRECISION NOT NULL DEFAULT 0,
		boundary          JSONB NOT NULL DEFAULT '[]',
		tagged            BOOLEAN NOT NULL DEFAULT FALSE,
		tag_source_class  TEXT DEFAULT '',
		tag_type_name     TEXT DEFAULT '',
		tag_material      TEXT DEFAULT '',
		tag_timestamp     TIMESTAMPTZ,
		is_orphan         BOOLEAN NOT NULL DEFAULT FALSE,
		fallback_intended TEXT DEFAULT '',
		fallback_used     TEXT DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		started_at TIMESTAMPTZ NOT NULL,
		elapsed_ms BIGINT NOT NULL DEFAULT 0,
		summary    JSONB NOT NULL DEFAULT '{}'
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_elements_guid ON elements (guid) WHERE guid <> '';
	CREATE INDEX IF NOT EXISTS idx_elements_kind ON elements (kind);
	CREATE INDEX IF NOT EXISTS idx_elements_level ON elements (level_id);
	CREATE INDEX IF NOT EXISTS idx_types_kind ON element_types (kind);
	CREATE INDEX IF NOT EXISTS idx_types_family ON element_types (kind, family);
	`

	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring postgres schema: %w", err)
	}
	return nil
}
