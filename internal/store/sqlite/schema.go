package sqlite

import (
	"context"
	"fmt"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS levels (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		name         TEXT NOT NULL UNIQUE,
		elevation_mm REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS materials (
		id   INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS element_types (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		kind       TEXT NOT NULL,
		family     TEXT NOT NULL,
		name       TEXT NOT NULL,
		dimensions TEXT DEFAULT '{}',
		CONSTRAINT uq_type_kind_name UNIQUE (kind, name)
	);

	CREATE TABLE IF NOT EXISTS elements (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		guid              TEXT,
		kind              TEXT NOT NULL,
		type_id           INTEGER REFERENCES element_types(id),
		level_id          INTEGER REFERENCES levels(id),
		x                 REAL NOT NULL DEFAULT 0,
		y                 REAL NOT NULL DEFAULT 0,
		z                 REAL NOT NULL DEFAULT 0,
		rotation          REAL NOT NULL DEFAULT 0,
		length_mm         REAL NOT NULL DEFAULT 0,
		base_offset       REAL NOT NULL DEFAULT 0,
		top_offset        REAL NOT NULL DEFAULT 0,
		boundary          TEXT DEFAULT '[]',
		tagged            INTEGER NOT NULL DEFAULT 0,
		tag_source_class  TEXT DEFAULT '',
		tag_type_name     TEXT DEFAULT '',
		tag_material      TEXT DEFAULT '',
		tag_timestamp     TEXT DEFAULT '',
		is_orphan         INTEGER NOT NULL DEFAULT 0,
		fallback_intended TEXT DEFAULT '',
		fallback_used     TEXT DEFAULT '',
		created_at        TEXT DEFAULT (datetime('now')),
		updated_at        TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS runs (
		id         TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		summary    TEXT DEFAULT '{}'
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_elements_guid ON elements (guid) WHERE guid != '';
	CREATE INDEX IF NOT EXISTS idx_elements_kind ON elements (kind);
	CREATE INDEX IF NOT EXISTS idx_elements_level ON elements (level_id);
	CREATE INDEX IF NOT EXISTS idx_types_kind ON element_types (kind);
	CREATE INDEX IF NOT EXISTS idx_types_family ON element_types (kind, family);
	`

	if _, err := c.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring sqlite schema: %w", err)
	}
	return nil
}
