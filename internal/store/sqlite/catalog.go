package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"framecast/internal/store"
)

func (c *Client) UpsertLevel(ctx context.Context, name string, elevationMM float64) (int64, error) {
	query := `
	INSERT INTO levels (name, elevation_mm) VALUES (?, ?)
	ON CONFLICT (name) DO UPDATE SET elevation_mm = excluded.elevation_mm
	RETURNING id
	`
	var id int64
	if err := c.db.QueryRowContext(ctx, query, name, elevationMM).Scan(&id); err != nil {
		return 0, fmt.Errorf("upserting level %q: %w", name, err)
	}
	return id, nil
}

func (c *Client) UpsertMaterial(ctx context.Context, name string) (int64, error) {
	query := `
	INSERT INTO materials (name) VALUES (?)
	ON CONFLICT (name) DO UPDATE SET name = excluded.name
	RETURNING id
	`
	var id int64
	if err := c.db.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("upserting material %q: %w", name, err)
	}
	return id, nil
}

func (c *Client) SeedTypes(ctx context.Context, seeds []store.TypeSeed) error {
	query := `
	INSERT INTO element_types (kind, family, name, dimensions) VALUES (?, ?, ?, '{}')
	ON CONFLICT (kind, name) DO NOTHING
	`
	for _, seed := range seeds {
		if _, err := c.db.ExecContext(ctx, query, seed.Kind, seed.Family, seed.Name); err != nil {
			return fmt.Errorf("seeding type %q: %w", seed.Name, err)
		}
	}
	return nil
}

func (c *Client) FindTypeByFamily(ctx context.Context, kind string, candidates []string) (*store.ElementType, error) {
	if candidates == nil {
		return c.scanType(c.db.QueryRowContext(ctx, `
		SELECT id, kind, family, name, dimensions FROM element_types
		WHERE kind = ? ORDER BY id LIMIT 1`, kind))
	}
	for _, candidate := range candidates {
		t, err := c.scanType(c.db.QueryRowContext(ctx, `
		SELECT id, kind, family, name, dimensions FROM element_types
		WHERE kind = ? AND family = ? COLLATE NOCASE ORDER BY id LIMIT 1`, kind, candidate))
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	return nil, nil
}

func (c *Client) GetType(ctx context.Context, id int64) (*store.ElementType, error) {
	return c.scanType(c.db.QueryRowContext(ctx, `
	SELECT id, kind, family, name, dimensions FROM element_types WHERE id = ?`, id))
}

func (c *Client) GetTypeByName(ctx context.Context, kind, name string) (*store.ElementType, error) {
	return c.scanType(c.db.QueryRowContext(ctx, `
	SELECT id, kind, family, name, dimensions FROM element_types WHERE kind = ? AND name = ?`, kind, name))
}

func (c *Client) InsertType(ctx context.Context, input store.ElementTypeInput) (int64, error) {
	dims, err := json.Marshal(input.Dimensions)
	if err != nil {
		return 0, fmt.Errorf("marshaling dimensions: %w", err)
	}
	var id int64
	err = c.db.QueryRowContext(ctx, `
	INSERT INTO element_types (kind, family, name, dimensions) VALUES (?, ?, ?, ?)
	RETURNING id`, input.Kind, input.Family, input.Name, string(dims)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting type %q: %w", input.Name, err)
	}
	return id, nil
}

func (c *Client) SetTypeDimension(ctx context.Context, id int64, key string, valueMM float64) error {
	_, err := c.db.ExecContext(ctx, `
	UPDATE element_types
	SET dimensions = json_set(dimensions, '$.' || ?, ?)
	WHERE id = ?`, key, valueMM, id)
	if err != nil {
		return fmt.Errorf("setting dimension %q on type %d: %w", key, id, err)
	}
	return nil
}

func (c *Client) ListLevels(ctx context.Context) ([]store.LevelRow, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT id, name, elevation_mm FROM levels ORDER BY elevation_mm, name`)
	if err != nil {
		return nil, fmt.Errorf("listing levels: %w", err)
	}
	defer rows.Close()

	var out []store.LevelRow
	for rows.Next() {
		var row store.LevelRow
		if err := rows.Scan(&row.ID, &row.Name, &row.ElevationMM); err != nil {
			return nil, fmt.Errorf("scanning level: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (c *Client) scanType(row *sql.Row) (*store.ElementType, error) {
	var t store.ElementType
	var dims []byte
	err := row.Scan(&t.ID, &t.Kind, &t.Family, &t.Name, &dims)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning element type: %w", err)
	}
	if len(dims) > 0 {
		if err := json.Unmarshal(dims, &t.Dimensions); err != nil {
			return nil, fmt.Errorf("unmarshaling dimensions: %w", err)
		}
	}
	if t.Dimensions == nil {
		t.Dimensions = map[string]float64{}
	}
	return &t, nil
}
