package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"framecast/internal/store"
)

func (c *Client) UpsertLevel(ctx context.Context, name string, elevationMM float64) (int64, error) {
	var id int64
	err := c.pool.QueryRow(ctx, `
	INSERT INTO levels (name, elevation_mm) VALUES ($1, $2)
	ON CONFLICT (name) DO UPDATE SET elevation_mm = excluded.elevation_mm
	RETURNING id`, name, elevationMM).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting level %q: %w", name, err)
	}
	return id, nil
}

func (c *Client) UpsertMaterial(ctx context.Context, name string) (int64, error) {
	var id int64
	err := c.pool.QueryRow(ctx, `
	INSERT INTO materials (name) VALUES ($1)
	ON CONFLICT (name) DO UPDATE SET name = excluded.name
	RETURNING id`, name).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upserting material %q: %w", name, err)
	}
	return id, nil
}

func (c *Client) SeedTypes(ctx context.Context, seeds []store.TypeSeed) error {
	for _, seed := range seeds {
		_, err := c.pool.Exec(ctx, `
		INSERT INTO element_types (kind, family, name) VALUES ($1, $2, $3)
		ON CONFLICT (kind, name) DO NOTHING`, seed.Kind, seed.Family, seed.Name)
		if err != nil {
			return fmt.Errorf("seeding type %q: %w", seed.Name, err)
		}
	}
	return nil
}

func (c *Client) FindTypeByFamily(ctx context.Context, kind string, candidates []string) (*store.ElementType, error) {
	if candidates == nil {
		return c.scanType(c.pool.QueryRow(ctx, `
		SELECT id, kind, family, name, dimensions FROM element_types
		WHERE kind = $1 ORDER BY id LIMIT 1`, kind))
	}
	for _, candidate := range candidates {
		t, err := c.scanType(c.pool.QueryRow(ctx, `
		SELECT id, kind, family, name, dimensions FROM element_types
		WHERE kind = $1 AND lower(family) = lower($2) ORDER BY id LIMIT 1`, kind, candidate))
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
	return c.scanType(c.pool.QueryRow(ctx, `
	SELECT id, kind, family, name, dimensions FROM element_types WHERE id = $1`, id))
}

func (c *Client) GetTypeByName(ctx context.Context, kind, name string) (*store.ElementType, error) {
	return c.scanType(c.pool.QueryRow(ctx, `
	SELECT id, kind, family, name, dimensions FROM element_types WHERE kind = $1 AND name = $2`, kind, name))
}

func (c *Client) InsertType(ctx context.Context, input store.ElementTypeInput) (int64, error) {
	dims, err := json.Marshal(input.Dimensions)
	if err != nil {
		return 0, fmt.Errorf("marshaling dimensions: %w", err)
	}
	var id int64
	err = c.pool.QueryRow(ctx, `
	INSERT INTO element_types (kind, family, name, dimensions) VALUES ($1, $2, $3, $4)
	RETURNING id`, input.Kind, input.Family, input.Name, dims).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting type %q: %w", input.Name, err)
	}
	return id, nil
}

func (c *Client) SetTypeDimension(ctx context.Context, id int64, key string, valueMM float64) error {
	_, err := c.pool.Exec(ctx, `
	UPDATE element_types
	SET dimensions = jsonb_set(dimensions, ARRAY[$1], to_jsonb($2::double precision))
	WHERE id = $3`, key, valueMM, id)
	if err != nil {
		return fmt.Errorf("setting dimension %q on type %d: %w", key, id, err)
	}
	return nil
}

func (c *Client) ListLevels(ctx context.Context) ([]store.LevelRow, error) {
	rows, err := c.pool.Query(ctx, `SELECT id, name, elevation_mm FROM levels ORDER BY elevation_mm, name`)
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

func (c *Client) scanType(row pgx.Row) (*store.ElementType, error) {
	var t store.ElementType
	var dims []byte
	err := row.Scan(&t.ID, &t.Kind, &t.Family, &t.Name, &dims)
	if errors.Is(err, pgx.ErrNoRows) {
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
