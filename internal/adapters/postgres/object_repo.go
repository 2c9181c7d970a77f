package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"

	"github.com/samirrijal/polymap/internal/core/domain"
)

// ObjectRepo implements ports.ObjectRepository on a PostGIS table.
type ObjectRepo struct {
	db *DB
}

// NewObjectRepo creates a new ObjectRepo.
func NewObjectRepo(db *DB) *ObjectRepo {
	return &ObjectRepo{db: db}
}

const objectColumns = `id::text, type, ST_AsBinary(geom), created_at`

// List returns all objects, oldest first.
func (r *ObjectRepo) List(ctx context.Context) ([]domain.MapObject, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+objectColumns+` FROM map_objects ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query objects: %w", err)
	}
	defer rows.Close()

	var objects []domain.MapObject
	for rows.Next() {
		o, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, o)
	}
	return objects, rows.Err()
}

// GetByID returns one object.
func (r *ObjectRepo) GetByID(ctx context.Context, id string) (*domain.MapObject, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	o, err := scanObject(r.db.Pool.QueryRow(ctx, `SELECT `+objectColumns+` FROM map_objects WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserts o and fills in its server id and creation time.
func (r *ObjectRepo) Create(ctx context.Context, o *domain.MapObject) error {
	var id string
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO map_objects (type, geom)
		VALUES ($1, ST_GeomFromWKB($2, 4326))
		RETURNING id::text, created_at
	`, o.Type, wkb.Value(o.Position)).Scan(&id, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert object: %w", err)
	}
	o.ID = domain.RemoteID(id)
	return nil
}

// Delete removes object id.
func (r *ObjectRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM map_objects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanObject(row pgx.Row) (domain.MapObject, error) {
	var (
		o   domain.MapObject
		id  string
		pos orb.Point
	)
	if err := row.Scan(&id, &o.Type, wkb.Scanner(&pos), &o.CreatedAt); err != nil {
		return o, err
	}
	o.ID = domain.RemoteID(id)
	o.Position = pos
	return o, nil
}
