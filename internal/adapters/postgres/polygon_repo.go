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

// PolygonRepo implements ports.PolygonRepository on a PostGIS table.
type PolygonRepo struct {
	db *DB
}

// NewPolygonRepo creates a new PolygonRepo.
func NewPolygonRepo(db *DB) *PolygonRepo {
	return &PolygonRepo{db: db}
}

const polygonColumns = `id::text, name, ST_AsBinary(geom), created_at`

// List returns all polygons, oldest first.
func (r *PolygonRepo) List(ctx context.Context) ([]domain.Polygon, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+polygonColumns+` FROM polygons ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query polygons: %w", err)
	}
	defer rows.Close()

	var polygons []domain.Polygon
	for rows.Next() {
		p, err := scanPolygon(rows)
		if err != nil {
			return nil, err
		}
		polygons = append(polygons, p)
	}
	return polygons, rows.Err()
}

// GetByID returns one polygon.
func (r *PolygonRepo) GetByID(ctx context.Context, id string) (*domain.Polygon, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := scanPolygon(r.db.Pool.QueryRow(ctx, `SELECT `+polygonColumns+` FROM polygons WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts p and fills in its server id and creation time.
func (r *PolygonRepo) Create(ctx context.Context, p *domain.Polygon) error {
	var id string
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO polygons (name, geom)
		VALUES ($1, ST_GeomFromWKB($2, 4326))
		RETURNING id::text, created_at
	`, p.Name, wkb.Value(orb.Polygon{p.Ring})).Scan(&id, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert polygon: %w", err)
	}
	p.ID = domain.RemoteID(id)
	return nil
}

// Delete removes polygon id.
func (r *PolygonRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM polygons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete polygon: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPolygon(row pgx.Row) (domain.Polygon, error) {
	var (
		p    domain.Polygon
		id   string
		geom orb.Polygon
	)
	if err := row.Scan(&id, &p.Name, wkb.Scanner(&geom), &p.CreatedAt); err != nil {
		return p, err
	}
	if len(geom) == 0 {
		return p, fmt.Errorf("polygon %s: %w: empty exterior ring", id, domain.ErrInvalidGeometry)
	}
	p.ID = domain.RemoteID(id)
	p.Ring = geom[0]
	return p, nil
}
