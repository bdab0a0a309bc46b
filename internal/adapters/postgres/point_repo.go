package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Winnipeg-iOS-Developers/InterestingPoint/internal/core/domain"
)

const pointColumns = `id, title, subtitle,
	ST_Y(location::geometry) AS lat,
	ST_X(location::geometry) AS lon,
	created_at`

// PointRepo implements ports.PointRepository and ports.PointProvider with pgx.
type PointRepo struct {
	db *DB
}

// NewPointRepo creates a new PointRepo.
func NewPointRepo(db *DB) *PointRepo {
	return &PointRepo{db: db}
}

const upsertPointSQL = `
	INSERT INTO points (id, title, subtitle, location)
	VALUES (COALESCE(NULLIF($1, ''), gen_random_uuid()::text), $2, $3,
	        ST_SetSRID(ST_MakePoint($4, $5), 4326)::geography)
	ON CONFLICT (id) DO UPDATE
	SET title = EXCLUDED.title, subtitle = EXCLUDED.subtitle,
	    location = EXCLUDED.location, updated_at = now()
	RETURNING id, created_at`

// Upsert inserts or updates a single point and fills in its ID and CreatedAt.
func (r *PointRepo) Upsert(ctx context.Context, p *domain.POI) error {
	return r.db.Pool.QueryRow(ctx, upsertPointSQL,
		p.ID, p.Title, p.Subtitle, p.Location.Lon, p.Location.Lat,
	).Scan(&p.ID, &p.CreatedAt)
}

// UpsertBatch inserts many points using pgx.Batch inside one transaction.
func (r *PointRepo) UpsertBatch(ctx context.Context, pois []domain.POI) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	batch := &pgx.Batch{}
	for _, p := range pois {
		batch.Queue(upsertPointSQL, p.ID, p.Title, p.Subtitle, p.Location.Lon, p.Location.Lat)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range pois {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec point %d: %w", i, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}
	return tx.Commit(ctx)
}

// GetByID returns a point by id, or domain.ErrPointNotFound.
func (r *PointRepo) GetByID(ctx context.Context, id string) (*domain.POI, error) {
	var p domain.POI
	err := r.db.Pool.QueryRow(ctx, `SELECT `+pointColumns+` FROM points WHERE id = $1`, id).
		Scan(&p.ID, &p.Title, &p.Subtitle, &p.Location.Lat, &p.Location.Lon, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPointNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of points in insertion order and the total count.
func (r *PointRepo) List(ctx context.Context, limit, offset int) ([]domain.POI, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM points`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+pointColumns+`
		FROM points
		ORDER BY created_at, id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	pois, err := scanPoints(rows)
	return pois, total, err
}

// FindNearby returns points within radiusMeters using PostGIS ST_DWithin.
func (r *PointRepo) FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, title, subtitle,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lon,
		       created_at,
		       ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography) AS distance
		FROM points
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance
		LIMIT $4
	`, lon, lat, radiusMeters, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pois []domain.POI
	for rows.Next() {
		var p domain.POI
		var dist float64
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Subtitle,
			&p.Location.Lat, &p.Location.Lon,
			&p.CreatedAt, &dist,
		); err != nil {
			return nil, err
		}
		p.Distance = &dist
		pois = append(pois, p)
	}
	return pois, rows.Err()
}

// FetchPoints returns every stored point in insertion order.
func (r *PointRepo) FetchPoints(ctx context.Context) ([]domain.POI, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT `+pointColumns+` FROM points ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	return scanPoints(rows)
}

func scanPoints(rows pgx.Rows) ([]domain.POI, error) {
	defer rows.Close()

	pois := []domain.POI{}
	for rows.Next() {
		var p domain.POI
		if err := rows.Scan(&p.ID, &p.Title, &p.Subtitle, &p.Location.Lat, &p.Location.Lon, &p.CreatedAt); err != nil {
			return nil, err
		}
		pois = append(pois, p)
	}
	return pois, rows.Err()
}
