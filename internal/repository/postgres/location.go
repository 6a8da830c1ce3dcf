package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smarttax/internal/domain"
)

// LocationRepo implements repository.LocationRepository
type LocationRepo struct {
	db *sql.DB
}

// NewLocationRepo creates a new location repository
func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

// ListDistricts returns all districts ordered by name
func (r *LocationRepo) ListDistricts(ctx context.Context) ([]domain.District, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM districts ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list districts: %w", err)
	}
	defer rows.Close()

	var districts []domain.District
	for rows.Next() {
		var d domain.District
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		districts = append(districts, d)
	}

	return districts, rows.Err()
}

// ListSectors returns the sectors of a district ordered by name
func (r *LocationRepo) ListSectors(ctx context.Context, districtID int64) ([]domain.Sector, error) {
	query := `
		SELECT id, district_id, name
		FROM sectors
		WHERE district_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, districtID)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()

	var sectors []domain.Sector
	for rows.Next() {
		var s domain.Sector
		if err := rows.Scan(&s.ID, &s.DistrictID, &s.Name); err != nil {
			return nil, err
		}
		sectors = append(sectors, s)
	}

	return sectors, rows.Err()
}

// GetDistrict returns a district by id
func (r *LocationRepo) GetDistrict(ctx context.Context, id int64) (*domain.District, error) {
	var d domain.District
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM districts WHERE id = $1`, id).Scan(&d.ID, &d.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetSector returns a sector by id
func (r *LocationRepo) GetSector(ctx context.Context, id int64) (*domain.Sector, error) {
	var s domain.Sector
	err := r.db.QueryRowContext(ctx, `SELECT id, district_id, name FROM sectors WHERE id = $1`, id).
		Scan(&s.ID, &s.DistrictID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
