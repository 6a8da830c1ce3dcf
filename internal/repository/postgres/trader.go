package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"smarttax/internal/domain"
)

// TraderRepo implements repository.TraderRepository
type TraderRepo struct {
	db *sql.DB
}

// NewTraderRepo creates a new trader repository
func NewTraderRepo(db *sql.DB) *TraderRepo {
	return &TraderRepo{db: db}
}

// FindByPhone returns the trader registered with the phone number
func (r *TraderRepo) FindByPhone(ctx context.Context, phone string) (*domain.Trader, error) {
	var (
		t          domain.Trader
		email      sql.NullString
		districtID sql.NullInt64
		sectorID   sql.NullInt64
	)
	query := `
		SELECT id, full_name, business_name, phone, momo_number, email, category,
			tin_number, district_id, sector_id, pin_hash, is_active, created_at, updated_at
		FROM traders
		WHERE phone = $1
	`
	err := r.db.QueryRowContext(ctx, query, phone).Scan(
		&t.ID, &t.FullName, &t.BusinessName, &t.Phone, &t.MomoNumber, &email, &t.Category,
		&t.TIN, &districtID, &sectorID, &t.PINHash, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find trader by phone: %w", err)
	}

	t.Email = email.String
	t.DistrictID = districtID.Int64
	t.SectorID = sectorID.Int64

	return &t, nil
}

// Create inserts a trader and fills its generated fields
func (r *TraderRepo) Create(ctx context.Context, t *domain.Trader) error {
	query := `
		INSERT INTO traders (full_name, business_name, phone, momo_number, email, category,
			tin_number, district_id, sector_id, pin_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		t.FullName, t.BusinessName, t.Phone, t.MomoNumber, nullString(t.Email), t.Category,
		t.TIN, nullInt64(t.DistrictID), nullInt64(t.SectorID), t.PINHash, t.Active,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)

	if isUniqueViolation(err) {
		return domain.ErrPhoneRegistered
	}
	if err != nil {
		return fmt.Errorf("create trader: %w", err)
	}
	return nil
}

// Count returns the number of registered traders
func (r *TraderRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM traders`).Scan(&count)
	return count, err
}
