package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"smarttax/internal/domain"

	"github.com/shopspring/decimal"
)

// TransactionRepo implements repository.TransactionRepository
type TransactionRepo struct {
	db *sql.DB
}

// NewTransactionRepo creates a new transaction repository
func NewTransactionRepo(db *sql.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

// Create inserts a transaction and fills its generated fields
func (r *TransactionRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (trader_id, product_name, product_price, tax_rate, tax_amount,
			trader_amount, reference_number, payment_status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		tx.TraderID, tx.ProductName, tx.ProductPrice, tx.TaxRate, tx.TaxAmount,
		tx.TraderAmount, tx.Reference, string(tx.Status), tx.PaymentMethod,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// ListRecent returns the trader's newest transactions first
func (r *TransactionRepo) ListRecent(ctx context.Context, traderID int64, limit int) ([]domain.Transaction, error) {
	query := `
		SELECT id, trader_id, product_name, product_price, tax_rate, tax_amount, trader_amount,
			reference_number, payment_status, payment_method, created_at
		FROM transactions
		WHERE trader_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, traderID, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var (
			tx     domain.Transaction
			status string
		)
		if err := rows.Scan(
			&tx.ID, &tx.TraderID, &tx.ProductName, &tx.ProductPrice, &tx.TaxRate, &tx.TaxAmount,
			&tx.TraderAmount, &tx.Reference, &status, &tx.PaymentMethod, &tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		tx.Status = domain.TransactionStatus(status)
		txs = append(txs, tx)
	}

	return txs, rows.Err()
}

// Sum totals one monetary column over the trader's transactions
func (r *TransactionRepo) Sum(ctx context.Context, traderID int64, field domain.AmountField) (decimal.Decimal, error) {
	column, err := amountColumn(field)
	if err != nil {
		return decimal.Zero, err
	}

	// column comes from a closed set, never from input
	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0) FROM transactions WHERE trader_id = $1`, column)

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, traderID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum %s: %w", column, err)
	}
	return total, nil
}

// Count returns the number of the trader's transactions
func (r *TransactionRepo) Count(ctx context.Context, traderID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions WHERE trader_id = $1`, traderID).Scan(&count)
	return count, err
}

func amountColumn(field domain.AmountField) (string, error) {
	switch field {
	case domain.FieldProductPrice, domain.FieldTaxAmount, domain.FieldTraderAmount:
		return string(field), nil
	default:
		return "", fmt.Errorf("unknown amount field %q", field)
	}
}
