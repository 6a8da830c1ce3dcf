package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the payment state of a transaction
type TransactionStatus string

// TransactionPaid is the status of a sale settled through the menu
const TransactionPaid TransactionStatus = "paid"

// PaymentMethodUSSD marks transactions recorded through the USSD menu
const PaymentMethodUSSD = "ussd"

// Transaction is an immutable record of a taxed sale.
// ProductPrice always equals TaxAmount + TraderAmount.
type Transaction struct {
	ID            int64
	TraderID      int64
	ProductName   string
	ProductPrice  decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	TraderAmount  decimal.Decimal
	Reference     string
	Status        TransactionStatus
	PaymentMethod string
	CreatedAt     time.Time
}

// AmountField names a summable monetary column of a transaction
type AmountField string

const (
	FieldProductPrice AmountField = "product_price"
	FieldTaxAmount    AmountField = "tax_amount"
	FieldTraderAmount AmountField = "trader_amount"
)

// Summary aggregates a trader's transactions
type Summary struct {
	TotalTransactions int
	TotalRevenue      decimal.Decimal
	TotalTax          decimal.Decimal
	TotalTraderAmount decimal.Decimal
}
