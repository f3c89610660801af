package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Platform identifies the sales channel a transaction came from.
type Platform string

const (
	PlatformAmazon       Platform = "amazon"
	PlatformTemu         Platform = "temu"
	PlatformShein        Platform = "shein"
	PlatformManagedStore Platform = "managed_store"
	PlatformMarketplaceX Platform = "marketplace_x"
)

// Transaction is one normalized platform revenue (or withdrawal) line.
// Parsers create it once per source row; nothing mutates it afterwards.
type Transaction struct {
	StoreID   string          `json:"store_id"`
	StoreName string          `json:"store_name"`
	Platform  Platform        `json:"platform"`
	Site      string          `json:"site"` // marketplace/region code: UK, DE, US...
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"` // net settlement amount, sign as settled

	TypeRaw    string `json:"type_raw"`
	OrderID    string `json:"order_id,omitempty"`
	SKU        string `json:"sku,omitempty"`
	IsTransfer bool   `json:"is_transfer"`

	TransactionDate time.Time `json:"transaction_date"`
	BillingPeriod   string    `json:"billing_period"` // YYYY-MM, calendar month

	SourceFile string `json:"source_file"`
	RowNumber  int    `json:"row_number"`
}
