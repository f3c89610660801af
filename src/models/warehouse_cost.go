package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostType is the closed fee taxonomy every warehouse bill is mapped onto.
type CostType string

const (
	CostShipping   CostType = "Shipping"
	CostStorage    CostType = "Storage"
	CostInbound    CostType = "Inbound"
	CostOutbound   CostType = "Outbound"
	CostHandling   CostType = "Handling"
	CostPackaging  CostType = "Packaging"
	CostReturn     CostType = "Return"
	CostManagement CostType = "Management"
	CostTransport  CostType = "Transport"
	CostCustoms    CostType = "Customs"
	CostOther      CostType = "Other"
)

// DocumentKind classifies a warehouse billing document by its filename
// suffix. Appendix documents duplicate the totals of their sibling summary
// document and are excluded from aggregation entirely.
type DocumentKind string

const (
	KindInvoice    DocumentKind = "invoice"
	KindCreditNote DocumentKind = "credit_note"
	KindAppendix   DocumentKind = "appendix"
)

// WarehouseCost is one normalized fulfillment cost line. Positive amounts
// are charges, negative amounts are credits/refunds; the sign is fixed by
// the document kind, not by what the source printed.
type WarehouseCost struct {
	WarehouseName   string `json:"warehouse_name"`
	WarehouseRegion string `json:"warehouse_region"`

	OrderID        string `json:"order_id,omitempty"`
	SKU            string `json:"sku,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	StoreID        string `json:"store_id,omitempty"`

	CostAmount  decimal.Decimal `json:"cost_amount"`
	Currency    string          `json:"currency"`
	CostType    CostType        `json:"cost_type"`
	CostTypeRaw string          `json:"cost_type_raw"`

	DocumentKind DocumentKind `json:"document_kind"`

	CostDate      time.Time `json:"cost_date"`
	BillingPeriod string    `json:"billing_period"` // YYYY-MM

	SourceFile string `json:"source_file"`
	RowNumber  int    `json:"row_number"`
}

// NormalizeSign applies the fixed sign convention for the given document
// kind, exactly once, ignoring the printed sign: invoices are charges,
// credit notes are credits.
func NormalizeSign(printed decimal.Decimal, kind DocumentKind) decimal.Decimal {
	if kind == KindCreditNote {
		return printed.Abs().Neg()
	}
	return printed.Abs()
}
