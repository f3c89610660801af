package xiyou

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/models"
)

const billName = "AAB57--US--TEMU--履约账单--2025.07.01-2025.07.31--v2.xlsx"

func billSheet() models.Sheet {
	return models.Sheet{
		Name: "Sheet1",
		Rows: [][]string{
			{"订单号", "费用类型", "费用金额", "跟踪号"},
			{"ORD-1", "派送费", "3.20", "TRK1"},
			{"ORD-2", "仓储费", "1.80", ""},
			{"合计", "", "5.00", ""},
		},
	}
}

func TestParseBill(t *testing.T) {
	p := NewParser()
	costs, summary := p.Parse(models.Document{Name: billName, Tag: "xiyou", Sheets: []models.Sheet{billSheet()}})

	if len(summary.Issues) != 0 {
		t.Fatalf("unexpected issues: %+v", summary.Issues)
	}
	if len(costs) != 2 {
		t.Fatalf("expected 2 records (合计 row excluded), got %d", len(costs))
	}
	if summary.Site != "US" || summary.Currency != "USD" {
		t.Errorf("site/currency = %s/%s, want US/USD", summary.Site, summary.Currency)
	}
	if summary.StoreID != "aab57_us" {
		t.Errorf("store id = %s, want aab57_us", summary.StoreID)
	}
	if summary.BillingPeriod != "2025-07" {
		t.Errorf("billing period = %s, want 2025-07", summary.BillingPeriod)
	}
	if !summary.Total.Equal(decimal.RequireFromString("5.00")) {
		t.Errorf("total = %s, want 5.00", summary.Total)
	}
	if costs[0].CostType != models.CostShipping || costs[1].CostType != models.CostStorage {
		t.Errorf("cost types = %s/%s, want shipping/storage", costs[0].CostType, costs[1].CostType)
	}
	if costs[0].TrackingNumber != "TRK1" || costs[0].OrderID != "ORD-1" {
		t.Errorf("tracking/order = %s/%s", costs[0].TrackingNumber, costs[0].OrderID)
	}
}

func TestParseStatedTotalMismatch(t *testing.T) {
	sheet := billSheet()
	sheet.Rows[3][2] = "9.99"
	p := NewParser()
	costs, summary := p.Parse(models.Document{Name: billName, Tag: "xiyou", Sheets: []models.Sheet{sheet}})

	if costs != nil {
		t.Fatalf("mismatching bill must yield no records, got %d", len(costs))
	}
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueTotalMismatch {
		t.Fatalf("expected TotalMismatch, got %+v", summary.Issues)
	}
}

func TestParseUnknownSiteSegment(t *testing.T) {
	p := NewParser()
	name := "AAB57--XX--TEMU--履约账单--2025.07.01-2025.07.31.xlsx"
	_, summary := p.Parse(models.Document{Name: name, Tag: "xiyou", Sheets: []models.Sheet{billSheet()}})
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueMissingCurrency {
		t.Fatalf("expected MissingCurrency, got %+v", summary.Issues)
	}
}

func TestParseNoPeriodInFilename(t *testing.T) {
	p := NewParser()
	name := "AAB57--US--TEMU--履约账单.xlsx"
	_, summary := p.Parse(models.Document{Name: name, Tag: "xiyou", Sheets: []models.Sheet{billSheet()}})
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueUnparseableFilename {
		t.Fatalf("expected UnparseableFilename, got %+v", summary.Issues)
	}
}
