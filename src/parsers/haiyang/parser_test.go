package haiyang

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/models"
)

func TestParsePicksCostBillSheet(t *testing.T) {
	doc := models.Document{
		Name: "Haiyang账单 2025-7月.xlsx",
		Tag:  "haiyang",
		Sheets: []models.Sheet{
			{Name: "汇总", Rows: [][]string{{"说明"}, {"内容"}}},
			{
				Name: "CostBill",
				Rows: [][]string{
					{"费用类型", "计费规则金额", "计费时间", "订单号"},
					{"派送费", "4.20", "2025-06-28 10:00:00", "H-1"},
					{"仓储费", "1.10", "2025-07-02 10:00:00", ""},
				},
			},
		},
	}
	p := NewParser()
	costs, summary := p.Parse(doc)

	if len(summary.Issues) != 0 {
		t.Fatalf("unexpected issues: %+v", summary.Issues)
	}
	if len(costs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(costs))
	}
	// A bill spanning a month boundary attributes each row by its own
	// billing time, not by the filename month.
	if costs[0].BillingPeriod != "2025-06" || costs[1].BillingPeriod != "2025-07" {
		t.Errorf("billing periods = %s/%s, want 2025-06/2025-07",
			costs[0].BillingPeriod, costs[1].BillingPeriod)
	}
	if costs[0].Currency != "GBP" || costs[0].WarehouseRegion != "UK" {
		t.Errorf("currency/region = %s/%s, want GBP/UK", costs[0].Currency, costs[0].WarehouseRegion)
	}
	if costs[0].CostType != models.CostShipping || costs[1].CostType != models.CostStorage {
		t.Errorf("cost types = %s/%s, want shipping/storage", costs[0].CostType, costs[1].CostType)
	}
	if !summary.Total.Equal(decimal.RequireFromString("5.30")) {
		t.Errorf("total = %s, want 5.30", summary.Total)
	}
}

func TestParseFilenameMonthFallback(t *testing.T) {
	doc := models.Document{
		Name: "Haiyang账单 2025-7月.xlsx",
		Tag:  "haiyang",
		Sheets: []models.Sheet{{
			Name: "CostBill",
			Rows: [][]string{
				{"费用类型", "金额"},
				{"操作费", "2.00"},
			},
		}},
	}
	p := NewParser()
	costs, summary := p.Parse(doc)
	if len(summary.Issues) != 0 || len(costs) != 1 {
		t.Fatalf("costs=%d issues=%+v", len(costs), summary.Issues)
	}
	if costs[0].BillingPeriod != "2025-07" {
		t.Errorf("billing period = %s, want 2025-07 from filename", costs[0].BillingPeriod)
	}
}

func TestParseNoMonthAnywhere(t *testing.T) {
	doc := models.Document{
		Name: "Haiyang账单.xlsx",
		Tag:  "haiyang",
		Sheets: []models.Sheet{{
			Name: "CostBill",
			Rows: [][]string{
				{"费用类型", "金额"},
				{"操作费", "2.00"},
			},
		}},
	}
	p := NewParser()
	costs, summary := p.Parse(doc)
	if costs != nil {
		t.Fatalf("expected no records, got %d", len(costs))
	}
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueUnparseableFilename {
		t.Fatalf("expected UnparseableFilename, got %+v", summary.Issues)
	}
}
