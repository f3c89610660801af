package shein

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/models"
)

func billDoc(name string, rows [][]string) models.Document {
	return models.Document{Name: name, Tag: "shein", Sheets: []models.Sheet{{Name: "Sheet1", Rows: rows}}}
}

func TestParseBill(t *testing.T) {
	rows := [][]string{
		{"账单汇总 2025-07"},
		{"订单号", "账单类型", "站点", "应收金额", "打款日期"},
		{"SO-1", "销售", "", "25.00", "2025/07/06"},
		{"SO-2", "销售", "FR", "10.00", "2025/07/08"},
		{"SO-3", "退款", "", "-5.00", "2025/07/09"},
	}
	p := NewParser()
	txs, summary := p.Parse(billDoc("BrandShop已完成账单UK.xlsx", rows))

	if len(summary.Issues) != 0 {
		t.Fatalf("unexpected issues: %+v", summary.Issues)
	}
	if len(txs) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txs))
	}
	if summary.Site != "UK" || summary.Currency != "GBP" {
		t.Errorf("site/currency = %s/%s, want UK/GBP", summary.Site, summary.Currency)
	}
	if summary.StoreID != "brandshop_uk" {
		t.Errorf("store id = %s, want brandshop_uk", summary.StoreID)
	}
	if !summary.Total.Equal(decimal.RequireFromString("30.00")) {
		t.Errorf("total = %s, want 30.00", summary.Total)
	}
	if summary.BillingPeriod != "2025-07" {
		t.Errorf("billing period = %s, want 2025-07", summary.BillingPeriod)
	}
	// A per-row site cell overrides the filename site for that row only.
	if txs[0].Site != "UK" || txs[1].Site != "FR" {
		t.Errorf("row sites = %s/%s, want UK/FR", txs[0].Site, txs[1].Site)
	}
	if txs[2].TypeRaw != "退款" {
		t.Errorf("type = %s, want 退款", txs[2].TypeRaw)
	}
}

func TestParseUnknownSite(t *testing.T) {
	rows := [][]string{
		{"banner"},
		{"订单号", "应收金额"},
		{"SO-1", "25.00"},
	}
	p := NewParser()
	_, summary := p.Parse(billDoc("店铺已完成账单.xlsx", rows))
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueMissingCurrency {
		t.Fatalf("expected MissingCurrency, got %+v", summary.Issues)
	}
}

func TestParseAmountColumnMissing(t *testing.T) {
	rows := [][]string{
		{"banner"},
		{"订单号", "数量"},
		{"SO-1", "3"},
	}
	p := NewParser()
	_, summary := p.Parse(billDoc("BrandShop已完成账单UK.xlsx", rows))
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueUnrecognizedDocumentType {
		t.Fatalf("expected UnrecognizedDocumentType, got %+v", summary.Issues)
	}
}
