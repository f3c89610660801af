package managedstore

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/models"
)

func detailDoc(name string, rows [][]string) models.Document {
	return models.Document{Name: name, Tag: "managed_store", Sheets: []models.Sheet{{Name: "Sheet1", Rows: rows}}}
}

func TestParseDetail(t *testing.T) {
	rows := [][]string{
		{"费用项", "金额(CNY)", "结算时间", "订单号"},
		{"货款", "1000.00", "2025/07/05 10:00:00", "D-1"},
		{"提现", "-200.00", "2025/07/20 09:00:00", ""},
		{"", "50.00", "2025/07/21 09:00:00", ""},
	}
	p := NewParser()
	txs, summary := p.Parse(detailDoc("小店收支明细2025.xlsx", rows))

	if len(summary.Issues) != 0 {
		t.Fatalf("unexpected issues: %+v", summary.Issues)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions (blank fee item skipped), got %d", len(txs))
	}
	if summary.StoreID != "小店" {
		t.Errorf("store id = %s, want 小店", summary.StoreID)
	}
	if summary.Currency != "CNY" || txs[0].Currency != "CNY" {
		t.Errorf("currency = %s, want CNY", summary.Currency)
	}
	if !summary.Total.Equal(decimal.RequireFromString("1000.00")) {
		t.Errorf("revenue total = %s, want 1000.00", summary.Total)
	}
	if !summary.TransferTotal.Equal(decimal.RequireFromString("-200.00")) {
		t.Errorf("transfer total = %s, want -200.00", summary.TransferTotal)
	}
	if !txs[1].IsTransfer {
		t.Error("withdrawal row not flagged as transfer")
	}
	if summary.BillingPeriod != "2025-07" {
		t.Errorf("billing period = %s, want 2025-07", summary.BillingPeriod)
	}
	if txs[0].OrderID != "D-1" {
		t.Errorf("order id = %s, want D-1", txs[0].OrderID)
	}
}

func TestParseMissingColumns(t *testing.T) {
	rows := [][]string{
		{"备注", "数量"},
		{"x", "3"},
	}
	p := NewParser()
	_, summary := p.Parse(detailDoc("小店收支明细.xlsx", rows))
	if len(summary.Issues) != 1 || summary.Issues[0].Kind != models.IssueUnrecognizedDocumentType {
		t.Fatalf("expected UnrecognizedDocumentType, got %+v", summary.Issues)
	}
}
