package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/fzk888/CB-Settlement/src/aggregate"
	"github.com/fzk888/CB-Settlement/src/logger"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/scanner"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const amazonCSV = `date/time,type,order id,sku,product sales,selling fees,total
2025-07-15 10:00:00,Order,111-222,SKU1,100.00,-15.00,85.00
2025-07-31 09:00:00,Transfer,,,,,-50.00
`

func writeTSPBill(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := "Storage Fees"
	if _, err := f.NewSheet(sheet); err != nil {
		t.Fatal(err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		t.Fatal(err)
	}
	rows := [][]interface{}{
		{"Description", "Cost"},
		{"Pallet week 1", "12.50"},
		{"Pallet week 2", "12.50"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "MyBrand-UK transaction 2025Jul.csv")
	if err := os.WriteFile(csvPath, []byte(amazonCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	billPath := filepath.Join(dir, "TSP Bill Jul25.xlsx")
	writeTSPBill(t, billPath)

	p := New(2)
	res, err := p.Run(context.Background(),
		[]scanner.SourceFile{{Path: csvPath, Tag: "amazon"}},
		[]scanner.SourceFile{{Path: billPath, Tag: "tsp"}})
	if err != nil {
		t.Fatal(err)
	}

	if res.RunID == "" {
		t.Error("run id not assigned")
	}
	if len(res.Issues) != 0 {
		t.Fatalf("unexpected issues: %+v", res.Issues)
	}
	if len(res.Transactions) != 2 || len(res.Costs) != 2 {
		t.Fatalf("transactions=%d costs=%d, want 2/2", len(res.Transactions), len(res.Costs))
	}
	if len(res.Summaries) != 2 {
		t.Fatalf("summaries = %d, want one per document", len(res.Summaries))
	}

	if len(res.RevenueByStore.Revenue) != 1 {
		t.Fatalf("revenue by store = %+v", res.RevenueByStore.Revenue)
	}
	rev := res.RevenueByStore.Revenue[0]
	if rev.Value(aggregate.DimStore) != "mybrand_uk" || !rev.Total.Equal(decimal.RequireFromString("85.00")) {
		t.Errorf("revenue row = %v %s, want mybrand_uk 85.00", rev.Values, rev.Total)
	}
	if len(res.RevenueByStore.Transfers) != 1 || !res.RevenueByStore.Transfers[0].Total.Equal(decimal.RequireFromString("-50.00")) {
		t.Errorf("transfers = %+v, want one row of -50.00", res.RevenueByStore.Transfers)
	}

	if len(res.CostByWarehouse) != 1 {
		t.Fatalf("cost by warehouse = %+v", res.CostByWarehouse)
	}
	cw := res.CostByWarehouse[0]
	if cw.Value(aggregate.DimSource) != "TSP" || !cw.Total.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("cost row = %v %s, want TSP 25.00", cw.Values, cw.Total)
	}

	// Warehouse bills carry no store attribution, so the net join keeps
	// the store revenue on its own row.
	var found bool
	for _, n := range res.Net {
		if n.StoreID == "mybrand_uk" {
			found = true
			if n.Net == nil || !n.Net.Amount.Equal(decimal.RequireFromString("85.00")) {
				t.Errorf("net = %+v, want 85.00 GBP", n.Net)
			}
		}
	}
	if !found {
		t.Errorf("no net row for mybrand_uk: %+v", res.Net)
	}
}

func TestRunUnknownTagFailsFast(t *testing.T) {
	p := New(1)
	_, err := p.Run(context.Background(),
		[]scanner.SourceFile{{Path: "whatever.csv", Tag: "ebay"}}, nil)
	if err == nil {
		t.Fatal("expected error for unregistered parser tag")
	}
}

func TestRunExtractionFailureIsDocumentScoped(t *testing.T) {
	p := New(1)
	res, err := p.Run(context.Background(),
		[]scanner.SourceFile{{Path: filepath.Join(t.TempDir(), "gone.csv"), Tag: "amazon"}}, nil)
	if err != nil {
		t.Fatalf("extraction failure must not abort the run: %v", err)
	}
	if len(res.Issues) != 1 || res.Issues[0].Kind != models.IssueEmptyDocument {
		t.Fatalf("expected one EmptyDocument issue, got %+v", res.Issues)
	}
	if len(res.Transactions) != 0 {
		t.Fatalf("transactions = %d, want 0", len(res.Transactions))
	}
}
