// Package reporter renders a run into an Excel workbook: revenue and
// transfer summaries per platform, warehouse cost summaries, net results
// per store and month, and the warnings sheet auditors start from.
package reporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/fzk888/CB-Settlement/src/aggregate"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/pipeline"
)

type ExcelReporter struct{}

func NewExcelReporter() *ExcelReporter {
	return &ExcelReporter{}
}

// Export writes the full run report to path, creating parent directories
// as needed.
func (r *ExcelReporter) Export(res *pipeline.Result, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSummaries(f, "Revenue", res.RevenueByPlatform.Revenue); err != nil {
		return err
	}
	if err := writeSummaries(f, "Transfers", res.RevenueByPlatform.Transfers); err != nil {
		return err
	}
	if err := writeCosts(f, "Warehouse Costs", res.CostByWarehouse); err != nil {
		return err
	}
	if err := writeNet(f, "Net by Store", res.Net); err != nil {
		return err
	}
	if err := writeIssues(f, "Warnings", res.Issues); err != nil {
		return err
	}

	// excelize creates Sheet1 by default; everything lands on named sheets.
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Revenue"); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

func writeSummaries(f *excelize.File, sheet string, summaries []aggregate.MonthlySummary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Source", "Site", "Store", "Month", "Currency", "Total", "Records"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.Value(aggregate.DimSource),
			s.Value(aggregate.DimSite),
			s.Value(aggregate.DimStore),
			s.Value(aggregate.DimPeriod),
			s.Currency,
			s.Total.InexactFloat64(),
			s.RecordCount,
		}
		if err := f.SetSheetRow(sheet, cellRef(i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCosts(f *excelize.File, sheet string, summaries []aggregate.MonthlySummary) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Warehouse", "Month", "Currency", "Total", "Records", "Invoices", "Credit Notes"}
	for _, ct := range costTypeOrder {
		header = append(header, string(ct))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.Value(aggregate.DimSource),
			s.Value(aggregate.DimPeriod),
			s.Currency,
			s.Total.InexactFloat64(),
			s.RecordCount,
			s.ByDocKind[models.KindInvoice].InexactFloat64(),
			s.ByDocKind[models.KindCreditNote].InexactFloat64(),
		}
		for _, ct := range costTypeOrder {
			row = append(row, s.ByCostType[ct].InexactFloat64())
		}
		if err := f.SetSheetRow(sheet, cellRef(i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeNet(f *excelize.File, sheet string, results []aggregate.NetResult) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Store", "Month", "Revenue", "Cost", "Net", "Net Currency"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, n := range results {
		row := []interface{}{
			n.StoreID,
			n.BillingPeriod,
			moneyList(n.Revenue),
			moneyList(n.Cost),
		}
		if n.Net != nil {
			row = append(row, n.Net.Amount.InexactFloat64(), n.Net.Currency)
		} else {
			row = append(row, "", "")
		}
		if err := f.SetSheetRow(sheet, cellRef(i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

func writeIssues(f *excelize.File, sheet string, issues []models.Issue) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	header := []interface{}{"Kind", "Document", "Detail"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, iss := range issues {
		row := []interface{}{string(iss.Kind), iss.Document, iss.Detail}
		if err := f.SetSheetRow(sheet, cellRef(i+2), &row); err != nil {
			return err
		}
	}
	return nil
}

var costTypeOrder = []models.CostType{
	models.CostShipping, models.CostStorage, models.CostInbound, models.CostOutbound,
	models.CostHandling, models.CostPackaging, models.CostReturn, models.CostManagement,
	models.CostTransport, models.CostCustoms, models.CostOther,
}

func cellRef(row int) string {
	return fmt.Sprintf("A%d", row)
}

// moneyList renders per-currency figures side by side; mixed currencies
// are never summed.
func moneyList(ms []aggregate.Money) string {
	out := ""
	for i, m := range ms {
		if i > 0 {
			out += "; "
		}
		out += m.Amount.StringFixed(2) + " " + m.Currency
	}
	return out
}
