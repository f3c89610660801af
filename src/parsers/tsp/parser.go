// Package tsp parses the TSP fulfillment bill workbook (UK warehouse,
// GBP). Every sheet is one fee category; the sheet name doubles as the
// fee description. The Invoice Items sheet carries per-item sub-columns,
// so only its Total Cost column may be summed.
package tsp

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/classify"
	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

const (
	warehouseName = "TSP"
	region        = "UK"
	currency      = "GBP"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.WarehouseCost, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: warehouseName, Currency: currency}

	if doc.IsEmpty() {
		summary.AddIssue(models.IssueEmptyDocument, "no sheets extracted")
		return nil, summary
	}

	period := fileinfo.MonthFromName(doc.Name)
	if period == "" {
		summary.AddIssue(models.IssueUnparseableFilename, "no billing month in filename")
		return nil, summary
	}
	summary.BillingPeriod = period

	var costs []models.WarehouseCost
	for _, sheet := range doc.Sheets {
		if len(sheet.Rows) < 2 {
			continue
		}
		index := sheet.HeaderIndex(0)
		costCol := costColumn(sheet.Name, index)
		if costCol < 0 {
			continue
		}
		skuCol := models.FindColumn(index, "sku")
		orderCol := models.FindColumn(index, "order")
		trackingCol := models.FindColumn(index, "tracking")

		var sheetSum decimal.Decimal
		stated := decimal.Zero
		hasStated := false

		for i := 1; i < len(sheet.Rows); i++ {
			raw := sheet.Cell(i, costCol)
			if raw == "" {
				continue
			}
			amount, err := utils.ParseAmount(raw)
			if err != nil {
				continue
			}

			// A trailing grand-total row restates the sheet sum; keep it
			// for reconciliation instead of counting it twice.
			if strings.Contains(strings.ToLower(sheet.Cell(i, 0)), "total") {
				stated = amount
				hasStated = true
				continue
			}
			summary.RowCount++
			sheetSum = sheetSum.Add(amount)

			costs = append(costs, models.WarehouseCost{
				WarehouseName:   warehouseName,
				WarehouseRegion: region,
				SKU:             sheet.Cell(i, skuCol),
				OrderID:         sheet.Cell(i, orderCol),
				TrackingNumber:  sheet.Cell(i, trackingCol),
				CostAmount:      amount,
				Currency:        currency,
				CostType:        classify.CostTypeOf(sheet.Name),
				CostTypeRaw:     sheet.Name,
				DocumentKind:    models.KindInvoice,
				BillingPeriod:   period,
				SourceFile:      doc.Name,
				RowNumber:       i + 1,
			})
		}

		if hasStated && sheetSum.Sub(stated).Abs().GreaterThan(models.ReconcileEpsilon) {
			summary.AddIssue(models.IssueTotalMismatch,
				"sheet "+sheet.Name+": items "+sheetSum.String()+" vs stated "+stated.String())
		}
		summary.Total = summary.Total.Add(sheetSum)
	}

	if len(costs) == 0 && len(summary.Issues) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no costed rows in "+strconv.Itoa(len(doc.Sheets))+" sheets")
	}
	summary.RecordCount = len(costs)
	if summary.Excluded() {
		return nil, summary
	}
	return costs, summary
}

// costColumn picks the billable column for a sheet. Invoice Items carries
// per-item sub-columns plus a Total Cost column; summing anything other
// than Total Cost there double counts.
func costColumn(sheetName string, index map[string]int) int {
	lower := strings.ToLower(sheetName)
	if strings.Contains(lower, "invoice items") && !strings.Contains(lower, "additional") {
		return models.FindColumn(index, "total cost")
	}
	if i, ok := index["cost"]; ok {
		return i
	}
	for name, i := range index {
		if strings.Contains(name, "total") && strings.Contains(name, "cost") {
			return i
		}
	}
	return -1
}
