// Package haiyang parses the Haiyang warehouse bill export (UK, GBP).
// Only the CostBill sheet is billable; CostBill2 and other sheets repeat
// the same charges at different granularity. Bills can span several
// calendar months, so each row is attributed by its own billing time.
package haiyang

import (
	"strings"
	"time"

	"github.com/fzk888/CB-Settlement/src/classify"
	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

const (
	warehouseName = "Haiyang"
	region        = "UK"
	currency      = "GBP"
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.WarehouseCost, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: warehouseName, Currency: currency}

	if doc.IsEmpty() || len(doc.Sheets) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no sheets extracted")
		return nil, summary
	}
	sheet := costBillSheet(doc.Sheets)
	if len(sheet.Rows) < 2 {
		summary.AddIssue(models.IssueEmptyDocument, "cost bill sheet has no rows")
		return nil, summary
	}

	filePeriod := fileinfo.MonthFromName(doc.Name)

	index := sheet.HeaderIndex(0)
	// 计费规则金额 is the billed figure; 结算金额 and bare 金额 are fallbacks
	// for older export layouts.
	amountCol := models.FindColumn(index, "计费规则金额", "计费金额", "结算金额", "金额")
	if amountCol < 0 {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "no amount column in cost bill sheet")
		return nil, summary
	}
	timeCol := models.FindColumn(index, "计费时间", "计费日期")
	feeCol := models.FindColumn(index, "费用类型", "费用名称", "计费规则")
	orderCol := models.FindColumn(index, "订单号", "单号")
	skuCol := models.FindColumn(index, "sku")

	var costs []models.WarehouseCost
	for i := 1; i < len(sheet.Rows); i++ {
		summary.RowCount++

		raw := sheet.Cell(i, amountCol)
		if raw == "" {
			continue
		}
		amount, err := utils.ParseAmount(raw)
		if err != nil {
			continue
		}

		feeRaw := sheet.Cell(i, feeCol)
		c := models.WarehouseCost{
			WarehouseName:   warehouseName,
			WarehouseRegion: region,
			OrderID:         sheet.Cell(i, orderCol),
			SKU:             sheet.Cell(i, skuCol),
			CostAmount:      amount,
			Currency:        currency,
			CostType:        classify.CostTypeOf(feeRaw),
			CostTypeRaw:     feeRaw,
			DocumentKind:    models.KindInvoice,
			BillingPeriod:   filePeriod,
			SourceFile:      doc.Name,
			RowNumber:       i + 1,
		}
		if t, ok := parseTime(sheet.Cell(i, timeCol)); ok {
			c.CostDate = t
			c.BillingPeriod = fileinfo.MonthOf(t)
		}
		if c.BillingPeriod == "" {
			summary.AddIssue(models.IssueUnparseableFilename,
				"no billing month from filename or billing-time column")
			return nil, summary
		}

		summary.Total = summary.Total.Add(amount)
		costs = append(costs, c)
	}

	if len(costs) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no billable rows in cost bill sheet")
		return nil, summary
	}

	summary.BillingPeriod = costs[0].BillingPeriod
	summary.RecordCount = len(costs)
	return costs, summary
}

func costBillSheet(sheets []models.Sheet) models.Sheet {
	for _, s := range sheets {
		if strings.EqualFold(strings.TrimSpace(s.Name), "costbill") {
			return s
		}
	}
	return sheets[0]
}

func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, f := range []string{"2006-01-02 15:04:05", "2006-01-02", "2006/01/02 15:04:05", "2006/01/02"} {
		if t, err := time.Parse(f, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
