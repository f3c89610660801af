// Package xiyou parses the Xiyou warehouse bill workbook. The filename
// carries the routing data as double-dash segments: store code, site,
// channel, bill title and the statement period
// (AAB57--US--TEMU--...--2025.07.01-2025.07.31--...).
package xiyou

import (
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/classify"
	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

const warehouseName = "Xiyou"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.WarehouseCost, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: warehouseName}

	store, site := nameSegments(doc.Name)
	if site == "" {
		site = fileinfo.SiteFromName(doc.Name)
	}
	currency := fileinfo.CurrencyForSite(site)
	if currency == "" {
		summary.AddIssue(models.IssueMissingCurrency, "no site segment resolves to a currency")
		return nil, summary
	}
	period := fileinfo.MonthFromName(doc.Name)
	if period == "" {
		summary.AddIssue(models.IssueUnparseableFilename, "no statement period in filename")
		return nil, summary
	}
	summary.Site = site
	summary.Currency = currency
	summary.BillingPeriod = period
	summary.StoreID = fileinfo.StoreID(store, site)

	if doc.IsEmpty() || len(doc.Sheets) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no sheets extracted")
		return nil, summary
	}
	sheet := doc.Sheets[0]
	if len(sheet.Rows) < 2 {
		summary.AddIssue(models.IssueEmptyDocument, "no bill rows below header")
		return nil, summary
	}

	index := sheet.HeaderIndex(0)
	amountCol := models.FindColumn(index, "费用金额", "金额")
	if amountCol < 0 {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "no amount column")
		return nil, summary
	}
	feeCol := models.FindColumn(index, "费用类型", "费用名称", "费用项")
	orderCol := models.FindColumn(index, "订单号", "单号")
	trackingCol := models.FindColumn(index, "跟踪号", "运单号")
	skuCol := models.FindColumn(index, "sku")

	var costs []models.WarehouseCost
	var itemSum decimal.Decimal
	stated := decimal.Zero
	hasStated := false

	for i := 1; i < len(sheet.Rows); i++ {
		raw := sheet.Cell(i, amountCol)
		if raw == "" {
			continue
		}
		amount, err := utils.ParseAmount(raw)
		if err != nil {
			continue
		}
		if isTotalRow(sheet.Rows[i]) {
			stated = amount
			hasStated = true
			continue
		}
		summary.RowCount++
		itemSum = itemSum.Add(amount)

		feeRaw := sheet.Cell(i, feeCol)
		costs = append(costs, models.WarehouseCost{
			WarehouseName:   warehouseName,
			WarehouseRegion: site,
			StoreID:         summary.StoreID,
			OrderID:         sheet.Cell(i, orderCol),
			TrackingNumber:  sheet.Cell(i, trackingCol),
			SKU:             sheet.Cell(i, skuCol),
			CostAmount:      amount,
			Currency:        currency,
			CostType:        classify.CostTypeOf(feeRaw),
			CostTypeRaw:     feeRaw,
			DocumentKind:    models.KindInvoice,
			BillingPeriod:   period,
			SourceFile:      doc.Name,
			RowNumber:       i + 1,
		})
	}

	if hasStated && itemSum.Sub(stated).Abs().GreaterThan(models.ReconcileEpsilon) {
		summary.AddIssue(models.IssueTotalMismatch,
			"items "+itemSum.String()+" vs stated "+stated.String())
	}
	if len(costs) == 0 && len(summary.Issues) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no bill rows below header")
	}
	summary.Total = itemSum
	summary.RecordCount = len(costs)
	if summary.Excluded() {
		return nil, summary
	}
	return costs, summary
}

func nameSegments(name string) (store, site string) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	parts := strings.Split(base, "--")
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.ToUpper(strings.TrimSpace(parts[1]))
	}
	return base, ""
}

func isTotalRow(row []string) bool {
	for _, v := range row {
		v = strings.ToLower(strings.TrimSpace(v))
		if strings.Contains(v, "合计") || v == "total" {
			return true
		}
	}
	return false
}
