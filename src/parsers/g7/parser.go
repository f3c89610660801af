// Package g7 parses G7 freight invoices, which arrive as scanned PDFs
// with no extractable line items. Each document yields at most one
// document-level cost record taken from its stated Total Amount.
//
// The filename is the only structured metadata: the leading digit run
// encodes the billing date, and the suffix names the document kind. An
// Appendix is the line-item companion of an invoice already counted, so
// it yields no records at all.
package g7

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

const (
	warehouseName = "G7"
	region        = "US"
)

var totalAmountRe = regexp.MustCompile(`(?i)total\s+amount\s*[:：]?\s*([A-Z]{3})?\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.WarehouseCost, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: warehouseName}

	kind, err := fileinfo.DocKind(doc.Name)
	if err != nil {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, err.Error())
		return nil, summary
	}
	if kind == models.KindAppendix {
		// The sibling invoice already carries this total.
		return nil, summary
	}

	date, err := fileinfo.DateFromDocNumber(doc.Name)
	if err != nil {
		summary.AddIssue(models.IssueUnparseableFilename, err.Error())
		return nil, summary
	}
	summary.BillingPeriod = fileinfo.MonthOf(date)

	if doc.IsEmpty() {
		summary.AddIssue(models.IssueEmptyDocument, "no text extracted")
		return nil, summary
	}

	currency, printed, found := statedTotal(doc)
	if !found {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "no Total Amount line")
		return nil, summary
	}
	if currency == "" {
		summary.AddIssue(models.IssueMissingCurrency, "Total Amount line names no currency")
		return nil, summary
	}

	amount := models.NormalizeSign(printed, kind)

	cost := models.WarehouseCost{
		WarehouseName:   warehouseName,
		WarehouseRegion: region,
		CostAmount:      amount,
		Currency:        currency,
		CostType:        models.CostTransport,
		CostTypeRaw:     "Total Amount",
		DocumentKind:    kind,
		CostDate:        date,
		BillingPeriod:   summary.BillingPeriod,
		SourceFile:      doc.Name,
		RowNumber:       1,
	}

	summary.Currency = currency
	summary.Total = amount
	summary.RowCount = 1
	summary.RecordCount = 1
	return []models.WarehouseCost{cost}, summary
}

// statedTotal reads the invoice total, preferring a pre-extracted labeled
// field over scanning the raw text.
func statedTotal(doc models.Document) (currency string, amount decimal.Decimal, found bool) {
	if v, ok := doc.Fields["Total Amount"]; ok {
		if m := fieldRe.FindStringSubmatch(strings.TrimSpace(v)); m != nil {
			if a, err := utils.ParseAmount(m[2]); err == nil {
				return strings.ToUpper(m[1]), a, true
			}
		}
	}
	for _, line := range strings.Split(doc.Text, "\n") {
		m := totalAmountRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		a, err := utils.ParseAmount(m[2])
		if err != nil {
			continue
		}
		return strings.ToUpper(m[1]), a, true
	}
	return "", decimal.Zero, false
}

var fieldRe = regexp.MustCompile(`(?i)^([A-Z]{3})?\s*([0-9][0-9,]*(?:\.[0-9]+)?)$`)
