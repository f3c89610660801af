// Package shein parses the completed-bill workbook (已完成账单, supply-price
// granularity) exported by the SHEIN seller console. The first row is a
// summary banner; the real header sits on the second row.
package shein

import (
	"regexp"
	"strings"
	"time"

	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

var (
	storeNameRe = regexp.MustCompile(`^(.+?)\s*已完成账单`)
	siteRe      = regexp.MustCompile(`(?i)(UK|DE|FR|IT|ES|US)`)
)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.Transaction, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: string(models.PlatformShein)}

	if doc.IsEmpty() || len(doc.Sheets) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no rows extracted")
		return nil, summary
	}
	sheet := doc.Sheets[0]
	if len(sheet.Rows) < 3 {
		summary.AddIssue(models.IssueEmptyDocument, "no bill rows below header")
		return nil, summary
	}

	storeName, site := storeInfo(doc.Name)
	currency := fileinfo.CurrencyForSite(site)
	if currency == "" {
		summary.AddIssue(models.IssueMissingCurrency, "site "+site+" has no known settlement currency")
		return nil, summary
	}
	storeID := fileinfo.StoreID(storeName, site)

	const headerRow = 1
	index := sheet.HeaderIndex(headerRow)
	amountCol := models.FindColumn(index, "应收金额")
	if amountCol < 0 {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "receivable amount column missing")
		return nil, summary
	}
	orderCol := models.FindColumn(index, "订单号", "order")
	dateCol := models.FindColumn(index, "打款日期", "签收")
	typeCol := models.FindColumn(index, "账单类型")
	siteCol := models.FindColumn(index, "站点")

	var txs []models.Transaction
	for i := headerRow + 1; i < len(sheet.Rows); i++ {
		summary.RowCount++

		raw := sheet.Cell(i, amountCol)
		if raw == "" {
			continue
		}
		amount, err := utils.ParseAmount(raw)
		if err != nil {
			continue
		}

		rowSite := site
		if s := sheet.Cell(i, siteCol); s != "" {
			rowSite = strings.ToUpper(s)
		}

		tx := models.Transaction{
			StoreID:    storeID,
			StoreName:  storeName,
			Platform:   models.PlatformShein,
			Site:       rowSite,
			Currency:   currency,
			Amount:     amount,
			TypeRaw:    sheet.Cell(i, typeCol),
			OrderID:    sheet.Cell(i, orderCol),
			SourceFile: doc.Name,
			RowNumber:  i + 1,
		}
		if t, ok := parseTime(sheet.Cell(i, dateCol)); ok {
			tx.TransactionDate = t
			tx.BillingPeriod = fileinfo.MonthOf(t)
		}

		summary.Total = summary.Total.Add(tx.Amount)
		txs = append(txs, tx)
	}

	if len(txs) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no bill rows below header")
		return nil, summary
	}

	summary.StoreID = storeID
	summary.Site = site
	summary.Currency = currency
	summary.RecordCount = len(txs)
	for _, tx := range txs {
		if tx.BillingPeriod != "" {
			summary.BillingPeriod = tx.BillingPeriod
			break
		}
	}
	return txs, summary
}

func storeInfo(filename string) (store, site string) {
	if m := siteRe.FindStringSubmatch(filename); m != nil {
		site = strings.ToUpper(m[1])
	}
	if m := storeNameRe.FindStringSubmatch(filename); m != nil {
		store = strings.TrimSpace(m[1])
	} else {
		store = strings.SplitN(filename, ".", 2)[0]
	}
	return store, site
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
