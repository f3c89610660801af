// Package marketplacex parses the income/expense ledger (收支流水) exported
// by the marketplace-X seller console. Amounts carry a CN￥ prefix and
// settle in CNY; withdrawal rows are kept but flagged as transfers.
package marketplacex

import (
	"regexp"
	"strings"
	"time"

	"github.com/fzk888/CB-Settlement/src/classify"
	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

var storeNameRe = regexp.MustCompile(`^(.+?)\s*收支流水`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.Transaction, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: string(models.PlatformMarketplaceX)}

	if doc.IsEmpty() || len(doc.Sheets) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no rows extracted")
		return nil, summary
	}
	sheet := doc.Sheets[0]
	if len(sheet.Rows) < 2 {
		summary.AddIssue(models.IssueEmptyDocument, "no ledger rows below header")
		return nil, summary
	}

	storeName := storeNameOf(doc.Name)
	storeID := fileinfo.StoreID(storeName, "")

	index := sheet.HeaderIndex(0)
	amountCol := models.FindColumn(index, "变动金额")
	if amountCol < 0 {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "amount column missing")
		return nil, summary
	}
	incomeTypeCol := models.FindColumn(index, "收支类型")
	feeCol := models.FindColumn(index, "费用项")
	timeCol := models.FindColumn(index, "结算时间")
	orderCol := models.FindColumn(index, "订单号")
	currencyCol := models.FindColumn(index, "币种")

	var txs []models.Transaction
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

		incomeType := sheet.Cell(i, incomeTypeCol)
		feeItem := sheet.Cell(i, feeCol)
		typeRaw := feeItem
		if typeRaw == "" {
			typeRaw = incomeType
		}

		currency := "CNY"
		if c := sheet.Cell(i, currencyCol); c != "" {
			currency = strings.ToUpper(c)
		}

		tx := models.Transaction{
			StoreID:    storeID,
			StoreName:  storeName,
			Platform:   models.PlatformMarketplaceX,
			Site:       "GLOBAL",
			Currency:   currency,
			Amount:     amount,
			TypeRaw:    typeRaw,
			OrderID:    sheet.Cell(i, orderCol),
			IsTransfer: classify.IsTransfer(incomeType) || classify.IsTransfer(feeItem),
			SourceFile: doc.Name,
			RowNumber:  i + 1,
		}
		if t, ok := parseTime(sheet.Cell(i, timeCol)); ok {
			tx.TransactionDate = t
			tx.BillingPeriod = fileinfo.MonthOf(t)
		}

		if tx.IsTransfer {
			summary.TransferTotal = summary.TransferTotal.Add(tx.Amount)
		} else {
			summary.Total = summary.Total.Add(tx.Amount)
		}
		txs = append(txs, tx)
	}

	if len(txs) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no ledger rows below header")
		return nil, summary
	}

	summary.StoreID = storeID
	summary.Currency = txs[0].Currency
	summary.RecordCount = len(txs)
	for _, tx := range txs {
		if tx.BillingPeriod != "" {
			summary.BillingPeriod = tx.BillingPeriod
			break
		}
	}
	return txs, summary
}

func storeNameOf(filename string) string {
	if m := storeNameRe.FindStringSubmatch(filename); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s
		}
	}
	return "marketplace-x"
}

func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, f := range []string{"2006-01-02 15:04:05", "2006-01-02", "2006/01/02 15:04:05"} {
		if t, err := time.Parse(f, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
