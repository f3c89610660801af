// Package managedstore parses the income/expense detail workbook
// (收支明细) exported for fully-managed stores. Amounts settle in CNY.
package managedstore

import (
	"regexp"
	"strings"
	"time"

	"github.com/fzk888/CB-Settlement/src/classify"
	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

var storeNameRe = regexp.MustCompile(`^(.+?)\s*收支明细`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.Transaction, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: string(models.PlatformManagedStore), Currency: "CNY"}

	if doc.IsEmpty() || len(doc.Sheets) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no rows extracted")
		return nil, summary
	}
	sheet := doc.Sheets[0]
	if len(sheet.Rows) < 2 {
		summary.AddIssue(models.IssueEmptyDocument, "no detail rows below header")
		return nil, summary
	}

	storeName := storeNameOf(doc.Name)
	storeID := fileinfo.StoreID(storeName, "")

	index := sheet.HeaderIndex(0)
	feeCol := models.FindColumn(index, "费用项")
	amountCol := models.FindColumn(index, "金额(cny)", "金额")
	if feeCol < 0 || amountCol < 0 {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "fee item or amount column missing")
		return nil, summary
	}
	timeCol := models.FindColumn(index, "结算时间")
	orderCol := models.FindColumn(index, "订单号")

	var txs []models.Transaction
	for i := 1; i < len(sheet.Rows); i++ {
		summary.RowCount++

		feeItem := sheet.Cell(i, feeCol)
		if feeItem == "" {
			continue
		}
		raw := sheet.Cell(i, amountCol)
		if raw == "" {
			continue
		}
		amount, err := utils.ParseAmount(raw)
		if err != nil {
			continue
		}

		tx := models.Transaction{
			StoreID:    storeID,
			StoreName:  storeName,
			Platform:   models.PlatformManagedStore,
			Site:       "GLOBAL",
			Currency:   "CNY",
			Amount:     amount,
			TypeRaw:    feeItem,
			OrderID:    sheet.Cell(i, orderCol),
			IsTransfer: classify.IsTransfer(feeItem),
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
		summary.AddIssue(models.IssueEmptyDocument, "no detail rows below header")
		return nil, summary
	}

	summary.StoreID = storeID
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
		return strings.TrimSpace(m[1])
	}
	return strings.SplitN(filename, ".", 2)[0]
}

func parseTime(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, f := range []string{"2006/01/02 15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(f, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
