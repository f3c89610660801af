// Package temu parses the FundDetail workbook exported by the Temu
// seller console. Each sheet holds one settlement category; the sheet
// name determines both the transaction type and the sign of the amounts
// on it.
package temu

import (
	"regexp"
	"strings"
	"time"

	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

type sheetType struct {
	typeName string
	sign     int
}

// sheetTypes maps sheet-name prefixes to a category and sign. Lookup uses
// the longest matching prefix so the generic 结算 entry never shadows the
// specific refund sheets.
var sheetTypes = map[string]sheetType{
	"结算-交易收入":  {"ORDER", 1},
	"结算-售后退款":  {"REFUND", -1},
	"结算-运费收入":  {"SHIPPING", 1},
	"结算-运费退款":  {"SHIPPING_REFUND", -1},
	"支出-履约违规":  {"FEE", -1},
	"支出-技术服务费": {"FEE", -1},
	"结算":       {"ORDER", 1},
}

var amountColumns = []string{"交易收入", "退款金额", "运费收入", "运费退款", "违规金额", "扣款金额", "结算金额"}

var storeNameRe = regexp.MustCompile(`(?i)^(.+?)\s*FundDetail`)

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.Transaction, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: string(models.PlatformTemu)}

	if doc.IsEmpty() {
		summary.AddIssue(models.IssueEmptyDocument, "no sheets extracted")
		return nil, summary
	}

	storeName := storeName(doc.Name)
	storeID := fileinfo.StoreID(storeName, "")

	var txs []models.Transaction
	for _, sheet := range doc.Sheets {
		st, ok := typeForSheet(sheet.Name)
		if !ok || len(sheet.Rows) < 2 {
			continue
		}

		index := sheet.HeaderIndex(0)
		amountCol := findAmountColumn(index)
		if amountCol < 0 {
			continue
		}
		orderCol, hasOrder := index["订单编号"]
		currencyCol, hasCurrency := index["币种"]
		timeCol, hasTime := index["账务时间"]
		if !hasTime {
			timeCol, hasTime = index["时间"]
		}

		for i := 1; i < len(sheet.Rows); i++ {
			row := sheet.Rows[i]
			summary.RowCount++

			raw := cellAt(row, amountCol)
			if raw == "" || raw == "/" {
				continue
			}
			amount, err := utils.ParseAmount(raw)
			if err != nil {
				continue
			}
			if st.sign < 0 {
				amount = amount.Neg()
			}

			currency := "USD"
			if hasCurrency {
				if c := cellAt(row, currencyCol); c != "" {
					currency = strings.ToUpper(c)
				}
			}

			tx := models.Transaction{
				StoreID:    storeID,
				StoreName:  storeName,
				Platform:   models.PlatformTemu,
				Site:       "GLOBAL",
				Currency:   currency,
				Amount:     amount,
				TypeRaw:    sheet.Name,
				SourceFile: doc.Name,
				RowNumber:  i + 1,
			}
			if hasOrder {
				tx.OrderID = cellAt(row, orderCol)
			}
			if hasTime {
				if t, ok := parseTime(cellAt(row, timeCol)); ok {
					tx.TransactionDate = t
					tx.BillingPeriod = fileinfo.MonthOf(t)
				}
			}

			summary.Total = summary.Total.Add(tx.Amount)
			txs = append(txs, tx)
		}
	}

	if len(txs) == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no settlement rows in any known sheet")
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

func typeForSheet(name string) (sheetType, bool) {
	var best sheetType
	bestLen := 0
	for prefix, st := range sheetTypes {
		if strings.Contains(name, prefix) && len(prefix) > bestLen {
			best, bestLen = st, len(prefix)
		}
	}
	return best, bestLen > 0
}

func findAmountColumn(index map[string]int) int {
	for _, name := range amountColumns {
		if i, ok := index[name]; ok {
			return i
		}
	}
	return -1
}

func storeName(filename string) string {
	if m := storeNameRe.FindStringSubmatch(filename); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.SplitN(filename, ".", 2)[0]
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
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
