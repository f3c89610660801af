// Package amazon parses the monthly settlement CSV exported by Amazon
// seller central. The export localizes its column headers, so the parser
// first detects the report language, then resolves columns through a
// per-language mapping table.
package amazon

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fzk888/CB-Settlement/src/classify"
	"github.com/fzk888/CB-Settlement/src/fileinfo"
	"github.com/fzk888/CB-Settlement/src/models"
	"github.com/fzk888/CB-Settlement/src/utils"
)

type lang string

const (
	langEN lang = "en"
	langDE lang = "de"
	langFR lang = "fr"
	langJP lang = "jp"
)

// langMarkers identify the header row: a row containing all markers of a
// language is the header, and fixes the language for the whole file.
var langMarkers = map[lang][]string{
	langEN: {"type", "product sales", "total"},
	langDE: {"typ", "umsätze", "gesamt"},
	langFR: {"type", "ventes de produits", "total"},
	langJP: {"トランザクションの種類", "商品の売上", "合計"},
}

type column struct{ en, de, fr, jp string }

func (c column) in(l lang) string {
	switch l {
	case langDE:
		if c.de != "" {
			return c.de
		}
	case langFR:
		if c.fr != "" {
			return c.fr
		}
	case langJP:
		if c.jp != "" {
			return c.jp
		}
	}
	return c.en
}

var headerColumns = map[string]column{
	"date_time": {"date/time", "datum/uhrzeit", "date/heure", "日付/時間"},
	"type":      {"type", "typ", "type", "トランザクションの種類"},
	"order_id":  {"order id", "bestellnummer", "numéro de la commande", "注文番号"},
	"sku":       {"sku", "sku", "sku", "sku"},

	"product sales":            {"product sales", "umsätze", "ventes de produits", "商品の売上"},
	"product sales tax":        {"product sales tax", "produktumsatzsteuer", "taxe sur les ventes de produits", "商品の売上税"},
	"postage credits":          {"postage credits", "gutschrift für versandkosten", "crédits d'expédition", "配送料"},
	"postage credits tax":      {"postage credits tax", "steuer auf versandgutschrift", "taxe sur les crédits d'expédition", "配送料金にかかる税金"},
	"gift wrap credits":        {"gift wrap credits", "gutschrift für geschenkverpackung", "crédits cadeau", "ギフト包装手数料"},
	"giftwrap credits tax":     {"giftwrap credits tax", "steuer auf geschenkverpackungsgutschriften", "taxe sur les crédits cadeau", "ギフト包装料にかかる税金"},
	"promotional rebates":      {"promotional rebates", "rabatte aus werbeaktionen", "rabais promotionnels", "プロモーション割引额"},
	"promotional rebates tax":  {"promotional rebates tax", "steuer auf aktionsrabatte", "taxe sur les rabais promotionnels", "プロモーション割引の税金"},
	"marketplace withheld tax": {"marketplace withheld tax", "einbehaltene steuer auf marketplace", "taxe retenue par le site de vente", "源泉徴収税"},
	"selling fees":             {"selling fees", "verkaufsgebühren", "frais de vente", "手数料"},
	"fba fees":                 {"fba fees", "gebühren zu versand durch amazon", "frais expédié par amazon", "fba 手数料"},
	"other transaction fees":   {"other transaction fees", "andere transaktionsgebühren", "autres frais de transaction", "トランザクションに関するその他の手数料"},
	"other":                    {"other", "andere", "divers", "その他"},

	"total": {"total", "gesamt", "total", "合計"},
}

// componentFields are the numeric columns whose sum must reproduce the
// row's total column.
var componentFields = []string{
	"product sales", "product sales tax",
	"postage credits", "postage credits tax",
	"gift wrap credits", "giftwrap credits tax",
	"promotional rebates", "promotional rebates tax",
	"marketplace withheld tax",
	"selling fees", "fba fees",
	"other transaction fees", "other",
}

// langDefaults fall back to the site/currency a language implies when
// neither filename nor body names one. UK files always carry a UK token,
// so bare English means the North-America unified report.
var langDefaults = map[lang]struct{ site, currency string }{
	langEN: {"US", "USD"},
	langDE: {"DE", "EUR"},
	langFR: {"FR", "EUR"},
	langJP: {"JP", "JPY"},
}

var bodyCurrencyRe = regexp.MustCompile(`(?i)all\s+amounts\s+in\s+(GBP|EUR|USD|CAD|JPY|AUD)\b`)

var currencySite = map[string]string{
	"GBP": "UK", "USD": "US", "EUR": "DE", "CAD": "CA", "JPY": "JP", "AUD": "AU",
}

var dateFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(doc models.Document) ([]models.Transaction, models.DocumentSummary) {
	summary := models.DocumentSummary{Document: doc.Name, Source: string(models.PlatformAmazon)}

	if doc.IsEmpty() {
		summary.AddIssue(models.IssueEmptyDocument, "no rows extracted")
		return nil, summary
	}
	sheet := doc.Sheets[0]

	headerIdx, reportLang := detectHeader(sheet)
	if headerIdx < 0 {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "no settlement header row found")
		return nil, summary
	}

	storeName, site := fileinfo.StoreFromName(doc.Name)
	currency := fileinfo.CurrencyForSite(site)
	if site == "" {
		// The preamble above the header sometimes states the currency
		// outright ("All amounts in GBP, unless specified").
		if cur := bodyCurrency(sheet, headerIdx); cur != "" {
			currency = cur
			site = currencySite[cur]
		}
	}
	if site == "" {
		def := langDefaults[reportLang]
		site, currency = def.site, def.currency
		summary.AddIssue(models.IssueMissingSite,
			"no site in filename or preamble, defaulted to "+site+" from report language")
	}
	summary.Site = site
	summary.Currency = currency
	summary.StoreID = fileinfo.StoreID(storeName, site)
	summary.BillingPeriod = fileinfo.MonthFromName(doc.Name)

	cols := resolveColumns(sheet.Rows[headerIdx], reportLang)
	totalCol, ok := cols["total"]
	if !ok {
		summary.AddIssue(models.IssueUnrecognizedDocumentType, "total column missing")
		return nil, summary
	}

	european := reportLang == langDE || reportLang == langFR

	var txs []models.Transaction
	for i := headerIdx + 1; i < len(sheet.Rows); i++ {
		row := sheet.Rows[i]
		if rowEmpty(row) {
			continue
		}
		summary.RowCount++

		total, err := utils.ParseAmountLocalized(cell(row, totalCol), european)
		if err != nil {
			continue
		}

		// Transfer rows leave every component column blank, so the check
		// only applies when at least one component is present.
		var components decimal.Decimal
		parsed := 0
		for _, f := range componentFields {
			idx, ok := cols[f]
			if !ok {
				continue
			}
			v, err := utils.ParseAmountLocalized(cell(row, idx), european)
			if err != nil {
				continue
			}
			components = components.Add(v)
			parsed++
		}
		if parsed > 0 && components.Sub(total).Abs().GreaterThan(models.ReconcileEpsilon) {
			summary.AddIssue(models.IssueTotalMismatch,
				"row "+strconv.Itoa(i+1)+": components "+components.String()+" vs total "+total.String())
			continue
		}

		typeRaw := colCell(row, cols, "type")
		tx := models.Transaction{
			StoreID:       summary.StoreID,
			StoreName:     storeName,
			Platform:      models.PlatformAmazon,
			Site:          site,
			Currency:      currency,
			Amount:        total,
			TypeRaw:       typeRaw,
			OrderID:       colCell(row, cols, "order_id"),
			SKU:           colCell(row, cols, "sku"),
			IsTransfer:    classify.IsTransfer(typeRaw),
			SourceFile:    doc.Name,
			RowNumber:     i + 1,
			BillingPeriod: summary.BillingPeriod,
		}
		if t, ok := parseDate(colCell(row, cols, "date_time")); ok {
			tx.TransactionDate = t
			if tx.BillingPeriod == "" {
				tx.BillingPeriod = fileinfo.MonthOf(t)
			}
		}

		if tx.IsTransfer {
			summary.TransferTotal = summary.TransferTotal.Add(tx.Amount)
		} else {
			summary.Total = summary.Total.Add(tx.Amount)
		}
		txs = append(txs, tx)
	}

	if summary.BillingPeriod == "" {
		for _, tx := range txs {
			if tx.BillingPeriod != "" {
				summary.BillingPeriod = tx.BillingPeriod
				break
			}
		}
	}
	if summary.RowCount == 0 {
		summary.AddIssue(models.IssueEmptyDocument, "no transaction rows below header")
		return nil, summary
	}
	summary.RecordCount = len(txs)
	if summary.Excluded() {
		return nil, summary
	}
	return txs, summary
}

// detectHeader scans the first rows for a row carrying all markers of one
// language. Exports prepend a free-form preamble of varying length, so
// the header position is not fixed.
func detectHeader(sheet models.Sheet) (int, lang) {
	limit := len(sheet.Rows)
	if limit > 50 {
		limit = 50
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(sheet.Rows[i], ","))
		for l, markers := range langMarkers {
			all := true
			for _, m := range markers {
				if !strings.Contains(joined, m) {
					all = false
					break
				}
			}
			if all {
				return i, l
			}
		}
	}
	return -1, langEN
}

func resolveColumns(header []string, l lang) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cols := make(map[string]int)
	for field, c := range headerColumns {
		if idx, ok := byName[c.in(l)]; ok {
			cols[field] = idx
		} else if idx, ok := byName[c.en]; ok {
			cols[field] = idx
		}
	}
	return cols
}

func bodyCurrency(sheet models.Sheet, headerIdx int) string {
	for i := 0; i < headerIdx; i++ {
		if m := bodyCurrencyRe.FindStringSubmatch(strings.Join(sheet.Rows[i], " ")); m != nil {
			return strings.ToUpper(m[1])
		}
	}
	return ""
}

func colCell(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok {
		return ""
	}
	return cell(row, idx)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, f := range dateFormats {
		if t, err := time.Parse(f, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
