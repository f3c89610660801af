// Package fileinfo holds the shared filename inference used by parsers:
// billing months, site tokens and the digit-run document numbers that
// encode dates for providers without any date column.
package fileinfo

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fzk888/CB-Settlement/src/models"
)

// MonthOf formats the calendar month a date belongs to (YYYY-MM).
func MonthOf(t time.Time) string {
	return t.Format("2006-01")
}

// SiteCurrency maps a marketplace/region code to its settlement currency.
var SiteCurrency = map[string]string{
	"UK": "GBP",
	"DE": "EUR", "FR": "EUR", "IT": "EUR", "ES": "EUR",
	"US": "USD", "CA": "CAD",
	"JP": "JPY", "AU": "AUD",
}

// CurrencyForSite returns the settlement currency for a site code, or ""
// when the site is unknown.
func CurrencyForSite(site string) string {
	return SiteCurrency[strings.ToUpper(site)]
}

var (
	siteTokenRe = regexp.MustCompile(`(?i)\d+\s*[-_ ]\s*(UK|DE|US|CA|FR|IT|ES|JP|AU)(?:[^a-zA-Z]|$)`)
	siteLooseRe = regexp.MustCompile(`(?i)(?:^|[^a-zA-Z])(UK|DE|US|CA|FR|IT|ES|JP|AU)(?:[^a-zA-Z]|$)`)
)

// SiteFromName extracts a site code from a filename. The `<number>-<SITE>`
// account token ("2-UK2025Jul...", "账号4-uk ...") wins; a standalone
// delimited site token ("AAB57--US--TEMU--...") is the fallback.
func SiteFromName(name string) string {
	if m := siteTokenRe.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := siteLooseRe.FindStringSubmatch(name); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

var (
	storeSiteRe = regexp.MustCompile(`(?i)^(.+?)[-_\s]+(UK|DE|US|CA|FR|IT|ES|JP|AU)(?:\s|_|-|\d|$)`)
	siteStoreRe = regexp.MustCompile(`(?i)^(UK|DE|US|CA|FR|IT|ES|JP|AU)[-_\s]+(.+)$`)
	unifiedRe   = regexp.MustCompile(`(?i)\d{4}(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)MonthlyUnifiedTransaction`)
)

// StoreFromName splits an export filename into store name and site code.
// Both `<store>-<SITE>...` and `<SITE> <store>...` orders occur in real
// exports; unified North-America reports carry no site token and default
// to US.
func StoreFromName(name string) (store, site string) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if m := storeSiteRe.FindStringSubmatch(base); m != nil {
		return strings.TrimSpace(m[1]), strings.ToUpper(m[2])
	}
	if m := siteStoreRe.FindStringSubmatch(base); m != nil {
		return strings.TrimSpace(m[2]), strings.ToUpper(m[1])
	}
	if unifiedRe.MatchString(base) {
		return base, "US"
	}
	return base, ""
}

// StoreID builds the canonical store identifier from a store name and an
// optional site code.
func StoreID(store, site string) string {
	id := store
	if site != "" {
		id += "_" + site
	}
	return strings.ReplaceAll(strings.ToLower(id), " ", "_")
}

// DocKind classifies a billing document by its filename suffix: no suffix
// means invoice, "_CREDIT" a credit note, "_Appendix" the line-item
// companion that must never be aggregated. Any other suffix is
// unrecognized.
func DocKind(name string) (models.DocumentKind, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	i := strings.Index(base, "_")
	if i < 0 {
		return models.KindInvoice, nil
	}
	switch strings.ToLower(base[i+1:]) {
	case "appendix":
		return models.KindAppendix, nil
	case "credit":
		return models.KindCreditNote, nil
	}
	return "", fmt.Errorf("unrecognized document suffix %q", base[i+1:])
}

var leadingDigitsRe = regexp.MustCompile(`^\d+`)

// DateFromDocNumber decodes the billing date hidden in a document-number
// filename like 702510206R.pdf: a two-digit series prefix, YYMMDD, then a
// sequence id and an optional letter. Years resolve into the 2000s. A run
// of six or seven digits is treated as a bare YYMMDD.
func DateFromDocNumber(name string) (time.Time, error) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	run := leadingDigitsRe.FindString(base)
	var enc string
	switch {
	case len(run) >= 8:
		enc = run[2:8]
	case len(run) >= 6:
		enc = run[:6]
	default:
		return time.Time{}, fmt.Errorf("no document number in %q", name)
	}

	yy, _ := strconv.Atoi(enc[0:2])
	mm, _ := strconv.Atoi(enc[2:4])
	dd, _ := strconv.Atoi(enc[4:6])
	if mm < 1 || mm > 12 {
		return time.Time{}, fmt.Errorf("document number %q: invalid month %d", run, mm)
	}
	t := time.Date(2000+yy, time.Month(mm), dd, 0, 0, 0, 0, time.UTC)
	if t.Day() != dd || int(t.Month()) != mm {
		return time.Time{}, fmt.Errorf("document number %q: invalid day %d", run, dd)
	}
	return t, nil
}

var monthAbbr = map[string]string{
	"jan": "01", "feb": "02", "mar": "03", "apr": "04",
	"may": "05", "jun": "06", "jul": "07", "aug": "08",
	"sep": "09", "oct": "10", "nov": "11", "dec": "12",
}

var monthNames = map[string]string{
	"january": "01", "february": "02", "march": "03", "april": "04",
	"may": "05", "june": "06", "july": "07", "august": "08",
	"september": "09", "october": "10", "november": "11", "december": "12",
}

var (
	monYYRe      = regexp.MustCompile(`(?i)([a-z]{3})(2[4-9])`)
	yearMonRe    = regexp.MustCompile(`(?i)(\d{4})(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`)
	cnMonthRe    = regexp.MustCompile(`(\d{4})-(\d{1,2})月`)
	dottedDateRe = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2})`)
	isoDateRe    = regexp.MustCompile(`(\d{4})-(\d{2})-\d{2}`)
	mmYYYYRe     = regexp.MustCompile(`(\d{2})[-.](\d{4})`)
	yearAfterRe  = regexp.MustCompile(`(202[4-9]|2[4-9])`)
)

// MonthFromName extracts a billing month (YYYY-MM) from the filename
// conventions seen across providers: "Jul25", "November 2025", "2025Jul",
// "2025-7月", "2025.07.01-2025.07.31", "05-2025". The year window for the
// MonYY form is restricted to 24-29 so timestamps like "Jan01" never
// match. Returns "" when nothing matches.
func MonthFromName(name string) string {
	safe := strings.ReplaceAll(name, "\u00a0", " ") // NBSP shows up in real filenames
	lower := strings.ToLower(safe)

	for _, m := range monYYRe.FindAllStringSubmatch(lower, -1) {
		if mm, ok := monthAbbr[m[1]]; ok {
			return "20" + m[2] + "-" + mm
		}
	}
	for full, mm := range monthNames {
		if i := strings.Index(lower, full); i >= 0 {
			rest := lower[i+len(full):]
			if ym := yearAfterRe.FindString(rest); ym != "" {
				if len(ym) == 2 {
					ym = "20" + ym
				}
				return ym + "-" + mm
			}
		}
	}
	if m := yearMonRe.FindStringSubmatch(lower); m != nil {
		return m[1] + "-" + monthAbbr[m[2]]
	}
	if m := cnMonthRe.FindStringSubmatch(safe); m != nil {
		mm, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d", m[1], mm)
	}
	if m := dottedDateRe.FindStringSubmatch(safe); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := isoDateRe.FindStringSubmatch(safe); m != nil {
		return m[1] + "-" + m[2]
	}
	if m := mmYYYYRe.FindStringSubmatch(safe); m != nil {
		return m[2] + "-" + m[1]
	}
	return ""
}
