package fileinfo

import (
	"testing"
	"time"

	"github.com/fzk888/CB-Settlement/src/models"
)

func TestDateFromDocNumber(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"702510206R.pdf", "2025-10-20", false},
		{"702510206R_CREDIT.pdf", "2025-10-20", false},
		{"702513206R.pdf", "", true},  // month 13
		{"702502306R.pdf", "", true},  // Feb 30
		{"250731.pdf", "2025-07-31", false},
		{"invoice.pdf", "", true}, // no digit run
	}
	for _, tc := range tests {
		got, err := DateFromDocNumber(tc.name)
		if tc.wantErr {
			if err == nil {
				t.Errorf("DateFromDocNumber(%q): expected error, got %v", tc.name, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("DateFromDocNumber(%q): unexpected error: %v", tc.name, err)
			continue
		}
		if got.Format("2006-01-02") != tc.want {
			t.Errorf("DateFromDocNumber(%q) = %s, want %s", tc.name, got.Format("2006-01-02"), tc.want)
		}
	}
}

func TestDocKind(t *testing.T) {
	tests := []struct {
		name    string
		want    models.DocumentKind
		wantErr bool
	}{
		{"702510206R.pdf", models.KindInvoice, false},
		{"702510206R_CREDIT.pdf", models.KindCreditNote, false},
		{"702510206R_Appendix.pdf", models.KindAppendix, false},
		{"702510206R_DRAFT.pdf", "", true},
	}
	for _, tc := range tests {
		got, err := DocKind(tc.name)
		if tc.wantErr != (err != nil) {
			t.Errorf("DocKind(%q): err = %v, wantErr %v", tc.name, err, tc.wantErr)
			continue
		}
		if err == nil && got != tc.want {
			t.Errorf("DocKind(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestMonthFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"TSP Invoice Jul25.xlsx", "2025-07"},
		{"Invoice November 2025 final.xlsx", "2025-11"},
		{"4-DE2025JulMonthlyTransaction.csv", "2025-07"},
		{"2025-7月_CostBillExport1599.xlsx", "2025-07"},
		{"AAB57--US--TEMU--bill--2025.07.01-2025.07.31--v1.xlsx", "2025-07"},
		{"KH922_2025-10-01_2025-10-15.xlsx", "2025-10"},
		{"costs 05-2025 HUP.xlsx", "2025-05"},
		{"no month here.xlsx", ""},
	}
	for _, tc := range tests {
		if got := MonthFromName(tc.name); got != tc.want {
			t.Errorf("MonthFromName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSiteFromName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"2-UK2025JulMonthlyTransaction.csv", "UK"},
		{"账号4-uk 2025AprMonthlyTransaction.csv", "UK"},
		{"AAB57--US--TEMU--bill.xlsx", "US"},
		{"FundDetail-1754358591792.xlsx", ""},
	}
	for _, tc := range tests {
		if got := SiteFromName(tc.name); got != tc.want {
			t.Errorf("SiteFromName(%q) = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestStoreFromName(t *testing.T) {
	tests := []struct {
		name      string
		wantStore string
		wantSite  string
	}{
		{"智能万物店铺10_UK 2025NovMonthlyTransaction.csv", "智能万物店铺10", "UK"},
		{"UK 2025AprMonthlyTransaction.csv", "2025AprMonthlyTransaction", "UK"},
		{"2025AprMonthlyUnifiedTransaction.csv", "2025AprMonthlyUnifiedTransaction", "US"},
	}
	for _, tc := range tests {
		store, site := StoreFromName(tc.name)
		if store != tc.wantStore || site != tc.wantSite {
			t.Errorf("StoreFromName(%q) = (%q, %q), want (%q, %q)",
				tc.name, store, site, tc.wantStore, tc.wantSite)
		}
	}
}

func TestCurrencyForSite(t *testing.T) {
	if got := CurrencyForSite("uk"); got != "GBP" {
		t.Errorf("CurrencyForSite(uk) = %q, want GBP", got)
	}
	if got := CurrencyForSite("XX"); got != "" {
		t.Errorf("CurrencyForSite(XX) = %q, want empty", got)
	}
}

func TestMonthOf(t *testing.T) {
	d := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)
	if got := MonthOf(d); got != "2025-10" {
		t.Errorf("MonthOf = %q, want 2025-10", got)
	}
}
