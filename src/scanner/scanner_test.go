package scanner

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fzk888/CB-Settlement/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func tagsByBase(files []SourceFile) map[string]string {
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[filepath.Base(f.Path)] = f.Tag
	}
	return out
}

func TestScanPlatformsRouting(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "ShopA FundDetail.xlsx"))
	touch(t, filepath.Join(root, "BrandShop已完成账单UK.xlsx"))
	touch(t, filepath.Join(root, "小店收支明细.xlsx"))
	touch(t, filepath.Join(root, "AX收支流水.xlsx"))
	touch(t, filepath.Join(root, "sub", "2025JulMonthlyTransaction.csv"))
	touch(t, filepath.Join(root, "MonthlyTransaction.xlsx")) // amazon only ships CSV
	touch(t, filepath.Join(root, "notes.txt"))
	touch(t, filepath.Join(root, "~$ShopA FundDetail.xlsx"))

	files, err := ScanPlatforms(root)
	if err != nil {
		t.Fatal(err)
	}
	got := tagsByBase(files)
	want := map[string]string{
		"ShopA FundDetail.xlsx":           "temu",
		"BrandShop已完成账单UK.xlsx":           "shein",
		"小店收支明细.xlsx":                     "managed_store",
		"AX收支流水.xlsx":                     "marketplace_x",
		"2025JulMonthlyTransaction.csv":   "amazon",
	}
	if len(got) != len(want) {
		t.Fatalf("routed files = %v, want %v", got, want)
	}
	for base, tag := range want {
		if got[base] != tag {
			t.Errorf("%s routed to %q, want %q", base, got[base], tag)
		}
	}
}

func TestScanWarehousesRouting(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "tsp", "TSP Bill Jul25.xlsx"))
	touch(t, filepath.Join(root, "海洋", "Haiyang账单 2025-7月.xlsx"))
	touch(t, filepath.Join(root, "g7", "702510206R.pdf"))
	touch(t, filepath.Join(root, "g7", "rates.xlsx")) // g7 only ships PDF
	touch(t, filepath.Join(root, "xiyou", "bill.pdf"))
	touch(t, filepath.Join(root, "unknown", "bill.xlsx"))

	files, err := ScanWarehouses(root)
	if err != nil {
		t.Fatal(err)
	}
	got := tagsByBase(files)
	want := map[string]string{
		"TSP Bill Jul25.xlsx":    "tsp",
		"Haiyang账单 2025-7月.xlsx": "haiyang",
		"702510206R.pdf":         "g7",
	}
	if len(got) != len(want) {
		t.Fatalf("routed files = %v, want %v", got, want)
	}
	for base, tag := range want {
		if got[base] != tag {
			t.Errorf("%s routed to %q, want %q", base, got[base], tag)
		}
	}
}

func TestDedupeKeepsNewestCopy(t *testing.T) {
	root := t.TempDir()
	orig := filepath.Join(root, "ShopA FundDetail.xlsx")
	copy1 := filepath.Join(root, "ShopA FundDetail (1).xlsx")
	touch(t, orig)
	touch(t, copy1)

	old := time.Now().Add(-time.Hour)
	if err := os.Chtimes(orig, old, old); err != nil {
		t.Fatal(err)
	}

	files, err := ScanPlatforms(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 file after dedupe, got %d", len(files))
	}
	if filepath.Base(files[0].Path) != "ShopA FundDetail (1).xlsx" {
		t.Errorf("kept %s, want the newer copy", files[0].Path)
	}
}

// Parenthesized numbers above 9 are business sequence ids, not download
// copies, and must survive.
func TestDedupeLeavesSequenceIdsAlone(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "ShopA FundDetail (12).xlsx"))
	touch(t, filepath.Join(root, "ShopA FundDetail.xlsx"))

	files, err := ScanPlatforms(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
}
