// Package scanner discovers billing documents on disk and routes each
// file to a parser tag by the provider's naming conventions. Routing
// lives here so the parse pipeline only ever sees (path, tag) pairs.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/fzk888/CB-Settlement/src/logger"
)

// SourceFile is one discovered document with the parser tag it routes to.
type SourceFile struct {
	Path string
	Tag  string
}

// platformPatterns route platform exports by filename token. Order
// matters only for readability; the tokens never overlap in practice.
var platformPatterns = []struct {
	token string
	tag   string
}{
	{"funddetail", "temu"},
	{"已完成账单", "shein"},
	{"收支明细", "managed_store"},
	{"收支流水", "marketplace_x"},
	{"transaction", "amazon"}, // 2025JulMonthlyTransaction.csv and variants
}

// warehouseDirs route warehouse bills by the provider subdirectory the
// data drop uses. Chinese directory names survive from the original
// exports.
var warehouseDirs = map[string]string{
	"tsp":     "tsp",
	"haiyang": "haiyang",
	"海洋":      "haiyang",
	"xiyou":   "xiyou",
	"西邮":      "xiyou",
	"g7":      "g7",
}

// ScanPlatforms walks the platform data root and routes every recognized
// export. Unrecognized files are logged and skipped.
func ScanPlatforms(root string) ([]SourceFile, error) {
	var found []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := d.Name()
		if skipFile(name) {
			return nil
		}
		tag := platformTag(name)
		if tag == "" {
			logger.L.Debug("unrecognized platform file skipped", "file", name)
			return nil
		}
		found = append(found, SourceFile{Path: path, Tag: tag})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupe(found), nil
}

// ScanWarehouses walks the warehouse data root; the provider is the
// first-level subdirectory the file sits under.
func ScanWarehouses(root string) ([]SourceFile, error) {
	var found []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		name := d.Name()
		if skipFile(name) {
			return nil
		}
		tag := warehouseTag(root, path)
		if tag == "" {
			logger.L.Debug("file outside known warehouse directories skipped", "file", name)
			return nil
		}
		ext := strings.ToLower(filepath.Ext(name))
		if tag == "g7" {
			if ext != ".pdf" {
				return nil
			}
		} else if ext != ".xlsx" && ext != ".xls" {
			return nil
		}
		found = append(found, SourceFile{Path: path, Tag: tag})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupe(found), nil
}

func platformTag(name string) string {
	lower := strings.ToLower(name)
	ext := filepath.Ext(lower)
	if ext != ".xlsx" && ext != ".xls" && ext != ".csv" {
		return ""
	}
	for _, p := range platformPatterns {
		if strings.Contains(lower, p.token) {
			if p.tag == "amazon" && ext != ".csv" {
				continue
			}
			return p.tag
		}
	}
	return ""
}

func warehouseTag(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return ""
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if tag, ok := warehouseDirs[strings.ToLower(part)]; ok {
			return tag
		}
	}
	return ""
}

func skipFile(name string) bool {
	return strings.HasPrefix(name, "~$") || strings.HasPrefix(name, ".")
}

var copySuffixRe = regexp.MustCompile(`\s*\((\d+)\)$`)

// dedupe collapses re-downloaded copies of the same file. Browsers append
// " (1)".." (9)" to the stem; higher numbers tend to be business sequence
// ids, not copies, and are left alone. The newest copy wins.
func dedupe(files []SourceFile) []SourceFile {
	type candidate struct {
		file  SourceFile
		mtime int64
	}
	best := make(map[string]candidate)
	var order []string

	for _, f := range files {
		dir := filepath.Dir(f.Path)
		base := filepath.Base(f.Path)
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)

		if m := copySuffixRe.FindStringSubmatch(stem); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n >= 1 && n <= 9 {
				stem = copySuffixRe.ReplaceAllString(stem, "")
			}
		}
		key := strings.ToLower(filepath.Join(dir, stem+ext))

		var mtime int64
		if info, err := os.Stat(f.Path); err == nil {
			mtime = info.ModTime().UnixNano()
		}

		if cur, ok := best[key]; !ok {
			best[key] = candidate{file: f, mtime: mtime}
			order = append(order, key)
		} else if mtime >= cur.mtime {
			best[key] = candidate{file: f, mtime: mtime}
		}
	}

	out := make([]SourceFile, 0, len(best))
	for _, key := range order {
		out = append(out, best[key].file)
	}
	return out
}
