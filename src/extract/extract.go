// Package extract materializes source files into in-memory documents:
// workbook sheets and CSVs as cell grids, PDFs as plain text. Parsers
// never see file bytes, only the extracted content.
package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/patrickmn/go-cache"
	"github.com/xuri/excelize/v2"

	"github.com/fzk888/CB-Settlement/src/models"
)

// Extractor reads source files into documents. Extractions are memoized
// by path and mtime, so re-running a report over the same data set does
// not re-open every workbook.
type Extractor struct {
	cache *cache.Cache
}

func NewExtractor() *Extractor {
	return &Extractor{cache: cache.New(30*time.Minute, 10*time.Minute)}
}

func (e *Extractor) Extract(path, tag string) (models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("stat %s: %w", path, err)
	}
	key := path + "|" + strconv.FormatInt(info.ModTime().UnixNano(), 10)
	if cached, ok := e.cache.Get(key); ok {
		return cached.(models.Document), nil
	}

	doc := models.Document{Name: filepath.Base(path), Tag: tag}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
		doc.Sheets, err = extractWorkbook(path)
	case ".csv":
		doc.Sheets, err = extractCSV(path)
	case ".pdf":
		doc.Text, err = extractPDF(path)
	default:
		return models.Document{}, fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return models.Document{}, fmt.Errorf("extract %s: %w", path, err)
	}

	e.cache.Set(key, doc, cache.DefaultExpiration)
	return doc, nil
}

func extractWorkbook(path string) ([]models.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []models.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", name, err)
		}
		sheets = append(sheets, models.Sheet{Name: name, Rows: rows})
	}
	return sheets, nil
}

func extractCSV(path string) ([]models.Sheet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	return []models.Sheet{{Name: filepath.Base(path), Rows: rows}}, nil
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	return buf.String(), nil
}
