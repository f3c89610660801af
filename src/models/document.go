package models

import "strings"

// Document is the already-extracted content of one source file. The
// extraction layer fills Sheets for tabular sources and Text/Fields for
// PDF sources; parsers never touch raw file bytes.
type Document struct {
	Name   string  // base filename, used for date/site/kind inference
	Tag    string  // provider tag that routes to a parser
	Sheets []Sheet // tabular content, in workbook order
	Text   string  // extracted plain text (PDF sources)

	// Labeled fields pre-extracted from PDF text, e.g. "Total Amount".
	Fields map[string]string
}

// Sheet is one worksheet (or a whole CSV) as a raw cell grid. Header
// detection is left to the parser because several sources bury the header
// under preamble rows.
type Sheet struct {
	Name string
	Rows [][]string
}

// IsEmpty reports whether the document carries no usable content at all.
func (d Document) IsEmpty() bool {
	if strings.TrimSpace(d.Text) != "" || len(d.Fields) > 0 {
		return false
	}
	for _, s := range d.Sheets {
		for _, row := range s.Rows {
			for _, cell := range row {
				if strings.TrimSpace(cell) != "" {
					return false
				}
			}
		}
	}
	return true
}

// Cell returns the trimmed cell at (row, col), or "" when out of range.
func (s Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	r := s.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// HeaderIndex maps lowercased header names to column positions for the
// given header row.
func (s Sheet) HeaderIndex(headerRow int) map[string]int {
	idx := make(map[string]int)
	if headerRow < 0 || headerRow >= len(s.Rows) {
		return idx
	}
	for col, name := range s.Rows[headerRow] {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := idx[name]; !dup {
			idx[name] = col
		}
	}
	return idx
}

// FindColumn returns the position of the first header cell containing any
// of the given substrings (case-insensitive), or -1.
func FindColumn(index map[string]int, substrings ...string) int {
	best := -1
	for _, want := range substrings {
		want = strings.ToLower(want)
		for name, col := range index {
			if strings.Contains(name, want) && (best == -1 || col < best) {
				best = col
			}
		}
		if best != -1 {
			return best
		}
	}
	return best
}
