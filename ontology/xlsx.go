package ontology

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// xlsxColumns maps header names (first row, case-insensitive) to Concept
// fields. List-valued cells use ";" as the separator.
var xlsxColumns = []string{
	"id", "name", "category", "subcategory", "definition",
	"keywords", "synonyms", "jurisdictions",
	"confidence_threshold", "legal_weight",
	"parent_concepts", "child_concepts", "related_concepts",
}

// LoadXLSX reads concept definitions from a spreadsheet. The research side
// of the project maintains the ontology in a shared workbook; the first
// sheet must carry a header row with the xlsxColumns names. Rows with an
// empty id cell are skipped.
func LoadXLSX(path string) ([]Concept, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening ontology workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("ontology workbook: no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("ontology workbook: sheet %q has no data rows", sheets[0])
	}

	// Resolve column positions from the header row.
	col := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"id", "name", "definition", "jurisdictions"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("ontology workbook: missing column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	list := func(row []string, name string) []string {
		raw := cell(row, name)
		if raw == "" {
			return nil
		}
		parts := strings.Split(raw, ";")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	var concepts []Concept
	for n, row := range rows[1:] {
		id := cell(row, "id")
		if id == "" {
			continue
		}

		threshold, err := parseFloatCell(cell(row, "confidence_threshold"), 0.70)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): confidence_threshold: %w", n+2, id, err)
		}
		weight, err := parseFloatCell(cell(row, "legal_weight"), 0.50)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): legal_weight: %w", n+2, id, err)
		}

		concepts = append(concepts, Concept{
			ID:                  id,
			Name:                cell(row, "name"),
			Category:            cell(row, "category"),
			Subcategory:         cell(row, "subcategory"),
			Definition:          cell(row, "definition"),
			Keywords:            list(row, "keywords"),
			Synonyms:            list(row, "synonyms"),
			Jurisdictions:       list(row, "jurisdictions"),
			ConfidenceThreshold: threshold,
			LegalWeight:         weight,
			ParentConcepts:      list(row, "parent_concepts"),
			ChildConcepts:       list(row, "child_concepts"),
			RelatedConcepts:     list(row, "related_concepts"),
		})
	}

	if len(concepts) == 0 {
		return nil, fmt.Errorf("ontology workbook: no concept rows")
	}
	return concepts, nil
}

func parseFloatCell(raw string, fallback float64) (float64, error) {
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", raw)
	}
	return v, nil
}
