package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ColumnSummary résume une colonne numérique (count/mean/min/max).
type ColumnSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// TablePreview est l'aperçu d'une table de base destiné à la couche de
// présentation : premières lignes, compteurs de nulls et de doublons,
// statistiques descriptives des colonnes numériques.
type TablePreview struct {
	Table         string                   `json:"table"`
	Columns       []string                 `json:"columns"`
	RowCount      int                      `json:"row_count"`
	Head          [][]any                  `json:"head"`
	NullCounts    map[string]int           `json:"null_counts"`
	DuplicateRows int                      `json:"duplicate_rows"`
	Numeric       map[string]ColumnSummary `json:"numeric_summary"`
}

// Preview calcule l'aperçu d'une table. Ne peut pas échouer : une table
// vide produit un aperçu vide, jamais une erreur.
func Preview(t *Table, headRows int) *TablePreview {
	preview := &TablePreview{
		Table:      t.name,
		Columns:    t.Columns(),
		RowCount:   t.RowCount(),
		Head:       make([][]any, 0, headRows),
		NullCounts: make(map[string]int, len(t.columns)),
		Numeric:    make(map[string]ColumnSummary),
	}

	head := t.Head(headRows)
	for _, row := range head.rows {
		preview.Head = append(preview.Head, row)
	}

	for _, col := range t.columns {
		preview.NullCounts[col] = 0
	}
	seen := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		for i, val := range row {
			if val == nil {
				preview.NullCounts[t.columns[i]]++
			}
		}
		sig := rowSignature(row)
		seen[sig]++
		if seen[sig] > 1 {
			preview.DuplicateRows++
		}
	}

	for i, col := range t.columns {
		if summary, ok := summarizeColumn(t, i); ok {
			preview.Numeric[col] = summary
		}
	}
	return preview
}

// summarizeColumn produit les statistiques d'une colonne si toutes ses
// valeurs non nulles sont numériques.
func summarizeColumn(t *Table, col int) (ColumnSummary, bool) {
	var sum, min, max float64
	count := 0

	for _, row := range t.rows {
		val := row[col]
		if val == nil {
			continue
		}
		f, ok := asFloat(val)
		if !ok {
			return ColumnSummary{}, false
		}
		if count == 0 || f < min {
			min = f
		}
		if count == 0 || f > max {
			max = f
		}
		sum += f
		count++
	}

	if count == 0 {
		return ColumnSummary{}, false
	}
	return ColumnSummary{
		Count: count,
		Mean:  sum / float64(count),
		Min:   min,
		Max:   max,
	}, true
}

// asFloat interprète une cellule comme nombre quand c'est possible.
func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case float64:
		return val, true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// rowSignature sérialise une ligne pour la détection de doublons exacts.
func rowSignature(row []any) string {
	var b strings.Builder
	for _, val := range row {
		switch v := val.(type) {
		case nil:
			b.WriteString("\x00")
		case time.Time:
			b.WriteString(v.Format(time.RFC3339Nano))
		default:
			fmt.Fprintf(&b, "%v", v)
		}
		b.WriteString("\x1f")
	}
	return b.String()
}
