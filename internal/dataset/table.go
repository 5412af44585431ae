package dataset

import (
	"fmt"
	"strings"
)

// Table représente une table en mémoire : colonnes nommées, lignes ordonnées.
// Les cellules sont typées dynamiquement : string, time.Time (après nettoyage),
// int/float64 (colonnes calculées) ou nil pour une valeur absente.
type Table struct {
	name    string
	columns []string
	colIdx  map[string]int
	rows    [][]any
}

// New crée une nouvelle table vide avec les colonnes données.
func New(name string, columns []string) *Table {
	idx := make(map[string]int, len(columns))
	for i, col := range columns {
		idx[col] = i
	}
	return &Table{
		name:    name,
		columns: append([]string{}, columns...),
		colIdx:  idx,
		rows:    make([][]any, 0),
	}
}

// Name retourne le nom logique de la table.
func (t *Table) Name() string {
	return t.name
}

// Columns retourne les noms de colonnes dans l'ordre du fichier source.
func (t *Table) Columns() []string {
	return append([]string{}, t.columns...)
}

// RowCount retourne le nombre de lignes.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// HasColumn vérifie la présence d'une colonne.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colIdx[name]
	return ok
}

// ColumnIndex retourne l'index d'une colonne.
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.colIdx[name]
	return i, ok
}

// Row retourne la ligne i. La slice retournée ne doit pas être modifiée.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value retourne la valeur de la colonne col sur la ligne i.
func (t *Table) Value(i int, col string) (any, bool) {
	idx, ok := t.colIdx[col]
	if !ok {
		return nil, false
	}
	return t.rows[i][idx], true
}

// AppendRow ajoute une ligne à la table.
func (t *Table) AppendRow(row []any) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("row length %d does not match columns length %d", len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Head retourne une copie des n premières lignes.
func (t *Table) Head(n int) *Table {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	result := New(t.name, t.columns)
	for _, row := range t.rows[:n] {
		result.rows = append(result.rows, append([]any{}, row...))
	}
	return result
}

// Select retourne une copie restreinte aux colonnes demandées.
// Une colonne absente produit une SchemaMismatchError nommant la table.
func (t *Table) Select(columns ...string) (*Table, error) {
	indices := make([]int, len(columns))
	for i, col := range columns {
		idx, ok := t.colIdx[col]
		if !ok {
			return nil, &SchemaMismatchError{Column: col, LeftTable: t.name}
		}
		indices[i] = idx
	}

	result := New(t.name, columns)
	for _, row := range t.rows {
		newRow := make([]any, len(columns))
		for j, idx := range indices {
			newRow[j] = row[idx]
		}
		result.rows = append(result.rows, newRow)
	}
	return result, nil
}

// Clone retourne une copie profonde de la table (sémantique de valeur :
// les étapes de nettoyage travaillent sur des copies, jamais sur l'original).
func (t *Table) Clone() *Table {
	result := New(t.name, t.columns)
	result.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		result.rows[i] = append([]any{}, row...)
	}
	return result
}

// Filter retourne une copie des lignes satisfaisant le prédicat.
func (t *Table) Filter(predicate func(row []any) bool) *Table {
	result := New(t.name, t.columns)
	for _, row := range t.rows {
		if predicate(row) {
			result.rows = append(result.rows, row)
		}
	}
	return result
}

// WithColumn retourne une copie de la table avec une colonne supplémentaire.
func (t *Table) WithColumn(name string, values []any) (*Table, error) {
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d values for %d rows", name, len(values), len(t.rows))
	}
	if t.HasColumn(name) {
		return nil, fmt.Errorf("column %q already exists in table %q", name, t.name)
	}

	result := New(t.name, append(t.Columns(), name))
	for i, row := range t.rows {
		newRow := make([]any, 0, len(row)+1)
		newRow = append(newRow, row...)
		newRow = append(newRow, values[i])
		result.rows = append(result.rows, newRow)
	}
	return result, nil
}

// MapColumn retourne une copie de la table avec la colonne transformée
// cellule par cellule. Une colonne absente produit une SchemaMismatchError.
func (t *Table) MapColumn(col string, fn func(any) any) (*Table, error) {
	idx, ok := t.colIdx[col]
	if !ok {
		return nil, &SchemaMismatchError{Column: col, LeftTable: t.name}
	}

	result := New(t.name, t.columns)
	result.rows = make([][]any, len(t.rows))
	for i, row := range t.rows {
		newRow := append([]any{}, row...)
		newRow[idx] = fn(row[idx])
		result.rows[i] = newRow
	}
	return result, nil
}

// Rename retourne une copie superficielle de la table sous un autre nom.
func (t *Table) Rename(name string) *Table {
	return &Table{name: name, columns: t.columns, colIdx: t.colIdx, rows: t.rows}
}

// String formate les premières lignes pour les logs de debug.
func (t *Table) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d rows)\n", t.name, len(t.rows))
	for _, col := range t.columns {
		fmt.Fprintf(&b, "%-24s", col)
	}
	b.WriteByte('\n')
	max := len(t.rows)
	if max > 5 {
		max = 5
	}
	for _, row := range t.rows[:max] {
		for _, val := range row {
			fmt.Fprintf(&b, "%-24v", val)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
