package dataset

import "fmt"

// JoinKind représente le type de jointure.
type JoinKind string

const (
	// JoinLeft garde toutes les lignes de gauche, colonnes droites à nil sans correspondance.
	JoinLeft JoinKind = "left"
	// JoinInner ne garde que les lignes avec correspondance des deux côtés.
	JoinInner JoinKind = "inner"
)

// Join réalise une jointure hash sur l'égalité exacte de la colonne clé.
// Une relation un-vers-plusieurs démultiplie les lignes de gauche (fan-out),
// cardinalité naturelle des données, jamais dédupliquée. Les colonnes de
// droite déjà présentes à gauche sont ignorées, la clé n'apparaît qu'une fois.
func Join(left, right *Table, key string, kind JoinKind) (*Table, error) {
	leftKey, ok := left.ColumnIndex(key)
	if !ok {
		return nil, &SchemaMismatchError{Column: key, LeftTable: left.name, RightTable: right.name}
	}
	rightKey, ok := right.ColumnIndex(key)
	if !ok {
		return nil, &SchemaMismatchError{Column: key, LeftTable: left.name, RightTable: right.name}
	}
	if kind != JoinLeft && kind != JoinInner {
		return nil, fmt.Errorf("unsupported join kind %q", kind)
	}

	// Colonnes de droite conservées : tout sauf la clé et les doublons de noms.
	rightCols := make([]int, 0, len(right.columns))
	columns := left.Columns()
	for i, col := range right.columns {
		if i == rightKey || left.HasColumn(col) {
			continue
		}
		rightCols = append(rightCols, i)
		columns = append(columns, col)
	}

	// Index hash du côté droit, ordre d'insertion préservé par ligne.
	index := make(map[string][]int, right.RowCount())
	for i, row := range right.rows {
		k, ok := keyString(row[rightKey])
		if !ok {
			continue
		}
		index[k] = append(index[k], i)
	}

	result := New(left.name+"_"+right.name, columns)
	for _, lrow := range left.rows {
		k, ok := keyString(lrow[leftKey])
		var matches []int
		if ok {
			matches = index[k]
		}

		if len(matches) == 0 {
			if kind == JoinInner {
				continue
			}
			row := make([]any, 0, len(columns))
			row = append(row, lrow...)
			for range rightCols {
				row = append(row, nil)
			}
			result.rows = append(result.rows, row)
			continue
		}

		for _, ri := range matches {
			row := make([]any, 0, len(columns))
			row = append(row, lrow...)
			for _, ci := range rightCols {
				row = append(row, right.rows[ri][ci])
			}
			result.rows = append(result.rows, row)
		}
	}
	return result, nil
}

// keyString canonise une cellule en clé de jointure. Une cellule nil ne
// correspond à rien, même pas à une autre cellule nil.
func keyString(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		return val, true
	default:
		return fmt.Sprintf("%v", val), true
	}
}
