package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"ecomdash/internal/dataset"
)

// ImportSnapshot charge les sept tables du snapshot dans PostgreSQL, une
// table SQL par table CSV, colonnes TEXT reprises de l'en-tête. Les tables
// existantes sont remplacées. L'insertion passe par COPY (pq.CopyIn), pas
// par des INSERT ligne à ligne.
func ImportSnapshot(snapshot *dataset.Snapshot) error {
	for _, table := range snapshot.Tables() {
		fmt.Printf("   📦 Import de %s (%d lignes)...\n", table.Name(), table.RowCount())
		if err := importTable(table); err != nil {
			return fmt.Errorf("import table %s: %w", table.Name(), err)
		}
	}

	fmt.Println("🔍 Analyse des tables...")
	if _, err := DB.Exec("ANALYZE"); err != nil {
		fmt.Println("⚠️ Attention: échec de l'analyse:", err)
	}
	return nil
}

// importTable recrée la table SQL et copie toutes les lignes.
func importTable(t *dataset.Table) error {
	name := pq.QuoteIdentifier(t.Name())
	columns := t.Columns()

	if _, err := DB.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return err
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = pq.QuoteIdentifier(col) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
	if _, err := DB.Exec(ddl); err != nil {
		return err
	}

	tx, err := DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(pq.CopyIn(t.Name(), columns...))
	if err != nil {
		return err
	}

	args := make([]any, len(columns))
	for i := 0; i < t.RowCount(); i++ {
		row := t.Row(i)
		for j, val := range row {
			args[j] = cellText(val)
		}
		if _, err := stmt.Exec(args...); err != nil {
			stmt.Close()
			return err
		}
	}

	// Exec sans argument clôt le flux COPY côté serveur.
	if _, err := stmt.Exec(); err != nil {
		stmt.Close()
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}
	return tx.Commit()
}

// cellText convertit une cellule en valeur SQL (nil -> NULL).
func cellText(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case time.Time:
		return val.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", val)
	}
}
