package dataset

import "fmt"

// DataUnavailableError signale un fichier source manquant ou illisible.
// Fatal pour la session : chaque analyse dépend des tables de base.
type DataUnavailableError struct {
	Table string
	Path  string
	Err   error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("dataset %q unavailable at %s: %v", e.Table, e.Path, e.Err)
}

func (e *DataUnavailableError) Unwrap() error {
	return e.Err
}

// SchemaMismatchError signale une colonne requise absente au moment d'une
// jointure ou d'une sélection. Récupérable par analyse : seul le résultat
// dépendant est abandonné, le reste du tableau de bord continue.
type SchemaMismatchError struct {
	Column     string
	LeftTable  string
	RightTable string
}

func (e *SchemaMismatchError) Error() string {
	if e.RightTable == "" {
		return fmt.Sprintf("column %q not found in table %q", e.Column, e.LeftTable)
	}
	return fmt.Sprintf("join column %q not found joining %q and %q", e.Column, e.LeftTable, e.RightTable)
}
