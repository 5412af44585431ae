package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sharedinfra "ecomdash/internal/shared/infrastructure"
)

// Noms logiques des sept tables de base.
const (
	TableCustomers            = "customers"
	TableOrders               = "orders"
	TableOrderItems           = "orderitems"
	TableOrderPayments        = "orderpays"
	TableOrderReviews         = "orderreviews"
	TableProducts             = "products"
	TableCategoryTranslations = "producttranslate"
)

// tableNames liste les tables dans un ordre stable (chargement, empreinte, import).
var tableNames = []string{
	TableCustomers,
	TableOrders,
	TableOrderItems,
	TableOrderPayments,
	TableOrderReviews,
	TableProducts,
	TableCategoryTranslations,
}

// Snapshot regroupe les sept tables de base d'une session. Immutable après
// chargement : les étapes de nettoyage et de jointure produisent des copies.
type Snapshot struct {
	Customers            *Table
	Orders               *Table
	OrderItems           *Table
	OrderPayments        *Table
	OrderReviews         *Table
	Products             *Table
	CategoryTranslations *Table
}

// Tables retourne les tables de base dans un ordre stable.
func (s *Snapshot) Tables() []*Table {
	return []*Table{
		s.Customers,
		s.Orders,
		s.OrderItems,
		s.OrderPayments,
		s.OrderReviews,
		s.Products,
		s.CategoryTranslations,
	}
}

// Loader charge les fichiers CSV d'un répertoire en tables mémoire.
type Loader struct {
	dir string
}

// NewLoader crée un nouveau chargeur pour le répertoire donné.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Dir retourne le répertoire source.
func (l *Loader) Dir() string {
	return l.dir
}

// LoadAll charge les sept tables en parallèle via le worker pool. Un fichier
// manquant ou illisible interrompt toute la session (DataUnavailableError) :
// chaque analyse dépend de l'ensemble des tables de base.
func (l *Loader) LoadAll() (*Snapshot, error) {
	tables := make(map[string]*Table, len(tableNames))
	var mu sync.Mutex

	pool := sharedinfra.NewWorkerPool(4)
	pool.Start()
	for _, name := range tableNames {
		name := name
		if err := pool.Submit(func() error {
			table, err := l.loadTable(name)
			if err != nil {
				return err
			}
			mu.Lock()
			tables[name] = table
			mu.Unlock()
			return nil
		}); err != nil {
			pool.Stop()
			return nil, err
		}
	}
	if err := pool.Wait(); err != nil {
		return nil, err
	}

	return &Snapshot{
		Customers:            tables[TableCustomers],
		Orders:               tables[TableOrders],
		OrderItems:           tables[TableOrderItems],
		OrderPayments:        tables[TableOrderPayments],
		OrderReviews:         tables[TableOrderReviews],
		Products:             tables[TableProducts],
		CategoryTranslations: tables[TableCategoryTranslations],
	}, nil
}

// loadTable charge un CSV : colonnes reprises telles quelles de l'en-tête,
// lignes dans l'ordre du fichier, cellule vide -> nil. Aucune inférence de
// type : les identifiants restent des strings exactes pour les jointures.
func (l *Loader) loadTable(name string) (*Table, error) {
	path := filepath.Join(l.dir, name+".csv")

	file, err := os.Open(path)
	if err != nil {
		return nil, &DataUnavailableError{Table: name, Path: path, Err: err}
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &DataUnavailableError{Table: name, Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &DataUnavailableError{Table: name, Path: path, Err: fmt.Errorf("file is empty")}
	}

	table := New(name, records[0])
	for _, record := range records[1:] {
		row := make([]any, len(record))
		for i, val := range record {
			if val == "" {
				row[i] = nil
			} else {
				row[i] = val
			}
		}
		if err := table.AppendRow(row); err != nil {
			return nil, &DataUnavailableError{Table: name, Path: path, Err: err}
		}
	}
	return table, nil
}

// Fingerprint retourne une empreinte des fichiers source (taille + mtime).
// Sert de clé de cache : toute modification d'un fichier change l'empreinte
// et force un rechargement au prochain accès.
func (l *Loader) Fingerprint() (string, error) {
	var b strings.Builder
	for _, name := range tableNames {
		path := filepath.Join(l.dir, name+".csv")
		info, err := os.Stat(path)
		if err != nil {
			return "", &DataUnavailableError{Table: name, Path: path, Err: err}
		}
		fmt.Fprintf(&b, "%s:%d:%d;", name, info.Size(), info.ModTime().UnixNano())
	}
	return b.String(), nil
}
