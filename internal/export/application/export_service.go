package application

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"time"

	"github.com/xitongsys/parquet-go-source/writerfile"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	analyticsapp "ecomdash/internal/analytics/application"
	"ecomdash/internal/dataset"
	"ecomdash/internal/export/domain"
	"ecomdash/internal/metrics"
)

// ExportService produit la table dénormalisée des ventes en CSV ou Parquet,
// entièrement en mémoire (aucune écriture disque, réponse HTTP directe).
type ExportService struct {
	dashboard *analyticsapp.DashboardService
	registry  *metrics.Registry
	batchSize int
}

// NewExportService crée une nouvelle instance de ExportService.
// Le registry peut être nil (tests).
func NewExportService(dashboard *analyticsapp.DashboardService, registry *metrics.Registry) *ExportService {
	return &ExportService{
		dashboard: dashboard,
		registry:  registry,
		batchSize: 1000,
	}
}

// BuildRows construit les lignes d'export depuis la table jointe.
func (s *ExportService) BuildRows() ([]*domain.OrderLineExport, error) {
	joined, err := s.dashboard.JoinedOrderItems()
	if err != nil {
		return nil, err
	}

	rows := make([]*domain.OrderLineExport, 0, joined.RowCount())
	for i := 0; i < joined.RowCount(); i++ {
		rows = append(rows, buildRow(joined, i))
	}
	if s.registry != nil {
		s.registry.ExportRows.Add(float64(len(rows)))
	}
	return rows, nil
}

// buildRow extrait une ligne d'export d'une ligne de la table jointe.
// Les colonnes absentes de la jointure donnent des champs vides : l'export
// reste disponible même sur un schéma partiel.
func buildRow(joined *dataset.Table, i int) *domain.OrderLineExport {
	row := &domain.OrderLineExport{DeliveryTimeDays: -1}
	row.OrderID = cellString(joined, i, "order_id")
	row.CustomerState = cellString(joined, i, "customer_state")
	row.ProductID = cellString(joined, i, "product_id")
	row.Category = cellString(joined, i, "product_category_name")
	row.CategoryEnglish = cellString(joined, i, "product_category_name_english")
	row.ReviewScore = cellString(joined, i, "review_score")

	if ts, ok := cellTime(joined, i, "order_purchase_timestamp"); ok {
		row.PurchaseDate = ts
	}
	if ts, ok := cellTime(joined, i, "order_delivered_customer_date"); ok {
		row.DeliveredDate = ts
		row.Delivered = true
	}
	if row.Delivered && !row.PurchaseDate.IsZero() {
		delta := row.DeliveredDate.Sub(row.PurchaseDate)
		row.DeliveryTimeDays = int32(math.Floor(delta.Hours() / 24))
	}
	return row
}

// ExportCSV génère le CSV dénormalisé dans un buffer mémoire pré-alloué.
func (s *ExportService) ExportCSV() ([]byte, error) {
	rows, err := s.BuildRows()
	if err != nil {
		return nil, err
	}

	buffer := bytes.NewBuffer(make([]byte, 0, 1024*1024)) // 1 MB initial
	w := csv.NewWriter(buffer)

	if err := w.Write(domain.CSVHeaders()); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := w.Write(row.ToCSVRow()); err != nil {
			return nil, err
		}
		if (i+1)%s.batchSize == 0 {
			w.Flush()
		}
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// ExportParquet génère le fichier Parquet dénormalisé en mémoire,
// compression Snappy, écriture par batches.
func (s *ExportService) ExportParquet() ([]byte, error) {
	rows, err := s.BuildRows()
	if err != nil {
		return nil, err
	}

	buffer := bytes.NewBuffer(make([]byte, 0, 1024*1024))
	fw := writerfile.NewWriterFile(buffer)

	pw, err := writer.NewParquetWriter(fw, new(domain.OrderLineParquet), 2)
	if err != nil {
		return nil, fmt.Errorf("parquet writer init: %w", err)
	}
	pw.RowGroupSize = 8 * 1024 * 1024
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(row.ToParquet()); err != nil {
			return nil, fmt.Errorf("parquet write: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("parquet finalize: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// cellString retourne la cellule sous forme de string, vide si absente.
func cellString(t *dataset.Table, i int, col string) string {
	val, ok := t.Value(i, col)
	if !ok || val == nil {
		return ""
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", val)
}

// cellTime retourne la cellule timestamp si présente.
func cellTime(t *dataset.Table, i int, col string) (time.Time, bool) {
	val, ok := t.Value(i, col)
	if !ok || val == nil {
		return time.Time{}, false
	}
	ts, ok := val.(time.Time)
	return ts, ok
}
