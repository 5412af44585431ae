package domain

import (
	"testing"
	"time"
)

func sampleRow() *OrderLineExport {
	return &OrderLineExport{
		OrderID:          "o1",
		CustomerState:    "SP",
		PurchaseDate:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		DeliveredDate:    time.Date(2024, 1, 12, 10, 0, 0, 0, time.UTC),
		Delivered:        true,
		ProductID:        "p1",
		Category:         "informatica",
		CategoryEnglish:  "computers",
		ReviewScore:      "5",
		DeliveryTimeDays: 11,
	}
}

// ========================================
// Tests: OrderLineExport
// ========================================

// TestOrderLineExport_ToCSVRow teste la sérialisation d'une ligne complète
func TestOrderLineExport_ToCSVRow(t *testing.T) {
	row := sampleRow().ToCSVRow()

	if len(row) != len(CSVHeaders()) {
		t.Fatalf("Expected %d fields, got %d", len(CSVHeaders()), len(row))
	}
	if row[0] != "o1" || row[1] != "SP" {
		t.Errorf("Expected o1/SP, got %v", row[:2])
	}
	if row[2] != "2024-01-01 10:00:00" {
		t.Errorf("Expected formatted purchase date, got %s", row[2])
	}
	if row[3] != "2024-01-12 10:00:00" {
		t.Errorf("Expected formatted delivery date, got %s", row[3])
	}
	if row[8] != "11" {
		t.Errorf("Expected delivery time 11, got %s", row[8])
	}
}

// TestOrderLineExport_ToCSVRow_Undelivered teste les champs vides d'une
// commande non livrée
func TestOrderLineExport_ToCSVRow_Undelivered(t *testing.T) {
	line := sampleRow()
	line.Delivered = false
	line.DeliveredDate = time.Time{}

	row := line.ToCSVRow()
	if row[3] != "" {
		t.Errorf("Expected empty delivery date, got %s", row[3])
	}
	if row[8] != "" {
		t.Errorf("Expected empty delivery time, got %s", row[8])
	}
	if row[2] == "" {
		t.Error("Expected purchase date to remain")
	}
}

// TestOrderLineExport_ToCSVRow_NoPurchaseDate teste l'absence de date d'achat
func TestOrderLineExport_ToCSVRow_NoPurchaseDate(t *testing.T) {
	line := sampleRow()
	line.PurchaseDate = time.Time{}

	row := line.ToCSVRow()
	if row[2] != "" {
		t.Errorf("Expected empty purchase date, got %s", row[2])
	}
	// Sans date d'achat, pas de temps de livraison calculable
	if row[8] != "" {
		t.Errorf("Expected empty delivery time, got %s", row[8])
	}
}

// TestOrderLineExport_ToParquet teste la conversion vers la structure Parquet
func TestOrderLineExport_ToParquet(t *testing.T) {
	parquetRow := sampleRow().ToParquet()

	if parquetRow.OrderID != "o1" || parquetRow.CustomerState != "SP" {
		t.Errorf("Expected o1/SP, got %s/%s", parquetRow.OrderID, parquetRow.CustomerState)
	}
	if parquetRow.PurchaseDate != "2024-01-01 10:00:00" {
		t.Errorf("Expected formatted purchase date, got %s", parquetRow.PurchaseDate)
	}
	if parquetRow.DeliveryTimeDays != 11 {
		t.Errorf("Expected 11, got %d", parquetRow.DeliveryTimeDays)
	}
}

// TestOrderLineExport_ToParquet_Undelivered teste les dates absentes
func TestOrderLineExport_ToParquet_Undelivered(t *testing.T) {
	line := sampleRow()
	line.Delivered = false
	line.PurchaseDate = time.Time{}

	parquetRow := line.ToParquet()
	if parquetRow.PurchaseDate != "" || parquetRow.DeliveredDate != "" {
		t.Errorf("Expected empty dates, got %q and %q", parquetRow.PurchaseDate, parquetRow.DeliveredDate)
	}
}

// ========================================
// Benchmarks: OrderLineExport
// ========================================

// BenchmarkOrderLineExport_ToCSVRow teste la sérialisation CSV d'une ligne
func BenchmarkOrderLineExport_ToCSVRow(b *testing.B) {
	line := sampleRow()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = line.ToCSVRow()
	}
}

// BenchmarkOrderLineExport_ToParquet teste la conversion Parquet d'une ligne
func BenchmarkOrderLineExport_ToParquet(b *testing.B) {
	line := sampleRow()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = line.ToParquet()
	}
}

// BenchmarkCSVHeaders teste la génération des en-têtes
func BenchmarkCSVHeaders(b *testing.B) {
	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = CSVHeaders()
	}
}
