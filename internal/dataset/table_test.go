package dataset

import (
	"errors"
	"fmt"
	"testing"
)

// sampleTable construit une petite table de lignes de commande.
func sampleTable() *Table {
	t := New("orderitems", []string{"order_id", "product_id", "price"})
	t.AppendRow([]any{"o1", "p1", "100.00"})
	t.AppendRow([]any{"o1", "p2", "50.00"})
	t.AppendRow([]any{"o2", "p1", nil})
	return t
}

// ========================================
// Tests: Table
// ========================================

// TestTable_AppendRow teste l'ajout de lignes et le contrôle d'arité
func TestTable_AppendRow(t *testing.T) {
	table := New("orders", []string{"order_id", "customer_id"})

	if err := table.AppendRow([]any{"o1", "c1"}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if table.RowCount() != 1 {
		t.Errorf("Expected 1 row, got %d", table.RowCount())
	}

	if err := table.AppendRow([]any{"o2"}); err == nil {
		t.Error("Expected error for row with wrong length, got nil")
	}
}

// TestTable_Value teste l'accès par nom de colonne
func TestTable_Value(t *testing.T) {
	table := sampleTable()

	val, ok := table.Value(0, "product_id")
	if !ok || val != "p1" {
		t.Errorf("Expected p1, got %v (found=%v)", val, ok)
	}

	val, ok = table.Value(2, "price")
	if !ok || val != nil {
		t.Errorf("Expected nil cell, got %v (found=%v)", val, ok)
	}

	if _, ok := table.Value(0, "missing"); ok {
		t.Error("Expected missing column to report not found")
	}
}

// TestTable_Head teste la troncature aux n premières lignes
func TestTable_Head(t *testing.T) {
	table := sampleTable()

	head := table.Head(2)
	if head.RowCount() != 2 {
		t.Errorf("Expected 2 rows, got %d", head.RowCount())
	}

	head = table.Head(10)
	if head.RowCount() != 3 {
		t.Errorf("Expected 3 rows when n exceeds size, got %d", head.RowCount())
	}
}

// TestTable_Select teste la projection de colonnes
func TestTable_Select(t *testing.T) {
	table := sampleTable()

	selected, err := table.Select("product_id", "order_id")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(selected.Columns()) != 2 {
		t.Fatalf("Expected 2 columns, got %d", len(selected.Columns()))
	}
	if selected.Columns()[0] != "product_id" {
		t.Errorf("Expected column order to follow the selection, got %v", selected.Columns())
	}
	if val, _ := selected.Value(1, "product_id"); val != "p2" {
		t.Errorf("Expected p2, got %v", val)
	}
}

// TestTable_Select_MissingColumn teste l'erreur typée sur colonne absente
func TestTable_Select_MissingColumn(t *testing.T) {
	table := sampleTable()

	_, err := table.Select("order_id", "warehouse")
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("Expected SchemaMismatchError, got %v", err)
	}
	if mismatch.Column != "warehouse" || mismatch.LeftTable != "orderitems" {
		t.Errorf("Expected diagnostic naming column and table, got %+v", mismatch)
	}
}

// TestTable_Clone teste l'indépendance de la copie profonde
func TestTable_Clone(t *testing.T) {
	table := sampleTable()
	clone := table.Clone()

	clone.Row(0)[0] = "mutated"
	if val, _ := table.Value(0, "order_id"); val != "o1" {
		t.Errorf("Expected original to stay o1, got %v", val)
	}
}

// TestTable_Filter teste le filtrage par prédicat
func TestTable_Filter(t *testing.T) {
	table := sampleTable()
	idx, _ := table.ColumnIndex("price")

	filtered := table.Filter(func(row []any) bool {
		return row[idx] != nil
	})
	if filtered.RowCount() != 2 {
		t.Errorf("Expected 2 rows with a price, got %d", filtered.RowCount())
	}
}

// TestTable_WithColumn teste l'ajout d'une colonne calculée
func TestTable_WithColumn(t *testing.T) {
	table := sampleTable()

	extended, err := table.WithColumn("line_no", []any{1, 2, 3})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !extended.HasColumn("line_no") {
		t.Fatal("Expected new column to be present")
	}
	if val, _ := extended.Value(2, "line_no"); val != 3 {
		t.Errorf("Expected 3, got %v", val)
	}

	if _, err := table.WithColumn("line_no", []any{1}); err == nil {
		t.Error("Expected error for value count mismatch, got nil")
	}
	if _, err := extended.WithColumn("line_no", []any{1, 2, 3}); err == nil {
		t.Error("Expected error for duplicate column name, got nil")
	}
}

// TestTable_MapColumn teste la transformation cellule par cellule
func TestTable_MapColumn(t *testing.T) {
	table := sampleTable()

	mapped, err := table.MapColumn("price", func(v any) any {
		if v == nil {
			return "0.00"
		}
		return v
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if val, _ := mapped.Value(2, "price"); val != "0.00" {
		t.Errorf("Expected 0.00, got %v", val)
	}
	if val, _ := table.Value(2, "price"); val != nil {
		t.Errorf("Expected original cell to stay nil, got %v", val)
	}

	_, err = table.MapColumn("missing", func(v any) any { return v })
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Errorf("Expected SchemaMismatchError, got %v", err)
	}
}

// TestTable_Rename teste le renommage sans copie des lignes
func TestTable_Rename(t *testing.T) {
	table := sampleTable()
	renamed := table.Rename("products")

	if renamed.Name() != "products" {
		t.Errorf("Expected products, got %s", renamed.Name())
	}
	if renamed.RowCount() != table.RowCount() {
		t.Errorf("Expected same row count, got %d", renamed.RowCount())
	}
}

// ========================================
// Benchmarks: Table Operations
// ========================================

// benchTable construit une table de n lignes pour les benchmarks
func benchTable(n int) *Table {
	t := New("orders", []string{"order_id", "customer_id", "price"})
	for i := 0; i < n; i++ {
		t.AppendRow([]any{fmt.Sprintf("o%d", i), fmt.Sprintf("c%d", i%100), "99.90"})
	}
	return t
}

// BenchmarkTable_Select_10k teste la projection sur 10k lignes
func BenchmarkTable_Select_10k(b *testing.B) {
	table := benchTable(10000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, _ = table.Select("order_id", "price")
	}
}

// BenchmarkTable_Filter_10k teste le filtrage sur 10k lignes
func BenchmarkTable_Filter_10k(b *testing.B) {
	table := benchTable(10000)
	idx, _ := table.ColumnIndex("customer_id")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = table.Filter(func(row []any) bool {
			return row[idx] != "c0"
		})
	}
}

// BenchmarkTable_Clone_10k teste la copie profonde sur 10k lignes
func BenchmarkTable_Clone_10k(b *testing.B) {
	table := benchTable(10000)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = table.Clone()
	}
}
