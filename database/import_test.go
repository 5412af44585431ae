package database

import (
	"fmt"
	"os"
	"testing"

	"ecomdash/internal/dataset"
	"ecomdash/internal/testhelpers"
)

// testConnStr construit la connection string de la base de test.
func testConnStr() string {
	get := func(key, fallback string) string {
		if value := os.Getenv(key); value != "" {
			return value
		}
		return fallback
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		get("DB_HOST", "localhost"),
		get("DB_PORT", "5432"),
		get("DB_USER", "dashuser"),
		get("DB_PASSWORD", "dashpass"),
		get("DB_NAME", "dashdb"),
		get("DB_SSLMODE", "disable"),
	)
}

// ========================================
// Tests d'intégration: Import PostgreSQL
// ========================================

// TestImportSnapshot_Integration teste l'import des sept tables dans PostgreSQL
func TestImportSnapshot_Integration(t *testing.T) {
	testhelpers.SkipIfNoDatabase(t)

	if err := Init(testConnStr()); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer Close()

	loader := dataset.NewLoader(testhelpers.SampleDataDir(t))
	snapshot, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := ImportSnapshot(snapshot); err != nil {
		t.Fatalf("Expected import to succeed, got %v", err)
	}

	// Chaque table SQL porte autant de lignes que sa table mémoire
	for _, table := range snapshot.Tables() {
		var count int
		query := fmt.Sprintf("SELECT COUNT(*) FROM %q", table.Name())
		if err := DB.QueryRow(query).Scan(&count); err != nil {
			t.Fatalf("Failed to count rows of %s: %v", table.Name(), err)
		}
		if count != table.RowCount() {
			t.Errorf("Expected %d rows in %s, got %d", table.RowCount(), table.Name(), count)
		}
	}

	// Les cellules vides sont importées comme NULL
	var nullStates int
	if err := DB.QueryRow(`SELECT COUNT(*) FROM "customers" WHERE customer_state IS NULL`).Scan(&nullStates); err != nil {
		t.Fatalf("Failed to count null states: %v", err)
	}
	if nullStates != 1 {
		t.Errorf("Expected 1 NULL customer_state, got %d", nullStates)
	}
}

// TestImportSnapshot_Integration_Reimport teste que l'import est rejouable
func TestImportSnapshot_Integration_Reimport(t *testing.T) {
	testhelpers.SkipIfNoDatabase(t)

	if err := Init(testConnStr()); err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer Close()

	loader := dataset.NewLoader(testhelpers.SampleDataDir(t))
	snapshot, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Deux imports successifs remplacent les tables sans doubler les lignes
	if err := ImportSnapshot(snapshot); err != nil {
		t.Fatalf("Expected first import to succeed, got %v", err)
	}
	if err := ImportSnapshot(snapshot); err != nil {
		t.Fatalf("Expected second import to succeed, got %v", err)
	}

	var count int
	if err := DB.QueryRow(`SELECT COUNT(*) FROM "orders"`).Scan(&count); err != nil {
		t.Fatalf("Failed to count orders: %v", err)
	}
	if count != snapshot.Orders.RowCount() {
		t.Errorf("Expected %d orders after reimport, got %d", snapshot.Orders.RowCount(), count)
	}
}
