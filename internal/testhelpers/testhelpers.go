// Package testhelpers fournit les fixtures CSV et les aides d'intégration
// partagées par les tests du pipeline.
package testhelpers

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// SampleFiles est un jeu de données minimal mais complet : sept tables
// cohérentes entre elles, avec dates absentes, état client manquant,
// catégorie sans traduction et commande à plusieurs avis.
//
// Valeurs attendues par les tests qui s'appuient dessus :
//   - top catégories : computers=3, furniture=1, 1 ligne exclue (p4 sans catégorie)
//   - retard moyen par état : Unknown=-5, SP=0 ((+2-2)/2), RJ omis (o3 non livré)
//   - distribution par score : 1:[7] 4:[7] 5:[11,11] unscored:[4], 1 ligne exclue
//   - résumé transporteur : moyenne 6 ((9+6+3)/3), 1 commande exclue
var SampleFiles = map[string]string{
	"customers": `customer_id,customer_state
c1,SP
c2,SP
c3,RJ
c4,
`,
	"orders": `order_id,customer_id,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date
o1,c1,2024-01-01 10:00:00,2024-01-01 12:00:00,2024-01-03 00:00:00,2024-01-12 10:00:00,2024-01-10
o2,c2,2024-01-01 00:00:00,2024-01-01 08:00:00,2024-01-02 00:00:00,2024-01-08 00:00:00,2024-01-10
o3,c3,2024-01-05 00:00:00,,,,2024-01-10
o4,c4,2024-02-01 00:00:00,2024-02-01 01:00:00,2024-02-02 00:00:00,2024-02-05 00:00:00,2024-02-10
`,
	"orderitems": `order_id,order_item_id,product_id,price
o1,1,p1,100.00
o1,2,p2,50.00
o2,1,p1,100.00
o3,1,p3,10.00
o4,1,p4,20.00
`,
	"orderpays": `order_id,payment_type,payment_value
o1,credit_card,150.00
o2,boleto,100.00
`,
	"orderreviews": `review_id,order_id,review_score
r1,o1,5
r2,o2,4
r3,o2,1
r4,o3,3
`,
	"products": `product_id,product_category_name
p1,informatica
p2,moveis
p3,informatica
p4,
`,
	"producttranslate": `product_category_name,product_category_name_english
informatica,computers
moveis,furniture
`,
}

// WriteDataset écrit les fichiers CSV donnés dans un répertoire temporaire
// et retourne son chemin.
func WriteDataset(tb testing.TB, files map[string]string) string {
	tb.Helper()

	dir := tb.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name+".csv")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			tb.Fatalf("Failed to write fixture %s: %v", name, err)
		}
	}
	return dir
}

// SampleDataDir écrit le jeu de données de référence et retourne son chemin.
func SampleDataDir(tb testing.TB) string {
	tb.Helper()
	return WriteDataset(tb, SampleFiles)
}

// SampleDataDirWithout écrit le jeu de référence en remplaçant le contenu
// d'une table (scénario colonne manquante ou données dégradées).
func SampleDataDirWithout(tb testing.TB, table string, replacement string) string {
	tb.Helper()

	files := make(map[string]string, len(SampleFiles))
	for name, content := range SampleFiles {
		files[name] = content
	}
	files[table] = replacement
	return WriteDataset(tb, files)
}

// SetupTestDB initialise une connexion à la base de données de test.
func SetupTestDB(tb testing.TB) *sql.DB {
	tb.Helper()

	_ = godotenv.Load("../../.env")

	db, err := sql.Open("postgres", testConnStr())
	if err != nil {
		tb.Fatalf("Failed to open database: %v", err)
	}
	if err := db.Ping(); err != nil {
		tb.Fatalf("Failed to ping database: %v", err)
	}
	return db
}

// SkipIfNoDatabase skip le test si la DB n'est pas disponible.
func SkipIfNoDatabase(tb testing.TB) {
	tb.Helper()

	_ = godotenv.Load("../../.env")

	db, err := sql.Open("postgres", testConnStr())
	if err != nil {
		tb.Skip("Database not available:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		tb.Skip("Database not available:", err)
	}
}

// testConnStr construit la connection string de test.
func testConnStr() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "dashuser"),
		getEnv("DB_PASSWORD", "dashpass"),
		getEnv("DB_NAME", "dashdb"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

// getEnv récupère une variable d'environnement avec fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
