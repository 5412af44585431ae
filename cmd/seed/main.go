package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"ecomdash/database"
	"ecomdash/internal/dataset"
)

func main() {
	// Charge .env
	err := godotenv.Load()
	if err != nil {
		log.Println("Attention: fichier .env non trouvé, utilisation des valeurs par défaut")
	}

	// Connexion PostgreSQL
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "dashuser"),
		getEnv("DB_PASSWORD", "dashpass"),
		getEnv("DB_NAME", "dashdb"),
		getEnv("DB_SSLMODE", "disable"),
	)

	err = database.Init(connStr)
	if err != nil {
		log.Fatal("❌ Erreur connexion DB:", err)
	}
	defer database.Close()

	fmt.Println("✅ Connexion PostgreSQL établie")

	loader := dataset.NewLoader(getEnv("DATA_DIR", "./data"))
	fmt.Printf("🌱 Chargement des CSV depuis %s...\n", loader.Dir())

	snapshot, err := loader.LoadAll()
	if err != nil {
		log.Fatal("❌ Erreur chargement des datasets:", err)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	err = database.ImportSnapshot(snapshot)
	if err != nil {
		log.Fatal("❌ Erreur lors de l'import:", err)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("✅ Import terminé avec succès!")
	fmt.Println()
	fmt.Println("Vous pouvez maintenant démarrer l'application avec:")
	fmt.Println("  go run main.go")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
