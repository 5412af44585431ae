package main

import (
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"ecomdash/api"
	analyticsapp "ecomdash/internal/analytics/application"
	"ecomdash/internal/dataset"
	exportapp "ecomdash/internal/export/application"
	"ecomdash/internal/metrics"
	sharedinfra "ecomdash/internal/shared/infrastructure"
)

func main() {
	// Charge .env
	if err := godotenv.Load(); err != nil {
		log.Println("Attention: fichier .env non trouvé, utilisation des valeurs par défaut")
	}

	port := getEnv("PORT", "8080")
	ttlMinutes, err := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "5"))
	if err != nil || ttlMinutes < 1 {
		ttlMinutes = 5
	}

	// Pipeline : loader -> cache de session -> services
	loader := dataset.NewLoader(getEnv("DATA_DIR", "./data"))
	cache := sharedinfra.NewInMemoryCache()
	registry := metrics.NewRegistry()

	dashboard := analyticsapp.NewDashboardService(loader, cache, time.Duration(ttlMinutes)*time.Minute, registry)
	export := exportapp.NewExportService(dashboard, registry)

	// Chargement initial : un fichier manquant condamne la session,
	// autant échouer au démarrage qu'à la première requête.
	if _, err := dashboard.Snapshot(); err != nil {
		log.Fatal("❌ Erreur chargement des datasets:", err)
	}
	fmt.Printf("✅ Datasets chargés depuis %s\n", loader.Dir())

	// Mux par défaut : l'import pprof y enregistre /debug/pprof.
	handlers := api.NewHandlers(dashboard, export)
	handlers.Register(http.DefaultServeMux)
	http.Handle("/metrics", registry.Handler())

	fmt.Printf("🚀 Dashboard analytics API sur :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
