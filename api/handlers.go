// Package api expose le pipeline analytique en JSON à la couche de
// présentation. Les handlers ne calculent rien : ils traduisent les
// résultats et les erreurs typées du pipeline en réponses HTTP.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	analyticsapp "ecomdash/internal/analytics/application"
	analyticsdomain "ecomdash/internal/analytics/domain"
	"ecomdash/internal/dataset"
	exportapp "ecomdash/internal/export/application"
)

// Handlers contient les handlers du tableau de bord.
type Handlers struct {
	dashboard *analyticsapp.DashboardService
	export    *exportapp.ExportService
}

// NewHandlers crée une nouvelle instance des handlers.
func NewHandlers(dashboard *analyticsapp.DashboardService, export *exportapp.ExportService) *Handlers {
	return &Handlers{
		dashboard: dashboard,
		export:    export,
	}
}

// Register enregistre les routes sur le mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/health", h.Health)
	mux.HandleFunc("/api/dashboard/top-categories", h.TopCategories)
	mux.HandleFunc("/api/dashboard/delay-by-state", h.DelayByState)
	mux.HandleFunc("/api/dashboard/delivery-time-by-score", h.DeliveryTimeByScore)
	mux.HandleFunc("/api/dashboard/shipping", h.Shipping)
	mux.HandleFunc("/api/dashboard/previews", h.Previews)
	mux.HandleFunc("/api/export/csv", h.ExportCSV)
	mux.HandleFunc("/api/export/parquet", h.ExportParquet)
}

// Health répond au health check.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "dashboard analytics API disponible",
	})
}

// TopCategories sert le top-n des catégories (?n=10 par défaut).
func (h *Handlers) TopCategories(w http.ResponseWriter, r *http.Request) {
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid parameter n"})
			return
		}
		n = parsed
	}

	ranking, err := h.dashboard.TopCategories(n)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

// DelayByState sert le retard de livraison moyen par état.
func (h *Handlers) DelayByState(w http.ResponseWriter, r *http.Request) {
	delays, err := h.dashboard.DelayByState()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delays)
}

// DeliveryTimeByScore sert les distributions de temps de livraison par score.
func (h *Handlers) DeliveryTimeByScore(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboard.DeliveryTimeByScore()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Shipping sert le résumé des temps transporteur -> client.
func (h *Handlers) Shipping(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboard.Shipping()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Previews sert l'aperçu des sept tables de base.
func (h *Handlers) Previews(w http.ResponseWriter, r *http.Request) {
	previews, err := h.dashboard.Previews()
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, previews)
}

// ExportCSV sert la table dénormalisée en CSV.
func (h *Handlers) ExportCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.export.ExportCSV()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=orders.csv")
	w.Write(data)
}

// ExportParquet sert la table dénormalisée en Parquet.
func (h *Handlers) ExportParquet(w http.ResponseWriter, r *http.Request) {
	data, err := h.export.ExportParquet()
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=orders.parquet")
	w.Write(data)
}

// writeError traduit les erreurs typées du pipeline. Un fichier source
// indisponible condamne toute la session (503), une colonne manquante
// n'abandonne que l'analyse concernée (422 avec diagnostic nommant colonne
// et tables), une agrégation sans lignes qualifiées reste un 200 "no data".
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var unavailable *dataset.DataUnavailableError
	if errors.As(err, &unavailable) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"error": "dataset unavailable",
			"table": unavailable.Table,
			"path":  unavailable.Path,
		})
		return
	}

	var mismatch *dataset.SchemaMismatchError
	if errors.As(err, &mismatch) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"error":       "schema mismatch",
			"column":      mismatch.Column,
			"left_table":  mismatch.LeftTable,
			"right_table": mismatch.RightTable,
		})
		return
	}

	var undefined *analyticsdomain.AggregationUndefinedError
	if errors.As(err, &undefined) {
		writeJSON(w, http.StatusOK, map[string]any{
			"no_data":  true,
			"analytic": undefined.Analytic,
			"reason":   undefined.Reason,
		})
		return
	}

	log.Println("internal error:", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// writeJSON sérialise la réponse.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("encode response:", err)
	}
}
