package domain

import (
	"fmt"

	"ecomdash/internal/dataset"
)

// AggregationUndefinedError signale une agrégation sans aucune ligne
// qualifiée après filtrage des nulls. Non fatal : la présentation affiche
// un indicateur "no data" à la place du graphique.
type AggregationUndefinedError struct {
	Analytic string
	Reason   string
}

func (e *AggregationUndefinedError) Error() string {
	return fmt.Sprintf("aggregation %q undefined: %s", e.Analytic, e.Reason)
}

// CategoryCount est une paire (catégorie anglaise, nombre de lignes).
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CategoryRanking est le top-N des catégories par nombre d'articles vendus,
// trié par comptage décroissant. ExcludedRows compte les lignes sans
// catégorie anglaise écartées du comptage (traçabilité des exclusions).
type CategoryRanking struct {
	Entries      []CategoryCount `json:"entries"`
	ExcludedRows int             `json:"excluded_rows"`
}

// StateDelay est le retard de livraison moyen d'un état client.
type StateDelay struct {
	State         string  `json:"state"`
	MeanDelayDays float64 `json:"mean_delay_days"`
	Orders        int     `json:"orders"`
}

// DelayByState regroupe les retards moyens par état, triés par moyenne
// croissante. Un état sans commande qualifiée n'apparaît pas.
type DelayByState struct {
	Groups       []StateDelay `json:"groups"`
	ExcludedRows int          `json:"excluded_rows"`
}

// ScoreDistribution est la distribution complète des temps de livraison
// (en jours) pour un score d'avis donné, destinée à un rendu boxplot.
type ScoreDistribution struct {
	Score        string `json:"score"`
	DeliveryDays []int  `json:"delivery_days"`
}

// DeliveryTimeByScore regroupe les distributions par score, scores croissants,
// les lignes sans avis dans un groupe dédié en dernière position.
type DeliveryTimeByScore struct {
	Groups       []ScoreDistribution `json:"groups"`
	ExcludedRows int                 `json:"excluded_rows"`
}

// ShippingSummary résume le temps de livraison transporteur -> client.
// DeliveryDays alimente le rendu histogramme ; Rows est le jeu de lignes
// filtré avec la colonne delivery_time_days attachée, réutilisé par l'export.
type ShippingSummary struct {
	MeanDeliveryDays float64 `json:"mean_delivery_days"`
	Count            int     `json:"count"`
	DeliveryDays     []int   `json:"delivery_days"`
	ExcludedRows     int     `json:"excluded_rows"`

	Rows *dataset.Table `json:"-"`
}
