// Package cleaning normalise les tables de base avant jointure : parsing
// permissif des dates, remplissage des catégorielles absentes, fusion des
// traductions de catégories. Toutes les fonctions travaillent sur des copies.
package cleaning

import (
	"time"

	"ecomdash/internal/dataset"
)

// Colonnes date de la table orders, parsées en timestamps au nettoyage.
var orderDateColumns = []string{
	"order_purchase_timestamp",
	"order_approved_at",
	"order_delivered_carrier_date",
	"order_delivered_customer_date",
	"order_estimated_delivery_date",
}

// timestampLayouts liste les formats acceptés, du plus précis au moins précis.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnknownState est la sentinelle pour un état client absent.
const UnknownState = "Unknown"

// ParseTimestamp parse une date de manière permissive. Une valeur vide ou
// inanalysable devient le timestamp nul, jamais une erreur (équivalent d'un
// parsing avec coercition des invalides).
func ParseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// CleanOrders retourne une copie de la table orders avec les cinq colonnes
// date converties en time.Time. Cellule inanalysable -> nil. Une colonne
// date absente est ignorée : c'est l'agrégateur qui la signalera s'il en
// dépend.
func CleanOrders(orders *dataset.Table) *dataset.Table {
	result := orders
	for _, col := range orderDateColumns {
		if !result.HasColumn(col) {
			continue
		}
		mapped, err := result.MapColumn(col, parseCell)
		if err != nil {
			continue
		}
		result = mapped
	}
	if result == orders {
		return orders.Clone()
	}
	return result
}

// parseCell convertit une cellule date en time.Time, nil si inanalysable.
func parseCell(v any) any {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if ts, ok := ParseTimestamp(s); ok {
		return ts
	}
	return nil
}

// FillMissing retourne une copie de la table avec les cellules nil de la
// colonne remplacées par la sentinelle. Colonne absente : copie inchangée.
func FillMissing(t *dataset.Table, column, sentinel string) *dataset.Table {
	result, err := t.MapColumn(column, func(v any) any {
		if v == nil {
			return sentinel
		}
		return v
	})
	if err != nil {
		return t.Clone()
	}
	return result
}

// MergeProductTranslations fusionne les traductions anglaises sur la table
// produits (jointure gauche sur product_category_name). Un produit dont la
// catégorie n'a pas de traduction garde un nom anglais nil et sera exclu des
// agrégations par catégorie anglaise.
func MergeProductTranslations(products, translations *dataset.Table) (*dataset.Table, error) {
	merged, err := dataset.Join(products, translations, "product_category_name", dataset.JoinLeft)
	if err != nil {
		return nil, err
	}
	return merged.Rename(products.Name()), nil
}
