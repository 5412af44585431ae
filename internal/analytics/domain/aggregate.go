// Package domain contient les quatre agrégateurs du tableau de bord.
// Fonctions pures et sans état : même entrée, même sortie, ré-invocables
// sans effet de bord. Tout ordre de sortie est déterministe (aucune
// dépendance à l'ordre d'itération des maps).
package domain

import (
	"math"
	"sort"
	"strconv"
	"time"

	"ecomdash/internal/dataset"
)

// UnscoredLabel regroupe les lignes jointes sans avis (jointure gauche sans
// correspondance), toujours en dernière position.
const UnscoredLabel = "unscored"

// TopCategories compte les occurrences de product_category_name_english et
// retourne les n plus fréquentes, comptage décroissant, égalités départagées
// par ordre de première occurrence (comptage stable). Les lignes sans
// catégorie anglaise sont exclues et comptées dans ExcludedRows.
func TopCategories(items *dataset.Table, n int) (*CategoryRanking, error) {
	col, ok := items.ColumnIndex("product_category_name_english")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "product_category_name_english", LeftTable: items.Name()}
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	excluded := 0
	for i := 0; i < items.RowCount(); i++ {
		val := items.Row(i)[col]
		name, isString := val.(string)
		if val == nil || !isString {
			excluded++
			continue
		}
		if _, seen := counts[name]; !seen {
			firstSeen[name] = i
		}
		counts[name]++
	}

	if len(counts) == 0 {
		return nil, &AggregationUndefinedError{
			Analytic: "top_categories",
			Reason:   "no line item carries an english category name",
		}
	}

	entries := make([]CategoryCount, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, CategoryCount{Category: name, Count: count})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return firstSeen[entries[i].Category] < firstSeen[entries[j].Category]
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}

	return &CategoryRanking{Entries: entries, ExcludedRows: excluded}, nil
}

// MeanDelayByState calcule le retard moyen (livré - estimé, en jours signés,
// négatif = en avance) par état client. Les commandes sans les deux dates
// sont exclues ; les groupes sont triés par moyenne croissante.
func MeanDelayByState(orders *dataset.Table) (*DelayByState, error) {
	deliveredCol, ok := orders.ColumnIndex("order_delivered_customer_date")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "order_delivered_customer_date", LeftTable: orders.Name()}
	}
	estimatedCol, ok := orders.ColumnIndex("order_estimated_delivery_date")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "order_estimated_delivery_date", LeftTable: orders.Name()}
	}
	stateCol, ok := orders.ColumnIndex("customer_state")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "customer_state", LeftTable: orders.Name()}
	}

	sums := make(map[string]int)
	counts := make(map[string]int)
	excluded := 0
	for i := 0; i < orders.RowCount(); i++ {
		row := orders.Row(i)
		delivered, okD := row[deliveredCol].(time.Time)
		estimated, okE := row[estimatedCol].(time.Time)
		if !okD || !okE {
			excluded++
			continue
		}
		state, okS := row[stateCol].(string)
		if !okS {
			state = "Unknown"
		}
		sums[state] += daysBetween(estimated, delivered)
		counts[state]++
	}

	if len(counts) == 0 {
		return nil, &AggregationUndefinedError{
			Analytic: "delay_by_state",
			Reason:   "no order carries both delivery and estimate dates",
		}
	}

	groups := make([]StateDelay, 0, len(counts))
	for state, count := range counts {
		groups = append(groups, StateDelay{
			State:         state,
			MeanDelayDays: float64(sums[state]) / float64(count),
			Orders:        count,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].MeanDelayDays != groups[j].MeanDelayDays {
			return groups[i].MeanDelayDays < groups[j].MeanDelayDays
		}
		return groups[i].State < groups[j].State
	})

	return &DelayByState{Groups: groups, ExcludedRows: excluded}, nil
}

// DeliveryTimeByReviewScore groupe les temps de livraison (livré - acheté,
// en jours) par score d'avis et retourne la distribution complète de chaque
// groupe. Les valeurs négatives passent telles quelles : sentinelle de
// données source incohérentes, ni tronquées ni filtrées. L'union des groupes
// couvre exactement les lignes jointes portant les deux dates.
func DeliveryTimeByReviewScore(joined *dataset.Table) (*DeliveryTimeByScore, error) {
	deliveredCol, ok := joined.ColumnIndex("order_delivered_customer_date")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "order_delivered_customer_date", LeftTable: joined.Name()}
	}
	purchasedCol, ok := joined.ColumnIndex("order_purchase_timestamp")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "order_purchase_timestamp", LeftTable: joined.Name()}
	}
	scoreCol, ok := joined.ColumnIndex("review_score")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "review_score", LeftTable: joined.Name()}
	}

	distributions := make(map[string][]int)
	excluded := 0
	for i := 0; i < joined.RowCount(); i++ {
		row := joined.Row(i)
		delivered, okD := row[deliveredCol].(time.Time)
		purchased, okP := row[purchasedCol].(time.Time)
		if !okD || !okP {
			excluded++
			continue
		}
		label := UnscoredLabel
		if score, okS := row[scoreCol].(string); okS {
			label = score
		}
		distributions[label] = append(distributions[label], daysBetween(purchased, delivered))
	}

	if len(distributions) == 0 {
		return nil, &AggregationUndefinedError{
			Analytic: "delivery_time_by_score",
			Reason:   "no joined row carries both purchase and delivery dates",
		}
	}

	groups := make([]ScoreDistribution, 0, len(distributions))
	for score, days := range distributions {
		groups = append(groups, ScoreDistribution{Score: score, DeliveryDays: days})
	}
	sort.Slice(groups, func(i, j int) bool {
		return scoreLess(groups[i].Score, groups[j].Score)
	})

	return &DeliveryTimeByScore{Groups: groups, ExcludedRows: excluded}, nil
}

// ComputeShippingSummary filtre les commandes portant les dates transporteur
// et client, attache la colonne delivery_time_days et retourne la moyenne
// avec le jeu de lignes filtré.
func ComputeShippingSummary(orders *dataset.Table) (*ShippingSummary, error) {
	carrierCol, ok := orders.ColumnIndex("order_delivered_carrier_date")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "order_delivered_carrier_date", LeftTable: orders.Name()}
	}
	deliveredCol, ok := orders.ColumnIndex("order_delivered_customer_date")
	if !ok {
		return nil, &dataset.SchemaMismatchError{Column: "order_delivered_customer_date", LeftTable: orders.Name()}
	}

	total := orders.RowCount()
	filtered := orders.Filter(func(row []any) bool {
		_, okC := row[carrierCol].(time.Time)
		_, okD := row[deliveredCol].(time.Time)
		return okC && okD
	})

	if filtered.RowCount() == 0 {
		return nil, &AggregationUndefinedError{
			Analytic: "shipping_summary",
			Reason:   "no order carries both carrier and customer delivery dates",
		}
	}

	days := make([]int, filtered.RowCount())
	values := make([]any, filtered.RowCount())
	sum := 0
	for i := 0; i < filtered.RowCount(); i++ {
		row := filtered.Row(i)
		carrier := row[carrierCol].(time.Time)
		delivered := row[deliveredCol].(time.Time)
		d := daysBetween(carrier, delivered)
		days[i] = d
		values[i] = d
		sum += d
	}

	rows, err := filtered.WithColumn("delivery_time_days", values)
	if err != nil {
		return nil, err
	}

	return &ShippingSummary{
		MeanDeliveryDays: float64(sum) / float64(len(days)),
		Count:            len(days),
		DeliveryDays:     days,
		ExcludedRows:     total - len(days),
		Rows:             rows,
	}, nil
}

// daysBetween retourne le nombre de jours entiers signés entre deux
// timestamps, arrondi vers le bas (-2.5 jours -> -3).
func daysBetween(from, to time.Time) int {
	return int(math.Floor(to.Sub(from).Hours() / 24))
}

// scoreLess ordonne les scores numériquement quand c'est possible,
// le groupe sans avis toujours en dernier.
func scoreLess(a, b string) bool {
	if a == UnscoredLabel {
		return false
	}
	if b == UnscoredLabel {
		return true
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return fa < fb
	}
	if errA == nil {
		return true
	}
	if errB == nil {
		return false
	}
	return a < b
}
