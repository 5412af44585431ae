package domain

import (
	"strconv"
	"time"
)

// exportTimeLayout est le format des dates exportées.
const exportTimeLayout = "2006-01-02 15:04:05"

// OrderLineExport représente une ligne de la table dénormalisée
// commandes ⋈ clients ⋈ articles ⋈ avis, prête pour l'export CSV/Parquet.
// Les champs string vides et DeliveryTimeDays à -1 marquent une valeur
// absente dans la source.
type OrderLineExport struct {
	OrderID          string
	CustomerState    string
	PurchaseDate     time.Time
	DeliveredDate    time.Time
	Delivered        bool
	ProductID        string
	Category         string
	CategoryEnglish  string
	ReviewScore      string
	DeliveryTimeDays int32
}

// CSVHeaders retourne les en-têtes CSV.
func CSVHeaders() []string {
	return []string{
		"order_id",
		"customer_state",
		"order_purchase_timestamp",
		"order_delivered_customer_date",
		"product_id",
		"product_category_name",
		"product_category_name_english",
		"review_score",
		"delivery_time_days",
	}
}

// ToCSVRow convertit la ligne en tableau pour le writer CSV.
func (r *OrderLineExport) ToCSVRow() []string {
	purchase := ""
	if !r.PurchaseDate.IsZero() {
		purchase = r.PurchaseDate.Format(exportTimeLayout)
	}
	delivered := ""
	if r.Delivered {
		delivered = r.DeliveredDate.Format(exportTimeLayout)
	}
	days := ""
	if r.Delivered && !r.PurchaseDate.IsZero() {
		days = strconv.Itoa(int(r.DeliveryTimeDays))
	}
	return []string{
		r.OrderID,
		r.CustomerState,
		purchase,
		delivered,
		r.ProductID,
		r.Category,
		r.CategoryEnglish,
		r.ReviewScore,
		days,
	}
}

// OrderLineParquet est la structure optimisée pour l'export Parquet.
type OrderLineParquet struct {
	OrderID          string `parquet:"name=order_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	CustomerState    string `parquet:"name=customer_state, type=BYTE_ARRAY, convertedtype=UTF8"`
	PurchaseDate     string `parquet:"name=order_purchase_timestamp, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeliveredDate    string `parquet:"name=order_delivered_customer_date, type=BYTE_ARRAY, convertedtype=UTF8"`
	ProductID        string `parquet:"name=product_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Category         string `parquet:"name=product_category_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	CategoryEnglish  string `parquet:"name=product_category_name_english, type=BYTE_ARRAY, convertedtype=UTF8"`
	ReviewScore      string `parquet:"name=review_score, type=BYTE_ARRAY, convertedtype=UTF8"`
	DeliveryTimeDays int32  `parquet:"name=delivery_time_days, type=INT32"`
}

// ToParquet convertit la ligne vers sa représentation Parquet.
func (r *OrderLineExport) ToParquet() OrderLineParquet {
	row := OrderLineParquet{
		OrderID:          r.OrderID,
		CustomerState:    r.CustomerState,
		ProductID:        r.ProductID,
		Category:         r.Category,
		CategoryEnglish:  r.CategoryEnglish,
		ReviewScore:      r.ReviewScore,
		DeliveryTimeDays: r.DeliveryTimeDays,
	}
	if !r.PurchaseDate.IsZero() {
		row.PurchaseDate = r.PurchaseDate.Format(exportTimeLayout)
	}
	if r.Delivered {
		row.DeliveredDate = r.DeliveredDate.Format(exportTimeLayout)
	}
	return row
}
