package application

import (
	"time"

	"ecomdash/internal/analytics/domain"
	"ecomdash/internal/cleaning"
	"ecomdash/internal/dataset"
	"ecomdash/internal/metrics"
	sharedinfra "ecomdash/internal/shared/infrastructure"
)

// PreviewRows est le nombre de lignes d'aperçu par table.
const PreviewRows = 5

// DashboardService orchestre le pipeline chargement -> nettoyage ->
// jointure -> agrégation. Le snapshot nettoyé est mémoïsé par session
// (clé = empreinte des fichiers source, TTL configurable) ; les jointures
// sont reconstruites à chaque appel et les agrégateurs restent des
// fonctions pures, sans état partagé entre les analyses.
type DashboardService struct {
	loader   *dataset.Loader
	cache    sharedinfra.Cache
	cacheTTL time.Duration
	registry *metrics.Registry
}

// session contient les tables nettoyées d'un snapshot, immutables pour le
// reste de la session.
type session struct {
	snapshot  *dataset.Snapshot
	orders    *dataset.Table // dates parsées
	customers *dataset.Table // customer_state rempli avec la sentinelle
}

// NewDashboardService crée une nouvelle instance de DashboardService.
// Le registry peut être nil (tests).
func NewDashboardService(
	loader *dataset.Loader,
	cache sharedinfra.Cache,
	cacheTTL time.Duration,
	registry *metrics.Registry,
) *DashboardService {
	return &DashboardService{
		loader:   loader,
		cache:    cache,
		cacheTTL: cacheTTL,
		registry: registry,
	}
}

// session retourne la session courante, en la chargeant si l'empreinte des
// fichiers a changé ou si l'entrée de cache a expiré.
func (s *DashboardService) session() (*session, error) {
	fingerprint, err := s.loader.Fingerprint()
	if err != nil {
		return nil, err
	}
	key := sharedinfra.NewCacheKeyBuilder().
		Add("session").
		Add(fingerprint).
		Build()

	if cached, found := s.cache.Get(key); found {
		if s.registry != nil {
			s.registry.CacheHits.Inc()
		}
		return cached.(*session), nil
	}
	if s.registry != nil {
		s.registry.CacheMisses.Inc()
	}

	start := time.Now()
	snapshot, err := s.loader.LoadAll()
	if err != nil {
		return nil, err
	}

	sess := &session{
		snapshot:  snapshot,
		orders:    cleaning.CleanOrders(snapshot.Orders),
		customers: cleaning.FillMissing(snapshot.Customers, "customer_state", cleaning.UnknownState),
	}
	if s.registry != nil {
		s.registry.SnapshotLoads.Inc()
		s.registry.SnapshotLoadSec.Observe(time.Since(start).Seconds())
	}

	s.cache.Set(key, sess, s.cacheTTL)
	return sess, nil
}

// InvalidateSession vide le cache, forçant un rechargement au prochain accès.
func (s *DashboardService) InvalidateSession() {
	s.cache.Clear()
}

// Snapshot retourne les tables de base brutes de la session courante.
func (s *DashboardService) Snapshot() (*dataset.Snapshot, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	return sess.snapshot, nil
}

// itemsWithCategories attache catégorie et nom anglais aux lignes de
// commande : produits fusionnés avec les traductions puis jointure gauche
// des articles sur product_id (gauche pour préserver tous les articles même
// sans métadonnées produit).
func (s *DashboardService) itemsWithCategories(sess *session) (*dataset.Table, error) {
	products, err := cleaning.MergeProductTranslations(sess.snapshot.Products, sess.snapshot.CategoryTranslations)
	if err != nil {
		return nil, err
	}
	return dataset.Join(sess.snapshot.OrderItems, products, "product_id", dataset.JoinLeft)
}

// ordersWithState attache customer_state à chaque commande (jointure
// gauche : une commande sans client correspondant garde un état nil, traité
// comme Unknown par l'agrégateur).
func (s *DashboardService) ordersWithState(sess *session) (*dataset.Table, error) {
	customers, err := sess.customers.Select("customer_id", "customer_state")
	if err != nil {
		return nil, err
	}
	return dataset.Join(sess.orders, customers, "customer_id", dataset.JoinLeft)
}

// JoinedOrderItems produit la table dénormalisée commandes ⋈ clients ⋈
// articles ⋈ avis : une ligne par combinaison (commande, article, avis),
// une commande à plusieurs avis démultipliant ses lignes. Réutilisée par
// l'analyse score/livraison et par l'export.
func (s *DashboardService) JoinedOrderItems() (*dataset.Table, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	return s.joinedOrderItems(sess)
}

func (s *DashboardService) joinedOrderItems(sess *session) (*dataset.Table, error) {
	orders, err := s.ordersWithState(sess)
	if err != nil {
		return nil, err
	}
	items, err := s.itemsWithCategories(sess)
	if err != nil {
		return nil, err
	}
	joined, err := dataset.Join(orders, items, "order_id", dataset.JoinInner)
	if err != nil {
		return nil, err
	}
	reviews, err := sess.snapshot.OrderReviews.Select("order_id", "review_score")
	if err != nil {
		return nil, err
	}
	return dataset.Join(joined, reviews, "order_id", dataset.JoinLeft)
}

// TopCategories retourne le top-n des catégories par articles vendus.
func (s *DashboardService) TopCategories(n int) (*domain.CategoryRanking, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	items, err := s.itemsWithCategories(sess)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}
	ranking, err := domain.TopCategories(items, n)
	s.countOutcome(err)
	return ranking, err
}

// DelayByState retourne le retard de livraison moyen par état client.
func (s *DashboardService) DelayByState() (*domain.DelayByState, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	orders, err := s.ordersWithState(sess)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}
	delays, err := domain.MeanDelayByState(orders)
	s.countOutcome(err)
	return delays, err
}

// DeliveryTimeByScore retourne la distribution des temps de livraison par
// score d'avis.
func (s *DashboardService) DeliveryTimeByScore() (*domain.DeliveryTimeByScore, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	joined, err := s.joinedOrderItems(sess)
	if err != nil {
		s.countOutcome(err)
		return nil, err
	}
	result, err := domain.DeliveryTimeByReviewScore(joined)
	s.countOutcome(err)
	return result, err
}

// Shipping retourne le résumé des temps transporteur -> client.
func (s *DashboardService) Shipping() (*domain.ShippingSummary, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	summary, err := domain.ComputeShippingSummary(sess.orders)
	s.countOutcome(err)
	return summary, err
}

// Previews retourne l'aperçu des sept tables de base, dans l'ordre stable
// du snapshot.
func (s *DashboardService) Previews() ([]*dataset.TablePreview, error) {
	sess, err := s.session()
	if err != nil {
		return nil, err
	}
	tables := sess.snapshot.Tables()
	previews := make([]*dataset.TablePreview, 0, len(tables))
	for _, table := range tables {
		previews = append(previews, dataset.Preview(table, PreviewRows))
	}
	return previews, nil
}

// countOutcome incrémente les compteurs de résultats servis/abandonnés.
func (s *DashboardService) countOutcome(err error) {
	if s.registry == nil {
		return
	}
	if err != nil {
		s.registry.AnalyticsSkipped.Inc()
		return
	}
	s.registry.AnalyticsServed.Inc()
}
