package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
)

// Синтетическая оценка для трендовых товаров: реального сигнала
// популярности пока нет, ранжирование идёт по цене.
const trendingScore = 0.9

// RecommendationUseCase — движок рекомендаций: оркестрирует векторизацию
// запроса, поиск в индексе, фильтрацию по порогу близости, ранжирование
// и генерацию обоснований.
type RecommendationUseCase struct {
	vectorRepo VectorRepository
	embedder   EmbedderInfra
	engineCfg  *cfg.EngineCfg
	logger     logger.Logger
}

func NewRecommendationUC(
	vectorRepo VectorRepository,
	embedder EmbedderInfra,
	engineCfg *cfg.EngineCfg,
	logger logger.Logger,
) *RecommendationUseCase {
	return &RecommendationUseCase{
		vectorRepo: vectorRepo,
		embedder:   embedder,
		engineCfg:  engineCfg,
		logger:     logger,
	}
}

// GetRecommendations возвращает до TopK товаров, ранжированных по близости
// к текстовому запросу. Кандидаты с оценкой ниже порога отбрасываются,
// даже если идеально совпали по категории и цене.
func (r *RecommendationUseCase) GetRecommendations(ctx context.Context, req *RecommendReq) ([]domain.Recommendation, error) {
	const op = "RecommendationUseCase.GetRecommendations"

	topK, err := r.resolveTopK(req.TopK)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if strings.TrimSpace(req.Query) == "" {
		return nil, e.Wrap(op, e.ErrQueryRequired)
	}

	filter, err := r.buildFilter(req.Category, req.PriceMin, req.PriceMax)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	vector, err := r.embedQuery(ctx, req.Query)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// Двукратная передискретизация компенсирует кандидатов,
	// которые отсеет порог близости.
	matches, err := r.queryIndex(ctx, vector, uint64(topK*2), filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	recommendations := make([]domain.Recommendation, 0, len(matches))
	for _, match := range matches {
		if match.Score < r.engineCfg.SimilarityThreshold {
			continue
		}

		reason := buildReason(match.Score, match.Product.Category, match.Product.Price)
		recommendations = append(recommendations, domain.NewRecommendation(match.Product, match.Score, reason))
	}

	// Стабильная сортировка: равные оценки сохраняют исходный порядок
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})

	return truncate(recommendations, topK), nil
}

// GetSimilarProducts возвращает товары, похожие на указанный. Отсутствие
// товара с таким ID — это NotFound, а не ошибка бэкенда.
func (r *RecommendationUseCase) GetSimilarProducts(ctx context.Context, req *SimilarReq) ([]domain.Recommendation, error) {
	const op = "RecommendationUseCase.GetSimilarProducts"

	topK, err := r.resolveTopK(req.TopK)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	target, err := r.fetchProduct(ctx, req.ProductID)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	vector, err := r.embedQuery(ctx, target.EmbeddingText())
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	// +1 — сам товар почти наверняка окажется ближайшим соседом себя
	limit := uint64(topK)
	if req.ExcludeSelf {
		limit++
	}

	matches, err := r.queryIndex(ctx, vector, limit, nil)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	recommendations := make([]domain.Recommendation, 0, len(matches))
	for _, match := range matches {
		if req.ExcludeSelf && match.Product.ID == req.ProductID {
			continue
		}

		reason := fmt.Sprintf("Similar to %s", target.Name)
		recommendations = append(recommendations, domain.NewRecommendation(match.Product, match.Score, reason))
	}

	return truncate(recommendations, topK), nil
}

// GetCategoryRecommendations подбирает товары внутри категории, используя
// имя категории как текст запроса. Порог близости здесь не применяется:
// просмотр категории не должен молча терять товары.
func (r *RecommendationUseCase) GetCategoryRecommendations(ctx context.Context, req *CategoryReq) ([]domain.Recommendation, error) {
	const op = "RecommendationUseCase.GetCategoryRecommendations"

	topK, err := r.resolveTopK(req.TopK)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if strings.TrimSpace(req.Category) == "" {
		return nil, e.Wrap(op, e.ErrCategoryRequired)
	}

	filter, err := r.buildFilter(&req.Category, req.PriceMin, req.PriceMax)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	vector, err := r.embedQuery(ctx, req.Category)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	matches, err := r.queryIndex(ctx, vector, uint64(topK), filter)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	recommendations := make([]domain.Recommendation, 0, len(matches))
	for _, match := range matches {
		reason := fmt.Sprintf("Popular in %s category", req.Category)
		recommendations = append(recommendations, domain.NewRecommendation(match.Product, match.Score, reason))
	}

	return recommendations, nil
}

// GetTrendingProducts ранжирует товары по убыванию цены как прокси
// популярности. Временная политика до появления реальных метрик
// (просмотры, покупки); векторный поиск здесь не используется.
func (r *RecommendationUseCase) GetTrendingProducts(ctx context.Context, topK int) ([]domain.Recommendation, error) {
	const op = "RecommendationUseCase.GetTrendingProducts"

	topK, err := r.resolveTopK(topK)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	scanCtx, cancel := r.backendCtx(ctx)
	defer cancel()

	products, err := r.vectorRepo.Scan(scanCtx, r.engineCfg.TrendingScanLimit, 0)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Price > products[j].Price
	})

	trending := make([]domain.Recommendation, 0, topK)
	for _, product := range products {
		if len(trending) == topK {
			break
		}
		trending = append(trending, domain.NewRecommendation(product, trendingScore, "Trending product"))
	}

	return trending, nil
}

// resolveTopK подставляет значение по умолчанию и валидирует границы
// до любых внешних вызовов.
func (r *RecommendationUseCase) resolveTopK(topK int) (int, error) {
	if topK == 0 {
		return r.engineCfg.DefaultTopK, nil
	}

	if topK < 0 {
		return 0, e.ErrInvalidTopK
	}

	if topK > r.engineCfg.MaxTopK {
		return 0, e.ErrTopKTooLarge
	}

	return topK, nil
}

// buildFilter собирает спецификацию фильтра из входных ограничений.
func (r *RecommendationUseCase) buildFilter(category *string, priceMin, priceMax *float64) (*domain.Filter, error) {
	if priceMin != nil && priceMax != nil && *priceMin > *priceMax {
		return nil, e.ErrInvalidPriceRange
	}

	return domain.NewFilter(category, priceMin, priceMax), nil
}

// embedQuery векторизует текст запроса; недоступность эмбеддера
// пробрасывается как ошибка бэкенда.
func (r *RecommendationUseCase) embedQuery(ctx context.Context, text string) ([]float32, error) {
	embedCtx, cancel := r.backendCtx(ctx)
	defer cancel()

	vector, err := r.embedder.Embed(embedCtx, text)
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrBackendUnavailable)
	}

	if len(vector) == 0 {
		return nil, e.ErrEmptyVector
	}

	return vector, nil
}

// queryIndex выполняет поиск в векторном индексе с бюджетом времени.
func (r *RecommendationUseCase) queryIndex(ctx context.Context, vector []float32, limit uint64, filter *domain.Filter) ([]domain.Match, error) {
	queryCtx, cancel := r.backendCtx(ctx)
	defer cancel()

	matches, err := r.vectorRepo.Query(queryCtx, vector, limit, filter)
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrBackendUnavailable)
	}

	return matches, nil
}

// fetchProduct получает товар по ID, различая «не найден» и «бэкенд недоступен».
func (r *RecommendationUseCase) fetchProduct(ctx context.Context, productID string) (*domain.Product, error) {
	fetchCtx, cancel := r.backendCtx(ctx)
	defer cancel()

	product, err := r.vectorRepo.Fetch(fetchCtx, productID)
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrBackendUnavailable)
	}

	if product == nil {
		return nil, e.ErrProductNotFound
	}

	return product, nil
}

// backendCtx ограничивает внешний вызов настроенным бюджетом времени.
func (r *RecommendationUseCase) backendCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.engineCfg.BackendTimeout)
}

// buildReason — детерминированная функция (score, category, price) → текст.
// Присутствующие клаузы соединяются через "; ".
func buildReason(score float32, category string, price float64) string {
	reasons := make([]string, 0, 3)

	switch {
	case score > 0.9:
		reasons = append(reasons, "Highly similar to your search")
	case score > 0.8:
		reasons = append(reasons, "Very similar to your search")
	case score > 0.7:
		reasons = append(reasons, "Similar to your search")
	}

	if category != "" {
		reasons = append(reasons, fmt.Sprintf("Popular in %s category", category))
	}

	if price > 1000 {
		reasons = append(reasons, "Premium quality")
	} else if price > 0 && price < 200 {
		reasons = append(reasons, "Great value")
	}

	if len(reasons) == 0 {
		return "Recommended for you"
	}

	return strings.Join(reasons, "; ")
}

func truncate(recommendations []domain.Recommendation, topK int) []domain.Recommendation {
	if len(recommendations) > topK {
		return recommendations[:topK]
	}

	return recommendations
}
