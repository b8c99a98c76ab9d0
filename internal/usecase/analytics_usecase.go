package usecase

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/DRSN-tech/reco-backend/pkg/projection"
	"gonum.org/v1/gonum/stat"
)

// Батарея тестовых запросов для оценки качества рекомендаций.
var qualityTestQueries = []string{
	"modern sofa",
	"office chair",
	"dining table",
	"bedroom furniture",
	"storage solutions",
}

// Веса итоговой оценки качества: близость важнее разнообразия.
const (
	qualitySimilarityWeight = 0.7
	qualityDiversityWeight  = 0.3
)

// AnalyticsUseCase считает описательную статистику каталога и метрики
// качества рекомендаций. Всё вычисляется заново на каждый запрос по
// ограниченному скану каталога: выше лимита аналитика заведомо
// приблизительная.
type AnalyticsUseCase struct {
	vectorRepo VectorRepository
	recUC      RecommendationUC
	engineCfg  *cfg.EngineCfg
	logger     logger.Logger
}

func NewAnalyticsUC(
	vectorRepo VectorRepository,
	recUC RecommendationUC,
	engineCfg *cfg.EngineCfg,
	logger logger.Logger,
) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		vectorRepo: vectorRepo,
		recUC:      recUC,
		engineCfg:  engineCfg,
		logger:     logger,
	}
}

// GetMetrics возвращает полный аналитический срез каталога.
func (a *AnalyticsUseCase) GetMetrics(ctx context.Context) (*AnalyticsMetrics, error) {
	const op = "AnalyticsUseCase.GetMetrics"

	products, err := a.scanCatalog(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	metrics := &AnalyticsMetrics{
		TotalProducts:    len(products),
		Categories:       make(map[string]int),
		CategoryInsights: make(map[string]CategoryInsight),
	}

	if len(products) == 0 {
		return metrics, nil
	}

	prices := make([]float64, 0, len(products))
	categoryPrices := make(map[string][]float64)
	for _, product := range products {
		category := product.Category
		if category == "" {
			category = "Unknown"
		}
		metrics.Categories[category]++

		if product.Price > 0 {
			prices = append(prices, product.Price)
			categoryPrices[category] = append(categoryPrices[category], product.Price)
		}
	}

	metrics.PriceStatistics = priceStatistics(prices)
	metrics.PriceRanges = priceRanges(prices)

	for category, count := range metrics.Categories {
		insight := CategoryInsight{
			Count:      count,
			Percentage: math.Round(float64(count)/float64(len(products))*100*100) / 100,
		}

		if catPrices := categoryPrices[category]; len(catPrices) > 0 {
			insight.AvgPrice = stat.Mean(catPrices, nil)
			insight.PriceMin, insight.PriceMax = minMax(catPrices)
		}

		metrics.CategoryInsights[category] = insight
	}

	return metrics, nil
}

// GetSimilarityAnalysis разбирает паттерны близости для одного товара:
// статистику оценок соседей, распределение категорий и разброс цен.
func (a *AnalyticsUseCase) GetSimilarityAnalysis(ctx context.Context, productID string) (*SimilarityAnalysis, error) {
	const op = "AnalyticsUseCase.GetSimilarityAnalysis"
	const neighbours = 10

	similar, err := a.recUC.GetSimilarProducts(ctx, NewSimilarReq(productID, neighbours, true))
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	analysis := &SimilarityAnalysis{
		ProductID:            productID,
		CategoryDistribution: make(map[string]int),
	}

	fetchCtx, cancel := context.WithTimeout(ctx, a.engineCfg.BackendTimeout)
	defer cancel()

	target, err := a.vectorRepo.Fetch(fetchCtx, productID)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}
	if target != nil {
		analysis.TargetProduct = target
		analysis.TargetPrice = target.Price
	}

	if len(similar) == 0 {
		return analysis, nil
	}

	scores := make([]float64, 0, len(similar))
	for _, rec := range similar {
		analysis.SimilarityScores = append(analysis.SimilarityScores, rec.Score)
		scores = append(scores, float64(rec.Score))

		category := rec.Product.Category
		if category == "" {
			category = "Unknown"
		}
		analysis.CategoryDistribution[category]++

		analysis.SimilarPrices = append(analysis.SimilarPrices, rec.Product.Price)
	}

	analysis.ScoreMean = stat.Mean(scores, nil)
	analysis.ScoreStd = math.Sqrt(stat.Variance(scores, nil))
	analysis.ScoreMin, analysis.ScoreMax = minMax(scores)

	analysis.PriceVariance = stat.Variance(analysis.SimilarPrices, nil)
	analysis.PriceMin, analysis.PriceMax = minMax(analysis.SimilarPrices)

	return analysis, nil
}

// GetQualityReport прогоняет батарею тестовых запросов через движок и
// сводит среднюю близость и разнообразие категорий в общую оценку.
// Ошибки отдельных запросов учитываются, а не проглатываются.
func (a *AnalyticsUseCase) GetQualityReport(ctx context.Context) (*QualityReport, error) {
	var (
		mu      sync.Mutex
		metrics []QueryQuality
		failed  int
	)

	var wg sync.WaitGroup
	for _, query := range qualityTestQueries {
		wg.Add(1)
		go func() {
			defer wg.Done()

			recommendations, err := a.recUC.GetRecommendations(ctx, NewRecommendReq(query, 0, nil, nil, nil))
			if err != nil {
				a.logger.Warnf("Quality test query %q failed: %v", query, err)
				mu.Lock()
				failed++
				mu.Unlock()
				return
			}

			if len(recommendations) == 0 {
				return
			}

			mu.Lock()
			metrics = append(metrics, analyzeQuality(query, recommendations))
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Детерминированный порядок отчёта независимо от завершения горутин
	sort.Slice(metrics, func(i, j int) bool { return metrics[i].Query < metrics[j].Query })

	report := &QualityReport{
		TestQueries:       len(qualityTestQueries),
		SuccessfulQueries: len(qualityTestQueries) - failed,
		FailedQueries:     failed,
		Metrics:           metrics,
	}

	if len(metrics) == 0 {
		return report, nil
	}

	similarities := make([]float64, 0, len(metrics))
	diversities := make([]float64, 0, len(metrics))
	for _, m := range metrics {
		similarities = append(similarities, m.AverageSimilarity)
		diversities = append(diversities, float64(m.CategoryDiversity))
	}

	report.AverageSimilarity = stat.Mean(similarities, nil)
	report.AverageDiversity = stat.Mean(diversities, nil)
	report.OverallScore = report.AverageSimilarity*qualitySimilarityWeight + report.AverageDiversity*qualityDiversityWeight

	return report, nil
}

// GetEmbeddingsProjection проецирует хранимые векторы каталога в 2-3
// координаты для визуализации. Инструмент приблизительный и не влияет
// на ранжирование.
func (a *AnalyticsUseCase) GetEmbeddingsProjection(ctx context.Context, req *ProjectionReq) (*ProjectionRes, error) {
	const op = "AnalyticsUseCase.GetEmbeddingsProjection"

	method, err := projection.ParseMethod(req.Method)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if req.Components < 2 || req.Components > 3 {
		return nil, e.Wrap(op, e.ErrInvalidRequest)
	}

	scanCtx, cancel := context.WithTimeout(ctx, a.engineCfg.BackendTimeout)
	defer cancel()

	vectors, err := a.vectorRepo.ScanVectors(scanCtx, a.engineCfg.AnalyticsScanLimit)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	res := &ProjectionRes{
		Method:     string(method),
		Components: req.Components,
	}

	if len(vectors) == 0 {
		return res, nil
	}

	matrix := make([][]float64, len(vectors))
	for i, pv := range vectors {
		row := make([]float64, len(pv.Vector))
		for j, v := range pv.Vector {
			row[j] = float64(v)
		}
		matrix[i] = row
	}

	coordinates, err := projection.Reduce(method, matrix, req.Components)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	res.Points = make([]ProjectedPoint, len(vectors))
	for i, pv := range vectors {
		res.Points[i] = ProjectedPoint{
			ProductID:   pv.Product.ID,
			Name:        pv.Product.Name,
			Category:    pv.Product.Category,
			Price:       pv.Product.Price,
			Coordinates: coordinates[i],
		}
	}

	return res, nil
}

// scanCatalog читает ограниченный срез каталога для аналитики.
func (a *AnalyticsUseCase) scanCatalog(ctx context.Context) ([]domain.Product, error) {
	scanCtx, cancel := context.WithTimeout(ctx, a.engineCfg.BackendTimeout)
	defer cancel()

	products, err := a.vectorRepo.Scan(scanCtx, a.engineCfg.AnalyticsScanLimit, 0)
	if err != nil {
		return nil, e.Wrap(err.Error(), e.ErrBackendUnavailable)
	}

	return products, nil
}

// analyzeQuality сводит метрики качества одной выдачи.
func analyzeQuality(query string, recommendations []domain.Recommendation) QueryQuality {
	scores := make([]float64, 0, len(recommendations))
	categories := make(map[string]struct{})
	for _, rec := range recommendations {
		scores = append(scores, float64(rec.Score))
		categories[rec.Product.Category] = struct{}{}
	}

	minScore, maxScore := minMax(scores)

	return QueryQuality{
		Query:             query,
		Recommendations:   len(recommendations),
		AverageSimilarity: stat.Mean(scores, nil),
		MaxSimilarity:     maxScore,
		MinSimilarity:     minScore,
		CategoryDiversity: len(categories),
	}
}

// priceStatistics — min/max/mean/median/std по ценам каталога.
func priceStatistics(prices []float64) PriceStatistics {
	if len(prices) == 0 {
		return PriceStatistics{}
	}

	sorted := make([]float64, len(prices))
	copy(sorted, prices)
	sort.Float64s(sorted)

	minPrice, maxPrice := sorted[0], sorted[len(sorted)-1]

	var std float64
	if len(prices) > 1 {
		std = math.Sqrt(stat.Variance(prices, nil))
	}

	return PriceStatistics{
		Min:    minPrice,
		Max:    maxPrice,
		Mean:   stat.Mean(prices, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Std:    std,
	}
}

// priceRanges — детерминированное разбиение цен на сегменты:
// каждая цена попадает ровно в один сегмент.
func priceRanges(prices []float64) PriceRanges {
	var ranges PriceRanges
	for _, price := range prices {
		switch {
		case price < 200:
			ranges.Budget++
		case price < 800:
			ranges.MidRange++
		default:
			ranges.Premium++
		}
	}

	return ranges
}

func minMax(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}

	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	return minVal, maxVal
}
