package http

import (
	"net/http"

	"github.com/DRSN-tech/reco-backend/internal/usecase"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type AnalyticsHandler struct {
	analyticsUsecase usecase.AnalyticsUC
	logger           logger.Logger
}

func NewAnalyticsHandler(analyticsUsecase usecase.AnalyticsUC, logger logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsUsecase: analyticsUsecase, logger: logger}
}

// metrics
//
//	@Summary	Аналитический срез каталога
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}	"Метрики каталога"
//	@Failure	503	{object}	ErrorResponse			"Бэкенд недоступен"
//	@Router		/analytics/metrics [get]
func (h *AnalyticsHandler) metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analyticsUsecase.GetMetrics(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toMetricsResponse(metrics))
}

// categories
//
//	@Summary	Агрегаты по категориям
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}	"Распределение и инсайты категорий"
//	@Router		/analytics/categories [get]
func (h *AnalyticsHandler) categories(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.analyticsUsecase.GetMetrics(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"category_insights":     toCategoryInsights(metrics.CategoryInsights),
		"category_distribution": metrics.Categories,
		"total_categories":      len(metrics.Categories),
	})
}

// similarityAnalysis
//
//	@Summary	Разбор паттернов близости для товара
//	@Tags		analytics
//	@Produce	json
//	@Param		id	path		string					true	"ID товара"
//	@Success	200	{object}	map[string]interface{}	"Анализ похожести"
//	@Failure	404	{object}	ErrorResponse			"Товар не найден"
//	@Router		/analytics/similarity/{id} [get]
func (h *AnalyticsHandler) similarityAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	analysis, err := h.analyticsUsecase.GetSimilarityAnalysis(r.Context(), id)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	var target interface{}
	if analysis.TargetProduct != nil {
		target = toProductResponse(*analysis.TargetProduct)
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"product_id":        analysis.ProductID,
		"target_product":    target,
		"similarity_scores": analysis.SimilarityScores,
		"similarity_statistics": map[string]float64{
			"mean": analysis.ScoreMean,
			"std":  analysis.ScoreStd,
			"min":  analysis.ScoreMin,
			"max":  analysis.ScoreMax,
		},
		"category_distribution": analysis.CategoryDistribution,
		"price_similarity": map[string]interface{}{
			"target_price":   analysis.TargetPrice,
			"similar_prices": analysis.SimilarPrices,
			"price_variance": analysis.PriceVariance,
			"price_min":      analysis.PriceMin,
			"price_max":      analysis.PriceMax,
		},
	})
}

// qualityReport
//
//	@Summary	Отчёт о качестве рекомендаций
//	@Description	Прогоняет батарею тестовых запросов и агрегирует похожесть и разнообразие выдачи
//	@Tags		analytics
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}	"Метрики качества"
//	@Router		/analytics/quality [get]
func (h *AnalyticsHandler) qualityReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.analyticsUsecase.GetQualityReport(r.Context())
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	queryMetrics := make([]map[string]interface{}, 0, len(report.Metrics))
	for _, m := range report.Metrics {
		queryMetrics = append(queryMetrics, map[string]interface{}{
			"query":              m.Query,
			"recommendations":    m.Recommendations,
			"average_similarity": m.AverageSimilarity,
			"max_similarity":     m.MaxSimilarity,
			"min_similarity":     m.MinSimilarity,
			"category_diversity": m.CategoryDiversity,
		})
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"test_queries":       report.TestQueries,
		"successful_queries": report.SuccessfulQueries,
		"failed_queries":     report.FailedQueries,
		"query_metrics":      queryMetrics,
		"average_similarity": report.AverageSimilarity,
		"average_diversity":  report.AverageDiversity,
		"overall_score":      report.OverallScore,
	})
}

// embeddingsProjection
//
//	@Summary	Проекция эмбеддингов для визуализации
//	@Tags		analytics
//	@Produce	json
//	@Param		method			query		string					false	"Метод: pca или tsne (default pca)"
//	@Param		n_components	query		int						false	"Число компонент: 2 или 3 (default 2)"
//	@Success	200				{object}	map[string]interface{}	"Координаты и метаданные точек"
//	@Failure	400				{object}	ErrorResponse			"Некорректные параметры"
//	@Router		/analytics/embeddings-2d [get]
func (h *AnalyticsHandler) embeddingsProjection(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("method")
	if method == "" {
		method = "pca"
	}

	components, err := parseIntQuery(r, "n_components", 2)
	if err != nil {
		WriteError(w, err)
		return
	}

	res, err := h.analyticsUsecase.GetEmbeddingsProjection(r.Context(), usecase.NewProjectionReq(method, components))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	coordinates := make([][]float64, 0, len(res.Points))
	metadata := make([]map[string]interface{}, 0, len(res.Points))
	for _, point := range res.Points {
		coordinates = append(coordinates, point.Coordinates)
		metadata = append(metadata, map[string]interface{}{
			"product_id": point.ProductID,
			"name":       point.Name,
			"category":   point.Category,
			"price":      point.Price,
		})
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"coordinates":  coordinates,
		"metadata":     metadata,
		"method":       res.Method,
		"n_components": res.Components,
	})
}

func toMetricsResponse(metrics *usecase.AnalyticsMetrics) map[string]interface{} {
	return map[string]interface{}{
		"total_products":    metrics.TotalProducts,
		"categories":        metrics.Categories,
		"category_insights": toCategoryInsights(metrics.CategoryInsights),
		"price_statistics": map[string]float64{
			"min":    metrics.PriceStatistics.Min,
			"max":    metrics.PriceStatistics.Max,
			"mean":   metrics.PriceStatistics.Mean,
			"median": metrics.PriceStatistics.Median,
			"std":    metrics.PriceStatistics.Std,
		},
		"price_ranges": map[string]int{
			"budget":    metrics.PriceRanges.Budget,
			"mid_range": metrics.PriceRanges.MidRange,
			"premium":   metrics.PriceRanges.Premium,
		},
	}
}

func toCategoryInsights(insights map[string]usecase.CategoryInsight) map[string]map[string]interface{} {
	result := make(map[string]map[string]interface{}, len(insights))
	for category, insight := range insights {
		result[category] = map[string]interface{}{
			"count":      insight.Count,
			"percentage": insight.Percentage,
			"avg_price":  insight.AvgPrice,
			"price_range": map[string]float64{
				"min": insight.PriceMin,
				"max": insight.PriceMax,
			},
		}
	}

	return result
}
