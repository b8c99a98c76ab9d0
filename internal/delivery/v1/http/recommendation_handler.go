package http

import (
	"encoding/json"
	"net/http"

	"github.com/DRSN-tech/reco-backend/internal/usecase"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

type RecommendationHandler struct {
	recUsecase usecase.RecommendationUC
	logger     logger.Logger
}

func NewRecommendationHandler(recUsecase usecase.RecommendationUC, logger logger.Logger) *RecommendationHandler {
	return &RecommendationHandler{recUsecase: recUsecase, logger: logger}
}

type recommendationRequest struct {
	Query          string   `json:"query"`
	TopK           int      `json:"top_k"`
	CategoryFilter *string  `json:"category_filter"`
	PriceMin       *float64 `json:"price_min"`
	PriceMax       *float64 `json:"price_max"`
}

// recommend
//
//	@Summary		Рекомендации по текстовому запросу
//	@Description	Семантический поиск с фильтрами по категории и цене, порогом похожести и объяснениями
//	@Tags			recommendations
//	@Accept			json
//	@Produce		json
//	@Param			request	body		recommendationRequest	true	"Запрос и фильтры"
//	@Success		200		{object}	map[string]interface{}	"Ранжированные рекомендации"
//	@Failure		400		{object}	ErrorResponse			"Ошибка валидации"
//	@Failure		503		{object}	ErrorResponse			"Бэкенд недоступен"
//	@Router			/products/recommend [post]
func (h *RecommendationHandler) recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, e.ErrInvalidRequest)
		return
	}

	recs, err := h.recUsecase.GetRecommendations(r.Context(),
		usecase.NewRecommendReq(req.Query, req.TopK, req.CategoryFilter, req.PriceMin, req.PriceMax))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"query":           req.Query,
		"recommendations": toRecommendationResponses(recs),
		"total":           len(recs),
		"filters_applied": map[string]interface{}{
			"category":  req.CategoryFilter,
			"price_min": req.PriceMin,
			"price_max": req.PriceMax,
		},
	})
}

// similarProducts
//
//	@Summary	Товары, похожие на указанный
//	@Tags		recommendations
//	@Produce	json
//	@Param		id				path		string					true	"ID товара-образца"
//	@Param		top_k			query		int						false	"Размер выдачи (default 5)"
//	@Param		exclude_self	query		bool					false	"Исключить сам товар (default true)"
//	@Success	200				{object}	map[string]interface{}	"Похожие товары"
//	@Failure	404				{object}	ErrorResponse			"Товар не найден"
//	@Router		/products/{id}/similar [get]
func (h *RecommendationHandler) similarProducts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	topK, err := parseIntQuery(r, "top_k", 0)
	if err != nil {
		WriteError(w, err)
		return
	}
	excludeSelf := parseBoolQuery(r, "exclude_self", true)

	recs, err := h.recUsecase.GetSimilarProducts(r.Context(), usecase.NewSimilarReq(id, topK, excludeSelf))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"product_id":       id,
		"similar_products": toRecommendationResponses(recs),
		"total":            len(recs),
	})
}

// categoryProducts
//
//	@Summary	Подборка товаров категории
//	@Tags		recommendations
//	@Produce	json
//	@Param		category	path		string					true	"Категория"
//	@Param		top_k		query		int						false	"Размер выдачи (default 10)"
//	@Param		price_min	query		number					false	"Нижняя граница цены"
//	@Param		price_max	query		number					false	"Верхняя граница цены"
//	@Success	200			{object}	map[string]interface{}	"Товары категории"
//	@Failure	400			{object}	ErrorResponse			"Ошибка валидации"
//	@Router		/products/category/{category} [get]
func (h *RecommendationHandler) categoryProducts(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	topK, err := parseIntQuery(r, "top_k", 10)
	if err != nil {
		WriteError(w, err)
		return
	}

	priceMin, err := parseFloatQuery(r, "price_min")
	if err != nil {
		WriteError(w, err)
		return
	}

	priceMax, err := parseFloatQuery(r, "price_max")
	if err != nil {
		WriteError(w, err)
		return
	}

	recs, err := h.recUsecase.GetCategoryRecommendations(r.Context(),
		usecase.NewCategoryReq(category, topK, priceMin, priceMax))
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"category": category,
		"products": toRecommendationResponses(recs),
		"total":    len(recs),
		"filters": map[string]interface{}{
			"price_min": priceMin,
			"price_max": priceMax,
		},
	})
}

// trendingProducts
//
//	@Summary	Трендовые товары
//	@Tags		recommendations
//	@Produce	json
//	@Param		top_k	query		int						false	"Размер выдачи (default 10)"
//	@Success	200		{object}	map[string]interface{}	"Трендовые товары"
//	@Router		/products/trending [get]
func (h *RecommendationHandler) trendingProducts(w http.ResponseWriter, r *http.Request) {
	topK, err := parseIntQuery(r, "top_k", 10)
	if err != nil {
		WriteError(w, err)
		return
	}

	recs, err := h.recUsecase.GetTrendingProducts(r.Context(), topK)
	if err != nil {
		h.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"trending_products": toRecommendationResponses(recs),
		"total":             len(recs),
	})
}
