package http

import (
	"net/http"

	_ "github.com/DRSN-tech/reco-backend/docs" // Импорт сгенерированных файлов
	"github.com/DRSN-tech/reco-backend/internal/usecase"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(recUC usecase.RecommendationUC, catalogUC usecase.CatalogUC, analyticsUC usecase.AnalyticsUC) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	r.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		WriteSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.router.Route("/api/v1", func(v1 chi.Router) {
		prHandler := NewProductHandler(catalogUC, r.logger)
		recHandler := NewRecommendationHandler(recUC, r.logger)
		registerProductRoutes(v1, prHandler, recHandler)

		analyticsHandler := NewAnalyticsHandler(analyticsUC, r.logger)
		registerAnalyticsRoutes(v1, analyticsHandler)
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler, recHandler *RecommendationHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Post("/upload", prHandler.uploadDataset)
		pr.Get("/all", prHandler.listProducts)
		pr.Get("/trending", recHandler.trendingProducts)
		pr.Post("/recommend", recHandler.recommend)
		pr.Post("/generate-description", prHandler.generateDescription)
		pr.Get("/category/{category}", recHandler.categoryProducts)
		pr.Get("/{id}", prHandler.getProduct)
		pr.Get("/{id}/similar", recHandler.similarProducts)
	})
}

func registerAnalyticsRoutes(router chi.Router, handler *AnalyticsHandler) {
	router.Route("/analytics", func(an chi.Router) {
		an.Get("/metrics", handler.metrics)
		an.Get("/categories", handler.categories)
		an.Get("/quality", handler.qualityReport)
		an.Get("/embeddings-2d", handler.embeddingsProjection)
		an.Get("/similarity/{id}", handler.similarityAnalysis)
	})
}
