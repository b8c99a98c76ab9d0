package usecase

import (
	"context"

	"github.com/DRSN-tech/reco-backend/internal/domain"
)

type RecommendationUC interface {
	GetRecommendations(ctx context.Context, req *RecommendReq) ([]domain.Recommendation, error)
	GetSimilarProducts(ctx context.Context, req *SimilarReq) ([]domain.Recommendation, error)
	GetCategoryRecommendations(ctx context.Context, req *CategoryReq) ([]domain.Recommendation, error)
	GetTrendingProducts(ctx context.Context, topK int) ([]domain.Recommendation, error)
}

type CatalogUC interface {
	IngestDataset(ctx context.Context, req *IngestDatasetReq) (*IngestDatasetRes, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error)
	GenerateDescription(ctx context.Context, req *GenerateDescriptionReq) (*GenerateDescriptionRes, error)
}

type AnalyticsUC interface {
	GetMetrics(ctx context.Context) (*AnalyticsMetrics, error)
	GetSimilarityAnalysis(ctx context.Context, productID string) (*SimilarityAnalysis, error)
	GetQualityReport(ctx context.Context) (*QualityReport, error)
	GetEmbeddingsProjection(ctx context.Context, req *ProjectionReq) (*ProjectionRes, error)
}
