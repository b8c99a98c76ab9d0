package usecase

import (
	"context"

	"github.com/DRSN-tech/reco-backend/internal/domain"
)

// VectorRepository абстрагирует внешний векторный индекс.
// Query возвращает до limit совпадений по убыванию близости; порядок
// равных оценок определяется бэкендом. Scan не гарантирует стабильный
// порядок при конкурентных записях.
type VectorRepository interface {
	Upsert(ctx context.Context, embeddings []domain.Embedding) error
	Query(ctx context.Context, vector []float32, limit uint64, filter *domain.Filter) ([]domain.Match, error)
	Fetch(ctx context.Context, productID string) (*domain.Product, error)
	Scan(ctx context.Context, limit, offset int) ([]domain.Product, error)
	ScanVectors(ctx context.Context, limit int) ([]domain.ProductVector, error)
}

type CacheRepository interface {
	GetProducts(ctx context.Context, ids []string) (map[string]domain.Product, error)
	SetProducts(ctx context.Context, products []domain.Product) error
}

type DatasetRepository interface {
	Archive(ctx context.Context, filename string, data []byte) (string, error)
}
