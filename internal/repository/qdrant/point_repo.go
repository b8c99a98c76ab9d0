package qdrant

import (
	"context"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PointRepo — репозиторий товарных векторов в Qdrant. Реализует как
// векторный поиск, так и «плоский» доступ к каталогу (fetch/scan).
type PointRepo struct {
	client *qdrant.Client
	cfg    *cfg.QdrantCfg
}

func NewPointRepo(client *qdrant.Client, cfg *cfg.QdrantCfg) *PointRepo {
	return &PointRepo{
		client: client,
		cfg:    cfg,
	}
}

// Upsert сохраняет или обновляет векторы товаров. Атомарность батча не
// гарантируется: после ошибки состояние неизвестно, вызывающий повторяет
// весь батч целиком.
func (q *PointRepo) Upsert(ctx context.Context, embeddings []domain.Embedding) error {
	points := make([]*qdrant.PointStruct, 0, len(embeddings))
	for _, embedding := range embeddings {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(embedding.ID),
			Vectors: qdrant.NewVectors(embedding.Vector...),
			Payload: qdrant.NewValueMap(embedding.Payload),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.cfg.CollectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Query возвращает до limit ближайших соседей вектора, опционально под
// фильтром метаданных. Порядок равных оценок определяется бэкендом.
func (q *PointRepo) Query(ctx context.Context, vector []float32, limit uint64, filter *domain.Filter) ([]domain.Match, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.cfg.CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(limit),
		Filter:         toQdrantFilter(filter),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	matches := make([]domain.Match, 0, len(points))
	for _, point := range points {
		matches = append(matches, domain.Match{
			Product: productFromPayload(point.Payload),
			Score:   point.Score,
		})
	}

	return matches, nil
}

// Fetch возвращает товар по каталожному ID или nil, если записи нет.
func (q *PointRepo) Fetch(ctx context.Context, productID string) (*domain.Product, error) {
	points, err := q.client.Get(ctx, &qdrant.GetPoints{
		CollectionName: q.cfg.CollectionName,
		Ids:            []*qdrant.PointId{qdrant.NewIDUUID(domain.PointID(productID))},
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		// NotFound от gRPC-бэкенда — это отсутствие записи, не сбой
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if len(points) == 0 {
		return nil, nil
	}

	product := productFromPayload(points[0].Payload)
	return &product, nil
}

// Scan постранично перечисляет товары в порядке, определяемом бэкендом.
// Порядок нестабилен при конкурентных записях, поэтому offset реализован
// поверх единого scroll-запроса.
func (q *PointRepo) Scan(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.cfg.CollectionName,
		Limit:          qdrant.PtrOf(uint32(limit + offset)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if offset >= len(points) {
		return []domain.Product{}, nil
	}

	products := make([]domain.Product, 0, len(points)-offset)
	for _, point := range points[offset:] {
		products = append(products, productFromPayload(point.Payload))
	}

	return products, nil
}

// ScanVectors возвращает товары вместе с хранимыми векторами
// (для аналитической визуализации).
func (q *PointRepo) ScanVectors(ctx context.Context, limit int) ([]domain.ProductVector, error) {
	points, err := q.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: q.cfg.CollectionName,
		Limit:          qdrant.PtrOf(uint32(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(true),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	vectors := make([]domain.ProductVector, 0, len(points))
	for _, point := range points {
		vectors = append(vectors, domain.ProductVector{
			Product: productFromPayload(point.Payload),
			Vector:  point.Vectors.GetVector().GetData(),
		})
	}

	return vectors, nil
}

// toQdrantFilter транслирует спецификацию фильтра в условия Qdrant:
// точное совпадение категории и включительный диапазон цены.
func toQdrantFilter(filter *domain.Filter) *qdrant.Filter {
	if filter.IsEmpty() {
		return nil
	}

	var must []*qdrant.Condition
	if filter.Category != nil {
		must = append(must, qdrant.NewMatch("category", *filter.Category))
	}

	if filter.PriceMin != nil || filter.PriceMax != nil {
		priceRange := &qdrant.Range{}
		if filter.PriceMin != nil {
			priceRange.Gte = filter.PriceMin
		}
		if filter.PriceMax != nil {
			priceRange.Lte = filter.PriceMax
		}
		must = append(must, qdrant.NewRange("price", priceRange))
	}

	return &qdrant.Filter{Must: must}
}
