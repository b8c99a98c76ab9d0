package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVectorRepo — детерминированный индекс в памяти для тестов.
type fakeVectorRepo struct {
	matches      []domain.Match
	products     map[string]domain.Product
	scanProducts []domain.Product
	vectors      []domain.ProductVector
	upserted     []domain.Embedding
	lastFilter   *domain.Filter
	lastLimit    uint64
	queryErr     error
	fetchErr     error
	scanErr      error
	upsertErr    error
}

func (f *fakeVectorRepo) Upsert(_ context.Context, embeddings []domain.Embedding) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}

	f.upserted = append(f.upserted, embeddings...)
	return nil
}

func (f *fakeVectorRepo) Query(_ context.Context, _ []float32, limit uint64, filter *domain.Filter) ([]domain.Match, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}

	f.lastFilter = filter
	f.lastLimit = limit

	matches := f.matches
	if filter != nil {
		filtered := make([]domain.Match, 0, len(matches))
		for _, m := range matches {
			if filter.Category != nil && m.Product.Category != *filter.Category {
				continue
			}
			if filter.PriceMin != nil && m.Product.Price < *filter.PriceMin {
				continue
			}
			if filter.PriceMax != nil && m.Product.Price > *filter.PriceMax {
				continue
			}
			filtered = append(filtered, m)
		}
		matches = filtered
	}

	if uint64(len(matches)) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}

func (f *fakeVectorRepo) Fetch(_ context.Context, productID string) (*domain.Product, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}

	product, ok := f.products[productID]
	if !ok {
		return nil, nil
	}

	return &product, nil
}

func (f *fakeVectorRepo) Scan(_ context.Context, limit, offset int) ([]domain.Product, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	if offset >= len(f.scanProducts) {
		return []domain.Product{}, nil
	}

	products := f.scanProducts[offset:]
	if len(products) > limit {
		products = products[:limit]
	}

	return products, nil
}

func (f *fakeVectorRepo) ScanVectors(_ context.Context, limit int) ([]domain.ProductVector, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}

	vectors := f.vectors
	if len(vectors) > limit {
		vectors = vectors[:limit]
	}

	return vectors, nil
}

// fakeEmbedder возвращает фиксированный вектор для любого текста.
type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}

	vectors := make([][]float32, len(texts))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2, 0.3}
	}
	return vectors, nil
}

// noopLogger глушит логи в тестах.
type noopLogger struct{}

func (noopLogger) Infof(string, ...any)        {}
func (noopLogger) Warnf(string, ...any)        {}
func (noopLogger) Errorf(error, string, ...any) {}

func testEngineCfg() *cfg.EngineCfg {
	return &cfg.EngineCfg{
		DefaultTopK:         5,
		MaxTopK:             50,
		SimilarityThreshold: 0.3,
		TrendingScanLimit:   100,
		AnalyticsScanLimit:  1000,
		BackendTimeout:      time.Second,
	}
}

func testProduct(id, name, category string, price float64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       price,
		Description: "test description",
	}
}

func TestGetRecommendations_ThresholdAndOrder(t *testing.T) {
	repo := &fakeVectorRepo{
		matches: []domain.Match{
			{Product: testProduct("p1", "Low Chair", "Chairs", 150), Score: 0.25},
			{Product: testProduct("p2", "Mid Sofa", "Sofas", 500), Score: 0.55},
			{Product: testProduct("p3", "Top Sofa", "Sofas", 900), Score: 0.95},
			{Product: testProduct("p4", "Edge Table", "Tables", 300), Score: 0.3},
		},
	}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	recs, err := uc.GetRecommendations(context.Background(), NewRecommendReq("sofa", 5, nil, nil, nil))
	require.NoError(t, err)

	// p1 ниже порога; p4 ровно на пороге остаётся (порог включительный)
	require.Len(t, recs, 3)
	assert.Equal(t, "p3", recs[0].Product.ID)
	assert.Equal(t, "p2", recs[1].Product.ID)
	assert.Equal(t, "p4", recs[2].Product.ID)

	for i := 1; i < len(recs); i++ {
		assert.GreaterOrEqual(t, recs[i-1].Score, recs[i].Score)
	}
}

func TestGetRecommendations_Oversampling(t *testing.T) {
	repo := &fakeVectorRepo{}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	_, err := uc.GetRecommendations(context.Background(), NewRecommendReq("sofa", 5, nil, nil, nil))
	require.NoError(t, err)

	assert.Equal(t, uint64(10), repo.lastLimit)
}

func TestGetRecommendations_DefaultTopK(t *testing.T) {
	matches := make([]domain.Match, 0, 12)
	for i := 0; i < 12; i++ {
		matches = append(matches, domain.Match{
			Product: testProduct(string(rune('a'+i)), "Product", "Sofas", 400),
			Score:   0.9,
		})
	}
	repo := &fakeVectorRepo{matches: matches}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	recs, err := uc.GetRecommendations(context.Background(), NewRecommendReq("sofa", 0, nil, nil, nil))
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestGetRecommendations_Validation(t *testing.T) {
	uc := NewRecommendationUC(&fakeVectorRepo{}, &fakeEmbedder{}, testEngineCfg(), noopLogger{})
	ctx := context.Background()

	_, err := uc.GetRecommendations(ctx, NewRecommendReq("", 5, nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrQueryRequired)

	_, err = uc.GetRecommendations(ctx, NewRecommendReq("   ", 5, nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrQueryRequired)

	_, err = uc.GetRecommendations(ctx, NewRecommendReq("sofa", -1, nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrInvalidTopK)

	_, err = uc.GetRecommendations(ctx, NewRecommendReq("sofa", 51, nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrTopKTooLarge)

	lo, hi := 500.0, 100.0
	_, err = uc.GetRecommendations(ctx, NewRecommendReq("sofa", 5, nil, &lo, &hi))
	assert.ErrorIs(t, err, e.ErrInvalidPriceRange)
}

func TestGetRecommendations_PriceFilter(t *testing.T) {
	repo := &fakeVectorRepo{
		matches: []domain.Match{
			{Product: testProduct("cheap", "Cheap", "Sofas", 100), Score: 0.9},
			{Product: testProduct("mid", "Mid", "Sofas", 500), Score: 0.8},
			{Product: testProduct("lux", "Lux", "Sofas", 2000), Score: 0.7},
		},
	}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	lo, hi := 200.0, 1000.0
	recs, err := uc.GetRecommendations(context.Background(), NewRecommendReq("sofa", 5, nil, &lo, &hi))
	require.NoError(t, err)

	require.Len(t, recs, 1)
	assert.Equal(t, "mid", recs[0].Product.ID)
}

func TestGetRecommendations_EmbedderDown(t *testing.T) {
	uc := NewRecommendationUC(&fakeVectorRepo{}, &fakeEmbedder{err: errors.New("connection refused")}, testEngineCfg(), noopLogger{})

	_, err := uc.GetRecommendations(context.Background(), NewRecommendReq("sofa", 5, nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrBackendUnavailable)
}

func TestGetRecommendations_IndexDown(t *testing.T) {
	repo := &fakeVectorRepo{queryErr: errors.New("index offline")}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	_, err := uc.GetRecommendations(context.Background(), NewRecommendReq("sofa", 5, nil, nil, nil))
	assert.ErrorIs(t, err, e.ErrBackendUnavailable)
}

func TestBuildReason_Tiers(t *testing.T) {
	tests := []struct {
		name     string
		score    float32
		category string
		price    float64
		want     string
	}{
		{
			name:     "all clauses",
			score:    0.95,
			category: "Chairs",
			price:    1500,
			want:     "Highly similar to your search; Popular in Chairs category; Premium quality",
		},
		{
			name:     "very similar great value",
			score:    0.85,
			category: "",
			price:    150,
			want:     "Very similar to your search; Great value",
		},
		{
			name:     "similar only",
			score:    0.75,
			category: "",
			price:    500,
			want:     "Similar to your search",
		},
		{
			name:     "boundary 0.9 is not highly",
			score:    0.9,
			category: "",
			price:    0,
			want:     "Very similar to your search",
		},
		{
			name:     "unknown price gets no price clause",
			score:    0.5,
			category: "Tables",
			price:    0,
			want:     "Popular in Tables category",
		},
		{
			name:  "fallback",
			score: 0.5,
			want:  "Recommended for you",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildReason(tt.score, tt.category, tt.price))
		})
	}
}

func TestGetSimilarProducts_ExcludeSelf(t *testing.T) {
	target := testProduct("p1", "Blue Sofa", "Sofas", 400)
	repo := &fakeVectorRepo{
		products: map[string]domain.Product{"p1": target},
		matches: []domain.Match{
			{Product: target, Score: 1.0},
			{Product: testProduct("p2", "Red Sofa", "Sofas", 450), Score: 0.9},
			{Product: testProduct("p3", "Green Sofa", "Sofas", 350), Score: 0.8},
		},
	}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	recs, err := uc.GetSimilarProducts(context.Background(), NewSimilarReq("p1", 2, true))
	require.NoError(t, err)

	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.NotEqual(t, "p1", rec.Product.ID)
		assert.Equal(t, "Similar to Blue Sofa", rec.Reason)
	}
	// топ-K+1 кандидатов, чтобы исключение себя не урезало выдачу
	assert.Equal(t, uint64(3), repo.lastLimit)
}

func TestGetSimilarProducts_NotFound(t *testing.T) {
	repo := &fakeVectorRepo{products: map[string]domain.Product{}}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	_, err := uc.GetSimilarProducts(context.Background(), NewSimilarReq("ghost", 5, true))
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestGetSimilarProducts_FetchBackendError(t *testing.T) {
	repo := &fakeVectorRepo{fetchErr: errors.New("index offline")}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	_, err := uc.GetSimilarProducts(context.Background(), NewSimilarReq("p1", 5, true))
	assert.ErrorIs(t, err, e.ErrBackendUnavailable)
	assert.NotErrorIs(t, err, e.ErrProductNotFound)
}

func TestGetCategoryRecommendations_NoThreshold(t *testing.T) {
	repo := &fakeVectorRepo{
		matches: []domain.Match{
			{Product: testProduct("p1", "Chair A", "Chairs", 100), Score: 0.1},
			{Product: testProduct("p2", "Chair B", "Chairs", 200), Score: 0.05},
		},
	}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	recs, err := uc.GetCategoryRecommendations(context.Background(), NewCategoryReq("Chairs", 5, nil, nil))
	require.NoError(t, err)

	// порог близости в категорийном браузинге не применяется
	require.Len(t, recs, 2)
	assert.Equal(t, "Popular in Chairs category", recs[0].Reason)

	require.NotNil(t, repo.lastFilter)
	require.NotNil(t, repo.lastFilter.Category)
	assert.Equal(t, "Chairs", *repo.lastFilter.Category)
}

func TestGetCategoryRecommendations_CategoryRequired(t *testing.T) {
	uc := NewRecommendationUC(&fakeVectorRepo{}, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	_, err := uc.GetCategoryRecommendations(context.Background(), NewCategoryReq("  ", 5, nil, nil))
	assert.ErrorIs(t, err, e.ErrCategoryRequired)
}

func TestGetTrendingProducts_PriceRanked(t *testing.T) {
	repo := &fakeVectorRepo{
		scanProducts: []domain.Product{
			testProduct("p1", "Cheap", "Chairs", 100),
			testProduct("p2", "Expensive", "Sofas", 2000),
			testProduct("p3", "Mid", "Tables", 700),
		},
	}
	uc := NewRecommendationUC(repo, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	recs, err := uc.GetTrendingProducts(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, recs, 2)
	assert.Equal(t, "p2", recs[0].Product.ID)
	assert.Equal(t, "p3", recs[1].Product.ID)
	for _, rec := range recs {
		assert.Equal(t, float32(0.9), rec.Score)
		assert.Equal(t, "Trending product", rec.Reason)
	}
}

func TestGetTrendingProducts_EmptyCatalog(t *testing.T) {
	uc := NewRecommendationUC(&fakeVectorRepo{}, &fakeEmbedder{}, testEngineCfg(), noopLogger{})

	recs, err := uc.GetTrendingProducts(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recs)
}
