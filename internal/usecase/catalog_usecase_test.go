package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCacheRepo struct {
	mu     sync.Mutex
	stored map[string]domain.Product
	getErr error
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{stored: make(map[string]domain.Product)}
}

func (f *fakeCacheRepo) GetProducts(_ context.Context, ids []string) (map[string]domain.Product, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	found := make(map[string]domain.Product)
	for _, id := range ids {
		if product, ok := f.stored[id]; ok {
			found[id] = product
		}
	}
	return found, nil
}

func (f *fakeCacheRepo) SetProducts(_ context.Context, products []domain.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, product := range products {
		f.stored[product.ID] = product
	}
	return nil
}

type fakeDatasetRepo struct {
	archiveErr error
	lastFile   string
}

func (f *fakeDatasetRepo) Archive(_ context.Context, filename string, _ []byte) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}

	f.lastFile = filename
	return "datasets/2026-01-01/" + filename, nil
}

type fakeGenAI struct {
	result string
	err    error
}

func (f *fakeGenAI) Generate(_ context.Context, _ *GenerateTextReq) (string, error) {
	return f.result, f.err
}

type fakeProducer struct {
	events []*CatalogUpsertedEvent
	err    error
}

func (f *fakeProducer) CatalogUpserted(_ context.Context, event *CatalogUpsertedEvent) error {
	if f.err != nil {
		return f.err
	}

	f.events = append(f.events, event)
	return nil
}

func newCatalogUC(repo *fakeVectorRepo, cache *fakeCacheRepo, dataset *fakeDatasetRepo, embedder *fakeEmbedder, genai *fakeGenAI, producer *fakeProducer) *CatalogUseCase {
	return NewCatalogUC(repo, cache, dataset, embedder, genai, producer, testEngineCfg(), noopLogger{})
}

const ingestCSV = `uniq_id,title,categories,price,description
p-1,Blue Sofa,Sofas,"$1,299.99",Comfortable three-seater
p-2,Oak Desk,Desks,600,Solid oak desk
`

func TestIngestDataset(t *testing.T) {
	repo := &fakeVectorRepo{}
	dataset := &fakeDatasetRepo{}
	producer := &fakeProducer{}
	uc := newCatalogUC(repo, newFakeCacheRepo(), dataset, &fakeEmbedder{}, &fakeGenAI{}, producer)

	res, err := uc.IngestDataset(context.Background(), NewIngestDatasetReq("catalog.csv", []byte(ingestCSV)))
	require.NoError(t, err)

	assert.Equal(t, 2, res.ProductsProcessed)
	assert.Equal(t, "datasets/2026-01-01/catalog.csv", res.ArchiveKey)

	require.Len(t, repo.upserted, 2)
	// один и тот же product_id всегда даёт одну и ту же точку индекса
	assert.Equal(t, domain.PointID("p-1"), repo.upserted[0].ID)
	assert.Equal(t, "Blue Sofa", repo.upserted[0].Payload["name"])
	assert.Equal(t, 1299.99, repo.upserted[0].Payload["price"])

	require.Len(t, producer.events, 1)
	assert.Equal(t, 2, producer.events[0].ProductsCount)
	assert.Equal(t, "catalog.csv", producer.events[0].Filename)
	assert.NotEmpty(t, producer.events[0].EventID)
}

func TestIngestDataset_RepeatedUploadHitsSamePoints(t *testing.T) {
	repo := &fakeVectorRepo{}
	uc := newCatalogUC(repo, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	req := NewIngestDatasetReq("catalog.csv", []byte(ingestCSV))
	_, err := uc.IngestDataset(context.Background(), req)
	require.NoError(t, err)
	_, err = uc.IngestDataset(context.Background(), req)
	require.NoError(t, err)

	// повторная загрузка перезаписывает те же точки индекса,
	// а не плодит дубликаты
	require.Len(t, repo.upserted, 4)
	for i := 0; i < 2; i++ {
		assert.Equal(t, repo.upserted[i].ID, repo.upserted[i+2].ID)
		assert.Equal(t, repo.upserted[i].Payload, repo.upserted[i+2].Payload)
	}
}

func TestIngestDataset_ParseErrorPassthrough(t *testing.T) {
	uc := newCatalogUC(&fakeVectorRepo{}, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	_, err := uc.IngestDataset(context.Background(), NewIngestDatasetReq("catalog.xlsx", []byte("whatever")))
	assert.ErrorIs(t, err, e.ErrUnsupportedDatasetFormat)
}

func TestIngestDataset_EmbedderDown(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("connection refused")}
	uc := newCatalogUC(&fakeVectorRepo{}, newFakeCacheRepo(), &fakeDatasetRepo{}, embedder, &fakeGenAI{}, &fakeProducer{})

	_, err := uc.IngestDataset(context.Background(), NewIngestDatasetReq("catalog.csv", []byte(ingestCSV)))
	assert.ErrorIs(t, err, e.ErrBackendUnavailable)
}

func TestIngestDataset_UpsertDown(t *testing.T) {
	repo := &fakeVectorRepo{upsertErr: errors.New("index offline")}
	uc := newCatalogUC(repo, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	_, err := uc.IngestDataset(context.Background(), NewIngestDatasetReq("catalog.csv", []byte(ingestCSV)))
	assert.ErrorIs(t, err, e.ErrBackendUnavailable)
}

func TestIngestDataset_ArchiveFailureNotFatal(t *testing.T) {
	dataset := &fakeDatasetRepo{archiveErr: errors.New("bucket unreachable")}
	producer := &fakeProducer{}
	uc := newCatalogUC(&fakeVectorRepo{}, newFakeCacheRepo(), dataset, &fakeEmbedder{}, &fakeGenAI{}, producer)

	res, err := uc.IngestDataset(context.Background(), NewIngestDatasetReq("catalog.csv", []byte(ingestCSV)))
	require.NoError(t, err)

	// каталог обновлён, архив best-effort
	assert.Equal(t, 2, res.ProductsProcessed)
	assert.Empty(t, res.ArchiveKey)
	require.Len(t, producer.events, 1)
}

func TestGetProduct_CacheHit(t *testing.T) {
	cached := testProduct("p1", "Cached Sofa", "Sofas", 400)
	cache := newFakeCacheRepo()
	require.NoError(t, cache.SetProducts(context.Background(), []domain.Product{cached}))

	// индекс пуст: попадание возможно только из кэша
	uc := newCatalogUC(&fakeVectorRepo{}, cache, &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	product, err := uc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Cached Sofa", product.Name)
}

func TestGetProduct_CacheErrorFallsThrough(t *testing.T) {
	cache := newFakeCacheRepo()
	cache.getErr = errors.New("redis down")
	repo := &fakeVectorRepo{products: map[string]domain.Product{
		"p1": testProduct("p1", "Indexed Sofa", "Sofas", 400),
	}}
	uc := newCatalogUC(repo, cache, &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	product, err := uc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Indexed Sofa", product.Name)
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := newCatalogUC(&fakeVectorRepo{}, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	_, err := uc.GetProduct(context.Background(), "ghost")
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}

func TestListProducts_Validation(t *testing.T) {
	uc := newCatalogUC(&fakeVectorRepo{}, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})
	ctx := context.Background()

	_, err := uc.ListProducts(ctx, 0, 0)
	assert.ErrorIs(t, err, e.ErrInvalidRequest)

	_, err = uc.ListProducts(ctx, 10, -1)
	assert.ErrorIs(t, err, e.ErrInvalidRequest)
}

func TestGenerateDescription(t *testing.T) {
	repo := &fakeVectorRepo{products: map[string]domain.Product{
		"p1": testProduct("p1", "Blue Sofa", "Sofas", 400),
	}}
	genai := &fakeGenAI{result: "A stunning sofa."}
	uc := newCatalogUC(repo, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, genai, &fakeProducer{})

	res, err := uc.GenerateDescription(context.Background(), &GenerateDescriptionReq{ProductID: "p1", EnhanceExisting: true})
	require.NoError(t, err)

	assert.Equal(t, "A stunning sofa.", res.GeneratedDescription)
	assert.Equal(t, "test description", res.OriginalDescription)
	assert.Equal(t, "enhanced", res.EnhancementType)
}

func TestGenerateDescription_NotFound(t *testing.T) {
	uc := newCatalogUC(&fakeVectorRepo{}, newFakeCacheRepo(), &fakeDatasetRepo{}, &fakeEmbedder{}, &fakeGenAI{}, &fakeProducer{})

	_, err := uc.GenerateDescription(context.Background(), &GenerateDescriptionReq{ProductID: "ghost"})
	assert.ErrorIs(t, err, e.ErrProductNotFound)
}
