package usecase

import (
	"context"
	"time"

	"github.com/DRSN-tech/reco-backend/internal/cfg"
	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/DRSN-tech/reco-backend/internal/ingest"
	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/DRSN-tech/reco-backend/pkg/logger"
	"github.com/google/uuid"
)

// CatalogUseCase — тонкий слой доступа к каталогу поверх векторного
// индекса плюс конвейер загрузки датасетов.
type CatalogUseCase struct {
	vectorRepo  VectorRepository
	cacheRepo   CacheRepository
	datasetRepo DatasetRepository
	embedder    EmbedderInfra
	genai       DescriptionInfra
	producer    EventProducer
	engineCfg   *cfg.EngineCfg
	logger      logger.Logger
}

func NewCatalogUC(
	vectorRepo VectorRepository,
	cacheRepo CacheRepository,
	datasetRepo DatasetRepository,
	embedder EmbedderInfra,
	genai DescriptionInfra,
	producer EventProducer,
	engineCfg *cfg.EngineCfg,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		vectorRepo:  vectorRepo,
		cacheRepo:   cacheRepo,
		datasetRepo: datasetRepo,
		embedder:    embedder,
		genai:       genai,
		producer:    producer,
		engineCfg:   engineCfg,
		logger:      logger,
	}
}

// IngestDataset обрабатывает загруженный датасет: парсинг и нормализация,
// векторизация, батчевый upsert в индекс, архивация исходного файла
// и событие в шину. Неудачный upsert означает «состояние неизвестно,
// повторите весь батч» — частичный прогресс не отслеживается.
func (c *CatalogUseCase) IngestDataset(ctx context.Context, req *IngestDatasetReq) (*IngestDatasetRes, error) {
	const op = "CatalogUseCase.IngestDataset"

	products, err := ingest.ParseDataset(req.Filename, req.Data)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	texts := make([]string, 0, len(products))
	for i := range products {
		texts = append(texts, products[i].EmbeddingText())
	}

	vectors, err := c.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	if len(vectors) != len(products) {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	embeddings := make([]domain.Embedding, 0, len(products))
	for i := range products {
		if len(vectors[i]) == 0 {
			return nil, e.Wrap(op, e.ErrEmptyVector)
		}

		// last write wins при повторной загрузке того же product_id
		pointID := domain.PointID(products[i].ID)
		payload := domain.NewProductPayload(&products[i])
		embeddings = append(embeddings, *domain.NewEmbedding(pointID, vectors[i], payload))
	}

	upsertCtx, cancel := context.WithTimeout(ctx, c.engineCfg.BackendTimeout)
	defer cancel()

	if err := c.vectorRepo.Upsert(upsertCtx, embeddings); err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	archiveKey, err := c.datasetRepo.Archive(ctx, req.Filename, req.Data)
	if err != nil {
		// Каталог уже обновлён, отсутствие архива не повод откатывать
		c.logger.Warnf("Failed to archive dataset %s: %v", req.Filename, e.Wrap(op, err))
	}

	event := &CatalogUpsertedEvent{
		EventID:        uuid.NewString(),
		EventTimestamp: time.Now().UnixNano(),
		Filename:       req.Filename,
		ProductsCount:  len(products),
		ArchiveKey:     archiveKey,
	}
	if err := c.producer.CatalogUpserted(ctx, event); err != nil {
		c.logger.Warnf("Failed to publish catalog event: %v", e.Wrap(op, err))
	}

	return NewIngestDatasetRes(len(products), archiveKey), nil
}

// GetProduct возвращает товар по ID, сначала заглядывая в кэш.
func (c *CatalogUseCase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	const op = "CatalogUseCase.GetProduct"

	cached, err := c.cacheRepo.GetProducts(ctx, []string{id})
	if err == nil {
		if product, ok := cached[id]; ok {
			return &product, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, c.engineCfg.BackendTimeout)
	defer cancel()

	product, err := c.vectorRepo.Fetch(fetchCtx, id)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	if product == nil {
		return nil, e.Wrap(op, e.ErrProductNotFound)
	}

	// Фоновое наполнение кэша, запрос не ждёт Redis
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()

		if err := c.cacheRepo.SetProducts(bgCtx, []domain.Product{*product}); err != nil {
			c.logger.Warnf("Failed to cache product in background: %v", e.Wrap(op, err))
		}
	}()

	return product, nil
}

// ListProducts возвращает страницу каталога. Порядок определяется
// бэкендом и не стабилен при конкурентных записях.
func (c *CatalogUseCase) ListProducts(ctx context.Context, limit, offset int) ([]domain.Product, error) {
	const op = "CatalogUseCase.ListProducts"

	if limit <= 0 || offset < 0 {
		return nil, e.Wrap(op, e.ErrInvalidRequest)
	}

	scanCtx, cancel := context.WithTimeout(ctx, c.engineCfg.BackendTimeout)
	defer cancel()

	products, err := c.vectorRepo.Scan(scanCtx, limit, offset)
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	return products, nil
}

// GenerateDescription генерирует маркетинговое описание товара.
func (c *CatalogUseCase) GenerateDescription(ctx context.Context, req *GenerateDescriptionReq) (*GenerateDescriptionRes, error) {
	const op = "CatalogUseCase.GenerateDescription"

	product, err := c.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	enhance := req.EnhanceExisting && product.Description != ""

	generated, err := c.genai.Generate(ctx, &GenerateTextReq{
		ProductName:         product.Name,
		Category:            product.Category,
		OriginalDescription: product.Description,
		Enhance:             enhance,
	})
	if err != nil {
		return nil, e.Wrap(op, e.Wrap(err.Error(), e.ErrBackendUnavailable))
	}

	enhancementType := "generated"
	if enhance {
		enhancementType = "enhanced"
	}

	return &GenerateDescriptionRes{
		ProductID:            req.ProductID,
		OriginalDescription:  product.Description,
		GeneratedDescription: generated,
		EnhancementType:      enhancementType,
	}, nil
}
