package usecase

import "github.com/DRSN-tech/reco-backend/internal/domain"

// RECOMMENDATION USECASE

// RecommendReq — запрос рекомендаций по свободному текстовому запросу.
type RecommendReq struct {
	Query    string
	TopK     int // 0 означает «взять значение по умолчанию»
	Category *string
	PriceMin *float64
	PriceMax *float64
}

// SimilarReq — запрос товаров, похожих на указанный.
type SimilarReq struct {
	ProductID   string
	TopK        int
	ExcludeSelf bool
}

// CategoryReq — подборка товаров внутри категории.
type CategoryReq struct {
	Category string
	TopK     int
	PriceMin *float64
	PriceMax *float64
}

// CATALOG USECASE

// IngestDatasetReq — загрузка датасета товаров (CSV или JSON).
type IngestDatasetReq struct {
	Filename string
	Data     []byte
}

// IngestDatasetRes — результат обработки датасета.
type IngestDatasetRes struct {
	ProductsProcessed int
	ArchiveKey        string
}

// GenerateDescriptionReq — запрос генерации описания товара.
type GenerateDescriptionReq struct {
	ProductID       string
	EnhanceExisting bool
}

// GenerateDescriptionRes — сгенерированное описание.
type GenerateDescriptionRes struct {
	ProductID            string
	OriginalDescription  string
	GeneratedDescription string
	EnhancementType      string
}

// GenerateTextReq — запрос к генератору текста.
type GenerateTextReq struct {
	ProductName         string
	Category            string
	OriginalDescription string
	Enhance             bool
}

// ANALYTICS USECASE

// PriceStatistics — сводная статистика цен каталога.
type PriceStatistics struct {
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
}

// PriceRanges — разбиение по ценовым сегментам.
type PriceRanges struct {
	Budget   int // < 200
	MidRange int // [200, 800)
	Premium  int // >= 800
}

// CategoryInsight — агрегаты по одной категории.
type CategoryInsight struct {
	Count      int
	Percentage float64
	AvgPrice   float64
	PriceMin   float64
	PriceMax   float64
}

// AnalyticsMetrics — полный аналитический срез каталога,
// вычисляется заново на каждый запрос.
type AnalyticsMetrics struct {
	TotalProducts    int
	Categories       map[string]int
	CategoryInsights map[string]CategoryInsight
	PriceStatistics  PriceStatistics
	PriceRanges      PriceRanges
}

// SimilarityAnalysis — разбор паттернов близости для одного товара.
type SimilarityAnalysis struct {
	ProductID            string
	TargetProduct        *domain.Product
	SimilarityScores     []float32
	ScoreMean            float64
	ScoreStd             float64
	ScoreMin             float64
	ScoreMax             float64
	CategoryDistribution map[string]int
	TargetPrice          float64
	SimilarPrices        []float64
	PriceVariance        float64
	PriceMin             float64
	PriceMax             float64
}

// QueryQuality — качество выдачи по одному тестовому запросу.
type QueryQuality struct {
	Query             string
	Recommendations   int
	AverageSimilarity float64
	MaxSimilarity     float64
	MinSimilarity     float64
	CategoryDiversity int
}

// QualityReport — сводка по батарее тестовых запросов. Ошибки отдельных
// запросов не проглатываются, а учитываются в FailedQueries.
type QualityReport struct {
	TestQueries       int
	SuccessfulQueries int
	FailedQueries     int
	Metrics           []QueryQuality
	AverageSimilarity float64
	AverageDiversity  float64
	OverallScore      float64
}

// ProjectionReq — запрос проекции эмбеддингов для визуализации.
type ProjectionReq struct {
	Method     string // "pca" или "tsne"
	Components int    // 2 или 3
}

// ProjectedPoint — товар с координатами в пространстве проекции.
type ProjectedPoint struct {
	ProductID   string
	Name        string
	Category    string
	Price       float64
	Coordinates []float64
}

// ProjectionRes — результат снижения размерности.
type ProjectionRes struct {
	Method     string
	Components int
	Points     []ProjectedPoint
}

// INFRASTRUCTURE

// CatalogUpsertedEvent — событие обновления каталога для шины.
type CatalogUpsertedEvent struct {
	EventID        string
	EventTimestamp int64
	Filename       string
	ProductsCount  int
	ArchiveKey     string
}

// MAPPERS

func NewRecommendReq(query string, topK int, category *string, priceMin, priceMax *float64) *RecommendReq {
	return &RecommendReq{
		Query:    query,
		TopK:     topK,
		Category: category,
		PriceMin: priceMin,
		PriceMax: priceMax,
	}
}

func NewSimilarReq(productID string, topK int, excludeSelf bool) *SimilarReq {
	return &SimilarReq{
		ProductID:   productID,
		TopK:        topK,
		ExcludeSelf: excludeSelf,
	}
}

func NewCategoryReq(category string, topK int, priceMin, priceMax *float64) *CategoryReq {
	return &CategoryReq{
		Category: category,
		TopK:     topK,
		PriceMin: priceMin,
		PriceMax: priceMax,
	}
}

func NewIngestDatasetReq(filename string, data []byte) *IngestDatasetReq {
	return &IngestDatasetReq{
		Filename: filename,
		Data:     data,
	}
}

func NewIngestDatasetRes(processed int, archiveKey string) *IngestDatasetRes {
	return &IngestDatasetRes{
		ProductsProcessed: processed,
		ArchiveKey:        archiveKey,
	}
}

func NewProjectionReq(method string, components int) *ProjectionReq {
	return &ProjectionReq{
		Method:     method,
		Components: components,
	}
}
