package usecase

import "context"

// EmbedderInfra — чёрный ящик text→vector фиксированной размерности.
// Ошибка векторизации фатальна для вызывающей операции, подмена
// нулевым вектором недопустима.
type EmbedderInfra interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// DescriptionInfra — чёрный ящик text→text с детерминированным
// шаблонным fallback.
type DescriptionInfra interface {
	Generate(ctx context.Context, req *GenerateTextReq) (string, error)
}

type EventProducer interface {
	CatalogUpserted(ctx context.Context, event *CatalogUpsertedEvent) error
}
