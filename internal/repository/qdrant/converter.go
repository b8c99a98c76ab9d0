package qdrant

import (
	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/qdrant/go-client/qdrant"
)

// productFromPayload восстанавливает товар из payload точки.
// Отсутствующие поля превращаются в нулевые значения: каталог допускает
// неполные записи.
func productFromPayload(payload map[string]*qdrant.Value) domain.Product {
	return domain.Product{
		ID:          payload["product_id"].GetStringValue(),
		Name:        payload["name"].GetStringValue(),
		Category:    payload["category"].GetStringValue(),
		Price:       payload["price"].GetDoubleValue(),
		Description: payload["description"].GetStringValue(),
		ImageURL:    payload["image_url"].GetStringValue(),
		Brand:       payload["brand"].GetStringValue(),
		Material:    payload["material"].GetStringValue(),
		Color:       payload["color"].GetStringValue(),
	}
}
