package domain

import "github.com/google/uuid"

// Payload описывает метаданные вектора
type Payload map[string]any

// PointID детерминированно выводит UUID точки индекса из идентификатора
// товара: повторная загрузка того же товара перезаписывает ту же запись.
func PointID(productID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(productID)).String()
}

// Embedding представляет эмбеддинг одного товара
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// NewProductPayload формирует снапшот товара для хранения рядом с вектором.
func NewProductPayload(p *Product) Payload {
	return Payload{
		"product_id":  p.ID,
		"name":        p.Name,
		"category":    p.Category,
		"price":       p.Price,
		"description": p.Description,
		"image_url":   p.ImageURL,
		"brand":       p.Brand,
		"material":    p.Material,
		"color":       p.Color,
	}
}

// ProductVector — товар вместе с его хранимым вектором (для аналитики).
type ProductVector struct {
	Product Product
	Vector  []float32
}
