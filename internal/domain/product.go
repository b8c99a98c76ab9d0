package domain

import "strings"

// Product описывает товар каталога. Владелец данных — векторный индекс,
// движок рекомендаций только читает.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"` // 0 означает «цена неизвестна», не «бесплатно»
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url,omitempty"`
	Brand       string  `json:"brand,omitempty"`
	Material    string  `json:"material,omitempty"`
	Color       string  `json:"color,omitempty"`
}

func NewProduct(id, name, category string, price float64, description string) *Product {
	return &Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Price:       price,
		Description: description,
	}
}

// EmbeddingText собирает текст для векторизации: имя, категория и описание товара.
func (p *Product) EmbeddingText() string {
	return strings.TrimSpace(p.Name + " " + p.Category + " " + p.Description)
}
