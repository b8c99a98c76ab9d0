package ingest

import (
	"fmt"
	"strings"

	"github.com/DRSN-tech/reco-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// normalizeRecord превращает сырую запись датасета в типизированный товар
// с документированными значениями по умолчанию.
func normalizeRecord(record map[string]string, index int) domain.Product {
	id := strings.TrimSpace(record["uniq_id"])
	if id == "" {
		id = fmt.Sprintf("unknown_%d", index)
	}

	name := strings.TrimSpace(record["title"])
	if name == "" {
		name = "Unknown Product"
	}

	product := domain.NewProduct(
		id,
		name,
		ParseCategories(record["categories"]),
		CleanPrice(record["price"]),
		strings.TrimSpace(record["description"]),
	)
	product.ImageURL = ParseImages(record["images"])
	product.Brand = strings.TrimSpace(record["brand"])
	product.Material = strings.TrimSpace(record["material"])
	product.Color = strings.TrimSpace(record["color"])

	return *product
}

// CleanPrice разбирает цену из произвольной строки ("$1,299.99", "600").
// Неразборчивое или отрицательное значение нормализуется в 0 —
// «цена неизвестна», не ошибка.
func CleanPrice(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || isNullLike(cleaned) {
		return 0
	}

	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}

	if price.IsNegative() {
		return 0
	}

	value, _ := price.Float64()
	return value
}

// ParseCategories приводит поле категорий к плоской строке.
// Списковые значения вида "['Chairs', 'Office']" склеиваются через запятую.
func ParseCategories(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || isNullLike(cleaned) {
		return "Unknown"
	}

	if items := parseListLike(cleaned); items != nil {
		return strings.Join(items, ", ")
	}

	return cleaned
}

// ParseImages возвращает первый URL из спискового поля изображений.
func ParseImages(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" || isNullLike(cleaned) {
		return ""
	}

	if items := parseListLike(cleaned); items != nil {
		if len(items) == 0 {
			return ""
		}
		return items[0]
	}

	return cleaned
}

// parseListLike разбирает строковое представление python-списка.
// Возвращает nil, если строка не похожа на список.
func parseListLike(raw string) []string {
	if !strings.HasPrefix(raw, "[") || !strings.HasSuffix(raw, "]") {
		return nil
	}

	inner := strings.TrimSpace(raw[1 : len(raw)-1])
	if inner == "" {
		return []string{}
	}

	parts := strings.Split(inner, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.Trim(strings.TrimSpace(part), `'"`)
		if item != "" {
			items = append(items, item)
		}
	}

	return items
}

func isNullLike(value string) bool {
	switch strings.ToLower(value) {
	case "nan", "none", "null":
		return true
	default:
		return false
	}
}
