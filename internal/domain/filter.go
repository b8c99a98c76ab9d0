package domain

// Filter — конъюнкция ограничений поиска: точное совпадение категории
// и/или диапазон цены (границы включительно). Дизъюнкции и отрицания
// не поддерживаются осознанно.
type Filter struct {
	Category *string
	PriceMin *float64
	PriceMax *float64
}

func NewFilter(category *string, priceMin, priceMax *float64) *Filter {
	if category == nil && priceMin == nil && priceMax == nil {
		return nil
	}

	return &Filter{
		Category: category,
		PriceMin: priceMin,
		PriceMax: priceMax,
	}
}

func (f *Filter) IsEmpty() bool {
	return f == nil || (f.Category == nil && f.PriceMin == nil && f.PriceMax == nil)
}
