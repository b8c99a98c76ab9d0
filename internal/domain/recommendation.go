package domain

// Match — результат запроса к векторному индексу: товар и его косинусная
// близость к запросу в диапазоне [-1, 1].
type Match struct {
	Product Product
	Score   float32
}

// Recommendation — эфемерный результат движка: товар, оценка и
// человекочитаемое обоснование. Никогда не персистится.
type Recommendation struct {
	Product Product
	Score   float32
	Reason  string
}

func NewRecommendation(product Product, score float32, reason string) Recommendation {
	return Recommendation{
		Product: product,
		Score:   score,
		Reason:  reason,
	}
}
