// Package projection реализует снижение размерности векторов до 2-3
// координат для визуализации: линейная проекция (PCA) и нелинейное
// соседское вложение (t-SNE). Инструментарий best-effort, результат
// не используется в ранжировании.
package projection

import (
	"strings"

	"github.com/DRSN-tech/reco-backend/pkg/e"
)

type Method string

const (
	MethodPCA  Method = "pca"
	MethodTSNE Method = "tsne"
)

// ParseMethod валидирует имя метода проекции.
func ParseMethod(raw string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(raw))) {
	case MethodPCA:
		return MethodPCA, nil
	case MethodTSNE:
		return MethodTSNE, nil
	default:
		return "", e.ErrUnsupportedProjection
	}
}

// Reduce проецирует матрицу (строка = вектор) в пространство
// заданной размерности.
func Reduce(method Method, data [][]float64, components int) ([][]float64, error) {
	if len(data) == 0 {
		return nil, nil
	}

	switch method {
	case MethodPCA:
		return PCA(data, components)
	case MethodTSNE:
		return TSNE(data, components)
	default:
		return nil, e.ErrUnsupportedProjection
	}
}
