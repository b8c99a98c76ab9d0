package projection

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// PCA — линейная проекция на главные компоненты через SVD
// центрированной матрицы данных. Недостающие компоненты (когда данных
// меньше, чем запрошенных координат) добиваются нулями.
func PCA(data [][]float64, components int) ([][]float64, error) {
	n := len(data)
	d := len(data[0])

	// Центрирование по столбцам
	centered := mat.NewDense(n, d, nil)
	column := make([]float64, n)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			column[i] = data[i][j]
		}
		mean := stat.Mean(column, nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, data[i][j]-mean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("svd factorization failed")
	}

	var v mat.Dense
	svd.VTo(&v)

	_, rank := v.Dims()
	k := components
	if k > rank {
		k = rank
	}

	projection := mat.NewDense(n, k, nil)
	projection.Mul(centered, v.Slice(0, d, 0, k))

	coordinates := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, components)
		for j := 0; j < k; j++ {
			row[j] = projection.At(i, j)
		}
		coordinates[i] = row
	}

	return coordinates, nil
}
