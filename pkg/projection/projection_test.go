package projection

import (
	"testing"

	"github.com/DRSN-tech/reco-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMethod(t *testing.T) {
	method, err := ParseMethod("pca")
	require.NoError(t, err)
	assert.Equal(t, MethodPCA, method)

	method, err = ParseMethod("  TSNE ")
	require.NoError(t, err)
	assert.Equal(t, MethodTSNE, method)

	_, err = ParseMethod("umap")
	assert.ErrorIs(t, err, e.ErrUnsupportedProjection)
}

func TestReduce_EmptyData(t *testing.T) {
	coordinates, err := Reduce(MethodPCA, nil, 2)
	require.NoError(t, err)
	assert.Nil(t, coordinates)
}

func TestPCA_Shape(t *testing.T) {
	data := [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{1, 1, 0, 0},
	}

	coordinates, err := PCA(data, 2)
	require.NoError(t, err)

	require.Len(t, coordinates, len(data))
	for _, row := range coordinates {
		assert.Len(t, row, 2)
	}
}

func TestPCA_SeparatesClusters(t *testing.T) {
	// Два плотных кластера должны разойтись по первой компоненте
	data := [][]float64{
		{0, 0, 0},
		{0.1, 0, 0},
		{10, 10, 10},
		{10.1, 10, 10},
	}

	coordinates, err := PCA(data, 2)
	require.NoError(t, err)

	assert.InDelta(t, coordinates[0][0], coordinates[1][0], 0.5)
	assert.InDelta(t, coordinates[2][0], coordinates[3][0], 0.5)
	assert.Greater(t, absDiff(coordinates[0][0], coordinates[2][0]), 5.0)
}

func TestPCA_PadsMissingComponents(t *testing.T) {
	// Две точки дают ранг 1: третья координата добивается нулём
	data := [][]float64{
		{1, 2, 3},
		{4, 5, 6},
	}

	coordinates, err := PCA(data, 3)
	require.NoError(t, err)

	require.Len(t, coordinates, 2)
	for _, row := range coordinates {
		require.Len(t, row, 3)
		assert.Zero(t, row[2])
	}
}

func TestTSNE_SinglePoint(t *testing.T) {
	coordinates, err := TSNE([][]float64{{1, 2, 3}}, 2)
	require.NoError(t, err)

	require.Len(t, coordinates, 1)
	assert.Equal(t, []float64{0, 0}, coordinates[0])
}

func TestTSNE_Deterministic(t *testing.T) {
	data := [][]float64{
		{0, 0},
		{0, 1},
		{5, 5},
		{5, 6},
	}

	first, err := TSNE(data, 2)
	require.NoError(t, err)
	second, err := TSNE(data, 2)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	require.Len(t, first, len(data))
	for _, row := range first {
		assert.Len(t, row, 2)
	}
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
