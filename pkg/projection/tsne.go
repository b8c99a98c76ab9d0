package projection

import (
	"math"
	"math/rand"
)

// Параметры градиентного спуска t-SNE. Значения подобраны для малых
// выборок (аналитический скан каталога), не для миллионов точек.
const (
	tsneIterations        = 300
	tsneLearningRate      = 100.0
	tsneInitialMomentum   = 0.5
	tsneFinalMomentum     = 0.8
	tsneMomentumSwitch    = 100
	tsneEarlyExaggeration = 4.0
	tsneExaggerationStop  = 100
	tsneSeed              = 42
)

// TSNE — упрощённое точное (без Barnes-Hut) соседское вложение.
// Детерминированно при фиксированном seed.
func TSNE(data [][]float64, components int) ([][]float64, error) {
	n := len(data)
	if n == 1 {
		return [][]float64{make([]float64, components)}, nil
	}

	perplexity := math.Min(30, float64(n-1))
	p := affinities(data, perplexity)

	rng := rand.New(rand.NewSource(tsneSeed))
	y := make([][]float64, n)
	for i := range y {
		y[i] = make([]float64, components)
		for j := range y[i] {
			y[i][j] = rng.NormFloat64() * 1e-4
		}
	}

	velocity := make([][]float64, n)
	for i := range velocity {
		velocity[i] = make([]float64, components)
	}

	for iter := 0; iter < tsneIterations; iter++ {
		exaggeration := 1.0
		if iter < tsneExaggerationStop {
			exaggeration = tsneEarlyExaggeration
		}

		momentum := tsneInitialMomentum
		if iter >= tsneMomentumSwitch {
			momentum = tsneFinalMomentum
		}

		grad := gradient(p, y, exaggeration)
		for i := 0; i < n; i++ {
			for j := 0; j < components; j++ {
				velocity[i][j] = momentum*velocity[i][j] - tsneLearningRate*grad[i][j]
				y[i][j] += velocity[i][j]
			}
		}
	}

	return y, nil
}

// affinities строит симметричную матрицу P с подбором сигмы каждой
// точки под целевую перплексию бинарным поиском.
func affinities(data [][]float64, perplexity float64) [][]float64 {
	n := len(data)
	distances := squaredDistances(data)
	target := math.Log(perplexity)

	p := make([][]float64, n)
	for i := range p {
		p[i] = make([]float64, n)
	}

	row := make([]float64, n)
	for i := 0; i < n; i++ {
		beta := 1.0
		betaMin := math.Inf(-1)
		betaMax := math.Inf(1)

		for attempt := 0; attempt < 50; attempt++ {
			sum := 0.0
			for j := 0; j < n; j++ {
				if j == i {
					row[j] = 0
					continue
				}
				row[j] = math.Exp(-distances[i][j] * beta)
				sum += row[j]
			}
			if sum == 0 {
				sum = 1e-12
			}

			entropy := 0.0
			for j := 0; j < n; j++ {
				if j == i || row[j] == 0 {
					continue
				}
				pj := row[j] / sum
				entropy -= pj * math.Log(pj)
			}

			diff := entropy - target
			if math.Abs(diff) < 1e-5 {
				break
			}

			if diff > 0 {
				betaMin = beta
				if math.IsInf(betaMax, 1) {
					beta *= 2
				} else {
					beta = (beta + betaMax) / 2
				}
			} else {
				betaMax = beta
				if math.IsInf(betaMin, -1) {
					beta /= 2
				} else {
					beta = (beta + betaMin) / 2
				}
			}
		}

		sum := 0.0
		for j := 0; j < n; j++ {
			sum += row[j]
		}
		if sum == 0 {
			sum = 1e-12
		}
		for j := 0; j < n; j++ {
			p[i][j] = row[j] / sum
		}
	}

	// Симметризация и нижняя отсечка
	total := 2.0 * float64(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			value := (p[i][j] + p[j][i]) / total
			value = math.Max(value, 1e-12)
			p[i][j] = value
			p[j][i] = value
		}
	}

	return p
}

// gradient — градиент KL-дивергенции по координатам вложения
// с q-распределением Стьюдента (один градус свободы).
func gradient(p, y [][]float64, exaggeration float64) [][]float64 {
	n := len(y)
	components := len(y[0])

	num := make([][]float64, n)
	sumNum := 0.0
	for i := 0; i < n; i++ {
		num[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			dist := 0.0
			for k := 0; k < components; k++ {
				diff := y[i][k] - y[j][k]
				dist += diff * diff
			}
			num[i][j] = 1.0 / (1.0 + dist)
			sumNum += num[i][j]
		}
	}
	if sumNum == 0 {
		sumNum = 1e-12
	}

	grad := make([][]float64, n)
	for i := 0; i < n; i++ {
		grad[i] = make([]float64, components)
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			q := math.Max(num[i][j]/sumNum, 1e-12)
			mult := (exaggeration*p[i][j] - q) * num[i][j]
			for k := 0; k < components; k++ {
				grad[i][k] += 4 * mult * (y[i][k] - y[j][k])
			}
		}
	}

	return grad
}

func squaredDistances(data [][]float64) [][]float64 {
	n := len(data)
	distances := make([][]float64, n)
	for i := range distances {
		distances[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := 0.0
			for k := range data[i] {
				diff := data[i][k] - data[j][k]
				dist += diff * diff
			}
			distances[i][j] = dist
			distances[j][i] = dist
		}
	}

	return distances
}
