package mlkit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clusterWithOutlier 紧凑二维簇 + 一个远离簇的离群点（最后一行）
func clusterWithOutlier(n int) [][]float64 {
	X := make([][]float64, 0, n+1)
	for i := 0; i < n; i++ {
		X = append(X, []float64{
			1 + 0.01*float64(i%10),
			2 + 0.01*float64(i%7),
		})
	}
	X = append(X, []float64{50, -40})
	return X
}

func TestIsolationForestFlagsOutlier(t *testing.T) {
	X := clusterWithOutlier(60)

	forest := NewIsolationForest(0.1, 42)
	require.NoError(t, forest.Fit(X))

	scores := forest.ScoreSamples(X)
	flags := forest.Predict(X)

	outlierIdx := len(X) - 1
	assert.True(t, flags[outlierIdx], "outlier should be flagged")

	// 离群点评分低于簇内任意点
	for i := 0; i < outlierIdx; i++ {
		assert.Less(t, scores[outlierIdx], scores[i])
	}
}

func TestIsolationForestScoreRange(t *testing.T) {
	X := clusterWithOutlier(40)

	forest := NewIsolationForest(0.1, 42)
	require.NoError(t, forest.Fit(X))

	// 评分落在 (-1, 0)
	for _, s := range forest.ScoreSamples(X) {
		assert.Greater(t, s, -1.0)
		assert.Less(t, s, 0.0)
	}
	assert.True(t, forest.Fitted())
	assert.False(t, math.IsNaN(forest.Threshold()))
}

func TestIsolationForestDeterminism(t *testing.T) {
	X := clusterWithOutlier(50)

	a := NewIsolationForest(0.1, 42)
	require.NoError(t, a.Fit(X))
	b := NewIsolationForest(0.1, 42)
	require.NoError(t, b.Fit(X))

	assert.Equal(t, a.ScoreSamples(X), b.ScoreSamples(X))
	assert.Equal(t, a.Threshold(), b.Threshold())
}

func TestIsolationForestSeedChangesScores(t *testing.T) {
	X := clusterWithOutlier(50)

	a := NewIsolationForest(0.1, 42)
	require.NoError(t, a.Fit(X))
	b := NewIsolationForest(0.1, 7)
	require.NoError(t, b.Fit(X))

	assert.NotEqual(t, a.ScoreSamples(X), b.ScoreSamples(X))
}

func TestIsolationForestRejectsDegenerateInput(t *testing.T) {
	forest := NewIsolationForest(0.1, 42)
	assert.Error(t, forest.Fit(nil))
	assert.Error(t, forest.Fit([][]float64{{1, 2}}))

	bad := NewIsolationForest(0.9, 42)
	assert.Error(t, bad.Fit(clusterWithOutlier(10)))
}

func TestAveragePathLength(t *testing.T) {
	assert.Zero(t, averagePathLength(0))
	assert.Zero(t, averagePathLength(1))
	assert.InDelta(t, 1, averagePathLength(2), 1e-9)
	// c(n) 随 n 单调递增
	prev := averagePathLength(2)
	for n := 3; n <= 300; n *= 2 {
		cur := averagePathLength(n)
		assert.Greater(t, cur, prev)
		prev = cur
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{4, 1, 3, 2}

	assert.InDelta(t, 1, Quantile(values, 0), 1e-9)
	assert.InDelta(t, 4, Quantile(values, 1), 1e-9)
	assert.InDelta(t, 2.5, Quantile(values, 0.5), 1e-9)
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))

	// 输入不被修改
	assert.Equal(t, []float64{4, 1, 3, 2}, values)
}
