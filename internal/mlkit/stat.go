package mlkit

import (
	"math"
	"sort"
)

// Quantile 计算 q 分位数（线性插值，q ∈ [0,1]）
// 输入不会被修改；空切片返回 NaN
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// eulerGamma 欧拉-马歇罗尼常数
const eulerGamma = 0.5772156649015329

// averagePathLength 大小为 n 的样本中二叉搜索失败的平均路径长度 c(n)
// 用于孤立森林的路径长度归一化与叶节点补偿
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		f := float64(n)
		return 2*(math.Log(f-1)+eulerGamma) - 2*(f-1)/f
	}
}
