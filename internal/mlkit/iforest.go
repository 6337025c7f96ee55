package mlkit

import (
	"fmt"
	"math"
	"math/rand"
)

// 孤立森林默认超参数
const (
	DefaultTrees      = 100
	DefaultSampleSize = 256
)

// IsolationForest 无监督离群点集成模型
// 每棵树在随机子样本上随机切分，越容易被孤立的样本平均路径越短
// 评分为 -2^(-E[h(x)]/c(ψ))，取值 (-1, 0)，越小越异常
// 固定 Seed 时整个拟合与评分过程完全可复现
type IsolationForest struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64

	roots     []*treeNode
	psi       int
	threshold float64
	fitted    bool
}

// treeNode 孤立树节点；Left 为 nil 表示叶节点
type treeNode struct {
	Attr  int
	Split float64
	Left  *treeNode
	Right *treeNode
	Size  int
}

// NewIsolationForest 创建孤立森林
func NewIsolationForest(contamination float64, seed int64) *IsolationForest {
	return &IsolationForest{
		Trees:         DefaultTrees,
		SampleSize:    DefaultSampleSize,
		Contamination: contamination,
		Seed:          seed,
	}
}

// Fit 在样本矩阵上拟合森林，并按污染率标定异常阈值
func (f *IsolationForest) Fit(X [][]float64) error {
	if len(X) < 2 {
		return fmt.Errorf("iforest: need at least 2 samples, got %d", len(X))
	}
	if f.Contamination <= 0 || f.Contamination >= 0.5 {
		return fmt.Errorf("iforest: contamination must be in (0, 0.5), got %v", f.Contamination)
	}

	f.psi = f.SampleSize
	if f.psi > len(X) {
		f.psi = len(X)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(f.psi))))

	rng := rand.New(rand.NewSource(f.Seed))
	f.roots = make([]*treeNode, f.Trees)
	for t := 0; t < f.Trees; t++ {
		// 无放回抽取 ψ 个样本
		perm := rng.Perm(len(X))[:f.psi]
		sample := make([][]float64, f.psi)
		for i, idx := range perm {
			sample[i] = X[idx]
		}
		f.roots[t] = buildTree(sample, 0, maxDepth, rng)
	}
	f.fitted = true

	// 阈值 = 训练样本评分的污染率分位数，低于阈值判为异常
	scores := f.ScoreSamples(X)
	f.threshold = Quantile(scores, f.Contamination)
	return nil
}

// buildTree 递归构建孤立树
func buildTree(sample [][]float64, depth, maxDepth int, rng *rand.Rand) *treeNode {
	if depth >= maxDepth || len(sample) <= 1 {
		return &treeNode{Size: len(sample)}
	}

	// 收集仍有取值范围的特征；全部恒定时无法继续切分
	dims := len(sample[0])
	candidates := make([]int, 0, dims)
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	for j := 0; j < dims; j++ {
		mins[j], maxs[j] = sample[0][j], sample[0][j]
		for _, row := range sample {
			if row[j] < mins[j] {
				mins[j] = row[j]
			}
			if row[j] > maxs[j] {
				maxs[j] = row[j]
			}
		}
		if maxs[j] > mins[j] {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return &treeNode{Size: len(sample)}
	}

	attr := candidates[rng.Intn(len(candidates))]
	split := mins[attr] + rng.Float64()*(maxs[attr]-mins[attr])

	var left, right [][]float64
	for _, row := range sample {
		if row[attr] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}

	return &treeNode{
		Attr:  attr,
		Split: split,
		Left:  buildTree(left, depth+1, maxDepth, rng),
		Right: buildTree(right, depth+1, maxDepth, rng),
		Size:  len(sample),
	}
}

// pathLength 样本在单棵树中的路径长度（叶节点按 c(size) 补偿）
func pathLength(x []float64, node *treeNode, depth float64) float64 {
	if node.Left == nil {
		return depth + averagePathLength(node.Size)
	}
	if x[node.Attr] < node.Split {
		return pathLength(x, node.Left, depth+1)
	}
	return pathLength(x, node.Right, depth+1)
}

// ScoreSamples 计算每个样本的异常评分（越小越异常）
func (f *IsolationForest) ScoreSamples(X [][]float64) []float64 {
	scores := make([]float64, len(X))
	norm := averagePathLength(f.psi)
	for i, x := range X {
		var total float64
		for _, root := range f.roots {
			total += pathLength(x, root, 0)
		}
		avg := total / float64(len(f.roots))
		scores[i] = -math.Pow(2, -avg/norm)
	}
	return scores
}

// Predict 返回每个样本是否为异常（评分严格低于阈值）
func (f *IsolationForest) Predict(X [][]float64) []bool {
	scores := f.ScoreSamples(X)
	flags := make([]bool, len(scores))
	for i, s := range scores {
		flags[i] = s < f.threshold
	}
	return flags
}

// Threshold 返回拟合时标定的异常阈值
func (f *IsolationForest) Threshold() float64 {
	return f.threshold
}

// Fitted 返回模型是否已拟合
func (f *IsolationForest) Fitted() bool {
	return f.fitted
}
