package mlkit

import (
	"fmt"
	"math"
)

// StandardScaler 标准化器：按列转换为零均值、单位方差
// 方差为总体方差；零方差列的缩放系数取 1（避免除零，同时保持列值不变）
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

// Fit 在样本矩阵上拟合均值与标准差
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return fmt.Errorf("scaler: empty input")
	}
	dims := len(X[0])
	s.Mean = make([]float64, dims)
	s.Scale = make([]float64, dims)

	for _, row := range X {
		if len(row) != dims {
			return fmt.Errorf("scaler: ragged input, want %d columns got %d", dims, len(row))
		}
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	n := float64(len(X))
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, row := range X {
		for j, v := range row {
			d := v - s.Mean[j]
			s.Scale[j] += d * d
		}
	}
	for j := range s.Scale {
		s.Scale[j] = math.Sqrt(s.Scale[j] / n)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
	return nil
}

// Transform 应用已拟合的标准化参数
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Scale[j]
		}
		out[i] = scaled
	}
	return out
}

// FitTransform 拟合并转换
func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X), nil
}
