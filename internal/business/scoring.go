package business

import (
	"context"

	"vip/internal/entity"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// Scorer 供应商绩效评分器
// 四项特征各自归一化到 0-100 后按固定权重加权为综合分，再映射到四档分层
type Scorer struct {
	store Store
	cfg   config.AnalyticsConfig
	log   logger.Logger
}

// NewScorer 创建评分器
func NewScorer(store Store, cfg config.AnalyticsConfig, log logger.Logger) *Scorer {
	return &Scorer{store: store, cfg: cfg, log: log}
}

// Score 计算绩效评分并整表替换写入 vendor_performance_scores
// 任一所需特征列缺失时整步失败，不产生部分输出
func (s *Scorer) Score(ctx context.Context, vendors []entity.VendorSummary) ([]entity.VendorPerformanceScore, error) {
	enriched := EngineerFeatures(vendors)

	// 1. 按列归一化：value / column_max * 100；列最大值为 0 时整列取 0
	features := []string{
		FeatureProfitMargin,
		FeatureStockTurnover,
		FeatureSalesDollars,
		FeatureEfficiencyRatio,
	}
	normalized := make(map[string][]float64, len(features))
	for _, name := range features {
		col, err := featureColumn(enriched, name)
		if err != nil {
			return nil, err
		}
		normalized[name] = normalizeColumn(col)
	}

	// 2. 加权综合分 + 分层
	w := s.cfg.ScoreWeights
	rows := make([]entity.VendorPerformanceScore, len(enriched))
	for i := range enriched {
		score := normalized[FeatureProfitMargin][i]*w.ProfitMargin +
			normalized[FeatureStockTurnover][i]*w.StockTurnover +
			normalized[FeatureSalesDollars][i]*w.SalesDollars +
			normalized[FeatureEfficiencyRatio][i]*w.EfficiencyRatio

		rows[i] = entity.VendorPerformanceScore{
			VendorSummary:             enriched[i].VendorSummary,
			ProfitPerUnit:             enriched[i].ProfitPerUnit,
			RevenueShare:              enriched[i].RevenueShare,
			EfficiencyRatio:           enriched[i].EfficiencyRatio,
			ProfitMarginNormalized:    normalized[FeatureProfitMargin][i],
			StockTurnoverNormalized:   normalized[FeatureStockTurnover][i],
			SalesDollarsNormalized:    normalized[FeatureSalesDollars][i],
			EfficiencyRatioNormalized: normalized[FeatureEfficiencyRatio][i],
			PerformanceScore:          score,
			PerformanceTier:           TierFor(score),
		}
	}

	// 3. 整表替换写入
	if err := s.store.ReplacePerformanceScores(ctx, rows); err != nil {
		return nil, errorutil.Wrap(errorutil.KindStore, err, "save performance scores")
	}

	s.log.Infof(ctx, "calculated performance scores for %d vendors", len(rows))
	return rows, nil
}

// normalizeColumn 列内归一化到 0-100
func normalizeColumn(col []float64) []float64 {
	var max float64
	for _, v := range col {
		if v > max {
			max = v
		}
	}
	out := make([]float64, len(col))
	if max <= 0 {
		return out
	}
	for i, v := range col {
		out[i] = v / max * 100
	}
	return out
}

// TierFor 综合分映射到绩效分层：右闭区间 (0,25] (25,50] (50,75] (75,100]
// 恰好落在分界点归入低档；0 分并入 Poor
func TierFor(score float64) string {
	switch {
	case score <= 25:
		return entity.TierPoor
	case score <= 50:
		return entity.TierFair
	case score <= 75:
		return entity.TierGood
	default:
		return entity.TierExcellent
	}
}
