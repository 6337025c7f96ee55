package business

import (
	"context"

	"vip/internal/entity"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// PriceOptimizer 定价优化器
// 基于毛利率与周转率的规则分类，按优先级取首个命中的调价指令
type PriceOptimizer struct {
	store Store
	cfg   config.AnalyticsConfig
	log   logger.Logger
}

// NewPriceOptimizer 创建定价优化器
func NewPriceOptimizer(store Store, cfg config.AnalyticsConfig, log logger.Logger) *PriceOptimizer {
	return &PriceOptimizer{store: store, cfg: cfg, log: log}
}

// Optimize 生成定价建议并整表替换写入 pricing_recommendations
func (p *PriceOptimizer) Optimize(ctx context.Context, vendors []entity.VendorSummary) ([]entity.PricingRecommendation, error) {
	rows := make([]entity.PricingRecommendation, len(vendors))

	for i := range vendors {
		v := &vendors[i]

		avgSalePrice := v.TotalSalesDollars / floorOne(v.TotalSalesQuantity)
		avgPurchasePrice := v.TotalPurchaseDollars / floorOne(v.TotalPurchaseQuantity)
		markup := (avgSalePrice - avgPurchasePrice) / floorOne(avgPurchasePrice) * 100

		directive, price := p.recommend(v, avgSalePrice)

		rows[i] = entity.PricingRecommendation{
			VendorName:          v.VendorName,
			Description:         v.Description,
			AvgSalePrice:        avgSalePrice,
			CurrentMarkup:       markup,
			PriceRecommendation: directive,
			RecommendedPrice:    price,
		}
	}

	if err := p.store.ReplacePricingRecommendations(ctx, rows); err != nil {
		return nil, errorutil.Wrap(errorutil.KindStore, err, "save pricing recommendations")
	}

	p.log.Infof(ctx, "generated pricing recommendations for %d items", len(rows))
	return rows, nil
}

// recommend 规则按优先级求值，首个命中生效：
// 1. 低毛利 → 提价 7.5%
// 2. 高毛利且慢周转 → 降价 5% 促销
// 3. 其余维持现价
func (p *PriceOptimizer) recommend(v *entity.VendorSummary, avgSalePrice float64) (string, float64) {
	switch {
	case v.ProfitMargin < p.cfg.LowMarginThreshold:
		return entity.PriceIncrease, avgSalePrice * 1.075
	case v.ProfitMargin > p.cfg.HighMarginThreshold && v.StockTurnover < p.cfg.SlowTurnover:
		return entity.PriceDecrease, avgSalePrice * 0.95
	default:
		return entity.PriceMaintain, avgSalePrice
	}
}
