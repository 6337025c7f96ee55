package business

import (
	"context"

	"vip/internal/entity"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// InventorySummary 库存状态汇总计数（随结果即时返回，用于运行日志与审计）
type InventorySummary struct {
	Overstocked  int `json:"overstocked_items"`
	Understocked int `json:"understocked_items"`
	Optimal      int `json:"optimal_items"`
}

// InventoryOptimizer 库存优化器
// 由年销量推算日需求率，套用提前期与安全库存系数得出再订货点与最优订货量，
// 再按周转率与采购量划分积压/缺货状态（二者互斥，均否即为正常）
type InventoryOptimizer struct {
	store Store
	cfg   config.AnalyticsConfig
	log   logger.Logger
}

// NewInventoryOptimizer 创建库存优化器
func NewInventoryOptimizer(store Store, cfg config.AnalyticsConfig, log logger.Logger) *InventoryOptimizer {
	return &InventoryOptimizer{store: store, cfg: cfg, log: log}
}

// Optimize 计算库存建议并整表替换写入 inventory_recommendations
func (o *InventoryOptimizer) Optimize(ctx context.Context, vendors []entity.VendorSummary) ([]entity.InventoryRecommendation, *InventorySummary, error) {
	rows := make([]entity.InventoryRecommendation, len(vendors))
	summary := &InventorySummary{}

	for i := range vendors {
		v := &vendors[i]

		demandRate := v.TotalSalesQuantity / 365
		safetyStock := demandRate * o.cfg.LeadTimeDays * o.cfg.SafetyStockFactor
		reorderPoint := demandRate*o.cfg.LeadTimeDays + safetyStock
		optimalQty := demandRate * o.cfg.OrderHorizonDays

		overstocked := v.StockTurnover < o.cfg.OverstockTurnover && v.TotalPurchaseQuantity > optimalQty
		understocked := v.StockTurnover > o.cfg.UnderstockTurnover && v.TotalPurchaseQuantity < reorderPoint

		switch {
		case overstocked:
			summary.Overstocked++
		case understocked:
			summary.Understocked++
		default:
			summary.Optimal++
		}

		rows[i] = entity.InventoryRecommendation{
			VendorName:           v.VendorName,
			Description:          v.Description,
			DemandRate:           demandRate,
			ReorderPoint:         reorderPoint,
			OptimalOrderQuantity: optimalQty,
			IsOverstocked:        overstocked,
			IsUnderstocked:       understocked,
		}
	}

	if err := o.store.ReplaceInventoryRecommendations(ctx, rows); err != nil {
		return nil, nil, errorutil.Wrap(errorutil.KindStore, err, "save inventory recommendations")
	}

	o.log.Infof(ctx, "generated inventory recommendations for %d items", len(rows))
	return rows, summary, nil
}
