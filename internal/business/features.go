package business

import (
	"vip/internal/entity"
	"vip/pkg/errorutil"
)

// EnrichedVendor 带派生特征的供应商汇总行
// 派生列在副本上追加，不改动输入行数与标识列
type EnrichedVendor struct {
	entity.VendorSummary

	ProfitPerUnit   float64
	RevenueShare    float64
	EfficiencyRatio float64
}

// EngineerFeatures 特征工程：计算单位利润、营收占比与效率比
// 纯函数，无副作用；分母为 0 时按 1 处理（约定的退化策略，而非跳过该行）
// 注意：总销售额为 0 时 RevenueShare 为 NaN，按约定向上层暴露而非静默截断
func EngineerFeatures(vendors []entity.VendorSummary) []EnrichedVendor {
	var totalSales float64
	for i := range vendors {
		totalSales += vendors[i].TotalSalesDollars
	}

	enriched := make([]EnrichedVendor, len(vendors))
	for i := range vendors {
		v := vendors[i]
		enriched[i] = EnrichedVendor{
			VendorSummary:   v,
			ProfitPerUnit:   v.GrossProfit / floorOne(v.TotalSalesQuantity),
			RevenueShare:    v.TotalSalesDollars / totalSales,
			EfficiencyRatio: v.TotalSalesDollars / floorOne(v.TotalPurchaseDollars),
		}
	}
	return enriched
}

// floorOne 分母下限保护：0 视为 1
func floorOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// 特征列名常量（绩效评分与异常检测按名取列）
const (
	FeatureProfitMargin         = "ProfitMargin"
	FeatureStockTurnover        = "StockTurnover"
	FeatureSalesDollars         = "TotalSalesDollars"
	FeatureEfficiencyRatio      = "EfficiencyRatio"
	FeatureSalesToPurchaseRatio = "SalesToPurchaseRatio"
)

// featureGetters 按名称取特征值
// SalesToPurchaseRatio 是上游汇总表自带的输入列，不在本层派生
var featureGetters = map[string]func(*EnrichedVendor) float64{
	FeatureProfitMargin:         func(v *EnrichedVendor) float64 { return v.ProfitMargin },
	FeatureStockTurnover:        func(v *EnrichedVendor) float64 { return v.StockTurnover },
	FeatureSalesDollars:         func(v *EnrichedVendor) float64 { return v.TotalSalesDollars },
	FeatureEfficiencyRatio:      func(v *EnrichedVendor) float64 { return v.EfficiencyRatio },
	FeatureSalesToPurchaseRatio: func(v *EnrichedVendor) float64 { return v.SalesToPurchaseRatio },
}

// featureColumn 抽取一列特征值；名称未注册时返回 MISSING_COLUMN 错误
func featureColumn(rows []EnrichedVendor, name string) ([]float64, error) {
	getter, ok := featureGetters[name]
	if !ok {
		return nil, errorutil.New(errorutil.KindMissingColumn, "feature column %q not available", name)
	}
	col := make([]float64, len(rows))
	for i := range rows {
		col[i] = getter(&rows[i])
	}
	return col, nil
}
