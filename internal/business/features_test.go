package business

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vip/internal/entity"
	"vip/pkg/errorutil"
)

func TestEngineerFeatures(t *testing.T) {
	vendors := []entity.VendorSummary{
		{VendorName: "Alpha", GrossProfit: 200, TotalSalesQuantity: 100, TotalSalesDollars: 600, TotalPurchaseDollars: 300},
		{VendorName: "Beta", GrossProfit: 100, TotalSalesQuantity: 50, TotalSalesDollars: 400, TotalPurchaseDollars: 200},
	}

	enriched := EngineerFeatures(vendors)
	require.Len(t, enriched, 2)

	assert.InDelta(t, 2.0, enriched[0].ProfitPerUnit, 1e-9)
	assert.InDelta(t, 0.6, enriched[0].RevenueShare, 1e-9)
	assert.InDelta(t, 2.0, enriched[0].EfficiencyRatio, 1e-9)
	assert.InDelta(t, 0.4, enriched[1].RevenueShare, 1e-9)

	// 标识列不被改动
	assert.Equal(t, "Alpha", enriched[0].VendorName)
	assert.Equal(t, "Beta", enriched[1].VendorName)
}

func TestEngineerFeaturesZeroQuantityGuard(t *testing.T) {
	// 销量为 0 时分母按 1 处理：ProfitPerUnit = GrossProfit / 1，不报错不产生 NaN
	vendors := []entity.VendorSummary{
		{VendorName: "Zero", GrossProfit: 42, TotalSalesQuantity: 0, TotalSalesDollars: 10, TotalPurchaseDollars: 0},
	}

	enriched := EngineerFeatures(vendors)
	assert.InDelta(t, 42.0, enriched[0].ProfitPerUnit, 1e-9)
	assert.False(t, math.IsNaN(enriched[0].ProfitPerUnit))
	assert.InDelta(t, 10.0, enriched[0].EfficiencyRatio, 1e-9)
}

func TestEngineerFeaturesZeroTotalSalesSurfacesNaN(t *testing.T) {
	// 总销售额为 0 时 RevenueShare 为 NaN：向上层暴露而非截断
	vendors := []entity.VendorSummary{
		{VendorName: "A", TotalSalesDollars: 0},
		{VendorName: "B", TotalSalesDollars: 0},
	}

	enriched := EngineerFeatures(vendors)
	assert.True(t, math.IsNaN(enriched[0].RevenueShare))
	assert.True(t, math.IsNaN(enriched[1].RevenueShare))
}

func TestFeatureColumnMissing(t *testing.T) {
	enriched := EngineerFeatures([]entity.VendorSummary{{VendorName: "A"}})

	_, err := featureColumn(enriched, "NoSuchColumn")
	require.Error(t, err)
	assert.True(t, errorutil.IsKind(err, errorutil.KindMissingColumn))
}
