package business

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vip/internal/entity"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// pipelineFixture 三个供应商 + 足量销售明细
func pipelineFixture() *fakeStore {
	vendors := syntheticVendors(30)
	// 让前三名销售额明确可分
	vendors[0].TotalSalesDollars = 90000
	vendors[1].TotalSalesDollars = 80000
	vendors[2].TotalSalesDollars = 70000

	var sales []entity.SalesRecord
	for i := 0; i < 3; i++ {
		sales = append(sales, dailySales(vendors[i].VendorName, 14, 10, 100)...)
	}

	return &fakeStore{
		vendors:   vendors,
		sales:     sales,
		purchases: []entity.PurchaseRecord{{VendorName: "Vendor-000", Quantity: 5, Dollars: 50}},
	}
}

func newPipelineForTest(store Store, notifier Notifier) *Pipeline {
	return NewPipeline(store, notifier, config.Default(), logger.NewNop())
}

func TestPipelineRunComplete(t *testing.T) {
	store := pipelineFixture()
	notifier := &fakeNotifier{}

	report, err := newPipelineForTest(store, notifier).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.RunStatusCompleted, report.Status)
	require.Len(t, report.Steps, 5)
	for _, s := range report.Steps {
		assert.Equal(t, StepStatusSuccess, s.Status, "step %s", s.Name)
	}

	// 四张结果表均被整表替换写入
	assert.Len(t, store.scores, 30)
	assert.Len(t, store.inventory, 30)
	assert.Len(t, store.pricing, 30)
	assert.Equal(t, 1, store.anomaliesWritten)

	// 头部三名供应商均有预测，结果仅在进程内
	require.Len(t, report.Forecasts, 3)
	for _, name := range []string{"Vendor-000", "Vendor-001", "Vendor-002"} {
		require.Contains(t, report.Forecasts, name)
		assert.InDelta(t, 300, report.Forecasts[name].ForecastQuantity, 1e-9)
	}

	// 审计记录与完成通知
	require.Len(t, store.runs, 1)
	assert.Equal(t, report.RunID, store.runs[0].RunID)
	assert.Equal(t, entity.RunStatusCompleted, store.runs[0].Status)
	require.Len(t, notifier.notifications, 1)
	assert.Equal(t, report.RunID, notifier.notifications[0].RunID)
	assert.Zero(t, notifier.notifications[0].FailedSteps)
}

func TestPipelineLoadFailureIsFatal(t *testing.T) {
	store := pipelineFixture()
	store.loadVendorsErr = errors.New("no such table: vendor_sales_summary")

	_, err := newPipelineForTest(store, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errorutil.IsKind(err, errorutil.KindLoad))

	// 不产生任何派生表
	assert.Zero(t, store.scoresWritten)
	assert.Zero(t, store.inventoryWritten)
	assert.Zero(t, store.anomaliesWritten)
	assert.Zero(t, store.pricingWritten)
}

func TestPipelineStepFailureIsIsolated(t *testing.T) {
	// 评分写入失败：该步记为失败，后续独立步骤照常运行
	store := pipelineFixture()
	store.saveScoresErr = errors.New("disk full")

	report, err := newPipelineForTest(store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.RunStatusPartial, report.Status)
	assert.Equal(t, StepStatusFailed, report.Steps[0].Status)
	assert.Equal(t, StepStatusSuccess, report.Steps[1].Status)
	assert.Equal(t, StepStatusSuccess, report.Steps[2].Status)
	assert.Equal(t, StepStatusSuccess, report.Steps[3].Status)

	assert.Equal(t, 1, store.inventoryWritten)
	assert.Equal(t, 1, store.pricingWritten)
}

func TestPipelineForecastInsufficientDataIsWarning(t *testing.T) {
	// 头部供应商销售明细不足：预测步为 NO_RESULT，整体状态仍为 COMPLETED
	store := pipelineFixture()
	store.sales = store.sales[:5]

	report, err := newPipelineForTest(store, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, entity.RunStatusCompleted, report.Status)
	last := report.Steps[len(report.Steps)-1]
	assert.Equal(t, StepForecast, last.Name)
	assert.Equal(t, StepStatusSuccess, last.Status)
	assert.Empty(t, report.Forecasts["Vendor-002"])
}

func TestPipelineIdempotent(t *testing.T) {
	// 输入不变时复跑产出完全一致的派生表（异常检测种子固定）
	store := pipelineFixture()
	p := newPipelineForTest(store, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	firstScores := store.scores
	firstInventory := store.inventory
	firstAnomalies := store.anomalies
	firstPricing := store.pricing

	_, err = p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, firstScores, store.scores)
	assert.Equal(t, firstInventory, store.inventory)
	assert.Equal(t, firstAnomalies, store.anomalies)
	assert.Equal(t, firstPricing, store.pricing)
}

func TestRunScoresOnly(t *testing.T) {
	store := pipelineFixture()
	p := newPipelineForTest(store, nil)

	require.NoError(t, p.RunScoresOnly(context.Background()))

	assert.Equal(t, 1, store.scoresWritten)
	assert.Zero(t, store.inventoryWritten)
	assert.Zero(t, store.anomaliesWritten)
	assert.Zero(t, store.pricingWritten)
}

func TestRunForecastOnly(t *testing.T) {
	store := pipelineFixture()
	p := newPipelineForTest(store, nil)

	result, err := p.RunForecastOnly(context.Background(), "Vendor-000", 0)
	require.NoError(t, err)

	// 默认 30 天预测期；无任何落库
	assert.InDelta(t, 300, result.ForecastQuantity, 1e-9)
	assert.Zero(t, store.scoresWritten)
	assert.Zero(t, store.anomaliesWritten)
}
