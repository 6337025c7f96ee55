package business

import (
	"context"

	"vip/internal/entity"
)

// Store 分析引擎的存储接口
// 读取三张输入表，写入各结果表；由 pkg/infra/mysql 提供实现，
// 测试中注入内存实现即可在无真实库的情况下验证各步骤
type Store interface {
	LoadVendorSummaries(ctx context.Context) ([]entity.VendorSummary, error)
	LoadSalesRecords(ctx context.Context) ([]entity.SalesRecord, error)
	LoadPurchaseRecords(ctx context.Context) ([]entity.PurchaseRecord, error)

	// Replace* 整表替换写入：先删表重建再插入，不保留历史版本
	ReplacePerformanceScores(ctx context.Context, rows []entity.VendorPerformanceScore) error
	ReplaceInventoryRecommendations(ctx context.Context, rows []entity.InventoryRecommendation) error
	ReplaceAnomalies(ctx context.Context, rows []entity.VendorAnomaly) error
	ReplacePricingRecommendations(ctx context.Context, rows []entity.PricingRecommendation) error

	// RecordRun 追加一条运行审计记录
	RecordRun(ctx context.Context, run *entity.PipelineRun) error
}

// Notifier 运行完成通知接口（可选能力，由 pkg/infra/redis 提供实现）
type Notifier interface {
	PublishRunComplete(ctx context.Context, n *RunNotification) error
}

// RunNotification 运行完成通知消息
type RunNotification struct {
	RunID       string `json:"run_id"`
	Status      string `json:"status"`
	VendorRows  int    `json:"vendor_rows"`
	FailedSteps int    `json:"failed_steps"`
	Timestamp   int64  `json:"timestamp"`
}
