package business

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"gorm.io/datatypes"

	"vip/internal/entity"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// 分析步骤名称常量
const (
	StepScoring   = "scoring"
	StepInventory = "inventory"
	StepAnomaly   = "anomaly"
	StepPricing   = "pricing"
	StepForecast  = "forecast"
)

// 步骤结果状态
const (
	StepStatusSuccess  = "SUCCESS"
	StepStatusFailed   = "FAILED"
	StepStatusNoResult = "NO_RESULT"
)

// StepResult 单个分析步骤的执行结果
type StepResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Rows   int    `json:"rows"`
	Error  string `json:"error,omitempty"`
}

// RunReport 一次完整流水线运行的报告（进程内返回）
type RunReport struct {
	RunID            string                     `json:"run_id"`
	Status           string                     `json:"status"`
	StartedAt        time.Time                  `json:"started_at"`
	FinishedAt       time.Time                  `json:"finished_at"`
	Steps            []StepResult               `json:"steps"`
	InventorySummary *InventorySummary          `json:"inventory_summary,omitempty"`
	Forecasts        map[string]*ForecastResult `json:"forecasts,omitempty"`
}

// Pipeline 分析流水线编排器
// 单次加载三张输入表，顺序执行五类分析；步骤间松耦合，
// 评分/库存/异常/定价各自只读最初加载的汇总表，单步失败不阻断后续步骤
type Pipeline struct {
	store    Store
	notifier Notifier // 可为 nil（未配置 Redis 时）
	cfg      config.AnalyticsConfig
	log      logger.Logger

	scorer     *Scorer
	optimizer  *InventoryOptimizer
	detector   *AnomalyDetector
	pricer     *PriceOptimizer
	forecaster *Forecaster

	// 存储写入是删表重建语义，并发运行会互相破坏结果表，这里直接拒绝
	running *atomic.Bool
}

// NewPipeline 创建流水线
func NewPipeline(store Store, notifier Notifier, cfg config.AnalyticsConfig, log logger.Logger) *Pipeline {
	return &Pipeline{
		store:      store,
		notifier:   notifier,
		cfg:        cfg,
		log:        log,
		scorer:     NewScorer(store, cfg, log),
		optimizer:  NewInventoryOptimizer(store, cfg, log),
		detector:   NewAnomalyDetector(store, cfg, log),
		pricer:     NewPriceOptimizer(store, cfg, log),
		forecaster: NewForecaster(cfg, log),
		running:    atomic.NewBool(false),
	}
}

// Run 执行完整分析流水线
// 供应商汇总表加载失败对整次运行致命；其余步骤失败仅记录并继续
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	if !p.running.CAS(false, true) {
		return nil, errors.New("analytics run already in progress")
	}
	defer p.running.Store(false)

	report := &RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Forecasts: make(map[string]*ForecastResult),
	}
	ctx = logger.WithRunID(ctx, report.RunID)

	p.log.Infof(ctx, "analytics pipeline started")

	// 1. 加载三张输入表；任一表不可读对整次运行致命，结果表一律不更新
	vendors, err := p.store.LoadVendorSummaries(ctx)
	if err != nil {
		p.log.Errorf(ctx, "failed to load vendor summary: %v", err)
		return nil, errorutil.Wrap(errorutil.KindLoad, err, "load vendor summary")
	}
	sales, err := p.store.LoadSalesRecords(ctx)
	if err != nil {
		p.log.Errorf(ctx, "failed to load sales records: %v", err)
		return nil, errorutil.Wrap(errorutil.KindLoad, err, "load sales records")
	}
	if _, err := p.store.LoadPurchaseRecords(ctx); err != nil {
		p.log.Errorf(ctx, "failed to load purchase records: %v", err)
		return nil, errorutil.Wrap(errorutil.KindLoad, err, "load purchase records")
	}
	p.log.Infof(ctx, "loaded data: %d vendors, %d sales records", len(vendors), len(sales))

	// 2. 绩效评分
	p.runStep(ctx, report, StepScoring, func(ctx context.Context) (int, error) {
		rows, err := p.scorer.Score(ctx, vendors)
		return len(rows), err
	})

	// 3. 库存优化
	p.runStep(ctx, report, StepInventory, func(ctx context.Context) (int, error) {
		rows, summary, err := p.optimizer.Optimize(ctx, vendors)
		if err != nil {
			return 0, err
		}
		report.InventorySummary = summary
		p.log.Infof(ctx, "inventory status: overstocked=%d understocked=%d optimal=%d",
			summary.Overstocked, summary.Understocked, summary.Optimal)
		return len(rows), nil
	})

	// 4. 异常检测
	p.runStep(ctx, report, StepAnomaly, func(ctx context.Context) (int, error) {
		rows, err := p.detector.Detect(ctx, vendors)
		return len(rows), err
	})

	// 5. 定价优化
	p.runStep(ctx, report, StepPricing, func(ctx context.Context) (int, error) {
		rows, err := p.pricer.Optimize(ctx, vendors)
		return len(rows), err
	})

	// 6. 头部供应商需求预测（结果仅在进程内返回）
	p.runStep(ctx, report, StepForecast, func(ctx context.Context) (int, error) {
		return p.forecastTopVendors(ctx, vendors, sales, report.Forecasts)
	})

	report.FinishedAt = time.Now()
	report.Status = runStatus(report.Steps)
	p.log.Infof(ctx, "analytics pipeline %s: %d/%d steps succeeded",
		report.Status, succeededSteps(report.Steps), len(report.Steps))

	// 7. 审计记录与完成通知，二者失败都只记日志
	p.recordRun(ctx, report, len(vendors), len(sales))
	p.notifyRunComplete(ctx, report, len(vendors))

	return report, nil
}

// runStep 执行单个步骤并记录结果
// INSUFFICIENT_DATA 是预期内的"无结果"，降级为告警；其余错误记为步骤失败
func (p *Pipeline) runStep(ctx context.Context, report *RunReport, name string, fn func(context.Context) (int, error)) {
	stepCtx := logger.WithStep(ctx, name)
	rows, err := fn(stepCtx)

	result := StepResult{Name: name, Rows: rows}
	switch {
	case err == nil:
		result.Status = StepStatusSuccess
	case errorutil.IsKind(err, errorutil.KindInsufficientData):
		result.Status = StepStatusNoResult
		result.Error = err.Error()
		p.log.Warnf(stepCtx, "step produced no result: %v", err)
	default:
		result.Status = StepStatusFailed
		result.Error = err.Error()
		p.log.Errorf(stepCtx, "step failed: %v", err)
	}
	report.Steps = append(report.Steps, result)
}

// forecastTopVendors 按销售额选出头部供应商，为其中前几名生成预测
func (p *Pipeline) forecastTopVendors(ctx context.Context, vendors []entity.VendorSummary, sales []entity.SalesRecord, out map[string]*ForecastResult) (int, error) {
	if len(sales) == 0 {
		return 0, errorutil.New(errorutil.KindInsufficientData, "no sales records loaded")
	}

	names := topVendorNames(vendors, p.cfg.TopVendors)
	limit := p.cfg.ForecastVendors
	if limit > len(names) {
		limit = len(names)
	}

	for _, name := range names[:limit] {
		forecast, err := p.forecaster.Forecast(ctx, sales, name, p.cfg.ForecastHorizonDays)
		if err != nil {
			if errorutil.IsKind(err, errorutil.KindInsufficientData) {
				p.log.Warnf(ctx, "no forecast for vendor %s: %v", name, err)
				continue
			}
			return len(out), err
		}
		out[name] = forecast
	}
	return len(out), nil
}

// topVendorNames 按销售额降序取前 n 个去重供应商名
func topVendorNames(vendors []entity.VendorSummary, n int) []string {
	rows := make([]entity.VendorSummary, len(vendors))
	copy(rows, vendors)
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalSalesDollars > rows[j].TotalSalesDollars
	})

	names := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for i := range rows {
		if len(names) >= n {
			break
		}
		if seen[rows[i].VendorName] {
			continue
		}
		seen[rows[i].VendorName] = true
		names = append(names, rows[i].VendorName)
	}
	return names
}

// recordRun 写入运行审计记录
func (p *Pipeline) recordRun(ctx context.Context, report *RunReport, vendorRows, salesRows int) {
	detail, err := json.Marshal(struct {
		Steps            []StepResult      `json:"steps"`
		InventorySummary *InventorySummary `json:"inventory_summary,omitempty"`
	}{report.Steps, report.InventorySummary})
	if err != nil {
		p.log.Errorf(ctx, "marshal run detail: %v", err)
		return
	}

	run := &entity.PipelineRun{
		RunID:      report.RunID,
		Status:     report.Status,
		VendorRows: vendorRows,
		SalesRows:  salesRows,
		Detail:     datatypes.JSON(detail),
		StartedAt:  report.StartedAt,
		FinishedAt: report.FinishedAt,
	}
	if err := p.store.RecordRun(ctx, run); err != nil {
		p.log.Errorf(ctx, "record pipeline run: %v", err)
	}
}

// notifyRunComplete 发布运行完成通知（未配置 Notifier 时跳过）
func (p *Pipeline) notifyRunComplete(ctx context.Context, report *RunReport, vendorRows int) {
	if p.notifier == nil {
		return
	}
	n := &RunNotification{
		RunID:       report.RunID,
		Status:      report.Status,
		VendorRows:  vendorRows,
		FailedSteps: len(report.Steps) - succeededSteps(report.Steps),
		Timestamp:   time.Now().Unix(),
	}
	if err := p.notifier.PublishRunComplete(ctx, n); err != nil {
		p.log.Errorf(ctx, "publish run notification: %v", err)
	}
}

// runStatus 汇总整体运行状态
func runStatus(steps []StepResult) string {
	failed := 0
	for _, s := range steps {
		if s.Status == StepStatusFailed {
			failed++
		}
	}
	switch {
	case failed == 0:
		return entity.RunStatusCompleted
	case failed == len(steps):
		return entity.RunStatusFailed
	default:
		return entity.RunStatusPartial
	}
}

// succeededSteps 统计成功步骤数
func succeededSteps(steps []StepResult) int {
	n := 0
	for _, s := range steps {
		if s.Status == StepStatusSuccess {
			n++
		}
	}
	return n
}

// RunScoresOnly 仅执行绩效评分（独立入口模式）
func (p *Pipeline) RunScoresOnly(ctx context.Context) error {
	vendors, err := p.store.LoadVendorSummaries(ctx)
	if err != nil {
		return errorutil.Wrap(errorutil.KindLoad, err, "load vendor summary")
	}
	_, err = p.scorer.Score(logger.WithStep(ctx, StepScoring), vendors)
	return err
}

// RunForecastOnly 仅执行需求预测（独立入口模式，结果不落库）
func (p *Pipeline) RunForecastOnly(ctx context.Context, vendorName string, horizonDays int) (*ForecastResult, error) {
	sales, err := p.store.LoadSalesRecords(ctx)
	if err != nil {
		return nil, errorutil.Wrap(errorutil.KindLoad, err, "load sales records")
	}
	return p.forecaster.Forecast(logger.WithStep(ctx, StepForecast), sales, vendorName, horizonDays)
}
