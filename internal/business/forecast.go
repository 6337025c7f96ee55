package business

import (
	"context"
	"fmt"
	"sort"
	"time"

	"vip/internal/entity"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// Basis 预测的时间聚合模式
type Basis string

const (
	// BasisCalendar 真实日历日聚合
	BasisCalendar Basis = "calendar"
	// BasisPositional 无日期时按行号分桶的退化代理（仅保留近似顺序，非严格时间序）
	BasisPositional Basis = "positional"
)

// ForecastResult 需求预测结果（仅在进程内返回，不落库）
type ForecastResult struct {
	ForecastQuantity float64 `json:"forecast_quantity"`
	ForecastDollars  float64 `json:"forecast_dollars"`
	Confidence       string  `json:"confidence"` // Low / Medium
	Basis            Basis   `json:"basis"`
	Points           int     `json:"points"` // 聚合后的序列点数
}

// 置信度常量（粗粒度启发式标签，并非统计置信区间）
const (
	ConfidenceLow    = "Low"
	ConfidenceMedium = "Medium"
)

// Forecaster 需求预测器
// 对销售序列做尾部移动平均，以末端均值为稳态日需求率外推到预测期
// 无状态、无存储依赖
type Forecaster struct {
	cfg config.AnalyticsConfig
	log logger.Logger
}

// NewForecaster 创建预测器
func NewForecaster(cfg config.AnalyticsConfig, log logger.Logger) *Forecaster {
	return &Forecaster{cfg: cfg, log: log}
}

// seriesPoint 聚合后的单个时间点
type seriesPoint struct {
	key      string
	quantity float64
	dollars  float64
}

// Forecast 生成指定供应商（vendorName 为空表示全量）未来 horizonDays 天的需求预测
// 过滤后不足最小行数时返回 INSUFFICIENT_DATA，属预期内的"无结果"而非硬失败
func (f *Forecaster) Forecast(ctx context.Context, sales []entity.SalesRecord, vendorName string, horizonDays int) (*ForecastResult, error) {
	if horizonDays <= 0 {
		horizonDays = f.cfg.ForecastHorizonDays
	}

	// 1. 供应商过滤
	filtered := sales
	if vendorName != "" {
		filtered = make([]entity.SalesRecord, 0, len(sales))
		for i := range sales {
			if sales[i].VendorName == vendorName {
				filtered = append(filtered, sales[i])
			}
		}
	}

	if len(filtered) < f.cfg.MinForecastRows {
		return nil, errorutil.New(errorutil.KindInsufficientData,
			"insufficient data for forecasting: %d rows, need %d", len(filtered), f.cfg.MinForecastRows)
	}

	// 2. 时间聚合：有日期走日历日聚合，否则退化为行号分桶
	points, basis, err := f.aggregate(filtered)
	if err != nil {
		return nil, err
	}

	// 3. 尾部移动平均，窗口 min(maxWindow, n/2)
	window := f.cfg.MaxWindow
	if half := len(points) / 2; half < window {
		window = half
	}
	if window < 1 {
		return nil, errorutil.New(errorutil.KindInsufficientData,
			"grouped series too short for moving average: %d points", len(points))
	}

	var qtySum, dollarSum float64
	for _, p := range points[len(points)-window:] {
		qtySum += p.quantity
		dollarSum += p.dollars
	}
	dailyQty := qtySum / float64(window)
	dailyDollars := dollarSum / float64(window)

	confidence := ConfidenceLow
	if len(points) > f.cfg.ConfidenceCutoff {
		confidence = ConfidenceMedium
	}

	result := &ForecastResult{
		ForecastQuantity: dailyQty * float64(horizonDays),
		ForecastDollars:  dailyDollars * float64(horizonDays),
		Confidence:       confidence,
		Basis:            basis,
		Points:           len(points),
	}

	f.log.Infof(ctx, "generated %d-day forecast (%s basis, %d points)", horizonDays, basis, len(points))
	return result, nil
}

// salesDateLayouts 上游 ETL 可能写入的日期格式
var salesDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// aggregate 将明细聚合为有序序列
// 日历模式下无日期的行被跳过（对应分组键缺失）；日期无法解析则整步失败
func (f *Forecaster) aggregate(records []entity.SalesRecord) ([]seriesPoint, Basis, error) {
	hasDate := false
	for i := range records {
		if records[i].SalesDate != "" {
			hasDate = true
			break
		}
	}

	grouped := make(map[string]*seriesPoint)
	keys := make([]string, 0)

	if hasDate {
		for i := range records {
			r := &records[i]
			if r.SalesDate == "" {
				continue
			}
			day, err := parseSalesDate(r.SalesDate)
			if err != nil {
				return nil, "", fmt.Errorf("parse sales date %q: %w", r.SalesDate, err)
			}
			addPoint(grouped, &keys, day, r.SalesQuantity, r.SalesDollars)
		}
	} else {
		for i := range records {
			key := fmt.Sprintf("%08d", i/f.cfg.PositionalBinSize)
			addPoint(grouped, &keys, key, records[i].SalesQuantity, records[i].SalesDollars)
		}
	}

	// 键为 ISO 日期或零填充桶号，字典序即时间序
	sort.Strings(keys)
	points := make([]seriesPoint, len(keys))
	for i, k := range keys {
		points[i] = *grouped[k]
	}

	basis := BasisPositional
	if hasDate {
		basis = BasisCalendar
	}
	return points, basis, nil
}

// addPoint 累加到分组点
func addPoint(grouped map[string]*seriesPoint, keys *[]string, key string, qty, dollars float64) {
	p, ok := grouped[key]
	if !ok {
		p = &seriesPoint{key: key}
		grouped[key] = p
		*keys = append(*keys, key)
	}
	p.quantity += qty
	p.dollars += dollars
}

// parseSalesDate 解析销售日期并归一化到日历日
func parseSalesDate(raw string) (string, error) {
	for _, layout := range salesDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized date format")
}
