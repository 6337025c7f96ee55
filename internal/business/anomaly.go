package business

import (
	"context"
	"math"
	"sort"

	"vip/internal/entity"
	"vip/internal/mlkit"
	"vip/pkg/config"
	"vip/pkg/errorutil"
	"vip/pkg/logger"
)

// AnomalyDetector 供应商异常检测器
// 特征标准化后用孤立森林打分，结果是相对于当前供应商群体的：
// 群体变化时同一供应商的异常判定可能翻转
type AnomalyDetector struct {
	store Store
	cfg   config.AnalyticsConfig
	log   logger.Logger
}

// NewAnomalyDetector 创建异常检测器
func NewAnomalyDetector(store Store, cfg config.AnalyticsConfig, log logger.Logger) *AnomalyDetector {
	return &AnomalyDetector{store: store, cfg: cfg, log: log}
}

// anomalyFeatures 参与检测的特征列
var anomalyFeatures = []string{
	FeatureProfitMargin,
	FeatureStockTurnover,
	FeatureSalesDollars,
	FeatureSalesToPurchaseRatio,
}

// Detect 检测异常供应商，仅被标记行按评分升序（最异常在前）整表替换写入 vendor_anomalies
func (d *AnomalyDetector) Detect(ctx context.Context, vendors []entity.VendorSummary) ([]entity.VendorAnomaly, error) {
	enriched := EngineerFeatures(vendors)

	// 1. 组装特征矩阵，缺失值（NaN）填 0
	matrix := make([][]float64, len(enriched))
	for i := range matrix {
		matrix[i] = make([]float64, len(anomalyFeatures))
	}
	for j, name := range anomalyFeatures {
		col, err := featureColumn(enriched, name)
		if err != nil {
			return nil, err
		}
		for i, v := range col {
			if math.IsNaN(v) {
				v = 0
			}
			matrix[i][j] = v
		}
	}

	// 2. 标准化 + 拟合孤立森林（固定种子，保证复跑结果一致）
	scaler := &mlkit.StandardScaler{}
	scaled, err := scaler.FitTransform(matrix)
	if err != nil {
		return nil, errorutil.Wrap(errorutil.KindModelFit, err, "standardize features")
	}

	forest := mlkit.NewIsolationForest(d.cfg.Contamination, d.cfg.RandomSeed)
	if err := forest.Fit(scaled); err != nil {
		return nil, errorutil.Wrap(errorutil.KindModelFit, err, "fit isolation forest")
	}

	scores := forest.ScoreSamples(scaled)
	flags := forest.Predict(scaled)

	// 3. 仅保留被标记行，投影为结果行
	anomalies := make([]entity.VendorAnomaly, 0)
	for i, flagged := range flags {
		if !flagged {
			continue
		}
		v := &enriched[i]
		anomalies = append(anomalies, entity.VendorAnomaly{
			VendorName:           v.VendorName,
			Description:          v.Description,
			ProfitMargin:         v.ProfitMargin,
			StockTurnover:        v.StockTurnover,
			TotalSalesDollars:    v.TotalSalesDollars,
			SalesToPurchaseRatio: v.SalesToPurchaseRatio,
			AnomalyScore:         scores[i],
		})
	}

	// 4. 评分升序，评分相同按供应商名排序保证输出稳定
	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].AnomalyScore != anomalies[j].AnomalyScore {
			return anomalies[i].AnomalyScore < anomalies[j].AnomalyScore
		}
		return anomalies[i].VendorName < anomalies[j].VendorName
	})

	if err := d.store.ReplaceAnomalies(ctx, anomalies); err != nil {
		return nil, errorutil.Wrap(errorutil.KindStore, err, "save anomalies")
	}

	d.log.Infof(ctx, "detected %d anomalies out of %d vendors", len(anomalies), len(vendors))
	return anomalies, nil
}
