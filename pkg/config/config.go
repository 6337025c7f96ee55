package config

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// Config 全局配置
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	MySQL     MySQLConfig     `mapstructure:"mysql"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`
}

// MySQLConfig MySQL 配置
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig Redis 配置（可选，addr 为空时不发布运行完成通知）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Channel  string `mapstructure:"channel"`
}

// ScoreWeights 绩效评分各维度权重（四项之和必须为 1.0）
type ScoreWeights struct {
	ProfitMargin    float64 `mapstructure:"profit_margin"`
	StockTurnover   float64 `mapstructure:"stock_turnover"`
	SalesDollars    float64 `mapstructure:"sales_dollars"`
	EfficiencyRatio float64 `mapstructure:"efficiency_ratio"`
}

// AnalyticsConfig 分析引擎业务常量
// 默认值即原有业务策略，集中在此处以便调整策略时不触碰算法本体
type AnalyticsConfig struct {
	// 库存优化
	LeadTimeDays       float64 `mapstructure:"lead_time_days"`       // 补货提前期（天）
	SafetyStockFactor  float64 `mapstructure:"safety_stock_factor"`  // 安全库存倍数
	OrderHorizonDays   float64 `mapstructure:"order_horizon_days"`   // 最优订货量覆盖天数
	OverstockTurnover  float64 `mapstructure:"overstock_turnover"`   // 低于该周转率视为滞销
	UnderstockTurnover float64 `mapstructure:"understock_turnover"`  // 高于该周转率视为畅销

	// 绩效评分
	ScoreWeights ScoreWeights `mapstructure:"score_weights"`

	// 定价优化
	LowMarginThreshold  float64 `mapstructure:"low_margin_threshold"`  // 低毛利率阈值（%）
	HighMarginThreshold float64 `mapstructure:"high_margin_threshold"` // 高毛利率阈值（%）
	SlowTurnover        float64 `mapstructure:"slow_turnover"`         // 定价规则中的慢周转阈值

	// 异常检测
	Contamination float64 `mapstructure:"contamination"` // 预期异常占比
	RandomSeed    int64   `mapstructure:"random_seed"`   // 固定随机种子（保证可复现）

	// 需求预测
	ForecastHorizonDays int `mapstructure:"forecast_horizon_days"` // 默认预测天数
	MinForecastRows     int `mapstructure:"min_forecast_rows"`     // 低于该行数不做预测
	MaxWindow           int `mapstructure:"max_window"`            // 移动平均最大窗口
	PositionalBinSize   int `mapstructure:"positional_bin_size"`   // 无日期时的行号分桶大小
	ConfidenceCutoff    int `mapstructure:"confidence_cutoff"`     // 分组点数超过该值置信度为 Medium

	// 流水线编排
	TopVendors      int `mapstructure:"top_vendors"`      // 按销售额选取的头部供应商数
	ForecastVendors int `mapstructure:"forecast_vendors"` // 其中参与预测的数量
}

// Load 加载配置文件
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config failed: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults 注册默认业务常量
func setDefaults() {
	viper.SetDefault("app.name", "vip-analytics")
	viper.SetDefault("app.env", "prod")
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("analytics.lead_time_days", 7.0)
	viper.SetDefault("analytics.safety_stock_factor", 1.5)
	viper.SetDefault("analytics.order_horizon_days", 30.0)
	viper.SetDefault("analytics.overstock_turnover", 0.5)
	viper.SetDefault("analytics.understock_turnover", 2.0)

	viper.SetDefault("analytics.score_weights.profit_margin", 0.35)
	viper.SetDefault("analytics.score_weights.stock_turnover", 0.25)
	viper.SetDefault("analytics.score_weights.sales_dollars", 0.25)
	viper.SetDefault("analytics.score_weights.efficiency_ratio", 0.15)

	viper.SetDefault("analytics.low_margin_threshold", 20.0)
	viper.SetDefault("analytics.high_margin_threshold", 60.0)
	viper.SetDefault("analytics.slow_turnover", 1.0)

	viper.SetDefault("analytics.contamination", 0.10)
	viper.SetDefault("analytics.random_seed", 42)

	viper.SetDefault("analytics.forecast_horizon_days", 30)
	viper.SetDefault("analytics.min_forecast_rows", 10)
	viper.SetDefault("analytics.max_window", 7)
	viper.SetDefault("analytics.positional_bin_size", 100)
	viper.SetDefault("analytics.confidence_cutoff", 30)

	viper.SetDefault("analytics.top_vendors", 5)
	viper.SetDefault("analytics.forecast_vendors", 3)

	viper.SetDefault("redis.channel", "analytics_run_complete")
}

// Default 返回带默认业务常量的分析配置（测试与独立调用用）
func Default() AnalyticsConfig {
	return AnalyticsConfig{
		LeadTimeDays:       7,
		SafetyStockFactor:  1.5,
		OrderHorizonDays:   30,
		OverstockTurnover:  0.5,
		UnderstockTurnover: 2.0,
		ScoreWeights: ScoreWeights{
			ProfitMargin:    0.35,
			StockTurnover:   0.25,
			SalesDollars:    0.25,
			EfficiencyRatio: 0.15,
		},
		LowMarginThreshold:  20,
		HighMarginThreshold: 60,
		SlowTurnover:        1.0,
		Contamination:       0.10,
		RandomSeed:          42,
		ForecastHorizonDays: 30,
		MinForecastRows:     10,
		MaxWindow:           7,
		PositionalBinSize:   100,
		ConfidenceCutoff:    30,
		TopVendors:          5,
		ForecastVendors:     3,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app.name is required")
	}
	if c.MySQL.DSN == "" {
		return fmt.Errorf("mysql.dsn is required")
	}
	return c.Analytics.Validate()
}

// Validate 验证分析配置
func (a *AnalyticsConfig) Validate() error {
	w := a.ScoreWeights
	sum := w.ProfitMargin + w.StockTurnover + w.SalesDollars + w.EfficiencyRatio
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("score weights must sum to 1.0, got %v", sum)
	}
	if a.Contamination <= 0 || a.Contamination >= 0.5 {
		return fmt.Errorf("contamination must be in (0, 0.5), got %v", a.Contamination)
	}
	if a.MinForecastRows < 1 {
		return fmt.Errorf("min_forecast_rows must be positive")
	}
	if a.PositionalBinSize < 1 {
		return fmt.Errorf("positional_bin_size must be positive")
	}
	if a.ForecastVendors > a.TopVendors {
		return fmt.Errorf("forecast_vendors cannot exceed top_vendors")
	}
	return nil
}
