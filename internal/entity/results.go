package entity

// 绩效分层常量
const (
	TierPoor      = "Poor"
	TierFair      = "Fair"
	TierGood      = "Good"
	TierExcellent = "Excellent"
)

// 定价调整指令常量
const (
	PriceIncrease = "Increase by 5-10%"
	PriceDecrease = "Decrease by 5% to boost sales"
	PriceMaintain = "Maintain current price"
)

// VendorPerformanceScore 供应商绩效评分结果（完整富化表，整表替换写入）
type VendorPerformanceScore struct {
	VendorSummary `gorm:"embedded"`

	// 派生特征
	ProfitPerUnit   float64 `gorm:"column:ProfitPerUnit"`
	RevenueShare    float64 `gorm:"column:RevenueShare"`
	EfficiencyRatio float64 `gorm:"column:EfficiencyRatio"`

	// 归一化子分（0-100）
	ProfitMarginNormalized    float64 `gorm:"column:ProfitMargin_Normalized"`
	StockTurnoverNormalized   float64 `gorm:"column:StockTurnover_Normalized"`
	SalesDollarsNormalized    float64 `gorm:"column:TotalSalesDollars_Normalized"`
	EfficiencyRatioNormalized float64 `gorm:"column:EfficiencyRatio_Normalized"`

	// 综合评分与分层
	PerformanceScore float64 `gorm:"column:PerformanceScore"`
	PerformanceTier  string  `gorm:"column:PerformanceTier"`
}

// TableName 指定表名
func (VendorPerformanceScore) TableName() string {
	return "vendor_performance_scores"
}

// InventoryRecommendation 库存优化建议（整表替换写入）
type InventoryRecommendation struct {
	VendorName           string  `gorm:"column:VendorName"`
	Description          string  `gorm:"column:Description"`
	DemandRate           float64 `gorm:"column:DemandRate"`
	ReorderPoint         float64 `gorm:"column:ReorderPoint"`
	OptimalOrderQuantity float64 `gorm:"column:OptimalOrderQuantity"`
	IsOverstocked        bool    `gorm:"column:IsOverstocked"`
	IsUnderstocked       bool    `gorm:"column:IsUnderstocked"`
}

// TableName 指定表名
func (InventoryRecommendation) TableName() string {
	return "inventory_recommendations"
}

// VendorAnomaly 供应商异常行（仅保留被标记行，按 AnomalyScore 升序写入）
// 四个原始特征值随行保留，便于前端直接展示成因
type VendorAnomaly struct {
	VendorName           string  `gorm:"column:VendorName"`
	Description          string  `gorm:"column:Description"`
	ProfitMargin         float64 `gorm:"column:ProfitMargin"`
	StockTurnover        float64 `gorm:"column:StockTurnover"`
	TotalSalesDollars    float64 `gorm:"column:TotalSalesDollars"`
	SalesToPurchaseRatio float64 `gorm:"column:SalesToPurchaseRatio"`
	AnomalyScore         float64 `gorm:"column:AnomalyScore"`
}

// TableName 指定表名
func (VendorAnomaly) TableName() string {
	return "vendor_anomalies"
}

// PricingRecommendation 定价调整建议（整表替换写入）
type PricingRecommendation struct {
	VendorName          string  `gorm:"column:VendorName"`
	Description         string  `gorm:"column:Description"`
	AvgSalePrice        float64 `gorm:"column:AvgSalePrice"`
	CurrentMarkup       float64 `gorm:"column:CurrentMarkup"`
	PriceRecommendation string  `gorm:"column:PriceRecommendation"`
	RecommendedPrice    float64 `gorm:"column:RecommendedPrice"`
}

// TableName 指定表名
func (PricingRecommendation) TableName() string {
	return "pricing_recommendations"
}
