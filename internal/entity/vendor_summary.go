package entity

// VendorSummary 供应商销售汇总实体（由上游 ETL 写入，一个供应商-品牌一行）
// 列名沿用 ETL 写表时的驼峰命名，不做 snake_case 转换
type VendorSummary struct {
	VendorNumber          int64   `gorm:"column:VendorNumber"`
	VendorName            string  `gorm:"column:VendorName"`
	Brand                 int64   `gorm:"column:Brand"`
	Description           string  `gorm:"column:Description"`
	PurchasePrice         float64 `gorm:"column:PurchasePrice"`
	ActualPrice           float64 `gorm:"column:ActualPrice"`
	TotalPurchaseQuantity float64 `gorm:"column:TotalPurchaseQuantity"`
	TotalPurchaseDollars  float64 `gorm:"column:TotalPurchaseDollars"`
	TotalSalesQuantity    float64 `gorm:"column:TotalSalesQuantity"`
	TotalSalesDollars     float64 `gorm:"column:TotalSalesDollars"`
	GrossProfit           float64 `gorm:"column:GrossProfit"`
	ProfitMargin          float64 `gorm:"column:ProfitMargin"`
	StockTurnover         float64 `gorm:"column:StockTurnover"`
	SalesToPurchaseRatio  float64 `gorm:"column:SalesToPurchaseRatio"`
}

// TableName 指定表名
func (VendorSummary) TableName() string {
	return "vendor_sales_summary"
}
