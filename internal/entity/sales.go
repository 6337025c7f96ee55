package entity

// SalesRecord 销售明细实体（由上游 ETL 写入）
// SalesDate 为 TEXT 列，可能为空——缺失日期时预测器退化为行号分桶
type SalesRecord struct {
	VendorNo      int64   `gorm:"column:VendorNo"`
	VendorName    string  `gorm:"column:VendorName"`
	Brand         int64   `gorm:"column:Brand"`
	Description   string  `gorm:"column:Description"`
	SalesQuantity float64 `gorm:"column:SalesQuantity"`
	SalesDollars  float64 `gorm:"column:SalesDollars"`
	SalesPrice    float64 `gorm:"column:SalesPrice"`
	SalesDate     string  `gorm:"column:SalesDate"`
}

// TableName 指定表名
func (SalesRecord) TableName() string {
	return "sales"
}

// PurchaseRecord 采购明细实体（由上游 ETL 写入）
type PurchaseRecord struct {
	VendorNumber  int64   `gorm:"column:VendorNumber"`
	VendorName    string  `gorm:"column:VendorName"`
	Brand         int64   `gorm:"column:Brand"`
	Description   string  `gorm:"column:Description"`
	PurchasePrice float64 `gorm:"column:PurchasePrice"`
	Quantity      float64 `gorm:"column:Quantity"`
	Dollars       float64 `gorm:"column:Dollars"`
}

// TableName 指定表名
func (PurchaseRecord) TableName() string {
	return "purchases"
}
