package entity

import (
	"time"

	"gorm.io/datatypes"
)

// 流水线运行状态常量
const (
	RunStatusCompleted = "COMPLETED"
	RunStatusPartial   = "PARTIAL"
	RunStatusFailed    = "FAILED"
)

// PipelineRun 流水线运行审计记录（追加写入，不做整表替换）
// Detail 保存各步骤结果与库存汇总计数的 JSON 快照
type PipelineRun struct {
	RunID      string         `gorm:"column:run_id;primaryKey;type:varchar(64)"`
	Status     string         `gorm:"column:status;type:varchar(16);not null"`
	VendorRows int            `gorm:"column:vendor_rows;not null"`
	SalesRows  int            `gorm:"column:sales_rows;not null"`
	Detail     datatypes.JSON `gorm:"column:detail;type:json"`
	StartedAt  time.Time      `gorm:"column:started_at;not null"`
	FinishedAt time.Time      `gorm:"column:finished_at;not null"`
}

// TableName 指定表名
func (PipelineRun) TableName() string {
	return "pipeline_runs"
}
