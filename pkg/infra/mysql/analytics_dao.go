package mysql

import (
	"context"
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"vip/internal/entity"
)

// AnalyticsDAO 分析引擎数据访问对象
// 整个流水线复用同一个连接句柄；Replace* 为删表重建语义，
// 中途崩溃可能留下缺失或写了一半的结果表，读方须把空表视为"尚未计算"
type AnalyticsDAO struct {
	db *gorm.DB
}

// NewAnalyticsDAO 创建 AnalyticsDAO 实例
func NewAnalyticsDAO(dsn string) (*AnalyticsDAO, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &AnalyticsDAO{
		db: db,
	}, nil
}

// NewAnalyticsDAOWithDB 复用既有连接创建实例（测试用）
func NewAnalyticsDAOWithDB(db *gorm.DB) *AnalyticsDAO {
	return &AnalyticsDAO{db: db}
}

// LoadVendorSummaries 读取供应商销售汇总表
func (dao *AnalyticsDAO) LoadVendorSummaries(ctx context.Context) ([]entity.VendorSummary, error) {
	var rows []entity.VendorSummary
	if err := dao.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load vendor summary: %w", err)
	}
	return rows, nil
}

// LoadSalesRecords 读取销售明细表
func (dao *AnalyticsDAO) LoadSalesRecords(ctx context.Context) ([]entity.SalesRecord, error) {
	var rows []entity.SalesRecord
	if err := dao.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load sales records: %w", err)
	}
	return rows, nil
}

// LoadPurchaseRecords 读取采购明细表
func (dao *AnalyticsDAO) LoadPurchaseRecords(ctx context.Context) ([]entity.PurchaseRecord, error) {
	var rows []entity.PurchaseRecord
	if err := dao.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load purchase records: %w", err)
	}
	return rows, nil
}

// ReplacePerformanceScores 整表替换写入绩效评分
func (dao *AnalyticsDAO) ReplacePerformanceScores(ctx context.Context, rows []entity.VendorPerformanceScore) error {
	return dao.replaceTable(ctx, &entity.VendorPerformanceScore{}, rows, len(rows))
}

// ReplaceInventoryRecommendations 整表替换写入库存建议
func (dao *AnalyticsDAO) ReplaceInventoryRecommendations(ctx context.Context, rows []entity.InventoryRecommendation) error {
	return dao.replaceTable(ctx, &entity.InventoryRecommendation{}, rows, len(rows))
}

// ReplaceAnomalies 整表替换写入异常行
func (dao *AnalyticsDAO) ReplaceAnomalies(ctx context.Context, rows []entity.VendorAnomaly) error {
	return dao.replaceTable(ctx, &entity.VendorAnomaly{}, rows, len(rows))
}

// ReplacePricingRecommendations 整表替换写入定价建议
func (dao *AnalyticsDAO) ReplacePricingRecommendations(ctx context.Context, rows []entity.PricingRecommendation) error {
	return dao.replaceTable(ctx, &entity.PricingRecommendation{}, rows, len(rows))
}

// RecordRun 追加运行审计记录（表不存在时先建表）
func (dao *AnalyticsDAO) RecordRun(ctx context.Context, run *entity.PipelineRun) error {
	migrator := dao.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(&entity.PipelineRun{}) {
		if err := migrator.CreateTable(&entity.PipelineRun{}); err != nil {
			return fmt.Errorf("failed to create pipeline_runs table: %w", err)
		}
	}
	if err := dao.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to record pipeline run: %w", err)
	}
	return nil
}

// replaceTable 删表重建后批量插入
func (dao *AnalyticsDAO) replaceTable(ctx context.Context, model interface{}, rows interface{}, count int) error {
	migrator := dao.db.WithContext(ctx).Migrator()

	if migrator.HasTable(model) {
		if err := migrator.DropTable(model); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	if err := migrator.CreateTable(model); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	if count == 0 {
		return nil
	}
	if err := dao.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}
	return nil
}

// Close 关闭数据库连接
func (dao *AnalyticsDAO) Close() error {
	sqlDB, err := dao.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
