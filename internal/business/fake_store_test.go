package business

import (
	"context"

	"vip/internal/entity"
)

// fakeStore 内存存储实现（隔离单测，不依赖真实数据库）
type fakeStore struct {
	vendors   []entity.VendorSummary
	sales     []entity.SalesRecord
	purchases []entity.PurchaseRecord

	loadVendorsErr   error
	loadSalesErr     error
	loadPurchasesErr error
	saveScoresErr    error
	saveInventoryErr error
	saveAnomaliesErr error
	savePricingErr   error

	scores    []entity.VendorPerformanceScore
	inventory []entity.InventoryRecommendation
	anomalies []entity.VendorAnomaly
	pricing   []entity.PricingRecommendation
	runs      []entity.PipelineRun

	scoresWritten    int
	inventoryWritten int
	anomaliesWritten int
	pricingWritten   int
}

func (s *fakeStore) LoadVendorSummaries(ctx context.Context) ([]entity.VendorSummary, error) {
	if s.loadVendorsErr != nil {
		return nil, s.loadVendorsErr
	}
	return s.vendors, nil
}

func (s *fakeStore) LoadSalesRecords(ctx context.Context) ([]entity.SalesRecord, error) {
	if s.loadSalesErr != nil {
		return nil, s.loadSalesErr
	}
	return s.sales, nil
}

func (s *fakeStore) LoadPurchaseRecords(ctx context.Context) ([]entity.PurchaseRecord, error) {
	if s.loadPurchasesErr != nil {
		return nil, s.loadPurchasesErr
	}
	return s.purchases, nil
}

func (s *fakeStore) ReplacePerformanceScores(ctx context.Context, rows []entity.VendorPerformanceScore) error {
	if s.saveScoresErr != nil {
		return s.saveScoresErr
	}
	s.scores = rows
	s.scoresWritten++
	return nil
}

func (s *fakeStore) ReplaceInventoryRecommendations(ctx context.Context, rows []entity.InventoryRecommendation) error {
	if s.saveInventoryErr != nil {
		return s.saveInventoryErr
	}
	s.inventory = rows
	s.inventoryWritten++
	return nil
}

func (s *fakeStore) ReplaceAnomalies(ctx context.Context, rows []entity.VendorAnomaly) error {
	if s.saveAnomaliesErr != nil {
		return s.saveAnomaliesErr
	}
	s.anomalies = rows
	s.anomaliesWritten++
	return nil
}

func (s *fakeStore) ReplacePricingRecommendations(ctx context.Context, rows []entity.PricingRecommendation) error {
	if s.savePricingErr != nil {
		return s.savePricingErr
	}
	s.pricing = rows
	s.pricingWritten++
	return nil
}

func (s *fakeStore) RecordRun(ctx context.Context, run *entity.PipelineRun) error {
	s.runs = append(s.runs, *run)
	return nil
}

// fakeNotifier 捕获运行完成通知
type fakeNotifier struct {
	notifications []*RunNotification
}

func (n *fakeNotifier) PublishRunComplete(ctx context.Context, msg *RunNotification) error {
	n.notifications = append(n.notifications, msg)
	return nil
}
