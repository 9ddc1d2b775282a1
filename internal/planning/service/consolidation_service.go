package service

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"gorm.io/gorm"
)

// ConsolidationService 订单合并：把未合并订单按 (产品, 颜色) 归并成生产批次
type ConsolidationService struct {
	orderRepo *repository.OrderRepository
	batchRepo *repository.BatchRepository
	db        *gorm.DB
	mu        *sync.Mutex
}

func NewConsolidationService(orderRepo *repository.OrderRepository, batchRepo *repository.BatchRepository, db *gorm.DB, mu *sync.Mutex) *ConsolidationService {
	return &ConsolidationService{orderRepo: orderRepo, batchRepo: batchRepo, db: db, mu: mu}
}

// Run 执行一次合并。只处理未合并订单，重复调用不会重新分组已合并订单，
// 没有新订单时返回空结果。整个分组在一个事务内完成。
func (s *ConsolidationService) Run() ([]entity.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.orderRepo.ListUnconsolidated()
	if err != nil {
		return nil, fmt.Errorf("读取待合并订单失败: %w", err)
	}
	if len(pending) == 0 {
		return []entity.Batch{}, nil
	}

	// 按 (产品, 颜色) 精确分组（区分大小写），保持首次出现的顺序
	type groupKey struct {
		product string
		color   string
	}
	groups := make(map[groupKey][]entity.SalesOrder)
	var keys []groupKey
	for _, o := range pending {
		k := groupKey{product: o.ProductName, color: o.Color}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], o)
	}

	batches := make([]entity.Batch, 0, len(keys))
	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, k := range keys {
			orders := groups[k]
			total := 0
			orderIDs := make([]string, 0, len(orders))
			for _, o := range orders {
				total += o.Quantity
				orderIDs = append(orderIDs, o.OrderID)
			}

			now := time.Now()
			batch := entity.Batch{
				ID:           uuid.New().String(),
				BatchCode:    fmt.Sprintf("CB-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
				ProductName:  k.product,
				Color:        k.color,
				TotalQty:     total,
				RemainingQty: total,
				OrderIDs:     strings.Join(orderIDs, ","),
			}
			if err := tx.Create(&batch).Error; err != nil {
				return fmt.Errorf("创建批次失败: %w", err)
			}

			for i := range orders {
				o := orders[i]
				o.Consolidated = true
				o.Status = entity.OrderStatusConsolidated
				o.BatchID = &batch.ID
				if err := tx.Save(&o).Error; err != nil {
					return fmt.Errorf("更新订单合并标记失败: %w", err)
				}
			}
			batches = append(batches, batch)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return batches, nil
}

// ListBatches 全部批次，最近创建的在前
func (s *ConsolidationService) ListBatches() ([]entity.Batch, error) {
	return s.batchRepo.List()
}

// ResetAll 清空所有批次和排产条目，订单全部回到待合并状态。
// 单事务执行，任一步失败则整体回滚，不留下部分删除的中间态。
// 产能占用由排产条目推导，条目删除后随之清零。
func (s *ConsolidationService) ResetAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&entity.PlanEntry{}).Error; err != nil {
			return fmt.Errorf("清除排产条目失败: %w", err)
		}
		if err := tx.Where("1 = 1").Delete(&entity.Batch{}).Error; err != nil {
			return fmt.Errorf("清除批次失败: %w", err)
		}
		if err := tx.Model(&entity.SalesOrder{}).Where("1 = 1").Updates(map[string]interface{}{
			"consolidated": false,
			"status":       entity.OrderStatusPending,
			"batch_id":     nil,
		}).Error; err != nil {
			return fmt.Errorf("重置订单状态失败: %w", err)
		}
		return nil
	})
}
