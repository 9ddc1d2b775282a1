package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/config"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"gorm.io/gorm"
)

// SchedulingService 产能排产：把批次的未排产数量按交期优先级分配到日/产线。
// 贪心分配，不回溯：排给高优先级批次的产能不会再让给低优先级批次，
// 同一天同一产线的剩余产能会顺延给下一优先级的批次。
type SchedulingService struct {
	batchRepo   *repository.BatchRepository
	machineRepo *repository.MachineRepository
	planRepo    *repository.PlanRepository
	db          *gorm.DB
	mu          *sync.Mutex
	cfg         config.PlanningConfig
}

func NewSchedulingService(
	batchRepo *repository.BatchRepository,
	machineRepo *repository.MachineRepository,
	planRepo *repository.PlanRepository,
	db *gorm.DB,
	mu *sync.Mutex,
	cfg config.PlanningConfig,
) *SchedulingService {
	if cfg.MaxHorizonDays <= 0 {
		cfg.MaxHorizonDays = 3650
	}
	if cfg.DefaultMachineCapacity <= 0 {
		cfg.DefaultMachineCapacity = 1000
	}
	return &SchedulingService{
		batchRepo:   batchRepo,
		machineRepo: machineRepo,
		planRepo:    planRepo,
		db:          db,
		mu:          mu,
		cfg:         cfg,
	}
}

// GeneratePlan 从 startDate 起逐日扫描，直到所有批次的未排产数量归零。
// 已有排产覆盖的数量不会重复分配，重复调用只补排剩余部分。
// 返回本次新建的排产条目。
func (s *SchedulingService) GeneratePlan(startDate time.Time) ([]entity.PlanEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := dateOnly(startDate)
	created := []entity.PlanEntry{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var batches []entity.Batch
		if err := tx.Where("remaining_qty > 0").Find(&batches).Error; err != nil {
			return fmt.Errorf("读取待排产批次失败: %w", err)
		}
		if len(batches) == 0 {
			return nil
		}

		// 批次优先级：参与订单的最早交期，交期相同按批次ID
		type rankedBatch struct {
			batch    *entity.Batch
			delivery time.Time
		}
		ranked := make([]rankedBatch, 0, len(batches))
		remainingTotal := 0
		for i := range batches {
			b := &batches[i]
			var orders []entity.SalesOrder
			if err := tx.Where("batch_id = ?", b.ID).Find(&orders).Error; err != nil {
				return fmt.Errorf("读取批次订单失败: %w", err)
			}
			delivery := start
			if len(orders) > 0 {
				delivery = orders[0].DeliveryDate
				for _, o := range orders[1:] {
					if o.DeliveryDate.Before(delivery) {
						delivery = o.DeliveryDate
					}
				}
			}
			ranked = append(ranked, rankedBatch{batch: b, delivery: dateOnly(delivery)})
			remainingTotal += b.RemainingQty
		}
		sort.Slice(ranked, func(i, j int) bool {
			if !ranked[i].delivery.Equal(ranked[j].delivery) {
				return ranked[i].delivery.Before(ranked[j].delivery)
			}
			return ranked[i].batch.ID < ranked[j].batch.ID
		})

		machines, err := s.ensureMachines(tx)
		if err != nil {
			return err
		}

		for dayOffset := 0; remainingTotal > 0; dayOffset++ {
			if dayOffset >= s.cfg.MaxHorizonDays {
				return fmt.Errorf("排产扫描超过 %d 天仍未完成，产能数据异常", s.cfg.MaxHorizonDays)
			}
			day := start.AddDate(0, 0, dayOffset)

			for mi := range machines {
				m := &machines[mi]
				committed, err := repository.CommittedQty(tx, m.ID, day)
				if err != nil {
					return fmt.Errorf("统计已排产数量失败: %w", err)
				}
				available := m.CapacityPerDay - committed

				for _, rb := range ranked {
					if available <= 0 {
						break
					}
					if rb.batch.RemainingQty <= 0 {
						continue
					}

					allocated := rb.batch.RemainingQty
					if available < allocated {
						allocated = available
					}

					entry := entity.PlanEntry{
						ID:          uuid.New().String(),
						PlannedDate: day,
						BatchID:     &rb.batch.ID,
						Quantity:    allocated,
						Status:      entity.PlanStatusScheduled,
						MachineID:   m.ID,
					}
					if err := tx.Create(&entry).Error; err != nil {
						return fmt.Errorf("创建排产条目失败: %w", err)
					}

					rb.batch.RemainingQty -= allocated
					if err := tx.Model(&entity.Batch{}).Where("id = ?", rb.batch.ID).
						Update("remaining_qty", rb.batch.RemainingQty).Error; err != nil {
						return fmt.Errorf("更新批次剩余数量失败: %w", err)
					}

					available -= allocated
					remainingTotal -= allocated
					created = append(created, entry)
				}

				if remainingTotal == 0 {
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ensureMachines 读取可用产线；一条都没有时创建默认产线，保证排产可以进行
func (s *SchedulingService) ensureMachines(tx *gorm.DB) ([]entity.Machine, error) {
	var machines []entity.Machine
	if err := tx.Where("is_active = ?", true).
		Order("created_at ASC, id ASC").Find(&machines).Error; err != nil {
		return nil, fmt.Errorf("读取产线失败: %w", err)
	}
	if len(machines) == 0 {
		def := entity.Machine{
			ID:             uuid.New().String(),
			Name:           "Default Line",
			CapacityPerDay: s.cfg.DefaultMachineCapacity,
			IsActive:       true,
		}
		if err := tx.Create(&def).Error; err != nil {
			return nil, fmt.Errorf("创建默认产线失败: %w", err)
		}
		machines = append(machines, def)
	}
	return machines, nil
}

// GetSchedule 闭区间内的排产条目
func (s *SchedulingService) GetSchedule(from, to time.Time) ([]entity.PlanEntry, error) {
	return s.planRepo.ListByRange(dateOnly(from), dateOnly(to))
}

// GetDailySchedule 某一天的排产条目
func (s *SchedulingService) GetDailySchedule(day time.Time) ([]entity.PlanEntry, error) {
	return s.planRepo.ListByDate(dateOnly(day))
}

// UpdatePlanStatus 推进排产条目状态（scheduled → in_progress → completed）
func (s *SchedulingService) UpdatePlanStatus(id, status string) (*entity.PlanEntry, error) {
	switch status {
	case entity.PlanStatusScheduled, entity.PlanStatusInProgress, entity.PlanStatusCompleted:
	default:
		return nil, fmt.Errorf("无效的排产状态: %s", status)
	}

	plan, err := s.planRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("排产条目不存在: %w", err)
	}
	plan.Status = status
	if err := s.planRepo.Update(plan); err != nil {
		return nil, fmt.Errorf("更新排产状态失败: %w", err)
	}
	return plan, nil
}
