package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	dashboardCacheKey = "prodplan:dashboard:stats"
	dashboardCacheTTL = 30 * time.Second
)

// DashboardService 看板聚合。订单状态在读取时推导，不依赖后台任务
type DashboardService struct {
	db          *gorm.DB
	rdb         *redis.Client // 可为空，为空时不走缓存
	requirement *RequirementService
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client, requirement *RequirementService) *DashboardService {
	return &DashboardService{db: db, rdb: rdb, requirement: requirement}
}

// PlanSummary 看板上的排产摘要
type PlanSummary struct {
	ID              string `json:"id"`
	PlannedDate     string `json:"planned_date"`
	ProductName     string `json:"product_name"`
	Color           string `json:"color"`
	QuantityPlanned int    `json:"quantity_planned"`
	Status          string `json:"status"`
	MachineID       string `json:"machine_id"`
	MachineName     string `json:"machine_name"`
}

// OrderSummary 看板上的订单摘要
type OrderSummary struct {
	ID           string `json:"id"`
	OrderID      string `json:"order_id"`
	ProductName  string `json:"product_name"`
	Quantity     int    `json:"quantity"`
	Color        string `json:"color"`
	DeliveryDate string `json:"delivery_date"`
	Status       string `json:"status"`
}

// DashboardStats 看板统计
type DashboardStats struct {
	TodayPlanCount       int                `json:"today_plan_count"`
	PendingOrdersCount   int                `json:"pending_orders_count"`
	CompletedOrdersCount int                `json:"completed_orders_count"`
	DelayedOrdersCount   int                `json:"delayed_orders_count"`
	TodayPlan            []PlanSummary      `json:"today_plan"`
	PendingOrders        []OrderSummary     `json:"pending_orders"`
	DelayedOrders        []OrderSummary     `json:"delayed_orders"`
	TodayRMRequirements  []BatchRequirement `json:"today_rm_requirements"`
}

// GetStats 聚合当日排产、订单状态分布与当日用料需求
func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var cached DashboardStats
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return &cached, nil
			}
		}
	}

	today := dateOnly(time.Now())

	var todayPlans []entity.PlanEntry
	if err := s.db.Preload("Batch").Preload("Machine").
		Where("planned_date = ?", today).
		Order("machine_id ASC, created_at ASC").Find(&todayPlans).Error; err != nil {
		return nil, fmt.Errorf("读取当日排产失败: %w", err)
	}

	var orders []entity.SalesOrder
	if err := s.db.Order("delivery_date ASC, order_id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("读取订单失败: %w", err)
	}

	progress, err := LoadBatchProgress(s.db)
	if err != nil {
		return nil, fmt.Errorf("汇总批次进度失败: %w", err)
	}

	stats := &DashboardStats{
		TodayPlan:           []PlanSummary{},
		PendingOrders:       []OrderSummary{},
		DelayedOrders:       []OrderSummary{},
		TodayRMRequirements: []BatchRequirement{},
	}

	for _, p := range todayPlans {
		summary := PlanSummary{
			ID:              p.ID,
			PlannedDate:     p.PlannedDate.Format("2006-01-02"),
			QuantityPlanned: p.Quantity,
			Status:          p.Status,
			MachineID:       p.MachineID,
		}
		if p.Batch != nil {
			summary.ProductName = p.Batch.ProductName
			summary.Color = p.Batch.Color
		}
		if p.Machine != nil {
			summary.MachineName = p.Machine.Name
		}
		stats.TodayPlan = append(stats.TodayPlan, summary)
	}
	stats.TodayPlanCount = len(stats.TodayPlan)

	for i := range orders {
		o := orders[i]
		var prog *BatchProgress
		if o.BatchID != nil {
			prog = progress[*o.BatchID]
		}
		derived := DeriveOrderStatus(&o, prog, today)

		switch derived {
		case entity.OrderStatusCompleted:
			stats.CompletedOrdersCount++
		case entity.OrderStatusDelayed:
			stats.DelayedOrdersCount++
			if len(stats.DelayedOrders) < 20 {
				stats.DelayedOrders = append(stats.DelayedOrders, orderSummary(&o, derived))
			}
		default:
			stats.PendingOrdersCount++
			if len(stats.PendingOrders) < 50 {
				stats.PendingOrders = append(stats.PendingOrders, orderSummary(&o, derived))
			}
		}
	}

	stats.TodayRMRequirements = s.requirement.GetForPlans(todayPlans)

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL)
		}
	}
	return stats, nil
}

func orderSummary(o *entity.SalesOrder, status string) OrderSummary {
	return OrderSummary{
		ID:           o.ID,
		OrderID:      o.OrderID,
		ProductName:  o.ProductName,
		Quantity:     o.Quantity,
		Color:        o.Color,
		DeliveryDate: o.DeliveryDate.Format("2006-01-02"),
		Status:       status,
	}
}
