package service

import (
	"sync"
	"time"

	"github.com/himanshuth87/Planning-Engine/internal/config"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Services 排产服务集合
type Services struct {
	Order         *OrderService
	Machine       *MachineService
	Material      *MaterialService
	Consolidation *ConsolidationService
	Scheduling    *SchedulingService
	Requirement   *RequirementService
	Dashboard     *DashboardService
}

// NewServices 创建服务集合
// 合并、排产、重置共用一把写锁：三者都要对订单/批次/排产状态做整体读改写，
// 并发执行会导致订单被重复合并或产能被重复占用
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, cfg *config.Config) *Services {
	planMu := &sync.Mutex{}

	requirement := NewRequirementService(repos.Batch, repos.Material)
	return &Services{
		Order:         NewOrderService(repos.Order, db),
		Machine:       NewMachineService(repos.Machine),
		Material:      NewMaterialService(repos.Material),
		Consolidation: NewConsolidationService(repos.Order, repos.Batch, db, planMu),
		Scheduling:    NewSchedulingService(repos.Batch, repos.Machine, repos.Plan, db, planMu, cfg.Planning),
		Requirement:   requirement,
		Dashboard:     NewDashboardService(db, rdb, requirement),
	}
}

// dateOnly 截断到日（排产与交期比较都按自然日进行）
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
