package repository

import (
	"time"

	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"gorm.io/gorm"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(p *entity.PlanEntry) error {
	return r.db.Create(p).Error
}

func (r *PlanRepository) GetByID(id string) (*entity.PlanEntry, error) {
	var p entity.PlanEntry
	err := r.db.Preload("Batch").Preload("Machine").Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *PlanRepository) Update(p *entity.PlanEntry) error {
	return r.db.Save(p).Error
}

// ListByDate 某一天的排产，按产线排列
func (r *PlanRepository) ListByDate(day time.Time) ([]entity.PlanEntry, error) {
	var plans []entity.PlanEntry
	err := r.db.Preload("Batch").Preload("Machine").
		Where("planned_date = ?", day).
		Order("machine_id ASC, created_at ASC").Find(&plans).Error
	return plans, err
}

// ListByRange 闭区间 [from, to] 内的排产
func (r *PlanRepository) ListByRange(from, to time.Time) ([]entity.PlanEntry, error) {
	var plans []entity.PlanEntry
	err := r.db.Preload("Batch").Preload("Machine").
		Where("planned_date >= ? AND planned_date <= ?", from, to).
		Order("planned_date ASC, machine_id ASC, created_at ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) ListByBatch(batchID string) ([]entity.PlanEntry, error) {
	var plans []entity.PlanEntry
	err := r.db.Where("batch_id = ?", batchID).
		Order("planned_date ASC, created_at ASC").Find(&plans).Error
	return plans, err
}

// CommittedQty 某产线某天已排产数量，始终从排产条目聚合得出，不单独计数
func (r *PlanRepository) CommittedQty(machineID string, day time.Time) (int, error) {
	return CommittedQty(r.db, machineID, day)
}

// CommittedQty 事务内可用的聚合版本
func CommittedQty(db *gorm.DB, machineID string, day time.Time) (int, error) {
	var result struct{ Total int }
	err := db.Raw(`
		SELECT COALESCE(SUM(quantity), 0) as total
		FROM pp_plan_entries
		WHERE machine_id = ? AND planned_date = ?
	`, machineID, day).Scan(&result).Error
	return result.Total, err
}

// DB 返回底层db用于事务
func (r *PlanRepository) DB() *gorm.DB {
	return r.db
}
