package entity

import (
	"time"
)

// PlanEntryStatus 排产条目状态
const (
	PlanStatusScheduled  = "scheduled"
	PlanStatusInProgress = "in_progress"
	PlanStatusCompleted  = "completed"
)

// PlanEntry 排产条目：某批次在某天某产线上的计划产量
// 不变式: 任意 (产线, 日期) 上的 Quantity 之和不超过产线日产能
type PlanEntry struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	PlannedDate time.Time `json:"planned_date" gorm:"type:date;not null;index"`
	BatchID     *string   `json:"batch_id" gorm:"type:uuid;index"` // 仅历史/手工条目可为空
	Quantity    int       `json:"quantity_planned" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'scheduled'"`
	MachineID   string    `json:"machine_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at"`

	Batch   *Batch   `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
	Machine *Machine `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
}

func (PlanEntry) TableName() string {
	return "pp_plan_entries"
}
