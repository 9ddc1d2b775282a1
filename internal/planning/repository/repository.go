package repository

import "gorm.io/gorm"

// Repositories 排产仓库集合
type Repositories struct {
	Order    *OrderRepository
	Batch    *BatchRepository
	Plan     *PlanRepository
	Machine  *MachineRepository
	Material *MaterialRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Order:    NewOrderRepository(db),
		Batch:    NewBatchRepository(db),
		Plan:     NewPlanRepository(db),
		Machine:  NewMachineRepository(db),
		Material: NewMaterialRepository(db),
	}
}
