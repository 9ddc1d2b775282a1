package handler

import "github.com/himanshuth87/Planning-Engine/internal/planning/service"

// Handlers 排产HTTP处理器集合
type Handlers struct {
	Order         *OrderHandler
	Machine       *MachineHandler
	Material      *MaterialHandler
	Consolidation *ConsolidationHandler
	Production    *ProductionHandler
	Dashboard     *DashboardHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Order:         NewOrderHandler(services.Order),
		Machine:       NewMachineHandler(services.Machine),
		Material:      NewMaterialHandler(services.Material),
		Consolidation: NewConsolidationHandler(services.Consolidation, services.Requirement),
		Production:    NewProductionHandler(services.Scheduling),
		Dashboard:     NewDashboardHandler(services.Dashboard),
	}
}
