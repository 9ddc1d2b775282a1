package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
)

// MachineService 产线档案。产能占用本身由排产条目推导，这里只管定义。
type MachineService struct {
	repo *repository.MachineRepository
}

func NewMachineService(repo *repository.MachineRepository) *MachineService {
	return &MachineService{repo: repo}
}

type CreateMachineRequest struct {
	Name           string `json:"name" binding:"required"`
	CapacityPerDay int    `json:"capacity_per_day" binding:"required,gt=0"`
	IsActive       *bool  `json:"is_active"`
}

func (s *MachineService) Create(req CreateMachineRequest) (*entity.Machine, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	m := &entity.Machine{
		ID:             uuid.New().String(),
		Name:           req.Name,
		CapacityPerDay: req.CapacityPerDay,
		IsActive:       active,
	}
	if err := s.repo.Create(m); err != nil {
		return nil, fmt.Errorf("创建产线失败: %w", err)
	}
	return m, nil
}

func (s *MachineService) GetByID(id string) (*entity.Machine, error) {
	return s.repo.GetByID(id)
}

// ListActive 可用产线
func (s *MachineService) ListActive() ([]entity.Machine, error) {
	return s.repo.ListActive()
}

type UpdateMachineRequest struct {
	Name           *string `json:"name"`
	CapacityPerDay *int    `json:"capacity_per_day"`
	IsActive       *bool   `json:"is_active"`
}

func (s *MachineService) Update(id string, req UpdateMachineRequest) (*entity.Machine, error) {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("产线不存在: %w", err)
	}
	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.CapacityPerDay != nil {
		if *req.CapacityPerDay <= 0 {
			return nil, fmt.Errorf("日产能必须为正数")
		}
		m.CapacityPerDay = *req.CapacityPerDay
	}
	if req.IsActive != nil {
		m.IsActive = *req.IsActive
	}
	if err := s.repo.Update(m); err != nil {
		return nil, fmt.Errorf("更新产线失败: %w", err)
	}
	return m, nil
}

// Deactivate 停用产线（不物理删除，历史排产仍引用它）
func (s *MachineService) Deactivate(id string) error {
	m, err := s.repo.GetByID(id)
	if err != nil {
		return fmt.Errorf("产线不存在: %w", err)
	}
	m.IsActive = false
	return s.repo.Update(m)
}
