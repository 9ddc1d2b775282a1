package repository

import (
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"gorm.io/gorm"
)

type MachineRepository struct {
	db *gorm.DB
}

func NewMachineRepository(db *gorm.DB) *MachineRepository {
	return &MachineRepository{db: db}
}

func (r *MachineRepository) Create(m *entity.Machine) error {
	return r.db.Create(m).Error
}

func (r *MachineRepository) GetByID(id string) (*entity.Machine, error) {
	var m entity.Machine
	err := r.db.Where("id = ?", id).First(&m).Error
	return &m, err
}

func (r *MachineRepository) Update(m *entity.Machine) error {
	return r.db.Save(m).Error
}

// ListActive 可用产线，按创建先后（排产时的固定遍历顺序）
func (r *MachineRepository) ListActive() ([]entity.Machine, error) {
	var machines []entity.Machine
	err := r.db.Where("is_active = ?", true).
		Order("created_at ASC, id ASC").Find(&machines).Error
	return machines, err
}

func (r *MachineRepository) List() ([]entity.Machine, error) {
	var machines []entity.Machine
	err := r.db.Order("created_at ASC, id ASC").Find(&machines).Error
	return machines, err
}

// DB 返回底层db用于事务
func (r *MachineRepository) DB() *gorm.DB {
	return r.db
}
