package repository

import (
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"gorm.io/gorm"
)

type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) Create(b *entity.Batch) error {
	return r.db.Create(b).Error
}

func (r *BatchRepository) GetByID(id string) (*entity.Batch, error) {
	var b entity.Batch
	err := r.db.Where("id = ?", id).First(&b).Error
	return &b, err
}

// List 按创建时间倒序列出全部批次
func (r *BatchRepository) List() ([]entity.Batch, error) {
	var batches []entity.Batch
	err := r.db.Order("created_at DESC, batch_code DESC").Find(&batches).Error
	return batches, err
}

// ListUnfinished 列出仍有未排产数量的批次
func (r *BatchRepository) ListUnfinished() ([]entity.Batch, error) {
	var batches []entity.Batch
	err := r.db.Where("remaining_qty > 0").Order("id ASC").Find(&batches).Error
	return batches, err
}

func (r *BatchRepository) Update(b *entity.Batch) error {
	return r.db.Save(b).Error
}

// DB 返回底层db用于事务
func (r *BatchRepository) DB() *gorm.DB {
	return r.db
}
