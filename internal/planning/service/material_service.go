package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrProductExists 产品名称已存在
var ErrProductExists = errors.New("产品已存在")

// MaterialService 产品与原材料档案、BOM映射
type MaterialService struct {
	repo *repository.MaterialRepository
}

func NewMaterialService(repo *repository.MaterialRepository) *MaterialService {
	return &MaterialService{repo: repo}
}

type CreateRawMaterialRequest struct {
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit"`
}

func (s *MaterialService) CreateRawMaterial(req CreateRawMaterialRequest) (*entity.RawMaterial, error) {
	unit := req.Unit
	if unit == "" {
		unit = "kg"
	}
	rm := &entity.RawMaterial{
		ID:   uuid.New().String(),
		Name: req.Name,
		Unit: unit,
	}
	if err := s.repo.CreateRawMaterial(rm); err != nil {
		return nil, fmt.Errorf("创建原材料失败: %w", err)
	}
	return rm, nil
}

func (s *MaterialService) ListRawMaterials() ([]entity.RawMaterial, error) {
	return s.repo.ListRawMaterials()
}

type CreateProductRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *MaterialService) CreateProduct(req CreateProductRequest) (*entity.Product, error) {
	if _, err := s.repo.GetProductByName(req.Name); err == nil {
		return nil, ErrProductExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询产品失败: %w", err)
	}

	p := &entity.Product{
		ID:   uuid.New().String(),
		Name: req.Name,
	}
	if err := s.repo.CreateProduct(p); err != nil {
		return nil, fmt.Errorf("创建产品失败: %w", err)
	}
	return p, nil
}

func (s *MaterialService) ListProducts() ([]entity.Product, error) {
	return s.repo.ListProducts()
}

type AddProductMaterialRequest struct {
	RawMaterialID   string          `json:"raw_material_id" binding:"required"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" binding:"required"`
}

// AddProductMaterial 维护产品的单位用料。
// 同一 (产品, 原材料) 只保留一行：已存在时更新单位用量，不新增
func (s *MaterialService) AddProductMaterial(productID string, req AddProductMaterialRequest) (*entity.ProductMaterial, error) {
	if req.QuantityPerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("单位用量必须为正数")
	}
	if _, err := s.repo.GetProductByID(productID); err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}
	rm, err := s.repo.GetRawMaterialByID(req.RawMaterialID)
	if err != nil {
		return nil, fmt.Errorf("原材料不存在: %w", err)
	}

	existing, err := s.repo.GetMapping(productID, req.RawMaterialID)
	if err == nil {
		existing.QuantityPerUnit = req.QuantityPerUnit
		if err := s.repo.UpdateMapping(existing); err != nil {
			return nil, fmt.Errorf("更新用料映射失败: %w", err)
		}
		existing.RawMaterial = rm
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询用料映射失败: %w", err)
	}

	pm := &entity.ProductMaterial{
		ID:              uuid.New().String(),
		ProductID:       productID,
		RawMaterialID:   req.RawMaterialID,
		QuantityPerUnit: req.QuantityPerUnit,
	}
	if err := s.repo.CreateMapping(pm); err != nil {
		return nil, fmt.Errorf("创建用料映射失败: %w", err)
	}
	pm.RawMaterial = rm
	return pm, nil
}
