package service

import (
	"errors"
	"fmt"

	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RequirementService 原材料需求测算：批次数量 × 产品BOM单位用量
type RequirementService struct {
	batchRepo    *repository.BatchRepository
	materialRepo *repository.MaterialRepository
}

func NewRequirementService(batchRepo *repository.BatchRepository, materialRepo *repository.MaterialRepository) *RequirementService {
	return &RequirementService{batchRepo: batchRepo, materialRepo: materialRepo}
}

// RequirementItem 单个原材料的需求
type RequirementItem struct {
	RawMaterialName string          `json:"raw_material_name"`
	Unit            string          `json:"unit"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	TotalQuantity   decimal.Decimal `json:"total_quantity"`
}

// BatchRequirement 批次的用料需求报告
type BatchRequirement struct {
	BatchID       string            `json:"batch_id"`
	BatchCode     string            `json:"batch_code"`
	ProductName   string            `json:"product_name"`
	Color         string            `json:"color"`
	TotalQuantity int               `json:"total_quantity"`
	Requirements  []RequirementItem `json:"requirements"`
}

// GetBatchRequirement 计算批次的原材料需求。
// 产品未定义BOM时返回空需求列表（建档阶段的正常状态），批次不存在才是错误。
func (s *RequirementService) GetBatchRequirement(batchID string) (*BatchRequirement, error) {
	batch, err := s.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, fmt.Errorf("批次不存在: %w", err)
	}

	req := &BatchRequirement{
		BatchID:       batch.ID,
		BatchCode:     batch.BatchCode,
		ProductName:   batch.ProductName,
		Color:         batch.Color,
		TotalQuantity: batch.TotalQty,
		Requirements:  []RequirementItem{},
	}

	product, err := s.materialRepo.GetProductByName(batch.ProductName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return req, nil
		}
		return nil, fmt.Errorf("读取产品BOM失败: %w", err)
	}

	total := decimal.NewFromInt(int64(batch.TotalQty))
	for _, pm := range product.Materials {
		item := RequirementItem{
			QuantityPerUnit: pm.QuantityPerUnit,
			TotalQuantity:   pm.QuantityPerUnit.Mul(total).Round(2),
		}
		if pm.RawMaterial != nil {
			item.RawMaterialName = pm.RawMaterial.Name
			item.Unit = pm.RawMaterial.Unit
		}
		req.Requirements = append(req.Requirements, item)
	}
	return req, nil
}

// GetForPlans 一组排产条目对应批次的用料需求，批次去重。
// 看板的当日用料汇总用，单个批次查不到时跳过而不是中断。
func (s *RequirementService) GetForPlans(plans []entity.PlanEntry) []BatchRequirement {
	result := []BatchRequirement{}
	seen := make(map[string]bool)
	for _, p := range plans {
		if p.BatchID == nil || seen[*p.BatchID] {
			continue
		}
		seen[*p.BatchID] = true
		req, err := s.GetBatchRequirement(*p.BatchID)
		if err != nil {
			continue
		}
		result = append(result, *req)
	}
	return result
}
