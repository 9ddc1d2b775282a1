package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product 产品（以名称与销售订单的产品名关联）
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"size:255;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`

	Materials []ProductMaterial `json:"raw_materials,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "pp_products"
}

// RawMaterial 原材料
type RawMaterial struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Unit      string    `json:"unit" gorm:"size:50;not null;default:'kg'"`
	CreatedAt time.Time `json:"created_at"`
}

func (RawMaterial) TableName() string {
	return "pp_raw_materials"
}

// ProductMaterial 产品用料映射（BOM行）
// 不变式: (产品, 原材料) 组合唯一，重复映射更新单位用量而不是新增行
type ProductMaterial struct {
	ID              string          `json:"id" gorm:"primaryKey;type:uuid"`
	ProductID       string          `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_pp_product_material,priority:1"`
	RawMaterialID   string          `json:"raw_material_id" gorm:"type:uuid;not null;uniqueIndex:idx_pp_product_material,priority:2"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit" gorm:"type:decimal(12,4);not null"`
	CreatedAt       time.Time       `json:"created_at"`

	RawMaterial *RawMaterial `json:"raw_material,omitempty" gorm:"foreignKey:RawMaterialID"`
}

func (ProductMaterial) TableName() string {
	return "pp_product_materials"
}
