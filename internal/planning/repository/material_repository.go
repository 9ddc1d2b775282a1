package repository

import (
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"gorm.io/gorm"
)

type MaterialRepository struct {
	db *gorm.DB
}

func NewMaterialRepository(db *gorm.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// --- RawMaterial ---

func (r *MaterialRepository) CreateRawMaterial(rm *entity.RawMaterial) error {
	return r.db.Create(rm).Error
}

func (r *MaterialRepository) GetRawMaterialByID(id string) (*entity.RawMaterial, error) {
	var rm entity.RawMaterial
	err := r.db.Where("id = ?", id).First(&rm).Error
	return &rm, err
}

func (r *MaterialRepository) ListRawMaterials() ([]entity.RawMaterial, error) {
	var rms []entity.RawMaterial
	err := r.db.Order("created_at ASC, id ASC").Find(&rms).Error
	return rms, err
}

// --- Product ---

func (r *MaterialRepository) CreateProduct(p *entity.Product) error {
	return r.db.Create(p).Error
}

func (r *MaterialRepository) GetProductByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Preload("Materials", func(db *gorm.DB) *gorm.DB {
		return db.Order("pp_product_materials.created_at ASC")
	}).Preload("Materials.RawMaterial").Where("id = ?", id).First(&p).Error
	return &p, err
}

// GetProductByName 按名称精确匹配产品（与订单产品名的关联方式）
func (r *MaterialRepository) GetProductByName(name string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Preload("Materials", func(db *gorm.DB) *gorm.DB {
		return db.Order("pp_product_materials.created_at ASC")
	}).Preload("Materials.RawMaterial").Where("name = ?", name).First(&p).Error
	return &p, err
}

func (r *MaterialRepository) ListProducts() ([]entity.Product, error) {
	var products []entity.Product
	err := r.db.Preload("Materials", func(db *gorm.DB) *gorm.DB {
		return db.Order("pp_product_materials.created_at ASC")
	}).Preload("Materials.RawMaterial").
		Order("created_at ASC, id ASC").Find(&products).Error
	return products, err
}

// --- ProductMaterial (BOM行) ---

func (r *MaterialRepository) GetMapping(productID, rawMaterialID string) (*entity.ProductMaterial, error) {
	var pm entity.ProductMaterial
	err := r.db.Where("product_id = ? AND raw_material_id = ?", productID, rawMaterialID).First(&pm).Error
	return &pm, err
}

func (r *MaterialRepository) CreateMapping(pm *entity.ProductMaterial) error {
	return r.db.Create(pm).Error
}

func (r *MaterialRepository) UpdateMapping(pm *entity.ProductMaterial) error {
	return r.db.Save(pm).Error
}

// DB 返回底层db用于事务
func (r *MaterialRepository) DB() *gorm.DB {
	return r.db
}
