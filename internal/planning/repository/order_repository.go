package repository

import (
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *entity.SalesOrder) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.db.Where("id = ?", id).First(&o).Error
	return &o, err
}

// GetByLine 按 (外部订单号, 产品, 颜色) 查找订单行，用于重复行校验
func (r *OrderRepository) GetByLine(orderID, productName, color string) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	err := r.db.Where("order_id = ? AND product_name = ? AND color = ?", orderID, productName, color).First(&o).Error
	return &o, err
}

type OrderListParams struct {
	Status string
}

// List 按交期先后列出订单
func (r *OrderRepository) List(params OrderListParams) ([]entity.SalesOrder, error) {
	query := r.db.Model(&entity.SalesOrder{})
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var orders []entity.SalesOrder
	err := query.Order("delivery_date ASC, order_id ASC").Find(&orders).Error
	return orders, err
}

// ListUnconsolidated 列出尚未合并的订单，按交期先后（合并分组的遍历顺序）
func (r *OrderRepository) ListUnconsolidated() ([]entity.SalesOrder, error) {
	var orders []entity.SalesOrder
	err := r.db.Where("consolidated = ?", false).
		Order("delivery_date ASC, order_id ASC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByBatch(batchID string) ([]entity.SalesOrder, error) {
	var orders []entity.SalesOrder
	err := r.db.Where("batch_id = ?", batchID).
		Order("delivery_date ASC, order_id ASC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) Update(o *entity.SalesOrder) error {
	return r.db.Save(o).Error
}

func (r *OrderRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&entity.SalesOrder{}).Error
}

func (r *OrderRepository) DeleteAll() error {
	return r.db.Where("1 = 1").Delete(&entity.SalesOrder{}).Error
}

// DB 返回底层db用于事务
func (r *OrderRepository) DB() *gorm.DB {
	return r.db
}
