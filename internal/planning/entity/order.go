package entity

import (
	"time"
)

// OrderStatus 销售订单状态
const (
	OrderStatusPending      = "pending"
	OrderStatusConsolidated = "consolidated"
	OrderStatusCompleted    = "completed"
	OrderStatusDelayed      = "delayed"
)

// SalesOrder 销售订单（合并前的原始需求行）
type SalesOrder struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	OrderID      string    `json:"order_id" gorm:"size:100;not null;uniqueIndex:idx_pp_order_line,priority:1"`
	ProductName  string    `json:"product_name" gorm:"size:255;not null;uniqueIndex:idx_pp_order_line,priority:2"`
	Color        string    `json:"color" gorm:"size:100;not null;uniqueIndex:idx_pp_order_line,priority:3"`
	Quantity     int       `json:"quantity" gorm:"not null"`
	DeliveryDate time.Time `json:"delivery_date" gorm:"type:date;not null;index"`
	Status       string    `json:"status" gorm:"size:50;not null;default:'pending'"`
	Consolidated bool      `json:"consolidated" gorm:"not null;default:false;index"`
	BatchID      *string   `json:"batch_id" gorm:"type:uuid;index"`
	Notes        string    `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Batch *Batch `json:"batch,omitempty" gorm:"foreignKey:BatchID"`
}

func (SalesOrder) TableName() string {
	return "pp_sales_orders"
}
