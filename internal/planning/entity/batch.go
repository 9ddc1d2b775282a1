package entity

import (
	"time"
)

// Batch 合并批次（同产品+颜色的订单合并结果）
// 不变式: TotalQty == 参与订单数量之和; 0 <= RemainingQty <= TotalQty
type Batch struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	BatchCode    string    `json:"batch_code" gorm:"size:50;not null;uniqueIndex"`
	ProductName  string    `json:"product_name" gorm:"size:255;not null"`
	Color        string    `json:"color" gorm:"size:100;not null"`
	TotalQty     int       `json:"total_quantity" gorm:"not null"`
	RemainingQty int       `json:"remaining_quantity" gorm:"not null"`
	OrderIDs     string    `json:"order_ids" gorm:"type:text"` // 逗号分隔的外部订单号，按交期先后排列
	CreatedAt    time.Time `json:"created_at"`

	Orders []SalesOrder `json:"orders,omitempty" gorm:"foreignKey:BatchID"`
}

func (Batch) TableName() string {
	return "pp_batches"
}
