package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有排产相关表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Machine{},
		&Product{},
		&RawMaterial{},
		&ProductMaterial{},

		// 订单与排产
		&SalesOrder{},
		&Batch{},
		&PlanEntry{},
	)
}
