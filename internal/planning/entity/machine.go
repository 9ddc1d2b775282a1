package entity

import (
	"time"
)

// Machine 产线/设备
type Machine struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid"`
	Name           string    `json:"name" gorm:"size:255;not null"`
	CapacityPerDay int       `json:"capacity_per_day" gorm:"not null"`
	IsActive       bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Machine) TableName() string {
	return "pp_machines"
}
