package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"gorm.io/gorm"
)

// ErrDuplicateLine 同一 (外部订单号, 产品, 颜色) 的订单行已存在
var ErrDuplicateLine = errors.New("订单行已存在")

// OrderService 销售订单台账
type OrderService struct {
	repo *repository.OrderRepository
	db   *gorm.DB
}

func NewOrderService(repo *repository.OrderRepository, db *gorm.DB) *OrderService {
	return &OrderService{repo: repo, db: db}
}

type CreateOrderRequest struct {
	OrderID      string `json:"order_id" binding:"required"`
	ProductName  string `json:"product_name" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	Color        string `json:"color" binding:"required"`
	DeliveryDate string `json:"delivery_date" binding:"required"` // YYYY-MM-DD
	Notes        string `json:"notes"`
}

func (s *OrderService) Create(req CreateOrderRequest) (*entity.SalesOrder, error) {
	delivery, err := time.Parse("2006-01-02", req.DeliveryDate)
	if err != nil {
		return nil, fmt.Errorf("交期格式无效（应为 YYYY-MM-DD）: %w", err)
	}

	if _, err := s.repo.GetByLine(req.OrderID, req.ProductName, req.Color); err == nil {
		return nil, ErrDuplicateLine
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询订单行失败: %w", err)
	}

	order := &entity.SalesOrder{
		ID:           uuid.New().String(),
		OrderID:      req.OrderID,
		ProductName:  req.ProductName,
		Color:        req.Color,
		Quantity:     req.Quantity,
		DeliveryDate: dateOnly(delivery),
		Status:       entity.OrderStatusPending,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(order); err != nil {
		return nil, fmt.Errorf("创建订单失败: %w", err)
	}
	return order, nil
}

func (s *OrderService) GetByID(id string) (*entity.SalesOrder, error) {
	return s.repo.GetByID(id)
}

// List 按交期列出订单，状态为读取时推导的对外状态；
// status 过滤作用在推导后的状态上
func (s *OrderService) List(status string) ([]entity.SalesOrder, error) {
	orders, err := s.repo.List(repository.OrderListParams{})
	if err != nil {
		return nil, fmt.Errorf("读取订单失败: %w", err)
	}

	progress, err := LoadBatchProgress(s.db)
	if err != nil {
		return nil, fmt.Errorf("汇总批次进度失败: %w", err)
	}

	today := dateOnly(time.Now())
	result := []entity.SalesOrder{}
	for i := range orders {
		o := orders[i]
		var prog *BatchProgress
		if o.BatchID != nil {
			prog = progress[*o.BatchID]
		}
		o.Status = DeriveOrderStatus(&o, prog, today)
		if status != "" && o.Status != status {
			continue
		}
		result = append(result, o)
	}
	return result, nil
}

// UpdateStatus 手工调整订单状态（例如线下确认完成）
func (s *OrderService) UpdateStatus(id, status string) (*entity.SalesOrder, error) {
	switch status {
	case entity.OrderStatusPending, entity.OrderStatusConsolidated,
		entity.OrderStatusCompleted, entity.OrderStatusDelayed:
	default:
		return nil, fmt.Errorf("无效的订单状态: %s", status)
	}

	order, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("订单不存在: %w", err)
	}
	order.Status = status
	if err := s.repo.Update(order); err != nil {
		return nil, fmt.Errorf("更新订单状态失败: %w", err)
	}
	return order, nil
}

func (s *OrderService) Delete(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return fmt.Errorf("订单不存在: %w", err)
	}
	return s.repo.Delete(id)
}

func (s *OrderService) DeleteAll() error {
	return s.repo.DeleteAll()
}
