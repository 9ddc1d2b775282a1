package service

import (
	"time"

	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"gorm.io/gorm"
)

// BatchProgress 某批次的排产完成情况，推导订单状态用
type BatchProgress struct {
	RemainingQty int
	PlanCount    int
	OpenCount    int // 未完成的排产条目数
}

// Completed 批次是否已全部生产完成：全部数量已排产且所有排产条目完成
func (p *BatchProgress) Completed() bool {
	return p != nil && p.PlanCount > 0 && p.OpenCount == 0 && p.RemainingQty == 0
}

// LoadBatchProgress 汇总所有批次的排产完成情况，始终从排产条目现算
func LoadBatchProgress(db *gorm.DB) (map[string]*BatchProgress, error) {
	progress := make(map[string]*BatchProgress)

	var batches []entity.Batch
	if err := db.Find(&batches).Error; err != nil {
		return nil, err
	}
	for _, b := range batches {
		progress[b.ID] = &BatchProgress{RemainingQty: b.RemainingQty}
	}

	rows, err := db.Raw(`
		SELECT batch_id,
		       COUNT(*) as plan_count,
		       COUNT(CASE WHEN status <> ? THEN 1 END) as open_count
		FROM pp_plan_entries
		WHERE batch_id IS NOT NULL
		GROUP BY batch_id
	`, entity.PlanStatusCompleted).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var batchID string
		var planCount, openCount int
		if err := rows.Scan(&batchID, &planCount, &openCount); err != nil {
			return nil, err
		}
		if p, ok := progress[batchID]; ok {
			p.PlanCount = planCount
			p.OpenCount = openCount
		}
	}
	return progress, rows.Err()
}

// DeriveOrderStatus 按批次排产状态与当前日期推导订单的对外状态。
// 读取时现算，不落库：
//   - 未合并 → pending
//   - 已合并但批次未全部完成 → 仍显示 pending
//   - 批次全部完成（或手工标记）→ completed
//   - 交期已过且未完成 → delayed（覆盖显示，不影响合并标记）
func DeriveOrderStatus(o *entity.SalesOrder, prog *BatchProgress, today time.Time) string {
	if o.Status == entity.OrderStatusCompleted {
		return entity.OrderStatusCompleted
	}
	if o.Consolidated && prog.Completed() {
		return entity.OrderStatusCompleted
	}
	if o.Status == entity.OrderStatusDelayed {
		return entity.OrderStatusDelayed
	}
	if dateOnly(o.DeliveryDate).Before(today) {
		return entity.OrderStatusDelayed
	}
	return entity.OrderStatusPending
}
