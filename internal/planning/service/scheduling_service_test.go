package service

import (
	"testing"
	"time"

	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/testutil"
	"gorm.io/gorm"
)

// planByDay 按排产日汇总数量
func planByDay(entries []entity.PlanEntry) map[string]int {
	byDay := make(map[string]int)
	for _, e := range entries {
		byDay[e.PlannedDate.Format("2006-01-02")] += e.Quantity
	}
	return byDay
}

func assertCapacityRespected(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows, err := db.Raw(`
		SELECT machine_id, planned_date, SUM(quantity)
		FROM pp_plan_entries
		GROUP BY machine_id, planned_date
	`).Rows()
	if err != nil {
		t.Fatalf("aggregate plans: %v", err)
	}
	defer rows.Close()

	capacities := make(map[string]int)
	var machines []entity.Machine
	db.Find(&machines)
	for _, m := range machines {
		capacities[m.ID] = m.CapacityPerDay
	}

	for rows.Next() {
		var machineID string
		var day time.Time
		var sum int
		if err := rows.Scan(&machineID, &day, &sum); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if sum > capacities[machineID] {
			t.Errorf("machine %s overloaded on %s: %d > %d", machineID, day.Format("2006-01-02"), sum, capacities[machineID])
		}
	}
}

func TestGeneratePlanSplitsAcrossDays(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 90, start.AddDate(0, 0, 5))
	testutil.SeedMachine(t, db, "Line A", 40)

	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 plan entries, got %d", len(entries))
	}

	byDay := planByDay(entries)
	want := map[string]int{"2026-09-01": 40, "2026-09-02": 40, "2026-09-03": 10}
	for day, qty := range want {
		if byDay[day] != qty {
			t.Errorf("day %s planned %d, want %d", day, byDay[day], qty)
		}
	}
	assertCapacityRespected(t, db)

	var batch entity.Batch
	if err := db.First(&batch).Error; err != nil {
		t.Fatalf("load batch: %v", err)
	}
	if batch.RemainingQty != 0 {
		t.Errorf("batch remaining = %d, want 0", batch.RemainingQty)
	}
}

func TestGeneratePlanSlackFlowsToNextBatch(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	// 衬衫交期更早，优先排；当天余量顺延给裤子
	testutil.SeedOrder(t, db, "O1", "Shirt", "Red", 30, start.AddDate(0, 0, 1))
	testutil.SeedOrder(t, db, "O2", "Pants", "Blue", 30, start.AddDate(0, 0, 2))
	testutil.SeedMachine(t, db, "Line A", 40)

	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 plan entries, got %d", len(entries))
	}

	day1 := start.Format("2006-01-02")
	var shirtDay1, pantsDay1 int
	for _, e := range entries {
		var batch entity.Batch
		if err := db.First(&batch, "id = ?", *e.BatchID).Error; err != nil {
			t.Fatalf("load batch: %v", err)
		}
		if e.PlannedDate.Format("2006-01-02") == day1 {
			switch batch.ProductName {
			case "Shirt":
				shirtDay1 += e.Quantity
			case "Pants":
				pantsDay1 += e.Quantity
			}
		}
	}
	if shirtDay1 != 30 {
		t.Errorf("shirt planned %d on day 1, want 30", shirtDay1)
	}
	if pantsDay1 != 10 {
		t.Errorf("pants planned %d on day 1, want 10", pantsDay1)
	}
	assertCapacityRespected(t, db)
}

func TestGeneratePlanIncremental(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 90, start.AddDate(0, 0, 5))
	testutil.SeedMachine(t, db, "Line A", 40)

	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, err := svcs.Scheduling.GeneratePlan(start); err != nil {
		t.Fatalf("first GeneratePlan: %v", err)
	}

	// 新订单合并后重新排产，只补排新增部分，已占用产能不会重复分配
	testutil.SeedOrder(t, db, "O2", "T-Shirt", "Red", 20, start.AddDate(0, 0, 5))
	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("second GeneratePlan: %v", err)
	}

	total := 0
	for _, e := range entries {
		total += e.Quantity
	}
	if total != 20 {
		t.Errorf("second run planned %d, want 20", total)
	}
	// 前两天已满，增量只能落在第三天
	for _, e := range entries {
		if e.PlannedDate.Before(start.AddDate(0, 0, 2)) {
			t.Errorf("incremental entry landed on full day %s", e.PlannedDate.Format("2006-01-02"))
		}
	}
	assertCapacityRespected(t, db)
}

func TestGeneratePlanSkipsInactiveMachines(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	active := testutil.SeedMachine(t, db, "Line A", 10)
	inactive := testutil.SeedMachine(t, db, "Line B", 100)
	db.Model(&entity.Machine{}).Where("id = ?", inactive.ID).Update("is_active", false)

	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 20, start.AddDate(0, 0, 5))
	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 plan entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.MachineID != active.ID {
			t.Errorf("entry scheduled on inactive machine %s", e.MachineID)
		}
	}
}

func TestGeneratePlanCreatesDefaultMachine(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 500, start.AddDate(0, 0, 5))
	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 plan entry, got %d", len(entries))
	}

	var m entity.Machine
	if err := db.First(&m, "id = ?", entries[0].MachineID).Error; err != nil {
		t.Fatalf("load machine: %v", err)
	}
	if m.Name != "Default Line" || m.CapacityPerDay != 1000 {
		t.Errorf("default machine = %s/%d, want Default Line/1000", m.Name, m.CapacityPerDay)
	}
}

func TestGeneratePlanNothingToSchedule(t *testing.T) {
	svcs, _ := newTestServices(t)

	entries, err := svcs.Scheduling.GeneratePlan(time.Now())
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestUpdatePlanStatus(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 30, start.AddDate(0, 0, 5))
	testutil.SeedMachine(t, db, "Line A", 40)
	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}

	updated, err := svcs.Scheduling.UpdatePlanStatus(entries[0].ID, entity.PlanStatusInProgress)
	if err != nil {
		t.Fatalf("UpdatePlanStatus: %v", err)
	}
	if updated.Status != entity.PlanStatusInProgress {
		t.Errorf("status = %s, want in_progress", updated.Status)
	}

	if _, err := svcs.Scheduling.UpdatePlanStatus(entries[0].ID, "bogus"); err == nil {
		t.Error("expected error for invalid status")
	}
}
