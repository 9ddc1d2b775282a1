package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/himanshuth87/Planning-Engine/internal/planning/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedBOM(t *testing.T, db *gorm.DB, productName string, materials map[string]string) {
	t.Helper()
	product := &entity.Product{ID: uuid.New().String(), Name: productName}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	for name, qty := range materials {
		rm := &entity.RawMaterial{ID: uuid.New().String(), Name: name, Unit: "kg"}
		if err := db.Create(rm).Error; err != nil {
			t.Fatalf("seed raw material: %v", err)
		}
		pm := &entity.ProductMaterial{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			RawMaterialID:   rm.ID,
			QuantityPerUnit: decimal.RequireFromString(qty),
		}
		if err := db.Create(pm).Error; err != nil {
			t.Fatalf("seed mapping: %v", err)
		}
	}
}

func TestGetBatchRequirement(t *testing.T) {
	svcs, db := newTestServices(t)
	delivery := testutil.Date(2026, 9, 10)

	seedBOM(t, db, "T-Shirt", map[string]string{"Fabric": "0.5", "Thread": "0.02"})
	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 100, delivery)

	batches, err := svcs.Consolidation.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	req, err := svcs.Requirement.GetBatchRequirement(batches[0].ID)
	if err != nil {
		t.Fatalf("GetBatchRequirement: %v", err)
	}
	if req.TotalQuantity != 100 {
		t.Errorf("total quantity = %d, want 100", req.TotalQuantity)
	}
	if len(req.Requirements) != 2 {
		t.Fatalf("expected 2 requirement items, got %d", len(req.Requirements))
	}

	want := map[string]string{"Fabric": "50", "Thread": "2"}
	for _, item := range req.Requirements {
		expected, ok := want[item.RawMaterialName]
		if !ok {
			t.Errorf("unexpected material %q", item.RawMaterialName)
			continue
		}
		if !item.TotalQuantity.Equal(decimal.RequireFromString(expected)) {
			t.Errorf("%s total = %s, want %s", item.RawMaterialName, item.TotalQuantity, expected)
		}
		if item.Unit != "kg" {
			t.Errorf("%s unit = %q, want kg", item.RawMaterialName, item.Unit)
		}
	}
}

func TestGetBatchRequirementUnknownBatch(t *testing.T) {
	svcs, _ := newTestServices(t)

	_, err := svcs.Requirement.GetBatchRequirement("missing")
	if err == nil {
		t.Fatal("expected error for unknown batch")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestGetBatchRequirementWithoutBOM(t *testing.T) {
	svcs, db := newTestServices(t)
	delivery := testutil.Date(2026, 9, 10)

	// 产品未建BOM：返回空需求，不报错
	testutil.SeedOrder(t, db, "O1", "Mystery Item", "Red", 10, delivery)
	batches, err := svcs.Consolidation.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	req, err := svcs.Requirement.GetBatchRequirement(batches[0].ID)
	if err != nil {
		t.Fatalf("GetBatchRequirement: %v", err)
	}
	if len(req.Requirements) != 0 {
		t.Errorf("expected empty requirements, got %d", len(req.Requirements))
	}
}

func TestGetForPlansDeduplicatesBatches(t *testing.T) {
	svcs, db := newTestServices(t)
	start := testutil.Date(2026, 9, 1)

	seedBOM(t, db, "T-Shirt", map[string]string{"Fabric": "0.5"})
	testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 90, start.AddDate(0, 0, 5))
	testutil.SeedMachine(t, db, "Line A", 40)

	if _, err := svcs.Consolidation.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	entries, err := svcs.Scheduling.GeneratePlan(start)
	if err != nil {
		t.Fatalf("GeneratePlan: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected multiple entries for one batch, got %d", len(entries))
	}

	reqs := svcs.Requirement.GetForPlans(entries)
	if len(reqs) != 1 {
		t.Errorf("expected 1 deduplicated requirement, got %d", len(reqs))
	}
}
