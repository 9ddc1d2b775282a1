package handler

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/himanshuth87/Planning-Engine/internal/config"
	"github.com/himanshuth87/Planning-Engine/internal/planning/repository"
	"github.com/himanshuth87/Planning-Engine/internal/planning/service"
	"github.com/himanshuth87/Planning-Engine/internal/planning/testutil"
	"gorm.io/gorm"
)

// setupPlanningTest wires the full API surface against an in-memory database
func setupPlanningTest(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	cfg := &config.Config{
		Planning: config.PlanningConfig{MaxHorizonDays: 3650, DefaultMachineCapacity: 1000},
	}
	services := service.NewServices(repos, db, nil, cfg)
	handlers := NewHandlers(services)

	router := testutil.SetupRouter()
	v1 := router.Group("/api/v1")

	orders := v1.Group("/orders")
	orders.GET("", handlers.Order.List)
	orders.POST("", handlers.Order.Create)
	orders.POST("/upload-excel", handlers.Order.Upload)
	orders.DELETE("/all", handlers.Order.DeleteAll)
	orders.GET("/:id", handlers.Order.Get)
	orders.PATCH("/:id", handlers.Order.UpdateStatus)
	orders.DELETE("/:id", handlers.Order.Delete)

	consolidation := v1.Group("/consolidation")
	consolidation.POST("/run", handlers.Consolidation.Run)
	consolidation.POST("/reset", handlers.Consolidation.Reset)
	consolidation.GET("/batches", handlers.Consolidation.ListBatches)

	production := v1.Group("/production")
	production.POST("/generate", handlers.Production.Generate)
	production.GET("/schedule", handlers.Production.List)
	production.GET("/today", handlers.Production.Today)
	production.PATCH("/plans/:id/status", handlers.Production.UpdateStatus)

	machines := v1.Group("/machines")
	machines.GET("", handlers.Machine.List)
	machines.POST("", handlers.Machine.Create)
	machines.GET("/:id", handlers.Machine.Get)
	machines.PATCH("/:id", handlers.Machine.Update)
	machines.DELETE("/:id", handlers.Machine.Delete)

	rm := v1.Group("/raw-materials")
	rm.GET("/materials", handlers.Material.ListRawMaterials)
	rm.POST("/materials", handlers.Material.CreateRawMaterial)
	rm.GET("/products", handlers.Material.ListProducts)
	rm.POST("/products", handlers.Material.CreateProduct)
	rm.POST("/products/:id/materials", handlers.Material.AddProductMaterial)
	rm.GET("/batch/:batchId/requirement", handlers.Consolidation.BatchRequirements)

	v1.GET("/dashboard/stats", handlers.Dashboard.Stats)

	return router, db
}
