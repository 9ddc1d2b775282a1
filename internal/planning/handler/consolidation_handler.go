package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/himanshuth87/Planning-Engine/internal/planning/service"
	"gorm.io/gorm"
)

type ConsolidationHandler struct {
	svc         *service.ConsolidationService
	requirement *service.RequirementService
}

func NewConsolidationHandler(svc *service.ConsolidationService, requirement *service.RequirementService) *ConsolidationHandler {
	return &ConsolidationHandler{svc: svc, requirement: requirement}
}

// Run 把未合并的订单按 (产品, 颜色) 归并成生产批次
func (h *ConsolidationHandler) Run(c *gin.Context) {
	batches, err := h.svc.Run()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"batches": batches, "created": len(batches)}})
}

func (h *ConsolidationHandler) ListBatches(c *gin.Context) {
	batches, err := h.svc.ListBatches()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": batches, "total": len(batches)}})
}

// BatchRequirements 按BOM推导单个批次的原材料需求
func (h *ConsolidationHandler) BatchRequirements(c *gin.Context) {
	req, err := h.requirement.GetBatchRequirement(c.Param("batchId"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "批次不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": req})
}

// Reset 清空批次与排产，订单退回待合并状态
func (h *ConsolidationHandler) Reset(c *gin.Context) {
	if err := h.svc.ResetAll(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success"})
}
