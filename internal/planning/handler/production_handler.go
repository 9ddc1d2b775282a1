package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/himanshuth87/Planning-Engine/internal/planning/service"
	"gorm.io/gorm"
)

type ProductionHandler struct {
	svc *service.SchedulingService
}

func NewProductionHandler(svc *service.SchedulingService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// Generate 对所有未排完的批次生成排产计划。
// start_date 可选（YYYY-MM-DD），缺省从当天开始
func (h *ProductionHandler) Generate(c *gin.Context) {
	start := time.Now()
	if raw := c.Query("start_date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "start_date 格式无效（应为 YYYY-MM-DD）"})
			return
		}
		start = d
	}

	entries, err := h.svc.GeneratePlan(start)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": entries, "created": len(entries)}})
}

// List 按日期区间查询排产计划，from/to 缺省为最近30天
func (h *ProductionHandler) List(c *gin.Context) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now.AddDate(0, 0, 30)

	if raw := c.Query("from"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "from 格式无效（应为 YYYY-MM-DD）"})
			return
		}
		from = d
	}
	if raw := c.Query("to"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": "to 格式无效（应为 YYYY-MM-DD）"})
			return
		}
		to = d
	}

	entries, err := h.svc.GetSchedule(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": entries, "total": len(entries)}})
}

// Today 当日排产
func (h *ProductionHandler) Today(c *gin.Context) {
	entries, err := h.svc.GetDailySchedule(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"code": 50001, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": gin.H{"items": entries, "total": len(entries)}})
}

func (h *ProductionHandler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": 10001, "message": err.Error()})
		return
	}
	entry, err := h.svc.UpdatePlanStatus(c.Param("id"), req.Status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": 10002, "message": "排产记录不存在"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"code": 10004, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 0, "message": "success", "data": entry})
}
