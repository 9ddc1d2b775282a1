package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/himanshuth87/Planning-Engine/internal/planning/entity"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ImportResult 批量导入结果
type ImportResult struct {
	Created int      `json:"created"`
	Errors  []string `json:"errors"`
}

var requiredImportColumns = []string{"Order ID", "Product Name", "Quantity", "Color"}

// ImportSpreadsheet 从上传的 Excel/CSV 导入订单行。
// 必需列: Order ID / Product Name / Quantity / Color，Delivery Date 可选（缺省当天）。
// 文件内和台账中已存在的 (订单号, 产品, 颜色) 行都会被拒绝并记入错误列表。
func (s *OrderService) ImportSpreadsheet(filename string, r io.Reader) (*ImportResult, error) {
	rows, err := readSpreadsheet(filename, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("文件为空")
	}

	// 表头 → 列号
	header := make(map[string]int)
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range requiredImportColumns {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("缺少必需列: %s", strings.Join(missing, ", "))
	}

	result := &ImportResult{Errors: []string{}}
	type lineKey struct{ orderID, product, color string }
	seen := make(map[lineKey]bool)

	for _, row := range rows[1:] {
		orderID := strings.TrimSpace(cellAt(row, header["Order ID"]))
		if orderID == "" {
			continue
		}

		product := strings.TrimSpace(cellAt(row, header["Product Name"]))
		if product == "" {
			product = "Unknown"
		}
		color := strings.TrimSpace(cellAt(row, header["Color"]))
		if color == "" {
			color = "Default"
		}

		key := lineKey{orderID: orderID, product: product, color: color}
		if seen[key] {
			result.Errors = append(result.Errors, fmt.Sprintf("重复订单行: %s (%s - %s)", orderID, product, color))
			continue
		}
		if _, err := s.repo.GetByLine(orderID, product, color); err == nil {
			result.Errors = append(result.Errors, fmt.Sprintf("重复订单行: %s (%s - %s)", orderID, product, color))
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("查询订单行失败: %w", err)
		}
		seen[key] = true

		qty, err := parseQuantity(cellAt(row, header["Quantity"]))
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("行 %s: 数量无效: %v", orderID, err))
			continue
		}

		delivery := dateOnly(time.Now())
		if idx, ok := header["Delivery Date"]; ok {
			if d, ok := parseDeliveryDate(cellAt(row, idx)); ok {
				delivery = d
			}
		}

		order := &entity.SalesOrder{
			ID:           uuid.New().String(),
			OrderID:      orderID,
			ProductName:  product,
			Color:        color,
			Quantity:     qty,
			DeliveryDate: delivery,
			Status:       entity.OrderStatusPending,
		}
		if err := s.repo.Create(order); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("行 %s: %v", orderID, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

func readSpreadsheet(filename string, r io.Reader) ([][]string, error) {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".csv"):
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		rows, err := reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("CSV 解析失败: %w", err)
		}
		return rows, nil
	case strings.HasSuffix(lower, ".xlsx"), strings.HasSuffix(lower, ".xls"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("Excel 文件读取失败: %w", err)
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("Excel 文件没有工作表")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("读取工作表失败: %w", err)
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("仅支持 Excel (.xlsx, .xls) 或 CSV 文件")
	}
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("数量为空")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	qty := int(f)
	if qty <= 0 {
		return 0, fmt.Errorf("数量必须为正数")
	}
	return qty, nil
}

func parseDeliveryDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 10 {
		raw = raw[:10]
	}
	for _, layout := range []string{"2006-01-02", "2006/01/02", "01-02-06"} {
		if d, err := time.Parse(layout, raw); err == nil {
			return dateOnly(d), true
		}
	}
	return time.Time{}, false
}
