package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/himanshuth87/Planning-Engine/internal/planning/testutil"
)

func TestOrderCreateAndGet(t *testing.T) {
	router, _ := setupPlanningTest(t)

	w := testutil.DoRequest(router, "POST", "/api/v1/orders", map[string]interface{}{
		"order_id":      "SO-001",
		"product_name":  "T-Shirt",
		"quantity":      50,
		"color":         "Red",
		"delivery_date": "2026-09-10",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	orderID := data["id"].(string)

	w = testutil.DoRequest(router, "GET", "/api/v1/orders/"+orderID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}

	w = testutil.DoRequest(router, "GET", "/api/v1/orders/nonexistent", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing order status = %d, want 404", w.Code)
	}
	resp = testutil.ParseResponse(w)
	if resp["code"].(float64) != 10002 {
		t.Errorf("missing order code = %v, want 10002", resp["code"])
	}
}

func TestOrderCreateValidation(t *testing.T) {
	router, _ := setupPlanningTest(t)

	// 缺少必填字段
	w := testutil.DoRequest(router, "POST", "/api/v1/orders", map[string]interface{}{
		"order_id": "SO-001",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid body status = %d, want 400", w.Code)
	}

	// 重复订单行
	body := map[string]interface{}{
		"order_id":      "SO-002",
		"product_name":  "T-Shirt",
		"quantity":      50,
		"color":         "Red",
		"delivery_date": "2026-09-10",
	}
	if w := testutil.DoRequest(router, "POST", "/api/v1/orders", body); w.Code != http.StatusOK {
		t.Fatalf("first create status = %d", w.Code)
	}
	w = testutil.DoRequest(router, "POST", "/api/v1/orders", body)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", w.Code)
	}
	resp := testutil.ParseResponse(w)
	if resp["code"].(float64) != 10004 {
		t.Errorf("duplicate code = %v, want 10004", resp["code"])
	}
}

func TestOrderUpload(t *testing.T) {
	router, _ := setupPlanningTest(t)

	csvData := strings.Join([]string{
		"Order ID,Product Name,Quantity,Color,Delivery Date",
		"SO-001,T-Shirt,50,Red,2026-09-10",
		"SO-002,Hoodie,30,Black,2026-09-12",
	}, "\n")

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", "orders.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	io.Copy(part, strings.NewReader(csvData))
	writer.Close()

	req, _ := http.NewRequest("POST", "/api/v1/orders/upload-excel", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := testutil.ParseResponse(w)
	data := resp["data"].(map[string]interface{})
	if data["created"].(float64) != 2 {
		t.Errorf("created = %v, want 2", data["created"])
	}

	listW := testutil.DoRequest(router, "GET", "/api/v1/orders", nil)
	listResp := testutil.ParseResponse(listW)
	listData := listResp["data"].(map[string]interface{})
	if listData["total"].(float64) != 2 {
		t.Errorf("order total = %v, want 2", listData["total"])
	}
}

func TestOrderStatusPatch(t *testing.T) {
	router, db := setupPlanningTest(t)
	o := testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 10, testutil.Date(2026, 9, 10))

	w := testutil.DoRequest(router, "PATCH", "/api/v1/orders/"+o.ID, map[string]string{"status": "completed"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status = %d, body = %s", w.Code, w.Body.String())
	}

	w = testutil.DoRequest(router, "PATCH", "/api/v1/orders/"+o.ID, map[string]string{"status": "bogus"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid status code = %d, want 400", w.Code)
	}
}

func TestOrderDelete(t *testing.T) {
	router, db := setupPlanningTest(t)
	o := testutil.SeedOrder(t, db, "O1", "T-Shirt", "Red", 10, testutil.Date(2026, 9, 10))
	testutil.SeedOrder(t, db, "O2", "T-Shirt", "Blue", 10, testutil.Date(2026, 9, 10))

	if w := testutil.DoRequest(router, "DELETE", "/api/v1/orders/"+o.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := testutil.DoRequest(router, "DELETE", "/api/v1/orders/"+o.ID, nil); w.Code != http.StatusNotFound {
		t.Errorf("re-delete status = %d, want 404", w.Code)
	}
	if w := testutil.DoRequest(router, "DELETE", "/api/v1/orders/all", nil); w.Code != http.StatusOK {
		t.Fatalf("delete all status = %d", w.Code)
	}

	listW := testutil.DoRequest(router, "GET", "/api/v1/orders", nil)
	listResp := testutil.ParseResponse(listW)
	listData := listResp["data"].(map[string]interface{})
	if listData["total"].(float64) != 0 {
		t.Errorf("order total after delete all = %v, want 0", listData["total"])
	}
}
