package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"syndicate_armory/internal/handlers"
	"syndicate_armory/internal/repository"
	"syndicate_armory/internal/seed"
	"syndicate_armory/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryOrderRepository()
	if err := seed.Load(repo); err != nil {
		t.Fatalf("seed: %v", err)
	}

	logger := zap.NewNop()
	orderService := services.NewOrderService(repo, nil, logger)
	queryService := services.NewQueryService(repo)
	trackingService := services.NewTrackingService(repo, queryService, nil, time.Minute, logger)
	staffService, err := services.NewStaffService("overwatch")
	if err != nil {
		t.Fatalf("staff service: %v", err)
	}

	apiHandler := handlers.NewAPIHandler(orderService, queryService, trackingService, staffService)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/health", apiHandler.HealthCheck)
	api.GET("/orders/:trackingId", apiHandler.TrackOrder)
	api.GET("/orders/:trackingId/queue", apiHandler.QueuePosition)
	api.POST("/orders", apiHandler.CreateOrder)
	api.POST("/auth/login", apiHandler.Login)
	admin := api.Group("/admin")
	admin.GET("/orders", apiHandler.ListOrders)
	admin.GET("/orders/export", apiHandler.ExportOrders)
	admin.GET("/orders/:id", apiHandler.GetOrder)
	admin.GET("/stats", apiHandler.Stats)
	admin.PATCH("/orders/:id/status", apiHandler.UpdateStatus)
	admin.PATCH("/orders/:id/payment", apiHandler.TogglePayment)
	admin.PATCH("/orders/:id/treasury", apiHandler.ToggleTreasury)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/health", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["status"] != "ok" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestTrackOrder_Found(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/orders/syn7x2", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["trackingId"] != "SYN7X2" || body["id"] != "ord_001" {
		t.Fatalf("unexpected order: %v", body)
	}
	items, ok := body["items"].([]interface{})
	if !ok || len(items) != 2 {
		t.Fatalf("unexpected items: %v", body["items"])
	}
	first := items[0].(map[string]interface{})
	if first["name"] != "Carbine Rifle MK2" || first["quantity"] != float64(2) || first["price"] != float64(45000) {
		t.Fatalf("unexpected first item: %v", first)
	}
	history, ok := body["history"].([]interface{})
	if !ok || len(history) != 5 {
		t.Fatalf("expected full history, got %v", body["history"])
	}
}

func TestTrackOrder_OmitsAbsentPickup(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/orders/QW8N4R", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if _, present := body["estimatedPickup"]; present {
		t.Fatalf("estimatedPickup must be omitted when absent: %v", body)
	}
}

func TestTrackOrder_NotFound(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/api/orders/ZZZZ99", "/api/orders/abc"} {
		w := doRequest(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, w.Code)
		}
		if body := decode(t, w); body["error"] != "Order not found" {
			t.Fatalf("%s: unexpected body %v", path, body)
		}
	}
}

func TestQueuePosition(t *testing.T) {
	router := setupRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/orders/QW8N4R/queue", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	// Demo set: only LM5C7Z (ready_for_pickup, placed 08:45) predates
	// QW8N4R and is still open; K9M3PL was placed later.
	if body["ordersAhead"] != float64(1) {
		t.Fatalf("expected 1 order ahead, got %v", body["ordersAhead"])
	}
}

func TestCreateOrder(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items":     []map[string]interface{}{{"name": "Rifle", "quantity": 1, "price": 45000}},
		"buyerName": "Wraith",
		"phone":     "555-0101",
		"gangName":  "Night Howlers",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["status"] != "pending_review" || body["totalPrice"] != float64(45000) {
		t.Fatalf("unexpected order: %v", body)
	}

	tracking, _ := body["trackingId"].(string)
	lookup := doRequest(t, router, http.MethodGet, "/api/orders/"+tracking, nil)
	if lookup.Code != http.StatusOK {
		t.Fatalf("created order not trackable: %d", lookup.Code)
	}
}

func TestCreateOrder_Validation(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items":     []map[string]interface{}{},
		"buyerName": "Wraith",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPost, "/api/orders", map[string]interface{}{
		"items":     []map[string]interface{}{{"name": "Rifle", "quantity": 0, "price": 100}},
		"buyerName": "Wraith",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	router := setupRouter(t)

	// ord_003 is pending_review; a forward jump is legal.
	w := doRequest(t, router, http.MethodPatch, "/api/admin/orders/ord_003/status", map[string]string{
		"status": "in_progress",
		"actor":  "Razor",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["status"] != "in_progress" {
		t.Fatalf("unexpected status: %v", body["status"])
	}

	// ord_001 is completed; terminal statuses block every outgoing move.
	w = doRequest(t, router, http.MethodPatch, "/api/admin/orders/ord_001/status", map[string]string{
		"status": "accepted",
		"actor":  "Razor",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	body = decode(t, w)
	if body["from"] != "completed" || body["to"] != "accepted" {
		t.Fatalf("conflict body missing the attempted pair: %v", body)
	}

	w = doRequest(t, router, http.MethodPatch, "/api/admin/orders/ord_missing/status", map[string]string{
		"status": "accepted",
		"actor":  "Razor",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodPatch, "/api/admin/orders/ord_003/status", map[string]string{
		"status": "teleported",
		"actor":  "Razor",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %d", w.Code)
	}
}

func TestToggleFlags(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPatch, "/api/admin/orders/ord_003/payment", map[string]string{"actor": "Razor"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["isPaid"] != true {
		t.Fatalf("expected isPaid true: %v", body)
	}

	w = doRequest(t, router, http.MethodPatch, "/api/admin/orders/ord_003/treasury", map[string]string{"actor": "Razor"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["inTreasury"] != true {
		t.Fatalf("expected inTreasury true: %v", body)
	}
}

func TestListOrders(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/admin/orders?status=completed&search=ghost&page=1&page_size=6", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	orders, ok := body["orders"].([]interface{})
	if !ok || len(orders) != 1 {
		t.Fatalf("expected exactly the completed Ghost order, got %v", body["orders"])
	}
	first := orders[0].(map[string]interface{})
	if first["buyerName"] != "Ghost" || first["status"] != "completed" {
		t.Fatalf("unexpected order: %v", first)
	}
	if body["totalPages"] != float64(1) {
		t.Fatalf("unexpected totalPages: %v", body["totalPages"])
	}
}

func TestExportOrders(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/admin/orders/export?status=completed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus one completed order, got %d lines: %q", len(lines), w.Body.String())
	}
	if !strings.HasPrefix(lines[0], "Order ID,") {
		t.Fatalf("unexpected CSV header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "SYN7X2") {
		t.Fatalf("expected the completed order row, got %q", lines[1])
	}
}

func TestStats(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/admin/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["totalOrders"] != float64(5) {
		t.Fatalf("expected 5 orders, got %v", body["totalOrders"])
	}
	// ord_001 (102000) and ord_005 (67600) are paid.
	if body["paidRevenue"] != float64(169600) {
		t.Fatalf("unexpected paid revenue: %v", body["paidRevenue"])
	}
}

func TestLogin(t *testing.T) {
	router := setupRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"name":       "Razor",
		"accessCode": "overwatch",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["name"] != "Razor" || body["role"] != "admin" {
		t.Fatalf("unexpected operator: %v", body)
	}

	w = doRequest(t, router, http.MethodPost, "/api/auth/login", map[string]string{
		"name":       "Razor",
		"accessCode": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
