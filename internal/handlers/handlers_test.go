package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hesabyar/internal/models"
	"hesabyar/internal/store"
)

func newTestServer(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gw := store.NewMemoryStore()
	logger := zaptest.NewLogger(t)
	container, err := store.NewContainer(context.Background(), gw, logger)
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router, New(container, logger), NewDocumentHandler(gw, logger))
	return router, gw
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func addProduct(t *testing.T, router *gin.Engine, token string, name string, buy float64, margin float64, qty int) models.Product {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/api/products", token, gin.H{
		"name": name, "buy_price": buy, "shipping_cost": 0, "margin_percent": margin, "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Product models.Product `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Product
}

func getProducts(t *testing.T, router *gin.Engine, token string) []models.Product {
	t.Helper()
	w := doJSON(t, router, http.MethodGet, "/api/products", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var products []models.Product
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	return products
}

func TestLoginSeededAdmin(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")
	assert.NotEmpty(t, token)

	// Username matching is case-insensitive, password is not.
	login(t, router, "ADMIN", "1234")
	w := doJSON(t, router, http.MethodPost, "/login", "", gin.H{"username": "admin", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoutesRequireToken(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProductSellPriceIsDerived(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")

	p := addProduct(t, router, token, "کابل شارژ", 1000, 50, 5)
	assert.InDelta(t, 1500, p.SellPrice, 1e-9, "sell = round((1000+0)*1.5)")
	assert.Equal(t, 5, p.Quantity)
	assert.Equal(t, "admin", p.RegisteredBy)
}

func TestInvoiceLifecycle(t *testing.T) {
	router, gw := newTestServer(t)
	token := login(t, router, "admin", "1234")
	p := addProduct(t, router, token, "کابل شارژ", 1000, 50, 5)

	// Create: 3 of 5 units sold at the snapshot price.
	w := doJSON(t, router, http.MethodPost, "/api/invoices", token, gin.H{
		"customer_name": "مشتری",
		"items":         []gin.H{{"product_id": p.ID, "quantity": 3, "price": 1500}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Invoice   models.Invoice `json:"invoice"`
		Persisted bool           `json:"persisted"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.InDelta(t, 4500, created.Invoice.TotalAmount, 1e-9)
	assert.True(t, created.Persisted)
	assert.Equal(t, 2, getProducts(t, router, token)[0].Quantity)

	// The stored document moved with the in-memory state.
	stored, err := gw.Stored()
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Products[0].Quantity)

	// Oversell: 3 > 2 remaining, stock must stay untouched.
	w = doJSON(t, router, http.MethodPost, "/api/invoices", token, gin.H{
		"customer_name": "مشتری",
		"items":         []gin.H{{"product_id": p.ID, "quantity": 3}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 2, getProducts(t, router, token)[0].Quantity)

	// Edit down to 1 unit: restore-then-deduct gives 5-1=4 on hand.
	w = doJSON(t, router, http.MethodPut, "/api/invoices/"+created.Invoice.ID, token, gin.H{
		"customer_name": "مشتری",
		"items":         []gin.H{{"product_id": p.ID, "quantity": 1, "price": 1500}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 4, getProducts(t, router, token)[0].Quantity)

	// Delete: everything comes back.
	w = doJSON(t, router, http.MethodDelete, "/api/invoices/"+created.Invoice.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, getProducts(t, router, token)[0].Quantity)
}

func TestInvoiceSnapshotsNameAndPrice(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")
	p := addProduct(t, router, token, "هدفون", 20000, 50, 2)

	// No client price: the current sell price is frozen into the line.
	w := doJSON(t, router, http.MethodPost, "/api/invoices", token, gin.H{
		"customer_name": "مشتری",
		"items":         []gin.H{{"product_id": p.ID, "quantity": 1}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Invoice models.Invoice `json:"invoice"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Len(t, created.Invoice.Items, 1)
	assert.Equal(t, "هدفون", created.Invoice.Items[0].Name)
	assert.InDelta(t, p.SellPrice, created.Invoice.Items[0].Price, 1e-9)
}

func TestAllocateDividendsOverride(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")

	// Seeded partners hold 10M and 30M; a 4M override splits 1M / 3M.
	w := doJSON(t, router, http.MethodPost, "/api/profit/allocate", token, gin.H{
		"period": "1404/06", "override_amount": 4_000_000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Profit   float64                 `json:"profit"`
		Payments []models.PaymentHistory `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Payments, 2)
	assert.InDelta(t, 1_000_000, resp.Payments[0].Amount, 1e-6)
	assert.InDelta(t, 3_000_000, resp.Payments[1].Amount, 1e-6)

	// No duplicate-period guard: running again doubles the rows.
	w = doJSON(t, router, http.MethodPost, "/api/profit/allocate", token, gin.H{
		"period": "1404/06", "override_amount": 4_000_000,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/payments", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []models.PaymentHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 4)
}

func TestAllocateDividendsComputed(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")
	p := addProduct(t, router, token, "کابل شارژ", 1000, 50, 5)

	w := doJSON(t, router, http.MethodPost, "/api/invoices", token, gin.H{
		"customer_name": "مشتری",
		"date":          "1404/06/10",
		"items":         []gin.H{{"product_id": p.ID, "quantity": 3, "price": 1500}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Computed mode: (1500-1000)*3 = 1500 profit for the period.
	w = doJSON(t, router, http.MethodPost, "/api/profit/allocate", token, gin.H{"period": "1404/06"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Profit float64 `json:"profit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1500, resp.Profit, 1e-9)

	// An empty period computes zero and is rejected with no rows.
	w = doJSON(t, router, http.MethodPost, "/api/profit/allocate", token, gin.H{"period": "1390/01"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdatePaymentAllowsZeroAmount(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")

	w := doJSON(t, router, http.MethodPost, "/api/profit/allocate", token, gin.H{
		"period": "1404/06", "override_amount": 4_000_000,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Payments []models.PaymentHistory `json:"payments"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Payments)

	// A payout row can be hand-corrected all the way down to zero.
	w = doJSON(t, router, http.MethodPut, "/api/payments/"+resp.Payments[0].ID, token, gin.H{
		"amount": 0, "description": "اصلاح دستی",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		Payment models.PaymentHistory `json:"payment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Zero(t, updated.Payment.Amount)
	assert.Equal(t, "اصلاح دستی", updated.Payment.Description)
}

func TestStaffPermissions(t *testing.T) {
	router, _ := newTestServer(t)
	admin := login(t, router, "admin", "1234")

	w := doJSON(t, router, http.MethodPost, "/api/users", admin, gin.H{
		"username": "fatemeh", "password": "secret", "role": "staff",
		"permissions": []string{"products"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// Duplicate username is rejected case-insensitively.
	w = doJSON(t, router, http.MethodPost, "/api/users", admin, gin.H{
		"username": "FATEMEH", "password": "x", "role": "staff",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	staff := login(t, router, "fatemeh", "secret")
	w = doJSON(t, router, http.MethodGet, "/api/products", staff, nil)
	assert.Equal(t, http.StatusOK, w.Code, "granted feature must pass")

	w = doJSON(t, router, http.MethodGet, "/api/users", staff, nil)
	assert.Equal(t, http.StatusForbidden, w.Code, "ungranted feature must be blocked")
}

func TestBackupRestoreRejectsIncompleteFile(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")
	addProduct(t, router, token, "کابل شارژ", 1000, 50, 5)

	before := getProducts(t, router, token)

	// A backup file without the invoices container must change nothing.
	broken := `{"products": [], "partners": [], "users": []}`
	req := httptest.NewRequest(http.MethodPost, "/api/backup/restore", bytes.NewBufferString(broken))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, before, getProducts(t, router, token), "state must be untouched after a rejected restore")
}

func TestBackupExportRestoreRoundTrip(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")
	addProduct(t, router, token, "کابل شارژ", 1000, 50, 5)

	w := doJSON(t, router, http.MethodGet, "/api/backup", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	exported := w.Body.Bytes()

	// Wipe a product, then restore the snapshot.
	products := getProducts(t, router, token)
	doJSON(t, router, http.MethodDelete, "/api/products/"+products[0].ID, token, nil)
	require.Empty(t, getProducts(t, router, token))

	req := httptest.NewRequest(http.MethodPost, "/api/backup/restore", bytes.NewBuffer(exported))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Len(t, getProducts(t, router, token), 1)
}

func TestDocumentEndpoint(t *testing.T) {
	router, gw := newTestServer(t)

	// GET without any prior save returns the seeded default.
	w := doJSON(t, router, http.MethodGet, "/api/document", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data models.AppData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Len(t, data.Partners, 2)

	// PUT replaces the whole document unconditionally.
	data.Invoices = append(data.Invoices, models.Invoice{ID: "inv-from-other-device"})
	w = doJSON(t, router, http.MethodPut, "/api/document", "", data)
	require.Equal(t, http.StatusOK, w.Code)

	stored, err := gw.Stored()
	require.NoError(t, err)
	require.Len(t, stored.Invoices, 1)
	assert.Equal(t, "inv-from-other-device", stored.Invoices[0].ID)
}

func TestDashboardReport(t *testing.T) {
	router, _ := newTestServer(t)
	token := login(t, router, "admin", "1234")
	addProduct(t, router, token, "کابل شارژ", 1000, 50, 5)

	w := doJSON(t, router, http.MethodGet, "/api/reports", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report ReportData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.InDelta(t, 5000, report.StockValue, 1e-9, "5 units at cost basis 1000")
	require.Len(t, report.Partners, 2)
	assert.InDelta(t, 25, report.Partners[0].SharePercent, 1e-9)
	assert.InDelta(t, 75, report.Partners[1].SharePercent, 1e-9)
	assert.NotEmpty(t, report.StockValueLabel)
}

func TestMetricsRecordRequests(t *testing.T) {
	router, _ := newTestServer(t)
	doJSON(t, router, http.MethodGet, "/health", "", nil)

	w := doJSON(t, router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `hesabyar_http_requests_total{method="GET",path="/health",status="200"}`)
	assert.Contains(t, body, "hesabyar_http_request_duration_seconds")
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t)
	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"status":"online"}`, w.Body.String())
}
