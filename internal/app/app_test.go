package app_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"dinesight-backend/internal/app"
	"dinesight-backend/internal/catalog/catalogtest"
	"dinesight-backend/internal/clock"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *fiber.App {
	t.Helper()
	clk := clock.NewManual(catalogtest.Epoch)
	application, err := app.InitializeApp(catalogtest.OpenDB(t, clk), clk, prometheus.NewRegistry())
	require.NoError(t, err)

	srv := fiber.New()
	application.RegisterRoutes(srv.Group("/api"))
	return srv
}

func do(t *testing.T, srv *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := srv.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

type idOnly struct {
	ID uint `json:"id"`
}

func TestSaleFlow(t *testing.T) {
	srv := newServer(t)

	code, body := do(t, srv, http.MethodPost, "/api/inventory", map[string]any{
		"name": "Flour", "current_stock": 1.0, "unit": "kg", "minimum_threshold": 0.2,
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	flour := decode[idOnly](t, body)

	code, body = do(t, srv, http.MethodPost, "/api/menu-items", map[string]any{
		"name": "Bread", "category": "Bakery", "price": 3.0,
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	bread := decode[idOnly](t, body)

	code, body = do(t, srv, http.MethodPost, fmt.Sprintf("/api/menu-items/%d/recipe", bread.ID), map[string]any{
		"ingredient_id": flour.ID, "quantity_used": 0.5,
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	code, body = do(t, srv, http.MethodGet, fmt.Sprintf("/api/menu-items/%d/can-fulfill?quantity=2", bread.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[map[string]any](t, body)["can_fulfill"].(bool))

	code, body = do(t, srv, http.MethodPost, "/api/sales", map[string]any{
		"menu_item_id": bread.ID, "quantity": 2, "unit_price": 3.0,
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	sale := decode[map[string]any](t, body)
	assert.Equal(t, "Bread", sale["item_name"])
	assert.Equal(t, 6.0, sale["total_amount"])

	code, body = do(t, srv, http.MethodGet, fmt.Sprintf("/api/menu-items/%d", bread.ID), nil)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, decode[map[string]any](t, body)["available"].(bool))

	code, body = do(t, srv, http.MethodPost, "/api/sales", map[string]any{
		"menu_item_id": bread.ID, "quantity": 1, "unit_price": 3.0,
	})
	assert.Equal(t, http.StatusConflict, code, string(body))

	code, body = do(t, srv, http.MethodGet, "/api/inventory?low_stock=true", nil)
	require.Equal(t, http.StatusOK, code)
	low := decode[[]map[string]any](t, body)
	require.Len(t, low, 1)
	assert.Equal(t, 0.0, low[0]["current_stock"])

	code, body = do(t, srv, http.MethodGet, "/api/sales/summary", nil)
	require.Equal(t, http.StatusOK, code)
	sum := decode[map[string]any](t, body)
	assert.Equal(t, "Bread", sum["popular_item"])

	code, body = do(t, srv, http.MethodGet, "/api/audit-logs?entity_type=recipe_line", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, body), 1)
}

func TestRestockThroughUpdate(t *testing.T) {
	srv := newServer(t)

	_, body := do(t, srv, http.MethodPost, "/api/inventory", map[string]any{
		"name": "Milk", "current_stock": 0.0, "unit": "liters", "minimum_threshold": 1.0,
	})
	milk := decode[idOnly](t, body)
	_, body = do(t, srv, http.MethodPost, "/api/menu-items", map[string]any{"name": "Latte", "category": "Drinks", "price": 4.0})
	latte := decode[idOnly](t, body)
	do(t, srv, http.MethodPost, fmt.Sprintf("/api/menu-items/%d/recipe", latte.ID), map[string]any{
		"ingredient_id": milk.ID, "quantity_used": 0.2,
	})

	code, body := do(t, srv, http.MethodGet, "/api/menu-items?available=true", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, decode[[]map[string]any](t, body))

	code, body = do(t, srv, http.MethodPut, fmt.Sprintf("/api/inventory/%d", milk.ID), map[string]any{
		"name": "Milk", "current_stock": 5.0, "unit": "liters", "minimum_threshold": 1.0,
	})
	require.Equal(t, http.StatusOK, code, string(body))
	assert.Equal(t, "2026-10-19", decode[map[string]any](t, body)["last_restocked"])

	code, body = do(t, srv, http.MethodGet, "/api/menu-items?available=true", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]map[string]any](t, body), 1)
}

func TestErrorStatuses(t *testing.T) {
	srv := newServer(t)

	cases := []struct {
		method, path string
		body         any
		want         int
	}{
		{http.MethodGet, "/api/menu-items/77", nil, http.StatusNotFound},
		{http.MethodGet, "/api/menu-items/abc", nil, http.StatusBadRequest},
		{http.MethodPost, "/api/menu-items", map[string]any{"name": "NoPrice"}, http.StatusBadRequest},
		{http.MethodPost, "/api/inventory", map[string]any{"name": "X", "current_stock": 1.0, "minimum_threshold": 1.0, "unit": "cups"}, http.StatusBadRequest},
		{http.MethodPost, "/api/sales", map[string]any{"menu_item_id": 1, "quantity": 0, "unit_price": 1.0}, http.StatusBadRequest},
		{http.MethodGet, "/api/menu-items/3/can-fulfill?quantity=1", nil, http.StatusNotFound},
		{http.MethodDelete, "/api/recipe-lines/9", nil, http.StatusNotFound},
		{http.MethodGet, "/api/sales?from=yesterday", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/sales/daily-trend?days=0", nil, http.StatusBadRequest},
		{http.MethodGet, "/api/dashboard/sales-chart?period=hourly", nil, http.StatusBadRequest},
		{http.MethodPost, "/api/feedback", map[string]any{"item_name": "Bread", "rating": 9}, http.StatusBadRequest},
	}
	for _, c := range cases {
		code, body := do(t, srv, c.method, c.path, c.body)
		assert.Equal(t, c.want, code, "%s %s: %s", c.method, c.path, body)
	}
}

func TestRecomputeEndpoint(t *testing.T) {
	srv := newServer(t)

	code, body := do(t, srv, http.MethodPost, "/api/availability/recompute", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0.0, decode[map[string]any](t, body)["changed"])
}

func TestAnalyticsEndpoints(t *testing.T) {
	srv := newServer(t)

	code, body := do(t, srv, http.MethodPost, "/api/menu-items", map[string]any{
		"name": "Tea", "category": "Drinks", "price": 2.0,
	})
	require.Equal(t, http.StatusCreated, code, string(body))
	tea := decode[idOnly](t, body)

	code, body = do(t, srv, http.MethodPost, "/api/sales", map[string]any{
		"menu_item_id": tea.ID, "quantity": 3, "unit_price": 2.0,
	})
	require.Equal(t, http.StatusCreated, code, string(body))

	code, body = do(t, srv, http.MethodGet, "/api/menu-items/stats", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	stats := decode[map[string]any](t, body)
	assert.Equal(t, 1.0, stats["total_items"])
	assert.Equal(t, 1.0, stats["categories"])
	assert.Equal(t, "Tea", stats["most_popular"])

	code, body = do(t, srv, http.MethodGet, "/api/sales/top-items?limit=5", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	top := decode[[]map[string]any](t, body)
	require.Len(t, top, 1)
	assert.Equal(t, 3.0, top[0]["total_sold"])

	code, body = do(t, srv, http.MethodGet, "/api/sales/top-items?limit=0", nil)
	assert.Equal(t, http.StatusBadRequest, code, string(body))

	code, body = do(t, srv, http.MethodGet, "/api/sales/weekday", nil)
	require.Equal(t, http.StatusOK, code, string(body))
	week := decode[[]map[string]any](t, body)
	require.Len(t, week, 7)
	assert.Equal(t, "Monday", week[0]["day"])
	assert.Equal(t, true, week[0]["best"])
}
