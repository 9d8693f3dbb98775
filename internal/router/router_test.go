package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mcpserver/internal/config"
	"mcpserver/internal/db"
	"mcpserver/internal/logger"
	"mcpserver/internal/metrics"
	"mcpserver/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := config.New()
	cfg.DBDriver = config.DriverSQLite
	cfg.DatabaseURL = ":memory:"

	gdb, err := db.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() { db.Close(gdb) })

	m := metrics.NewManager()
	store, err := services.NewCachedNodeStore(
		services.NewInstrumentedNodeStore(services.NewGormNodeStore(gdb), m),
		16, 0, m,
	)
	require.NoError(t, err)

	return New(Deps{
		Store:   store,
		Ping:    func(ctx context.Context) error { return db.Ping(ctx, gdb) },
		Metrics: m,
		Logger:  logger.Discard(),
	})
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateGetScenario(t *testing.T) {
	r := newTestEngine(t)

	rec := do(r, http.MethodPost, "/nodes/", `{"name":"Alice","org":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","org":"Acme"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/nodes/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","org":"Acme"}`, rec.Body.String())

	rec = do(r, http.MethodGet, "/nodes/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Node not found"}`, rec.Body.String())
}

func TestListAfterCreates(t *testing.T) {
	r := newTestEngine(t)

	for _, body := range []string{
		`{"name":"Alice","org":"Acme"}`,
		`{"name":"Bob","org":"Beta"}`,
		`{"name":"Carol","org":"Gamma"}`,
	} {
		require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/nodes/", body).Code)
	}

	rec := do(r, http.MethodGet, "/nodes/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"id":1,"name":"Alice","org":"Acme"},
		{"id":2,"name":"Bob","org":"Beta"},
		{"id":3,"name":"Carol","org":"Gamma"}
	]`, rec.Body.String())
}

func TestInvalidCreateLeavesStoreUntouched(t *testing.T) {
	r := newTestEngine(t)

	rec := do(r, http.MethodPost, "/nodes/", `{"name":"Alice"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(r, http.MethodGet, "/nodes/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(r, http.MethodPost, "/nodes/", `{"name":"Alice","org":"Acme"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"name":"Alice","org":"Acme"}`, rec.Body.String())
}

func TestAmbientRoutes(t *testing.T) {
	r := newTestEngine(t)

	rec := do(r, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Welcome to the MCP Server. The archive is alive."}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = do(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, "/does-not-exist", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"detail":"Not Found"}`, rec.Body.String())

	do(r, http.MethodPost, "/nodes/", `{"name":"Alice","org":"Acme"}`)
	rec = do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `mcpserver_node_store_nodes_created_total 1`)
	assert.Contains(t, rec.Body.String(), `endpoint="/nodes/"`)
}

func TestTrailingSlashRedirect(t *testing.T) {
	r := newTestEngine(t)

	rec := do(r, http.MethodGet, "/nodes", "")
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "/nodes/", rec.Header().Get("Location"))
}
