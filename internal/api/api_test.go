package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"recycling-admin-backend/config"
	"recycling-admin-backend/internal/model"
	"recycling-admin-backend/internal/mw"
	"recycling-admin-backend/internal/simulator"
	"recycling-admin-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router *gin.Engine
	store  *store.Store
	oplog  store.OpLog
	cache  *mw.ResponseCache
}

func newTestServer(t *testing.T, mutate ...func(*config.Config)) *testServer {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Auth.Username = "admin"
	cfg.Auth.Password = "admin123"
	cfg.Simulator.RestartDelaySeconds = 1
	cfg.ApplyDefaults()
	cfg.Simulator.RestartDelay = 100 * time.Millisecond
	for _, m := range mutate {
		m(cfg)
	}

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&model.OperationLog{}, &model.PushSubscription{}))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	seed := store.DefaultSeed()
	seed.Devices = []model.Device{
		{ID: "DEV001", Name: "朝阳区望京-1", Status: model.DeviceNormal, Capacity: model.Capacity{Current: 40, Max: 100}, Battery: 80, Temperature: 20},
		{ID: "DEV002", Name: "朝阳区望京-2", Status: model.DeviceError, Capacity: model.Capacity{Current: 85, Max: 100}, Battery: 60, Temperature: 65},
	}
	seed.Tasks = []model.Task{{ID: "1", Title: "清运 DEV002", DeviceID: "DEV002", Status: model.TaskPending}}
	seed.Alerts = []model.Alert{{ID: "a-1", Type: "温度异常", DeviceID: "DEV002", DeviceName: "朝阳区望京-2", Status: model.AlertPending}}
	s := store.New(seed)

	cache := mw.NewResponseCache(time.Minute)
	s.OnMutation(func(store.Mutation) { cache.Flush() })

	sim := simulator.NewService(&cfg.Simulator, s, zap.NewNop())
	t.Cleanup(sim.Close)

	oplog := store.NewGormOpLog(gormDB)
	h := NewHandler(Deps{
		Store:         s,
		OpLog:         oplog,
		Subscriptions: store.NewGormSubscriptions(gormDB),
		Simulator:     sim,
		Sessions:      mw.NewSessions(cfg.Auth.SessionTTL),
		Auth:          cfg.Auth,
		WebPush:       &webpush.Options{VAPIDPublicKey: "pub-key", VAPIDPrivateKey: "priv-key"},
		Log:           zap.NewNop(),
	})
	return &testServer{
		router: NewRouter(h, cache, cfg, zap.NewNop()),
		store:  s,
		oplog:  oplog,
		cache:  cache,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestEntities_CreateGetList(t *testing.T) {
	ts := newTestServer(t)

	before := decode[[]model.User](t, ts.do(t, http.MethodGet, "/api/users", nil))

	w := ts.do(t, http.MethodPost, "/api/users", map[string]any{"username": "lisi", "email": "lisi@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	created := decode[model.User](t, w)
	assert.Equal(t, "3", created.ID)
	assert.Equal(t, "lisi", created.Username)

	got := decode[model.User](t, ts.do(t, http.MethodGet, "/api/users/3", nil))
	assert.Equal(t, created, got)

	after := decode[[]model.User](t, ts.do(t, http.MethodGet, "/api/users", nil))
	assert.Len(t, after, len(before)+1)
}

func TestEntities_CreateIgnoresSubmittedID(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/categories", `{"id":5,"name":"大件垃圾","points":3}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[model.Category](t, w)
	assert.Equal(t, "5", created.ID)
	assert.Equal(t, "大件垃圾", created.Name)
	assert.Equal(t, 3, created.Points)

	w = ts.do(t, http.MethodPost, "/api/rewards", `{"id":"R-1","name":"水杯","points":80,"stock":10}`)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "4", decode[model.Reward](t, w).ID)

	w = ts.do(t, http.MethodPost, "/api/categories", `{"name":"坏数据","points":"many"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 5, ts.store.Categories.Len())
}

func TestEntities_UpdateMergesShallowly(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPatch, "/api/categories/1", map[string]any{"points": 20})
	require.Equal(t, http.StatusOK, w.Code)
	cat := decode[model.Category](t, w)
	assert.Equal(t, "1", cat.ID)
	assert.Equal(t, "可回收物", cat.Name)
	assert.Equal(t, 20, cat.Points)

	w = ts.do(t, http.MethodPut, "/api/categories/01", map[string]any{"icon": "leaf"})
	require.Equal(t, http.StatusOK, w.Code)
	cat = decode[model.Category](t, w)
	assert.Equal(t, 20, cat.Points)
	assert.Equal(t, "leaf", cat.Icon)
}

func TestEntities_UpdateErrors(t *testing.T) {
	ts := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPatch, "/api/categories/99", map[string]any{"points": 1}).Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, "/api/categories/1", "{not json").Code)
	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodPatch, "/api/categories/1", map[string]any{"points": "many"}).Code)

	cat := decode[model.Category](t, ts.do(t, http.MethodGet, "/api/categories/1", nil))
	assert.Equal(t, 10, cat.Points)
}

func TestEntities_Delete(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodDelete, "/api/news/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = ts.do(t, http.MethodDelete, "/api/news/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false}`, w.Body.String())

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/news/1", nil).Code)
	assert.Len(t, decode[[]model.News](t, ts.do(t, http.MethodGet, "/api/news", nil)), 1)
}

func TestEntities_BatchDelete(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodDelete, "/api/rewards", map[string]any{"ids": []any{1, "02", "99"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":2}`, w.Body.String())
	assert.Equal(t, 1, ts.store.Rewards.Len())

	w = ts.do(t, http.MethodDelete, "/api/rewards", map[string]any{"ids": []any{1.5}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = ts.do(t, http.MethodDelete, "/api/rewards", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntities_Search(t *testing.T) {
	ts := newTestServer(t)

	devices := decode[[]model.Device](t, ts.do(t, http.MethodGet, "/api/devices?q=dev002", nil))
	require.Len(t, devices, 1)
	assert.Equal(t, "DEV002", devices[0].ID)

	users := decode[[]model.User](t, ts.do(t, http.MethodGet, "/api/users?q=nobody", nil))
	assert.Empty(t, users)
}

func TestEntities_CacheFlushedOnMutation(t *testing.T) {
	ts := newTestServer(t)

	assert.Len(t, decode[[]model.Category](t, ts.do(t, http.MethodGet, "/api/categories", nil)), 4)
	assert.Equal(t, 1, ts.cache.Len())

	ts.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "大件垃圾", "points": 3})
	assert.Equal(t, 0, ts.cache.Len())
	assert.Len(t, decode[[]model.Category](t, ts.do(t, http.MethodGet, "/api/categories", nil)), 5)
}

func TestEntities_UnknownKind(t *testing.T) {
	ts := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/widgets", nil).Code)
}

func TestActions(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/tasks/1/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TaskInProgress, decode[model.Task](t, w).Status)

	w = ts.do(t, http.MethodPost, "/api/tasks/1/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.TaskCompleted, decode[model.Task](t, w).Status)

	w = ts.do(t, http.MethodPost, "/api/alerts/a-1/process", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.AlertProcessed, decode[model.Alert](t, w).Status)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/tasks/42/start", nil).Code)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/alerts/nope/process", nil).Code)
}

func TestRestartDevice(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/devices/DEV002/restart", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, model.DeviceRestarting, decode[model.Device](t, w).Status)

	w = ts.do(t, http.MethodPost, "/api/devices/DEV002/restart", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	assert.Eventually(t, func() bool {
		d, _ := ts.store.Devices.Get("DEV002")
		return d.Status == model.DeviceNormal
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodPost, "/api/devices/DEV404/restart", nil).Code)
}

func TestReports(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[map[string]any](t, w)
	assert.EqualValues(t, 12345, dash["totalDeliveries"])
	assert.EqualValues(t, 1, dash["pendingAlerts"])

	w = ts.do(t, http.MethodGet, "/api/leaderboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[[]map[string]any](t, w)
	require.NotEmpty(t, board)
	assert.EqualValues(t, 1, board[0]["rank"])

	w = ts.do(t, http.MethodGet, "/api/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	analytics := decode[map[string]any](t, w)
	assert.Len(t, analytics["deviceEfficiency"], 2)

	w = ts.do(t, http.MethodGet, "/api/smart-schedule", nil)
	require.Equal(t, http.StatusOK, w.Code)
	schedule := decode[map[string][]map[string]any](t, w)
	require.Len(t, schedule["routes"], 1)
	assert.Equal(t, "high", schedule["routes"][0]["priority"])
}

func TestLogs(t *testing.T) {
	ts := newTestServer(t)

	ts.do(t, http.MethodPatch, "/api/categories/1", map[string]any{"points": 20})
	ts.do(t, http.MethodDelete, "/api/news/2", nil)

	w := ts.do(t, http.MethodGet, "/api/logs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]model.OperationLog](t, w)
	require.Len(t, entries, 2)
	assert.Equal(t, "删除资讯", entries[0].Action)
	assert.Equal(t, "2", entries[0].RecordID)
	assert.Equal(t, "编辑分类", entries[1].Action)
	assert.Equal(t, "admin", entries[1].User)

	entries = decode[[]model.OperationLog](t, ts.do(t, http.MethodGet, "/api/logs?limit=1", nil))
	assert.Len(t, entries, 1)

	assert.Equal(t, http.StatusBadRequest, ts.do(t, http.MethodGet, "/api/logs?limit=zero", nil).Code)
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestVAPIDPublicKey(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/api/vapid_public_key", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"public_key":"pub-key"}`, w.Body.String())
}
