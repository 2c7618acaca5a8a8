package rest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soratane/unitmind/api/rest"
	"github.com/soratane/unitmind/game/world"
	"github.com/soratane/unitmind/pubsub"
	"github.com/soratane/unitmind/resource"
	"github.com/soratane/unitmind/scheduler"
)

func nopLogger() *zap.Logger { return zap.NewNop() }

func testArena(t *testing.T) *world.Arena {
	t.Helper()
	sc := &resource.Scenario{
		Name: "testmap",
		Map: resource.MapDef{
			Width:  1000,
			Height: 1000,
			Colliders: []resource.Collider{
				{X: 500, Z: 500, Radius: 120},
			},
		},
		UnitTypes: map[string]resource.UnitType{
			"soldier": {Health: 100, Speed: 5, AttackPower: 10, AttackRange: 2},
		},
	}
	require.NoError(t, sc.Validate())

	// A tick interval this long means simulation state only changes
	// through handler calls, keeping assertions deterministic.
	a := world.NewArena(sc, pubsub.New(4), world.ArenaConfig{TickInterval: time.Hour}, nil)
	go a.Run()
	t.Cleanup(a.Stop)
	return a
}

func newRouter(t *testing.T, adminKey string) (*gin.Engine, *world.Arena) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a := testArena(t)
	sched := scheduler.New(nopLogger())
	t.Cleanup(sched.Stop)
	sched.AddTicker("respawn", time.Hour, func() {})

	dbg := rest.NewDebugHandler(a, nopLogger())
	adm := rest.NewAdminHandler(a, sched, nopLogger())

	r := gin.New()
	r.GET("/api/debug/entities", dbg.ListEntities)
	r.GET("/api/debug/entities/:id", dbg.GetEntity)
	r.GET("/api/debug/path", dbg.PlanPath)

	g := r.Group("/api/admin", rest.AdminAuth(adminKey))
	g.POST("/spawn", adm.Spawn)
	g.POST("/damage/:id", adm.Damage)
	g.POST("/heal/:id", adm.Heal)
	g.GET("/scheduler", adm.ListSchedulerTasks)

	return r, a
}

func doGet(r *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doPost(r *gin.Engine, path, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if key != "" {
		req.Header.Set("X-Admin-Key", key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func spawnSoldier(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := doPost(r, "/api/admin/spawn", "secret",
		`{"name":"grunt","unit_type":"soldier","team":"enemy","x":100,"z":100}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}

// ---- AdminAuth ----

func TestAdminAuth_NoKey_Disabled(t *testing.T) {
	// When adminKey is empty, admin endpoints must be disabled (503) so
	// the server cannot be accidentally deployed without protection.
	r, _ := newRouter(t, "")
	w := doGet(r, "/api/admin/scheduler", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminAuth_WrongKey(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doGet(r, "/api/admin/scheduler", "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuth_ValidKey(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doGet(r, "/api/admin/scheduler", "secret")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "respawn")
}

// ---- Admin ----

func TestSpawn_AndListEntities(t *testing.T) {
	r, _ := newRouter(t, "secret")
	id := spawnSoldier(t, r)

	w := doGet(r, "/api/debug/entities", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Arena    string `json:"arena"`
		Count    int    `json:"count"`
		Entities []struct {
			ID       string `json:"id"`
			UnitType string `json:"unit_type"`
			Team     string `json:"team"`
		} `json:"entities"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "testmap", resp.Arena)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, id, resp.Entities[0].ID)
	assert.Equal(t, "soldier", resp.Entities[0].UnitType)
	assert.Equal(t, "enemy", resp.Entities[0].Team)
}

func TestSpawn_UnknownUnitType(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doPost(r, "/api/admin/spawn", "secret",
		`{"unit_type":"dragon","team":"enemy"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSpawn_MissingFields(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doPost(r, "/api/admin/spawn", "secret", `{"x":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDamage_AndDeath(t *testing.T) {
	r, _ := newRouter(t, "secret")
	id := spawnSoldier(t, r)

	w := doPost(r, "/api/admin/damage/"+id, "secret", `{"amount":30}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"died":false`)

	w = doPost(r, "/api/admin/damage/"+id, "secret", `{"amount":1000}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"died":true`)
}

func TestDamage_UnknownEntity(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doPost(r, "/api/admin/damage/ghost", "secret", `{"amount":10}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDamage_RejectsNonPositiveAmount(t *testing.T) {
	r, _ := newRouter(t, "secret")
	id := spawnSoldier(t, r)
	w := doPost(r, "/api/admin/damage/"+id, "secret", `{"amount":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHeal(t *testing.T) {
	r, _ := newRouter(t, "secret")
	id := spawnSoldier(t, r)

	doPost(r, "/api/admin/damage/"+id, "secret", `{"amount":30}`)
	w := doPost(r, "/api/admin/heal/"+id, "secret", `{"amount":100}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doGet(r, "/api/debug/entities/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"health":100`)
}

func TestHeal_UnknownEntity(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doPost(r, "/api/admin/heal/ghost", "secret", `{"amount":10}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- Debug ----

func TestGetEntity_Detail(t *testing.T) {
	r, _ := newRouter(t, "secret")
	id := spawnSoldier(t, r)

	w := doGet(r, "/api/debug/entities/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var detail struct {
		ID    string  `json:"id"`
		Name  string  `json:"name"`
		State string  `json:"state"`
		Yaw   float64 `json:"yaw"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, id, detail.ID)
	assert.Equal(t, "grunt", detail.Name)
	assert.Equal(t, "idle", detail.State)
}

func TestGetEntity_NotFound(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doGet(r, "/api/debug/entities/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlanPath(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doGet(r, "/api/debug/path?from_x=200&from_z=500&to_x=800&to_z=500&radius=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Count     int `json:"count"`
		Waypoints []struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		} `json:"waypoints"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Greater(t, resp.Count, 2, "route must bend around the wall")
}

func TestPlanPath_MissingParams(t *testing.T) {
	r, _ := newRouter(t, "secret")
	w := doGet(r, "/api/debug/path?from_x=1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
