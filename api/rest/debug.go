package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soratane/unitmind/game/ai"
	"github.com/soratane/unitmind/game/world"
)

// DebugHandler exposes read-only views of a running arena.
type DebugHandler struct {
	arena  *world.Arena
	logger *zap.Logger
}

// NewDebugHandler creates a DebugHandler.
func NewDebugHandler(arena *world.Arena, logger *zap.Logger) *DebugHandler {
	return &DebugHandler{arena: arena, logger: logger}
}

// ListEntities returns every entity's id, behavior, state and health.
// GET /api/debug/entities
func (h *DebugHandler) ListEntities(c *gin.Context) {
	var info []ai.EntityDebug
	if !h.arena.Do(func(m *ai.Manager) { info = m.DebugInfo() }) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "arena stopped"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"arena": h.arena.Name(), "entities": info, "count": len(info)})
}

type entityDetail struct {
	ai.EntityDebug
	Velocity ai.Vec3 `json:"velocity"`
	Yaw      float64 `json:"yaw"`
	TargetID string  `json:"target_id,omitempty"`
}

// GetEntity returns one entity's full debug view.
// GET /api/debug/entities/:id
func (h *DebugHandler) GetEntity(c *gin.Context) {
	id := c.Param("id")
	var detail *entityDetail
	ok := h.arena.Do(func(m *ai.Manager) {
		e := m.Entity(id)
		if e == nil {
			return
		}
		for _, row := range m.DebugInfo() {
			if row.ID == id {
				detail = &entityDetail{
					EntityDebug: row,
					Velocity:    e.Velocity,
					Yaw:         e.Yaw,
					TargetID:    e.Blackboard.TargetID,
				}
				return
			}
		}
	})
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "arena stopped"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// PlanPath runs the pathfinder across the arena terrain.
// GET /api/debug/path?from_x=&from_z=&to_x=&to_z=&radius=
func (h *DebugHandler) PlanPath(c *gin.Context) {
	parse := func(name string) (float64, bool) {
		v, err := strconv.ParseFloat(c.Query(name), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
			return 0, false
		}
		return v, true
	}
	fromX, ok := parse("from_x")
	if !ok {
		return
	}
	fromZ, ok := parse("from_z")
	if !ok {
		return
	}
	toX, ok := parse("to_x")
	if !ok {
		return
	}
	toZ, ok := parse("to_z")
	if !ok {
		return
	}
	radius, _ := strconv.ParseFloat(c.DefaultQuery("radius", "1"), 64)

	path := h.arena.Path(fromX, fromZ, toX, toZ, radius)
	c.JSON(http.StatusOK, gin.H{"waypoints": path, "count": len(path)})
}
