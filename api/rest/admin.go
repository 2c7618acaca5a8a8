package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soratane/unitmind/game/ai"
	"github.com/soratane/unitmind/game/world"
	"github.com/soratane/unitmind/scheduler"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	arena  *world.Arena
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(arena *world.Arena, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{arena: arena, sched: sched, logger: logger}
}

type spawnRequest struct {
	Name     string  `json:"name"`
	UnitType string  `json:"unit_type" binding:"required"`
	Team     string  `json:"team" binding:"required"`
	X        float64 `json:"x"`
	Z        float64 `json:"z"`
	Home     bool    `json:"home"`
}

// Spawn creates one unit from a scenario template at a position.
// POST /api/admin/spawn
func (h *AdminHandler) Spawn(c *gin.Context) {
	var req spawnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl, ok := h.arena.UnitType(req.UnitType)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown unit type"})
		return
	}

	cfg := ai.EntityConfig{
		Name:         req.Name,
		UnitType:     req.UnitType,
		Team:         world.TeamFromString(req.Team),
		Position:     ai.Vec3{X: req.X, Z: req.Z},
		Health:       tpl.Health,
		AttackPower:  tpl.AttackPower,
		AttackRange:  tpl.AttackRange,
		Speed:        tpl.Speed,
		FleeDistance: tpl.FleeDistance,
	}
	if req.Home {
		home := cfg.Position
		cfg.Home = &home
	}

	var id string
	if !h.arena.Do(func(m *ai.Manager) { id = m.CreateEntity(cfg).ID }) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "arena stopped"})
		return
	}
	h.logger.Info("admin spawned unit",
		zap.String("id", id), zap.String("unit_type", req.UnitType))
	c.JSON(http.StatusOK, gin.H{"id": id})
}

type amountRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// Damage applies damage to an entity.
// POST /api/admin/damage/:id
func (h *AdminHandler) Damage(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	var known, died bool
	h.arena.Do(func(m *ai.Manager) {
		known = m.Entity(id) != nil
		if known {
			died = m.DamageEntity(id, req.Amount, "")
		}
	})
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "died": died})
}

// Heal restores an entity's health up to its maximum.
// POST /api/admin/heal/:id
func (h *AdminHandler) Heal(c *gin.Context) {
	var req amountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")
	var healed bool
	h.arena.Do(func(m *ai.Manager) { healed = m.HealEntity(id, req.Amount) })
	if !healed {
		c.JSON(http.StatusNotFound, gin.H{"error": "entity not found or dead"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListSchedulerTasks returns names of all registered ticker tasks.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}

// AdminAuth returns a middleware that checks the X-Admin-Key header.
// WARNING: if adminKey is empty all admin endpoints are disabled (503) so the
// server cannot be accidentally deployed without protection. Set a non-empty
// server.admin_key in config to enable admin routes.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if key != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
