package sse

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soratane/unitmind/game/world"
	"github.com/soratane/unitmind/pubsub"
)

const keepaliveInterval = 30 * time.Second

// Handler streams arena snapshots to clients over server-sent events.
type Handler struct {
	bus    *pubsub.Bus
	logger *zap.Logger
}

// NewHandler creates a new SSE Handler.
func NewHandler(bus *pubsub.Bus, logger *zap.Logger) *Handler {
	return &Handler{bus: bus, logger: logger}
}

// ServeSSE handles GET /sse. Every arena snapshot published on the
// bus is forwarded as a "snapshot" event; keepalive comments stop
// proxies from timing the stream out between snapshots.
func (h *Handler) ServeSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	subCtx, subCancel := context.WithCancel(c.Request.Context())
	defer subCancel()

	msgCh, unsub, err := h.bus.Subscribe(subCtx, world.SnapshotTopic)
	if err != nil {
		h.logger.Error("sse subscribe failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	defer unsub()

	fmt.Fprintf(c.Writer, "event: connected\ndata: {}\n\n")
	c.Writer.Flush()

	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-msgCh:
			if !ok {
				return
			}
			fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", msg.Payload)
			c.Writer.Flush()

		case <-ticker.C:
			fmt.Fprintf(c.Writer, ": keepalive\n\n")
			c.Writer.Flush()

		case <-c.Request.Context().Done():
			return
		}
	}
}
