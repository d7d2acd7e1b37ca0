package server

import (
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
	"github.com/jimmyhealer/shovel-hero/internal/live"
)

// LiveDemands streams the live demand view over SSE. Every connection owns
// one orchestrator; closing the connection tears its watchers down.
func (s *Server) LiveDemands(c *gin.Context) {
	filter := live.Filter{
		Type:   demanddomain.DemandType(strings.TrimSpace(c.Query("type"))),
		Region: strings.TrimSpace(c.Query("region")),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		AbortWithError(c, newValidationError("type", "invalid_type", "unknown demand type"))
		return
	}

	// The callback runs on the orchestrator loop, so it must never block.
	// When the consumer lags, stale snapshots are dropped; each snapshot
	// carries the full state.
	snapshots := make(chan live.Snapshot, 16)
	orch := s.liveFactory.New(func(snapshot live.Snapshot) {
		for {
			select {
			case snapshots <- snapshot:
				return
			default:
			}
			select {
			case <-snapshots:
			default:
			}
		}
	})

	if err := orch.Start(filter); err != nil {
		AbortWithError(c, err)
		return
	}
	defer orch.Stop()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	c.Stream(func(io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case snapshot := <-snapshots:
			payload := gin.H{"demands": snapshot.Demands}
			if snapshot.Err != nil {
				payload["error"] = snapshot.Err.Error()
			}
			c.SSEvent("snapshot", payload)
			return true
		}
	})
}
