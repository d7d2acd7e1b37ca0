package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup deletes data seeded by end-to-end tests, matched by a region
// prefix. Disabled in production.
func (s *Server) TestCleanup(c *gin.Context) {
	if s.cfg.IsProduction() {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix", "required", "prefix is required"))
		return
	}

	ctx := c.Request.Context()
	demandIDs, err := s.loadDemandIDsByRegionPrefix(ctx, prefix)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.deleteDemandData(ctx, demandIDs); err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).
		Exec(`DELETE FROM notifications WHERE to_email LIKE ?`, prefix+"%").Error; err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) loadDemandIDsByRegionPrefix(ctx context.Context, prefix string) ([]int64, error) {
	like := strings.TrimSpace(prefix) + "%"
	var demandIDs []int64
	if err := s.db.WithContext(ctx).
		Table("demands").
		Select("id").
		Where("region LIKE ?", like).
		Scan(&demandIDs).Error; err != nil {
		return nil, err
	}
	return demandIDs, nil
}

func (s *Server) deleteDemandData(ctx context.Context, demandIDs []int64) error {
	if len(demandIDs) == 0 {
		return nil
	}
	queries := []string{
		`DELETE FROM volunteer_applications WHERE demand_id IN ?`,
		`DELETE FROM donations WHERE demand_id IN ?`,
		`DELETE FROM comments WHERE demand_id IN ?`,
		`DELETE FROM demands WHERE id IN ?`,
	}
	for _, query := range queries {
		if err := s.db.WithContext(ctx).Exec(query, demandIDs).Error; err != nil {
			return err
		}
	}
	return nil
}
