package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/jimmyhealer/shovel-hero/internal/aggregate"
	auditdomain "github.com/jimmyhealer/shovel-hero/internal/audit/domain"
	demanddomain "github.com/jimmyhealer/shovel-hero/internal/demand/domain"
)

type createDemandRequest struct {
	Type        string                    `json:"type"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	Region      string                    `json:"region"`
	Location    demanddomain.Location     `json:"location"`
	Contact     demanddomain.Contact      `json:"contact"`
	HumanNeed   demanddomain.HumanNeed    `json:"humanNeed"`
	SupplyItems []demanddomain.SupplyItem `json:"supplyItems"`
}

func (s *Server) CreateDemand(c *gin.Context) {
	var req createDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	demand, err := s.demandSvc.Create(c.Request.Context(), demanddomain.CreateDemandRequest{
		Type:        demanddomain.DemandType(strings.TrimSpace(req.Type)),
		Title:       req.Title,
		Description: req.Description,
		Region:      req.Region,
		Location:    req.Location,
		Contact:     req.Contact,
		HumanNeed:   req.HumanNeed,
		SupplyItems: req.SupplyItems,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": demand})
}

func (s *Server) ListDemands(c *gin.Context) {
	var query struct {
		Type   string `form:"type"`
		Region string `form:"region"`
		Limit  int    `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	demands, err := s.demandSvc.ListPublished(c.Request.Context(), demanddomain.PublishedFilter{
		Type:   demanddomain.DemandType(strings.TrimSpace(query.Type)),
		Region: strings.TrimSpace(query.Region),
		Limit:  query.Limit,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": demands})
}

// GetDemand serves one visible demand with its point-in-time fulfillment
// state. Pending demands are indistinguishable from absent ones.
func (s *Server) GetDemand(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	demand, err := s.demandSvc.Get(ctx, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !demand.VisibleNow(s.clock.Now()) {
		AbortWithError(c, ErrNotFound)
		return
	}

	switch demand.Type {
	case demanddomain.TypeHuman:
		count, err := s.statsSvc.CountApplications(ctx, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		applied := int(count)
		demand.AppliedCount = &applied
	case demanddomain.TypeSupply:
		donations, err := s.fulfillmentSvc.ListDonationsByDemand(ctx, id)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		count := len(donations)
		demand.DonationCount = &count
		demand.RemainingSupplyItems = aggregate.RemainingSupplyItems(demand.SupplyItems, donations)
	}

	c.JSON(http.StatusOK, gin.H{"data": demand})
}

func (s *Server) AdminListDemands(c *gin.Context) {
	var query struct {
		Type string `form:"type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	demands, err := s.demandSvc.ListAll(c.Request.Context(), demanddomain.AdminFilter{
		Type: demanddomain.DemandType(strings.TrimSpace(query.Type)),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": demands})
}

type updateDemandRequest struct {
	Title       *string                    `json:"title"`
	Description *string                    `json:"description"`
	Region      *string                    `json:"region"`
	Location    *demanddomain.Location     `json:"location"`
	Contact     *demanddomain.Contact      `json:"contact"`
	HumanNeed   *demanddomain.HumanNeed    `json:"humanNeed"`
	SupplyItems *[]demanddomain.SupplyItem `json:"supplyItems"`
}

func (s *Server) AdminUpdateDemand(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	var req updateDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	demand, err := s.demandSvc.Update(c.Request.Context(), id, demanddomain.UpdateDemandRequest{
		Title:       req.Title,
		Description: req.Description,
		Region:      req.Region,
		Location:    req.Location,
		Contact:     req.Contact,
		HumanNeed:   req.HumanNeed,
		SupplyItems: req.SupplyItems,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.auditSvc.Record(c.Request.Context(), auditdomain.ActorTypeAdmin, s.adminEmail(c),
		"demand.update", "demand", id.String(), nil)
	c.JSON(http.StatusOK, gin.H{"data": demand})
}

func (s *Server) AdminDeleteDemand(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	if err := s.demandSvc.Delete(c.Request.Context(), id, s.adminEmail(c)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) AdminApproveDemand(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	demand, err := s.demandSvc.Approve(c.Request.Context(), id, s.adminEmail(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": demand})
}

type rejectDemandRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) AdminRejectDemand(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	var req rejectDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if err := s.demandSvc.Reject(c.Request.Context(), id, s.adminEmail(c), strings.TrimSpace(req.Reason)); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) pathID(c *gin.Context) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "malformed identifier"))
		return 0, false
	}
	return id, true
}
