package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	fulfillmentdomain "github.com/jimmyhealer/shovel-hero/internal/fulfillment/domain"
)

type createApplicationRequest struct {
	DemandID      string                     `json:"demandId"`
	Applicant     fulfillmentdomain.Applicant `json:"applicant"`
	AvailableTime string                     `json:"availableTime"`
	Skills        []string                   `json:"skills"`
	Tools         []string                   `json:"tools"`
	Note          string                     `json:"note"`
}

func (s *Server) CreateVolunteerApplication(c *gin.Context) {
	var req createApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	demandID, ok := s.bodyID(c, req.DemandID)
	if !ok {
		return
	}

	application, err := s.fulfillmentSvc.CreateApplication(c.Request.Context(), fulfillmentdomain.CreateApplicationRequest{
		DemandID:      demandID,
		Applicant:     req.Applicant,
		AvailableTime: req.AvailableTime,
		Skills:        req.Skills,
		Tools:         req.Tools,
		Note:          req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": application})
}

type createDonationRequest struct {
	DemandID string                  `json:"demandId"`
	Donor    fulfillmentdomain.Donor `json:"donor"`
	ItemName string                  `json:"itemName"`
	Quantity float64                 `json:"quantity"`
	Unit     string                  `json:"unit"`
	ETA      string                  `json:"eta"`
	Note     string                  `json:"note"`
}

func (s *Server) CreateDonation(c *gin.Context) {
	var req createDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	demandID, ok := s.bodyID(c, req.DemandID)
	if !ok {
		return
	}

	donation, err := s.fulfillmentSvc.CreateDonation(c.Request.Context(), fulfillmentdomain.CreateDonationRequest{
		DemandID: demandID,
		Donor:    req.Donor,
		ItemName: req.ItemName,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		ETA:      req.ETA,
		Note:     req.Note,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": donation})
}

func (s *Server) AdminListApplications(c *gin.Context) {
	demandID, ok := s.optionalDemandID(c)
	if !ok {
		return
	}
	applications, err := s.fulfillmentSvc.ListAllApplications(c.Request.Context(), demandID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": applications})
}

func (s *Server) AdminListDonations(c *gin.Context) {
	demandID, ok := s.optionalDemandID(c)
	if !ok {
		return
	}
	donations, err := s.fulfillmentSvc.ListAllDonations(c.Request.Context(), demandID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": donations})
}

func (s *Server) bodyID(c *gin.Context, raw string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("demandId", "invalid_demand", "malformed demand identifier"))
		return 0, false
	}
	return id, true
}

func (s *Server) optionalDemandID(c *gin.Context) (snowflake.ID, bool) {
	raw := strings.TrimSpace(c.Query("demand_id"))
	if raw == "" {
		return 0, true
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("demand_id", "invalid_demand", "malformed demand identifier"))
		return 0, false
	}
	return id, true
}
