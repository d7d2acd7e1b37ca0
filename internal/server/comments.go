package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	commentdomain "github.com/jimmyhealer/shovel-hero/internal/comment/domain"
)

type createCommentRequest struct {
	DemandID   string `json:"demandId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
}

func (s *Server) CreateComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	demandID, ok := s.bodyID(c, req.DemandID)
	if !ok {
		return
	}

	comment, err := s.commentSvc.Create(c.Request.Context(), commentdomain.CreateRequest{
		DemandID:   demandID,
		AuthorName: req.AuthorName,
		Content:    req.Content,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": comment})
}

func (s *Server) ListComments(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	comments, err := s.commentSvc.ListByDemand(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": comments})
}

func (s *Server) AdminRemoveComment(c *gin.Context) {
	id, ok := s.pathID(c)
	if !ok {
		return
	}
	actor := strings.TrimSpace(s.adminEmail(c))
	if err := s.commentSvc.Remove(c.Request.Context(), id, actor); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
