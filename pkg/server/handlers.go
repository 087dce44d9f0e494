package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quangdv/declutter/pkg/vecstore"
)

func (s *Server) healthCheck(c *gin.Context) {
	c.Status(http.StatusOK)
}

// handleQuery runs a similarity search over the store.
func (s *Server) handleQuery(c *gin.Context) {
	var req struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
		Type  string `json:"type"` // "note", "calendar_event", or empty for both
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusOK, gin.H{"results": []vecstore.SearchResult{}})
		return
	}
	if req.Type != "" && req.Type != vecstore.TypeNote && req.Type != vecstore.TypeEvent {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be note or calendar_event"})
		return
	}

	results, err := s.store.Query(c.Request.Context(), req.Query, req.Limit, req.Type)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if results == nil {
		results = []vecstore.SearchResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// handleSummary reports document counts by type and topic.
func (s *Server) handleSummary(c *gin.Context) {
	byType, byTopic, err := s.store.Summary()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	total := 0
	for _, n := range byType {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"total":    total,
		"by_type":  byType,
		"by_topic": byTopic,
	})
}

func (s *Server) handleTopics(c *gin.Context) {
	topics, err := s.store.Topics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if topics == nil {
		topics = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}
