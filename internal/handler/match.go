package handler

import (
	"net/http"

	"roomy/internal/model"
	"roomy/internal/service"

	"github.com/gin-gonic/gin"
)

// MatchHandler handles ranking HTTP requests
type MatchHandler struct {
	matchService *service.MatchService
	auditor      *Auditor
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matchService *service.MatchService, auditor *Auditor) *MatchHandler {
	return &MatchHandler{
		matchService: matchService,
		auditor:      auditor,
	}
}

// Roommates handles POST /api/v1/matches/roommates
func (h *MatchHandler) Roommates(c *gin.Context) {
	req, ok := bindMatchRequest(c)
	if !ok {
		return
	}

	response, err := h.matchService.RankRoommates(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.auditor, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Dorms handles POST /api/v1/matches/dorms
func (h *MatchHandler) Dorms(c *gin.Context) {
	req, ok := bindMatchRequest(c)
	if !ok {
		return
	}

	response, err := h.matchService.RankDorms(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.auditor, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func bindMatchRequest(c *gin.Context) (*model.MatchRequest, bool) {
	var req model.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return nil, false
	}
	if req.Limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must not be negative"})
		return nil, false
	}
	return &req, true
}
