package handler

import (
	"net/http"
	"strings"

	"roomy/internal/model"
	"roomy/internal/service"

	"github.com/gin-gonic/gin"
)

// MemoryHandler exposes a user's long-term chat preferences
type MemoryHandler struct {
	chatService *service.ChatService
	auditor     *Auditor
}

// NewMemoryHandler creates a new memory handler
func NewMemoryHandler(chatService *service.ChatService, auditor *Auditor) *MemoryHandler {
	return &MemoryHandler{
		chatService: chatService,
		auditor:     auditor,
	}
}

// Get handles GET /api/v1/users/:id/memory
func (h *MemoryHandler) Get(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	prefs, err := h.chatService.Memory(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.auditor, err)
		return
	}
	if prefs == nil {
		prefs = &model.Preferences{UserID: userID}
	}

	c.JSON(http.StatusOK, prefs)
}

// Delete handles DELETE /api/v1/users/:id/memory
func (h *MemoryHandler) Delete(c *gin.Context) {
	userID := strings.TrimSpace(c.Param("id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.chatService.ForgetUser(c.Request.Context(), userID); err != nil {
		writeError(c, h.auditor, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"memoryReset": true, "response": service.MemoryResetReply})
}
