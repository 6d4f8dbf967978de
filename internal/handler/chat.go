package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"roomy/internal/model"
	"roomy/internal/service"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles chat HTTP requests
type ChatHandler struct {
	chatService *service.ChatService
	auditor     *Auditor
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chatService *service.ChatService, auditor *Auditor) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		auditor:     auditor,
	}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.chatService.HandleTurn(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.auditor, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// ChatStream handles POST /api/v1/chat/stream - SSE streaming chat
func (h *ChatHandler) ChatStream(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Reject bad input before the stream starts so it gets a plain status.
	if _, err := h.chatService.Validate(req); err != nil {
		writeError(c, h.auditor, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	sendSSE(c, "start", map[string]any{"status": "thinking"})
	flusher.Flush()

	response, err := h.chatService.StreamTurn(c.Request.Context(), req, func(delta string) error {
		sendSSE(c, "delta", map[string]any{"content": delta})
		flusher.Flush()
		return c.Request.Context().Err()
	})

	if err != nil {
		status, message := classifyError(err)
		if status == http.StatusInternalServerError {
			h.auditor.Record(c, "stream_error", err)
		}
		sendSSE(c, "error", map[string]any{"error": message, "status": status})
		flusher.Flush()
		return
	}

	sendSSE(c, "done", response)
	flusher.Flush()
}

// sendSSE sends a Server-Sent Event
func sendSSE(c *gin.Context, event string, data any) {
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			fmt.Fprintf(c.Writer, "event: error\ndata: {\"error\": \"JSON marshal failed\"}\n\n")
			return
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(jsonData))
	} else {
		fmt.Fprintf(c.Writer, "event: %s\ndata: {}\n\n", event)
	}
}
