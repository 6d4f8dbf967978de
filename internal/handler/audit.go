package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime/debug"

	"roomy/internal/model"
	"roomy/internal/service"

	"github.com/gin-gonic/gin"
)

// maxStackBytes bounds the stack trace kept per audit entry
const maxStackBytes = 2000

// AuditLogger records unexpected failures
type AuditLogger interface {
	LogSecurityEvent(ctx context.Context, event model.AuditEvent) error
}

// Auditor writes audit entries to the process log and, when configured,
// to an AuditLogger.
type Auditor struct {
	sink AuditLogger
}

// NewAuditor creates a new auditor. sink may be nil.
func NewAuditor(sink AuditLogger) *Auditor {
	return &Auditor{sink: sink}
}

// Record writes one audit entry for the request in c
func (a *Auditor) Record(c *gin.Context, event string, err error) {
	stack := debug.Stack()
	if len(stack) > maxStackBytes {
		stack = stack[:maxStackBytes]
	}

	entry := model.AuditEvent{
		Event:     event,
		Detail:    err.Error(),
		Stack:     string(stack),
		RequestID: c.GetString(requestIDKey),
		Path:      c.Request.URL.Path,
	}
	log.Printf("❌ [%s] %s %s: %v", entry.RequestID, event, entry.Path, err)

	if a == nil || a.sink == nil {
		return
	}
	// The request context may already be cancelled.
	if err := a.sink.LogSecurityEvent(context.WithoutCancel(c.Request.Context()), entry); err != nil {
		log.Printf("Warning: Audit sink failed: %v", err)
	}
}

// writeError maps a service error onto an HTTP status and body. Internal
// details never reach the client.
func writeError(c *gin.Context, auditor *Auditor, err error) {
	status, message := classifyError(err)
	if status == http.StatusInternalServerError {
		var upstream *service.UpstreamError
		if errors.As(err, &upstream) {
			log.Printf("Warning: Completion API failed with status %d", upstream.StatusCode)
		} else {
			auditor.Record(c, "unexpected_error", err)
		}
	}
	c.JSON(status, gin.H{"error": message})
}

func classifyError(err error) (int, string) {
	var upstream *service.UpstreamError
	switch {
	case service.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrProfileNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrNoCandidateSource):
		return http.StatusBadRequest, "candidates are required"
	case errors.As(err, &upstream) && upstream.StatusCode == http.StatusTooManyRequests:
		return http.StatusTooManyRequests, "Rate limit exceeded, please try again later."
	case errors.As(err, &upstream) && upstream.StatusCode == http.StatusPaymentRequired:
		return http.StatusPaymentRequired, "AI service credits exhausted, please contact support."
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
