package handler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"roomy/internal/model"

	"github.com/gin-gonic/gin"
)

// EmbeddingStore stores dorm description embeddings
type EmbeddingStore interface {
	UpdateDormEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
}

// TextEmbedder embeds a dorm description sent without a vector
type TextEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingHandler loads description vectors used to order dorm listings by
// similarity to a chat message or match query
type EmbeddingHandler struct {
	store      EmbeddingStore
	embedder   TextEmbedder
	dimensions int
}

// NewEmbeddingHandler creates a new embedding handler. embedder may be nil, in
// which case every item must carry its vector.
func NewEmbeddingHandler(store EmbeddingStore, embedder TextEmbedder, dimensions int) *EmbeddingHandler {
	return &EmbeddingHandler{
		store:      store,
		embedder:   embedder,
		dimensions: dimensions,
	}
}

// BatchUpdate handles POST /api/v1/embeddings/batch
func (h *EmbeddingHandler) BatchUpdate(c *gin.Context) {
	var req model.EmbeddingBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := checkEmbeddingBatch(req.Embeddings, h.dimensions, h.embedder != nil); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ready, errs := h.fillVectors(c.Request.Context(), req.Embeddings)
	stored := 0
	if len(ready) > 0 {
		var storeErrs []string
		stored, storeErrs = h.store.UpdateDormEmbeddings(c.Request.Context(), ready)
		errs = append(errs, storeErrs...)
	}

	log.Printf("[DEBUG] Stored %d of %d dorm embeddings", stored, len(req.Embeddings))

	status := http.StatusOK
	if len(errs) > 0 {
		status = http.StatusPartialContent
	}
	c.JSON(status, model.EmbeddingBatchResponse{
		Success: stored,
		Failed:  len(req.Embeddings) - stored,
		Errors:  errs,
	})
}

// fillVectors embeds the text of items sent without a vector. Items the
// embedder rejects are reported and left out.
func (h *EmbeddingHandler) fillVectors(ctx context.Context, items []model.EmbeddingItem) ([]model.EmbeddingItem, []string) {
	ready := make([]model.EmbeddingItem, 0, len(items))
	var errs []string
	for _, item := range items {
		if len(item.Embedding) == 0 {
			vec, err := h.embedder.EmbedQuery(ctx, item.Text)
			if err != nil {
				errs = append(errs, fmt.Sprintf("dorm_id %d: %v", item.DormID, err))
				continue
			}
			if len(vec) != h.dimensions {
				errs = append(errs, fmt.Sprintf("dorm_id %d: model returned %d dimensions", item.DormID, len(vec)))
				continue
			}
			item.Embedding = vec
		}
		ready = append(ready, item)
	}
	return ready, errs
}

// checkEmbeddingBatch rejects batches that cannot be stored as a whole
func checkEmbeddingBatch(items []model.EmbeddingItem, dimensions int, canEmbed bool) error {
	if len(items) == 0 {
		return fmt.Errorf("No embeddings provided")
	}
	seen := make(map[int64]bool, len(items))
	for i, item := range items {
		if item.DormID <= 0 {
			return fmt.Errorf("Invalid dorm_id at index %d", i)
		}
		if seen[item.DormID] {
			return fmt.Errorf("Duplicate dorm_id %d at index %d", item.DormID, i)
		}
		seen[item.DormID] = true

		switch {
		case len(item.Embedding) > 0 && len(item.Embedding) != dimensions:
			return fmt.Errorf("Invalid embedding dimension at index %d, expected %d", i, dimensions)
		case len(item.Embedding) == 0 && strings.TrimSpace(item.Text) == "":
			return fmt.Errorf("Embedding or text required at index %d", i)
		case len(item.Embedding) == 0 && !canEmbed:
			return fmt.Errorf("Embedding required at index %d: no embedding model configured", i)
		}
	}
	return nil
}
