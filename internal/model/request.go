package model

// MatchRequest asks for a ranked candidate list
type MatchRequest struct {
	UserID       *string     `json:"userId,omitempty"`
	Requester    *Profile    `json:"requester,omitempty"`
	Candidates   []Profile   `json:"candidates,omitempty"`
	CandidateIDs []string    `json:"candidateIds,omitempty"` // stored profiles to rank when no candidates are inline
	Filters      *FilterSpec `json:"filters,omitempty"`
	Limit        int         `json:"limit,omitempty"`
	Query        string      `json:"query,omitempty"` // free text; orders catalog dorms by description similarity
}

// MatchResponse is a ranked candidate list
type MatchResponse struct {
	Results    []ScoredCandidate `json:"results"`
	Considered int               `json:"considered"`
	Variant    string            `json:"variant"`
	Took       int64             `json:"took_ms"` // Response time in milliseconds
}

// EmbeddingBatchRequest represents a batch embedding update request
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem is the description vector of one dorm. Text alone is
// accepted when the server has an embedding model.
type EmbeddingItem struct {
	DormID    int64     `json:"dorm_id" binding:"required"`
	Embedding []float32 `json:"embedding,omitempty"`
	Text      string    `json:"text,omitempty"`
}

// EmbeddingBatchResponse represents the response for batch embedding update
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
