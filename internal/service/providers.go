package service

import (
	"encoding/json"
	"log"
	"strings"
)

// StreamChunkParser is the interface for provider-specific chunk parsing
type StreamChunkParser interface {
	ParseChunk(data []byte) (*StreamChunk, error)
}

const nvidiaAPIBase = "https://integrate.api.nvidia.com/v1"

// streamDelta is the shared shape of an SSE chunk. reasoning_content is only
// sent by NVIDIA-hosted DeepSeek models.
type streamDelta struct {
	Choices []struct {
		Delta struct {
			Role             string  `json:"role,omitempty"`
			Content          string  `json:"content,omitempty"`
			ReasoningContent *string `json:"reasoning_content,omitempty"`
		} `json:"delta"`
		FinishReason string `json:"finish_reason,omitempty"`
	} `json:"choices"`
}

func decodeStreamDelta(data []byte, keepReasoning bool) (*StreamChunk, error) {
	var raw streamDelta
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	chunk := &StreamChunk{}
	if len(raw.Choices) > 0 {
		c := raw.Choices[0]
		chunk.Role = c.Delta.Role
		chunk.Content = c.Delta.Content
		if keepReasoning && c.Delta.ReasoningContent != nil {
			chunk.ThinkingContent = *c.Delta.ReasoningContent
		}
		chunk.Done = c.FinishReason != ""
	}
	return chunk, nil
}

// OpenAIStreamChunkParser parses standard OpenAI-format streaming chunks
type OpenAIStreamChunkParser struct{}

// ParseChunk converts a standard OpenAI chunk to a generic StreamChunk
func (p *OpenAIStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return decodeStreamDelta(data, false)
}

// NVIDIAStreamChunkParser keeps the reasoning stream of NVIDIA-hosted models
type NVIDIAStreamChunkParser struct{}

// ParseChunk converts an NVIDIA/DeepSeek chunk to a generic StreamChunk
func (p *NVIDIAStreamChunkParser) ParseChunk(data []byte) (*StreamChunk, error) {
	return decodeStreamDelta(data, true)
}

// IsNVIDIAProvider checks if the base URL is NVIDIA API
func IsNVIDIAProvider(baseURL string) bool {
	return strings.TrimRight(baseURL, "/") == nvidiaAPIBase
}

// IsOpenAIProvider checks if the base URL is official OpenAI API
func IsOpenAIProvider(baseURL string) bool {
	return strings.Contains(baseURL, "api.openai.com")
}

// chunkParserFor picks the parser matching the provider behind baseURL.
// Unknown providers are assumed to speak the OpenAI format.
func chunkParserFor(baseURL string) StreamChunkParser {
	switch {
	case IsNVIDIAProvider(baseURL):
		log.Printf("🔧 Detected NVIDIA API provider (supports reasoning/thinking)")
		return &NVIDIAStreamChunkParser{}
	case IsOpenAIProvider(baseURL):
		log.Printf("🔧 Detected OpenAI API provider")
		return &OpenAIStreamChunkParser{}
	default:
		log.Printf("🔧 Using standard OpenAI format for: %s", baseURL)
		return &OpenAIStreamChunkParser{}
	}
}
