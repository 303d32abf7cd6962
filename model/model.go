// Package model defines the normalized request/response surface the workflow
// uses to drive generation, decoupling orchestration from provider SDKs.
package model

import (
	"context"

	"github.com/hupe1980/careline/chat"
)

// ToolDefinition declaratively exposes a callable capability to the model.
// Parameters is a minimal JSON Schema object.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input for one generation.
type Request struct {
	Instructions string           `json:"instructions"`
	Contents     []chat.Content   `json:"contents"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the completed assistant turn produced by a model.
type Response struct {
	Content      chat.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface the workflow requires to drive generation.
// Generate blocks until a complete assistant turn (text and/or tool calls)
// is available; callers bound it via ctx.
type Model interface {
	Generate(ctx context.Context, req Request) (Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Label formats the provider/name pair used as the observability label for a
// stage, e.g. "openai/gpt-4o-mini".
func (i Info) Label() string { return i.Provider + "/" + i.Name }
