// Package llm talks to an OpenAI-compatible chat-completions endpoint with
// tool calling, fronted by the GitHub Copilot proxy. The upstream only
// supports streaming responses, so the client always requests SSE and folds
// the deltas back into a single completion.
package llm

import "encoding/json"

// Message is one chat message on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Tool declares a callable function to the model.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction carries the function name and its JSON-schema parameters.
type ToolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolCall is a fully accumulated function invocation from the model.
// Arguments is the raw JSON argument document as emitted.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ChatRequest is the input to Complete.
type ChatRequest struct {
	Messages    []Message
	Tools       []Tool
	Temperature float64
	MaxTokens   int
}

// Completion is the folded result of a streamed chat response.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// wireRequest is the JSON body sent upstream.
type wireRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
	Stream      bool      `json:"stream"`
	TopP        float64   `json:"top_p"`
	N           int       `json:"n"`
	Tools       []Tool    `json:"tools,omitempty"`
	ToolChoice  string    `json:"tool_choice,omitempty"`
}

// Streamed chunk shapes. Tool-call deltas arrive fragmented; the index field
// says which call a fragment belongs to.
type chunk struct {
	Choices []chunkChoice `json:"choices"`
}

type chunkChoice struct {
	Delta        chunkDelta `json:"delta"`
	FinishReason *string    `json:"finish_reason"`
}

type chunkDelta struct {
	Content   string           `json:"content"`
	ToolCalls []chunkToolDelta `json:"tool_calls"`
}

type chunkToolDelta struct {
	Index    int    `json:"index"`
	ID       string `json:"id"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}
