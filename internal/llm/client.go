package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/swunglabs/swung/internal/logger"
	"github.com/swunglabs/swung/internal/model"
)

// Editor identity headers the upstream proxy requires.
const (
	editorVersion       = "vscode/1.85.0"
	editorPluginVersion = "copilot-chat/0.12.0"
	userAgent           = "GithubCopilot/1.0"
)

// CredentialSource supplies a live upstream credential per request.
type CredentialSource interface {
	Credential() (*Credential, error)
}

// Client issues chat-completion requests. The upstream only answers in SSE,
// so every call streams and folds the result.
type Client struct {
	http    *resty.Client
	creds   CredentialSource
	baseURL string
	model   string
	log     zerolog.Logger
}

// NewClient builds a Client against baseURL using the given model name.
func NewClient(baseURL, modelName string, timeout time.Duration, creds CredentialSource) *Client {
	httpc := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent)
	return &Client{
		http:    httpc,
		creds:   creds,
		baseURL: baseURL,
		model:   modelName,
		log:     logger.New("llm"),
	}
}

// Complete sends the request and returns the folded completion.
//
// Returns model.ErrNotAuthenticated when no usable credential exists and
// model.ErrUpstream on transport or HTTP-level failures.
func (c *Client) Complete(ctx context.Context, req ChatRequest) (*Completion, error) {
	cred, err := c.creds.Credential()
	if err != nil {
		return nil, err
	}

	body := wireRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      true,
		TopP:        1,
		N:           1,
	}
	if len(req.Tools) > 0 {
		body.Tools = req.Tools
		body.ToolChoice = "auto"
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", "Bearer "+cred.Raw).
		SetHeader("Editor-Version", editorVersion).
		SetHeader("Editor-Plugin-Version", editorPluginVersion).
		SetHeader("Openai-Organization", "github-copilot").
		SetHeader("Copilot-Integration-Id", "vscode-chat").
		SetHeader("X-Request-Id", uuid.New().String()).
		SetBody(body).
		SetDoNotParseResponse(true).
		Post(c.baseURL + "/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrUpstream, err)
	}
	raw := resp.RawBody()
	defer func() { _ = raw.Close() }()

	if resp.IsError() {
		c.log.Warn().Int("status", resp.StatusCode()).Msg("chat completion failed")
		return nil, fmt.Errorf("%w: status %d", model.ErrUpstream, resp.StatusCode())
	}

	out, err := accumulate(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: read stream: %v", model.ErrUpstream, err)
	}
	return out, nil
}
