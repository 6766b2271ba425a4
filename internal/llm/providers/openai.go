package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// OpenAIAdapter implements transport.ProviderAdapter for OpenAI GPT models.
// It handles the chat/completions API format including system prompts,
// JSON response mode, and OpenAI-specific error handling.
type OpenAIAdapter struct {
	config configuration.ProviderConfig
}

// NewOpenAIAdapter creates an OpenAI provider adapter with default endpoint.
func NewOpenAIAdapter(cfg configuration.ProviderConfig) *OpenAIAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com/v1"
	}
	return &OpenAIAdapter{config: cfg}
}

// Name returns the provider name.
func (a *OpenAIAdapter) Name() string { return ProviderOpenAI }

// Build constructs an OpenAI chat/completions request from the normalized
// transport request.
func (a *OpenAIAdapter) Build(ctx context.Context, req *transport.Request) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/chat/completions", a.config.Endpoint)

	messages := []map[string]any{}
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]any{
			"role":    "system",
			"content": req.SystemPrompt,
		})
	}
	messages = append(messages, map[string]any{
		"role":    "user",
		"content": req.Prompt,
	})

	body := map[string]any{
		"model":       req.Model,
		"messages":    messages,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
	}
	if req.JSONResponse {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", a.config.APIKey))
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// Parse extracts normalized data from an OpenAI API response.
func (a *OpenAIAdapter) Parse(httpResp *http.Response) (*transport.Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseOpenAIError(httpResp.StatusCode, body)
	}

	var resp struct {
		ID      string `json:"id"`
		Model   string `json:"model"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var content string
	var finishReason transport.FinishReason
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = mapOpenAIFinishReason(resp.Choices[0].FinishReason)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: openai returned no choices", llmerrors.ErrEmptyCompletion)
	}

	var requestIDs []string
	if reqID := httpResp.Header.Get("x-request-id"); reqID != "" {
		requestIDs = append(requestIDs, reqID)
	}

	return &transport.Response{
		Content:            content,
		FinishReason:       finishReason,
		ProviderRequestIDs: requestIDs,
		Usage: transport.NormalizedUsage{
			PromptTokens:     int64(resp.Usage.PromptTokens),
			CompletionTokens: int64(resp.Usage.CompletionTokens),
			TotalTokens:      int64(resp.Usage.TotalTokens),
		},
		Headers: httpResp.Header,
		RawBody: body,
	}, nil
}

func mapOpenAIFinishReason(reason string) transport.FinishReason {
	switch reason {
	case "length":
		return transport.FinishLength
	case "content_filter":
		return transport.FinishContentFilter
	default:
		return transport.FinishStop
	}
}

// parseOpenAIError converts OpenAI error responses to ProviderError.
func parseOpenAIError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &llmerrors.ProviderError{
			Provider:   ProviderOpenAI,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
			Code:       errResp.Error.Code,
			Type:       classifyErrorType(statusCode, errResp.Error.Type),
		}
	}

	return &llmerrors.ProviderError{
		Provider:   ProviderOpenAI,
		StatusCode: statusCode,
		Message:    string(body),
		Type:       classifyErrorType(statusCode, ""),
	}
}
