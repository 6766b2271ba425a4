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

// GeminiAdapter implements transport.ProviderAdapter for Google Gemini
// models via the generateContent API with API key authentication.
type GeminiAdapter struct {
	config configuration.ProviderConfig
}

// NewGeminiAdapter creates a Gemini provider adapter with default endpoint.
func NewGeminiAdapter(cfg configuration.ProviderConfig) *GeminiAdapter {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://generativelanguage.googleapis.com/v1beta"
	}
	return &GeminiAdapter{config: cfg}
}

// Name returns the provider name.
func (a *GeminiAdapter) Name() string { return ProviderGemini }

// Build constructs a generateContent request from the normalized transport
// request. System instructions and JSON response mode map to Gemini's
// systemInstruction and responseMimeType fields.
func (a *GeminiAdapter) Build(ctx context.Context, req *transport.Request) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		a.config.Endpoint, req.Model, a.config.APIKey)

	generationConfig := map[string]any{
		"temperature":     req.Temperature,
		"maxOutputTokens": req.MaxTokens,
	}
	if req.JSONResponse {
		generationConfig["responseMimeType"] = "application/json"
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": req.Prompt}}},
		},
		"generationConfig": generationConfig,
	}
	if req.SystemPrompt != "" {
		body["systemInstruction"] = map[string]any{
			"parts": []map[string]any{{"text": req.SystemPrompt}},
		}
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
	for k, v := range a.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

// Parse extracts normalized data from a Gemini generateContent response.
func (a *GeminiAdapter) Parse(httpResp *http.Response) (*transport.Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseGeminiError(httpResp.StatusCode, body)
	}

	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	var content string
	var finishReason transport.FinishReason = transport.FinishStop
	if len(resp.Candidates) > 0 {
		for _, part := range resp.Candidates[0].Content.Parts {
			content += part.Text
		}
		finishReason = mapGeminiFinishReason(resp.Candidates[0].FinishReason)
	}
	if content == "" {
		return nil, fmt.Errorf("%w: gemini returned no candidates", llmerrors.ErrEmptyCompletion)
	}

	return &transport.Response{
		Content:      content,
		FinishReason: finishReason,
		Usage: transport.NormalizedUsage{
			PromptTokens:     int64(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int64(resp.UsageMetadata.TotalTokenCount),
		},
		Headers: httpResp.Header,
		RawBody: body,
	}, nil
}

func mapGeminiFinishReason(reason string) transport.FinishReason {
	switch reason {
	case "MAX_TOKENS":
		return transport.FinishLength
	case "SAFETY", "RECITATION":
		return transport.FinishContentFilter
	default:
		return transport.FinishStop
	}
}

// parseGeminiError converts Gemini error responses to ProviderError.
func parseGeminiError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &llmerrors.ProviderError{
			Provider:   ProviderGemini,
			StatusCode: statusCode,
			Message:    errResp.Error.Message,
			Code:       errResp.Error.Status,
			Type:       classifyErrorType(statusCode, errResp.Error.Status),
		}
	}

	return &llmerrors.ProviderError{
		Provider:   ProviderGemini,
		StatusCode: statusCode,
		Message:    string(body),
		Type:       classifyErrorType(statusCode, ""),
	}
}
