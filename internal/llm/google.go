package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const googleAPIBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// GoogleProvider talks to the Gemini generateContent API over plain HTTP.
type GoogleProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGoogleProvider creates a Gemini provider with the default endpoint.
func NewGoogleProvider(apiKey, model string) *GoogleProvider {
	return &GoogleProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: googleAPIBaseURL,
		client:  &http.Client{},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *geminiError      `json:"error,omitempty"`
}

type geminiCandidate struct {
	Content      *geminiContent `json:"content"`
	FinishReason string         `json:"finishReason"`
}

type geminiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

func (p *GoogleProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.model
	}

	var systemParts []geminiPart
	var contents []geminiContent
	for _, msg := range req.Messages {
		switch msg.Role {
		case RoleSystem:
			systemParts = append(systemParts, geminiPart{Text: msg.Content})
		case RoleUser:
			contents = append(contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}
	if len(contents) == 0 {
		contents = append(contents, geminiContent{
			Role:  "user",
			Parts: []geminiPart{{Text: ""}},
		})
	}

	apiReq := geminiRequest{
		Contents: contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature: req.Temperature,
		},
	}
	if len(systemParts) > 0 {
		apiReq.SystemInstruction = &geminiContent{Parts: systemParts}
	}
	if req.MaxTokens > 0 {
		apiReq.GenerationConfig.MaxOutputTokens = req.MaxTokens
	}

	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshalling gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gemini response: %w", err)
	}

	var apiResp geminiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("unmarshalling gemini response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("gemini API error (%s): %s", apiResp.Error.Status, apiResp.Error.Message)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini returned status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var content string
	var finishReason string
	if len(apiResp.Candidates) > 0 {
		finishReason = apiResp.Candidates[0].FinishReason
		if apiResp.Candidates[0].Content != nil {
			for _, part := range apiResp.Candidates[0].Content.Parts {
				content += part.Text
			}
		}
	}

	return &CompletionResponse{
		Content:      content,
		Model:        model,
		FinishReason: finishReason,
	}, nil
}
