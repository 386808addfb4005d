// Package summarize is the viewer-side client for the summarizer service.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Options bounds the transcript to a date/time range. Empty fields mean
// "all dates"; times default to the whole day on the server.
type Options struct {
	StartDate string // YYYY-MM-DD
	StartTime string // HH:MM
	EndDate   string // YYYY-MM-DD
	EndTime   string // HH:MM
}

// Result is a successful summarization.
type Result struct {
	Success       bool   `json:"success"`
	Summary       string `json:"summary"`
	MessagesCount int    `json:"messages_count"`
	DateRange     string `json:"date_range"`
}

// Guide is the chat-export walkthrough served by the service.
type Guide struct {
	Title string `json:"title"`
	Steps []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"steps"`
}

// Client calls the summarizer service API.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client with a timeout generous enough for the model
// call behind the summarize endpoint.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// Summarize uploads the export at path and returns the model's summary.
func (c *Client) Summarize(ctx context.Context, path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	fields := map[string]string{
		"startDate": opts.StartDate,
		"startTime": opts.StartTime,
		"endDate":   opts.EndDate,
		"endTime":   opts.EndTime,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, fmt.Errorf("building upload: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/summarize", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("summarize request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading summarize response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("summarizer: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("summarizer returned status %d", resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decoding summarize response: %w", err)
	}
	return &result, nil
}

// Guide fetches the chat-export walkthrough.
func (c *Client) Guide(ctx context.Context) (*Guide, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/guide", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guide request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guide returned status %d", resp.StatusCode)
	}

	var g Guide
	if err := json.NewDecoder(resp.Body).Decode(&g); err != nil {
		return nil, fmt.Errorf("decoding guide: %w", err)
	}
	return &g, nil
}
