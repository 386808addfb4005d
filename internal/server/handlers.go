package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/areeb-coder/whatsapp-summarizer/internal/chat"
	"github.com/areeb-coder/whatsapp-summarizer/internal/llm"
)

const maxUploadBytes = 32 << 20

const summarizePrompt = `You are a WhatsApp chat summarizer.

Summarize the following chat conversation clearly and concisely.
Focus on:
- Main topics and themes
- Key decisions or events
- Any recurring patterns or tone

Keep the summary in 3-5 short paragraphs.

Chat content:
%s`

type summarizeResponse struct {
	Success       bool   `json:"success"`
	Summary       string `json:"summary"`
	MessagesCount int    `json:"messages_count"`
	DateRange     string `json:"date_range"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	upload, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer upload.Close()
	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	content, err := chat.ReadExport(header.Filename, upload)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusBadRequest, "No chat content found")
		return
	}

	startDate := r.FormValue("startDate")
	startTime := r.FormValue("startTime")
	endDate := r.FormValue("endDate")
	endTime := r.FormValue("endTime")

	messages, err := chat.Parse(strings.NewReader(content))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// An unparseable transcript is summarized as raw text with count 0.
	filteredText := content
	count := 0
	if len(messages) > 0 {
		if from, to, ok := parseRange(startDate, startTime, endDate, endTime); ok {
			// An empty filter result falls back to the full transcript.
			if filtered := chat.FilterByRange(messages, from, to); len(filtered) > 0 {
				messages = filtered
			}
		}
		filteredText = chat.JoinText(messages)
		count = len(messages)
	}

	resp, err := s.provider.Complete(r.Context(), llm.CompletionRequest{
		Model: s.cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: fmt.Sprintf(summarizePrompt, filteredText)},
		},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		// 429 only after the fallback key was tried and failed too; a quota
		// error with no fallback configured is a plain server error.
		if errors.Is(err, llm.ErrKeysExhausted) {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	summary := strings.TrimSpace(resp.Content)
	if summary == "" {
		writeError(w, http.StatusInternalServerError, "Model returned empty response")
		return
	}

	dateRange := "All dates"
	if startDate != "" && endDate != "" {
		dateRange = fmt.Sprintf("%s to %s", startDate, endDate)
	}

	writeJSON(w, http.StatusOK, summarizeResponse{
		Success:       true,
		Summary:       summary,
		MessagesCount: count,
		DateRange:     dateRange,
	})
}

// parseRange interprets the form's date/time fields. Times default to the
// whole day; a missing or malformed range disables filtering.
func parseRange(startDate, startTime, endDate, endTime string) (from, to time.Time, ok bool) {
	if startDate == "" || endDate == "" {
		return time.Time{}, time.Time{}, false
	}
	if startTime == "" {
		startTime = "00:00"
	}
	if endTime == "" {
		endTime = "23:59"
	}
	from, err := time.Parse("2006-01-02 15:04", startDate+" "+startTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	to, err = time.Parse("2006-01-02 15:04", endDate+" "+endTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

type guideStep struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type guide struct {
	Title string      `json:"title"`
	Steps []guideStep `json:"steps"`
}

var exportGuide = guide{
	Title: "How to Export Your WhatsApp Chat",
	Steps: []guideStep{
		{1, "Open WhatsApp", "Launch WhatsApp on your device (Android, iPhone, or Web)."},
		{2, "Select the Chat", "Open the chat or group you want to export and summarize."},
		{3, "Open More Options", "Tap the three dots in the top-right corner."},
		{4, "Tap Export chat", "Go to More > Export chat."},
		{5, "Choose Format", "Select Without media (recommended) or With media. A .txt or .zip file will be generated."},
		{6, "Save or Share", "Save the exported file to your device or send it to yourself."},
		{7, "Open the File", "Open the exported .txt or .zip file in this app."},
		{8, "Set Date Range (Optional)", "Optionally choose a from and to date to focus on a specific period."},
	},
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, exportGuide)
}
