package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/srikolla28/trackfina/internal/core"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.5-flash"
	defaultTimeout = 10 * time.Second
)

// Client calls the Generative Language REST API. The response text is only
// accepted when it exactly matches one of the fixed category labels.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		model:   defaultModel,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// SuggestCategory implements Suggester.
func (c *Client) SuggestCategory(ctx context.Context, itemName string) (core.Category, error) {
	if c.apiKey == "" {
		return "", ErrNoSuggestion
	}
	if strings.TrimSpace(itemName) == "" {
		return "", ErrNoSuggestion
	}

	labels := make([]string, 0, len(core.Categories()))
	for _, cat := range core.Categories() {
		labels = append(labels, string(cat))
	}
	prompt := fmt.Sprintf(
		"Given the item name %q, suggest the single most likely expense category. "+
			"Choose from the following options: %s. "+
			"Respond with ONLY the category name and nothing else.",
		itemName, strings.Join(labels, ", "))

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call suggestion service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("suggestion service returned %d", resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoSuggestion
	}

	answer := strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text)
	cat, err := core.ParseCategory(answer)
	if err != nil {
		slog.DebugContext(ctx, "Suggestion did not match a known category", "answer", answer)
		return "", ErrNoSuggestion
	}
	return cat, nil
}
