package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Style selects one of the fixed instruction templates.
type Style string

const (
	StyleShort    Style = "short"
	StyleMedium   Style = "medium"
	StyleDetailed Style = "detailed"
)

// DefaultStyle matches the form's default selection.
const DefaultStyle = StyleShort

// ParseStyle normalizes user input into a Style. Empty input falls back to the
// default; anything else unknown is an error.
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultStyle, nil
	case StyleShort:
		return StyleShort, nil
	case StyleMedium:
		return StyleMedium, nil
	case StyleDetailed:
		return StyleDetailed, nil
	default:
		return "", fmt.Errorf("unknown summary style %q", s)
	}
}

// Instruction returns the fixed template for the style.
func (s Style) Instruction() string {
	switch s {
	case StyleMedium:
		return "Summarize this YouTube transcript in 6-8 sentences:"
	case StyleDetailed:
		return "Provide a detailed summary (10-12 sentences):"
	default:
		return "Summarize this YouTube transcript in 3-4 sentences:"
	}
}

// BuildPrompt combines the style instruction and the transcript into the user
// prompt sent to the model.
func BuildPrompt(style Style, transcript string) string {
	return style.Instruction() + "\n" + transcript
}

const systemPrompt = "You are a helpful summarizer."

// Summarizer produces prose for a transcript in the requested style.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string, style Style) (string, error)
}

type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client issues a single chat-completions request per summary. No retries, no
// streaming, no chunking of long transcripts.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.6
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: temperature,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Summarize(ctx context.Context, transcript string, style Style) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", errors.New("transcript is empty")
	}

	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(style, transcript)},
		},
		Temperature: c.temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.Wrap(err, "encoding summary request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "building summary request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "summary request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading summary response")
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", errors.Wrap(err, "decoding summary response")
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", errors.Errorf("summary endpoint returned %d: %s",
				resp.StatusCode, parsed.Error.Message)
		}
		return "", errors.Errorf("summary endpoint returned %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", errors.New("summary response contained no choices")
	}

	summary := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("summary response was empty")
	}

	return summary, nil
}
