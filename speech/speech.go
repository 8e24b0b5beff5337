package speech

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Transcriber converts a local audio file into transcript text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client talks to the hosted audio-transcription endpoint (whisper-1 style):
// one multipart upload, plain-text response.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := cfg.Model
	if model == "" {
		model = "whisper-1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      model,
	}
}

func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return "", errors.Wrap(err, "opening audio file")
	}
	defer file.Close()

	body, contentType, err := c.buildRequestBody(file, filepath.Base(audioPath))
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", errors.Wrap(err, "building transcription request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "transcription request failed")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "reading transcription response")
	}

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("transcription endpoint returned %d: %s",
			resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	text := strings.TrimSpace(string(respBody))
	if text == "" {
		return "", errors.New("transcription produced empty text")
	}

	return text, nil
}

func (c *Client) buildRequestBody(file io.Reader, filename string) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, "", errors.Wrap(err, "creating multipart file field")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", errors.Wrap(err, "copying audio into request")
	}

	if err := writer.WriteField("model", c.model); err != nil {
		return nil, "", errors.Wrap(err, "writing model field")
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return nil, "", errors.Wrap(err, "writing response_format field")
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "finalizing multipart body")
	}

	return body, writer.FormDataContentType(), nil
}
