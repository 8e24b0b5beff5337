package captions

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Failure reasons. All of them trigger the same fallthrough in the acquisition
// pipeline; they exist so the attempt log can record what actually happened.
var (
	ErrDisabled        = errors.New("captions are disabled for this video")
	ErrUnavailable     = errors.New("no caption tracks are available")
	ErrTooManyRequests = errors.New("caption endpoint is rate limiting this client")
)

// Fragment is a single timed caption span.
type Fragment struct {
	Text     string
	Start    float64
	Duration float64
}

// Fetcher retrieves the ordered caption track for a video.
type Fetcher interface {
	Fetch(ctx context.Context, videoID string) ([]Fragment, error)
}

// Flatten joins fragment texts in their chronological order into a single
// transcript string.
func Flatten(fragments []Fragment) string {
	parts := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if t := strings.TrimSpace(f.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

var fragmentPattern = regexp.MustCompile(`<text start="([^"]*)" dur="([^"]*)"[^>]*>([^<]*)</text>`)

type Config struct {
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// Client scrapes the watch page for the caption track list and downloads the
// timed-text XML for the configured language.
type Client struct {
	httpClient *http.Client
	baseURL    string
	language   string
}

func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://www.youtube.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   cfg.Language,
	}
}

func (c *Client) Fetch(ctx context.Context, videoID string) ([]Fragment, error) {
	trackURL, err := c.findTrack(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return c.downloadTrack(ctx, trackURL)
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type captionList struct {
	PlayerCaptionsTracklistRenderer struct {
		CaptionTracks []captionTrack `json:"captionTracks"`
	} `json:"playerCaptionsTracklistRenderer"`
}

func (c *Client) findTrack(ctx context.Context, videoID string) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID))
	if err != nil {
		return "", errors.Wrap(err, "loading watch page")
	}

	page := string(body)
	if strings.Contains(page, `class="g-recaptcha"`) {
		return "", ErrTooManyRequests
	}

	_, blob, found := strings.Cut(page, `"captions":`)
	if !found {
		return "", ErrDisabled
	}
	end := strings.Index(blob, `,"videoDetails`)
	if end < 0 {
		return "", ErrDisabled
	}

	var list captionList
	if err := json.Unmarshal([]byte(blob[:end]), &list); err != nil {
		return "", errors.Wrap(ErrDisabled, "parsing caption track list")
	}

	tracks := list.PlayerCaptionsTracklistRenderer.CaptionTracks
	if len(tracks) == 0 {
		return "", ErrUnavailable
	}

	if c.language != "" {
		for _, track := range tracks {
			if track.LanguageCode == c.language {
				return track.BaseURL, nil
			}
		}
	}
	return tracks[0].BaseURL, nil
}

func (c *Client) downloadTrack(ctx context.Context, trackURL string) ([]Fragment, error) {
	body, err := c.get(ctx, trackURL)
	if err != nil {
		return nil, errors.Wrap(err, "downloading caption track")
	}

	matches := fragmentPattern.FindAllStringSubmatch(string(body), -1)
	if len(matches) == 0 {
		return nil, ErrUnavailable
	}

	fragments := make([]Fragment, 0, len(matches))
	for _, m := range matches {
		start, _ := strconv.ParseFloat(m[1], 64)
		dur, _ := strconv.ParseFloat(m[2], 64)
		fragments = append(fragments, Fragment{
			Text:     html.UnescapeString(m[3]),
			Start:    start,
			Duration: dur,
		})
	}

	return fragments, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrTooManyRequests
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
