package video

import (
	"context"

	"yt-brief/models"
	"yt-brief/summarize"
	"yt-brief/transcript"
)

type Service interface {
	// Summarize acquires a transcript for the URL and produces a summary in
	// the requested style, reusing cached results where possible.
	Summarize(ctx context.Context, url string, style summarize.Style) (*models.Video, error)

	// Transcribe acquires a transcript without summarizing.
	Transcribe(ctx context.Context, url string) (*models.Video, error)

	// Get retrieves a stored record by its ID.
	Get(ctx context.Context, id string) (*models.Video, error)
}

// Acquirer is the transcript pipeline as seen by this service.
type Acquirer interface {
	Acquire(ctx context.Context, videoID string) (*transcript.Result, error)
}
