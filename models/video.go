package models

import (
	"time"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// TranscriptSource records which pipeline stage produced the transcript.
type TranscriptSource string

const (
	SourceCaptions     TranscriptSource = "captions"
	SourceSpeechToText TranscriptSource = "speech-to-text"
)

type Video struct {
	ID           string           `json:"id"`
	VideoID      string           `json:"video_id"`
	URL          string           `json:"url"`
	Title        string           `json:"title,omitempty"`
	Status       Status           `json:"status"`
	Transcript   string           `json:"transcript,omitempty"`
	Source       TranscriptSource `json:"source,omitempty"`
	Summary      string           `json:"summary,omitempty"`
	SummaryStyle string           `json:"summary_style,omitempty"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

func (v *Video) IsCompleted() bool { return v.Status == StatusCompleted }
func (v *Video) IsFailed() bool    { return v.Status == StatusFailed }

// HasSummary reports whether a summary in the requested style is already stored.
func (v *Video) HasSummary(style string) bool {
	return v.IsCompleted() && v.Summary != "" && v.SummaryStyle == style
}
