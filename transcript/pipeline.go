package transcript

import (
	"context"

	"github.com/sirupsen/logrus"

	"yt-brief/captions"
	"yt-brief/errors"
	"yt-brief/media"
	"yt-brief/models"
	"yt-brief/speech"
)

// Stage names the pipeline states for the attempt log.
type Stage string

const (
	StageCaptions   Stage = "captions"
	StageAudio      Stage = "audio_download"
	StageTranscribe Stage = "transcribe"
)

// Attempt records one stage outcome. Failed caption attempts are carried as
// data rather than surfaced, since the fallthrough is intentional.
type Attempt struct {
	Stage Stage  `json:"stage"`
	Error string `json:"error,omitempty"`
}

// Result is the normalized output of an acquisition: a single flattened text
// blob, the stage that produced it, and the attempt history.
type Result struct {
	Text     string
	Source   models.TranscriptSource
	Attempts []Attempt
}

// Pipeline composes the three external collaborators in strict fallback
// order: captions, then audio download, then speech-to-text. Each stage is
// attempted exactly once per acquisition.
type Pipeline struct {
	captions captions.Fetcher
	media    media.Downloader
	speech   speech.Transcriber
	log      *logrus.Logger
}

func NewPipeline(
	captionFetcher captions.Fetcher,
	downloader media.Downloader,
	transcriber speech.Transcriber,
	log *logrus.Logger,
) *Pipeline {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline{
		captions: captionFetcher,
		media:    downloader,
		speech:   transcriber,
		log:      log,
	}
}

// Acquire runs the fallback chain for videoID. Any caption failure, whether
// disabled subtitles or a network error, falls through to the audio path. A
// download failure is terminal without ever invoking the transcriber. The
// audio artifact is released on every exit path.
func (p *Pipeline) Acquire(ctx context.Context, videoID string) (*Result, error) {
	const op = "Pipeline.Acquire"
	log := p.log.WithField("video_id", videoID)

	fragments, err := p.captions.Fetch(ctx, videoID)
	if err == nil && len(fragments) > 0 {
		log.WithField("fragments", len(fragments)).Info("Transcript acquired from captions")
		return &Result{
			Text:   captions.Flatten(fragments),
			Source: models.SourceCaptions,
			Attempts: []Attempt{
				{Stage: StageCaptions},
			},
		}, nil
	}
	if err == nil {
		err = captions.ErrUnavailable
	}
	attempts := []Attempt{{Stage: StageCaptions, Error: err.Error()}}
	log.WithError(err).Info("Captions unavailable, falling back to audio download")

	artifact, err := p.media.Download(ctx, videoID)
	if err != nil {
		attempts = append(attempts, Attempt{Stage: StageAudio, Error: err.Error()})
		log.WithError(err).Error("Audio download failed")
		return nil, errors.AudioDownloadFailed(op, err,
			"Captions are unavailable and the audio track could not be downloaded")
	}
	defer func() {
		if err := artifact.Remove(); err != nil {
			log.WithError(err).WithField("path", artifact.Path).Error("Failed to remove audio artifact")
		}
	}()
	attempts = append(attempts, Attempt{Stage: StageAudio})

	text, err := p.speech.Transcribe(ctx, artifact.Path)
	if err != nil {
		log.WithError(err).Error("Speech-to-text failed")
		return nil, errors.TranscriptionFailed(op, err,
			"Audio was downloaded but speech-to-text failed")
	}
	attempts = append(attempts, Attempt{Stage: StageTranscribe})

	log.Info("Transcript acquired via speech-to-text")
	return &Result{
		Text:     text,
		Source:   models.SourceSpeechToText,
		Attempts: attempts,
	}, nil
}
