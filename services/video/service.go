package video

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"yt-brief/errors"
	"yt-brief/models"
	"yt-brief/repository"
	"yt-brief/storage"
	"yt-brief/summarize"
	"yt-brief/validation"
)

type service struct {
	repo       repository.VideoRepository
	pipeline   Acquirer
	summarizer summarize.Summarizer
	validator  *validation.Validator
	archiver   storage.Archiver
	log        *logrus.Logger

	// One acquisition at a time per video; repeat requests for the same URL
	// wait for the first instead of racing the collaborators.
	locks sync.Map
}

func NewService(
	repo repository.VideoRepository,
	pipeline Acquirer,
	summarizer summarize.Summarizer,
	validator *validation.Validator,
	archiver storage.Archiver,
	log *logrus.Logger,
) Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &service{
		repo:       repo,
		pipeline:   pipeline,
		summarizer: summarizer,
		validator:  validator,
		archiver:   archiver,
		log:        log,
	}
}

type videoLock struct {
	mu sync.Mutex
}

func (s *service) lockFor(videoID string) *videoLock {
	lock, _ := s.locks.LoadOrStore(videoID, &videoLock{})
	return lock.(*videoLock)
}

func (s *service) Summarize(ctx context.Context, url string, style summarize.Style) (*models.Video, error) {
	const op = "VideoService.Summarize"

	videoID, err := s.validateAndExtract(url)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(videoID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	log := s.log.WithFields(logrus.Fields{"video_id": videoID, "style": style})

	video, err := s.repo.FindByVideoID(ctx, videoID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	if video != nil && video.HasSummary(string(style)) {
		log.Info("Serving cached summary")
		return video, nil
	}

	video, err = s.ensureTranscript(ctx, video, videoID, url)
	if err != nil {
		return nil, err
	}

	summary, err := s.summarizer.Summarize(ctx, video.Transcript, style)
	if err != nil {
		log.WithError(err).Error("Summarization failed")
		// The transcript is still good; keep it so the next attempt only
		// re-runs the summarizer.
		s.saveTranscript(ctx, video)
		return nil, errors.SummarizationFailed(op, err, "Failed to generate summary")
	}

	video.Summary = summary
	video.SummaryStyle = string(style)
	video.Status = models.StatusCompleted
	video.Error = ""
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		return nil, err
	}

	s.archive(ctx, video)
	log.Info("Summary completed")
	return video, nil
}

func (s *service) Transcribe(ctx context.Context, url string) (*models.Video, error) {
	videoID, err := s.validateAndExtract(url)
	if err != nil {
		return nil, err
	}

	lock := s.lockFor(videoID)
	lock.mu.Lock()
	defer lock.mu.Unlock()

	video, err := s.repo.FindByVideoID(ctx, videoID)
	if err != nil && !errors.IsNotFound(err) {
		return nil, err
	}

	if video != nil && video.IsCompleted() && video.Transcript != "" {
		s.log.WithField("video_id", videoID).Info("Serving cached transcript")
		return video, nil
	}

	video, err = s.ensureTranscript(ctx, video, videoID, url)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, video); err != nil {
		return nil, err
	}

	s.archive(ctx, video)
	return video, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Video, error) {
	const op = "VideoService.Get"

	if id == "" {
		return nil, errors.InvalidInput(op, nil, "ID is required")
	}

	return s.repo.Find(ctx, id)
}

// validateAndExtract short-circuits before any collaborator is contacted.
func (s *service) validateAndExtract(url string) (string, error) {
	const op = "VideoService.validateAndExtract"

	if err := s.validator.ValidateURL(url); err != nil {
		return "", err
	}

	videoID, ok := validation.ExtractVideoID(url)
	if !ok {
		return "", errors.InvalidURL(op, nil, "No video ID found in URL")
	}

	return videoID, nil
}

// ensureTranscript returns a record with a transcript, running the acquisition
// pipeline when the cache has none. Pipeline failures are persisted as failed
// records before the error is returned.
func (s *service) ensureTranscript(ctx context.Context, video *models.Video, videoID, url string) (*models.Video, error) {
	if video != nil && !video.IsFailed() && video.Transcript != "" {
		return video, nil
	}

	if video == nil {
		video = &models.Video{
			ID:        uuid.New().String(),
			VideoID:   videoID,
			URL:       url,
			CreatedAt: time.Now(),
		}
	}

	result, err := s.pipeline.Acquire(ctx, videoID)
	if err != nil {
		s.saveFailure(ctx, video, err)
		return nil, err
	}

	video.Transcript = result.Text
	video.Source = result.Source
	video.Status = models.StatusCompleted
	video.Error = ""
	video.UpdatedAt = time.Now()
	return video, nil
}

func (s *service) saveTranscript(ctx context.Context, video *models.Video) {
	video.Status = models.StatusCompleted
	video.Error = ""
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		s.log.WithError(err).WithField("video_id", video.VideoID).
			Error("Failed to persist transcript")
	}
}

func (s *service) saveFailure(ctx context.Context, video *models.Video, cause error) {
	video.Status = models.StatusFailed
	video.Error = cause.Error()
	video.UpdatedAt = time.Now()

	if err := s.repo.Save(ctx, video); err != nil {
		s.log.WithError(err).WithField("video_id", video.VideoID).
			Error("Failed to persist failed record")
	}
}

// archive is best effort: storage failures are logged, never surfaced.
func (s *service) archive(ctx context.Context, video *models.Video) {
	if s.archiver == nil {
		return
	}
	if err := s.archiver.Archive(ctx, video); err != nil {
		s.log.WithError(err).WithField("video_id", video.VideoID).
			Warn("Failed to archive record")
	}
}
