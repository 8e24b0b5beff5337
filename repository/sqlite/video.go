package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"yt-brief/errors"
	"yt-brief/models"
)

type Repository struct {
	db         *sql.DB
	statements preparedStatements
}

func NewRepository(db *sql.DB) (*Repository, error) {
	repo := &Repository{db: db}
	if err := repo.statements.prepare(context.Background(), db); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *Repository) Close() error {
	return r.statements.close()
}

func (r *Repository) Save(ctx context.Context, video *models.Video) error {
	const op = "SQLiteRepository.Save"

	for i := 0; i < 3; i++ { // Simple retry on lock contention
		err := r.save(ctx, video)
		if err == nil {
			return nil
		}
		if !isLockError(err) {
			return errors.Internal(op, err, "Failed to save video")
		}
		if err := waitRetry(ctx, time.Second*time.Duration(i+1)); err != nil {
			return errors.Internal(op, err, "Save cancelled while waiting for lock")
		}
	}
	return errors.Internal(op, nil, "Failed after retries")
}

// waitRetry sleeps for the backoff interval unless ctx ends first, so a
// cancelled request does not sit in the retry loop holding its locks.
func waitRetry(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Repository) save(ctx context.Context, video *models.Video) error {
	_, err := r.statements.upsert.ExecContext(ctx,
		video.ID,
		video.VideoID,
		video.URL,
		video.Title,
		string(video.Status),
		video.Transcript,
		string(video.Source),
		video.Summary,
		video.SummaryStyle,
		video.Error,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

func (r *Repository) Find(ctx context.Context, id string) (*models.Video, error) {
	const op = "SQLiteRepository.Find"
	return r.scanRow(op, r.statements.get.QueryRowContext(ctx, id))
}

func (r *Repository) FindByVideoID(ctx context.Context, videoID string) (*models.Video, error) {
	const op = "SQLiteRepository.FindByVideoID"
	return r.scanRow(op, r.statements.getByVideoID.QueryRowContext(ctx, videoID))
}

func (r *Repository) scanRow(op string, row *sql.Row) (*models.Video, error) {
	video := &models.Video{}
	var status, source string

	err := row.Scan(
		&video.ID,
		&video.VideoID,
		&video.URL,
		&video.Title,
		&status,
		&video.Transcript,
		&source,
		&video.Summary,
		&video.SummaryStyle,
		&video.Error,
		&video.CreatedAt,
		&video.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NotFound(op, nil, "Video not found")
	}
	if err != nil {
		return nil, errors.Internal(op, err, "Failed to query video")
	}

	video.Status = models.Status(status)
	video.Source = models.TranscriptSource(source)
	return video, nil
}

func isLockError(err error) bool {
	return strings.Contains(err.Error(), "database is locked") ||
		strings.Contains(err.Error(), "busy")
}
