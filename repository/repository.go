package repository

import (
	"context"

	"yt-brief/models"
)

type VideoRepository interface {
	Save(ctx context.Context, video *models.Video) error
	Find(ctx context.Context, id string) (*models.Video, error)
	FindByVideoID(ctx context.Context, videoID string) (*models.Video, error)
}
