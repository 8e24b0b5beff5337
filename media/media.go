package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Downloader fetches the audio track for a video into a local artifact.
type Downloader interface {
	Download(ctx context.Context, videoID string) (*Artifact, error)
}

// Artifact is a transient local audio file owned by the pipeline invocation
// that created it. Remove is idempotent and safe to defer on every exit path.
type Artifact struct {
	Path string

	mu      sync.Mutex
	removed bool
}

func NewArtifact(path string) *Artifact {
	return &Artifact{Path: path}
}

func (a *Artifact) Remove() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.removed {
		return nil
	}
	a.removed = true

	if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

type Config struct {
	BinPath string        // Path to the yt-dlp executable
	TempDir string        // Directory for downloaded audio files
	Timeout time.Duration // Per-download timeout
}

// YTDLP downloads audio by shelling out to yt-dlp.
type YTDLP struct {
	config Config
	log    *logrus.Logger
}

func NewYTDLP(cfg Config, log *logrus.Logger) (*YTDLP, error) {
	if cfg.BinPath == "" {
		return nil, fmt.Errorf("yt-dlp binary path is required")
	}
	if err := os.MkdirAll(cfg.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &YTDLP{config: cfg, log: log}, nil
}

func (d *YTDLP) Download(ctx context.Context, videoID string) (*Artifact, error) {
	outPath := filepath.Join(d.config.TempDir, videoID+".m4a")

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, d.config.BinPath, buildDownloadArgs(videoID, outPath)...)
	if err := d.run(cmd, videoID); err != nil {
		os.Remove(outPath)
		return nil, err
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return nil, fmt.Errorf("audio file missing after download: %w", err)
	}
	if info.Size() == 0 {
		os.Remove(outPath)
		return nil, fmt.Errorf("audio download produced an empty file")
	}

	return NewArtifact(outPath), nil
}

func buildDownloadArgs(videoID, outPath string) []string {
	return []string{
		"--no-playlist",
		"--quiet",
		"-f", "bestaudio[ext=m4a]/bestaudio",
		"-x",
		"--audio-format", "m4a",
		"-o", outPath,
		"https://www.youtube.com/watch?v=" + videoID,
	}
}

func (d *YTDLP) run(cmd *exec.Cmd, videoID string) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	d.log.WithFields(logrus.Fields{
		"video_id": videoID,
		"bin":      d.config.BinPath,
	}).Debug("Starting audio download")

	if err := cmd.Run(); err != nil {
		stderrOutput := stderr.String()
		d.log.WithFields(logrus.Fields{
			"video_id": videoID,
			"stderr":   stderrOutput,
		}).WithError(err).Error("Audio download failed")
		return fmt.Errorf("%v (stderr: %s)", err, stderrOutput)
	}

	return nil
}
