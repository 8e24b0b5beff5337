package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArtifactRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abc.m4a")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}

	artifact := NewArtifact(path)
	if err := artifact.Remove(); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Remove()")
	}

	// Second removal is a no-op
	if err := artifact.Remove(); err != nil {
		t.Errorf("second Remove() error = %v", err)
	}
}

func TestArtifactRemoveMissingFile(t *testing.T) {
	artifact := NewArtifact(filepath.Join(t.TempDir(), "never-created.m4a"))
	if err := artifact.Remove(); err != nil {
		t.Errorf("Remove() on missing file error = %v", err)
	}
}

func TestBuildDownloadArgs(t *testing.T) {
	args := buildDownloadArgs("dQw4w9WgXcQ", "/tmp/dQw4w9WgXcQ.m4a")

	joined := strings.Join(args, " ")
	if !strings.Contains(joined, "--no-playlist") {
		t.Error("expected --no-playlist flag")
	}
	if !strings.Contains(joined, "-o /tmp/dQw4w9WgXcQ.m4a") {
		t.Error("expected output path argument")
	}
	if args[len(args)-1] != "https://www.youtube.com/watch?v=dQw4w9WgXcQ" {
		t.Errorf("expected watch URL as final argument, got %s", args[len(args)-1])
	}
}

func TestNewYTDLPRequiresBinPath(t *testing.T) {
	_, err := NewYTDLP(Config{TempDir: t.TempDir()}, nil)
	if err == nil {
		t.Error("expected error for missing binary path")
	}
}
