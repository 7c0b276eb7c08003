package delivery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raushankrgupta/storedeck/models"
)

// Artifact is a finished deck ready to be delivered
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	Target      models.StoreTarget
	ToEmail     string
}

// Sink delivers an artifact somewhere and reports where it went.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, a Artifact) (string, error)
}

// FileSink writes the artifact into a local directory
type FileSink struct {
	Dir string
}

func (s FileSink) Name() string { return "file" }

func (s FileSink) Deliver(ctx context.Context, a Artifact) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	path := filepath.Join(dir, a.FileName)
	if err := os.WriteFile(path, a.Data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
