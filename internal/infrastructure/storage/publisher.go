package storage

import (
	"context"
	"fmt"
	"path/filepath"
)

// ReportPublisher makes a rendered report PDF reachable at a public URL
type ReportPublisher interface {
	// Publish exposes the PDF at localPath for the given session and
	// returns its public URL
	Publish(ctx context.Context, sessionID, localPath string) (string, error)
}

// LocalPublisher serves reports straight from the report root, which the
// HTTP server exposes statically under /reports
type LocalPublisher struct{}

// NewLocalPublisher creates a local report publisher
func NewLocalPublisher() *LocalPublisher {
	return &LocalPublisher{}
}

// Publish returns the static URL for the already-written PDF
func (p *LocalPublisher) Publish(_ context.Context, sessionID, localPath string) (string, error) {
	return fmt.Sprintf("/reports/%s/%s", sessionID, filepath.Base(localPath)), nil
}
