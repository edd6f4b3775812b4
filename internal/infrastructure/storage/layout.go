package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ai-interviewer-team/ai-interviewer/pkg/config"
)

// TranscriptFileName is the per-session transcript document name
const TranscriptFileName = "transcript.json"

// Layout owns the on-disk session artifact directories. Audio and avatar
// roots hold output from external synthesis collaborators; this service
// only creates, locates and eventually purges them.
type Layout struct {
	paths config.PathsConfig
}

// NewLayout creates a layout over the configured directory roots
func NewLayout(paths config.PathsConfig) *Layout {
	return &Layout{paths: paths}
}

// EnsureRoots creates all artifact roots. Called once at startup.
func (l *Layout) EnsureRoots() error {
	for _, dir := range l.Roots() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact root %s: %w", dir, err)
		}
	}
	return nil
}

// Roots returns every artifact root swept by retention
func (l *Layout) Roots() []string {
	return []string{
		l.paths.AudioDir,
		l.paths.TranscriptDir,
		l.paths.ReportDir,
		l.paths.AvatarDir,
	}
}

// SessionAudioDir returns (and creates) the audio directory for a session
func (l *Layout) SessionAudioDir(sessionID string) (string, error) {
	return ensureDir(filepath.Join(l.paths.AudioDir, sessionID))
}

// SessionTranscriptPath returns the transcript document path for a session,
// creating its directory
func (l *Layout) SessionTranscriptPath(sessionID string) (string, error) {
	dir, err := ensureDir(filepath.Join(l.paths.TranscriptDir, sessionID))
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, TranscriptFileName), nil
}

// SessionReportDir returns (and creates) the report directory for a session
func (l *Layout) SessionReportDir(sessionID string) (string, error) {
	return ensureDir(filepath.Join(l.paths.ReportDir, sessionID))
}

// SessionAvatarDir returns (and creates) the avatar directory for a session
func (l *Layout) SessionAvatarDir(sessionID string) (string, error) {
	return ensureDir(filepath.Join(l.paths.AvatarDir, sessionID))
}

// ReportDir returns the report root, served statically under /reports
func (l *Layout) ReportDir() string {
	return l.paths.ReportDir
}

func ensureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return dir, nil
}
