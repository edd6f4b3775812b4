package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ai-interviewer-team/ai-interviewer/internal/domain/entities"
)

// TranscriptStore persists per-session transcript documents as JSON files.
// Append is a whole-document read-modify-write, so a per-session mutex
// serializes concurrent appends to the same session. Writes go through a
// temp file plus rename so readers never observe a partial document.
type TranscriptStore struct {
	layout *Layout

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTranscriptStore creates a transcript store over the artifact layout
func NewTranscriptStore(layout *Layout) *TranscriptStore {
	return &TranscriptStore{
		layout: layout,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Append adds one entry to the session's transcript document
func (s *TranscriptStore) Append(sessionID string, questionIndex int, text string) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.readDocument(sessionID)
	if err != nil {
		return err
	}
	if doc == nil {
		doc = &entities.TranscriptDocument{}
	}
	doc.Append(questionIndex, text, time.Now().UTC())

	return s.writeJSON(sessionID, doc)
}

// Read returns the session's transcript document, or nil when none exists
func (s *TranscriptStore) Read(sessionID string) (*entities.TranscriptDocument, error) {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return s.readDocument(sessionID)
}

// WriteSnapshot replaces the session's transcript document with the
// finalized content, discarding any streamed partial entries
func (s *TranscriptStore) WriteSnapshot(sessionID string, snapshot *entities.FinalTranscript) error {
	lock := s.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	return s.writeJSON(sessionID, snapshot)
}

func (s *TranscriptStore) sessionLock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[sessionID] = lock
	}
	return lock
}

// readDocument reads without locking. Caller must hold the session lock.
func (s *TranscriptStore) readDocument(sessionID string) (*entities.TranscriptDocument, error) {
	path, err := s.layout.SessionTranscriptPath(sessionID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read transcript: %w", err)
	}

	var doc entities.TranscriptDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse transcript: %w", err)
	}
	return &doc, nil
}

// writeJSON writes atomically via temp file + rename. Caller must hold
// the session lock.
func (s *TranscriptStore) writeJSON(sessionID string, payload interface{}) error {
	path, err := s.layout.SessionTranscriptPath(sessionID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".transcript-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp transcript: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp transcript: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace transcript: %w", err)
	}
	return nil
}
