package entities

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session expired")

	// Credential errors
	ErrInvalidCredential   = errors.New("invalid credential")
	ErrCredentialExpired   = errors.New("credential expired")
	ErrCredentialMismatch  = errors.New("credential does not match session")

	// Report errors
	ErrReportNotFound   = errors.New("report not found")
	ErrSnapshotNotFound = errors.New("attention snapshot not found")

	// Transcript errors
	ErrTranscriptNotFound = errors.New("transcript not found")
)
