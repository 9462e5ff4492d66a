// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Session persistence
	OpSessionLoad  Op = "restore playback session"
	OpSessionSave  Op = "save playback session"
	OpSessionClear Op = "clear playback session"

	// Auth
	OpSignIn       Op = "sign in"
	OpTokenRefresh Op = "refresh session token"

	// Catalog
	OpLibraryLoad Op = "load library"
	OpSongInsert  Op = "add song to library"
	OpSongUpdate  Op = "update song"

	// Storage
	OpSignURL  Op = "create signed URL"
	OpUpload   Op = "upload file"
	OpDownload Op = "download file"

	// Upload pipeline
	OpReadTags Op = "read file tags"

	// Playback
	OpPlaybackStart Op = "start playback"
	OpPlaybackLoad  Op = "load audio"
	OpPlaybackSeek  Op = "seek"

	// Initialization
	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}
