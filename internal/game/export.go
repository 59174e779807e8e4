package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Transcript persists the public history at every checkpoint.
type Transcript interface {
	Checkpoint(lines []string) error
}

// Observer receives every public event and a snapshot at each checkpoint.
// Calls happen on the engine goroutine; implementations must not block.
type Observer interface {
	OnEvent(Event)
	OnSnapshot(Snapshot)
}

// FileTranscript rewrites a text file with the full history, one line per event.
type FileTranscript struct {
	Path string
}

func NewFileTranscript(path string) *FileTranscript {
	return &FileTranscript{Path: path}
}

func (t *FileTranscript) Checkpoint(lines []string) error {
	dir := filepath.Dir(t.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	// Write to a sibling file first so a crash never leaves a truncated transcript.
	tmp := t.Path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	if err := os.Rename(tmp, t.Path); err != nil {
		return fmt.Errorf("failed to replace transcript: %w", err)
	}
	return nil
}
