package meter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// readDoc loads a flat key-to-record JSON document. A missing document is
// an empty one. A malformed or unreadable document degrades to empty with
// a warning rather than failing the caller; the next successful write
// replaces it.
func readDoc[T any](path string) map[string]T {
	doc := make(map[string]T)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("unreadable document, starting empty", "path", path, "error", err)
		}
		return doc
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		slog.Warn("malformed document, starting empty", "path", path, "error", err)
		return make(map[string]T)
	}
	return doc
}

// writeDoc persists a document atomically: write to a temp file in the
// same directory, fsync, then rename over the target. A crash leaves
// either the old or the new complete document, never a partial one.
func writeDoc[T any](path string, doc map[string]T) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	f, err := os.CreateTemp(dir, ".tmp-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write document: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync document: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("chmod document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}
