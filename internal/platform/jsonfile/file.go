package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/taskflow-api/internal/redact"
)

// corruptSuffixLayout names the copy kept of a file that failed to decode.
const corruptSuffixLayout = "20060102T150405.000000000Z"

// load decodes the JSON array at path into a slice. A missing file yields an
// empty slice. A file that cannot be decoded is moved aside to
// <name>.corrupt-<timestamp>, logged, and replaced with an empty array.
func load[T any](path string, log *slog.Logger) ([]T, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		items := []T{}
		return items, write(path, items)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		backup := path + ".corrupt-" + time.Now().UTC().Format(corruptSuffixLayout)
		if renameErr := os.Rename(path, backup); renameErr != nil {
			return nil, fmt.Errorf("moving aside corrupted %s: %w", filepath.Base(path), renameErr)
		}
		log.Warn("store file is corrupted, starting empty",
			slog.String("file", filepath.Base(path)),
			slog.String("backup", filepath.Base(backup)),
			slog.String("error", redact.Error(err)))
		items = []T{}
		return items, write(path, items)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// write replaces the file at path with the JSON encoding of items.
func write[T any](path string, items []T) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}
