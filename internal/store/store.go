package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"labeler/internal/annotation"
	"labeler/internal/logging"
	"labeler/internal/services"
)

// Store writes annotation documents to a fixed path.
type Store struct {
	path     string
	lockPath string
	lock     *flock.Flock
	logger   *slog.Logger
}

var _ annotation.Persister = (*Store)(nil)

// Open prepares a store for path and takes the session lock. It fails with
// services.ErrLocked when another session holds the document.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, services.Wrap(services.ErrConfiguration, "store", "open", "annotation output path is empty", nil)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "store", "open", "Failed to create output directory", err)
		}
	}
	lockPath := path + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "store", "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "store", "acquire lock",
			fmt.Sprintf("another annotation session is writing %s", path), nil)
	}
	return &Store{
		path:     path,
		lockPath: lockPath,
		lock:     lock,
		logger:   logging.NewComponentLogger(logger, "store"),
	}, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Save collapses list to a mapping and overwrites the document.
func (s *Store) Save(list []annotation.Annotation) error {
	doc := Collapse(list)
	if err := Write(s.path, doc); err != nil {
		return err
	}
	s.logger.Debug("annotations saved",
		logging.String("annotation_path", s.path),
		logging.Int("annotation_count", doc.Len()),
	)
	return nil
}

// Close releases the session lock.
func (s *Store) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	if err := s.lock.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	if err := os.Remove(s.lockPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Warn("failed to remove lock file", logging.Error(err))
	}
	return nil
}

// Save collapses list and writes it to path without taking the session lock.
func Save(path string, list []annotation.Annotation) error {
	return Write(path, Collapse(list))
}

// Write overwrites path with doc.
func Write(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "store", "encode", "Failed to encode annotation document", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "store", "write", fmt.Sprintf("Failed to write %s", path), err)
	}
	return nil
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Document{}, services.Wrap(services.ErrSourceNotFound, "store", "load", fmt.Sprintf("annotation file %s does not exist", path), err)
		}
		return Document{}, services.Wrap(services.ErrTransient, "store", "load", fmt.Sprintf("Failed to read %s", path), err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, services.Wrap(services.ErrMalformedDocument, "store", "load", path, err)
	}
	return doc, nil
}
