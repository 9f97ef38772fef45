package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"peticia-hq/minerva/pkg/catalog"
)

// FileSource loads a catalog from a YAML file on disk and watches it for
// changes.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based catalog source.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:   path,
		logger: logger.With("component", "catalog.source"),
	}
}

// Load reads and parses the catalog file.
func (s *FileSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %q: %w", s.path, err)
	}

	cat, err := parseCatalogBytes(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", s.path, err)
	}

	s.logger.Info("loaded catalog",
		"path", s.path,
		"document_type", cat.DocumentType(),
		"module_count", cat.Len(),
	)

	return cat, nil
}

// Watch watches the catalog file for changes. Events are delivered on the
// returned channel until the context is cancelled. The parent directory is
// watched so editors that replace the file atomically are still observed.
func (s *FileSource) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	eventCh := make(chan Event)

	go func() {
		defer close(eventCh)
		defer watcher.Close()

		target := filepath.Clean(s.path)

		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				event, relevant := translateEvent(ev)
				if !relevant {
					continue
				}
				select {
				case eventCh <- event:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("catalog watcher error", "error", err)
				select {
				case eventCh <- Event{Error: err}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	s.logger.Info("watching catalog file", "path", s.path)

	return eventCh, nil
}

func translateEvent(ev fsnotify.Event) (Event, bool) {
	switch {
	case ev.Has(fsnotify.Create):
		return Event{Type: EventCreated, Path: ev.Name}, true
	case ev.Has(fsnotify.Write):
		return Event{Type: EventModified, Path: ev.Name}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Type: EventDeleted, Path: ev.Name}, true
	default:
		return Event{}, false
	}
}
