package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/reqbot-cli/internal/core/ports/driven"
	"github.com/custodia-labs/reqbot-cli/internal/logger"
)

// PromptWatcher reloads a prompt store whenever a prompt file changes on
// disk, so edits apply to the next collaborator call without a restart.
type PromptWatcher struct {
	store   driven.PromptStore
	dir     string
	watcher *fsnotify.Watcher
}

// NewPromptWatcher watches dir for prompt edits. The directory must exist.
func NewPromptWatcher(store driven.PromptStore, dir string) (*PromptWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &PromptWatcher{store: store, dir: dir, watcher: w}, nil
}

// Run processes events until ctx is done or the watcher is closed.
func (p *PromptWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if p.handleEvent(event) {
				logger.Debug("prompt %s changed, reloading prompts", filepath.Base(event.Name))
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// handleEvent reloads the store for content changes to .txt files and
// reports whether it did.
func (p *PromptWatcher) handleEvent(event fsnotify.Event) bool {
	if !strings.HasSuffix(event.Name, ".txt") || strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	p.store.Reload()
	return true
}

// Close stops watching.
func (p *PromptWatcher) Close() error {
	return p.watcher.Close()
}
