package i18n

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reloads catalogs from dir whenever a catalog file changes.
// It blocks until ctx is done.
func (b *Bundle) Watch(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isCatalogFile(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			b.reloadFile(event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("Catalog watcher error", zap.Error(err))
		}
	}
}

func (b *Bundle) reloadFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		b.logger.Warn("Failed to read catalog", zap.String("path", path), zap.Error(err))
		return
	}

	locale := localeFromFile(filepath.Base(path))
	if err := b.Load(locale, data); err != nil {
		b.logger.Warn("Failed to reload catalog", zap.String("locale", locale), zap.Error(err))
		return
	}
	b.logger.Info("Catalog reloaded", zap.String("locale", locale))
}
