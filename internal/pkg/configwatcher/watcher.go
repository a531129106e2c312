package configwatcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/metropolia-apps/faq-core/internal/config"
)

// Editors often save in several steps, so reloads are debounced until
// the file settles.
const debounceInterval = time.Second

// Reload receives the re-parsed configuration after the watched file
// settles.
type Reload func(cfg *config.AppConfig)

// Watch watches the config file and invokes reload after each change.
// A file that no longer parses is logged and skipped; the previous
// configuration stays live. Blocks until ctx is done.
func Watch(ctx context.Context, logger *zap.Logger, configPath string, reload Reload) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return err
	}
	if err := watcher.Add(absPath); err != nil {
		return err
	}

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceInterval)
			}
		case <-timer.C:
			cfg, err := config.Load(configPath)
			if err != nil {
				logger.Error("config reload failed, keeping previous config", zap.Error(err))
				continue
			}
			logger.Info("config file changed, reloading", zap.String("path", configPath))
			reload(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher error", zap.Error(err))
		}
	}
}
