package configwatcher

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"training_exam_backend/internal/config"
	"training_exam_backend/pkg/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const configFile = "config.yaml"

type ConfigReloader func(cfg *config.Config)

// Watcher reloads configs/config.yaml after writes settle and hands the new
// config to every reloader. A config that fails to load is ignored.
type Watcher struct {
	Dir      string
	Debounce time.Duration

	mu        sync.Mutex
	reloaders []ConfigReloader
}

func New(dir string) *Watcher {
	return &Watcher{Dir: dir, Debounce: time.Second}
}

func (w *Watcher) OnReload(fn ConfigReloader) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reloaders = append(w.reloaders, fn)
}

// Run blocks until ctx is done. The directory is watched rather than the file
// so editors that replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absDir, err := filepath.Abs(w.Dir)
	if err != nil {
		return err
	}
	if err := watcher.Add(absDir); err != nil {
		return err
	}

	target := filepath.Join(absDir, configFile)
	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			// debounce
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.Debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			newCfg, err := config.LoadConfig(absDir)
			if err != nil {
				logger.Log.Error("Failed to reload config", zap.Error(err))
				continue
			}
			logger.Log.Info("Config reloaded", zap.String("path", target))
			w.mu.Lock()
			reloaders := append([]ConfigReloader(nil), w.reloaders...)
			w.mu.Unlock()
			for _, fn := range reloaders {
				fn(newCfg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Log.Error("Config watcher error", zap.Error(err))
		}
	}
}
