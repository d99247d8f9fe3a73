package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"usagestats/internal/common/fsutil"
)

// DefaultDebounce coalesces bursts of writes from editors into one reload.
const DefaultDebounce = 250 * time.Millisecond

// Watcher reloads a config file whenever it changes and hands the previous
// and reloaded config to OnChange. Invalid files are logged and skipped; the
// previous config stays.
type Watcher struct {
	Path     string
	OnChange func(prev, next Config)
	Debounce time.Duration
	Logger   zerolog.Logger

	mu      sync.Mutex
	current Config
}

// Seed sets the config the first reload is compared against, normally the
// file contents read at startup.
func (w *Watcher) Seed(cfg Config) {
	w.mu.Lock()
	w.current = cfg
	w.mu.Unlock()
}

// Current returns the last config that loaded successfully.
func (w *Watcher) Current() Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Run watches until ctx is done. It watches the parent directory so that
// atomic replace-by-rename saves are seen too.
func (w *Watcher) Run(ctx context.Context) error {
	if w.Path == "" {
		return fmt.Errorf("empty config path")
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	expanded, err := fsutil.ExpandHome(w.Path)
	if err != nil {
		return err
	}
	target := filepath.Clean(expanded)
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch config dir: %w", err)
	}
	w.Logger.Info().Str("event", "config.watcher_started").Str("path", target).Msg("watching config file")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info().Str("event", "config.watcher_stopped").Msg("config watcher stopped")
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			w.Logger.Debug().Str("event", "config.file_changed").Str("op", ev.Op.String()).Msg("config file changed")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload()
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.Logger.Error().Err(err).Str("event", "config.watcher_error").Msg("config watcher error")
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.Path)
	if err != nil {
		w.Logger.Error().Err(err).Str("event", "config.reload_failed").Msg("config reload failed, keeping previous")
		return
	}
	w.mu.Lock()
	prev := w.current
	w.current = cfg
	w.mu.Unlock()
	w.Logger.Info().Str("event", "config.reload_success").Bool("enabled", cfg.Enabled).Msg("configuration reloaded")
	if w.OnChange != nil {
		w.OnChange(prev, cfg)
	}
}
