package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"newsdesk-backend/domain/services"
	"newsdesk-backend/pkg/utils"
)

// ScoringProvider serves the current scoring weights. The constants are
// product tuning choices, so editors can adjust them through a watched
// JSON file without a redeploy; when no file is configured the compiled
// defaults apply.
type ScoringProvider struct {
	mu       sync.RWMutex
	current  services.ScoringConfig
	path     string
	watcher  *fsnotify.Watcher
	onChange []func(services.ScoringConfig)
	logger   *zap.Logger
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewScoringProvider creates a provider for the given weights file. An
// empty path disables watching and pins the defaults.
func NewScoringProvider(path string, logger *zap.Logger) (*ScoringProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &ScoringProvider{
		current: services.DefaultScoringConfig(),
		path:    path,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}

	if path == "" {
		return p, nil
	}

	cfg, err := loadScoringFile(path)
	if err != nil {
		return nil, fmt.Errorf("load scoring config: %w", err)
	}
	p.current = cfg

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	// Watch the directory: editors typically replace the file atomically,
	// which unregisters a watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch config dir: %w", err)
	}
	p.watcher = watcher

	go p.watch()
	return p, nil
}

// Current returns the active scoring configuration
func (p *ScoringProvider) Current() services.ScoringConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

// OnChange registers a callback invoked after each successful reload
func (p *ScoringProvider) OnChange(fn func(services.ScoringConfig)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = append(p.onChange, fn)
}

// Stop terminates the file watcher
func (p *ScoringProvider) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		if p.watcher != nil {
			p.watcher.Close()
		}
	})
}

func (p *ScoringProvider) watch() {
	for {
		select {
		case <-p.stopCh:
			return
		case event, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if event.Name != p.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			p.reload()
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("scoring config watcher error", zap.Error(err))
		}
	}
}

// reload re-reads the weights file; a broken file keeps the previous
// weights in place.
func (p *ScoringProvider) reload() {
	cfg, err := loadScoringFile(p.path)
	if err != nil {
		p.logger.Error("scoring config reload failed, keeping previous weights",
			zap.String("path", p.path),
			zap.Error(err),
		)
		return
	}

	p.mu.Lock()
	p.current = cfg
	callbacks := make([]func(services.ScoringConfig), len(p.onChange))
	copy(callbacks, p.onChange)
	p.mu.Unlock()

	p.logger.Info("scoring config reloaded", zap.String("path", p.path))
	for _, fn := range callbacks {
		fn(cfg)
	}
}

func loadScoringFile(path string) (services.ScoringConfig, error) {
	cfg := services.DefaultScoringConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := utils.ValidateStruct(&cfg); err != nil {
		return cfg, fmt.Errorf("invalid scoring config: %w", err)
	}
	return cfg, nil
}
