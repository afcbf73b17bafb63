package filecheck

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/dtroode/attestkeeper-server/internal/logger"
	"github.com/dtroode/attestkeeper-server/internal/model"
)

// DefaultProfile is the policy name used when an upload names no context.
const DefaultProfile = "default"

// Policy is the caller-tunable validation surface for one upload context.
type Policy struct {
	MaxSizeBytes      int64                `yaml:"max_size_bytes"`
	AllowedCategories []model.FileCategory `yaml:"allowed_categories"`
	StrictMode        bool                 `yaml:"strict_mode"`
}

// Allows reports whether c is permitted. An empty allow set permits all.
func (p Policy) Allows(c model.FileCategory) bool {
	return len(p.AllowedCategories) == 0 || slices.Contains(p.AllowedCategories, c)
}

// DefaultPolicy accepts every allow-listed category up to 25 MiB, lenient.
func DefaultPolicy() Policy {
	return Policy{MaxSizeBytes: 25 << 20}
}

// PolicySet holds named policies.
type PolicySet struct {
	Default  Policy            `yaml:"default"`
	Profiles map[string]Policy `yaml:"profiles"`
}

// Get returns the named profile; an empty name selects the default. Unknown
// names are rejected rather than served the default, which may be weaker.
func (s *PolicySet) Get(name string) (Policy, error) {
	if name == "" || name == DefaultProfile {
		if s == nil {
			return DefaultPolicy(), nil
		}
		return s.Default, nil
	}
	if s != nil {
		if p, ok := s.Profiles[name]; ok {
			return p, nil
		}
	}
	return Policy{}, model.InvalidArgument("unknown upload context %q", name)
}

// ParsePolicies decodes a YAML policy document.
func ParsePolicies(data []byte) (*PolicySet, error) {
	set := PolicySet{Default: DefaultPolicy()}
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse upload policies: %w", err)
	}
	if err := set.validate(); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadPolicies reads a YAML policy file.
func LoadPolicies(path string) (*PolicySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload policies: %w", err)
	}
	return ParsePolicies(data)
}

func (s *PolicySet) validate() error {
	check := func(name string, p Policy) error {
		if p.MaxSizeBytes < 0 {
			return fmt.Errorf("policy %q: max_size_bytes must not be negative", name)
		}
		for _, c := range p.AllowedCategories {
			if !knownCategory(c) {
				return fmt.Errorf("policy %q: unknown category %q", name, c)
			}
		}
		return nil
	}
	if err := check(DefaultProfile, s.Default); err != nil {
		return err
	}
	for name, p := range s.Profiles {
		if err := check(name, p); err != nil {
			return err
		}
	}
	return nil
}

func knownCategory(c model.FileCategory) bool {
	switch c {
	case model.CategoryImage, model.CategoryDocument, model.CategoryVideo,
		model.CategoryAudio, model.CategoryArchive, model.CategoryText:
		return true
	}
	return false
}

// PolicyStore serves the current PolicySet and reloads it when the backing
// file changes. A failed reload keeps the previous set.
type PolicyStore struct {
	path   string
	logger *logger.Logger

	mu  sync.RWMutex
	set *PolicySet
}

// NewPolicyStore loads path, or serves the built-in default when path is empty.
func NewPolicyStore(path string, logger *logger.Logger) (*PolicyStore, error) {
	s := &PolicyStore{path: path, logger: logger}
	if path == "" {
		s.set = &PolicySet{Default: DefaultPolicy()}
		return s, nil
	}
	set, err := LoadPolicies(path)
	if err != nil {
		return nil, err
	}
	s.set = set
	return s, nil
}

// Get returns the named policy from the current set.
func (s *PolicyStore) Get(name string) (Policy, error) {
	s.mu.RLock()
	p, err := s.set.Get(name)
	s.mu.RUnlock()
	if err != nil {
		s.logger.Warn("Upload policies: unknown upload context", "name", name)
	}
	return p, err
}

// Watch reloads the policy file on change until ctx is done.
func (s *PolicyStore) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch policy directory: %w", err)
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *PolicyStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(100*time.Millisecond, s.reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("Policy store: watcher error", "error", err)
		}
	}
}

func (s *PolicyStore) reload() {
	set, err := LoadPolicies(s.path)
	if err != nil {
		s.logger.Error("Policy store: reload failed, keeping previous policies",
			"path", s.path,
			"error", err)
		return
	}

	s.mu.Lock()
	s.set = set
	s.mu.Unlock()

	s.logger.Info("Policy store: upload policies reloaded",
		"path", s.path,
		"profiles", len(set.Profiles))
}
