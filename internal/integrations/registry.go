package integrations

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	SourceFunnel = "funnel"
	SourceCRM    = "crm"
)

// DefaultSecretHeader carries the shared secret when a source sets none.
const DefaultSecretHeader = "X-Webhook-Secret"

// Source configures one inbound webhook sender.
type Source struct {
	Name    string `yaml:"name"`
	Enabled *bool  `yaml:"enabled"`
	Secret  string `yaml:"secret"`
	// SecretEnv names an environment variable holding the secret.
	SecretEnv string `yaml:"secret_env"`
	Header    string `yaml:"header"`
}

type File struct {
	Sources []Source `yaml:"sources"`
}

// Registry holds the webhook sources. It is safe for concurrent use and
// can be swapped in place when the file changes.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*Source
}

func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]*Source),
	}
}

// LoadFromFile reads a YAML integrations file. A missing file yields an
// empty registry, in which every source is enabled and unsigned.
func LoadFromFile(path string) (*Registry, error) {
	registry := NewRegistry()
	if err := registry.Reload(path); err != nil {
		return nil, err
	}
	return registry, nil
}

// Reload replaces the registry contents with the file at path. On error
// the current contents are kept.
func (r *Registry) Reload(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		r.replace(nil)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read integrations config: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse integrations config: %w", err)
	}
	for i, s := range file.Sources {
		if s.Name == "" {
			return fmt.Errorf("integrations config: source %d has no name", i)
		}
	}
	r.replace(file.Sources)
	return nil
}

func (r *Registry) replace(sources []Source) {
	next := make(map[string]*Source, len(sources))
	for i := range sources {
		s := sources[i]
		if s.Secret == "" && s.SecretEnv != "" {
			s.Secret = os.Getenv(s.SecretEnv)
		}
		if s.Header == "" {
			s.Header = DefaultSecretHeader
		}
		next[s.Name] = &s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = next
}

func (r *Registry) Register(s Source) {
	if s.Header == "" {
		s.Header = DefaultSecretHeader
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[s.Name] = &s
}

// Get returns a copy of the named source, or nil.
func (r *Registry) Get(name string) *Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	if !ok {
		return nil
	}
	out := *s
	return &out
}

// Enabled reports whether deliveries from name are accepted. Sources
// absent from the file are enabled.
func (r *Registry) Enabled(name string) bool {
	s := r.Get(name)
	return s == nil || s.Enabled == nil || *s.Enabled
}

// Secret returns the header name and expected secret for name. An empty
// secret means deliveries are accepted unsigned.
func (r *Registry) Secret(name string) (header, secret string) {
	s := r.Get(name)
	if s == nil {
		return DefaultSecretHeader, ""
	}
	return s.Header, s.Secret
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// Names lists configured sources in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
