// Package plugin implements the release pipeline steps and the registry that
// builds them from configuration.
package plugin

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/rl1809/packdemo/internal/config"
	"github.com/rl1809/packdemo/internal/port"
)

const (
	CommitAnalyzerName = "@semantic-release/commit-analyzer"
	ReleaseNotesName   = "@semantic-release/release-notes-generator"
	ChangelogName      = "@semantic-release/changelog"
	ExecName           = "@semantic-release/exec"
	NPMName            = "@semantic-release/npm"
	GitName            = "@semantic-release/git"
	GitHubName         = "@semantic-release/github"
)

// Deps are the collaborators plugins may use.
type Deps struct {
	Git        port.GitRepository
	Runner     port.CommandRunner
	HTTPClient *http.Client
	Getenv     func(string) string
	Logger     *slog.Logger
}

func (d Deps) withDefaults() Deps {
	if d.HTTPClient == nil {
		d.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if d.Getenv == nil {
		d.Getenv = os.Getenv
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

type Factory func(opts Options, deps Deps) (port.Plugin, error)

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry knows every built-in plugin.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.MustRegister(CommitAnalyzerName, NewCommitAnalyzer)
	reg.MustRegister(ReleaseNotesName, NewReleaseNotesGenerator)
	reg.MustRegister(ChangelogName, NewChangelog)
	reg.MustRegister(ExecName, NewExec)
	reg.MustRegister(NPMName, NewNPM)
	reg.MustRegister(GitName, NewGit)
	reg.MustRegister(GitHubName, NewGitHub)
	return reg
}

func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return fmt.Errorf("plugin: name is required")
	}
	if factory == nil {
		return fmt.Errorf("plugin %s: factory is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("plugin %s: already registered", name)
	}
	r.factories[name] = factory
	return nil
}

func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build instantiates the configured plugins, keeping their order.
func (r *Registry) Build(specs []config.PluginSpec, deps Deps) ([]port.Plugin, error) {
	deps = deps.withDefaults()
	plugins := make([]port.Plugin, 0, len(specs))
	for i, spec := range specs {
		r.mu.RLock()
		factory, ok := r.factories[spec.Name]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("plugins[%d]: unknown plugin %q", i, spec.Name)
		}
		p, err := factory(Options(spec.Options), deps)
		if err != nil {
			return nil, fmt.Errorf("plugins[%d] %s: %w", i, spec.Name, err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}
