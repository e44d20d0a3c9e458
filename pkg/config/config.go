// Package config loads MoFA's ambient configuration: a YAML document
// describing agents, providers, and server settings, with optional
// `.env` loading and hot reload. This mirrors hector's config
// layer (YAML + mapstructure + godotenv + fsnotify) but is scoped to
// the fields cmd/mofa and pkg/plugins actually read, rather than
// hector's ~30-file config surface spanning reasoning strategies,
// auth, and multi-backend storage.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ProviderConfig is one LLM provider entry.
type ProviderConfig struct {
	Type    string         `yaml:"type" mapstructure:"type"`
	Model   string         `yaml:"model" mapstructure:"model"`
	APIKey  string         `yaml:"api_key" mapstructure:"api_key"`
	BaseURL string         `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Extra   map[string]any `yaml:",inline" mapstructure:",remain"`
}

// AgentConfig is one agent entry.
type AgentConfig struct {
	Name        string   `yaml:"name" mapstructure:"name"`
	Description string   `yaml:"description,omitempty" mapstructure:"description"`
	Provider    string   `yaml:"provider" mapstructure:"provider"`
	Instruction string   `yaml:"instruction,omitempty" mapstructure:"instruction"`
	Tools       []string `yaml:"tools,omitempty" mapstructure:"tools"`
}

// ServerConfig holds the CLI/server's own listen settings.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// Config is the top-level document cmd/mofa loads.
type Config struct {
	Server    ServerConfig              `yaml:"server" mapstructure:"server"`
	Providers map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Agents    map[string]AgentConfig    `yaml:"agents" mapstructure:"agents"`
	Plugins   map[string]map[string]any `yaml:"plugins,omitempty" mapstructure:"plugins"`
}

// DefaultConfig returns a minimal runnable config.
func DefaultConfig() *Config {
	return &Config{Server: ServerConfig{Port: 8080}}
}

// Load reads and decodes a YAML config file. LoadDotEnv for the same
// directory should be called first if `.env` values are referenced
// via `${VAR}`-style fields (the workflow DSL and plugin manifests do
// their own substitution; Config's string fields are taken literally).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("config: build decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads a `.env` file from the given directory, if one
// exists. Missing files are not an error.
func LoadDotEnv(dir string) error {
	path := dir + "/.env"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

// Watcher reloads Config when its backing file changes on disk.
type Watcher struct {
	path string
	w    *fsnotify.Watcher

	mu  sync.RWMutex
	cfg *Config
}

// NewWatcher loads path once and begins watching it for changes.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: create watcher: %w", err)
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	cw := &Watcher{path: path, w: fw, cfg: cfg}
	go cw.loop()
	return cw, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.w.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if cfg, err := Load(w.path); err == nil {
				w.mu.Lock()
				w.cfg = cfg
				w.mu.Unlock()
			}
		case _, ok := <-w.w.Errors:
			if !ok {
				return
			}
		}
	}
}

// Current returns the most recently loaded Config.
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cfg
}

// Close stops watching.
func (w *Watcher) Close() error { return w.w.Close() }
