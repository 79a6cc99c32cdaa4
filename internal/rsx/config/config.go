// Package config loads rsx.yaml and per-template data files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianc/rsx/internal/rsx/render"
)

// FileName is the config file looked up at the module root.
const FileName = "rsx.yaml"

// dataExts are tried in order next to a template to find its data file.
var dataExts = []string{".yaml", ".yml", ".json"}

type Config struct {
	// Mode is used for templates without a mode prefix.
	Mode render.Mode `yaml:"mode"`
	// Doctype forces the doctype line on every rendered template.
	Doctype bool `yaml:"doctype"`
	// Sanitize runs expression values through the HTML sanitizer.
	Sanitize bool           `yaml:"sanitize"`
	Data     map[string]any `yaml:"data"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{Mode: render.Lined}
}

// Load reads a YAML config file. An empty path yields Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Find returns the path of FileName in dir, or "" when there is none.
func Find(dir string) (string, error) {
	p := filepath.Join(dir, FileName)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return p, nil
}

// LoadData reads a YAML or JSON mapping.
func LoadData(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	data := map[string]any{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("config: parse data %s: %w", path, err)
	}
	return data, nil
}

// DataPath returns the data file that belongs to a template, e.g.
// page.yaml for page.rsx, or "" when there is none.
func DataPath(templatePath string) string {
	base := strings.TrimSuffix(templatePath, filepath.Ext(templatePath))
	for _, ext := range dataExts {
		p := base + ext
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

// DataFor returns the config data with the template's own data file
// merged over it. Keys are merged at the top level only.
func (c *Config) DataFor(templatePath string) (map[string]any, error) {
	out := make(map[string]any, len(c.Data))
	for k, v := range c.Data {
		out[k] = v
	}
	p := DataPath(templatePath)
	if p == "" {
		return out, nil
	}
	local, err := LoadData(p)
	if err != nil {
		return nil, err
	}
	for k, v := range local {
		out[k] = v
	}
	return out, nil
}
