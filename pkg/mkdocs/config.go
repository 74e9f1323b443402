// Package mkdocs reads and updates mkdocs.yml.
//
// The file is kept as a yaml.v3 node tree, so comments, key order and custom
// tags such as !!python/name survive a load and save round trip.
package mkdocs

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PluginName is the plugin entry holding the apigen settings.
const PluginName = "apigen"

// DocsPlugin renders the stub pages apigen generates.
const DocsPlugin = "mkdocstrings"

// DefaultDocsDir is the mkdocs default for docs_dir.
const DefaultDocsDir = "docs"

// PluginConfig is the configuration of the apigen plugin entry.
type PluginConfig struct {
	Modules         []string `yaml:"modules"`
	NavSectionTitle string   `yaml:"nav_section_title"`
	APIRootURI      string   `yaml:"api_root_uri"`
	Paths           []string `yaml:"paths"`
}

// File is a parsed mkdocs.yml.
type File struct {
	doc yaml.Node
}

// Load reads and parses path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses mkdocs.yml content. An empty document is an empty config.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, &f.doc); err != nil {
		return nil, fmt.Errorf("parsing mkdocs config: %w", err)
	}
	if f.doc.Kind == 0 {
		f.doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if f.root().Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mkdocs config must be a mapping")
	}
	return f, nil
}

func (f *File) root() *yaml.Node {
	return f.doc.Content[0]
}

// DocsDir returns docs_dir, or DefaultDocsDir.
func (f *File) DocsDir() string {
	if v := lookup(f.root(), "docs_dir"); v != nil && v.Kind == yaml.ScalarNode && v.Value != "" {
		return v.Value
	}
	return DefaultDocsDir
}

// Plugin returns the apigen plugin configuration with defaults applied.
// The second result is false when the plugin is not listed.
func (f *File) Plugin() (PluginConfig, bool, error) {
	cfg := PluginConfig{}
	entry, found := f.plugin(PluginName)
	if entry != nil {
		if err := entry.Decode(&cfg); err != nil {
			return cfg, true, fmt.Errorf("decoding %s plugin options: %w", PluginName, err)
		}
	}
	if cfg.NavSectionTitle == "" {
		cfg.NavSectionTitle = "API Reference"
	}
	if cfg.APIRootURI == "" {
		cfg.APIRootURI = "reference"
	}
	if len(cfg.Paths) == 0 {
		cfg.Paths = []string{"."}
	}
	return cfg, found, nil
}

// HasPlugin reports whether the plugin name is listed.
func (f *File) HasPlugin(name string) bool {
	_, found := f.plugin(name)
	return found
}

// plugin returns the options node of a listed plugin, nil when it is listed
// without options.
func (f *File) plugin(name string) (*yaml.Node, bool) {
	plugins := lookup(f.root(), "plugins")
	if plugins == nil {
		return nil, false
	}
	switch plugins.Kind {
	case yaml.SequenceNode:
		for _, item := range plugins.Content {
			switch item.Kind {
			case yaml.ScalarNode:
				if item.Value == name {
					return nil, true
				}
			case yaml.MappingNode:
				if v := lookup(item, name); v != nil {
					return optionsNode(v), true
				}
			}
		}
	case yaml.MappingNode:
		if v := lookup(plugins, name); v != nil {
			return optionsNode(v), true
		}
	}
	return nil, false
}

func optionsNode(v *yaml.Node) *yaml.Node {
	if v.Kind == yaml.MappingNode {
		return v
	}
	return nil
}

// EnsurePlugin lists the plugin name if it is missing, and reports whether it
// was added.
func (f *File) EnsurePlugin(name string) bool {
	if f.HasPlugin(name) {
		return false
	}
	plugins := lookup(f.root(), "plugins")
	if plugins == nil {
		plugins = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		set(f.root(), "plugins", plugins)
	}
	switch plugins.Kind {
	case yaml.MappingNode:
		plugins.Content = append(plugins.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"})
	default:
		plugins.Kind = yaml.SequenceNode
		plugins.Tag = "!!seq"
		plugins.Content = append(plugins.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name})
	}
	return true
}

// Nav returns the nav sequence, or nil when the config has no nav.
func (f *File) Nav() *yaml.Node {
	nav := lookup(f.root(), "nav")
	if nav == nil || nav.Kind != yaml.SequenceNode {
		return nil
	}
	return nav
}

// Bytes renders the config back to YAML.
func (f *File) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&f.doc); err != nil {
		return nil, fmt.Errorf("encoding mkdocs config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the config to path.
func (f *File) Save(path string) error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func lookup(m *yaml.Node, key string) *yaml.Node {
	if m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

func set(m *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
}
