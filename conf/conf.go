// Package conf loads YAML configuration files into named blocks whose
// scalar values keep their source line numbers, so validation errors
// can point at the offending line.
package conf

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// nullTag marks a YAML null node, the value of a bare "name:" line.
const nullTag = "!!null"

// Config is a parsed configuration file.
type Config struct {
	path string
	root *yaml.Node
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data, path)
}

// Parse parses YAML configuration data. path appears in error messages
// only.
func Parse(data []byte, path string) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(doc.Content) == 0 {
		return &Config{path: path}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse %s: top level is not a mapping", path)
	}
	return &Config{path: path, root: root}, nil
}

// Path returns the file path the configuration came from.
func (c *Config) Path() string { return c.path }

// Block returns the named top-level block. ok is false when the block
// is absent or not a mapping. A bare "name:" line is an empty block,
// not a missing one.
func (c *Config) Block(name string) (*Block, bool) {
	if c.root == nil {
		return nil, false
	}
	for i := 0; i+1 < len(c.root.Content); i += 2 {
		k, v := c.root.Content[i], c.root.Content[i+1]
		if k.Value != name {
			continue
		}
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if v.Kind == yaml.MappingNode {
			return &Block{name: name, node: v}, true
		}
		if v.Kind == yaml.ScalarNode && v.Tag == nullTag {
			return &Block{name: name}, true
		}
		return nil, false
	}
	return nil, false
}

// Block is one named mapping of configuration settings.
type Block struct {
	name string
	node *yaml.Node
}

// Name returns the block name.
func (b *Block) Name() string { return b.name }

// Lookup reports the raw scalar for key together with its line in the
// source file. ok is false when the key is absent or not a scalar.
func (b *Block) Lookup(key string) (raw string, line int, ok bool) {
	if b == nil || b.node == nil {
		return "", 0, false
	}
	for i := 0; i+1 < len(b.node.Content); i += 2 {
		k, v := b.node.Content[i], b.node.Content[i+1]
		if k.Value != key {
			continue
		}
		if v.Kind == yaml.AliasNode && v.Alias != nil {
			v = v.Alias
		}
		if v.Kind != yaml.ScalarNode {
			return "", 0, false
		}
		return v.Value, v.Line, true
	}
	return "", 0, false
}
