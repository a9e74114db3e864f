// Package conf resolves structured configuration for checks. A Provider maps
// a qualified dotted key (eg. "modules.test_ssh.TestProtocol") to the config
// value a check was authored against, or reports that no value exists.
package conf

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by a Provider when no value exists for a key.
var ErrNotFound = errors.New("config not found")

// Value is an opaque configuration value handed to a check. Checks know the
// shape of their own config; the core does not inspect it.
type Value interface{}

// Provider resolves qualified config keys.
type Provider interface {
	Get(key string) (Value, error)
}

// YAMLProvider is a Provider backed by a single YAML document.
type YAMLProvider struct {
	root map[string]interface{}
}

// NewYAMLProvider loads the YAML document at path.
func NewYAMLProvider(path string) (*YAMLProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return ParseYAML(data)
}

// ParseYAML builds a provider from raw YAML bytes.
func ParseYAML(data []byte) (*YAMLProvider, error) {
	var root map[string]interface{}
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "failed to parse config file")
	}
	return &YAMLProvider{root: root}, nil
}

// Get walks the document along the dotted key. A missing segment, or a
// non-mapping node encountered before the key is exhausted, means not found.
func (p *YAMLProvider) Get(key string) (Value, error) {
	if p == nil || p.root == nil {
		return nil, ErrNotFound
	}

	var node interface{} = p.root
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil, ErrNotFound
		}
		node, ok = m[part]
		if !ok {
			return nil, ErrNotFound
		}
	}
	return node, nil
}
