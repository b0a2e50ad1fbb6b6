// Package config loads sanitizer policy from YAML files.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/dsh2dsh/xssfilter"
)

// Config describes changes of the default blacklists.
//
//	block_tags: [marquee, blink]
//	block_mime_types: [text/x-custom]
//	allow_tags: [form]
type Config struct {
	// BlockTags are removed with their content, in addition to the default
	// blacklist.
	BlockTags []string `yaml:"block_tags"`

	// BlockMimeTypes in a type attribute remove the element carrying it.
	BlockMimeTypes []string `yaml:"block_mime_types"`

	// AllowTags are removed from the default blacklist. BlockTags win over
	// AllowTags.
	AllowTags []string `yaml:"allow_tags"`
}

// Load reads and parses config file at path.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	cfg, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "config %q", path)
	}
	return cfg, nil
}

// Parse parses YAML config. Unknown keys are errors.
func Parse(b []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}
	return cfg, nil
}

// Policy returns a new policy with the default blacklists changed according
// to the config.
func (self *Config) Policy() *xssfilter.Policy {
	return xssfilter.NewPolicy().
		AllowElements(self.AllowTags...).
		BlockElements(self.BlockTags...).
		BlockMimeTypes(self.BlockMimeTypes...)
}
