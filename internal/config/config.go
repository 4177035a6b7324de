// Package config reads and writes billconv rules files.
package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/billconv/internal/common"
	"github.com/cleared-dev/billconv/internal/importer"
	"github.com/cleared-dev/billconv/internal/model"
	"github.com/cleared-dev/billconv/internal/rules"
)

// File is a rules file. Each provider entry replaces the non-empty sections
// of that provider's built-in rule table.
type File struct {
	Providers map[string]rules.Set `yaml:"providers"`
}

// Load reads a rules file from disk.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading rules: %w", common.ErrConfig, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: parsing rules %s: %w", common.ErrConfig, path, err)
	}
	return &f, nil
}

// Save writes f as YAML.
func Save(path string, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing rules: %w", common.ErrIO, err)
	}
	return nil
}

// Marshal encodes f as YAML.
func Marshal(f *File) ([]byte, error) {
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshaling rules: %w", err)
	}
	return data, nil
}

// FromRegistry returns the effective rule tables of every adapter in reg.
func FromRegistry(reg *importer.Registry) *File {
	f := &File{Providers: make(map[string]rules.Set)}
	for _, a := range reg.All() {
		f.Providers[a.Format()] = a.Rules()
	}
	return f
}

// Apply overrides the rule tables in reg. Provider keys may use aliases.
// Keys are applied in sorted order so errors are reported deterministically.
func (f *File) Apply(reg *importer.Registry) error {
	keys := make([]string, 0, len(f.Providers))
	for k := range f.Providers {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		p, err := model.ParseProvider(k)
		if err != nil {
			return fmt.Errorf("rules file: %w", err)
		}
		if err := reg.Override(string(p), f.Providers[k]); err != nil {
			return err
		}
	}
	return nil
}
