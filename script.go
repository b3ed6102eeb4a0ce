package syncvar

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/syncvar/pkg/domain"
	"github.com/aretw0/syncvar/pkg/proxytree"
	"gopkg.in/yaml.v3"
)

// ErrInvalidPath is returned when a step path does not lead to a node.
var ErrInvalidPath = errors.New("invalid step path")

// Op is a script step operation.
type Op string

const (
	OpSet    Op = "set"
	OpDelete Op = "delete"
	OpDefine Op = "define"
)

// Step is a single mutation of a script.
type Step struct {
	Op Op `json:"op" yaml:"op"`

	// Path is dotted and relative to the variable root, e.g. "cells.a".
	Path string `json:"path" yaml:"path"`

	Value any `json:"value,omitempty" yaml:"value,omitempty"`

	// KeepValue applies only the attributes of a define.
	KeepValue bool `json:"keep_value,omitempty" yaml:"keep_value,omitempty"`

	domain.Attributes `yaml:",inline"`
}

// Apply performs the step on root.
func (s Step) Apply(root *proxytree.Node) error {
	parent, key, err := resolve(root, s.Path)
	if err != nil {
		return err
	}

	switch s.Op {
	case OpSet:
		return parent.Set(key, s.Value)
	case OpDelete:
		return parent.Delete(key)
	case OpDefine:
		return parent.Define(key, proxytree.Descriptor{
			Value:      s.Value,
			KeepValue:  s.KeepValue,
			Attributes: s.Attributes,
		})
	}
	return fmt.Errorf("unknown step op %q", s.Op)
}

// resolve walks all but the last key of path and returns the parent node and the last key.
func resolve(root *proxytree.Node, path string) (*proxytree.Node, string, error) {
	keys := strings.Split(path, domain.PathSeparator)
	if path == "" || keys[len(keys)-1] == "" {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	v, ok := root.Lookup(keys[:len(keys)-1]...)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	parent, ok := v.(*proxytree.Node)
	if !ok {
		return nil, "", fmt.Errorf("%w: %q is not a container", ErrInvalidPath, path)
	}
	return parent, keys[len(keys)-1], nil
}

// StepResult is the outcome of one step. Err is the rejection, if any.
type StepResult struct {
	Step Step
	Err  error
}

// Script is a named initial value followed by mutations.
type Script struct {
	Name    string         `json:"name" yaml:"name"`
	Initial map[string]any `json:"initial" yaml:"initial"`
	Steps   []Step         `json:"steps" yaml:"steps"`
}

// LoadScript reads a script from a YAML or JSON file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	var script Script
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		err = json.Unmarshal(data, &script)
	} else {
		err = yaml.Unmarshal(data, &script)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse script %s: %w", path, err)
	}

	if script.Name == "" {
		script.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &script, nil
}

// Apply runs every step against root. Rejected steps do not stop the script.
func (s *Script) Apply(root *proxytree.Node) []StepResult {
	results := make([]StepResult, 0, len(s.Steps))
	for _, step := range s.Steps {
		results = append(results, StepResult{Step: step, Err: step.Apply(root)})
	}
	return results
}

// Run binds the script's initial value under its name and applies the steps.
func (s *Script) Run(b *Binder) (*proxytree.Node, []StepResult, error) {
	initial := s.Initial
	if initial == nil {
		initial = map[string]any{}
	}

	root, err := b.Bind(s.Name, initial)
	if err != nil {
		return nil, nil, err
	}
	return root, s.Apply(root), nil
}
