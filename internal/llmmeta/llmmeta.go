// Package llmmeta resolves the LLM pragma metadata attached to a
// primitive-operation declaration (spec §4.2 `{-# LLM k=v, ... #-}`)
// against a bundled model catalog, grounded on the teacher's
// internal/eval_harness model-config pattern: a YAML document of named
// model defaults, with per-declaration pragma values overriding them.
package llmmeta

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sunholo/sysf/internal/module"
)

// ModelDefaults is one named entry in the catalog.
type ModelDefaults struct {
	Provider    string  `yaml:"provider"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ModelCatalog is the parsed form of the bundled YAML catalog.
type ModelCatalog struct {
	Default string                   `yaml:"default"`
	Models  map[string]ModelDefaults `yaml:"models"`
}

// DefaultCatalogYAML is the catalog shipped with the implementation. It
// is intentionally small: enough named models to give every provider in
// the spec's illustrative pragma examples a resolvable default.
const DefaultCatalogYAML = `
default: gpt-4

models:
  gpt-4:
    provider: openai
    temperature: 0.2
    max_tokens: 1024
  gpt-3.5-turbo:
    provider: openai
    temperature: 0.2
    max_tokens: 1024
  claude-3-haiku:
    provider: anthropic
    temperature: 0.0
    max_tokens: 1024
`

// LoadCatalog parses a YAML document into a ModelCatalog.
func LoadCatalog(data []byte) (*ModelCatalog, error) {
	var cat ModelCatalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("llmmeta: parsing model catalog: %w", err)
	}
	if cat.Default == "" {
		return nil, fmt.Errorf("llmmeta: model catalog has no default model")
	}
	return &cat, nil
}

// Resolved is a fully-resolved model configuration for one primitive
// operation: pragma-supplied values take precedence over the catalog
// entry's defaults, which in turn take precedence over the catalog's
// global default model.
type Resolved struct {
	Model       string
	Provider    string
	Temperature float64
	MaxTokens   int
}

// Resolve merges a prim_op's LLM pragma metadata with the catalog,
// following the override order described on Resolved.
func (c *ModelCatalog) Resolve(meta module.LLMMetadata) (Resolved, error) {
	modelName := meta.Model
	if modelName == "" {
		modelName = c.Default
	}
	base, ok := c.Models[modelName]
	if !ok {
		return Resolved{}, fmt.Errorf("llmmeta: unknown model %q", modelName)
	}

	r := Resolved{
		Model:       modelName,
		Provider:    base.Provider,
		Temperature: base.Temperature,
		MaxTokens:   base.MaxTokens,
	}
	if meta.Provider != "" {
		r.Provider = meta.Provider
	}
	if meta.Temperature != "" {
		var t float64
		if _, err := fmt.Sscanf(meta.Temperature, "%g", &t); err != nil {
			return Resolved{}, fmt.Errorf("llmmeta: invalid temperature %q for %q: %w", meta.Temperature, meta.Name, err)
		}
		r.Temperature = t
	}
	return r, nil
}
