// Package schemas holds the JSON Schemas for data-pack documents.
package schemas

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed multiblock.schema.json
var multiblockSchema string

const multiblockURL = "https://multiblock.ai/schemas/multiblock.schema.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// Multiblock returns the compiled schematic schema.
func Multiblock() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource(multiblockURL, bytes.NewReader([]byte(multiblockSchema))); err != nil {
			compileErr = err
			return
		}
		compiled, compileErr = c.Compile(multiblockURL)
	})
	return compiled, compileErr
}

// ValidateMultiblock checks a JSON schematic's shape. It catches structural
// mistakes early; references to blocks and keys are still checked by
// multiblock.Parse.
func ValidateMultiblock(raw []byte) error {
	s, err := Multiblock()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("schematic: %w", err)
	}
	return s.Validate(v)
}

// ValidateMultiblockYAML checks a YAML schematic against the same schema. The
// document is converted to its JSON equivalent first; non-string mapping keys
// (a digit used as a symbol, say) become their string form.
func ValidateMultiblockYAML(raw []byte) error {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("schematic: %w", err)
	}
	b, err := json.Marshal(jsonCompatible(v))
	if err != nil {
		return fmt.Errorf("schematic: %w", err)
	}
	return ValidateMultiblock(b)
}

func jsonCompatible(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = jsonCompatible(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = jsonCompatible(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = jsonCompatible(e)
		}
		return out
	default:
		return v
	}
}
