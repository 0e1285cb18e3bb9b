// Package config loads the engine's configuration keys from a JSON or
// YAML document (selected by file extension), validates it against a
// JSON Schema, and exposes typed accessors with their defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Configuration keys recognized by the engine.
const (
	KeyClassParallelism    = "engine.class.parallelism"
	KeyArgumentParallelism = "engine.argument.parallelism"
	KeyTestClassShuffle    = "engine.test.class.shuffle"
	KeyFiltersFilename     = "engine.filters.filename"
)

// schema rejects unknown top-level keys, non-string values, and
// out-of-range parallelism values. Every value in the configuration map is
// a plain string; the engine's own accessors do the final int/bool
// coercion.
const schema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "engine.class.parallelism": {"type": "string", "pattern": "^[1-9][0-9]*$"},
    "engine.argument.parallelism": {"type": "string", "pattern": "^[1-9][0-9]*$"},
    "engine.test.class.shuffle": {"type": "string", "enum": ["true", "false"]},
    "engine.filters.filename": {"type": "string"}
  }
}`

// Config is the engine's key/value configuration map, exactly the shape
// EngineContext.Configuration() expects.
type Config map[string]string

// Load reads and validates the configuration document at path. Files
// ending in .yaml/.yml are parsed as YAML and re-marshaled to JSON before
// schema validation (gojsonschema validates JSON documents); anything
// else is parsed as JSON directly.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	jsonData := data
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		var generic map[string]any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("config: parsing yaml: %w", err)
		}
		jsonData, err = json.Marshal(generic)
		if err != nil {
			return nil, fmt.Errorf("config: re-marshaling yaml as json: %w", err)
		}
	}

	if err := validate(jsonData); err != nil {
		return nil, err
	}

	cfg := make(Config)
	for key, result := range gjson.ParseBytes(jsonData).Map() {
		cfg[key] = result.String()
	}
	return cfg, nil
}

func validate(jsonData []byte) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(jsonData)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("config: schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var issues []string
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return fmt.Errorf("config: invalid configuration: %s", strings.Join(issues, "; "))
}

// ClassParallelism returns engine.class.parallelism, defaulting to 1.
func (c Config) ClassParallelism() int { return c.intOr(KeyClassParallelism, 1) }

// ArgumentParallelism returns engine.argument.parallelism, defaulting to 1.
func (c Config) ArgumentParallelism() int { return c.intOr(KeyArgumentParallelism, 1) }

// TestClassShuffle returns engine.test.class.shuffle, defaulting to false.
func (c Config) TestClassShuffle() bool {
	return c[KeyTestClassShuffle] == "true"
}

// FiltersFilename returns engine.filters.filename, or "" if unset.
func (c Config) FiltersFilename() string { return c[KeyFiltersFilename] }

func (c Config) intOr(key string, def int) int {
	v, ok := c[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
