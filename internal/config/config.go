// Package config loads optional per-project Lox interpreter settings from
// a JSON file, validating the document against an embedded JSON Schema
// before unmarshaling it into a typed Config.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaDoc constrains lox.config.json the way the teacher's decorator
// parameter schemas constrain decorator arguments: a closed set of known
// keys, each with a type and, where useful, a numeric bound.
const schemaDoc = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"additionalProperties": false,
	"properties": {
		"maxCallDepth": {
			"type": "integer",
			"minimum": 1,
			"maximum": 1000000
		},
		"strictNumericFormatting": {
			"type": "boolean"
		},
		"natives": {
			"type": "object",
			"additionalProperties": {
				"type": "boolean"
			}
		}
	}
}`

// Config is the interpreter's user-facing configuration surface.
type Config struct {
	MaxCallDepth            int             `json:"maxCallDepth"`
	StrictNumericFormatting bool            `json:"strictNumericFormatting"`
	Natives                 map[string]bool `json:"natives"`
}

// Default returns the configuration used when no config file is supplied.
func Default() Config {
	return Config{
		MaxCallDepth:            1024,
		StrictNumericFormatting: true,
		Natives:                 map[string]bool{"clock": true},
	}
}

// Load reads, schema-validates, and parses the config file at path. A
// document that violates the schema is rejected before it ever reaches
// the Go struct, the same "validate before trust" order the teacher's
// decorator-parameter validator uses.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("lox-config.json", strings.NewReader(schemaDoc)); err != nil {
		return Config{}, fmt.Errorf("compiling config schema: %w", err)
	}
	schema, err := compiler.Compile("lox-config.json")
	if err != nil {
		return Config{}, fmt.Errorf("compiling config schema: %w", err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg := Default()
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Natives == nil {
		cfg.Natives = Default().Natives
	}
	return cfg, nil
}
