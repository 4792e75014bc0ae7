package lessonapi

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// schema names a JSON Schema definition for a response body.
type schema struct {
	Name       string
	Definition map[string]any
}

var nullableString = map[string]any{"type": []any{"string", "null"}}
var nullableInt = map[string]any{"type": []any{"integer", "null"}}

var gradingSchema = &schema{
	Name: "grading_response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correct":     map[string]any{"type": "boolean"},
			"explanation": nullableString,
			"hint":        nullableString,
			"correct_answers": map[string]any{
				"type":  []any{"array", "null"},
				"items": map[string]any{"type": "string"},
			},
			"error": nullableString,
		},
	},
}

var completionSchema = &schema{
	Name: "completion_response",
	Definition: map[string]any{
		"type":     "object",
		"required": []any{"success"},
		"properties": map[string]any{
			"success":           map[string]any{"type": "boolean"},
			"already_completed": map[string]any{"type": "boolean"},
			"experience_added":  nullableInt,
			"experience_gained": nullableInt,
			"level_up":          map[string]any{"type": "boolean"},
			"old_level":         nullableInt,
			"new_level":         nullableInt,
			"message":           nullableString,
		},
	},
}

// schemaCache caches compiled JSON schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// decodeResponse parses raw as JSON, validates it against s and decodes it
// into dst. Every failure is a *ProtocolError.
func decodeResponse(s *schema, raw []byte, dst any) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ProtocolError{Body: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := getCompiledSchema(s)
	if err != nil {
		return &ProtocolError{Body: raw, Err: fmt.Errorf("compile schema %q: %w", s.Name, err)}
	}
	if err := compiled.Validate(parsed); err != nil {
		return &ProtocolError{Body: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return &ProtocolError{Body: raw, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}

// getCompiledSchema returns a cached compiled schema or compiles and caches it.
func getCompiledSchema(s *schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(s.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a decoded JSON value, so round-trip the Go literal.
	defBytes, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	schemaURL := fmt.Sprintf("schema://%s.json", s.Name)
	if err := c.AddResource(schemaURL, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}

	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(s.Name, compiled)
	return compiled, nil
}
