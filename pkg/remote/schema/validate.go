// Package schema validates remote configuration payloads against
// embedded JSON Schema documents, one per remote kind.
package schema

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Validator validates JSON payloads against JSON Schema documents.
// Compiled schemas are cached keyed by their raw bytes.
type Validator struct {
	mu    sync.RWMutex
	cache map[string]*jsonschema.Schema
}

// NewValidator creates a Validator with an empty cache.
func NewValidator() *Validator {
	return &Validator{cache: make(map[string]*jsonschema.Schema)}
}

// Validate validates payload against the given schema document.
// An empty document means no validation.
func (v *Validator) Validate(schemaDoc json.RawMessage, payload map[string]any) error {
	if len(schemaDoc) == 0 || string(schemaDoc) == "{}" || string(schemaDoc) == "null" {
		return nil
	}

	compiled, err := v.compile(schemaDoc)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	return compiled.Validate(payload)
}

func (v *Validator) compile(schemaDoc json.RawMessage) (*jsonschema.Schema, error) {
	key := string(schemaDoc)

	v.mu.RLock()
	if s, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return s, nil
	}
	v.mu.RUnlock()

	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.cache[key]; ok {
		return s, nil
	}

	var schemaMap any
	if err := json.Unmarshal(schemaDoc, &schemaMap); err != nil {
		return nil, fmt.Errorf("unmarshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaMap); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	v.cache[key] = compiled
	return compiled, nil
}

// Shared fragments. Pins carry the valid BCM range so clients can
// surface it; unknown fields are rejected at ingest rather than at
// first use.
const (
	pinProp   = `{"type": "integer", "minimum": 4, "maximum": 26}`
	nameProp  = `{"type": "string", "minLength": 1}`
	emailList = `{"type": "string", "pattern": "^$|^\\s*[^@,]+@[^@,]+\\.[^@,]+(\\s*,\\s*[^@,]+@[^@,]+\\.[^@,]+)*\\s*$"}`
)

var leafSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"pin": ` + pinProp + `,
		"name": ` + nameProp + `,
		"kind": {"type": "string", "enum": ["simple_output", "switch", "motion"]},
		"keep_on": {"type": "boolean"},
		"photo_toggle": {"type": "boolean"}
	},
	"required": ["pin", "name", "kind"],
	"additionalProperties": false
}`)

var alarmSchema = json.RawMessage(`{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"properties": {
		"pin": ` + pinProp + `,
		"name": ` + nameProp + `,
		"kind": {"type": "string", "const": "alarm"},
		"keep_on": {"type": "boolean"},
		"pin_buzzer": ` + pinProp + `,
		"pin_motion": ` + pinProp + `,
		"emails": ` + emailList + `,
		"photo_toggle": {"type": "boolean"}
	},
	"required": ["pin", "name", "kind", "pin_buzzer", "pin_motion"],
	"additionalProperties": false
}`)

// ForKind returns the configuration schema for a remote kind. Unknown
// kinds get the leaf schema, whose kind enum will reject them.
func ForKind(kind string) json.RawMessage {
	if kind == "alarm" {
		return alarmSchema
	}
	return leafSchema
}
