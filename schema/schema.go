// Package schema provides JSON Schema building and validation utilities.
//
// # Quick Start
//
//	s := schema.MustCompile(schema.Object(map[string]*schema.Property{
//	    "lhef":           schema.String("Path to the event file").MinLength(1),
//	    "numberOfEvents": schema.Integer("Nominal event target").Min(1),
//	}, "lhef")) // "lhef" is required
//
//	err := s.Validate(doc)
//
// Settings files are YAML; decode them, re-encode as JSON and pass the bytes
// to [Schema.ValidateJSON] so numbers reach the validator in JSON form.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema represents a JSON Schema definition.
// It provides both the raw map representation and a compiled validator.
type Schema struct {
	raw      map[string]any
	compiled *jsonschema.Schema
}

// Raw returns the underlying map[string]any representation.
func (s *Schema) Raw() map[string]any {
	if s == nil {
		return nil
	}
	return s.raw
}

// Validate validates the given data against the schema. Data must be a
// JSON-compatible value (as produced by jsonschema.UnmarshalJSON).
// Returns nil if valid, or a *ValidationError.
func (s *Schema) Validate(data any) error {
	if s == nil || s.compiled == nil {
		return nil
	}
	err := s.compiled.Validate(data)
	if err != nil {
		return &ValidationError{Err: err}
	}
	return nil
}

// ValidateJSON decodes raw JSON and validates it against the schema.
func (s *Schema) ValidateJSON(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	return s.Validate(doc)
}

// ValidationError wraps a JSON Schema validation error with a cleaner message.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %v", e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Compile compiles a raw schema map into a Schema with a compiled validator.
// Returns an error if the schema is invalid.
func Compile(raw map[string]any) (*Schema, error) {
	if raw == nil {
		return nil, nil
	}

	// Marshal the schema to JSON for the compiler
	schemaJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	// Unmarshal into the format expected by jsonschema
	schemaData, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", schemaData); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	return &Schema{
		raw:      raw,
		compiled: compiled,
	}, nil
}

// MustCompile is like Compile but panics on error.
// Use this for schemas defined at init time.
func MustCompile(raw map[string]any) *Schema {
	s, err := Compile(raw)
	if err != nil {
		panic(err)
	}
	return s
}

// -----------------------------------------------------------------------------
// Schema Builders
// -----------------------------------------------------------------------------

// Object creates an object schema with the given properties.
// Pass property names as variadic arguments to mark them as required.
// Unknown properties are rejected.
func Object(properties map[string]*Property, required ...string) map[string]any {
	props := make(map[string]any, len(properties))
	for name, prop := range properties {
		props[name] = prop.build()
	}

	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}

	if len(required) > 0 {
		schema["required"] = required
	}

	return schema
}

// Property represents a property in an object schema.
type Property struct {
	typ         string
	description string
	minimum     *float64
	minLength   *int
	minItems    *int
	items       map[string]any
	object      map[string]any
	def         any // default value
}

func (p *Property) build() map[string]any {
	m := map[string]any{}

	// Nested objects start from their own schema
	for k, v := range p.object {
		m[k] = v
	}

	if p.typ != "" {
		m["type"] = p.typ
	}
	if p.description != "" {
		m["description"] = p.description
	}
	if p.minimum != nil {
		m["minimum"] = *p.minimum
	}
	if p.minLength != nil {
		m["minLength"] = *p.minLength
	}
	if p.minItems != nil {
		m["minItems"] = *p.minItems
	}
	if p.items != nil {
		m["items"] = p.items
	}
	if p.def != nil {
		m["default"] = p.def
	}

	return m
}

// String creates a string property.
//
//	schema.String("Path to the event file").MinLength(1)
func String(description string) *Property {
	return &Property{typ: "string", description: description}
}

// Integer creates an integer property.
//
//	schema.Integer("Abort ceiling").Min(0).Default(10)
func Integer(description string) *Property {
	return &Property{typ: "integer", description: description}
}

// Number creates a number property (floating point).
func Number(description string) *Property {
	return &Property{typ: "number", description: description}
}

// Array creates an array property with the given item schema.
//
//	schema.Array("Subruns", schema.Object(map[string]*schema.Property{
//	    "lhef": schema.String("Event file"),
//	}, "lhef")).MinItems(1)
func Array(description string, items map[string]any) *Property {
	return &Property{typ: "array", description: description, items: items}
}

// NestedObject creates an object property from an [Object] schema.
func NestedObject(description string, object map[string]any) *Property {
	return &Property{description: description, object: object}
}

// Min sets the minimum value for number/integer properties.
func (p *Property) Min(min float64) *Property {
	p.minimum = &min
	return p
}

// MinLength sets the minimum length for string properties.
func (p *Property) MinLength(min int) *Property {
	p.minLength = &min
	return p
}

// MinItems sets the minimum number of items for array properties.
func (p *Property) MinItems(min int) *Property {
	p.minItems = &min
	return p
}

// Default sets the default value for the property. It is an annotation only;
// the validator never fills it in.
func (p *Property) Default(value any) *Property {
	p.def = value
	return p
}
