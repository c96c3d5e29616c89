// Package openapi renders a validator's field specs as an OpenAPI-compatible
// JSON Schema document, so form definitions can be served to schema-aware
// clients and generators.
package openapi

import (
	"sort"
	"strings"

	validator "github.com/goliatone/go-validator"
)

// Generator builds JSON Schema documents from validator field descriptors.
type Generator struct{}

// NewGenerator constructs an OpenAPI-compatible schema generator.
func NewGenerator() Generator {
	return Generator{}
}

// Generate derives a nested object schema from the validator's declared
// fields. Named rules contribute constraints: "required" populates the
// enclosing object's required list, format rules map onto JSON Schema
// formats, and character-class rules onto patterns.
func (Generator) Generate(v *validator.Validator) (map[string]any, error) {
	root := newObjectSchema()
	descriptors := v.Schema()
	sort.Slice(descriptors, func(i, j int) bool {
		return descriptors[i].Path < descriptors[j].Path
	})

	for _, descriptor := range descriptors {
		segments := strings.Split(descriptor.Path, ".")
		node := root
		for _, segment := range segments[:len(segments)-1] {
			node = childObject(node, segment)
		}
		leaf := segments[len(segments)-1]
		properties := node["properties"].(map[string]any)
		properties[leaf] = fieldSchema(descriptor)
		if descriptor.Required {
			node["required"] = appendRequired(node["required"], leaf)
		}
	}
	return root, nil
}

func newObjectSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

func childObject(node map[string]any, segment string) map[string]any {
	properties := node["properties"].(map[string]any)
	child, ok := properties[segment].(map[string]any)
	if !ok {
		child = newObjectSchema()
		properties[segment] = child
	}
	return child
}

func appendRequired(current any, name string) []string {
	required, _ := current.([]string)
	for _, existing := range required {
		if existing == name {
			return required
		}
	}
	required = append(required, name)
	sort.Strings(required)
	return required
}

func fieldSchema(descriptor validator.FieldDescriptor) map[string]any {
	schema := map[string]any{
		"type": schemaType(descriptor.Type),
	}
	for _, rule := range descriptor.Rules {
		switch rule {
		case "email":
			schema["format"] = "email"
		case "url":
			schema["format"] = "uri"
		case "number":
			schema["type"] = "number"
		case "integer":
			schema["type"] = "integer"
		case "boolean":
			schema["type"] = "boolean"
		case "alpha":
			schema["pattern"] = "^[a-zA-Z]+$"
		case "alphanumeric":
			schema["pattern"] = "^[a-zA-Z0-9]+$"
		}
	}
	if descriptor.Group != "" && descriptor.Group != validator.DefaultGroup {
		schema["x-group"] = descriptor.Group
	}
	return schema
}

func schemaType(goType string) string {
	switch goType {
	case "string":
		return "string"
	case "bool":
		return "boolean"
	case "int", "int64", "json.Number":
		return "integer"
	case "float64":
		return "number"
	case "map[string]interface {}":
		return "object"
	case "[]interface {}", "[]string":
		return "array"
	default:
		return "string"
	}
}
