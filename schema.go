package validator

import "fmt"

// FieldDescriptor describes one declared field: its path, inferred value
// type, group membership, and the named rules attached to it.
type FieldDescriptor struct {
	Path     string   `json:"path"`
	Type     string   `json:"type"`
	Group    string   `json:"group"`
	Required bool     `json:"required,omitempty"`
	Rules    []string `json:"rules,omitempty"`
}

// Schema derives flattened field descriptors from the declared specs and the
// current field values. Anonymous rules (patterns, predicates) contribute to
// Required only through the "required" name.
func (v *Validator) Schema() []FieldDescriptor {
	descriptors := make([]FieldDescriptor, 0, len(v.order))
	for _, path := range v.order {
		spec := v.fields[path]
		descriptor := FieldDescriptor{
			Path:  path,
			Group: spec.group(),
		}

		value, ok := v.model.Get(statePath(path, "value"))
		if !ok || value == nil {
			value = spec.Default
		}
		descriptor.Type = typeName(value)

		for _, rule := range v.compiled[path] {
			if rule.name == "" {
				continue
			}
			descriptor.Rules = append(descriptor.Rules, rule.name)
			if rule.name == "required" {
				descriptor.Required = true
			}
		}
		descriptors = append(descriptors, descriptor)
	}
	return descriptors
}

func typeName(value any) string {
	if value == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", value)
}
