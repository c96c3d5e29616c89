package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-validator/internal/hydrate"
)

type fieldPayload struct {
	Default     any                 `json:"default"`
	Group       string              `json:"group"`
	Validations []validationPayload `json:"validations"`
}

type validationPayload struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ParseFields hydrates a raw JSON-shaped payload into field specs. Each entry
// is either a full definition ({default, group, validations}) or a bare value
// used as the field default. Rule strings support three forms: "/…/" compiles
// to a pattern, an "expr:" prefix becomes an expression rule, anything else
// is a rule name resolved at construction.
func ParseFields(form string, payload map[string]any) (map[string]FieldSpec, error) {
	if len(payload) == 0 {
		return nil, &ConfigurationError{Reason: "field payload is empty"}
	}

	decoder := hydrate.NewDecoder[fieldPayload]()
	fields := make(map[string]FieldSpec, len(payload))
	for path, raw := range payload {
		entry, ok := raw.(map[string]any)
		if !ok {
			fields[path] = FieldSpec{Default: raw}
			continue
		}

		decoded, err := decoder.Decode(hydrate.Context{Form: form, Path: path}, entry)
		if err != nil {
			return nil, err
		}

		spec := FieldSpec{
			Default: decoded.Default,
			Group:   decoded.Group,
		}
		for _, validation := range decoded.Validations {
			rule, err := parseRuleRef(path, validation.Rule)
			if err != nil {
				return nil, err
			}
			spec.Validations = append(spec.Validations, Validation{
				Rule:    rule,
				Message: validation.Message,
			})
		}
		fields[path] = spec
	}
	return fields, nil
}

func parseRuleRef(path, ref string) (any, error) {
	if ref == "" {
		return nil, &InvalidRuleTypeError{Field: path, Rule: ref}
	}
	if len(ref) > 2 && strings.HasPrefix(ref, "/") && strings.HasSuffix(ref, "/") {
		pattern, err := regexp.Compile(ref[1 : len(ref)-1])
		if err != nil {
			return nil, fmt.Errorf("validator: field %q pattern rule: %w", path, err)
		}
		return pattern, nil
	}
	if rest, ok := strings.CutPrefix(ref, "expr:"); ok {
		return Expr(strings.TrimSpace(rest)), nil
	}
	return ref, nil
}
