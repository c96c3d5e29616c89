package validator

import (
	"regexp"
	"testing"

	"github.com/goliatone/go-validator/pkg/state"
)

func TestParseFieldsBareValue(t *testing.T) {
	fields, err := ParseFields("signup", map[string]any{
		"age": 30,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spec, ok := fields["age"]
	if !ok || spec.Default != 30 {
		t.Fatalf("expected bare value as default, got %+v", spec)
	}
	if len(spec.Validations) != 0 {
		t.Fatalf("expected no validations, got %v", spec.Validations)
	}
}

func TestParseFieldsFullDefinition(t *testing.T) {
	fields, err := ParseFields("signup", map[string]any{
		"email": map[string]any{
			"default": "ada@example.com",
			"group":   "contact",
			"validations": []any{
				map[string]any{"rule": "required"},
				map[string]any{"rule": "email", "message": "bad address"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spec := fields["email"]
	if spec.Default != "ada@example.com" || spec.Group != "contact" {
		t.Fatalf("unexpected spec: %+v", spec)
	}
	if len(spec.Validations) != 2 {
		t.Fatalf("expected two validations, got %d", len(spec.Validations))
	}
	if spec.Validations[0].Rule != "required" {
		t.Fatalf("expected named rule, got %v", spec.Validations[0].Rule)
	}
	if spec.Validations[1].Message != "bad address" {
		t.Fatalf("expected message carried, got %+v", spec.Validations[1])
	}
}

func TestParseFieldsPatternRule(t *testing.T) {
	fields, err := ParseFields("signup", map[string]any{
		"code": map[string]any{
			"validations": []any{
				map[string]any{"rule": `/^\d{4}$/`},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pattern, ok := fields["code"].Validations[0].Rule.(*regexp.Regexp)
	if !ok {
		t.Fatalf("expected compiled pattern, got %T", fields["code"].Validations[0].Rule)
	}
	if !pattern.MatchString("1234") || pattern.MatchString("12") {
		t.Fatalf("unexpected pattern semantics: %v", pattern)
	}
}

func TestParseFieldsExprRule(t *testing.T) {
	fields, err := ParseFields("signup", map[string]any{
		"age": map[string]any{
			"validations": []any{
				map[string]any{"rule": "expr: value >= 18"},
			},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expr, ok := fields["age"].Validations[0].Rule.(Expr)
	if !ok || expr != Expr("value >= 18") {
		t.Fatalf("expected expression rule, got %v", fields["age"].Validations[0].Rule)
	}
}

func TestParseFieldsBadPattern(t *testing.T) {
	_, err := ParseFields("signup", map[string]any{
		"code": map[string]any{
			"validations": []any{
				map[string]any{"rule": "/[unclosed/"},
			},
		},
	})
	if err == nil {
		t.Fatal("expected pattern compile error")
	}
}

func TestParseFieldsEmptyPayload(t *testing.T) {
	if _, err := ParseFields("signup", nil); err == nil {
		t.Fatal("expected error for empty payload")
	}
}

func TestParsedFieldsDriveValidator(t *testing.T) {
	fields, err := ParseFields("signup", map[string]any{
		"email": map[string]any{
			"validations": []any{
				map[string]any{"rule": "required"},
				map[string]any{"rule": "email"},
			},
		},
	})
	if err != nil {
		t.Fatalf("ParseFields: %v", err)
	}

	store := state.NewMemoryStore()
	v, err := New(store.Scope("form"), WithFields(fields))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(v.Teardown)

	v.model.Set("email.value", "ada@example.com")
	v.Validate("email", func(valid bool) {
		if !valid {
			t.Fatal("expected parsed rules to validate")
		}
	})
}
