package validator

import (
	"errors"
	"regexp"
	"testing"
)

// settleSync runs a launcher that settles inline and returns the outcome.
func settleSync(t *testing.T, rule compiledRule, value any) bool {
	t.Helper()
	settled := false
	var outcome bool
	rule.launch(nil, "field", value, func(valid bool, _ any) {
		settled = true
		outcome = valid
	})
	if !settled {
		t.Fatal("expected rule to settle synchronously")
	}
	return outcome
}

func TestResolveValidationTableRule(t *testing.T) {
	cfg := config{}
	rule, err := resolveValidation("email", Validation{Rule: "email"}, &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule.name != "email" {
		t.Fatalf("unexpected name: %q", rule.name)
	}
	if rule.message != "must be a valid email address" {
		t.Fatalf("unexpected message: %q", rule.message)
	}
	if !settleSync(t, rule, "ada@example.com") {
		t.Fatal("expected valid address to pass")
	}
	if settleSync(t, rule, "nope") {
		t.Fatal("expected invalid address to fail")
	}
}

func TestResolveValidationUnknownName(t *testing.T) {
	cfg := config{}
	_, err := resolveValidation("email", Validation{Rule: "no-such-rule"}, &cfg)
	var unknown *UnknownRuleError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownRuleError, got %v", err)
	}
	if unknown.Field != "email" || unknown.Name != "no-such-rule" {
		t.Fatalf("unexpected error details: %+v", unknown)
	}
}

func TestResolveValidationInstanceRules(t *testing.T) {
	cfg := config{
		rules: map[string]any{
			"even": Predicate(func(value any) bool {
				n, _ := value.(int)
				return n%2 == 0
			}),
		},
	}
	rule, err := resolveValidation("count", Validation{Rule: "even"}, &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settleSync(t, rule, 4) || settleSync(t, rule, 3) {
		t.Fatal("expected instance rule semantics")
	}
}

func TestResolveValidationNestedNameRejected(t *testing.T) {
	cfg := config{rules: map[string]any{"alias": "email"}}
	_, err := resolveValidation("email", Validation{Rule: "alias"}, &cfg)
	var invalid *InvalidRuleTypeError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRuleTypeError, got %v", err)
	}
}

func TestResolveValidationRegistryFunction(t *testing.T) {
	registry := NewFunctionRegistry()
	if err := registry.Register("nonempty", func(args ...any) (any, error) {
		value, _ := args[0].(string)
		return value != "", nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	cfg := config{functions: registry}
	rule, err := resolveValidation("name", Validation{Rule: "nonempty"}, &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settleSync(t, rule, "Ada") || settleSync(t, rule, "") {
		t.Fatal("expected registry function to back the named rule")
	}
}

func TestResolveMessagePrecedence(t *testing.T) {
	cfg := config{messages: map[string]string{"email": "instance message"}}

	if got := resolveMessage("email", "explicit", &cfg); got != "explicit" {
		t.Fatalf("expected explicit message, got %q", got)
	}
	if got := resolveMessage("email", "", &cfg); got != "instance message" {
		t.Fatalf("expected instance message, got %q", got)
	}
	if got := resolveMessage("required", "", &config{}); got != "field is required" {
		t.Fatalf("expected table message, got %q", got)
	}
	if got := resolveMessage("", "", &config{}); got != genericMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestCompileLauncherVariants(t *testing.T) {
	cfg := config{}

	pattern, err := resolveValidation("code", Validation{Rule: regexp.MustCompile(`^\d{4}$`)}, &cfg)
	if err != nil {
		t.Fatalf("pattern: %v", err)
	}
	if !settleSync(t, pattern, "1234") || settleSync(t, pattern, "12") {
		t.Fatal("expected pattern rule semantics")
	}
	if settleSync(t, pattern, nil) {
		t.Fatal("expected nil value to fail pattern match")
	}

	bare, err := resolveValidation("flag", Validation{Rule: func(value any) bool {
		return value == true
	}}, &cfg)
	if err != nil {
		t.Fatalf("bare predicate: %v", err)
	}
	if !settleSync(t, bare, true) {
		t.Fatal("expected bare predicate to pass")
	}

	async, err := resolveValidation("remote", Validation{Rule: AsyncPredicate(func(value any, settle SettleFunc) {
		settle(value == "ok", "details")
	})}, &cfg)
	if err != nil {
		t.Fatalf("async: %v", err)
	}
	var invalidAt any
	async.launch(nil, "remote", "nope", func(valid bool, at any) {
		if valid {
			t.Fatal("expected async rule to fail")
		}
		invalidAt = at
	})
	if invalidAt != "details" {
		t.Fatalf("expected invalidAt payload, got %v", invalidAt)
	}

	fn, err := resolveValidation("count", Validation{Rule: Function(func(args ...any) (any, error) {
		return args[0] != nil, nil
	})}, &cfg)
	if err != nil {
		t.Fatalf("function: %v", err)
	}
	if !settleSync(t, fn, 1) || settleSync(t, fn, nil) {
		t.Fatal("expected function rule semantics")
	}
}

func TestCompileLauncherRejectsBadRules(t *testing.T) {
	cfg := config{}
	if _, err := resolveValidation("x", Validation{Rule: 42}, &cfg); err == nil {
		t.Fatal("expected error for int rule")
	}
	if _, err := resolveValidation("x", Validation{Rule: Expr("")}, &cfg); err == nil {
		t.Fatal("expected error for empty expression rule")
	}
	if _, err := resolveValidation("x", Validation{Rule: nil}, &cfg); err == nil {
		t.Fatal("expected error for nil rule")
	}
}

func TestStringify(t *testing.T) {
	if got := stringify(nil); got != "" {
		t.Fatalf("expected empty for nil, got %q", got)
	}
	if got := stringify("x"); got != "x" {
		t.Fatalf("unexpected: %q", got)
	}
	if got := stringify(42); got != "42" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestTruthy(t *testing.T) {
	cases := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{"", false},
		{"x", true},
		{0, false},
		{3, true},
		{0.0, false},
		{1.5, true},
		{int64(0), false},
		{uint64(7), true},
		{struct{}{}, true},
	}
	for _, tc := range cases {
		if got := truthy(tc.value); got != tc.want {
			t.Fatalf("truthy(%v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestDefaultRuleTable(t *testing.T) {
	cases := []struct {
		rule  string
		value any
		want  bool
	}{
		{"required", "x", true},
		{"required", "  ", false},
		{"required", nil, false},
		{"required", []any{}, false},
		{"required", 0, true},
		{"url", "https://example.com/a", true},
		{"url", "ftp://example.com", false},
		{"number", "-3.5", true},
		{"number", "3x", false},
		{"integer", "42", true},
		{"integer", "4.2", false},
		{"alpha", "Ada", true},
		{"alpha", "Ada1", false},
		{"alphanumeric", "Ada1", true},
		{"alphanumeric", "Ada-1", false},
		{"boolean", true, true},
		{"boolean", "false", true},
		{"boolean", "yes", false},
	}
	for _, tc := range cases {
		rule, err := resolveValidation("f", Validation{Rule: tc.rule}, &config{})
		if err != nil {
			t.Fatalf("%s: %v", tc.rule, err)
		}
		if got := settleSync(t, rule, tc.value); got != tc.want {
			t.Fatalf("%s(%v) = %v, want %v", tc.rule, tc.value, got, tc.want)
		}
	}
}
