package validator

import (
	"fmt"
	"regexp"
)

// ruleLauncher starts one resolved rule for a field value. Every variant is
// normalized into this shape so the engine can launch rounds uniformly.
type ruleLauncher func(v *Validator, path string, value any, settle SettleFunc)

// compiledRule is the uniform {predicate, message} record a Validation
// resolves into at construction time.
type compiledRule struct {
	name    string
	message string
	launch  ruleLauncher
}

// resolveValidation resolves one Validation into a compiledRule, failing fast
// on unknown names and non-variant rule values.
func resolveValidation(field string, val Validation, cfg *config) (compiledRule, error) {
	name := ""
	rule := val.Rule

	if ref, ok := rule.(string); ok {
		name = ref
		resolved, err := resolveNamed(field, ref, cfg)
		if err != nil {
			return compiledRule{}, err
		}
		rule = resolved
	}

	launch, err := compileLauncher(field, rule)
	if err != nil {
		return compiledRule{}, err
	}

	return compiledRule{
		name:    name,
		message: resolveMessage(name, val.Message, cfg),
		launch:  launch,
	}, nil
}

// resolveNamed looks a rule name up through instance rules, then the function
// registry, then the default table.
func resolveNamed(field, name string, cfg *config) (any, error) {
	if cfg.rules != nil {
		if rule, ok := cfg.rules[name]; ok {
			if _, nested := rule.(string); nested {
				return nil, &InvalidRuleTypeError{Field: field, Rule: rule}
			}
			return rule, nil
		}
	}
	if cfg.functions.Has(name) {
		registry := cfg.functions
		return Predicate(func(value any) bool {
			result, err := registry.Call(name, value)
			if err != nil {
				return false
			}
			return truthy(result)
		}), nil
	}
	if entry, ok := defaultRuleTable[name]; ok {
		return entry.rule, nil
	}
	return nil, &UnknownRuleError{Field: field, Name: name}
}

func resolveMessage(name, explicit string, cfg *config) string {
	if explicit != "" {
		return explicit
	}
	if name != "" {
		if cfg.messages != nil {
			if message, ok := cfg.messages[name]; ok {
				return message
			}
		}
		if entry, ok := defaultRuleTable[name]; ok && entry.message != "" {
			return entry.message
		}
	}
	return genericMessage
}

func compileLauncher(field string, rule any) (ruleLauncher, error) {
	switch typed := rule.(type) {
	case *regexp.Regexp:
		return func(_ *Validator, _ string, value any, settle SettleFunc) {
			settle(typed.MatchString(stringify(value)), nil)
		}, nil
	case Predicate:
		return func(_ *Validator, _ string, value any, settle SettleFunc) {
			settle(typed(value), nil)
		}, nil
	case func(any) bool:
		return compileLauncher(field, Predicate(typed))
	case AsyncPredicate:
		return func(_ *Validator, _ string, value any, settle SettleFunc) {
			typed(value, settle)
		}, nil
	case func(any, SettleFunc):
		return compileLauncher(field, AsyncPredicate(typed))
	case Expr:
		if typed == "" {
			return nil, &InvalidRuleTypeError{Field: field, Rule: rule}
		}
		return func(v *Validator, path string, value any, settle SettleFunc) {
			v.evaluateExpression(path, string(typed), value, settle)
		}, nil
	case Function:
		return compileLauncher(field, Predicate(func(value any) bool {
			result, err := typed(value)
			if err != nil {
				return false
			}
			return truthy(result)
		}))
	default:
		return nil, &InvalidRuleTypeError{Field: field, Rule: rule}
	}
}

// stringify renders a value for pattern matching. nil renders empty so
// pattern rules on unset fields fail rather than match noise.
func stringify(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		return fmt.Sprintf("%v", typed)
	}
}

// truthy interprets evaluator and registry results as validity.
func truthy(result any) bool {
	switch typed := result.(type) {
	case nil:
		return false
	case bool:
		return typed
	case string:
		return typed != ""
	case int:
		return typed != 0
	case int64:
		return typed != 0
	case uint64:
		return typed != 0
	case float64:
		return typed != 0
	default:
		return true
	}
}
