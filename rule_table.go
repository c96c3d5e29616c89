package validator

import (
	"regexp"
	"strings"
)

// genericMessage is the fallback when neither the validation, the instance
// messages, nor the table carry one.
const genericMessage = "is invalid"

type tableEntry struct {
	rule    any
	message string
}

var (
	emailPattern        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	urlPattern          = regexp.MustCompile(`^https?://[^\s]+$`)
	numberPattern       = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
	integerPattern      = regexp.MustCompile(`^-?\d+$`)
	alphaPattern        = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphanumericPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// defaultRuleTable maps built-in rule names to their rule and message.
var defaultRuleTable = map[string]tableEntry{
	"required":     {Predicate(isPresent), "field is required"},
	"email":        {emailPattern, "must be a valid email address"},
	"url":          {urlPattern, "must be a valid URL"},
	"number":       {numberPattern, "must be a number"},
	"integer":      {integerPattern, "must be an integer"},
	"alpha":        {alphaPattern, "must contain only letters"},
	"alphanumeric": {alphanumericPattern, "must contain only letters and numbers"},
	"boolean":      {Predicate(isBoolean), "must be a boolean value"},
}

func isPresent(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []any:
		return len(typed) > 0
	case map[string]any:
		return len(typed) > 0
	default:
		return true
	}
}

func isBoolean(value any) bool {
	switch typed := value.(type) {
	case bool:
		return true
	case string:
		return typed == "true" || typed == "false"
	default:
		return false
	}
}
