package activity

import (
	"strings"
	"time"
)

// ValidationEventInput describes the common fields for validation lifecycle
// events. Form identifies the validator's model scope, Field the dotted field
// path involved (empty for form-wide events).
type ValidationEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Form       string
	Field      string
	Group      string
	Valid      bool
	Messages   []string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildFieldValidatedEvent constructs a normalized event for a completed
// per-field validation round.
func BuildFieldValidatedEvent(input ValidationEventInput) Event {
	return buildValidationEvent("field.validated", "field", input)
}

// BuildValidationCompletedEvent constructs an event for a full ValidateAll run.
func BuildValidationCompletedEvent(input ValidationEventInput) Event {
	return buildValidationEvent("validation.completed", "form", input)
}

// BuildCommittedEvent constructs an event for a successful commit to origin.
func BuildCommittedEvent(input ValidationEventInput) Event {
	return buildValidationEvent("form.committed", "form", input)
}

// BuildResetEvent constructs an event for a baseline reset.
func BuildResetEvent(input ValidationEventInput) Event {
	return buildValidationEvent("form.reset", "form", input)
}

func buildValidationEvent(verb, objectType string, input ValidationEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Field != "" {
		metadata = ensureMetadata(metadata)
		metadata["field"] = input.Field
	}
	if input.Group != "" {
		metadata = ensureMetadata(metadata)
		metadata["group"] = input.Group
	}
	if input.Form != "" {
		metadata = ensureMetadata(metadata)
		metadata["form"] = input.Form
	}
	metadata = ensureMetadata(metadata)
	metadata["valid"] = input.Valid
	if len(input.Messages) > 0 {
		metadata["messages"] = append([]string{}, input.Messages...)
	}

	objectID := strings.TrimSpace(input.Field)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Form)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
