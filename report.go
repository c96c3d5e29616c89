package validator

import "encoding/json"

// Report captures a point-in-time snapshot of every field's validation state,
// suitable for logging or transport.
type Report struct {
	Valid  bool          `json:"valid"`
	Fields []FieldReport `json:"fields"`
}

// FieldReport details one field's state within a report.
type FieldReport struct {
	Path       string   `json:"path"`
	Group      string   `json:"group"`
	Valid      bool     `json:"valid"`
	Invalid    bool     `json:"invalid"`
	Validating bool     `json:"validating,omitempty"`
	Changed    bool     `json:"changed,omitempty"`
	Messages   []string `json:"messages,omitempty"`
}

// Report snapshots the current state of every declared field. Valid reports
// the absence of invalid fields, not that every field has been validated.
func (v *Validator) Report() Report {
	v.mu.Lock()
	defer v.mu.Unlock()

	report := Report{Valid: true}
	for _, path := range v.order {
		field := FieldReport{
			Path:  path,
			Group: v.fields[path].group(),
		}
		if raw, _ := v.model.Get(statePath(path, "isValid")); raw != nil {
			field.Valid, _ = raw.(bool)
		}
		if raw, _ := v.model.Get(statePath(path, "isInvalid")); raw != nil {
			field.Invalid, _ = raw.(bool)
		}
		if raw, _ := v.model.Get(statePath(path, "isValidating")); raw != nil {
			field.Validating, _ = raw.(bool)
		}
		if raw, _ := v.model.Get(statePath(path, "hasChanged")); raw != nil {
			field.Changed, _ = raw.(bool)
		}
		if raw, _ := v.model.Get(statePath(path, "messages")); raw != nil {
			if messages, ok := raw.([]string); ok && len(messages) > 0 {
				field.Messages = append([]string{}, messages...)
			}
		}
		if field.Invalid {
			report.Valid = false
		}
		report.Fields = append(report.Fields, field)
	}
	return report
}

// ToJSON serialises the report for logging or transport helpers.
func (r Report) ToJSON() ([]byte, error) {
	type alias Report
	return json.Marshal(alias(r))
}

// ReportFromJSON deserialises a JSON payload previously generated via ToJSON.
func ReportFromJSON(payload []byte) (Report, error) {
	type alias Report
	var report alias
	if err := json.Unmarshal(payload, &report); err != nil {
		return Report{}, err
	}
	return Report(report), nil
}
