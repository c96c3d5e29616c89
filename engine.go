package validator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-validator/pkg/activity"
)

// round tracks one generation of rule execution for a single field. Rules are
// launched together and joined through the pending counter; outcomes are
// buffered per declaration index and flushed in declaration order once every
// rule has settled, keeping messages deterministic regardless of completion
// timing.
type round struct {
	serial   int
	pending  int
	settled  []bool
	outcomes []ruleOutcome
	done     func(valid bool)
}

type ruleOutcome struct {
	valid     bool
	invalidAt any
}

// Validate runs every resolved rule for the field at path concurrently and
// delivers the aggregate outcome through cb once all of them settle. Starting
// a new round for the same field supersedes in-flight rounds: a superseded
// round still joins and reports to its callback, but leaves no trace on the
// field state.
func (v *Validator) Validate(path string, cb func(valid bool)) {
	rules := v.compiled[path]
	if len(rules) == 0 {
		if cb != nil {
			cb(true)
		}
		return
	}

	v.mu.Lock()
	v.model.Set(statePath(path, "messages"), []string{})
	v.model.Del(statePath(path, "invalidAt"))
	v.model.Set(statePath(path, "isValidating"), true)
	serial := v.model.Increment(statePath(path, "serial"))
	value, _ := v.model.Get(statePath(path, "value"))
	r := &round{
		serial:   serial,
		pending:  len(rules),
		settled:  make([]bool, len(rules)),
		outcomes: make([]ruleOutcome, len(rules)),
		done:     cb,
	}
	v.mu.Unlock()

	for i, rule := range rules {
		index := i
		rule.launch(v, path, value, func(valid bool, invalidAt any) {
			v.settleRule(path, r, index, valid, invalidAt)
		})
	}
}

// settleRule records one rule outcome for its round. Settles after the first
// for the same rule invocation are ignored; the round finalizes when the last
// outstanding rule reports.
func (v *Validator) settleRule(path string, r *round, index int, valid bool, invalidAt any) {
	v.mu.Lock()
	if r.settled[index] {
		v.mu.Unlock()
		return
	}
	r.settled[index] = true
	r.outcomes[index] = ruleOutcome{valid: valid, invalidAt: invalidAt}
	r.pending--
	if r.pending > 0 {
		v.mu.Unlock()
		return
	}
	v.finalizeRound(path, r)
}

// finalizeRound flushes buffered outcomes in declaration order and applies
// them to the field state, unless a newer round owns the field's serial by
// now. Called with v.mu held; releases it before invoking callbacks.
func (v *Validator) finalizeRound(path string, r *round) {
	rules := v.compiled[path]
	valid := true
	messages := []string{}
	var invalidAt any
	for i, outcome := range r.outcomes {
		if outcome.valid {
			continue
		}
		valid = false
		messages = append(messages, rules[i].message)
		if outcome.invalidAt != nil {
			invalidAt = outcome.invalidAt
		}
	}

	current := v.currentSerial(path)
	stale := current != r.serial
	group := ""
	if !stale {
		v.model.Set(statePath(path, "messages"), messages)
		if invalidAt != nil {
			v.model.Set(statePath(path, "invalidAt"), invalidAt)
		}
		v.model.Del(statePath(path, "isValidating"))
		group = v.applyValidity(path, valid)
	}
	v.mu.Unlock()

	if !stale {
		v.emit(activity.BuildFieldValidatedEvent(activity.ValidationEventInput{
			Form:     v.model.Root(),
			Field:    path,
			Group:    group,
			Valid:    valid,
			Messages: messages,
		}))
	}
	if r.done != nil {
		r.done(valid)
	}
}

// ValidateAll fans out a round for every field that declares validations and
// reports the AND of their outcomes once each round joins. Fields without
// validations are excluded from the aggregation.
func (v *Validator) ValidateAll(cb func(valid bool)) {
	paths := v.validatedPaths()
	if len(paths) == 0 {
		if cb != nil {
			cb(true)
		}
		return
	}

	var mu sync.Mutex
	remaining := len(paths)
	all := true
	for _, path := range paths {
		v.Validate(path, func(valid bool) {
			mu.Lock()
			if !valid {
				all = false
			}
			remaining--
			finished := remaining == 0
			result := all
			mu.Unlock()
			if !finished {
				return
			}
			v.emit(activity.BuildValidationCompletedEvent(activity.ValidationEventInput{
				Form:  v.model.Root(),
				Valid: result,
			}))
			if cb != nil {
				cb(result)
			}
		})
	}
}

// SetInvalid forces a field invalid with the given message, independent of
// rule evaluation. An empty message falls back to the instance and generic
// defaults.
func (v *Validator) SetInvalid(path, message string) {
	if message == "" {
		message = resolveMessage("", "", &v.cfg)
	}
	v.mu.Lock()
	v.model.Set(statePath(path, "messages"), []string{message})
	group := v.applyValidity(path, false)
	v.mu.Unlock()

	v.emit(activity.BuildFieldValidatedEvent(activity.ValidationEventInput{
		Form:     v.model.Root(),
		Field:    path,
		Group:    group,
		Valid:    false,
		Messages: []string{message},
	}))
}

func (v *Validator) currentSerial(path string) int {
	raw, _ := v.model.Get(statePath(path, "serial"))
	serial, _ := raw.(int)
	return serial
}

func (v *Validator) validatedPaths() []string {
	paths := make([]string, 0, len(v.compiled))
	for _, path := range v.order {
		if len(v.compiled[path]) > 0 {
			paths = append(paths, path)
		}
	}
	return paths
}

// evaluateExpression runs an Expr rule through the configured evaluator,
// reporting the attempt to the validation logger. Evaluation errors count as
// rule failure.
func (v *Validator) evaluateExpression(path, expression string, value any, settle SettleFunc) {
	ctx := RuleContext{
		Value:  value,
		Field:  path,
		Fields: v.snapshotValues(),
	}
	engine := evaluatorEngineName(v.evaluator)
	start := time.Now()
	result, err := v.evaluator.Evaluate(ctx, expression)
	duration := time.Since(start)
	err = wrapEvaluationError(engine, expression, path, err)
	v.logger().LogEvaluation(ValidationLogEvent{
		Engine:   engine,
		Expr:     expression,
		Field:    path,
		Duration: duration,
		Err:      err,
	})
	settle(err == nil && truthy(result), nil)
}

func (v *Validator) snapshotValues() map[string]any {
	values := make(map[string]any, len(v.fields))
	for path := range v.fields {
		value, _ := v.model.Get(statePath(path, "value"))
		values[path] = value
	}
	return values
}

func (v *Validator) logger() ValidationLogger {
	if v.cfg.logger != nil {
		return v.cfg.logger
	}
	return noopValidationLogger{}
}

func (v *Validator) emit(event activity.Event) {
	if !v.emitter.Enabled() {
		return
	}
	_ = v.emitter.Emit(context.Background(), event)
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	switch fmt.Sprintf("%T", e) {
	case "*validator.exprEvaluator":
		return "expr"
	case "*validator.celEvaluator":
		return "cel"
	case "*validator.jsEvaluator":
		return "js"
	default:
		return "custom"
	}
}

func statePath(path, key string) string {
	return path + "." + key
}
