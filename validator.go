package validator

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-validator/pkg/activity"
	"github.com/goliatone/go-validator/pkg/state"
)

// Validator owns the field specs for one model scope, wires the validation
// engine, group aggregation, and change tracking together, and reconciles
// verified values back into the origin. One Validator is constructed per
// logical form/session.
type Validator struct {
	model     state.Store
	origin    state.Store
	cfg       config
	evaluator Evaluator
	emitter   *activity.Emitter

	fields   map[string]FieldSpec
	compiled map[string][]compiledRule
	order    []string
	tree     fieldTree
	groups   map[string][]string
	excluded map[string]bool

	reservedID string

	// mu serializes round settlement and validity transitions; changeMu
	// guards baselines and the divergence aggregates. changeMu holders never
	// take mu.
	mu       sync.Mutex
	changeMu sync.Mutex

	baselines map[string]any
	unsubs    []state.Unsubscribe
}

// New constructs a Validator bound to the model scope. At least one of
// WithOrigin/WithOriginPath or WithFields must be supplied; malformed rules
// fail here, never at validation time.
func New(model state.Store, opts ...Option) (*Validator, error) {
	if model == nil {
		return nil, &ConfigurationError{Reason: "model scope is required"}
	}

	cfg := applyOptions(opts)
	v := &Validator{
		model: model,
		cfg:   cfg,
	}

	switch {
	case cfg.origin != nil:
		v.origin = cfg.origin
	case cfg.originPath != "":
		v.origin = model.Scope(cfg.originPath)
	}
	if v.origin == nil && cfg.fields == nil {
		return nil, &ConfigurationError{Reason: "either an origin or field specs must be supplied"}
	}

	if cfg.evaluator != nil {
		v.evaluator = cfg.evaluator
	} else {
		var exprOpts []ExprEvaluatorOption
		if cfg.programCache != nil {
			exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
		}
		if cfg.functions != nil {
			exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
		}
		v.evaluator = NewExprEvaluator(exprOpts...)
	}
	v.emitter = activity.NewEmitter(cfg.activityHooks, activity.Config{
		Enabled: cfg.activityHooks.Enabled(),
	})

	fields := cfg.fields
	if fields == nil {
		fields = v.implicitFields()
	}
	if len(fields) == 0 {
		return nil, &ConfigurationError{Reason: "origin supplies no structure and no fields were declared"}
	}
	v.fields = fields

	v.compiled = make(map[string][]compiledRule, len(fields))
	v.order = make([]string, 0, len(fields))
	v.groups = map[string][]string{}
	for path, spec := range fields {
		rules := make([]compiledRule, 0, len(spec.Validations))
		for _, validation := range spec.Validations {
			rule, err := resolveValidation(path, validation, &v.cfg)
			if err != nil {
				return nil, err
			}
			rules = append(rules, rule)
		}
		v.compiled[path] = rules
		v.order = append(v.order, path)
		group := spec.group()
		v.groups[group] = append(v.groups[group], path)
	}
	sort.Strings(v.order)
	for group := range v.groups {
		sort.Strings(v.groups[group])
	}
	v.tree = buildFieldTree(v.order)

	v.excluded = map[string]bool{
		"groups":           true,
		"hasInvalidFields": true,
		"hasChangedFields": true,
	}
	if cfg.originPath != "" {
		// An origin nested inside the model scope stays out of projections.
		v.excluded[strings.SplitN(cfg.originPath, ".", 2)[0]] = true
	}

	if v.origin != nil {
		if _, ok := v.origin.Get(cfg.identifierKey); !ok {
			v.reservedID = v.origin.ID()
		}
	}

	v.setup()
	v.trackChanges()
	return v, nil
}

// implicitFields derives one spec per scalar origin leaf when the caller
// declared none. Implicit fields carry no validations and are always valid.
func (v *Validator) implicitFields() map[string]FieldSpec {
	tree := v.originSnapshot()
	if tree == nil {
		return nil
	}
	paths := flattenLeaves(tree, "")
	if len(paths) == 0 {
		return nil
	}
	fields := make(map[string]FieldSpec, len(paths))
	for _, path := range paths {
		fields[path] = FieldSpec{}
	}
	return fields
}

// Fields returns a copy of the declared field specs keyed by path.
func (v *Validator) Fields() map[string]FieldSpec {
	out := make(map[string]FieldSpec, len(v.fields))
	for path, spec := range v.fields {
		out[path] = spec
	}
	return out
}

// Model exposes the model scope handle the validator writes field state to.
func (v *Validator) Model() state.Store { return v.model }

// Origin exposes the origin handle, nil when the validator is origin-less.
func (v *Validator) Origin() state.Store { return v.origin }

// Teardown removes every store subscription the validator registered. The
// owner calls it when the scope is torn down.
func (v *Validator) Teardown() {
	for _, unsub := range v.unsubs {
		if unsub != nil {
			unsub()
		}
	}
	v.unsubs = nil
}
