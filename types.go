package validator

import (
	"time"

	"github.com/goliatone/go-validator/pkg/activity"
	"github.com/goliatone/go-validator/pkg/state"
)

// SettleFunc is the single-use completion callback handed to asynchronous
// rules. A second call for the same rule invocation is ignored. invalidAt may
// carry a richer failure payload surfaced on the field state.
type SettleFunc func(valid bool, invalidAt any)

// Predicate is a synchronous rule: it receives the current field value and
// reports validity immediately.
type Predicate func(value any) bool

// AsyncPredicate is an asynchronous rule: it may call settle inline or after
// arbitrary delay. A predicate that never settles leaves its round validating;
// that is a caller contract violation the engine does not detect.
type AsyncPredicate func(value any, settle SettleFunc)

// Expr is a rule expressed as a string evaluated by the configured Evaluator
// (expr-lang by default). The expression sees value, field, fields, now, args
// and metadata bindings plus any registered custom functions; a truthy result
// marks the field valid.
type Expr string

// Validation pairs a rule reference with an optional per-validation message.
// Rule must be one of: string (named rule), *regexp.Regexp, Predicate,
// AsyncPredicate, Expr, or the equivalent bare func signatures.
type Validation struct {
	Rule    any
	Message string
}

// FieldSpec is the author-supplied definition of one validated field,
// addressed by its dotted path. Immutable after construction.
type FieldSpec struct {
	Default     any
	Group       string
	Validations []Validation
}

// DefaultGroup is the group assigned to fields that declare none.
const DefaultGroup = "default"

func (s FieldSpec) group() string {
	if s.Group == "" {
		return DefaultGroup
	}
	return s.Group
}

// RuleContext carries inputs needed when evaluating an expression rule.
type RuleContext struct {
	Value    any
	Field    string
	Fields   map[string]any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	if ctx.Fields == nil {
		ctx.Fields = map[string]any{}
	}
	return ctx
}

// Evaluator executes expression rules against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// Option configures a Validator at construction.
type Option func(*config)

type config struct {
	origin        state.Store
	originPath    string
	fields        map[string]FieldSpec
	rules         map[string]any
	messages      map[string]string
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	logger        ValidationLogger
	activityHooks activity.Hooks
	identifierKey string
}

func applyOptions(opts []Option) config {
	cfg := config{identifierKey: "id"}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithOrigin points the validator at the origin store handle it initializes
// from and commits back to.
func WithOrigin(origin state.Store) Option {
	return func(cfg *config) {
		cfg.origin = origin
	}
}

// WithOriginPath resolves the origin as a scope of the model's store rooted at
// path. Mutually exclusive with WithOrigin; the handle wins when both are set.
func WithOriginPath(path string) Option {
	return func(cfg *config) {
		cfg.originPath = path
	}
}

// WithFields declares the validated fields keyed by dotted path. Mandatory
// when no origin is configured.
func WithFields(fields map[string]FieldSpec) Option {
	return func(cfg *config) {
		if len(fields) == 0 {
			return
		}
		cfg.fields = make(map[string]FieldSpec, len(fields))
		for path, spec := range fields {
			cfg.fields[path] = spec
		}
	}
}

// WithRules overrides or extends the named rule table for this instance.
func WithRules(rules map[string]any) Option {
	return func(cfg *config) {
		if len(rules) == 0 {
			return
		}
		cfg.rules = make(map[string]any, len(rules))
		for name, rule := range rules {
			cfg.rules[name] = rule
		}
	}
}

// WithMessages overrides default failure messages by rule name.
func WithMessages(messages map[string]string) Option {
	return func(cfg *config) {
		if len(messages) == 0 {
			return
		}
		cfg.messages = make(map[string]string, len(messages))
		for name, message := range messages {
			cfg.messages[name] = message
		}
	}
}

// WithEvaluator configures the expression evaluator used by Expr rules.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithIdentifierKey overrides the origin key that identifies an existing
// entity. Defaults to "id".
func WithIdentifierKey(key string) Option {
	return func(cfg *config) {
		if key != "" {
			cfg.identifierKey = key
		}
	}
}
