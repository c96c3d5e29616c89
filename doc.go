// Package validator maintains a reactive, path-addressed field state tree on
// top of an observable store, runs declarative validation rules against it,
// and reconciles verified values back into an authoritative origin.
//
// A Validator is constructed once per logical form/session against a model
// scope. Field specs are addressed by dotted paths ("billing.address.city")
// and may attach named rules, patterns, predicates (sync or async), or
// expression rules evaluated by expr-lang, CEL, or goja.
//
// Validation rounds are generation-stamped: each Validate call bumps the
// field's serial and any result settling for an older serial is dropped
// without touching state. Failure messages are flushed in rule declaration
// order regardless of completion timing, so concurrent asynchronous rules
// stay deterministic.
//
// Derived aggregates are maintained incrementally: per-group validity
// ("groups.<name>.isValid"), the global "hasInvalidFields" flag, and the
// divergence aggregate "hasChangedFields" driven by store change
// subscriptions against per-field baselines.
//
// Commit projects current field values onto the origin, gated on a passing
// ValidateAll unless forced; entities without an identifier are created in
// the origin collection under an identifier reserved at construction.
package validator
