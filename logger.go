package validator

import "time"

// ValidationLogEvent describes one expression-rule evaluation for logging.
type ValidationLogEvent struct {
	Engine   string
	Expr     string
	Field    string
	Duration time.Duration
	Err      error
}

// ValidationLogger records evaluator events.
type ValidationLogger interface {
	LogEvaluation(ValidationLogEvent)
}

// ValidationLoggerFunc adapts a function to ValidationLogger.
type ValidationLoggerFunc func(ValidationLogEvent)

// LogEvaluation implements ValidationLogger.
func (f ValidationLoggerFunc) LogEvaluation(event ValidationLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopValidationLogger struct{}

func (noopValidationLogger) LogEvaluation(ValidationLogEvent) {}

// WithLogger attaches an evaluation logger to the validator.
func WithLogger(logger ValidationLogger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopValidationLogger{}
			return
		}
		cfg.logger = logger
	}
}
