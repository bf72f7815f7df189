package params

import "slices"

// PreparationStep is a single transformation or parsing unit applied to one
// parameter value. It receives the current value and the Values of the
// whole request (for reading already prepared siblings) and returns the
// next value, or an error describing why the value is invalid.
//
// Steps must be stateless; the same step may run concurrently for
// different requests.
type PreparationStep interface {
	Name() string
	Prepare(value any, values *Values) (any, error)
}

// Dependent is implemented by steps and formats that read other
// parameters' prepared values. The names are added to the owning
// parameter's dependencies.
type Dependent interface {
	DependsOn() []string
}

// StepFunc is the signature of a callback step.
type StepFunc func(value any, values *Values) (any, error)

// CallbackStep wraps a StepFunc with a name used in errors and docs.
type CallbackStep struct {
	name      string
	fn        StepFunc
	dependsOn []string
}

var (
	_ PreparationStep = (*CallbackStep)(nil)
	_ Dependent       = (*CallbackStep)(nil)
)

// NewStep creates a step from fn.
func NewStep(name string, fn StepFunc) *CallbackStep {
	return &CallbackStep{name: name, fn: fn}
}

// NewDependentStep creates a step that reads the prepared values of the
// named parameters. The owning list prepares those parameters first.
func NewDependentStep(name string, dependsOn []string, fn StepFunc) *CallbackStep {
	return &CallbackStep{name: name, fn: fn, dependsOn: slices.Clone(dependsOn)}
}

// NewValueStep creates a step that only looks at its own value.
func NewValueStep(name string, fn func(value any) (any, error)) *CallbackStep {
	return NewStep(name, func(value any, _ *Values) (any, error) {
		return fn(value)
	})
}

func (s *CallbackStep) Name() string { return s.name }

func (s *CallbackStep) DependsOn() []string { return slices.Clone(s.dependsOn) }

func (s *CallbackStep) Prepare(value any, values *Values) (any, error) {
	return s.fn(value, values)
}
