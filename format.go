package params

import "slices"

// Format is a reusable bundle of validation rules and preparation steps
// for one parameter type, e.g. "email" on top of "string".
//
// Formats are stateless strategies. Their base rules run with the
// parameter's own rules, their steps run after the type steps and before
// the caller's steps.
type Format interface {
	Name() string
	AppliesTo() Type
	ValidationRules() []ValidationRule
	PreparationSteps() []PreparationStep
	// Documentation is appended to the description of parameters using
	// the format. It may be empty.
	Documentation() string
}

// FormatOpts describes a format built with NewFormat.
type FormatOpts struct {
	Name          string
	AppliesTo     Type
	Rules         []ValidationRule
	Steps         []PreparationStep
	Documentation string
	// DependsOn names parameters the steps read. They are added to the
	// dependencies of every parameter using the format.
	DependsOn []string
}

// BasicFormat is the Format implementation used by the built in catalog
// and by NewFormat.
type BasicFormat struct {
	name      string
	appliesTo Type
	rules     []ValidationRule
	steps     []PreparationStep
	doc       string
	dependsOn []string
}

var (
	_ Format    = (*BasicFormat)(nil)
	_ Dependent = (*BasicFormat)(nil)
)

// NewFormat creates a format from opts. Use it for application specific
// formats; register it with a FormatRegistry to make it available by name.
func NewFormat(opts FormatOpts) *BasicFormat {
	return &BasicFormat{
		name:      opts.Name,
		appliesTo: opts.AppliesTo,
		rules:     slices.Clone(opts.Rules),
		steps:     slices.Clone(opts.Steps),
		doc:       opts.Documentation,
		dependsOn: slices.Clone(opts.DependsOn),
	}
}

func (f *BasicFormat) Name() string          { return f.name }
func (f *BasicFormat) AppliesTo() Type       { return f.appliesTo }
func (f *BasicFormat) Documentation() string { return f.doc }

func (f *BasicFormat) ValidationRules() []ValidationRule {
	return slices.Clone(f.rules)
}

func (f *BasicFormat) PreparationSteps() []PreparationStep {
	return slices.Clone(f.steps)
}

func (f *BasicFormat) DependsOn() []string {
	deps := slices.Clone(f.dependsOn)
	for _, step := range f.steps {
		if d, ok := step.(Dependent); ok {
			deps = append(deps, d.DependsOn()...)
		}
	}
	return deps
}

// stringRule builds a base rule that only inspects strings. Values of any
// other type pass; the type rule reports them.
func stringRule(check func(s string) bool, message string) ValidationRule {
	return NewBaseValidationRule(func(value any) bool {
		s, ok := value.(string)
		return !ok || check(s)
	}, message)
}
