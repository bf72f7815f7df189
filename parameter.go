package params

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Parameter is a named, typed input declaration with validation rules and
// an ordered preparation pipeline.
//
// Parameters are configured with chained setters, usually at route
// registration time, and treated as read-only once preparation starts:
//
//	p := params.NewString("name").MakeRequired().SetMaxLength(64)
type Parameter struct {
	name        string
	typ         Type
	description string
	required    bool
	castable    bool
	deprecated  bool

	defaultValue any
	hasDefault   bool

	format      Format
	rules       []ValidationRule
	steps       []PreparationStep
	dependsOn   []string
	constraints constraints

	items                []*Parameter   // allowed item definitions (array)
	properties           *ParameterList // property definitions (object)
	additionalProperties bool
}

// constraints are the declarative OpenAPI validations. They produce
// validation rules and documentation.
type constraints struct {
	minLength        *int
	maxLength        *int
	pattern          *regexp.Regexp
	enum             []any
	minimum          *float64
	maximum          *float64
	exclusiveMinimum bool
	exclusiveMaximum bool
	multipleOf       *float64
	minItems         *int
	maxItems         *int
	uniqueItems      bool
}

func (c constraints) rules() []ValidationRule {
	var rules []ValidationRule
	if c.minLength != nil {
		rules = append(rules, MinLengthRule(*c.minLength))
	}
	if c.maxLength != nil {
		rules = append(rules, MaxLengthRule(*c.maxLength))
	}
	if c.pattern != nil {
		rules = append(rules, PatternRule(c.pattern))
	}
	if len(c.enum) > 0 {
		rules = append(rules, EnumRule(c.enum...))
	}
	if c.minimum != nil {
		rules = append(rules, MinimumRule(*c.minimum, c.exclusiveMinimum))
	}
	if c.maximum != nil {
		rules = append(rules, MaximumRule(*c.maximum, c.exclusiveMaximum))
	}
	if c.multipleOf != nil {
		rules = append(rules, MultipleOfRule(*c.multipleOf))
	}
	if c.minItems != nil {
		rules = append(rules, MinItemsRule(*c.minItems))
	}
	if c.maxItems != nil {
		rules = append(rules, MaxItemsRule(*c.maxItems))
	}
	if c.uniqueItems {
		rules = append(rules, UniqueItemsRule())
	}
	return rules
}

///////////////////////////////////////////////////////////////////////////////
// Constructors
///////////////////////////////////////////////////////////////////////////////

// NewParameter creates an optional parameter of type t. Item definitions
// for arrays may use an empty name.
func NewParameter(name string, t Type) *Parameter {
	p := &Parameter{name: name, typ: t}
	if t == TypeObject {
		p.additionalProperties = true
	}
	return p
}

// NewString creates an optional string parameter.
func NewString(name string) *Parameter { return NewParameter(name, TypeString) }

// NewInteger creates an optional integer parameter.
func NewInteger(name string) *Parameter { return NewParameter(name, TypeInteger) }

// NewNumber creates an optional number parameter.
func NewNumber(name string) *Parameter { return NewParameter(name, TypeNumber) }

// NewBoolean creates an optional boolean parameter.
func NewBoolean(name string) *Parameter { return NewParameter(name, TypeBoolean) }

// NewArray creates an optional array parameter accepting any items.
func NewArray(name string) *Parameter { return NewParameter(name, TypeArray) }

// NewObject creates an optional object parameter allowing additional properties.
func NewObject(name string) *Parameter { return NewParameter(name, TypeObject) }

///////////////////////////////////////////////////////////////////////////////
// Builder
///////////////////////////////////////////////////////////////////////////////

func (p *Parameter) MakeRequired() *Parameter {
	p.required = true
	return p
}

func (p *Parameter) MakeOptional() *Parameter {
	p.required = false
	return p
}

func (p *Parameter) SetRequired(required bool) *Parameter {
	p.required = required
	return p
}

// SetAllowTypeCast enables a single coercion toward the declared type
// before validation, e.g. "25" to 25 for an integer.
func (p *Parameter) SetAllowTypeCast(allow bool) *Parameter {
	p.castable = allow
	return p
}

// SetDefault sets the value used when the parameter is absent. The default
// runs through the same pipeline as a submitted value.
func (p *Parameter) SetDefault(value any) *Parameter {
	p.defaultValue = value
	p.hasDefault = true
	return p
}

func (p *Parameter) SetDescription(description string) *Parameter {
	p.description = description
	return p
}

func (p *Parameter) SetDeprecated(deprecated bool) *Parameter {
	p.deprecated = deprecated
	return p
}

// SetFormat attaches a format. A format for another type is reported as a
// configuration error when the owning list is validated or prepared.
func (p *Parameter) SetFormat(format Format) *Parameter {
	p.format = format
	return p
}

func (p *Parameter) AddValidationRule(rules ...ValidationRule) *Parameter {
	p.rules = append(p.rules, rules...)
	return p
}

// AddPreparationStep appends steps. They run after the type and format
// steps, in the order they were added.
func (p *Parameter) AddPreparationStep(steps ...PreparationStep) *Parameter {
	p.steps = append(p.steps, steps...)
	return p
}

// DependsOn declares that this parameter must be prepared after names.
func (p *Parameter) DependsOn(names ...string) *Parameter {
	p.dependsOn = append(p.dependsOn, names...)
	return p
}

func (p *Parameter) SetMinLength(n int) *Parameter {
	p.constraints.minLength = &n
	return p
}

func (p *Parameter) SetMaxLength(n int) *Parameter {
	p.constraints.maxLength = &n
	return p
}

// SetPattern requires string values to match pattern. It panics if the
// pattern does not compile, like regexp.MustCompile.
func (p *Parameter) SetPattern(pattern string) *Parameter {
	p.constraints.pattern = regexp.MustCompile(pattern)
	return p
}

func (p *Parameter) SetEnum(values ...any) *Parameter {
	p.constraints.enum = values
	return p
}

func (p *Parameter) SetMinimum(min float64) *Parameter {
	p.constraints.minimum = &min
	return p
}

func (p *Parameter) SetMaximum(max float64) *Parameter {
	p.constraints.maximum = &max
	return p
}

func (p *Parameter) SetExclusiveMinimum(exclusive bool) *Parameter {
	p.constraints.exclusiveMinimum = exclusive
	return p
}

func (p *Parameter) SetExclusiveMaximum(exclusive bool) *Parameter {
	p.constraints.exclusiveMaximum = exclusive
	return p
}

func (p *Parameter) SetMultipleOf(n float64) *Parameter {
	p.constraints.multipleOf = &n
	return p
}

func (p *Parameter) SetMinItems(n int) *Parameter {
	p.constraints.minItems = &n
	return p
}

func (p *Parameter) SetMaxItems(n int) *Parameter {
	p.constraints.maxItems = &n
	return p
}

func (p *Parameter) SetUniqueItems(unique bool) *Parameter {
	p.constraints.uniqueItems = unique
	return p
}

// AddAllowedItem adds an allowed item definition to an array parameter.
// Each item must satisfy at least one definition (oneOf).
func (p *Parameter) AddAllowedItem(defs ...*Parameter) *Parameter {
	p.items = append(p.items, defs...)
	return p
}

// AddProperty declares a property of an object parameter.
func (p *Parameter) AddProperty(props ...*Parameter) *Parameter {
	if p.properties == nil {
		p.properties = NewParameterList(p.name, ParameterListOpts{})
	}
	for _, prop := range props {
		p.properties.Add(prop)
	}
	return p
}

// SetAdditionalProperties controls whether an object parameter with
// declared properties accepts undeclared ones. Defaults to true.
func (p *Parameter) SetAdditionalProperties(allow bool) *Parameter {
	p.additionalProperties = allow
	return p
}

///////////////////////////////////////////////////////////////////////////////
// Accessors
///////////////////////////////////////////////////////////////////////////////

func (p *Parameter) Name() string         { return p.name }
func (p *Parameter) Type() Type           { return p.typ }
func (p *Parameter) IsRequired() bool     { return p.required }
func (p *Parameter) AllowsTypeCast() bool { return p.castable }
func (p *Parameter) IsDeprecated() bool   { return p.deprecated }
func (p *Parameter) Format() Format       { return p.format }

// Default returns the default value and whether one was set.
func (p *Parameter) Default() (any, bool) {
	return p.defaultValue, p.hasDefault
}

// Description returns the description with the format documentation
// appended.
func (p *Parameter) Description() string {
	parts := make([]string, 0, 2)
	if p.description != "" {
		parts = append(parts, strings.TrimSpace(p.description))
	}
	if p.format != nil && p.format.Documentation() != "" {
		parts = append(parts, p.format.Documentation())
	}
	return strings.Join(parts, " ")
}

// Dependencies lists the names this parameter must be prepared after:
// the explicit ones plus those declared by Dependent steps and formats,
// including the ones of allowed item definitions.
func (p *Parameter) Dependencies() []string {
	deps := slices.Clone(p.dependsOn)
	if d, ok := p.format.(Dependent); ok {
		deps = append(deps, d.DependsOn()...)
	}
	for _, step := range p.steps {
		if d, ok := step.(Dependent); ok {
			deps = append(deps, d.DependsOn()...)
		}
	}
	// item steps read the same Values as the array itself
	for _, item := range p.items {
		deps = append(deps, item.Dependencies()...)
	}
	return sortedUnique(deps)
}

// ValidationRules lists every rule in evaluation order: the type rule,
// the format rules, the constraints and finally the caller rules.
func (p *Parameter) ValidationRules() []ValidationRule {
	rules := []ValidationRule{typeRule(p.typ)}
	if p.format != nil {
		rules = append(rules, p.format.ValidationRules()...)
	}
	rules = append(rules, p.constraints.rules()...)
	return append(rules, p.rules...)
}

// PreparationSteps lists every step in execution order: type
// normalization, format steps, then caller steps.
func (p *Parameter) PreparationSteps() []PreparationStep {
	steps := typeSteps(p)
	if p.format != nil {
		steps = append(steps, p.format.PreparationSteps()...)
	}
	return append(steps, p.steps...)
}

///////////////////////////////////////////////////////////////////////////////
// Preparation
///////////////////////////////////////////////////////////////////////////////

// Prepare runs the pipeline on value. values gives steps access to the
// request's other values and may be nil.
//
// All validation rules run even after one fails, so the returned
// *InvalidValueError may carry several messages. Steps stop at the first
// failure. A nil value is replaced by the default when there is one.
//
// A format set on a parameter of another type is returned as a
// *ConfigurationError before the value is looked at.
func (p *Parameter) Prepare(value any, values *Values) (any, error) {
	if err := p.checkFormats(""); err != nil {
		return nil, err
	}
	if values == nil {
		values = NewValues(nil, nil)
	}
	if value == nil && p.hasDefault {
		value = p.defaultValue
	}
	raw := value

	if vd, ok := values.Context().(ValueDeserializer); ok {
		deserialized, err := vd.DeserializeValue(p, value)
		if err != nil {
			return nil, p.stepError("deserialize "+values.Context().Name()+" value", raw, err)
		}
		value = deserialized
	}

	if p.castable {
		cast, err := castValue(p.typ, value)
		if err != nil {
			return nil, p.stepError("type cast", raw, err)
		}
		value = cast
	}

	if messages := p.validate(value); len(messages) > 0 {
		return nil, newInvalidValueError(p.name, raw, "", messages...)
	}

	for _, step := range p.PreparationSteps() {
		next, err := step.Prepare(value, values)
		if IsConfigurationError(err) {
			return nil, err
		}
		if err != nil {
			return nil, p.stepError(step.Name(), raw, err)
		}
		value = next
	}

	return value, nil
}

// checkFormats verifies that the format of p, and of its allowed item
// definitions, applies to their type.
func (p *Parameter) checkFormats(list string) error {
	if p.format != nil && p.format.AppliesTo() != p.typ {
		return &ConfigurationError{
			List:  list,
			Names: []string{p.name, p.format.Name()},
			Err:   fmt.Errorf("%w: %s is for %s values, %s is %s", ErrFormatTypeMismatch, p.format.Name(), p.format.AppliesTo(), p.name, p.typ),
		}
	}
	for _, item := range p.items {
		if err := item.checkFormats(list); err != nil {
			return err
		}
	}
	return nil
}

// validate runs every rule and returns the messages of the failing ones
func (p *Parameter) validate(value any) []string {
	var messages []string
	for _, rule := range p.ValidationRules() {
		if !rule.Validate(value) {
			messages = append(messages, rule.Message())
		}
	}
	return messages
}

// stepError converts a step failure into an InvalidValueError for this
// parameter, keeping the messages of nested InvalidValueErrors.
func (p *Parameter) stepError(step string, raw any, err error) *InvalidValueError {
	var ive *InvalidValueError
	if errors.As(err, &ive) {
		messages := slices.Clone(ive.Messages)
		if ive.Step != "" {
			step = ive.Step
		}
		return newInvalidValueError(p.name, raw, step, messages...)
	}
	return newInvalidValueError(p.name, raw, step, err.Error())
}
