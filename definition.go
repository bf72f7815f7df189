package params

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownType    = errors.New("unknown parameter type")
	ErrUnknownContext = errors.New("unknown parameter context")
)

// ListDefinition is the YAML form of a parameter list.
//
//	name: search
//	context: query
//	parameters:
//	  - name: limit
//	    type: integer
//	    maximum: 100
//	    default: 10
//	  - name: tags
//	    type: string
//	    format: csv
//	    format_options:
//	      separators: ",;"
type ListDefinition struct {
	Name       string                `yaml:"name"`
	Context    string                `yaml:"context,omitempty"`
	Parameters []ParameterDefinition `yaml:"parameters"`
}

// ParameterDefinition is the YAML form of a parameter.
type ParameterDefinition struct {
	Name          string            `yaml:"name"`
	Type          Type              `yaml:"type"`
	Description   string            `yaml:"description,omitempty"`
	Required      bool              `yaml:"required,omitempty"`
	AllowTypeCast bool              `yaml:"allow_type_cast,omitempty"`
	Deprecated    bool              `yaml:"deprecated,omitempty"`
	Default       any               `yaml:"default,omitempty"`
	Format        string            `yaml:"format,omitempty"`
	FormatOptions map[string]string `yaml:"format_options,omitempty"`
	DependsOn     []string          `yaml:"depends_on,omitempty"`

	MinLength        *int     `yaml:"min_length,omitempty"`
	MaxLength        *int     `yaml:"max_length,omitempty"`
	Pattern          string   `yaml:"pattern,omitempty"`
	Enum             []any    `yaml:"enum,omitempty"`
	Minimum          *float64 `yaml:"minimum,omitempty"`
	Maximum          *float64 `yaml:"maximum,omitempty"`
	ExclusiveMinimum bool     `yaml:"exclusive_minimum,omitempty"`
	ExclusiveMaximum bool     `yaml:"exclusive_maximum,omitempty"`
	MultipleOf       *float64 `yaml:"multiple_of,omitempty"`
	MinItems         *int     `yaml:"min_items,omitempty"`
	MaxItems         *int     `yaml:"max_items,omitempty"`
	UniqueItems      bool     `yaml:"unique_items,omitempty"`

	Items                []ParameterDefinition `yaml:"items,omitempty"`
	Properties           []ParameterDefinition `yaml:"properties,omitempty"`
	AdditionalProperties *bool                 `yaml:"additional_properties,omitempty"`
}

type LoadOpts struct {
	// Registry resolves format names. Defaults to DefaultFormatRegistry.
	Registry *FormatRegistry
	Logger   *slog.Logger
}

// LoadParameterList builds a parameter list from a YAML ListDefinition.
// The list is validated before it is returned.
func LoadParameterList(data []byte, opts LoadOpts) (*ParameterList, error) {
	var def ListDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("error parsing parameter list definition: %w", err)
	}
	return def.Build(opts)
}

// Build creates the parameter list described by d.
func (d ListDefinition) Build(opts LoadOpts) (*ParameterList, error) {
	registry := opts.Registry
	if registry == nil {
		registry = DefaultFormatRegistry()
	}

	ctx, err := contextByName(d.Context)
	if err != nil {
		return nil, err
	}

	list := NewParameterList(d.Name, ParameterListOpts{Context: ctx, Logger: opts.Logger})
	for _, pd := range d.Parameters {
		p, err := pd.Build(registry)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", d.Name, err)
		}
		list.Add(p)
	}

	if err := list.Validate(); err != nil {
		return nil, err
	}
	return list, nil
}

// Build creates the parameter described by d, resolving its format in
// registry.
func (d ParameterDefinition) Build(registry *FormatRegistry) (*Parameter, error) {
	if !d.Type.IsValid() {
		return nil, fmt.Errorf("parameter %s: %w: %q", d.Name, ErrUnknownType, d.Type)
	}

	p := NewParameter(d.Name, d.Type).
		SetRequired(d.Required).
		SetAllowTypeCast(d.AllowTypeCast).
		SetDeprecated(d.Deprecated).
		SetDescription(d.Description).
		SetEnum(d.Enum...).
		SetExclusiveMinimum(d.ExclusiveMinimum).
		SetExclusiveMaximum(d.ExclusiveMaximum).
		SetUniqueItems(d.UniqueItems)

	if d.Default != nil {
		p.SetDefault(d.Default)
	}
	if len(d.DependsOn) > 0 {
		p.DependsOn(d.DependsOn...)
	}

	if d.Format != "" {
		format, err := registry.Lookup(d.Format, d.FormatOptions)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", d.Name, err)
		}
		p.SetFormat(format)
	}

	if d.Pattern != "" {
		re, err := regexp.Compile(d.Pattern)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: invalid pattern: %w", d.Name, err)
		}
		p.constraints.pattern = re
	}

	p.constraints.minLength = d.MinLength
	p.constraints.maxLength = d.MaxLength
	p.constraints.minimum = d.Minimum
	p.constraints.maximum = d.Maximum
	p.constraints.multipleOf = d.MultipleOf
	p.constraints.minItems = d.MinItems
	p.constraints.maxItems = d.MaxItems

	for _, item := range d.Items {
		def, err := item.Build(registry)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", d.Name, err)
		}
		p.AddAllowedItem(def)
	}
	for _, prop := range d.Properties {
		def, err := prop.Build(registry)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", d.Name, err)
		}
		p.AddProperty(def)
	}
	if d.AdditionalProperties != nil {
		p.SetAdditionalProperties(*d.AdditionalProperties)
	}

	return p, nil
}

// contextByName returns the built in context called name. An empty name
// means no context.
func contextByName(name string) (Context, error) {
	switch name {
	case "":
		return nil, nil
	case QueryContextName:
		return NewQueryContext(), nil
	case BodyContextName:
		return NewBodyContext(), nil
	case PathContextName:
		return NewPathContext(), nil
	case HeaderContextName:
		return NewHeaderContext(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContext, name)
	}
}
