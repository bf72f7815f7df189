package params

import (
	"fmt"

	"github.com/go-openapi/spec"
	"sigs.k8s.io/yaml"
)

// DeprecatedExtension is the vendor extension carrying the deprecated flag
// in generated Swagger 2.0 parameters and schemas.
const DeprecatedExtension = "x-deprecated"

// Documentation describes a parameter for API documentation generators:
// type, flags, constraints and the nested item and property definitions.
type Documentation struct {
	Name        string `json:"name"`
	Type        Type   `json:"type"`
	Format      string `json:"format,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	Deprecated  bool   `json:"deprecated,omitempty"`
	Default     any    `json:"default,omitempty"`

	MinLength        *int     `json:"minLength,omitempty"`
	MaxLength        *int     `json:"maxLength,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	Enum             []any    `json:"enum,omitempty"`
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum bool     `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum bool     `json:"exclusiveMaximum,omitempty"`
	MultipleOf       *float64 `json:"multipleOf,omitempty"`
	MinItems         *int     `json:"minItems,omitempty"`
	MaxItems         *int     `json:"maxItems,omitempty"`
	UniqueItems      bool     `json:"uniqueItems,omitempty"`

	// Items are the allowed item definitions of an array (oneOf).
	Items []Documentation `json:"items,omitempty"`
	// Properties are the declared properties of an object, in declaration
	// order.
	Properties           []Documentation `json:"properties,omitempty"`
	AdditionalProperties bool            `json:"additionalProperties,omitempty"`
}

// Documentation describes p.
func (p *Parameter) Documentation() Documentation {
	doc := Documentation{
		Name:        p.name,
		Type:        p.typ,
		Description: p.Description(),
		Required:    p.required,
		Deprecated:  p.deprecated,

		MinLength:        p.constraints.minLength,
		MaxLength:        p.constraints.maxLength,
		Enum:             p.constraints.enum,
		Minimum:          p.constraints.minimum,
		Maximum:          p.constraints.maximum,
		ExclusiveMinimum: p.constraints.exclusiveMinimum,
		ExclusiveMaximum: p.constraints.exclusiveMaximum,
		MultipleOf:       p.constraints.multipleOf,
		MinItems:         p.constraints.minItems,
		MaxItems:         p.constraints.maxItems,
		UniqueItems:      p.constraints.uniqueItems,

		AdditionalProperties: p.additionalProperties,
	}
	if p.hasDefault {
		doc.Default = p.defaultValue
	}
	if p.format != nil {
		doc.Format = p.format.Name()
	}
	if p.constraints.pattern != nil {
		doc.Pattern = p.constraints.pattern.String()
	}
	for _, item := range p.items {
		doc.Items = append(doc.Items, item.Documentation())
	}
	if p.properties != nil {
		for _, prop := range p.properties.Parameters() {
			doc.Properties = append(doc.Properties, prop.Documentation())
		}
	}
	return doc
}

// Schema renders d as a JSON schema.
func (d Documentation) Schema() spec.Schema {
	schema := spec.Schema{
		SchemaProps: spec.SchemaProps{
			Type:             spec.StringOrArray{string(d.Type)},
			Format:           d.Format,
			Description:      d.Description,
			Default:          d.Default,
			Pattern:          d.Pattern,
			Enum:             d.Enum,
			Minimum:          d.Minimum,
			Maximum:          d.Maximum,
			ExclusiveMinimum: d.ExclusiveMinimum,
			ExclusiveMaximum: d.ExclusiveMaximum,
			MultipleOf:       d.MultipleOf,
			MinLength:        int64Ptr(d.MinLength),
			MaxLength:        int64Ptr(d.MaxLength),
			MinItems:         int64Ptr(d.MinItems),
			MaxItems:         int64Ptr(d.MaxItems),
			UniqueItems:      d.UniqueItems,
		},
	}
	if d.Deprecated {
		schema.Extensions = spec.Extensions{DeprecatedExtension: true}
	}

	switch len(d.Items) {
	case 0:
	case 1:
		item := d.Items[0].Schema()
		schema.Items = &spec.SchemaOrArray{Schema: &item}
	default:
		oneOf := make([]spec.Schema, 0, len(d.Items))
		for _, item := range d.Items {
			oneOf = append(oneOf, item.Schema())
		}
		schema.Items = &spec.SchemaOrArray{Schema: &spec.Schema{
			SchemaProps: spec.SchemaProps{OneOf: oneOf},
		}}
	}

	if len(d.Properties) > 0 {
		schema.Properties = make(spec.SchemaProperties, len(d.Properties))
		for _, prop := range d.Properties {
			schema.Properties[prop.Name] = prop.Schema()
			if prop.Required {
				schema.Required = append(schema.Required, prop.Name)
			}
		}
		if !d.AdditionalProperties {
			schema.AdditionalProperties = &spec.SchemaOrBool{Allows: false}
		}
	}

	return schema
}

// Parameter renders d as a Swagger 2.0 parameter located in in ("query",
// "path", "header" or "body"). Body parameters carry a schema; the others
// use the simple schema fields.
func (d Documentation) Parameter(in string) spec.Parameter {
	param := spec.Parameter{
		ParamProps: spec.ParamProps{
			Name:        d.Name,
			In:          in,
			Required:    d.Required,
			Description: d.Description,
		},
	}
	if d.Deprecated {
		param.Extensions = spec.Extensions{DeprecatedExtension: true}
	}

	if in == BodyContextName {
		schema := d.Schema()
		schema.Description = ""
		param.Schema = &schema
		return param
	}

	param.Type = string(d.Type)
	param.Format = d.Format
	param.Default = d.Default
	param.CommonValidations = spec.CommonValidations{
		Maximum:          d.Maximum,
		ExclusiveMaximum: d.ExclusiveMaximum,
		Minimum:          d.Minimum,
		ExclusiveMinimum: d.ExclusiveMinimum,
		MaxLength:        int64Ptr(d.MaxLength),
		MinLength:        int64Ptr(d.MinLength),
		Pattern:          d.Pattern,
		MaxItems:         int64Ptr(d.MaxItems),
		MinItems:         int64Ptr(d.MinItems),
		UniqueItems:      d.UniqueItems,
		MultipleOf:       d.MultipleOf,
		Enum:             d.Enum,
	}

	if d.Type == TypeArray {
		param.CollectionFormat = "csv"
		items := &spec.Items{SimpleSchema: spec.SimpleSchema{Type: string(TypeString)}}
		if len(d.Items) == 1 {
			item := d.Items[0]
			items.Type = string(item.Type)
			items.Format = item.Format
			items.Enum = item.Enum
		}
		param.Items = items
	}

	return param
}

///////////////////////////////////////////////////////////////////////////////
// Parameter list documentation
///////////////////////////////////////////////////////////////////////////////

// APIDocumentation describes every parameter of the list keyed by name.
func (l *ParameterList) APIDocumentation() map[string]Documentation {
	params := l.Parameters()
	out := make(map[string]Documentation, len(params))
	for _, p := range params {
		out[p.Name()] = p.Documentation()
	}
	return out
}

// OpenAPIParameters renders the list as Swagger 2.0 parameters. A list in
// the body context becomes a single body parameter named after the list
// with an object schema; other lists produce one parameter per entry.
// Lists without a context are documented as query parameters.
func (l *ParameterList) OpenAPIParameters() []spec.Parameter {
	in := QueryContextName
	if l.context != nil {
		in = l.context.Name()
	}

	params := l.Parameters()

	if in == BodyContextName {
		body := Documentation{Name: l.name, Type: TypeObject, AdditionalProperties: true}
		for _, p := range params {
			body.Properties = append(body.Properties, p.Documentation())
			if p.IsRequired() {
				body.Required = true
			}
		}
		return []spec.Parameter{body.Parameter(BodyContextName)}
	}

	out := make([]spec.Parameter, 0, len(params))
	for _, p := range params {
		out = append(out, p.Documentation().Parameter(in))
	}
	return out
}

// OpenAPIYAML renders OpenAPIParameters as YAML.
func (l *ParameterList) OpenAPIYAML() ([]byte, error) {
	out, err := yaml.Marshal(l.OpenAPIParameters())
	if err != nil {
		return nil, fmt.Errorf("error rendering parameters of list %s: %w", l.name, err)
	}
	return out, nil
}

func int64Ptr(n *int) *int64 {
	if n == nil {
		return nil
	}
	v := int64(*n)
	return &v
}
