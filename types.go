package params

import (
	"errors"
	"fmt"
	"slices"
)

// IsValid reports whether t is one of the OpenAPI parameter types.
func (t Type) IsValid() bool {
	switch t {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean, TypeArray, TypeObject:
		return true
	default:
		return false
	}
}

func (t Type) String() string { return string(t) }

// typeRule is the base rule every parameter of type t runs first.
func typeRule(t Type) ValidationRule {
	article := "a"
	if t == TypeInteger || t == TypeArray || t == TypeObject {
		article = "an"
	}
	return NewBaseValidationRule(func(value any) bool {
		return isShape(t, value)
	}, fmt.Sprintf("value must be %s %s", article, t))
}

// typeSteps are the built in steps that normalize a validated value to the
// Go representation of the parameter type, and prepare nested items or
// properties.
//
//	integer -> int
//	number  -> float64
//	array   -> []any
//	object  -> map[string]any
func typeSteps(p *Parameter) []PreparationStep {
	switch p.typ {
	case TypeInteger:
		return []PreparationStep{NewValueStep("normalize integer", func(value any) (any, error) {
			i, _ := toInt(value)
			return i, nil
		})}
	case TypeNumber:
		return []PreparationStep{NewValueStep("normalize number", func(value any) (any, error) {
			f, _ := toFloat(value)
			return f, nil
		})}
	case TypeArray:
		steps := []PreparationStep{NewValueStep("normalize array", func(value any) (any, error) {
			items, _ := toSlice(value)
			return items, nil
		})}
		if len(p.items) > 0 {
			steps = append(steps, NewStep("prepare array items", p.prepareItems))
		}
		return steps
	case TypeObject:
		steps := []PreparationStep{NewValueStep("normalize object", func(value any) (any, error) {
			m, _ := toMap(value)
			return m, nil
		})}
		if p.properties != nil {
			steps = append(steps, NewStep("prepare object properties", p.prepareProperties))
		}
		return steps
	default:
		return nil
	}
}

// prepareItems runs every item through the allowed item definitions. The
// first definition that accepts an item wins.
func (p *Parameter) prepareItems(value any, values *Values) (any, error) {
	items := value.([]any)
	out := make([]any, len(items))
	var messages []string

	for i, item := range items {
		var lastErr *InvalidValueError
		matched := false
		for _, def := range p.items {
			prepared, err := def.Prepare(item, values)
			if err == nil {
				out[i] = prepared
				matched = true
				break
			}
			errors.As(err, &lastErr)
		}
		if matched {
			continue
		}
		if len(p.items) == 1 && lastErr != nil {
			for _, msg := range lastErr.Messages {
				messages = append(messages, fmt.Sprintf("item %d: %s", i, msg))
			}
			continue
		}
		messages = append(messages, fmt.Sprintf("item %d: value does not match any allowed item definition", i))
	}

	if len(messages) > 0 {
		return nil, newInvalidValueError(p.name, value, "prepare array items", messages...)
	}
	return out, nil
}

// prepareProperties prepares nested properties with the same semantics as
// a parameter list: missing, invalid and (without additional properties)
// undefined properties are all reported.
func (p *Parameter) prepareProperties(value any, values *Values) (any, error) {
	m := value.(map[string]any)

	var ctx Context
	if values != nil {
		ctx = values.Context()
	}

	nested, err := p.properties.PrepareValues(NewValues(m, ctx), !p.additionalProperties)
	if err != nil {
		var agg *AggregateError
		if !errors.As(err, &agg) {
			return nil, err
		}
		var messages []string
		for _, pe := range agg.ParameterErrors() {
			messages = append(messages, fmt.Sprintf("%s: %s", pe.Parameter, pe.Message))
		}
		return nil, newInvalidValueError(p.name, value, "prepare object properties", messages...)
	}

	out := nested.PreparedValues()
	if p.additionalProperties {
		for _, name := range nested.Names() {
			if !p.properties.Has(name) {
				raw, _ := nested.Get(name)
				out[name] = raw.Value
			}
		}
	}
	return out, nil
}

// sortedUnique returns names sorted with duplicates removed.
func sortedUnique(names []string) []string {
	out := slices.Clone(names)
	slices.Sort(out)
	return slices.Compact(out)
}
