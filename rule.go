package params

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"unicode/utf8"
)

// ValidationRule is a predicate plus the message shown when it fails.
//
// Base rules describe what a type or format looks like ("value must be a
// valid UUID"); additional rules are constraints added by the caller
// ("length must be at most 10"). Rules are immutable once constructed.
type ValidationRule struct {
	check   func(value any) bool
	message string
	base    bool
}

// NewValidationRule creates an additional (caller) rule.
func NewValidationRule(check func(value any) bool, message string) ValidationRule {
	return ValidationRule{check: check, message: message}
}

// NewBaseValidationRule creates a base rule, used by types and formats.
func NewBaseValidationRule(check func(value any) bool, message string) ValidationRule {
	return ValidationRule{check: check, message: message, base: true}
}

// Validate reports whether value passes the rule. A rule without a
// predicate always passes.
func (r ValidationRule) Validate(value any) bool {
	if r.check == nil {
		return true
	}
	return r.check(value)
}

func (r ValidationRule) Message() string { return r.message }

func (r ValidationRule) IsBase() bool { return r.base }

///////////////////////////////////////////////////////////////////////////////
// Constraint rules
//
// Each one passes values of a shape it does not apply to; the type rule of
// the parameter reports those.
///////////////////////////////////////////////////////////////////////////////

// MinLengthRule passes strings of at least n characters.
func MinLengthRule(n int) ValidationRule {
	return NewValidationRule(func(value any) bool {
		s, ok := value.(string)
		return !ok || utf8.RuneCountInString(s) >= n
	}, fmt.Sprintf("length must be at least %d", n))
}

// MaxLengthRule passes strings of at most n characters.
func MaxLengthRule(n int) ValidationRule {
	return NewValidationRule(func(value any) bool {
		s, ok := value.(string)
		return !ok || utf8.RuneCountInString(s) <= n
	}, fmt.Sprintf("length must be at most %d", n))
}

// PatternRule passes strings matching re.
func PatternRule(re *regexp.Regexp) ValidationRule {
	return NewValidationRule(func(value any) bool {
		s, ok := value.(string)
		return !ok || re.MatchString(s)
	}, fmt.Sprintf("value must match pattern %s", re.String()))
}

// EnumRule passes values equal to one of allowed. Numbers compare by value
// regardless of their Go kind.
func EnumRule(allowed ...any) ValidationRule {
	return NewValidationRule(func(value any) bool {
		for _, a := range allowed {
			if valuesEqual(a, value) {
				return true
			}
		}
		return false
	}, fmt.Sprintf("value must be one of: %s", joinAny(allowed)))
}

// MinimumRule passes numbers not below min, or above it when exclusive.
func MinimumRule(min float64, exclusive bool) ValidationRule {
	msg := fmt.Sprintf("value must be greater than or equal to %v", min)
	if exclusive {
		msg = fmt.Sprintf("value must be greater than %v", min)
	}
	return NewValidationRule(func(value any) bool {
		f, ok := toFloat(value)
		if !ok {
			return true
		}
		if exclusive {
			return f > min
		}
		return f >= min
	}, msg)
}

// MaximumRule passes numbers not above max, or below it when exclusive.
func MaximumRule(max float64, exclusive bool) ValidationRule {
	msg := fmt.Sprintf("value must be less than or equal to %v", max)
	if exclusive {
		msg = fmt.Sprintf("value must be less than %v", max)
	}
	return NewValidationRule(func(value any) bool {
		f, ok := toFloat(value)
		if !ok {
			return true
		}
		if exclusive {
			return f < max
		}
		return f <= max
	}, msg)
}

// MultipleOfRule passes numbers that are a multiple of n.
func MultipleOfRule(n float64) ValidationRule {
	return NewValidationRule(func(value any) bool {
		f, ok := toFloat(value)
		if !ok || n == 0 {
			return true
		}
		q := f / n
		return math.Abs(q-math.Round(q)) < 1e-9
	}, fmt.Sprintf("value must be a multiple of %v", n))
}

// MinItemsRule passes arrays holding at least n items.
func MinItemsRule(n int) ValidationRule {
	return NewValidationRule(func(value any) bool {
		l, ok := sliceLen(value)
		return !ok || l >= n
	}, fmt.Sprintf("value must contain at least %d items", n))
}

// MaxItemsRule passes arrays holding at most n items.
func MaxItemsRule(n int) ValidationRule {
	return NewValidationRule(func(value any) bool {
		l, ok := sliceLen(value)
		return !ok || l <= n
	}, fmt.Sprintf("value must contain at most %d items", n))
}

// UniqueItemsRule passes arrays without equal items.
func UniqueItemsRule() ValidationRule {
	return NewValidationRule(func(value any) bool {
		items, ok := toSlice(value)
		if !ok {
			return true
		}
		for i := range items {
			for j := i + 1; j < len(items); j++ {
				if valuesEqual(items[i], items[j]) {
					return false
				}
			}
		}
		return true
	}, "value must contain unique items")
}

func sliceLen(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return 0, false
	}
	return rv.Len(), true
}

func valuesEqual(a, b any) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return reflect.DeepEqual(a, b)
}

func joinAny(values []any) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%v", v)
	}
	return out
}
