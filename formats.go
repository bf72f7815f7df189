package params

import (
	"encoding/base64"
	"fmt"
	"math"
	"net/mail"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

///////////////////////////////////////////////////////////////////////////////
// String formats
///////////////////////////////////////////////////////////////////////////////

// AlphanumericFormat accepts letters and digits plus any rune in
// extraChars.
func AlphanumericFormat(extraChars string) *BasicFormat {
	message := "value must contain only alphanumeric characters"
	doc := "Value must contain only alphanumeric characters."
	if extraChars != "" {
		message = fmt.Sprintf("value must contain only alphanumeric characters or %q", extraChars)
		doc = fmt.Sprintf("Value must contain only alphanumeric characters or any of %q.", extraChars)
	}

	return NewFormat(FormatOpts{
		Name:      AlphanumericFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			for _, r := range s {
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !strings.ContainsRune(extraChars, r) {
					return false
				}
			}
			return true
		}, message)},
		Documentation: doc,
	})
}

// BinaryFormat accepts strings made of 0 and 1 only.
func BinaryFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      BinaryFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			return s != "" && strings.Trim(s, "01") == ""
		}, "value must be a binary string (only 0 and 1)")},
	})
}

// ByteFormat accepts standard base64 and prepares the decoded string.
func ByteFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      ByteFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := base64.StdEncoding.DecodeString(s)
			return err == nil
		}, "value must be base64 encoded")},
		Steps: []PreparationStep{NewValueStep("decode base64", func(value any) (any, error) {
			decoded, err := base64.StdEncoding.DecodeString(value.(string))
			if err != nil {
				return nil, err
			}
			return string(decoded), nil
		})},
		Documentation: "Value must be base64 encoded.",
	})
}

// CSVFormat splits a string on any rune in separators and prepares a
// []string of trimmed, non empty items. itemRules run against every item.
func CSVFormat(separators string, itemRules ...ValidationRule) *BasicFormat {
	if separators == "" {
		separators = DefaultCSVSeparators
	}

	split := func(s string) []string {
		fields := strings.FieldsFunc(s, func(r rune) bool {
			return strings.ContainsRune(separators, r)
		})
		out := make([]string, 0, len(fields))
		for _, field := range fields {
			if field = strings.TrimSpace(field); field != "" {
				out = append(out, field)
			}
		}
		return out
	}

	return NewFormat(FormatOpts{
		Name:      CSVFormatName,
		AppliesTo: TypeString,
		Steps: []PreparationStep{NewValueStep("split separated values", func(value any) (any, error) {
			items := split(value.(string))
			var messages []string
			for i, item := range items {
				for _, rule := range itemRules {
					if !rule.Validate(item) {
						messages = append(messages, fmt.Sprintf("item %d: %s", i, rule.Message()))
					}
				}
			}
			if len(messages) > 0 {
				return nil, newInvalidValueError("", value, "split separated values", messages...)
			}
			return items, nil
		})},
		Documentation: fmt.Sprintf("Value must be a list of items separated by any of %q.", separators),
	})
}

// EmailFormat accepts a bare email address (no display name).
func EmailFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      EmailFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			addr, err := mail.ParseAddress(s)
			return err == nil && addr.Address == s
		}, "value must be a valid email address")},
	})
}

// PasswordFormat marks a value as sensitive. It adds no rules.
func PasswordFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      PasswordFormatName,
		AppliesTo: TypeString,
	})
}

// UUIDFormat accepts UUIDs in any form google/uuid parses. The prepared
// value stays a string; Bind converts it for uuid.UUID fields.
func UUIDFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      UUIDFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := uuid.Parse(s)
			return err == nil
		}, "value must be a valid UUID")},
	})
}

// YesNoFormat accepts truthy and falsy words (yes/no, true/false, on/off,
// y/n, 1/0) and prepares a bool.
func YesNoFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      YesNoFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := parseBool(s)
			return err == nil
		}, "value must be one of: yes, no, true, false, on, off, y, n, 1, 0")},
		Steps: []PreparationStep{NewValueStep("convert to boolean", func(value any) (any, error) {
			return parseBool(value.(string))
		})},
		Documentation: "Value must be a yes/no value (yes, no, true, false, on, off, y, n, 1, 0).",
	})
}

// DecimalFormat accepts decimal numbers written as strings and prepares a
// decimal.Decimal without losing precision.
func DecimalFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      DecimalFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := decimal.NewFromString(s)
			return err == nil
		}, "value must be a decimal number")},
		Steps: []PreparationStep{NewValueStep("parse decimal", func(value any) (any, error) {
			return decimal.NewFromString(value.(string))
		})},
	})
}

// UnixPathFormat accepts UNIX paths and prepares the cleaned path.
func UnixPathFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      UnixPathFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			return s != "" && !strings.ContainsRune(s, 0)
		}, "value must be a valid UNIX path")},
		Steps: []PreparationStep{NewValueStep("clean path", func(value any) (any, error) {
			return path.Clean(value.(string)), nil
		})},
	})
}

///////////////////////////////////////////////////////////////////////////////
// Date formats
///////////////////////////////////////////////////////////////////////////////

const (
	dateLayout      = "2006-01-02"
	dateExample     = "2017-03-04"
	dateTimeExample = "2017-03-04T01:30:40Z"
)

// DateFormat accepts full dates (2017-03-04) and prepares a time.Time at
// midnight UTC.
func DateFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      DateFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := time.Parse(dateLayout, s)
			return err == nil
		}, fmt.Sprintf("value must be a valid date (example: %s)", dateExample))},
		Steps: []PreparationStep{NewValueStep("parse date", func(value any) (any, error) {
			return time.Parse(dateLayout, value.(string))
		})},
	})
}

// DateTimeFormat accepts RFC 3339 timestamps and prepares a time.Time.
func DateTimeFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      DateTimeFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := time.Parse(time.RFC3339, s)
			return err == nil
		}, fmt.Sprintf("value must be a valid RFC3339 date/time (example: %s)", dateTimeExample))},
		Steps: []PreparationStep{NewValueStep("parse date/time", func(value any) (any, error) {
			return time.Parse(time.RFC3339, value.(string))
		})},
	})
}

// temporalLayouts are tried in order by the temporal format.
var temporalLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	dateLayout,
	time.RFC1123Z,
	time.RFC1123,
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// TemporalFormat accepts any date or time it can make sense of: the common
// layouts plus "now", "today", "tomorrow" and "yesterday", resolved against
// now (time.Now when nil).
func TemporalFormat(now func() time.Time) *BasicFormat {
	if now == nil {
		now = time.Now
	}

	parse := func(s string) (time.Time, error) {
		current := now()
		midnight := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, current.Location())
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "now":
			return current, nil
		case "today":
			return midnight, nil
		case "tomorrow":
			return midnight.AddDate(0, 0, 1), nil
		case "yesterday":
			return midnight.AddDate(0, 0, -1), nil
		}
		for _, layout := range temporalLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("value %q is not a recognized date/time", s)
	}

	return NewFormat(FormatOpts{
		Name:      TemporalFormatName,
		AppliesTo: TypeString,
		Rules: []ValidationRule{stringRule(func(s string) bool {
			_, err := parse(s)
			return err == nil
		}, fmt.Sprintf("value must be a valid date/time (example: %s)", dateTimeExample))},
		Steps: []PreparationStep{NewValueStep("parse date/time string", func(value any) (any, error) {
			return parse(value.(string))
		})},
		Documentation: fmt.Sprintf(`Value must be a valid date/time (examples: "now", %q, "tomorrow", %q).`, dateExample, dateTimeExample),
	})
}

///////////////////////////////////////////////////////////////////////////////
// Numeric formats
///////////////////////////////////////////////////////////////////////////////

// Int32Format limits integers to the int32 range and prepares an int32.
func Int32Format() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      Int32FormatName,
		AppliesTo: TypeInteger,
		Rules: []ValidationRule{NewBaseValidationRule(func(value any) bool {
			i, ok := toInt(value)
			return !ok || (i >= math.MinInt32 && i <= math.MaxInt32)
		}, "value must be a 32-bit integer")},
		Steps: []PreparationStep{NewValueStep("convert to int32", func(value any) (any, error) {
			return int32(value.(int)), nil
		})},
	})
}

// Int64Format prepares an int64.
func Int64Format() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      Int64FormatName,
		AppliesTo: TypeInteger,
		Steps: []PreparationStep{NewValueStep("convert to int64", func(value any) (any, error) {
			return int64(value.(int)), nil
		})},
	})
}

// FloatFormat limits numbers to the float32 range and prepares a float32.
func FloatFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      FloatFormatName,
		AppliesTo: TypeNumber,
		Rules: []ValidationRule{NewBaseValidationRule(func(value any) bool {
			f, ok := toFloat(value)
			return !ok || math.Abs(f) <= math.MaxFloat32
		}, "value must be a 32-bit floating point number")},
		Steps: []PreparationStep{NewValueStep("convert to float32", func(value any) (any, error) {
			return float32(value.(float64)), nil
		})},
	})
}

// DoubleFormat documents a 64-bit number. The prepared value stays a
// float64.
func DoubleFormat() *BasicFormat {
	return NewFormat(FormatOpts{
		Name:      DoubleFormatName,
		AppliesTo: TypeNumber,
	})
}

///////////////////////////////////////////////////////////////////////////////
// Cross parameter steps
///////////////////////////////////////////////////////////////////////////////

// MustBeAfter returns a step requiring the value to be later than (or
// greater than) the prepared value of other. Times, numbers, decimals and
// strings are compared. The step passes when other has no prepared value,
// since its own error has been reported already.
func MustBeAfter(other string) *CallbackStep {
	return compareStep(other, "after", func(c int) bool { return c > 0 })
}

// MustBeBefore is the counterpart of MustBeAfter.
func MustBeBefore(other string) *CallbackStep {
	return compareStep(other, "before", func(c int) bool { return c < 0 })
}

func compareStep(other, relation string, ok func(c int) bool) *CallbackStep {
	name := fmt.Sprintf("must be %s %s", relation, other)
	return NewDependentStep(name, []string{other}, func(value any, values *Values) (any, error) {
		reference, found := values.Prepared(other)
		if !found {
			return value, nil
		}
		c, err := compareValues(value, reference)
		if err != nil {
			return nil, err
		}
		if !ok(c) {
			return nil, fmt.Errorf("value must be %s %s", relation, other)
		}
		return value, nil
	})
}

// compareValues returns -1, 0 or 1 like cmp.Compare.
func compareValues(a, b any) (int, error) {
	switch av := a.(type) {
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Compare(bv), nil
		}
	case decimal.Decimal:
		if bv, ok := b.(decimal.Decimal); ok {
			return av.Cmp(bv), nil
		}
	case string:
		if bv, ok := b.(string); ok {
			return strings.Compare(av, bv), nil
		}
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if aok && bok {
			switch {
			case af < bf:
				return -1, nil
			case af > bf:
				return 1, nil
			default:
				return 0, nil
			}
		}
	}
	return 0, fmt.Errorf("value of type %T cannot be compared with %T", a, b)
}
