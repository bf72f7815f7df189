package params

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Sentinels
///////////////////////////////////////////////////////////////////////////////

var (
	ErrParameterNotFound       = errors.New("parameter not found")
	ErrCircularDependency      = errors.New("circular dependency between parameters")
	ErrUnknownDependency       = errors.New("parameter depends on an undeclared parameter")
	ErrSelfDependency          = errors.New("parameter depends on itself")
	ErrFormatTypeMismatch      = errors.New("format does not apply to the parameter type")
	ErrFormatAlreadyRegistered = errors.New("a format with this name is already registered")
	ErrFormatNotFound          = errors.New("no format registered with this name")
	ErrNoDeserializer          = errors.New("context has no deserializer")
	ErrNoRequestExtractor      = errors.New("context cannot extract values from a request")
	ErrUnsupportedMediaType    = errors.New("unsupported media type")
	ErrInvalidDestination      = errors.New("destination must be a non-nil pointer to a struct")
)

///////////////////////////////////////////////////////////////////////////////
// Parameter errors
///////////////////////////////////////////////////////////////////////////////

// ErrorKind classifies a data error found while preparing values.
type ErrorKind string

const (
	KindMissing   ErrorKind = "missing"
	KindInvalid   ErrorKind = "invalid"
	KindUndefined ErrorKind = "undefined"
)

// ParameterError is the minimal, flattened view of one problem with one
// parameter. It is what API error responses are built from.
type ParameterError struct {
	Kind      ErrorKind `json:"kind"`
	Parameter string    `json:"parameter"`
	Message   string    `json:"message"`
}

// Error implements the error interface
func (pe ParameterError) Error() string {
	if pe.Parameter == "" {
		return pe.Message
	}
	return fmt.Sprintf("%s: %s", pe.Parameter, pe.Message)
}

// FieldError is implemented by every data error this package produces.
type FieldError interface {
	error
	ParameterErrors() []ParameterError
}

var (
	_ FieldError = (*MissingParameterError)(nil)
	_ FieldError = (*InvalidValueError)(nil)
	_ FieldError = (*UndefinedParametersError)(nil)
	_ FieldError = (*AggregateError)(nil)
)

// MissingParameterError is returned when a required parameter is absent.
type MissingParameterError struct {
	Parameter string
}

// Error implements the error interface
func (e *MissingParameterError) Error() string {
	return "Missing required parameter: " + e.Parameter
}

func (e *MissingParameterError) ParameterErrors() []ParameterError {
	return []ParameterError{{
		Kind:      KindMissing,
		Parameter: e.Parameter,
		Message:   "parameter is required",
	}}
}

// InvalidValueError carries every validation or preparation failure for a
// single parameter. Messages is never empty.
type InvalidValueError struct {
	Parameter string
	Value     any
	Step      string // name of the failing step, empty for rule failures
	Messages  []string
}

func newInvalidValueError(param string, value any, step string, messages ...string) *InvalidValueError {
	return &InvalidValueError{
		Parameter: param,
		Value:     value,
		Step:      step,
		Messages:  messages,
	}
}

// Error implements the error interface
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf(
		"Invalid value for parameter %s: %s",
		e.Parameter, strings.Join(e.Messages, "; "),
	)
}

func (e *InvalidValueError) ParameterErrors() []ParameterError {
	out := make([]ParameterError, 0, len(e.Messages))
	for _, msg := range e.Messages {
		out = append(out, ParameterError{
			Kind:      KindInvalid,
			Parameter: e.Parameter,
			Message:   msg,
		})
	}
	return out
}

// UndefinedParametersError lists submitted names that the list does not
// declare. It is only produced in strict mode.
type UndefinedParametersError struct {
	Names []string
}

// Error implements the error interface
func (e *UndefinedParametersError) Error() string {
	if len(e.Names) == 1 {
		return "Undefined parameter: " + e.Names[0]
	}
	return "Undefined parameters: " + strings.Join(e.Names, ", ")
}

func (e *UndefinedParametersError) ParameterErrors() []ParameterError {
	out := make([]ParameterError, 0, len(e.Names))
	for _, name := range e.Names {
		out = append(out, ParameterError{
			Kind:      KindUndefined,
			Parameter: name,
			Message:   "parameter is not defined",
		})
	}
	return out
}

///////////////////////////////////////////////////////////////////////////////
// AggregateError
///////////////////////////////////////////////////////////////////////////////

// AggregateError is the complete report of one failed preparation pass.
// Errors are kept in the order they were encountered. It is never empty
// when returned by this package.
type AggregateError struct {
	errs []error
}

// NewAggregateError bundles errs, dropping nils.
func NewAggregateError(errs ...error) *AggregateError {
	agg := &AggregateError{}
	for _, err := range errs {
		if err != nil {
			agg.errs = append(agg.errs, err)
		}
	}
	return agg
}

func (e *AggregateError) add(err error) {
	e.errs = append(e.errs, err)
}

// Len returns the number of queued errors.
func (e *AggregateError) Len() int {
	return len(e.errs)
}

// Errors returns a copy of the queued errors in encounter order.
func (e *AggregateError) Errors() []error {
	return append([]error(nil), e.errs...)
}

// Unwrap allows errors.Is and errors.As to reach every queued error.
func (e *AggregateError) Unwrap() []error {
	return e.errs
}

// ParameterErrors flattens every queued error.
func (e *AggregateError) ParameterErrors() []ParameterError {
	var out []ParameterError
	for _, err := range e.errs {
		var fe FieldError
		if errors.As(err, &fe) {
			out = append(out, fe.ParameterErrors()...)
			continue
		}
		out = append(out, ParameterError{Kind: KindInvalid, Message: err.Error()})
	}
	return out
}

// Summary returns the short human readable headline of the report.
func (e *AggregateError) Summary() string {
	return fmt.Sprintf("There were %d validation errors", len(e.errs))
}

// Error implements the error interface
func (e *AggregateError) Error() string {
	msgs := make([]string, 0, len(e.errs))
	for _, err := range e.errs {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("%s: %s", e.Summary(), strings.Join(msgs, "; "))
}

// MarshalJSON renders the report in the shape API error responses use.
func (e *AggregateError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Message string           `json:"message"`
		Errors  []ParameterError `json:"errors"`
	}{
		Message: e.Summary(),
		Errors:  e.ParameterErrors(),
	})
}

///////////////////////////////////////////////////////////////////////////////
// Configuration errors
///////////////////////////////////////////////////////////////////////////////

// ConfigurationError reports a schema authoring bug: a dependency cycle, a
// dependency on an undeclared parameter or a format applied to the wrong
// type. It is returned immediately and never aggregated with data errors.
type ConfigurationError struct {
	List  string
	Names []string
	Err   error
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	if e.List == "" {
		return fmt.Sprintf("invalid parameter: %v (%s)", e.Err, strings.Join(e.Names, ", "))
	}
	return fmt.Sprintf(
		"invalid parameter list %q: %v (%s)",
		e.List, e.Err, strings.Join(e.Names, ", "),
	)
}

// Unwrap returns the underlying sentinel
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is a schema authoring error.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsValidationError reports whether err was caused by the submitted data.
func IsValidationError(err error) bool {
	if err == nil || IsConfigurationError(err) {
		return false
	}
	var fe FieldError
	return errors.As(err, &fe)
}
