package params

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Type is the declared OpenAPI type of a parameter.
type Type string

// constants for the OpenAPI parameter types
const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeNumber  Type = "number"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// constants for built in format names
const (
	AlphanumericFormatName = "alphanumeric"
	BinaryFormatName       = "binary"
	ByteFormatName         = "byte"
	CSVFormatName          = "csv"
	DateFormatName         = "date"
	DateTimeFormatName     = "date-time"
	TemporalFormatName     = "temporal"
	EmailFormatName        = "email"
	PasswordFormatName     = "password"
	UUIDFormatName         = "uuid"
	YesNoFormatName        = "yes-no"
	Int32FormatName        = "int32"
	Int64FormatName        = "int64"
	FloatFormatName        = "float"
	DoubleFormatName       = "double"
	DecimalFormatName      = "decimal"
	UnixPathFormatName     = "unix-path"
)

// constants for built in context names
const (
	QueryContextName  = "query"
	BodyContextName   = "body"
	PathContextName   = "path"
	HeaderContextName = "header"
)

// constants for format options understood by the built in format factories
const (
	SeparatorsFormatOption = "separators"
	ExtraCharsFormatOption = "extra_chars"
)

const (
	// BindTagName is the struct tag read by Values.Bind.
	BindTagName = "param"

	// DefaultCSVSeparators is the separator set used by the csv format
	// when none is given.
	DefaultCSVSeparators = ","

	ContentTypeApplicationJSON = "application/json"
)

// reflect.TypeOf constants for type checks
var (
	UUIDType = reflect.TypeOf(uuid.UUID{})
	TimeType = reflect.TypeOf(time.Time{})
)
