// Package params declares, validates and type-coerces API request parameters.
//
// A ParameterList is a named set of Parameters (query, body, path or header
// values), each with a declared type, an optional format and constraints.
// Given raw, untyped input the list produces validated and coerced values, or
// a single AggregateError listing every problem found across all parameters.
//
// Preparation is never fail-fast across parameters: every declared parameter
// is attempted exactly once per call so an API consumer can fix every field in
// one round trip.
//
// Each Parameter owns an ordered pipeline:
//   - an optional context deserializer (for example expanding "a,b,c" from a
//     query string into a list)
//   - an optional type cast (when SetAllowTypeCast is enabled)
//   - every validation rule (type, format, constraints, caller rules); rules
//     never short-circuit each other
//   - the preparation steps (type normalization, format parsing, caller
//     steps); the first failing step aborts the rest of that parameter only
//
// Parameters may depend on other parameters of the same list. The list runs
// parameters in topological order so a step can read a sibling's already
// prepared value from Values. Cycles and references to undeclared parameters
// are reported as a ConfigurationError, which is never mixed into the
// per-request AggregateError.
//
// Formats (email, uuid, csv, date, ...) are pluggable strategies registered
// by name in a FormatRegistry. Lists can be declared in code:
//
//	list := params.NewParameterList("search", params.ParameterListOpts{
//	    Context: params.NewQueryContext(),
//	})
//	list.AddInteger("limit", false).SetMaximum(100).SetDefault(10)
//	list.AddCSV("tags", false, ",")
//
//	values, err := list.Prepare(map[string]any{"tags": "a, b"})
//
// or loaded from a YAML definition with LoadParameterList.
//
// Every parameter also describes itself as a Documentation value, which can
// be rendered as OpenAPI (Swagger 2.0) parameters and schemas.
package params
