package params

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
)

// ParameterList is a named collection of parameters sharing one Context.
// It orders preparation by the declared dependencies and reports every
// problem found in one pass.
//
// Build the list once, then share it: Prepare may be called concurrently
// once no more parameters are being added.
type ParameterList struct {
	name    string
	params  map[string]*Parameter
	order   []string // insertion order
	context Context
	logger  *slog.Logger

	mu     sync.RWMutex
	sorted []string // cached dependency order, nil when stale
}

type ParameterListOpts struct {
	Parameters []*Parameter
	Context    Context
	// Logger receives debug output for every preparation pass. Defaults to
	// a logger that discards everything.
	Logger *slog.Logger
}

func NewParameterList(name string, opts ParameterListOpts) *ParameterList {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := &ParameterList{
		name:    name,
		params:  make(map[string]*Parameter, len(opts.Parameters)),
		context: opts.Context,
		logger:  logger,
	}
	for _, p := range opts.Parameters {
		l.Add(p)
	}
	return l
}

///////////////////////////////////////////////////////////////////////////////
// Mutation
///////////////////////////////////////////////////////////////////////////////

// Add adds p to the list. A parameter with the same name is replaced and
// keeps its position.
func (l *ParameterList) Add(p *Parameter) *Parameter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.params[p.Name()]; !exists {
		l.order = append(l.order, p.Name())
	}
	l.params[p.Name()] = p
	l.sorted = nil
	return p
}

// AddString adds a string parameter.
func (l *ParameterList) AddString(name string, required bool) *Parameter {
	return l.Add(NewString(name).SetRequired(required))
}

// AddInteger adds an integer parameter.
func (l *ParameterList) AddInteger(name string, required bool) *Parameter {
	return l.Add(NewInteger(name).SetRequired(required))
}

// AddNumber adds a number parameter.
func (l *ParameterList) AddNumber(name string, required bool) *Parameter {
	return l.Add(NewNumber(name).SetRequired(required))
}

// AddBoolean adds a boolean parameter.
func (l *ParameterList) AddBoolean(name string, required bool) *Parameter {
	return l.Add(NewBoolean(name).SetRequired(required))
}

// AddArray adds an array parameter accepting any items.
func (l *ParameterList) AddArray(name string, required bool) *Parameter {
	return l.Add(NewArray(name).SetRequired(required))
}

// AddObject adds an object parameter.
func (l *ParameterList) AddObject(name string, required bool) *Parameter {
	return l.Add(NewObject(name).SetRequired(required))
}

// AddAlphanumeric adds a string parameter limited to letters, digits and extraChars.
func (l *ParameterList) AddAlphanumeric(name string, required bool, extraChars string) *Parameter {
	return l.AddString(name, required).SetFormat(AlphanumericFormat(extraChars))
}

// AddBinary adds a string parameter made of 0 and 1 only.
func (l *ParameterList) AddBinary(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(BinaryFormat())
}

// AddByte adds a base64 string parameter prepared into the decoded string.
func (l *ParameterList) AddByte(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(ByteFormat())
}

// AddCSV adds a string parameter prepared into a []string. An empty
// separators uses DefaultCSVSeparators.
func (l *ParameterList) AddCSV(name string, required bool, separators string) *Parameter {
	return l.AddString(name, required).SetFormat(CSVFormat(separators))
}

// AddDate adds a YYYY-MM-DD string parameter prepared into a time.Time.
func (l *ParameterList) AddDate(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(DateFormat())
}

// AddDateTime adds an RFC 3339 string parameter prepared into a time.Time.
func (l *ParameterList) AddDateTime(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(DateTimeFormat())
}

// AddTemporal adds a string parameter accepting common date and time layouts.
func (l *ParameterList) AddTemporal(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(TemporalFormat(nil))
}

// AddEmail adds an email address parameter.
func (l *ParameterList) AddEmail(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(EmailFormat())
}

// AddPassword adds a string parameter marked as sensitive.
func (l *ParameterList) AddPassword(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(PasswordFormat())
}

// AddUUID adds a UUID string parameter.
func (l *ParameterList) AddUUID(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(UUIDFormat())
}

// AddYesNo adds a yes/no string parameter prepared into a bool.
func (l *ParameterList) AddYesNo(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(YesNoFormat())
}

// AddDecimal adds a decimal string parameter prepared into a decimal.Decimal.
func (l *ParameterList) AddDecimal(name string, required bool) *Parameter {
	return l.AddString(name, required).SetFormat(DecimalFormat())
}

///////////////////////////////////////////////////////////////////////////////
// Accessors
///////////////////////////////////////////////////////////////////////////////

func (l *ParameterList) Name() string     { return l.name }
func (l *ParameterList) Context() Context { return l.context }

// Get returns the parameter called name.
func (l *ParameterList) Get(name string) (*Parameter, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	p, ok := l.params[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrParameterNotFound, name)
	}
	return p, nil
}

func (l *ParameterList) Has(name string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.params[name]
	return ok
}

func (l *ParameterList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.order)
}

// Names lists the parameter names in insertion order.
func (l *ParameterList) Names() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.order)
}

// Parameters lists the parameters in insertion order.
func (l *ParameterList) Parameters() []*Parameter {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Parameter, 0, len(l.order))
	for _, name := range l.order {
		out = append(out, l.params[name])
	}
	return out
}

///////////////////////////////////////////////////////////////////////////////
// Configuration
///////////////////////////////////////////////////////////////////////////////

// Validate checks the list for authoring errors: dependency cycles,
// dependencies on undeclared or on the same parameter, and formats set on
// parameters of another type. Nested property lists are checked too. The
// error is always a *ConfigurationError.
func (l *ParameterList) Validate() error {
	_, err := l.preparationOrder()
	return err
}

// preparationOrder returns the cached dependency order, computing and
// checking it on first use after a change.
func (l *ParameterList) preparationOrder() ([]string, error) {
	l.mu.RLock()
	sorted := l.sorted
	l.mu.RUnlock()
	if sorted != nil {
		return sorted, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.sorted != nil {
		return l.sorted, nil
	}

	for _, name := range l.order {
		if err := l.checkParameter(l.params[name]); err != nil {
			l.logger.Error("invalid parameter list", "list", l.name, "error", err)
			return nil, err
		}
	}

	sorted, err := dependencyOrder(l.name, l.order, l.params)
	if err != nil {
		l.logger.Error("invalid parameter list", "list", l.name, "error", err)
		return nil, err
	}
	l.sorted = sorted
	return sorted, nil
}

// checkParameter verifies the formats of p and of its nested definitions.
func (l *ParameterList) checkParameter(p *Parameter) error {
	if err := p.checkFormats(l.name); err != nil {
		return err
	}
	if p.properties != nil {
		return p.properties.Validate()
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Preparation
///////////////////////////////////////////////////////////////////////////////

// Prepare validates and prepares raw in strict mode: submitted names the
// list does not declare are reported.
func (l *ParameterList) Prepare(raw map[string]any) (*Values, error) {
	return l.PrepareValues(NewValues(raw, l.context), true)
}

// PrepareNonStrict is Prepare without the undefined parameter check.
// Undeclared values stay available through Values.Get.
func (l *ParameterList) PrepareNonStrict(raw map[string]any) (*Values, error) {
	return l.PrepareValues(NewValues(raw, l.context), false)
}

// PrepareValues prepares every parameter of the list against values.
//
// Configuration errors are returned immediately as *ConfigurationError.
// Data errors never stop the pass: every parameter is attempted once, in
// dependency order, and all problems are returned together as one
// *AggregateError. On success the prepared values are recorded in values,
// which is returned. A nil values is treated as an empty submission.
func (l *ParameterList) PrepareValues(values *Values, strict bool) (*Values, error) {
	if values == nil {
		values = NewValues(nil, l.context)
	}

	order, err := l.preparationOrder()
	if err != nil {
		return nil, err
	}

	l.mu.RLock()
	params := l.params
	l.mu.RUnlock()

	agg := NewAggregateError()

	if strict {
		var undefined []string
		for _, name := range values.Names() {
			if _, ok := params[name]; !ok {
				undefined = append(undefined, name)
			}
		}
		if len(undefined) > 0 {
			agg.add(&UndefinedParametersError{Names: undefined})
		}
	}

	for _, name := range order {
		p := params[name]

		rv, submitted := values.Get(name)
		if !submitted {
			if p.required && !p.hasDefault {
				agg.add(&MissingParameterError{Parameter: name})
				continue
			}
			if !p.hasDefault {
				continue
			}
		}

		prepared, err := p.Prepare(rv.Value, values)
		if err != nil {
			agg.add(err)
			continue
		}
		values.setPrepared(name, prepared)
	}

	l.logger.Debug("prepared parameter list",
		"list", l.name,
		"parameters", len(order),
		"submitted", values.Len(),
		"errors", agg.Len(),
	)

	if agg.Len() > 0 {
		return nil, agg
	}
	return values, nil
}

// Decode turns a raw payload into Values using the deserializer of the
// list context.
func (l *ParameterList) Decode(data []byte) (*Values, error) {
	if l.context == nil || l.context.Deserializer() == nil {
		return nil, fmt.Errorf("%w: list %s", ErrNoDeserializer, l.name)
	}
	raw, err := l.context.Deserializer().Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s values: %w", l.context.Name(), err)
	}
	return NewValues(raw, l.context), nil
}

// PrepareRequest extracts the raw values from r with the list context and
// prepares them.
func (l *ParameterList) PrepareRequest(r *http.Request, strict bool) (*Values, error) {
	extractor, ok := l.context.(RequestExtractor)
	if !ok {
		return nil, fmt.Errorf("%w: list %s", ErrNoRequestExtractor, l.name)
	}

	raw, err := extractor.Extract(r, l.Names())
	if err != nil {
		return nil, fmt.Errorf("error reading %s values: %w", l.context.Name(), err)
	}
	return l.PrepareValues(NewValues(raw, l.context), strict)
}
