package params

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"
)

// FormatOptions are the string options a FormatFactory understands, e.g.
// {"separators": ";|"} for csv. Unknown options are ignored.
type FormatOptions map[string]string

// FormatFactory builds a format from options.
type FormatFactory func(opts FormatOptions) (Format, error)

// FormatRegistry maps format names to factories so formats can be looked
// up by name, e.g. from declarative definitions.
//
// Each name may be registered once. The registry is safe for concurrent
// use.
type FormatRegistry struct {
	mu        sync.RWMutex
	factories map[string]FormatFactory
}

type FormatRegistryOpts struct {
	// Factories are registered after the built in formats.
	Factories map[string]FormatFactory
	// ExcludeDefaults leaves out the built in formats.
	ExcludeDefaults bool
}

// NewFormatRegistry creates a registry holding the built in formats unless
// opts.ExcludeDefaults is set.
func NewFormatRegistry(opts FormatRegistryOpts) (*FormatRegistry, error) {
	reg := &FormatRegistry{
		factories: make(map[string]FormatFactory),
	}

	if !opts.ExcludeDefaults {
		for name, factory := range builtinFormats() {
			if err := reg.Register(name, factory); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range slices.Sorted(maps.Keys(opts.Factories)) {
		if err := reg.Register(name, opts.Factories[name]); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// Register adds factory under name.
func (reg *FormatRegistry) Register(name string, factory FormatFactory) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrFormatAlreadyRegistered, name)
	}
	reg.factories[name] = factory
	return nil
}

// Lookup builds the format registered under name.
func (reg *FormatRegistry) Lookup(name string, opts FormatOptions) (Format, error) {
	reg.mu.RLock()
	factory, ok := reg.factories[name]
	reg.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFormatNotFound, name)
	}

	format, err := factory(opts)
	if err != nil {
		return nil, fmt.Errorf("error building format %s: %w", name, err)
	}
	return format, nil
}

// Has reports whether name is registered.
func (reg *FormatRegistry) Has(name string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.factories[name]
	return ok
}

// Names lists the registered format names in sorted order.
func (reg *FormatRegistry) Names() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return slices.Sorted(maps.Keys(reg.factories))
}

///////////////////////////////////////////////////////////////////////////////
// Default registry
///////////////////////////////////////////////////////////////////////////////

var defaultFormatRegistry = mustDefaultFormatRegistry()

func mustDefaultFormatRegistry() *FormatRegistry {
	reg, err := NewFormatRegistry(FormatRegistryOpts{})
	if err != nil {
		panic(err)
	}
	return reg
}

// DefaultFormatRegistry returns the package level registry used by
// LoadParameterList when no registry is given.
func DefaultFormatRegistry() *FormatRegistry {
	return defaultFormatRegistry
}

// RegisterFormat adds factory to the default registry.
func RegisterFormat(name string, factory FormatFactory) error {
	return defaultFormatRegistry.Register(name, factory)
}

// LookupFormat builds a format from the default registry.
func LookupFormat(name string, opts FormatOptions) (Format, error) {
	return defaultFormatRegistry.Lookup(name, opts)
}

// static wraps a constructor without options as a FormatFactory.
func static(build func() *BasicFormat) FormatFactory {
	return func(FormatOptions) (Format, error) {
		return build(), nil
	}
}

func builtinFormats() map[string]FormatFactory {
	return map[string]FormatFactory{
		AlphanumericFormatName: func(opts FormatOptions) (Format, error) {
			return AlphanumericFormat(opts[ExtraCharsFormatOption]), nil
		},
		CSVFormatName: func(opts FormatOptions) (Format, error) {
			return CSVFormat(opts[SeparatorsFormatOption]), nil
		},
		TemporalFormatName: func(FormatOptions) (Format, error) {
			return TemporalFormat(time.Now), nil
		},
		BinaryFormatName:   static(BinaryFormat),
		ByteFormatName:     static(ByteFormat),
		DateFormatName:     static(DateFormat),
		DateTimeFormatName: static(DateTimeFormat),
		EmailFormatName:    static(EmailFormat),
		PasswordFormatName: static(PasswordFormat),
		UUIDFormatName:     static(UUIDFormat),
		YesNoFormatName:    static(YesNoFormat),
		Int32FormatName:    static(Int32Format),
		Int64FormatName:    static(Int64Format),
		FloatFormatName:    static(FloatFormat),
		DoubleFormatName:   static(DoubleFormat),
		DecimalFormatName:  static(DecimalFormat),
		UnixPathFormatName: static(UnixPathFormat),
	}
}
