package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRegistry_Defaults(t *testing.T) {
	reg, err := NewFormatRegistry(FormatRegistryOpts{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		AlphanumericFormatName, BinaryFormatName, ByteFormatName, CSVFormatName,
		DateFormatName, DateTimeFormatName, DecimalFormatName, DoubleFormatName,
		EmailFormatName, FloatFormatName, Int32FormatName, Int64FormatName,
		PasswordFormatName, TemporalFormatName, UnixPathFormatName, UUIDFormatName,
		YesNoFormatName,
	}, reg.Names())

	for _, name := range reg.Names() {
		t.Run(name, func(t *testing.T) {
			f, err := reg.Lookup(name, nil)
			require.NoError(t, err)
			assert.Equal(t, name, f.Name())
		})
	}
}

func TestFormatRegistry_Options(t *testing.T) {
	reg, err := NewFormatRegistry(FormatRegistryOpts{})
	require.NoError(t, err)

	csv, err := reg.Lookup(CSVFormatName, FormatOptions{SeparatorsFormatOption: ";"})
	require.NoError(t, err)
	got, err := NewString("s").SetFormat(csv).Prepare("a;b,c", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b,c"}, got)

	alnum, err := reg.Lookup(AlphanumericFormatName, FormatOptions{ExtraCharsFormatOption: "."})
	require.NoError(t, err)
	_, err = NewString("s").SetFormat(alnum).Prepare("v1.2", nil)
	assert.NoError(t, err)
}

func TestFormatRegistry_Register(t *testing.T) {
	even := func(FormatOptions) (Format, error) {
		return NewFormat(FormatOpts{Name: "even", AppliesTo: TypeInteger}), nil
	}
	failing := func(FormatOptions) (Format, error) {
		return nil, errors.New("missing option")
	}

	reg, err := NewFormatRegistry(FormatRegistryOpts{
		ExcludeDefaults: true,
		Factories:       map[string]FormatFactory{"even": even},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"even"}, reg.Names())
	assert.True(t, reg.Has("even"))
	assert.False(t, reg.Has(EmailFormatName))

	t.Run("Duplicate", func(t *testing.T) {
		err := reg.Register("even", even)
		assert.ErrorIs(t, err, ErrFormatAlreadyRegistered)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := reg.Lookup(EmailFormatName, nil)
		assert.ErrorIs(t, err, ErrFormatNotFound)
	})

	t.Run("FactoryError", func(t *testing.T) {
		require.NoError(t, reg.Register("failing", failing))
		_, err := reg.Lookup("failing", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing option")
	})

	t.Run("DuplicateInOpts", func(t *testing.T) {
		_, err := NewFormatRegistry(FormatRegistryOpts{
			Factories: map[string]FormatFactory{EmailFormatName: even},
		})
		assert.ErrorIs(t, err, ErrFormatAlreadyRegistered)
	})
}

func TestDefaultFormatRegistry(t *testing.T) {
	f, err := LookupFormat(UUIDFormatName, nil)
	require.NoError(t, err)
	assert.Equal(t, UUIDFormatName, f.Name())

	assert.ErrorIs(t, RegisterFormat(UUIDFormatName, static(UUIDFormat)), ErrFormatAlreadyRegistered)
	assert.Same(t, DefaultFormatRegistry(), DefaultFormatRegistry())
}
