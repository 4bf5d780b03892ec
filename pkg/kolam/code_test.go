package kolam

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldRejectsInvalidCharacter(t *testing.T) {
	f := NewField(Small)
	require.True(t, f.Set("0A"))

	assert.False(t, f.Type('G'))
	assert.Equal(t, "0A", f.Value)

	assert.False(t, f.Set("0AG"))
	assert.Equal(t, "0A", f.Value)
}

func TestFieldUppercases(t *testing.T) {
	f := NewField(Large)
	assert.True(t, f.Type('b'))
	assert.True(t, f.Set("abc"))
	assert.Equal(t, "ABC", f.Value)
}

func TestFieldMaxLength(t *testing.T) {
	tests := []struct {
		v   Variant
		max int
	}{
		{Small, 4},
		{Large, 9},
	}
	for _, tt := range tests {
		t.Run(tt.v.String(), func(t *testing.T) {
			f := NewField(tt.v)
			for i := 0; i < tt.max; i++ {
				require.True(t, f.Type('F'))
			}
			assert.False(t, f.Type('F'))
			assert.Len(t, f.Value, tt.max)
			assert.False(t, f.Set(f.Value+"0"))
		})
	}
}

func TestFieldEditing(t *testing.T) {
	f := NewField(Small)
	f.Backspace() // empty: no-op
	f.Type('1')
	f.Type('2')
	f.Backspace()
	assert.Equal(t, "1", f.Value)
	assert.Equal(t, "1000", f.Padded())
	f.Clear()
	assert.Equal(t, "", f.Value)
	assert.Equal(t, "0000", f.Padded())
}

func TestValidateCode(t *testing.T) {
	tests := []struct {
		name    string
		v       Variant
		in      string
		want    string
		wantErr error
	}{
		{"empty", Small, "", "0000", nil},
		{"short", Small, "a", "A000", nil},
		{"full", Large, "123456789", "123456789", nil},
		{"spaces", Large, " ff ", "FF0000000", nil},
		{"too long", Small, "12345", "", ErrCodeTooLong},
		{"bad digit", Small, "12G", "", ErrInvalidDigit},
		{"unknown variant", Variant(5), "0", "", ErrUnknownVariant},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateCode(tt.v, tt.in)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPadCode(t *testing.T) {
	assert.Equal(t, "A000", PadCode(Small, "A"))
	assert.Equal(t, "ABCD", PadCode(Small, "ABCDE"))
	assert.Equal(t, "100000000", PadCode(Large, "1"))
}

func TestParseVariant(t *testing.T) {
	for in, want := range map[string]Variant{
		"1-5-1": Small, "151": Small, "small": Small,
		"1-7-1": Large, "171": Large, "LARGE": Large,
	} {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseVariant("1-9-1")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestCoordKeys(t *testing.T) {
	assert.Equal(t, "2,0.5", C(2, 0.5).String())
	assert.Equal(t, "0.5,3", C(0.5, 3).String())

	c, err := ParseCoord("3.5, 1")
	require.NoError(t, err)
	assert.Equal(t, C(3.5, 1), c)

	for _, bad := range []string{"", "1", "a,b", "1,NaN"} {
		_, err := ParseCoord(bad)
		assert.Error(t, err, bad)
	}
}

func TestStatesKeys(t *testing.T) {
	keys := DecodeSmall("8000").Keys()
	assert.Len(t, keys, 16)
	assert.Equal(t, 1, keys["2,0.5"])
	assert.Equal(t, 0, keys["2.5,1"])
}

func TestPattern(t *testing.T) {
	p, err := NewPattern(Small, "f")
	require.NoError(t, err)
	assert.Equal(t, "F000", p.Code)
	assert.Equal(t, 4, p.Crossings())
	assert.Equal(t, 12, p.Loops())
	assert.Equal(t, "1-5-1:F000", p.Name())
	assert.Same(t, GridFor(Small), p.Grid())

	_, err = NewPattern(Large, "XYZ")
	assert.ErrorIs(t, err, ErrInvalidDigit)
	assert.Panics(t, func() { MustPattern(Small, "GGGG") })
}
