package kolam

import (
	"fmt"
	"strings"
)

// IsHexDigit reports whether ch is an upper-case hex digit.
func IsHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'A' && ch <= 'F')
}

// PadCode truncates code to the code length of v and right-pads it
// with '0'.
func PadCode(v Variant, code string) string {
	g := GridFor(v)
	if g == nil {
		return code
	}
	if len(code) > g.CodeLength {
		code = code[:g.CodeLength]
	}
	return code + strings.Repeat("0", g.CodeLength-len(code))
}

// ValidateCode checks a code coming from outside (CLI argument, URL).
// Lower-case digits are upper-cased first, as the designer field does.
// The returned code is padded to full length.
func ValidateCode(v Variant, code string) (string, error) {
	g := GridFor(v)
	if g == nil {
		return "", fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) > g.CodeLength {
		return "", fmt.Errorf("%w: %q has %d digits, %s allows %d", ErrCodeTooLong, code, len(code), v, g.CodeLength)
	}
	for i, ch := range code {
		if !IsHexDigit(ch) {
			return "", fmt.Errorf("%w: %q at position %d", ErrInvalidDigit, ch, i)
		}
	}
	return PadCode(v, code), nil
}

// Field is the state of a designer's code input. It only ever holds
// upper-case hex digits and never more than Max of them.
type Field struct {
	Value string
	Max   int
}

// NewField returns an empty field sized for v.
func NewField(v Variant) *Field {
	f := &Field{}
	if g := GridFor(v); g != nil {
		f.Max = g.CodeLength
	}
	return f
}

// Set replaces the whole value, as a text input's change event does.
// The candidate is upper-cased; it is rejected, leaving the field
// unchanged, if it holds anything but hex digits or is too long.
func (f *Field) Set(value string) bool {
	value = strings.ToUpper(value)
	if len(value) > f.Max {
		return false
	}
	for _, ch := range value {
		if !IsHexDigit(ch) {
			return false
		}
	}
	f.Value = value
	return true
}

// Type appends one keystroke.
func (f *Field) Type(r rune) bool {
	return f.Set(f.Value + string(r))
}

// Backspace drops the last digit.
func (f *Field) Backspace() {
	if len(f.Value) > 0 {
		f.Value = f.Value[:len(f.Value)-1]
	}
}

// Clear empties the field.
func (f *Field) Clear() {
	f.Value = ""
}

// Padded returns the value padded to Max digits.
func (f *Field) Padded() string {
	return f.Value + strings.Repeat("0", f.Max-len(f.Value))
}
