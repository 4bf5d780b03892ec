package kolamfile

import (
	"fmt"
	"strings"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// Entry is one line of a code list: "VARIANT CODE [NAME]".
type Entry struct {
	Variant kolam.Variant
	Code    string // padded
	Name    string // optional; defaults to the code
}

// Pattern decodes the entry.
func (e Entry) Pattern() *kolam.Pattern {
	return kolam.MustPattern(e.Variant, e.Code)
}

// FileName returns a file name without extension for the entry.
func (e Entry) FileName() string {
	name := e.Name
	if name == "" {
		name = e.Code
	}
	return fmt.Sprintf("%s_%s", e.Variant, sanitise(name))
}

func sanitise(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}

// ParseCodes reads a code list. Blank lines and lines starting with '#'
// are skipped; errors name the offending line.
func ParseCodes(text string) ([]Entry, error) {
	var entries []Entry
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want VARIANT CODE [NAME], got %q", n+1, line)
		}
		v, err := kolam.ParseVariant(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		code, err := kolam.ValidateCode(v, fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		entries = append(entries, Entry{
			Variant: v,
			Code:    code,
			Name:    strings.Join(fields[2:], " "),
		})
	}
	return entries, nil
}

// FormatCodes writes entries in the format read by ParseCodes.
func FormatCodes(entries []Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Variant.String())
		sb.WriteByte(' ')
		sb.WriteString(e.Code)
		if e.Name != "" {
			sb.WriteByte(' ')
			sb.WriteString(e.Name)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
