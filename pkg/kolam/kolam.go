// Package kolam provides the core kolam pattern types: grid variants,
// intersection coordinates and the hex-code decoders.
package kolam

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Variant identifies a kolam grid.
type Variant int

const (
	Small Variant = iota // 1-5-1 grid, 4 hex digits
	Large                // 1-7-1 grid, 9 hex digits
)

// Variants lists every supported grid variant.
var Variants = []Variant{Small, Large}

// Errors returned by the parsing and validation helpers.
var (
	ErrUnknownVariant = errors.New("unknown kolam variant")
	ErrInvalidDigit   = errors.New("invalid hex digit")
	ErrCodeTooLong    = errors.New("code too long")
)

func (v Variant) String() string {
	switch v {
	case Small:
		return "1-5-1"
	case Large:
		return "1-7-1"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "1-5-1"/"1-7-1", their short forms "151"/"171"
// and the names "small"/"large".
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1-5-1", "151", "small":
		return Small, nil
	case "1-7-1", "171", "large":
		return Large, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownVariant, s)
}

// State is the decoded state of one intersection.
type State int

const (
	Loop  State = 0 // line loops around the neighbouring dots
	Cross State = 1 // line crosses over itself
)

func (s State) String() string {
	if s == Cross {
		return "cross"
	}
	return "loop"
}

// Coord is an intersection position in grid units. Intersections sit
// half a unit away from the dots, so one component is usually x.5.
type Coord struct {
	X, Y float64
}

// C is shorthand for Coord{x, y}.
func C(x, y float64) Coord { return Coord{X: x, Y: y} }

// String returns the canonical "x,y" key, e.g. "2,0.5".
func (c Coord) String() string {
	return strconv.FormatFloat(c.X, 'f', -1, 64) + "," + strconv.FormatFloat(c.Y, 'f', -1, 64)
}

// ParseCoord parses a canonical "x,y" key.
func ParseCoord(s string) (Coord, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("invalid coordinate %q", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return Coord{}, fmt.Errorf("invalid coordinate %q", s)
	}
	return Coord{X: x, Y: y}, nil
}

// Point is a pulli dot position on the integer lattice.
type Point struct {
	X, Y int
}

// States maps each intersection to its decoded state.
type States map[Coord]State

// Count returns how many intersections hold state s.
func (st States) Count(s State) int {
	n := 0
	for _, v := range st {
		if v == s {
			n++
		}
	}
	return n
}

// Equal reports whether both mappings hold the same entries.
func (st States) Equal(other States) bool {
	if len(st) != len(other) {
		return false
	}
	for c, v := range st {
		if w, ok := other[c]; !ok || w != v {
			return false
		}
	}
	return true
}

// Keys returns the mapping as canonical string keys.
func (st States) Keys() map[string]int {
	out := make(map[string]int, len(st))
	for c, v := range st {
		out[c.String()] = int(v)
	}
	return out
}
