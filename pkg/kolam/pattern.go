package kolam

import "fmt"

// Pattern is a decoded code together with its grid.
type Pattern struct {
	Variant Variant
	Code    string // padded to full length
	States  States
}

// NewPattern validates code and decodes it.
func NewPattern(v Variant, code string) (*Pattern, error) {
	padded, err := ValidateCode(v, code)
	if err != nil {
		return nil, err
	}
	return &Pattern{Variant: v, Code: padded, States: Decode(v, padded)}, nil
}

// MustPattern is NewPattern for codes known to be valid.
func MustPattern(v Variant, code string) *Pattern {
	p, err := NewPattern(v, code)
	if err != nil {
		panic(err)
	}
	return p
}

// Grid returns the static configuration of the pattern's variant.
func (p *Pattern) Grid() *Grid {
	return GridFor(p.Variant)
}

// Crossings counts intersections in the Cross state.
func (p *Pattern) Crossings() int {
	return p.States.Count(Cross)
}

// Loops counts intersections in the Loop state.
func (p *Pattern) Loops() int {
	return p.States.Count(Loop)
}

// Name returns "1-5-1:A000"-style identification.
func (p *Pattern) Name() string {
	return fmt.Sprintf("%s:%s", p.Variant, p.Code)
}
