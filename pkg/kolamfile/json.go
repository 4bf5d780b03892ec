package kolamfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
)

// jsonPattern is the JSON representation of a pattern. States is keyed
// by "x,y" and holds 0 (loop) or 1 (cross).
type jsonPattern struct {
	Variant       string         `json:"variant"`
	Code          string         `json:"code"`
	Crossings     int            `json:"crossings"`
	Loops         int            `json:"loops"`
	States        map[string]int `json:"states"`
	Intersections []string       `json:"intersections,omitempty"`
}

// ToJSON converts a pattern to JSON. With order set, the grid's
// intersections are listed in bit order as well.
func ToJSON(p *kolam.Pattern, pretty, order bool) ([]byte, error) {
	j := jsonPattern{
		Variant:   p.Variant.String(),
		Code:      p.Code,
		Crossings: p.Crossings(),
		Loops:     p.Loops(),
		States:    p.States.Keys(),
	}
	if order {
		if g := p.Grid(); g != nil {
			for _, c := range g.Order {
				j.Intersections = append(j.Intersections, c.String())
			}
		}
	}
	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}

// ErrStatesMismatch is returned by ParseJSON when a pattern carries both
// a code and states that the code does not decode to.
var ErrStatesMismatch = errors.New("code and states disagree")

// ParseJSON reads a pattern written by ToJSON. Without a code, the code
// is rebuilt from the states. With both, the states of the grid's
// intersections must match the code. States of coordinates outside the
// grid are kept on the pattern.
func ParseJSON(data []byte) (*kolam.Pattern, error) {
	var j jsonPattern
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	v, err := kolam.ParseVariant(j.Variant)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(j.States))
	for k := range j.States {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	states := make(kolam.States, len(keys))
	for _, k := range keys {
		c, err := kolam.ParseCoord(k)
		if err != nil {
			return nil, err
		}
		switch j.States[k] {
		case 0:
			states[c] = kolam.Loop
		case 1:
			states[c] = kolam.Cross
		default:
			return nil, fmt.Errorf("state %q: value %d is not 0 or 1", k, j.States[k])
		}
	}

	code := j.Code
	if code == "" {
		code = kolam.Encode(v, states)
	}
	p, err := kolam.NewPattern(v, code)
	if err != nil {
		return nil, err
	}
	g := p.Grid()
	for c, s := range states {
		if !g.Has(c) {
			p.States[c] = s
			continue
		}
		if p.States[c] != s {
			return nil, fmt.Errorf("%w: %s is %s in %s", ErrStatesMismatch, c, s, p.Name())
		}
	}
	return p, nil
}
