package kolam

import "strings"

// Decoders truncate over-long codes to the grid's code length and pad
// short ones with '0'. A character outside [0-9A-F] contributes four
// zero bits; such input should have been rejected by ValidateCode or a
// Field before it gets here.

// DecodeSmall decodes a 1-5-1 code. Hex digit i drives the four
// coordinates of group i, most significant bit first.
func DecodeSmall(code string) States {
	g := smallGrid
	code = PadCode(Small, code)
	states := make(States, len(g.Order))
	for i, group := range g.Groups {
		bits := digitValue(code[i])
		for j, c := range group {
			states[c] = bitAt(bits, j)
		}
	}
	return states
}

// DecodeLarge decodes a 1-7-1 code. The code becomes a 36-bit stream,
// four bits per digit in order, and bit k drives the k-th intersection.
// Intersections the stream does not reach stay Loop.
func DecodeLarge(code string) States {
	g := largeGrid
	stream := bitStream(PadCode(Large, code))
	states := make(States, len(g.Order))
	for _, c := range g.Order {
		states[c] = Loop
	}
	for k := 0; k < len(stream) && k < len(g.Order); k++ {
		states[g.Order[k]] = stream[k]
	}
	return states
}

// Decode dispatches to the decoder of v. An unknown variant yields an
// empty mapping.
func Decode(v Variant, code string) States {
	switch v {
	case Small:
		return DecodeSmall(code)
	case Large:
		return DecodeLarge(code)
	}
	return States{}
}

// Encode is the inverse of Decode: it packs the states of the grid's
// intersections back into a hex code of full length. Coordinates that
// are missing count as Loop.
func Encode(v Variant, states States) string {
	g := GridFor(v)
	if g == nil {
		return ""
	}
	var sb strings.Builder
	for i := 0; i < g.CodeLength; i++ {
		var n byte
		for j := 0; j < 4; j++ {
			k := i*4 + j
			n <<= 1
			if k < len(g.Order) && states[g.Order[k]] == Cross {
				n |= 1
			}
		}
		sb.WriteByte(hexDigits[n])
	}
	return sb.String()
}

// Toggle flips the state of c and returns the re-encoded code.
func Toggle(v Variant, code string, c Coord) string {
	states := Decode(v, code)
	if _, ok := states[c]; !ok {
		return PadCode(v, code)
	}
	if states[c] == Cross {
		states[c] = Loop
	} else {
		states[c] = Cross
	}
	return Encode(v, states)
}

const hexDigits = "0123456789ABCDEF"

func digitValue(ch byte) byte {
	switch {
	case ch >= '0' && ch <= '9':
		return ch - '0'
	case ch >= 'A' && ch <= 'F':
		return ch - 'A' + 10
	}
	return 0
}

// bitAt returns bit j (0 = most significant) of a 4-bit value.
func bitAt(v byte, j int) State {
	return State((v >> (3 - j)) & 1)
}

func bitStream(code string) []State {
	stream := make([]State, 0, len(code)*4)
	for i := 0; i < len(code); i++ {
		v := digitValue(code[i])
		for j := 0; j < 4; j++ {
			stream = append(stream, bitAt(v, j))
		}
	}
	return stream
}
