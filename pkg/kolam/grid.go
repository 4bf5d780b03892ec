package kolam

// Arc describes one boundary arc. Angles are in degrees; the arc is drawn
// from Start+Rotation to End+Rotation around Center with radius Width/2.
type Arc struct {
	Center   Point
	Width    float64
	Rotation float64
	Start    float64
	End      float64
}

// Class says which loop decoration an intersection gets when its state
// is Loop.
type Class int

const (
	ClassNone       Class = iota // outlined marker only
	ClassVertical                // arcs above and below
	ClassHorizontal              // arcs left and right
)

func (c Class) String() string {
	switch c {
	case ClassVertical:
		return "vertical"
	case ClassHorizontal:
		return "horizontal"
	}
	return "none"
}

// Grid is the static configuration of one variant.
type Grid struct {
	Variant    Variant
	Size       int // dots across the widest row
	Scale      int // pixels per grid unit
	CodeLength int // hex digits in a code

	// Groups holds the four coordinates driven by each hex digit
	// (small grid only).
	Groups [][]Coord
	// Order is the bit order of the intersections: bit k of the
	// decoded stream drives Order[k].
	Order []Coord

	Arcs []Arc

	vertical   map[Coord]bool
	horizontal map[Coord]bool
}

// Intersections returns every intersection of the grid in bit order.
func (g *Grid) Intersections() []Coord {
	out := make([]Coord, len(g.Order))
	copy(out, g.Order)
	return out
}

// ClassOf returns the loop class of c.
func (g *Grid) ClassOf(c Coord) Class {
	switch {
	case g.vertical[c]:
		return ClassVertical
	case g.horizontal[c]:
		return ClassHorizontal
	}
	return ClassNone
}

// Has reports whether c is one of the grid's intersections.
func (g *Grid) Has(c Coord) bool {
	for _, o := range g.Order {
		if o == c {
			return true
		}
	}
	return false
}

// PixelSize is the side of the square drawing surface.
func (g *Grid) PixelSize() int {
	return g.Size * g.Scale
}

// RowDots returns the dot count of every row: size-2*|r-centre|.
func (g *Grid) RowDots() []int {
	centre := g.Size / 2
	rows := make([]int, g.Size)
	for r := range rows {
		rows[r] = g.Size - 2*abs(r-centre)
	}
	return rows
}

// PulliDots lays out the diamond dot lattice row by row.
func (g *Grid) PulliDots() []Point {
	centre := g.Size / 2
	var dots []Point
	for r, n := range g.RowDots() {
		start := abs(r - centre)
		for i := 0; i < n; i++ {
			dots = append(dots, Point{X: start + i, Y: r})
		}
	}
	return dots
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// GridFor returns the configuration of v, or nil for an unknown variant.
func GridFor(v Variant) *Grid {
	switch v {
	case Small:
		return smallGrid
	case Large:
		return largeGrid
	}
	return nil
}

func set(coords ...Coord) map[Coord]bool {
	m := make(map[Coord]bool, len(coords))
	for _, c := range coords {
		m[c] = true
	}
	return m
}

var smallGroups = [][]Coord{
	{C(2, 0.5), C(2.5, 1), C(1.5, 1), C(2, 1.5)},
	{C(1, 1.5), C(1.5, 2), C(0.5, 2), C(1, 2.5)},
	{C(3, 1.5), C(3.5, 2), C(2.5, 2), C(3, 2.5)},
	{C(2, 2.5), C(2.5, 3), C(1.5, 3), C(2, 3.5)},
}

var smallGrid = &Grid{
	Variant:    Small,
	Size:       5,
	Scale:      80,
	CodeLength: 4,
	Groups:     smallGroups,
	Order:      flatten(smallGroups),
	Arcs: []Arc{
		{Center: Point{2, 0}, Width: 0.7, Rotation: 0, Start: 135, End: 405},
		{Center: Point{1, 1}, Width: 0.7, Rotation: -45, Start: 180, End: 360},
		{Center: Point{3, 1}, Width: 0.7, Rotation: 45, Start: 180, End: 360},
		{Center: Point{0, 2}, Width: 0.7, Rotation: 0, Start: 45, End: 315},
		{Center: Point{4, 2}, Width: 0.7, Rotation: 0, Start: -135, End: 135},
		{Center: Point{1, 3}, Width: 0.7, Rotation: 45, Start: 0, End: 180},
		{Center: Point{3, 3}, Width: 0.7, Rotation: -45, Start: 0, End: 180},
		{Center: Point{2, 4}, Width: 0.7, Rotation: 0, Start: -45, End: 225},
	},
	vertical: set(
		C(2, 0.5), C(1, 1.5), C(2, 1.5), C(3, 1.5),
		C(1, 2.5), C(2, 2.5), C(3, 2.5), C(2, 3.5),
	),
	horizontal: set(
		C(1.5, 1), C(2.5, 1), C(0.5, 2), C(1.5, 2),
		C(2.5, 2), C(3.5, 2), C(1.5, 3), C(2.5, 3),
	),
}

var largeVertical = []Coord{
	C(3, 0.5), C(2, 1.5), C(3, 1.5), C(4, 1.5), C(1, 2.5), C(2, 2.5), C(3, 2.5), C(4, 2.5), C(5, 2.5),
	C(1, 3.5), C(2, 3.5), C(3, 3.5), C(4, 3.5), C(5, 3.5), C(2, 4.5), C(3, 4.5), C(4, 4.5), C(3, 5.5),
}

var largeHorizontal = []Coord{
	C(2.5, 1), C(3.5, 1), C(1.5, 2), C(2.5, 2), C(3.5, 2), C(4.5, 2), C(0.5, 3), C(1.5, 3), C(2.5, 3),
	C(3.5, 3), C(4.5, 3), C(5.5, 3), C(1.5, 4), C(2.5, 4), C(3.5, 4), C(4.5, 4), C(2.5, 5), C(3.5, 5),
}

var largeGrid = &Grid{
	Variant:    Large,
	Size:       7,
	Scale:      60,
	CodeLength: 9,
	Order:      append(append([]Coord{}, largeVertical...), largeHorizontal...),
	Arcs: []Arc{
		{Center: Point{3, 0}, Width: 0.7, Rotation: 0, Start: 135, End: 405},
		{Center: Point{2, 1}, Width: 0.7, Rotation: -45, Start: 180, End: 360},
		{Center: Point{4, 1}, Width: 0.7, Rotation: 45, Start: 180, End: 360},
		{Center: Point{1, 2}, Width: 0.7, Rotation: -45, Start: 180, End: 360},
		{Center: Point{5, 2}, Width: 0.7, Rotation: 45, Start: 180, End: 360},
		{Center: Point{0, 3}, Width: 0.7, Rotation: 0, Start: 45, End: 315},
		{Center: Point{6, 3}, Width: 0.7, Rotation: 0, Start: -135, End: 135},
		{Center: Point{1, 4}, Width: 0.7, Rotation: 45, Start: 0, End: 180},
		{Center: Point{5, 4}, Width: 0.7, Rotation: -45, Start: 0, End: 180},
		{Center: Point{2, 5}, Width: 0.7, Rotation: 45, Start: 0, End: 180},
		{Center: Point{4, 5}, Width: 0.7, Rotation: -45, Start: 0, End: 180},
		{Center: Point{3, 6}, Width: 0.7, Rotation: 0, Start: -45, End: 225},
	},
	vertical:   set(largeVertical...),
	horizontal: set(largeHorizontal...),
}

func flatten(groups [][]Coord) []Coord {
	var out []Coord
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
