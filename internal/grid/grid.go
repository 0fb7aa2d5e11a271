package grid

// Coord :
// Describes a single tile on the square board addressed by its
// `(x,y)` coordinates. Coordinates are always non-negative and
// bounded by a game's grid size; code validating a coordinate should
// use `InBounds` rather than re-deriving the bound check.
type Coord struct {
	X int
	Y int
}

// New creates a coordinate from raw values.
func New(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// InBounds returns whether this coordinate lies on a board of the
// given size (tiles are addressed in [0, size)).
func (c Coord) InBounds(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// Equals compares two coordinates for equality.
func (c Coord) Equals(o Coord) bool {
	return c.X == o.X && c.Y == o.Y
}

// Chebyshev returns the Chebyshev ("king-move") distance between
// two coordinates, the metric used throughout for movement and
// vision: max(|Δx|, |Δy|).
func Chebyshev(a, b Coord) int {
	dx := abs(a.X - b.X)
	dy := abs(a.Y - b.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Euclidean2 returns the squared Euclidean distance between two
// coordinates. Squared distance is used in place of a square root
// wherever only a threshold comparison is needed (map generation),
// avoiding floating point entirely.
func Euclidean2(a, b Coord) int {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Window returns every in-bounds coordinate within Chebyshev distance
// `radius` of `center`, inclusive of the center itself.
func Window(center Coord, radius int, size int) []Coord {
	out := make([]Coord, 0, (2*radius+1)*(2*radius+1))

	for x := center.X - radius; x <= center.X+radius; x++ {
		if x < 0 || x >= size {
			continue
		}
		for y := center.Y - radius; y <= center.Y+radius; y++ {
			if y < 0 || y >= size {
				continue
			}
			out = append(out, Coord{X: x, Y: y})
		}
	}

	return out
}
