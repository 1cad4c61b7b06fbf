package gesture

// Cell is an index into the 3x3 keypad, laid out row by row:
//
//	0 1 2
//	3 4 5
//	6 7 8
type Cell int

const (
	// NoCell means no cell has been selected yet.
	NoCell Cell = -1
	// SymbolCell holds the numeral and punctuation keys.
	SymbolCell Cell = 0
	// CenterCell is selected while the head faces the camera.
	CenterCell Cell = 4
	// NumCells is the number of keypad cells.
	NumCells = 9
)

// Valid reports whether c is a keypad cell.
func (c Cell) Valid() bool {
	return c >= 0 && c < NumCells
}

// DefaultDeadZone is the direction magnitude, in normalized frame units, at
// or below which the head counts as facing forward.
const DefaultDeadZone = 0.03

// sectorUpper holds the exclusive upper bound of each directional sector,
// in degrees. An angle at or above the last bound wraps into the first
// sector.
var sectorUpper = [8]float64{-157.5, -112.5, -67.5, -22.5, 22.5, 67.5, 112.5, 157.5}

// sectorCells maps each sector of sectorUpper to a keypad cell.
//
// The video is shown mirrored, so a nose moving toward negative x in the raw
// image appears to the user as a turn to the right. Left and right are
// swapped here so the highlighted cell follows the user's perceived motion.
var sectorCells = [8]Cell{
	5, // [-180, -157.5) and [157.5, 180): right
	2, // [-157.5, -112.5): up right
	1, // [-112.5, -67.5): up
	0, // [-67.5, -22.5): up left
	3, // [-22.5, 22.5): left
	6, // [22.5, 67.5): down left
	7, // [67.5, 112.5): down
	8, // [112.5, 157.5): down right
}

// Classifier buckets a head direction into a keypad cell.
type Classifier struct {
	// DeadZone is the magnitude at or below which CenterCell is returned.
	DeadZone float64
}

// NewClassifier creates a Classifier with the given dead zone.
func NewClassifier(deadZone float64) *Classifier {
	return &Classifier{DeadZone: deadZone}
}

// Classify maps a direction angle (degrees) and magnitude to a cell.
// It has no side effects.
func (c *Classifier) Classify(angleDegrees, magnitude float64) Cell {
	return classify(angleDegrees, magnitude, c.DeadZone)
}

// Classify maps a direction to a cell using DefaultDeadZone.
func Classify(angleDegrees, magnitude float64) Cell {
	return classify(angleDegrees, magnitude, DefaultDeadZone)
}

func classify(angleDegrees, magnitude, deadZone float64) Cell {
	if magnitude <= deadZone {
		return CenterCell
	}

	for i, upper := range sectorUpper {
		if angleDegrees < upper {
			return sectorCells[i]
		}
	}
	return sectorCells[0]
}
