// Package ime implements the nine-key phonetic input method driven by
// keypad cell confirmations.
package ime

import "github.com/ayusman/headtype/internal/gesture"

// keypad is the fixed nine-cell layout, following the phone keypad
// convention. Cell 0 holds literal symbols; cells 1-8 hold a digit followed
// by the letter group. 26 letters do not split evenly over 8 cells, so cells
// 6 and 8 carry four letters.
var keypad = [gesture.NumCells][]string{
	{"1", "一", "丨"},
	{"2", "a", "b", "c"},
	{"3", "d", "e", "f"},
	{"4", "g", "h", "i"},
	{"5", "j", "k", "l"},
	{"6", "m", "n", "o"},
	{"7", "p", "q", "r", "s"},
	{"8", "t", "u", "v"},
	{"9", "w", "x", "y", "z"},
}

// Keys returns a copy of the entries of a cell, or nil for an invalid cell.
func Keys(cell gesture.Cell) []string {
	if !cell.Valid() {
		return nil
	}
	keys := make([]string, len(keypad[cell]))
	copy(keys, keypad[cell])
	return keys
}

// Symbol returns the first entry of a cell. For cell 0 it is the literal
// character committed directly from the idle state.
func Symbol(cell gesture.Cell) string {
	if !cell.Valid() {
		return ""
	}
	return keypad[cell][0]
}

// Letter returns the designated spelling letter of a cell, its second entry.
// Only this letter is used for spelling; repeated taps do not cycle through
// the rest of the group.
func Letter(cell gesture.Cell) string {
	if !cell.Valid() {
		return ""
	}
	return keypad[cell][1]
}

// Label returns a short display label for a cell, e.g. "2 abc".
func Label(cell gesture.Cell) string {
	keys := Keys(cell)
	if len(keys) == 0 {
		return ""
	}
	label := keys[0] + " "
	for _, k := range keys[1:] {
		label += k
	}
	return label
}
