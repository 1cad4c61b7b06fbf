package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/headtype/internal/gesture"
	"github.com/ayusman/headtype/internal/ime"
)

// meterWidth is the number of characters in the mouth openness bar.
const meterWidth = 20

// meterScale is the openness shown as a full bar.
const meterScale = 0.07

// RenderKeypad draws the 3x3 keypad with the active cell highlighted.
func RenderKeypad(active gesture.Cell) string {
	rows := make([]string, 0, 3)
	for r := 0; r < 3; r++ {
		cells := make([]string, 0, 3)
		for c := 0; c < 3; c++ {
			cell := gesture.Cell(r*3 + c)
			style := CellStyle
			if cell == active {
				style = ActiveCellStyle
			}
			cells = append(cells, style.Render(cellText(cell)))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cellText is the digit on the first line and the letters below it.
func cellText(cell gesture.Cell) string {
	keys := ime.Keys(cell)
	if len(keys) == 0 {
		return ""
	}
	return keys[0] + "\n" + strings.Join(keys[1:], "")
}

// RenderCandidates draws the numbered candidate list with the selection
// marked.
func RenderCandidates(items []string, selected int) string {
	if len(items) == 0 {
		return DimStyle.Render("(no candidates)")
	}
	parts := make([]string, 0, len(items))
	for i, item := range items {
		label := fmt.Sprintf("%d.%s", i+1, item)
		if i == selected {
			parts = append(parts, SelectedStyle.Render(">"+label))
		} else {
			parts = append(parts, " "+label)
		}
	}
	return strings.Join(parts, " ")
}

// RenderMouth draws the openness as a bar, colored by the debounced state.
func RenderMouth(openness float64, isOpen bool) string {
	filled := int(openness / meterScale * meterWidth)
	filled = max(0, min(meterWidth, filled))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", meterWidth-filled)

	state := gesture.MouthClosed
	style := MouthClosedStyle
	if isOpen {
		state = gesture.MouthOpen
		style = MouthOpenStyle
	}
	return style.Render(fmt.Sprintf("%s %.3f %s", bar, openness, state))
}

// RenderSpelling shows the spelling buffer, or a placeholder when empty.
func RenderSpelling(spelling string) string {
	if spelling == "" {
		return DimStyle.Render("-")
	}
	return SpellingStyle.Render(spelling)
}

// RenderFooter renders key hints as "key desc" pairs.
func RenderFooter(hints [][2]string) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, FooterKeyStyle.Render(h[0])+" "+FooterDescStyle.Render(h[1]))
	}
	return strings.Join(parts, "  ")
}
