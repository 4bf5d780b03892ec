package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

// Styles
var (
	styleDefault    = tcell.StyleDefault
	styleTitle      = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
	styleBorder     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleBorderAct  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHeading    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleField      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleFieldAct   = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite).Bold(true)
	styleStats      = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleDot        = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleLine       = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleCross      = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLoop       = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleMarker     = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp       = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleInput      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
)

// Pane layout: border, field row, stats row, blank row, preview, border.
const (
	paneTop       = 1
	previewOffset = 4
	paneGap       = 1
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	ed.drawString(1, 0, "kolamedit", styleTitle)
	ed.drawPanes()

	switch ed.mode {
	case ModeInput:
		ed.drawInputBox(w, h)
	case ModeHelp:
		ed.drawHelp(w, h)
	}
	ed.drawStatusBar(w, h)
}

func (ed *Editor) drawPanes() {
	ed.previewX = ed.previewX[:0]
	ed.previewY = paneTop + previewOffset

	rows := 0
	for _, p := range ed.panes {
		if n := len(previewCells(p)); n > rows {
			rows = n
		}
	}

	x := 1
	for i, p := range ed.panes {
		cells := previewCells(p)
		width := p.Field.Max + 12
		if len(cells) > 0 && len(cells[0])+2 > width {
			width = len(cells[0]) + 2
		}
		height := previewOffset + rows + 1

		border := styleBorder
		if i == ed.active {
			border = styleBorderAct
		}
		ed.drawTitledBox(x, paneTop, width, height, p.Variant.String()+" Kolam", border)

		field := styleField
		if i == ed.active {
			field = styleFieldAct
		}
		ed.drawString(x+2, paneTop+1, "Code:", styleDefault)
		ed.drawString(x+8, paneTop+1, fieldText(p), field)
		if p.Pattern != nil {
			stats := fmt.Sprintf("%s: %d crossings, %d loops", p.Pattern.Code, p.Pattern.Crossings(), p.Pattern.Loops())
			ed.drawString(x+2, paneTop+2, truncate(stats, width-4), styleStats)
		}

		ed.previewX = append(ed.previewX, x+1)
		for r, row := range cells {
			for c, cell := range row {
				if cell.Empty() {
					continue
				}
				ed.screen.SetContent(x+1+c, ed.previewY+r, cell.Rune, nil, cellStyle(cell))
			}
		}
		x += width + paneGap
	}
}

func previewCells(p *Pane) [][]kolamfile.Cell {
	if p.preview == nil {
		return nil
	}
	return p.preview.Cells()
}

// fieldText shows the typed digits followed by one '_' per free place.
func fieldText(p *Pane) string {
	s := p.Field.Value
	for i := len(s); i < p.Field.Max; i++ {
		s += "_"
	}
	return s
}

func cellStyle(c kolamfile.Cell) tcell.Style {
	switch c.Part {
	case kolamfile.PartDot:
		return styleDot
	case kolamfile.PartCross:
		return styleCross
	case kolamfile.PartLoop:
		if c.Rune == 'o' {
			return styleMarker
		}
		return styleLoop
	}
	return styleLine
}

// drawTitledBox draws a bordered box with optional title
func (ed *Editor) drawTitledBox(x, y, w, h int, title string, border tcell.Style) {
	ed.drawBox(x, y, w, h, border, styleDefault)
	if title != "" {
		titleX := x + (w-len(title)-2)/2
		ed.screen.SetContent(titleX, y, ' ', nil, border)
		ed.drawString(titleX+1, y, title, styleHeading)
		ed.screen.SetContent(titleX+1+len(title), y, ' ', nil, border)
	}
}

func (ed *Editor) drawBox(x, y, w, h int, border, fill tcell.Style) {
	ed.screen.SetContent(x, y, '┌', nil, border)
	ed.screen.SetContent(x+w-1, y, '┐', nil, border)
	ed.screen.SetContent(x, y+h-1, '└', nil, border)
	ed.screen.SetContent(x+w-1, y+h-1, '┘', nil, border)
	for i := x + 1; i < x+w-1; i++ {
		ed.screen.SetContent(i, y, '─', nil, border)
		ed.screen.SetContent(i, y+h-1, '─', nil, border)
	}
	for i := y + 1; i < y+h-1; i++ {
		ed.screen.SetContent(x, i, '│', nil, border)
		ed.screen.SetContent(x+w-1, i, '│', nil, border)
		for col := x + 1; col < x+w-1; col++ {
			ed.screen.SetContent(col, i, ' ', nil, fill)
		}
	}
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		ed.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (ed *Editor) drawInputBox(w, h int) {
	boxW := 60
	boxH := 3
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2
	ed.drawBox(boxX, boxY, boxW, boxH, styleBorder, styleInput)

	text := ed.inputPrompt + ed.inputBuffer + "_"
	// Keep the end of a long path in view.
	if limit := boxW - 4; len(text) > limit {
		text = text[len(text)-limit:]
	}
	ed.drawString(boxX+2, boxY+1, text, styleInput)
}

var helpLines = []string{
	"0-9 A-F    Type into the active code field",
	"Backspace  Delete the last digit",
	"Ctrl+U     Clear the field",
	"Enter      Generate the pattern",
	"Tab        Switch between 1-5-1 and 1-7-1",
	"Click      Flip the intersection under the pointer",
	"Ctrl+R     Render and open in the system viewer",
	"Ctrl+S     Save the pattern to a file",
	"Ctrl+T     Toggle file type (PNG/SVG)",
	"? / F1     This help",
	"Esc        Quit",
}

func (ed *Editor) drawHelp(w, h int) {
	boxW := 58
	boxH := len(helpLines) + 4
	x := (w - boxW) / 2
	y := (h - boxH) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	ed.drawTitledBox(x, y, boxW, boxH, "Help", styleBorder)
	for i, line := range helpLines {
		ed.drawString(x+2, y+2+i, line, styleDefault)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 1
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}
	ed.drawString(1, y, "File Type: "+ed.fileType(), styleStatus)

	mode := ed.modeString()
	ed.drawString(w/2-len(mode)/2, y, mode, styleStatus)

	if ed.message != "" {
		style := styleMsgInfo
		switch ed.messageType {
		case MsgError, MsgWarning:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		if shouldFlash(ed.messageType) && flashInverted(time.Now().UnixMilli()-ed.messageFlashStart) {
			style = style.Reverse(true)
		}
		ed.drawString(w-len(ed.message)-2, y, ed.message, style)
	}

	y = h - 2
	ed.drawString(1, y, ed.helpString(), styleHelp)
}

// shouldFlash reports whether messages of t blink when shown.
func shouldFlash(t MessageType) bool {
	return t != MsgInfo
}

// flashInverted gives the blink phase elapsed ms after a message
// appeared: two inversions of 125ms within the first 500ms.
func flashInverted(elapsed int64) bool {
	if elapsed < 0 || elapsed >= 500 {
		return false
	}
	phase := elapsed / 125
	return phase == 1 || phase == 3
}

func (ed *Editor) modeString() string {
	switch ed.mode {
	case ModeInput:
		return "INPUT"
	case ModeHelp:
		return "HELP"
	}
	return ""
}

func (ed *Editor) helpString() string {
	switch ed.mode {
	case ModeInput:
		return "Type text  Enter:Confirm  Esc:Cancel"
	case ModeHelp:
		return "Esc:Close"
	}
	return "Hex:Type  Enter:Generate  Tab:Switch  Ctrl+R:Render  Ctrl+S:Save  Ctrl+T:File Type  ?:Help  Esc:Quit"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
