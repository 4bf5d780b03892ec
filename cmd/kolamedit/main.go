// Command kolamedit is a terminal kolam designer: one pane per grid, a hex
// code field each, and a character preview of the generated pattern.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/kolam-toolkit/internal/config"
	"github.com/ha1tch/kolam-toolkit/internal/gallery"
	"github.com/ha1tch/kolam-toolkit/pkg/kolam"
	"github.com/ha1tch/kolam-toolkit/pkg/kolamfile"
)

// Recorder keeps a history of generated designs.
type Recorder interface {
	RecordDesign(ctx context.Context, variant, code string) error
}

// Pane is one designer: the code being typed and the last generated
// pattern.
type Pane struct {
	Variant kolam.Variant
	Field   *kolam.Field
	Pattern *kolam.Pattern

	preview *kolamfile.TextSurface
}

// Editor holds all UI state. Key and mouse handlers mutate it; draw reads it.
type Editor struct {
	screen      tcell.Screen
	config      *config.Config
	configPath  string
	recorder    Recorder
	open        func(path string) error
	panes       []*Pane
	active      int
	mode        Mode
	message     string
	messageType MessageType

	messageFlashStart int64
	// Unix ms until which the message blinks. Read by the refresh goroutine.
	flashUntil atomic.Int64

	// Input box
	inputPrompt string
	inputBuffer string
	inputAction func(string)

	// Screen position of each pane's preview, set by draw.
	previewX []int
	previewY int
}

// Mode represents editor mode
type Mode int

const (
	ModeEdit Mode = iota
	ModeInput
	ModeHelp
)

// MessageType for status messages
type MessageType int

// flashMillis is how long a flashing message keeps the screen refreshing.
const flashMillis = 700

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

var (
	flagConfig string
	flagRecord bool
)

var rootCmd = &cobra.Command{
	Use:   "kolamedit [SMALL [LARGE]]",
	Short: "Terminal kolam designer",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runEditor,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file (default: ~/.kolam/config.yaml)")
	rootCmd.Flags().BoolVar(&flagRecord, "record", false, "record generated designs in the gallery database")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEditor(cmd *cobra.Command, args []string) error {
	cfgPath := flagConfig
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ed := NewEditor(nil, cfg, cfgPath)
	// Codes from the command line start in the fields; both panes are
	// generated either way.
	for i, code := range args {
		if !ed.panes[i].Field.Set(code) {
			return fmt.Errorf("%q is not a %s code", code, kolam.Variants[i])
		}
	}
	if flagRecord {
		if err := os.MkdirAll(filepath.Dir(cfg.GalleryPath()), 0700); err != nil {
			return fmt.Errorf("creating data dir: %w", err)
		}
		cat, err := gallery.Open(cfg.GalleryPath())
		if err != nil {
			return err
		}
		defer cat.Close()
		ed.recorder = cat
	}
	for i := range ed.panes {
		ed.generate(i)
	}
	ed.message = ""

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	ed.run()
	return nil
}

// setupLogging sends logs to the configured file. The terminal belongs
// to the editor, so without a file logs are dropped. The returned func
// closes the file.
func setupLogging(cfg *config.Config) (func(), error) {
	var lvl slog.Level
	if cfg.LogLevel != "" {
		if err := lvl.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
			return nil, fmt.Errorf("loglevel %q: %w", cfg.LogLevel, err)
		}
	}
	var w io.Writer = io.Discard
	closeLog := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeLog = func() { f.Close() }
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return closeLog, nil
}

// NewEditor returns an editor with one empty pane per variant.
func NewEditor(screen tcell.Screen, cfg *config.Config, cfgPath string) *Editor {
	ed := &Editor{
		screen:     screen,
		config:     cfg,
		configPath: cfgPath,
		open:       openViewer,
	}
	for _, v := range kolam.Variants {
		ed.panes = append(ed.panes, &Pane{Variant: v, Field: kolam.NewField(v)})
	}
	return ed
}

func (ed *Editor) run() {
	done := make(chan struct{})
	defer close(done)
	go ed.refreshWhileFlashing(done, 50*time.Millisecond)

	for {
		ed.draw()
		ed.screen.Show()

		switch ev := ed.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		}
	}
}

// refreshWhileFlashing wakes the event loop every interval while a
// message flashes, until done is closed.
func (ed *Editor) refreshWhileFlashing(done <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if ed.flashing(time.Now().UnixMilli()) {
				ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}
}

func (ed *Editor) flashing(now int64) bool {
	return now < ed.flashUntil.Load()
}

// handleKey reports whether the editor should quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ed.mode {
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeHelp:
		return ed.handleHelpKey(ev)
	}

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlQ:
		return true
	case tcell.KeyEnter:
		ed.generate(ed.active)
	case tcell.KeyTab, tcell.KeyBacktab:
		ed.active = (ed.active + 1) % len(ed.panes)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.panes[ed.active].Field.Backspace()
	case tcell.KeyCtrlU:
		ed.panes[ed.active].Field.Clear()
	case tcell.KeyCtrlR:
		ed.renderView()
	case tcell.KeyCtrlS:
		ed.saveAs()
	case tcell.KeyCtrlT:
		ed.toggleFileType()
	case tcell.KeyF1:
		ed.mode = ModeHelp
	case tcell.KeyRune:
		r := ev.Rune()
		if r == '?' {
			ed.mode = ModeHelp
			return false
		}
		p := ed.panes[ed.active]
		if !p.Field.Type(r) {
			if len(p.Field.Value) >= p.Field.Max {
				ed.showMessage(fmt.Sprintf("%s codes have %d digits", p.Variant, p.Field.Max), MsgWarning)
			} else {
				ed.showMessage(fmt.Sprintf("%q is not a hex digit", r), MsgWarning)
			}
		}
	}
	return false
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeEdit
	case tcell.KeyEnter:
		ed.mode = ModeEdit
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(ed.inputBuffer) > 0 {
			ed.inputBuffer = ed.inputBuffer[:len(ed.inputBuffer)-1]
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter, tcell.KeyF1:
		ed.mode = ModeEdit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q', '?':
			ed.mode = ModeEdit
		}
	}
	return false
}

// handleMouse selects the pane under the pointer; a click on an
// intersection of its preview flips that intersection.
func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 || ed.mode != ModeEdit {
		return
	}
	x, y := ev.Position()
	for i, p := range ed.panes {
		if p.preview == nil || i >= len(ed.previewX) {
			continue
		}
		col, row := x-ed.previewX[i], y-ed.previewY
		cells := p.preview.Cells()
		if row < 0 || row >= len(cells) || col < 0 || col >= len(cells[row]) {
			continue
		}
		ed.active = i
		if c, ok := p.intersectionAt(col, row); ok {
			ed.toggle(i, c)
		}
		return
	}
}

// intersectionAt finds the intersection drawn in preview cell (col, row).
func (p *Pane) intersectionAt(col, row int) (kolam.Coord, bool) {
	g := kolam.GridFor(p.Variant)
	scale := float64(g.Scale)
	cw, ch := p.preview.CellWidth, p.preview.CellHeight
	ux := ((float64(col)+0.5)*cw - scale/2) / scale
	uy := ((float64(row)+0.5)*ch - scale/2) / scale
	for _, c := range g.Order {
		if abs(c.X-ux) <= cw/scale && abs(c.Y-uy) <= ch/scale {
			return c, true
		}
	}
	return kolam.Coord{}, false
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func (ed *Editor) toggle(i int, c kolam.Coord) {
	p := ed.panes[i]
	code := kolam.Toggle(p.Variant, p.Field.Padded(), c)
	p.Field.Set(code)
	ed.generate(i)
}

// generate decodes pane i's field, as the designer's Generate button does.
func (ed *Editor) generate(i int) {
	p := ed.panes[i]
	pat, err := kolam.NewPattern(p.Variant, p.Field.Padded())
	if err != nil {
		ed.showMessage(err.Error(), MsgError)
		return
	}
	p.Pattern = pat
	p.preview = kolamfile.NewTextSurface()
	kolamfile.RenderPattern(p.preview, pat)

	if ed.recorder != nil {
		if err := ed.recorder.RecordDesign(context.Background(), p.Variant.String(), pat.Code); err != nil {
			slog.Warn("record design", "pattern", pat.Name(), "err", err)
		}
	}
	ed.showMessage(fmt.Sprintf("Generated %s", pat.Name()), MsgSuccess)
}

func (ed *Editor) toggleFileType() {
	if ed.config.Editor.FileType == "svg" {
		ed.config.Editor.FileType = "png"
		ed.showMessage("File type set to PNG", MsgInfo)
	} else {
		ed.config.Editor.FileType = "svg"
		ed.showMessage("File type set to SVG", MsgInfo)
	}
	if err := config.Save(ed.configPath, ed.config); err != nil {
		ed.showMessage("Failed to save config: "+err.Error(), MsgError)
	}
}

func (ed *Editor) fileType() string {
	if ed.config.Editor.FileType == "svg" {
		return "svg"
	}
	return "png"
}

// writePattern renders the active pane's pattern to path in the
// configured file type.
func (ed *Editor) writePattern(path string) error {
	p := ed.panes[ed.active].Pattern
	if p == nil {
		return fmt.Errorf("nothing generated yet")
	}
	if ed.fileType() == "svg" {
		opts := kolamfile.DefaultSVGOptions()
		opts.Title = p.Name()
		return os.WriteFile(path, []byte(kolamfile.GenerateSVG(p, opts)), 0644)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := kolamfile.DefaultPNGOptions()
	if ed.config.Render.Supersample > 0 {
		opts.Supersample = ed.config.Render.Supersample
	}
	if err := kolamfile.RenderPNG(f, p, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// renderView writes the active pattern to a temp file and opens it.
func (ed *Editor) renderView() {
	tmpFile, err := os.CreateTemp("", "kolam-*."+ed.fileType())
	if err != nil {
		ed.showMessage("Failed to create temp file", MsgError)
		return
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := ed.writePattern(tmpPath); err != nil {
		ed.showMessage("Failed to render: "+err.Error(), MsgError)
		os.Remove(tmpPath)
		return
	}
	if err := ed.open(tmpPath); err != nil {
		ed.showMessage("Failed to open viewer: "+err.Error(), MsgError)
		os.Remove(tmpPath)
		return
	}
	ed.showMessage("Opened in viewer: "+tmpPath, MsgInfo)
}

// saveAs prompts for a path, starting in the last directory saved to.
func (ed *Editor) saveAs() {
	p := ed.panes[ed.active].Pattern
	if p == nil {
		ed.showMessage("Nothing to save", MsgError)
		return
	}
	name := kolamfile.Entry{Variant: p.Variant, Code: p.Code}.FileName() + "." + ed.fileType()
	ed.inputPrompt = "Save as: "
	ed.inputBuffer = filepath.Join(ed.config.Editor.LastDir, name)
	ed.inputAction = func(path string) {
		path = strings.TrimSpace(path)
		if path == "" {
			return
		}
		if err := ed.writePattern(path); err != nil {
			ed.showMessage("Failed to save: "+err.Error(), MsgError)
			return
		}
		ed.config.Editor.LastDir = filepath.Dir(path)
		if err := config.Save(ed.configPath, ed.config); err != nil {
			slog.Warn("save config", "path", ed.configPath, "err", err)
		}
		ed.showMessage("Saved: "+path, MsgSuccess)
	}
	ed.mode = ModeInput
}

// openViewer hands path to the system viewer.
func openViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default: // linux, etc
		cmd = exec.Command("xdg-open", path)
	}
	return cmd.Start()
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart = time.Now().UnixMilli()
	if shouldFlash(msgType) {
		ed.flashUntil.Store(ed.messageFlashStart + flashMillis)
	} else {
		ed.flashUntil.Store(0)
	}
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}
