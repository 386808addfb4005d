// Package game is the desktop front end: an ambient particle field behind a
// small panel UI that uploads a chat export to the summarizer service and
// shows the returned summary.
package game

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/ncruces/zenity"

	"github.com/areeb-coder/whatsapp-summarizer/internal/chat"
	"github.com/areeb-coder/whatsapp-summarizer/internal/config"
	"github.com/areeb-coder/whatsapp-summarizer/internal/field"
	"github.com/areeb-coder/whatsapp-summarizer/internal/summarize"
)

type panel int

const (
	panelPlaceholder panel = iota
	panelLoading
	panelResult
	panelError
)

// outcome is what a background worker delivers back to the update loop.
// Workers never touch Game state directly.
type outcome struct {
	result   *summarize.Result
	guide    *summarize.Guide
	err      error
	canceled bool
}

// Game implements ebiten.Game. All fields are owned by the update loop;
// workers communicate through the outcomes and progress channels only.
type Game struct {
	field  *field.Field
	client *summarize.Client

	width, height int

	activePanel panel
	prevPanel   panel
	title       string
	lines       []string
	meta        string
	loading     string
	busy        bool
	muted       bool
	ticks       int

	outcomes chan outcome
	progress chan string

	prevKey       map[ebiten.Key]bool
	buttonHovered bool
	buttonPressed bool
}

// New creates the viewer talking to the given summarizer client.
func New(client *summarize.Client) *Game {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := &Game{
		field:    field.New(config.WindowWidth, config.WindowHeight, config.ParticleCount, rng),
		client:   client,
		width:    config.WindowWidth,
		height:   config.WindowHeight,
		outcomes: make(chan outcome, 1),
		progress: make(chan string, 4),
		prevKey:  map[ebiten.Key]bool{},
	}
	if err := initSpeaker(); err != nil {
		log.Printf("speaker unavailable, chimes disabled: %v", err)
		g.muted = true
	}
	return g
}

func (g *Game) Update() error {
	g.ticks++

	justPressed := func(k ebiten.Key) bool {
		pressed := ebiten.IsKeyPressed(k)
		jp := pressed && !g.prevKey[k]
		g.prevKey[k] = pressed
		return jp
	}

	mouseX, mouseY := ebiten.CursorPosition()
	g.buttonHovered = mouseX >= config.ButtonX && mouseX <= config.ButtonX+config.ButtonWidth &&
		mouseY >= config.ButtonY && mouseY <= config.ButtonY+config.ButtonHeight

	if g.buttonHovered && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.buttonPressed = true
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if g.buttonPressed && g.buttonHovered && !g.busy {
			g.startSummarize()
		}
		g.buttonPressed = false
	}

	if justPressed(ebiten.KeySpace) && !g.busy {
		g.startSummarize()
	}
	if justPressed(ebiten.KeyG) && !g.busy {
		g.startGuide()
	}
	if justPressed(ebiten.KeyEscape) || justPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

drain:
	for {
		select {
		case s := <-g.progress:
			g.loading = s
		case out := <-g.outcomes:
			g.finish(out)
		default:
			break drain
		}
	}

	g.field.Advance()
	return nil
}

func (g *Game) startSummarize() {
	g.busy = true
	g.prevPanel = g.activePanel
	g.activePanel = panelLoading
	g.loading = "Choose a chat export..."
	go g.summarizeWorker()
}

func (g *Game) startGuide() {
	g.busy = true
	g.prevPanel = g.activePanel
	g.activePanel = panelLoading
	g.loading = "Fetching export guide..."
	go g.guideWorker()
}

func (g *Game) finish(out outcome) {
	g.busy = false
	switch {
	case out.canceled:
		g.activePanel = g.prevPanel
	case out.err != nil:
		g.activePanel = panelError
		g.title = "Something went wrong"
		g.lines = wrapText(out.err.Error(), g.textColumns())
		g.meta = ""
		g.playChime(false)
	case out.guide != nil:
		g.activePanel = panelResult
		g.title = out.guide.Title
		g.lines = g.guideLines(out.guide)
		g.meta = ""
		g.playChime(true)
	case out.result != nil:
		g.activePanel = panelResult
		g.title = "Summary"
		g.lines = wrapText(out.result.Summary, g.textColumns())
		g.meta = fmt.Sprintf("%d messages | %s", out.result.MessagesCount, out.result.DateRange)
		g.playChime(true)
	}
}

func (g *Game) summarizeWorker() {
	filename, err := zenity.SelectFile(
		zenity.Title("Open Chat Export"),
		zenity.FileFilters{{
			Name:     "Chat exports",
			Patterns: []string{"*.txt", "*.zip"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			g.outcomes <- outcome{canceled: true}
			return
		}
		g.outcomes <- outcome{err: err}
		return
	}

	rangeEntry, err := zenity.Entry(
		"Date range as YYYY-MM-DD..YYYY-MM-DD (leave empty for all dates):",
		zenity.Title("Date Range"),
	)
	if err != nil && !errors.Is(err, zenity.ErrCanceled) {
		g.outcomes <- outcome{err: err}
		return
	}
	opts := parseRangeEntry(rangeEntry)

	if n, ok := previewCount(filename); ok {
		g.progress <- fmt.Sprintf("Summarizing %d messages...", n)
	} else {
		g.progress <- "Summarizing " + filepath.Base(filename) + "..."
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	res, err := g.client.Summarize(ctx, filename, opts)
	if err != nil {
		g.outcomes <- outcome{err: err}
		return
	}
	g.outcomes <- outcome{result: res}
}

func (g *Game) guideWorker() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	gd, err := g.client.Guide(ctx)
	if err != nil {
		g.outcomes <- outcome{err: err}
		return
	}
	g.outcomes <- outcome{guide: gd}
}

// previewCount parses the export locally so the loading panel can show how
// many messages are about to be summarized.
func previewCount(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()
	content, err := chat.ReadExport(filepath.Base(path), f)
	if err != nil {
		return 0, false
	}
	messages, err := chat.Parse(strings.NewReader(content))
	if err != nil || len(messages) == 0 {
		return 0, false
	}
	return len(messages), true
}

// parseRangeEntry turns "2024-01-01..2024-01-31" into range options.
// Anything that does not parse means "all dates".
func parseRangeEntry(entry string) summarize.Options {
	parts := strings.SplitN(strings.TrimSpace(entry), "..", 2)
	if len(parts) != 2 {
		return summarize.Options{}
	}
	start, end := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if _, err := time.Parse("2006-01-02", start); err != nil {
		return summarize.Options{}
	}
	if _, err := time.Parse("2006-01-02", end); err != nil {
		return summarize.Options{}
	}
	return summarize.Options{StartDate: start, EndDate: end}
}

func (g *Game) guideLines(gd *summarize.Guide) []string {
	cols := g.textColumns()
	var lines []string
	for _, step := range gd.Steps {
		lines = append(lines, fmt.Sprintf("%d. %s", step.Number, step.Title))
		for _, l := range wrapText(step.Description, cols-3) {
			lines = append(lines, "   "+l)
		}
	}
	return lines
}

const (
	panelMargin  = 40
	panelTop     = 110
	panelBottom  = 60
	panelPadding = 16
	lineHeight   = 14
	charWidth    = 6
)

func (g *Game) textColumns() int {
	cols := (g.width - 2*panelMargin - 2*panelPadding) / charWidth
	if cols < 20 {
		cols = 20
	}
	return cols
}

var (
	backgroundColor = color.NRGBA{R: 7, G: 12, B: 20, A: 255}
	panelFill       = color.NRGBA{R: 13, G: 22, B: 33, A: 235}
	panelBorder     = color.NRGBA{R: 37, G: 211, B: 102, A: 255}
	accentColor     = color.NRGBA{R: 37, G: 211, B: 102, A: 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	g.field.Draw(screen)
	g.drawButton(screen)

	switch g.activePanel {
	case panelPlaceholder:
		g.drawPlaceholder(screen)
	case panelLoading:
		g.drawLoading(screen)
	case panelResult, panelError:
		g.drawPanel(screen)
	}

	status := "WhatsApp Chat Summarizer - Space/button: open export, G: guide, Esc/Q: quit"
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

func (g *Game) drawButton(screen *ebiten.Image) {
	var bgColor color.Color
	if g.buttonPressed {
		bgColor = color.NRGBA{R: 14, G: 92, B: 53, A: 255}
	} else if g.buttonHovered {
		bgColor = color.NRGBA{R: 22, G: 140, B: 79, A: 255}
	} else {
		bgColor = color.NRGBA{R: 18, G: 116, B: 66, A: 255}
	}

	vector.DrawFilledRect(screen, float32(config.ButtonX), float32(config.ButtonY),
		float32(config.ButtonWidth), float32(config.ButtonHeight), bgColor, false)
	vector.StrokeRect(screen, float32(config.ButtonX), float32(config.ButtonY),
		float32(config.ButtonWidth), float32(config.ButtonHeight), 2, accentColor, false)

	text := "Open Chat Export"
	textWidth := len(text) * charWidth
	textX := config.ButtonX + (config.ButtonWidth-textWidth)/2
	textY := config.ButtonY + (config.ButtonHeight-12)/2
	ebitenutil.DebugPrintAt(screen, text, textX, textY)
}

func (g *Game) panelRect() (x, y, w, h int) {
	return panelMargin, panelTop, g.width - 2*panelMargin, g.height - panelTop - panelBottom
}

func (g *Game) drawPanelFrame(screen *ebiten.Image) (textX, textY int) {
	x, y, w, h := g.panelRect()
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w), float32(h), panelFill, false)
	vector.StrokeRect(screen, float32(x), float32(y), float32(w), float32(h), 1, panelBorder, false)
	return x + panelPadding, y + panelPadding
}

func (g *Game) drawPlaceholder(screen *ebiten.Image) {
	textX, textY := g.drawPanelFrame(screen)
	ebitenutil.DebugPrintAt(screen, "No summary yet.", textX, textY)
	ebitenutil.DebugPrintAt(screen, "Open an exported WhatsApp chat (.txt or .zip) to get started.", textX, textY+2*lineHeight)
	ebitenutil.DebugPrintAt(screen, "Press G for a step-by-step export guide.", textX, textY+3*lineHeight)
}

func (g *Game) drawLoading(screen *ebiten.Image) {
	textX, textY := g.drawPanelFrame(screen)

	dots := strings.Repeat(".", g.ticks/20%4)
	ebitenutil.DebugPrintAt(screen, g.loading+dots, textX, textY)

	// Pulsing dot so the panel visibly animates even while a dialog blocks
	// the worker.
	pulse := 6 + 2*math.Sin(float64(g.ticks)*0.1)
	vector.DrawFilledCircle(screen, float32(textX+8), float32(textY+3*lineHeight),
		float32(pulse), accentColor, false)
}

func (g *Game) drawPanel(screen *ebiten.Image) {
	textX, textY := g.drawPanelFrame(screen)
	_, y, _, h := g.panelRect()

	titleColor := accentColor
	if g.activePanel == panelError {
		titleColor = color.NRGBA{R: 235, G: 87, B: 87, A: 255}
	}
	vector.DrawFilledRect(screen, float32(textX), float32(textY+lineHeight), float32(len(g.title)*charWidth), 1, titleColor, false)
	ebitenutil.DebugPrintAt(screen, g.title, textX, textY)

	lineY := textY + 2*lineHeight
	maxY := y + h - panelPadding - lineHeight
	for _, line := range g.lines {
		if lineY > maxY {
			ebitenutil.DebugPrintAt(screen, "...", textX, lineY)
			break
		}
		ebitenutil.DebugPrintAt(screen, line, textX, lineY)
		lineY += lineHeight
	}

	if g.meta != "" {
		ebitenutil.DebugPrintAt(screen, g.meta, textX, y+h-panelPadding-lineHeight/2)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 &&
		(outsideWidth != g.width || outsideHeight != g.height) {
		g.width = outsideWidth
		g.height = outsideHeight
		g.field.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
