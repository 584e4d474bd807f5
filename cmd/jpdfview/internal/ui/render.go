package ui

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/pndaza/just-pdf-viewer/internal/cache"
	"github.com/pndaza/just-pdf-viewer/pkg/colormode"
	"github.com/pndaza/just-pdf-viewer/pkg/engine"
	"github.com/pndaza/just-pdf-viewer/pkg/transform"
)

// rasterQuality is the supersampling factor pages are rendered at. The
// raster is cached at this fixed scale and resampled per zoom level, so
// zooming never goes back through the engine.
const rasterQuality = 2.0

// Style definitions
var (
	// Colors
	accentColor = lipgloss.Color("#3b82f6")
	mutedColor  = lipgloss.Color("#94a3b8")
	errorColor  = lipgloss.Color("#ef4444")

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	headerInfoStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	statusAlertStyle = lipgloss.NewStyle().
				Foreground(errorColor)

	errorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Padding(1, 2)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// View implements tea.Model
func (m *Model) View() string {
	if !m.sized {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.renderContent())
	b.WriteByte('\n')
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := headerStyle.Render(m.src.Describe())
	info := headerInfoStyle.Render(m.mode.String())
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(info)
	if gap < 1 {
		return title
	}
	return title + strings.Repeat(" ", gap) + info
}

func (m *Model) renderContent() string {
	rows := m.contentRows()

	switch {
	case m.loading:
		return m.centered(rows, m.spinner.View()+" loading")

	case m.loadErr != nil && m.doc == nil:
		return m.centered(rows, errorBoxStyle.Render(m.loadErr.Error()))

	case m.pageView != "":
		return m.pageView

	default:
		return m.centered(rows, headerInfoStyle.Render("no preview"))
	}
}

func (m *Model) renderStatus() string {
	if m.entering {
		return "go to page: " + m.pageInput.View()
	}
	if m.showHelp {
		return m.renderHelp()
	}

	parts := []string{
		fmt.Sprintf("page %d/%d", m.v.Nav().CurrentPage()+1, m.v.Nav().PageCount()),
		fmt.Sprintf("%.0f%%", m.v.Zoom().Scale()*100),
		m.v.Coordinator().Axis().String(),
	}
	if m.follow != nil {
		parts = append(parts, fmt.Sprintf("%d followers", m.follow.FollowerCount()))
	}
	line := statusStyle.Render(strings.Join(parts, "  |  "))
	if m.loadErr != nil {
		line += "  " + statusAlertStyle.Render(m.loadErr.Error())
	}
	if m.statusMsg != "" {
		line += "  " + statusAlertStyle.Render(m.statusMsg)
	}
	return line
}

func (m *Model) renderHelp() string {
	bindings := []struct{ keys, desc string }{
		{"→/l/space", "next page"},
		{"←/h", "prev page"},
		{"g/G", "first/last page"},
		{":", "go to page"},
		{"+/-", "zoom"},
		{"w/e/f", "fit width/height/screen"},
		{"0", "reset zoom"},
		{"a", "flip axis"},
		{"m", "color mode"},
		{"r", "reload"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		parts = append(parts, b.keys+" "+b.desc)
	}
	return helpStyle.Render(strings.Join(parts, "  "))
}

func (m *Model) centered(rows int, content string) string {
	return lipgloss.Place(m.width, rows, lipgloss.Center, lipgloss.Center, content)
}

// renderCmd produces the half-block raster for the current page under
// the current transform. Rasterization runs off the update loop; the
// result is dropped if the view has moved on by the time it lands.
func (m *Model) renderCmd() tea.Cmd {
	if m.doc == nil || !m.sized {
		return nil
	}
	ras, ok := m.doc.(engine.Rasterizer)
	if !ok {
		return nil
	}

	doc := m.doc
	mode := m.mode
	key := m.rasterKey()
	t := m.v.Zoom().Transform()
	pxW, pxH := m.width, m.contentRows()*2
	rasters := m.rasters

	// Every issued command produces exactly one rasterMsg; the count
	// gates disposal of retired documents.
	m.renders++

	return func() tea.Msg {
		page := key.Page
		raster, hit := rasters.Get(cache.Key{Page: page, Scale: rasterQuality, Mode: mode.String()})
		if !hit {
			img, err := ras.Render(context.Background(), page, rasterQuality)
			if err != nil {
				return rasterMsg{key: key, view: ""}
			}
			raster = colormode.Apply(mode, img)
			rasters.Put(cache.Key{Page: page, Scale: rasterQuality, Mode: mode.String()}, raster)
		}

		pw, ph, err := doc.PageSize(page)
		if err != nil || pw <= 0 || ph <= 0 {
			b := raster.Bounds()
			pw, ph = float64(b.Dx()), float64(b.Dy())
		}

		canvas := composePage(raster, pw, ph, t, pxW, pxH)
		return rasterMsg{key: key, view: halfblocks(canvas)}
	}
}

// composePage places the page raster on a viewport-sized canvas. The
// identity transform fits the page inside the viewport and centers it;
// scale and translation move the placement from there.
func composePage(raster image.Image, pageW, pageH float64, t transform.Matrix, pxW, pxH int) *image.RGBA {
	scale := t.Scale()
	fit := float64(pxW) / pageW
	if f := float64(pxH) / pageH; f < fit {
		fit = f
	}
	bw, bh := pageW*fit, pageH*fit
	bx, by := (float64(pxW)-bw)/2, (float64(pxH)-bh)/2

	tx, ty := t.Translate()
	x0 := int(scale*bx + tx)
	y0 := int(scale*by + ty)
	x1 := x0 + int(bw*scale)
	y1 := y0 + int(bh*scale)

	canvas := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	bg := color.RGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff}
	for i := 0; i < len(canvas.Pix); i += 4 {
		canvas.Pix[i] = bg.R
		canvas.Pix[i+1] = bg.G
		canvas.Pix[i+2] = bg.B
		canvas.Pix[i+3] = bg.A
	}

	xdraw.ApproxBiLinear.Scale(canvas, image.Rect(x0, y0, x1, y1), raster, raster.Bounds(), xdraw.Over, nil)
	return canvas
}

// halfblocks encodes an image as terminal rows using the upper half
// block, packing two pixel rows per cell with truecolor sequences.
func halfblocks(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		for x := b.Min.X; x < b.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bot := top
			if y+1 < b.Max.Y {
				bot = img.RGBAAt(x, y+1)
			}
			fmt.Fprintf(&sb, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bot.R, bot.G, bot.B)
		}
		sb.WriteString("\x1b[0m")
		if y+2 < b.Max.Y {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
