package ui

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pndaza/just-pdf-viewer/pkg/viewport"
)

// handleKey dispatches keyboard input. While the page prompt is open all
// input belongs to it.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.entering {
		return m.handlePromptKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.v.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.v.Nav().NextPage()
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.v.Nav().PrevPage()
		return m, nil

	case key.Matches(msg, m.keys.FirstPage):
		m.v.Nav().GotoPage(0)
		return m, nil

	case key.Matches(msg, m.keys.LastPage):
		m.v.Nav().GotoPage(m.v.Nav().PageCount() - 1)
		return m, nil

	case key.Matches(msg, m.keys.GotoPage):
		m.entering = true
		m.pageInput.SetValue("")
		m.pageInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.ZoomIn):
		m.v.Zoom().ZoomIn()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.ZoomOut):
		m.v.Zoom().ZoomOut()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.ResetZoom):
		m.v.Zoom().Reset()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.FitWidth):
		m.v.Zoom().FitToWidth()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.FitHeight):
		m.v.Zoom().FitToHeight()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.FitScreen):
		m.v.Zoom().FitToScreen()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.Center):
		m.v.Zoom().CenterContent()
		return m, m.startAnim()

	case key.Matches(msg, m.keys.FlipAxis):
		axis := viewport.Horizontal
		if m.v.Coordinator().Axis() == viewport.Horizontal {
			axis = viewport.Vertical
		}
		m.v.SetAxis(axis)
		return m, nil

	case key.Matches(msg, m.keys.ColorMode):
		m.mode = m.mode.Next()
		return m, m.renderCmd()

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.openCmd())
	}

	return m, nil
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.entering = false
		m.pageInput.Blur()
		page, err := strconv.Atoi(m.pageInput.Value())
		if err != nil {
			m.statusMsg = "not a page number"
			return m, nil
		}
		m.v.Nav().GotoPage(page - 1)
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.entering = false
		m.pageInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.pageInput, cmd = m.pageInput.Update(msg)
	return m, cmd
}
