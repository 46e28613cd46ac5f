// Package tui is the reactive-widget front-end: a Bubble Tea application
// that picks a document, runs the scan pipeline and shows the recognized
// text in a scrollable viewport.
package tui

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Hakari-Bibani/OCR/pkg/models"
	"github.com/Hakari-Bibani/OCR/pkg/services/scanner"
)

// view states
type state int

const (
	statePicking state = iota
	stateScanning
	stateResult
	stateError
)

// Styles for the TUI.
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).MarginTop(1)
	blockStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
)

// Messages produced by the scan command.
type scanDoneMsg struct {
	result *scanner.Result
}

type scanFailedMsg struct {
	err error
}

// Model is the Bubble Tea model for the OCR front-end.
type Model struct {
	scanner *scanner.Service

	picker   filepicker.Model
	spinner  spinner.Model
	viewport viewport.Model

	state  state
	file   string
	result *scanner.Result
	err    error
	width  int
	height int
	ready  bool
}

// Ensure Model implements tea.Model.
var _ tea.Model = (*Model)(nil)

// New creates the TUI model around a scan pipeline.
func New(svc *scanner.Service) Model {
	fp := filepicker.New()
	exts := make([]string, 0, len(scanner.AllowedExtensions))
	for ext := range scanner.AllowedExtensions {
		exts = append(exts, "."+ext)
	}
	fp.AllowedTypes = exts
	if home, err := os.UserHomeDir(); err == nil {
		fp.CurrentDirectory = home
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return Model{
		scanner:  svc,
		picker:   fp,
		spinner:  sp,
		viewport: viewport.New(80, 20),
		state:    statePicking,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.picker.Init(),
		tea.SetWindowTitle("Kurdish OCR"),
	)
}

// scanCmd reads the picked file and runs it through the pipeline.
func (m Model) scanCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return scanFailedMsg{err: fmt.Errorf("read %s: %w", filepath.Base(path), err)}
		}
		up := models.Upload{
			Filename: filepath.Base(path),
			MIME:     mime.TypeByExtension(filepath.Ext(path)),
			Data:     data,
		}
		res, err := m.scanner.Scan(context.Background(), up)
		if err != nil {
			return scanFailedMsg{err: err}
		}
		return scanDoneMsg{result: res}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.picker.Height = msg.Height - 6
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 6

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == stateResult || m.state == stateError {
				m.state = statePicking
				m.result = nil
				m.err = nil
				return m, m.picker.Init()
			}
		}

	case scanDoneMsg:
		m.state = stateResult
		m.result = msg.result
		m.viewport.SetContent(renderResult(msg.result))
		m.viewport.GotoTop()
		return m, nil

	case scanFailedMsg:
		m.state = stateError
		m.err = msg.err
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case statePicking:
		m.picker, cmd = m.picker.Update(msg)
		if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
			m.state = stateScanning
			m.file = path
			return m, tea.Batch(m.spinner.Tick, m.scanCmd(path))
		}
	case stateScanning:
		m.spinner, cmd = m.spinner.Update(msg)
	case stateResult:
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// renderResult formats the recognized blocks for the viewport.
func renderResult(res *scanner.Result) string {
	if res.Empty() {
		return noTextStyle.Render("No text detected in the document.")
	}
	var sb strings.Builder
	for i, block := range res.Blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(blockStyle.Render(fmt.Sprintf("Text block %d", block.Page)))
		sb.WriteString("\n")
		sb.WriteString(block.Text)
	}
	return sb.String()
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.state {
	case statePicking:
		body = m.picker.View() + helpStyle.Render("select a document to scan · q to quit")
	case stateScanning:
		body = fmt.Sprintf("%s scanning %s …", m.spinner.View(), filepath.Base(m.file))
	case stateResult:
		meta := metaStyle.Render(fmt.Sprintf("%s · provider: %s · pages submitted: %d",
			filepath.Base(m.file), m.result.Provider, m.result.Pages))
		body = meta + "\n\n" + m.viewport.View() + helpStyle.Render("esc to scan another · q to quit")
	case stateError:
		body = errorStyle.Render(fmt.Sprintf("Failed to process the document: %v", m.err)) +
			helpStyle.Render("esc to try another file · q to quit")
	}
	return titleStyle.Render("Kurdish OCR") + "\n" + body
}

// Run starts the TUI program.
func Run(svc *scanner.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
