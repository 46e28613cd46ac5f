package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hakari-Bibani/OCR/pkg/models"
	"github.com/Hakari-Bibani/OCR/pkg/services/ocr"
	"github.com/Hakari-Bibani/OCR/pkg/services/scanner"
)

type stubEngine struct{}

func (stubEngine) Name() string { return "stub" }

func (stubEngine) Recognize(context.Context, ocr.Input) (ocr.Result, error) {
	return ocr.Result{Text: "text"}, nil
}

type stubRasterizer struct{}

func (stubRasterizer) Rasterize(context.Context, string, string) ([]string, error) {
	return nil, errors.New("not used")
}

func newModel(t *testing.T) Model {
	t.Helper()
	svc := scanner.New(stubEngine{}, stubRasterizer{}, nil, scanner.Options{UploadDir: t.TempDir()})
	return New(svc)
}

func TestNew_StartsPicking(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, statePicking, m.state)
	assert.Contains(t, m.View(), "select a document")
}

func TestUpdate_ScanDoneShowsResult(t *testing.T) {
	m := newModel(t)
	m.file = "/tmp/doc.png"

	res := &scanner.Result{
		Provider: "stub",
		Pages:    2,
		Blocks: []models.TextBlock{
			{Page: 1, Text: "سڵاو"},
			{Page: 2, Text: "جیهان"},
		},
	}

	updated, _ := m.Update(scanDoneMsg{result: res})
	model := updated.(Model)

	assert.Equal(t, stateResult, model.state)
	view := model.View()
	assert.Contains(t, view, "سڵاو")
	assert.Contains(t, view, "جیهان")
	assert.Contains(t, view, "provider: stub")
}

func TestUpdate_ScanDoneEmptyResult(t *testing.T) {
	m := newModel(t)
	m.file = "/tmp/blank.png"

	updated, _ := m.Update(scanDoneMsg{result: &scanner.Result{Provider: "stub", Pages: 1}})
	model := updated.(Model)

	assert.Equal(t, stateResult, model.state)
	assert.Contains(t, model.View(), "No text detected")
}

func TestUpdate_ScanFailedShowsError(t *testing.T) {
	m := newModel(t)

	updated, _ := m.Update(scanFailedMsg{err: errors.New("quota exceeded")})
	model := updated.(Model)

	assert.Equal(t, stateError, model.state)
	assert.Contains(t, model.View(), "quota exceeded")
}

func TestUpdate_EscReturnsToPicker(t *testing.T) {
	m := newModel(t)
	m.state = stateError
	m.err = errors.New("boom")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model := updated.(Model)

	assert.Equal(t, statePicking, model.state)
	assert.Nil(t, model.err)
}

func TestUpdate_QuitKeys(t *testing.T) {
	m := newModel(t)
	m.state = stateResult
	m.result = &scanner.Result{}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestUpdate_QuitFromPicker(t *testing.T) {
	m := newModel(t)
	require.Equal(t, statePicking, m.state)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestScanCmd_RunsPipeline(t *testing.T) {
	m := newModel(t)

	path := filepath.Join(t.TempDir(), "doc.png")
	require.NoError(t, os.WriteFile(path, []byte{0x89, 0x50}, 0o600))

	msg := m.scanCmd(path)()
	done, ok := msg.(scanDoneMsg)
	require.True(t, ok, "expected scanDoneMsg, got %T", msg)
	assert.Equal(t, "text", done.result.Blocks[0].Text)
}

func TestScanCmd_MissingFile(t *testing.T) {
	m := newModel(t)

	msg := m.scanCmd("/nonexistent/doc.png")()
	failed, ok := msg.(scanFailedMsg)
	require.True(t, ok, "expected scanFailedMsg, got %T", msg)
	assert.Error(t, failed.err)
}
