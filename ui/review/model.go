package review

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/patchninja/internal/models"
	"github.com/cheerioskun/patchninja/internal/patcher"
)

// Decision is the outcome of a review
type Decision int

const (
	Pending Decision = iota
	Accepted
	Rejected
)

// String returns a human-readable representation of the decision
func (d Decision) String() string {
	switch d {
	case Accepted:
		return "Accepted"
	case Rejected:
		return "Rejected"
	default:
		return "Pending"
	}
}

type keyMap struct {
	Accept key.Binding
	Reject key.Binding
}

var keys = keyMap{
	Accept: key.NewBinding(
		key.WithKeys("y", "enter"),
		key.WithHelp("y/enter", "write file"),
	),
	Reject: key.NewBinding(
		key.WithKeys("n", "esc", "q", "ctrl+c"),
		key.WithHelp("n/esc", "discard"),
	),
}

// Model is the review screen shown before a patched document is written
type Model struct {
	doc      *models.Document
	report   *models.PatchReport
	diff     []patcher.DiffLine
	viewport viewport.Model
	decision Decision
	width    int
	height   int
	ready    bool
}

// NewModel creates a review model for a patched document
func NewModel(doc *models.Document, report *models.PatchReport) *Model {
	return &Model{
		doc:      doc,
		report:   report,
		diff:     patcher.DiffLines(doc.Original, doc.Content),
		viewport: viewport.New(80, 20),
		decision: Pending,
		width:    80,
		height:   24,
	}
}

// Decision returns what the user chose
func (m *Model) Decision() Decision {
	return m.decision
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Accept):
			m.decision = Accepted
			return m, tea.Quit
		case key.Matches(msg, keys.Reject):
			m.decision = Rejected
			return m, tea.Quit
		}
	}

	if !m.ready {
		m.resize()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m *Model) View() string {
	if !m.ready {
		m.resize()
	}
	return m.render()
}

// resize fits the diff viewport between the report header and the help line
func (m *Model) resize() {
	header := m.renderHeader()
	height := m.height - lipgloss.Height(header) - 3
	if height < 3 {
		height = 3
	}
	m.viewport.Width = m.width
	m.viewport.Height = height
	m.viewport.SetContent(RenderDiff(m.diff, 2))
	m.ready = true
}

// Confirm shows the review screen and reports whether the user accepted the change.
// It matches patcher.ReviewFunc.
func Confirm(doc *models.Document, report *models.PatchReport) (bool, error) {
	model := NewModel(doc, report)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return false, err
	}

	return model.Decision() == Accepted, nil
}
