package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/progression/pkg/export"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDoneStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// StepModel - Interactive copy-per-unit stepper
// =============================================================================

// StepItem is one unit of a progression ready to be pasted.
type StepItem struct {
	Name string
	Text string
}

// StepModel is the bubbletea model that walks a progression and copies each
// unit to the clipboard on demand, for pasting into an online editor one
// level at a time.
type StepModel struct {
	Items     []StepItem
	Cursor    int
	Copied    []bool
	Height    int
	Offset    int
	Err       error
	clipboard export.Clipboard
}

// copiedMsg reports the outcome of a clipboard write.
type copiedMsg struct {
	index int
	err   error
}

// NewStepModel creates a stepper over items.
func NewStepModel(items []StepItem, cb export.Clipboard) StepModel {
	return StepModel{
		Items:     items,
		Copied:    make([]bool, len(items)),
		Height:    15,
		clipboard: cb,
	}
}

func (m StepModel) copy(i int) tea.Cmd {
	text := m.Items[i].Text
	cb := m.clipboard
	return func() tea.Msg {
		return copiedMsg{index: i, err: cb.Copy(text)}
	}
}

func (m StepModel) Init() tea.Cmd {
	return nil
}

func (m StepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Items)-1 {
				m.Cursor++
			}
		case "enter", " ":
			if len(m.Items) == 0 {
				return m, tea.Quit
			}
			return m, m.copy(m.Cursor)
		}
	case copiedMsg:
		m.Err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.Copied[msg.index] = true
		if msg.index == len(m.Items)-1 {
			return m, tea.Quit
		}
		if msg.index == m.Cursor {
			m.Cursor++
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	m.scroll()
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *StepModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

// Done reports how many units were copied.
func (m StepModel) Done() int {
	n := 0
	for _, c := range m.Copied {
		if c {
			n++
		}
	}
	return n
}

func (m StepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Copy Progression"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ copy and advance  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Items))
	for i := m.Offset; i < end; i++ {
		cursor, mark := "  ", " "
		if i == m.Cursor {
			cursor = "▸ "
		}
		if m.Copied[i] {
			mark = iconSuccess
		}
		line := fmt.Sprintf("%s%s %3d  %s", cursor, mark, i+1, m.Items[i].Name)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Copied[i]:
			b.WriteString(listDoneStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.Err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.Err.Error() + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d copied", min(m.Cursor+1, len(m.Items)), len(m.Items), m.Done())))
	return b.String()
}
