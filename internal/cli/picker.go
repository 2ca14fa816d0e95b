package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/neuroimg/fmriplot/pkg/errors"
	"github.com/neuroimg/fmriplot/pkg/tabular"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ColumnListModel - Interactive confound column selection
// =============================================================================

// ColumnListModel is the bubbletea model for picking confound columns.
// Columns toggle with space and the selection confirms with enter; the
// original file order of the columns is preserved in the result.
type ColumnListModel struct {
	Columns   []string
	Cursor    int
	Checked   map[int]bool
	Confirmed bool
}

// NewColumnListModel creates a column picker with every column unchecked.
func NewColumnListModel(columns []string) ColumnListModel {
	return ColumnListModel{
		Columns: columns,
		Checked: make(map[int]bool, len(columns)),
	}
}

func (m ColumnListModel) Init() tea.Cmd {
	return nil
}

func (m ColumnListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.Columns)-1 {
				m.Cursor++
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			for i := range m.Columns {
				m.Checked[i] = true
			}
		case "n":
			for i := range m.Columns {
				m.Checked[i] = false
			}
		case "enter":
			m.Confirmed = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ColumnListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Confound Columns"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  n none  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.Columns {
		cursor := "  "
		if i == m.Cursor {
			cursor = "> "
		}

		check := "[ ]"
		if m.Checked[i] {
			check = "[" + StyleSuccess.Render("x") + "]"
		}

		line := fmt.Sprintf("%s%s %s", cursor, check, name)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if m.Checked[i] {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d of %d selected", m.selectedCount(), len(m.Columns))))

	return b.String()
}

// Selected returns the checked column names in file order.
// It returns nil unless the selection was confirmed with enter.
func (m ColumnListModel) Selected() []string {
	if !m.Confirmed {
		return nil
	}
	var selected []string
	for i, name := range m.Columns {
		if m.Checked[i] {
			selected = append(selected, name)
		}
	}
	return selected
}

func (m ColumnListModel) selectedCount() int {
	n := 0
	for _, checked := range m.Checked {
		if checked {
			n++
		}
	}
	return n
}

// =============================================================================
// Picker Entry Point
// =============================================================================

// pickColumns loads the confounds table header and runs the interactive
// column picker. It returns the selected column names in file order, or nil
// when the picker was dismissed without confirming.
func pickColumns(confoundsFile string) ([]string, error) {
	if confoundsFile == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "--pick requires --confounds")
	}

	table, err := tabular.LoadTable(confoundsFile, nil)
	if err != nil {
		return nil, err
	}

	model, err := tea.NewProgram(NewColumnListModel(table.Names())).Run()
	if err != nil {
		return nil, fmt.Errorf("run column picker: %w", err)
	}
	return model.(ColumnListModel).Selected(), nil
}
