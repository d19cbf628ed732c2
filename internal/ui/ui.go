// Package ui provides the terminal picker and node rendering.
// Items are shown as plain text; nothing from a platform response is
// ever executed or interpreted by a shell.
package ui

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrCancelled is returned when the user leaves the picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

type item struct {
	index int
	text  string
}

func (i item) Title() string       { return i.text }
func (i item) Description() string { return "" }
func (i item) FilterValue() string { return i.text }

type picker struct {
	list      list.Model
	choice    int
	cancelled bool
}

func newPicker(prompt string, items []string) picker {
	entries := make([]list.Item, len(items))
	for i, s := range items {
		entries[i] = item{index: i, text: s}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(accentColor).
		Foreground(accentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(textColor)

	l := list.New(entries, delegate, 0, 0)
	l.Title = prompt
	l.Styles.Title = lipgloss.NewStyle().Foreground(baseColor).Background(accentColor).Padding(0, 1)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)

	return picker{list: l, choice: -1}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.list.SetSize(msg.Width, msg.Height)
		return p, nil
	case tea.KeyMsg:
		// While filtering, keys belong to the filter input.
		if p.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			selected, ok := p.list.SelectedItem().(item)
			if !ok {
				return p, nil
			}
			p.choice = selected.index
			return p, tea.Quit
		case "esc", "q", "ctrl+c":
			p.cancelled = true
			return p, tea.Quit
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return p, cmd
}

func (p picker) View() string {
	return p.list.View()
}

// Select presents items in an interactive list and returns the chosen index.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	prog := tea.NewProgram(newPicker(prompt, items), tea.WithAltScreen(), tea.WithOutput(os.Stderr))
	final, err := prog.Run()
	if err != nil {
		return -1, fmt.Errorf("running picker: %w", err)
	}

	p := final.(picker)
	if p.cancelled || p.choice < 0 {
		return -1, ErrCancelled
	}
	if p.choice >= len(items) {
		return -1, fmt.Errorf("selection index %d out of range", p.choice)
	}
	return p.choice, nil
}
