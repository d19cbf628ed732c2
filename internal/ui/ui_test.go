package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"seam/internal/media"
)

func press(t *testing.T, p picker, key tea.KeyMsg) picker {
	t.Helper()
	m, _ := p.Update(key)
	return m.(picker)
}

func TestPickerEnterChoosesSelected(t *testing.T) {
	p := newPicker("Pick", []string{"a", "b", "c"})
	p.list.Select(1)

	p = press(t, p, tea.KeyMsg{Type: tea.KeyEnter})
	if p.cancelled {
		t.Fatal("enter should not cancel")
	}
	if p.choice != 1 {
		t.Errorf("choice = %d, want 1", p.choice)
	}
}

func TestPickerCancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		p := newPicker("Pick", []string{"a"})
		p = press(t, p, key)
		if !p.cancelled {
			t.Errorf("%s should cancel", key.String())
		}
		if p.choice != -1 {
			t.Errorf("%s: choice = %d, want -1", key.String(), p.choice)
		}
	}
}

func TestSelectNoItems(t *testing.T) {
	if _, err := Select("Pick", nil); err == nil {
		t.Error("expected error for empty items")
	}
}

func TestRenderNodePlain(t *testing.T) {
	n := &media.Node{
		Platform: "bilibili",
		RoomID:   "7734200",
		Title:    "Room",
		URLs:     []string{"https://a/1", "https://b/2"},
	}

	out := RenderNode(n, false)
	for _, want := range []string{"bilibili 7734200", "title   Room", "2 stream URL(s)", " 1  https://a/1", " 2  https://b/2"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "cover") {
		t.Errorf("empty cover should be omitted:\n%s", out)
	}
}

func TestRenderNodeStyledKeepsContent(t *testing.T) {
	n := &media.Node{Platform: "173", RoomID: "96", URLs: []string{"https://x/96.flv"}}
	out := RenderNode(n, true)
	if !strings.Contains(out, "https://x/96.flv") {
		t.Errorf("styled output lost URL:\n%s", out)
	}
}
