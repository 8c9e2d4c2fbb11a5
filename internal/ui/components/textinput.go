package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cookiz/internal/ui/theme"
)

// SearchInput wraps bubbles/textinput as a filter box.
type SearchInput struct {
	Model textinput.Model
}

// NewSearchInput creates a blurred search box.
func NewSearchInput(placeholder string, width int) SearchInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	ti.CharLimit = 40
	if width > 0 {
		ti.SetWidth(width)
	}
	return SearchInput{Model: ti}
}

// Focus starts capturing keys.
func (s *SearchInput) Focus() tea.Cmd {
	return s.Model.Focus()
}

// Blur stops capturing keys and keeps the text.
func (s *SearchInput) Blur() {
	s.Model.Blur()
}

// Focused reports whether keys go to the input.
func (s SearchInput) Focused() bool {
	return s.Model.Focused()
}

// Reset clears the query.
func (s *SearchInput) Reset() {
	s.Model.Reset()
}

// Update handles messages.
func (s SearchInput) Update(msg tea.Msg) (SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.Model, cmd = s.Model.Update(msg)
	return s, cmd
}

// View renders the search box.
func (s SearchInput) View() string {
	color := theme.Border
	if s.Model.Focused() {
		color = theme.Accent
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(s.Model.View())
}

// Value returns the current query.
func (s SearchInput) Value() string {
	return s.Model.Value()
}
