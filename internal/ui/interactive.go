package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// SearchFunc runs a query and returns one display line per result.
type SearchFunc func(query string) ([]string, error)

// searchModel is the bubbletea model for search-as-you-type.
type searchModel struct {
	input    textinput.Model
	search   SearchFunc
	styles   Styles
	title    string
	query    string
	results  []string
	err      error
	status   string
	updates  <-chan string
	width    int
	quitting bool
}

func newSearchModel(title string, search SearchFunc, styles Styles) *searchModel {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "type to search"
	in.PromptStyle = styles.Prompt
	in.Focus()

	return &searchModel{
		input:  in,
		search: search,
		styles: styles,
		title:  title,
		width:  80,
	}
}

// updateMsg reports that the searched data changed.
type updateMsg string

// Init implements tea.Model.
func (m *searchModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForUpdate())
}

// waitForUpdate delivers the next message from updates.
func (m *searchModel) waitForUpdate() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return nil
		}
		return updateMsg(s)
	}
}

// Update implements tea.Model.
func (m *searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			m.quitting = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
	case updateMsg:
		m.status = string(msg)
		m.refresh()
		return m, m.waitForUpdate()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if q := m.input.Value(); q != m.query {
		m.query = q
		m.refresh()
	}
	return m, cmd
}

func (m *searchModel) refresh() {
	if strings.TrimSpace(m.query) == "" {
		m.results, m.err = nil, nil
		return
	}
	m.results, m.err = m.search(m.query)
}

// View implements tea.Model.
func (m *searchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(m.styles.Error.Render(m.err.Error()))
		b.WriteString("\n")
	case m.query != "" && len(m.results) == 0:
		b.WriteString(m.styles.Dim.Render("no matches"))
		b.WriteString("\n")
	default:
		words := strings.Fields(m.query)
		for _, line := range m.results {
			b.WriteString(Highlight(line, words, m.styles))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	footer := fmt.Sprintf("%d matches • esc to quit", len(m.results))
	if m.status != "" {
		footer += " • " + m.status
	}
	b.WriteString(m.styles.Label.Render(footer))
	return b.String()
}

// RunInteractive runs the search-as-you-type view until the user quits or
// ctx is cancelled. Each message received on updates is shown in the footer
// and reruns the current query; updates may be nil.
func RunInteractive(ctx context.Context, cfg Config, title string, search SearchFunc, updates <-chan string) error {
	model := newSearchModel(title, search, cfg.Styles())
	model.updates = updates

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}

	_, err := tea.NewProgram(model, opts...).Run()
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}
