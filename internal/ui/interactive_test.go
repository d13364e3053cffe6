package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeRunes(m *searchModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestSearchModel_SearchesAsYouType(t *testing.T) {
	// Given: a model over a fixed name list
	names := []string{"Anna", "Anne", "Bob"}
	var queries []string
	m := newSearchModel("people", func(q string) ([]string, error) {
		queries = append(queries, q)
		var out []string
		for _, n := range names {
			if strings.HasPrefix(strings.ToLower(n), strings.ToLower(q)) {
				out = append(out, n)
			}
		}
		return out, nil
	}, NoColorStyles())

	// When: typing a prefix
	typeRunes(m, "ann")

	// Then: every keystroke reran the search and the view lists matches
	assert.Equal(t, []string{"a", "an", "ann"}, queries)
	view := m.View()
	assert.Contains(t, view, "people")
	assert.Contains(t, view, "Anna")
	assert.Contains(t, view, "Anne")
	assert.NotContains(t, view, "Bob")
	assert.Contains(t, view, "2 matches")
}

func TestSearchModel_NoMatches(t *testing.T) {
	m := newSearchModel("people", func(string) ([]string, error) { return nil, nil }, NoColorStyles())

	typeRunes(m, "zz")

	assert.Contains(t, m.View(), "no matches")
}

func TestSearchModel_ShowsError(t *testing.T) {
	m := newSearchModel("people", func(string) ([]string, error) {
		return nil, errors.New("engine destroyed")
	}, NoColorStyles())

	typeRunes(m, "a")

	assert.Contains(t, m.View(), "engine destroyed")
}

func TestSearchModel_BlankQuerySkipsSearch(t *testing.T) {
	called := false
	m := newSearchModel("people", func(string) ([]string, error) {
		called = true
		return nil, nil
	}, NoColorStyles())

	typeRunes(m, " ")

	assert.False(t, called)
	assert.NotContains(t, m.View(), "no matches")
}

func TestSearchModel_QuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC, tea.KeyEnter} {
		m := newSearchModel("people", func(string) ([]string, error) { return nil, nil }, NoColorStyles())

		_, cmd := m.Update(tea.KeyMsg{Type: key})

		require.NotNil(t, cmd)
		assert.IsType(t, tea.QuitMsg{}, cmd())
		assert.Empty(t, m.View())
	}
}

func TestSearchModel_UpdateRerunsQuery(t *testing.T) {
	// Given: a model whose data changes after the first search
	data := []string{"Anna"}
	m := newSearchModel("people", func(q string) ([]string, error) {
		return data, nil
	}, NoColorStyles())
	updates := make(chan string, 1)
	m.updates = updates
	typeRunes(m, "a")
	require.Contains(t, m.View(), "1 matches")

	// When: an update arrives
	data = []string{"Anna", "Anne"}
	updates <- "reloaded people.json"
	msg := m.waitForUpdate()()
	_, cmd := m.Update(msg)

	// Then: the query reran, the status is shown and the model keeps listening
	view := m.View()
	assert.Contains(t, view, "Anne")
	assert.Contains(t, view, "2 matches • esc to quit • reloaded people.json")
	assert.NotNil(t, cmd)
}

func TestSearchModel_ClosedUpdatesStopListening(t *testing.T) {
	m := newSearchModel("people", func(string) ([]string, error) { return nil, nil }, NoColorStyles())
	updates := make(chan string)
	close(updates)
	m.updates = updates

	assert.Nil(t, m.waitForUpdate()())
}

func TestSearchModel_NoUpdatesChannel(t *testing.T) {
	m := newSearchModel("people", func(string) ([]string, error) { return nil, nil }, NoColorStyles())

	assert.Nil(t, m.waitForUpdate())
}
