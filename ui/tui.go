// Package ui provides the interactive terminal front end
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/promptchad/promptchad/internal/promptstore"
	"github.com/promptchad/promptchad/internal/report"
	"github.com/promptchad/promptchad/pkg/abkit/engine"
)

// Dispatcher runs one A/B test and returns the aggregated result
type Dispatcher func(ctx context.Context, promptA, promptB, sharedInput string) (*engine.RunResult, error)

// Focusable input slots, cycled with tab
const (
	focusPromptA = iota
	focusPromptB
	focusShared
	focusCount
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	blurredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type runResultMsg struct {
	result *engine.RunResult
	err    error
}

type savedMsg struct {
	err error
}

type tickMsg time.Time

type model struct {
	promptA  textarea.Model
	promptB  textarea.Model
	shared   textarea.Model
	results  viewport.Model
	focus    int
	loading  bool
	spinner  int
	status   string
	width    int
	height   int
	ctx      context.Context
	dispatch Dispatcher
	store    *promptstore.Store
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func newModel(ctx context.Context, dispatch Dispatcher, store *promptstore.Store) model {
	newArea := func(placeholder string) textarea.Model {
		ta := textarea.New()
		ta.Placeholder = placeholder
		ta.SetHeight(5)
		return ta
	}

	promptA := newArea("Prompt variant A...")
	promptA.Focus()

	vp := viewport.New(80, 12)
	vp.SetContent("Run a test with ctrl+r to see results here.")

	return model{
		promptA:  promptA,
		promptB:  newArea("Prompt variant B..."),
		shared:   newArea("Shared input (optional)..."),
		results:  vp,
		ctx:      ctx,
		dispatch: dispatch,
		store:    store,
		status:   "tab: next field · ctrl+r: run · ctrl+s: save prompt A · ctrl+c: quit",
	}
}

func (m model) Init() tea.Cmd {
	return textarea.Blink
}

func (m *model) cycleFocus() {
	m.focus = (m.focus + 1) % focusCount

	m.promptA.Blur()
	m.promptB.Blur()
	m.shared.Blur()

	switch m.focus {
	case focusPromptA:
		m.promptA.Focus()
	case focusPromptB:
		m.promptB.Focus()
	case focusShared:
		m.shared.Focus()
	}
}

func (m model) runTest() tea.Cmd {
	promptA := m.promptA.Value()
	promptB := m.promptB.Value()
	sharedInput := m.shared.Value()

	return func() tea.Msg {
		result, err := m.dispatch(m.ctx, promptA, promptB, sharedInput)
		return runResultMsg{result: result, err: err}
	}
}

func (m model) savePromptA() tea.Cmd {
	content := m.promptA.Value()
	store := m.store

	return func() tea.Msg {
		name := fmt.Sprintf("prompt-%s", time.Now().Format("20060102-150405"))
		return savedMsg{err: store.Save(name, content)}
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.cycleFocus()
			return m, nil
		case "ctrl+r":
			if m.loading {
				return m, nil
			}
			if strings.TrimSpace(m.promptA.Value()) == "" && strings.TrimSpace(m.promptB.Value()) == "" {
				m.status = "At least one prompt is required"
				return m, nil
			}
			m.loading = true
			m.status = "Dispatching providers..."
			return m, tea.Batch(m.runTest(), tick())
		case "ctrl+s":
			return m, m.savePromptA()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		columnWidth := (msg.Width - 4) / 2
		m.promptA.SetWidth(columnWidth)
		m.promptB.SetWidth(columnWidth)
		m.shared.SetWidth(msg.Width - 2)

		resultsHeight := msg.Height - m.promptA.Height() - m.shared.Height() - 6
		if resultsHeight < 5 {
			resultsHeight = 5
		}
		m.results.Width = msg.Width - 2
		m.results.Height = resultsHeight
		return m, nil

	case tickMsg:
		if !m.loading {
			return m, nil
		}
		m.spinner = (m.spinner + 1) % len(spinnerFrames)
		m.status = spinnerFrames[m.spinner] + " Dispatching providers..."
		return m, tick()

	case runResultMsg:
		m.loading = false
		if msg.err != nil {
			m.status = "Run failed: " + msg.err.Error()
			return m, nil
		}
		m.results.SetContent(report.Text(msg.result))
		m.results.GotoTop()
		m.status = "Done. tab: next field · ctrl+r: run again · ctrl+c: quit"
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = "Save failed: " + msg.err.Error()
		} else {
			m.status = "Prompt A saved"
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.promptA, cmd = m.promptA.Update(msg)
	cmds = append(cmds, cmd)
	m.promptB, cmd = m.promptB.Update(msg)
	cmds = append(cmds, cmd)
	m.shared, cmd = m.shared.Update(msg)
	cmds = append(cmds, cmd)
	m.results, cmd = m.results.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m model) title(label string, focused bool) string {
	if focused {
		return focusedStyle.Render("▸ " + label)
	}
	return blurredStyle.Render("  " + label)
}

func (m model) View() string {
	header := titleStyle.Render("promptchad")

	columns := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left,
			m.title("Prompt A", m.focus == focusPromptA), m.promptA.View()),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left,
			m.title("Prompt B", m.focus == focusPromptB), m.promptB.View()),
	)

	sharedBlock := lipgloss.JoinVertical(lipgloss.Left,
		m.title("Shared input", m.focus == focusShared), m.shared.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		columns,
		sharedBlock,
		m.results.View(),
		statusStyle.Render(m.status),
	)
}

// StartTUI runs the terminal UI until the user quits
func StartTUI(ctx context.Context, dispatch Dispatcher, store *promptstore.Store) error {
	p := tea.NewProgram(newModel(ctx, dispatch, store), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
