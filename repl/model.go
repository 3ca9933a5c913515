package repl

import (
	"errors"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

const maxEntries = 200

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	inputStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

type entry struct {
	prompt string
	input  string
	output string
	failed bool
}

type model struct {
	session *Session
	input   textinput.Model

	entries []entry
	history []string
	index   int
	hints   []string
}

// Run starts an interactive session until the user leaves it.
func Run(session *Session) error {
	_, err := tea.NewProgram(newModel(session)).Run()
	return err
}

func newModel(session *Session) model {
	ti := textinput.New()
	ti.Prompt = session.Prompt()
	ti.Placeholder = "=SUM(A1:A10) or :help"
	ti.Focus()
	return model{
		session: session,
		input:   ti,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.execute()
		case "tab":
			m.complete()
			return m, nil
		case "up":
			m.recall(-1)
			return m, nil
		case "down":
			m.recall(1)
			return m, nil
		default:
			m.hints = nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) View() tea.View {
	var str strings.Builder
	for _, e := range m.entries {
		str.WriteString(promptStyle.Render(e.prompt))
		str.WriteString(inputStyle.Render(e.input))
		str.WriteString("\n")
		if e.output == "" {
			continue
		}
		if e.failed {
			str.WriteString(errorStyle.Render(e.output))
		} else {
			str.WriteString(e.output)
		}
		str.WriteString("\n")
	}
	str.WriteString(m.input.View())
	if len(m.hints) > 0 {
		str.WriteString("\n")
		str.WriteString(hintStyle.Render(strings.Join(m.hints, "  ")))
	}
	str.WriteString("\n")
	return tea.NewView(str.String())
}

func (m model) execute() (tea.Model, tea.Cmd) {
	var (
		line   = m.input.Value()
		prompt = m.input.Prompt
	)
	m.hints = nil
	m.input.Reset()
	if strings.TrimSpace(line) == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.index = len(m.history)

	out, err := m.session.Exec(line)
	if errors.Is(err, ErrQuit) {
		return m, tea.Quit
	}
	e := entry{
		prompt: prompt,
		input:  line,
		output: out,
	}
	if err != nil {
		e.output = err.Error()
		e.failed = true
	}
	m.entries = append(m.entries, e)
	if n := len(m.entries); n > maxEntries {
		m.entries = m.entries[n-maxEntries:]
	}
	m.input.Prompt = m.session.Prompt()
	return m, nil
}

func (m *model) complete() {
	list := m.session.Complete(m.input.Value())
	switch len(list) {
	case 0:
		m.hints = nil
	case 1:
		m.input.SetValue(list[0])
		m.input.CursorEnd()
		m.hints = nil
	default:
		m.input.SetValue(commonPrefix(list))
		m.input.CursorEnd()
		m.hints = m.hints[:0]
		for _, c := range list {
			c = strings.TrimSuffix(c, "(")
			if ix := strings.LastIndexFunc(c, func(r rune) bool { return r > 0x7f || !isNameChar(byte(r)) }); ix >= 0 {
				c = c[ix+1:]
			}
			m.hints = append(m.hints, c)
		}
	}
}

func (m *model) recall(dir int) {
	if len(m.history) == 0 {
		return
	}
	m.index = max(0, min(m.index+dir, len(m.history)))
	if m.index == len(m.history) {
		m.input.SetValue("")
		return
	}
	m.input.SetValue(m.history[m.index])
	m.input.CursorEnd()
}

func commonPrefix(list []string) string {
	if len(list) == 0 {
		return ""
	}
	prefix := list[0]
	for _, str := range list[1:] {
		for !strings.HasPrefix(str, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	return prefix
}
