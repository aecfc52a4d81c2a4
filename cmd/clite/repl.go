package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	accent = lipgloss.Color("#8B5CF6")
	muted  = lipgloss.Color("#6B7280")

	titleStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	dimStyle    = lipgloss.NewStyle().Foreground(muted)
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent).Padding(0, 1)
	promptFirst = "clite> "
	promptMore  = "  ...> "
)

// transcriptEntry is one echoed input and its result.
type transcriptEntry struct {
	input  string
	output string
	isErr  bool
}

// lines is the rendered height of the entry.
func (e transcriptEntry) lines() int {
	n := strings.Count(e.output, "\n") + 1
	if e.input != "" {
		n += strings.Count(e.input, "\n") + 1
	}
	return n
}

// recall walks previously submitted inputs. cursor is -1 when not browsing.
type recall struct {
	entries []string
	cursor  int
}

func (r *recall) push(input string) {
	r.entries = append(r.entries, input)
	r.cursor = -1
}

func (r *recall) older() (string, bool) {
	if len(r.entries) == 0 {
		return "", false
	}
	switch {
	case r.cursor == -1:
		r.cursor = len(r.entries) - 1
	case r.cursor > 0:
		r.cursor--
	}
	return r.entries[r.cursor], true
}

func (r *recall) newer() (string, bool) {
	if r.cursor == -1 {
		return "", false
	}
	if r.cursor == len(r.entries)-1 {
		r.cursor = -1
		return "", true
	}
	r.cursor++
	return r.entries[r.cursor], true
}

type replKeys struct {
	Prev     key.Binding
	Next     key.Binding
	Submit   key.Binding
	Complete key.Binding
	Vars     key.Binding
	Help     key.Binding
	Clear    key.Binding
	Quit     key.Binding
}

func (k replKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Vars, k.Clear, k.Quit}
}

func (k replKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next, k.Submit, k.Complete}, k.ShortHelp()}
}

var replKeyMap = replKeys{
	Prev:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "older input")),
	Next:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "newer input")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
	Complete: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "complete")),
	Vars:     key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "vars")),
	Help:     key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "help")),
	Clear:    key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c", "ctrl+d"), key.WithHelp("ctrl+c", "quit")),
}

type replModel struct {
	input      textinput.Model
	help       help.Model
	session    *replSession
	transcript []transcriptEntry
	recall     recall
	pending    []string
	width      int
	height     int
	showHelp   bool
	showVars   bool
	quitting   bool
	sized      bool
}

func newREPLModel() replModel {
	in := textinput.New()
	in.Placeholder = "let x: int = 1; or an expression"
	in.Prompt = promptFirst
	in.PromptStyle = titleStyle
	in.CharLimit = 1000
	in.Width = 60
	in.Focus()

	return replModel{
		input:   in,
		help:    help.New(),
		session: newREPLSession(),
		recall:  recall{cursor: -1},
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(msg.Width-len(promptFirst)-2, 10)
		m.help.Width = msg.Width
		m.sized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, replKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, replKeyMap.Clear):
			m.transcript = nil
			return m, nil
		case key.Matches(msg, replKeyMap.Vars):
			m.showVars = !m.showVars
			return m, nil
		case key.Matches(msg, replKeyMap.Help):
			m.showHelp = !m.showHelp
			return m, nil
		case key.Matches(msg, replKeyMap.Prev):
			if text, ok := m.recall.older(); ok {
				m.setInput(text)
			}
			return m, nil
		case key.Matches(msg, replKeyMap.Next):
			if text, ok := m.recall.newer(); ok {
				m.setInput(text)
			}
			return m, nil
		case key.Matches(msg, replKeyMap.Complete):
			return m.complete(), nil
		case key.Matches(msg, replKeyMap.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) setInput(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
}

// submit evaluates the input line, or buffers it while a brace or paren is
// still open.
func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.SetValue("")
	if len(m.pending) == 0 {
		line = strings.TrimSpace(line)
		if line == "" {
			return m, nil
		}
		if strings.HasPrefix(line, ":") {
			m.recall.cursor = -1
			return m.runCommand(line)
		}
	}

	source := strings.Join(append(m.pending, line), "\n")
	if needsMoreInput(source) {
		m.pending = append(m.pending, line)
		m.input.Prompt = promptMore
		return m, nil
	}
	m.pending = nil
	m.input.Prompt = promptFirst

	output, isErr := m.session.eval(source)
	m.transcript = append(m.transcript, transcriptEntry{input: source, output: output, isErr: isErr})
	m.recall.push(source)
	return m, nil
}

func (m replModel) runCommand(line string) (tea.Model, tea.Cmd) {
	name := strings.Fields(line)[0]
	switch name {
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":clear", ":c":
		m.transcript = nil
	case ":reset", ":r":
		m.session = newREPLSession()
		m.transcript = append(m.transcript, transcriptEntry{input: line, output: "Session reset"})
	default:
		m.transcript = append(m.transcript, transcriptEntry{
			input:  line,
			output: "Unknown command: " + name,
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) complete() replModel {
	text := m.input.Value()
	word := trailingWord(text)
	if word == "" {
		return m
	}
	switch matches := m.session.completions(word); len(matches) {
	case 0:
	case 1:
		m.setInput(strings.TrimSuffix(text, word) + matches[0])
	default:
		m.transcript = append(m.transcript, transcriptEntry{output: "Completions: " + strings.Join(matches, ", ")})
	}
	return m
}

// trailingWord returns the identifier-like suffix of input.
func trailingWord(input string) string {
	runes := []rune(input)
	start := len(runes)
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	return string(runes[start:])
}

func (m replModel) View() string {
	if m.quitting {
		return ""
	}
	if !m.sized {
		return "Loading..."
	}

	head := titleStyle.Render("clite") + dimStyle.Render("  a trailing ';' is optional")
	var panels []string
	if m.showVars {
		panels = append(panels, renderVarsPanel(m.session.vars()))
	}
	if m.showHelp {
		panels = append(panels, panelStyle.Render(m.help.FullHelpView(replKeyMap.FullHelp())+"\n\n"+commandHelp))
	}
	panels = append(panels, strings.Join(append(m.pendingLines(), m.input.View()), "\n"))
	footer := m.help.ShortHelpView(replKeyMap.ShortHelp())

	tail := lipgloss.JoinVertical(lipgloss.Left, append(panels, "", footer)...)
	room := m.height - lipgloss.Height(head) - lipgloss.Height(tail) - 1
	return lipgloss.JoinVertical(lipgloss.Left, head, m.renderTranscript(room), tail)
}

func (m replModel) pendingLines() []string {
	out := make([]string, 0, len(m.pending))
	for i, line := range m.pending {
		prompt := promptMore
		if i == 0 {
			prompt = promptFirst
		}
		out = append(out, titleStyle.Render(prompt)+line)
	}
	return out
}

// renderTranscript draws the newest entries that fit in room lines.
func (m replModel) renderTranscript(room int) string {
	first := len(m.transcript)
	for used := 0; first > 0; first-- {
		used += m.transcript[first-1].lines()
		if used > room {
			break
		}
	}

	var b strings.Builder
	for _, entry := range m.transcript[first:] {
		if entry.input != "" {
			b.WriteString(dimStyle.Render("› ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString(failStyle.Render(entry.output) + "\n")
		} else {
			b.WriteString(okStyle.Render(entry.output) + "\n")
		}
	}
	return b.String()
}

const commandHelp = ":help  :vars  :clear  :reset  :quit"

func renderVarsPanel(vars []replVar) string {
	if len(vars) == 0 {
		return panelStyle.Render(dimStyle.Render("no bindings"))
	}
	rows := make([]string, 0, len(vars))
	for _, v := range vars {
		rows = append(rows, fmt.Sprintf("%s: %s = %s", nameStyle.Render(v.name), v.value.Kind(), v.value.String()))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func runREPL() error {
	_, err := tea.NewProgram(newREPLModel(), tea.WithAltScreen()).Run()
	return err
}
