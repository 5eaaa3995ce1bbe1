package ui

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"hsl/internal/diag"
	"hsl/internal/diagfmt"
	"hsl/internal/driver"
	"hsl/internal/interp"
	"hsl/internal/lexer"
	"hsl/internal/source"
	"hsl/internal/token"
)

const (
	evalPrompt = "hsl> "
	contPrompt = "...  "
)

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

const helpText = `Commands:
  :help    show this text
  :names   list globals and modules
  :clear   clear the screen
  :quit    exit (also Ctrl+D on an empty line)

Unbalanced braces continue the input on the next line.
Tab / Shift+Tab cycle completions, Up/Down walk the history.`

// REPLOptions configures the interactive loop.
type REPLOptions struct {
	Driver driver.Options
	Color  bool
}

type replModel struct {
	ctx     context.Context
	session *driver.Session
	out     *bytes.Buffer // stdout скрипта, сбрасывается после каждого ввода
	color   bool

	input      textinput.Model
	pending    []string
	history    []string
	historyIdx int

	matches    fuzzy.Matches
	wordStart  int
	wordEnd    int
	suggIdx    int
	tabActive  bool
	preTabText string
	preTabPos  int

	width    int
	quitting bool
}

func newREPLModel(ctx context.Context, opts REPLOptions) *replModel {
	out := &bytes.Buffer{}
	dopts := opts.Driver
	dopts.Stdout = out

	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 80

	return &replModel{
		ctx:     ctx,
		session: driver.NewSession(ctx, dopts),
		out:     out,
		color:   opts.Color,
		input:   ti,
		suggIdx: -1,
		width:   80,
	}
}

// RunREPL starts the interactive loop on the terminal.
func RunREPL(ctx context.Context, opts REPLOptions) error {
	p := tea.NewProgram(newREPLModel(ctx, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// RunPlain evaluates r as REPL input without a terminal UI, e.g. when stdin
// is a pipe. Results and diagnostics go to w.
func RunPlain(ctx context.Context, r io.Reader, w io.Writer, opts REPLOptions) error {
	m := newREPLModel(ctx, opts)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines, quit := m.submit(sc.Text())
		for _, l := range lines {
			if _, err := fmt.Fprintln(w, l); err != nil {
				return err
			}
		}
		if quit {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if len(m.pending) > 0 {
		for _, l := range m.eval(strings.Join(m.pending, "\n")) {
			fmt.Fprintln(w, l)
		}
	}
	return nil
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 10)
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	switch {
	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.width))
	case m.input.Value() == "" && len(m.pending) == 0:
		b.WriteString(hintStyle.Render("Type a statement, or :help"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *replModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true
			return tea.Quit
		}
		m.input.SetValue("")
		m.pending = nil
		m.setPrompt()
		m.resetCompletion()
		return nil
	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true
			return tea.Quit
		}
		return nil
	case tea.KeyEnter:
		if m.tabActive {
			m.resetCompletion()
			return nil
		}
		line := m.input.Value()
		m.input.SetValue("")
		m.resetCompletion()
		lines, quit := m.submit(line)
		m.setPrompt()
		cmds := make([]tea.Cmd, 0, len(lines)+1)
		for _, l := range lines {
			cmds = append(cmds, tea.Println(l))
		}
		if quit {
			m.quitting = true
			cmds = append(cmds, tea.Quit)
		}
		return tea.Sequence(cmds...)
	case tea.KeyTab:
		m.cycle(1)
		return nil
	case tea.KeyShiftTab:
		m.cycle(-1)
		return nil
	case tea.KeyUp:
		m.walkHistory(-1)
		return nil
	case tea.KeyDown:
		m.walkHistory(1)
		return nil
	case tea.KeyEsc:
		if m.tabActive {
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabPos)
			m.resetCompletion()
		}
		return nil
	}
	var cmd tea.Cmd
	m.tabActive = false
	m.input, cmd = m.input.Update(msg)
	m.refreshMatches()
	return cmd
}

// submit handles one entered line and returns what to print. Lines with
// unbalanced brackets are buffered until the input closes them.
func (m *replModel) submit(line string) (out []string, quit bool) {
	if len(m.pending) == 0 {
		switch cmd := strings.TrimSpace(line); {
		case cmd == "":
			return nil, false
		case strings.HasPrefix(cmd, ":"):
			return m.command(cmd)
		}
	}
	m.pending = append(m.pending, line)
	src := strings.Join(m.pending, "\n")
	if openBrackets(src) > 0 {
		return nil, false
	}
	m.pending = nil
	m.history = append(m.history, src)
	m.historyIdx = len(m.history)
	return m.eval(src), false
}

func (m *replModel) command(cmd string) ([]string, bool) {
	switch cmd {
	case ":q", ":quit", ":exit":
		return nil, true
	case ":h", ":help":
		return []string{helpText}, false
	case ":names":
		return []string{strings.Join(m.session.Names(), " ")}, false
	case ":clear":
		return []string{"\x1b[H\x1b[2J"}, false
	}
	return []string{m.style(errorStyle, "Unknown command "+cmd+" (try :help)")}, false
}

// eval runs src in the session and renders the outcome.
func (m *replModel) eval(src string) []string {
	res := m.session.Eval(m.ctx, src)

	var out []string
	if m.out.Len() > 0 {
		out = append(out, strings.TrimSuffix(m.out.String(), "\n"))
		m.out.Reset()
	}
	if res.Bag.Len() > 0 {
		var b strings.Builder
		diagfmt.Pretty(&b, res.Bag, m.session.FileSet(), diagfmt.PrettyOpts{
			Color:     m.color,
			ShowNotes: true,
			ShowPhase: true,
		})
		out = append(out, strings.TrimSuffix(b.String(), "\n"))
	}
	if res.OK() && res.Value != nil {
		out = append(out, m.style(resultStyle, "=> "+interp.Stringify(res.Value)))
	}
	return out
}

func (m *replModel) style(s lipgloss.Style, text string) string {
	if !m.color {
		return text
	}
	return s.Render(text)
}

func (m *replModel) setPrompt() {
	p := evalPrompt
	if len(m.pending) > 0 {
		p = contPrompt
	}
	m.input.Prompt = promptStyle.Render(p)
}

func (m *replModel) walkHistory(step int) {
	if len(m.history) == 0 {
		return
	}
	m.historyIdx = max(0, min(m.historyIdx+step, len(m.history)))
	if m.historyIdx == len(m.history) {
		m.input.SetValue("")
	} else {
		// многострочные записи редактируются одной строкой
		m.input.SetValue(strings.ReplaceAll(m.history[m.historyIdx], "\n", " "))
	}
	m.input.CursorEnd()
	m.resetCompletion()
}

func (m *replModel) refreshMatches() {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()
	m.suggIdx = -1
}

func (m *replModel) resetCompletion() {
	m.matches = nil
	m.tabActive = false
	m.suggIdx = -1
}

// cycle steps through the candidates; a single candidate is accepted at once.
func (m *replModel) cycle(step int) {
	if len(m.matches) == 0 {
		return
	}
	if len(m.matches) == 1 {
		m.replaceWord(m.matches[0].Str)
		m.resetCompletion()
		return
	}
	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabPos = m.input.Position()
		if step > 0 {
			m.suggIdx = 0
		} else {
			m.suggIdx = len(m.matches) - 1
		}
	} else {
		m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	}
	m.replaceWord(m.matches[m.suggIdx].Str)
}

func (m *replModel) replaceWord(text string) {
	input := m.input.Value()
	m.input.SetValue(input[:m.wordStart] + text + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(text))
	m.wordEnd = m.wordStart + len(text)
}

// openBrackets counts unclosed '(' '[' '{' in src using the lexer, so
// brackets inside strings and comments are ignored.
func openBrackets(src string) int {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<input>", []byte(src))
	depth := 0
	bag := diag.NewBag(1)
	for _, tok := range lexer.New(fs.Get(id), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}).All() {
		switch tok.Kind {
		case token.LParen, token.LBracket, token.LBrace:
			depth++
		case token.RParen, token.RBracket, token.RBrace:
			depth--
		}
	}
	// незакрытая строка или комментарий тоже продолжают ввод
	if depth <= 0 && bag.HasErrors() && unterminated(bag) {
		return 1
	}
	return depth
}

func unterminated(bag *diag.Bag) bool {
	for _, d := range bag.Items() {
		if d.Code == diag.LexUnterminatedBlockComment {
			return true
		}
	}
	return false
}
