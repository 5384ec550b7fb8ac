// Package play is the interactive puzzle loop: show a puzzle, take an
// answer, grade it, repeat.
package play

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/enigma/internal/criteria"
	"github.com/abhisek/enigma/internal/game"
	"github.com/abhisek/enigma/internal/puzzlegen"
	"github.com/abhisek/enigma/internal/store"
	"github.com/abhisek/enigma/internal/ui/layout"
	"github.com/abhisek/enigma/internal/ui/theme"
)

// Game is the part of game.Service the loop needs.
type Game interface {
	NextPuzzle(ctx context.Context, playerID int, f store.PuzzleFilter, skip ...int) (*store.Puzzle, error)
	GeneratePuzzle(ctx context.Context, domain puzzlegen.Domain, difficulty puzzlegen.Difficulty) (*store.Puzzle, error)
	SubmitAnswer(ctx context.Context, playerID, puzzleID int, answer string) (*game.SubmitResult, error)
	PlayerStats(ctx context.Context, playerID int) (*store.PlayerStats, error)
	CanGenerate() bool
}

// Options select the player and which puzzles to serve. Empty Domain or
// Difficulty means any.
type Options struct {
	Player        *store.Player
	Domain        puzzlegen.Domain
	Difficulty    puzzlegen.Difficulty
	MarkdownStyle string
}

type state int

const (
	stateLoading state = iota
	stateAnswering
	stateChecking
	stateDone
)

type puzzleMsg struct {
	puzzle *store.Puzzle
	err    error
}

type resultMsg struct {
	result *game.SubmitResult
	err    error
}

type statsMsg struct {
	stats *store.PlayerStats
}

const (
	inputHeight    = 6
	feedbackHeight = 4
	chromeHeight   = 6 // header and footer bars
)

// Model is the bubbletea model for the play loop.
type Model struct {
	ctx  context.Context
	game Game
	opts Options

	state   state
	puzzle  *store.Puzzle
	skipped []int
	result  *game.SubmitResult
	stats   *store.PlayerStats
	err     error

	input   textarea.Model
	desc    viewport.Model
	spinner spinner.Model

	width  int
	height int
}

// New returns a Model ready to run.
func New(ctx context.Context, g Game, opts Options) Model {
	if opts.MarkdownStyle == "" {
		opts.MarkdownStyle = theme.MarkdownStyle()
	}

	ta := textarea.New()
	ta.Placeholder = "Type your answer. Ctrl+S submits."
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight - 2)
	ta.Focus()

	return Model{
		ctx:     ctx,
		game:    g,
		opts:    opts,
		state:   stateLoading,
		input:   ta,
		desc:    viewport.New(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Subtitle)),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadPuzzle(nil), m.loadStats(), textarea.Blink)
}

func (m Model) filter() store.PuzzleFilter {
	return store.PuzzleFilter{Domain: string(m.opts.Domain), Difficulty: string(m.opts.Difficulty)}
}

// loadPuzzle fetches the next unsolved puzzle, generating one when the
// catalog is exhausted and a generator is configured.
func (m Model) loadPuzzle(skip []int) tea.Cmd {
	g, ctx, opts, f := m.game, m.ctx, m.opts, m.filter()
	return func() tea.Msg {
		p, err := g.NextPuzzle(ctx, opts.Player.ID, f, skip...)
		if !errors.Is(err, game.ErrNoUnsolvedPuzzle) {
			return puzzleMsg{puzzle: p, err: err}
		}
		if g.CanGenerate() {
			p, err = g.GeneratePuzzle(ctx, pickDomain(opts.Domain), pickDifficulty(opts.Difficulty))
			return puzzleMsg{puzzle: p, err: err}
		}
		if len(skip) > 0 {
			p, err = g.NextPuzzle(ctx, opts.Player.ID, f)
		}
		return puzzleMsg{puzzle: p, err: err}
	}
}

func (m Model) loadStats() tea.Cmd {
	g, ctx, id := m.game, m.ctx, m.opts.Player.ID
	return func() tea.Msg {
		st, err := g.PlayerStats(ctx, id)
		if err != nil {
			return statsMsg{}
		}
		return statsMsg{stats: st}
	}
}

func (m Model) submit(answer string) tea.Cmd {
	g, ctx, playerID, puzzleID := m.game, m.ctx, m.opts.Player.ID, m.puzzle.ID
	return func() tea.Msg {
		res, err := g.SubmitAnswer(ctx, playerID, puzzleID, answer)
		return resultMsg{result: res, err: err}
	}
}

func pickDomain(d puzzlegen.Domain) puzzlegen.Domain {
	if d != "" {
		return d
	}
	return puzzlegen.Domains[rand.IntN(len(puzzlegen.Domains))]
}

func pickDifficulty(d puzzlegen.Difficulty) puzzlegen.Difficulty {
	if d != "" {
		return d
	}
	return puzzlegen.Difficulties[rand.IntN(len(puzzlegen.Difficulties))]
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case puzzleMsg:
		m.result = nil
		m.err = nil
		switch {
		case errors.Is(msg.err, game.ErrNoUnsolvedPuzzle):
			m.state = stateDone
			m.puzzle = nil
		case msg.err != nil:
			m.state = stateDone
			m.err = msg.err
		default:
			m.state = stateAnswering
			m.puzzle = msg.puzzle
			m.input.Reset()
			m.renderDescription()
		}
		return m, nil

	case resultMsg:
		m.state = stateAnswering
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		return m, m.loadStats()

	case statsMsg:
		if msg.stats != nil {
			m.stats = msg.stats
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.state == stateAnswering {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "ctrl+s":
		answer := strings.TrimSpace(m.input.Value())
		if m.state != stateAnswering || answer == "" {
			return m, nil
		}
		m.state = stateChecking
		return m, tea.Batch(m.spinner.Tick, m.submit(answer))

	case "ctrl+n":
		if m.state == stateLoading || m.state == stateChecking {
			return m, nil
		}
		if m.puzzle != nil && (m.result == nil || !m.result.Correct()) {
			m.skipped = append(m.skipped, m.puzzle.ID)
		}
		m.state = stateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadPuzzle(m.skipped))

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.desc, cmd = m.desc.Update(msg)
		return m, cmd
	}

	if m.state != stateAnswering {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) resize() {
	inner := max(m.width-4, 10)
	m.input.SetWidth(inner)
	m.desc.SetWidth(m.width)
	m.desc.SetHeight(max(m.height-chromeHeight-inputHeight-feedbackHeight, 3))
	m.renderDescription()
}

func (m *Model) renderDescription() {
	if m.puzzle == nil {
		return
	}
	m.desc.SetContent(theme.RenderMarkdown(m.puzzle.Description, max(m.width-4, 40), m.opts.MarkdownStyle))
	m.desc.GotoTop()
}

func (m Model) title() string {
	if m.puzzle == nil {
		return ""
	}
	return fmt.Sprintf("#%d  %s · %s", m.puzzle.ID, m.puzzle.Domain, m.puzzle.Difficulty)
}

func (m Model) status() layout.Status {
	st := layout.Status{Player: m.opts.Player.Username}
	if m.stats != nil {
		st.Solved = m.stats.Solved
		st.Attempts = m.stats.Attempts
	}
	return st
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	header := layout.RenderHeader(m.title(), m.status(), m.width)
	footer := layout.RenderFooter(m.keyHints(), m.width)
	v.SetContent(layout.RenderFrame(header, m.content(), footer, m.width, m.height))
	return v
}

func (m Model) keyHints() []layout.KeyHint {
	switch m.state {
	case stateAnswering:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Ctrl+N", Description: "Next"},
			{Key: "PgUp/PgDn", Description: "Scroll"},
			{Key: "Esc", Description: "Quit"},
		}
	case stateDone:
		return []layout.KeyHint{
			{Key: "Ctrl+N", Description: "Retry"},
			{Key: "Esc", Description: "Quit"},
		}
	default:
		return []layout.KeyHint{{Key: "Esc", Description: "Quit"}}
	}
}

func (m Model) content() string {
	switch m.state {
	case stateLoading:
		msg := "Loading puzzle..."
		if m.game.CanGenerate() {
			msg = "Finding or generating a puzzle..."
		}
		return "\n " + m.spinner.View() + theme.Subtitle.Render(msg)
	case stateDone:
		if m.err != nil {
			return "\n " + theme.Incorrect.Render("Error: ") + theme.Body.Render(m.err.Error())
		}
		return "\n " + theme.Title.Render("All caught up.") + "\n\n " +
			theme.Subtitle.Render("No unsolved puzzles match. Generate more with `enigma generate`.")
	}

	var b strings.Builder
	b.WriteString(m.desc.View())
	b.WriteString("\n")
	b.WriteString(theme.Card.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.feedback())
	return b.String()
}

func (m Model) feedback() string {
	if m.state == stateChecking {
		return " " + m.spinner.View() + theme.Subtitle.Render("Checking...")
	}
	if m.err != nil {
		return " " + theme.Incorrect.Render("Error: ") + theme.Body.Render(m.err.Error())
	}
	if m.result == nil {
		return ""
	}

	var label string
	switch m.result.Verdict {
	case criteria.Correct:
		label = theme.Correct.Render("✔ Correct")
	case criteria.Incorrect:
		label = theme.Incorrect.Render("✘ Incorrect")
	default:
		label = theme.Undecided.Render("? Undetermined")
	}

	lines := []string{
		" " + label + "  " + theme.Body.Render(m.result.Feedback) +
			theme.Subtitle.Render(fmt.Sprintf("  (attempt %d)", m.result.Attempts)),
	}
	if m.result.Hint != "" {
		lines = append(lines, " "+theme.Hint.Render("Hint: "+m.result.Hint))
	}
	if m.result.Correct() {
		lines = append(lines, " "+theme.Subtitle.Render("Press Ctrl+N for the next puzzle."))
	}
	return strings.Join(lines, "\n")
}

// Run starts the play loop and blocks until the player quits.
func Run(ctx context.Context, g Game, opts Options) error {
	p := tea.NewProgram(New(ctx, g, opts), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
