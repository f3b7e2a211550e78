package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/storybrowser/internal/browser"
	"github.com/abelbrown/storybrowser/internal/hn"
	"github.com/abelbrown/storybrowser/internal/otel"
)

// maxJumpDigits bounds the page number being typed.
const maxJumpDigits = 6

// Runner reduces events and executes effects. Implemented by *browser.Driver.
type Runner interface {
	Apply(s browser.State, ev browser.Event) (browser.State, browser.Effect)
	Run(ctx context.Context, eff browser.Effect) browser.Event
}

// ObsConfig holds observability dependencies.
type ObsConfig struct {
	Logger *otel.Logger
	Ring   *otel.RingBuffer // debug overlay source; nil disables the overlay
}

// AppConfig holds everything needed to construct an App.
type AppConfig struct {
	Context     context.Context // parent of every effect request; nil means Background
	Runner      Runner
	InitialPage int    // 0-based, clamped once the listing arrives
	Listing     string // shown in the header
	Obs         ObsConfig
}

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT call the API. Effects run as tea.Cmds through the
// Runner and their results come back as BrowserEvent messages.
type App struct {
	runner Runner
	ctx    context.Context
	cancel context.CancelFunc

	state     browser.State
	cursor    int
	jumpInput string
	listing   string

	spinner spinner.Model
	help    help.Model

	width        int
	height       int
	ready        bool
	helpVisible  bool
	debugVisible bool

	logger *otel.Logger
	ring   *otel.RingBuffer
}

// NewAppWithConfig creates an App from cfg.
func NewAppWithConfig(cfg AppConfig) App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	return App{
		runner:  cfg.Runner,
		ctx:     ctx,
		cancel:  cancel,
		state:   browser.New(cfg.InitialPage),
		listing: cfg.Listing,
		spinner: s,
		help:    help.New(),
		logger:  cfg.Obs.Logger,
		ring:    cfg.Obs.Ring,
	}
}

// Init starts the session by requesting the story list.
func (a App) Init() tea.Cmd {
	if a.runner == nil {
		return nil
	}
	return tea.Batch(a.spinner.Tick, send(browser.Start{}))
}

func send(ev browser.Event) tea.Cmd {
	return func() tea.Msg {
		return BrowserEvent{Event: ev}
	}
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if otel.TraceEnabled() {
		a.logger.Emit(otel.Event{
			Level: otel.LevelDebug,
			Kind:  otel.KindMsgReceived,
			Comp:  "ui",
			Msg:   fmt.Sprintf("%T", msg),
		})
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.ready = true
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case BrowserEvent:
		return a.dispatch(msg.Event)
	}

	return a, nil
}

// dispatch reduces ev into the state and schedules the resulting effect.
func (a App) dispatch(ev browser.Event) (App, tea.Cmd) {
	if a.runner == nil || ev == nil {
		return a, nil
	}

	prev := a.state
	var eff browser.Effect
	a.state, eff = a.runner.Apply(a.state, ev)

	if a.state.ItemsPage != prev.ItemsPage || (len(prev.Items) == 0 && len(a.state.Items) > 0) {
		a.cursor = 0
	}
	if a.cursor >= len(a.state.Items) {
		a.cursor = max(len(a.state.Items)-1, 0)
	}

	return a, a.run(eff)
}

// run wraps eff in a tea.Cmd. The Runner blocks off the UI goroutine.
func (a App) run(eff browser.Effect) tea.Cmd {
	if eff == nil {
		return nil
	}
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		ev := runner.Run(ctx, eff)
		if ev == nil {
			return nil
		}
		return BrowserEvent{Event: ev}
	}
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.logger.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "ui", Msg: msg.String()})

	if key.Matches(msg, keys.Quit) {
		a.cancel()
		return a, tea.Quit
	}

	if a.debugVisible {
		if key.Matches(msg, keys.Debug) {
			a.debugVisible = false
		}
		return a, nil
	}

	// Any key dismisses a page error. A listing error stays: there is
	// nothing to go back to.
	if a.state.LastErr != nil && a.state.Phase == browser.PhaseReady {
		a, _ = a.dispatch(browser.DismissError{})
	}

	switch {
	case key.Matches(msg, keys.Debug):
		if a.ring != nil {
			a.debugVisible = true
		}
		return a, nil

	case key.Matches(msg, keys.Help):
		a.helpVisible = !a.helpVisible
		return a, nil

	case key.Matches(msg, keys.Escape):
		a.jumpInput = ""
		a.helpVisible = false
		return a, nil

	case key.Matches(msg, keys.Digit):
		if len(a.jumpInput) < maxJumpDigits {
			a.jumpInput += msg.String()
		}
		return a, nil

	case key.Matches(msg, keys.Backspace):
		if a.jumpInput != "" {
			a.jumpInput = a.jumpInput[:len(a.jumpInput)-1]
		}
		return a, nil

	case key.Matches(msg, keys.Jump):
		if a.jumpInput == "" {
			return a, nil
		}
		n, _ := strconv.Atoi(a.jumpInput)
		a.jumpInput = ""
		// Pages are numbered from 1 on screen.
		return a.dispatch(browser.Jump{Index: n - 1})

	case key.Matches(msg, keys.Prev):
		a.jumpInput = ""
		return a.dispatch(browser.Previous{})

	case key.Matches(msg, keys.Next):
		a.jumpInput = ""
		return a.dispatch(browser.Next{})

	case key.Matches(msg, keys.First):
		a.jumpInput = ""
		return a.dispatch(browser.Jump{Index: 0})

	case key.Matches(msg, keys.Last):
		a.jumpInput = ""
		return a.dispatch(browser.Jump{Index: a.state.PageCount() - 1})

	case key.Matches(msg, keys.Down):
		if a.cursor < len(a.state.Items)-1 {
			a.cursor++
		}
		return a, nil

	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil
	}

	return a, nil
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.debugVisible {
		return debugOverlay(a.ring, a.logger, a.selected(), a.state, a.width, a.height-1) + "\n" + debugStatusBar(a.width)
	}

	header := a.renderHeader()

	var footer []string
	if pager := RenderPager(a.state.Page, a.state.PageCount(), a.state.HasPrev(), a.state.HasNext(), a.width); pager != "" {
		footer = append(footer, pager)
	}
	if a.state.LastErr != nil && a.state.Phase == browser.PhaseReady {
		footer = append(footer, ErrorStyle.Width(a.width).Render("Error: "+a.state.LastErr.Error()+" (press any key to dismiss)"))
	}
	if a.helpVisible {
		a.help.ShowAll = true
		footer = append(footer, HelpStyle.Render(a.help.View(keys)))
	}
	footer = append(footer, RenderStatusBar(a.statusText(), a.width))
	foot := strings.Join(footer, "\n")

	contentHeight := a.height - lipgloss.Height(header) - lipgloss.Height(foot)
	if contentHeight < 1 {
		contentHeight = 1
	}
	body := lipgloss.NewStyle().Height(contentHeight).MaxHeight(contentHeight).Render(a.renderBody(contentHeight))

	return header + "\n" + body + "\n" + foot
}

func (a App) renderHeader() string {
	left := "Hacker News"
	if a.listing != "" {
		left += " · " + a.listing
	}
	if n := a.state.TotalIDs(); n > 0 {
		left += fmt.Sprintf(" · %d stories", n)
	}

	right := ""
	if a.state.Loading {
		right = a.spinner.View() + " loading"
	}

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}
	return Header.Width(a.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (a App) renderBody(height int) string {
	s := a.state
	switch s.Phase {
	case browser.PhaseUninitialized, browser.PhaseLoading:
		return "\n  " + a.spinner.View() + " Fetching story list..."
	case browser.PhaseFailed:
		msg := "unknown error"
		if s.LastErr != nil {
			msg = s.LastErr.Error()
		}
		return "\n" + ErrorStyle.Render("Could not load stories: "+msg) + "\n" + HelpStyle.Render("press q to quit")
	}

	if s.PageCount() == 0 {
		return "\n" + HelpStyle.Render("No stories.")
	}
	if len(s.Items) == 0 {
		return "\n  " + a.spinner.View() + fmt.Sprintf(" Loading page %d...", s.Page+1)
	}

	firstRank := s.ItemsPage*s.PageSize + 1
	return RenderItems(s.Items, firstRank, a.cursor, a.width, height)
}

func (a App) statusText() string {
	switch {
	case a.jumpInput != "":
		return fmt.Sprintf("go to page: %s█", a.jumpInput)
	case a.state.Loading && a.state.Phase == browser.PhaseReady:
		return fmt.Sprintf("Loading page %d/%d...", a.state.Page+1, a.state.PageCount())
	case a.state.PageCount() > 0:
		return fmt.Sprintf("page %d/%d", a.state.Page+1, a.state.PageCount())
	default:
		return ""
	}
}

// State returns the browsing state (for testing).
func (a App) State() browser.State {
	return a.state
}

// selected returns the story under the cursor, or nil when none is shown.
func (a App) selected() *hn.Story {
	if a.cursor < 0 || a.cursor >= len(a.state.Items) {
		return nil
	}
	return &a.state.Items[a.cursor]
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// JumpInput returns the page number being typed (for testing).
func (a App) JumpInput() string {
	return a.jumpInput
}
