package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/housebudget/internal/cli/formatter"
	"github.com/alexanderramin/housebudget/internal/contract"
	"github.com/alexanderramin/housebudget/internal/domain"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ── messages ─────────────────────────────────────────────────────────────────

// playLoadedMsg carries a fresh status view.
type playLoadedMsg struct {
	status *contract.SimulationStatusView
	err    error
}

// playActionMsg carries the outcome of one mutating call.
type playActionMsg struct {
	verb string
	res  *contract.ActionResult
	err  error
}

// ── keys ─────────────────────────────────────────────────────────────────────

type playKeyMap struct {
	Day     key.Binding
	Run     key.Binding
	Advance key.Binding
	Pay     key.Binding
	Delay   key.Binding
	Ack     key.Binding
	Cash    key.Binding
	Draw    key.Binding
	Select  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func newPlayKeyMap() playKeyMap {
	return playKeyMap{
		Day:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
		Run:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run period")),
		Advance: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next period")),
		Pay:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "solution")),
		Delay:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "alternative")),
		Ack:     key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "acknowledge")),
		Cash:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cash")),
		Draw:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "draw advance")),
		Select:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "change option")),
		Refresh: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// scrollKeyMap keeps letter keys free for actions; only arrows and paging
// scroll the status pane.
func scrollKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
		Up:       key.NewBinding(key.WithKeys("up")),
		Down:     key.NewBinding(key.WithKeys("down")),
	}
}

// ── model ────────────────────────────────────────────────────────────────────

type promptKind int

const (
	promptNone promptKind = iota
	promptCash
	promptDraw
	promptSelect
)

const playLogSize = 6

// playModel drives one simulation interactively. Every key maps to one
// service call; the status pane reloads after each.
type playModel struct {
	app  *App
	id   string
	keys playKeyMap

	status  *contract.SimulationStatusView
	err     error
	log     []string
	loading bool

	prompt promptKind
	input  textinput.Model
	vp     viewport.Model

	width, height int
	quitting      bool
}

func newPlayModel(app *App, id string) *playModel {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 64
	ti.Cursor.SetMode(cursor.CursorStatic)

	vp := viewport.New(0, 0)
	vp.KeyMap = scrollKeyMap()

	return &playModel{
		app:     app,
		id:      id,
		keys:    newPlayKeyMap(),
		input:   ti,
		vp:      vp,
		loading: true,
	}
}

func (m *playModel) ShortHelp() []key.Binding {
	if m.prompt != promptNone {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		}
	}
	k := m.keys
	if m.status != nil && m.status.Current != nil && m.status.Current.NeedsDecision() {
		if m.status.Current.Protected {
			return []key.Binding{k.Ack, k.Cash, k.Draw, k.Select, k.Quit}
		}
		return []key.Binding{k.Pay, k.Delay, k.Cash, k.Draw, k.Select, k.Quit}
	}
	return []key.Binding{k.Day, k.Run, k.Advance, k.Cash, k.Draw, k.Select, k.Refresh, k.Quit}
}

func (m *playModel) Init() tea.Cmd {
	return m.loadStatus()
}

// ── data loading ─────────────────────────────────────────────────────────────

func (m *playModel) loadStatus() tea.Cmd {
	app, id := m.app, m.id
	return func() tea.Msg {
		status, err := app.Simulations.Status(context.Background(), id)
		return playLoadedMsg{status: status, err: err}
	}
}

func (m *playModel) act(verb string, fn actionFunc) tea.Cmd {
	m.loading = true
	id := m.id
	return func() tea.Msg {
		res, err := fn(context.Background(), id)
		return playActionMsg{verb: verb, res: res, err: err}
	}
}

// ── update ───────────────────────────────────────────────────────────────────

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case playLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.setStatus(msg.status)
		return m, nil

	case playActionMsg:
		m.loading = false
		if msg.err != nil {
			m.pushLog(formatter.StyleRed.Render(msg.verb + ": " + msg.err.Error()))
			return m, nil
		}
		m.pushLog(describeAction(msg.verb, msg.res))
		if msg.res.Status != nil {
			m.setStatus(msg.res.Status)
		}
		return m, nil

	case tea.QuitMsg:
		m.quitting = true
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *playModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sims := m.app.Simulations
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Day):
		return m, m.act("day", sims.ProcessDay)
	case key.Matches(msg, k.Run):
		return m, m.act("run", sims.RunPeriod)
	case key.Matches(msg, k.Advance):
		return m, m.act("advance", sims.AdvancePeriod)
	case key.Matches(msg, k.Pay):
		return m, m.act("solution", func(ctx context.Context, id string) (*contract.ActionResult, error) {
			return sims.ResolveRisk(ctx, id, domain.SolutionPay)
		})
	case key.Matches(msg, k.Delay):
		return m, m.act("alternative", func(ctx context.Context, id string) (*contract.ActionResult, error) {
			return sims.ResolveRisk(ctx, id, domain.SolutionDelay)
		})
	case key.Matches(msg, k.Ack):
		return m, m.act("acknowledge", sims.AcknowledgeRisk)
	case key.Matches(msg, k.Cash):
		return m, m.openPrompt(promptCash, "amount")
	case key.Matches(msg, k.Draw):
		return m, m.openPrompt(promptDraw, "category amount")
	case key.Matches(msg, k.Select):
		return m, m.openPrompt(promptSelect, "category option")
	case key.Matches(msg, k.Refresh):
		m.loading = true
		return m, m.loadStatus()
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *playModel) openPrompt(kind promptKind, placeholder string) tea.Cmd {
	m.prompt = kind
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.resize()
	return m.input.Focus()
}

func (m *playModel) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.Reset()
	m.resize()
}

func (m *playModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyCtrlC:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyEnter:
		kind, value := m.prompt, strings.TrimSpace(m.input.Value())
		m.closePrompt()
		cmd, err := m.promptCmd(kind, value)
		if err != nil {
			m.pushLog(formatter.StyleRed.Render(err.Error()))
			return m, nil
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// promptCmd parses a submitted prompt the same way the sim subcommands parse
// their arguments.
func (m *playModel) promptCmd(kind promptKind, value string) (tea.Cmd, error) {
	sims := m.app.Simulations
	fields := strings.Fields(value)

	switch kind {
	case promptCash:
		if len(fields) != 1 {
			return nil, fmt.Errorf("cash: expected an amount")
		}
		amount, err := parseAmount(fields[0])
		if err != nil {
			return nil, err
		}
		return m.act("cash", func(ctx context.Context, id string) (*contract.ActionResult, error) {
			return sims.RequestCash(ctx, id, amount)
		}), nil

	case promptDraw:
		if len(fields) != 2 {
			return nil, fmt.Errorf("draw: expected a category and an amount")
		}
		category, err := resolveCategory(fields[0])
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(fields[1])
		if err != nil {
			return nil, err
		}
		return m.act("draw", func(ctx context.Context, id string) (*contract.ActionResult, error) {
			return sims.RequestAdvance(ctx, id, category, amount)
		}), nil

	case promptSelect:
		if len(fields) != 2 {
			return nil, fmt.Errorf("select: expected a category and an option")
		}
		category, err := resolveCategory(fields[0])
		if err != nil {
			return nil, err
		}
		opt, err := resolveOption(m.app, category, fields[1])
		if err != nil {
			return nil, err
		}
		return m.act("select", func(ctx context.Context, id string) (*contract.ActionResult, error) {
			return sims.SelectOption(ctx, id, opt.ID)
		}), nil
	}
	return nil, nil
}

func (m *playModel) setStatus(status *contract.SimulationStatusView) {
	m.status = status
	m.vp.SetContent(formatter.FormatStatus(status))
}

func (m *playModel) pushLog(line string) {
	m.log = append(m.log, line)
	if len(m.log) > playLogSize {
		m.log = m.log[len(m.log)-playLogSize:]
	}
	m.resize()
}

// resize gives the status pane whatever the log, prompt and help bar leave.
func (m *playModel) resize() {
	if m.height == 0 {
		return
	}
	reserved := 3 + len(m.log)
	if m.prompt != promptNone {
		reserved++
	}
	m.vp.Width = m.width
	m.vp.Height = max(m.height-reserved, 3)
}

// describeAction is the one-line log entry for a finished call.
func describeAction(verb string, res *contract.ActionResult) string {
	if !res.Applied {
		return formatter.StyleYellow.Render(verb + ": " + res.Reason)
	}
	var parts []string
	if n := len(res.Records); n > 0 {
		idle := 0
		for _, r := range res.Records {
			if r.IsIdle {
				idle++
			}
		}
		last := res.Records[n-1].Day
		switch {
		case n == 1 && idle == 1:
			parts = append(parts, fmt.Sprintf("day %d idle", last))
		case n == 1:
			parts = append(parts, fmt.Sprintf("day %d paid", last))
		default:
			parts = append(parts, fmt.Sprintf("%d days to day %d, %d idle", n, last, idle))
		}
	}
	if res.Change != nil {
		parts = append(parts, fmt.Sprintf("%s now %s", res.Change.Category, res.Change.ToOptionID))
	}
	if res.Status != nil && res.Status.Done() {
		parts = append(parts, "construction finished")
	}
	if len(parts) == 0 {
		parts = append(parts, "done")
	}
	return formatter.StyleGreen.Render(verb+": ") + strings.Join(parts, ", ")
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m *playModel) View() string {
	if m.quitting {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	switch {
	case m.err != nil:
		sections = append(sections, formatter.StyleRed.Render("Error: "+m.err.Error()))
	case m.status == nil:
		sections = append(sections, formatter.Dim("Loading…"))
	case m.height > 0:
		sections = append(sections, m.vp.View())
	default:
		sections = append(sections, formatter.FormatStatus(m.status))
	}

	sections = append(sections, m.log...)
	if m.prompt != promptNone {
		sections = append(sections, m.input.View())
	}
	sections = append(sections, m.renderHelpBar())

	return strings.Join(sections, "\n")
}

func (m *playModel) renderHeader() string {
	title := "housebudget"
	if m.status != nil {
		title += " · " + m.status.Name + " " + formatter.TruncID(m.status.ID)
	}
	if m.loading {
		title += formatter.Dim(" …")
	}
	return formatter.StyleHeader.Render(title)
}

func (m *playModel) renderHelpBar() string {
	var hints []string
	for _, b := range m.ShortHelp() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	sep := lipgloss.NewStyle().Foreground(formatter.ColorDim).Render(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}
