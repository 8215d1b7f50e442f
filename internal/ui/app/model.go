package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	fooddto "studyloop/internal/modules/food/dto"
	profiledto "studyloop/internal/modules/profile/dto"
	timerdto "studyloop/internal/modules/timer/dto"
	apperrors "studyloop/internal/platform/errors"
	"studyloop/internal/ui/components"
	"studyloop/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	Start(ctx context.Context) timerdto.StateOutput
	Pause(ctx context.Context) timerdto.StateOutput
	Reset(ctx context.Context) timerdto.StateOutput
	State(ctx context.Context) timerdto.StateOutput
	Events(ctx context.Context) <-chan timerdto.EventOutput
	Stats(ctx context.Context) (timerdto.StatsOutput, error)
}

type profilePort interface {
	Current(ctx context.Context) (profiledto.ProfileOutput, error)
	CompleteLesson(ctx context.Context, lessonID string) (profiledto.CompleteLessonOutput, error)
}

type foodPort interface {
	Recommend(ctx context.Context, hour *int) (fooddto.RecommendOutput, error)
}

// ─── async messages ──────────────────────────────────────────────────────────

type timerEventMsg struct{ event timerdto.EventOutput }

type eventsClosedMsg struct{}

type identityLoadedMsg struct {
	profile profiledto.ProfileOutput
	err     error
}

type statsLoadedMsg struct {
	stats timerdto.StatsOutput
	err   error
}

type foodLoadedMsg struct {
	out fooddto.RecommendOutput
	err error
}

type lessonDoneMsg struct {
	out profiledto.CompleteLessonOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Start   key.Binding
	Pause   key.Binding
	Reset   key.Binding
	Food    key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Food:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "food")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Reset},
		{k.Food, k.Palette},
		{k.Help, k.Quit},
	}
}

// hints must stay in sync with executePalette.
var paletteHints = []string{
	"start",
	"pause",
	"reset",
	"stats",
	"food [hour]",
	"lesson <id>",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the timer screen. Business logic stays behind the ports; the
// model only renders engine events and forwards key presses.
type Model struct {
	timer   timerPort
	profile profilePort
	food    foodPort

	events <-chan timerdto.EventOutput

	state    timerdto.StateOutput
	owner    string
	stats    timerdto.StatsOutput
	hasStats bool
	persist  string
	meals    *fooddto.RecommendOutput

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette
	status   string
	width    int
	height   int
}

func NewModel(ctx context.Context, timer timerPort, profile profilePort, food foodPort) Model {
	return Model{
		timer:   timer,
		profile: profile,
		food:    food,
		events:  timer.Events(ctx),
		state:   timer.State(ctx),
		keys:    defaultKeys(),
		help:    help.New(),
		palette: components.NewPalette(paletteHints...),
		status:  "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForEvent(),
		m.loadIdentityCmd(),
		m.loadStatsCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(minInt(m.width-4, 72))
		m.help.Width = m.width

	case timerEventMsg:
		return m.applyEvent(msg.event)

	case eventsClosedMsg:
		m.status = "timer stopped"

	case identityLoadedMsg:
		switch {
		case msg.err == nil:
			m.owner = msg.profile.ID
		case errors.Is(msg.err, apperrors.ErrNoIdentity):
			m.owner = ""
		default:
			m.status = "identity: " + msg.err.Error()
		}

	case statsLoadedMsg:
		if msg.err != nil {
			m.status = "stats: " + msg.err.Error()
		} else {
			m.stats = msg.stats
			m.hasStats = true
		}

	case foodLoadedMsg:
		if msg.err != nil {
			m.status = "food: " + msg.err.Error()
		} else {
			out := msg.out
			m.meals = &out
			m.status = fmt.Sprintf("%s menu", out.Band)
		}

	case lessonDoneMsg:
		switch {
		case msg.err != nil:
			m.status = "lesson: " + msg.err.Error()
		case msg.out.AlreadyCompleted:
			m.status = fmt.Sprintf("lesson %s was already complete", msg.out.LessonID)
		default:
			m.status = fmt.Sprintf("lesson %s complete (%d total)", msg.out.LessonID, msg.out.CompletedLessons)
		}

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
		case key.Matches(msg, m.keys.Palette):
			return m, m.palette.Open()
		case key.Matches(msg, m.keys.Start):
			m.state = m.timer.Start(context.Background())
		case key.Matches(msg, m.keys.Pause):
			m.state = m.timer.Pause(context.Background())
		case key.Matches(msg, m.keys.Reset):
			m.state = m.timer.Reset(context.Background())
			m.status = "reset"
		case key.Matches(msg, m.keys.Food):
			if m.meals != nil {
				m.meals = nil
				return m, nil
			}
			return m, m.loadFoodCmd(nil)
		}
	}
	return m, nil
}

func (m Model) applyEvent(event timerdto.EventOutput) (tea.Model, tea.Cmd) {
	m.state = event.State
	cmds := []tea.Cmd{m.waitForEvent()}
	switch event.Type {
	case "phase_completed":
		m.status = fmt.Sprintf("phase complete, next up: %s", strings.ToLower(event.State.Phase))
	case "persisted":
		if event.Session != nil {
			m.persist = theme.Good.Render(fmt.Sprintf("saved %s session (%s)", strings.ToLower(event.Session.Phase), event.Session.Duration))
		}
		cmds = append(cmds, m.loadStatsCmd())
	case "persist_failed":
		m.persist = theme.Bad.Render("save failed: " + event.Error)
	}
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := theme.Title.Render("studyloop") + "  " + theme.Muted.Render(m.ownerLabel())
	statusBar := m.renderStatusBar()

	var content string
	switch {
	case m.showHelp:
		content = m.help.View(m.keys)
	case m.palette.Visible():
		content = m.palette.View()
	default:
		content = m.renderTimer()
		if m.meals != nil {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", m.renderMeals())
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, "", content, "", statusBar)
}

func (m Model) renderTimer() string {
	accent := theme.PhaseColor(m.state.Phase)
	var sb strings.Builder
	sb.WriteString(lipgloss.NewStyle().Foreground(accent).Bold(true).Render(m.state.Phase) + "  " + theme.Muted.Render(m.state.Status) + "\n\n")
	sb.WriteString(theme.Clock.Foreground(accent).Render(FormatRemaining(m.state.Remaining)) + "\n\n")
	sb.WriteString(ProgressBar(m.state.PhaseLength, m.state.Remaining, 30) + "\n")
	if m.hasStats {
		sb.WriteString("\n" + theme.Muted.Render(fmt.Sprintf("focus sessions %d · break sessions %d · focused %s",
			m.stats.CompletedFocusSessions, m.stats.CompletedBreakSessions, m.stats.TotalFocus.Round(time.Minute))))
	}
	if m.persist != "" {
		sb.WriteString("\n" + m.persist)
	}
	return theme.PhasePane(m.state.Phase).Render(sb.String())
}

func (m Model) renderMeals() string {
	var sb strings.Builder
	title := "Menu"
	if m.meals.Personalized {
		title = fmt.Sprintf("Menu · %d%% off", m.meals.DiscountPercent)
	}
	sb.WriteString(theme.Title.Render(title) + "\n\n")
	for _, item := range m.meals.Items {
		price := item.DisplayPrice
		if item.DiscountPercent > 0 {
			price = theme.Hot.Render(price)
		}
		sb.WriteString(fmt.Sprintf("%-14s %s\n", item.Name, price))
	}
	return theme.Pane.Render(strings.TrimRight(sb.String(), "\n"))
}

func (m Model) renderStatusBar() string {
	left := m.status
	right := m.help.ShortHelpView(m.keys.ShortHelp())
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) ownerLabel() string {
	if m.owner == "" {
		return "anonymous"
	}
	return m.owner
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	ctx := context.Background()
	switch parts[0] {
	case "start":
		m.state = m.timer.Start(ctx)
	case "pause":
		m.state = m.timer.Pause(ctx)
	case "reset":
		m.state = m.timer.Reset(ctx)
	case "stats":
		return m, m.loadStatsCmd()
	case "food":
		if len(parts) < 2 {
			return m, m.loadFoodCmd(nil)
		}
		hour, err := strconv.Atoi(parts[1])
		if err != nil {
			m.status = "usage: food [hour]"
			return m, nil
		}
		return m, m.loadFoodCmd(&hour)
	case "lesson":
		if len(parts) < 2 {
			m.status = "usage: lesson <id>"
			return m, nil
		}
		return m, m.completeLessonCmd(parts[1])
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return timerEventMsg{event: event}
	}
}

func (m Model) loadIdentityCmd() tea.Cmd {
	return func() tea.Msg {
		profile, err := m.profile.Current(context.Background())
		return identityLoadedMsg{profile: profile, err: err}
	}
}

func (m Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.timer.Stats(context.Background())
		return statsLoadedMsg{stats: stats, err: err}
	}
}

func (m Model) loadFoodCmd(hour *int) tea.Cmd {
	return func() tea.Msg {
		out, err := m.food.Recommend(context.Background(), hour)
		return foodLoadedMsg{out: out, err: err}
	}
}

func (m Model) completeLessonCmd(lessonID string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.profile.CompleteLesson(context.Background(), lessonID)
		return lessonDoneMsg{out: out, err: err}
	}
}

// ─── helpers ─────────────────────────────────────────────────────────────────

// FormatRemaining renders a countdown as mm:ss, rounding partial seconds up.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// ProgressBar renders elapsed time of a phase as a fixed-width bar.
func ProgressBar(total, remaining time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if total > 0 {
		elapsed := total - remaining
		if elapsed < 0 {
			elapsed = 0
		}
		filled = int(int64(width) * int64(elapsed) / int64(total))
		if filled > width {
			filled = width
		}
	}
	return strings.Repeat("█", filled) + theme.Muted.Render(strings.Repeat("░", width-filled))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
