// Package ui provides the Bubble Tea TUI for the detection engine.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/shogunprotocol/shogun-core-ai/pkg/ui/components"
)

// StartupStep represents a step in the startup process.
type StartupStep struct {
	Name   string
	Status string // "pending", "connecting", "connected", "failed"
}

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseStartup   Phase = "startup"   // Loading/connecting
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

var percentFactor = decimal.NewFromInt(100)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	rounds      *components.RoundsComponent
	decisions   *components.DecisionsComponent
	signal      *components.SignalComponent
	connections *components.StatusComponent
	keys        KeyMap

	phase        Phase
	welcomeStart time.Time

	quitting   bool
	paused     bool
	width      int
	height     int
	lastUpdate time.Time
	logs       []string

	startupSteps []*StartupStep
	startupTime  time.Time
}

// New creates a new TUI model.
func New() Model {
	now := time.Now()
	return Model{
		rounds:       components.NewRoundsComponent(),
		decisions:    components.NewDecisionsComponent(50),
		signal:       components.NewSignalComponent(),
		connections:  components.NewStatusComponent(),
		keys:         DefaultKeyMap(),
		phase:        PhaseWelcome,
		welcomeStart: now,
		logs:         make([]string, 0, 10),
		startupSteps: []*StartupStep{
			{Name: "Loading configuration", Status: "pending"},
			{Name: "Connecting to CoreDAO", Status: "pending"},
			{Name: "Priming intelligence feeds", Status: "pending"},
			{Name: "Starting detection loop", Status: "pending"},
		},
		startupTime: now,
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			if m.phase == PhaseDashboard {
				m.paused = !m.paused
			}
		case key.Matches(msg, m.keys.Clear):
			if m.phase == PhaseDashboard {
				m.decisions.Clear()
			}
		default:
			if m.phase == PhaseWelcome {
				m = m.advanceToStartup()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m = m.advanceToStartup()
		}
		return m, tickCmd()

	case StartupMsg:
		for _, step := range m.startupSteps {
			if step.Name == msg.Step {
				step.Status = msg.Status
			}
		}
		if m.startupComplete() {
			m.phase = PhaseDashboard
		}
		return m, nil

	case DecisionMsg:
		if m.paused {
			return m, nil
		}
		d := msg.Decision
		m.decisions.Add(components.DecisionRow{
			Generation: d.Opportunity.Generation,
			Path:       d.Opportunity.Path.String(),
			Action:     string(d.Action),
			NetPct:     d.Opportunity.NetRatio.Mul(percentFactor).StringFixed(2) + "%",
			Size:       d.TradeSize().StringFixed(2),
			Actionable: d.IsActionable(),
		})
		flags := make([]string, 0, len(d.Signal.RiskFlags))
		for _, f := range d.Signal.RiskFlags {
			flags = append(flags, string(f))
		}
		m.signal.Update(components.SignalState{
			Sentiment:  d.Signal.Sentiment.String(),
			Confidence: string(d.Signal.Confidence),
			RiskFlags:  flags,
			Stale:      d.Signal.Stale,
			Negative:   d.Signal.IsNegative(),
		})
		m.lastUpdate = time.Now()
		return m, nil

	case RoundMsg:
		s := msg.Stats
		m.rounds.Update(components.RoundSummary{
			Generation:    s.Generation,
			PoolsOK:       s.PoolsOK,
			PoolsTotal:    s.PoolsTotal,
			Candidates:    s.Candidates,
			Executed:      s.Executed,
			Reduced:       s.Reduced,
			Skipped:       s.Skipped,
			GasPriceGwei:  s.GasPriceGwei,
			Duration:      s.Duration,
			SignalStale:   s.SignalStale,
			SessionTrades: s.SessionTrades,
			SessionPnL:    s.SessionPnL,
		})
		m.lastUpdate = time.Now()
		return m, nil

	case ConnectionStatusMsg:
		m.connections.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			Latency:    msg.Latency,
			LastUpdate: time.Now(),
		})
		return m, nil

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
		return m, nil

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		return m, nil
	}

	return m, nil
}

func (m Model) advanceToStartup() Model {
	m.phase = PhaseStartup
	m.startupTime = time.Now()
	if OnStartModules != nil {
		OnStartModules()
	}
	return m
}

func (m Model) startupComplete() bool {
	for _, step := range m.startupSteps {
		if step.Status != "connected" {
			return false
		}
	}
	return true
}

func addLog(logs []string, level, message string) []string {
	stamp := time.Now().Format("15:04:05")
	logs = append(logs, fmt.Sprintf("[%s] %-5s %s", stamp, strings.ToUpper(level), message))
	if len(logs) > 10 {
		logs = logs[len(logs)-10:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	switch m.phase {
	case PhaseWelcome:
		return m.renderWelcomeScreen()
	case PhaseStartup:
		return m.renderStartupScreen()
	default:
		return m.renderDashboard()
	}
}

func (m Model) renderWelcomeScreen() string {
	logo := TitleStyle.Render(" SHOGUN ") + "\n\n" +
		HeaderStyle.Render("CoreDAO Arbitrage Detection Engine") + "\n\n" +
		MutedValue.Render("press any key to continue")

	if m.width == 0 || m.height == 0 {
		return logo
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, logo)
}

func (m Model) renderStartupScreen() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Starting up") + "\n\n")

	for _, step := range m.startupSteps {
		icon := "○"
		style := MutedValue
		switch step.Status {
		case "connecting":
			icon = "◌"
			style = StatusReconnecting
		case "connected":
			icon = "●"
			style = StatusConnected
		case "failed":
			icon = "✗"
			style = StatusDisconnected
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", icon, style.Render(step.Name)))
	}

	b.WriteString("\n" + MutedValue.Render(fmt.Sprintf("elapsed: %s", time.Since(m.startupTime).Round(time.Second))))

	content := b.String()
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) renderDashboard() string {
	var b strings.Builder

	title := " SHOGUN DETECTION "
	if m.paused {
		title = " SHOGUN DETECTION (paused) "
	}
	b.WriteString(TitleStyle.Render(title) + "\n\n")

	b.WriteString(BoxStyle.Render(m.rounds.View()) + "\n")
	b.WriteString(BoxStyle.Render(m.signal.View()) + "\n")
	b.WriteString(BoxStyle.Render(m.decisions.View()) + "\n")

	if len(m.logs) > 0 {
		b.WriteString(BoxStyle.Render(MutedValue.Render("LOG")+"\n"+strings.Join(m.logs, "\n")) + "\n")
	}

	status := MutedValue.Render("CONNECTIONS") + "\n" + m.connections.View()
	if !m.lastUpdate.IsZero() {
		status += MutedValue.Render(fmt.Sprintf("Updated: %s ago", time.Since(m.lastUpdate).Round(time.Second)))
	}
	b.WriteString(BoxStyle.Render(status) + "\n")

	help := make([]string, 0, 3)
	for _, binding := range m.keys.ShortHelp() {
		help = append(help, binding.Help().Key+" "+binding.Help().Desc)
	}
	b.WriteString(HelpStyle.Render(strings.Join(help, "  │  ")))

	return b.String()
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
