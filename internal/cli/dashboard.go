package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/datacentered/curator/pkg/models"
)

// Dashboard panel indices.
const (
	panelQueues = iota
	panelRouting
	panelPending
	panelCount
)

type dashboardModel struct {
	activePanel int
	width       int
	height      int

	// Data.
	queueCounts map[string]int
	routing     *routingSnapshot
	pending     []models.PendingEntry

	// State.
	loading bool
	err     error
}

type routingSnapshot struct {
	total    int
	byIntent map[models.Intent]int
	flagged  int
	approved int
	skipped  int
	deleted  int
}

// dashboardDataMsg carries loaded data back to the model.
type dashboardDataMsg struct {
	queueCounts map[string]int
	routing     *routingSnapshot
	pending     []models.PendingEntry
	err         error
}

// Style definitions.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			MarginBottom(1)

	intentLearn  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	intentTry    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	intentReview = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	intentQuote  = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	intentSkip   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func newDashboardModel() dashboardModel {
	return dashboardModel{
		activePanel: panelQueues,
		loading:     true,
		queueCounts: make(map[string]int),
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return loadDashboardData
}

func loadDashboardData() tea.Msg {
	msg := dashboardDataMsg{queueCounts: make(map[string]int)}

	msg.queueCounts["intake"] = Queues.CountIntake()
	msg.queueCounts["try"] = Queues.CountTry()
	msg.queueCounts["review"] = Queues.CountReview()
	msg.queueCounts["quotes"] = Queues.CountQuotes()
	msg.queueCounts["resources"] = Registry.CountResources()

	metrics, err := RoutingLog.CalculateMetrics(time.Now().Add(-7 * 24 * time.Hour))
	if err != nil {
		msg.err = err
		return msg
	}
	msg.routing = &routingSnapshot{
		total:    metrics.Total,
		byIntent: metrics.ByIntent,
		flagged:  metrics.NeedsReview,
		approved: metrics.Approved,
		skipped:  metrics.Skipped,
		deleted:  metrics.Deleted,
	}

	msg.pending, err = Pending.List()
	if err != nil {
		msg.err = err
	}
	return msg
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "shift+tab":
			m.activePanel = (m.activePanel - 1 + panelCount) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadDashboardData
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case dashboardDataMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.queueCounts = msg.queueCounts
		m.routing = msg.routing
		m.pending = msg.pending
		m.err = nil
		return m, nil
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	title := titleStyle.Render(" Curator Dashboard ")
	help := helpStyle.Render("tab: switch panel | r: refresh | q: quit")

	if m.loading {
		return fmt.Sprintf("%s\n\n  Loading data...\n\n%s", title, help)
	}
	if m.err != nil {
		return fmt.Sprintf("%s\n\n  Error: %s\n\n%s", title, m.err, help)
	}

	queuesPanel := m.renderQueuesPanel()
	routingPanel := m.renderRoutingPanel()
	pendingPanel := m.renderPendingPanel()

	availableWidth := m.width - 2

	var body string
	if availableWidth > 120 {
		colWidth := availableWidth / 3
		queuesPanel = m.applyPanelStyle(panelQueues, queuesPanel, colWidth-4)
		routingPanel = m.applyPanelStyle(panelRouting, routingPanel, colWidth-4)
		pendingPanel = m.applyPanelStyle(panelPending, pendingPanel, colWidth-4)
		body = lipgloss.JoinHorizontal(lipgloss.Top, queuesPanel, routingPanel, pendingPanel)
	} else {
		panelWidth := availableWidth - 4
		if panelWidth < 20 {
			panelWidth = 20
		}
		queuesPanel = m.applyPanelStyle(panelQueues, queuesPanel, panelWidth)
		routingPanel = m.applyPanelStyle(panelRouting, routingPanel, panelWidth)
		pendingPanel = m.applyPanelStyle(panelPending, pendingPanel, panelWidth)
		body = lipgloss.JoinVertical(lipgloss.Left, queuesPanel, routingPanel, pendingPanel)
	}

	return fmt.Sprintf("%s\n\n%s\n\n%s", title, body, help)
}

func (m dashboardModel) applyPanelStyle(panel int, content string, width int) string {
	style := panelStyle
	if m.activePanel == panel {
		style = activePanelStyle
	}
	return style.Width(width).Render(content)
}

func (m dashboardModel) renderQueuesPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Queues"))
	b.WriteString("\n")

	order := []string{"intake", "try", "review", "quotes", "resources"}
	for _, name := range order {
		b.WriteString(fmt.Sprintf("  %-11s %d\n", name, m.queueCounts[name]))
	}
	return b.String()
}

func (m dashboardModel) renderRoutingPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Routing (7d)"))
	b.WriteString("\n")

	if m.routing == nil {
		b.WriteString("  No routing activity.")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %-11s %d\n", "routed", m.routing.total))
	for _, intent := range models.AllIntents() {
		count := m.routing.byIntent[intent]
		if count == 0 {
			continue
		}
		label := fmt.Sprintf("  %-11s %d", intent, count)
		b.WriteString(styleForIntent(intent).Render(label))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  %-11s %d\n", "flagged", m.routing.flagged))
	b.WriteString(fmt.Sprintf("  %-11s %d/%d/%d\n", "a/s/d", m.routing.approved, m.routing.skipped, m.routing.deleted))
	return b.String()
}

func (m dashboardModel) renderPendingPanel() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Pending Review"))
	b.WriteString("\n")

	if len(m.pending) == 0 {
		b.WriteString("  Nothing pending.")
		return b.String()
	}

	shown := m.pending
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, entry := range shown {
		title := entry.Title
		if len(title) > 34 {
			title = title[:31] + "..."
		}
		line := fmt.Sprintf("  %-34s %.0f%%", title, entry.Confidence*100)
		b.WriteString(pendingStyle.Render(line))
		b.WriteString("\n")
	}
	if len(m.pending) > len(shown) {
		b.WriteString(fmt.Sprintf("  ... and %d more\n", len(m.pending)-len(shown)))
	}
	return b.String()
}

func styleForIntent(intent models.Intent) lipgloss.Style {
	switch intent {
	case models.IntentLearn:
		return intentLearn
	case models.IntentTry:
		return intentTry
	case models.IntentReview:
		return intentReview
	case models.IntentQuote:
		return intentQuote
	default:
		return intentSkip
	}
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive terminal dashboard",
	Long: `Launch an interactive dashboard showing queue depths, recent routing
activity, and the pending review queue.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Queues == nil {
			return fmt.Errorf("queue files not initialized")
		}
		p := tea.NewProgram(newDashboardModel(), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running dashboard: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
