package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/JiwanChung/coder-tools/internal/monitor"
	"github.com/JiwanChung/coder-tools/internal/status"
	"github.com/JiwanChung/coder-tools/internal/usage"
)

var (
	titleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	headerStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("6"))
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	workingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	waitingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	permissionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	sessionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
)

func statusStyle(s status.Status) lipgloss.Style {
	switch s {
	case status.Working:
		return workingStyle
	case status.WaitingForInput:
		return waitingStyle
	case status.PermissionRequired:
		return permissionStyle
	default:
		return dimStyle
	}
}

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	if m.showStats {
		b.WriteString(m.renderStats())
	} else {
		b.WriteString(m.renderList())
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	view := m.visible()
	summary := monitor.Summarize(view)

	line := titleStyle.Render("Agent Monitor") +
		dimStyle.Render(" | ") +
		fmt.Sprintf("%d sessions", summary.Total)

	badges := []string{
		waitingStyle.Render(fmt.Sprintf(">_ %d waiting", summary.Waiting)),
		workingStyle.Render(fmt.Sprintf("◐ %d working", summary.Working)),
	}
	if summary.Permission > 0 {
		badges = append(badges, permissionStyle.Render(fmt.Sprintf("⚠ %d permission", summary.Permission)))
	}
	if m.sourceErr != nil {
		badges = append(badges, dimStyle.Render("(pane source unavailable, showing last state)"))
	}

	return headerStyle.Render(line + "\n" + strings.Join(badges, "  "))
}

func (m Model) renderList() string {
	view := m.visible()
	if len(view) == 0 {
		if m.showAll {
			return dimStyle.Render("  No tmux panes found. Is tmux running?")
		}
		return dimStyle.Render("  No agent sessions found. Press 'a' to show all panes.")
	}

	var b strings.Builder
	now := m.tracker.Now()
	lastSession := ""
	for i, r := range view {
		if m.groupBySession && r.Pane.SessionName != lastSession {
			lastSession = r.Pane.SessionName
			marker := "▾"
			if m.collapsedSessions[lastSession] {
				marker = "▸"
			}
			b.WriteString(sessionStyle.Render(fmt.Sprintf("%s %s", marker, lastSession)))
			b.WriteString("\n")
		}
		if m.groupBySession && m.collapsedSessions[r.Pane.SessionName] {
			continue
		}

		prefix := "  "
		if i == m.selected {
			prefix = selectedStyle.Render("▶") + " "
		}
		b.WriteString(prefix + m.renderRecord(r, now))
		b.WriteString("\n")
	}
	return b.String()
}

// renderRecord renders one pane row. Compact mode is a single dense
// line; full mode adds the task and cached usage underneath.
func (m Model) renderRecord(r *monitor.PaneRecord, now time.Time) string {
	style := statusStyle(r.Status)
	head := fmt.Sprintf("%s %-12s %s %s",
		style.Render(r.Status.Icon()),
		r.Pane.DisplayName(),
		truncateRunes(r.Pane.FolderName(), 24),
		dimStyle.Render(monitor.FormatDuration(r.StatusDuration(now))),
	)
	if m.compact {
		return head
	}

	var extra []string
	if r.Task != "" {
		extra = append(extra, dimStyle.Render("task: "+truncateRunes(r.Task, 70)))
	}
	if r.Usage != nil {
		extra = append(extra, dimStyle.Render(fmt.Sprintf("tokens: %s  cost: %s",
			usage.FormatTokens(r.Usage.Usage.TotalTokens()),
			usage.FormatCost(r.Usage.CostUSD))))
	}
	if len(extra) == 0 {
		return head
	}
	return head + "\n      " + strings.Join(extra, "  ")
}

func (m Model) renderStats() string {
	view := m.visible()
	stats := m.tracker.Aggregate(view)

	rows := []string{
		titleStyle.Render("Session Stats"),
		fmt.Sprintf("  panes:         %d", stats.PaneCount),
		fmt.Sprintf("  working:       %s", monitor.FormatSecs(stats.TotalWorkingSecs)),
		fmt.Sprintf("  waiting:       %s", monitor.FormatSecs(stats.TotalWaitingSecs)),
		fmt.Sprintf("  permission:    %s", monitor.FormatSecs(stats.TotalPermissionSecs)),
		fmt.Sprintf("  state changes: %d", stats.TotalStateChanges),
		fmt.Sprintf("  efficiency:    %.1f%%", stats.EfficiencyPercent()),
	}
	return strings.Join(rows, "\n") + "\n"
}

func (m Model) renderFooter() string {
	bindings := []key.Binding{
		m.keys.Quit, m.keys.Down, m.keys.Jump, m.keys.ShowAll,
		m.keys.Compact, m.keys.Group, m.keys.Stats,
		m.keys.Working, m.keys.Waiting, m.keys.Costs, m.keys.Export,
	}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" {
			continue
		}
		parts = append(parts, h.Key+" "+h.Desc)
	}
	footer := dimStyle.Render(strings.Join(parts, "  "))
	if m.statusMsg != "" {
		footer += "\n" + m.statusMsg
	}
	return footer
}

// truncateRunes limits a string to n Unicode scalar values. Counting
// runes rather than bytes keeps multi-byte text from being cut
// mid-character; grapheme clusters may still split.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
