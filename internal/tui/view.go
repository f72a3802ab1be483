package tui

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quotaflow/quotaflow/internal/analytics"
	"github.com/quotaflow/quotaflow/internal/domain"
	"github.com/quotaflow/quotaflow/internal/scoring"
)

// View handles view.
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("loading...")
		v.AltScreen = true
		return v
	}

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	helpStyle := lipgloss.NewStyle().Foreground(muted)
	statusStyle := lipgloss.NewStyle().Foreground(dim)
	warningStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	header := titleStyle.Render("quotaflow") + "  pipeline"
	header += statusStyle.Render("  [" + m.modeLabel() + "]")
	if m.err != nil {
		header += warningStyle.Render("  error: " + truncate(m.err.Error(), 64))
	}

	sections := []string{header, ""}
	sections = append(sections, m.renderMetricsStrip(accent, muted))
	if m.snap.LoadErr != "" {
		sections = append(sections, warningStyle.Render("load failed: "+truncate(m.snap.LoadErr, 72)+" (empty list, add tasks to continue)"))
	}
	if m.snap.LastDeleted != nil {
		sections = append(sections, helpStyle.Render(fmt.Sprintf("deleted %q • u undo • x dismiss", truncate(m.snap.LastDeleted.Title, 40))))
	}
	sections = append(sections, "")

	var body string
	if m.mode == modeAnalytics {
		body = m.renderAnalytics(accent, muted)
	} else {
		body = m.renderTaskList(accent, muted, dim)
	}
	sections = append(sections, body)

	if strings.TrimSpace(m.status) != "" && m.status != "ready" {
		sections = append(sections, "", statusStyle.Render(m.status))
	}
	content := strings.Join(sections, "\n")

	helpBubble := m.help
	helpBubble.SetWidth(max(0, m.width-2))
	helpLine := lipgloss.NewStyle().
		Foreground(muted).
		BorderTop(true).
		BorderForeground(dim).
		Padding(0, 1).
		Width(max(0, m.width)).
		Render(helpBubble.View(m.keys))

	if m.height > 0 {
		helpHeight := lipgloss.Height(helpLine)
		content = fitLines(content, max(0, m.height-helpHeight))
	}
	fullContent := content + "\n" + helpLine

	if overlay := m.renderModeOverlay(accent, muted, dim, helpStyle, m.width-8); overlay != "" {
		overlayHeight := lipgloss.Height(fullContent)
		if m.height > 0 {
			overlayHeight = m.height
		}
		fullContent = overlayOnContent(fullContent, overlay, max(1, m.width), max(1, overlayHeight))
	}

	v := tea.NewView(fullContent)
	v.AltScreen = true
	return v
}

// modeLabel names the active mode for the header.
func (m Model) modeLabel() string {
	switch m.mode {
	case modeAddTask:
		return "new task"
	case modeEditTask:
		return "edit task"
	case modeTaskInfo:
		return "details"
	case modeConfirmDelete:
		return "confirm"
	case modeAnalytics:
		return "analytics"
	default:
		return "board"
	}
}

// renderMetricsStrip summarizes the current metrics on one line.
func (m Model) renderMetricsStrip(accent, muted color.Color) string {
	metricStyle := lipgloss.NewStyle().Foreground(muted)
	gradeStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	metrics := m.snap.Metrics
	parts := []string{
		fmt.Sprintf("revenue (done) $%.2f", metrics.TotalRevenue),
		fmt.Sprintf("done %.1f%%", metrics.TimeEfficiencyPct),
		fmt.Sprintf("$%.2f/h", metrics.RevenuePerHour),
		fmt.Sprintf("avg roi %.2f", metrics.AverageROI),
	}
	return metricStyle.Render(strings.Join(parts, "  •  ")) + "  " + gradeStyle.Render(string(metrics.PerformanceGrade))
}

// renderTaskList renders the ranked task rows.
func (m Model) renderTaskList(accent, muted, dim color.Color) string {
	if len(m.snap.Ranked) == 0 {
		return lipgloss.NewStyle().Foreground(muted).Render("No tasks yet. Press n to add the first one.")
	}
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	subStyle := lipgloss.NewStyle().Foreground(muted)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	rows := make([]string, 0, len(m.snap.Ranked))
	for idx, dt := range m.snap.Ranked {
		prefix := "  "
		if idx == m.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%2d. %s", prefix, idx+1, truncate(dt.Title, max(16, m.width-48)))
		sub := m.rowDetail(dt)

		switch {
		case idx == m.selected:
			line = selectedStyle.Render(line)
		case dt.Status == domain.StatusDone:
			line = doneStyle.Render(line)
		}
		rows = append(rows, line+subStyle.Render("  "+sub))
	}
	return strings.Join(rows, "\n")
}

// rowDetail builds the per-row annotation honoring field visibility.
func (m Model) rowDetail(dt scoring.DerivedTask) string {
	parts := []string{string(dt.Priority)}
	if m.taskFields.ShowStatus {
		parts = append(parts, statusLabels[dt.Status])
	}
	if dt.ROIValid {
		parts = append(parts, fmt.Sprintf("roi %.2f", dt.ROI))
	} else {
		parts = append(parts, "roi n/a")
	}
	if m.taskFields.ShowRevenue {
		parts = append(parts, fmt.Sprintf("$%.0f", dt.Revenue))
	}
	if m.taskFields.ShowTime {
		parts = append(parts, fmt.Sprintf("%.1fh", dt.TimeTaken))
	}
	if m.taskFields.ShowNotes && strings.TrimSpace(dt.Notes) != "" {
		parts = append(parts, "notes")
	}
	return strings.Join(parts, " • ")
}

// renderAnalytics renders the full analytics screen in place of the board.
func (m Model) renderAnalytics(accent, muted color.Color) string {
	headStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	lineStyle := lipgloss.NewStyle().Foreground(muted)

	tasks := m.snap.Tasks
	funnel := analytics.BuildFunnel(tasks)
	velocity := analytics.VelocityByPriority(tasks)
	weeks := analytics.ThroughputByWeek(tasks)
	pipeline := analytics.WeightedPipeline(tasks)
	forecast := analytics.Forecast(weeks, m.forecastHorizon)
	cohorts := analytics.CohortRevenue(tasks)

	var b strings.Builder
	b.WriteString(headStyle.Render("Funnel"))
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(fmt.Sprintf(
		"  todo %d • in progress %d • done %d • activation %.0f%% • completion %.0f%%",
		funnel.Todo, funnel.InProgress, funnel.Done,
		funnel.ActivationRate*100, funnel.CompletionRate*100,
	)))
	b.WriteString("\n\n")

	b.WriteString(headStyle.Render("Velocity (days to done)"))
	b.WriteString("\n")
	for _, p := range []domain.Priority{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow} {
		stats := velocity[p]
		b.WriteString(lineStyle.Render(fmt.Sprintf(
			"  %-8s n=%d mean %.1f median %.1f", p, stats.Count, stats.Mean, stats.Median,
		)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(headStyle.Render("Weekly throughput"))
	b.WriteString("\n")
	if len(weeks) == 0 {
		b.WriteString(lineStyle.Render("  no completed tasks yet"))
		b.WriteString("\n")
	}
	for _, w := range weeks {
		b.WriteString(lineStyle.Render(fmt.Sprintf("  %s  %2d done  $%.2f", w.Week, w.Count, w.Revenue)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(headStyle.Render("Pipeline"))
	b.WriteString("\n")
	b.WriteString(lineStyle.Render(fmt.Sprintf("  weighted value $%.2f", pipeline)))
	b.WriteString("\n\n")

	b.WriteString(headStyle.Render(fmt.Sprintf("Forecast (+%d weeks)", m.forecastHorizon)))
	b.WriteString("\n")
	if len(forecast) == 0 {
		b.WriteString(lineStyle.Render("  needs at least two completed weeks"))
		b.WriteString("\n")
	}
	for _, p := range forecast {
		b.WriteString(lineStyle.Render(fmt.Sprintf("  %-4s $%.2f", p.Label, p.Revenue)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(headStyle.Render("Cohorts (created week x priority)"))
	b.WriteString("\n")
	if len(cohorts) == 0 {
		b.WriteString(lineStyle.Render("  no tasks yet"))
		b.WriteString("\n")
	}
	for _, c := range cohorts {
		b.WriteString(lineStyle.Render(fmt.Sprintf("  %s  %-8s $%.2f", c.Week, c.Priority, c.Revenue)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(lineStyle.Render("esc back"))

	return b.String()
}

// renderModeOverlay renders the modal for the current mode, if any.
func (m Model) renderModeOverlay(accent, muted, dim color.Color, helpStyle lipgloss.Style, width int) string {
	switch m.mode {
	case modeAddTask, modeEditTask:
		return m.renderTaskForm(accent, muted, dim, helpStyle, width)
	case modeConfirmDelete:
		return m.renderConfirmDelete(accent, muted, dim, width)
	case modeTaskInfo:
		return m.renderTaskInfo(accent, muted, dim, width)
	}
	return ""
}

// renderTaskForm renders the add/edit modal.
func (m Model) renderTaskForm(accent, muted, dim color.Color, helpStyle lipgloss.Style, width int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(clamp(width, 40, 76))
	labelStyle := lipgloss.NewStyle().Foreground(muted)
	focusLabel := lipgloss.NewStyle().Bold(true).Foreground(accent)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	warnStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))

	heading := "New task"
	if m.mode == modeEditTask {
		heading = "Edit task"
	}

	label := func(idx int, name string) string {
		if idx == m.formFocus {
			return focusLabel.Render("> " + name)
		}
		return labelStyle.Render("  " + name)
	}
	cycleValue := func(idx int, value string) string {
		marker := "  "
		if idx == m.formFocus {
			marker = "◂ "
		}
		suffix := ""
		if idx == m.formFocus {
			suffix = " ▸"
		}
		return "  " + marker + value + suffix
	}

	lines := []string{
		titleStyle.Render(heading),
		"",
		label(taskFieldTitle, "Title"),
		"  " + m.formInputs[taskFieldTitle].View(),
		label(taskFieldRevenue, "Revenue ($)"),
		"  " + m.formInputs[taskFieldRevenue].View(),
		label(taskFieldTime, "Time taken (hours)"),
		"  " + m.formInputs[taskFieldTime].View(),
		label(taskFieldPriority, "Priority"),
		cycleValue(taskFieldPriority, string(priorityOptions[m.priorityIdx])),
		label(taskFieldStatus, "Status"),
		cycleValue(taskFieldStatus, statusLabels[statusOptions[m.statusIdx]]),
		label(taskFieldNotes, "Notes"),
		"  " + m.formInputs[taskFieldNotes].View(),
	}
	if m.formErr != "" {
		lines = append(lines, "", warnStyle.Render(m.formErr))
	}
	lines = append(lines, "", helpStyle.Render("tab/↑↓ field • ←/→ cycle • enter save • esc cancel"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderConfirmDelete renders the delete confirmation dialog.
func (m Model) renderConfirmDelete(accent, muted, dim color.Color, width int) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("203")).
		Padding(1, 2).
		Width(clamp(width, 36, 64))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	mutedStyle := lipgloss.NewStyle().Foreground(muted)
	active := lipgloss.NewStyle().Bold(true).Foreground(accent)
	inactive := lipgloss.NewStyle().Foreground(dim)

	yes := inactive.Render("[ delete ]")
	no := inactive.Render("[ keep ]")
	if m.confirmChoice == 0 {
		yes = active.Render("[ delete ]")
	} else {
		no = active.Render("[ keep ]")
	}

	lines := []string{
		titleStyle.Render("Delete task?"),
		"",
		mutedStyle.Render(truncate(m.confirmTitle, 52)),
		mutedStyle.Render("One undo slot is kept; a later delete replaces it."),
		"",
		yes + "   " + no,
		"",
		mutedStyle.Render("y/enter confirm • n/esc cancel"),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderTaskInfo renders the read-only task detail modal.
func (m Model) renderTaskInfo(accent, muted, dim color.Color, width int) string {
	task, ok := m.taskByID(m.infoTaskID)
	if !ok {
		return ""
	}
	boxWidth := clamp(width, 44, 80)
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(1, 2).
		Width(boxWidth)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	labelStyle := lipgloss.NewStyle().Foreground(muted)

	roiLine := "n/a (time not positive)"
	if roi, valid := scoring.ComputeROI(task.Revenue, task.TimeTaken); valid {
		roiLine = fmt.Sprintf("%.2f", roi)
	}
	completed := "-"
	if task.CompletedAt != nil {
		completed = task.CompletedAt.Format("2006-01-02 15:04")
	}

	lines := []string{
		titleStyle.Render(truncate(task.Title, boxWidth-6)),
		"",
		labelStyle.Render(fmt.Sprintf("priority   %s (weight %d)", task.Priority, scoring.Weight(task.Priority))),
		labelStyle.Render("status     " + statusLabels[task.Status]),
		labelStyle.Render(fmt.Sprintf("revenue    $%.2f", task.Revenue)),
		labelStyle.Render(fmt.Sprintf("time       %.2fh", task.TimeTaken)),
		labelStyle.Render("roi        " + roiLine),
		labelStyle.Render("created    " + task.CreatedAt.Format("2006-01-02 15:04")),
		labelStyle.Render("completed  " + completed),
	}
	if strings.TrimSpace(task.Notes) != "" {
		lines = append(lines, "", m.notes.render(task.Notes, boxWidth-6))
	}
	lines = append(lines, "", labelStyle.Render("e edit • esc close"))
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// fitLines fits lines.
func fitLines(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	switch {
	case len(lines) > maxLines:
		if maxLines == 1 {
			lines = []string{"…"}
		} else {
			lines = append(lines[:maxLines-1], "…")
		}
	case len(lines) < maxLines:
		padding := make([]string, maxLines-len(lines))
		lines = append(lines, padding...)
	}
	return strings.Join(lines, "\n")
}

// overlayOnContent overlays on content.
func overlayOnContent(base, overlay string, width, height int) string {
	if width <= 0 || height <= 0 {
		if strings.TrimSpace(overlay) == "" {
			return base
		}
		return overlay + "\n\n" + base
	}

	base = fitLines(base, height)
	canvas := lipgloss.NewCanvas(width, height)
	baseLayer := lipgloss.NewLayer(base).X(0).Y(0).Z(0)
	centeredOverlay := lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		overlay,
	)
	overlayLayer := lipgloss.NewLayer(centeredOverlay).X(0).Y(0).Z(10)

	canvas.Compose(baseLayer)
	canvas.Compose(overlayLayer)
	return canvas.Render()
}
