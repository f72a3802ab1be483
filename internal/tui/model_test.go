package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/quotaflow/quotaflow/internal/app"
	"github.com/quotaflow/quotaflow/internal/domain"
)

func newTestStore(t *testing.T) *app.Store {
	t.Helper()
	n := 0
	idGen := func() string {
		n++
		return "task-" + string(rune('a'+n-1))
	}
	clock := func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	return app.NewStore(nil, nil, idGen, clock)
}

func newTestModel(t *testing.T, store *app.Store) Model {
	t.Helper()
	m := NewModel(store)
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return applyCmd(t, m, m.Init())
}

func applyMsg(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, cmd := m.Update(msg)
	out, ok := updated.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", updated)
	}
	return applyCmd(t, out, cmd)
}

func applyCmd(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	out := m
	currentCmd := cmd
	for i := 0; i < 6 && currentCmd != nil; i++ {
		msg := currentCmd()
		updated, nextCmd := out.Update(msg)
		casted, ok := updated.(Model)
		if !ok {
			t.Fatalf("expected Model, got %T", updated)
		}
		out = casted
		currentCmd = nextCmd
	}
	return out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = applyMsg(t, m, keyRune(r))
	}
	return m
}

func TestInitLoadsSnapshot(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add(context.Background(), app.AddTaskInput{Title: "existing", Revenue: 100, TimeTaken: 2}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)
	if len(m.snap.Ranked) != 1 {
		t.Fatalf("expected 1 ranked task after init, got %d", len(m.snap.Ranked))
	}
	if !m.snap.Loaded {
		t.Fatal("expected snapshot to report loaded")
	}
}

func TestAddTaskFormFlow(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('n'))
	if m.mode != modeAddTask {
		t.Fatalf("expected add mode, got %v", m.mode)
	}

	m = typeText(t, m, "Close Acme deal")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "200")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "4")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if m.mode != modeNone {
		t.Fatalf("expected form closed after submit, got mode %v", m.mode)
	}
	if len(m.snap.Ranked) != 1 {
		t.Fatalf("expected 1 task after submit, got %d", len(m.snap.Ranked))
	}
	ranked := m.snap.Ranked[0]
	if ranked.Title != "Close Acme deal" || !ranked.ROIValid || ranked.ROI != 50 {
		t.Fatalf("unexpected ranked task %+v", ranked)
	}
}

func TestFormRequiresTitle(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('n'))
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddTask {
		t.Fatal("empty submit must keep the form open")
	}
	if m.formErr == "" {
		t.Fatal("expected a form error for the missing title")
	}
}

func TestFormRejectsDuplicateTitle(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add(context.Background(), app.AddTaskInput{Title: "Quarterly Review", TimeTaken: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('n'))
	m = typeText(t, m, "quarterly review")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddTask {
		t.Fatal("duplicate submit must keep the form open")
	}
	if !strings.Contains(m.formErr, "already exists") {
		t.Fatalf("unexpected form error %q", m.formErr)
	}
}

func TestFormRejectsBadNumbers(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('n'))
	m = typeText(t, m, "ok")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	m = typeText(t, m, "lots")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.mode != modeAddTask || m.formErr == "" {
		t.Fatalf("bad revenue must keep the form open with an error, mode=%v err=%q", m.mode, m.formErr)
	}
}

func TestFormPriorityCycling(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('n'))
	m = typeText(t, m, "ok")
	// Move focus to the priority field.
	for i := 0; i < 3; i++ {
		m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyTab})
	}
	if m.formFocus != taskFieldPriority {
		t.Fatalf("expected priority focus, got %d", m.formFocus)
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if priorityOptions[m.priorityIdx] != domain.PriorityHigh {
		t.Fatalf("expected high after one step from medium, got %q", priorityOptions[m.priorityIdx])
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyRight})
	if priorityOptions[m.priorityIdx] != domain.PriorityLow {
		t.Fatalf("expected wrap to low, got %q", priorityOptions[m.priorityIdx])
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})
	if m.snap.Ranked[0].Priority != domain.PriorityLow {
		t.Fatalf("submitted priority = %q, want low", m.snap.Ranked[0].Priority)
	}
}

func TestEditTaskKeepsID(t *testing.T) {
	store := newTestStore(t)
	added, err := store.Add(context.Background(), app.AddTaskInput{Title: "original", Revenue: 100, TimeTaken: 2})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('e'))
	if m.mode != modeEditTask || m.editingTaskID != added.ID {
		t.Fatalf("expected edit mode for %q, got mode=%v id=%q", added.ID, m.mode, m.editingTaskID)
	}
	m = typeText(t, m, " v2")
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEnter})

	if len(m.snap.Tasks) != 1 || m.snap.Tasks[0].ID != added.ID {
		t.Fatalf("edit must not create a new task: %+v", m.snap.Tasks)
	}
	if m.snap.Tasks[0].Title != "original v2" {
		t.Fatalf("unexpected title %q", m.snap.Tasks[0].Title)
	}
}

func TestDeleteConfirmAndUndoFlow(t *testing.T) {
	store := newTestStore(t)
	added, err := store.Add(context.Background(), app.AddTaskInput{Title: "doomed", TimeTaken: 1})
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('d'))
	if m.mode != modeConfirmDelete || m.confirmTaskID != added.ID {
		t.Fatalf("expected confirm dialog for %q", added.ID)
	}

	// Cancel first.
	m = applyMsg(t, m, keyRune('n'))
	if m.mode != modeNone || len(m.snap.Tasks) != 1 {
		t.Fatal("cancel must keep the task")
	}

	// Delete for real.
	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('y'))
	if len(m.snap.Tasks) != 0 {
		t.Fatalf("expected empty list after delete, got %d", len(m.snap.Tasks))
	}
	if m.snap.LastDeleted == nil || m.snap.LastDeleted.ID != added.ID {
		t.Fatal("expected pending undo after delete")
	}

	m = applyMsg(t, m, keyRune('u'))
	if len(m.snap.Tasks) != 1 || m.snap.Tasks[0].ID != added.ID {
		t.Fatalf("undo must restore the task, got %+v", m.snap.Tasks)
	}
	if m.snap.LastDeleted != nil {
		t.Fatal("undo must clear the pending slot")
	}
}

func TestDismissUndo(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add(context.Background(), app.AddTaskInput{Title: "doomed", TimeTaken: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)
	m = applyMsg(t, m, keyRune('d'))
	m = applyMsg(t, m, keyRune('y'))
	m = applyMsg(t, m, keyRune('x'))
	if m.snap.LastDeleted != nil {
		t.Fatal("dismiss must clear the pending slot")
	}
	m = applyMsg(t, m, keyRune('u'))
	if len(m.snap.Tasks) != 0 {
		t.Fatal("undo after dismiss must restore nothing")
	}
}

func TestCycleStatusStampsCompletion(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add(context.Background(), app.AddTaskInput{Title: "deal", TimeTaken: 1}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('s'))
	if m.snap.Tasks[0].Status != domain.StatusInProgress {
		t.Fatalf("first cycle = %q, want in_progress", m.snap.Tasks[0].Status)
	}
	m = applyMsg(t, m, keyRune('s'))
	if m.snap.Tasks[0].Status != domain.StatusDone {
		t.Fatalf("second cycle = %q, want done", m.snap.Tasks[0].Status)
	}
	if m.snap.Tasks[0].CompletedAt == nil {
		t.Fatal("completing via cycle must stamp CompletedAt")
	}
	m = applyMsg(t, m, keyRune('s'))
	if m.snap.Tasks[0].Status != domain.StatusTodo {
		t.Fatalf("third cycle = %q, want wrap to todo", m.snap.Tasks[0].Status)
	}
}

func TestAnalyticsToggle(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('a'))
	if m.mode != modeAnalytics {
		t.Fatalf("expected analytics mode, got %v", m.mode)
	}
	content := m.renderAnalytics(lipgloss.Color("62"), lipgloss.Color("241"))
	for _, section := range []string{"Funnel", "Velocity", "Pipeline", "Forecast", "Cohorts"} {
		if !strings.Contains(content, section) {
			t.Fatalf("analytics view missing %q section", section)
		}
	}
	m = applyMsg(t, m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if m.mode != modeNone {
		t.Fatalf("esc must close analytics, got %v", m.mode)
	}
}

func TestSelectionMovesAndClamps(t *testing.T) {
	store := newTestStore(t)
	for _, title := range []string{"one", "two", "three"} {
		if _, err := store.Add(context.Background(), app.AddTaskInput{Title: title, TimeTaken: 1}); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	m := newTestModel(t, store)

	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('j'))
	m = applyMsg(t, m, keyRune('j'))
	if m.selected != 2 {
		t.Fatalf("selection must clamp at the last row, got %d", m.selected)
	}
	m = applyMsg(t, m, keyRune('k'))
	if m.selected != 1 {
		t.Fatalf("expected selection 1, got %d", m.selected)
	}
}

func TestQuitKey(t *testing.T) {
	store := newTestStore(t)
	m := newTestModel(t, store)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestViewRendersBoardAndModals(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.Add(context.Background(), app.AddTaskInput{Title: "Renew Globex", Revenue: 300, TimeTaken: 3}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	m := newTestModel(t, store)

	accent := lipgloss.Color("62")
	muted := lipgloss.Color("241")
	dim := lipgloss.Color("239")

	if v := m.View(); v.Content == nil {
		t.Fatal("expected board view content")
	}
	if !strings.Contains(m.renderTaskList(accent, muted, dim), "Renew Globex") {
		t.Fatal("expected task row in the list")
	}
	if !strings.Contains(m.renderMetricsStrip(accent, muted), "avg roi") {
		t.Fatal("expected metrics strip")
	}

	m = applyMsg(t, m, keyRune('n'))
	helpStyle := lipgloss.NewStyle().Foreground(muted)
	if !strings.Contains(m.renderTaskForm(accent, muted, dim, helpStyle, 72), "New task") {
		t.Fatal("expected add form heading")
	}
	if overlay := m.renderModeOverlay(accent, muted, dim, helpStyle, 72); overlay == "" {
		t.Fatal("expected modal overlay while the form is open")
	}
}

func TestLoadErrShowsWarning(t *testing.T) {
	store := newTestStore(t)
	m := NewModel(store)
	m = applyMsg(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = applyMsg(t, m, snapshotMsg{snap: app.Snapshot{Loaded: true, LoadErr: "load tasks: disk gone"}})
	if !strings.Contains(m.status, "load failed") {
		t.Fatalf("load failure must surface in the status line, got %q", m.status)
	}
	if v := m.View(); v.Content == nil {
		t.Fatal("expected view content")
	}
}
