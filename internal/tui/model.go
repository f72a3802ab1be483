package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/quotaflow/quotaflow/internal/analytics"
	"github.com/quotaflow/quotaflow/internal/app"
	"github.com/quotaflow/quotaflow/internal/domain"
)

// Store is the mutation and read surface the model consumes.
type Store interface {
	Load(context.Context)
	Snapshot() app.Snapshot
	Add(context.Context, app.AddTaskInput) (domain.Task, error)
	Update(context.Context, string, domain.TaskPatch) (domain.Task, error)
	Delete(context.Context, string) error
	UndoDelete(context.Context) (domain.Task, bool, error)
	ClearLastDeleted()
	TitleExists(string, string) bool
}

// inputMode represents a selectable mode.
type inputMode int

// modeNone and related constants define package defaults.
const (
	modeNone inputMode = iota
	modeAddTask
	modeEditTask
	modeTaskInfo
	modeConfirmDelete
	modeAnalytics
)

// task-form field indexes used throughout keyboard/update logic.
const (
	taskFieldTitle = iota
	taskFieldRevenue
	taskFieldTime
	taskFieldPriority
	taskFieldStatus
	taskFieldNotes
	taskFieldCount
)

// priorityOptions stores the cycle order for the form priority field.
var priorityOptions = []domain.Priority{
	domain.PriorityLow,
	domain.PriorityMedium,
	domain.PriorityHigh,
}

// statusOptions stores the cycle order for the form status field.
var statusOptions = []domain.Status{
	domain.StatusTodo,
	domain.StatusInProgress,
	domain.StatusDone,
}

// statusLabels stores display labels per status.
var statusLabels = map[domain.Status]string{
	domain.StatusTodo:       "To Do",
	domain.StatusInProgress: "In Progress",
	domain.StatusDone:       "Done",
}

// snapshotMsg carries a fresh store snapshot through update handling.
type snapshotMsg struct {
	snap app.Snapshot
}

// actionMsg carries mutation results through update handling.
type actionMsg struct {
	err    error
	status string
}

// Model represents model data used by this package.
type Model struct {
	store Store

	ready  bool
	width  int
	height int
	err    error

	status string

	help help.Model
	keys keyMap

	taskFields      TaskFieldConfig
	forecastHorizon int

	snap     app.Snapshot
	selected int

	mode          inputMode
	formInputs    []textinput.Model
	formFocus     int
	priorityIdx   int
	statusIdx     int
	editingTaskID string
	formErr       string

	confirmTaskID string
	confirmTitle  string
	confirmChoice int

	infoTaskID string
	notes      markdownRenderer
}

// NewModel constructs a new value for this package.
func NewModel(store Store, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		store:           store,
		status:          "loading...",
		help:            h,
		keys:            newKeyMap(),
		taskFields:      DefaultTaskFieldConfig(),
		forecastHorizon: analytics.DefaultForecastHorizon,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return m.loadData
}

// loadData fires the one-shot initial load and returns the resulting
// snapshot. The store guards against duplicate fetches, so re-issuing
// this command on remount is harmless.
func (m Model) loadData() tea.Msg {
	m.store.Load(context.Background())
	return snapshotMsg{snap: m.store.Snapshot()}
}

// refresh re-reads derived state without re-triggering the load.
func (m Model) refresh() tea.Msg {
	return snapshotMsg{snap: m.store.Snapshot()}
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case snapshotMsg:
		m.snap = msg.snap
		m.selected = clamp(m.selected, 0, len(m.snap.Ranked)-1)
		if m.status == "" || m.status == "loading..." {
			m.status = "ready"
		}
		if m.snap.LoadErr != "" {
			m.status = "initial load failed (working with empty list)"
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.status != "" {
			m.status = msg.status
		}
		return m, m.refresh

	case tea.KeyPressMsg:
		if m.mode == modeNone {
			return m.handleNormalModeKey(msg)
		}
		return m.handleInputModeKey(msg)
	}
	return m, nil
}

// handleNormalModeKey dispatches board-level key presses.
func (m Model) handleNormalModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.reload):
		m.status = "refreshed"
		return m, m.refresh
	case key.Matches(msg, m.keys.moveDown):
		if m.selected < len(m.snap.Ranked)-1 {
			m.selected++
		}
		return m, nil
	case key.Matches(msg, m.keys.moveUp):
		if m.selected > 0 {
			m.selected--
		}
		return m, nil
	case key.Matches(msg, m.keys.addTask):
		m.help.ShowAll = false
		return m, m.startTaskForm(nil)
	case key.Matches(msg, m.keys.editTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.help.ShowAll = false
		return m, m.startTaskForm(&task)
	case key.Matches(msg, m.keys.taskInfo):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		m.help.ShowAll = false
		m.mode = modeTaskInfo
		m.infoTaskID = task.ID
		m.status = "task info"
		return m, nil
	case key.Matches(msg, m.keys.deleteTask):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		// Delete intent is resolved once per gesture: the confirm
		// dialog owns the id so a second press cannot stack dialogs.
		m.mode = modeConfirmDelete
		m.confirmTaskID = task.ID
		m.confirmTitle = task.Title
		m.confirmChoice = 0
		m.status = "confirm delete"
		return m, nil
	case key.Matches(msg, m.keys.undo):
		return m, m.undoDeleteCmd()
	case key.Matches(msg, m.keys.dismissUndo):
		if m.snap.LastDeleted == nil {
			return m, nil
		}
		m.store.ClearLastDeleted()
		m.status = "undo dismissed"
		return m, m.refresh
	case key.Matches(msg, m.keys.cycleStatus):
		task, ok := m.selectedTask()
		if !ok {
			m.status = "no task selected"
			return m, nil
		}
		next := nextStatus(task.Status)
		return m, m.updateStatusCmd(task.ID, next)
	case key.Matches(msg, m.keys.analytics):
		m.help.ShowAll = false
		m.mode = modeAnalytics
		m.status = "analytics"
		return m, nil
	}
	return m, nil
}

// handleInputModeKey dispatches key presses while a modal is active.
func (m Model) handleInputModeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeAnalytics:
		switch {
		case msg.String() == "esc", key.Matches(msg, m.keys.analytics), key.Matches(msg, m.keys.quit):
			m.mode = modeNone
			m.status = "ready"
		}
		return m, nil

	case modeTaskInfo:
		switch msg.String() {
		case "esc", "i":
			m.mode = modeNone
			m.infoTaskID = ""
			m.status = "ready"
			return m, nil
		case "e":
			if task, ok := m.taskByID(m.infoTaskID); ok {
				return m, m.startTaskForm(&task)
			}
			return m, nil
		}
		return m, nil

	case modeConfirmDelete:
		switch msg.String() {
		case "esc", "n":
			m.mode = modeNone
			m.confirmTaskID = ""
			m.status = "delete canceled"
			return m, nil
		case "left", "right", "h", "l", "tab":
			m.confirmChoice = 1 - m.confirmChoice
			return m, nil
		case "y":
			return m.confirmDelete()
		case "enter":
			if m.confirmChoice == 0 {
				return m.confirmDelete()
			}
			m.mode = modeNone
			m.confirmTaskID = ""
			m.status = "delete canceled"
			return m, nil
		}
		return m, nil

	case modeAddTask, modeEditTask:
		return m.handleTaskFormKey(msg)
	}
	return m, nil
}

// handleTaskFormKey updates the add/edit form.
func (m Model) handleTaskFormKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNone
		m.editingTaskID = ""
		m.formErr = ""
		m.status = "ready"
		return m, nil
	case "tab", "down":
		return m, m.focusTaskFormField(m.formFocus + 1)
	case "shift+tab", "up":
		return m, m.focusTaskFormField(m.formFocus - 1)
	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		switch m.formFocus {
		case taskFieldPriority:
			m.priorityIdx = wrap(m.priorityIdx+delta, len(priorityOptions))
			return m, nil
		case taskFieldStatus:
			m.statusIdx = wrap(m.statusIdx+delta, len(statusOptions))
			return m, nil
		}
	case "enter":
		return m.submitTaskForm()
	}

	if m.formFocus < len(m.formInputs) {
		var cmd tea.Cmd
		m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
		return m, cmd
	}
	return m, nil
}

// startTaskForm opens the add form, or the edit form when task is set.
func (m *Model) startTaskForm(task *domain.Task) tea.Cmd {
	m.formFocus = 0
	m.formErr = ""
	m.priorityIdx = 1
	m.statusIdx = 0
	m.formInputs = make([]textinput.Model, taskFieldCount)
	m.formInputs[taskFieldTitle] = newModalInput("", "task title (required)", "", 120)
	m.formInputs[taskFieldRevenue] = newModalInput("", "revenue, e.g. 2500", "", 24)
	m.formInputs[taskFieldTime] = newModalInput("", "hours spent, e.g. 4.5", "", 24)
	m.formInputs[taskFieldPriority] = newModalInput("", "", "", 16)
	m.formInputs[taskFieldStatus] = newModalInput("", "", "", 16)
	m.formInputs[taskFieldNotes] = newModalInput("", "optional notes (markdown)", "", 500)

	if task != nil {
		m.formInputs[taskFieldTitle].SetValue(task.Title)
		m.formInputs[taskFieldRevenue].SetValue(strconv.FormatFloat(task.Revenue, 'f', -1, 64))
		m.formInputs[taskFieldTime].SetValue(strconv.FormatFloat(task.TimeTaken, 'f', -1, 64))
		m.formInputs[taskFieldNotes].SetValue(task.Notes)
		m.priorityIdx = priorityIndex(task.Priority)
		m.statusIdx = statusIndex(task.Status)
		m.mode = modeEditTask
		m.editingTaskID = task.ID
		m.status = "edit task"
	} else {
		m.mode = modeAddTask
		m.editingTaskID = ""
		m.status = "new task"
	}
	return m.focusTaskFormField(taskFieldTitle)
}

// focusTaskFormField focuses one form field; cycle fields take focus
// without a blinking input.
func (m *Model) focusTaskFormField(idx int) tea.Cmd {
	if len(m.formInputs) == 0 {
		return nil
	}
	idx = clamp(idx, 0, taskFieldCount-1)
	m.formFocus = idx
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	if idx == taskFieldPriority || idx == taskFieldStatus {
		return nil
	}
	return m.formInputs[idx].Focus()
}

// submitTaskForm validates form values and issues the mutation.
func (m Model) submitTaskForm() (tea.Model, tea.Cmd) {
	title := strings.TrimSpace(m.formInputs[taskFieldTitle].Value())
	if title == "" {
		m.formErr = "title is required"
		return m, nil
	}
	// Duplicate titles among active tasks are rejected here; the store
	// deliberately does not enforce this.
	if m.store.TitleExists(title, m.editingTaskID) {
		m.formErr = fmt.Sprintf("a task titled %q already exists", title)
		return m, nil
	}
	revenue, err := parseFormFloat(m.formInputs[taskFieldRevenue].Value(), 0)
	if err != nil || revenue < 0 {
		m.formErr = "revenue must be a non-negative number"
		return m, nil
	}
	timeTaken, err := parseFormFloat(m.formInputs[taskFieldTime].Value(), 1)
	if err != nil {
		m.formErr = "time must be a number of hours"
		return m, nil
	}
	priority := priorityOptions[m.priorityIdx]
	status := statusOptions[m.statusIdx]
	notes := strings.TrimSpace(m.formInputs[taskFieldNotes].Value())

	editingID := m.editingTaskID
	m.mode = modeNone
	m.editingTaskID = ""
	m.formErr = ""

	if editingID != "" {
		patch := domain.TaskPatch{
			Title:     &title,
			Revenue:   &revenue,
			TimeTaken: &timeTaken,
			Priority:  &priority,
			Status:    &status,
			Notes:     &notes,
		}
		return m, func() tea.Msg {
			if _, err := m.store.Update(context.Background(), editingID, patch); err != nil {
				return actionMsg{err: err}
			}
			return actionMsg{status: fmt.Sprintf("updated %q", truncate(title, 32))}
		}
	}
	in := app.AddTaskInput{
		Title:     title,
		Revenue:   revenue,
		TimeTaken: timeTaken,
		Priority:  priority,
		Status:    status,
		Notes:     notes,
	}
	return m, func() tea.Msg {
		if _, err := m.store.Add(context.Background(), in); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("added %q", truncate(title, 32))}
	}
}

// confirmDelete commits the pending delete intent.
func (m Model) confirmDelete() (tea.Model, tea.Cmd) {
	id := m.confirmTaskID
	title := m.confirmTitle
	m.mode = modeNone
	m.confirmTaskID = ""
	return m, func() tea.Msg {
		if err := m.store.Delete(context.Background(), id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("deleted %q — press u to undo", truncate(title, 32))}
	}
}

// undoDeleteCmd restores the pending deleted task, if any.
func (m Model) undoDeleteCmd() tea.Cmd {
	return func() tea.Msg {
		restored, ok, err := m.store.UndoDelete(context.Background())
		if err != nil {
			return actionMsg{err: err}
		}
		if !ok {
			return actionMsg{status: "nothing to undo"}
		}
		return actionMsg{status: fmt.Sprintf("restored %q", truncate(restored.Title, 32))}
	}
}

// updateStatusCmd advances one task's status.
func (m Model) updateStatusCmd(id string, status domain.Status) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.store.Update(context.Background(), id, domain.TaskPatch{Status: &status}); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: "status: " + statusLabels[status]}
	}
}

func (m Model) selectedTask() (domain.Task, bool) {
	if len(m.snap.Ranked) == 0 {
		return domain.Task{}, false
	}
	idx := clamp(m.selected, 0, len(m.snap.Ranked)-1)
	return m.snap.Ranked[idx].Task, true
}

func (m Model) taskByID(id string) (domain.Task, bool) {
	for _, t := range m.snap.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}

func newModalInput(prompt, placeholder, value string, limit int) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.CharLimit = limit
	if value != "" {
		in.SetValue(value)
	}
	return in
}

func parseFormFloat(raw string, empty float64) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return empty, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func priorityIndex(p domain.Priority) int {
	for idx, option := range priorityOptions {
		if option == p {
			return idx
		}
	}
	return 1
}

func statusIndex(s domain.Status) int {
	for idx, option := range statusOptions {
		if option == s {
			return idx
		}
	}
	return 0
}

func nextStatus(s domain.Status) domain.Status {
	return statusOptions[wrap(statusIndex(s)+1, len(statusOptions))]
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func wrap(v, n int) int {
	if n <= 0 {
		return 0
	}
	return ((v % n) + n) % n
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= maxRunes {
		return s
	}
	if maxRunes <= 1 {
		return string(rs[:maxRunes])
	}
	return string(rs[:maxRunes-1]) + "…"
}
