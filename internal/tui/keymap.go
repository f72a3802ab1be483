package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit        key.Binding
	toggleHelp  key.Binding
	moveUp      key.Binding
	moveDown    key.Binding
	addTask     key.Binding
	editTask    key.Binding
	taskInfo    key.Binding
	deleteTask  key.Binding
	undo        key.Binding
	dismissUndo key.Binding
	cycleStatus key.Binding
	analytics   key.Binding
	reload      key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		toggleHelp:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		moveUp:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "task up")),
		moveDown:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "task down")),
		addTask:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new task")),
		editTask:    key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit task")),
		taskInfo:    key.NewBinding(key.WithKeys("i", "enter"), key.WithHelp("i/enter", "task info")),
		deleteTask:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete task")),
		undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo delete")),
		dismissUndo: key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss undo")),
		cycleStatus: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle status")),
		analytics:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "analytics")),
		reload:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addTask, k.editTask, k.taskInfo, k.deleteTask, k.undo, k.analytics, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.addTask, k.editTask, k.taskInfo, k.deleteTask, k.cycleStatus},
		{k.undo, k.dismissUndo, k.analytics, k.reload},
		{k.moveUp, k.moveDown, k.toggleHelp, k.quit},
	}
}

// applyKeyOverrides rebinds single-rune keys configured in the TOML
// config file.
func (k keyMap) applyKeyOverrides(cfg KeyConfig) keyMap {
	if cfg.Undo != "" {
		k.undo = key.NewBinding(key.WithKeys(cfg.Undo), key.WithHelp(cfg.Undo, "undo delete"))
	}
	if cfg.DismissUndo != "" {
		k.dismissUndo = key.NewBinding(key.WithKeys(cfg.DismissUndo), key.WithHelp(cfg.DismissUndo, "dismiss undo"))
	}
	if cfg.Analytics != "" {
		k.analytics = key.NewBinding(key.WithKeys(cfg.Analytics), key.WithHelp(cfg.Analytics, "analytics"))
	}
	return k
}
