package tui

// TaskFieldConfig controls which columns the board renders.
type TaskFieldConfig struct {
	ShowRevenue bool
	ShowTime    bool
	ShowStatus  bool
	ShowNotes   bool
}

// KeyConfig carries rebindable single-rune keys.
type KeyConfig struct {
	Undo        string
	DismissUndo string
	Analytics   string
}

// RuntimeConfig groups the config-file options the model honors.
type RuntimeConfig struct {
	TaskFields      TaskFieldConfig
	ForecastHorizon int
	Keys            KeyConfig
}

type Option func(*Model)

func DefaultTaskFieldConfig() TaskFieldConfig {
	return TaskFieldConfig{
		ShowRevenue: true,
		ShowTime:    true,
		ShowStatus:  true,
		ShowNotes:   false,
	}
}

func WithRuntimeConfig(cfg RuntimeConfig) Option {
	return func(m *Model) {
		m.taskFields = cfg.TaskFields
		if cfg.ForecastHorizon > 0 {
			m.forecastHorizon = cfg.ForecastHorizon
		}
		m.keys = m.keys.applyKeyOverrides(cfg.Keys)
	}
}
