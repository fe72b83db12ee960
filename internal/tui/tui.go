package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"docdesk/internal/model"
	"docdesk/internal/store"
	"docdesk/internal/view"
)

// Options carries everything the TUI needs from the CLI layer.
type Options struct {
	Session  model.Session
	Client   API
	Audit    *store.AuditLog
	PageSize int
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	if opts.PageSize == 0 {
		opts.PageSize = view.DefaultPageSize
	}

	m := newAppModel(opts.Session, opts.Client, opts.Audit, opts.PageSize)
	restore := routeSlog(m.debugLogPath)
	defer restore()

	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
