package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// debugLogf appends a line to the debug log file when
// DOCDESK_TUI_DEBUG_LOG is set. Used for events that must not surface in
// the UI (missing modal handles, slow renders).
func (m *appModel) debugLogf(format string, args ...any) {
	path := strings.TrimSpace(m.debugLogPath)
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}

// routeSlog points the default slog logger away from stderr while the TUI
// owns the terminal. The resilience layer logs retries/breaker transitions
// through slog; writing those to stderr would corrupt the alt screen.
func routeSlog(debugLogPath string) func() {
	var w io.Writer = io.Discard
	var f *os.File
	if p := strings.TrimSpace(debugLogPath); p != "" {
		if ff, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644); err == nil {
			w = ff
			f = ff
		}
	}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(w, nil)))
	return func() {
		slog.SetDefault(prev)
		if f != nil {
			_ = f.Close()
		}
	}
}
