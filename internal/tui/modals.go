package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// modalBodyWidth is the usable content width inside a modal box.
func modalBodyWidth(width int) int {
	w := width - 12
	if w > 72 {
		w = 72
	}
	if w < 24 {
		w = 24
	}
	return w
}

func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Width(bodyW).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg)

	box := lipgloss.NewStyle().
		Padding(1, 2).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent)

	body := lipgloss.NewStyle().
		Width(bodyW).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(content)

	return box.Render(titleStyle.Render(title) + "\n\n" + body)
}

func renderConfirmModal(width int, title string, body string, confirmLabel string, cancelLabel string, focus confirmModalFocus) string {
	// Avoid borders here: some terminals show background artifacts when
	// nesting bordered components inside a modal with a background color.
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	}
	if focus == confirmFocusCancel {
		cancel = btnActive.Render(cancelLabel)
	}

	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width)
	help := styleMuted().Width(bodyW).Render("tab: focus   enter: select   esc: cancel")

	content := strings.Join([]string{
		body,
		"",
		controls,
		"",
		help,
	}, "\n")
	return renderModalBox(width, title, content)
}

// renderInputLine renders a labeled input row inside a modal, highlighting
// the focused field.
func renderInputLine(label string, rendered string, focused bool) string {
	st := lipgloss.NewStyle().
		Width(14).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg)
	if focused {
		st = st.Bold(true).Foreground(colorAccent)
	}
	return st.Render(label) + " " + rendered
}

func (m appModel) placeCentered(s string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
