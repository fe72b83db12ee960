package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const detailPaneWidth = 46

// tableWidth is the horizontal space the table may use, accounting for the
// detail pane when it is open.
func (m appModel) tableWidth() int {
	w := m.width
	if m.showDetail {
		w -= detailPaneWidth
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m appModel) View() string {
	if m.width == 0 {
		return "Loading…"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderFilterLine())
	b.WriteString("\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	if line := m.renderNotice(); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}

	screen := b.String()

	switch m.modal {
	case modalConfirmDelete:
		body := fmt.Sprintf("Delete document #%d (%s)?\nThis cannot be undone.",
			m.confirmDoc.RefSeqNo, orDash(m.confirmDoc.DocumentDescription))
		return m.placeCentered(renderConfirmModal(m.width, "Confirm delete", body, "Delete", "Cancel", m.confirmFocus))
	case modalEditForm:
		return m.placeCentered(m.renderEditForm())
	case modalUpload:
		return m.placeCentered(m.renderUploadModal())
	}

	return screen
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Documents")
	who := styleMuted().Render(fmt.Sprintf("%s @ %s", m.session.CurrentUserName, m.session.ServerURL))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(who)
	if gap < 1 {
		gap = 1
	}
	return title + strings.Repeat(" ", gap) + who
}

func (m appModel) renderFilterLine() string {
	if m.filtering {
		return m.filterInput.View()
	}
	if f := m.engine.Filter(); f != "" {
		return styleMuted().Render("filter: ") + f
	}
	return styleMuted().Render("/ to filter")
}

func (m appModel) renderBody() string {
	if m.records.Loading() {
		return m.spin.View() + " Loading documents…"
	}
	if errText := m.records.Err(); errText != "" {
		return lipgloss.NewStyle().Foreground(colorError).Render(errText)
	}
	if m.engine.TotalRows() == 0 {
		return styleMuted().Render("No data found")
	}

	tableView := m.tbl.View()
	if !m.showDetail {
		return tableView
	}

	detail := ""
	if doc := m.selectedDoc(); doc != nil {
		detail = renderMarkdown(detailMarkdown(*doc, m.session.Organization), detailPaneWidth-2)
	}
	h := lipgloss.Height(tableView)
	left := normalizePane(tableView, m.tableWidth(), h)
	right := normalizePane(detail, detailPaneWidth, h)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m appModel) renderFooter() string {
	pageCount := m.engine.PageCount()
	pageLabel := "Page 0 of 0"
	if pageCount > 0 {
		pageLabel = fmt.Sprintf("Page %d of %d", m.engine.PageIndex()+1, pageCount)
	}
	stats := fmt.Sprintf("%s   %d records   %d/page", pageLabel, m.engine.TotalRows(), m.engine.PageSize())

	sortLabel := ""
	if keys := m.engine.Sort(); len(keys) > 0 {
		dir := "asc"
		if keys[0].Desc {
			dir = "desc"
		}
		sortLabel = fmt.Sprintf("   sort: %s %s", keys[0].Col, dir)
	}

	help := "r: refresh   e: edit   u: upload   d: delete   v: detail   h/l: page   [/]: size   s/S: sort   q: quit"
	return styleMuted().Render(stats+sortLabel) + "\n" + styleMuted().Render(truncateCell(help, m.width))
}

func (m appModel) renderNotice() string {
	if m.notice == nil {
		return ""
	}
	var st lipgloss.Style
	switch m.notice.level {
	case noticeError:
		st = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	case noticeSuccess:
		st = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	default:
		st = lipgloss.NewStyle().Foreground(colorWarn)
	}
	line := st.Render(m.notice.title)
	if m.notice.description != "" {
		line += " " + styleMuted().Render(m.notice.description)
	}
	return truncateCell(line, m.width)
}
