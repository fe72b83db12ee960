package tui

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docdesk/internal/model"
	"docdesk/internal/store"
	"docdesk/internal/view"
)

const noticeDuration = 4 * time.Second

type appModel struct {
	session model.Session
	client  API
	records *store.Records
	audit   *store.AuditLog
	engine  *view.Engine

	tbl         table.Model
	spin        spinner.Model
	filterInput textinput.Model
	filtering   bool

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize;
	// it is also the point where the modal sub-models get attached.
	seenWindowSize bool

	showDetail bool

	modal        modalKind
	confirmFocus confirmModalFocus
	confirmDoc   model.DocumentRecord
	editForm     *editFormState
	upload       *uploadModalState

	notice    *notice
	noticeSeq int

	sortKeys []view.SortKey

	debugLogPath string
}

func newAppModel(session model.Session, client API, audit *store.AuditLog, pageSize int) appModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter"
	fi.CharLimit = 120

	eng := view.NewEngine()
	eng.SetPageSize(pageSize)

	return appModel{
		session:      session,
		client:       client,
		records:      store.NewRecords(client, session),
		audit:        audit,
		engine:       eng,
		tbl:          newRecordsTable(),
		spin:         sp,
		filterInput:  fi,
		debugLogPath: os.Getenv("DOCDESK_TUI_DEBUG_LOG"),
	}
}

func (m appModel) Init() tea.Cmd {
	// Exactly one refresh is fired on startup; later refreshes are
	// user-driven or follow a successful mutation.
	m.records.BeginRefresh()
	return tea.Batch(m.spin.Tick, m.refreshCmd())
}

func newRecordsTable() table.Model {
	t := table.New(
		table.WithColumns(recordColumns(120)),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		Bold(true).
		Foreground(colorHeaderFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorMuted).
		BorderBottom(true)
	st.Selected = st.Selected.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(false)
	t.SetStyles(st)
	return t
}

func recordColumns(width int) []table.Column {
	// Fixed narrow columns first; the description gets the slack.
	fixed := 7 + 14 + 12 + 14 + 12 + 14 + 12 + 18 + 6
	desc := width - fixed - 10
	if desc < 16 {
		desc = 16
	}
	if desc > 44 {
		desc = 44
	}
	return []table.Column{
		{Title: "Ref No", Width: 7},
		{Title: "Document No", Width: 14},
		{Title: "Document Name", Width: desc},
		{Title: "Uploader", Width: 12},
		{Title: "Channel Source", Width: 14},
		{Title: "Related To", Width: 12},
		{Title: "Category", Width: 14},
		{Title: "Status", Width: 12},
		{Title: "Assigned To", Width: 18},
		{Title: "Docs", Width: 6},
	}
}

// syncTable rebuilds the table rows from the engine's current page and keeps
// the cursor inside the page.
func (m *appModel) syncTable() {
	page := m.engine.Page()
	rows := make([]table.Row, 0, len(page))
	for _, d := range page {
		rows = append(rows, table.Row{
			strconv.Itoa(d.RefSeqNo),
			d.DocumentNo,
			d.DocumentDescription,
			d.UserName,
			d.DisplayChannelSource(m.session.Organization),
			d.RelatedTo,
			d.RelatedCategory,
			d.DocumentStatus,
			d.AssignedUser,
			strconv.Itoa(d.NumberOfDocuments),
		})
	}
	m.tbl.SetRows(rows)
	if c := m.tbl.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
	if len(rows) == 0 {
		m.tbl.SetCursor(0)
	}
}

// selectedDoc returns the record under the cursor, or nil when the page is
// empty.
func (m appModel) selectedDoc() *model.DocumentRecord {
	page := m.engine.Page()
	c := m.tbl.Cursor()
	if c < 0 || c >= len(page) {
		return nil
	}
	d := page[c]
	return &d
}

func (m *appModel) setNotice(level noticeLevel, title, description string) tea.Cmd {
	m.noticeSeq++
	seq := m.noticeSeq
	m.notice = &notice{level: level, title: title, description: description}
	return tea.Tick(noticeDuration, func(time.Time) tea.Msg {
		return noticeExpireMsg{seq: seq}
	})
}
