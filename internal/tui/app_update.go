package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"docdesk/internal/model"
	"docdesk/internal/perm"
	"docdesk/internal/store"
	"docdesk/internal/view"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tbl.SetColumns(recordColumns(m.tableWidth()))
		h := m.height - 8
		if h < 3 {
			h = 3
		}
		m.tbl.SetHeight(h)
		if !m.seenWindowSize {
			m.seenWindowSize = true
			// Modal sub-models attach on first sizing; open requests that
			// arrive earlier are logged and dropped.
			m.editForm = newEditFormState()
			m.upload = newUploadModalState()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.records.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case refreshDoneMsg:
		m.engine.SetRows(m.records.ApplyRefresh(msg.docs, msg.err))
		m.syncTable()
		if msg.err != nil {
			_ = m.audit.Append(context.Background(), m.session.CurrentUserLogin, store.AuditRefreshError, 0, msg.err.Error())
		}
		return m, nil

	case deleteDoneMsg:
		if msg.err != nil {
			return m, m.setNotice(noticeError, "Delete failed", msg.err.Error())
		}
		// Local removal happens only after the server confirmed.
		m.records.RemoveByKey(msg.doc.RefSeqNo)
		m.engine.SetRows(m.records.Data())
		m.syncTable()
		text := msg.message
		if text == "" {
			text = "Document deleted."
		}
		_ = m.audit.Append(context.Background(), m.session.CurrentUserLogin, store.AuditDelete, msg.doc.RefSeqNo, text)
		return m, m.setNotice(noticeSuccess, "Deleted", text)

	case updateDoneMsg:
		if msg.err != nil {
			// The form stays open so the user can retry or cancel.
			return m, m.setNotice(noticeError, "Save failed", msg.err.Error())
		}
		refSeqNo := 0
		if m.editForm != nil {
			refSeqNo = m.editForm.refSeqNo
		}
		m.modal = modalNone
		text := msg.message
		if text == "" {
			text = "Document updated."
		}
		_ = m.audit.Append(context.Background(), m.session.CurrentUserLogin, store.AuditUpdate, refSeqNo, text)
		return m, tea.Batch(m.setNotice(noticeSuccess, "Saved", text), m.startRefresh())

	case uploadDoneMsg:
		if msg.err != nil {
			return m, m.setNotice(noticeError, "Upload failed", msg.err.Error())
		}
		refSeqNo := 0
		if m.upload != nil {
			refSeqNo = m.upload.refSeqNo
		}
		m.modal = modalNone
		text := msg.message
		if text == "" {
			text = "Document uploaded."
		}
		_ = m.audit.Append(context.Background(), m.session.CurrentUserLogin, store.AuditUpload, refSeqNo, text)
		return m, tea.Batch(m.setNotice(noticeSuccess, "Uploaded", text), m.startRefresh())

	case noticeExpireMsg:
		// A newer notice may have replaced this one; only the matching
		// sequence clears.
		if msg.seq == m.noticeSeq {
			m.notice = nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.modal {
	case modalConfirmDelete:
		return m.updateConfirmDeleteKey(msg)
	case modalEditForm:
		return m.updateEditFormKey(msg)
	case modalUpload:
		return m.updateUploadKey(msg)
	}

	if m.filtering {
		return m.updateFilterKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.filtering = true
		m.filterInput.Focus()
		return m, textinput.Blink

	case "r":
		return m, m.startRefresh()

	case "enter", "v":
		m.showDetail = !m.showDetail
		m.tbl.SetColumns(recordColumns(m.tableWidth()))
		return m, nil

	case "e":
		return m.openEditForm()

	case "u":
		return m.openUploadModal()

	case "d":
		return m.requestDelete()

	case "h", "left":
		m.engine.PrevPage()
		m.syncTable()
		return m, nil
	case "l", "right":
		m.engine.NextPage()
		m.syncTable()
		return m, nil
	case "g":
		m.engine.FirstPage()
		m.syncTable()
		return m, nil
	case "G":
		m.engine.LastPage()
		m.syncTable()
		return m, nil

	case "[":
		m.cyclePageSize(-1)
		return m, nil
	case "]":
		m.cyclePageSize(1)
		return m, nil

	case "s":
		m.cycleSortColumn()
		return m, nil
	case "S":
		m.toggleSortDirection()
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m appModel) updateFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.engine.SetFilter("")
		m.syncTable()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	// The filter applies live, keystroke by keystroke.
	m.engine.SetFilter(m.filterInput.Value())
	m.syncTable()
	return m, cmd
}

// requestDelete runs the permission gate before the confirm dialog ever
// shows. A denial never reaches the server, but it is audited locally.
func (m appModel) requestDelete() (tea.Model, tea.Cmd) {
	doc := m.selectedDoc()
	if doc == nil {
		return m, m.setNotice(noticeInfo, "Delete", "No document selected.")
	}
	if reason := perm.CanModifyDocument(doc, m.session); reason != "" {
		_ = m.audit.Append(context.Background(), m.session.CurrentUserLogin, store.AuditDeleteDenied, doc.RefSeqNo, reason)
		return m, m.setNotice(noticeError, "Permission Denied", reason)
	}
	m.modal = modalConfirmDelete
	m.confirmDoc = *doc
	m.confirmFocus = confirmFocusCancel
	return m, nil
}

func (m appModel) updateConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
		return m, nil
	case "tab", "shift+tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.modal = modalNone
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	doc := m.confirmDoc
	m.modal = modalNone
	return m, m.deleteCmd(doc)
}

func (m appModel) openEditForm() (tea.Model, tea.Cmd) {
	if m.editForm == nil {
		m.debugLogf("edit form requested before attach; ignoring")
		return m, nil
	}
	doc := m.selectedDoc()
	if doc == nil {
		return m, m.setNotice(noticeInfo, "Edit", "No document selected.")
	}
	m.editForm.load(*doc)
	m.modal = modalEditForm
	return m, textinput.Blink
}

func (m appModel) openUploadModal() (tea.Model, tea.Cmd) {
	if m.upload == nil {
		m.debugLogf("upload modal requested before attach; ignoring")
		return m, nil
	}
	doc := m.selectedDoc()
	if doc == nil {
		return m, m.setNotice(noticeInfo, "Upload", "No document selected.")
	}
	m.upload.load(*doc)
	m.modal = modalUpload
	return m, textinput.Blink
}

func (m *appModel) cyclePageSize(dir int) {
	cur := m.engine.PageSize()
	for i, n := range view.PageSizes {
		if n == cur {
			j := i + dir
			if j < 0 || j >= len(view.PageSizes) {
				return
			}
			m.engine.SetPageSize(view.PageSizes[j])
			m.syncTable()
			return
		}
	}
}

func (m *appModel) cycleSortColumn() {
	if len(m.sortKeys) == 0 {
		m.sortKeys = []view.SortKey{{Col: view.ColRefNo}}
	} else if m.sortKeys[0].Col == view.ColDocs {
		m.sortKeys = nil
	} else {
		m.sortKeys = []view.SortKey{{Col: m.sortKeys[0].Col + 1, Desc: m.sortKeys[0].Desc}}
	}
	m.engine.SetSort(m.sortKeys...)
	m.syncTable()
}

func (m *appModel) toggleSortDirection() {
	if len(m.sortKeys) == 0 {
		return
	}
	m.sortKeys[0].Desc = !m.sortKeys[0].Desc
	m.engine.SetSort(m.sortKeys...)
	m.syncTable()
}

func (m *appModel) startRefresh() tea.Cmd {
	m.records.BeginRefresh()
	return tea.Batch(m.spin.Tick, m.refreshCmd())
}

func (m appModel) refreshCmd() tea.Cmd {
	rec := m.records
	return func() tea.Msg {
		docs, err := rec.Fetch(context.Background())
		return refreshDoneMsg{docs: docs, err: err}
	}
}

func (m appModel) deleteCmd(doc model.DocumentRecord) tea.Cmd {
	client := m.client
	// The payload names the record's own uploader, not the acting login;
	// the identity header carries who is asking.
	req := model.DeleteRequest{UserName: doc.UserName, RefSeqNo: doc.RefSeqNo}
	actingUser := m.session.CurrentUserLogin
	return func() tea.Msg {
		message, err := client.Delete(context.Background(), req, actingUser)
		return deleteDoneMsg{doc: doc, message: message, err: err}
	}
}

func (m appModel) updateCmd(doc model.DocumentRecord) tea.Cmd {
	client := m.client
	actingUser := m.session.CurrentUserLogin
	return func() tea.Msg {
		message, err := client.Update(context.Background(), doc, actingUser)
		return updateDoneMsg{message: message, err: err}
	}
}

func (m appModel) uploadCmd(refSeqNo int, path string) tea.Cmd {
	client := m.client
	actingUser := m.session.CurrentUserLogin
	return func() tea.Msg {
		message, err := client.Upload(context.Background(), refSeqNo, path, actingUser)
		return uploadDoneMsg{message: message, err: err}
	}
}
