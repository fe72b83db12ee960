package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"docdesk/internal/model"
)

// fakeAPI records calls; each operation can be primed with a result.
type fakeAPI struct {
	listDocs []model.DocumentRecord
	listErr  error
	listN    int

	deleteMsg string
	deleteErr error
	deleted   []model.DeleteRequest

	updateMsg string
	updated   []model.DocumentRecord

	uploadMsg   string
	uploadPaths []string
}

func (f *fakeAPI) List(_ context.Context, _ model.ListQuery, _ string) ([]model.DocumentRecord, error) {
	f.listN++
	return f.listDocs, f.listErr
}

func (f *fakeAPI) Delete(_ context.Context, req model.DeleteRequest, _ string) (string, error) {
	f.deleted = append(f.deleted, req)
	return f.deleteMsg, f.deleteErr
}

func (f *fakeAPI) Update(_ context.Context, doc model.DocumentRecord, _ string) (string, error) {
	f.updated = append(f.updated, doc)
	return f.updateMsg, nil
}

func (f *fakeAPI) Upload(_ context.Context, _ int, path string, _ string) (string, error) {
	f.uploadPaths = append(f.uploadPaths, path)
	return f.uploadMsg, nil
}

func testSession() model.Session {
	return model.Session{
		ServerURL:        "http://dms.local",
		CurrentUserLogin: "alice",
		CurrentUserName:  "Alice",
		Organization:     "ACME",
	}
}

func testDocs() []model.DocumentRecord {
	return []model.DocumentRecord{
		{RefSeqNo: 3, DocumentNo: "DOC-003", DocumentDescription: "Own open doc", UserName: "Alice"},
		{RefSeqNo: 2, DocumentNo: "DOC-002", DocumentDescription: "Verified doc", UserName: "Alice", DocumentStatus: "VERIFIED"},
		{RefSeqNo: 1, DocumentNo: "DOC-001", DocumentDescription: "Bobs doc", UserName: "Bob"},
	}
}

// newTestModel builds a sized, loaded model ready for key-driven tests.
func newTestModel(t *testing.T, api *fakeAPI) appModel {
	t.Helper()
	m := newAppModel(testSession(), api, nil, 10)

	var tm tea.Model
	tm, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = tm.(appModel)

	docs, err := m.records.Fetch(context.Background())
	tm, _ = m.Update(refreshDoneMsg{docs: docs, err: err})
	return tm.(appModel)
}

func key(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m appModel, keys ...string) appModel {
	for _, k := range keys {
		tm, _ := m.Update(key(k))
		m = tm.(appModel)
	}
	return m
}

func TestDelete_OwnOpenDocGoesThroughConfirm(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs(), deleteMsg: "Record removed"}
	m := newTestModel(t, api)

	// Cursor starts on row 0: Alice's open doc.
	m = press(m, "d")
	if m.modal != modalConfirmDelete {
		t.Fatalf("expected confirm modal, got %v", m.modal)
	}
	if len(api.deleted) != 0 {
		t.Fatalf("no server call before confirmation")
	}

	// Focus starts on Cancel; tab moves to Delete, enter confirms.
	m = press(m, "tab")
	tm, cmd := m.Update(key("enter"))
	m = tm.(appModel)
	if cmd == nil {
		t.Fatalf("confirm must produce the delete command")
	}
	msg := cmd()
	done, ok := msg.(deleteDoneMsg)
	if !ok {
		t.Fatalf("expected deleteDoneMsg, got %T", msg)
	}
	// The payload carries the record's uploader name, not the login.
	if len(api.deleted) != 1 || api.deleted[0].RefSeqNo != 3 || api.deleted[0].UserName != "Alice" {
		t.Fatalf("unexpected delete request: %+v", api.deleted)
	}

	tm, _ = m.Update(done)
	m = tm.(appModel)
	if len(m.records.Data()) != 2 {
		t.Fatalf("expected local removal of exactly one record, have %d", len(m.records.Data()))
	}
	if m.records.FindByKey(3) != nil {
		t.Fatalf("record 3 should be gone")
	}
	if m.notice == nil || m.notice.description != "Record removed" {
		t.Fatalf("server message should surface in the notice: %+v", m.notice)
	}
}

func TestDelete_DeniedByStatusMakesNoCallAndNoMutation(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs()}
	m := newTestModel(t, api)

	// Row 1 is Alice's VERIFIED doc.
	m = press(m, "j", "d")
	if m.modal != modalNone {
		t.Fatalf("denied delete must not open the confirm modal")
	}
	if len(api.deleted) != 0 {
		t.Fatalf("denied delete must not reach the server")
	}
	if len(m.records.Data()) != 3 {
		t.Fatalf("denied delete must not mutate the collection")
	}
	if m.notice == nil || m.notice.title != "Permission Denied" {
		t.Fatalf("expected permission notice, got %+v", m.notice)
	}
	if !strings.Contains(m.notice.description, "verified") {
		t.Fatalf("denial reason should name the status: %q", m.notice.description)
	}
}

func TestDelete_OtherUsersDocDeniedByOwnershipFirst(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs()}
	m := newTestModel(t, api)

	// Row 2 is Bob's doc.
	m = press(m, "j", "j", "d")
	if m.notice == nil || !strings.Contains(m.notice.description, "another user") {
		t.Fatalf("ownership denial expected, got %+v", m.notice)
	}
	if len(api.deleted) != 0 {
		t.Fatalf("denied delete must not reach the server")
	}
}

func TestDelete_DeclinedConfirmAbortsSilently(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs()}
	m := newTestModel(t, api)

	// Esc on the dialog.
	m = press(m, "d")
	if m.modal != modalConfirmDelete {
		t.Fatalf("expected confirm modal")
	}
	m = press(m, "esc")
	if m.modal != modalNone {
		t.Fatalf("esc should close the dialog")
	}

	// Enter with focus on Cancel (the default).
	m = press(m, "d")
	m = press(m, "enter")
	if m.modal != modalNone {
		t.Fatalf("enter on Cancel should close the dialog")
	}

	// "n" as the explicit decline key.
	m = press(m, "d", "n")
	if m.modal != modalNone {
		t.Fatalf("n should close the dialog")
	}

	if len(api.deleted) != 0 {
		t.Fatalf("declined delete must not reach the server")
	}
	if len(m.records.Data()) != 3 {
		t.Fatalf("declined delete must not mutate the collection")
	}
	if m.notice != nil {
		t.Fatalf("declining is silent, got notice %+v", m.notice)
	}
}

func TestTable_ChannelSourceFallsBackToOrganization(t *testing.T) {
	api := &fakeAPI{listDocs: []model.DocumentRecord{
		{RefSeqNo: 2, UserName: "Alice", ChannelSource: "Portal"},
		{RefSeqNo: 1, UserName: "Alice"},
	}}
	m := newTestModel(t, api)

	rows := m.tbl.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	const channelCol = 4
	if rows[0][channelCol] != "Portal" {
		t.Fatalf("explicit channel source should render as-is: %q", rows[0][channelCol])
	}
	// Blank channel source renders the session's organization.
	if rows[1][channelCol] != "ACME" {
		t.Fatalf("blank channel source should fall back to the organization: %q", rows[1][channelCol])
	}
}

func TestDelete_ServerFailureKeepsRecord(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs(), deleteErr: errors.New("boom")}
	m := newTestModel(t, api)

	m = press(m, "d", "tab")
	tm, cmd := m.Update(key("enter"))
	m = tm.(appModel)
	tm, _ = m.Update(cmd())
	m = tm.(appModel)

	if len(m.records.Data()) != 3 {
		t.Fatalf("failed delete must not remove locally")
	}
	if m.notice == nil || m.notice.level != noticeError {
		t.Fatalf("expected error notice, got %+v", m.notice)
	}
}

func TestRefreshFailure_KeepsDataAndShowsError(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs()}
	m := newTestModel(t, api)

	tm, _ := m.Update(refreshDoneMsg{err: errors.New("connection refused")})
	m = tm.(appModel)

	if len(m.records.Data()) != 3 {
		t.Fatalf("refresh failure must keep the previous collection")
	}
	if m.records.Err() != "connection refused" {
		t.Fatalf("error text: %q", m.records.Err())
	}
	if !strings.Contains(m.View(), "connection refused") {
		t.Fatalf("error should render inline")
	}
}

func TestFilterTyping_AppliesLive(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs()}
	m := newTestModel(t, api)

	m = press(m, "/", "b", "o", "b")
	if !m.filtering {
		t.Fatalf("expected filter input focus")
	}
	if m.engine.TotalRows() != 1 {
		t.Fatalf("live filter: expected 1 row, got %d", m.engine.TotalRows())
	}

	// Esc clears the filter entirely.
	m = press(m, "esc")
	if m.filtering || m.engine.Filter() != "" {
		t.Fatalf("esc should clear the filter")
	}
	if m.engine.TotalRows() != 3 {
		t.Fatalf("all rows should be back, got %d", m.engine.TotalRows())
	}
}

func TestEditModal_OpenBeforeAttachIsNoOp(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs()}
	m := newAppModel(testSession(), api, nil, 10)
	// No WindowSizeMsg yet: the form is not attached.
	tm, _ := m.Update(key("e"))
	m = tm.(appModel)
	if m.modal != modalNone {
		t.Fatalf("edit before attach must be a no-op")
	}
}

func TestEditSave_SendsEditedRecordAndRefreshes(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs(), updateMsg: "Saved"}
	m := newTestModel(t, api)

	m = press(m, "e")
	if m.modal != modalEditForm {
		t.Fatalf("expected edit modal")
	}
	m = press(m, "X")
	tm, cmd := m.Update(key("enter"))
	m = tm.(appModel)
	done := cmd()
	if len(api.updated) != 1 {
		t.Fatalf("expected one update call")
	}
	if got := api.updated[0].DocumentDescription; got != "Own open docX" {
		t.Fatalf("edited description: %q", got)
	}
	if api.updated[0].RefSeqNo != 3 {
		t.Fatalf("identity must survive the edit: %+v", api.updated[0])
	}

	listsBefore := api.listN
	tm, _ = m.Update(done)
	m = tm.(appModel)
	if m.modal != modalNone {
		t.Fatalf("save success must close the modal")
	}
	if api.listN != listsBefore {
		// The refresh command has not run yet; it is returned, not executed.
		t.Fatalf("refresh should be issued as a command")
	}
	if !m.records.Loading() {
		t.Fatalf("save success must begin a refresh")
	}
}

func TestUploadSuccess_ClosesModalAndRefreshes(t *testing.T) {
	api := &fakeAPI{listDocs: testDocs(), uploadMsg: "Stored"}
	m := newTestModel(t, api)

	m = press(m, "u")
	if m.modal != modalUpload {
		t.Fatalf("expected upload modal")
	}
	m = press(m, "/", "t", "m", "p")
	tm, cmd := m.Update(key("enter"))
	m = tm.(appModel)
	done := cmd()
	if len(api.uploadPaths) != 1 || api.uploadPaths[0] != "/tmp" {
		t.Fatalf("upload path: %+v", api.uploadPaths)
	}

	tm, _ = m.Update(done)
	m = tm.(appModel)
	if m.modal != modalNone {
		t.Fatalf("upload success must close the modal")
	}
	if !m.records.Loading() {
		t.Fatalf("upload success must begin a refresh")
	}
	if m.notice == nil || m.notice.description != "Stored" {
		t.Fatalf("server message should surface: %+v", m.notice)
	}
}

func TestPaginationKeys(t *testing.T) {
	docs := make([]model.DocumentRecord, 0, 25)
	for i := 1; i <= 25; i++ {
		docs = append(docs, model.DocumentRecord{RefSeqNo: i, UserName: "Alice"})
	}
	api := &fakeAPI{listDocs: docs}
	m := newTestModel(t, api)

	m = press(m, "l")
	if m.engine.PageIndex() != 1 {
		t.Fatalf("l should advance a page, got %d", m.engine.PageIndex())
	}
	m = press(m, "G")
	if m.engine.PageIndex() != 2 {
		t.Fatalf("G should jump to the last page, got %d", m.engine.PageIndex())
	}
	m = press(m, "l")
	if m.engine.PageIndex() != 2 {
		t.Fatalf("l on the last page is a no-op")
	}
	m = press(m, "g")
	if m.engine.PageIndex() != 0 {
		t.Fatalf("g should jump to the first page")
	}

	m = press(m, "]")
	if m.engine.PageSize() != 20 {
		t.Fatalf("] should grow the page size, got %d", m.engine.PageSize())
	}
	m = press(m, "[", "[")
	if m.engine.PageSize() != 10 {
		t.Fatalf("[ should stop at the smallest size, got %d", m.engine.PageSize())
	}
}

func TestView_EmptyCollectionShowsPlaceholder(t *testing.T) {
	api := &fakeAPI{listDocs: []model.DocumentRecord{}}
	m := newTestModel(t, api)

	if !strings.Contains(m.View(), "No data found") {
		t.Fatalf("empty collection should render the placeholder")
	}
}
