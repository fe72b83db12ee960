package tui

import (
	"context"

	"docdesk/internal/model"
)

// API is the slice of the DMS client the table controller drives.
// *dms.Client satisfies it; tests substitute fakes.
type API interface {
	List(ctx context.Context, q model.ListQuery, actingUser string) ([]model.DocumentRecord, error)
	Delete(ctx context.Context, req model.DeleteRequest, actingUser string) (string, error)
	Update(ctx context.Context, doc model.DocumentRecord, actingUser string) (string, error)
	Upload(ctx context.Context, refSeqNo int, path string, actingUser string) (string, error)
}

type modalKind int

const (
	modalNone modalKind = iota
	modalEditForm
	modalUpload
	modalConfirmDelete
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

// refreshDoneMsg carries the result of an async master-list fetch.
//
// There is intentionally no request-generation guard: if two refreshes
// overlap, both complete and the later resolution wins.
type refreshDoneMsg struct {
	docs []model.DocumentRecord
	err  error
}

type deleteDoneMsg struct {
	doc     model.DocumentRecord
	message string
	err     error
}

type updateDoneMsg struct {
	message string
	err     error
}

type uploadDoneMsg struct {
	message string
	err     error
}

type noticeExpireMsg struct{ seq int }

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeError
)

// notice is a short-lived toast shown under the table.
type notice struct {
	level       noticeLevel
	title       string
	description string
}
