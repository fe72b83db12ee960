package store

import (
	"context"

	"docdesk/internal/model"
)

// Lister is the slice of the DMS client the record store needs.
type Lister interface {
	List(ctx context.Context, q model.ListQuery, actingUser string) ([]model.DocumentRecord, error)
}

// Records holds the in-memory document collection plus loading/error state.
//
// It is owned by a single event loop (the TUI Update loop, or one CLI
// invocation) and is never mutated concurrently. Async fetches go through
// BeginRefresh/Fetch/ApplyRefresh so the caller's loop stays the only
// writer; Refresh composes the three for synchronous callers.
type Records struct {
	client  Lister
	session model.Session

	data    []model.DocumentRecord
	loading bool
	err     string
}

func NewRecords(client Lister, session model.Session) *Records {
	return &Records{client: client, session: session}
}

func (r *Records) Data() []model.DocumentRecord { return r.data }
func (r *Records) Loading() bool                { return r.loading }
func (r *Records) Err() string                  { return r.err }

// BeginRefresh marks the store as loading for the duration of a fetch.
func (r *Records) BeginRefresh() { r.loading = true }

// Fetch runs the external list call with the fixed query contract.
func (r *Records) Fetch(ctx context.Context) ([]model.DocumentRecord, error) {
	return r.client.List(ctx, model.DefaultListQuery(), r.session.CurrentUserLogin)
}

// ApplyRefresh folds a fetch result into the store.
//
// Success replaces the whole collection with the normalized records and
// clears any prior error. Failure keeps the previous collection, records a
// message (the error's own text, or a generic fallback) and returns an
// empty collection. Loading is cleared on every path.
func (r *Records) ApplyRefresh(docs []model.DocumentRecord, err error) []model.DocumentRecord {
	defer func() { r.loading = false }()

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Error fetching data"
		}
		r.err = msg
		return []model.DocumentRecord{}
	}

	normalized := Normalize(docs)
	r.data = normalized
	r.err = ""
	return normalized
}

// Refresh re-fetches the master list synchronously.
func (r *Records) Refresh(ctx context.Context) []model.DocumentRecord {
	r.BeginRefresh()
	docs, err := r.Fetch(ctx)
	return r.ApplyRefresh(docs, err)
}

// RemoveByKey drops the record with the given identifier, if present.
// Used for the optimistic local removal after a confirmed delete.
func (r *Records) RemoveByKey(refSeqNo int) {
	out := r.data[:0]
	for _, d := range r.data {
		if d.RefSeqNo != refSeqNo {
			out = append(out, d)
		}
	}
	r.data = out
}

// FindByKey returns the record with the given identifier, or nil.
func (r *Records) FindByKey(refSeqNo int) *model.DocumentRecord {
	for i := range r.data {
		if r.data[i].RefSeqNo == refSeqNo {
			return &r.data[i]
		}
	}
	return nil
}

// Normalize applies the client-side load defaults: list-typed sub-fields
// never stay nil and the derived primary flag starts blank.
func Normalize(docs []model.DocumentRecord) []model.DocumentRecord {
	out := make([]model.DocumentRecord, 0, len(docs))
	for _, d := range docs {
		if d.UploadedDocs == nil {
			d.UploadedDocs = []model.Attachment{}
		}
		d.IsPrimaryDocument = ""
		out = append(out, d)
	}
	return out
}
